package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/SscSPs/orsys_voucher_app/internal/core/domain"
	portssvc "github.com/SscSPs/orsys_voucher_app/internal/core/ports/services"
	"github.com/SscSPs/orsys_voucher_app/internal/dto"
	"github.com/SscSPs/orsys_voucher_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// voucherHandler handles HTTP requests related to vouchers.
type voucherHandler struct {
	voucherService portssvc.VoucherSvcFacade
	location       *time.Location
}

// newVoucherHandler creates a new voucherHandler.
func newVoucherHandler(vs portssvc.VoucherSvcFacade, loc *time.Location) *voucherHandler {
	return &voucherHandler{
		voucherService: vs,
		location:       loc,
	}
}

// registerVoucherRoutes registers routes related to vouchers.
func registerVoucherRoutes(rg *gin.RouterGroup, voucherService portssvc.VoucherSvcFacade, loc *time.Location) {
	h := newVoucherHandler(voucherService, loc)

	vouchers := rg.Group("/vouchers")
	{
		vouchers.GET("/verify/:slipNo", h.verifySlip)
		vouchers.POST("/:book", h.createVoucher)
		vouchers.GET("/:book", h.listVouchers)
		vouchers.GET("/:book/:id", h.getVoucher)
		vouchers.DELETE("/:book/:id", h.deleteVoucher)
	}
}

// createVoucher godoc
// @Summary Submit a voucher
// @Description Stores a cash receipt (cr) or payment (dr) voucher. Slip number and dates are assigned by the server.
// @Tags vouchers
// @Accept  json
// @Produce  json
// @Param   book path string true "Book (cr or dr)"
// @Param   voucher body dto.CreateVoucherRequest true "Voucher details"
// @Success 201 {object} dto.VoucherResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Failed to create voucher"
// @Security BearerAuth
// @Router /vouchers/{book} [post]
func (h *voucherHandler) createVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	book, ok := bookParam(c)
	if !ok {
		return
	}

	var req dto.CreateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateVoucher", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + bindingError(err)})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("user_id", userID), slog.String("book", string(book)))
	logger.Info("Received request to create voucher", slog.String("payment_from", req.PaymentFrom))

	voucher, err := h.voucherService.CreateVoucher(c.Request.Context(), book, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create voucher")
		return
	}

	logger.Info("Voucher created successfully", slog.String("voucher_id", voucher.ID), slog.Int64("slip_no", voucher.SlipNo))
	c.JSON(http.StatusCreated, dto.ToVoucherResponse(voucher))
}

// listVouchers godoc
// @Summary List vouchers
// @Description Pages through a book newest first. Malformed stored records are skipped and counted.
// @Tags vouchers
// @Produce  json
// @Param   book path string true "Book (cr or dr)"
// @Param   from query string false "Start date (YYYY-MM-DD)"
// @Param   to query string false "End date (YYYY-MM-DD), inclusive"
// @Param   status query string false "Payment status"
// @Param   limit query int false "Page size" default(50)
// @Param   nextToken query string false "Continuation token from the previous page"
// @Success 200 {object} dto.ListVouchersResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Failed to list vouchers"
// @Security BearerAuth
// @Router /vouchers/{book} [get]
func (h *voucherHandler) listVouchers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	book, ok := bookParam(c)
	if !ok {
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var query dto.ListVouchersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		logger.Warn("Failed to bind query params for ListVouchers", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + bindingError(err)})
		return
	}
	from, to, err := dayRange(query.From, query.To, h.location)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	params := dto.ListVouchersParams{
		Book:   book,
		From:   from,
		To:     to,
		Status: domain.PaymentStatus(query.Status),
		Limit:  query.Limit,
	}
	if query.NextToken != "" {
		params.NextToken = &query.NextToken
	}

	logger = logger.With(slog.String("user_id", userID), slog.String("book", string(book)))
	resp, err := h.voucherService.ListVouchers(c.Request.Context(), params, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list vouchers")
		return
	}

	logger.Info("Vouchers listed successfully", slog.Int("count", len(resp.Vouchers)), slog.Int("skipped", resp.SkippedCount))
	c.JSON(http.StatusOK, resp)
}

// getVoucher godoc
// @Summary Get a voucher
// @Tags vouchers
// @Produce  json
// @Param   book path string true "Book (cr or dr)"
// @Param   id path string true "Voucher ID"
// @Success 200 {object} dto.VoucherResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Voucher not found"
// @Failure 422 {object} map[string]string "Stored voucher is malformed"
// @Failure 500 {object} map[string]string "Failed to retrieve voucher"
// @Security BearerAuth
// @Router /vouchers/{book}/{id} [get]
func (h *voucherHandler) getVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	book, ok := bookParam(c)
	if !ok {
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	voucherID := c.Param("id")

	voucher, err := h.voucherService.GetVoucher(c.Request.Context(), book, voucherID, userID)
	if err != nil {
		respondServiceError(c, logger.With(slog.String("voucher_id", voucherID)), err, "Failed to retrieve voucher")
		return
	}
	c.JSON(http.StatusOK, dto.ToVoucherResponse(voucher))
}

// verifySlip godoc
// @Summary Verify a receipt slip
// @Description Looks up a cash receipt by its slip number
// @Tags vouchers
// @Produce  json
// @Param   slipNo path int true "Slip number"
// @Success 200 {object} dto.VoucherResponse
// @Failure 400 {object} map[string]string "Invalid slip number"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Slip not found"
// @Security BearerAuth
// @Router /vouchers/verify/{slipNo} [get]
func (h *voucherHandler) verifySlip(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	slipNo, err := strconv.ParseInt(c.Param("slipNo"), 10, 64)
	if err != nil || slipNo <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Slip number must be a positive integer"})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	voucher, err := h.voucherService.VerifySlip(c.Request.Context(), slipNo, userID)
	if err != nil {
		respondServiceError(c, logger.With(slog.Int64("slip_no", slipNo)), err, "Failed to verify slip")
		return
	}
	c.JSON(http.StatusOK, dto.ToVoucherResponse(voucher))
}

// deleteVoucher godoc
// @Summary Delete a voucher
// @Description Permanently removes a voucher
// @Tags vouchers
// @Param   book path string true "Book (cr or dr)"
// @Param   id path string true "Voucher ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Voucher not found"
// @Failure 500 {object} map[string]string "Failed to delete voucher"
// @Security BearerAuth
// @Router /vouchers/{book}/{id} [delete]
func (h *voucherHandler) deleteVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	book, ok := bookParam(c)
	if !ok {
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	voucherID := c.Param("id")

	logger = logger.With(slog.String("user_id", userID), slog.String("voucher_id", voucherID))
	if err := h.voucherService.DeleteVoucher(c.Request.Context(), book, voucherID, userID); err != nil {
		respondServiceError(c, logger, err, "Failed to delete voucher")
		return
	}

	logger.Info("Voucher deleted successfully")
	c.Status(http.StatusNoContent)
}
