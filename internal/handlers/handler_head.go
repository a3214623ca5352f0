package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/orsys_voucher_app/internal/core/domain"
	portssvc "github.com/SscSPs/orsys_voucher_app/internal/core/ports/services"
	"github.com/SscSPs/orsys_voucher_app/internal/dto"
	"github.com/SscSPs/orsys_voucher_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// headHandler handles HTTP requests for payment heads
type headHandler struct {
	headService portssvc.HeadSvcFacade
}

// newHeadHandler creates a new headHandler
func newHeadHandler(hs portssvc.HeadSvcFacade) *headHandler {
	return &headHandler{headService: hs}
}

// registerHeadRoutes registers routes related to payment heads
func registerHeadRoutes(rg *gin.RouterGroup, headService portssvc.HeadSvcFacade) {
	h := newHeadHandler(headService)

	heads := rg.Group("/heads")
	{
		heads.GET("", h.listHeads)
		heads.POST("", h.createHead)
		heads.GET("/:id", h.getHead)
		heads.PUT("/:id", h.updateHead)
		heads.DELETE("/:id", h.deleteHead)
	}
}

// createHead godoc
// @Summary Create a payment head
// @Description Adds a payment head that can be selected on new vouchers
// @Tags heads
// @Accept json
// @Produce json
// @Param head body dto.CreateHeadRequest true "Head details"
// @Success 201 {object} dto.HeadResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 409 {object} map[string]string "Head name already used"
// @Failure 500 {object} map[string]string "Failed to create head"
// @Security BearerAuth
// @Router /heads [post]
func (h *headHandler) createHead(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var req dto.CreateHeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for CreateHead", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + bindingError(err)})
		return
	}

	head, err := h.headService.CreateHead(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger.With(slog.String("user_id", userID)), err, "Failed to create head")
		return
	}

	logger.Info("Head created", slog.String("head_id", head.HeadID), slog.String("name", head.Name))
	c.JSON(http.StatusCreated, dto.ToHeadResponse(head))
}

// listHeads godoc
// @Summary List payment heads
// @Tags heads
// @Produce json
// @Param status query string false "active or inactive"
// @Success 200 {array} dto.HeadResponse
// @Failure 400 {object} map[string]string "Invalid status"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list heads"
// @Security BearerAuth
// @Router /heads [get]
func (h *headHandler) listHeads(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	heads, err := h.headService.ListHeads(c.Request.Context(), domain.HeadStatus(c.Query("status")))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list heads")
		return
	}
	c.JSON(http.StatusOK, dto.ToListHeadResponse(heads))
}

// getHead godoc
// @Summary Get a payment head
// @Tags heads
// @Produce json
// @Param id path string true "Head ID"
// @Success 200 {object} dto.HeadResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Head not found"
// @Failure 500 {object} map[string]string "Failed to get head"
// @Security BearerAuth
// @Router /heads/{id} [get]
func (h *headHandler) getHead(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	headID := c.Param("id")

	head, err := h.headService.GetHead(c.Request.Context(), headID)
	if err != nil {
		respondServiceError(c, logger.With(slog.String("head_id", headID)), err, "Failed to get head")
		return
	}
	c.JSON(http.StatusOK, dto.ToHeadResponse(head))
}

// updateHead godoc
// @Summary Update a payment head
// @Tags heads
// @Accept json
// @Produce json
// @Param id path string true "Head ID"
// @Param head body dto.UpdateHeadRequest true "Fields to change"
// @Success 200 {object} dto.HeadResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Head not found"
// @Failure 409 {object} map[string]string "Head name already used"
// @Failure 500 {object} map[string]string "Failed to update head"
// @Security BearerAuth
// @Router /heads/{id} [put]
func (h *headHandler) updateHead(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	headID := c.Param("id")

	var req dto.UpdateHeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + bindingError(err)})
		return
	}

	head, err := h.headService.UpdateHead(c.Request.Context(), headID, req, userID)
	if err != nil {
		respondServiceError(c, logger.With(slog.String("head_id", headID)), err, "Failed to update head")
		return
	}
	c.JSON(http.StatusOK, dto.ToHeadResponse(head))
}

// deleteHead godoc
// @Summary Delete a payment head
// @Tags heads
// @Param id path string true "Head ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Head not found"
// @Failure 500 {object} map[string]string "Failed to delete head"
// @Security BearerAuth
// @Router /heads/{id} [delete]
func (h *headHandler) deleteHead(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	headID := c.Param("id")

	if err := h.headService.DeleteHead(c.Request.Context(), headID, userID); err != nil {
		respondServiceError(c, logger.With(slog.String("head_id", headID)), err, "Failed to delete head")
		return
	}

	logger.Info("Head deleted", slog.String("head_id", headID))
	c.Status(http.StatusNoContent)
}
