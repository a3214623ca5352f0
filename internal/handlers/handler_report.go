package handlers

import (
	"bytes"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/orsys_voucher_app/internal/core/domain"
	portssvc "github.com/SscSPs/orsys_voucher_app/internal/core/ports/services"
	"github.com/SscSPs/orsys_voucher_app/internal/dto"
	"github.com/SscSPs/orsys_voucher_app/internal/export"
	"github.com/SscSPs/orsys_voucher_app/internal/middleware"
	"github.com/SscSPs/orsys_voucher_app/internal/utils/aggregation"
	"github.com/gin-gonic/gin"
)

// reportHandler handles HTTP requests for voucher reports
type reportHandler struct {
	reportService portssvc.ReportService
	location      *time.Location
	now           func() time.Time
}

// newReportHandler creates a new reportHandler
func newReportHandler(rs portssvc.ReportService, loc *time.Location) *reportHandler {
	return &reportHandler{
		reportService: rs,
		location:      loc,
		now:           time.Now,
	}
}

// registerReportRoutes registers routes for reports
func registerReportRoutes(rg *gin.RouterGroup, reportService portssvc.ReportService, loc *time.Location) {
	h := newReportHandler(reportService, loc)

	reports := rg.Group("/reports")
	{
		reports.GET("/cash-balance", h.getCashBalance)
		reports.GET("/:book", h.getVoucherReport)
		reports.GET("/:book/aggregate", h.getAggregate)
		reports.GET("/:book/export", h.exportReport)
	}
}

// filterFromQuery binds the shared report query and resolves its date range.
func (h *reportHandler) filterFromQuery(c *gin.Context, logger *slog.Logger, book domain.Book, q dto.ReportQueryParams) (domain.VoucherFilter, bool) {
	from, to, err := reportRange(q.From, q.To, h.now(), h.location)
	if err != nil {
		logger.Warn("Invalid report range", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return domain.VoucherFilter{}, false
	}
	return domain.VoucherFilter{
		Book:   book,
		From:   from,
		To:     to,
		Status: domain.PaymentStatus(q.Status),
	}, true
}

// getVoucherReport godoc
// @Summary Voucher report
// @Description Lists vouchers between two dates (inclusive, business time zone) with summary totals and completion rate
// @Tags reports
// @Produce json
// @Param book path string true "Book (cr or dr)"
// @Param from query string false "Start date (YYYY-MM-DD)" default(first day of current month)
// @Param to query string false "End date (YYYY-MM-DD)" default(current date)
// @Param status query string false "Payment status"
// @Success 200 {object} dto.VoucherReportResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/{book} [get]
func (h *reportHandler) getVoucherReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	book, ok := bookParam(c)
	if !ok {
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var q dto.ReportQueryParams
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + bindingError(err)})
		return
	}
	filter, ok := h.filterFromQuery(c, logger, book, q)
	if !ok {
		return
	}

	logger = logger.With(slog.String("user_id", userID), slog.String("book", string(book)))
	logger.Info("Received request to generate voucher report")

	report, err := h.reportService.VoucherReport(c.Request.Context(), filter, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to generate report")
		return
	}

	logger.Info("Voucher report generated successfully", slog.Int("count", len(report.Vouchers)))
	c.JSON(http.StatusOK, dto.ToVoucherReportResponse(report, h.location))
}

// getAggregate godoc
// @Summary Grouped voucher totals
// @Description Groups vouchers by date, pointPerson, paymentMode, paymentFrom, paymentHead, paymentStatus, weekday, amountRange or month
// @Tags reports
// @Produce json
// @Param book path string true "Book (cr or dr)"
// @Param groupBy query string true "Grouping"
// @Param leaderboard query bool false "Sort categorical groups by amount, largest first"
// @Param limit query int false "Keep only the first N categorical groups"
// @Param year query int false "Year for month grouping" default(current year)
// @Param exclude query []string false "Categorical keys to leave out"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param status query string false "Payment status"
// @Success 200 {object} dto.AggregateResponse
// @Failure 400 {object} map[string]string "Invalid grouping or input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Failed to aggregate vouchers"
// @Security BearerAuth
// @Router /reports/{book}/aggregate [get]
func (h *reportHandler) getAggregate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	book, ok := bookParam(c)
	if !ok {
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var q dto.AggregateParams
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + bindingError(err)})
		return
	}
	kind, err := aggregation.ParseKind(q.GroupBy)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to aggregate vouchers")
		return
	}
	filter, ok := h.filterFromQuery(c, logger, book, q.ReportQueryParams)
	if !ok {
		return
	}

	spec := aggregation.Spec{
		Kind:        kind,
		Leaderboard: q.Leaderboard,
		Limit:       q.Limit,
		Year:        q.Year,
		Location:    h.location,
		Exclude:     q.Exclude,
	}
	if kind == aggregation.ByMonth && spec.Year == 0 {
		spec.Year = h.now().In(h.location).Year()
	}

	logger = logger.With(slog.String("user_id", userID), slog.String("book", string(book)), slog.String("group_by", q.GroupBy))
	result, skipped, err := h.reportService.Aggregate(c.Request.Context(), filter, spec, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to aggregate vouchers")
		return
	}

	c.JSON(http.StatusOK, dto.ToAggregateResponse(result, skipped))
}

// exportReport godoc
// @Summary Export voucher report
// @Description Downloads the voucher report as an Excel workbook or CSV file
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce text/csv
// @Param book path string true "Book (cr or dr)"
// @Param format query string false "xlsx or csv" default(xlsx)
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param status query string false "Payment status"
// @Success 200 {file} file
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Failed to export report"
// @Security BearerAuth
// @Router /reports/{book}/export [get]
func (h *reportHandler) exportReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	book, ok := bookParam(c)
	if !ok {
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var q dto.ReportQueryParams
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + bindingError(err)})
		return
	}
	filter, ok := h.filterFromQuery(c, logger, book, q)
	if !ok {
		return
	}

	logger = logger.With(slog.String("user_id", userID), slog.String("book", string(book)), slog.String("format", string(format)))

	// Buffer so a failure can still be answered with a JSON error.
	var buf bytes.Buffer
	if err := h.reportService.ExportReport(c.Request.Context(), filter, format, &buf, userID); err != nil {
		respondServiceError(c, logger, err, "Failed to export report")
		return
	}

	fileName := format.FileName(book, filter.From.In(h.location), filter.To.In(h.location))
	c.Header("Content-Disposition", `attachment; filename="`+fileName+`"`)
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

// getCashBalance godoc
// @Summary Cash balance
// @Description Total receipts minus total payments between two dates
// @Tags reports
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)" default(first day of current month)
// @Param to query string false "End date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.CashBalanceResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Failed to compute cash balance"
// @Security BearerAuth
// @Router /reports/cash-balance [get]
func (h *reportHandler) getCashBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	from, to, err := reportRange(c.Query("from"), c.Query("to"), h.now(), h.location)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	balance, err := h.reportService.CashBalance(c.Request.Context(), from, to, userID)
	if err != nil {
		respondServiceError(c, logger.With(slog.String("user_id", userID)), err, "Failed to compute cash balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToCashBalanceResponse(balance, h.location))
}
