package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	portssvc "github.com/SscSPs/orsys_voucher_app/internal/core/ports/services"
	"github.com/SscSPs/orsys_voucher_app/internal/dto"
	"github.com/SscSPs/orsys_voucher_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

type dashboardHandler struct {
	dashboardService portssvc.DashboardService
}

func registerDashboardRoutes(rg *gin.RouterGroup, dashboardService portssvc.DashboardService) {
	h := &dashboardHandler{dashboardService: dashboardService}
	rg.GET("/dashboard/:book", h.getDashboard)
}

// getDashboard godoc
// @Summary Dashboard snapshot
// @Description KPIs, trend, distributions, leaderboards and year-over-year series for the last N days of a book
// @Tags dashboard
// @Produce json
// @Param book path string true "Book (cr or dr)"
// @Param period query int false "Days to cover, 1 to 365" default(30)
// @Success 200 {object} dto.DashboardResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Failed to build dashboard"
// @Security BearerAuth
// @Router /dashboard/{book} [get]
func (h *dashboardHandler) getDashboard(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	book, ok := bookParam(c)
	if !ok {
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	period := 0
	if raw := c.Query("period"); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "period must be a number of days"})
			return
		}
		period = p
	}

	logger = logger.With(slog.String("user_id", userID), slog.String("book", string(book)), slog.Int("period", period))
	snap, err := h.dashboardService.Dashboard(c.Request.Context(), book, period, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to build dashboard")
		return
	}
	c.JSON(http.StatusOK, dto.ToDashboardResponse(snap))
}
