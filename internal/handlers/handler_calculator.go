package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/orsys_voucher_app/internal/dto"
	"github.com/SscSPs/orsys_voucher_app/internal/middleware"
	"github.com/SscSPs/orsys_voucher_app/internal/utils/denomination"
	"github.com/gin-gonic/gin"
)

func registerCalculatorRoutes(rg *gin.RouterGroup) {
	rg.POST("/calculator/amount", computeAmount)
}

// computeAmount godoc
// @Summary Compute a denomination total
// @Description Sums note counts (deno5000..deno1). Missing or non-numeric counts count as zero. Nothing is stored.
// @Tags calculator
// @Accept  json
// @Produce  json
// @Param   record body map[string]any true "Loose record with denomination fields"
// @Success 200 {object} dto.AmountResponse
// @Failure 400 {object} map[string]string "Body is not a JSON object"
// @Security BearerAuth
// @Router /calculator/amount [post]
func computeAmount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var record map[string]any
	if err := c.ShouldBindJSON(&record); err != nil {
		logger.Warn("Failed to bind JSON for ComputeAmount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request body must be a JSON object"})
		return
	}
	c.JSON(http.StatusOK, dto.ToAmountResponse(denomination.Parse(record)))
}
