package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/orsys_voucher_app/internal/apperrors"
	"github.com/SscSPs/orsys_voucher_app/internal/core/domain"
	"github.com/SscSPs/orsys_voucher_app/internal/middleware"
	"github.com/SscSPs/orsys_voucher_app/internal/utils"
	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// respondServiceError maps a service error to its HTTP status. Unmapped errors are
// logged and answered with fallback.
func respondServiceError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInvalidGroupingSpec):
		logger.Warn("Invalid grouping requested", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	case errors.Is(err, apperrors.ErrForbidden):
		logger.Warn("Forbidden", slog.String("error", err.Error()))
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to perform this action"})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Duplicate resource", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrMalformedRecord):
		logger.Warn("Stored record is malformed", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// requireUserID fetches the authenticated user or answers 401.
func requireUserID(c *gin.Context, logger *slog.Logger) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return userID, true
}

// bookParam reads the :book path segment or answers 400.
func bookParam(c *gin.Context) (domain.Book, bool) {
	book := domain.Book(c.Param("book"))
	if !book.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Unknown book %q, use cr or dr", book)})
		return "", false
	}
	return book, true
}

// dayRange turns YYYY-MM-DD bounds into [from 00:00, to 23:59:59.999999999] in loc.
// Empty bounds stay zero.
func dayRange(fromStr, toStr string, loc *time.Location) (time.Time, time.Time, error) {
	var from, to time.Time
	if fromStr != "" {
		d, err := time.ParseInLocation(dateLayout, fromStr, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid from date %q, use YYYY-MM-DD", fromStr)
		}
		from = d
	}
	if toStr != "" {
		d, err := time.ParseInLocation(dateLayout, toStr, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid to date %q, use YYYY-MM-DD", toStr)
		}
		to = d.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("to date %s is before from date %s", toStr, fromStr)
	}
	return from, to, nil
}

// reportRange is dayRange with defaults: from the first of the current month, to today.
func reportRange(fromStr, toStr string, now time.Time, loc *time.Location) (time.Time, time.Time, error) {
	today := now.In(loc)
	if fromStr == "" {
		fromStr = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, loc).Format(dateLayout)
	}
	if toStr == "" {
		toStr = today.Format(dateLayout)
	}
	return dayRange(fromStr, toStr, loc)
}

// bindingError describes a bind failure, using the validator's field messages when present.
func bindingError(err error) string {
	return utils.DescribeValidationError(err)
}
