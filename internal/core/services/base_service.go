package services

import (
	"context"
	"log/slog"
	"time"

	portssvc "github.com/SscSPs/orsys_voucher_app/internal/core/ports/services"
	"github.com/SscSPs/orsys_voucher_app/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Authorizer portssvc.AccessAuthorizerSvc
	Clock      func() time.Time
}

// Now returns the service clock's current time.
func (s *BaseService) Now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Error(msg, args...)
}

// LogWarn logs a warning with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Warn(msg, keyvals...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// AuthorizeUser checks that userID holds permission. Without an authorizer every call is allowed.
func (s *BaseService) AuthorizeUser(ctx context.Context, userID, permission string) error {
	if s.Authorizer == nil {
		s.LogDebug(ctx, "No access authorizer provided, access granted by default",
			slog.String("user_id", userID),
			slog.String("permission", permission))
		return nil
	}
	if err := s.Authorizer.Authorize(ctx, userID, permission); err != nil {
		s.LogWarn(ctx, "Access denied",
			slog.String("user_id", userID),
			slog.String("permission", permission),
			slog.String("reason", err.Error()))
		return err
	}
	return nil
}
