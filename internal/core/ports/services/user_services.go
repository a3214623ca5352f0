package services

import (
	"context"

	"github.com/SscSPs/orsys_voucher_app/internal/core/domain"
	"github.com/SscSPs/orsys_voucher_app/internal/dto"
)

// AccessAuthorizerSvc answers permission checks for the other services.
type AccessAuthorizerSvc interface {
	// Authorize returns apperrors.ErrForbidden unless userID is active and holds permission.
	Authorize(ctx context.Context, userID string, permission string) error
}

// UserReaderSvc defines read operations for user access records
type UserReaderSvc interface {
	// GetUser retrieves a user, served from cache when fresh.
	GetUser(ctx context.Context, userID string) (*domain.AppUser, error)

	// ListUsers lists every user. Admin only.
	ListUsers(ctx context.Context, requestingUserID string) ([]domain.AppUser, error)
}

// UserAdminSvc defines admin-only write operations for user access records
type UserAdminSvc interface {
	AddUser(ctx context.Context, req dto.CreateAppUserRequest, requestingUserID string) (*domain.AppUser, error)
	UpdateUser(ctx context.Context, userID string, req dto.UpdateAppUserRequest, requestingUserID string) (*domain.AppUser, error)
	SetActive(ctx context.Context, userID string, active bool, requestingUserID string) (*domain.AppUser, error)
	SetPermission(ctx context.Context, userID string, permission string, granted bool, requestingUserID string) (*domain.AppUser, error)

	// EnsureAdmin creates or reactivates userID as an admin. Used at startup, not exposed over HTTP.
	EnsureAdmin(ctx context.Context, userID, email string) (*domain.AppUser, error)
}

// UserSvcFacade combines all user-related service interfaces
type UserSvcFacade interface {
	AccessAuthorizerSvc
	UserReaderSvc
	UserAdminSvc
}
