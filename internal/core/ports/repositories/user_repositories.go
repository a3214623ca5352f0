package repositories

import (
	"context"

	"github.com/SscSPs/orsys_voucher_app/internal/core/domain"
)

// UserReader defines read operations for user access records
type UserReader interface {
	// FindUserByID retrieves a specific user by their ID.
	FindUserByID(ctx context.Context, userID string) (*domain.AppUser, error)

	// FindUserByEmail retrieves a user by email, case-insensitively.
	FindUserByEmail(ctx context.Context, email string) (*domain.AppUser, error)

	// FindUsers retrieves all users ordered by display name.
	FindUsers(ctx context.Context) ([]domain.AppUser, error)
}

// UserWriter defines write operations for user access records
type UserWriter interface {
	// SaveUser persists a new user.
	SaveUser(ctx context.Context, user domain.AppUser) error

	// UpdateUser replaces an existing user's role, status, permissions and profile.
	UpdateUser(ctx context.Context, user domain.AppUser) error
}

// UserRepositoryFacade combines all user-related repository interfaces
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}
