package dto

import (
	"time"

	"github.com/SscSPs/orsys_voucher_app/internal/core/domain"
)

// CreateAppUserRequest registers a user already known to the identity provider.
type CreateAppUserRequest struct {
	UserID      string          `json:"userID" binding:"required,max=128"`
	Email       string          `json:"email" binding:"required,email"`
	DisplayName string          `json:"displayName" binding:"required,max=100"`
	Role        string          `json:"role" binding:"omitempty,oneof=admin user"`
	Permissions map[string]bool `json:"permissions"`
}

// UpdateAppUserRequest changes a user's profile or role; nil fields are left as is.
type UpdateAppUserRequest struct {
	DisplayName *string `json:"displayName" binding:"omitempty,min=1,max=100"`
	Role        *string `json:"role" binding:"omitempty,oneof=admin user"`
}

// AppUserResponse defines the user data returned by the API.
type AppUserResponse struct {
	UserID        string          `json:"userID"`
	Email         string          `json:"email"`
	DisplayName   string          `json:"displayName"`
	Role          domain.UserRole `json:"role"`
	Active        bool            `json:"active"`
	Permissions   map[string]bool `json:"permissions"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
	LastUpdatedBy string          `json:"lastUpdatedBy"`
}

// ToAppUserResponse converts a domain.AppUser to AppUserResponse DTO
func ToAppUserResponse(u *domain.AppUser) AppUserResponse {
	perms := u.Permissions
	if perms == nil {
		perms = map[string]bool{}
	}
	return AppUserResponse{
		UserID:        u.UserID,
		Email:         u.Email,
		DisplayName:   u.DisplayName,
		Role:          u.Role,
		Active:        u.Active,
		Permissions:   perms,
		CreatedAt:     u.CreatedAt,
		CreatedBy:     u.CreatedBy,
		LastUpdatedAt: u.LastUpdatedAt,
		LastUpdatedBy: u.LastUpdatedBy,
	}
}

// ToListAppUserResponse converts a slice of domain.AppUser to DTOs
func ToListAppUserResponse(users []domain.AppUser) []AppUserResponse {
	res := make([]AppUserResponse, len(users))
	for i := range users {
		res[i] = ToAppUserResponse(&users[i])
	}
	return res
}
