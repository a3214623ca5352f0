package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"strings"

	"github.com/SscSPs/orsys_voucher_app/internal/apperrors"
	"github.com/SscSPs/orsys_voucher_app/internal/cache"
	"github.com/SscSPs/orsys_voucher_app/internal/core/domain"
	portsrepo "github.com/SscSPs/orsys_voucher_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/orsys_voucher_app/internal/core/ports/services"
	"github.com/SscSPs/orsys_voucher_app/internal/dto"
)

// userService holds access records and answers permission checks for every other service.
type userService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
	cache    cache.Cache[domain.AppUser]
}

// UserServiceOption configures the user service.
type UserServiceOption func(*userService)

// WithUserCache serves GetUser and Authorize from c while entries are fresh.
func WithUserCache(c cache.Cache[domain.AppUser]) UserServiceOption {
	return func(s *userService) {
		s.cache = c
	}
}

// NewUserService creates a new user service
func NewUserService(userRepo portsrepo.UserRepositoryFacade, options ...UserServiceOption) portssvc.UserSvcFacade {
	svc := &userService{userRepo: userRepo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

func (s *userService) GetUser(ctx context.Context, userID string) (*domain.AppUser, error) {
	if s.cache != nil {
		if u, ok := s.cache.Get(userID); ok {
			return cloneUser(u), nil
		}
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("user %s: %w", userID, apperrors.ErrNotFound)
		}
		s.LogError(ctx, err, "Failed to get user", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if s.cache != nil {
		s.cache.Set(userID, *cloneUser(*user))
	}
	return user, nil
}

func (s *userService) Authorize(ctx context.Context, userID string, permission string) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("user %s has no access record: %w", userID, apperrors.ErrForbidden)
		}
		return err
	}
	if !user.Active {
		return fmt.Errorf("user %s is inactive: %w", userID, apperrors.ErrForbidden)
	}
	if !user.Can(permission) {
		return fmt.Errorf("user %s lacks permission %s: %w", userID, permission, apperrors.ErrForbidden)
	}
	return nil
}

// requireAdmin loads the requesting user and checks the admin role.
func (s *userService) requireAdmin(ctx context.Context, requestingUserID string) error {
	requester, err := s.GetUser(ctx, requestingUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("user %s has no access record: %w", requestingUserID, apperrors.ErrForbidden)
		}
		return err
	}
	if !requester.Active || !requester.IsAdmin() {
		s.LogWarn(ctx, "Admin action denied", slog.String("user_id", requestingUserID))
		return fmt.Errorf("user %s is not an active admin: %w", requestingUserID, apperrors.ErrForbidden)
	}
	return nil
}

func (s *userService) ListUsers(ctx context.Context, requestingUserID string) ([]domain.AppUser, error) {
	if err := s.requireAdmin(ctx, requestingUserID); err != nil {
		return nil, err
	}
	users, err := s.userRepo.FindUsers(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list users")
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func validatePermissions(perms map[string]bool) error {
	for p := range perms {
		if !domain.KnownPermissions[p] {
			return fmt.Errorf("unknown permission %q: %w", p, apperrors.ErrValidation)
		}
	}
	return nil
}

func (s *userService) AddUser(ctx context.Context, req dto.CreateAppUserRequest, requestingUserID string) (*domain.AppUser, error) {
	if err := s.requireAdmin(ctx, requestingUserID); err != nil {
		return nil, err
	}
	if err := validatePermissions(req.Permissions); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindUserByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("user with email %s: %w", req.Email, apperrors.ErrDuplicate)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	role := domain.RoleUser
	if req.Role != "" {
		role = domain.UserRole(req.Role)
	}
	perms := maps.Clone(req.Permissions)
	if perms == nil {
		perms = map[string]bool{}
	}

	user := domain.AppUser{
		UserID:      req.UserID,
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		DisplayName: strings.TrimSpace(req.DisplayName),
		Role:        role,
		Active:      true,
		Permissions: perms,
		AuditFields: domain.NewAuditFields(requestingUserID, s.Now()),
	}
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		s.LogError(ctx, err, "Failed to save user", slog.String("user_id", user.UserID))
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	s.LogInfo(ctx, "User added", slog.String("user_id", user.UserID), slog.String("role", string(role)))
	return &user, nil
}

// modify loads userID, applies change and persists the result.
func (s *userService) modify(ctx context.Context, userID, requestingUserID string, change func(*domain.AppUser) error) (*domain.AppUser, error) {
	if err := s.requireAdmin(ctx, requestingUserID); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("user %s: %w", userID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := change(user); err != nil {
		return nil, err
	}
	user.Touch(requestingUserID, s.Now())

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		s.LogError(ctx, err, "Failed to update user", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if s.cache != nil {
		s.cache.Delete(userID)
	}
	return user, nil
}

func (s *userService) UpdateUser(ctx context.Context, userID string, req dto.UpdateAppUserRequest, requestingUserID string) (*domain.AppUser, error) {
	return s.modify(ctx, userID, requestingUserID, func(u *domain.AppUser) error {
		if req.DisplayName != nil {
			u.DisplayName = strings.TrimSpace(*req.DisplayName)
		}
		if req.Role != nil {
			role := domain.UserRole(*req.Role)
			if userID == requestingUserID && role != domain.RoleAdmin {
				return fmt.Errorf("admins cannot demote themselves: %w", apperrors.ErrValidation)
			}
			u.Role = role
		}
		return nil
	})
}

func (s *userService) SetActive(ctx context.Context, userID string, active bool, requestingUserID string) (*domain.AppUser, error) {
	return s.modify(ctx, userID, requestingUserID, func(u *domain.AppUser) error {
		if userID == requestingUserID && !active {
			return fmt.Errorf("admins cannot deactivate themselves: %w", apperrors.ErrValidation)
		}
		u.Active = active
		return nil
	})
}

func (s *userService) SetPermission(ctx context.Context, userID string, permission string, granted bool, requestingUserID string) (*domain.AppUser, error) {
	if !domain.KnownPermissions[permission] {
		return nil, fmt.Errorf("unknown permission %q: %w", permission, apperrors.ErrValidation)
	}
	return s.modify(ctx, userID, requestingUserID, func(u *domain.AppUser) error {
		if u.Permissions == nil {
			u.Permissions = map[string]bool{}
		}
		if granted {
			u.Permissions[permission] = true
		} else {
			delete(u.Permissions, permission)
		}
		return nil
	})
}

func (s *userService) EnsureAdmin(ctx context.Context, userID, email string) (*domain.AppUser, error) {
	now := s.Now()
	user, err := s.userRepo.FindUserByID(ctx, userID)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		user = &domain.AppUser{
			UserID:      userID,
			Email:       strings.ToLower(strings.TrimSpace(email)),
			DisplayName: email,
			Role:        domain.RoleAdmin,
			Active:      true,
			Permissions: map[string]bool{},
			AuditFields: domain.NewAuditFields("system", now),
		}
		if err := s.userRepo.SaveUser(ctx, *user); err != nil {
			return nil, fmt.Errorf("failed to create bootstrap admin: %w", err)
		}
		s.LogInfo(ctx, "Bootstrap admin created", slog.String("user_id", userID))
		return user, nil
	case err != nil:
		return nil, fmt.Errorf("failed to get bootstrap admin: %w", err)
	}

	if user.IsAdmin() && user.Active {
		return user, nil
	}
	user.Role = domain.RoleAdmin
	user.Active = true
	user.Touch("system", now)
	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		return nil, fmt.Errorf("failed to promote bootstrap admin: %w", err)
	}
	if s.cache != nil {
		s.cache.Delete(userID)
	}
	s.LogInfo(ctx, "Bootstrap admin promoted", slog.String("user_id", userID))
	return user, nil
}

func cloneUser(u domain.AppUser) *domain.AppUser {
	u.Permissions = maps.Clone(u.Permissions)
	return &u
}
