package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/orsys_voucher_app/internal/apperrors"
	"github.com/SscSPs/orsys_voucher_app/internal/core/domain"
	portsrepo "github.com/SscSPs/orsys_voucher_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/orsys_voucher_app/internal/core/ports/services"
	"github.com/SscSPs/orsys_voucher_app/internal/dto"
	"github.com/google/uuid"
)

type headService struct {
	BaseService
	headRepo portsrepo.HeadRepositoryFacade
}

// HeadServiceOption configures the head service.
type HeadServiceOption func(*headService)

// WithHeadAuthorizer checks permissions through authorizer.
func WithHeadAuthorizer(authorizer portssvc.AccessAuthorizerSvc) HeadServiceOption {
	return func(s *headService) {
		s.Authorizer = authorizer
	}
}

// NewHeadService creates a new head service
func NewHeadService(headRepo portsrepo.HeadRepositoryFacade, options ...HeadServiceOption) portssvc.HeadSvcFacade {
	svc := &headService{headRepo: headRepo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.HeadSvcFacade = (*headService)(nil)

// ensureUniqueName fails with ErrDuplicate when another head already uses name.
func (s *headService) ensureUniqueName(ctx context.Context, name, selfID string) error {
	existing, err := s.headRepo.FindHeadByName(ctx, name)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to check head name: %w", err)
	}
	if existing.HeadID != selfID {
		return fmt.Errorf("head named %q: %w", name, apperrors.ErrDuplicate)
	}
	return nil
}

func (s *headService) CreateHead(ctx context.Context, req dto.CreateHeadRequest, requestingUserID string) (*domain.Head, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, domain.PermHeadsManage); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("head name is required: %w", apperrors.ErrValidation)
	}
	if err := s.ensureUniqueName(ctx, name, ""); err != nil {
		return nil, err
	}

	head := domain.Head{
		HeadID:      uuid.NewString(),
		Name:        name,
		Code:        strings.TrimSpace(req.Code),
		Status:      domain.HeadStatus(req.Status),
		Category:    strings.TrimSpace(req.Category),
		Description: strings.TrimSpace(req.Description),
		AuditFields: domain.NewAuditFields(requestingUserID, s.Now()),
	}
	if err := s.headRepo.SaveHead(ctx, head); err != nil {
		s.LogError(ctx, err, "Failed to save head", slog.String("name", name))
		return nil, fmt.Errorf("failed to save head: %w", err)
	}

	s.LogInfo(ctx, "Head created", slog.String("head_id", head.HeadID), slog.String("name", head.Name))
	return &head, nil
}

func (s *headService) GetHead(ctx context.Context, headID string) (*domain.Head, error) {
	head, err := s.headRepo.FindHeadByID(ctx, headID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("head %s: %w", headID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get head: %w", err)
	}
	return head, nil
}

func (s *headService) ListHeads(ctx context.Context, status domain.HeadStatus) ([]domain.Head, error) {
	if status != "" && status != domain.HeadActive && status != domain.HeadInactive {
		return nil, fmt.Errorf("unknown head status %q: %w", status, apperrors.ErrValidation)
	}
	heads, err := s.headRepo.ListHeads(ctx, status)
	if err != nil {
		s.LogError(ctx, err, "Failed to list heads")
		return nil, fmt.Errorf("failed to list heads: %w", err)
	}
	return heads, nil
}

func (s *headService) UpdateHead(ctx context.Context, headID string, req dto.UpdateHeadRequest, requestingUserID string) (*domain.Head, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, domain.PermHeadsManage); err != nil {
		return nil, err
	}

	head, err := s.GetHead(ctx, headID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("head name is required: %w", apperrors.ErrValidation)
		}
		if !strings.EqualFold(name, head.Name) {
			if err := s.ensureUniqueName(ctx, name, head.HeadID); err != nil {
				return nil, err
			}
		}
		head.Name = name
	}
	if req.Code != nil {
		head.Code = strings.TrimSpace(*req.Code)
	}
	if req.Status != nil {
		head.Status = domain.HeadStatus(*req.Status)
	}
	if req.Category != nil {
		head.Category = strings.TrimSpace(*req.Category)
	}
	if req.Description != nil {
		head.Description = strings.TrimSpace(*req.Description)
	}
	head.Touch(requestingUserID, s.Now())

	if err := s.headRepo.UpdateHead(ctx, *head); err != nil {
		s.LogError(ctx, err, "Failed to update head", slog.String("head_id", headID))
		return nil, fmt.Errorf("failed to update head: %w", err)
	}
	return head, nil
}

func (s *headService) DeleteHead(ctx context.Context, headID string, requestingUserID string) error {
	if err := s.AuthorizeUser(ctx, requestingUserID, domain.PermHeadsManage); err != nil {
		return err
	}
	if err := s.headRepo.DeleteHead(ctx, headID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("head %s: %w", headID, apperrors.ErrNotFound)
		}
		s.LogError(ctx, err, "Failed to delete head", slog.String("head_id", headID))
		return fmt.Errorf("failed to delete head: %w", err)
	}
	s.LogInfo(ctx, "Head deleted", slog.String("head_id", headID), slog.String("deleted_by", requestingUserID))
	return nil
}
