package mapping

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/SscSPs/orsys_voucher_app/internal/core/domain"
	"github.com/SscSPs/orsys_voucher_app/internal/models"
)

// ToModelAppUser converts a domain AppUser to a model AppUser. Emails are stored lower-case.
func ToModelAppUser(d domain.AppUser) (models.AppUser, error) {
	perms := d.Permissions
	if perms == nil {
		perms = map[string]bool{}
	}
	raw, err := json.Marshal(perms)
	if err != nil {
		return models.AppUser{}, fmt.Errorf("failed to encode permissions: %w", err)
	}
	return models.AppUser{
		UserID:      d.UserID,
		Email:       strings.ToLower(d.Email),
		DisplayName: d.DisplayName,
		Role:        string(d.Role),
		Active:      d.Active,
		Permissions: raw,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainAppUser converts a model AppUser to a domain AppUser
func ToDomainAppUser(m models.AppUser) (domain.AppUser, error) {
	perms := map[string]bool{}
	if len(m.Permissions) > 0 {
		if err := json.Unmarshal(m.Permissions, &perms); err != nil {
			return domain.AppUser{}, fmt.Errorf("failed to decode permissions of user %s: %w", m.UserID, err)
		}
	}
	return domain.AppUser{
		UserID:      m.UserID,
		Email:       m.Email,
		DisplayName: m.DisplayName,
		Role:        domain.UserRole(m.Role),
		Active:      m.Active,
		Permissions: perms,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}, nil
}
