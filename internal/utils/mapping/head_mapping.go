package mapping

import (
	"github.com/SscSPs/orsys_voucher_app/internal/core/domain"
	"github.com/SscSPs/orsys_voucher_app/internal/models"
)

// ToModelHead converts a domain Head to a model Head
func ToModelHead(d domain.Head) models.Head {
	return models.Head{
		HeadID:      d.HeadID,
		Name:        d.Name,
		Code:        d.Code,
		Status:      string(d.Status),
		Category:    d.Category,
		Description: d.Description,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainHead converts a model Head to a domain Head
func ToDomainHead(m models.Head) domain.Head {
	return domain.Head{
		HeadID:      m.HeadID,
		Name:        m.Name,
		Code:        m.Code,
		Status:      domain.HeadStatus(m.Status),
		Category:    m.Category,
		Description: m.Description,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainHeadSlice converts a slice of model Heads to a slice of domain Heads
func ToDomainHeadSlice(ms []models.Head) []domain.Head {
	ds := make([]domain.Head, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainHead(m)
	}
	return ds
}
