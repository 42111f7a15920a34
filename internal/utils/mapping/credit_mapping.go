package mapping

import (
	"github.com/creditleaf/credit_ledger_app/internal/core/domain"
	"github.com/creditleaf/credit_ledger_app/internal/models"
)

// ToModelCreditEntry converts a domain CreditEntry to a model CreditEntry.
func ToModelCreditEntry(d domain.CreditEntry) models.CreditEntry {
	return models.CreditEntry{
		EntryID:       d.EntryID,
		UserID:        d.UserID,
		TransactionNo: d.TransactionNo,
		Kind:          models.EntryKind(d.Kind),
		Scene:         string(d.Scene),
		Amount:        d.Amount,
		Remaining:     d.Remaining,
		Status:        models.EntryStatus(d.Status),
		ExpiresAt:     d.ExpiresAt,
		Description:   d.Description,
		Metadata:      d.Metadata,
		ConsumedFrom:  ToModelConsumedDetails(d.ConsumedFrom),
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCreditEntry converts a model CreditEntry to a domain CreditEntry.
func ToDomainCreditEntry(m models.CreditEntry) domain.CreditEntry {
	return domain.CreditEntry{
		EntryID:       m.EntryID,
		UserID:        m.UserID,
		TransactionNo: m.TransactionNo,
		Kind:          domain.EntryKind(m.Kind),
		Scene:         domain.Scene(m.Scene),
		Amount:        m.Amount,
		Remaining:     m.Remaining,
		Status:        domain.EntryStatus(m.Status),
		ExpiresAt:     m.ExpiresAt,
		Description:   m.Description,
		Metadata:      m.Metadata,
		ConsumedFrom:  ToDomainConsumedDetails(m.ConsumedFrom),
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelConsumedDetails converts the domain audit trail to its model form.
func ToModelConsumedDetails(details []domain.ConsumedDetail) []models.ConsumedDetail {
	if details == nil {
		return nil
	}
	out := make([]models.ConsumedDetail, len(details))
	for i, d := range details {
		out[i] = models.ConsumedDetail{GrantEntryID: d.GrantEntryID, AmountDrawn: d.AmountDrawn}
	}
	return out
}

// ToDomainConsumedDetails converts the model audit trail to its domain form.
func ToDomainConsumedDetails(details []models.ConsumedDetail) []domain.ConsumedDetail {
	if details == nil {
		return nil
	}
	out := make([]domain.ConsumedDetail, len(details))
	for i, d := range details {
		out[i] = domain.ConsumedDetail{GrantEntryID: d.GrantEntryID, AmountDrawn: d.AmountDrawn}
	}
	return out
}

// ToDomainCreditEntries converts a slice of model entries to domain entries.
func ToDomainCreditEntries(ms []models.CreditEntry) []domain.CreditEntry {
	out := make([]domain.CreditEntry, len(ms))
	for i, m := range ms {
		out[i] = ToDomainCreditEntry(m)
	}
	return out
}
