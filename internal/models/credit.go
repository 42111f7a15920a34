package models

import "time"

// EntryKind distinguishes the two ledger entry types.
type EntryKind string

const (
	KindGrant   EntryKind = "GRANT"
	KindConsume EntryKind = "CONSUME"
)

// EntryStatus indicates the lifecycle state of a ledger entry.
type EntryStatus string

const (
	StatusActive  EntryStatus = "ACTIVE"
	StatusExpired EntryStatus = "EXPIRED"
	StatusDeleted EntryStatus = "DELETED"
)

// ConsumedDetail is one line of a CONSUME entry's funding audit trail,
// persisted as an ordered JSONB array.
type ConsumedDetail struct {
	GrantEntryID string `json:"grantEntryID"`
	AmountDrawn  int64  `json:"amountDrawn"`
}

// CreditEntry represents a row in the credit_entries table.
type CreditEntry struct {
	EntryID       string           `json:"entryID"`
	UserID        string           `json:"userID"`
	TransactionNo string           `json:"transactionNo"`
	Kind          EntryKind        `json:"kind"`
	Scene         string           `json:"scene"`
	Amount        int64            `json:"amount"`
	Remaining     int64            `json:"remaining"`
	Status        EntryStatus      `json:"status"`
	ExpiresAt     *time.Time       `json:"expiresAt,omitempty"`
	Description   string           `json:"description,omitempty"`
	Metadata      map[string]any   `json:"metadata,omitempty"`
	ConsumedFrom  []ConsumedDetail `json:"consumedFrom,omitempty"`
	AuditFields
}

// AuditFields holds standard audit columns shared by persisted entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}
