package domain

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

// Scene tags the business origin of an entry. It is informational and drives
// reporting, never engine behavior (refund bookkeeping and reward idempotency
// keys aside). Open set; the constants below cover the known flows.
type Scene string

const (
	ScenePayment      Scene = "payment"
	SceneSubscription Scene = "subscription"
	SceneRenewal      Scene = "renewal"
	SceneGift         Scene = "gift"
	SceneAward        Scene = "award"
	SceneRedemption   Scene = "redemption"
	SceneRefund       Scene = "refund"
	SceneGeneration   Scene = "generation"
)

// ConsumedDetail records how much a single consumption drew from one grant.
// The ordered list on a CONSUME entry is the audit trail that makes the
// consumption refundable; grants are referenced by ID, never by pointer.
type ConsumedDetail struct {
	GrantEntryID string `json:"grantEntryID"`
	AmountDrawn  int64  `json:"amountDrawn"`
}

// CreditEntry is the only persisted ledger entity. A GRANT adds credits and
// carries a decaying Remaining balance; a CONSUME removes credits and is
// immutable once written (refunds create compensating state instead).
type CreditEntry struct {
	EntryID       string           `json:"entryID"`       // Primary Key (UUID)
	UserID        string           `json:"userID"`        // Owning account
	TransactionNo string           `json:"transactionNo"` // Globally unique, human-traceable
	Kind          EntryKind        `json:"kind"`
	Scene         Scene            `json:"scene"`
	Amount        int64            `json:"amount"`    // >0 for GRANT, <0 for CONSUME, never 0
	Remaining     int64            `json:"remaining"` // 0 <= Remaining <= Amount for GRANT; always 0 for CONSUME
	Status        EntryStatus      `json:"status"`
	ExpiresAt     *time.Time       `json:"expiresAt,omitempty"` // nil means never expires
	Description   string           `json:"description,omitempty"`
	Metadata      map[string]any   `json:"metadata,omitempty"`
	ConsumedFrom  []ConsumedDetail `json:"consumedFrom,omitempty"` // CONSUME entries only
	AuditFields
}

// IsExpired reports whether the entry's expiry has passed at the given instant.
func (e *CreditEntry) IsExpired(now time.Time) bool {
	return e.ExpiresAt != nil && !e.ExpiresAt.After(now)
}

// IsEligibleForConsumption reports whether this grant can fund a consumption
// at the given instant.
func (e *CreditEntry) IsEligibleForConsumption(now time.Time) bool {
	return e.Kind == KindGrant && e.Status == StatusActive && e.Remaining > 0 && !e.IsExpired(now)
}

// ConsumedTotal sums the amounts drawn across the consumed detail list.
// For a well-formed CONSUME entry this equals -Amount.
func (e *CreditEntry) ConsumedTotal() int64 {
	var total int64
	for _, d := range e.ConsumedFrom {
		total += d.AmountDrawn
	}
	return total
}
