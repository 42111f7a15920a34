package services

import (
	"context"

	"github.com/creditleaf/credit_ledger_app/internal/core/domain"
	"github.com/creditleaf/credit_ledger_app/internal/dto"
)

// BalanceReaderSvc defines read operations over a user's spendable balance.
type BalanceReaderSvc interface {
	// GetBalance returns the sum of remaining credits across the user's
	// active, unexpired grants. Snapshot read, safe for display paths.
	GetBalance(ctx context.Context, userID string) (int64, error)

	// ListEntries retrieves a token-paginated list of a user's ledger entries.
	ListEntries(ctx context.Context, userID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)

	// GetEntryByTransactionNo retrieves a single ledger entry by its globally
	// unique transaction number (support lookups).
	GetEntryByTransactionNo(ctx context.Context, transactionNo string) (*domain.CreditEntry, error)
}

// GrantWriterSvc defines operations that add spendable credits.
type GrantWriterSvc interface {
	// Grant issues new credits to a user with an optional expiration.
	Grant(ctx context.Context, userID string, req dto.GrantRequest, actorID string) (*domain.CreditEntry, error)

	// RefundSimple issues a fresh compensating grant when the original
	// consumption is unknown or exact bookkeeping is not required.
	RefundSimple(ctx context.Context, userID string, req dto.SimpleRefundRequest, actorID string) (*domain.CreditEntry, error)
}

// ConsumeSvc defines the debit and exact-reversal operations.
type ConsumeSvc interface {
	// Consume atomically debits amount from the user's eligible grants,
	// soonest-to-expire first, and records the funding audit trail.
	Consume(ctx context.Context, userID string, req dto.ConsumeRequest, actorID string) (*domain.CreditEntry, error)

	// RefundExact reverses a prior consumption by restoring the exact grants
	// it drew from. Idempotence guard: a consumption reverses at most once.
	RefundExact(ctx context.Context, consumeEntryID string, actorID string) error
}

// CreditSvcFacade combines all credit ledger service interfaces.
type CreditSvcFacade interface {
	BalanceReaderSvc
	GrantWriterSvc
	ConsumeSvc
}

// RewardSvcFacade is the referral reward distributor: a policy layer over
// Grant with idempotency and monthly-cap guards.
type RewardSvcFacade interface {
	// AcceptReferral issues the paired inviter/invitee reward grants for a
	// referral acceptance, subject to idempotency and the inviter's monthly cap.
	AcceptReferral(ctx context.Context, req dto.AcceptReferralRequest, actorID string) (*domain.ReferralReward, error)
}

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Credit CreditSvcFacade
	Reward RewardSvcFacade
}
