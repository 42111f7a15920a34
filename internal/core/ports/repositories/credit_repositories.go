package repositories

import (
	"context"
	"time"

	"github.com/creditleaf/credit_ledger_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// CreditEntryReader defines non-locking read operations over the ledger.
type CreditEntryReader interface {
	// FindEntryByID retrieves a single ledger entry by its unique identifier.
	FindEntryByID(ctx context.Context, entryID string) (*domain.CreditEntry, error)

	// FindEntryByTransactionNo retrieves a ledger entry by its globally unique
	// transaction number (support lookups, idempotency checks).
	FindEntryByTransactionNo(ctx context.Context, transactionNo string) (*domain.CreditEntry, error)

	// SumRemaining computes the user's spendable balance: the sum of remaining
	// over ACTIVE, unexpired GRANT entries. Snapshot read, no locks.
	SumRemaining(ctx context.Context, userID string, now time.Time) (int64, error)

	// ListEntriesByUser retrieves a token-paginated list of a user's ledger
	// entries, newest first. Returns the entries and a token for the next page.
	ListEntriesByUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.CreditEntry, *string, error)
}

// CreditEntryWriter defines insert operations that need no row locking.
type CreditEntryWriter interface {
	// InsertEntry persists a new ledger entry (grants, simple refunds).
	InsertEntry(ctx context.Context, entry domain.CreditEntry) error
}

// CreditEntryTxOps defines the operations the consumption and reversal engines
// run inside an explicit transaction. Every method takes the pgx.Tx so the
// caller controls atomicity and lock lifetime.
type CreditEntryTxOps interface {
	// SumRemainingInTx re-derives the spendable balance inside the transaction
	// that will perform the debit.
	SumRemainingInTx(ctx context.Context, tx pgx.Tx, userID string, now time.Time) (int64, error)

	// FindEligibleGrantsForUpdate fetches up to limit eligible GRANT rows
	// ordered soonest-to-expire first (never-expiring last) and locks them
	// with FOR UPDATE. Rows already drawn to zero inside this transaction fall
	// out of the eligibility predicate, so repeated calls walk the remainder.
	FindEligibleGrantsForUpdate(ctx context.Context, tx pgx.Tx, userID string, now time.Time, limit int) ([]domain.CreditEntry, error)

	// DecrementGrantRemaining reduces a grant's remaining by amount. Fails if
	// the grant no longer holds at least amount.
	DecrementGrantRemaining(ctx context.Context, tx pgx.Tx, entryID string, amount int64, updatedBy string, now time.Time) error

	// IncrementGrantRemaining restores amount onto a grant's remaining during
	// an exact refund. Expired grants still accept the restoration.
	IncrementGrantRemaining(ctx context.Context, tx pgx.Tx, entryID string, amount int64, updatedBy string, now time.Time) error

	// FindEntryByIDForUpdate retrieves a ledger entry and locks its row.
	FindEntryByIDForUpdate(ctx context.Context, tx pgx.Tx, entryID string) (*domain.CreditEntry, error)

	// UpdateEntryStatus transitions an entry from one status to another.
	// Returns apperrors.ErrNotFound when no row matched the from-status guard.
	UpdateEntryStatus(ctx context.Context, tx pgx.Tx, entryID string, from, to domain.EntryStatus, updatedBy string, now time.Time) error

	// InsertEntryInTx persists a new ledger entry inside the transaction.
	InsertEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.CreditEntry) error
}

// RewardAuditReader defines the scans the reward distributor runs for its
// idempotency and monthly-cap checks. Both take the pgx.Tx of the distribution
// transaction so the checks and the paired grant inserts commit atomically;
// the check-then-insert race between transactions is closed by the partial
// unique index on the award-grant referral fingerprint.
type RewardAuditReader interface {
	// HasReferralReward reports whether an award grant already exists for the
	// given user + referral code + counterpart pairing.
	HasReferralReward(ctx context.Context, tx pgx.Tx, userID, referralCode, counterpartUserID string) (bool, error)

	// SumSceneGrantsInRange sums the amounts of a user's GRANT entries with the
	// given scene created in [from, to).
	SumSceneGrantsInRange(ctx context.Context, tx pgx.Tx, userID string, scene domain.Scene, from, to time.Time) (int64, error)
}

// CreditRepositoryFacade combines all credit ledger repository interfaces.
type CreditRepositoryFacade interface {
	CreditEntryReader
	CreditEntryWriter
	CreditEntryTxOps
	RewardAuditReader
}

// CreditRepositoryWithTx extends CreditRepositoryFacade with transaction capabilities
type CreditRepositoryWithTx interface {
	CreditRepositoryFacade
	TransactionManager
}

// RepositoryProvider aggregates the repositories handed to the service layer.
type RepositoryProvider struct {
	CreditRepo CreditRepositoryWithTx
}
