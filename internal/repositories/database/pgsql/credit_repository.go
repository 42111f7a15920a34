package pgsql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/creditleaf/credit_ledger_app/internal/apperrors"
	"github.com/creditleaf/credit_ledger_app/internal/core/domain"
	portsrepo "github.com/creditleaf/credit_ledger_app/internal/core/ports/repositories"
	"github.com/creditleaf/credit_ledger_app/internal/models"
	"github.com/creditleaf/credit_ledger_app/internal/utils/mapping"
	"github.com/creditleaf/credit_ledger_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

type PgxCreditRepository struct {
	BaseRepository
}

// newPgxCreditRepository creates a new repository for credit ledger entries.
func newPgxCreditRepository(pool *pgxpool.Pool) portsrepo.CreditRepositoryWithTx {
	return &PgxCreditRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxCreditRepository implements portsrepo.CreditRepositoryWithTx
var _ portsrepo.CreditRepositoryWithTx = (*PgxCreditRepository)(nil)

const entryColumns = `
	entry_id, user_id, transaction_no, kind, scene, amount, remaining, status,
	expires_at, description, metadata, consumed_detail,
	created_at, created_by, last_updated_at, last_updated_by`

// rowScanner covers pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*models.CreditEntry, error) {
	var m models.CreditEntry
	var expiresAt sql.NullTime
	var metadataRaw, detailRaw []byte

	err := row.Scan(
		&m.EntryID,
		&m.UserID,
		&m.TransactionNo,
		&m.Kind,
		&m.Scene,
		&m.Amount,
		&m.Remaining,
		&m.Status,
		&expiresAt,
		&m.Description,
		&metadataRaw,
		&detailRaw,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}

	if expiresAt.Valid {
		t := expiresAt.Time
		m.ExpiresAt = &t
	}
	if len(metadataRaw) > 0 {
		if err := json.Unmarshal(metadataRaw, &m.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode entry metadata: %w", err)
		}
	}
	if len(detailRaw) > 0 {
		if err := json.Unmarshal(detailRaw, &m.ConsumedFrom); err != nil {
			return nil, fmt.Errorf("failed to decode consumed detail: %w", err)
		}
	}
	return &m, nil
}

// insertArgs marshals an entry's JSONB columns and produces the positional
// arguments matching entryColumns order.
func insertArgs(entry domain.CreditEntry) ([]any, error) {
	m := mapping.ToModelCreditEntry(entry)

	var metadataRaw, detailRaw []byte
	var err error
	if m.Metadata != nil {
		metadataRaw, err = json.Marshal(m.Metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to encode entry metadata: %w", err)
		}
	}
	if m.ConsumedFrom != nil {
		detailRaw, err = json.Marshal(m.ConsumedFrom)
		if err != nil {
			return nil, fmt.Errorf("failed to encode consumed detail: %w", err)
		}
	}

	var expiresAt any
	if m.ExpiresAt != nil {
		expiresAt = *m.ExpiresAt
	}

	return []any{
		m.EntryID,
		m.UserID,
		m.TransactionNo,
		m.Kind,
		m.Scene,
		m.Amount,
		m.Remaining,
		m.Status,
		expiresAt,
		m.Description,
		metadataRaw,
		detailRaw,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	}, nil
}

const insertEntryQuery = `
	INSERT INTO credit_entries (` + entryColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);`

// InsertEntry persists a new ledger entry using the pool (no surrounding
// transaction; grants never contend with existing rows).
func (r *PgxCreditRepository) InsertEntry(ctx context.Context, entry domain.CreditEntry) error {
	args, err := insertArgs(entry)
	if err != nil {
		return err
	}
	if _, err := r.Pool.Exec(ctx, insertEntryQuery, args...); err != nil {
		return mapInsertError(entry.EntryID, err)
	}
	return nil
}

// InsertEntryInTx persists a new ledger entry inside the given transaction.
func (r *PgxCreditRepository) InsertEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.CreditEntry) error {
	args, err := insertArgs(entry)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, insertEntryQuery, args...); err != nil {
		return mapInsertError(entry.EntryID, err)
	}
	return nil
}

func mapInsertError(entryID string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("%w: entry %s", apperrors.ErrDuplicate, entryID)
	}
	return apperrors.NewAppError(500, "failed to insert ledger entry "+entryID, err)
}

// FindEntryByID retrieves a ledger entry by its ID.
func (r *PgxCreditRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.CreditEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM credit_entries WHERE entry_id = $1;`

	m, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find ledger entry by ID %s: %w", entryID, err)
	}
	entry := mapping.ToDomainCreditEntry(*m)
	return &entry, nil
}

// FindEntryByTransactionNo retrieves a ledger entry by its transaction number.
func (r *PgxCreditRepository) FindEntryByTransactionNo(ctx context.Context, transactionNo string) (*domain.CreditEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM credit_entries WHERE transaction_no = $1;`

	m, err := scanEntry(r.Pool.QueryRow(ctx, query, transactionNo))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find ledger entry by transaction no %s: %w", transactionNo, err)
	}
	entry := mapping.ToDomainCreditEntry(*m)
	return &entry, nil
}

// FindEntryByIDForUpdate retrieves a ledger entry and locks its row for the
// duration of the transaction.
func (r *PgxCreditRepository) FindEntryByIDForUpdate(ctx context.Context, tx pgx.Tx, entryID string) (*domain.CreditEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM credit_entries WHERE entry_id = $1 FOR UPDATE;`

	m, err := scanEntry(tx.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock ledger entry %s: %w", entryID, err)
	}
	entry := mapping.ToDomainCreditEntry(*m)
	return &entry, nil
}

const sumRemainingQuery = `
	SELECT COALESCE(SUM(remaining), 0)
	FROM credit_entries
	WHERE user_id = $1
	  AND kind = 'GRANT'
	  AND status = 'ACTIVE'
	  AND remaining > 0
	  AND (expires_at IS NULL OR expires_at > $2);`

// SumRemaining computes the user's spendable balance via a snapshot read.
func (r *PgxCreditRepository) SumRemaining(ctx context.Context, userID string, now time.Time) (int64, error) {
	var balance int64
	if err := r.Pool.QueryRow(ctx, sumRemainingQuery, userID, now).Scan(&balance); err != nil {
		return 0, fmt.Errorf("failed to sum remaining credits for user %s: %w", userID, err)
	}
	return balance, nil
}

// SumRemainingInTx computes the balance inside the transaction that will
// perform the debit.
func (r *PgxCreditRepository) SumRemainingInTx(ctx context.Context, tx pgx.Tx, userID string, now time.Time) (int64, error) {
	var balance int64
	if err := tx.QueryRow(ctx, sumRemainingQuery, userID, now).Scan(&balance); err != nil {
		return 0, fmt.Errorf("failed to sum remaining credits for user %s: %w", userID, err)
	}
	return balance, nil
}

// FindEligibleGrantsForUpdate fetches up to limit eligible GRANT rows in FIFO
// order (soonest to expire first, never-expiring last) and locks them with
// FOR UPDATE. Must be called within a transaction.
func (r *PgxCreditRepository) FindEligibleGrantsForUpdate(ctx context.Context, tx pgx.Tx, userID string, now time.Time, limit int) ([]domain.CreditEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM credit_entries
		WHERE user_id = $1
		  AND kind = 'GRANT'
		  AND status = 'ACTIVE'
		  AND remaining > 0
		  AND (expires_at IS NULL OR expires_at > $2)
		ORDER BY expires_at ASC NULLS LAST, created_at ASC, entry_id ASC
		LIMIT $3
		FOR UPDATE;`

	rows, err := tx.Query(ctx, query, userID, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query eligible grants for user %s: %w", userID, err)
	}
	defer rows.Close()

	grants := []domain.CreditEntry{}
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locked grant row: %w", err)
		}
		grants = append(grants, mapping.ToDomainCreditEntry(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locked grant rows: %w", err)
	}

	return grants, nil
}

// DecrementGrantRemaining reduces a grant's remaining balance. The guard in
// the WHERE clause keeps remaining non-negative even if a caller miscomputes.
func (r *PgxCreditRepository) DecrementGrantRemaining(ctx context.Context, tx pgx.Tx, entryID string, amount int64, updatedBy string, now time.Time) error {
	query := `
		UPDATE credit_entries
		SET remaining = remaining - $2, last_updated_at = $3, last_updated_by = $4
		WHERE entry_id = $1 AND kind = 'GRANT' AND remaining >= $2;`

	tag, err := tx.Exec(ctx, query, entryID, amount, now, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to decrement grant "+entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewAppError(500, "grant "+entryID+" no longer holds the drawn amount", nil)
	}
	return nil
}

// IncrementGrantRemaining restores credit onto a grant during an exact refund.
// The guard keeps remaining from exceeding the grant's original amount.
func (r *PgxCreditRepository) IncrementGrantRemaining(ctx context.Context, tx pgx.Tx, entryID string, amount int64, updatedBy string, now time.Time) error {
	query := `
		UPDATE credit_entries
		SET remaining = remaining + $2, last_updated_at = $3, last_updated_by = $4
		WHERE entry_id = $1 AND kind = 'GRANT' AND remaining + $2 <= amount;`

	tag, err := tx.Exec(ctx, query, entryID, amount, now, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to restore credit to grant "+entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewAppError(500, "refund would overfill grant "+entryID, nil)
	}
	return nil
}

// UpdateEntryStatus transitions an entry between statuses. The from-status
// guard makes the transition idempotent-safe: a second attempt matches no row.
func (r *PgxCreditRepository) UpdateEntryStatus(ctx context.Context, tx pgx.Tx, entryID string, from, to domain.EntryStatus, updatedBy string, now time.Time) error {
	query := `
		UPDATE credit_entries
		SET status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE entry_id = $1 AND status = $2;`

	tag, err := tx.Exec(ctx, query, entryID, string(from), string(to), now, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status of entry "+entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ListEntriesByUser retrieves a token-paginated page of the user's entries,
// newest first.
func (r *PgxCreditRepository) ListEntriesByUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.CreditEntry, *string, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM credit_entries
		WHERE user_id = $1`
	args := []any{userID}

	if nextToken != nil && *nextToken != "" {
		createdAt, entryID, err := pagination.DecodeEntryToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (created_at, entry_id) < ($2, $3)`
		args = append(args, createdAt, entryID)
	}

	query += fmt.Sprintf(`
		ORDER BY created_at DESC, entry_id DESC
		LIMIT $%d;`, len(args)+1)
	args = append(args, limit+1) // fetch one extra row to know if a next page exists

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list ledger entries for user %s: %w", userID, err)
	}
	defer rows.Close()

	entries := []models.CreditEntry{}
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan ledger entry row: %w", err)
		}
		entries = append(entries, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating ledger entry rows: %w", err)
	}

	var token *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		t := pagination.EncodeEntryToken(last.CreatedAt, last.EntryID)
		token = &t
	}

	return mapping.ToDomainCreditEntries(entries), token, nil
}

// HasReferralReward reports whether an award grant with the given referral
// fingerprint already exists for the user. Runs inside the distribution
// transaction; uq_credit_entries_referral_award catches the duplicate a
// concurrent transaction inserts after this scan.
func (r *PgxCreditRepository) HasReferralReward(ctx context.Context, tx pgx.Tx, userID, referralCode, counterpartUserID string) (bool, error) {
	fingerprint, err := json.Marshal(map[string]string{
		"referral_code":       referralCode,
		"counterpart_user_id": counterpartUserID,
	})
	if err != nil {
		return false, fmt.Errorf("failed to encode referral fingerprint: %w", err)
	}

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM credit_entries
			WHERE user_id = $1
			  AND kind = 'GRANT'
			  AND scene = $2
			  AND metadata @> $3::jsonb
		);`

	var exists bool
	if err := tx.QueryRow(ctx, query, userID, string(domain.SceneAward), fingerprint).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check referral reward for user %s: %w", userID, err)
	}
	return exists, nil
}

// SumSceneGrantsInRange sums a user's GRANT amounts with the given scene
// created in [from, to). Status is deliberately ignored: a reward counts
// toward the cap even after its credits expire.
func (r *PgxCreditRepository) SumSceneGrantsInRange(ctx context.Context, tx pgx.Tx, userID string, scene domain.Scene, from, to time.Time) (int64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM credit_entries
		WHERE user_id = $1
		  AND kind = 'GRANT'
		  AND scene = $2
		  AND created_at >= $3
		  AND created_at < $4;`

	var total int64
	if err := tx.QueryRow(ctx, query, userID, string(scene), from, to).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum %s grants for user %s: %w", scene, userID, err)
	}
	return total, nil
}
