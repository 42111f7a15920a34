package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/creditleaf/credit_ledger_app/internal/apperrors"
	"github.com/creditleaf/credit_ledger_app/internal/core/domain"
	portsrepo "github.com/creditleaf/credit_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/creditleaf/credit_ledger_app/internal/core/ports/services"
	"github.com/creditleaf/credit_ledger_app/internal/dto"
	"github.com/creditleaf/credit_ledger_app/internal/middleware"
	"github.com/creditleaf/credit_ledger_app/internal/platform/config"
	"github.com/creditleaf/credit_ledger_app/internal/platform/metrics"
	"github.com/creditleaf/credit_ledger_app/internal/utils"
	"github.com/creditleaf/credit_ledger_app/internal/utils/expiry"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// creditService implements the credit ledger engine: balance aggregation,
// grants, FIFO consumption and the two refund modes.
type creditService struct {
	creditRepo portsrepo.CreditRepositoryWithTx

	grantPageSize      int
	maxConsumePages    int
	refundValidityDays int
}

// NewCreditService creates a new credit ledger service.
func NewCreditService(creditRepo portsrepo.CreditRepositoryWithTx, cfg *config.Config) portssvc.CreditSvcFacade {
	return &creditService{
		creditRepo:         creditRepo,
		grantPageSize:      cfg.ConsumeGrantPageSize,
		maxConsumePages:    cfg.ConsumeMaxPages,
		refundValidityDays: cfg.RefundValidityDays,
	}
}

// Ensure creditService implements the portssvc.CreditSvcFacade interface
var _ portssvc.CreditSvcFacade = (*creditService)(nil)

// newEntry assembles a ledger entry with identifiers and audit fields set.
func newEntry(userID string, kind domain.EntryKind, scene domain.Scene, amount, remaining int64, expiresAt *time.Time, description string, metadata map[string]any, actorID string, now time.Time) (*domain.CreditEntry, error) {
	txnNo, err := utils.GenerateTransactionNo(string(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to generate transaction number: %w", err)
	}
	return &domain.CreditEntry{
		EntryID:       uuid.NewString(),
		UserID:        userID,
		TransactionNo: txnNo,
		Kind:          kind,
		Scene:         scene,
		Amount:        amount,
		Remaining:     remaining,
		Status:        domain.StatusActive,
		ExpiresAt:     expiresAt,
		Description:   description,
		Metadata:      metadata,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}, nil
}

// GetBalance returns the user's spendable balance: the sum of remaining over
// active, unexpired grants. Pure snapshot read; write-path decisions re-derive
// the balance inside the consuming transaction instead.
func (s *creditService) GetBalance(ctx context.Context, userID string) (int64, error) {
	return s.creditRepo.SumRemaining(ctx, userID, time.Now().UTC())
}

// Grant issues new credits to a user. The expiry is either supplied directly
// or derived from validityDays/periodEnd by the expiration policy.
func (s *creditService) Grant(ctx context.Context, userID string, req dto.GrantRequest, actorID string) (*domain.CreditEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}

	now := time.Now().UTC()
	expiresAt := req.ExpiresAt
	if expiresAt == nil {
		expiresAt = expiry.ComputeExpiration(now, req.ValidityDays, req.PeriodEnd)
	}

	entry, err := newEntry(userID, domain.KindGrant, domain.Scene(req.Scene), req.Amount, req.Amount, expiresAt, req.Description, req.Metadata, actorID, now)
	if err != nil {
		return nil, err
	}

	if err := s.creditRepo.InsertEntry(ctx, *entry); err != nil {
		return nil, fmt.Errorf("failed to insert grant entry: %w", err)
	}

	metrics.EntriesCreated.WithLabelValues(string(domain.KindGrant), req.Scene).Inc()
	logger.Info("Credits granted",
		slog.String("user_id", userID),
		slog.String("entry_id", entry.EntryID),
		slog.String("scene", req.Scene),
		slog.Int64("amount", req.Amount),
	)
	return entry, nil
}

// Consume atomically debits amount from the user's eligible grants, soonest
// to expire first, and writes one CONSUME entry recording which grants funded
// the debit. All reads and writes happen inside one transaction; every grant
// row touched stays locked until commit so concurrent consumptions for the
// same user serialize.
func (s *creditService) Consume(ctx context.Context, userID string, req dto.ConsumeRequest, actorID string) (*domain.CreditEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}
	scene := domain.Scene(req.Scene)
	if scene == "" {
		scene = domain.SceneGeneration
	}
	now := time.Now().UTC()

	tx, err := s.creditRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.creditRepo.Rollback(ctx, tx) // No-op once committed

	balance, err := s.creditRepo.SumRemainingInTx(ctx, tx, userID, now)
	if err != nil {
		return nil, err
	}
	if balance < req.Amount {
		metrics.ConsumeFailures.WithLabelValues("insufficient_credits").Inc()
		return nil, apperrors.NewInsufficientCreditsError(req.Amount, balance)
	}

	remainingNeeded := req.Amount
	details := make([]domain.ConsumedDetail, 0, 4)
	pages := 0
	for remainingNeeded > 0 {
		if pages >= s.maxConsumePages {
			metrics.ConsumeFailures.WithLabelValues("too_many_fragments").Inc()
			logger.Error("Consumption aborted: grant page scan cap exceeded",
				slog.String("user_id", userID),
				slog.Int("max_pages", s.maxConsumePages),
				slog.Int64("undrawn", remainingNeeded),
			)
			return nil, apperrors.ErrTooManyFragments
		}

		// Grants drawn to zero in this transaction no longer satisfy the
		// eligibility predicate, so each fetch returns the next unspent rows.
		grants, err := s.creditRepo.FindEligibleGrantsForUpdate(ctx, tx, userID, now, s.grantPageSize)
		if err != nil {
			return nil, err
		}
		pages++
		if len(grants) == 0 {
			// A concurrent consumption drained the grants between the balance
			// pre-check and this scan. Re-derive the balance so the reported
			// shortfall matches what the user holds once this tx rolls back:
			// the in-tx sum excludes our own uncommitted draws, so add them back.
			drawn := req.Amount - remainingNeeded
			balance, err := s.creditRepo.SumRemainingInTx(ctx, tx, userID, now)
			if err != nil {
				return nil, err
			}
			metrics.ConsumeFailures.WithLabelValues("insufficient_credits").Inc()
			return nil, apperrors.NewInsufficientCreditsError(req.Amount, balance+drawn)
		}

		for i := range grants {
			grant := &grants[i]
			draw := grant.Remaining
			if draw > remainingNeeded {
				draw = remainingNeeded
			}
			if err := s.creditRepo.DecrementGrantRemaining(ctx, tx, grant.EntryID, draw, actorID, now); err != nil {
				return nil, err
			}
			details = append(details, domain.ConsumedDetail{GrantEntryID: grant.EntryID, AmountDrawn: draw})
			remainingNeeded -= draw
			if remainingNeeded == 0 {
				break
			}
		}
	}

	entry, err := newEntry(userID, domain.KindConsume, scene, -req.Amount, 0, nil, req.Description, req.Metadata, actorID, now)
	if err != nil {
		return nil, err
	}
	entry.ConsumedFrom = details

	if err := s.creditRepo.InsertEntryInTx(ctx, tx, *entry); err != nil {
		return nil, fmt.Errorf("failed to insert consume entry: %w", err)
	}
	if err := s.creditRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	metrics.EntriesCreated.WithLabelValues(string(domain.KindConsume), string(scene)).Inc()
	metrics.ConsumePages.Observe(float64(pages))
	logger.Info("Credits consumed",
		slog.String("user_id", userID),
		slog.String("entry_id", entry.EntryID),
		slog.Int64("amount", req.Amount),
		slog.Int("grants_drawn", len(details)),
	)
	return entry, nil
}

// RefundExact reverses a prior consumption by crediting back the exact grants
// it drew from, then soft-deletes the CONSUME entry so it cannot be reversed
// twice. Grants that expired since the consumption still receive their credit
// back; expiry gates future consumption eligibility, not refund eligibility.
func (s *creditService) RefundExact(ctx context.Context, consumeEntryID string, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := time.Now().UTC()

	tx, err := s.creditRepo.Begin(ctx)
	if err != nil {
		return err
	}
	defer s.creditRepo.Rollback(ctx, tx)

	entry, err := s.creditRepo.FindEntryByIDForUpdate(ctx, tx, consumeEntryID)
	if err != nil {
		return err
	}
	if entry.Kind != domain.KindConsume {
		return fmt.Errorf("%w: entry %s is not a consumption", apperrors.ErrValidation, consumeEntryID)
	}
	if entry.Status != domain.StatusActive {
		return apperrors.ErrAlreadyReversed
	}

	for _, d := range entry.ConsumedFrom {
		if err := s.creditRepo.IncrementGrantRemaining(ctx, tx, d.GrantEntryID, d.AmountDrawn, actorID, now); err != nil {
			return err
		}
	}

	if err := s.creditRepo.UpdateEntryStatus(ctx, tx, consumeEntryID, domain.StatusActive, domain.StatusDeleted, actorID, now); err != nil {
		return err
	}
	if err := s.creditRepo.Commit(ctx, tx); err != nil {
		return err
	}

	logger.Info("Consumption reversed",
		slog.String("entry_id", consumeEntryID),
		slog.String("user_id", entry.UserID),
		slog.Int64("restored", -entry.Amount),
		slog.Int("grants_restored", len(entry.ConsumedFrom)),
	)
	return nil
}

// RefundSimple issues a fresh compensating grant. Used when the original
// consumption is unknown or exact bookkeeping precision is not required.
func (s *creditService) RefundSimple(ctx context.Context, userID string, req dto.SimpleRefundRequest, actorID string) (*domain.CreditEntry, error) {
	if req.Amount <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}
	return s.Grant(ctx, userID, dto.GrantRequest{
		Amount:       req.Amount,
		Scene:        string(domain.SceneRefund),
		ValidityDays: s.refundValidityDays,
		Description:  req.Description,
	}, actorID)
}

// GetEntryByTransactionNo retrieves a ledger entry by its transaction number.
func (s *creditService) GetEntryByTransactionNo(ctx context.Context, transactionNo string) (*domain.CreditEntry, error) {
	return s.creditRepo.FindEntryByTransactionNo(ctx, transactionNo)
}

// ListEntries retrieves a token-paginated page of the user's ledger entries,
// newest first.
func (s *creditService) ListEntries(ctx context.Context, userID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	entries, nextToken, err := s.creditRepo.ListEntriesByUser(ctx, userID, limit, params.NextToken)
	if err != nil {
		return nil, err
	}
	return &dto.ListEntriesResponse{
		Entries:   dto.ToCreditEntryResponses(entries),
		NextToken: nextToken,
	}, nil
}
