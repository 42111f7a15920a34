package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/creditleaf/credit_ledger_app/internal/apperrors"
	"github.com/creditleaf/credit_ledger_app/internal/core/domain"
	portsrepo "github.com/creditleaf/credit_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/creditleaf/credit_ledger_app/internal/core/ports/services"
	"github.com/creditleaf/credit_ledger_app/internal/dto"
	"github.com/creditleaf/credit_ledger_app/internal/middleware"
	"github.com/creditleaf/credit_ledger_app/internal/platform/config"
	"github.com/creditleaf/credit_ledger_app/internal/platform/metrics"
	"github.com/creditleaf/credit_ledger_app/internal/utils/expiry"
	"github.com/jackc/pgx/v5"
)

// Metadata keys used to fingerprint referral reward grants. The idempotency
// guard and the uq_credit_entries_referral_award index both key on these, so
// they are part of the storage contract, not just reporting sugar.
const (
	MetaReferralCode    = "referral_code"
	MetaCounterpartUser = "counterpart_user_id"
	MetaReferralRole    = "referral_role"
)

// rewardService distributes referral rewards: a policy layer over grant
// insertion with idempotency and monthly-cap guards, no storage of its own.
type rewardService struct {
	creditRepo portsrepo.CreditRepositoryWithTx

	rewardAmount int64
	validityDays int
	monthlyCap   int64
	clipToCap    bool
}

// NewRewardService creates a new referral reward distributor.
func NewRewardService(creditRepo portsrepo.CreditRepositoryWithTx, cfg *config.Config) portssvc.RewardSvcFacade {
	return &rewardService{
		creditRepo:   creditRepo,
		rewardAmount: cfg.ReferralRewardAmount,
		validityDays: cfg.ReferralRewardValidityDays,
		monthlyCap:   cfg.ReferralRewardMonthlyCap,
		clipToCap:    cfg.ReferralRewardClip,
	}
}

// Ensure rewardService implements the portssvc.RewardSvcFacade interface
var _ portssvc.RewardSvcFacade = (*rewardService)(nil)

// AcceptReferral issues the paired reward grants for one referral acceptance.
// The invitee reward is unconditional; the inviter reward is subject to the
// calendar-month cap and is skipped or clipped per configuration.
//
// The idempotency check, the cap sum and both grant inserts share one
// transaction: a failure on either side rolls back the whole pairing, so a
// retry reissues both grants or neither. A concurrent acceptance for the same
// pairing trips the referral-fingerprint unique index and is reported as
// already issued.
func (s *rewardService) AcceptReferral(ctx context.Context, req dto.AcceptReferralRequest, actorID string) (*domain.ReferralReward, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := time.Now().UTC()

	result := &domain.ReferralReward{
		ReferralCode:  req.ReferralCode,
		InviterUserID: req.InviterUserID,
		InviteeUserID: req.InviteeUserID,
	}

	tx, err := s.creditRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.creditRepo.Rollback(ctx, tx) // No-op once committed

	// Idempotency: the invitee grant is issued on every successful acceptance,
	// so its presence is the marker that this pairing was already rewarded.
	issued, err := s.creditRepo.HasReferralReward(ctx, tx, req.InviteeUserID, req.ReferralCode, req.InviterUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check referral reward idempotency: %w", err)
	}
	if issued {
		result.AlreadyIssued = true
		result.InviterOutcome = domain.RewardSkipped
		logger.Info("Referral reward already issued for pairing, skipping",
			slog.String("referral_code", req.ReferralCode),
			slog.String("inviter_user_id", req.InviterUserID),
			slog.String("invitee_user_id", req.InviteeUserID),
		)
		return result, nil
	}

	expiresAt := expiry.ComputeExpiration(now, s.validityDays, nil)

	inviteeEntry, err := s.rewardEntry(req.InviteeUserID, s.rewardAmount, req.ReferralCode, req.InviterUserID, "invitee", expiresAt, actorID, now)
	if err != nil {
		return nil, err
	}
	if err := s.creditRepo.InsertEntryInTx(ctx, tx, *inviteeEntry); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// Lost the unique-index race to a concurrent acceptance of the
			// same pairing; same answer as the idempotency guard.
			result.AlreadyIssued = true
			result.InviterOutcome = domain.RewardSkipped
			logger.Info("Referral reward issued concurrently for pairing, skipping",
				slog.String("referral_code", req.ReferralCode),
				slog.String("inviter_user_id", req.InviterUserID),
				slog.String("invitee_user_id", req.InviteeUserID),
			)
			return result, nil
		}
		return nil, fmt.Errorf("failed to insert invitee reward grant: %w", err)
	}
	result.InviteeEntry = inviteeEntry
	result.InviteeAmount = s.rewardAmount

	inviterAmount, outcome, err := s.inviterAmountUnderCap(ctx, tx, req.InviterUserID, now)
	if err != nil {
		return nil, err
	}
	result.InviterOutcome = outcome
	result.InviterAmount = inviterAmount

	if inviterAmount > 0 {
		inviterEntry, err := s.rewardEntry(req.InviterUserID, inviterAmount, req.ReferralCode, req.InviteeUserID, "inviter", expiresAt, actorID, now)
		if err != nil {
			return nil, err
		}
		if err := s.creditRepo.InsertEntryInTx(ctx, tx, *inviterEntry); err != nil {
			return nil, fmt.Errorf("failed to insert inviter reward grant: %w", err)
		}
		result.InviterEntry = inviterEntry
	}

	if err := s.creditRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	metrics.EntriesCreated.WithLabelValues(string(domain.KindGrant), string(domain.SceneAward)).Inc()
	if inviterAmount > 0 {
		metrics.EntriesCreated.WithLabelValues(string(domain.KindGrant), string(domain.SceneAward)).Inc()
	}
	logger.Info("Referral reward distributed",
		slog.String("referral_code", req.ReferralCode),
		slog.String("inviter_user_id", req.InviterUserID),
		slog.String("invitee_user_id", req.InviteeUserID),
		slog.String("inviter_outcome", string(outcome)),
		slog.Int64("inviter_amount", inviterAmount),
		slog.Int64("invitee_amount", s.rewardAmount),
	)
	return result, nil
}

// rewardEntry assembles one side's award grant with the referral fingerprint
// in its metadata.
func (s *rewardService) rewardEntry(userID string, amount int64, referralCode, counterpartUserID, role string, expiresAt *time.Time, actorID string, now time.Time) (*domain.CreditEntry, error) {
	return newEntry(userID, domain.KindGrant, domain.SceneAward, amount, amount, expiresAt, "Referral acceptance reward", map[string]any{
		MetaReferralCode:    referralCode,
		MetaCounterpartUser: counterpartUserID,
		MetaReferralRole:    role,
	}, actorID, now)
}

// inviterAmountUnderCap applies the calendar-month reward ceiling to the
// inviter's side and decides granted/clipped/skipped.
func (s *rewardService) inviterAmountUnderCap(ctx context.Context, tx pgx.Tx, inviterUserID string, now time.Time) (int64, domain.RewardOutcome, error) {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	grantedThisMonth, err := s.creditRepo.SumSceneGrantsInRange(ctx, tx, inviterUserID, domain.SceneAward, monthStart, monthEnd)
	if err != nil {
		return 0, "", fmt.Errorf("failed to sum inviter reward grants for month: %w", err)
	}

	headroom := s.monthlyCap - grantedThisMonth
	switch {
	case headroom <= 0:
		return 0, domain.RewardSkipped, nil
	case s.rewardAmount <= headroom:
		return s.rewardAmount, domain.RewardGranted, nil
	case s.clipToCap:
		return headroom, domain.RewardClipped, nil
	default:
		return 0, domain.RewardSkipped, nil
	}
}
