package domain

// RewardOutcome describes what the reward distributor decided for one side of
// a referral pairing.
type RewardOutcome string

const (
	RewardGranted RewardOutcome = "GRANTED" // full reward issued
	RewardClipped RewardOutcome = "CLIPPED" // partial reward issued to stay under the monthly cap
	RewardSkipped RewardOutcome = "SKIPPED" // no reward issued (cap reached)
)

// ReferralReward is the result of processing one referral acceptance. The
// acceptance itself always succeeds; the outcome fields record what each side
// actually received so callers never see a silently partial grant.
type ReferralReward struct {
	ReferralCode   string        `json:"referralCode"`
	InviterUserID  string        `json:"inviterUserID"`
	InviteeUserID  string        `json:"inviteeUserID"`
	InviterOutcome RewardOutcome `json:"inviterOutcome"`
	InviterAmount  int64         `json:"inviterAmount"`
	InviteeAmount  int64         `json:"inviteeAmount"`
	InviterEntry   *CreditEntry  `json:"inviterEntry,omitempty"`
	InviteeEntry   *CreditEntry  `json:"inviteeEntry,omitempty"`
	AlreadyIssued  bool          `json:"alreadyIssued"` // idempotency guard tripped; nothing new was granted
}
