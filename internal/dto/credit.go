package dto

import (
	"time"

	"github.com/creditleaf/credit_ledger_app/internal/core/domain"
)

// GrantRequest is the payload for issuing new credits. Callers either supply
// an explicit expiresAt or let the expiration policy derive one from
// validityDays / periodEnd (periodEnd wins for subscription-tied grants).
type GrantRequest struct {
	Amount       int64          `json:"amount" binding:"required,gt=0"`
	Scene        string         `json:"scene" binding:"required,scene"`
	ExpiresAt    *time.Time     `json:"expiresAt,omitempty"`
	ValidityDays int            `json:"validityDays,omitempty"`
	PeriodEnd    *time.Time     `json:"periodEnd,omitempty"`
	Description  string         `json:"description,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// ConsumeRequest is the payload for debiting credits.
type ConsumeRequest struct {
	Amount      int64          `json:"amount" binding:"required,gt=0"`
	Scene       string         `json:"scene,omitempty" binding:"omitempty,scene"`
	Description string         `json:"description,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// SimpleRefundRequest is the payload for an ad-hoc compensating grant.
type SimpleRefundRequest struct {
	Amount      int64  `json:"amount" binding:"required,gt=0"`
	Description string `json:"description,omitempty"`
}

// AcceptReferralRequest is the payload for the referral acceptance flow.
type AcceptReferralRequest struct {
	ReferralCode  string `json:"referralCode" binding:"required"`
	InviterUserID string `json:"inviterUserID" binding:"required"`
	InviteeUserID string `json:"inviteeUserID" binding:"required,nefield=InviterUserID"`
}

// ConsumedDetailResponse is one line of a consumption's funding audit trail.
type ConsumedDetailResponse struct {
	GrantEntryID string `json:"grantEntryID"`
	AmountDrawn  int64  `json:"amountDrawn"`
}

// CreditEntryResponse defines the data returned for a ledger entry.
type CreditEntryResponse struct {
	EntryID       string                   `json:"entryID"`
	UserID        string                   `json:"userID"`
	TransactionNo string                   `json:"transactionNo"`
	Kind          string                   `json:"kind"`
	Scene         string                   `json:"scene"`
	Amount        int64                    `json:"amount"`
	Remaining     int64                    `json:"remaining"`
	Status        string                   `json:"status"`
	ExpiresAt     *time.Time               `json:"expiresAt,omitempty"`
	Description   string                   `json:"description,omitempty"`
	ConsumedFrom  []ConsumedDetailResponse `json:"consumedFrom,omitempty"`
	CreatedAt     time.Time                `json:"createdAt"`
}

// BalanceResponse reports a user's spendable balance.
type BalanceResponse struct {
	UserID  string `json:"userID"`
	Balance int64  `json:"balance"`
}

// ListEntriesParams carries pagination parameters for entry listing.
type ListEntriesParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListEntriesResponse is a page of ledger entries with a continuation token.
type ListEntriesResponse struct {
	Entries   []CreditEntryResponse `json:"entries"`
	NextToken *string               `json:"nextToken,omitempty"`
}

// ReferralRewardResponse reports the outcome of a referral acceptance.
type ReferralRewardResponse struct {
	ReferralCode   string `json:"referralCode"`
	InviterUserID  string `json:"inviterUserID"`
	InviteeUserID  string `json:"inviteeUserID"`
	InviterOutcome string `json:"inviterOutcome"`
	InviterAmount  int64  `json:"inviterAmount"`
	InviteeAmount  int64  `json:"inviteeAmount"`
	AlreadyIssued  bool   `json:"alreadyIssued"`
}

// ToCreditEntryResponse converts a domain.CreditEntry to its response DTO.
func ToCreditEntryResponse(e *domain.CreditEntry) CreditEntryResponse {
	var details []ConsumedDetailResponse
	if len(e.ConsumedFrom) > 0 {
		details = make([]ConsumedDetailResponse, len(e.ConsumedFrom))
		for i, d := range e.ConsumedFrom {
			details[i] = ConsumedDetailResponse{GrantEntryID: d.GrantEntryID, AmountDrawn: d.AmountDrawn}
		}
	}
	return CreditEntryResponse{
		EntryID:       e.EntryID,
		UserID:        e.UserID,
		TransactionNo: e.TransactionNo,
		Kind:          string(e.Kind),
		Scene:         string(e.Scene),
		Amount:        e.Amount,
		Remaining:     e.Remaining,
		Status:        string(e.Status),
		ExpiresAt:     e.ExpiresAt,
		Description:   e.Description,
		ConsumedFrom:  details,
		CreatedAt:     e.CreatedAt,
	}
}

// ToCreditEntryResponses converts a slice of domain entries to response DTOs.
func ToCreditEntryResponses(entries []domain.CreditEntry) []CreditEntryResponse {
	responses := make([]CreditEntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToCreditEntryResponse(&entries[i])
	}
	return responses
}

// ToReferralRewardResponse converts a domain.ReferralReward to its response DTO.
func ToReferralRewardResponse(r *domain.ReferralReward) ReferralRewardResponse {
	return ReferralRewardResponse{
		ReferralCode:   r.ReferralCode,
		InviterUserID:  r.InviterUserID,
		InviteeUserID:  r.InviteeUserID,
		InviterOutcome: string(r.InviterOutcome),
		InviterAmount:  r.InviterAmount,
		InviteeAmount:  r.InviteeAmount,
		AlreadyIssued:  r.AlreadyIssued,
	}
}
