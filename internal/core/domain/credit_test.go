package domain_test

import (
	"testing"
	"time"

	"github.com/creditleaf/credit_ledger_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestCreditEntry_IsExpired(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		entry domain.CreditEntry
		want  bool
	}{
		{
			name:  "nil expiry never expires",
			entry: domain.CreditEntry{ExpiresAt: nil},
			want:  false,
		},
		{
			name:  "future expiry",
			entry: domain.CreditEntry{ExpiresAt: timePtr(now.Add(time.Hour))},
			want:  false,
		},
		{
			name:  "past expiry",
			entry: domain.CreditEntry{ExpiresAt: timePtr(now.Add(-time.Hour))},
			want:  true,
		},
		{
			name:  "expiry exactly now counts as expired",
			entry: domain.CreditEntry{ExpiresAt: timePtr(now)},
			want:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.entry.IsExpired(now))
		})
	}
}

func TestCreditEntry_IsEligibleForConsumption(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		entry domain.CreditEntry
		want  bool
	}{
		{
			name:  "active grant with remaining",
			entry: domain.CreditEntry{Kind: domain.KindGrant, Status: domain.StatusActive, Amount: 100, Remaining: 40},
			want:  true,
		},
		{
			name:  "never-expiring grant",
			entry: domain.CreditEntry{Kind: domain.KindGrant, Status: domain.StatusActive, Amount: 100, Remaining: 100, ExpiresAt: nil},
			want:  true,
		},
		{
			name:  "consume entries never fund consumption",
			entry: domain.CreditEntry{Kind: domain.KindConsume, Status: domain.StatusActive, Amount: -100},
			want:  false,
		},
		{
			name:  "fully drawn grant",
			entry: domain.CreditEntry{Kind: domain.KindGrant, Status: domain.StatusActive, Amount: 100, Remaining: 0},
			want:  false,
		},
		{
			name:  "deleted grant",
			entry: domain.CreditEntry{Kind: domain.KindGrant, Status: domain.StatusDeleted, Amount: 100, Remaining: 50},
			want:  false,
		},
		{
			name:  "expired grant",
			entry: domain.CreditEntry{Kind: domain.KindGrant, Status: domain.StatusActive, Amount: 100, Remaining: 50, ExpiresAt: timePtr(now.Add(-time.Minute))},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.entry.IsEligibleForConsumption(now))
		})
	}
}

func TestCreditEntry_ConsumedTotal(t *testing.T) {
	entry := domain.CreditEntry{
		Kind:   domain.KindConsume,
		Amount: -60,
		ConsumedFrom: []domain.ConsumedDetail{
			{GrantEntryID: "g1", AmountDrawn: 50},
			{GrantEntryID: "g2", AmountDrawn: 10},
		},
	}

	assert.Equal(t, int64(60), entry.ConsumedTotal())
	assert.Equal(t, -entry.Amount, entry.ConsumedTotal(), "A well-formed consumption draws exactly its amount")

	empty := domain.CreditEntry{Kind: domain.KindConsume, Amount: -10}
	assert.Zero(t, empty.ConsumedTotal())
}

func timePtr(t time.Time) *time.Time {
	return &t
}
