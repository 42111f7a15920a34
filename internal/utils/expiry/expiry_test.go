package expiry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeExpiration(t *testing.T) {
	now := time.Date(2026, 1, 14, 9, 30, 0, 0, time.UTC)
	periodEnd := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		validityDays int
		periodEnd    *time.Time
		want         *time.Time
	}{
		{
			name:         "zero validity days means never expires",
			validityDays: 0,
			want:         nil,
		},
		{
			name:         "negative validity days means never expires",
			validityDays: -1,
			want:         nil,
		},
		{
			name:         "period end ignored when validity is zero",
			validityDays: 0,
			periodEnd:    &periodEnd,
			want:         nil,
		},
		{
			name:         "period end wins over calendar offset",
			validityDays: 30,
			periodEnd:    &periodEnd,
			want:         &periodEnd,
		},
		{
			name:         "calendar offset from now",
			validityDays: 30,
			want:         timePtr(now.AddDate(0, 0, 30)),
		},
		{
			name:         "single day validity",
			validityDays: 1,
			want:         timePtr(now.AddDate(0, 0, 1)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeExpiration(now, tt.validityDays, tt.periodEnd)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			assert.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got), "expected %v, got %v", tt.want, got)
		})
	}
}

func TestComputeExpiration_CopiesPeriodEnd(t *testing.T) {
	now := time.Now().UTC()
	periodEnd := now.AddDate(0, 1, 0)

	got := ComputeExpiration(now, 30, &periodEnd)

	assert.NotNil(t, got)
	assert.NotSame(t, &periodEnd, got, "Returned pointer should not alias the caller's value")
}

func timePtr(t time.Time) *time.Time {
	return &t
}
