// Package expiry derives credit expiration timestamps from grant origin.
package expiry

import "time"

// ComputeExpiration derives a grant's expiration timestamp.
//
// validityDays <= 0 means the grant never expires. When the grant is tied to a
// subscription billing period, periodEnd wins: credits die with the period,
// not on a calendar offset. Otherwise the expiry is now + validityDays.
func ComputeExpiration(now time.Time, validityDays int, periodEnd *time.Time) *time.Time {
	if validityDays <= 0 {
		return nil
	}
	if periodEnd != nil {
		end := *periodEnd
		return &end
	}
	expires := now.AddDate(0, 0, validityDays)
	return &expires
}
