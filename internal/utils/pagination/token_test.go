package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeEntryToken(t *testing.T) {
	// Standard values
	createdAt := time.Date(2026, 3, 15, 14, 30, 45, 123456789, time.UTC)
	entryID := "entry-abc-123"

	token := EncodeEntryToken(createdAt, entryID)
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedAt, decodedID, err := DecodeEntryToken(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, createdAt, decodedAt, "Created at should match after decode")
	assert.Equal(t, entryID, decodedID, "Entry ID should match after decode")

	// Current time round trip
	now := time.Now().UTC()
	nowToken := EncodeEntryToken(now, entryID)
	decodedNow, _, err := DecodeEntryToken(nowToken)
	assert.NoError(t, err, "Decoding current time should not return an error")
	assert.True(t, now.Equal(decodedNow), "Current time should match after decode")
}

func TestDecodeEntryTokenError(t *testing.T) {
	// Invalid base64
	_, _, err := DecodeEntryToken("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode", "Error should mention base64 decoding")

	// Missing separator
	noSeparator := base64.StdEncoding.EncodeToString([]byte("2026-03-15T00:00:00Z"))
	_, _, err = DecodeEntryToken(noSeparator)
	assert.Error(t, err, "Should return an error when the separator is missing")
	assert.Contains(t, err.Error(), "split", "Error should mention splitting issue")

	// Invalid time component
	badTime := base64.StdEncoding.EncodeToString([]byte("notatime|entry-abc-123"))
	_, _, err = DecodeEntryToken(badTime)
	assert.Error(t, err, "Should return an error for an unparseable time")
	assert.Contains(t, err.Error(), "created_at parse", "Error should mention time parsing issue")

	// Empty entry ID
	emptyID := base64.StdEncoding.EncodeToString([]byte("2026-03-15T00:00:00Z|"))
	_, _, err = DecodeEntryToken(emptyID)
	assert.Error(t, err, "Should return an error for an empty entry ID")
	assert.Contains(t, err.Error(), "empty entry id", "Error should mention the empty entry ID")
}
