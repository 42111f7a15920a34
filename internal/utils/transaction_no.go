package utils

import (
	"fmt"
	"strings"
	"time"
)

// Transaction number prefixes per entry kind. The prefix plus UTC timestamp
// keeps the number human-traceable for support lookups; the random suffix
// makes it globally unique (also enforced by a DB unique constraint).
const (
	txnNoGrantPrefix   = "GRT"
	txnNoConsumePrefix = "CSM"
	txnNoTimeFormat    = "20060102150405"
	txnNoRandomBytes   = 6
)

// GenerateTransactionNo builds a globally unique, human-traceable transaction
// number such as GRT20250114093015a1b2c3d4e5f6.
func GenerateTransactionNo(kind string) (string, error) {
	prefix := txnNoGrantPrefix
	if strings.EqualFold(kind, "CONSUME") {
		prefix = txnNoConsumePrefix
	}
	suffix, err := GenerateSecureRandomString(txnNoRandomBytes)
	if err != nil {
		return "", fmt.Errorf("failed to generate transaction number suffix: %w", err)
	}
	return prefix + time.Now().UTC().Format(txnNoTimeFormat) + suffix, nil
}
