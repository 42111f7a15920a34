package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateTransactionNo(t *testing.T) {
	grantNo, err := GenerateTransactionNo("GRANT")
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(grantNo, "GRT"), "Grant numbers should carry the GRT prefix")

	consumeNo, err := GenerateTransactionNo("CONSUME")
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(consumeNo, "CSM"), "Consume numbers should carry the CSM prefix")

	// prefix (3) + timestamp (14) + hex suffix (12)
	assert.Len(t, grantNo, 29)
	assert.Len(t, consumeNo, 29)
}

func TestGenerateTransactionNo_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		no, err := GenerateTransactionNo("GRANT")
		assert.NoError(t, err)
		assert.False(t, seen[no], "Transaction numbers should not repeat")
		seen[no] = true
	}
}
