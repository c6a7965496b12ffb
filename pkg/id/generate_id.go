package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// NewID32 returns exactly 32 hex characters (no separators/prefixes).
func NewID32() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// RequisitionNumber formats the human facing sequence number, e.g. REQ-000042.
func RequisitionNumber(seq int64) string {
	return fmt.Sprintf("REQ-%06d", seq)
}
