package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// NewRunID returns an opaque run identifier: a UTC timestamp plus a short
// random suffix, sortable by start time.
func NewRunID() string {
	now := time.Now().UTC()
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d", now.UnixNano())))
	return fmt.Sprintf("%s-%s", now.Format("20060102T150405Z"), hex.EncodeToString(sum[:4]))
}
