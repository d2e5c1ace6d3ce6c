// Package fingerprint produces stable content digests for provenance.
//
// Values are serialized to canonical JSON before hashing: encoding/json
// emits struct fields in declaration order and sorts map keys, so two
// structurally equal values produce the same digest in any process,
// independent of map iteration order.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/pkg/errors"
)

// Hash digests a structured value. It fails only for values that cannot
// be serialized (channels, functions, cycles), which is a caller bug.
func Hash(value any) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", errors.Wrap(err, "canonicalize value")
	}
	return HashBytes(data), nil
}

// HashBytes digests a raw byte payload.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashString digests a string payload.
func HashString(value string) string {
	return HashBytes([]byte(value))
}
