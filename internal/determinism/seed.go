// Package determinism derives stable sampling seeds so rerunning a review
// over unchanged input asks the model for the same completion.
package determinism

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
)

// GenerateSeed derives a deterministic seed from the review subject and the
// revision under review. CI runs pass the repository#number identifier and
// the head commit; local runs pass the resolved base and target hashes.
// The value stays within int32 range because the generation API's seed
// field is a 32-bit integer.
func GenerateSeed(subject, revision string) int64 {
	input := fmt.Sprintf("%s|%s", subject, revision)
	hash := sha256.Sum256([]byte(input))

	seed := binary.BigEndian.Uint64(hash[:8]) & 0x7FFFFFFF
	return int64(seed)
}
