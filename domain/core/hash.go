package core

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Hash represents a content fingerprint
type Hash string

// NewHash fingerprints data with xxhash64, hex encoded
func NewHash(data []byte) Hash {
	return Hash(formatSum(xxhash.Sum64(data)))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// ComputeSelectionHash derives a stable key from a dataset fingerprint and the
// parts of a selection that change a rendered artifact.
func ComputeSelectionHash(fingerprint Hash, parts ...string) Hash {
	d := xxhash.New()
	_, _ = d.WriteString(fingerprint.String())
	for _, p := range parts {
		_, _ = d.WriteString("\x00")
		_, _ = d.WriteString(p)
	}
	return Hash(formatSum(d.Sum64()))
}

func formatSum(sum uint64) string {
	s := strconv.FormatUint(sum, 16)
	if len(s) < 16 {
		s = strings.Repeat("0", 16-len(s)) + s
	}
	return s
}
