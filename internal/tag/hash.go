package tag

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainDataLayer prefixes data layer hashes. The version suffix leaves room
// for a future encoding change.
const DomainDataLayer = "tealium/datalayer/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null byte keeps the domain/data boundary unambiguous.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// SetHash returns the content hash of a value set.
// Equal sets hash equally regardless of insertion order.
func SetHash(set Set) (string, error) {
	canonical, err := MarshalCanonical(set)
	if err != nil {
		return "", fmt.Errorf("SetHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainDataLayer, canonical), nil
}

// MustSetHash is like SetHash but panics on error.
// Use only in tests or when the set is known to encode.
func MustSetHash(set Set) string {
	h, err := SetHash(set)
	if err != nil {
		panic(err)
	}
	return h
}
