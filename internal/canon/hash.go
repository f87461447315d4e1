package canon

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain-separation prefixes for content-addressed identity. The
// version suffix leaves room for a future algorithm migration.
const (
	DomainCase = "caseweave/case/v1"
	DomainRun  = "caseweave/run/v1"
)

// CaseID computes the content-addressed identifier for a case's field
// map. Structurally equal field maps always produce the same ID, so
// the combinator engine can deduplicate map-shaped inputs by value.
// Returns an error if the fields cannot be canonically marshaled.
func CaseID(fields map[string]any) (string, error) {
	obj, err := FromFields(fields)
	if err != nil {
		return "", fmt.Errorf("CaseID: %w", err)
	}

	canonical, err := marshalValue(obj)
	if err != nil {
		return "", fmt.Errorf("CaseID: %w", err)
	}

	return hashWithDomain(DomainCase, canonical), nil
}

// MustCaseID is like CaseID but panics on error. Use only in tests or
// when inputs are known to be valid.
func MustCaseID(fields map[string]any) string {
	id, err := CaseID(fields)
	if err != nil {
		panic(err)
	}
	return id
}

// RunDigest computes the content-addressed digest of a rendered
// expansion snapshot. Two runs with byte-equal snapshots share a
// digest, which is how the recorder detects that a manifest edit
// changed the expansion.
func RunDigest(snapshot []byte) string {
	return hashWithDomain(DomainRun, snapshot)
}

// hashWithDomain computes SHA256(domain || 0x00 || data). The null
// separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
