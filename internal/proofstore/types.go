// Copyright 2025 Certen Protocol
//
// Core data model for the proof store: proof types, status, stored proofs,
// verification results and the derived statistics snapshot.

package proofstore

import (
	"crypto/sha256"
	"time"
)

// ProofType is a closed tag identifying the kind of zero-knowledge proof
// carried by a StoredProof. The tag is serialized verbatim as a lowercase
// string.
type ProofType string

const (
	ProofSchnorr       ProofType = "schnorr"
	ProofEquality      ProofType = "equality"
	ProofMembership    ProofType = "membership"
	ProofNonMembership ProofType = "non_membership"
	ProofRange         ProofType = "range"
	ProofHashOpening   ProofType = "hash_opening"
	ProofKnowledge     ProofType = "knowledge"
)

// Valid reports whether t is one of the recognized proof type tags.
func (t ProofType) Valid() bool {
	switch t {
	case ProofSchnorr, ProofEquality, ProofMembership, ProofNonMembership,
		ProofRange, ProofHashOpening, ProofKnowledge:
		return true
	default:
		return false
	}
}

// ProofStatus is a closed tag describing the last observed verification
// outcome of a StoredProof.
type ProofStatus string

const (
	StatusPending ProofStatus = "pending"
	StatusValid   ProofStatus = "valid"
	StatusInvalid ProofStatus = "invalid"
	StatusError   ProofStatus = "error"
)

// ProofMetadata is caller-supplied, opaque-to-the-core bookkeeping attached
// to a proof at submission time.
type ProofMetadata struct {
	Submitter string                 `json:"submitter,omitempty"`
	Tags      []string               `json:"tags,omitempty"`
	Extra     map[string]interface{} `json:"extra,omitempty"`
}

// StoredProof is the authoritative record held by the ProofStore for a
// single submitted proof.
type StoredProof struct {
	ID                string        `json:"id"`
	ProofType         ProofType     `json:"proof_type"`
	ProofBytes        []byte        `json:"proof_bytes,omitempty"`
	Metadata          ProofMetadata `json:"metadata"`
	Status            ProofStatus   `json:"status"`
	CreatedAt         time.Time     `json:"created_at"`
	VerifiedAt        *time.Time    `json:"verified_at,omitempty"`
	VerificationCount int64         `json:"verification_count"`
}

// VerificationResult is the outcome of a single verifier dispatch, whether
// served from cache or computed fresh.
type VerificationResult struct {
	Valid                  bool      `json:"valid"`
	VerificationTimeMicros int64     `json:"verification_time_micros"`
	Message                string    `json:"message,omitempty"`
	VerifiedProofType      ProofType `json:"verified_proof_type"`
}

// maxMessageLen bounds the user-visible message field; spec.md §9 leaves
// truncation rules implementation-defined beyond "bounded".
const maxMessageLen = 256

func truncateMessage(s string) string {
	if len(s) <= maxMessageLen {
		return s
	}
	return s[:maxMessageLen]
}

// CacheKey is a 256-bit digest of (ProofType, proof_bytes). Two cache
// entries collide iff the (type, bytes) pair is identical.
type CacheKey [sha256.Size]byte

func newCacheKey(t ProofType, proofBytes []byte) CacheKey {
	h := sha256.New()
	h.Write([]byte(t))
	h.Write([]byte{0})
	h.Write(proofBytes)
	var key CacheKey
	copy(key[:], h.Sum(nil))
	return key
}

// StoreStats is a coherent, point-in-time snapshot of store and cache
// health, per spec.md §4.6.
type StoreStats struct {
	TotalProofs             int64               `json:"total_proofs"`
	ProofsByType            map[ProofType]int64 `json:"proofs_by_type"`
	TotalVerifications      int64               `json:"total_verifications"`
	SuccessfulVerifications int64               `json:"successful_verifications"`
	FailedVerifications     int64               `json:"failed_verifications"`
	ErrorVerifications      int64               `json:"error_verifications"`
	CacheHits               int64               `json:"cache_hits"`
	CacheMisses             int64               `json:"cache_misses"`
	CacheHitRate            float64             `json:"cache_hit_rate"`
	TotalBytes              int64               `json:"total_bytes"`
}

// Filter enumerates the recognized List() query options.
type Filter struct {
	ProofType *ProofType
	Status    *ProofStatus
	Limit     *int
	Offset    *int
}
