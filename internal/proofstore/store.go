// Copyright 2025 Certen Protocol
//
// ProofStore (C4): the authoritative concurrent map of StoredProof
// records. Many concurrent readers or one exclusive writer guard the map;
// the cache (C2) and verifier dispatch (C3) are independent collaborators
// reached from verify() without holding the writer guard (spec.md §4.4,
// §5).

package proofstore

import (
	"context"
	"sort"
	"sync"
	"time"
)

const defaultMaxProofSize = 10 * 1024 * 1024 // 10 MiB
const defaultCacheCapacity = 1000
const defaultVerificationTimeout = 30 * time.Second

// Config is the recognized configuration surface of a Store (spec.md §6).
type Config struct {
	MaxProofSize        int64
	CacheCapacity       int
	VerificationTimeout time.Duration
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		MaxProofSize:        defaultMaxProofSize,
		CacheCapacity:       defaultCacheCapacity,
		VerificationTimeout: defaultVerificationTimeout,
	}
}

// Validate rejects non-conforming configuration (spec.md §7,
// InvalidArgument).
func (c Config) Validate() error {
	if c.CacheCapacity <= 0 {
		return ErrInvalidArgument.withMessage("cache_capacity must be positive")
	}
	if c.MaxProofSize <= 0 {
		return ErrInvalidArgument.withMessage("max_proof_size must be positive")
	}
	if c.VerificationTimeout <= 0 {
		return ErrInvalidArgument.withMessage("verification_timeout must be positive")
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.MaxProofSize <= 0 {
		c.MaxProofSize = defaultMaxProofSize
	}
	if c.CacheCapacity <= 0 {
		c.CacheCapacity = defaultCacheCapacity
	}
	if c.VerificationTimeout <= 0 {
		c.VerificationTimeout = defaultVerificationTimeout
	}
	return c
}

// Store is a single, independent proof store instance. Multiple Stores in
// one process do not share cache state (spec.md §9).
type Store struct {
	mu     sync.RWMutex
	proofs map[string]*StoredProof

	cache    *lruCache
	dispatch *verifierDispatch
	ids      *idGen
	clk      *clock

	cfg Config

	// Running counters, mutated only under the writer guard alongside the
	// StoredProof mutation that produced them (spec.md §4.6 coherence
	// rule).
	proofsByType            map[ProofType]int64
	totalBytes              int64
	totalVerifications      int64
	successfulVerifications int64
	failedVerifications     int64
	errorVerifications      int64
}

// New constructs a Store. cfg zero-values fall back to the documented
// defaults; an explicitly invalid cfg (e.g. CacheCapacity < 0) is
// rejected.
func New(cfg Config, verifier Verifier) (*Store, error) {
	if cfg.CacheCapacity < 0 || cfg.MaxProofSize < 0 || cfg.VerificationTimeout < 0 {
		return nil, ErrInvalidArgument.withMessage("configuration values must be non-negative")
	}
	cfg = cfg.withDefaults()
	if verifier == nil {
		return nil, ErrInvalidArgument.withMessage("verifier must not be nil")
	}

	return &Store{
		proofs:       make(map[string]*StoredProof),
		cache:        newLRUCache(cfg.CacheCapacity),
		dispatch:     newVerifierDispatch(verifier, cfg.VerificationTimeout),
		ids:          newIDGen(),
		clk:          newClock(),
		cfg:          cfg,
		proofsByType: make(map[ProofType]int64),
	}, nil
}

// Submit validates and inserts a new proof, returning its fresh id.
func (s *Store) Submit(proofType ProofType, proofBytes []byte, metadata ProofMetadata) (string, error) {
	if !proofType.Valid() {
		return "", ErrInvalidProofType
	}
	if int64(len(proofBytes)) > s.cfg.MaxProofSize {
		return "", ErrPayloadTooLarge
	}

	id := s.ids.freshID()
	createdAt := s.clk.now()

	bytesCopy := append([]byte(nil), proofBytes...)
	record := &StoredProof{
		ID:                id,
		ProofType:         proofType,
		ProofBytes:        bytesCopy,
		Metadata:          cloneMetadata(metadata),
		Status:            StatusPending,
		CreatedAt:         createdAt,
		VerificationCount: 0,
	}

	s.mu.Lock()
	s.proofs[id] = record
	s.proofsByType[proofType]++
	s.totalBytes += int64(len(bytesCopy))
	s.mu.Unlock()

	return id, nil
}

// Get returns a snapshot of the stored proof, or false if absent.
func (s *Store) Get(id string) (StoredProof, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.proofs[id]
	if !ok {
		return StoredProof{}, false
	}
	return cloneProof(record), true
}

// List returns StoredProof snapshots matching filter, ordered by
// created_at ascending, ties broken by id lexicographically.
func (s *Store) List(filter Filter) []StoredProof {
	s.mu.RLock()
	matches := make([]*StoredProof, 0, len(s.proofs))
	for _, record := range s.proofs {
		if filter.ProofType != nil && record.ProofType != *filter.ProofType {
			continue
		}
		if filter.Status != nil && record.Status != *filter.Status {
			continue
		}
		matches = append(matches, record)
	}
	s.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].CreatedAt.Before(matches[j].CreatedAt)
		}
		return matches[i].ID < matches[j].ID
	})

	if filter.Offset != nil && *filter.Offset > 0 {
		if *filter.Offset >= len(matches) {
			matches = nil
		} else {
			matches = matches[*filter.Offset:]
		}
	}
	if filter.Limit != nil && *filter.Limit >= 0 && *filter.Limit < len(matches) {
		matches = matches[:*filter.Limit]
	}

	out := make([]StoredProof, len(matches))
	for i, record := range matches {
		out[i] = cloneProof(record)
	}
	return out
}

// Delete removes a proof by id. The cache is never touched: bytes
// submitted again later under a fresh id must still hit the cache
// (spec.md §3, CacheEntry lifecycle).
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.proofs[id]
	if !ok {
		return false
	}
	delete(s.proofs, id)
	s.proofsByType[record.ProofType]--
	s.totalBytes -= int64(len(record.ProofBytes))
	return true
}

// Verify looks up the proof, resolves its result via the cache or a fresh
// verifier dispatch, mutates the record, and updates stats. The writer
// guard is held only for the final mutation, per spec.md §5.
func (s *Store) Verify(ctx context.Context, id string) (VerificationResult, error) {
	s.mu.RLock()
	record, ok := s.proofs[id]
	var proofType ProofType
	var proofBytes []byte
	if ok {
		proofType = record.ProofType
		proofBytes = record.ProofBytes
	}
	s.mu.RUnlock()
	if !ok {
		return VerificationResult{}, ErrNotFound
	}

	key := newCacheKey(proofType, proofBytes)

	var out dispatchResult
	if cached, hit := s.cache.get(key); hit {
		out = dispatchResult{outcome: outcomeVerified, result: cached}
	} else {
		out = s.dispatch.dispatch(ctx, proofType, proofBytes)
		if out.outcome != outcomeTimeout {
			// Internal-error results are not cached either: they reflect
			// a transient verifier failure, not a property of (type,
			// bytes), and caching one would wrongly freeze a proof as
			// broken.
			if out.outcome == outcomeVerified {
				s.cache.put(key, out.result)
			}
		}
	}

	s.mu.Lock()
	record, ok = s.proofs[id]
	if !ok {
		s.mu.Unlock()
		return VerificationResult{}, ErrNotFound
	}
	now := s.clk.now()
	record.VerifiedAt = &now
	record.VerificationCount++

	s.totalVerifications++
	switch {
	case out.outcome == outcomeTimeout:
		record.Status = StatusError
		s.errorVerifications++
	case out.outcome == outcomeInternalError:
		record.Status = StatusError
		s.errorVerifications++
	case out.result.Valid:
		record.Status = StatusValid
		s.successfulVerifications++
	default:
		record.Status = StatusInvalid
		s.failedVerifications++
	}
	s.mu.Unlock()

	return out.result, nil
}

// CacheClear removes all cached verification results without resetting
// their hit/miss counters.
func (s *Store) CacheClear() {
	s.cache.clear()
}

// Stats assembles a coherent snapshot per spec.md §4.6.
func (s *Store) Stats() StoreStats {
	s.mu.RLock()
	byType := make(map[ProofType]int64, len(s.proofsByType))
	var total int64
	for t, n := range s.proofsByType {
		if n == 0 {
			continue
		}
		byType[t] = n
		total += n
	}
	stats := StoreStats{
		TotalProofs:             total,
		ProofsByType:            byType,
		TotalVerifications:      s.totalVerifications,
		SuccessfulVerifications: s.successfulVerifications,
		FailedVerifications:     s.failedVerifications,
		ErrorVerifications:      s.errorVerifications,
		TotalBytes:              s.totalBytes,
	}
	s.mu.RUnlock()

	hits, misses := s.cache.hitsAndMisses()
	stats.CacheHits = hits
	stats.CacheMisses = misses
	if denom := hits + misses; denom > 0 {
		stats.CacheHitRate = float64(hits) / float64(denom)
	}
	return stats
}

func cloneProof(record *StoredProof) StoredProof {
	out := *record
	out.ProofBytes = append([]byte(nil), record.ProofBytes...)
	out.Metadata = cloneMetadata(record.Metadata)
	if record.VerifiedAt != nil {
		t := *record.VerifiedAt
		out.VerifiedAt = &t
	}
	return out
}

func cloneMetadata(md ProofMetadata) ProofMetadata {
	out := ProofMetadata{Submitter: md.Submitter}
	if md.Tags != nil {
		out.Tags = append([]string(nil), md.Tags...)
	}
	if md.Extra != nil {
		out.Extra = make(map[string]interface{}, len(md.Extra))
		for k, v := range md.Extra {
			out.Extra[k] = v
		}
	}
	return out
}
