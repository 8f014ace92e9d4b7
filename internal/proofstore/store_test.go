package proofstore

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// stubVerifier is a programmable Verifier for exercising Store in
// isolation from any real cryptography.
type stubVerifier struct {
	calls      int64
	delay      time.Duration
	resultFunc func(ProofType, []byte) (bool, string, error)
}

func (s *stubVerifier) Verify(ctx context.Context, proofType ProofType, proofBytes []byte) (bool, string, error) {
	atomic.AddInt64(&s.calls, 1)
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
		}
	}
	if s.resultFunc != nil {
		return s.resultFunc(proofType, proofBytes)
	}
	return true, "", nil
}

func newTestStore(t *testing.T, verifier Verifier, cfg Config) *Store {
	t.Helper()
	s, err := New(cfg, verifier)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestSubmitRejectsInvalidProofType(t *testing.T) {
	s := newTestStore(t, &stubVerifier{}, DefaultConfig())
	_, err := s.Submit(ProofType("not-a-real-type"), []byte("{}"), ProofMetadata{})
	if err != ErrInvalidProofType {
		t.Fatalf("expected ErrInvalidProofType, got %v", err)
	}
}

func TestSubmitRejectsOversizedPayload(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxProofSize = 4
	s := newTestStore(t, &stubVerifier{}, cfg)
	_, err := s.Submit(ProofSchnorr, []byte("too big"), ProofMetadata{})
	if err != ErrPayloadTooLarge {
		t.Fatalf("expected ErrPayloadTooLarge, got %v", err)
	}
}

func TestSubmitThenGetRoundTrips(t *testing.T) {
	s := newTestStore(t, &stubVerifier{}, DefaultConfig())
	id, err := s.Submit(ProofSchnorr, []byte(`{"a":1}`), ProofMetadata{Submitter: "alice"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	got, ok := s.Get(id)
	if !ok {
		t.Fatal("expected to find submitted proof")
	}
	if got.Status != StatusPending {
		t.Fatalf("expected pending status, got %s", got.Status)
	}
	if got.Metadata.Submitter != "alice" {
		t.Fatalf("expected submitter alice, got %q", got.Metadata.Submitter)
	}
}

func TestGetMissingReturnsFalse(t *testing.T) {
	s := newTestStore(t, &stubVerifier{}, DefaultConfig())
	if _, ok := s.Get("does-not-exist"); ok {
		t.Fatal("expected ok=false for missing id")
	}
}

func TestDeleteRemovesProofButNotCache(t *testing.T) {
	s := newTestStore(t, &stubVerifier{}, DefaultConfig())
	id, err := s.Submit(ProofSchnorr, []byte(`{"a":1}`), ProofMetadata{})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := s.Verify(context.Background(), id); err != nil {
		t.Fatalf("Verify: %v", err)
	}

	if !s.Delete(id) {
		t.Fatal("expected Delete to report success")
	}
	if ok := s.Delete(id); ok {
		t.Fatal("expected second Delete to report failure")
	}
	if _, ok := s.Get(id); ok {
		t.Fatal("expected proof to be gone after Delete")
	}
	if got := s.cache.len(); got != 1 {
		t.Fatalf("expected cache entry to survive Delete, got len %d", got)
	}
}

func TestVerifyUnknownIDReturnsNotFound(t *testing.T) {
	s := newTestStore(t, &stubVerifier{}, DefaultConfig())
	if _, err := s.Verify(context.Background(), "missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestVerifySecondCallHitsCache(t *testing.T) {
	v := &stubVerifier{}
	s := newTestStore(t, v, DefaultConfig())
	id, err := s.Submit(ProofSchnorr, []byte(`{"a":1}`), ProofMetadata{})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if _, err := s.Verify(context.Background(), id); err != nil {
		t.Fatalf("first Verify: %v", err)
	}
	if _, err := s.Verify(context.Background(), id); err != nil {
		t.Fatalf("second Verify: %v", err)
	}

	if atomic.LoadInt64(&v.calls) != 1 {
		t.Fatalf("expected exactly one verifier dispatch, got %d", v.calls)
	}

	stats := s.Stats()
	if stats.CacheHits != 1 || stats.CacheMisses != 1 {
		t.Fatalf("expected 1 hit / 1 miss, got %+v", stats)
	}
}

func TestVerifySameBytesDifferentIDsShareCacheEntry(t *testing.T) {
	v := &stubVerifier{}
	s := newTestStore(t, v, DefaultConfig())
	bytesIn := []byte(`{"a":1}`)

	id1, err := s.Submit(ProofSchnorr, bytesIn, ProofMetadata{})
	if err != nil {
		t.Fatalf("Submit 1: %v", err)
	}
	id2, err := s.Submit(ProofSchnorr, bytesIn, ProofMetadata{})
	if err != nil {
		t.Fatalf("Submit 2: %v", err)
	}

	if _, err := s.Verify(context.Background(), id1); err != nil {
		t.Fatalf("Verify 1: %v", err)
	}
	if _, err := s.Verify(context.Background(), id2); err != nil {
		t.Fatalf("Verify 2: %v", err)
	}

	if atomic.LoadInt64(&v.calls) != 1 {
		t.Fatalf("expected cache to be shared across ids with identical bytes, got %d dispatches", v.calls)
	}
}

func TestVerifyTimeoutIsNotCached(t *testing.T) {
	v := &stubVerifier{delay: 50 * time.Millisecond}
	cfg := DefaultConfig()
	cfg.VerificationTimeout = 5 * time.Millisecond
	s := newTestStore(t, v, cfg)

	id, err := s.Submit(ProofSchnorr, []byte(`{"a":1}`), ProofMetadata{})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	result, err := s.Verify(context.Background(), id)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if result.Valid {
		t.Fatal("expected timed-out verification to be reported invalid")
	}

	got, _ := s.Get(id)
	if got.Status != StatusError {
		t.Fatalf("expected StatusError after timeout, got %s", got.Status)
	}
	if got := s.cache.len(); got != 0 {
		t.Fatalf("expected timeout result not to be cached, got len %d", got)
	}
}

func TestVerifyInternalErrorIsNotCached(t *testing.T) {
	v := &stubVerifier{resultFunc: func(ProofType, []byte) (bool, string, error) {
		return false, "", errUnavailable
	}}
	s := newTestStore(t, v, DefaultConfig())

	id, err := s.Submit(ProofSchnorr, []byte(`{"a":1}`), ProofMetadata{})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if _, err := s.Verify(context.Background(), id); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	got, _ := s.Get(id)
	if got.Status != StatusError {
		t.Fatalf("expected StatusError, got %s", got.Status)
	}
	if got := s.cache.len(); got != 0 {
		t.Fatalf("expected internal-error result not to be cached, got len %d", got)
	}

	// A second verify attempt must re-dispatch, not serve a frozen error
	// from cache.
	if _, err := s.Verify(context.Background(), id); err != nil {
		t.Fatalf("second Verify: %v", err)
	}
	if atomic.LoadInt64(&v.calls) != 2 {
		t.Fatalf("expected two dispatches, got %d", v.calls)
	}
}

func TestVerifyInvalidResultSetsStatusInvalid(t *testing.T) {
	v := &stubVerifier{resultFunc: func(ProofType, []byte) (bool, string, error) {
		return false, "signature mismatch", nil
	}}
	s := newTestStore(t, v, DefaultConfig())
	id, err := s.Submit(ProofSchnorr, []byte(`{"a":1}`), ProofMetadata{})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	result, err := s.Verify(context.Background(), id)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if result.Valid {
		t.Fatal("expected invalid result")
	}
	got, _ := s.Get(id)
	if got.Status != StatusInvalid {
		t.Fatalf("expected StatusInvalid, got %s", got.Status)
	}
}

func TestListFiltersByTypeAndStatus(t *testing.T) {
	s := newTestStore(t, &stubVerifier{}, DefaultConfig())
	id1, _ := s.Submit(ProofSchnorr, []byte(`{"a":1}`), ProofMetadata{})
	id2, _ := s.Submit(ProofRange, []byte(`{"b":2}`), ProofMetadata{})
	_, _ = s.Verify(context.Background(), id1)

	schnorrType := ProofSchnorr
	results := s.List(Filter{ProofType: &schnorrType})
	if len(results) != 1 || results[0].ID != id1 {
		t.Fatalf("expected exactly id1 for schnorr filter, got %+v", results)
	}

	validStatus := StatusValid
	byStatus := s.List(Filter{Status: &validStatus})
	if len(byStatus) != 1 || byStatus[0].ID != id1 {
		t.Fatalf("expected exactly id1 for valid-status filter, got %+v", byStatus)
	}

	all := s.List(Filter{})
	if len(all) != 2 {
		t.Fatalf("expected 2 proofs total, got %d", len(all))
	}
	_ = id2
}

func TestListOrderingAndPagination(t *testing.T) {
	s := newTestStore(t, &stubVerifier{}, DefaultConfig())
	var ids []string
	for i := 0; i < 5; i++ {
		id, err := s.Submit(ProofSchnorr, []byte(`{"a":1}`), ProofMetadata{})
		if err != nil {
			t.Fatalf("Submit %d: %v", i, err)
		}
		ids = append(ids, id)
	}

	all := s.List(Filter{})
	if len(all) != 5 {
		t.Fatalf("expected 5 proofs, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].CreatedAt.Before(all[i-1].CreatedAt) {
			t.Fatal("expected non-decreasing created_at ordering")
		}
	}

	limit, offset := 2, 1
	page := s.List(Filter{Limit: &limit, Offset: &offset})
	if len(page) != 2 {
		t.Fatalf("expected page of 2, got %d", len(page))
	}
	if page[0].ID != all[1].ID || page[1].ID != all[2].ID {
		t.Fatal("expected offset/limit to select the second and third records")
	}
}

func TestStatsReflectsSubmissionsAndVerifications(t *testing.T) {
	v := &stubVerifier{resultFunc: func(pt ProofType, _ []byte) (bool, string, error) {
		return pt == ProofSchnorr, "", nil
	}}
	s := newTestStore(t, v, DefaultConfig())

	id1, _ := s.Submit(ProofSchnorr, []byte(`{"a":1}`), ProofMetadata{})
	id2, _ := s.Submit(ProofRange, []byte(`{"b":2}`), ProofMetadata{})

	if _, err := s.Verify(context.Background(), id1); err != nil {
		t.Fatalf("Verify 1: %v", err)
	}
	if _, err := s.Verify(context.Background(), id2); err != nil {
		t.Fatalf("Verify 2: %v", err)
	}

	stats := s.Stats()
	if stats.TotalProofs != 2 {
		t.Fatalf("expected 2 total proofs, got %d", stats.TotalProofs)
	}
	if stats.TotalVerifications != 2 {
		t.Fatalf("expected 2 total verifications, got %d", stats.TotalVerifications)
	}
	if stats.SuccessfulVerifications != 1 || stats.FailedVerifications != 1 {
		t.Fatalf("expected 1 success / 1 failure, got %+v", stats)
	}
	if stats.ProofsByType[ProofSchnorr] != 1 || stats.ProofsByType[ProofRange] != 1 {
		t.Fatalf("expected one proof per type, got %+v", stats.ProofsByType)
	}
}

func TestCacheClearDropsEntriesKeepsCounters(t *testing.T) {
	v := &stubVerifier{}
	s := newTestStore(t, v, DefaultConfig())
	id, _ := s.Submit(ProofSchnorr, []byte(`{"a":1}`), ProofMetadata{})
	if _, err := s.Verify(context.Background(), id); err != nil {
		t.Fatalf("Verify: %v", err)
	}

	s.CacheClear()
	if got := s.cache.len(); got != 0 {
		t.Fatalf("expected cache empty after clear, got len %d", got)
	}

	if _, err := s.Verify(context.Background(), id); err != nil {
		t.Fatalf("second Verify: %v", err)
	}
	if atomic.LoadInt64(&v.calls) != 2 {
		t.Fatalf("expected re-dispatch after cache clear, got %d calls", v.calls)
	}
}

func TestConcurrentSubmitAndVerifyIsRaceFree(t *testing.T) {
	s := newTestStore(t, &stubVerifier{}, DefaultConfig())

	var wg sync.WaitGroup
	ids := make(chan string, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id, err := s.Submit(ProofSchnorr, []byte(`{"n":1}`), ProofMetadata{})
			if err != nil {
				t.Errorf("Submit: %v", err)
				return
			}
			ids <- id
		}(i)
	}
	wg.Wait()
	close(ids)

	for id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if _, err := s.Verify(context.Background(), id); err != nil {
				t.Errorf("Verify: %v", err)
			}
		}(id)
	}
	wg.Wait()

	stats := s.Stats()
	if stats.TotalProofs != 50 {
		t.Fatalf("expected 50 proofs, got %d", stats.TotalProofs)
	}
}

var errUnavailable = &Error{Code: CodeVerificationInternalError, Message: "verifier unavailable"}
