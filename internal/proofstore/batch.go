// Copyright 2025 Certen Protocol
//
// Batch Pipeline (C5): applies Submit/Verify to an input sequence with
// partial-failure semantics — one entry's error never aborts the rest,
// and per-index ordering is preserved in the result (spec.md §4.5).
//
// Grounded on the teacher's producer/consumer batch shape
// (pkg/batch/collector.go, pkg/batch/processor.go), generalized from
// "batch of transactions" to "batch of proof requests" with a bounded
// worker pool instead of a single accumulating batch.

package proofstore

import (
	"context"
	"sync"
)

const defaultBatchWorkers = 8

// SubmitRequest is a single entry of a batch submission.
type SubmitRequest struct {
	ProofType  ProofType
	ProofBytes []byte
	Metadata   ProofMetadata
}

// IndexedSubmitResult carries the outcome of one SubmitRequest at its
// original position in the batch.
type IndexedSubmitResult struct {
	Index int
	ID    string
	Err   error
}

// IndexedVerifyResult carries the outcome of one verify-batch id at its
// original position in the batch.
type IndexedVerifyResult struct {
	Index  int
	Result VerificationResult
	Err    error
}

func workerCount(n, requested int) int {
	if requested <= 0 {
		requested = defaultBatchWorkers
	}
	if requested > n {
		requested = n
	}
	if requested < 1 {
		requested = 1
	}
	return requested
}

// SubmitBatch applies Submit to each request independently. An empty
// input returns an empty, non-error result.
func (s *Store) SubmitBatch(requests []SubmitRequest) []IndexedSubmitResult {
	return s.SubmitBatchWithWorkers(requests, 0)
}

// SubmitBatchWithWorkers is SubmitBatch with an explicit worker-pool size
// (0 selects the default).
func (s *Store) SubmitBatchWithWorkers(requests []SubmitRequest, workers int) []IndexedSubmitResult {
	results := make([]IndexedSubmitResult, len(requests))
	if len(requests) == 0 {
		return results
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	n := workerCount(len(requests), workers)
	for w := 0; w < n; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				req := requests[idx]
				id, err := s.Submit(req.ProofType, req.ProofBytes, req.Metadata)
				results[idx] = IndexedSubmitResult{Index: idx, ID: id, Err: err}
			}
		}()
	}
	for idx := range requests {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	return results
}

// VerifyBatch applies Verify to each id independently, preserving input
// order including duplicates: each position is a distinct logical
// verification and increments counters accordingly.
func (s *Store) VerifyBatch(ctx context.Context, ids []string) []IndexedVerifyResult {
	return s.VerifyBatchWithWorkers(ctx, ids, 0)
}

// VerifyBatchWithWorkers is VerifyBatch with an explicit worker-pool size
// (0 selects the default).
func (s *Store) VerifyBatchWithWorkers(ctx context.Context, ids []string, workers int) []IndexedVerifyResult {
	results := make([]IndexedVerifyResult, len(ids))
	if len(ids) == 0 {
		return results
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	n := workerCount(len(ids), workers)
	for w := 0; w < n; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				result, err := s.Verify(ctx, ids[idx])
				results[idx] = IndexedVerifyResult{Index: idx, Result: result, Err: err}
			}
		}()
	}
	for idx := range ids {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	return results
}
