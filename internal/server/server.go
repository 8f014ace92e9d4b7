// Copyright 2025 Certen Protocol
//
// REST transport wiring for the proof store. This package is the
// external collaborator spec.md §1 treats as out of scope for the core:
// route dispatch, request/response framing, and error-code mapping all
// live here, never inside internal/proofstore.

package server

import (
	"log"
	"net/http"

	"github.com/certen/proofstore/internal/proofstore"
)

// Handlers implements the REST surface of spec.md §6 over a *proofstore.Store.
type Handlers struct {
	store  *proofstore.Store
	logger *log.Logger
}

// NewHandlers constructs request handlers bound to store. A nil logger
// falls back to a component-prefixed stderr logger, matching the
// teacher's NewProofHandlers constructor.
func NewHandlers(store *proofstore.Store, logger *log.Logger) *Handlers {
	if logger == nil {
		logger = log.New(log.Writer(), "[proofstore-api] ", log.LstdFlags)
	}
	return &Handlers{store: store, logger: logger}
}

// NewMux registers every endpoint in spec.md §6 on a fresh ServeMux.
func NewMux(h *Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("/api/v1/stats", h.HandleStats)
	mux.HandleFunc("/api/v1/cache/clear", h.HandleCacheClear)
	mux.HandleFunc("/api/v1/proofs/batch", h.HandleSubmitBatch)
	mux.HandleFunc("/api/v1/proofs/batch/verify", h.HandleVerifyBatch)
	mux.HandleFunc("/api/v1/proofs", h.HandleProofsCollection)
	mux.HandleFunc("/api/v1/proofs/", h.HandleProofByID)

	return mux
}
