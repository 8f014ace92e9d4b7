// Copyright 2025 Certen Protocol
//
// HTTP handlers for the proof store REST surface (spec.md §6), grounded
// on the validator's pkg/server/proof_handlers.go: net/http.HandleFunc
// per route, path-prefix parsing via strings.TrimPrefix/Split, and a
// writeJSON/writeError helper pair for consistent envelopes.

package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/certen/proofstore/internal/proofstore"
)

// submitRequest is the wire shape of a single proof submission
// (spec.md §6, "Submit request").
type submitRequest struct {
	ProofType string                    `json:"proof_type"`
	ProofData json.RawMessage           `json:"proof_data"`
	Metadata  *proofstore.ProofMetadata `json:"metadata,omitempty"`
}

type submitResponse struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type verifyResponse struct {
	ID                     string     `json:"id"`
	Valid                  bool       `json:"valid"`
	VerificationTimeMicros int64      `json:"verification_time_micros"`
	Message                string     `json:"message,omitempty"`
	Status                 string     `json:"status"`
	VerifiedAt             *time.Time `json:"verified_at,omitempty"`
}

// canonicalizeProofData compacts proof_data before it reaches the core
// (spec.md §9 Open Question 3: the core assumes canonicalized bytes;
// canonicalization is the transport's job). Compacting removes
// insignificant whitespace only: object key order and number spelling are
// kept as sent, so equivalent JSON written differently yields different
// bytes.
func canonicalizeProofData(raw json.RawMessage) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// HandleProofsCollection serves POST (submit) and GET (list) on
// /api/v1/proofs.
func (h *Handlers) HandleProofsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handleSubmit(w, r)
	case http.MethodGet:
		h.handleList(w, r)
	default:
		h.writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "only GET and POST are allowed")
	}
}

func (h *Handlers) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, proofstore.CodeMalformedProofData, "request body is not valid JSON")
		return
	}

	proofBytes, err := canonicalizeProofData(req.ProofData)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, proofstore.CodeMalformedProofData, "proof_data is not valid JSON")
		return
	}

	metadata := proofstore.ProofMetadata{}
	if req.Metadata != nil {
		metadata = *req.Metadata
	}

	id, err := h.store.Submit(proofstore.ProofType(req.ProofType), proofBytes, metadata)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	record, _ := h.store.Get(id)
	h.writeJSON(w, http.StatusOK, submitResponse{
		ID:        id,
		Status:    string(record.Status),
		CreatedAt: record.CreatedAt,
	})
}

func (h *Handlers) handleList(w http.ResponseWriter, r *http.Request) {
	filter := proofstore.Filter{}
	if v := r.URL.Query().Get("proof_type"); v != "" {
		pt := proofstore.ProofType(v)
		filter.ProofType = &pt
	}
	if v := r.URL.Query().Get("status"); v != "" {
		st := proofstore.ProofStatus(v)
		filter.Status = &st
	}
	if v := h.parseIntParam(r, "limit", -1); v >= 0 {
		filter.Limit = &v
	}
	if v := h.parseIntParam(r, "offset", 0); v > 0 {
		filter.Offset = &v
	}

	records := h.store.List(filter)
	out := make([]map[string]interface{}, len(records))
	for i, rec := range records {
		out[i] = proofView(rec, false)
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"proofs": out,
		"count":  len(out),
	})
}

// HandleProofByID serves /api/v1/proofs/{id} and
// /api/v1/proofs/{id}/verify.
func (h *Handlers) HandleProofByID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/proofs/")
	parts := strings.SplitN(strings.TrimSuffix(path, "/"), "/", 2)
	id := parts[0]
	if id == "" {
		h.writeError(w, http.StatusBadRequest, proofstore.CodeInvalidArgument, "proof id is required")
		return
	}

	if len(parts) == 2 && parts[1] == "verify" {
		h.handleVerify(w, r, id)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleGet(w, r, id)
	case http.MethodDelete:
		h.handleDelete(w, id)
	default:
		h.writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "only GET and DELETE are allowed")
	}
}

func (h *Handlers) handleGet(w http.ResponseWriter, r *http.Request, id string) {
	record, ok := h.store.Get(id)
	if !ok {
		h.writeError(w, http.StatusNotFound, proofstore.CodeNotFound, "proof not found")
		return
	}
	includeBytes := r.URL.Query().Get("include_bytes") == "true"
	h.writeJSON(w, http.StatusOK, proofView(record, includeBytes))
}

func (h *Handlers) handleDelete(w http.ResponseWriter, id string) {
	if h.store.Delete(id) {
		h.writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
		return
	}
	h.writeError(w, http.StatusNotFound, proofstore.CodeNotFound, "proof not found")
}

func (h *Handlers) handleVerify(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "only POST is allowed")
		return
	}

	result, err := h.store.Verify(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	record, _ := h.store.Get(id)
	h.writeJSON(w, http.StatusOK, verifyResponse{
		ID:                     id,
		Valid:                  result.Valid,
		VerificationTimeMicros: result.VerificationTimeMicros,
		Message:                result.Message,
		Status:                 string(record.Status),
		VerifiedAt:             record.VerifiedAt,
	})
}

type batchSubmitRequest struct {
	Requests []submitRequest `json:"requests"`
}

type batchResultItem struct {
	Index int    `json:"index"`
	ID    string `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
}

// HandleSubmitBatch serves POST /api/v1/proofs/batch.
func (h *Handlers) HandleSubmitBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "only POST is allowed")
		return
	}

	var req batchSubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, proofstore.CodeMalformedProofData, "request body is not valid JSON")
		return
	}

	out := make([]batchResultItem, len(req.Requests))
	var jobs []proofstore.SubmitRequest
	var jobIndices []int
	for i, item := range req.Requests {
		proofBytes, err := canonicalizeProofData(item.ProofData)
		if err != nil {
			out[i] = batchResultItem{Index: i, Error: proofstore.ErrMalformedProofData.Error()}
			continue
		}
		metadata := proofstore.ProofMetadata{}
		if item.Metadata != nil {
			metadata = *item.Metadata
		}
		jobs = append(jobs, proofstore.SubmitRequest{
			ProofType:  proofstore.ProofType(item.ProofType),
			ProofBytes: proofBytes,
			Metadata:   metadata,
		})
		jobIndices = append(jobIndices, i)
	}

	results := h.store.SubmitBatch(jobs)
	for j, res := range results {
		i := jobIndices[j]
		if res.Err != nil {
			out[i] = batchResultItem{Index: i, Error: res.Err.Error()}
		} else {
			out[i] = batchResultItem{Index: i, ID: res.ID}
		}
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"results": out})
}

type batchVerifyRequest struct {
	IDs []string `json:"ids"`
}

type batchVerifyResultItem struct {
	Index                  int    `json:"index"`
	Valid                  bool   `json:"valid,omitempty"`
	VerificationTimeMicros int64  `json:"verification_time_micros,omitempty"`
	Message                string `json:"message,omitempty"`
	Error                  string `json:"error,omitempty"`
}

// HandleVerifyBatch serves POST /api/v1/proofs/batch/verify.
func (h *Handlers) HandleVerifyBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "only POST is allowed")
		return
	}

	var req batchVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, proofstore.CodeMalformedProofData, "request body is not valid JSON")
		return
	}

	results := h.store.VerifyBatch(r.Context(), req.IDs)
	out := make([]batchVerifyResultItem, len(results))
	for i, res := range results {
		if res.Err != nil {
			out[i] = batchVerifyResultItem{Index: res.Index, Error: res.Err.Error()}
			continue
		}
		out[i] = batchVerifyResultItem{
			Index:                  res.Index,
			Valid:                  res.Result.Valid,
			VerificationTimeMicros: res.Result.VerificationTimeMicros,
			Message:                res.Result.Message,
		}
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"results": out})
}

// HandleStats serves GET /api/v1/stats.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "only GET is allowed")
		return
	}
	h.writeJSON(w, http.StatusOK, h.store.Stats())
}

// HandleCacheClear serves POST /api/v1/cache/clear.
func (h *Handlers) HandleCacheClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "only POST is allowed")
		return
	}
	h.store.CacheClear()
	h.writeJSON(w, http.StatusOK, map[string]bool{"cleared": true})
}

func proofView(record proofstore.StoredProof, includeBytes bool) map[string]interface{} {
	view := map[string]interface{}{
		"id":                 record.ID,
		"proof_type":         record.ProofType,
		"metadata":           record.Metadata,
		"status":             record.Status,
		"created_at":         record.CreatedAt,
		"verified_at":        record.VerifiedAt,
		"verification_count": record.VerificationCount,
	}
	if includeBytes {
		view["proof_bytes"] = record.ProofBytes
	}
	return view
}

func (h *Handlers) parseIntParam(r *http.Request, name string, defaultVal int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return defaultVal
	}
	return v
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Printf("error encoding response: %v", err)
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, status int, code, message string) {
	h.writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

// writeStoreError maps a proofstore.Error to its suggested HTTP status
// (spec.md §7's table).
func (h *Handlers) writeStoreError(w http.ResponseWriter, err error) {
	var pe *proofstore.Error
	if !errors.As(err, &pe) {
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}

	status := http.StatusInternalServerError
	switch pe.Code {
	case proofstore.CodeNotFound:
		status = http.StatusNotFound
	case proofstore.CodePayloadTooLarge:
		status = http.StatusRequestEntityTooLarge
	case proofstore.CodeInvalidProofType, proofstore.CodeMalformedProofData, proofstore.CodeInvalidArgument:
		status = http.StatusBadRequest
	case proofstore.CodeVerificationTimeout:
		status = http.StatusGatewayTimeout
	case proofstore.CodeVerificationInternalError:
		status = http.StatusInternalServerError
	}
	h.writeError(w, status, pe.Code, pe.Message)
}
