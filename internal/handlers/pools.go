package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"
)

type createPoolRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Goal        decimal.Decimal `json:"goal"`
}

type contributionRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

type proposalRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Reason   string          `json:"reason"`
	Category string          `json:"category"`
}

type analyzeRequest struct {
	Reason string `json:"reason"`
}

// ListPools returns every pool, newest first.
func (h *Handlers) ListPools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.Pools())
}

// GetPool returns a single pool.
func (h *Handlers) GetPool(w http.ResponseWriter, r *http.Request) {
	pool, err := h.engine.Pool(r.PathValue("id"))
	if err != nil {
		h.writeLedgerError(w, "GetPool", err)
		return
	}
	writeJSON(w, http.StatusOK, pool)
}

// CreatePool creates a pool owned by the acting user.
func (h *Handlers) CreatePool(w http.ResponseWriter, r *http.Request) {
	var req createPoolRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	pool, err := h.engine.CreatePool(*GetUserFromContext(r), req.Name, req.Description, req.Goal)
	if err != nil {
		h.writeLedgerError(w, "CreatePool", err)
		return
	}
	writeJSON(w, http.StatusCreated, pool)
}

// JoinPool adds the acting user to a pool's members.
func (h *Handlers) JoinPool(w http.ResponseWriter, r *http.Request) {
	pool, err := h.engine.AddMember(*GetUserFromContext(r), r.PathValue("id"))
	if err != nil {
		h.writeLedgerError(w, "JoinPool", err)
		return
	}
	writeJSON(w, http.StatusOK, pool)
}

// AddContribution records a contribution from the acting user.
func (h *Handlers) AddContribution(w http.ResponseWriter, r *http.Request) {
	var req contributionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	pool, err := h.engine.AddContribution(*GetUserFromContext(r), r.PathValue("id"), req.Amount, req.Description)
	if err != nil {
		h.writeLedgerError(w, "AddContribution", err)
		return
	}
	writeJSON(w, http.StatusCreated, pool)
}

// CreateProposal opens a withdrawal proposal on behalf of the acting user.
func (h *Handlers) CreateProposal(w http.ResponseWriter, r *http.Request) {
	var req proposalRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	pool, err := h.engine.CreateWithdrawalProposal(*GetUserFromContext(r), r.PathValue("id"), req.Amount, req.Reason, req.Category)
	if err != nil {
		h.writeLedgerError(w, "CreateProposal", err)
		return
	}
	writeJSON(w, http.StatusCreated, pool)
}

// ApproveProposal records the acting user's approval.
func (h *Handlers) ApproveProposal(w http.ResponseWriter, r *http.Request) {
	pool, err := h.engine.ApproveWithdrawal(*GetUserFromContext(r), r.PathValue("id"), r.PathValue("proposalID"))
	if err != nil {
		h.writeLedgerError(w, "ApproveProposal", err)
		return
	}
	writeJSON(w, http.StatusOK, pool)
}

// AnalyzeReason suggests a summary and category for a withdrawal reason.
// It always answers 200 for a non-empty reason; failures yield the fallback.
func (h *Handlers) AnalyzeReason(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Reason == "" {
		writeError(w, http.StatusBadRequest, "reason is required")
		return
	}
	writeJSON(w, http.StatusOK, h.analyzer.Analyze(r.Context(), req.Reason))
}
