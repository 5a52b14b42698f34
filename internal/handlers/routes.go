package handlers

import "net/http"

// Router returns the API routes. Everything under /api requires an acting
// user.
func (h *Handlers) Router() *http.ServeMux {
	mux := http.NewServeMux()
	actor := func(fn http.HandlerFunc) http.Handler { return h.ActorMiddleware(fn) }

	mux.HandleFunc("GET /health", h.Health)

	mux.Handle("GET /api/me", actor(h.Me))
	mux.Handle("GET /api/users", actor(h.ListUsers))

	mux.Handle("GET /api/pools", actor(h.ListPools))
	mux.Handle("POST /api/pools", actor(h.CreatePool))
	mux.Handle("GET /api/pools/{id}", actor(h.GetPool))
	mux.Handle("POST /api/pools/{id}/members", actor(h.JoinPool))
	mux.Handle("POST /api/pools/{id}/contributions", actor(h.AddContribution))
	mux.Handle("POST /api/pools/{id}/proposals", actor(h.CreateProposal))
	mux.Handle("POST /api/pools/{id}/proposals/{proposalID}/approve", actor(h.ApproveProposal))

	mux.Handle("POST /api/analyze", actor(h.AnalyzeReason))

	return mux
}
