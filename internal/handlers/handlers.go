package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"pool-ledger/internal/analysis"
	"pool-ledger/internal/ledger"
	"pool-ledger/internal/models"
	"pool-ledger/internal/storage"
)

// Context key type to avoid collisions.
type contextKey string

const (
	// UserContextKey is the context key for the acting user.
	UserContextKey contextKey = "user"
	// UserHeader carries the acting user's ID.
	UserHeader = "X-User-ID"
	// maxBodyBytes caps request bodies.
	maxBodyBytes = 1 << 20
)

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	engine   *ledger.Engine
	db       *storage.DB
	analyzer *analysis.Analyzer
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(engine *ledger.Engine, db *storage.DB, analyzer *analysis.Analyzer) *Handlers {
	return &Handlers{engine: engine, db: db, analyzer: analyzer}
}

// GetUserFromContext retrieves the acting user from request context.
func GetUserFromContext(r *http.Request) *models.User {
	if user, ok := r.Context().Value(UserContextKey).(*models.User); ok {
		return user
	}
	return nil
}

// ActorMiddleware resolves the acting user from the X-User-ID header and
// stores it in the request context. Unknown or missing IDs get a 401.
func (h *Handlers) ActorMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(UserHeader))
		if id == "" {
			writeError(w, http.StatusUnauthorized, "missing "+UserHeader+" header")
			return
		}

		user, err := h.db.GetUser(id)
		if err != nil {
			if !errors.Is(err, storage.ErrUserNotFound) {
				log.Printf("GetUser error: %v", err)
				writeError(w, http.StatusInternalServerError, "Internal server error")
				return
			}
			writeError(w, http.StatusUnauthorized, "unknown user")
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Health reports that the server is up.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Me returns the acting user.
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, GetUserFromContext(r))
}

// ListUsers returns the user directory.
func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.db.ListUsers()
	if err != nil {
		log.Printf("ListUsers error: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// statusFor maps ledger errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrInvalidAmount), errors.Is(err, ledger.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrDuplicateApproval),
		errors.Is(err, ledger.ErrAlreadyResolved),
		errors.Is(err, ledger.ErrSelfApproval),
		errors.Is(err, ledger.ErrAlreadyMember):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handlers) writeLedgerError(w http.ResponseWriter, op string, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		log.Printf("%s error: %v", op, err)
		writeError(w, code, "Internal server error")
		return
	}
	writeError(w, code, err.Error())
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
