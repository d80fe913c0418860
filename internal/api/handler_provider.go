package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fastprodman/pointledger/internal/auth"
	"github.com/fastprodman/pointledger/internal/errs"
	"github.com/fastprodman/pointledger/internal/repos/users"
	"github.com/fastprodman/pointledger/internal/services/history"
	"github.com/fastprodman/pointledger/internal/services/ledger"
)

// Ledger is the write side served over HTTP.
type Ledger interface {
	AssignPoints(ctx context.Context, caller auth.Caller, req ledger.Assignment) (ledger.BulkResult, error)
	Redeem(ctx context.Context, caller auth.Caller, userID, rewardID int64) (ledger.SpendReceipt, error)
	Balance(ctx context.Context, caller auth.Caller, userID int64) (int64, error)
	Members(ctx context.Context, caller auth.Caller) ([]users.User, error)
}

// History is the read side served over HTTP.
type History interface {
	MergedHistory(ctx context.Context, caller auth.Caller) ([]history.HistoryRow, error)
	MemberActivity(ctx context.Context, caller auth.Caller, userID int64, f history.Filter) ([]history.HistoryRow, error)
}

// HandlerProvider exposes the ledger services as HTTP handlers.
type HandlerProvider struct {
	ledger  Ledger
	history History
	log     *slog.Logger
}

func NewHandler(l Ledger, h History, logger *slog.Logger) *HandlerProvider {
	if logger == nil {
		logger = slog.Default()
	}

	return &HandlerProvider{ledger: l, history: h, log: logger}
}

// --- Helpers ---

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps the service error kinds onto status codes. Storage
// failures are logged and hidden from the client.
func (h *HandlerProvider) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, errs.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, errs.ErrUnauthorized):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, errs.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrOutOfRange):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.log.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// errorKind names an error kind for JSON bodies.
func errorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, errs.ErrValidation):
		return "validation"
	case errors.Is(err, errs.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, errs.ErrNotFound):
		return "not_found"
	case errors.Is(err, errs.ErrOutOfRange):
		return "out_of_range"
	default:
		return "storage"
	}
}

// parseUserIDFromPath reads `{userId}` from chi routes like:
//
//	GET  /users/{userId}/balance
//	POST /users/{userId}/redemptions
func parseUserIDFromPath(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "userId")
	if idStr == "" {
		return 0, fmt.Errorf("missing userId")
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid userId: %w", err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid userId: must be positive")
	}

	return id, nil
}

// decodeJSON reads a size-capped body, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	return dec.Decode(dst)
}

func callerOf(r *http.Request) auth.Caller {
	c, _ := auth.CallerFrom(r.Context())
	return c
}

type historyRowResp struct {
	Kind      history.Kind `json:"kind"`
	UserName  string       `json:"userName"`
	Subject   string       `json:"subject"`
	Points    string       `json:"points"`
	CreatedAt string       `json:"createdAt"`
	UpdatedAt string       `json:"updatedAt"`
}

func historyResp(rows []history.HistoryRow) []historyRowResp {
	out := make([]historyRowResp, 0, len(rows))
	for _, row := range rows {
		out = append(out, historyRowResp{
			Kind:      row.Kind,
			UserName:  row.UserName,
			Subject:   row.SubjectName,
			Points:    row.SignedPointsDisplay,
			CreatedAt: row.CreatedAt.UTC().Format(timeLayout),
			UpdatedAt: row.UpdatedAt.UTC().Format(timeLayout),
		})
	}

	return out
}
