package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/fastprodman/pointledger/internal/services/history"
)

const (
	timeLayout = time.RFC3339Nano
	dateLayout = time.DateOnly
)

// BalanceHandler handles GET /users/{userId}/balance
func (h *HandlerProvider) BalanceHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid userId in path")
		return
	}

	balance, err := h.ledger.Balance(r.Context(), callerOf(r), userID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"userId":  userID,
		"balance": balance,
	})
}

// ActivityHandler handles GET /users/{userId}/activity
//
// Optional query: activityId, startDate and endDate as YYYY-MM-DD.
func (h *HandlerProvider) ActivityHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid userId in path")
		return
	}

	f, err := parseActivityFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := h.history.MemberActivity(r.Context(), callerOf(r), userID, f)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"userId": userID,
		"items":  historyResp(rows),
	})
}

func parseActivityFilter(r *http.Request) (history.Filter, error) {
	var f history.Filter

	q := r.URL.Query()

	if raw := q.Get("activityId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return f, errors.New("invalid activityId")
		}

		f.ActivityID = &id
	}

	if raw := q.Get("startDate"); raw != "" {
		d, err := time.Parse(dateLayout, raw)
		if err != nil {
			return f, errors.New("invalid startDate")
		}

		f.Start = &d
	}

	if raw := q.Get("endDate"); raw != "" {
		d, err := time.Parse(dateLayout, raw)
		if err != nil {
			return f, errors.New("invalid endDate")
		}

		f.End = &d
	}

	return f, nil
}

type redeemRequest struct {
	RewardID int64 `json:"rewardId"`
}

// RedeemHandler handles POST /users/{userId}/redemptions
func (h *HandlerProvider) RedeemHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid userId in path")
		return
	}

	var req redeemRequest

	err = decodeJSON(w, r, &req)
	if err != nil {
		if errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "empty body")
			return
		}

		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if req.RewardID <= 0 {
		writeError(w, http.StatusBadRequest, "rewardId required")
		return
	}

	receipt, err := h.ledger.Redeem(r.Context(), callerOf(r), userID, req.RewardID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"transactionId": receipt.TransactionID,
		"userId":        receipt.UserID,
		"rewardId":      receipt.RewardID,
		"points":        receipt.Points,
		"balance":       receipt.Balance,
	})
}

// HistoryHandler handles GET /history
func (h *HandlerProvider) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	rows, err := h.history.MergedHistory(r.Context(), callerOf(r))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": historyResp(rows)})
}
