package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/fastprodman/pointledger/internal/services/ledger"
)

type memberResp struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Points int64  `json:"points"`
}

// MembersHandler handles GET /admin/members
func (h *HandlerProvider) MembersHandler(w http.ResponseWriter, r *http.Request) {
	members, err := h.ledger.Members(r.Context(), callerOf(r))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	resp := make([]memberResp, 0, len(members))
	for _, m := range members {
		resp = append(resp, memberResp{ID: m.ID, Name: m.Name, Email: m.Email, Points: m.Points})
	}

	writeJSON(w, http.StatusOK, map[string]any{"members": resp})
}

type assignRequest struct {
	UserIDs         []int64 `json:"userIds"`
	Points          string  `json:"points"`
	ActivityID      *int64  `json:"activityId"`
	OneTimeActivity string  `json:"oneTimeActivity"`
}

type outcomeResp struct {
	UserID int64  `json:"userId"`
	OK     bool   `json:"ok"`
	Kind   string `json:"kind,omitempty"`
	Error  string `json:"error,omitempty"`
}

type assignResponse struct {
	BatchID  string         `json:"batchId"`
	Status   ledger.Summary `json:"status"`
	State    ledger.State   `json:"state"`
	Outcomes []outcomeResp  `json:"outcomes"`
	Skipped  []int64        `json:"skipped"`
}

// AssignPointsHandler handles POST /admin/points
//
// 200 when every user was updated, 422 when a balance range error halted the
// batch, 207 otherwise.
func (h *HandlerProvider) AssignPointsHandler(w http.ResponseWriter, r *http.Request) {
	var req assignRequest

	err := decodeJSON(w, r, &req)
	if err != nil {
		if errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "empty body")
			return
		}

		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if len(req.UserIDs) == 0 {
		writeError(w, http.StatusBadRequest, "userIds required")
		return
	}

	res, err := h.ledger.AssignPoints(r.Context(), callerOf(r), ledger.Assignment{
		UserIDs:         req.UserIDs,
		Points:          req.Points,
		ActivityID:      req.ActivityID,
		OneTimeActivity: req.OneTimeActivity,
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	resp := assignResponse{
		BatchID:  res.BatchID.String(),
		Status:   res.Summary(),
		State:    res.State,
		Outcomes: make([]outcomeResp, 0, len(res.Outcomes)),
		Skipped:  res.Skipped,
	}
	if resp.Skipped == nil {
		resp.Skipped = []int64{}
	}

	for _, o := range res.Outcomes {
		out := outcomeResp{UserID: o.UserID, OK: o.Err == nil}
		if o.Err != nil {
			out.Kind = errorKind(o.Err)
			out.Error = o.Err.Error()
			if out.Kind == "storage" {
				out.Error = "internal error"
			}
		}

		resp.Outcomes = append(resp.Outcomes, out)
	}

	status := http.StatusMultiStatus
	switch {
	case res.AllSucceeded():
		status = http.StatusOK
	case res.State == ledger.StateHaltedOnRangeError:
		status = http.StatusUnprocessableEntity
	}

	writeJSON(w, status, resp)
}
