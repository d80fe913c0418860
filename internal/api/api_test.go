package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastprodman/pointledger/internal/auth"
	"github.com/fastprodman/pointledger/internal/infra/metrics"
	"github.com/fastprodman/pointledger/internal/repos/earns"
	"github.com/fastprodman/pointledger/internal/services/history"
	"github.com/fastprodman/pointledger/internal/services/ledger"
	"github.com/fastprodman/pointledger/internal/services/memstore"
)

type testEnv struct {
	store    *memstore.Store
	tokens   *auth.Tokens
	handler  http.Handler
	admin    auth.Caller
	activity int64
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st := memstore.New()
	reg := prometheus.NewRegistry()
	lm := metrics.NewLedger(reg)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tokens, err := auth.NewTokens("api-test-secret", "pointledger")
	require.NoError(t, err)

	engine := ledger.NewWithDeps(ledger.Deps{
		Tx:         st.Transactor(),
		Users:      st.Users(),
		Activities: st.Activities(),
		Rewards:    st.Rewards(),
		Earns:      st.Earns(),
		Spends:     st.Spends(),
		Metrics:    lm,
		Logger:     logger,
	})

	merger := history.NewWithDeps(history.Deps{
		Users:      st.Users(),
		Activities: st.Activities(),
		Rewards:    st.Rewards(),
		Earns:      st.Earns(),
		Spends:     st.Spends(),
		Metrics:    lm,
		Logger:     logger,
	})

	handler := NewRouter(Services{
		Ledger:   engine,
		History:  merger,
		Tokens:   tokens,
		Metrics:  metrics.NewHTTP(reg),
		Gatherer: reg,
		Logger:   logger,
	})

	return &testEnv{
		store:    st,
		tokens:   tokens,
		handler:  handler,
		admin:    auth.Caller{UserID: st.AddUser("Admin", 0, true), IsAdmin: true},
		activity: st.AddActivity("Code review"),
	}
}

func (e *testEnv) do(t *testing.T, c *auth.Caller, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, rd)
	if c != nil {
		token, err := e.tokens.Issue(*c, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)

	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))

	return v
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec := env.do(t, nil, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestAuthentication(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	rec := env.do(t, nil, http.MethodGet, "/admin/members", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/admin/members", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec = httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	member := auth.Caller{UserID: env.store.AddUser("Ada", 0, false)}
	rec = env.do(t, &member, http.MethodGet, "/admin/members", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestMembersHandler(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.store.AddUser("Zoe", 5, false)
	env.store.AddUser("Ada", 7, false)

	rec := env.do(t, &env.admin, http.MethodGet, "/admin/members", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[struct {
		Members []memberResp `json:"members"`
	}](t, rec)
	require.Len(t, body.Members, 2)
	assert.Equal(t, "Ada", body.Members[0].Name)
	assert.Equal(t, int64(7), body.Members[0].Points)
}

func TestAssignPointsHandler(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		a := env.store.AddUser("A", 0, false)
		b := env.store.AddUser("B", 0, false)

		body := `{"userIds":[` + itoa(a) + `,` + itoa(b) + `],"points":"15","activityId":` + itoa(env.activity) + `}`
		rec := env.do(t, &env.admin, http.MethodPost, "/admin/points", body)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		resp := decode[assignResponse](t, rec)
		assert.Equal(t, ledger.SummarySuccess, resp.Status)
		assert.Equal(t, ledger.StateCompleted, resp.State)
		assert.NotEmpty(t, resp.BatchID)
		assert.Len(t, resp.Outcomes, 2)
		assert.Empty(t, resp.Skipped)
		assert.Equal(t, int64(15), env.store.Points(a))
		assert.Equal(t, int64(15), env.store.Points(b))
	})

	t.Run("halted", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		a := env.store.AddUser("A", 5, false)
		b := env.store.AddUser("B", 0, false)
		c := env.store.AddUser("C", 0, false)

		body := `{"userIds":[` + itoa(a) + `,` + itoa(b) + `,` + itoa(c) + `],"points":"-1","oneTimeActivity":"correction"}`
		rec := env.do(t, &env.admin, http.MethodPost, "/admin/points", body)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())

		resp := decode[assignResponse](t, rec)
		assert.Equal(t, ledger.SummaryFailure, resp.Status)
		assert.Equal(t, ledger.StateHaltedOnRangeError, resp.State)
		require.Len(t, resp.Outcomes, 2)
		assert.True(t, resp.Outcomes[0].OK)
		assert.Equal(t, "out_of_range", resp.Outcomes[1].Kind)
		assert.Equal(t, []int64{c}, resp.Skipped)
		assert.Equal(t, int64(4), env.store.Points(a))
		assert.Equal(t, int64(0), env.store.Points(b))
	})

	t.Run("partial", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		a := env.store.AddUser("A", 0, false)

		body := `{"userIds":[` + itoa(a) + `,4040],"points":"1","activityId":` + itoa(env.activity) + `}`
		rec := env.do(t, &env.admin, http.MethodPost, "/admin/points", body)
		require.Equal(t, http.StatusMultiStatus, rec.Code, rec.Body.String())

		resp := decode[assignResponse](t, rec)
		assert.Equal(t, ledger.SummaryPartial, resp.Status)
		assert.True(t, resp.Outcomes[0].OK)
		assert.Equal(t, "not_found", resp.Outcomes[1].Kind)
		assert.Equal(t, "user 4040 not found", resp.Outcomes[1].Error)
	})

	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "empty body", body: "", want: http.StatusBadRequest},
		{name: "unknown field", body: `{"userIds":[1],"points":"1","bonus":true}`, want: http.StatusBadRequest},
		{name: "no users", body: `{"userIds":[],"points":"1","oneTimeActivity":"x"}`, want: http.StatusBadRequest},
		{name: "no activity", body: `{"userIds":[1],"points":"1"}`, want: http.StatusBadRequest},
		{name: "bad points", body: `{"userIds":[1],"points":"ten","oneTimeActivity":"x"}`, want: http.StatusBadRequest},
		{name: "unknown activity", body: `{"userIds":[1],"points":"1","activityId":999}`, want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(t)
			rec := env.do(t, &env.admin, http.MethodPost, "/admin/points", tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestBalanceHandler(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ada := auth.Caller{UserID: env.store.AddUser("Ada", 30, false)}
	bob := auth.Caller{UserID: env.store.AddUser("Bob", 0, false)}

	rec := env.do(t, &ada, http.MethodGet, "/users/"+itoa(ada.UserID)+"/balance", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"userId":`+itoa(ada.UserID)+`,"balance":30}`, rec.Body.String())

	rec = env.do(t, &bob, http.MethodGet, "/users/"+itoa(ada.UserID)+"/balance", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, &env.admin, http.MethodGet, "/users/abc/balance", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, &env.admin, http.MethodGet, "/users/9999/balance", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRedeemHandler(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ada := auth.Caller{UserID: env.store.AddUser("Ada", 50, false)}
	mug := env.store.AddReward("Mug", 40)
	path := "/users/" + itoa(ada.UserID) + "/redemptions"

	rec := env.do(t, &ada, http.MethodPost, path, `{"rewardId":`+itoa(mug)+`}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	receipt := decode[map[string]int64](t, rec)
	assert.Equal(t, int64(10), receipt["balance"])
	assert.Equal(t, int64(40), receipt["points"])

	rec = env.do(t, &ada, http.MethodPost, path, `{"rewardId":`+itoa(mug)+`}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, int64(10), env.store.Points(ada.UserID))

	rec = env.do(t, &ada, http.MethodPost, path, `{"rewardId":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistoryHandlers(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ada := auth.Caller{UserID: env.store.AddUser("Ada", 0, false)}
	mug := env.store.AddReward("Mug", 40)

	day := time.Date(2024, time.May, 10, 12, 0, 0, 0, time.UTC)
	env.store.AddEarn(earns.Record{UserID: ada.UserID, ActivityID: &env.activity, Points: 50, CreatedAt: day})
	env.store.AddEarn(earns.Record{UserID: ada.UserID, ActivityID: &env.activity, Points: 5, CreatedAt: day.AddDate(0, 0, 3)})
	env.store.AddSpend(spendRecord(ada.UserID, mug, day.Add(time.Hour)))

	rec := env.do(t, &ada, http.MethodGet, "/history", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, &env.admin, http.MethodGet, "/history", "")
	require.Equal(t, http.StatusOK, rec.Code)

	feed := decode[struct {
		Items []historyRowResp `json:"items"`
	}](t, rec)
	require.Len(t, feed.Items, 3)
	assert.Equal(t, "+5", feed.Items[0].Points)
	assert.Equal(t, "−40", feed.Items[1].Points)
	assert.Equal(t, history.Spent, feed.Items[1].Kind)
	assert.Equal(t, "Mug", feed.Items[1].Subject)
	assert.Equal(t, "+50", feed.Items[2].Points)

	path := "/users/" + itoa(ada.UserID) + "/activity?startDate=2024-05-10&endDate=2024-05-10"
	rec = env.do(t, &ada, http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	mine := decode[struct {
		Items []historyRowResp `json:"items"`
	}](t, rec)
	require.Len(t, mine.Items, 1)
	assert.Equal(t, "+50", mine.Items[0].Points)
	assert.Equal(t, "Code review", mine.Items[0].Subject)

	rec = env.do(t, &ada, http.MethodGet, "/users/"+itoa(ada.UserID)+"/activity?startDate=10/05/2024", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.do(t, nil, http.MethodGet, "/healthz", "")

	rec := env.do(t, nil, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `pointledger_http_requests_total{method="GET",route="/healthz",status="200"} 1`)
}
