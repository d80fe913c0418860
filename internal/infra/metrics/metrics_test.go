package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestLedger_Counters(t *testing.T) {
	t.Parallel()

	m := NewLedger(prometheus.NewRegistry())

	m.ObserveBatch("completed", 20*time.Millisecond)
	m.ObserveBatch("halted_on_range_error", time.Millisecond)
	m.ObserveBatch("completed", time.Millisecond)
	m.UserOutcome("ok")
	m.UsersSkipped(2)
	m.UsersSkipped(0)
	m.Redemption("out_of_range")
	m.HistoryRows("earned", 3)
	m.HistoryTruncated("spend")

	assert.InDelta(t, 2, testutil.ToFloat64(m.batches.WithLabelValues("completed")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.batches.WithLabelValues("halted_on_range_error")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.userOutcomes.WithLabelValues("skipped")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.userOutcomes.WithLabelValues("ok")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.redemptions.WithLabelValues("out_of_range")), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(m.historyRows.WithLabelValues("earned")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.truncations.WithLabelValues("spend")), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(m.batchDuration))
}

func TestLedger_NilIsNoop(t *testing.T) {
	t.Parallel()

	var m *Ledger

	assert.NotPanics(t, func() {
		m.ObserveBatch("completed", time.Second)
		m.UserOutcome("ok")
		m.UsersSkipped(1)
		m.Redemption("ok")
		m.HistoryRows("spent", 1)
		m.HistoryTruncated("earn")
	})
}

func TestHTTP_MiddlewareLabelsRoutePattern(t *testing.T) {
	t.Parallel()

	m := NewHTTP(prometheus.NewRegistry())

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/users/{userId}/balance", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for range 2 {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/7/balance", nil))
	}

	got := testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "/users/{userId}/balance", "404"))
	assert.InDelta(t, 2, got, 0)
}
