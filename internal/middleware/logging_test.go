package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yt-summarizer/internal/metrics"
)

func newTestRouter(logger zerolog.Logger, m *metrics.Metrics) *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestLogger(logger), Recover, Metrics(m))
	r.HandleFunc("/api/subscriptions/{channel_id}", func(w http.ResponseWriter, r *http.Request) {
		zerolog.Ctx(r.Context()).Info().Msg("inside handler")
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodDelete)
	r.HandleFunc("/boom", func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	})
	return r
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	var lines []map[string]any
	dec := json.NewDecoder(buf)
	for dec.More() {
		var line map[string]any
		require.NoError(t, dec.Decode(&line))
		lines = append(lines, line)
	}
	return lines
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	router := newTestRouter(zerolog.New(&buf), nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/subscriptions/UC123", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "req-42", rr.Header().Get("X-Request-ID"))

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "req-42", lines[0]["request_id"])
	assert.Equal(t, "inside handler", lines[0]["message"])

	access := lines[1]
	assert.Equal(t, "/api/subscriptions/{channel_id}", access["route"])
	assert.Equal(t, float64(http.StatusNoContent), access["status"])
	assert.Equal(t, "DELETE", access["method"])
	assert.NotContains(t, buf.String(), "UC123")
}

func TestRequestLoggerGeneratesID(t *testing.T) {
	router := newTestRouter(zerolog.Nop(), nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/subscriptions/UC1", nil))

	assert.Len(t, rr.Header().Get("X-Request-ID"), 36)
}

func TestRecover(t *testing.T) {
	var buf bytes.Buffer
	router := newTestRouter(zerolog.New(&buf), nil)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"Internal server error","code":"INTERNAL_ERROR"}`, rr.Body.String())
	assert.Contains(t, buf.String(), "kaboom")
}

func TestMetricsMiddleware(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	router := newTestRouter(zerolog.Nop(), m)

	for i := 0; i < 2; i++ {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/api/subscriptions/UC1", nil))
	}

	assert.Equal(t, 1, testutil.CollectAndCount(m.RequestDuration))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.RequestsInFlight))
}
