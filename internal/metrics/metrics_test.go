package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorCounters(t *testing.T) {
	// Given: a collector on a private registry
	collector := NewCollector(prometheus.NewRegistry())

	// When: gameplay events are recorded
	collector.GameStarted("bot")
	collector.GameStarted("bot")
	collector.GameStarted("public")
	collector.GameFinished("X")
	collector.TurnPlayed()
	collector.TurnPlayed()
	collector.TurnPlayed()
	collector.ObserveTactic("win", 2)
	collector.ObserveTactic("win", 5)
	collector.ObserveTactic("block", 0)

	// Then: each counter holds the recorded totals
	assert.InDelta(t, 2, testutil.ToFloat64(collector.gamesStarted.WithLabelValues("bot")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(collector.gamesStarted.WithLabelValues("public")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(collector.gamesFinished.WithLabelValues("X")), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(collector.turnsPlayed), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(collector.engineTactics.WithLabelValues("win")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(collector.engineTactics.WithLabelValues("block")), 0)
}

func TestCollectorConnectionsAndTurnDuration(t *testing.T) {
	// Given: a collector on a private registry
	collector := NewCollector(prometheus.NewRegistry())

	// When: connections come and go and turns are timed
	collector.ConnectionOpened()
	collector.ConnectionOpened()
	collector.ConnectionClosed()
	collector.ObserveTurnDuration(15 * time.Millisecond)
	collector.ObserveTurnDuration(40 * time.Millisecond)

	// Then: the gauge tracks open connections and the histogram holds
	// both observations
	assert.InDelta(t, 1, testutil.ToFloat64(collector.connections), 0)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	collector.Handler().ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "noughts_turn_duration_seconds_count 2")
	assert.Contains(t, recorder.Body.String(), "noughts_websocket_connections 1")
}

func TestCollectorHandler(t *testing.T) {
	// Given: a collector with one recorded game
	collector := NewCollector(nil)
	collector.GameStarted("private")

	// When: the metrics endpoint is scraped
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	collector.Handler().ServeHTTP(recorder, request)

	// Then: the exposition contains the namespaced counter
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "noughts_games_started_total")
}
