package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "noughts"

// Collector holds the gameplay counters exposed on /metrics.
type Collector struct {
	registry *prometheus.Registry

	gamesStarted  *prometheus.CounterVec
	gamesFinished *prometheus.CounterVec
	turnsPlayed   prometheus.Counter
	turnDuration  prometheus.Histogram
	engineTactics *prometheus.CounterVec
	connections   prometheus.Gauge
}

// NewCollector registers the gameplay counters on the given registry.
// A nil registry gets a fresh private one, which keeps tests isolated.
func NewCollector(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	that := &Collector{
		registry: registry,
		gamesStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_started_total",
			Help:      "Games created, by game type.",
		}, []string{"type"}),
		gamesFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_finished_total",
			Help:      "Games finished, by winner mark or tie.",
		}, []string{"winner"}),
		turnsPlayed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_played_total",
			Help:      "Turns accepted across all games.",
		}),
		turnDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "turn_duration_seconds",
			Help:      "Time spent applying a turn, storage round-trips included.",
		}),
		engineTactics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "engine_tactics_total",
			Help:      "Bot moves, by the tactic that produced them.",
		}, []string{"tactic"}),
		connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "websocket_connections",
			Help:      "Currently open websocket connections.",
		}),
	}

	that.registry.MustRegister(
		that.gamesStarted,
		that.gamesFinished,
		that.turnsPlayed,
		that.turnDuration,
		that.engineTactics,
		that.connections,
	)

	return that
}

func (that *Collector) GameStarted(gameType string) {
	that.gamesStarted.WithLabelValues(gameType).Inc()
}

func (that *Collector) GameFinished(winner string) {
	that.gamesFinished.WithLabelValues(winner).Inc()
}

func (that *Collector) TurnPlayed() {
	that.turnsPlayed.Inc()
}

func (that *Collector) ObserveTurnDuration(d time.Duration) {
	that.turnDuration.Observe(d.Seconds())
}

func (that *Collector) ConnectionOpened() {
	that.connections.Inc()
}

func (that *Collector) ConnectionClosed() {
	that.connections.Dec()
}

// ObserveTactic has the engine.Observer signature, so a Collector plugs
// straight into engine.New via engine.WithObserver.
func (that *Collector) ObserveTactic(tactic string, _ int) {
	that.engineTactics.WithLabelValues(tactic).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (that *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(that.registry, promhttp.HandlerOpts{})
}
