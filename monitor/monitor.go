// Package monitor exposes Prometheus metrics for running games.
package monitor

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	ActiveSessions   prometheus.Gauge
	GamesFinished    prometheus.Counter
	Bankruptcies     prometheus.Counter
	Actions          *prometheus.CounterVec
	MoneyTransferred *prometheus.CounterVec
	ActionLatency    prometheus.Histogram

	registry *prometheus.Registry
}

// NewMetrics creates the game metrics on a dedicated registry.
func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Number of game sessions held in memory",
		}),
		GamesFinished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_finished_total",
			Help:      "Total number of games that reached a winner",
		}),
		Bankruptcies: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bankruptcies_total",
			Help:      "Total number of players declared bankrupt",
		}),
		Actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_total",
			Help:      "Game actions by name and outcome",
		}, []string{"action", "outcome"}),
		MoneyTransferred: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "money_transferred_total",
			Help:      "Money moved by transaction type",
		}, []string{"type"}),
		ActionLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "action_latency_seconds",
			Help:      "Game action processing latency",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12),
		}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.ActiveSessions,
		m.GamesFinished,
		m.Bankruptcies,
		m.Actions,
		m.MoneyTransferred,
		m.ActionLatency,
	)

	return m
}

// Handler serves the metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveAction records one action outcome and its latency.
func (m *Metrics) ObserveAction(action string, err error, started time.Time) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "rejected"
	}
	m.Actions.WithLabelValues(action, outcome).Inc()
	m.ActionLatency.Observe(time.Since(started).Seconds())
}

func (m *Metrics) AddTransfer(kind string, amount int) {
	if m == nil || amount <= 0 {
		return
	}
	m.MoneyTransferred.WithLabelValues(kind).Add(float64(amount))
}

func (m *Metrics) SetActiveSessions(count int) {
	if m == nil {
		return
	}
	m.ActiveSessions.Set(float64(count))
}

func (m *Metrics) IncBankruptcies() {
	if m == nil {
		return
	}
	m.Bankruptcies.Inc()
}

func (m *Metrics) IncGamesFinished() {
	if m == nil {
		return
	}
	m.GamesFinished.Inc()
}
