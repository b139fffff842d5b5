// Package metrics exposes tracker activity as Prometheus metrics.
package metrics

import (
	"context"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"incometracker/internal/tracker"
)

const namespace = "incometracker"

// Outcome labels for processed journal entries.
const (
	OutcomeMatched   = "matched"
	OutcomeUnmatched = "unmatched"
)

type Metrics struct {
	registry *prometheus.Registry

	events       *prometheus.CounterVec
	transactions *prometheus.CounterVec
	amounts      *prometheus.CounterVec
	changes      *prometheus.CounterVec
	trip         prometheus.Gauge
	total        prometheus.Gauge
	credits      prometheus.Gauge
	ledgerSize   prometheus.Gauge

	rateMu sync.RWMutex
	rate   func() float64
}

var _ tracker.Listener = (*Metrics)(nil)

// New registers every collector on a private registry so tests and
// multiple trackers never collide on the global one.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_processed_total",
			Help:      "Journal entries processed, by outcome.",
		}, []string{"outcome"}),
		transactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_recorded_total",
			Help:      "Transactions recorded, by category.",
		}, []string{"category"}),
		amounts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "credits_moved_total",
			Help:      "Absolute credits moved by recorded transactions, by category and direction.",
		}, []string{"category", "direction"}),
		changes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_changes_total",
			Help:      "Ledger mutations, by reason.",
		}, []string{"reason"}),
		trip: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "trip_earnings_credits",
			Help:      "Earnings of the current session.",
		}),
		total: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "total_earnings_credits",
			Help:      "Carried-forward plus current session earnings.",
		}),
		credits: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "commander_credits",
			Help:      "Last known credit balance.",
		}),
		ledgerSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ledger_transactions",
			Help:      "Transactions currently in the ledger.",
		}),
	}

	hourlyRate := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "hourly_rate_credits",
		Help:      "Estimated credits per hour of active play.",
	}, m.hourlyRate)

	reg.MustRegister(
		m.events, m.transactions, m.amounts, m.changes,
		m.trip, m.total, m.credits, m.ledgerSize, hourlyRate,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// TrackRate makes fn the source of the hourly rate gauge, evaluated at
// scrape time. A later call replaces the earlier source.
func (m *Metrics) TrackRate(fn func() float64) {
	m.rateMu.Lock()
	defer m.rateMu.Unlock()
	m.rate = fn
}

func (m *Metrics) hourlyRate() float64 {
	m.rateMu.RLock()
	fn := m.rate
	m.rateMu.RUnlock()
	if fn == nil {
		return 0
	}
	return fn()
}

// ObserveEvent counts one processed journal entry.
func (m *Metrics) ObserveEvent(matched bool) {
	outcome := OutcomeUnmatched
	if matched {
		outcome = OutcomeMatched
	}
	m.events.WithLabelValues(outcome).Inc()
}

func (m *Metrics) LedgerChanged(_ context.Context, c tracker.Change) {
	m.changes.WithLabelValues(string(c.Reason)).Inc()
	for _, tx := range c.Recorded {
		category := tx.Category.String()
		m.transactions.WithLabelValues(category).Inc()

		direction := "in"
		if tx.Amount.IsNegative() {
			direction = "out"
		}
		m.amounts.WithLabelValues(category, direction).Add(tx.Amount.Abs().InexactFloat64())
	}
	m.trip.Set(c.Trip.InexactFloat64())
	m.total.Set(c.Total.InexactFloat64())
	m.credits.Set(float64(c.Credits))
	m.ledgerSize.Set(float64(c.Transactions))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
