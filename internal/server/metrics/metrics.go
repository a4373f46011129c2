// Package metrics holds the Prometheus collectors for session operations and
// the HTTP endpoint that exposes them.
package metrics

import (
	"time"

	"github.com/dmitrijs2005/gachaserver/internal/common"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Metrics is a set of collectors registered on one registry. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	Operations      *prometheus.CounterVec
	Duration        *prometheus.HistogramVec
	BoostersUsed    prometheus.Counter
	CoinsSpent      prometheus.Counter
	ActiveAccounts  prometheus.Gauge
	DuplicateCredit prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
// Panics if registration fails (following prometheus convention).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gacha_operations_total",
				Help: "Total number of session operations by operation, result and error kind",
			},
			[]string{"operation", "result", "kind"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gacha_operation_duration_seconds",
				Help:    "Session operation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		BoostersUsed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gacha_boosters_used_total",
			Help: "Total number of banked boosters opened",
		}),
		CoinsSpent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gacha_coins_spent_total",
			Help: "Total number of coins spent on boosters",
		}),
		ActiveAccounts: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gacha_accounts_registered",
			Help: "Accounts registered minus accounts deleted since process start",
		}),
		DuplicateCredit: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gacha_duplicate_cards_total",
			Help: "Total number of duplicate cards converted to coins",
		}),
	}

	reg.MustRegister(m.Operations, m.Duration, m.BoostersUsed, m.CoinsSpent, m.ActiveAccounts, m.DuplicateCredit)
	return m
}

// ObserveOperation records one finished operation.
func (m *Metrics) ObserveOperation(operation string, err error, d time.Duration) {
	if m == nil {
		return
	}
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	m.Operations.WithLabelValues(operation, result, string(common.KindOf(err))).Inc()
	m.Duration.WithLabelValues(operation).Observe(d.Seconds())
}

func (m *Metrics) BoosterUsed() {
	if m == nil {
		return
	}
	m.BoostersUsed.Inc()
}

func (m *Metrics) CoinsSpentAdd(coins int) {
	if m == nil || coins <= 0 {
		return
	}
	m.CoinsSpent.Add(float64(coins))
}

func (m *Metrics) AccountRegistered() {
	if m == nil {
		return
	}
	m.ActiveAccounts.Inc()
}

func (m *Metrics) AccountDeleted() {
	if m == nil {
		return
	}
	m.ActiveAccounts.Dec()
}

func (m *Metrics) DuplicatesCredited(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.DuplicateCredit.Add(float64(n))
}
