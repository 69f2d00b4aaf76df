// Package metrics provides observability for the simulation engine.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	TicksTotal      *prometheus.CounterVec
	TickDuration    prometheus.Histogram
	ActionsTotal    *prometheus.CounterVec
	ActionDuration  *prometheus.HistogramVec
	LoansDefaulted  prometheus.Counter
	EventsTriggered *prometheus.CounterVec
	GuildsTracked   prometheus.Gauge
	ArchivedRecords *prometheus.CounterVec
	MarketData      *prometheus.CounterVec
}

// New creates all metrics on the default Prometheus registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith creates all metrics on the given registerer. Tests pass a
// fresh registry so parallel suites never collide.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		TicksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "midas_ticks_total",
			Help: "Total number of per-tenant simulation ticks",
		}, []string{"status"}),
		TickDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "midas_tick_duration_seconds",
			Help:    "Duration of one tenant simulation tick",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		ActionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "midas_actions_total",
			Help: "Total number of player actions processed",
		}, []string{"action", "status"}),
		ActionDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "midas_action_duration_seconds",
			Help:    "Duration of player action handling",
			Buckets: prometheus.DefBuckets,
		}, []string{"action"}),
		LoansDefaulted: factory.NewCounter(prometheus.CounterOpts{
			Name: "midas_loans_defaulted_total",
			Help: "Total number of loans seized by the default sweep",
		}),
		EventsTriggered: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "midas_events_triggered_total",
			Help: "Total number of macro events triggered",
		}, []string{"event"}),
		GuildsTracked: factory.NewGauge(prometheus.GaugeOpts{
			Name: "midas_guilds_tracked",
			Help: "Number of tenant economies under simulation",
		}),
		ArchivedRecords: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "midas_archived_records_total",
			Help: "Total number of history rows exported to cold storage",
		}, []string{"table"}),
		MarketData: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "midas_market_data_requests_total",
			Help: "Total number of external market data lookups",
		}, []string{"source", "result"}),
	}
}

// ObserveTick records the outcome and duration of one tenant tick.
// Call with time.Now() at the start of the tick.
func (m *Metrics) ObserveTick(start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.TicksTotal.WithLabelValues(status).Inc()
	m.TickDuration.Observe(time.Since(start).Seconds())
}

// ObserveAction records the outcome and duration of one player action.
// Call with time.Now() at the start of the action.
func (m *Metrics) ObserveAction(action string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.ActionsTotal.WithLabelValues(action, status).Inc()
	m.ActionDuration.WithLabelValues(action).Observe(time.Since(start).Seconds())
}

// IncrementLoansDefaulted records a loan seizure.
func (m *Metrics) IncrementLoansDefaulted() {
	m.LoansDefaulted.Inc()
}

// IncrementEventTriggered records a macro event firing.
func (m *Metrics) IncrementEventTriggered(event string) {
	m.EventsTriggered.WithLabelValues(event).Inc()
}

// SetGuildsTracked records the tenant count seen by the last sweep.
func (m *Metrics) SetGuildsTracked(n int) {
	m.GuildsTracked.Set(float64(n))
}

// AddArchivedRecords records rows exported by the archive sweep.
func (m *Metrics) AddArchivedRecords(table string, n int64) {
	m.ArchivedRecords.WithLabelValues(table).Add(float64(n))
}

// IncrementMarketData records one external quote lookup. Result is one
// of "hit", "ok" or "error".
func (m *Metrics) IncrementMarketData(source, result string) {
	m.MarketData.WithLabelValues(source, result).Inc()
}

// Handler returns the exposition endpoint for the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
