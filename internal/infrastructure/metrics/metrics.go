package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"github.com/iho/pocketledger/internal/domain"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Ledger metrics
	TransactionsRecorded *prometheus.CounterVec
	TransactionAmount    *prometheus.HistogramVec
	PersistenceFailures  *prometheus.CounterVec

	// Dialogue metrics
	DialogueSteps *prometheus.CounterVec

	// Bot metrics
	BotCommands *prometheus.CounterVec
	BotUpdates  *prometheus.CounterVec

	// Event metrics
	EventsPublished *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits prometheus.Counter
}

// New creates and registers all metrics on the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates and registers all metrics on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		TransactionsRecorded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pocketledger_transactions_recorded_total",
				Help: "Total number of transactions recorded by type",
			},
			[]string{"type"},
		),
		TransactionAmount: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pocketledger_transaction_amount",
				Help:    "Recorded transaction amounts",
				Buckets: []float64{1e3, 1e4, 1e5, 1e6, 1e7, 1e8, 1e9},
			},
			[]string{"type"},
		),
		PersistenceFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pocketledger_persistence_failures_total",
				Help: "Total ledger load/save failures",
			},
			[]string{"operation"},
		),

		DialogueSteps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pocketledger_dialogue_steps_total",
				Help: "Dialogue outcomes by kind",
			},
			[]string{"kind"},
		),

		BotCommands: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pocketledger_bot_commands_total",
				Help: "Bot commands received by name",
			},
			[]string{"command"},
		),
		BotUpdates: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pocketledger_bot_updates_total",
				Help: "Telegram updates by outcome",
			},
			[]string{"outcome"},
		),

		EventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pocketledger_events_published_total",
				Help: "Published events by type and status",
			},
			[]string{"event_type", "status"},
		),

		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "pocketledger_rate_limit_hits_total",
			Help: "Total HTTP requests rejected by the rate limiter",
		}),
	}
}

// TransactionRecorded counts a recorded transaction and observes its amount.
func (m *Metrics) TransactionRecorded(t domain.TransactionType, amount decimal.Decimal) {
	m.TransactionsRecorded.WithLabelValues(string(t)).Inc()
	m.TransactionAmount.WithLabelValues(string(t)).Observe(amount.InexactFloat64())
}

// PersistenceFailed counts a failed load or save.
func (m *Metrics) PersistenceFailed(operation string) {
	m.PersistenceFailures.WithLabelValues(operation).Inc()
}

// DialogueStep counts a dialogue outcome.
func (m *Metrics) DialogueStep(kind domain.StepKind) {
	m.DialogueSteps.WithLabelValues(string(kind)).Inc()
}

// EventPublished counts a publication attempt.
func (m *Metrics) EventPublished(eventType string, err error) {
	status := "ok"
	if err != nil {
		status = "failed"
	}
	m.EventsPublished.WithLabelValues(eventType, status).Inc()
}

// BotCommand counts a received command.
func (m *Metrics) BotCommand(command string) {
	m.BotCommands.WithLabelValues(command).Inc()
}

// BotUpdate counts an update by outcome (handled, duplicate, ignored, failed).
func (m *Metrics) BotUpdate(outcome string) {
	m.BotUpdates.WithLabelValues(outcome).Inc()
}

// RateLimited counts a rejected HTTP request.
func (m *Metrics) RateLimited() {
	m.RateLimitHits.Inc()
}
