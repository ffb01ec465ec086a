package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iho/pocketledger/internal/domain"
)

// LedgerRepository persists the whole set of user ledgers.
type LedgerRepository interface {
	// Load returns every persisted ledger keyed by user id.
	Load(ctx context.Context) (map[string]*domain.UserLedger, error)
	// Save replaces the persisted state with ledgers.
	Save(ctx context.Context, ledgers map[string]*domain.UserLedger) error
}

// SessionStore keeps in-progress dialogue sessions keyed by user id.
type SessionStore interface {
	// Get returns domain.ErrNoSession when the user has no active session.
	Get(ctx context.Context, userID string) (*domain.Session, error)
	Put(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, userID string) error
}

// TransactionRecorder records a transaction in a user's ledger.
type TransactionRecorder interface {
	AddTransaction(ctx context.Context, input AddTransactionInput) (*domain.Transaction, error)
}

// EventPublisher publishes ledger events to external systems.
type EventPublisher interface {
	Publish(ctx context.Context, event *domain.Event) error
}

// AdviceCatalog provides the ordered suggestions for an advice kind.
type AdviceCatalog interface {
	Suggestions(kind domain.AdviceKind) []string
}

// MetricsRecorder receives business metrics from the use cases.
type MetricsRecorder interface {
	TransactionRecorded(t domain.TransactionType, amount decimal.Decimal)
	PersistenceFailed(operation string)
	DialogueStep(kind domain.StepKind)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

type nopMetrics struct{}

func (nopMetrics) TransactionRecorded(domain.TransactionType, decimal.Decimal) {}
func (nopMetrics) PersistenceFailed(string)                                    {}
func (nopMetrics) DialogueStep(domain.StepKind)                                {}
