package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/pocketledger/internal/domain"
)

// TransactionUseCase appends transactions to user ledgers.
type TransactionUseCase struct {
	store     *LedgerStore
	publisher EventPublisher
	idGen     IDGenerator
	metrics   MetricsRecorder
	logger    zerolog.Logger
	strict    bool
	now       func() time.Time
}

// TransactionConfig holds the dependencies of TransactionUseCase.
type TransactionConfig struct {
	Store     *LedgerStore
	Publisher EventPublisher // optional
	IDGen     IDGenerator    // required when Publisher is set
	Metrics   MetricsRecorder
	Logger    zerolog.Logger
	// StrictPersistence reports save failures to the caller instead of
	// swallowing them. The in-memory mutation is kept either way.
	StrictPersistence bool
	Clock             func() time.Time
}

// NewTransactionUseCase creates a new TransactionUseCase.
func NewTransactionUseCase(cfg TransactionConfig) *TransactionUseCase {
	if cfg.Metrics == nil {
		cfg.Metrics = nopMetrics{}
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	return &TransactionUseCase{
		store:     cfg.Store,
		publisher: cfg.Publisher,
		idGen:     cfg.IDGen,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger.With().Str("component", "recorder").Logger(),
		strict:    cfg.StrictPersistence,
		now:       cfg.Clock,
	}
}

// AddTransactionInput represents input for recording a transaction.
type AddTransactionInput struct {
	UserID      string
	Type        domain.TransactionType
	Category    domain.Category
	Amount      decimal.Decimal
	Description string
}

// AddTransaction records a transaction, updates the balance and saves the store.
func (uc *TransactionUseCase) AddTransaction(ctx context.Context, input AddTransactionInput) (*domain.Transaction, error) {
	if err := domain.ValidateUserID(input.UserID); err != nil {
		return nil, err
	}

	var (
		recorded domain.Transaction
		balance  decimal.Decimal
	)

	err := uc.store.Update(ctx, input.UserID, func(l *domain.UserLedger) error {
		t, err := l.Record(domain.NewTransaction{
			Type:        input.Type,
			Category:    input.Category,
			Amount:      input.Amount,
			Description: input.Description,
		}, uc.now())
		if err != nil {
			return err
		}
		recorded = t
		balance = l.Balance
		return nil
	})

	if err != nil && !errors.Is(err, ErrPersistenceFailed) {
		return nil, err
	}

	// The ledger changed even if the save failed.
	uc.metrics.TransactionRecorded(recorded.Type, recorded.Amount)
	if err != nil && uc.strict {
		return nil, err
	}

	uc.logger.Info().
		Str("user_id", input.UserID).
		Int("transaction_id", recorded.ID).
		Str("type", string(recorded.Type)).
		Str("category", string(recorded.Category)).
		Str("amount", recorded.Amount.String()).
		Msg("transaction recorded")

	uc.publish(ctx, input.UserID, recorded, balance)

	return &recorded, nil
}

func (uc *TransactionUseCase) publish(ctx context.Context, userID string, t domain.Transaction, balance decimal.Decimal) {
	if uc.publisher == nil {
		return
	}

	event := domain.NewTransactionRecordedEvent(uc.idGen.Generate(), userID, t, balance.String())
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Warn().Err(err).
			Str("event_id", event.ID).
			Str("user_id", userID).
			Msg("failed to publish event")
	}
}
