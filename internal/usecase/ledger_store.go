package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/iho/pocketledger/internal/domain"
)

// ErrPersistenceFailed wraps errors returned by the repository on save.
var ErrPersistenceFailed = errors.New("failed to persist ledgers")

// LedgerStore holds every user ledger in memory and writes the full set
// through a LedgerRepository after each mutation.
//
// Load and Save failures never reach the user: a failed load starts from an
// empty store and a failed save leaves the in-memory state authoritative.
type LedgerStore struct {
	mu      sync.RWMutex
	repo    LedgerRepository
	ledgers map[string]*domain.UserLedger
	metrics MetricsRecorder
	logger  zerolog.Logger
}

// NewLedgerStore creates an empty LedgerStore. Call Load before serving.
func NewLedgerStore(repo LedgerRepository, metrics MetricsRecorder, logger zerolog.Logger) *LedgerStore {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &LedgerStore{
		repo:    repo,
		ledgers: make(map[string]*domain.UserLedger),
		metrics: metrics,
		logger:  logger.With().Str("component", "ledger_store").Logger(),
	}
}

// Load replaces the in-memory state with the persisted one.
// Any failure falls back to an empty store.
func (s *LedgerStore) Load(ctx context.Context) {
	ledgers, err := s.repo.Load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.metrics.PersistenceFailed("load")
		s.logger.Warn().Err(err).Msg("failed to load ledgers, starting empty")
		s.ledgers = make(map[string]*domain.UserLedger)
		return
	}

	if ledgers == nil {
		ledgers = make(map[string]*domain.UserLedger)
	}
	s.ledgers = ledgers
	s.logger.Info().Int("users", len(ledgers)).Msg("ledgers loaded")
}

// Save writes the entire store. The returned error wraps ErrPersistenceFailed;
// it has already been logged.
func (s *LedgerStore) Save(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.save(ctx)
}

func (s *LedgerStore) save(ctx context.Context) error {
	if err := s.repo.Save(ctx, s.ledgers); err != nil {
		s.metrics.PersistenceFailed("save")
		s.logger.Warn().Err(err).Msg("failed to save ledgers")
		return fmt.Errorf("%w: %w", ErrPersistenceFailed, err)
	}
	return nil
}

// GetUserLedger returns a snapshot of the user's ledger, creating an empty
// one in memory when the user is unknown.
func (s *LedgerStore) GetUserLedger(ctx context.Context, userID string) domain.UserLedger {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledgerLocked(userID).Clone()
}

// FindUserLedger returns a snapshot of the user's ledger without creating
// one. Unknown users get an empty snapshot and ok is false.
func (s *LedgerStore) FindUserLedger(ctx context.Context, userID string) (ledger domain.UserLedger, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.ledgers[userID]
	if !ok {
		return *domain.NewUserLedger(userID), false
	}
	return l.Clone(), true
}

// Update runs fn against the user's ledger and saves the store if fn succeeds.
// An error from fn is returned untouched and nothing is saved. A save failure
// is returned wrapped in ErrPersistenceFailed; the mutation is kept.
func (s *LedgerStore) Update(ctx context.Context, userID string, fn func(*domain.UserLedger) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(s.ledgerLocked(userID)); err != nil {
		return err
	}
	return s.save(ctx)
}

// Ledgers returns snapshots of every ledger ordered by user id.
func (s *LedgerStore) Ledgers(ctx context.Context) []domain.UserLedger {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.UserLedger, 0, len(s.ledgers))
	for _, l := range s.ledgers {
		out = append(out, l.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}

func (s *LedgerStore) ledgerLocked(userID string) *domain.UserLedger {
	l, ok := s.ledgers[userID]
	if !ok {
		l = domain.NewUserLedger(userID)
		s.ledgers[userID] = l
	}
	if l.UserID == "" {
		l.UserID = userID
	}
	return l
}
