package memory

import (
	"context"
	"sync"

	"github.com/iho/pocketledger/internal/domain"
)

// LedgerRepository implements usecase.LedgerRepository without durability.
// It keeps a deep copy of the last saved state.
type LedgerRepository struct {
	mu      sync.Mutex
	ledgers map[string]domain.UserLedger
	saves   int
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository() *LedgerRepository {
	return &LedgerRepository{
		ledgers: make(map[string]domain.UserLedger),
	}
}

// Load returns copies of the saved ledgers.
func (r *LedgerRepository) Load(ctx context.Context) (map[string]*domain.UserLedger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]*domain.UserLedger, len(r.ledgers))
	for id, l := range r.ledgers {
		c := l.Clone()
		out[id] = &c
	}
	return out, nil
}

// Save replaces the saved state with copies of ledgers.
func (r *LedgerRepository) Save(ctx context.Context, ledgers map[string]*domain.UserLedger) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ledgers = make(map[string]domain.UserLedger, len(ledgers))
	for id, l := range ledgers {
		r.ledgers[id] = l.Clone()
	}
	r.saves++
	return nil
}

// Saves returns how many times Save was called.
func (r *LedgerRepository) Saves() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}
