package usecase

import (
	"context"
	"errors"

	"github.com/iho/pocketledger/internal/domain"
)

// LedgerUseCase handles ledger-wide operations.
type LedgerUseCase struct {
	store *LedgerStore
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(store *LedgerStore) *LedgerUseCase {
	return &LedgerUseCase{
		store: store,
	}
}

// CheckConsistency verifies that every user's running balance matches the
// sum of their transactions.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) (bool, error) {
	if err := VerifyLedgers(uc.store.Ledgers(ctx)); err != nil {
		return false, err
	}
	return true, nil
}

// VerifyLedgers checks every ledger and joins the failures. Each joined
// error wraps domain.ErrLedgerInconsistent.
func VerifyLedgers(ledgers []domain.UserLedger) error {
	var errs []error
	for i := range ledgers {
		if err := ledgers[i].Verify(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
