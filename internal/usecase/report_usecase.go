package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iho/pocketledger/internal/domain"
)

// ReportUseCase answers read-only questions about a user's ledger.
type ReportUseCase struct {
	store    *LedgerStore
	catalog  AdviceCatalog
	readOnly bool
}

// NewReportUseCase creates a new ReportUseCase.
func NewReportUseCase(store *LedgerStore, catalog AdviceCatalog) *ReportUseCase {
	return &ReportUseCase{
		store:   store,
		catalog: catalog,
	}
}

// ReadOnly returns a view that never inserts ledgers for unknown users.
// Used by surfaces that accept arbitrary user ids.
func (uc *ReportUseCase) ReadOnly() *ReportUseCase {
	return &ReportUseCase{
		store:    uc.store,
		catalog:  uc.catalog,
		readOnly: true,
	}
}

func (uc *ReportUseCase) ledger(ctx context.Context, userID string) domain.UserLedger {
	if uc.readOnly {
		l, _ := uc.store.FindUserLedger(ctx, userID)
		return l
	}
	return uc.store.GetUserLedger(ctx, userID)
}

// Balance returns the running balance and totals, zero-valued for a new user.
func (uc *ReportUseCase) Balance(ctx context.Context, userID string) (domain.Summary, error) {
	if err := domain.ValidateUserID(userID); err != nil {
		return domain.Summary{}, err
	}
	l := uc.ledger(ctx, userID)
	return l.Summarize(), nil
}

// Report returns the same totals as Balance, or domain.ErrNoTransactions
// when nothing has been recorded yet.
func (uc *ReportUseCase) Report(ctx context.Context, userID string) (domain.Summary, error) {
	if err := domain.ValidateUserID(userID); err != nil {
		return domain.Summary{}, err
	}

	l := uc.ledger(ctx, userID)
	if l.IsEmpty() {
		return domain.Summary{}, domain.ErrNoTransactions
	}
	return l.Summarize(), nil
}

// Analysis selects an advice bundle from the sign of income minus expense.
func (uc *ReportUseCase) Analysis(ctx context.Context, userID string) (*domain.Analysis, error) {
	summary, err := uc.Report(ctx, userID)
	if err != nil {
		return nil, err
	}

	balance := summary.Difference
	a := &domain.Analysis{
		Summary: summary,
		Kind:    domain.AdviceFor(balance),
		Deficit: decimal.Zero,
		Surplus: decimal.Zero,
	}

	if a.Kind == domain.AdviceIncreaseIncome {
		a.Deficit = balance.Abs()
	} else {
		a.Surplus = balance
	}

	if uc.catalog != nil {
		a.Suggestions = uc.catalog.Suggestions(a.Kind)
	}

	return a, nil
}
