package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/iho/pocketledger/internal/adapter/repository/memory"
	"github.com/iho/pocketledger/internal/domain"
	"github.com/iho/pocketledger/internal/usecase"
	"github.com/iho/pocketledger/internal/usecase/mocks"
)

type reportFixture struct {
	recorder *usecase.TransactionUseCase
	report   *usecase.ReportUseCase
}

func newReportFixture(t *testing.T, catalog usecase.AdviceCatalog) reportFixture {
	t.Helper()

	store := usecase.NewLedgerStore(memory.NewLedgerRepository(), nil, zerolog.Nop())
	return reportFixture{
		recorder: usecase.NewTransactionUseCase(usecase.TransactionConfig{Store: store, Logger: zerolog.Nop()}),
		report:   usecase.NewReportUseCase(store, catalog),
	}
}

func (f reportFixture) add(t *testing.T, userID string, typ domain.TransactionType, c domain.Category, amount int64) {
	t.Helper()
	_, err := f.recorder.AddTransaction(context.Background(), usecase.AddTransactionInput{
		UserID: userID, Type: typ, Category: c, Amount: decimal.NewFromInt(amount),
	})
	if err != nil {
		t.Fatalf("add transaction: %v", err)
	}
}

func TestReportUseCase_EmptyLedger(t *testing.T) {
	f := newReportFixture(t, nil)
	ctx := context.Background()

	summary, err := f.report.Balance(ctx, "1")
	if err != nil {
		t.Fatalf("balance on empty ledger must succeed: %v", err)
	}
	if !summary.Balance.IsZero() || !summary.TotalIncome.IsZero() || !summary.TotalExpense.IsZero() {
		t.Fatalf("expected zero totals, got %+v", summary)
	}

	if _, err := f.report.Report(ctx, "1"); !errors.Is(err, domain.ErrNoTransactions) {
		t.Fatalf("expected ErrNoTransactions from report, got %v", err)
	}

	if _, err := f.report.Analysis(ctx, "1"); !errors.Is(err, domain.ErrNoTransactions) {
		t.Fatalf("expected ErrNoTransactions from analysis, got %v", err)
	}
}

func TestReportUseCase_Report(t *testing.T) {
	f := newReportFixture(t, nil)
	f.add(t, "1", domain.TransactionTypeIncome, domain.CategorySalary, 1000)
	f.add(t, "1", domain.TransactionTypeExpense, domain.CategoryFood, 400)

	s, err := f.report.Report(context.Background(), "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !s.TotalIncome.Equal(decimal.NewFromInt(1000)) || !s.TotalExpense.Equal(decimal.NewFromInt(400)) {
		t.Fatalf("unexpected totals: %+v", s)
	}
	if !s.Balance.Equal(decimal.NewFromInt(600)) || !s.Difference.Equal(decimal.NewFromInt(600)) {
		t.Fatalf("unexpected balance: %+v", s)
	}
}

func TestReportUseCase_Analysis(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	increase := []string{"a", "b", "c", "d", "e", "f"}
	invest := []string{"1", "2", "3", "4", "5", "6"}

	catalog := mocks.NewMockAdviceCatalog(ctrl)
	catalog.EXPECT().Suggestions(domain.AdviceIncreaseIncome).Return(increase).AnyTimes()
	catalog.EXPECT().Suggestions(domain.AdviceInvest).Return(invest).AnyTimes()

	t.Run("deficit", func(t *testing.T) {
		f := newReportFixture(t, catalog)
		f.add(t, "1", domain.TransactionTypeIncome, domain.CategoryFreelance, 200)
		f.add(t, "1", domain.TransactionTypeExpense, domain.CategoryHousing, 950)

		a, err := f.report.Analysis(context.Background(), "1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if a.Kind != domain.AdviceIncreaseIncome {
			t.Fatalf("expected increase-income advice, got %s", a.Kind)
		}
		if !a.Deficit.Equal(decimal.NewFromInt(750)) || !a.Surplus.IsZero() {
			t.Fatalf("expected deficit 750, got deficit=%s surplus=%s", a.Deficit, a.Surplus)
		}
		if len(a.Suggestions) != 6 || a.Suggestions[0] != "a" {
			t.Fatalf("unexpected suggestions: %v", a.Suggestions)
		}
	})

	t.Run("break even counts as surplus", func(t *testing.T) {
		f := newReportFixture(t, catalog)
		f.add(t, "1", domain.TransactionTypeIncome, domain.CategorySalary, 300)
		f.add(t, "1", domain.TransactionTypeExpense, domain.CategoryEducation, 300)

		a, err := f.report.Analysis(context.Background(), "1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if a.Kind != domain.AdviceInvest || !a.Surplus.IsZero() {
			t.Fatalf("expected invest advice with zero surplus, got %+v", a)
		}
		if a.Suggestions[5] != "6" {
			t.Fatalf("unexpected suggestions: %v", a.Suggestions)
		}
	})
}

func TestReportUseCase_ReadOnlyLeavesUnknownUsersOut(t *testing.T) {
	store := usecase.NewLedgerStore(memory.NewLedgerRepository(), nil, zerolog.Nop())
	recorder := usecase.NewTransactionUseCase(usecase.TransactionConfig{Store: store, Logger: zerolog.Nop()})
	report := usecase.NewReportUseCase(store, nil).ReadOnly()
	ctx := context.Background()

	if _, err := recorder.AddTransaction(ctx, usecase.AddTransactionInput{
		UserID: "1", Type: domain.TransactionTypeIncome, Category: domain.CategorySalary, Amount: decimal.NewFromInt(500),
	}); err != nil {
		t.Fatalf("add transaction: %v", err)
	}

	summary, err := report.Balance(ctx, "999")
	if err != nil {
		t.Fatalf("balance for unknown user: %v", err)
	}
	if !summary.Balance.IsZero() || summary.Count != 0 {
		t.Fatalf("expected zero summary, got %+v", summary)
	}
	if _, err := report.Analysis(ctx, "999"); !errors.Is(err, domain.ErrNoTransactions) {
		t.Fatalf("expected ErrNoTransactions, got %v", err)
	}

	summary, err = report.Report(ctx, "1")
	if err != nil {
		t.Fatalf("report for known user: %v", err)
	}
	if !summary.Balance.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("expected balance 500, got %s", summary.Balance)
	}

	ledgers := store.Ledgers(ctx)
	if len(ledgers) != 1 || ledgers[0].UserID != "1" {
		t.Fatalf("expected only user 1 in the store, got %+v", ledgers)
	}
}
