package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"

	"github.com/iho/pocketledger/internal/domain"
)

func TestLedgerRepositoryLoad(t *testing.T) {
	mockPool := newMockPool(t)
	createdAt := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

	mockPool.ExpectQuery("SELECT user_id, balance::text FROM user_ledgers").
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "balance"}).
			AddRow("42", "-250.5").
			AddRow("43", "0"))

	mockPool.ExpectQuery("FROM ledger_transactions").
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "id", "type", "category", "amount", "description", "created_at"}).
			AddRow("42", 1, "income", "gift", "100", "", createdAt).
			AddRow("42", 2, "expense", "health", "350.5", "دندانپزشکی", createdAt.Add(time.Minute)))

	repo := newLedgerRepositoryWithPool(mockPool)
	ledgers, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(ledgers) != 2 {
		t.Fatalf("expected 2 ledgers, got %d", len(ledgers))
	}

	l := ledgers["42"]
	if len(l.Transactions) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(l.Transactions))
	}
	if err := l.Verify(); err != nil {
		t.Fatalf("loaded ledger should be consistent: %v", err)
	}
	if l.Transactions[1].Category != domain.CategoryHealth || l.Transactions[1].Description != "دندانپزشکی" {
		t.Fatalf("unexpected transaction: %+v", l.Transactions[1])
	}
	if !ledgers["43"].IsEmpty() {
		t.Fatalf("expected empty ledger for user 43")
	}

	assertExpectations(t, mockPool)
}

func TestLedgerRepositoryLoadRejectsUnknownCategory(t *testing.T) {
	mockPool := newMockPool(t)

	mockPool.ExpectQuery("SELECT user_id, balance::text FROM user_ledgers").
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "balance"}).AddRow("1", "5"))
	mockPool.ExpectQuery("FROM ledger_transactions").
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "id", "type", "category", "amount", "description", "created_at"}).
			AddRow("1", 1, "income", "lottery", "5", "", time.Now()))

	_, err := newLedgerRepositoryWithPool(mockPool).Load(context.Background())
	if !errors.Is(err, domain.ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}
}

func TestLedgerRepositorySave(t *testing.T) {
	mockPool := newMockPool(t)

	l := domain.NewUserLedger("7")
	if _, err := l.Record(domain.NewTransaction{
		Type: domain.TransactionTypeExpense, Category: domain.CategoryInsurance, Amount: decimal.NewFromInt(90),
	}, time.Now()); err != nil {
		t.Fatalf("record: %v", err)
	}

	mockPool.ExpectBegin()
	mockPool.ExpectExec("INSERT INTO user_ledgers").
		WithArgs("7", "-90").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mockPool.ExpectExec("INSERT INTO ledger_transactions").
		WithArgs("7", 1, "expense", "insurance", "90", "", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mockPool.ExpectCommit()

	repo := newLedgerRepositoryWithPool(mockPool)
	if err := repo.Save(context.Background(), map[string]*domain.UserLedger{"7": l}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestLedgerRepositorySaveRollsBackOnError(t *testing.T) {
	mockPool := newMockPool(t)
	execErr := errors.New("connection reset")

	mockPool.ExpectBegin()
	mockPool.ExpectExec("INSERT INTO user_ledgers").
		WithArgs("7", "0").
		WillReturnError(execErr)
	mockPool.ExpectRollback()

	repo := newLedgerRepositoryWithPool(mockPool)
	err := repo.Save(context.Background(), map[string]*domain.UserLedger{"7": domain.NewUserLedger("7")})
	if !errors.Is(err, execErr) {
		t.Fatalf("expected exec error, got %v", err)
	}

	assertExpectations(t, mockPool)
}

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	pool, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgxmock pool: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func assertExpectations(t *testing.T, pool pgxmock.PgxPoolIface) {
	t.Helper()
	if err := pool.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations were not met: %v", err)
	}
}
