package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/iho/pocketledger/internal/domain"
	"github.com/iho/pocketledger/internal/usecase"
	"github.com/iho/pocketledger/internal/usecase/mocks"
)

func TestLedgerStore_LoadFailureFallsBackToEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockLedgerRepository(ctrl)
	metrics := mocks.NewMockMetricsRecorder(ctrl)

	repo.EXPECT().Load(gomock.Any()).Return(nil, errors.New("unexpected end of JSON input"))
	metrics.EXPECT().PersistenceFailed("load")

	store := usecase.NewLedgerStore(repo, metrics, zerolog.Nop())
	store.Load(context.Background())

	if got := store.Ledgers(context.Background()); len(got) != 0 {
		t.Fatalf("expected empty store, got %d ledgers", len(got))
	}
}

func TestLedgerStore_LoadKeepsPersistedState(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	persisted := domain.NewUserLedger("42")
	_, _ = persisted.Record(domain.NewTransaction{
		Type:     domain.TransactionTypeIncome,
		Category: domain.CategorySalary,
		Amount:   decimal.NewFromInt(900),
	}, time.Now())

	repo := mocks.NewMockLedgerRepository(ctrl)
	repo.EXPECT().Load(gomock.Any()).Return(map[string]*domain.UserLedger{"42": persisted}, nil)

	store := usecase.NewLedgerStore(repo, nil, zerolog.Nop())
	store.Load(context.Background())

	l := store.GetUserLedger(context.Background(), "42")
	if len(l.Transactions) != 1 || !l.Balance.Equal(decimal.NewFromInt(900)) {
		t.Fatalf("unexpected ledger after load: %+v", l)
	}
}

func TestLedgerStore_GetUserLedgerCreatesLazilyWithoutSaving(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No Save expectation: a read must never write.
	repo := mocks.NewMockLedgerRepository(ctrl)

	store := usecase.NewLedgerStore(repo, nil, zerolog.Nop())
	l := store.GetUserLedger(context.Background(), "new-user")

	if l.UserID != "new-user" || !l.IsEmpty() || !l.Balance.IsZero() {
		t.Fatalf("expected empty ledger, got %+v", l)
	}

	if got := store.Ledgers(context.Background()); len(got) != 1 {
		t.Fatalf("expected lazy insert into the store, got %d ledgers", len(got))
	}
}

func TestLedgerStore_FindUserLedgerDoesNotInsert(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockLedgerRepository(ctrl)

	store := usecase.NewLedgerStore(repo, nil, zerolog.Nop())
	l, ok := store.FindUserLedger(context.Background(), "ghost")

	if ok {
		t.Fatal("expected unknown user to be reported as missing")
	}
	if l.UserID != "ghost" || !l.IsEmpty() || !l.Balance.IsZero() {
		t.Fatalf("expected empty snapshot, got %+v", l)
	}
	if got := store.Ledgers(context.Background()); len(got) != 0 {
		t.Fatalf("expected no insert, got %d ledgers", len(got))
	}
}

func TestLedgerStore_UpdateSaveFailureKeepsMutation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockLedgerRepository(ctrl)
	metrics := mocks.NewMockMetricsRecorder(ctrl)

	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))
	metrics.EXPECT().PersistenceFailed("save")

	store := usecase.NewLedgerStore(repo, metrics, zerolog.Nop())
	err := store.Update(context.Background(), "1", func(l *domain.UserLedger) error {
		_, err := l.Record(domain.NewTransaction{
			Type:     domain.TransactionTypeExpense,
			Category: domain.CategoryFood,
			Amount:   decimal.NewFromInt(30),
		}, time.Now())
		return err
	})

	if !errors.Is(err, usecase.ErrPersistenceFailed) {
		t.Fatalf("expected ErrPersistenceFailed, got %v", err)
	}

	l := store.GetUserLedger(context.Background(), "1")
	if len(l.Transactions) != 1 || !l.Balance.Equal(decimal.NewFromInt(-30)) {
		t.Fatalf("mutation must survive a failed save, got %+v", l)
	}
}

func TestLedgerStore_UpdateErrorSkipsSave(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockLedgerRepository(ctrl)
	store := usecase.NewLedgerStore(repo, nil, zerolog.Nop())

	wantErr := errors.New("boom")
	err := store.Update(context.Background(), "1", func(*domain.UserLedger) error { return wantErr })
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected fn error, got %v", err)
	}
}
