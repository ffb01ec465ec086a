package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/pocketledger/internal/domain"
)

const (
	selectLedgersSQL = `SELECT user_id, balance::text FROM user_ledgers`

	selectTransactionsSQL = `SELECT user_id, id, type, category, amount::text, description, created_at
FROM ledger_transactions
ORDER BY user_id, id`

	upsertLedgerSQL = `INSERT INTO user_ledgers (user_id, balance, updated_at)
VALUES ($1, $2, NOW())
ON CONFLICT (user_id) DO UPDATE SET balance = EXCLUDED.balance, updated_at = NOW()
WHERE user_ledgers.balance IS DISTINCT FROM EXCLUDED.balance`

	insertTransactionSQL = `INSERT INTO ledger_transactions (user_id, id, type, category, amount, description, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (user_id, id) DO NOTHING`
)

type pgxPool interface {
	Begin(context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// LedgerRepository implements usecase.LedgerRepository on PostgreSQL.
// Transactions are append-only, so Save only inserts rows it has not seen.
type LedgerRepository struct {
	pool pgxPool
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return newLedgerRepositoryWithPool(pool)
}

func newLedgerRepositoryWithPool(pool pgxPool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// Load reads every ledger with its transactions ordered by id.
func (r *LedgerRepository) Load(ctx context.Context) (map[string]*domain.UserLedger, error) {
	ledgers := make(map[string]*domain.UserLedger)

	rows, err := r.pool.Query(ctx, selectLedgersSQL)
	if err != nil {
		return nil, fmt.Errorf("query ledgers: %w", err)
	}
	for rows.Next() {
		var userID, balance string
		if err := rows.Scan(&userID, &balance); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan ledger: %w", err)
		}
		d, err := decimal.NewFromString(balance)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("user %s: balance: %w", userID, err)
		}
		l := domain.NewUserLedger(userID)
		l.Balance = d
		ledgers[userID] = l
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledgers: %w", err)
	}

	rows, err = r.pool.Query(ctx, selectTransactionsSQL)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			userID, typ, category, amount, description string
			id                                         int
			createdAt                                  time.Time
		)
		if err := rows.Scan(&userID, &id, &typ, &category, &amount, &description, &createdAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}

		t, err := rowToTransaction(id, typ, category, amount, description, createdAt)
		if err != nil {
			return nil, fmt.Errorf("user %s: transaction %d: %w", userID, id, err)
		}

		l, ok := ledgers[userID]
		if !ok {
			l = domain.NewUserLedger(userID)
			ledgers[userID] = l
		}
		l.Transactions = append(l.Transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	return ledgers, nil
}

// Save upserts every ledger in a single database transaction.
func (r *LedgerRepository) Save(ctx context.Context, ledgers map[string]*domain.UserLedger) (err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	for userID, l := range ledgers {
		if _, err = tx.Exec(ctx, upsertLedgerSQL, userID, l.Balance.String()); err != nil {
			return fmt.Errorf("upsert ledger %s: %w", userID, err)
		}
		for _, t := range l.Transactions {
			_, err = tx.Exec(ctx, insertTransactionSQL,
				userID, t.ID, string(t.Type), string(t.Category), t.Amount.String(), t.Description, t.CreatedAt)
			if err != nil {
				return fmt.Errorf("insert transaction %s/%d: %w", userID, t.ID, err)
			}
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func rowToTransaction(id int, typ, category, amount, description string, createdAt time.Time) (domain.Transaction, error) {
	t, err := domain.ParseTransactionType(typ)
	if err != nil {
		return domain.Transaction{}, err
	}
	c, err := domain.ParseCategory(t, category)
	if err != nil {
		return domain.Transaction{}, err
	}
	a, err := decimal.NewFromString(amount)
	if err != nil {
		return domain.Transaction{}, err
	}

	return domain.Transaction{
		ID:          id,
		Type:        t,
		Category:    c,
		Amount:      a,
		Description: description,
		CreatedAt:   createdAt.In(time.Local),
	}, nil
}
