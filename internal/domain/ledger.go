package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// UserLedger holds one user's transactions together with the running balance.
//
// Balance is maintained incrementally by Record and always equals the sum of
// income amounts minus the sum of expense amounts.
type UserLedger struct {
	UserID       string
	Transactions []Transaction
	Balance      decimal.Decimal
}

// NewUserLedger returns an empty ledger with a zero balance.
func NewUserLedger(userID string) *UserLedger {
	return &UserLedger{
		UserID:       userID,
		Transactions: []Transaction{},
		Balance:      decimal.Zero,
	}
}

// NewTransaction carries the user-supplied fields of a transaction to be recorded.
type NewTransaction struct {
	Type        TransactionType
	Category    Category
	Amount      decimal.Decimal
	Description string
}

// Validate checks type, category and amount.
func (n NewTransaction) Validate() error {
	if !n.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidTransactionType, n.Type)
	}
	if err := ValidateCategory(n.Type, n.Category); err != nil {
		return err
	}
	return ValidateAmount(n.Amount)
}

// Record appends a transaction created at the given time and updates the balance.
// The id is the current transaction count plus one; at is truncated to the second.
func (l *UserLedger) Record(n NewTransaction, at time.Time) (Transaction, error) {
	if err := n.Validate(); err != nil {
		return Transaction{}, err
	}

	t := Transaction{
		ID:          len(l.Transactions) + 1,
		Type:        n.Type,
		Category:    n.Category,
		Amount:      n.Amount,
		Description: n.Description,
		CreatedAt:   at.Truncate(time.Second),
	}

	l.Transactions = append(l.Transactions, t)
	l.Balance = l.Balance.Add(t.SignedAmount())

	return t, nil
}

// Clone returns a deep copy safe to hand out of a locked store.
func (l *UserLedger) Clone() UserLedger {
	txs := make([]Transaction, len(l.Transactions))
	copy(txs, l.Transactions)
	return UserLedger{
		UserID:       l.UserID,
		Transactions: txs,
		Balance:      l.Balance,
	}
}

// IsEmpty reports whether no transaction has been recorded yet.
func (l UserLedger) IsEmpty() bool {
	return len(l.Transactions) == 0
}

// Summary aggregates a ledger for reporting.
type Summary struct {
	UserID       string
	Balance      decimal.Decimal
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	Difference   decimal.Decimal
	Count        int
}

// Summarize computes totals over the transactions. Balance is the stored
// running balance, Difference is recomputed from the totals.
func (l *UserLedger) Summarize() Summary {
	income, expense := decimal.Zero, decimal.Zero
	for _, t := range l.Transactions {
		switch t.Type {
		case TransactionTypeIncome:
			income = income.Add(t.Amount)
		case TransactionTypeExpense:
			expense = expense.Add(t.Amount)
		}
	}

	return Summary{
		UserID:       l.UserID,
		Balance:      l.Balance,
		TotalIncome:  income,
		TotalExpense: expense,
		Difference:   income.Sub(expense),
		Count:        len(l.Transactions),
	}
}

// Verify checks the balance invariant and that ids run 1..n in order.
func (l *UserLedger) Verify() error {
	for i, t := range l.Transactions {
		if t.ID != i+1 {
			return fmt.Errorf("%w: user %s transaction #%d has id %d", ErrLedgerInconsistent, l.UserID, i+1, t.ID)
		}
	}

	s := l.Summarize()
	if !s.Balance.Equal(s.Difference) {
		return fmt.Errorf("%w: user %s balance %s, transactions sum to %s",
			ErrLedgerInconsistent, l.UserID, s.Balance, s.Difference)
	}
	return nil
}
