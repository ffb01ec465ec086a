package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType distinguishes money coming in from money going out.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// DateLayout is the layout used for transaction timestamps in persisted state.
const DateLayout = "2006-01-02 15:04:05"

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// ParseTransactionType converts a persisted type name into a TransactionType.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidTransactionType, s)
	}
	return t, nil
}

// Transaction is a single immutable income or expense record in a user's ledger.
type Transaction struct {
	ID          int
	Type        TransactionType
	Category    Category
	Amount      decimal.Decimal
	Description string
	CreatedAt   time.Time
}

// SignedAmount returns the effect of the transaction on the balance.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TransactionTypeExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Date returns the creation time formatted with DateLayout.
func (t Transaction) Date() string {
	return t.CreatedAt.Format(DateLayout)
}
