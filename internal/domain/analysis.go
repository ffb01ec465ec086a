package domain

import "github.com/shopspring/decimal"

// AdviceKind selects a bundle of canned suggestions.
type AdviceKind string

const (
	// AdviceIncreaseIncome is given when expenses exceed income.
	AdviceIncreaseIncome AdviceKind = "increase_income"
	// AdviceInvest is given when income covers expenses.
	AdviceInvest AdviceKind = "invest"
)

// Analysis is the result of analysing a non-empty ledger.
type Analysis struct {
	Summary
	Kind        AdviceKind
	Suggestions []string
	// Deficit is |balance| when Kind is AdviceIncreaseIncome, otherwise zero.
	Deficit decimal.Decimal
	// Surplus is the balance when Kind is AdviceInvest, otherwise zero.
	Surplus decimal.Decimal
}

// AdviceFor picks the advice kind for a balance.
func AdviceFor(balance decimal.Decimal) AdviceKind {
	if balance.IsNegative() {
		return AdviceIncreaseIncome
	}
	return AdviceInvest
}
