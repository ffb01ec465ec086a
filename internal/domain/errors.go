package domain

import "errors"

var (
	// Input errors
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrInvalidCategory        = errors.New("invalid category")
	ErrInvalidAmount          = errors.New("amount must be positive")
	ErrMalformedAmount        = errors.New("amount is not a number")

	// Ledger errors
	ErrNoTransactions     = errors.New("ledger has no transactions")
	ErrLedgerInconsistent = errors.New("ledger balance does not match its transactions")
	ErrInvalidUserID      = errors.New("invalid user id")

	// Dialogue errors
	ErrNoSession = errors.New("no active dialogue session")
)
