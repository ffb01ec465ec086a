package dto

import (
	"github.com/iho/pocketledger/internal/domain"
)

// SummaryResponse represents a ledger summary in API responses.
// Amounts are decimal strings.
type SummaryResponse struct {
	UserID           string `json:"user_id"`
	Balance          string `json:"balance"`
	TotalIncome      string `json:"total_income"`
	TotalExpense     string `json:"total_expense"`
	Difference       string `json:"difference"`
	TransactionCount int    `json:"transaction_count"`
}

// SummaryFromDomain converts a domain summary to response.
func SummaryFromDomain(s domain.Summary) *SummaryResponse {
	return &SummaryResponse{
		UserID:           s.UserID,
		Balance:          s.Balance.String(),
		TotalIncome:      s.TotalIncome.String(),
		TotalExpense:     s.TotalExpense.String(),
		Difference:       s.Difference.String(),
		TransactionCount: s.Count,
	}
}

// AnalysisResponse represents an analysis in API responses.
type AnalysisResponse struct {
	SummaryResponse

	Advice      string   `json:"advice"`
	Suggestions []string `json:"suggestions"`
	Deficit     string   `json:"deficit"`
	Surplus     string   `json:"surplus"`
}

// AnalysisFromDomain converts a domain analysis to response.
func AnalysisFromDomain(a *domain.Analysis) *AnalysisResponse {
	suggestions := a.Suggestions
	if suggestions == nil {
		suggestions = []string{}
	}

	return &AnalysisResponse{
		SummaryResponse: *SummaryFromDomain(a.Summary),
		Advice:          string(a.Kind),
		Suggestions:     suggestions,
		Deficit:         a.Deficit.String(),
		Surplus:         a.Surplus.String(),
	}
}

// ConsistencyResponse reports the outcome of a ledger consistency check.
type ConsistencyResponse struct {
	Status     string `json:"status"`
	Consistent bool   `json:"consistent"`
	Message    string `json:"message,omitempty"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
