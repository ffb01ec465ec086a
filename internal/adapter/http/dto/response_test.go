package dto

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/pocketledger/internal/domain"
)

func TestSummaryFromDomain(t *testing.T) {
	s := domain.Summary{
		UserID:       "42",
		Balance:      decimal.RequireFromString("-150000"),
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.RequireFromString("150000"),
		Difference:   decimal.RequireFromString("-150000"),
		Count:        1,
	}

	resp := SummaryFromDomain(s)
	if resp.UserID != "42" || resp.Balance != "-150000" || resp.TotalIncome != "0" || resp.TransactionCount != 1 {
		t.Fatalf("unexpected summary response: %+v", resp)
	}
}

func TestAnalysisFromDomain(t *testing.T) {
	a := &domain.Analysis{
		Summary: domain.Summary{UserID: "1", Difference: decimal.NewFromInt(-5)},
		Kind:    domain.AdviceIncreaseIncome,
		Deficit: decimal.NewFromInt(5),
		Surplus: decimal.Zero,
	}

	resp := AnalysisFromDomain(a)
	if resp.Advice != "increase_income" || resp.Deficit != "5" || resp.Surplus != "0" {
		t.Fatalf("unexpected analysis response: %+v", resp)
	}

	body, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !strings.Contains(string(body), `"suggestions":[]`) || !strings.Contains(string(body), `"user_id":"1"`) {
		t.Fatalf("expected flattened summary and empty suggestions, got %s", body)
	}
}
