package telegram

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/iho/pocketledger/internal/domain"
)

func TestGroupDigits(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"999", "999"},
		{"1000", "1,000"},
		{"150000", "150,000"},
		{"1500000.5", "1,500,000.5"},
		{"-23499999.5", "-23,499,999.5"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, GroupDigits(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestCatalog_Suggestions(t *testing.T) {
	c := NewCatalog()

	for _, kind := range []domain.AdviceKind{domain.AdviceIncreaseIncome, domain.AdviceInvest} {
		got := c.Suggestions(kind)
		assert.Len(t, got, 6, kind)

		got[0] = "changed"
		assert.NotEqual(t, "changed", c.Suggestions(kind)[0], "returned slice is a copy")
	}
	assert.Empty(t, c.Suggestions("unknown"))
}

func TestCatalog_EveryCategoryHasLabel(t *testing.T) {
	c := NewCatalog()

	for _, typ := range []domain.TransactionType{domain.TransactionTypeIncome, domain.TransactionTypeExpense} {
		for _, cat := range domain.Categories(typ) {
			assert.NotEqual(t, string(cat), c.CategoryLabel(cat), "missing label for %s", cat)
		}
	}
}

func TestCatalog_AnalysisSurplus(t *testing.T) {
	c := NewCatalog()

	text := c.Analysis(&domain.Analysis{
		Summary: domain.Summary{
			TotalIncome:  decimal.NewFromInt(5000),
			TotalExpense: decimal.NewFromInt(5000),
			Difference:   decimal.Zero,
		},
		Kind:        domain.AdviceInvest,
		Suggestions: c.Suggestions(domain.AdviceInvest),
		Surplus:     decimal.Zero,
	})

	assert.Contains(t, text, "💡 پیشنهادات سرمایه‌گذاری:")
	assert.Contains(t, text, "🎉 تبریک! شما 0 تومان پس‌انداز دارید!")
	assert.Contains(t, text, "کل درآمد: 5,000 تومان")
}
