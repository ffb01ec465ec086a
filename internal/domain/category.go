package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Category is a fixed income or expense category.
type Category string

// Income categories, in the order they are offered to the user.
const (
	CategorySalary       Category = "salary"
	CategoryFreelance    Category = "freelance"
	CategoryDividend     Category = "dividend"
	CategoryStockSale    Category = "stock_sale"
	CategoryRental       Category = "rental"
	CategoryGift         Category = "gift"
	CategoryBankInterest Category = "bank_interest"
	CategoryOtherIncome  Category = "other_income"
)

// Expense categories, in the order they are offered to the user.
const (
	CategoryFood            Category = "food"
	CategoryTransportation  Category = "transportation"
	CategoryHousing         Category = "housing"
	CategoryLoanInstallment Category = "loan_installment"
	CategoryEntertainment   Category = "entertainment"
	CategoryHealth          Category = "health"
	CategoryShopping        Category = "shopping"
	CategoryEducation       Category = "education"
	CategoryInsurance       Category = "insurance"
	CategoryCommunications  Category = "communications"
	CategoryOtherExpense    Category = "other_expense"
)

var incomeCategories = []Category{
	CategorySalary,
	CategoryFreelance,
	CategoryDividend,
	CategoryStockSale,
	CategoryRental,
	CategoryGift,
	CategoryBankInterest,
	CategoryOtherIncome,
}

var expenseCategories = []Category{
	CategoryFood,
	CategoryTransportation,
	CategoryHousing,
	CategoryLoanInstallment,
	CategoryEntertainment,
	CategoryHealth,
	CategoryShopping,
	CategoryEducation,
	CategoryInsurance,
	CategoryCommunications,
	CategoryOtherExpense,
}

// categoryLabels holds the Persian names shown to users. Ledgers written by
// earlier releases store these names instead of the keys.
var categoryLabels = map[Category]string{
	CategorySalary:       "حقوق و دستمزد",
	CategoryFreelance:    "فریلنس",
	CategoryDividend:     "سود سهام",
	CategoryStockSale:    "فروش سهام",
	CategoryRental:       "اجاره ملک",
	CategoryGift:         "هدیه",
	CategoryBankInterest: "سود بانکی",
	CategoryOtherIncome:  "سایر درآمدها",

	CategoryFood:            "خوراک",
	CategoryTransportation:  "حمل‌ونقل",
	CategoryHousing:         "مسکن",
	CategoryLoanInstallment: "قسط وام",
	CategoryEntertainment:   "تفریح",
	CategoryHealth:          "سلامتی",
	CategoryShopping:        "خرید",
	CategoryEducation:       "آموزش",
	CategoryInsurance:       "بیمه",
	CategoryCommunications:  "ارتباطات",
	CategoryOtherExpense:    "سایر هزینه‌ها",
}

var categoriesByLabel = func() map[string]Category {
	m := make(map[string]Category, len(categoryLabels))
	for c, label := range categoryLabels {
		m[label] = c
	}
	return m
}()

// Label returns the Persian name of c, or the key itself when c is unknown.
func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

// Categories returns the ordered category table for a transaction type.
// Position i in the slice is offered to the user as code i+1.
func Categories(t TransactionType) []Category {
	var src []Category
	switch t {
	case TransactionTypeIncome:
		src = incomeCategories
	case TransactionTypeExpense:
		src = expenseCategories
	default:
		return nil
	}
	out := make([]Category, len(src))
	copy(out, src)
	return out
}

// CategoryByCode resolves a 1-based code typed by the user into a category of type t.
// Surrounding whitespace is ignored and Persian or Arabic-Indic digits are accepted.
func CategoryByCode(t TransactionType, code string) (Category, error) {
	table := Categories(t)
	if table == nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTransactionType, t)
	}

	s := normalizeDigits(strings.TrimSpace(code))
	n, err := strconv.Atoi(s)
	if err != nil || strconv.Itoa(n) != s || n < 1 || n > len(table) {
		return "", fmt.Errorf("%w: code %q for %s", ErrInvalidCategory, code, t)
	}
	return table[n-1], nil
}

// ParseCategory validates a persisted category name against the table for t.
// Both keys and Persian labels are accepted.
func ParseCategory(t TransactionType, name string) (Category, error) {
	c := Category(name)
	if legacy, ok := categoriesByLabel[strings.TrimSpace(name)]; ok {
		c = legacy
	}
	if err := ValidateCategory(t, c); err != nil {
		return "", err
	}
	return c, nil
}

// ValidateCategory checks that c belongs to the category table of t.
func ValidateCategory(t TransactionType, c Category) error {
	table := Categories(t)
	if table == nil {
		return fmt.Errorf("%w: %q", ErrInvalidTransactionType, t)
	}
	for _, known := range table {
		if known == c {
			return nil
		}
	}
	return fmt.Errorf("%w: %q is not a %s category", ErrInvalidCategory, c, t)
}
