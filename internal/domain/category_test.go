package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoriesTables(t *testing.T) {
	t.Parallel()

	assert.Len(t, Categories(TransactionTypeIncome), 8)
	assert.Len(t, Categories(TransactionTypeExpense), 11)
	assert.Nil(t, Categories("transfer"))

	income := Categories(TransactionTypeIncome)
	income[0] = "mutated"
	assert.Equal(t, CategorySalary, Categories(TransactionTypeIncome)[0], "table must not be shared")
}

func TestCategoryByCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		typ     TransactionType
		code    string
		want    Category
		wantErr error
	}{
		{name: "first income", typ: TransactionTypeIncome, code: "1", want: CategorySalary},
		{name: "last income", typ: TransactionTypeIncome, code: "8", want: CategoryOtherIncome},
		{name: "housing", typ: TransactionTypeExpense, code: "3", want: CategoryHousing},
		{name: "two digit code", typ: TransactionTypeExpense, code: "10", want: CategoryCommunications},
		{name: "padded", typ: TransactionTypeExpense, code: " 11 ", want: CategoryOtherExpense},
		{name: "persian digit", typ: TransactionTypeExpense, code: "۳", want: CategoryHousing},
		{name: "income out of range", typ: TransactionTypeIncome, code: "9", wantErr: ErrInvalidCategory},
		{name: "zero", typ: TransactionTypeExpense, code: "0", wantErr: ErrInvalidCategory},
		{name: "leading zero", typ: TransactionTypeExpense, code: "03", wantErr: ErrInvalidCategory},
		{name: "signed", typ: TransactionTypeExpense, code: "+3", wantErr: ErrInvalidCategory},
		{name: "text", typ: TransactionTypeExpense, code: "food", wantErr: ErrInvalidCategory},
		{name: "unknown type", typ: "transfer", code: "1", wantErr: ErrInvalidTransactionType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CategoryByCode(tt.typ, tt.code)
			if tt.wantErr != nil {
				require.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateCategory(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidateCategory(TransactionTypeIncome, CategoryGift))
	assert.ErrorIs(t, ValidateCategory(TransactionTypeIncome, CategoryFood), ErrInvalidCategory)
	assert.ErrorIs(t, ValidateCategory(TransactionTypeExpense, CategorySalary), ErrInvalidCategory)

	c, err := ParseCategory(TransactionTypeExpense, "housing")
	require.NoError(t, err)
	assert.Equal(t, CategoryHousing, c)
}

func TestParseCategory_PersianLabels(t *testing.T) {
	t.Parallel()

	c, err := ParseCategory(TransactionTypeExpense, "مسکن")
	require.NoError(t, err)
	assert.Equal(t, CategoryHousing, c)

	c, err = ParseCategory(TransactionTypeIncome, "سایر درآمدها")
	require.NoError(t, err)
	assert.Equal(t, CategoryOtherIncome, c)

	_, err = ParseCategory(TransactionTypeIncome, "مسکن")
	assert.ErrorIs(t, err, ErrInvalidCategory)

	_, err = ParseCategory(TransactionTypeExpense, "نامعلوم")
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestCategoryLabel(t *testing.T) {
	t.Parallel()

	for _, typ := range []TransactionType{TransactionTypeIncome, TransactionTypeExpense} {
		for _, c := range Categories(typ) {
			label := c.Label()
			assert.NotEqual(t, string(c), label, "category %s has no label", c)

			back, err := ParseCategory(typ, label)
			require.NoError(t, err)
			assert.Equal(t, c, back)
		}
	}

	assert.Equal(t, "crypto", Category("crypto").Label())
}
