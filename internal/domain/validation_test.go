package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    string
		wantErr error
	}{
		{input: "150000", want: "150000"},
		{input: "150,000", want: "150000"},
		{input: " 1,250.75 ", want: "1250.75"},
		{input: "۱۵۰٬۰۰۰", want: "150000"},
		{input: "٢٠٠", want: "200"},
		{input: "0", wantErr: ErrInvalidAmount},
		{input: "-20", wantErr: ErrInvalidAmount},
		{input: "abc", wantErr: ErrMalformedAmount},
		{input: "", wantErr: ErrMalformedAmount},
		{input: ",", wantErr: ErrMalformedAmount},
		{input: "999,999,999,999,999,999", want: "999999999999999999"},
		{input: "0.00000001", want: "0.00000001"},
		{input: "1e3", want: "1000"},
		{input: "1e18", wantErr: ErrMalformedAmount},
		{input: "1e5000000", wantErr: ErrMalformedAmount},
		{input: "1e999999999", wantErr: ErrMalformedAmount},
		{input: "1e-5000000", wantErr: ErrMalformedAmount},
		{input: "0.000000001", wantErr: ErrMalformedAmount},
		{input: "-1e5000000", wantErr: ErrMalformedAmount},
	}

	for _, tt := range tests {
		got, err := ParseAmount(tt.input)
		if tt.wantErr != nil {
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ParseAmount(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseAmount(%q) unexpected error: %v", tt.input, err)
		}
		if !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Fatalf("ParseAmount(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestValidateAmount(t *testing.T) {
	t.Parallel()

	if err := ValidateAmount(decimal.NewFromFloat(0.01)); err != nil {
		t.Fatalf("expected small positive amount to be valid, got %v", err)
	}

	if err := ValidateAmount(decimal.Zero); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for zero, got %v", err)
	}

	if err := ValidateAmount(decimal.New(1, 5000000)); !errors.Is(err, ErrMalformedAmount) {
		t.Fatalf("expected ErrMalformedAmount for huge exponent, got %v", err)
	}
}

func TestValidateUserID(t *testing.T) {
	t.Parallel()

	if err := ValidateUserID("42"); err != nil {
		t.Fatalf("expected valid user id, got %v", err)
	}

	if err := ValidateUserID("  "); !errors.Is(err, ErrInvalidUserID) {
		t.Fatalf("expected ErrInvalidUserID, got %v", err)
	}
}
