package parse

import (
	"testing"
)

func TestMoney(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
	}{
		{"Full format with prefix", "R$ 1.234,56", 1234.56},
		{"No prefix", "1.234,56", 1234.56},
		{"Plain decimal comma", "12,99", 12.99},
		{"Integer", "150", 150},
		{"Millions", "1.250.000,00", 1250000},
		{"Empty", "", 0},
		{"Garbage", "abc", 0},
		{"Null literal", "null", 0},
		{"Whitespace only", "   ", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Money(tt.input)
			if got != tt.expected {
				t.Errorf("Money(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestMoneyPtr(t *testing.T) {
	if got := MoneyPtr(""); got != nil {
		t.Errorf("MoneyPtr(\"\") = %v, want nil", *got)
	}
	if got := MoneyPtr("abc"); got != nil {
		t.Errorf("MoneyPtr(\"abc\") = %v, want nil", *got)
	}
	if got := MoneyPtr("R$ 2,50"); got == nil || *got != 2.5 {
		t.Errorf("MoneyPtr(\"R$ 2,50\") = %v, want 2.5", got)
	}
}

func TestDate(t *testing.T) {
	if got := Date("2025-06-01"); got == nil || got.Format("2006-01-02") != "2025-06-01" {
		t.Errorf("Date(\"2025-06-01\") = %v", got)
	}
	for _, bad := range []string{"", "null", "undefined", "01/06/2025", "not-a-date"} {
		if got := Date(bad); got != nil {
			t.Errorf("Date(%q) = %v, want nil", bad, got)
		}
	}
}

func TestFloat(t *testing.T) {
	if got := Float("12.5"); got != 12.5 {
		t.Errorf("Float(\"12.5\") = %v, want 12.5", got)
	}
	if got := Float(""); got != 0 {
		t.Errorf("Float(\"\") = %v, want 0", got)
	}
	if got := Float("x"); got != 0 {
		t.Errorf("Float(\"x\") = %v, want 0", got)
	}
}
