package refdata

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Accented city", "São Paulo  ", "sao paulo"},
		{"Already normalized", "sao paulo", "sao paulo"},
		{"Uppercase with cedilla", "AÇÚCAR CRISTAL", "acucar cristal"},
		{"Punctuation stripped", "Adubo NPK 20-05-20 (50kg)", "adubo npk 200520 50kg"},
		{"Whitespace collapsed", "  milho   verde ", "milho verde"},
		{"Empty", "", ""},
		{"Only punctuation", "***", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestContains(t *testing.T) {
	tests := []struct {
		name     string
		haystack string
		needle   string
		expected bool
	}{
		{"Accent-insensitive", "Fazenda São João", "sao joao", true},
		{"Case-insensitive", "ADUBO ORGANICO", "orgânico", true},
		{"Substring", "Cooperado Antônio Pereira", "pereira", true},
		{"No match", "Calcário Dolomítico", "ureia", false},
		{"Empty needle", "Calcário", "", false},
		{"Empty haystack", "", "calcario", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Contains(tt.haystack, tt.needle)
			if got != tt.expected {
				t.Errorf("Contains(%q, %q) = %v, want %v", tt.haystack, tt.needle, got, tt.expected)
			}
		})
	}
}
