package workflow

import (
	"testing"
	"time"
)

func TestRecipients(t *testing.T) {
	router := Router{
		Commercial: []string{"comercial@coop.test"},
		Supply:     []string{"suprimentos@coop.test"},
	}

	tests := []struct {
		name     string
		status   string
		expected []string
	}{
		{"Supply analysis", StatusSupplyAnalysis, []string{"suprimentos@coop.test"}},
		{"Released for sale", StatusReleasedForSale, []string{"comercial@coop.test", "suprimentos@coop.test"}},
		{"Lost quotation", StatusLostQuotation, []string{"comercial@coop.test", "suprimentos@coop.test"}},
		{"Commercial analysis", StatusCommercialAnalysis, []string{"comercial@coop.test"}},
		{"Unknown status falls back to commercial", "qualquer outro", []string{"comercial@coop.test"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := router.Recipients(tt.status)
			if len(got) != len(tt.expected) {
				t.Fatalf("Recipients(%q) = %v, want %v", tt.status, got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("Recipients(%q)[%d] = %q, want %q", tt.status, i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestRecipientsDoesNotAliasRouterSlices(t *testing.T) {
	router := Router{
		Commercial: []string{"comercial@coop.test"},
		Supply:     []string{"suprimentos@coop.test"},
	}
	got := router.Recipients(StatusReleasedForSale)
	got[0] = "mutated"
	if router.Commercial[0] != "comercial@coop.test" {
		t.Error("Recipients must return a copy, not the router's own slice")
	}
}

func TestStatusEntry(t *testing.T) {
	entered := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	now := time.Date(2025, 3, 15, 14, 30, 0, 0, time.UTC)

	t.Run("changed status resets entry timestamp", func(t *testing.T) {
		got := StatusEntry(StatusCommercialAnalysis, StatusSupplyAnalysis, entered, now)
		if !got.Equal(now) {
			t.Errorf("StatusEntry = %v, want %v", got, now)
		}
		if !got.After(entered) {
			t.Error("entry timestamp must strictly increase on a transition")
		}
	})

	t.Run("unchanged status keeps entry timestamp", func(t *testing.T) {
		got := StatusEntry(StatusCommercialAnalysis, StatusCommercialAnalysis, entered, now)
		if !got.Equal(entered) {
			t.Errorf("StatusEntry = %v, want %v", got, entered)
		}
	})
}

func TestValidStatuses(t *testing.T) {
	for _, s := range QuotationStatuses {
		if !ValidQuotationStatus(s) {
			t.Errorf("ValidQuotationStatus(%q) = false", s)
		}
	}
	if ValidQuotationStatus("Em Aberto") {
		t.Error("ValidQuotationStatus accepted a value outside the closed set")
	}

	if !ValidResearchStatus(StatusCommercialAnalysis) || !ValidResearchStatus(StatusReleasedForSale) {
		t.Error("research status set must contain its two values")
	}
	if ValidResearchStatus(StatusSupplyAnalysis) {
		t.Error("ValidResearchStatus accepted a quotation-only status")
	}
}
