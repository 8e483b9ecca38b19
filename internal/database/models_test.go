package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }

func str(s string) *string { return &s }

func TestQuotationComputeDerived(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	q := Quotation{
		Date:            time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		StatusEnteredAt: now.Add(-72 * time.Hour),
		LastModifiedAt:  time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC),
		Products: []Product{
			{Supplier: str("Fornecedor A"), TotalWithFreight: f64(1500)},
			{Supplier: str("Fornecedor B"), TotalWithFreight: nil},
			{TotalWithFreight: f64(500.5)},
		},
	}

	q.ComputeDerived(now)

	require.Equal(t, "01/03/2026", q.DateDisplay)
	require.Equal(t, "09/03/2026", q.LastModified)
	require.Equal(t, 3, q.DaysInStatus)
	require.Equal(t, 2000.5, q.TotalValue, "nil totals count as zero")
	require.Equal(t, "Fornecedor A", q.Supplier, "headline supplier is the first product's")
}

func TestQuotationComputeDerivedNoProducts(t *testing.T) {
	now := time.Now()
	q := Quotation{Date: now, StatusEnteredAt: now, LastModifiedAt: now}
	q.ComputeDerived(now)

	require.Equal(t, "-", q.Supplier)
	require.Zero(t, q.TotalValue)
	require.Equal(t, 0, q.DaysInStatus)
	require.NotNil(t, q.Products, "produtos marshals as [] not null")
	require.NotNil(t, q.Attachments, "anexos marshals as [] not null")
}

func TestQuotationDeliveryDate(t *testing.T) {
	now := time.Now()
	deadline := time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)
	q := Quotation{Date: now, StatusEnteredAt: now, LastModifiedAt: now, DeliveryDeadline: &deadline}
	q.ComputeDerived(now)

	require.NotNil(t, q.DeliveryDate)
	require.Equal(t, "2026-04-15", *q.DeliveryDate)

	q.DeliveryDeadline = nil
	q.ComputeDerived(now)
	require.Nil(t, q.DeliveryDate)
}

func TestResearchComputeDerived(t *testing.T) {
	entered := time.Date(2026, 2, 1, 9, 30, 15, 0, time.UTC)
	now := entered.Add(48 * time.Hour)
	r := MarketResearch{
		Date:            time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		StatusEnteredAt: entered,
		LastModifiedAt:  entered,
	}
	r.ComputeDerived(now)

	require.Equal(t, "01/02/2026", r.DateDisplay)
	require.Equal(t, "2026-02-01 09:30:15", r.StatusEnteredShown)
	require.Equal(t, 2, r.DaysInStatus)
	require.NotNil(t, r.Attachments)
}

func TestAttachmentUploadDisplay(t *testing.T) {
	q := Quotation{
		Date: time.Now(), StatusEnteredAt: time.Now(), LastModifiedAt: time.Now(),
		Attachments: []Attachment{
			{Filename: "nota.pdf", UploadedAt: time.Date(2026, 1, 5, 14, 45, 0, 0, time.UTC)},
		},
	}
	q.ComputeDerived(time.Now())
	require.Equal(t, "05/01/2026 14:45", q.Attachments[0].UploadedShown)
}
