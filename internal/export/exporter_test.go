package export

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/agrocoop/quotation-service/internal/database"
)

func readSheet(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	return rows
}

func supplier(s string) *string { return &s }

func money(v float64) *float64 { return &v }

func baseQuotation(id int64, products []database.Product) *database.Quotation {
	now := time.Now()
	return &database.Quotation{
		ID:              id,
		Date:            now,
		StatusEnteredAt: now,
		LastModifiedAt:  now,
		BranchName:      "Guaxupé",
		MesoregionCode:  "3105",
		MemberCode:      "1001",
		MemberName:      "José da Silva",
		Status:          "Análise Comercial",
		Salesperson:     "Carlos",
		Products:        products,
	}
}

func TestQuotationExportOneRowPerProduct(t *testing.T) {
	e := New(t.TempDir())
	q := baseQuotation(7, []database.Product{
		{Name: "Adubo", Volume: 100, Unit: "Kg/l", Supplier: supplier("Fornecedor A"), TotalWithFreight: money(500)},
		{Name: "Calcário", Volume: 50, Unit: "TN", Supplier: supplier("Fornecedor B")},
		{Name: "Ureia", Volume: 10, Unit: "Kg/l"},
	})

	path, err := e.Quotations([]*database.Quotation{q})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(filepath.Base(path), "Cotacao_7_"))

	rows := readSheet(t, path)
	require.Len(t, rows, 4, "header plus one row per product")

	header := rows[0]
	require.Equal(t, "nome_produto", header[len(header)-1], "the product name column is single and last")
	require.Equal(t, 1, strings.Count(strings.Join(header, ","), "nome_produto"))
	require.NotContains(t, header, "anexos")

	nameIdx := len(header) - 1
	require.Equal(t, "Adubo", rows[1][nameIdx])
	require.Equal(t, "Calcário", rows[2][nameIdx])
	require.Equal(t, "Ureia", rows[3][nameIdx])

	supplierIdx := indexOf(t, header, "fornecedor")
	require.Equal(t, "Fornecedor A", rows[1][supplierIdx], "fornecedor is overlaid per product")
	require.Equal(t, "Fornecedor B", rows[2][supplierIdx])
}

func TestQuotationExportZeroProductsEmitsOneRow(t *testing.T) {
	e := New(t.TempDir())
	q := baseQuotation(9, nil)

	path, err := e.Quotations([]*database.Quotation{q})
	require.NoError(t, err)

	rows := readSheet(t, path)
	require.Len(t, rows, 2, "a productless quotation still exports one row")

	header := rows[0]
	nameIdx := len(header) - 1
	row := rows[1]
	if nameIdx < len(row) {
		require.Empty(t, row[nameIdx])
	}
}

func TestMultipleQuotationsFilename(t *testing.T) {
	e := New(t.TempDir())
	records := []*database.Quotation{baseQuotation(1, nil), baseQuotation(2, nil)}

	path, err := e.Quotations(records)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(filepath.Base(path), "Cotacoes_Multiplas_"))

	rows := readSheet(t, path)
	require.Len(t, rows, 3)
}

func TestResearchExport(t *testing.T) {
	e := New(t.TempDir())
	now := time.Now()
	r := &database.MarketResearch{
		ID:              3,
		Date:            now,
		StatusEnteredAt: now,
		LastModifiedAt:  now,
		BranchName:      "Alfenas",
		MesoregionCode:  "3105",
		MemberCode:      "1002",
		MemberName:      "Maria",
		ProductName:     "Ureia",
		QuotedQuantity:  10,
		PaymentTerms:    "30 dias",
		CompetitorName:  "Concorrente A",
		CompetitorPrice: 99.9,
		Status:          "Análise Comercial",
	}

	path, err := e.Research([]*database.MarketResearch{r})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(filepath.Base(path), "Pesquisa_3_"))

	rows := readSheet(t, path)
	require.Len(t, rows, 2, "one row per research record")

	header := rows[0]
	require.Equal(t, "nome_produto", header[len(header)-1])
	require.Equal(t, "Ureia", rows[1][len(header)-1])
}

func TestEmptyExportRejected(t *testing.T) {
	e := New(t.TempDir())
	_, err := e.Quotations(nil)
	require.Error(t, err)
	_, err = e.Research(nil)
	require.Error(t, err)
}

func indexOf(t *testing.T, header []string, name string) int {
	t.Helper()
	for i, h := range header {
		if h == name {
			return i
		}
	}
	t.Fatalf("column %q not found", name)
	return -1
}
