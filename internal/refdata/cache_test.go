package refdata

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/agrocoop/quotation-service/config"
	"github.com/agrocoop/quotation-service/internal/apperrors"
)

func writeWorkbook(t *testing.T, path string, rows [][]interface{}) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
}

func testCache(t *testing.T) (*Cache, string) {
	dir := t.TempDir()
	cfg := config.RefDataConfig{
		AccountsPath: filepath.Join(dir, "Contas.xlsx"),
		ProductsPath: filepath.Join(dir, "Produtos.xlsx"),
		BranchesPath: filepath.Join(dir, "Filiais.xlsx"),
	}
	return New(cfg), dir
}

func TestAccountsLookup(t *testing.T) {
	cache, dir := testCache(t)
	writeWorkbook(t, filepath.Join(dir, "Contas.xlsx"), [][]interface{}{
		{"Matricula ", " Nome da conta"},
		{"1001.0", "José da Silva"},
		{"1002", "Maria José Pereira"},
		{"1003", "Fazenda São João Ltda"},
	})

	table, err := cache.Accounts()
	require.NoError(t, err)
	require.Equal(t, 3, table.Len())

	entry, ok := table.FindByCode("1001")
	require.True(t, ok, "code 1001 must resolve after the .0 artifact is stripped")
	require.Equal(t, "José da Silva", entry.Name)

	_, ok = table.FindByCode("9999")
	require.False(t, ok)

	matches := table.FindByName("jose")
	require.Len(t, matches, 2)
	require.Equal(t, "José da Silva", matches[0].Name, "matches keep table order")

	matches = table.FindByName("sao joao")
	require.Len(t, matches, 1)
	require.Equal(t, "1003", matches[0].Code)
}

func TestFindByNameLimit(t *testing.T) {
	cache, dir := testCache(t)
	rows := [][]interface{}{{"Código do produto", "Nome do produto"}}
	for i := 0; i < 25; i++ {
		rows = append(rows, []interface{}{i + 1, "Adubo Orgânico Premium"})
	}
	writeWorkbook(t, filepath.Join(dir, "Produtos.xlsx"), rows)

	table, err := cache.Products()
	require.NoError(t, err)
	require.Len(t, table.FindByName("adubo"), 10, "name search is capped at 10 results")
}

func TestMissingWorkbook(t *testing.T) {
	cache, _ := testCache(t)
	_, err := cache.Accounts()
	require.Error(t, err)
	var nf *apperrors.NotFoundError
	require.True(t, errors.As(err, &nf))
	require.Contains(t, nf.Message, "Contas.xlsx")
}

func TestSchemaError(t *testing.T) {
	cache, dir := testCache(t)
	writeWorkbook(t, filepath.Join(dir, "Produtos.xlsx"), [][]interface{}{
		{"Codigo", "Descricao"},
		{"1", "Ureia"},
	})

	_, err := cache.Products()
	require.Error(t, err)
	var se *apperrors.SchemaError
	require.True(t, errors.As(err, &se))
	require.Contains(t, se.Error(), "Código do produto")
	require.Contains(t, se.Error(), "Nome do produto")
	require.Contains(t, se.Error(), "Produtos.xlsx")
}

func TestLoadedOnce(t *testing.T) {
	cache, dir := testCache(t)
	path := filepath.Join(dir, "Contas.xlsx")
	writeWorkbook(t, path, [][]interface{}{
		{"Matricula", "Nome da conta"},
		{"1", "Primeiro"},
	})

	first, err := cache.Accounts()
	require.NoError(t, err)

	// Rewrite the workbook; the memoized table must still be served.
	writeWorkbook(t, path, [][]interface{}{
		{"Matricula", "Nome da conta"},
		{"2", "Segundo"},
	})

	again, err := cache.Accounts()
	require.NoError(t, err)
	require.Same(t, first, again)
	_, ok := again.FindByCode("1")
	require.True(t, ok)
}

func TestFailedLoadIsRetried(t *testing.T) {
	cache, dir := testCache(t)
	path := filepath.Join(dir, "Produtos.xlsx")

	_, err := cache.Products()
	require.True(t, apperrors.IsNotFound(err))

	writeWorkbook(t, path, [][]interface{}{
		{"Código do produto", "Nome do produto"},
		{"10", "Calcário"},
	})

	table, err := cache.Products()
	require.NoError(t, err)
	_, ok := table.FindByCode("10")
	require.True(t, ok)
}

func TestBranches(t *testing.T) {
	cache, dir := testCache(t)
	writeWorkbook(t, filepath.Join(dir, "Filiais.xlsx"), [][]interface{}{
		{"FILIAL", "MESOREGIÃO GEOGRÁFICA"},
		{"Guaxupé", "Sul de Minas"},
		{"Alfenas", "Sul de Minas"},
		{"Guaxupé", "Sul de Minas"}, // duplicate dropped
		{"", "Sem filial"},          // incomplete dropped
	})

	options, err := cache.Branches()
	require.NoError(t, err)
	require.Len(t, options, 2)
	require.Equal(t, "Alfenas", options[0].Branch, "options are sorted by branch")
	require.Equal(t, "Guaxupé", options[1].Branch)
}
