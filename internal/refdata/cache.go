// Package refdata serves lookups over the reference workbooks maintained
// outside the system: the member account list, the product catalog, and the
// branch/mesoregion mapping. Each workbook is parsed once per process and
// memoized; failed loads are not cached so a fixed file is picked up on the
// next call.
package refdata

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/agrocoop/quotation-service/config"
	"github.com/agrocoop/quotation-service/internal/apperrors"
)

// Expected workbook columns
const (
	accountCodeColumn = "Matricula"
	accountNameColumn = "Nome da conta"
	productCodeColumn = "Código do produto"
	productNameColumn = "Nome do produto"
	branchColumn      = "FILIAL"
	mesoregionColumn  = "MESOREGIÃO GEOGRÁFICA"
)

// maxNameMatches caps fuzzy name search results
const maxNameMatches = 10

// Entry is one reference row: a code (membership id or product code) and a
// display name
type Entry struct {
	Code string `json:"codigo"`
	Name string `json:"nome"`
}

// Table is an in-memory reference table preserving workbook row order
type Table struct {
	rows []Entry
}

// Len returns the number of rows in the table
func (t *Table) Len() int { return len(t.rows) }

// FindByCode returns the first row whose code matches exactly
func (t *Table) FindByCode(code string) (Entry, bool) {
	code = strings.TrimSpace(code)
	for _, row := range t.rows {
		if row.Code == code {
			return row, true
		}
	}
	return Entry{}, false
}

// FindByName returns up to maxNameMatches rows whose name contains the query,
// accent- and case-insensitive, in original table order
func (t *Table) FindByName(query string) []Entry {
	matches := []Entry{}
	for _, row := range t.rows {
		if Contains(row.Name, query) {
			matches = append(matches, row)
			if len(matches) == maxNameMatches {
				break
			}
		}
	}
	return matches
}

// BranchOption is one branch with its geographic mesoregion code
type BranchOption struct {
	Branch     string `json:"filial"`
	Mesoregion string `json:"mesorregiao"`
}

// Cache lazily loads and memoizes the reference workbooks. It is safe for
// concurrent use; the mutex only serializes the first load per table.
type Cache struct {
	mu       sync.Mutex
	cfg      config.RefDataConfig
	accounts *Table
	products *Table
	branches []BranchOption
}

// New creates a Cache over the configured workbook paths
func New(cfg config.RefDataConfig) *Cache {
	return &Cache{cfg: cfg}
}

// Accounts returns the member account table, loading it on first use
func (c *Cache) Accounts() (*Table, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.accounts != nil {
		return c.accounts, nil
	}
	t, err := loadTable(c.cfg.AccountsPath, accountCodeColumn, accountNameColumn)
	if err != nil {
		return nil, err
	}
	c.accounts = t
	return t, nil
}

// Products returns the product catalog table, loading it on first use
func (c *Cache) Products() (*Table, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.products != nil {
		return c.products, nil
	}
	t, err := loadTable(c.cfg.ProductsPath, productCodeColumn, productNameColumn)
	if err != nil {
		return nil, err
	}
	c.products = t
	return t, nil
}

// Branches returns the branch/mesoregion options, deduplicated and sorted by
// branch name, loading the workbook on first use
func (c *Cache) Branches() ([]BranchOption, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.branches != nil {
		return c.branches, nil
	}
	t, err := loadTable(c.cfg.BranchesPath, branchColumn, mesoregionColumn)
	if err != nil {
		return nil, err
	}

	seen := make(map[BranchOption]bool)
	options := make([]BranchOption, 0, t.Len())
	for _, row := range t.rows {
		opt := BranchOption{Branch: row.Code, Mesoregion: row.Name}
		if opt.Branch == "" || opt.Mesoregion == "" || seen[opt] {
			continue
		}
		seen[opt] = true
		options = append(options, opt)
	}
	sort.Slice(options, func(i, j int) bool { return options[i].Branch < options[j].Branch })

	c.branches = options
	return options, nil
}

// loadTable reads the first sheet of a workbook into a Table. The header row
// is matched against the two expected columns after trimming; the code column
// is trimmed and stripped of the ".0" artifact left by numeric cells.
func loadTable(path, codeColumn, nameColumn string) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewNotFound("Arquivo %s não encontrado", filepath.Base(path))
		}
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read worksheet: %w", err)
	}
	if len(rows) == 0 {
		return nil, &apperrors.SchemaError{File: filepath.Base(path), Columns: []string{codeColumn, nameColumn}}
	}

	codeIdx, nameIdx := -1, -1
	for i, header := range rows[0] {
		switch strings.TrimSpace(header) {
		case codeColumn:
			codeIdx = i
		case nameColumn:
			nameIdx = i
		}
	}
	if codeIdx < 0 || nameIdx < 0 {
		var missing []string
		if codeIdx < 0 {
			missing = append(missing, codeColumn)
		}
		if nameIdx < 0 {
			missing = append(missing, nameColumn)
		}
		return nil, &apperrors.SchemaError{File: filepath.Base(path), Columns: missing}
	}

	table := &Table{rows: make([]Entry, 0, len(rows)-1)}
	for _, row := range rows[1:] {
		entry := Entry{
			Code: cleanCode(cellAt(row, codeIdx)),
			Name: strings.TrimSpace(cellAt(row, nameIdx)),
		}
		if entry.Code == "" && entry.Name == "" {
			continue
		}
		table.rows = append(table.rows, entry)
	}
	return table, nil
}

func cellAt(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}

// cleanCode trims the cell and drops the trailing ".0" that numeric-typed
// cells pick up when coerced to string
func cleanCode(s string) string {
	return strings.TrimSuffix(strings.TrimSpace(s), ".0")
}
