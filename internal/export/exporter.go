// Package export flattens quotations and market research records into xlsx
// workbooks, one row per (record, product) pair.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/agrocoop/quotation-service/internal/database"
	"github.com/agrocoop/quotation-service/internal/telemetry"
	"github.com/agrocoop/quotation-service/internal/workflow"
)

const timestampFormat = "20060102_150405"

// quotationHeader is the fixed column order for quotation exports. The single
// nome_produto column comes from the product row, never from the record;
// fornecedor is overlaid with the product's supplier. Attachment fields are
// never exported.
var quotationHeader = []string{
	"id", "data", "nome_filial", "numero_mesorregiao", "matricula_cooperado",
	"nome_cooperado", "status", "dias_no_status", "analista_comercial",
	"comprador", "data_ultima_modificacao", "observacoes", "forma_pagamento",
	"prazo_entrega", "cultura", "motivo_venda_perdida", "nome_vendedor",
	"valor_total", "fornecedor",
	"produto_sku_produto", "produto_volume", "produto_unidade_medida",
	"produto_preco_unitario", "produto_valor_total", "produto_preco_custo",
	"produto_valor_frete", "produto_prazo_entrega_fornecedor",
	"produto_valor_total_com_frete",
	"nome_produto",
}

// researchHeader is the fixed column order for research exports
var researchHeader = []string{
	"id", "data", "nome_filial", "numero_mesorregiao", "matricula_cooperado",
	"nome_cooperado", "codigo_produto", "quantidade_cotada", "forma_pagamento",
	"nome_concorrente", "valor_concorrente", "valor_cooperativa",
	"analista_comercial", "observacoes", "status", "data_entrada_status",
	"data_ultima_modificacao", "cultura", "nome_vendedor", "comprador",
	"prazo_entrega",
	"nome_produto",
}

// Exporter writes export workbooks under a configured directory
type Exporter struct {
	dir string
}

// New creates an Exporter writing into dir
func New(dir string) *Exporter {
	return &Exporter{dir: dir}
}

// Quotations exports one or more quotations. Each product line item becomes
// one row; a quotation with no products still emits exactly one row with an
// empty nome_produto. Returns the path of the written file.
func (e *Exporter) Quotations(records []*database.Quotation) (string, error) {
	if len(records) == 0 {
		return "", fmt.Errorf("nothing to export")
	}

	now := workflow.Now()
	rows := make([][]any, 0, len(records))
	for _, q := range records {
		q.ComputeDerived(now)
		if len(q.Products) == 0 {
			rows = append(rows, quotationRow(q, nil))
			continue
		}
		for i := range q.Products {
			rows = append(rows, quotationRow(q, &q.Products[i]))
		}
	}

	name := fmt.Sprintf("Cotacoes_Multiplas_%s.xlsx", now.Format(timestampFormat))
	if len(records) == 1 {
		name = fmt.Sprintf("Cotacao_%d_%s.xlsx", records[0].ID, now.Format(timestampFormat))
	}
	path, err := e.write(name, quotationHeader, rows)
	if err == nil {
		telemetry.ExportGenerated("cotacao")
	}
	return path, err
}

// Research exports one or more research records, one row each
func (e *Exporter) Research(records []*database.MarketResearch) (string, error) {
	if len(records) == 0 {
		return "", fmt.Errorf("nothing to export")
	}

	now := workflow.Now()
	rows := make([][]any, 0, len(records))
	for _, r := range records {
		r.ComputeDerived(now)
		rows = append(rows, researchRow(r))
	}

	name := fmt.Sprintf("Pesquisas_Multiplas_%s.xlsx", now.Format(timestampFormat))
	if len(records) == 1 {
		name = fmt.Sprintf("Pesquisa_%d_%s.xlsx", records[0].ID, now.Format(timestampFormat))
	}
	path, err := e.write(name, researchHeader, rows)
	if err == nil {
		telemetry.ExportGenerated("pesquisa")
	}
	return path, err
}

func quotationRow(q *database.Quotation, p *database.Product) []any {
	supplier := q.Supplier
	productName := ""
	var sku, supplierDate any
	var volume, unit any
	var unitPrice, total, cost, freight, totalWithFreight any
	if p != nil {
		supplier = strOrEmpty(p.Supplier)
		productName = p.Name
		sku = strOrEmpty(p.SKU)
		volume = p.Volume
		unit = p.Unit
		unitPrice = floatOrEmpty(p.UnitPrice)
		total = floatOrEmpty(p.Total)
		cost = floatOrEmpty(p.CostPrice)
		freight = floatOrEmpty(p.Freight)
		supplierDate = strOrEmpty(p.SupplierDate)
		totalWithFreight = floatOrEmpty(p.TotalWithFreight)
	}

	return []any{
		q.ID, q.DateDisplay, q.BranchName, q.MesoregionCode, q.MemberCode,
		q.MemberName, q.Status, q.DaysInStatus, strOrEmpty(q.CommercialAnalyst),
		strOrEmpty(q.Buyer), q.LastModified, strOrEmpty(q.Notes),
		strOrEmpty(q.PaymentTerms), strOrEmpty(q.DeliveryDate),
		strOrEmpty(q.Crop), strOrEmpty(q.LostSaleReason), q.Salesperson,
		q.TotalValue, supplier,
		sku, volume, unit, unitPrice, total, cost, freight, supplierDate,
		totalWithFreight,
		productName,
	}
}

func researchRow(r *database.MarketResearch) []any {
	return []any{
		r.ID, r.DateDisplay, r.BranchName, r.MesoregionCode, r.MemberCode,
		r.MemberName, strOrEmpty(r.ProductCode), r.QuotedQuantity,
		r.PaymentTerms, r.CompetitorName, r.CompetitorPrice,
		floatOrEmpty(r.CooperativePrice), strOrEmpty(r.CommercialAnalyst),
		strOrEmpty(r.Notes), r.Status, r.StatusEnteredShown, r.LastModified,
		strOrEmpty(r.Crop), strOrEmpty(r.Salesperson), strOrEmpty(r.Buyer),
		strOrEmpty(r.DeliveryDate),
		r.ProductName,
	}
}

// write builds the workbook and saves it under the export directory,
// creating the directory if absent
func (e *Exporter) write(name string, header []string, rows [][]any) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return "", fmt.Errorf("failed to write header: %w", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return "", fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	path := filepath.Join(e.dir, name)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}
	return path, nil
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func floatOrEmpty(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}
