package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/agrocoop/quotation-service/internal/apperrors"
	"github.com/agrocoop/quotation-service/internal/workflow"
)

const quotationColumns = `id, data, nome_filial, numero_mesorregiao, matricula_cooperado,
	nome_cooperado, status, data_entrada_status, analista_comercial, comprador,
	data_ultima_modificacao, observacoes, forma_pagamento, prazo_entrega,
	cultura, motivo_venda_perdida, nome_vendedor`

const productColumns = `id, cotacao_id, sku_produto, nome_produto, volume, unidade_medida,
	preco_unitario, valor_total, fornecedor, preco_custo, valor_frete,
	prazo_entrega_fornecedor, valor_total_com_frete`

// CreateQuotation inserts a quotation with its product line items in one
// transaction and fills the server-assigned ids and timestamps on q.
func (s *Store) CreateQuotation(ctx context.Context, q *Quotation) error {
	now := workflow.Now()
	q.Date = now
	q.StatusEnteredAt = now
	q.LastModifiedAt = now

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return apperrors.NewPersistence("create quotation", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO cotacoes (data, nome_filial, numero_mesorregiao, matricula_cooperado,
			nome_cooperado, status, data_entrada_status, analista_comercial, comprador,
			data_ultima_modificacao, observacoes, forma_pagamento, prazo_entrega,
			cultura, motivo_venda_perdida, nome_vendedor)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id`,
		q.Date, q.BranchName, q.MesoregionCode, q.MemberCode, q.MemberName,
		q.Status, q.StatusEnteredAt, q.CommercialAnalyst, q.Buyer, q.LastModifiedAt,
		q.Notes, q.PaymentTerms, q.DeliveryDeadline, q.Crop, q.LostSaleReason,
		q.Salesperson,
	).Scan(&q.ID)
	if err != nil {
		return apperrors.NewPersistence("create quotation", err)
	}

	if err := insertProducts(ctx, tx, q.ID, q.Products); err != nil {
		return apperrors.NewPersistence("create quotation products", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewPersistence("create quotation", err)
	}
	return nil
}

// GetQuotation loads one quotation with its products and attachments
func (s *Store) GetQuotation(ctx context.Context, id int64) (*Quotation, error) {
	row := s.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM cotacoes WHERE id = $1`, quotationColumns), id)

	q, err := scanQuotation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Cotação %d não encontrada", id)
		}
		return nil, apperrors.NewPersistence("get quotation", err)
	}

	if err := s.attachChildren(ctx, []*Quotation{q}); err != nil {
		return nil, err
	}
	return q, nil
}

// ListQuotations returns quotations whose status is in the given set, newest
// first, with products and attachments loaded. An empty set returns all.
func (s *Store) ListQuotations(ctx context.Context, statuses []string) ([]*Quotation, error) {
	query := fmt.Sprintf(`SELECT %s FROM cotacoes ORDER BY id DESC`, quotationColumns)
	args := []any{}
	if len(statuses) > 0 {
		query = fmt.Sprintf(`SELECT %s FROM cotacoes WHERE status = ANY($1) ORDER BY id DESC`, quotationColumns)
		args = append(args, statuses)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewPersistence("list quotations", err)
	}
	defer rows.Close()

	var quotations []*Quotation
	for rows.Next() {
		q, err := scanQuotation(rows)
		if err != nil {
			return nil, apperrors.NewPersistence("list quotations", err)
		}
		quotations = append(quotations, q)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewPersistence("list quotations", err)
	}

	if err := s.attachChildren(ctx, quotations); err != nil {
		return nil, err
	}
	return quotations, nil
}

// UpdateQuotation rewrites the quotation row and fully replaces its product
// line items. The previous status is read under a row lock so the
// status-entry timestamp resets exactly when the status value changes.
func (s *Store) UpdateQuotation(ctx context.Context, q *Quotation) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return apperrors.NewPersistence("update quotation", err)
	}
	defer tx.Rollback(ctx)

	var oldStatus string
	var oldEntered, date time.Time
	err = tx.QueryRow(ctx,
		`SELECT status, data_entrada_status, data FROM cotacoes WHERE id = $1 FOR UPDATE`,
		q.ID).Scan(&oldStatus, &oldEntered, &date)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("Cotação %d não encontrada", q.ID)
		}
		return apperrors.NewPersistence("update quotation", err)
	}

	now := workflow.Now()
	q.Date = date
	q.StatusEnteredAt = workflow.StatusEntry(oldStatus, q.Status, oldEntered, now)
	q.LastModifiedAt = now

	_, err = tx.Exec(ctx, `
		UPDATE cotacoes SET nome_filial = $1, numero_mesorregiao = $2,
			matricula_cooperado = $3, nome_cooperado = $4, status = $5,
			data_entrada_status = $6, analista_comercial = $7, comprador = $8,
			data_ultima_modificacao = $9, observacoes = $10, forma_pagamento = $11,
			prazo_entrega = $12, cultura = $13, motivo_venda_perdida = $14,
			nome_vendedor = $15
		WHERE id = $16`,
		q.BranchName, q.MesoregionCode, q.MemberCode, q.MemberName, q.Status,
		q.StatusEnteredAt, q.CommercialAnalyst, q.Buyer, q.LastModifiedAt,
		q.Notes, q.PaymentTerms, q.DeliveryDeadline, q.Crop, q.LostSaleReason,
		q.Salesperson, q.ID)
	if err != nil {
		return apperrors.NewPersistence("update quotation", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM produtos_cotacao WHERE cotacao_id = $1`, q.ID); err != nil {
		return apperrors.NewPersistence("replace quotation products", err)
	}
	if err := insertProducts(ctx, tx, q.ID, q.Products); err != nil {
		return apperrors.NewPersistence("replace quotation products", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewPersistence("update quotation", err)
	}
	return nil
}

// DeleteQuotation removes a quotation; products and attachments cascade. It
// returns the stored paths of the deleted attachments so the caller can clean
// up the files.
func (s *Store) DeleteQuotation(ctx context.Context, id int64) ([]string, error) {
	paths, err := s.DeleteQuotations(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// DeleteQuotations bulk-deletes quotations by id, returning the attachment
// paths of every deleted record. Unknown ids are ignored.
func (s *Store) DeleteQuotations(ctx context.Context, ids []int64) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewPersistence("delete quotations", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx,
		`SELECT filepath FROM anexos WHERE cotacao_id = ANY($1)`, ids)
	if err != nil {
		return nil, apperrors.NewPersistence("delete quotations", err)
	}
	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			rows.Close()
			return nil, apperrors.NewPersistence("delete quotations", err)
		}
		paths = append(paths, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewPersistence("delete quotations", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM cotacoes WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, apperrors.NewPersistence("delete quotations", err)
	}
	if tag.RowsAffected() == 0 && len(ids) == 1 {
		return nil, apperrors.NewNotFound("Cotação %d não encontrada", ids[0])
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperrors.NewPersistence("delete quotations", err)
	}
	return paths, nil
}

// attachChildren loads products and attachments for a batch of quotations
func (s *Store) attachChildren(ctx context.Context, quotations []*Quotation) error {
	if len(quotations) == 0 {
		return nil
	}

	byID := make(map[int64]*Quotation, len(quotations))
	ids := make([]int64, 0, len(quotations))
	for _, q := range quotations {
		byID[q.ID] = q
		ids = append(ids, q.ID)
	}

	rows, err := s.pool.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM produtos_cotacao WHERE cotacao_id = ANY($1) ORDER BY id`, productColumns), ids)
	if err != nil {
		return apperrors.NewPersistence("load quotation products", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p Product
		err := rows.Scan(&p.ID, &p.QuotationID, &p.SKU, &p.Name, &p.Volume, &p.Unit,
			&p.UnitPrice, &p.Total, &p.Supplier, &p.CostPrice, &p.Freight,
			&p.SupplierDeadline, &p.TotalWithFreight)
		if err != nil {
			return apperrors.NewPersistence("load quotation products", err)
		}
		if q, ok := byID[p.QuotationID]; ok {
			q.Products = append(q.Products, p)
		}
	}
	if err := rows.Err(); err != nil {
		return apperrors.NewPersistence("load quotation products", err)
	}

	atts, err := s.pool.Query(ctx,
		`SELECT id, filename, filepath, data_upload, cotacao_id, pesquisa_id
		 FROM anexos WHERE cotacao_id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return apperrors.NewPersistence("load quotation attachments", err)
	}
	defer atts.Close()
	for atts.Next() {
		var a Attachment
		if err := atts.Scan(&a.ID, &a.Filename, &a.StoredPath, &a.UploadedAt, &a.QuotationID, &a.ResearchID); err != nil {
			return apperrors.NewPersistence("load quotation attachments", err)
		}
		if a.QuotationID != nil {
			if q, ok := byID[*a.QuotationID]; ok {
				q.Attachments = append(q.Attachments, a)
			}
		}
	}
	return atts.Err()
}

func insertProducts(ctx context.Context, tx pgx.Tx, quotationID int64, products []Product) error {
	for i := range products {
		p := &products[i]
		err := tx.QueryRow(ctx, `
			INSERT INTO produtos_cotacao (cotacao_id, sku_produto, nome_produto, volume,
				unidade_medida, preco_unitario, valor_total, fornecedor, preco_custo,
				valor_frete, prazo_entrega_fornecedor, valor_total_com_frete)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			RETURNING id`,
			quotationID, p.SKU, p.Name, p.Volume, p.Unit, p.UnitPrice, p.Total,
			p.Supplier, p.CostPrice, p.Freight, p.SupplierDeadline, p.TotalWithFreight,
		).Scan(&p.ID)
		if err != nil {
			return err
		}
		p.QuotationID = quotationID
	}
	return nil
}

func scanQuotation(row pgx.Row) (*Quotation, error) {
	var q Quotation
	err := row.Scan(&q.ID, &q.Date, &q.BranchName, &q.MesoregionCode, &q.MemberCode,
		&q.MemberName, &q.Status, &q.StatusEnteredAt, &q.CommercialAnalyst, &q.Buyer,
		&q.LastModifiedAt, &q.Notes, &q.PaymentTerms, &q.DeliveryDeadline,
		&q.Crop, &q.LostSaleReason, &q.Salesperson)
	if err != nil {
		return nil, err
	}
	return &q, nil
}
