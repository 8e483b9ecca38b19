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

const researchColumns = `id, data, nome_filial, numero_mesorregiao, matricula_cooperado,
	nome_cooperado, codigo_produto, nome_produto, quantidade_cotada, forma_pagamento,
	nome_concorrente, valor_concorrente, valor_cooperativa, analista_comercial,
	observacoes, status, data_entrada_status, data_ultima_modificacao,
	cultura, nome_vendedor, comprador, prazo_entrega`

// CreateResearch inserts a market research record and fills the
// server-assigned id and timestamps on r.
func (s *Store) CreateResearch(ctx context.Context, r *MarketResearch) error {
	now := workflow.Now()
	r.Date = now
	r.StatusEnteredAt = now
	r.LastModifiedAt = now

	err := s.pool.QueryRow(ctx, `
		INSERT INTO pesquisas_mercado (data, nome_filial, numero_mesorregiao,
			matricula_cooperado, nome_cooperado, codigo_produto, nome_produto,
			quantidade_cotada, forma_pagamento, nome_concorrente, valor_concorrente,
			valor_cooperativa, analista_comercial, observacoes, status,
			data_entrada_status, data_ultima_modificacao, cultura, nome_vendedor,
			comprador, prazo_entrega)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21)
		RETURNING id`,
		r.Date, r.BranchName, r.MesoregionCode, r.MemberCode, r.MemberName,
		r.ProductCode, r.ProductName, r.QuotedQuantity, r.PaymentTerms,
		r.CompetitorName, r.CompetitorPrice, r.CooperativePrice,
		r.CommercialAnalyst, r.Notes, r.Status, r.StatusEnteredAt,
		r.LastModifiedAt, r.Crop, r.Salesperson, r.Buyer, r.DeliveryDeadline,
	).Scan(&r.ID)
	if err != nil {
		return apperrors.NewPersistence("create research", err)
	}
	return nil
}

// GetResearch loads one research record with its attachments
func (s *Store) GetResearch(ctx context.Context, id int64) (*MarketResearch, error) {
	row := s.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM pesquisas_mercado WHERE id = $1`, researchColumns), id)

	r, err := scanResearch(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Pesquisa %d não encontrada", id)
		}
		return nil, apperrors.NewPersistence("get research", err)
	}

	if err := s.attachResearchChildren(ctx, []*MarketResearch{r}); err != nil {
		return nil, err
	}
	return r, nil
}

// ListResearch returns research records whose status is in the given set,
// newest first, with attachments loaded. An empty set returns all.
func (s *Store) ListResearch(ctx context.Context, statuses []string) ([]*MarketResearch, error) {
	query := fmt.Sprintf(`SELECT %s FROM pesquisas_mercado ORDER BY id DESC`, researchColumns)
	args := []any{}
	if len(statuses) > 0 {
		query = fmt.Sprintf(`SELECT %s FROM pesquisas_mercado WHERE status = ANY($1) ORDER BY id DESC`, researchColumns)
		args = append(args, statuses)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewPersistence("list research", err)
	}
	defer rows.Close()

	var records []*MarketResearch
	for rows.Next() {
		r, err := scanResearch(rows)
		if err != nil {
			return nil, apperrors.NewPersistence("list research", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewPersistence("list research", err)
	}

	if err := s.attachResearchChildren(ctx, records); err != nil {
		return nil, err
	}
	return records, nil
}

// UpdateResearch rewrites the research row. The previous status is read under
// a row lock so the status-entry timestamp resets exactly when the status
// value changes.
func (s *Store) UpdateResearch(ctx context.Context, r *MarketResearch) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return apperrors.NewPersistence("update research", err)
	}
	defer tx.Rollback(ctx)

	var oldStatus string
	var oldEntered, date time.Time
	err = tx.QueryRow(ctx,
		`SELECT status, data_entrada_status, data FROM pesquisas_mercado WHERE id = $1 FOR UPDATE`,
		r.ID).Scan(&oldStatus, &oldEntered, &date)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("Pesquisa %d não encontrada", r.ID)
		}
		return apperrors.NewPersistence("update research", err)
	}

	now := workflow.Now()
	r.Date = date
	r.StatusEnteredAt = workflow.StatusEntry(oldStatus, r.Status, oldEntered, now)
	r.LastModifiedAt = now

	_, err = tx.Exec(ctx, `
		UPDATE pesquisas_mercado SET nome_filial = $1, numero_mesorregiao = $2,
			matricula_cooperado = $3, nome_cooperado = $4, codigo_produto = $5,
			nome_produto = $6, quantidade_cotada = $7, forma_pagamento = $8,
			nome_concorrente = $9, valor_concorrente = $10, valor_cooperativa = $11,
			analista_comercial = $12, observacoes = $13, status = $14,
			data_entrada_status = $15, data_ultima_modificacao = $16, cultura = $17,
			nome_vendedor = $18, comprador = $19, prazo_entrega = $20
		WHERE id = $21`,
		r.BranchName, r.MesoregionCode, r.MemberCode, r.MemberName, r.ProductCode,
		r.ProductName, r.QuotedQuantity, r.PaymentTerms, r.CompetitorName,
		r.CompetitorPrice, r.CooperativePrice, r.CommercialAnalyst, r.Notes,
		r.Status, r.StatusEnteredAt, r.LastModifiedAt, r.Crop, r.Salesperson,
		r.Buyer, r.DeliveryDeadline, r.ID)
	if err != nil {
		return apperrors.NewPersistence("update research", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewPersistence("update research", err)
	}
	return nil
}

// SaveResearch creates the record when r.ID is zero and updates it otherwise.
// It reports whether a new record was created.
func (s *Store) SaveResearch(ctx context.Context, r *MarketResearch) (bool, error) {
	if r.ID == 0 {
		return true, s.CreateResearch(ctx, r)
	}
	return false, s.UpdateResearch(ctx, r)
}

// DeleteResearch removes a research record; attachments cascade. It returns
// the stored paths of the deleted attachments for file cleanup.
func (s *Store) DeleteResearch(ctx context.Context, id int64) ([]string, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewPersistence("delete research", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `SELECT filepath FROM anexos WHERE pesquisa_id = $1`, id)
	if err != nil {
		return nil, apperrors.NewPersistence("delete research", err)
	}
	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			rows.Close()
			return nil, apperrors.NewPersistence("delete research", err)
		}
		paths = append(paths, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewPersistence("delete research", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM pesquisas_mercado WHERE id = $1`, id)
	if err != nil {
		return nil, apperrors.NewPersistence("delete research", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, apperrors.NewNotFound("Pesquisa %d não encontrada", id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperrors.NewPersistence("delete research", err)
	}
	return paths, nil
}

func (s *Store) attachResearchChildren(ctx context.Context, records []*MarketResearch) error {
	if len(records) == 0 {
		return nil
	}

	byID := make(map[int64]*MarketResearch, len(records))
	ids := make([]int64, 0, len(records))
	for _, r := range records {
		byID[r.ID] = r
		ids = append(ids, r.ID)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, filename, filepath, data_upload, cotacao_id, pesquisa_id
		 FROM anexos WHERE pesquisa_id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return apperrors.NewPersistence("load research attachments", err)
	}
	defer rows.Close()
	for rows.Next() {
		var a Attachment
		if err := rows.Scan(&a.ID, &a.Filename, &a.StoredPath, &a.UploadedAt, &a.QuotationID, &a.ResearchID); err != nil {
			return apperrors.NewPersistence("load research attachments", err)
		}
		if a.ResearchID != nil {
			if r, ok := byID[*a.ResearchID]; ok {
				r.Attachments = append(r.Attachments, a)
			}
		}
	}
	return rows.Err()
}

func scanResearch(row pgx.Row) (*MarketResearch, error) {
	var r MarketResearch
	err := row.Scan(&r.ID, &r.Date, &r.BranchName, &r.MesoregionCode, &r.MemberCode,
		&r.MemberName, &r.ProductCode, &r.ProductName, &r.QuotedQuantity,
		&r.PaymentTerms, &r.CompetitorName, &r.CompetitorPrice, &r.CooperativePrice,
		&r.CommercialAnalyst, &r.Notes, &r.Status, &r.StatusEnteredAt,
		&r.LastModifiedAt, &r.Crop, &r.Salesperson, &r.Buyer, &r.DeliveryDeadline)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
