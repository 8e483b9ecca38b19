package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/agrocoop/quotation-service/internal/apperrors"
	"github.com/agrocoop/quotation-service/internal/workflow"
)

// AddAttachment inserts an attachment for its parent record, enforcing the
// per-record cap. A full parent is not an error: the attachment is dropped
// and false is returned so the caller can remove the already-stored file.
func (s *Store) AddAttachment(ctx context.Context, a *Attachment) (bool, error) {
	if (a.QuotationID == nil) == (a.ResearchID == nil) {
		return false, fmt.Errorf("attachment must reference exactly one parent")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return false, apperrors.NewPersistence("add attachment", err)
	}
	defer tx.Rollback(ctx)

	// Count under the parent's row lock so concurrent uploads cannot
	// overshoot the cap.
	var count int
	if a.QuotationID != nil {
		err = tx.QueryRow(ctx, `
			SELECT count(*) FROM anexos
			WHERE cotacao_id = (SELECT id FROM cotacoes WHERE id = $1 FOR UPDATE)`,
			*a.QuotationID).Scan(&count)
	} else {
		err = tx.QueryRow(ctx, `
			SELECT count(*) FROM anexos
			WHERE pesquisa_id = (SELECT id FROM pesquisas_mercado WHERE id = $1 FOR UPDATE)`,
			*a.ResearchID).Scan(&count)
	}
	if err != nil {
		return false, apperrors.NewPersistence("add attachment", err)
	}
	if count >= MaxAttachments {
		return false, nil
	}

	a.UploadedAt = workflow.Now()
	err = tx.QueryRow(ctx, `
		INSERT INTO anexos (filename, filepath, data_upload, cotacao_id, pesquisa_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		a.Filename, a.StoredPath, a.UploadedAt, a.QuotationID, a.ResearchID,
	).Scan(&a.ID)
	if err != nil {
		return false, apperrors.NewPersistence("add attachment", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, apperrors.NewPersistence("add attachment", err)
	}
	return true, nil
}

// DeleteAttachment removes the attachment row and returns its stored path so
// the caller can delete the file (best effort).
func (s *Store) DeleteAttachment(ctx context.Context, id int64) (string, error) {
	var path string
	err := s.pool.QueryRow(ctx,
		`DELETE FROM anexos WHERE id = $1 RETURNING filepath`, id).Scan(&path)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.NewNotFound("Anexo %d não encontrado", id)
		}
		return "", apperrors.NewPersistence("delete attachment", err)
	}
	return path, nil
}
