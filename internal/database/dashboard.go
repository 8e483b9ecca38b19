package database

import (
	"context"

	"github.com/agrocoop/quotation-service/internal/apperrors"
	"github.com/agrocoop/quotation-service/internal/workflow"
)

// DashboardStats carries the counters shown on the dashboard cards
type DashboardStats struct {
	InProgress        int `json:"andamento"`
	Research          int `json:"pesquisas"`
	Released          int `json:"finalizadas"`
	ResearchReleased  int `json:"pesquisas_finalizadas"`
	Lost              int `json:"perdidas"`
}

// DashboardStats counts quotations and research records per workflow bucket
func (s *Store) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	err := s.pool.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM cotacoes WHERE status = ANY($1)),
			(SELECT count(*) FROM pesquisas_mercado WHERE status = $2),
			(SELECT count(*) FROM cotacoes WHERE status = $3),
			(SELECT count(*) FROM pesquisas_mercado WHERE status = $3),
			(SELECT count(*) FROM cotacoes WHERE status = $4)`,
		[]string{workflow.StatusCommercialAnalysis, workflow.StatusSupplyAnalysis},
		workflow.StatusCommercialAnalysis,
		workflow.StatusReleasedForSale,
		workflow.StatusLostQuotation,
	).Scan(&stats.InProgress, &stats.Research, &stats.Released, &stats.ResearchReleased, &stats.Lost)
	if err != nil {
		return nil, apperrors.NewPersistence("dashboard stats", err)
	}
	return &stats, nil
}
