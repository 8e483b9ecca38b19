package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agrocoop/quotation-service/internal/database"
	"github.com/agrocoop/quotation-service/internal/export"
	"github.com/agrocoop/quotation-service/internal/workflow"
)

var (
	exportIDs  []int64
	exportKind string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export quotations or market research to an xlsx workbook",
	Long: `Writes an xlsx workbook for the given record ids into the configured
export directory. With no --ids every record of the selected kind is
exported.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().Int64SliceVar(&exportIDs, "ids", nil, "record ids to export (default: all)")
	exportCmd.Flags().StringVar(&exportKind, "tipo", "cotacao", "record kind: cotacao or pesquisa")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	defer database.Close()

	ctx := context.Background()
	store := database.NewStore(database.Pool())
	exporter := export.New(cfg.Export.Dir)

	var path string
	switch exportKind {
	case "cotacao":
		records, err := collectQuotations(ctx, store)
		if err != nil {
			return err
		}
		path, err = exporter.Quotations(records)
		if err != nil {
			return err
		}
	case "pesquisa":
		records, err := collectResearch(ctx, store)
		if err != nil {
			return err
		}
		path, err = exporter.Research(records)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown --tipo %q (want cotacao or pesquisa)", exportKind)
	}

	logger.Info().Str("path", path).Msg("Workbook written")
	fmt.Println(path)
	return nil
}

func collectQuotations(ctx context.Context, store *database.Store) ([]*database.Quotation, error) {
	if len(exportIDs) == 0 {
		return store.ListQuotations(ctx, workflow.QuotationStatuses)
	}
	records := make([]*database.Quotation, 0, len(exportIDs))
	for _, id := range exportIDs {
		q, err := store.GetQuotation(ctx, id)
		if err != nil {
			return nil, err
		}
		records = append(records, q)
	}
	return records, nil
}

func collectResearch(ctx context.Context, store *database.Store) ([]*database.MarketResearch, error) {
	if len(exportIDs) == 0 {
		return store.ListResearch(ctx, workflow.ResearchStatuses)
	}
	records := make([]*database.MarketResearch, 0, len(exportIDs))
	for _, id := range exportIDs {
		r, err := store.GetResearch(ctx, id)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}
