package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agrocoop/quotation-service/internal/refdata"
)

var refdataCmd = &cobra.Command{
	Use:   "refdata",
	Short: "Verify the reference workbooks",
	Long: `Loads the member account, product catalog, and branch workbooks and
reports row counts. Fails on the first workbook that is missing or has an
unexpected layout.`,
	RunE: runRefdata,
}

func init() {
	rootCmd.AddCommand(refdataCmd)
}

func runRefdata(cmd *cobra.Command, args []string) error {
	if cfg == nil {
		return fmt.Errorf("config not loaded")
	}
	cache := refdata.New(cfg.RefData)

	accounts, err := cache.Accounts()
	if err != nil {
		return fmt.Errorf("accounts workbook: %w", err)
	}
	fmt.Printf("contas: %d linhas (%s)\n", accounts.Len(), cfg.RefData.AccountsPath)

	products, err := cache.Products()
	if err != nil {
		return fmt.Errorf("products workbook: %w", err)
	}
	fmt.Printf("produtos: %d linhas (%s)\n", products.Len(), cfg.RefData.ProductsPath)

	branches, err := cache.Branches()
	if err != nil {
		return fmt.Errorf("branches workbook: %w", err)
	}
	fmt.Printf("filiais: %d opções (%s)\n", len(branches), cfg.RefData.BranchesPath)

	return nil
}
