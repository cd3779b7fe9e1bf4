package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andy/gstbill/internal/domain"
	"github.com/andy/gstbill/internal/service"
)

var inventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Stock overview",
	Long: `Show recorded stock levels and recent movements. Stock counts are
informational and are not changed by billing.`,
}

var inventoryStockCmd = &cobra.Command{
	Use:   "stock",
	Short: "Show every product with its stock status",
	RunE: func(cmd *cobra.Command, args []string) error {
		lines, err := appInstance.InventoryService.Overview(context.Background())
		if err != nil {
			return fmt.Errorf("failed to load stock: %w", err)
		}
		printStock(lines)
		return nil
	},
}

var inventoryLowCmd = &cobra.Command{
	Use:   "low",
	Short: "Show products at or below their minimum stock level",
	RunE: func(cmd *cobra.Command, args []string) error {
		lines, err := appInstance.InventoryService.LowStock(context.Background())
		if err != nil {
			return fmt.Errorf("failed to load stock: %w", err)
		}
		printStock(lines)
		return nil
	},
}

var inventoryMovementsCmd = &cobra.Command{
	Use:   "movements",
	Short: "Show recent sales and purchases, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		moves, err := appInstance.InventoryService.Movements(context.Background(), limit)
		if err != nil {
			return fmt.Errorf("failed to load movements: %w", err)
		}

		if len(moves) == 0 {
			fmt.Println("No movements found")
			return nil
		}

		fmt.Printf("%-12s %-30s %-4s %6s %-20s\n", "Date", "Product", "Dir", "Qty", "Reference")
		fmt.Println("--------------------------------------------------------------------------")
		for _, m := range moves {
			fmt.Printf("%-12s %-30s %-4s %6d %-20s\n",
				m.Date.Format(domain.DateLayout),
				truncate(m.ProductName, 30),
				m.Direction,
				m.Quantity,
				truncate(m.Reference, 20),
			)
		}
		return nil
	},
}

func printStock(lines []service.StockLine) {
	if len(lines) == 0 {
		fmt.Println("No products found")
		return
	}

	fmt.Printf("%-30s %-10s %8s %8s %-10s\n", "Product", "HSN", "Stock", "Min", "Status")
	fmt.Println("----------------------------------------------------------------------")
	for _, l := range lines {
		fmt.Printf("%-30s %-10s %8d %8d %-10s\n",
			truncate(l.Product.Name, 30),
			orDash(l.Product.HSNCode),
			l.Product.StockQuantity,
			l.Product.MinStockLevel,
			l.Status,
		)
	}
	fmt.Printf("\nTotal: %d product(s)\n", len(lines))
}

func init() {
	inventoryCmd.AddCommand(inventoryStockCmd)
	inventoryCmd.AddCommand(inventoryLowCmd)
	inventoryCmd.AddCommand(inventoryMovementsCmd)

	inventoryMovementsCmd.Flags().Int("limit", 20, "Maximum rows, 0 for all")
}
