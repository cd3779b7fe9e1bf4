package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andy/gstbill/internal/domain"
)

var invoicesCmd = &cobra.Command{
	Use:   "invoices",
	Short: "Browse committed invoices",
	Long:  `List, show, and re-render invoices. Use 'gstbill bill' to raise a new one.`,
}

var invoicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List invoices",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		from, err := dateFlag(cmd, "from")
		if err != nil {
			return err
		}
		to, err := dateFlag(cmd, "to")
		if err != nil {
			return err
		}

		invoices, err := appInstance.BillingService.ListInvoices(ctx, from, to)
		if err != nil {
			return fmt.Errorf("failed to list invoices: %w", err)
		}

		if len(invoices) == 0 {
			fmt.Println("No invoices found")
			return nil
		}

		names := map[int64]string{}
		fmt.Printf("%-18s %-12s %-25s %12s %10s %12s %-6s\n", "Number", "Date", "Customer", "Taxable", "Tax", "Total", "Status")
		fmt.Println("---------------------------------------------------------------------------------------------------")
		for _, inv := range invoices {
			name, ok := names[inv.CustomerID]
			if !ok {
				name = fmt.Sprintf("Customer #%d", inv.CustomerID)
				if c, err := appInstance.CustomerRepo.GetByID(ctx, inv.CustomerID); err == nil {
					name = c.Name
				}
				names[inv.CustomerID] = name
			}

			fmt.Printf("%-18s %-12s %-25s %12s %10s %12s %-6s\n",
				inv.InvoiceNumber,
				inv.Date.Format(domain.DateLayout),
				truncate(name, 25),
				domain.FormatMoney(inv.Subtotal),
				domain.FormatMoney(inv.TaxTotal()),
				domain.FormatMoney(inv.GrandTotal),
				inv.Status,
			)
		}

		fmt.Printf("\nTotal: %d invoice(s)\n", len(invoices))
		return nil
	},
}

var invoicesShowCmd = &cobra.Command{
	Use:   "show [number]",
	Short: "Show invoice details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inv, err := appInstance.BillingService.GetInvoice(context.Background(), args[0])
		if err != nil {
			return err
		}
		printInvoice(inv)
		return nil
	},
}

var invoicesRenderCmd = &cobra.Command{
	Use:   "render [number]",
	Short: "Write the PDF for an invoice again",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := appInstance.BillingService.RenderInvoice(context.Background(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("✓ Invoice saved: %s\n", path)
		return nil
	},
}

func init() {
	invoicesCmd.AddCommand(invoicesListCmd)
	invoicesCmd.AddCommand(invoicesShowCmd)
	invoicesCmd.AddCommand(invoicesRenderCmd)

	invoicesListCmd.Flags().String("from", "", "First day (YYYY-MM-DD)")
	invoicesListCmd.Flags().String("to", "", "Last day (YYYY-MM-DD)")
}
