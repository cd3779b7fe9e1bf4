package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/andy/gstbill/internal/domain"
	"github.com/andy/gstbill/internal/service"
)

var purchasesCmd = &cobra.Command{
	Use:   "purchases",
	Short: "Record inward supplies from vendors",
	Long:  `Add, list, and delete purchase lines. Purchases feed the INWARD (GSTR-2) report.`,
}

var purchasesAddCmd = &cobra.Command{
	Use:   "add [bill_number]",
	Short: "Record one purchased line from a vendor bill",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		vendor, _ := flags.GetString("vendor")
		product, _ := flags.GetString("product")
		hsn, _ := flags.GetString("hsn")
		qty, _ := flags.GetInt("qty")
		rateStr, _ := flags.GetString("rate")
		priceStr, _ := flags.GetString("price")

		rate, err := domain.ParseTaxRate(rateStr)
		if err != nil {
			return err
		}
		price, err := parsePrice(priceStr)
		if err != nil {
			return err
		}

		date := time.Now()
		if d, err := dateFlag(cmd, "date"); err != nil {
			return err
		} else if d != nil {
			date = *d
		}

		p, err := appInstance.PurchaseService.Record(context.Background(), service.PurchaseInput{
			BillNumber:  args[0],
			Date:        date,
			VendorName:  vendor,
			ProductName: product,
			HSNCode:     hsn,
			Quantity:    qty,
			UnitPrice:   price,
			Rate:        rate,
		})
		if err != nil {
			return fmt.Errorf("failed to record purchase: %w", err)
		}

		fmt.Printf("✓ Purchase recorded: %s (ID: %d)\n", p.BillNumber, p.ID)
		fmt.Printf("  %d x %s @ %s + %s GST = %s\n",
			p.Quantity, p.ProductName, domain.FormatMoney(p.UnitPrice), p.Rate, domain.FormatMoney(p.LineTotal))
		return nil
	},
}

var purchasesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List purchases",
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := dateFlag(cmd, "from")
		if err != nil {
			return err
		}
		to, err := dateFlag(cmd, "to")
		if err != nil {
			return err
		}

		purchases, err := appInstance.PurchaseService.List(context.Background(), from, to)
		if err != nil {
			return fmt.Errorf("failed to list purchases: %w", err)
		}

		if len(purchases) == 0 {
			fmt.Println("No purchases found")
			return nil
		}

		fmt.Printf("%-5s %-12s %-14s %-20s %-22s %5s %10s %12s\n", "ID", "Date", "Bill", "Vendor", "Product", "Qty", "Tax", "Total")
		fmt.Println("-----------------------------------------------------------------------------------------------------------")
		for _, p := range purchases {
			vendor := fmt.Sprintf("Vendor #%d", p.VendorID)
			if p.Vendor != nil {
				vendor = p.Vendor.Name
			}
			fmt.Printf("%-5d %-12s %-14s %-20s %-22s %5d %10s %12s\n",
				p.ID,
				p.Date.Format(domain.DateLayout),
				truncate(p.BillNumber, 14),
				truncate(vendor, 20),
				truncate(p.ProductName, 22),
				p.Quantity,
				domain.FormatMoney(p.TaxAmount),
				domain.FormatMoney(p.LineTotal),
			)
		}

		fmt.Printf("\nTotal: %d purchase(s)\n", len(purchases))
		return nil
	},
}

var purchasesDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a purchase line",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "purchase")
		if err != nil {
			return err
		}
		if err := appInstance.PurchaseService.Delete(context.Background(), id); err != nil {
			return fmt.Errorf("failed to delete purchase: %w", err)
		}
		fmt.Printf("✓ Purchase %d deleted\n", id)
		return nil
	},
}

func init() {
	purchasesCmd.AddCommand(purchasesAddCmd)
	purchasesCmd.AddCommand(purchasesListCmd)
	purchasesCmd.AddCommand(purchasesDeleteCmd)

	purchasesAddCmd.Flags().String("vendor", "", "Vendor name (required)")
	purchasesAddCmd.MarkFlagRequired("vendor")
	purchasesAddCmd.Flags().String("product", "", "Product description (required)")
	purchasesAddCmd.MarkFlagRequired("product")
	purchasesAddCmd.Flags().String("hsn", "", "HSN/SAC code")
	purchasesAddCmd.Flags().Int("qty", 1, "Quantity")
	purchasesAddCmd.Flags().String("price", "", "Unit price before tax (required)")
	purchasesAddCmd.MarkFlagRequired("price")
	purchasesAddCmd.Flags().String("rate", "18", "GST rate: 0, 5, 12, 18 or 28")
	purchasesAddCmd.Flags().String("date", "", "Bill date (YYYY-MM-DD), default today")

	purchasesListCmd.Flags().String("from", "", "First day (YYYY-MM-DD)")
	purchasesListCmd.Flags().String("to", "", "Last day (YYYY-MM-DD)")
}
