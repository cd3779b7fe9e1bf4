package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andy/gstbill/internal/domain"
	"github.com/andy/gstbill/internal/service"
)

var billCmd = &cobra.Command{
	Use:   "bill",
	Short: "Raise a tax invoice",
	Long: `Raise a tax invoice for a customer in one step.

Examples:
  gstbill bill --customer Acme --item Widget:3 --item "USB Cable:2"
  gstbill bill --customer Acme --item Widget:1 --date 2026-04-01 --number INV-2026-00100`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		customer, _ := cmd.Flags().GetString("customer")
		items, _ := cmd.Flags().GetStringArray("item")
		number, _ := cmd.Flags().GetString("number")

		opts := service.AssembleOptions{Number: number}
		if d, err := dateFlag(cmd, "date"); err != nil {
			return err
		} else if d != nil {
			opts.Date = *d
		}

		billing := appInstance.BillingService
		session := service.NewSession()
		if err := billing.SelectCustomer(ctx, session, customer); err != nil {
			return err
		}

		for _, raw := range items {
			name, qty, err := parseItem(raw)
			if err != nil {
				return err
			}
			if _, err := billing.AddItem(ctx, session, name, qty); err != nil {
				return fmt.Errorf("item %q: %w", raw, err)
			}
		}

		receipt, err := billing.Assemble(ctx, session, opts)
		if err != nil {
			return fmt.Errorf("failed to raise invoice: %w", err)
		}

		printInvoice(receipt.Invoice)
		if receipt.Warning != nil {
			fmt.Printf("\n! %v\n", receipt.Warning)
		} else if receipt.DocumentPath != "" {
			fmt.Printf("\n✓ Invoice saved: %s\n", receipt.DocumentPath)
		}
		return nil
	},
}

// parseItem splits "name:qty" at the last colon so product names may
// contain colons.
func parseItem(s string) (string, int, error) {
	i := strings.LastIndex(s, ":")
	if i <= 0 {
		return "", 0, errors.New("item must be given as name:quantity")
	}
	qty, err := strconv.Atoi(strings.TrimSpace(s[i+1:]))
	if err != nil {
		return "", 0, fmt.Errorf("%w: %q", domain.ErrInvalidQuantity, s[i+1:])
	}
	return strings.TrimSpace(s[:i]), qty, nil
}

func printInvoice(inv *domain.Invoice) {
	customer := fmt.Sprintf("Customer #%d", inv.CustomerID)
	gstin := ""
	if inv.Customer != nil {
		customer, gstin = inv.Customer.Name, inv.Customer.GSTIN
	}

	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("Invoice: %s\n", inv.InvoiceNumber)
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("Customer: %s\n", customer)
	if gstin != "" {
		fmt.Printf("GSTIN: %s\n", gstin)
	}
	fmt.Printf("Date: %s\n", inv.Date.Format(domain.DateLayout))
	fmt.Printf("Status: %s\n", inv.Status)
	fmt.Println()

	fmt.Println(strings.Repeat("-", 80))
	fmt.Printf("%-28s %-8s %5s %11s %5s %9s %11s\n", "Product", "HSN", "Qty", "Price", "GST", "Tax", "Total")
	fmt.Println(strings.Repeat("-", 80))
	for _, it := range inv.LineItems {
		fmt.Printf("%-28s %-8s %5d %11s %5s %9s %11s\n",
			truncate(it.ProductName, 28),
			orDash(it.HSNCode),
			it.Quantity,
			domain.FormatMoney(it.UnitPrice),
			it.Rate,
			domain.FormatMoney(it.TaxAmount),
			domain.FormatMoney(it.LineTotal),
		)
	}
	fmt.Println(strings.Repeat("-", 80))

	fmt.Printf("Subtotal:    %12s\n", domain.FormatMoney(inv.Subtotal))
	fmt.Printf("CGST:        %12s\n", domain.FormatMoney(inv.CGST))
	fmt.Printf("SGST:        %12s\n", domain.FormatMoney(inv.SGST))
	fmt.Printf("Grand total: %12s\n", domain.FormatMoney(inv.GrandTotal))
	fmt.Println(strings.Repeat("=", 80))
}

func init() {
	billCmd.Flags().String("customer", "", "Customer name (required)")
	billCmd.MarkFlagRequired("customer")
	billCmd.Flags().StringArray("item", nil, "Line as product:quantity, repeatable (required)")
	billCmd.MarkFlagRequired("item")
	billCmd.Flags().String("date", "", "Invoice date (YYYY-MM-DD), default today")
	billCmd.Flags().String("number", "", "Explicit invoice number instead of the next in sequence")
}
