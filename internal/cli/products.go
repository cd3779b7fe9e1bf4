package cli

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/andy/gstbill/internal/domain"
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Manage the product catalogue",
	Long:  `List, add, update, and delete products with their HSN code, GST rate and price.`,
}

var productsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all products",
	RunE: func(cmd *cobra.Command, args []string) error {
		products, err := appInstance.ProductRepo.List(context.Background())
		if err != nil {
			return fmt.Errorf("failed to list products: %w", err)
		}

		if len(products) == 0 {
			fmt.Println("No products found")
			return nil
		}

		fmt.Printf("%-5s %-30s %-10s %-6s %12s %8s %8s\n", "ID", "Name", "HSN", "GST", "Price", "Stock", "Min")
		fmt.Println("----------------------------------------------------------------------------------------")
		for _, p := range products {
			fmt.Printf("%-5d %-30s %-10s %-6s %12s %8d %8d\n",
				p.ID,
				truncate(p.Name, 30),
				orDash(p.HSNCode),
				p.Rate,
				domain.FormatMoney(p.Price),
				p.StockQuantity,
				p.MinStockLevel,
			)
		}

		fmt.Printf("\nTotal: %d product(s)\n", len(products))
		return nil
	},
}

var productsAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a new product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hsn, _ := cmd.Flags().GetString("hsn")
		rateStr, _ := cmd.Flags().GetString("rate")
		priceStr, _ := cmd.Flags().GetString("price")

		rate, err := domain.ParseTaxRate(rateStr)
		if err != nil {
			return err
		}
		price, err := parsePrice(priceStr)
		if err != nil {
			return err
		}

		p := domain.NewProduct(args[0], hsn, rate, price)
		p.StockQuantity, _ = cmd.Flags().GetInt("stock")
		p.MinStockLevel, _ = cmd.Flags().GetInt("min-stock")

		if err := p.Validate(); err != nil {
			return fmt.Errorf("invalid product: %w", err)
		}
		if err := appInstance.ProductRepo.Create(context.Background(), p); err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}

		fmt.Printf("✓ Product created: %s (ID: %d)\n", p.Name, p.ID)
		fmt.Printf("  Price: %s  GST: %s\n", domain.FormatMoney(p.Price), p.Rate)
		return nil
	},
}

var productsUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Update an existing product",
	Long: `Update an existing product. Invoices already raised keep the name, price
and rate they were billed at.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		id, err := parseID(args[0], "product")
		if err != nil {
			return err
		}

		p, err := appInstance.ProductRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		if flags.Changed("name") {
			p.Name, _ = flags.GetString("name")
		}
		if flags.Changed("hsn") {
			p.HSNCode, _ = flags.GetString("hsn")
		}
		if flags.Changed("rate") {
			s, _ := flags.GetString("rate")
			if p.Rate, err = domain.ParseTaxRate(s); err != nil {
				return err
			}
		}
		if flags.Changed("price") {
			s, _ := flags.GetString("price")
			if p.Price, err = parsePrice(s); err != nil {
				return err
			}
		}
		if flags.Changed("stock") {
			p.StockQuantity, _ = flags.GetInt("stock")
		}
		if flags.Changed("min-stock") {
			p.MinStockLevel, _ = flags.GetInt("min-stock")
		}

		if err := p.Validate(); err != nil {
			return fmt.Errorf("invalid product: %w", err)
		}
		if err := appInstance.ProductRepo.Update(ctx, p); err != nil {
			return fmt.Errorf("failed to update product: %w", err)
		}

		fmt.Printf("✓ Product updated: %s\n", p.Name)
		return nil
	},
}

var productsDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a product that has never been billed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		id, err := parseID(args[0], "product")
		if err != nil {
			return err
		}

		p, err := appInstance.ProductRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := appInstance.ProductRepo.Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete product: %w", err)
		}

		fmt.Printf("✓ Product deleted: %s\n", p.Name)
		return nil
	},
}

func parsePrice(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", domain.ErrInvalidPrice, s)
	}
	return d, nil
}

func init() {
	productsCmd.AddCommand(productsListCmd)
	productsCmd.AddCommand(productsAddCmd)
	productsCmd.AddCommand(productsUpdateCmd)
	productsCmd.AddCommand(productsDeleteCmd)

	productsAddCmd.Flags().String("hsn", "", "HSN/SAC code")
	productsAddCmd.Flags().String("rate", "18", "GST rate: 0, 5, 12, 18 or 28")
	productsAddCmd.Flags().String("price", "", "Unit price before tax (required)")
	productsAddCmd.MarkFlagRequired("price")
	productsAddCmd.Flags().Int("stock", 0, "Units in stock")
	productsAddCmd.Flags().Int("min-stock", 0, "Low stock threshold")

	productsUpdateCmd.Flags().String("name", "", "New name")
	productsUpdateCmd.Flags().String("hsn", "", "New HSN/SAC code")
	productsUpdateCmd.Flags().String("rate", "", "New GST rate")
	productsUpdateCmd.Flags().String("price", "", "New unit price")
	productsUpdateCmd.Flags().Int("stock", 0, "Units in stock")
	productsUpdateCmd.Flags().Int("min-stock", 0, "Low stock threshold")
}
