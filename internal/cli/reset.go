package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andy/gstbill/internal/app"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset data in the database",
	Long: `Reset data in the database.

Examples:
  gstbill reset transactions   # Delete all invoices and purchases
  gstbill reset all            # Wipe everything: invoices, purchases, products, customers, vendors`,
}

var resetTransactionsCmd = &cobra.Command{
	Use:   "transactions",
	Short: "Delete all invoices and purchases, keeping parties and products",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirmPrompt("This will delete ALL invoices and purchases. Continue?") {
			fmt.Println("Cancelled.")
			return nil
		}
		if err := appInstance.Reset(context.Background(), app.TransactionTables); err != nil {
			return err
		}
		fmt.Println("All invoices and purchases have been deleted.")
		return nil
	},
}

var resetAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Delete ALL data: invoices, purchases, products, customers, vendors",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirmPrompt("This will delete ALL data (invoices, purchases, products, customers, vendors). Continue?") {
			fmt.Println("Cancelled.")
			return nil
		}
		if err := appInstance.Reset(context.Background(), app.AllTables); err != nil {
			return err
		}
		fmt.Println("All data has been deleted.")
		return nil
	},
}

func confirmPrompt(message string) bool {
	fmt.Printf("%s [y/N] ", message)
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func init() {
	resetCmd.AddCommand(resetTransactionsCmd)
	resetCmd.AddCommand(resetAllCmd)
}
