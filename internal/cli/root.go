package cli

import (
	"github.com/andy/gstbill/internal/app"
	"github.com/spf13/cobra"
)

var appInstance *app.App

var rootCmd = &cobra.Command{
	Use:   "gstbill",
	Short: "GST billing and return reports for small businesses",
	Long: `gstbill keeps customers, vendors and products, raises tax invoices with
CGST/SGST split, records purchases and produces GSTR-1, GSTR-2 and GSTR-3B
style period reports.

By default, running gstbill without arguments launches the interactive TUI.
Use subcommands for CLI operations.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return launchTUI(cmd, args)
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetApp sets the app instance for commands to use
func SetApp(a *app.App) {
	appInstance = a
}

func init() {
	rootCmd.AddCommand(newPartyCmd(false))
	rootCmd.AddCommand(newPartyCmd(true))
	rootCmd.AddCommand(productsCmd)
	rootCmd.AddCommand(billCmd)
	rootCmd.AddCommand(invoicesCmd)
	rootCmd.AddCommand(purchasesCmd)
	rootCmd.AddCommand(reportsCmd)
	rootCmd.AddCommand(inventoryCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(tuiCmd)
}
