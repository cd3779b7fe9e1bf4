package cli

import (
	"github.com/spf13/cobra"

	"github.com/andy/gstbill/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the terminal UI",
	Long:  `Launch the interactive billing counter: pick a customer, add products and commit invoices.`,
	RunE:  launchTUI,
}

func launchTUI(cmd *cobra.Command, args []string) error {
	return tui.Run(appInstance)
}
