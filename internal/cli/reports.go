package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/andy/gstbill/internal/domain"
	"github.com/andy/gstbill/internal/export"
)

var reportsCmd = &cobra.Command{
	Use:   "reports [outward|inward|summary]",
	Short: "Generate a GST period report",
	Long: `Generate a period report over [--from, --to], both days inclusive.

  outward   GSTR-1 style, one row per invoice line
  inward    GSTR-2 style, one row per purchase line
  summary   GSTR-3B style, one liability row

The report is printed and written as JSON, CSV and XLSX into the reports
directory. Use --no-files to only print it.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"outward", "inward", "summary"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		kind, err := domain.ParseReportKind(args[0])
		if err != nil {
			return err
		}

		from, to, err := reportRange(cmd)
		if err != nil {
			return err
		}

		noFiles, _ := cmd.Flags().GetBool("no-files")
		var (
			report *domain.PeriodReport
			files  []string
		)
		if noFiles {
			report, err = appInstance.ReportService.Aggregate(ctx, from, to, kind)
		} else {
			report, files, err = appInstance.ReportService.Generate(ctx, from, to, kind)
		}
		if report != nil {
			fmt.Printf("%s  %s to %s\n", kind.ReturnName(), report.From.Format(domain.DateLayout), report.To.Format(domain.DateLayout))
			fmt.Print(export.Text(report.Table()))
		}
		if err != nil {
			return err
		}

		for _, f := range files {
			fmt.Printf("✓ Wrote %s\n", f)
		}
		return nil
	},
}

// reportRange defaults to the current month so far
func reportRange(cmd *cobra.Command) (time.Time, time.Time, error) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	f, err := dateFlag(cmd, "from")
	if err != nil {
		return from, to, err
	}
	if f != nil {
		from = *f
	}
	t, err := dateFlag(cmd, "to")
	if err != nil {
		return from, to, err
	}
	if t != nil {
		to = *t
	}
	return from, to, nil
}

func init() {
	reportsCmd.Flags().String("from", "", "First day (YYYY-MM-DD), default first of this month")
	reportsCmd.Flags().String("to", "", "Last day (YYYY-MM-DD), default today")
	reportsCmd.Flags().Bool("no-files", false, "Print only, do not write report files")
}
