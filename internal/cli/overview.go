package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/rogerio-castellano/wabot-dashboard/internal/analytics"
	"github.com/rogerio-castellano/wabot-dashboard/internal/backend"
	"github.com/rogerio-castellano/wabot-dashboard/internal/config"
	"github.com/rogerio-castellano/wabot-dashboard/internal/format"
	"github.com/spf13/cobra"
)

func overviewCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Print headline dashboard figures",
		RunE: func(cmd *cobra.Command, args []string) error {
			if settings.Backend.BaseURL == "" {
				return config.ErrMissingBackendURL
			}
			a, err := newApp(cmd.Context(), settings)
			if err != nil {
				return err
			}
			defer a.Close()

			ds, err := backend.Snapshot(cmd.Context(), a.client)
			if err != nil {
				return err
			}
			stats := analytics.Overview(ds, time.Now().In(a.loc))

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(stats)
			}
			return printOverview(cmd.OutOrStdout(), a.formatter, stats)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON")
	return cmd
}

func printOverview(out io.Writer, f *format.Formatter, s analytics.OverviewStats) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	growth := "n/a"
	if s.RevenueGrowth != nil {
		growth = f.SignedPercent(*s.RevenueGrowth)
	}
	rows := [][2]string{
		{"Users", fmt.Sprintf("%s (%s active)", f.Number(float64(s.TotalUsers)), f.Number(float64(s.ActiveUsers)))},
		{"New users this month", f.Number(float64(s.NewUsersThisMonth))},
		{"Products", fmt.Sprintf("%d (%d low, %d out of stock)", s.TotalProducts, s.LowStockProducts, s.OutOfStockProducts)},
		{"Transactions", fmt.Sprintf("%d (%d completed, %d pending, %d failed)", s.TotalTransactions, s.CompletedTransactions, s.PendingTransactions, s.FailedTransactions)},
		{"Revenue", f.Currency(s.TotalRevenue)},
		{"This month", f.Currency(s.RevenueThisMonth)},
		{"Last month", f.Currency(s.RevenueLastMonth)},
		{"Growth", growth},
		{"Average order", f.Currency(s.AverageOrderValue)},
		{"Conversion", f.Percent(s.ConversionRate)},
	}
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\n", r[0], r[1])
	}
	return tw.Flush()
}
