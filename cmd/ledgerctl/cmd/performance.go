package cmd

import (
	"github.com/spf13/cobra"
	"github.com/strategy-ledger/internal/repository"
)

var pnlCmd = &cobra.Command{
	Use:   "pnl [strategy]",
	Short: "Print the daily realized P&L series (portfolio when no strategy is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE: withLedger(func(cmd *cobra.Command, l *ledger, args []string) (interface{}, error) {
		return l.performance.DailyPnL(cmd.Context(), strategyArg(args))
	}),
}

var statsCmd = &cobra.Command{
	Use:   "stats <strategy>",
	Short: "Print performance statistics",
	Args:  cobra.ExactArgs(1),
	RunE: withLedger(func(cmd *cobra.Command, l *ledger, args []string) (interface{}, error) {
		return l.performance.Statistics(cmd.Context(), args[0], strictStats)
	}),
}

var riskCmd = &cobra.Command{
	Use:   "risk [strategy]",
	Short: "Print max drawdown, VaR and expected shortfall (portfolio when no strategy is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE: withLedger(func(cmd *cobra.Command, l *ledger, args []string) (interface{}, error) {
		return l.performance.Risk(cmd.Context(), strategyArg(args))
	}),
}

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Print open exposure of every active strategy",
	Args:  cobra.NoArgs,
	RunE: withLedger(func(cmd *cobra.Command, l *ledger, args []string) (interface{}, error) {
		return l.portfolio.TopOfBook(cmd.Context())
	}),
}

var strictStats bool

func init() {
	rootCmd.AddCommand(pnlCmd, statsCmd, riskCmd, topCmd)

	statsCmd.Flags().BoolVar(&strictStats, "strict", false, "fail instead of reporting undefined ratios as zero")
}

func strategyArg(args []string) string {
	if len(args) == 0 {
		return repository.AllStrategies
	}
	return args[0]
}
