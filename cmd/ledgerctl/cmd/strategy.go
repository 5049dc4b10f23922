package cmd

import (
	"github.com/spf13/cobra"
	"github.com/strategy-ledger/internal/repository"
)

var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "List strategies (active only unless --all)",
	Args:  cobra.NoArgs,
	RunE: withLedger(func(cmd *cobra.Command, l *ledger, args []string) (interface{}, error) {
		if listAll {
			return l.strategy.GetInfo(cmd.Context(), repository.AllStrategies)
		}
		return l.portfolio.ActiveStrategies(cmd.Context())
	}),
}

var statusCmd = &cobra.Command{
	Use:   "status <strategy>",
	Short: "Show a strategy's active trades and capital usage",
	Args:  cobra.ExactArgs(1),
	RunE: withLedger(func(cmd *cobra.Command, l *ledger, args []string) (interface{}, error) {
		return l.strategy.GetStatus(cmd.Context(), args[0])
	}),
}

var positionsCmd = &cobra.Command{
	Use:   "positions <strategy>",
	Short: "List open trades with legs, fills and capital usage",
	Args:  cobra.ExactArgs(1),
	RunE: withLedger(func(cmd *cobra.Command, l *ledger, args []string) (interface{}, error) {
		return l.strategy.GetOpenPositions(cmd.Context(), args[0])
	}),
}

var historyCmd = &cobra.Command{
	Use:   "history <strategy>",
	Short: "List closed trades with realized P&L",
	Args:  cobra.ExactArgs(1),
	RunE: withLedger(func(cmd *cobra.Command, l *ledger, args []string) (interface{}, error) {
		return l.strategy.GetHistoricalTrades(cmd.Context(), args[0], lookbackMonths)
	}),
}

var (
	listAll        bool
	lookbackMonths int
)

func init() {
	rootCmd.AddCommand(strategiesCmd, statusCmd, positionsCmd, historyCmd)

	strategiesCmd.Flags().BoolVarP(&listAll, "all", "a", false, "include terminated strategies")
	historyCmd.Flags().IntVarP(&lookbackMonths, "lookback", "l", 0, "only trades opened within this many months (0 = all)")
}
