package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/spf13/cobra"
	"github.com/strategy-ledger/internal/config"
	"github.com/strategy-ledger/internal/repository"
	"github.com/strategy-ledger/internal/service"
)

var rootCmd = &cobra.Command{
	Use:   "ledgerctl",
	Short: "Query the strategy ledger from the command line",
	Long: `ledgerctl runs the dashboard's ledger queries directly against the
database and prints the result as JSON.

Examples:
  ledgerctl strategies
  ledgerctl status MeanReversion
  ledgerctl history MeanReversion --lookback 3
  ledgerctl stats MeanReversion --strict
  ledgerctl pnl '*'`,
	SilenceUsage: true,
}

var (
	configPath string
	dbDriver   string
	dbPath     string
	verbose    bool
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "config file; defaults and environment are used if it does not exist")
	rootCmd.PersistentFlags().StringVar(&dbDriver, "driver", "", "override database driver (postgres, mysql, sqlite)")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "override sqlite database path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every SQL statement")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		cfg, err = config.FromEnv(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if dbDriver != "" {
		cfg.Database.Driver = dbDriver
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	return cfg, nil
}

// ledger bundles the services a command needs
type ledger struct {
	store       *repository.Store
	strategy    *service.StrategyService
	performance *service.PerformanceService
	portfolio   *service.PortfolioService
}

func openLedger() (*ledger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	store, err := repository.OpenStore(cfg.Database, verbose)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	strategies := repository.NewStrategyRepository(store)
	trades := repository.NewTradeRepository(store)
	strategySvc := service.NewStrategyService(strategies, trades)
	performanceSvc := service.NewPerformanceService(strategies, trades, nil)

	return &ledger{
		store:       store,
		strategy:    strategySvc,
		performance: performanceSvc,
		portfolio:   service.NewPortfolioService(strategies, strategySvc, performanceSvc),
	}, nil
}

func (l *ledger) Close() error {
	return l.store.Close()
}

// withLedger opens the store around a command body
func withLedger(run func(cmd *cobra.Command, l *ledger, args []string) (interface{}, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		l, err := openLedger()
		if err != nil {
			return err
		}
		defer l.Close()

		out, err := run(cmd, l, args)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), out)
	}
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
