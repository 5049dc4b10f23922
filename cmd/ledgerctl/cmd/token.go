package cmd

import (
	"github.com/spf13/cobra"
	"github.com/strategy-ledger/internal/service"
)

var tokenCmd = &cobra.Command{
	Use:   "token <client>",
	Short: "Issue a bearer token for a dashboard client",
	Long: `Issue a bearer token signed with the configured jwt.secret.
The server only checks tokens when a secret is configured.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		token, err := service.NewAuthService(cfg.JWT).IssueToken(args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), token)
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
}
