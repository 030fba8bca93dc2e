// Package cli implements the fintrade command tree. Each command is a view
// bound to a route; the route guard runs before any command does.
package cli

import (
	"github.com/me/fintrade/internal/logging"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root cobra command for the fintrade CLI.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "fintrade",
		Short: "FinTrade: personal investment tracker",
		Long:  "FinTrade tracks your holdings and BUY/SELL transactions against the FinTrade backend.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.flags.debug {
				a.flags.logLevel = "debug"
			}
			a.logger = logging.New(logging.Options{
				Level:  a.flags.logLevel,
				Format: a.flags.logFormat,
				Writer: cmd.ErrOrStderr(),
			})
			if err := a.open(cmd); err != nil {
				a.close()
				return err
			}
			if err := a.guard(cmd); err != nil {
				a.close()
				return err
			}
			return nil
		},
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.apiURL, "api-url", "", "Backend API URL (or FINTRADE_API_URL env)")
	pf.StringVar(&a.flags.config, "config", "", "Config file (default ~/.fintrade/config.yaml)")
	pf.BoolVar(&a.flags.debug, "debug", false, "Enable debug logging")
	pf.StringVar(&a.flags.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	pf.StringVar(&a.flags.logFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		newLoginCmd(a),
		newRegisterCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newDashboardCmd(a),
		newPortfolioCmd(a),
		newTransactionsCmd(a),
		newAdminCmd(a),
	)

	return root
}
