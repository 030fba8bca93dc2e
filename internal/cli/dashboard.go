package cli

import (
	"fmt"

	"github.com/me/fintrade/internal/guard"
	"github.com/me/fintrade/internal/present"
	"github.com/me/fintrade/pkg/model"
	"github.com/spf13/cobra"
)

// dashboardRecent is how many transactions the dashboard lists.
const dashboardRecent = 5

func newDashboardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "dashboard",
		Short:       "Show portfolio summary, holdings and recent activity",
		Annotations: routed(guard.Dashboard),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			w := cmd.OutOrStdout()

			holdings, err := a.client.Portfolio().List(ctx)
			if err != nil {
				return userMessage(err, "Error loading portfolio")
			}
			summary, err := a.client.Portfolio().Summary(ctx)
			if err != nil {
				return userMessage(err, "Error loading portfolio summary")
			}
			recent, err := a.client.Transactions().Recent(ctx, model.RecentOptions{Limit: dashboardRecent})
			if err != nil {
				return userMessage(err, "Error loading recent transactions")
			}

			if sess := a.sessions.Current(); sess != nil {
				fmt.Fprintf(w, "Welcome back, %s!\n\n", sess.DisplayName)
			}
			printSummary(w, summary, len(holdings), a.cfg.Currency)

			fmt.Fprintln(w)
			fmt.Fprintln(w, styleHeading.Render("Holdings"))
			if err := printHoldings(w, holdings, a.cfg.Currency); err != nil {
				return err
			}

			fmt.Fprintln(w)
			fmt.Fprintln(w, styleHeading.Render("Recent Transactions"))
			return printTransactions(w, present.Recent(recent, dashboardRecent), a.cfg.Currency)
		}),
	}
}
