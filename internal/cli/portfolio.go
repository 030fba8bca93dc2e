package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/me/fintrade/internal/api"
	"github.com/me/fintrade/internal/guard"
	"github.com/me/fintrade/internal/present"
	"github.com/me/fintrade/internal/validate"
	"github.com/me/fintrade/pkg/model"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newPortfolioCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "portfolio",
		Aliases:     []string{"pf"},
		Short:       "Manage your holdings",
		Annotations: routed(guard.Portfolio),
	}
	cmd.AddCommand(
		newPortfolioListCmd(a),
		newPortfolioSummaryCmd(a),
		newPortfolioAddCmd(a),
		newPortfolioRemoveCmd(a),
		newPortfolioUpdateCmd(a),
		newPortfolioDeleteCmd(a),
	)
	return cmd
}

func newPortfolioListCmd(a *app) *cobra.Command {
	var search, symbol string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List holdings",
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			var items []model.Portfolio
			var err error
			if symbol != "" {
				items, err = a.client.Portfolio().Search(cmd.Context(), symbol)
			} else {
				items, err = a.client.Portfolio().List(cmd.Context())
			}
			if err != nil {
				return userMessage(err, "Error loading portfolio")
			}
			return printHoldings(cmd.OutOrStdout(), present.FilterPortfolio(items, search), a.cfg.Currency)
		}),
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Only show holdings whose symbol or company contains this text")
	cmd.Flags().StringVar(&symbol, "symbol", "", "Ask the backend for holdings matching this symbol")
	return cmd
}

func newPortfolioSummaryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show total value and profit/loss",
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			holdings, err := a.client.Portfolio().List(cmd.Context())
			if err != nil {
				return userMessage(err, "Error loading portfolio")
			}
			summary, err := a.client.Portfolio().Summary(cmd.Context())
			if err != nil {
				return userMessage(err, "Error loading portfolio summary")
			}
			printSummary(cmd.OutOrStdout(), summary, len(holdings), a.cfg.Currency)
			return nil
		}),
	}
}

func newPortfolioAddCmd(a *app) *cobra.Command {
	var symbol, company, quantity, price string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Buy into a holding",
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			var errs []model.FieldError
			req := model.AddToPortfolioRequest{
				Symbol:      strings.ToUpper(strings.TrimSpace(symbol)),
				CompanyName: strings.TrimSpace(company),
				Quantity:    parseAmount(&errs, "quantity", quantity),
				Price:       parseAmount(&errs, "price", price),
			}
			if err := model.NewValidationError(errs...); err != nil {
				return reportInvalid(cmd, err)
			}
			if err := validate.AddToPortfolio(req); err != nil {
				return reportInvalid(cmd, err)
			}

			p, err := a.client.Portfolio().Add(cmd.Context(), req)
			if err != nil {
				return userMessage(err, "Error adding to portfolio")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s shares @ %s avg\n",
				styleSuccess.Render("Added"), p.Symbol, present.Quantity(p.Quantity), present.Currency(p.AveragePrice, a.cfg.Currency))
			return nil
		}),
	}

	f := cmd.Flags()
	f.StringVar(&symbol, "symbol", "", "Ticker symbol")
	f.StringVar(&company, "company", "", "Company name")
	f.StringVar(&quantity, "quantity", "", "Number of shares")
	f.StringVar(&price, "price", "", "Price per share")
	return cmd
}

func newPortfolioRemoveCmd(a *app) *cobra.Command {
	var symbol, quantity string

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Sell shares out of a holding",
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var errs []model.FieldError
			req := model.RemoveFromPortfolioRequest{
				Symbol:   strings.ToUpper(strings.TrimSpace(symbol)),
				Quantity: parseAmount(&errs, "quantity", quantity),
			}
			if err := model.NewValidationError(errs...); err != nil {
				return reportInvalid(cmd, err)
			}

			holdings, err := a.client.Portfolio().List(ctx)
			if err != nil {
				return userMessage(err, "Error loading portfolio")
			}
			held := findHolding(holdings, req.Symbol)
			if held == nil && req.Symbol != "" {
				return fmt.Errorf("no holding for %s", req.Symbol)
			}
			available := decimal.Zero
			if held != nil {
				available = held.Quantity
			}
			if err := validate.RemoveFromPortfolio(req, available); err != nil {
				return reportInvalid(cmd, err)
			}

			res, err := a.client.Portfolio().Remove(ctx, req)
			if err != nil {
				return userMessage(err, "Error removing from portfolio")
			}
			printRemoveResult(cmd.OutOrStdout(), req.Symbol, res)
			return nil
		}),
	}

	cmd.Flags().StringVar(&symbol, "symbol", "", "Ticker symbol")
	cmd.Flags().StringVar(&quantity, "quantity", "", "Number of shares to sell")
	return cmd
}

func printRemoveResult(w io.Writer, symbol string, res *api.RemoveResult) {
	if res.Holding == nil {
		msg := res.Message
		if msg == "" {
			msg = "Holding closed"
		}
		fmt.Fprintf(w, "%s: %s\n", symbol, msg)
		return
	}
	fmt.Fprintf(w, "%s: %s shares remaining\n", res.Holding.Symbol, present.Quantity(res.Holding.Quantity))
}

func findHolding(items []model.Portfolio, symbol string) *model.Portfolio {
	for i := range items {
		if items[i].Symbol == symbol {
			return &items[i]
		}
	}
	return nil
}

func findHoldingByID(items []model.Portfolio, id int64) *model.Portfolio {
	for i := range items {
		if items[i].ID == id {
			return &items[i]
		}
	}
	return nil
}

func newPortfolioUpdateCmd(a *app) *cobra.Command {
	var company, quantity, avgPrice, curPrice string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Correct a holding",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			holdings, err := a.client.Portfolio().List(ctx)
			if err != nil {
				return userMessage(err, "Error loading portfolio")
			}
			p := findHoldingByID(holdings, id)
			if p == nil {
				return fmt.Errorf("holding %d not found", id)
			}

			var errs []model.FieldError
			if cmd.Flags().Changed("company") {
				p.CompanyName = strings.TrimSpace(company)
			}
			if cmd.Flags().Changed("quantity") {
				p.Quantity = parseAmount(&errs, "quantity", quantity)
			}
			if cmd.Flags().Changed("average-price") {
				p.AveragePrice = parseAmount(&errs, "averagePrice", avgPrice)
			}
			if cmd.Flags().Changed("current-price") {
				p.CurrentPrice = parseAmount(&errs, "currentPrice", curPrice)
			}
			var v validate.Errors = errs
			v.Add("companyName", validate.Required("Company name", p.CompanyName))
			v.Add("quantity", validate.Quantity(p.Quantity))
			v.Add("averagePrice", validate.Price(p.AveragePrice))
			if err := v.Err(); err != nil {
				return reportInvalid(cmd, err)
			}

			updated, err := a.client.Portfolio().Update(ctx, id, *p)
			if err != nil {
				return userMessage(err, "Error updating holding")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s: %s shares @ %s avg\n",
				updated.Symbol, present.Quantity(updated.Quantity), present.Currency(updated.AveragePrice, a.cfg.Currency))
			return nil
		}),
	}

	f := cmd.Flags()
	f.StringVar(&company, "company", "", "Company name")
	f.StringVar(&quantity, "quantity", "", "Number of shares")
	f.StringVar(&avgPrice, "average-price", "", "Average purchase price")
	f.StringVar(&curPrice, "current-price", "", "Current market price")
	return cmd
}

func newPortfolioDeleteCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a holding",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ok, err := confirm(cmd, "Are you sure you want to delete holding "+strconv.FormatInt(id, 10)+"?", yes)
			if err != nil || !ok {
				return err
			}
			resp, err := a.client.Portfolio().Delete(cmd.Context(), id)
			if err != nil {
				return userMessage(err, "Error deleting holding")
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
			return nil
		}),
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func printSummary(w io.Writer, s *model.PortfolioSummary, positions int, currency string) {
	ret := present.TotalReturnPercentage(s)
	fmt.Fprintf(w, "Total Value:        %s\n", present.Currency(s.TotalValue, currency))
	fmt.Fprintf(w, "Total Gain/Loss:    %s\n", signed(s.TotalProfitLoss, present.SignedCurrency(s.TotalProfitLoss, currency)))
	fmt.Fprintf(w, "Total Return:       %s\n", signed(ret, present.Percent(ret)))
	fmt.Fprintf(w, "Positions:          %d\n", positions)
}

func printHoldings(w io.Writer, items []model.Portfolio, currency string) error {
	if len(items) == 0 {
		fmt.Fprintln(w, "No holdings found.")
		return nil
	}
	t := newTable(w, "ID", "SYMBOL", "COMPANY", "QTY", "AVG PRICE", "PRICE", "VALUE", "GAIN/LOSS", "%")
	for _, p := range items {
		t.row(
			strconv.FormatInt(p.ID, 10),
			p.Symbol,
			p.CompanyName,
			present.Quantity(p.Quantity),
			present.Currency(p.AveragePrice, currency),
			present.Currency(p.CurrentPrice, currency),
			present.Currency(p.TotalValue, currency),
			signed(p.ProfitLoss, present.SignedCurrency(p.ProfitLoss, currency)),
			signed(p.ProfitLossPercentage, present.Percent(p.ProfitLossPercentage)),
		)
	}
	return t.flush()
}
