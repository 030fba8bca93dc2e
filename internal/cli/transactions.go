package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/me/fintrade/internal/guard"
	"github.com/me/fintrade/internal/present"
	"github.com/me/fintrade/internal/validate"
	"github.com/me/fintrade/pkg/model"
	"github.com/spf13/cobra"
)

func newTransactionsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "transactions",
		Aliases:     []string{"tx"},
		Short:       "Record and review BUY/SELL transactions",
		Annotations: routed(guard.Transactions),
	}
	cmd.AddCommand(
		newTxListCmd(a),
		newTxRecentCmd(a),
		newTxShowCmd(a),
		newTxCreateCmd(a),
		newTxUpdateCmd(a),
		newTxDeleteCmd(a),
	)
	return cmd
}

func newTxListCmd(a *app) *cobra.Command {
	var search, symbol, typ, from, to string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, optionally filtered by type or date range",
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var filters model.TransactionFilters
			if typ != "" {
				filters.Type = model.TransactionType(strings.ToUpper(typ))
			}
			var err error
			if filters.StartDate, err = dateBound(from, false); err != nil {
				return err
			}
			if filters.EndDate, err = dateBound(to, true); err != nil {
				return err
			}
			if err := validate.Filters(filters); err != nil {
				return reportInvalid(cmd, err)
			}

			var items []model.Transaction
			switch {
			case !filters.IsEmpty():
				items, err = a.client.Transactions().Filter(ctx, filters)
			case symbol != "":
				items, err = a.client.Transactions().Search(ctx, symbol)
			default:
				items, err = a.client.Transactions().List(ctx)
			}
			if err != nil {
				return userMessage(err, "Error loading transactions")
			}
			return printTransactions(cmd.OutOrStdout(), present.FilterTransactions(items, search), a.cfg.Currency)
		}),
	}

	f := cmd.Flags()
	f.StringVarP(&search, "search", "s", "", "Only show transactions whose symbol or company contains this text")
	f.StringVar(&symbol, "symbol", "", "Ask the backend for transactions matching this symbol")
	f.StringVar(&typ, "type", "", "BUY or SELL")
	f.StringVar(&from, "from", "", "Start date (YYYY-MM-DD)")
	f.StringVar(&to, "to", "", "End date (YYYY-MM-DD)")
	return cmd
}

func newTxRecentCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Show the latest transactions",
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			items, err := a.client.Transactions().Recent(cmd.Context(), model.RecentOptions{Limit: limit})
			if err != nil {
				return userMessage(err, "Error loading recent transactions")
			}
			return printTransactions(cmd.OutOrStdout(), items, a.cfg.Currency)
		}),
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", model.DefaultRecentLimit, "Number of transactions")
	return cmd
}

func newTxShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one transaction",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			tx, err := a.client.Transactions().Get(cmd.Context(), id)
			if err != nil {
				return userMessage(err, "Error loading transaction")
			}
			printTransaction(cmd.OutOrStdout(), tx, a.cfg.Currency)
			return nil
		}),
	}
}

type txFlags struct {
	typ, symbol, company, quantity, price, commission, notes string
}

func (f *txFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.typ, "type", "", "BUY or SELL")
	fl.StringVar(&f.symbol, "symbol", "", "Ticker symbol")
	fl.StringVar(&f.company, "company", "", "Company name")
	fl.StringVar(&f.quantity, "quantity", "", "Number of shares")
	fl.StringVar(&f.price, "price", "", "Price per share")
	fl.StringVar(&f.commission, "commission", "", "Commission paid")
	fl.StringVar(&f.notes, "notes", "", "Free-form notes")
}

func newTxCreateCmd(a *app) *cobra.Command {
	var f txFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Record a transaction",
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			var errs []model.FieldError
			typ, _ := model.ParseTransactionType(f.typ)
			req := model.CreateTransactionRequest{
				TransactionType: typ,
				Symbol:          strings.ToUpper(strings.TrimSpace(f.symbol)),
				CompanyName:     strings.TrimSpace(f.company),
				Quantity:        parseAmount(&errs, "quantity", f.quantity),
				Price:           parseAmount(&errs, "price", f.price),
				Notes:           f.notes,
			}
			if f.commission != "" {
				c := parseAmount(&errs, "commission", f.commission)
				req.Commission = &c
			}
			if err := model.NewValidationError(errs...); err != nil {
				return reportInvalid(cmd, err)
			}
			if err := validate.Transaction(req); err != nil {
				return reportInvalid(cmd, err)
			}

			tx, err := a.client.Transactions().Create(cmd.Context(), req)
			if err != nil {
				return userMessage(err, "Error creating transaction")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s transaction %d: %s %s %s @ %s (total %s)\n",
				styleSuccess.Render("Recorded"), tx.ID, tx.TransactionType, present.Quantity(tx.Quantity), tx.Symbol,
				present.Currency(tx.Price, a.cfg.Currency), present.Currency(tx.TotalAmount, a.cfg.Currency))
			return nil
		}),
	}

	f.register(cmd)
	return cmd
}

func newTxUpdateCmd(a *app) *cobra.Command {
	var f txFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			tx, err := a.client.Transactions().Get(ctx, id)
			if err != nil {
				return userMessage(err, "Error loading transaction")
			}

			var errs []model.FieldError
			changed := cmd.Flags().Changed
			if changed("type") {
				tx.TransactionType, _ = model.ParseTransactionType(f.typ)
			}
			if changed("symbol") {
				tx.Symbol = strings.ToUpper(strings.TrimSpace(f.symbol))
			}
			if changed("company") {
				tx.CompanyName = strings.TrimSpace(f.company)
			}
			if changed("quantity") {
				tx.Quantity = parseAmount(&errs, "quantity", f.quantity)
			}
			if changed("price") {
				tx.Price = parseAmount(&errs, "price", f.price)
			}
			if changed("commission") {
				tx.Commission = parseAmount(&errs, "commission", f.commission)
			}
			if changed("notes") {
				tx.Notes = f.notes
			}
			if err := model.NewValidationError(errs...); err != nil {
				return reportInvalid(cmd, err)
			}
			commission := tx.Commission
			err = validate.Transaction(model.CreateTransactionRequest{
				TransactionType: tx.TransactionType,
				Symbol:          tx.Symbol,
				CompanyName:     tx.CompanyName,
				Quantity:        tx.Quantity,
				Price:           tx.Price,
				Commission:      &commission,
			})
			if err != nil {
				return reportInvalid(cmd, err)
			}

			updated, err := a.client.Transactions().Update(ctx, id, *tx)
			if err != nil {
				return userMessage(err, "Error updating transaction")
			}
			printTransaction(cmd.OutOrStdout(), updated, a.cfg.Currency)
			return nil
		}),
	}

	f.register(cmd)
	return cmd
}

func newTxDeleteCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			tx, err := a.client.Transactions().Get(ctx, id)
			if err != nil {
				return userMessage(err, "Error loading transaction")
			}
			q := fmt.Sprintf("Are you sure you want to delete this %s transaction for %s?", tx.TransactionType, tx.Symbol)
			ok, err := confirm(cmd, q, yes)
			if err != nil || !ok {
				return err
			}
			resp, err := a.client.Transactions().Delete(ctx, id)
			if err != nil {
				return userMessage(err, "Error deleting transaction")
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
			return nil
		}),
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func printTransactions(w io.Writer, items []model.Transaction, currency string) error {
	if len(items) == 0 {
		fmt.Fprintln(w, "No transactions found.")
		return nil
	}
	t := newTable(w, "ID", "DATE", "TYPE", "SYMBOL", "COMPANY", "QTY", "PRICE", "TOTAL")
	for _, tx := range items {
		t.row(
			strconv.FormatInt(tx.ID, 10),
			present.Date(tx.TransactionDate),
			typeLabel(tx.TransactionType),
			tx.Symbol,
			tx.CompanyName,
			present.Quantity(tx.Quantity),
			present.Currency(tx.Price, currency),
			present.Currency(tx.TotalAmount, currency),
		)
	}
	return t.flush()
}

func printTransaction(w io.Writer, tx *model.Transaction, currency string) {
	fmt.Fprintf(w, "ID:          %d\n", tx.ID)
	fmt.Fprintf(w, "Type:        %s\n", typeLabel(tx.TransactionType))
	fmt.Fprintf(w, "Symbol:      %s\n", tx.Symbol)
	fmt.Fprintf(w, "Company:     %s\n", tx.CompanyName)
	fmt.Fprintf(w, "Quantity:    %s\n", present.Quantity(tx.Quantity))
	fmt.Fprintf(w, "Price:       %s\n", present.Currency(tx.Price, currency))
	fmt.Fprintf(w, "Commission:  %s\n", present.Currency(tx.Commission, currency))
	fmt.Fprintf(w, "Total:       %s\n", present.Currency(tx.TotalAmount, currency))
	fmt.Fprintf(w, "Date:        %s (%s)\n", present.DateTime(tx.TransactionDate), present.Ago(tx.TransactionDate))
	if tx.Notes != "" {
		fmt.Fprintf(w, "Notes:       %s\n", tx.Notes)
	}
}

func typeLabel(t model.TransactionType) string {
	switch t {
	case model.TransactionBuy:
		return styleGain.Render(t.String())
	case model.TransactionSell:
		return styleLoss.Render(t.String())
	default:
		return t.String()
	}
}
