package validate

import (
	"github.com/me/fintrade/pkg/model"
	"github.com/shopspring/decimal"
)

// Login checks the sign-in form. Only presence is required.
func Login(req model.LoginRequest) error {
	var errs Errors
	errs.Add("username", Required("Username", req.Username))
	errs.Add("password", Required("Password", req.Password))
	return errs.Err()
}

// Register checks the sign-up form.
func Register(req model.RegisterRequest) error {
	var errs Errors
	errs.Add("firstName", Name("First name", req.FirstName))
	errs.Add("lastName", Name("Last name", req.LastName))
	errs.Add("username", Username(req.Username))
	errs.Add("email", Email(req.Email))
	errs.Add("password", Password(req.Password))
	return errs.Err()
}

// AddToPortfolio checks the add-holding form.
func AddToPortfolio(req model.AddToPortfolioRequest) error {
	var errs Errors
	errs.Add("symbol", Required("Symbol", req.Symbol))
	errs.Add("companyName", Required("Company name", req.CompanyName))
	errs.Add("quantity", Quantity(req.Quantity))
	errs.Add("price", Price(req.Price))
	return errs.Err()
}

// RemoveFromPortfolio checks the sell form. available is the quantity held;
// a zero available skips the upper bound.
func RemoveFromPortfolio(req model.RemoveFromPortfolioRequest, available decimal.Decimal) error {
	var errs Errors
	errs.Add("symbol", Required("Symbol", req.Symbol))
	msg := Quantity(req.Quantity)
	if msg == "" && available.IsPositive() && req.Quantity.GreaterThan(available) {
		msg = "Quantity must be between 0 and " + available.String()
	}
	errs.Add("quantity", msg)
	return errs.Err()
}

// Transaction checks the new-transaction form.
func Transaction(req model.CreateTransactionRequest) error {
	var errs Errors
	errs.Add("transactionType", TransactionType(req.TransactionType))
	errs.Add("symbol", Required("Symbol", req.Symbol))
	errs.Add("companyName", Required("Company name", req.CompanyName))
	errs.Add("quantity", Quantity(req.Quantity))
	errs.Add("price", Price(req.Price))
	if req.Commission != nil && req.Commission.IsNegative() {
		errs.Add("commission", "Commission cannot be negative")
	}
	return errs.Err()
}

// Filters checks a transaction filter: dates come in pairs and in order.
func Filters(f model.TransactionFilters) error {
	var errs Errors
	if f.Type != "" {
		errs.Add("type", TransactionType(f.Type))
	}
	switch {
	case (f.StartDate == "") != (f.EndDate == ""):
		errs.Add("dateRange", "Both start and end dates are required")
	case f.StartDate != "":
		start, err := model.ParseTimestamp(f.StartDate)
		if err != nil {
			errs.Add("startDate", "Invalid start date")
			break
		}
		end, err := model.ParseTimestamp(f.EndDate)
		if err != nil {
			errs.Add("endDate", "Invalid end date")
			break
		}
		if start.After(end.Time) {
			errs.Add("dateRange", "Start date must be before end date")
		}
	}
	return errs.Err()
}
