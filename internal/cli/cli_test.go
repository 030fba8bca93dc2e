package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/me/fintrade/internal/api"
	"github.com/me/fintrade/internal/apitest"
	"github.com/me/fintrade/internal/config"
	"github.com/me/fintrade/pkg/model"
)

// startTestServer starts the fake backend with one user and one admin and
// points the CLI's state directory at a fresh temp dir.
func startTestServer(t *testing.T) *apitest.Server {
	t.Helper()
	srv := apitest.NewServer(t)
	srv.AddUser("alice", "Secret1", model.RoleUser)
	srv.AddUser("root", "Secret1", model.RoleAdmin)
	t.Setenv(config.EnvHome, t.TempDir())
	t.Setenv(config.EnvAPIURL, "")
	return srv
}

func runCLI(t *testing.T, srv *apitest.Server, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(append([]string{"--api-url", srv.URL()}, args...))

	err := root.Execute()
	return buf.String(), err
}

func mustRun(t *testing.T, srv *apitest.Server, args ...string) string {
	t.Helper()
	out, err := runCLI(t, srv, args...)
	if err != nil {
		t.Fatalf("%v: %v\noutput: %s", args, err, out)
	}
	return out
}

func login(t *testing.T, srv *apitest.Server, username string) {
	t.Helper()
	mustRun(t, srv, "login", "-u", username, "-p", "Secret1")
}

func TestLoginCommand(t *testing.T) {
	srv := startTestServer(t)

	out := mustRun(t, srv, "login", "--username", "alice", "--password", "Secret1")
	if !strings.Contains(out, "(USER)") {
		t.Errorf("expected sign-in notice, got: %s", out)
	}
	if !strings.Contains(out, "Welcome back, Alice!") {
		t.Errorf("expected welcome, got: %s", out)
	}

	// The session survives into the next invocation.
	out = mustRun(t, srv, "whoami")
	if !strings.Contains(out, "Username: alice") || !strings.Contains(out, "Role:     USER") {
		t.Errorf("whoami output: %s", out)
	}
	if !strings.Contains(out, "Token:    expires") {
		t.Errorf("expected token expiry in whoami, got: %s", out)
	}

	out = mustRun(t, srv, "login", "-u", "root", "-p", "Secret1")
	if !strings.Contains(out, "Already signed in as alice") {
		t.Errorf("second login output: %s", out)
	}
}

func TestLoginCommand_BadCredentials(t *testing.T) {
	srv := startTestServer(t)

	_, err := runCLI(t, srv, "login", "-u", "alice", "-p", "wrong")
	if err == nil || err.Error() != "Error: Bad credentials" {
		t.Fatalf("expected backend message, got %v", err)
	}

	_, err = runCLI(t, srv, "whoami")
	if err == nil || !strings.Contains(err.Error(), "please log in") {
		t.Errorf("expected guard redirect after failed login, got %v", err)
	}
}

func TestLoginCommand_MissingFlagWithoutTerminal(t *testing.T) {
	srv := startTestServer(t)
	_, err := runCLI(t, srv, "login", "-u", "alice")
	if err == nil || !strings.Contains(err.Error(), "--password is required") {
		t.Errorf("expected missing flag error, got %v", err)
	}
}

func TestLogoutCommand(t *testing.T) {
	srv := startTestServer(t)
	login(t, srv, "alice")

	out := mustRun(t, srv, "logout")
	if !strings.Contains(out, "Signed out.") {
		t.Errorf("expected sign-out notice, got: %s", out)
	}

	_, err := runCLI(t, srv, "dashboard")
	if err == nil || !strings.Contains(err.Error(), "please log in") {
		t.Errorf("expected guard redirect after logout, got %v", err)
	}

	out = mustRun(t, srv, "logout")
	if !strings.Contains(out, "Not signed in.") {
		t.Errorf("second logout output: %s", out)
	}
}

func TestGuard_AdminCommands(t *testing.T) {
	srv := startTestServer(t)

	_, err := runCLI(t, srv, "admin", "users", "list")
	if err == nil || !strings.Contains(err.Error(), "please log in") {
		t.Errorf("anonymous admin: got %v", err)
	}

	login(t, srv, "alice")
	_, err = runCLI(t, srv, "admin", "users", "list")
	if err == nil || err.Error() != "admin access required" {
		t.Errorf("user admin: got %v", err)
	}
	// No request reached the admin endpoints.
	for _, r := range srv.Requests() {
		if strings.Contains(r, "/admin/") {
			t.Errorf("guarded command hit the backend: %s", r)
		}
	}

	mustRun(t, srv, "logout")
	login(t, srv, "root")
	out := mustRun(t, srv, "admin", "users", "list")
	if !strings.Contains(out, "alice") || !strings.Contains(out, "Active") {
		t.Errorf("admin list output: %s", out)
	}
}

func TestRegisterCommand(t *testing.T) {
	srv := startTestServer(t)

	out, err := runCLI(t, srv, "register",
		"--username", "bo", "--email", "bob@example.com", "--password", "weak",
		"--first-name", "Bob", "--last-name", "Builder")
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(out, "Username must be at least 3 characters long") {
		t.Errorf("expected username message, got: %s", out)
	}
	if !strings.Contains(out, "Password must be at least 6 characters long") {
		t.Errorf("expected password message, got: %s", out)
	}
	for _, r := range srv.Requests() {
		if strings.Contains(r, "signup") {
			t.Error("invalid form reached the backend")
		}
	}

	args := []string{"register",
		"--username", "bob", "--email", "bob@example.com", "--password", "Secret1",
		"--first-name", "Bob", "--last-name", "Builder"}
	out = mustRun(t, srv, args...)
	if !strings.Contains(out, "Account created successfully! Please sign in.") {
		t.Errorf("register output: %s", out)
	}

	_, err = runCLI(t, srv, args...)
	if err == nil || err.Error() != "Error: Username is already taken!" {
		t.Errorf("duplicate register: got %v", err)
	}

	login(t, srv, "bob")
}

func TestPortfolioCommands(t *testing.T) {
	srv := startTestServer(t)
	login(t, srv, "alice")

	out := mustRun(t, srv, "portfolio", "add", "--symbol", "aapl", "--company", "Apple Inc.", "--quantity", "10", "--price", "150")
	if !strings.Contains(out, "AAPL: 10 shares @ $150.00 avg") {
		t.Errorf("add output: %s", out)
	}
	mustRun(t, srv, "portfolio", "add", "--symbol", "MSFT", "--company", "Microsoft", "--quantity", "2", "--price", "300")

	out = mustRun(t, srv, "portfolio", "list", "--search", "apple")
	if !strings.Contains(out, "AAPL") || strings.Contains(out, "MSFT") {
		t.Errorf("filtered list output: %s", out)
	}

	srv.SetPrice("AAPL", mustDecimal(t, "165"))
	out = mustRun(t, srv, "portfolio", "summary")
	if !strings.Contains(out, "$2,250.00") {
		t.Errorf("expected total value in summary, got: %s", out)
	}
	if !strings.Contains(out, "+7.14%") {
		t.Errorf("expected total return in summary, got: %s", out)
	}

	out, err := runCLI(t, srv, "portfolio", "remove", "--symbol", "AAPL", "--quantity", "11")
	if err == nil || !strings.Contains(out, "Quantity must be between 0 and 10") {
		t.Errorf("oversell: err=%v output=%s", err, out)
	}

	out = mustRun(t, srv, "portfolio", "remove", "--symbol", "AAPL", "--quantity", "4")
	if !strings.Contains(out, "AAPL: 6 shares remaining") {
		t.Errorf("remove output: %s", out)
	}
	out = mustRun(t, srv, "portfolio", "remove", "--symbol", "AAPL", "--quantity", "6")
	if !strings.Contains(out, "removed successfully") {
		t.Errorf("close output: %s", out)
	}

	_, err = runCLI(t, srv, "portfolio", "add", "--symbol", "X", "--company", "X", "--quantity", "abc", "--price", "1")
	if err == nil {
		t.Error("expected error for non-numeric quantity")
	}
}

func TestTransactionsCommands(t *testing.T) {
	srv := startTestServer(t)
	login(t, srv, "alice")

	out := mustRun(t, srv, "tx", "create", "--type", "buy", "--symbol", "TSLA", "--company", "Tesla",
		"--quantity", "3", "--price", "200", "--commission", "4.99")
	if !strings.Contains(out, "BUY") || !strings.Contains(out, "(total $604.99)") {
		t.Errorf("create output: %s", out)
	}
	mustRun(t, srv, "tx", "create", "--type", "SELL", "--symbol", "NVDA", "--company", "NVIDIA",
		"--quantity", "1", "--price", "900")

	out = mustRun(t, srv, "transactions", "list", "--type", "SELL")
	if !strings.Contains(out, "NVDA") || strings.Contains(out, "TSLA") {
		t.Errorf("filtered list output: %s", out)
	}

	out = mustRun(t, srv, "transactions", "recent", "--limit", "1")
	if strings.Count(out, "\n") != 3 {
		t.Errorf("recent --limit 1 should print header, rule and one row, got: %s", out)
	}

	out = mustRun(t, srv, "transactions", "show", "1")
	if !strings.Contains(out, "Commission:  $4.99") {
		t.Errorf("show output: %s", out)
	}

	_, err := runCLI(t, srv, "transactions", "list", "--from", "2024-01-01")
	if err == nil {
		t.Error("expected error for half-open date range")
	}

	_, err = runCLI(t, srv, "transactions", "delete", "1")
	if err == nil || !strings.Contains(err.Error(), "--yes") {
		t.Errorf("delete without --yes: got %v", err)
	}
	out = mustRun(t, srv, "transactions", "delete", "1", "--yes")
	if !strings.Contains(out, "Transaction deleted successfully") {
		t.Errorf("delete output: %s", out)
	}
}

func TestDashboardCommand(t *testing.T) {
	srv := startTestServer(t)
	login(t, srv, "alice")
	mustRun(t, srv, "portfolio", "add", "--symbol", "AMZN", "--company", "Amazon", "--quantity", "1", "--price", "100")
	for i := 0; i < 7; i++ {
		mustRun(t, srv, "tx", "create", "--type", "BUY", "--symbol", "AMZN", "--company", "Amazon",
			"--quantity", "1", "--price", "100")
	}

	out := mustRun(t, srv, "dashboard")
	for _, want := range []string{"Welcome back, Alice!", "Total Value:", "$100.00", "Holdings", "Recent Transactions"} {
		if !strings.Contains(out, want) {
			t.Errorf("dashboard missing %q:\n%s", want, out)
		}
	}
	section := out[strings.Index(out, "Recent Transactions"):]
	if rows := strings.Count(section, "Amazon"); rows != 5 {
		t.Errorf("dashboard shows %d recent transactions, want 5", rows)
	}
}

func TestExpiredSessionForcesLogout(t *testing.T) {
	srv := startTestServer(t)
	login(t, srv, "alice")

	// An admin disables alice; her token is now rejected with 401.
	admin := api.NewClient(srv.URL(), 5*time.Second, nil)
	resp, err := admin.Auth().SignIn(context.Background(), model.LoginRequest{Username: "root", Password: "Secret1"})
	if err != nil {
		t.Fatalf("admin sign-in: %v", err)
	}
	admin.Tokens = api.StaticToken(resp.Token)
	if _, err := admin.Admin().ToggleUserStatus(context.Background(), 1); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	out, err := runCLI(t, srv, "portfolio", "list")
	if err == nil || !strings.Contains(err.Error(), "session expired") {
		t.Errorf("expected session expired error, got %v", err)
	}
	if !strings.Contains(out, "Signed out.") {
		t.Errorf("expected forced sign-out notice, got: %s", out)
	}

	_, err = runCLI(t, srv, "whoami")
	if err == nil || !strings.Contains(err.Error(), "please log in") {
		t.Errorf("expected logged out after 401, got %v", err)
	}
}

func TestAdminUserCommands(t *testing.T) {
	srv := startTestServer(t)
	login(t, srv, "root")

	out := mustRun(t, srv, "admin", "users", "toggle", "1", "--yes")
	if !strings.Contains(out, "User alice is now disabled.") {
		t.Errorf("toggle output: %s", out)
	}

	out = mustRun(t, srv, "admin", "users", "update", "1", "--role", "admin", "--first-name", "Alicia")
	if !strings.Contains(out, "Role:      ADMIN") || !strings.Contains(out, "Alicia Tester") {
		t.Errorf("update output: %s", out)
	}

	out, err := runCLI(t, srv, "admin", "users", "update", "1", "--email", "nope")
	if err == nil || !strings.Contains(out, "Please enter a valid email address") {
		t.Errorf("invalid email: err=%v output=%s", err, out)
	}

	out = mustRun(t, srv, "admin", "users", "delete", "1", "-y")
	if !strings.Contains(out, "Deleted user alice.") {
		t.Errorf("delete output: %s", out)
	}
	if _, err := runCLI(t, srv, "admin", "users", "show", "1"); err == nil {
		t.Error("expected error showing deleted user")
	}
}
