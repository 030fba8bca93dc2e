package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/me/fintrade/internal/api"
	"github.com/me/fintrade/internal/config"
	"github.com/me/fintrade/internal/guard"
	"github.com/me/fintrade/internal/session"
	"github.com/me/fintrade/internal/store"
	"github.com/me/fintrade/pkg/model"
	"github.com/spf13/cobra"
)

// routeAnnotation names the guard route a command belongs to. Commands
// without one (and without an annotated parent) are not guarded.
const routeAnnotation = "fintrade/route"

type rootFlags struct {
	apiURL    string
	config    string
	debug     bool
	logLevel  string
	logFormat string
}

// app is the wiring shared by every command of one invocation.
type app struct {
	flags  rootFlags
	logger *slog.Logger

	cfg      config.ClientConfig
	storage  store.Storage
	client   *api.Client
	sessions *session.Store
	nav      *guard.Navigator

	unsubscribe func()
}

// open loads configuration, opens local storage and restores the session.
func (a *app) open(cmd *cobra.Command) error {
	ctx := cmd.Context()

	cfg, err := config.Load(a.flags.config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.flags.apiURL != "" {
		cfg.APIURL = a.flags.apiURL
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg

	st, err := store.OpenSQLiteStore(ctx, cfg.StoragePath, a.logger)
	if err != nil {
		return fmt.Errorf("open local storage: %w", err)
	}
	a.storage = st

	a.client = api.NewClient(cfg.APIURL, cfg.Timeout, a.logger)
	a.sessions = session.New(a.client.Auth(), a.storage, a.logger)
	a.client.Tokens = a.sessions
	a.client.OnUnauthorized = a.sessions.Expire

	if err := a.sessions.Restore(ctx); err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	out := cmd.ErrOrStderr()
	a.unsubscribe = a.sessions.Subscribe(func(s *model.Session) {
		if s == nil {
			fmt.Fprintln(out, styleMuted.Render("Signed out."))
			return
		}
		fmt.Fprintf(out, "Signed in as %s (%s).\n", styleBold.Render(s.Username), s.Role)
	})

	a.nav = guard.NewNavigator(a.sessions, a.logger)
	return nil
}

// guard resolves the command's route through the navigator.
func (a *app) guard(cmd *cobra.Command) error {
	route, ok := routeOf(cmd)
	if !ok {
		return nil
	}
	if _, err := a.nav.Navigate(route); err != nil {
		var redirect *guard.RedirectError
		if errors.As(err, &redirect) {
			a.logger.Debug("command blocked by guard", "command", cmd.CommandPath(), "route", route, "to", redirect.To.Name)
			switch redirect.To {
			case guard.Login:
				return fmt.Errorf("%s: run 'fintrade login' first", redirect.Reason)
			default:
				return fmt.Errorf("%s", redirect.Reason)
			}
		}
		return err
	}
	return nil
}

func (a *app) close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
	if a.storage != nil {
		if err := a.storage.Close(); err != nil {
			a.logger.Warn("close local storage", "error", err)
		}
		a.storage = nil
	}
}

// run wraps a command body so the app is closed once it returns.
func (a *app) run(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		defer a.close()
		return fn(cmd, args)
	}
}

func routeOf(cmd *cobra.Command) (string, bool) {
	for c := cmd; c != nil; c = c.Parent() {
		if r, ok := c.Annotations[routeAnnotation]; ok {
			return r, true
		}
	}
	return "", false
}

func routed(route guard.Route) map[string]string {
	return map[string]string{routeAnnotation: route.Path()}
}
