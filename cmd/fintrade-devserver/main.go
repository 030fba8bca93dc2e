// Command fintrade-devserver serves the in-memory fake backend so the CLI
// can be tried without the real service. State is lost on exit.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/me/fintrade/internal/apitest"
	"github.com/me/fintrade/internal/logging"
	"github.com/me/fintrade/pkg/model"
)

func main() {
	addr := flag.String("addr", ":8080", "Listen address")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	logFormat := flag.String("log-format", "text", "Log format (text, json)")
	debug := flag.Bool("debug", false, "Shorthand for --log-level=debug")
	admin := flag.String("admin", "admin:Admin123", "Seed admin account as username:password (empty to skip)")
	user := flag.String("user", "demo:Demo1234", "Seed user account as username:password (empty to skip)")
	flag.Parse()

	if *debug {
		*logLevel = "debug"
	}
	logger := logging.NewLogger(logging.ParseLevel(*logLevel), *logFormat)

	backend := apitest.New(logger)
	for _, seed := range []struct {
		spec string
		role model.Role
	}{{*admin, model.RoleAdmin}, {*user, model.RoleUser}} {
		if seed.spec == "" {
			continue
		}
		name, pass, ok := strings.Cut(seed.spec, ":")
		if !ok || name == "" || pass == "" {
			fmt.Fprintf(os.Stderr, "invalid account %q: want username:password\n", seed.spec)
			os.Exit(1)
		}
		backend.AddUser(name, pass, seed.role)
		logger.Info("seeded account", "username", name, "role", seed.role)
	}

	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           backend.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server starting", "addr", *addr, "api", "/api")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown error: %v\n", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
