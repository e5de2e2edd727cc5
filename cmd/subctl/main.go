package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-substitution-console/internal/app"
	"github.com/noah-isme/sma-substitution-console/internal/console"
	"github.com/noah-isme/sma-substitution-console/pkg/config"
	"github.com/noah-isme/sma-substitution-console/pkg/logger"
)

func main() {
	noColor := pflag.Bool("no-color", false, "disable ANSI colours")
	logFile := pflag.String("log-file", "subctl.log", "where log lines go so they do not mix with prompts")
	portalURL := pflag.String("portal", "", "portal base URL, overrides PORTAL_BASE_URL")
	pflag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *logFile != "" {
		cfg.Log.Output = *logFile
	}
	if *portalURL != "" {
		cfg.Portal.BaseURL = *portalURL
	}

	logr, err := logger.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workflows, err := app.New(ctx, cfg, logr)
	if err != nil {
		logr.Error("failed to wire workflows", zap.Error(err))
		fmt.Fprintf(os.Stderr, "cannot reach the portal at %s: %v\n", cfg.Portal.BaseURL, err)
		os.Exit(1)
	}
	defer workflows.Close()

	term := console.NewTerminal(os.Stdin, os.Stdout, !*noColor)
	shell := console.NewShell(console.Deps{
		Absence:       workflows.Absence,
		Substitutions: workflows.Substitutions,
		Transfers:     workflows.Transfers,
		Theme:         workflows.Theme,
		Exports:       workflows.Exports,
		Teacher:       workflows.Teacher,
	}, term, logr.Named("console"))

	if err := shell.Run(ctx); err != nil && ctx.Err() == nil {
		logr.Error("console stopped", zap.Error(err))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
