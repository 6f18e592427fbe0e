package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/virajo/backoffice/internal/config"
	"github.com/virajo/backoffice/pkg/logger"
)

var (
	Version   = "1.0.0"
	BuildTime = "dev"
)

const appName = "backoffice"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		port     string
		logLevel string
	)

	serveCmd := func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if port != "" {
			cfg.Server.Port = port
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		logger.Init(cfg.LogLevel)
		logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg)
	}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Company website back-office API",
		Long: `Back-office API for the company website: blog posts, careers, job
listings, contact forms and job applications with résumé upload.

Running without a subcommand is the same as "serve".`,
		SilenceUsage: true,
		RunE:         serveCmd,
	}
	cmd.PersistentFlags().StringVar(&port, "port", "", "Listen port (overrides SERVER_PORT)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE:  serveCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})
	cmd.SetContext(context.Background())
	return cmd
}
