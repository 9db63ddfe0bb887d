package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/cv-agent/internal/config"
	"github.com/jonathan/cv-agent/internal/lifecycle"
	"github.com/jonathan/cv-agent/internal/server"
)

var serveCommand = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes the CV tool catalog over REST endpoints.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runServeCmd,
}

var (
	serveConfigPath string
	servePort       int
	serveResume     string
	serveResumeURL  string
	serveLogLevel   string
)

func init() {
	serveCommand.Flags().StringVar(&serveConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	serveCommand.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on")
	serveCommand.Flags().StringVar(&serveResume, "resume", "", "Path to the CV document (mutually exclusive with --resume-url)")
	serveCommand.Flags().StringVar(&serveResumeURL, "resume-url", "", "URL to fetch the CV document from")
	serveCommand.Flags().StringVar(&serveLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(serveCommand)
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	// Step 1: Load config file if provided
	var cfg config.Config
	if serveConfigPath != "" {
		loadedCfg, err := config.LoadConfig(serveConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := loadedCfg.Validate(); err != nil {
			return err
		}
		cfg = *loadedCfg
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}
	if cmd.Flags().Changed("resume") {
		cfg.Resume = serveResume
	}
	if cmd.Flags().Changed("resume-url") {
		cfg.ResumeURL = serveResumeURL
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = serveLogLevel
	}

	// Step 3: Apply defaults for unset values
	cfg = cfg.MergeWithDefaults(config.Config{
		Port:     8080,
		LogLevel: "info",
	})

	if cfg.Resume != "" && cfg.ResumeURL != "" {
		return fmt.Errorf("--resume and --resume-url are mutually exclusive; provide only one")
	}

	logger := mustBuildLogger(cfg.LogLevel)
	defer logger.Sync() //nolint:errcheck // best-effort flush

	// A failed load degrades rather than aborts: the server still
	// answers health checks and serves the catalog with empty data.
	manager := lifecycle.NewManager(&cfg, logger)
	state := manager.Initialize(context.Background())
	logger.Info("initialization complete", zap.String("state", string(state)))

	srv := server.New(server.Config{Port: cfg.Port}, manager, logger)
	return srv.Start()
}
