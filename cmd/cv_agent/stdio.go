package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/cv-agent/internal/config"
	"github.com/jonathan/cv-agent/internal/lifecycle"
	"github.com/jonathan/cv-agent/internal/mcp"
)

var stdioCommand = &cobra.Command{
	Use:   "stdio",
	Short: "Serve the tool catalog over MCP on stdio",
	Long: `Run a Model Context Protocol server on stdin/stdout for agent frameworks.

stdout carries the JSON-RPC stream; all logs go to stderr.`,
	RunE: runStdioCmd,
}

var (
	stdioConfigPath string
	stdioResume     string
	stdioResumeURL  string
	stdioLogLevel   string
)

func init() {
	stdioCommand.Flags().StringVar(&stdioConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	stdioCommand.Flags().StringVar(&stdioResume, "resume", "", "Path to the CV document (mutually exclusive with --resume-url)")
	stdioCommand.Flags().StringVar(&stdioResumeURL, "resume-url", "", "URL to fetch the CV document from")
	stdioCommand.Flags().StringVar(&stdioLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(stdioCommand)
}

func runStdioCmd(cmd *cobra.Command, _ []string) error {
	// Step 1: Load config file if provided
	var cfg config.Config
	if stdioConfigPath != "" {
		loadedCfg, err := config.LoadConfig(stdioConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := loadedCfg.Validate(); err != nil {
			return err
		}
		cfg = *loadedCfg
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	if cmd.Flags().Changed("resume") {
		cfg.Resume = stdioResume
	}
	if cmd.Flags().Changed("resume-url") {
		cfg.ResumeURL = stdioResumeURL
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = stdioLogLevel
	}

	// Step 3: Apply defaults for unset values
	cfg = cfg.MergeWithDefaults(config.Config{LogLevel: "info"})

	if cfg.Resume != "" && cfg.ResumeURL != "" {
		return fmt.Errorf("--resume and --resume-url are mutually exclusive; provide only one")
	}

	logger := mustBuildLogger(cfg.LogLevel, "stderr")
	defer logger.Sync() //nolint:errcheck // best-effort flush

	manager := lifecycle.NewManager(&cfg, logger)
	state := manager.Initialize(context.Background())
	logger.Info("initialization complete", zap.String("state", string(state)))

	return mcp.NewServer(manager, logger).Serve()
}
