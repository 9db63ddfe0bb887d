package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/cv-agent/internal/config"
	"github.com/jonathan/cv-agent/internal/observability"
	"github.com/jonathan/cv-agent/internal/resume"
	"github.com/jonathan/cv-agent/internal/tools"
	"github.com/jonathan/cv-agent/internal/types"
)

var parseCommand = &cobra.Command{
	Use:   "parse",
	Short: "Parse a CV document and print a summary",
	Long: `Parse a CV document from a file or URL and print a structured summary.

Useful for checking what the tool catalog will serve before starting a server.`,
	RunE: runParseCmd,
}

var (
	parseConfigPath string
	parseResume     string
	parseResumeURL  string
	parseSearch     string
	parseJSON       bool
	parseUseBrowser bool
	parseVerbose    bool
)

func init() {
	parseCommand.Flags().StringVar(&parseConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	parseCommand.Flags().StringVar(&parseResume, "resume", "", "Path to the CV document (mutually exclusive with --resume-url)")
	parseCommand.Flags().StringVar(&parseResumeURL, "resume-url", "", "URL to fetch the CV document from")
	parseCommand.Flags().StringVar(&parseSearch, "search", "", "Search the parsed document and print the matches")
	parseCommand.Flags().BoolVar(&parseJSON, "json", false, "Print the parsed record and metadata as JSON")
	parseCommand.Flags().BoolVar(&parseUseBrowser, "use-browser", false, "Use headless browser for JS-rendered CV pages (requires Chrome)")
	parseCommand.Flags().BoolVarP(&parseVerbose, "verbose", "v", false, "Print detailed debug information")

	rootCmd.AddCommand(parseCommand)
}

func runParseCmd(cmd *cobra.Command, _ []string) error {
	// Step 1: Load config file if provided
	var cfg config.Config
	if parseConfigPath != "" {
		loadedCfg, err := config.LoadConfig(parseConfigPath)
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
		cfg.Resume = parseResume
	}
	if cmd.Flags().Changed("resume-url") {
		cfg.ResumeURL = parseResumeURL
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = parseUseBrowser
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = parseVerbose
	}

	// Step 3: Validate required fields
	if cfg.Resume == "" && cfg.ResumeURL == "" {
		return fmt.Errorf("either --resume or --resume-url must be provided (via flag or config)")
	}
	if cfg.Resume != "" && cfg.ResumeURL != "" {
		return fmt.Errorf("--resume and --resume-url are mutually exclusive; provide only one")
	}

	logger := zap.NewNop()
	if cfg.Verbose {
		logger = mustBuildLogger("debug", "stderr")
		defer logger.Sync() //nolint:errcheck // best-effort flush
	}

	record, meta, err := resume.Load(context.Background(), resume.LoadOptions{
		Path:       cfg.Resume,
		URL:        cfg.ResumeURL,
		UseBrowser: cfg.UseBrowser,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to load resume: %w", err)
	}

	if parseJSON {
		payload := struct {
			Record   *types.CVRecord  `json:"record"`
			Metadata *resume.Metadata `json:"metadata"`
		}{Record: record, Metadata: meta}

		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal record: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintRecordSummary(record, meta)
	if parseSearch != "" {
		printer.PrintSearchMatches(parseSearch, tools.Search(record, parseSearch))
	}
	return nil
}
