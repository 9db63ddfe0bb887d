package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-agent/internal/observability"
	"github.com/jonathan/cv-agent/internal/tools"
)

var toolsCommand = &cobra.Command{
	Use:   "tools",
	Short: "Print the tool catalog",
	Long:  `Print the registered tool catalog. The catalog is static; it does not depend on a loaded CV document.`,
	Run:   runToolsCmd,
}

func init() {
	rootCmd.AddCommand(toolsCommand)
}

func runToolsCmd(_ *cobra.Command, _ []string) {
	observability.NewPrinter(os.Stdout).PrintToolCatalog(tools.Definitions())
}
