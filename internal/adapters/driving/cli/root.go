// Package cli provides the cobra command tree for the medvault binary.
// Commands call core services through the driving ports; wiring happens
// in cmd/medvault.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/medvault-labs/medvault-cli/internal/core/ports/driving"
	"github.com/medvault-labs/medvault-cli/internal/logger"
)

// version is set by Execute before the command tree runs.
var version = "dev"

// Persistent flags.
var (
	verbose  bool
	userFlag string
)

// Services the commands call. Nil services produce a clear error
// instead of a panic, so partially wired setups (and tests) stay safe.
var (
	ingestService    driving.IngestService
	documentService  driving.DocumentService
	assistantService driving.AssistantService
	settingsService  driving.SettingsService
)

var rootCmd = &cobra.Command{
	Use:   "medvault",
	Short: "Local-first vault for personal medical documents",
	Long: `MedVault ingests medical documents (lab reports, prescriptions,
discharge summaries), builds a searchable local knowledge base, and
answers questions about them with safety-screened AI responses.

All data stays on this machine in ~/.medvault.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "Owner ID for vault operations (default $MEDVAULT_USER or \"default\")")
}

// Services bundles the driving ports the CLI needs.
type Services struct {
	Ingest    driving.IngestService
	Document  driving.DocumentService
	Assistant driving.AssistantService
	Settings  driving.SettingsService
}

// SetServices injects the core services. Call before Execute.
func SetServices(s Services) {
	ingestService = s.Ingest
	documentService = s.Document
	assistantService = s.Assistant
	settingsService = s.Settings
}

// Execute runs the root command with the given build version.
func Execute(v string) error {
	if v != "" {
		version = v
	}
	return rootCmd.Execute()
}

// currentOwner resolves the owner ID for vault operations: the --user
// flag, then $MEDVAULT_USER, then "default". A single-user install
// never has to think about owners; a shared one can scope per person.
func currentOwner() string {
	if userFlag != "" {
		return userFlag
	}
	if env := os.Getenv("MEDVAULT_USER"); env != "" {
		return env
	}
	return "default"
}
