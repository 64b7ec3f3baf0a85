// Package cli implements the caresync command line interface.
// It is a driving adapter: commands call core services through the
// driving ports and never reach into adapters directly.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/Mettice/caresync/internal/core/ports/driving"
	"github.com/Mettice/caresync/internal/logger"
)

// version is the caresync build version, overridable at link time.
var version = "0.1.0"

// Services injected by main before Execute. Commands guard against nil
// so a partially wired binary fails with a clear message instead of a panic.
var (
	ingestService       driving.Ingestor
	askService          driving.Asker
	documentService     driving.DocumentManager
	conversationService driving.ConversationManager
	settingsService     driving.SettingsService
)

// verboseFlag enables debug logging for all commands.
var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "caresync",
	Short: "Clinic document assistant",
	Long: `CareSync answers questions about your clinic, grounded in the
documents you ingest (PDF, DOCX, TXT).

Ingest documents, then ask questions; answers carry source citations
and a confidence estimate.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
	SilenceUsage: true,
}

// Services bundles the driving ports the CLI needs.
type Services struct {
	Ingestor     driving.Ingestor
	Asker        driving.Asker
	Document     driving.DocumentManager
	Conversation driving.ConversationManager
	Settings     driving.SettingsService
}

// SetServices injects the core services into the CLI commands.
func SetServices(s Services) {
	ingestService = s.Ingestor
	askService = s.Asker
	documentService = s.Document
	conversationService = s.Conversation
	settingsService = s.Settings
}

// SetVersion overrides the reported version.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging")
}
