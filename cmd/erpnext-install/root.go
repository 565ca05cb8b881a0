package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/meferspb/erpnext-debian13-install/internal/domain/step"
	"github.com/meferspb/erpnext-debian13-install/internal/ports"
)

var (
	// Global flags
	cfgFile   string
	verbose   bool
	quickFlag bool
	autoFlag  bool
)

var rootCmd = &cobra.Command{
	Use:   "erpnext-install",
	Short: "Provision an ERPNext stack on a fresh Debian 13 host",
	Long: `erpnext-install provisions the full ERPNext application stack (MariaDB,
Redis, Node.js, nginx, and the Frappe framework) onto a freshly
installed Debian 13 host.

Without flags it opens an interactive menu. With --automated (or
--silent) it runs end-to-end from defaults, environment variables, and
the optional config file, never reading the terminal. --quick does the
same with the local default site identity.

Generated credentials are written under an owner-only credentials
directory and summarized for retrieval after the run.`,
	SilenceErrors: true, // We handle error formatting ourselves
	SilenceUsage:  true, // Don't show usage on error
	RunE: func(_ *cobra.Command, _ []string) error {
		switch {
		case quickFlag:
			return runInstall(step.ModeQuick, false)
		case autoFlag:
			return runInstall(step.ModeAutomated, false)
		default:
			return runMenu()
		}
	},
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: /etc/erpnext-installer/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.Flags().BoolVar(&quickFlag, "quick", false, "non-interactive run with the local default site identity")
	rootCmd.Flags().BoolVar(&autoFlag, "automated", false, "non-interactive run driven by defaults, environment, and config")
	rootCmd.Flags().BoolVar(&autoFlag, "silent", false, "alias for --automated")

	rootCmd.AddCommand(uninstallCmd)
	rootCmd.AddCommand(versionCmd)
}

// formatError returns a user-facing error message. Structured installer
// errors render with their code and suggestion.
func formatError(err error) string {
	var ie *step.Error
	if errors.As(err, &ie) {
		return ie.Format()
	}
	if errors.Is(err, ports.ErrAborted) {
		return "aborted"
	}
	return err.Error()
}

// printError prints an error message to stderr with proper formatting.
func printError(err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", formatError(err))
}
