package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meferspb/erpnext-debian13-install/internal/domain/engine"
	"github.com/meferspb/erpnext-debian13-install/internal/domain/step"
	"github.com/meferspb/erpnext-debian13-install/internal/provider"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove an existing installation",
	Long: `uninstall removes the service account with its home directory, the
nginx site configuration, and every stored credential. It always asks
for confirmation, naming the account about to be destroyed, so it
cannot run unattended.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runUninstall(step.ModeInteractive)
	},
}

// runUninstall drives the removal path. The mode is always interactive
// because removal is gated by a confirmation that an automated prompter
// declines by default.
func runUninstall(mode step.Mode) error {
	runCtx, _, cleanup, err := buildRun(mode)
	if err != nil {
		return err
	}
	defer cleanup()

	eng := engine.New(provider.BuildRegistry(runCtx.Config()), provider.BuildUndoRegistry())

	accepted, err := eng.Uninstall(runCtx)
	if err != nil {
		return err
	}
	if accepted {
		fmt.Println("Installation removed.")
	}
	return nil
}
