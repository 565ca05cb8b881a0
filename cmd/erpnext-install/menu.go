package main

import (
	"errors"

	"github.com/meferspb/erpnext-debian13-install/internal/adapters/prompt"
	"github.com/meferspb/erpnext-debian13-install/internal/domain/step"
	"github.com/meferspb/erpnext-debian13-install/internal/ports"
)

// Menu entry keys.
const (
	menuFull      = "full"
	menuStepwise  = "stepwise"
	menuUninstall = "uninstall"
	menuExit      = "exit"
)

// runMenu shows the top-level menu and dispatches the chosen action.
// The menu loops after an aborted action so a stray Esc does not drop
// the operator back to the shell.
func runMenu() error {
	prompter := prompt.NewTerminalPrompter()

	options := []ports.SelectOption{
		{Key: menuFull, Label: "Full installation"},
		{Key: menuStepwise, Label: "Step-by-step installation"},
		{Key: menuUninstall, Label: "Remove existing installation"},
		{Key: menuExit, Label: "Exit"},
	}

	for {
		choice, err := prompter.Select("ERPNext installer", options)
		if err != nil {
			if errors.Is(err, ports.ErrAborted) {
				return nil
			}
			return err
		}

		switch choice {
		case menuFull:
			return runInstall(step.ModeInteractive, false)
		case menuStepwise:
			return runInstall(step.ModeInteractive, true)
		case menuUninstall:
			if err := runUninstall(step.ModeInteractive); err != nil {
				if errors.Is(err, ports.ErrAborted) {
					continue
				}
				return err
			}
			return nil
		case menuExit:
			return nil
		}
	}
}
