package validation

import (
	"fmt"

	"github.com/meferspb/erpnext-debian13-install/internal/config"
	"github.com/meferspb/erpnext-debian13-install/internal/domain/step"
	"github.com/meferspb/erpnext-debian13-install/internal/hostinfo"
	"github.com/meferspb/erpnext-debian13-install/internal/ports"
)

// CheckSuperuser verifies the installer runs as a privileged principal.
// euid is injected so tests can exercise both branches.
func CheckSuperuser(euid int) error {
	if euid != 0 {
		return step.NewError(step.CodePrecondition, "this installer must run as root").
			WithSuggestion("re-run with sudo or as the root account")
	}
	return nil
}

// Preflight runs the host checks once at the start of a full run, in
// order: host identity (warn only), memory (warn, interactive
// override), disk (always fatal). It runs before any step and before
// any secret is generated.
func Preflight(profile hostinfo.Profile, cfg *config.Config, mode step.Mode, prompter ports.Prompter, log ports.Logger) error {
	if !profile.MatchesTarget() {
		log.Warn("host does not match the target OS release",
			ports.F("detected", profile.PrettyName),
			ports.F("target", fmt.Sprintf("%s %s", hostinfo.TargetOSID, hostinfo.TargetOSVersion)))
	}

	if profile.MemTotalMB < cfg.MinMemoryMB {
		log.Warn("host memory below recommended minimum",
			ports.F("memory_mb", profile.MemTotalMB),
			ports.F("minimum_mb", cfg.MinMemoryMB))
		if mode.Interactive() {
			cont, err := prompter.Confirm("Memory is below the recommended minimum. Continue anyway?", true)
			if err != nil {
				return err
			}
			if !cont {
				return ports.ErrAborted
			}
		}
	}

	if profile.DiskFreeGB < cfg.MinDiskGB {
		return step.NewError(step.CodeResource,
			fmt.Sprintf("insufficient free disk space: %d GiB available, %d GiB required", profile.DiskFreeGB, cfg.MinDiskGB)).
			WithSuggestion("free up disk space or provision a larger volume")
	}

	return nil
}
