package engine

import (
	"fmt"
	"path/filepath"

	"github.com/meferspb/erpnext-debian13-install/internal/domain/step"
	"github.com/meferspb/erpnext-debian13-install/internal/ports"
)

// Uninstall removes an existing installation: it stops the dependent
// services, drops the site together with its database, deletes the
// service account with its home directory (and the bench under it), and
// removes the stored credential files. The whole path is gated by a
// single confirmation naming the account to be destroyed, and each
// removal is best-effort so a partial installation can still be cleaned
// up.
func (e *Engine) Uninstall(runCtx *step.RunContext) (bool, error) {
	cfg := runCtx.Config()
	log := runCtx.Log()
	user := cfg.ServiceUser

	accepted, err := runCtx.Prompt().Confirm(
		fmt.Sprintf("Permanently remove the %q account, its home directory, and all stored credentials?", user),
		false)
	if err != nil {
		return false, err
	}
	if !accepted {
		log.Info("uninstall cancelled")
		return false, nil
	}

	runner := runCtx.Runner()
	ctx := runCtx.Context()

	for _, svc := range []string{"supervisor", "nginx"} {
		if res, err := runner.Run(ctx, "systemctl", "stop", svc); err != nil || !res.Success() {
			log.Warn("could not stop service", ports.F("service", svc))
		}
	}

	siteConf := "/etc/nginx/conf.d/frappe-bench.conf"
	if runCtx.FS().Exists(siteConf) {
		if err := runCtx.FS().Remove(siteConf); err != nil {
			log.Warn("could not remove nginx site config", ports.F("path", siteConf))
		}
	}

	// The site must be dropped before userdel removes the bench, while
	// the stored root credential is still available.
	domain := runCtx.Site().Domain
	if domain == "" {
		domain = cfg.Domain
	}
	siteDir := filepath.Join(cfg.BenchDir(), "sites", domain)
	if undo := e.undo[step.KindSite]; undo != nil && runCtx.FS().IsDir(siteDir) {
		runCtx.Site().Domain = domain
		runCtx.Site().Created = true
		if err := undo(runCtx); err != nil {
			log.Warn("could not drop site", ports.F("site", domain), ports.F("error", err))
		}
	}

	// Kill leftover processes owned by the account before userdel.
	_, _ = runner.Run(ctx, "pkill", "-u", user)

	if res, err := runner.Run(ctx, "userdel", "-r", user); err != nil {
		return true, fmt.Errorf("remove account %s: %w", user, err)
	} else if !res.Success() {
		log.Warn("userdel reported an error", ports.F("account", user), ports.F("stderr", res.Stderr))
	}

	if err := runCtx.Secrets().RemoveAll(); err != nil {
		return true, fmt.Errorf("remove credentials: %w", err)
	}

	log.Info("installation removed", ports.F("account", user))
	return true, nil
}
