// Package provider assembles the step catalog: the ordered registry the
// engine executes and the per-kind undo actions rollback resolves.
package provider

import (
	"github.com/meferspb/erpnext-debian13-install/internal/config"
	"github.com/meferspb/erpnext-debian13-install/internal/domain/step"
	"github.com/meferspb/erpnext-debian13-install/internal/provider/account"
	"github.com/meferspb/erpnext-debian13-install/internal/provider/bench"
	"github.com/meferspb/erpnext-debian13-install/internal/provider/firewall"
	"github.com/meferspb/erpnext-debian13-install/internal/provider/mariadb"
	"github.com/meferspb/erpnext-debian13-install/internal/provider/nginx"
	"github.com/meferspb/erpnext-debian13-install/internal/provider/node"
	"github.com/meferspb/erpnext-debian13-install/internal/provider/redis"
	"github.com/meferspb/erpnext-debian13-install/internal/provider/system"
)

// BuildRegistry assembles the full installation in execution order.
// Optional components honor the configuration toggles; order matters
// because later steps assume the host state earlier steps establish.
func BuildRegistry(cfg *config.Config) *step.Registry {
	r := step.NewRegistry()
	r.MustRegister(
		system.NewAptRefreshStep(),
		system.NewBasePackagesStep(),
		system.NewWkhtmltopdfStep(),
		account.NewCreateStep(),
		mariadb.NewInstallStep(),
		mariadb.NewRootPasswordStep(),
		mariadb.NewSiteConfigStep(),
		redis.NewInstallStep(),
		node.NewRuntimeStep(),
		node.NewYarnStep(),
		bench.NewCLIStep(),
		bench.NewInitStep(),
		bench.NewSiteCreateStep(),
		bench.NewAppInstallStep(),
	)
	if len(cfg.Addons) > 0 {
		r.MustRegister(bench.NewAddonsStep(cfg.Addons))
	}
	if cfg.Production {
		r.MustRegister(nginx.NewProductionStep())
	}
	if cfg.Firewall {
		r.MustRegister(firewall.NewEnableStep())
	}
	return r
}

// BuildUndoRegistry maps every step kind to its undo action. Kinds
// whose changes are harmless to leave behind (installed packages, the
// runtime, the cache server) map to nil and are skipped by rollback.
func BuildUndoRegistry() step.UndoRegistry {
	return step.UndoRegistry{
		step.KindPackages: nil,
		step.KindAccount:  account.Undo,
		step.KindDatabase: mariadb.Undo,
		step.KindCache:    nil,
		step.KindRuntime:  nil,
		step.KindBench:    bench.UndoBench,
		step.KindSite:     bench.UndoSite,
		step.KindProxy:    nginx.Undo,
		step.KindFirewall: firewall.Undo,
	}
}
