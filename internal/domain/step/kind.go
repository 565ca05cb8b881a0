package step

// Kind classifies steps for rollback: undo actions are resolved per
// kind, not per step instance.
type Kind int

const (
	// KindPackages covers apt package installation steps.
	KindPackages Kind = iota
	// KindAccount covers service account creation.
	KindAccount
	// KindDatabase covers MariaDB server setup and configuration.
	KindDatabase
	// KindCache covers the Redis cache server.
	KindCache
	// KindRuntime covers the Node.js runtime and yarn.
	KindRuntime
	// KindBench covers the bench CLI and bench workspace.
	KindBench
	// KindSite covers site creation and app installation.
	KindSite
	// KindProxy covers nginx and production wiring.
	KindProxy
	// KindFirewall covers the optional firewall add-on.
	KindFirewall
)

// kindNames must cover every Kind; String is used in logs and the report.
var kindNames = map[Kind]string{
	KindPackages: "packages",
	KindAccount:  "account",
	KindDatabase: "database",
	KindCache:    "cache",
	KindRuntime:  "runtime",
	KindBench:    "bench",
	KindSite:     "site",
	KindProxy:    "proxy",
	KindFirewall: "firewall",
}

// String returns the kind's name.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Kinds returns every known kind in declaration order.
func Kinds() []Kind {
	return []Kind{
		KindPackages,
		KindAccount,
		KindDatabase,
		KindCache,
		KindRuntime,
		KindBench,
		KindSite,
		KindProxy,
		KindFirewall,
	}
}
