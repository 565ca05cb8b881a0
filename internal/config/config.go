// Package config resolves the installer configuration from built-in
// defaults, an optional YAML config file, and environment variables,
// in that order of precedence.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Environment variables consulted for automated runs. Each is optional;
// missing values fall back to generation or defaults.
const (
	EnvDomain         = "ERPNEXT_DOMAIN"
	EnvAdminPassword  = "ERPNEXT_ADMIN_PASSWORD"
	EnvDBRootPassword = "ERPNEXT_DB_ROOT_PASSWORD"
	EnvServiceUser    = "ERPNEXT_SERVICE_USER"
)

// Default values used when neither the config file nor the environment
// overrides them.
const (
	DefaultDomain         = "erp.company.com"
	DefaultQuickDomain    = "erp.local"
	DefaultServiceUser    = "frappe"
	DefaultMinMemoryMB    = 2048
	DefaultMinDiskGB      = 10
	DefaultConfigPath     = "/etc/erpnext-installer/config.yaml"
	DefaultCredentialsDir = "/etc/erpnext-installer/credentials"
	DefaultLogFile        = "/var/log/erpnext-installer.log"
)

// Config is the resolved installer configuration: a flat set of named
// options, each independently optional in the config file.
type Config struct {
	Domain         string   `yaml:"domain"`
	QuickDomain    string   `yaml:"quick_domain"`
	ServiceUser    string   `yaml:"service_user"`
	MinMemoryMB    uint64   `yaml:"min_memory_mb"`
	MinDiskGB      uint64   `yaml:"min_disk_gb"`
	Firewall       bool     `yaml:"firewall"`
	Production     bool     `yaml:"production"`
	Addons         []string `yaml:"addons"`
	Verbose        bool     `yaml:"verbose"`
	CredentialsDir string   `yaml:"credentials_dir"`
	LogFile        string   `yaml:"log_file"`

	// Environment-only values; never read from the config file so
	// credentials stay out of world-readable config.
	AdminPassword  string `yaml:"-"`
	DBRootPassword string `yaml:"-"`
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		Domain:         DefaultDomain,
		QuickDomain:    DefaultQuickDomain,
		ServiceUser:    DefaultServiceUser,
		MinMemoryMB:    DefaultMinMemoryMB,
		MinDiskGB:      DefaultMinDiskGB,
		Firewall:       true,
		Production:     true,
		CredentialsDir: DefaultCredentialsDir,
		LogFile:        DefaultLogFile,
	}
}

// Load resolves the configuration. path may be empty, in which case the
// default location is consulted; a missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		cfg.fillEmpty()
	case os.IsNotExist(err) && !explicit:
		// Optional file absent: defaults stand.
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// fillEmpty restores defaults for keys the file set to empty values.
func (c *Config) fillEmpty() {
	d := Defaults()
	if c.Domain == "" {
		c.Domain = d.Domain
	}
	if c.QuickDomain == "" {
		c.QuickDomain = d.QuickDomain
	}
	if c.ServiceUser == "" {
		c.ServiceUser = d.ServiceUser
	}
	if c.MinMemoryMB == 0 {
		c.MinMemoryMB = d.MinMemoryMB
	}
	if c.MinDiskGB == 0 {
		c.MinDiskGB = d.MinDiskGB
	}
	if c.CredentialsDir == "" {
		c.CredentialsDir = d.CredentialsDir
	}
	if c.LogFile == "" {
		c.LogFile = d.LogFile
	}
}

// applyEnv overlays environment variables onto the configuration.
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDomain); v != "" {
		c.Domain = v
	}
	if v := os.Getenv(EnvServiceUser); v != "" {
		c.ServiceUser = v
	}
	if v := os.Getenv(EnvAdminPassword); v != "" {
		c.AdminPassword = v
	}
	if v := os.Getenv(EnvDBRootPassword); v != "" {
		c.DBRootPassword = v
	}
}

// BenchDir returns the bench workspace for the service user.
func (c *Config) BenchDir() string {
	return "/home/" + c.ServiceUser + "/frappe-bench"
}
