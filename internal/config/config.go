// Package config loads and validates unipisync configuration from an env
// file (config.env by default) and the process environment. Environment
// variables win over file values, which godotenv guarantees by never
// overriding variables that are already set.
package config

import (
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/mkngrm/unipisync/pkg/errors"
	"github.com/mkngrm/unipisync/pkg/logging"
)

// DefaultEnvFile is the env file looked up in the working directory when no
// explicit --config path is given.
const DefaultEnvFile = "config.env"

// Config holds every input the sync orchestrator needs.
type Config struct {
	// UniFi controller
	UnifiHost     string
	UnifiPort     string
	UnifiAPIToken string
	UnifiSite     string

	// Pi-hole record store
	PiholeHost     string
	PiholePassword string

	// DNSDomain is the suffix appended to every sanitized name.
	DNSDomain string

	// AllowedSubnets restricts syncing to clients whose address starts
	// with one of these prefixes. Empty means no restriction.
	AllowedSubnets []string

	// Logging
	LogFile  string
	LogLevel string
}

// Load reads configuration from the given env file (or config.env / the bare
// environment when path is empty) and validates it.
func Load(path string) (*Config, error) {
	if err := loadEnvFile(path); err != nil {
		return nil, err
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("UNIFI_PORT", "443")
	v.SetDefault("UNIFI_SITE", "default")
	v.SetDefault("LOG_LEVEL", "info")

	cfg := &Config{
		UnifiHost:      v.GetString("UNIFI_HOST"),
		UnifiPort:      v.GetString("UNIFI_PORT"),
		UnifiAPIToken:  v.GetString("UNIFI_API_TOKEN"),
		UnifiSite:      v.GetString("UNIFI_SITE"),
		PiholeHost:     v.GetString("PIHOLE_HOST"),
		PiholePassword: v.GetString("PIHOLE_PASSWORD"),
		DNSDomain:      v.GetString("DNS_DOMAIN"),
		AllowedSubnets: splitList(v.GetString("ALLOWED_SUBNETS")),
		LogFile:        v.GetString("LOG_FILE"),
		LogLevel:       v.GetString("LOG_LEVEL"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadEnvFile loads variables from an env file into the process environment.
// An explicit path must exist; the default path is optional.
func loadEnvFile(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return errors.NewConfigError("env file", "cannot read "+path, err)
		}
		return nil
	}

	if _, err := os.Stat(DefaultEnvFile); err == nil {
		if err := godotenv.Load(DefaultEnvFile); err != nil {
			return errors.NewConfigError("env file", "cannot read "+DefaultEnvFile, err)
		}
		return nil
	}

	logging.Warn().Msg("No config.env found, using environment variables")
	return nil
}

// Validate reports every missing required key at once, so an operator fixes
// the file in one pass.
func (c *Config) Validate() error {
	required := map[string]string{
		"UNIFI_HOST":      c.UnifiHost,
		"UNIFI_API_TOKEN": c.UnifiAPIToken,
		"PIHOLE_HOST":     c.PiholeHost,
		"PIHOLE_PASSWORD": c.PiholePassword,
		"DNS_DOMAIN":      c.DNSDomain,
	}

	var missing []string
	for key, value := range required {
		if value == "" {
			missing = append(missing, key)
		}
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return errors.NewConfigError("", "missing required configuration: "+strings.Join(missing, ", "), nil)
	}

	return nil
}

// splitList parses a comma-separated list, trimming whitespace and dropping
// empty items.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
