// Package cmd implements the unipisync command line interface.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mkngrm/unipisync/pkg/logging"
)

var (
	configFile string
	verbose    bool

	// Version information set by main.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// Date is the build date.
	Date = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "unipisync",
	Short: "Sync UniFi DHCP clients to Pi-hole DNS records",
	Long: `unipisync keeps Pi-hole host records in step with the clients a UniFi
controller sees on the network, so devices with dynamic addresses stay
resolvable by a stable name.

Each run fetches the controller's active clients, normalizes their names
into DNS-safe labels, diffs them against Pi-hole's existing records, and
applies the minimal set of idempotent upserts. Records never observed by
the controller are left alone; nothing is ever deleted.`,
	SilenceUsage:      true,
	PersistentPreRun:  setupLogging,
	CompletionOptions: cobra.CompletionOptions{HiddenDefaultCmd: true},
}

// Execute runs the root command with signal-aware cancellation. An interrupt
// exits with the conventional 130; any other failure exits 1.
func Execute(version, commit, date string) {
	Version = version
	Commit = commit
	Date = date

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if ctx.Err() != nil {
			os.Exit(130)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "",
		"path to configuration env file (default: config.env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"enable verbose (debug) logging")
}

// setupLogging configures the logger before any command runs. The --verbose
// flag wins over LOG_LEVEL; LOG_FORMAT, LOG_OUTPUT, and LOG_FILE come from
// the environment. It runs again after the env file is loaded, so settings
// from config.env take effect too.
func setupLogging(_ *cobra.Command, _ []string) {
	level := zerolog.InfoLevel
	if envLevel := os.Getenv("LOG_LEVEL"); envLevel != "" {
		if parsed, err := zerolog.ParseLevel(envLevel); err == nil {
			level = parsed
		}
	}
	if verbose {
		level = zerolog.DebugLevel
	}

	output := os.Getenv("LOG_OUTPUT")
	if output == "" {
		output = os.Getenv("LOG_FILE")
	}
	if output == "" {
		output = "stderr"
	}

	cfg := &logging.Config{
		Level:     level.String(),
		Format:    os.Getenv("LOG_FORMAT"),
		Output:    output,
		AddCaller: level <= zerolog.DebugLevel,
	}
	if cfg.Format == "" {
		cfg.Format = "auto"
	}

	logging.Configure(cfg)
}
