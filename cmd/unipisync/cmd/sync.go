package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mkngrm/unipisync/internal/config"
	"github.com/mkngrm/unipisync/internal/pihole"
	"github.com/mkngrm/unipisync/internal/unifi"
	"github.com/mkngrm/unipisync/internal/verify"
	"github.com/mkngrm/unipisync/pkg/errors"
	"github.com/mkngrm/unipisync/pkg/logging"
	"github.com/mkngrm/unipisync/pkg/syncer"
)

var (
	syncDryRun     bool
	syncVerify     bool
	syncReportPath string
)

// syncCmd represents the sync command.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync active UniFi clients to Pi-hole host records",
	Long: `Sync fetches the controller's active clients, sanitizes and deduplicates
their names, and upserts one Pi-hole host record per client under the
configured DNS domain. Records whose address already matches are skipped;
a single record's failure never blocks the rest of the run.`,
	Example: `  unipisync sync
  unipisync sync --dry-run
  unipisync sync --config /etc/unipisync/config.env --verify
  unipisync sync --report /tmp/sync-report.yaml`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false,
		"show what would be synced without making changes")
	syncCmd.Flags().BoolVar(&syncVerify, "verify", false,
		"after syncing, query Pi-hole to confirm the applied records resolve")
	syncCmd.Flags().StringVar(&syncReportPath, "report", "",
		"write a YAML report of the run to this path")
}

func runSync(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	// The env file may carry logging settings; apply them now.
	setupLogging(cmd, nil)

	source := unifi.New(unifi.Config{
		Host:            cfg.UnifiHost,
		Port:            cfg.UnifiPort,
		APIToken:        cfg.UnifiAPIToken,
		Site:            cfg.UnifiSite,
		AllowedPrefixes: cfg.AllowedSubnets,
	})

	store := pihole.New(pihole.Config{
		Host:     cfg.PiholeHost,
		Password: cfg.PiholePassword,
		Domain:   cfg.DNSDomain,
	})

	s, err := syncer.New(source, store, cfg.DNSDomain)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if syncDryRun {
		logging.Ctx(ctx).Info().Msg("Starting unipisync (DRY RUN)")
	} else {
		logging.Ctx(ctx).Info().Msg("Starting unipisync")
	}

	result, err := s.Run(ctx, syncer.WithDryRun(syncDryRun))
	if err != nil {
		return err
	}

	if syncVerify && !syncDryRun {
		if applied := result.Applied(); len(applied) > 0 {
			checker := verify.New(cfg.PiholeHost)
			if mismatches := checker.Check(ctx, applied); len(mismatches) > 0 {
				logging.Ctx(ctx).Warn().
					Int("records", len(mismatches)).
					Msg("Some applied records did not verify; they may still be propagating")
			}
		}
	}

	if syncReportPath != "" {
		if err := writeReport(result, syncReportPath); err != nil {
			return err
		}
	}

	fmt.Printf("Sync complete: %d added, %d updated, %d skipped, %d failed\n",
		result.Summary.Added, result.Summary.Updated, result.Summary.Skipped, result.Summary.Failed)

	if !result.Success() {
		return fmt.Errorf("%d record(s) failed to sync", result.Summary.Failed)
	}
	return nil
}

// writeReport serializes the run result to a YAML file.
func writeReport(result *syncer.Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	defer func() { _ = f.Close() }()

	return result.WriteYAML(f)
}
