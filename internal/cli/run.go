package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/migmedia/zfs-snappers/internal/plan"
	"github.com/migmedia/zfs-snappers/internal/report"
	"github.com/migmedia/zfs-snappers/internal/runlock"
	"github.com/migmedia/zfs-snappers/internal/zfs"
	"github.com/migmedia/zfs-snappers/pkg/color"
	"github.com/migmedia/zfs-snappers/pkg/config"
	"github.com/migmedia/zfs-snappers/pkg/errclass"
	"github.com/migmedia/zfs-snappers/pkg/labelutil"
	"github.com/migmedia/zfs-snappers/pkg/logging"
	"github.com/migmedia/zfs-snappers/pkg/model"
	"github.com/migmedia/zfs-snappers/pkg/template"
	"github.com/migmedia/zfs-snappers/pkg/webhook"
)

var (
	runMinSizeKiB int64
	runKeep       int
	runPrefix     string
	runDryRun     bool
	runVerbose    bool
	runDebug      bool
	runNoLock     bool
	runConfigPath string
	runReportPath string
)

var runCmd = &cobra.Command{
	Use:   "run LABEL",
	Short: "Create and prune snapshots for a retention label",
	Long: `Run one snapshot pass for the given retention label, e.g. "hourly"
or "daily".

Datasets opt in per label with the com.sun:auto-snapshot:<label>
property, or globally with com.sun:auto-snapshot=true. For every opted-in
dataset a snapshot named <dataset>@<prefix>-<label>-<timestamp> is
created, then matching snapshots beyond --keep are destroyed, oldest
first. Snapshots under other prefixes or labels are never touched.

With --min-size, creation is skipped while the newest matching snapshot
has at least that much data written. Existing snapshots are pruned even
for datasets no longer opted in, so a policy change does not orphan
previously created snapshots.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return errclass.ErrUsage.WithMessagef("expected exactly one LABEL argument, got %d", len(args))
		}
		return nil
	},
	RunE: runSnapshots,
}

func init() {
	runCmd.Flags().Int64VarP(&runMinSizeKiB, "min-size", "m", 0, "minimum written size of the last snapshot in KiB before a new one is created (0 = always create)")
	runCmd.Flags().IntVarP(&runKeep, "keep", "k", 8, "number of matching snapshots to keep")
	runCmd.Flags().StringVarP(&runPrefix, "prefix", "p", "zfs-snappers", "snapshot name prefix ({hostname}, {user} and {arch} are expanded)")
	runCmd.Flags().BoolVarP(&runDryRun, "dry-run", "n", false, "report actions without submitting them")
	runCmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "log info messages")
	runCmd.Flags().BoolVar(&runDebug, "debug", false, "log debug messages")
	runCmd.Flags().BoolVar(&runNoLock, "no-lock", false, "skip the run lock (caller serializes runs itself)")
	runCmd.Flags().StringVar(&runConfigPath, "config", "", "config file (default "+config.DefaultPath+")")
	runCmd.Flags().StringVar(&runReportPath, "report", "", "write a JSON run report to this file")
	rootCmd.AddCommand(runCmd)
}

func runSnapshots(cmd *cobra.Command, args []string) error {
	color.Init(noColor)
	label := args[0]

	cfg, err := config.Load(runConfigPath)
	if err != nil {
		return err
	}

	// Flags override the config file.
	flags := cmd.Flags()
	if !flags.Changed("keep") {
		runKeep = cfg.Snapshots.Keep
	}
	if !flags.Changed("prefix") {
		runPrefix = cfg.Snapshots.Prefix
	}
	if !flags.Changed("min-size") {
		runMinSizeKiB = cfg.Snapshots.MinSizeKiB
	}

	log := logging.NewLogger(logLevel(cfg))
	log.SetFormat(logging.Format(cfg.Logging.Format))
	logging.SetGlobal(log)

	prefix := template.Expand(runPrefix)
	if err := validateRunInputs(label, prefix, runKeep, runMinSizeKiB); err != nil {
		return err
	}

	if !runDryRun && !runNoLock {
		lockPath := cfg.LockPath
		if lockPath == "" {
			lockPath = runlock.DefaultPath()
		}
		lock, err := runlock.Acquire(lockPath)
		if err != nil {
			return err
		}
		defer lock.Release()
	}

	var notifier *webhook.Notifier
	if cfg.Webhooks.Enabled {
		notifier = webhook.NewNotifier(cfg.Webhooks, log)
	}

	runner := plan.NewRunner(zfs.NewCLI(label, log), plan.Options{
		Label:   label,
		Prefix:  prefix,
		Keep:    runKeep,
		MinSize: runMinSizeKiB * 1024,
		DryRun:  runDryRun,
		Now:     time.Now,
	}, log, notifier)

	ctx := cmd.Context()
	startedAt := time.Now().UTC()

	p, err := runner.Plan(ctx)
	if err != nil {
		return err
	}
	result := runner.Execute(ctx, p)

	if runReportPath != "" {
		rep := &report.RunReport{
			Label:      label,
			Prefix:     prefix,
			DryRun:     runDryRun,
			StartedAt:  startedAt,
			FinishedAt: time.Now().UTC(),
			Actions:    len(p.Actions),
			Result:     result,
		}
		if err := report.Write(runReportPath, rep); err != nil {
			log.ErrorErr("write run report", err)
		}
	}

	if jsonOutput {
		outputJSON(struct {
			Plan   *model.Plan   `json:"plan"`
			Result *model.Result `json:"result"`
		}{p, result})
	} else {
		printSummary(p, result)
	}

	if !result.Clean() {
		failed := result.CreatesFailed + result.DestroysFailed
		return errclass.ErrActionFailed.WithMessagef("%d of %d actions failed", failed, len(p.Actions))
	}
	return nil
}

// validateRunInputs rejects invalid configuration before any external
// call is made.
func validateRunInputs(label, prefix string, keep int, minSizeKiB int64) error {
	if err := labelutil.ValidateLabel(label); err != nil {
		return err
	}
	if err := labelutil.ValidatePrefix(prefix); err != nil {
		return err
	}
	if keep < 0 {
		return errclass.ErrConfigInvalid.WithMessagef("--keep must not be negative: %d", keep)
	}
	if minSizeKiB < 0 {
		return errclass.ErrConfigInvalid.WithMessagef("--min-size must not be negative: %d", minSizeKiB)
	}
	return nil
}

func logLevel(cfg *config.Config) logging.Level {
	if runDebug || runVerbose {
		return logging.LevelForFlags(runVerbose, runDebug)
	}
	return logging.ParseLevel(cfg.Logging.Level)
}

func printSummary(p *model.Plan, result *model.Result) {
	if runDryRun {
		creates, destroys := 0, 0
		for _, a := range p.Actions {
			if a.Kind == model.ActionCreate {
				creates++
			} else {
				destroys++
			}
		}
		fmt.Printf("Dry run: would create %d and destroy %d snapshots.\n", creates, destroys)
		return
	}

	fmt.Printf("Created %d, destroyed %d snapshots.\n", result.CreatesOK, result.DestroysOK)
	for _, f := range result.Failures {
		fmt.Printf("  %s %s failed: %s\n", f.Action.Kind, color.Snapshot(f.Action.SnapshotName), f.Reason)
	}
}
