package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/migmedia/zfs-snappers/pkg/errclass"
)

var (
	jsonOutput bool
	noColor    bool
	rootCmd    = &cobra.Command{
		Use:   "zfs-snappers",
		Short: "zfs-snappers - retention-driven ZFS snapshot management",
		Long: `zfs-snappers inspects the local ZFS dataset tree, creates a new
snapshot for every dataset opted in to the given retention label, and
destroys matching snapshots beyond the configured keep count. It is
meant to be invoked periodically, e.g. from a systemd timer.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return errclass.ErrUsage.WithMessage(err.Error())
	})
}

// Execute runs the root command and exits the process: 0 on success,
// 2 on usage or configuration errors, 1 on everything else.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(errclass.ExitCode(err))
	}
}

// outputJSON prints v as JSON if --json flag is set, otherwise does nothing.
func outputJSON(v any) error {
	if !jsonOutput {
		return nil
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
