// Package report writes an end-of-run summary file for external
// monitoring, e.g. a timer unit checking the last run's outcome.
package report

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/migmedia/zfs-snappers/pkg/fsutil"
	"github.com/migmedia/zfs-snappers/pkg/model"
)

// RunReport is the file content.
type RunReport struct {
	Label      string        `json:"label"`
	Prefix     string        `json:"prefix"`
	DryRun     bool          `json:"dry_run"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Actions    int           `json:"actions"`
	Result     *model.Result `json:"result"`
}

// Write serializes the report and writes it atomically, so a monitor
// reading the path never sees a half-written file.
func Write(path string, rep *RunReport) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := fsutil.AtomicWrite(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}
