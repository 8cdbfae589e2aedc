package model

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout renders snapshot timestamps so that lexical order
// equals chronological order. Timestamps are always UTC.
const TimestampLayout = "20060102-1504"

// SnapshotName composes the full snapshot name for a dataset:
// {dataset}@{prefix}-{label}-{timestamp}.
func SnapshotName(dataset, prefix, label string, ts time.Time) string {
	return fmt.Sprintf("%s@%s-%s-%s", dataset, prefix, label, ts.UTC().Format(TimestampLayout))
}

// SplitSnapshotName splits a full snapshot name into its dataset and
// snapshot halves. ok is false for dataset rows and for names with an
// empty half on either side of the separator.
func SplitSnapshotName(full string) (dataset, snap string, ok bool) {
	dataset, snap, ok = strings.Cut(full, "@")
	if !ok || dataset == "" || snap == "" {
		return "", "", false
	}
	return dataset, snap, true
}

// GroupMember reports whether full names a snapshot created by this
// tool for the given prefix and label, and returns its timestamp part.
func GroupMember(full, prefix, label string) (timestamp string, ok bool) {
	_, snap, ok := SplitSnapshotName(full)
	if !ok {
		return "", false
	}
	rest, ok := strings.CutPrefix(snap, prefix+"-"+label+"-")
	if !ok || rest == "" {
		return "", false
	}
	return rest, true
}
