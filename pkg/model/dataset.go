// Package model holds the core snapshot domain types shared by the
// inventory parser, the policy evaluator and the plan runner.
package model

import "time"

// Recognised values of the auto-snapshot properties. Any other value,
// including the empty string for an unset property, means the dataset
// has not opted in.
const (
	OptInTrue = "true"
	OptInOn   = "on"
)

// Dataset is one filesystem or volume from the inventory together with
// the snapshots that belong to it.
type Dataset struct {
	// Name is the full dataset path, e.g. "tank/SRV/www".
	Name string

	// OptIn is the value of the global auto-snapshot property, or ""
	// when the property is unset.
	OptIn string

	// LabelOptIn is the value of the per-label auto-snapshot property.
	// When set it overrides OptIn for that label.
	LabelOptIn string

	// Written is the size reported for the dataset row, in bytes.
	Written int64

	// Snapshots are this dataset's snapshots, oldest first.
	Snapshots []Snapshot
}

// Snapshot is one snapshot row from the inventory.
type Snapshot struct {
	// Dataset is the owning dataset path.
	Dataset string

	// Name is the full snapshot name including the dataset,
	// e.g. "tank/SRV/www@zfs-snappers-daily-20260830-1407".
	Name string

	// Written is the size reported for the snapshot row, in bytes.
	Written int64

	// CreatedAt is the snapshot's creation time.
	CreatedAt time.Time
}

// Group filters snaps down to the ones this tool created for the given
// prefix and label, preserving order. Snapshots from other tools, other
// prefixes or other labels are invisible to retention.
func Group(snaps []Snapshot, prefix, label string) []Snapshot {
	var out []Snapshot
	for _, sn := range snaps {
		if _, ok := GroupMember(sn.Name, prefix, label); ok {
			out = append(out, sn)
		}
	}
	return out
}
