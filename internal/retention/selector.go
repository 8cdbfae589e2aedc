// Package retention partitions a retention group into snapshots to keep
// and snapshots to destroy.
package retention

import "github.com/migmedia/zfs-snappers/pkg/model"

// Partition splits a dataset's retention group into the newest keep
// snapshots and the expendable rest, oldest first. group must already be
// filtered to the active prefix+label and ordered oldest to newest; keep
// must not be negative (0 means keep none). Snapshots outside the group
// are never seen here, so other labels and other tools are untouched.
func Partition(group []model.Snapshot, keep int) (toKeep, toDestroy []model.Snapshot) {
	if keep >= len(group) {
		return group, nil
	}
	cut := len(group) - keep
	return group[cut:], group[:cut]
}
