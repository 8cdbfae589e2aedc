// Package policy decides whether a dataset is due for a new snapshot.
package policy

import (
	"fmt"

	"github.com/migmedia/zfs-snappers/pkg/model"
)

// Decision is the outcome of evaluating one dataset. Reason explains a
// decision at debug level; a negative decision is not an error.
type Decision struct {
	Create bool
	Reason string
}

// Eligible reports whether the dataset has opted in to the active label.
// The per-label property wins when set; the global property accepts the
// universal sentinel or the label itself. An absent property and an
// explicit mismatch both mean "not eligible" - existing snapshots stay
// subject to retention either way.
func Eligible(ds *model.Dataset, label string) bool {
	switch ds.LabelOptIn {
	case model.OptInTrue, model.OptInOn:
		return true
	case "":
		// fall through to the global property
	default:
		return false
	}
	switch ds.OptIn {
	case model.OptInTrue, model.OptInOn, label:
		return label != ""
	}
	return false
}

// ShouldCreate evaluates the creation decision for one dataset. group is
// the dataset's snapshots already filtered to the active prefix+label,
// oldest first. minSize is in bytes; zero means create unconditionally.
// With a threshold set, a new snapshot is due while the newest matching
// snapshot stays below it, so the tool can be triggered more often than
// snapshots are actually taken.
func ShouldCreate(ds *model.Dataset, group []model.Snapshot, label string, minSize int64) Decision {
	if !Eligible(ds, label) {
		return Decision{
			Create: false,
			Reason: fmt.Sprintf("not opted in for label %q (com.sun:auto-snapshot=%q, :%s=%q)",
				label, ds.OptIn, label, ds.LabelOptIn),
		}
	}

	if len(group) == 0 {
		return Decision{Create: true, Reason: "no prior matching snapshot"}
	}

	if minSize == 0 {
		return Decision{Create: true, Reason: "no minimum size configured"}
	}

	last := group[len(group)-1]
	if last.Written < minSize {
		return Decision{
			Create: true,
			Reason: fmt.Sprintf("last snapshot %s wrote %d bytes, below threshold %d", last.Name, last.Written, minSize),
		}
	}
	return Decision{
		Create: false,
		Reason: fmt.Sprintf("last snapshot %s wrote %d bytes, at or above threshold %d", last.Name, last.Written, minSize),
	}
}
