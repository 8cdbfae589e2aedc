package zfs

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/migmedia/zfs-snappers/pkg/errclass"
	"github.com/migmedia/zfs-snappers/pkg/model"
)

// inventoryColumns is the number of tab-separated fields per row:
// name, used, com.sun:auto-snapshot, com.sun:auto-snapshot:<label>, creation.
const inventoryColumns = 5

// Inventory is the parsed dataset tree of one run.
type Inventory struct {
	Datasets map[string]*model.Dataset
}

// Names returns the dataset names in sorted order so every run visits
// datasets in the same sequence.
func (inv *Inventory) Names() []string {
	names := make([]string, 0, len(inv.Datasets))
	for name := range inv.Datasets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseInventory turns raw `zfs list -Hp` rows into the typed model.
// Rows are dataset or snapshot rows, discriminated by the "@" separator
// in the name. Any malformed row fails the whole parse: a silently
// skipped row could later make the run destroy a snapshot the operator
// wanted to keep.
func ParseInventory(rows []string) (*Inventory, error) {
	inv := &Inventory{Datasets: make(map[string]*model.Dataset)}

	for i, row := range rows {
		if row == "" {
			continue
		}
		fields := strings.Split(row, "\t")
		if len(fields) != inventoryColumns {
			return nil, errclass.ErrInventoryMalformed.WithMessagef(
				"row %d: expected %d columns, got %d: %q", i+1, inventoryColumns, len(fields), row)
		}

		name := fields[0]
		written, err := parseSize(fields[1])
		if err != nil {
			return nil, errclass.ErrInventoryMalformed.WithMessagef(
				"row %d: bad size %q: %v", i+1, fields[1], err)
		}
		creation, err := parseCreation(fields[4])
		if err != nil {
			return nil, errclass.ErrInventoryMalformed.WithMessagef(
				"row %d: bad creation time %q: %v", i+1, fields[4], err)
		}

		dataset, _, isSnapshot := model.SplitSnapshotName(name)
		if isSnapshot {
			ds := inv.dataset(dataset)
			ds.Snapshots = append(ds.Snapshots, model.Snapshot{
				Dataset:   dataset,
				Name:      name,
				Written:   written,
				CreatedAt: creation,
			})
			continue
		}

		ds := inv.dataset(name)
		ds.Written = written
		ds.OptIn = propValue(fields[2])
		ds.LabelOptIn = propValue(fields[3])
	}

	// The inventory reports snapshots in creation order per dataset, but
	// keep the guarantee even when rows arrive interleaved. Stable sort
	// leaves list order authoritative for identical creation times.
	for _, ds := range inv.Datasets {
		sort.SliceStable(ds.Snapshots, func(i, j int) bool {
			return ds.Snapshots[i].CreatedAt.Before(ds.Snapshots[j].CreatedAt)
		})
	}

	return inv, nil
}

// dataset returns the entry for name, creating it if a snapshot row
// arrives before (or without) its dataset row. A dataset synthesized
// this way has no opt-in and is only ever pruned, never snapshotted.
func (inv *Inventory) dataset(name string) *model.Dataset {
	ds, ok := inv.Datasets[name]
	if !ok {
		ds = &model.Dataset{Name: name}
		inv.Datasets[name] = ds
	}
	return ds
}

// parseSize parses the `used` column. "-" means the property is unset
// and counts as zero.
func parseSize(s string) (int64, error) {
	if s == "-" {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, strconv.ErrRange
	}
	return n, nil
}

func parseCreation(s string) (time.Time, error) {
	if s == "-" {
		return time.Time{}, nil
	}
	sec, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(sec, 0).UTC(), nil
}

// propValue normalizes a property column: "-" means unset.
func propValue(s string) string {
	if s == "-" {
		return ""
	}
	return s
}
