package zfs_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/migmedia/zfs-snappers/internal/zfs"
	"github.com/migmedia/zfs-snappers/pkg/errclass"
)

func TestParseInventory_DatasetRow(t *testing.T) {
	inv, err := zfs.ParseInventory([]string{
		"tank\t24576\t-\t-\t1608216521",
	})
	require.NoError(t, err)
	require.Contains(t, inv.Datasets, "tank")

	ds := inv.Datasets["tank"]
	assert.Equal(t, int64(24576), ds.Written)
	assert.Empty(t, ds.OptIn)
	assert.Empty(t, ds.LabelOptIn)
	assert.Empty(t, ds.Snapshots)
}

func TestParseInventory_OptInColumns(t *testing.T) {
	inv, err := zfs.ParseInventory([]string{
		"tank/a\t100\ttrue\t-\t1608216521",
		"tank/b\t100\t-\ttrue\t1608216521",
		"tank/c\t100\tfalse\tfalse\t1608216521",
	})
	require.NoError(t, err)
	assert.Equal(t, "true", inv.Datasets["tank/a"].OptIn)
	assert.Equal(t, "true", inv.Datasets["tank/b"].LabelOptIn)
	assert.Equal(t, "false", inv.Datasets["tank/c"].OptIn)
	assert.Equal(t, "false", inv.Datasets["tank/c"].LabelOptIn)
}

func TestParseInventory_SnapshotsAttachOldestFirst(t *testing.T) {
	inv, err := zfs.ParseInventory([]string{
		"tank/SRV/www\t245643\t-\ttrue\t1608200000",
		"tank/SRV/www@zfs-snappers-weekly-20201217-1907\t245643\t-\t-\t1608216921",
		"tank/SRV/www@zfs-snappers-weekly-20201217-1207\t23234\t-\t-\t1608216421",
		"tank/SRV/www@zfs-snappers-weekly-20201217-1607\t12340\t-\t-\t1608216821",
	})
	require.NoError(t, err)

	ds := inv.Datasets["tank/SRV/www"]
	require.Len(t, ds.Snapshots, 3)
	assert.Equal(t, "tank/SRV/www@zfs-snappers-weekly-20201217-1207", ds.Snapshots[0].Name)
	assert.Equal(t, "tank/SRV/www@zfs-snappers-weekly-20201217-1607", ds.Snapshots[1].Name)
	assert.Equal(t, "tank/SRV/www@zfs-snappers-weekly-20201217-1907", ds.Snapshots[2].Name)
	assert.Equal(t, time.Unix(1608216421, 0).UTC(), ds.Snapshots[0].CreatedAt)
}

func TestParseInventory_SnapshotBeforeDatasetRow(t *testing.T) {
	inv, err := zfs.ParseInventory([]string{
		"tank/data@zfs-snappers-daily-20260829-0000\t100\t-\t-\t1608216421",
		"tank/data\t500\t-\ttrue\t1608200000",
	})
	require.NoError(t, err)

	ds := inv.Datasets["tank/data"]
	assert.Equal(t, "true", ds.LabelOptIn)
	assert.Len(t, ds.Snapshots, 1)
}

func TestParseInventory_OrphanSnapshotSynthesizesDataset(t *testing.T) {
	// A snapshot whose dataset row is missing must still be visible, or
	// retention would orphan snapshots after a policy change.
	inv, err := zfs.ParseInventory([]string{
		"tank/gone@zfs-snappers-daily-20260829-0000\t100\t-\t-\t1608216421",
	})
	require.NoError(t, err)

	ds := inv.Datasets["tank/gone"]
	require.NotNil(t, ds)
	assert.Empty(t, ds.OptIn)
	assert.Len(t, ds.Snapshots, 1)
}

func TestParseInventory_UnsetSizeIsZero(t *testing.T) {
	inv, err := zfs.ParseInventory([]string{
		"tank\t-\t-\t-\t1608216521",
	})
	require.NoError(t, err)
	assert.Zero(t, inv.Datasets["tank"].Written)
}

func TestParseInventory_MalformedRowsFailWholeParse(t *testing.T) {
	tests := []struct {
		name string
		row  string
	}{
		{"too few columns", "tank\t24576\t-\t-"},
		{"too many columns", "tank\t24576\t-\t-\t1608216521\textra"},
		{"bad size", "tank\tlots\t-\t-\t1608216521"},
		{"negative size", "tank\t-5\t-\t-\t1608216521"},
		{"bad creation", "tank\t24576\t-\t-\tyesterday"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := zfs.ParseInventory([]string{"tank\t1\t-\t-\t1608216521", tt.row})
			assert.ErrorIs(t, err, errclass.ErrInventoryMalformed)
		})
	}
}

func TestParseInventory_Deterministic(t *testing.T) {
	rows := []string{
		"tank/b\t1\ttrue\t-\t1608216521",
		"tank/a\t2\t-\ttrue\t1608216521",
		"tank/a@zfs-snappers-daily-20260829-0000\t3\t-\t-\t1608216421",
	}
	first, err := zfs.ParseInventory(rows)
	require.NoError(t, err)
	second, err := zfs.ParseInventory(rows)
	require.NoError(t, err)

	assert.Equal(t, first.Names(), second.Names())
	assert.Equal(t, []string{"tank/a", "tank/b"}, first.Names())
	assert.Equal(t, first.Datasets, second.Datasets)
}

func TestParseInventory_EmptyLinesIgnored(t *testing.T) {
	inv, err := zfs.ParseInventory([]string{"", "tank\t1\t-\t-\t1608216521", ""})
	require.NoError(t, err)
	assert.Len(t, inv.Datasets, 1)
}
