package retention_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/migmedia/zfs-snappers/internal/retention"
	"github.com/migmedia/zfs-snappers/pkg/model"
)

func group(n int) []model.Snapshot {
	out := make([]model.Snapshot, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, model.Snapshot{
			Name: fmt.Sprintf("tank/data@zfs-snappers-daily-202608%02d-0000", i+1),
		})
	}
	return out
}

func TestPartition_KeepEightOfTen(t *testing.T) {
	g := group(10)
	toKeep, toDestroy := retention.Partition(g, 8)

	require.Len(t, toKeep, 8)
	require.Len(t, toDestroy, 2)
	// The two oldest go.
	assert.Equal(t, g[0].Name, toDestroy[0].Name)
	assert.Equal(t, g[1].Name, toDestroy[1].Name)
	// The newest survive.
	assert.Equal(t, g[2].Name, toKeep[0].Name)
	assert.Equal(t, g[9].Name, toKeep[7].Name)
}

func TestPartition_KeepAtLeastGroupSize(t *testing.T) {
	g := group(3)
	toKeep, toDestroy := retention.Partition(g, 4)
	assert.Len(t, toKeep, 3)
	assert.Empty(t, toDestroy)

	toKeep, toDestroy = retention.Partition(g, 3)
	assert.Len(t, toKeep, 3)
	assert.Empty(t, toDestroy)
}

func TestPartition_KeepZeroDestroysAll(t *testing.T) {
	g := group(3)
	toKeep, toDestroy := retention.Partition(g, 0)
	assert.Empty(t, toKeep)
	assert.Len(t, toDestroy, 3)
}

func TestPartition_EmptyGroup(t *testing.T) {
	toKeep, toDestroy := retention.Partition(nil, 8)
	assert.Empty(t, toKeep)
	assert.Empty(t, toDestroy)
}

func TestPartition_Exhaustive(t *testing.T) {
	for length := 0; length <= 6; length++ {
		for keep := 0; keep <= 8; keep++ {
			g := group(length)
			toKeep, toDestroy := retention.Partition(g, keep)

			wantKeep := keep
			if wantKeep > length {
				wantKeep = length
			}
			assert.Len(t, toKeep, wantKeep, "length=%d keep=%d", length, keep)
			assert.Len(t, toDestroy, length-wantKeep, "length=%d keep=%d", length, keep)

			// Destroy then keep reconstructs the group exactly: no
			// loss, no duplication, order preserved.
			reassembled := append(append([]model.Snapshot{}, toDestroy...), toKeep...)
			assert.Equal(t, g, reassembled, "length=%d keep=%d", length, keep)
		}
	}
}

func TestPartition_DuplicateNamesKeepListOrder(t *testing.T) {
	// Identical timestamp-derived names should not happen, but when they
	// do, list position decides which one is older.
	g := []model.Snapshot{
		{Name: "tank@zfs-snappers-daily-20260830-0000"},
		{Name: "tank@zfs-snappers-daily-20260830-0000"},
	}
	_, toDestroy := retention.Partition(g, 1)
	require.Len(t, toDestroy, 1)
	assert.Equal(t, g[0], toDestroy[0])
}
