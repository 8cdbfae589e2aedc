package zfs

import (
	"context"
	"errors"
	"fmt"
)

// Fake is a scripted Collaborator implementation for testing. It serves
// a canned inventory, records every mutating call, and fails the calls
// whose snapshot names appear in FailCreates/FailDestroys.
type Fake struct {
	Rows    []string
	ListErr error

	FailCreates  map[string]string
	FailDestroys map[string]string

	Created   []string
	Destroyed []string
}

// NewFake creates a Fake serving the given inventory rows.
func NewFake(rows ...string) *Fake {
	return &Fake{Rows: rows}
}

// ListInventory returns the scripted rows or the scripted error.
func (f *Fake) ListInventory(ctx context.Context) ([]string, error) {
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return f.Rows, nil
}

// CreateSnapshot records the call, or fails if scripted to.
func (f *Fake) CreateSnapshot(ctx context.Context, dataset, fullName string) error {
	if reason, ok := f.FailCreates[fullName]; ok {
		return errors.New(reason)
	}
	f.Created = append(f.Created, fullName)
	return nil
}

// DestroySnapshot records the call, or fails if scripted to.
func (f *Fake) DestroySnapshot(ctx context.Context, fullName string) error {
	if reason, ok := f.FailDestroys[fullName]; ok {
		return fmt.Errorf("cannot destroy %s: %s", fullName, reason)
	}
	f.Destroyed = append(f.Destroyed, fullName)
	return nil
}

// Mutations returns the total number of mutating calls recorded.
func (f *Fake) Mutations() int {
	return len(f.Created) + len(f.Destroyed)
}
