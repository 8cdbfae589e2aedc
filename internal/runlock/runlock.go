// Package runlock serializes mutating runs on one host. The core gives
// no concurrency guarantee of its own, so two timer invocations racing
// on the same dataset's snapshot set must be fenced here, before any
// action is submitted.
package runlock

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/migmedia/zfs-snappers/pkg/errclass"
)

// Record is the lock file content.
type Record struct {
	PID        int       `json:"pid"`
	AcquiredAt time.Time `json:"acquired_at"`
}

// Lock is a held run lock.
type Lock struct {
	path string
}

// DefaultPath returns the lock file location used when the config does
// not name one.
func DefaultPath() string {
	return filepath.Join(os.TempDir(), "zfs-snappers.lock")
}

// Acquire takes the run lock at path. A lock file whose holder process
// is gone is stale and gets replaced; a live holder yields ErrLockHeld.
func Acquire(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}

	// Try O_CREAT|O_EXCL for atomic acquire
	for attempt := 0; attempt < 2; attempt++ {
		file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
		if err == nil {
			rec := Record{PID: os.Getpid(), AcquiredAt: time.Now().UTC()}
			data, _ := json.Marshal(rec)
			if _, werr := file.Write(append(data, '\n')); werr != nil {
				file.Close()
				os.Remove(path)
				return nil, fmt.Errorf("write lock: %w", werr)
			}
			file.Close()
			return &Lock{path: path}, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("create lock: %w", err)
		}

		rec, rerr := readRecord(path)
		if rerr != nil {
			// Unreadable lock file: treat as held, an operator has to look.
			return nil, errclass.ErrLockHeld.WithMessagef("unreadable lock file %s: %v", path, rerr)
		}
		if processAlive(rec.PID) {
			return nil, errclass.ErrLockHeld.WithMessagef(
				"another run (pid %d) holds %s since %s", rec.PID, path, rec.AcquiredAt.Format(time.RFC3339))
		}

		// Holder is gone; remove the stale file and retry once.
		if rmerr := os.Remove(path); rmerr != nil && !os.IsNotExist(rmerr) {
			return nil, fmt.Errorf("remove stale lock: %w", rmerr)
		}
	}
	return nil, errclass.ErrLockHeld.WithMessagef("could not acquire %s", path)
}

// Release removes the lock file.
func (l *Lock) Release() error {
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}

func readRecord(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	if rec.PID <= 0 {
		return nil, fmt.Errorf("invalid pid %d", rec.PID)
	}
	return &rec, nil
}
