// Package zfs talks to the zfs binary and parses its inventory output.
// The Collaborator interface is the only path through which the rest of
// the tool reaches ZFS, so tests substitute a scripted fake and the
// decision logic never forks a process.
package zfs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/migmedia/zfs-snappers/pkg/errclass"
	"github.com/migmedia/zfs-snappers/pkg/logging"
)

// Collaborator abstracts the external volume manager.
type Collaborator interface {
	// ListInventory returns the raw inventory rows. Failure is fatal
	// to the run.
	ListInventory(ctx context.Context) ([]string, error)

	// CreateSnapshot creates the named snapshot on the dataset.
	CreateSnapshot(ctx context.Context, dataset, fullName string) error

	// DestroySnapshot destroys the named snapshot.
	DestroySnapshot(ctx context.Context, fullName string) error
}

// CLI shells out to the zfs binary.
type CLI struct {
	executable string
	label      string
	log        *logging.Logger
}

// NewCLI creates a Collaborator for the given label. The executable is
// taken from the ZFS_CMD environment variable, falling back to "zfs".
func NewCLI(label string, log *logging.Logger) *CLI {
	exe := os.Getenv("ZFS_CMD")
	if exe == "" {
		exe = "zfs"
	}
	return &CLI{executable: exe, label: label, log: log}
}

// ListInventory runs one `zfs list` over datasets and snapshots and
// returns the raw rows.
func (c *CLI) ListInventory(ctx context.Context) ([]string, error) {
	args := []string{
		"list", "-Hp",
		"-o", fmt.Sprintf("name,used,com.sun:auto-snapshot,com.sun:auto-snapshot:%s,creation", c.label),
		"-t", "filesystem,volume,snapshot",
	}
	out, err := c.run(ctx, args)
	if err != nil {
		return nil, errclass.ErrInventoryUnavailable.WithMessagef("zfs list: %v", err)
	}

	var rows []string
	for _, line := range strings.Split(out, "\n") {
		if line != "" {
			rows = append(rows, line)
		}
	}
	return rows, nil
}

// CreateSnapshot runs `zfs snapshot <fullName>`.
func (c *CLI) CreateSnapshot(ctx context.Context, dataset, fullName string) error {
	if _, err := c.run(ctx, []string{"snapshot", fullName}); err != nil {
		return fmt.Errorf("zfs snapshot %s: %w", fullName, err)
	}
	return nil
}

// DestroySnapshot runs `zfs destroy <fullName>`. Only snapshot names are
// accepted; destroying a dataset through this path is a bug.
func (c *CLI) DestroySnapshot(ctx context.Context, fullName string) error {
	if !strings.Contains(fullName, "@") {
		return fmt.Errorf("refusing to destroy non-snapshot %q", fullName)
	}
	if _, err := c.run(ctx, []string{"destroy", fullName}); err != nil {
		return fmt.Errorf("zfs destroy %s: %w", fullName, err)
	}
	return nil
}

func (c *CLI) run(ctx context.Context, args []string) (string, error) {
	c.log.Debug("exec", map[string]any{"cmd": c.executable + " " + strings.Join(args, " ")})

	out, err := exec.CommandContext(ctx, c.executable, args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return "", fmt.Errorf("%w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", err
	}
	return string(out), nil
}
