// Package plan turns policy and retention decisions into an ordered
// action plan and executes it against the volume manager.
package plan

import (
	"context"
	"time"

	"github.com/migmedia/zfs-snappers/internal/policy"
	"github.com/migmedia/zfs-snappers/internal/retention"
	"github.com/migmedia/zfs-snappers/internal/zfs"
	"github.com/migmedia/zfs-snappers/pkg/logging"
	"github.com/migmedia/zfs-snappers/pkg/model"
	"github.com/migmedia/zfs-snappers/pkg/webhook"
)

// Options configures one run.
type Options struct {
	Label  string
	Prefix string
	Keep   int

	// MinSize is the creation threshold in bytes; zero disables the gate.
	MinSize int64

	// DryRun reports actions instead of submitting them.
	DryRun bool

	// Now is the injected clock used for snapshot naming.
	Now func() time.Time
}

// Runner builds and executes snapshot plans.
type Runner struct {
	zfs      zfs.Collaborator
	opts     Options
	log      *logging.Logger
	notifier *webhook.Notifier
}

// NewRunner creates a Runner. notifier may be nil when no webhooks are
// configured.
func NewRunner(c zfs.Collaborator, opts Options, log *logging.Logger, notifier *webhook.Notifier) *Runner {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Runner{zfs: c, opts: opts, log: log, notifier: notifier}
}

// Plan reads the inventory and builds the ordered action plan. Per
// dataset it emits at most one create followed by the expendable
// destroys, oldest first. Planning never mutates anything, so calling it
// twice yields the same plan for the same inventory and clock.
func (r *Runner) Plan(ctx context.Context) (*model.Plan, error) {
	rows, err := r.zfs.ListInventory(ctx)
	if err != nil {
		return nil, err
	}
	inv, err := zfs.ParseInventory(rows)
	if err != nil {
		return nil, err
	}

	now := r.opts.Now()
	p := &model.Plan{
		Label:     r.opts.Label,
		Prefix:    r.opts.Prefix,
		CreatedAt: now,
	}

	for _, name := range inv.Names() {
		ds := inv.Datasets[name]
		group := model.Group(ds.Snapshots, r.opts.Prefix, r.opts.Label)

		decision := policy.ShouldCreate(ds, group, r.opts.Label, r.opts.MinSize)
		r.log.Debug("evaluated dataset", map[string]any{
			"dataset": ds.Name,
			"create":  decision.Create,
			"reason":  decision.Reason,
		})
		if decision.Create {
			p.Actions = append(p.Actions, model.Action{
				Kind:         model.ActionCreate,
				Dataset:      ds.Name,
				SnapshotName: model.SnapshotName(ds.Name, r.opts.Prefix, r.opts.Label, now),
			})
		}

		_, toDestroy := retention.Partition(group, r.opts.Keep)
		for _, sn := range toDestroy {
			p.Actions = append(p.Actions, model.Action{
				Kind:         model.ActionDestroy,
				Dataset:      ds.Name,
				SnapshotName: sn.Name,
			})
		}
	}

	return p, nil
}

// Execute submits the plan's actions in order. Each action fails on its
// own: a stuck destroy is recorded and the run moves on, so one held
// snapshot cannot block pruning elsewhere. In dry-run mode actions are
// only reported and the collaborator is never called.
func (r *Runner) Execute(ctx context.Context, p *model.Plan) *model.Result {
	result := &model.Result{}

	for _, action := range p.Actions {
		if r.opts.DryRun {
			r.log.Info("would "+string(action.Kind)+" snapshot", map[string]any{
				"dataset":  action.Dataset,
				"snapshot": action.SnapshotName,
			})
			continue
		}

		err := r.submit(ctx, action)
		if err != nil {
			result.Fail(action, err.Error())
			r.log.ErrorErr(string(action.Kind)+" failed", err, map[string]any{
				"dataset":  action.Dataset,
				"snapshot": action.SnapshotName,
			})
			r.notify(ctx, webhook.EventActionFailed, action, err)
			continue
		}

		result.Succeed(action)
		msg := "created snapshot"
		if action.Kind == model.ActionDestroy {
			msg = "destroyed snapshot"
		}
		r.log.Info(msg, map[string]any{
			"dataset":  action.Dataset,
			"snapshot": action.SnapshotName,
		})
		switch action.Kind {
		case model.ActionCreate:
			r.notify(ctx, webhook.EventSnapshotCreated, action, nil)
		case model.ActionDestroy:
			r.notify(ctx, webhook.EventSnapshotDestroyed, action, nil)
		}
	}

	if !r.opts.DryRun {
		r.notifyRunComplete(ctx, result)
	}
	return result
}

func (r *Runner) submit(ctx context.Context, action model.Action) error {
	switch action.Kind {
	case model.ActionCreate:
		return r.zfs.CreateSnapshot(ctx, action.Dataset, action.SnapshotName)
	default:
		return r.zfs.DestroySnapshot(ctx, action.SnapshotName)
	}
}

func (r *Runner) notify(ctx context.Context, et webhook.EventType, action model.Action, err error) {
	if r.notifier == nil {
		return
	}
	event := webhook.Event{
		Event:    et,
		Label:    r.opts.Label,
		Dataset:  action.Dataset,
		Snapshot: action.SnapshotName,
	}
	if err != nil {
		event.Error = err.Error()
	}
	r.notifier.Send(ctx, event)
}

func (r *Runner) notifyRunComplete(ctx context.Context, result *model.Result) {
	if r.notifier == nil {
		return
	}
	r.notifier.Send(ctx, webhook.Event{
		Event: webhook.EventRunComplete,
		Label: r.opts.Label,
		Metadata: map[string]any{
			"creates_ok":      result.CreatesOK,
			"creates_failed":  result.CreatesFailed,
			"destroys_ok":     result.DestroysOK,
			"destroys_failed": result.DestroysFailed,
		},
	})
}
