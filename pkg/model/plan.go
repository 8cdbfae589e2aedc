package model

import "time"

// ActionKind discriminates plan actions.
type ActionKind string

const (
	ActionCreate  ActionKind = "create"
	ActionDestroy ActionKind = "destroy"
)

// Action is one pending snapshot mutation.
type Action struct {
	Kind         ActionKind `json:"kind"`
	Dataset      string     `json:"dataset"`
	SnapshotName string     `json:"snapshot"`
}

// Plan is the full set of actions one run intends to perform. Actions
// are ordered per dataset: the create first, then destroys oldest
// first.
type Plan struct {
	Label     string    `json:"label"`
	Prefix    string    `json:"prefix"`
	CreatedAt time.Time `json:"created_at"`
	Actions   []Action  `json:"actions"`
}

// Failure records an action that could not be carried out.
type Failure struct {
	Action Action `json:"action"`
	Reason string `json:"reason"`
}

// Result tallies the outcome of executing a plan. Failures never abort
// the run; they are recorded here and the remaining actions proceed.
type Result struct {
	CreatesOK      int       `json:"creates_ok"`
	CreatesFailed  int       `json:"creates_failed"`
	DestroysOK     int       `json:"destroys_ok"`
	DestroysFailed int       `json:"destroys_failed"`
	Failures       []Failure `json:"failures,omitempty"`
}

// Clean reports whether every action succeeded.
func (r *Result) Clean() bool {
	return r.CreatesFailed == 0 && r.DestroysFailed == 0
}

// Succeed counts action as carried out.
func (r *Result) Succeed(a Action) {
	if a.Kind == ActionCreate {
		r.CreatesOK++
	} else {
		r.DestroysOK++
	}
}

// Fail counts action as failed and records why.
func (r *Result) Fail(a Action, reason string) {
	if a.Kind == ActionCreate {
		r.CreatesFailed++
	} else {
		r.DestroysFailed++
	}
	r.Failures = append(r.Failures, Failure{Action: a, Reason: reason})
}
