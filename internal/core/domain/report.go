package domain

// Action is the kind of backend operation an outcome describes.
type Action string

const (
	// ActionInstall is an install through the declared method's backend.
	ActionInstall Action = "install"
	// ActionRemove is an uninstall through the recorded method's backend.
	ActionRemove Action = "remove"
)

// Status is the result of one package operation.
type Status string

const (
	// StatusSucceeded means the backend call completed.
	StatusSucceeded Status = "succeeded"
	// StatusFailed means the backend call returned an error.
	StatusFailed Status = "failed"
	// StatusSkipped means the operation was not attempted.
	StatusSkipped Status = "skipped"
	// StatusPlanned means the operation would run but this was a dry run.
	StatusPlanned Status = "planned"
)

// Outcome is the per-package result of a reconciliation.
type Outcome struct {
	Name    string
	Action  Action
	Method  InstallMethod
	Version string
	Status  Status
	Err     error
}

// Report aggregates the outcomes of one reconciliation run.
type Report struct {
	RunID string
	// UpToDate is set when the manifest digest matched the cache and nothing ran.
	UpToDate  bool
	DryRun    bool
	Outcomes  []Outcome
	Unchanged []string
}

// Failed returns the outcomes whose backend call failed or was blocked.
func (r *Report) Failed() []Outcome {
	var failed []Outcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	return failed
}

// Count returns the number of outcomes with the given action and status.
func (r *Report) Count(action Action, status Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Action == action && o.Status == status {
			n++
		}
	}
	return n
}
