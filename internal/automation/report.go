package automation

import (
	"errors"
	"fmt"
)

// DefaultErrorSample is how many error messages a Report keeps.
const DefaultErrorSample = 5

// Report is the outcome of one batch run.
type Report struct {
	Task      Task     `json:"task"`
	DryRun    bool     `json:"dry_run"`
	Processed int      `json:"processed"`
	Skipped   int      `json:"skipped"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors,omitempty"`
	// Suppressed counts failures beyond the sampled Errors.
	Suppressed int      `json:"suppressed,omitempty"`
	Messages   []string `json:"messages,omitempty"`

	sample int
}

func newReport(task Task, dryRun bool, sample int) *Report {
	if sample <= 0 {
		sample = DefaultErrorSample
	}

	return &Report{Task: task, DryRun: dryRun, sample: sample}
}

func (r *Report) note(format string, args ...any) {
	r.Messages = append(r.Messages, fmt.Sprintf(format, args...))
}

// fail records err, expanding joined errors into one failure each.
func (r *Report) fail(err error) {
	if err == nil {
		return
	}

	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			r.fail(e)
		}

		return
	}

	r.Failed++

	if len(r.Errors) < r.sample {
		r.Errors = append(r.Errors, err.Error())
		return
	}

	r.Suppressed++
}

// Err summarizes the failures of the run, or nil when there were none.
func (r *Report) Err() error {
	if r.Failed == 0 {
		return nil
	}

	return fmt.Errorf("%s: %d of %d items failed", r.Task, r.Failed, r.Processed+r.Skipped+r.Failed)
}

var errTimeout = errors.New("batch timed out")
