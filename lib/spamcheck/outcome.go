package spamcheck

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
)

// EffectStatus is a result of a single platform side effect (delete or restrict).
type EffectStatus string

// enum of effect statuses
const (
	EffectSkipped     EffectStatus = "skipped"      // not attempted, e.g. for allow/flag verdicts or dry mode
	EffectDone        EffectStatus = "done"         // performed
	EffectAlreadyDone EffectStatus = "already-done" // platform reported the end state already in place
	EffectFailed      EffectStatus = "failed"       // rejected by the platform, not retried
	EffectExhausted   EffectStatus = "exhausted"    // transient failures until retries ran out
)

// Effect is a tracked result of one side effect.
type Effect struct {
	Status   EffectStatus `json:"status"`
	Attempts int          `json:"attempts"`
	Err      error        `json:"-"`
}

// OK returns true if the end state of the effect is in place or the effect was not needed.
func (e Effect) OK() bool {
	return e.Status == EffectSkipped || e.Status == EffectDone || e.Status == EffectAlreadyDone || e.Status == ""
}

func (e Effect) String() string {
	if e.Err != nil {
		return fmt.Sprintf("%s after %d attempt(s): %v", e.Status, e.Attempts, e.Err)
	}
	return string(e.Status)
}

// Outcome combines both side effects of a verdict, each reported individually.
type Outcome struct {
	Action   Action `json:"action"`
	Delete   Effect `json:"delete"`
	Restrict Effect `json:"restrict"`
}

// OK returns true if all effects reached their end state.
func (o Outcome) OK() bool {
	return o.Delete.OK() && o.Restrict.OK()
}

// Err returns combined error of failed effects, nil if none failed.
func (o Outcome) Err() error {
	errs := new(multierror.Error)
	if !o.Delete.OK() {
		errs = multierror.Append(errs, fmt.Errorf("delete %s", o.Delete))
	}
	if !o.Restrict.OK() {
		errs = multierror.Append(errs, fmt.Errorf("restrict %s", o.Restrict))
	}
	return errs.ErrorOrNil()
}

// Status is a processing state of a message in the dedup store.
type Status string

// enum of record statuses, StatusDuplicate is never stored and returned for redelivered messages only
const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusDuplicate Status = "duplicate"
)

// Record is a final state of a processed message, written when the pipeline exits.
type Record struct {
	Key         Key       `json:"key"`
	Status      Status    `json:"status"`
	From        User      `json:"from"`
	Text        string    `json:"text"`
	Checked     bool      `json:"checked"` // false if the message skipped classification
	Probability float64   `json:"probability"`
	Action      Action    `json:"action"`
	Outcome     Outcome   `json:"outcome"`
	Error       string    `json:"error,omitempty"`
	Updated     time.Time `json:"updated"`
}
