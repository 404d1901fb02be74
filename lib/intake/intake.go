// Package intake runs the moderation pipeline for incoming messages: dedup reserve, normalization,
// classification, decision and execution. Each message is processed at most once within the
// records retention window, and a failure of one message never affects others.
package intake

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime/debug"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/umputun/tg-moderator/lib/spamcheck"
)

//go:generate moq --out mocks/records.go --pkg mocks --skip-ensure --with-resets . Records
//go:generate moq --out mocks/classifier.go --pkg mocks --skip-ensure --with-resets . Classifier
//go:generate moq --out mocks/executor.go --pkg mocks --skip-ensure --with-resets . Executor
//go:generate moq --out mocks/senders.go --pkg mocks --skip-ensure --with-resets . Senders

// Records is a dedup store of moderation records
type Records interface {
	// Reserve atomically puts a pending record for the key if there is no record yet.
	// Returns false if the key is already known.
	Reserve(ctx context.Context, key spamcheck.Key) (bool, error)
	// Finish stores the final state of a reserved record
	Finish(ctx context.Context, rec spamcheck.Record) error
}

// Normalizer canonicalizes text before classification
type Normalizer interface {
	Normalize(raw string) string
}

// Classifier scores normalized text
type Classifier interface {
	Classify(ctx context.Context, key spamcheck.Key, text string) (spamcheck.Result, error)
}

// Policy decides on action for probability
type Policy interface {
	Decide(probability float64, sender spamcheck.Sender) spamcheck.Verdict
}

// Executor applies verdicts to the platform
type Executor interface {
	Execute(ctx context.Context, v spamcheck.Verdict) spamcheck.Outcome
}

// Senders provides sender context and decides if the message has to be checked at all
type Senders interface {
	Context(ctx context.Context, msg spamcheck.Message) (sender spamcheck.Sender, check bool)
	Observe(ctx context.Context, msg spamcheck.Message, action spamcheck.Action)
}

// SpamLogger receives records of flagged and removed messages
type SpamLogger interface {
	Save(rec spamcheck.Record)
}

// SpamLoggerFunc is a function that implements SpamLogger interface
type SpamLoggerFunc func(rec spamcheck.Record)

// Save is a function that implements SpamLogger interface
func (f SpamLoggerFunc) Save(rec spamcheck.Record) { f(rec) }

// ErrClosed returned by Submit after shutdown started
var ErrClosed = errors.New("intake is shut down")

// Params defines pipeline stages. Records, Normalizer, Classifier, Policy and Executor are required.
type Params struct {
	Records    Records
	Normalizer Normalizer
	Classifier Classifier
	Policy     Policy
	Executor   Executor
	Senders    Senders    // optional, all messages checked without sender context if nil
	SpamLogger SpamLogger // optional

	MaxInFlight   int           // max concurrent pipelines for Submit, 0 means unlimited
	FinishTimeout time.Duration // timeout for storing the final record
	HistorySize   int           // number of last records kept in memory
}

// Intake is the entry point of the moderation pipeline, thread-safe.
type Intake struct {
	Params
	history  *spamcheck.LastRecords
	slots    *semaphore.Weighted
	inFlight int64

	wg     sync.WaitGroup
	lock   sync.Mutex
	closed bool

	// canceled when shutdown grace period is over
	hardStop   context.Context
	hardCancel context.CancelFunc
}

// New makes an Intake
func New(p Params) (*Intake, error) {
	switch {
	case p.Records == nil:
		return nil, &spamcheck.ConfigError{Field: "records", Reason: "not set"}
	case p.Normalizer == nil:
		return nil, &spamcheck.ConfigError{Field: "normalizer", Reason: "not set"}
	case p.Classifier == nil:
		return nil, &spamcheck.ConfigError{Field: "classifier", Reason: "not set"}
	case p.Policy == nil:
		return nil, &spamcheck.ConfigError{Field: "policy", Reason: "not set"}
	case p.Executor == nil:
		return nil, &spamcheck.ConfigError{Field: "executor", Reason: "not set"}
	case p.MaxInFlight < 0:
		return nil, &spamcheck.ConfigError{Field: "max in-flight", Reason: "must not be negative"}
	}
	if p.FinishTimeout <= 0 {
		p.FinishTimeout = 5 * time.Second
	}
	if p.HistorySize <= 0 {
		p.HistorySize = 100
	}

	res := &Intake{Params: p, history: spamcheck.NewLastRecords(p.HistorySize)}
	if p.MaxInFlight > 0 {
		res.slots = semaphore.NewWeighted(int64(p.MaxInFlight))
	}
	res.hardStop, res.hardCancel = context.WithCancel(context.Background())
	return res, nil
}

// Submit processes the message in background.
// Blocks while MaxInFlight pipelines are running, returns ErrClosed after Shutdown.
func (in *Intake) Submit(ctx context.Context, msg spamcheck.Message) error {
	if in.slots != nil {
		if err := in.slots.Acquire(ctx, 1); err != nil {
			return fmt.Errorf("can't submit %s: %w", msg.Key(), err)
		}
	}

	in.lock.Lock()
	if in.closed {
		in.lock.Unlock()
		if in.slots != nil {
			in.slots.Release(1)
		}
		return ErrClosed
	}
	in.wg.Add(1)
	in.lock.Unlock()

	go func() {
		defer in.wg.Done()
		if in.slots != nil {
			defer in.slots.Release(1)
		}
		in.Handle(ctx, msg)
	}()
	return nil
}

// Handle runs the pipeline for the message synchronously and returns the final record status.
// Redelivered message returns StatusDuplicate without touching any stage.
// The pipeline is detached from ctx cancellation, only shutdown grace expiration interrupts it.
func (in *Intake) Handle(ctx context.Context, msg spamcheck.Message) (status spamcheck.Status) {
	atomic.AddInt64(&in.inFlight, 1)
	defer atomic.AddInt64(&in.inFlight, -1)

	pctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	defer cancel()
	stop := context.AfterFunc(in.hardStop, cancel)
	defer stop()

	key := msg.Key()
	reserved, err := in.reserve(pctx, key)
	if err != nil {
		log.Printf("[WARN] can't reserve %s, skipped: %v", key, err)
		return spamcheck.StatusFailed
	}
	if !reserved {
		log.Printf("[DEBUG] duplicate delivery of %s, ignored", key)
		return spamcheck.StatusDuplicate
	}

	rec := spamcheck.Record{Key: key, From: msg.From, Text: msg.Text, Status: spamcheck.StatusFailed}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[ERROR] panic on %s: %v\n%s", key, r, debug.Stack())
			rec.Status, rec.Error = spamcheck.StatusFailed, fmt.Sprintf("panic: %v", r)
		}
		in.finish(pctx, rec)
		status = rec.Status
	}()

	if err := in.process(pctx, msg, &rec); err != nil {
		log.Printf("[WARN] failed to process %s: %v", key, err)
		rec.Status, rec.Error = spamcheck.StatusFailed, err.Error()
		return rec.Status
	}
	rec.Status = spamcheck.StatusCompleted
	return rec.Status
}

// reserve calls the dedup store, panic is reported as an error
func (in *Intake) reserve(ctx context.Context, key spamcheck.Key) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ok, err = false, fmt.Errorf("panic: %v", r)
		}
	}()
	return in.Records.Reserve(ctx, key)
}

// process runs stages after reserve, fills rec with results
func (in *Intake) process(ctx context.Context, msg spamcheck.Message, rec *spamcheck.Record) error {
	key := msg.Key()
	sender, check := spamcheck.Sender{}, true
	if in.Senders != nil {
		sender, check = in.Senders.Context(ctx, msg)
	}
	if !check {
		log.Printf("[DEBUG] %s from %s not checked", key, msg.From)
		return nil
	}

	text := in.Normalizer.Normalize(msg.Text)
	if text == "" {
		log.Printf("[DEBUG] %s has no text to check", key)
		return nil
	}

	res, err := in.Classifier.Classify(ctx, key, text)
	if err != nil {
		return fmt.Errorf("undecidable, no action taken: %w", err)
	}
	rec.Checked, rec.Probability = true, res.Probability

	v := in.Policy.Decide(res.Probability, sender)
	v.Message = msg
	rec.Action = v.Action
	log.Printf("[DEBUG] %s: %s, model %s, truncated %t", key, v, res.Model, res.Truncated)

	out := in.Executor.Execute(ctx, v)
	rec.Outcome = out
	if in.Senders != nil {
		in.Senders.Observe(ctx, msg, v.Action)
	}
	if err := out.Err(); err != nil {
		return fmt.Errorf("%s incomplete: %w", v.Action, err)
	}
	return nil
}

// finish stores the final record, even if the pipeline context is canceled
func (in *Intake) finish(ctx context.Context, rec spamcheck.Record) {
	rec.Updated = time.Now()
	fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), in.FinishTimeout)
	defer cancel()
	if err := in.Records.Finish(fctx, rec); err != nil {
		log.Printf("[WARN] can't finish record %s: %v", rec.Key, err)
	}
	in.history.Push(rec)
	if in.SpamLogger != nil && rec.Checked && rec.Action != spamcheck.ActionAllow {
		in.SpamLogger.Save(rec)
	}
}

// Last returns up to n last processed records, newest first
func (in *Intake) Last(n int) []spamcheck.Record {
	return in.history.Last(n)
}

// Recent returns up to limit last processed records with any of given actions, newest first.
// All records returned if no actions set.
func (in *Intake) Recent(_ context.Context, limit int, actions ...spamcheck.Action) ([]spamcheck.Record, error) {
	recs := in.history.Last(in.HistorySize)
	res := make([]spamcheck.Record, 0, len(recs))
	for _, rec := range recs {
		if limit > 0 && len(res) >= limit {
			break
		}
		if len(actions) == 0 || slices.Contains(actions, rec.Action) {
			res = append(res, rec)
		}
	}
	return res, nil
}

// InFlight returns number of pipelines running now
func (in *Intake) InFlight() int {
	return int(atomic.LoadInt64(&in.inFlight))
}

// Shutdown refuses new messages and waits for running pipelines up to grace period.
// Pipelines still running after that are canceled.
func (in *Intake) Shutdown(grace time.Duration) error {
	in.lock.Lock()
	in.closed = true
	in.lock.Unlock()

	done := make(chan struct{})
	go func() {
		in.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Printf("[INFO] intake stopped, all pipelines completed")
		in.hardCancel()
		return nil
	case <-time.After(grace):
		n := in.InFlight()
		in.hardCancel()
		return fmt.Errorf("%d pipeline(s) not completed in %v", n, grace)
	}
}
