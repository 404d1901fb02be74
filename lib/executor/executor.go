// Package executor applies moderation verdicts to the chat platform. A remove verdict produces two
// independent effects, message deletion and sender restriction, each retried on transient failures
// and reported separately.
package executor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-pkgz/repeater"
	"github.com/go-pkgz/repeater/strategy"

	"github.com/umputun/tg-moderator/lib/spamcheck"
)

//go:generate moq --out mocks/platform.go --pkg mocks --skip-ensure --with-resets . Platform

// Platform is a chat platform able to delete messages and restrict senders.
// Errors should be *PlatformError, anything else is considered transient.
type Platform interface {
	DeleteMessage(ctx context.Context, chatID int64, msgID int) error
	RestrictSender(ctx context.Context, chatID, userID int64, r spamcheck.Restriction) error
}

// Config defines retries and timeouts of platform calls
type Config struct {
	Retries     int           // total attempts per effect, at least 1
	Backoff     time.Duration // initial delay between attempts, doubled each time
	CallTimeout time.Duration // single platform call timeout, 0 means no timeout
	MaxWait     time.Duration // cap for the platform requested retry-after delay
	Dry         bool          // log intended effects, don't call the platform
}

// Executor applies verdicts, thread-safe
type Executor struct {
	Config
	platform Platform
}

// New makes an Executor
func New(platform Platform, cfg Config) (*Executor, error) {
	if platform == nil && !cfg.Dry {
		return nil, &spamcheck.ConfigError{Field: "platform", Reason: "not set"}
	}
	if cfg.Retries < 1 {
		return nil, &spamcheck.ConfigError{Field: "moderation retries", Reason: "must be at least 1"}
	}
	if cfg.Backoff < 0 {
		return nil, &spamcheck.ConfigError{Field: "moderation backoff", Reason: "must not be negative"}
	}
	if cfg.CallTimeout < 0 {
		return nil, &spamcheck.ConfigError{Field: "moderation timeout", Reason: "must not be negative"}
	}
	if cfg.MaxWait <= 0 {
		cfg.MaxWait = time.Minute
	}
	return &Executor{Config: cfg, platform: platform}, nil
}

// Execute applies the verdict. Allow and flag don't touch the platform.
// For remove both effects are attempted concurrently, a failure of one doesn't affect the other.
// Never panics on platform failures, all of them reported in the outcome.
func (e *Executor) Execute(ctx context.Context, v spamcheck.Verdict) spamcheck.Outcome {
	res := spamcheck.Outcome{
		Action:   v.Action,
		Delete:   spamcheck.Effect{Status: spamcheck.EffectSkipped},
		Restrict: spamcheck.Effect{Status: spamcheck.EffectSkipped},
	}

	switch v.Action {
	case spamcheck.ActionAllow:
		return res
	case spamcheck.ActionFlag:
		log.Printf("[INFO] flagged %s, %s", v.Message, v)
		return res
	case spamcheck.ActionRemove:
	default:
		log.Printf("[WARN] unknown action %s for %s", v.Action, v.Message.Key())
		return res
	}

	msg := v.Message
	if e.Dry {
		log.Printf("[INFO] dry run: delete %s, restrict %s (%s)", msg.Key(), msg.From, v.Restriction)
		return res
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		res.Delete = e.apply(ctx, "delete "+msg.Key().String(), func(ctx context.Context) error {
			return e.platform.DeleteMessage(ctx, msg.ChatID, msg.ID)
		})
	}()
	go func() {
		defer wg.Done()
		res.Restrict = e.apply(ctx, fmt.Sprintf("restrict %d in %d", msg.From.ID, msg.ChatID), func(ctx context.Context) error {
			return e.platform.RestrictSender(ctx, msg.ChatID, msg.From.ID, v.Restriction)
		})
	}()
	wg.Wait()

	if res.OK() {
		log.Printf("[INFO] removed %s, sender restricted (%s)", msg, v.Restriction)
	} else {
		log.Printf("[WARN] remove of %s incomplete: %v", msg.Key(), res.Err())
	}
	return res
}

// apply makes a single effect with retries on transient errors
func (e *Executor) apply(ctx context.Context, op string, call func(ctx context.Context) error) spamcheck.Effect {
	res := spamcheck.Effect{}
	var lastErr error
	rpt := repeater.New(&strategy.Backoff{Duration: e.Backoff, Repeats: e.Retries, Factor: 2, Jitter: true})
	err := rpt.Do(ctx, func() error {
		res.Attempts++
		err := e.call(ctx, call)
		if err == nil {
			res.Status = spamcheck.EffectDone
			return nil
		}

		var pe *PlatformError
		if errors.As(err, &pe) {
			switch pe.Kind {
			case KindAlreadyDone:
				log.Printf("[DEBUG] %s: already done, %v", op, err)
				res.Status = spamcheck.EffectAlreadyDone
				return nil
			case KindRejected:
				log.Printf("[WARN] %s rejected: %v", op, err)
				res.Status, res.Err = spamcheck.EffectFailed, err
				return nil // stop retrying
			}
		}

		lastErr = err
		log.Printf("[WARN] %s attempt %d/%d failed: %v", op, res.Attempts, e.Retries, err)
		if pe != nil && pe.RetryAfter > 0 && res.Attempts < e.Retries {
			e.wait(ctx, pe.RetryAfter)
		}
		return err
	})

	if res.Status == "" {
		res.Status = spamcheck.EffectExhausted
		res.Err = lastErr
		if res.Err == nil {
			res.Err = err
		}
	}
	return res
}

// call invokes the platform with per-call timeout. Timeout is a transient error.
func (e *Executor) call(ctx context.Context, fn func(ctx context.Context) error) error {
	if e.CallTimeout <= 0 {
		return fn(ctx)
	}
	cctx, cancel := context.WithTimeout(ctx, e.CallTimeout)
	defer cancel()
	err := fn(cctx)
	if err != nil && errors.Is(cctx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return &PlatformError{Kind: KindTransient, Err: fmt.Errorf("call timeout %v: %w", e.CallTimeout, err)}
	}
	return err
}

// wait sleeps for platform requested delay, capped by MaxWait
func (e *Executor) wait(ctx context.Context, d time.Duration) {
	if d > e.MaxWait {
		d = e.MaxWait
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
