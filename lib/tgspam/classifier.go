// Package tgspam scores normalized message text with a spam model. Classifier wraps a Model with input
// truncation, bounded inference concurrency and score validation; models are selected at startup
// (remote inference endpoint, naive bayes trained on samples, OpenAI or Gemini).
package tgspam

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	tokenizer "github.com/sandwich-go/gpt3-encoder"
	"golang.org/x/sync/semaphore"

	"github.com/umputun/tg-moderator/lib/spamcheck"
)

//go:generate moq --out mocks/model.go --pkg mocks --skip-ensure --with-resets . Model

// Model computes probability of a text being spam, 0.0 - 1.0.
type Model interface {
	Name() string
	Score(ctx context.Context, text string) (float64, error)
}

// Loader is implemented by models which have to be prepared (fetched, trained) before scoring.
type Loader interface {
	Load(ctx context.Context) error
}

// ClassifierConfig defines input limits and concurrency of Classifier.
type ClassifierConfig struct {
	MaxTokens   int           // max input length in tokens, longer text keeps leading tokens only
	Concurrency int           // max simultaneous inference calls
	Timeout     time.Duration // single inference call timeout, 0 means no timeout
	WarmUp      string        // text scored on start to ensure the model works, skipped if empty
}

// Classifier scores texts with a model, thread-safe. It holds no per-message state.
type Classifier struct {
	ClassifierConfig
	model Model
	sem   *semaphore.Weighted

	encoder *tokenizer.Encoder // nil if failed to make, runes used instead
	encLock sync.Mutex         // encoder caches internally and can't be shared
}

// ClassificationError is returned when the model can't produce a valid score. The message is undecidable.
type ClassificationError struct {
	Key   spamcheck.Key
	Model string
	Err   error
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("can't classify %s with %s: %v", e.Key, e.Model, e.Err)
}

func (e *ClassificationError) Unwrap() error { return e.Err }

// NewClassifier makes a Classifier, loads the model and runs the warm-up probe.
// Any failure here means the model is not usable and the caller should refuse to start.
func NewClassifier(ctx context.Context, model Model, cfg ClassifierConfig) (*Classifier, error) {
	if model == nil {
		return nil, &spamcheck.ConfigError{Field: "model", Reason: "not set"}
	}
	if cfg.MaxTokens < 1 {
		return nil, &spamcheck.ConfigError{Field: "model max tokens", Reason: "must be positive"}
	}
	if cfg.Concurrency < 1 {
		return nil, &spamcheck.ConfigError{Field: "model concurrency", Reason: "must be positive"}
	}

	res := &Classifier{ClassifierConfig: cfg, model: model, sem: semaphore.NewWeighted(int64(cfg.Concurrency))}
	enc, err := tokenizer.NewEncoder()
	if err != nil {
		log.Printf("[WARN] can't make tokenizer, truncate by runes: %v", err)
	} else {
		res.encoder = enc
	}

	if l, ok := model.(Loader); ok {
		st := time.Now()
		if err := l.Load(ctx); err != nil {
			return nil, fmt.Errorf("can't load model %s: %w", model.Name(), err)
		}
		log.Printf("[INFO] model %s loaded in %v", model.Name(), time.Since(st).Round(time.Millisecond))
	}

	if cfg.WarmUp != "" {
		r, err := res.Classify(ctx, spamcheck.Key{}, cfg.WarmUp)
		if err != nil {
			return nil, fmt.Errorf("model warm-up failed: %w", err)
		}
		log.Printf("[DEBUG] model %s warm-up score %.4f", model.Name(), r.Probability)
	}
	return res, nil
}

// Classify returns spam probability for a normalized text.
// Errors are always *ClassificationError.
func (c *Classifier) Classify(ctx context.Context, key spamcheck.Key, text string) (spamcheck.Result, error) {
	res := spamcheck.Result{Key: key, Model: c.model.Name()}
	text, res.Truncated = c.truncate(text)

	if err := c.sem.Acquire(ctx, 1); err != nil {
		return res, &ClassificationError{Key: key, Model: res.Model, Err: fmt.Errorf("no inference slot: %w", err)}
	}
	defer c.sem.Release(1)

	sctx, cancel := ctx, context.CancelFunc(func() {})
	if c.Timeout > 0 {
		sctx, cancel = context.WithTimeout(ctx, c.Timeout)
	}
	defer cancel()

	p, err := c.model.Score(sctx, text)
	if err != nil {
		return res, &ClassificationError{Key: key, Model: res.Model, Err: err}
	}
	if math.IsNaN(p) || p < 0 || p > 1 {
		return res, &ClassificationError{Key: key, Model: res.Model, Err: fmt.Errorf("score %v out of range", p)}
	}
	res.Probability = p
	return res, nil
}

// ModelName returns name of the underlying model
func (c *Classifier) ModelName() string { return c.model.Name() }

// truncate keeps leading MaxTokens tokens of the text.
// Without the encoder a token is assumed to be 4 runes.
func (c *Classifier) truncate(text string) (string, bool) {
	runesCut := func() (string, bool) {
		limit := c.MaxTokens * 4
		if utf8.RuneCountInString(text) <= limit {
			return text, false
		}
		return string([]rune(text)[:limit]), true
	}

	if c.encoder == nil {
		return runesCut()
	}

	c.encLock.Lock()
	defer c.encLock.Unlock()
	tokens, err := c.encoder.Encode(text)
	if err != nil {
		return runesCut()
	}
	if len(tokens) <= c.MaxTokens {
		return text, false
	}
	if c.encoder.Decode(tokens) != text {
		// encoder can't round-trip this text (e.g. cyrillic), cut runes in the same proportion
		runes := []rune(text)
		n := max(1, len(runes)*c.MaxTokens/len(tokens))
		return string(runes[:n]), true
	}
	// byte-level tokens may split a multibyte rune at the cut
	return strings.ToValidUTF8(c.encoder.Decode(tokens[:c.MaxTokens]), ""), true
}

// IsClassificationError checks if err is (or wraps) *ClassificationError
func IsClassificationError(err error) bool {
	var ce *ClassificationError
	return errors.As(err, &ce)
}
