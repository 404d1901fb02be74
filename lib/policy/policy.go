// Package policy maps spam probability to a moderation action.
package policy

import (
	"math"
	"time"

	"github.com/umputun/tg-moderator/lib/spamcheck"
)

// Config defines thresholds and restriction parameters
type Config struct {
	LowThreshold     float64       // probability at or above it is flagged
	HighThreshold    float64       // probability at or above it is removed
	RestrictDuration time.Duration // restriction for established senders on remove, 0 means permanent
}

// Policy decides what to do with a classified message. Immutable after New, safe for concurrent use.
type Policy struct {
	Config
}

// New makes a Policy, validating thresholds: 0 <= low <= high <= 1
func New(cfg Config) (*Policy, error) {
	if math.IsNaN(cfg.LowThreshold) || cfg.LowThreshold < 0 || cfg.LowThreshold > 1 {
		return nil, &spamcheck.ConfigError{Field: "low threshold", Reason: "must be in [0, 1]"}
	}
	if math.IsNaN(cfg.HighThreshold) || cfg.HighThreshold < 0 || cfg.HighThreshold > 1 {
		return nil, &spamcheck.ConfigError{Field: "high threshold", Reason: "must be in [0, 1]"}
	}
	if cfg.LowThreshold > cfg.HighThreshold {
		return nil, &spamcheck.ConfigError{Field: "low threshold", Reason: "must not exceed high threshold"}
	}
	if cfg.RestrictDuration < 0 {
		return nil, &spamcheck.ConfigError{Field: "restrict duration", Reason: "must not be negative"}
	}
	return &Policy{Config: cfg}, nil
}

// Decide returns action for the probability. Boundary values go to the stricter bucket.
// Sender context affects the restriction only: new members are banned permanently,
// others are restricted for RestrictDuration.
func (p *Policy) Decide(probability float64, sender spamcheck.Sender) spamcheck.Verdict {
	res := spamcheck.Verdict{Probability: probability}
	switch {
	case probability >= p.HighThreshold:
		res.Action = spamcheck.ActionRemove
	case probability >= p.LowThreshold:
		res.Action = spamcheck.ActionFlag
	default:
		res.Action = spamcheck.ActionAllow
		return res
	}

	if res.Action == spamcheck.ActionRemove {
		res.Restriction = spamcheck.Restriction{Permanent: true}
		if !sender.NewMember && p.RestrictDuration > 0 {
			res.Restriction = spamcheck.Restriction{Duration: p.RestrictDuration}
		}
	}
	return res
}
