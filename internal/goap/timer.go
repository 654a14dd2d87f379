package goap

import (
	"log/slog"
	"math/rand/v2"
	"time"
)

// ReplanTimer schedules forced replans: a random first delay, then periods of
// a mean interval with symmetric jitter.
type ReplanTimer struct {
	rng      *rand.Rand
	interval time.Duration
	jitter   float64
	left     time.Duration
}

// NewReplanTimer creates a timer from the timing fields of cfg, drawing the
// first delay from rng.
func NewReplanTimer(cfg AgentConfig, rng *rand.Rand) *ReplanTimer {
	interval := cfg.ReplanInterval
	if interval <= 0 {
		interval = DefaultReplanInterval
	}
	jitter := cfg.ReplanJitter
	switch {
	case jitter == 0:
		jitter = DefaultReplanJitter
	case jitter < 0:
		jitter = 0
	}

	minDelay, maxDelay := cfg.InitialDelayMin, cfg.InitialDelayMax
	if minDelay == 0 && maxDelay == 0 {
		minDelay, maxDelay = DefaultInitialDelayMin, DefaultInitialDelayMax
	}
	if maxDelay < minDelay {
		maxDelay = minDelay
	}

	return &ReplanTimer{
		rng:      rng,
		interval: interval,
		jitter:   jitter,
		left:     minDelay + time.Duration(rng.Float64()*float64(maxDelay-minDelay)),
	}
}

// Left returns the time until the timer fires.
func (t *ReplanTimer) Left() time.Duration { return t.left }

// Advance counts dt down and reports whether the timer has fired. A fired
// timer keeps firing until Reset.
func (t *ReplanTimer) Advance(dt time.Duration) bool {
	t.left -= dt
	return t.left <= 0
}

// Reset starts the next period.
func (t *ReplanTimer) Reset() {
	t.left = t.next()
}

func (t *ReplanTimer) next() time.Duration {
	if t.jitter == 0 {
		return t.interval
	}
	spread := float64(t.interval) * t.jitter
	return t.interval + time.Duration((t.rng.Float64()*2-1)*spread)
}

// AgentSettings is an AgentConfig with its defaults resolved.
type AgentSettings struct {
	ID     string
	Name   string
	Logger *slog.Logger
	Rand   *rand.Rand
	Timer  *ReplanTimer
}
