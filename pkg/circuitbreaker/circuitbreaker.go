// Package circuitbreaker guards calls to flaky dependencies.
package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"
)

// State represents the circuit breaker state.
type State int

// State constants for circuit breaker.
const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrOpen is returned without calling the guarded function while the circuit is open.
var ErrOpen = errors.New("circuit breaker is open")

// Settings configures the circuit breaker.
type Settings struct {
	Name string
	// Threshold is the number of consecutive failures that opens the circuit.
	Threshold int
	// Cooldown is how long the circuit stays open before one trial request is let through.
	Cooldown time.Duration
	// OnStateChange is called synchronously, outside the lock, on every transition.
	OnStateChange func(name string, from, to State)
}

// Breaker opens after Threshold consecutive failures and lets a single trial
// through once Cooldown has elapsed. A successful trial closes it again.
type Breaker struct {
	settings Settings
	now      func() time.Time

	mu       sync.Mutex
	state    State
	failures int
	openedAt time.Time
	probing  bool
}

// New creates a new circuit breaker. Non-positive settings fall back to
// five failures and a thirty second cooldown.
func New(settings Settings) *Breaker {
	if settings.Threshold <= 0 {
		settings.Threshold = 5
	}
	if settings.Cooldown <= 0 {
		settings.Cooldown = 30 * time.Second
	}
	return &Breaker{settings: settings, now: time.Now}
}

// Execute runs fn unless the circuit is open. Context cancellation is not
// counted as a dependency failure.
func (b *Breaker) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := b.acquire(); err != nil {
		return err
	}
	err := fn(ctx)
	b.release(err)
	return err
}

// State returns the current state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) acquire() error {
	b.mu.Lock()
	var from State
	changed := false
	switch b.state {
	case StateOpen:
		if b.now().Sub(b.openedAt) < b.settings.Cooldown {
			b.mu.Unlock()
			return ErrOpen
		}
		from, changed = b.state, true
		b.state = StateHalfOpen
		b.probing = true
	case StateHalfOpen:
		if b.probing {
			b.mu.Unlock()
			return ErrOpen
		}
		b.probing = true
	case StateClosed:
	}
	b.mu.Unlock()

	if changed {
		b.notify(from, StateHalfOpen)
	}
	return nil
}

func (b *Breaker) release(err error) {
	if errors.Is(err, context.Canceled) {
		err = nil
	}

	b.mu.Lock()
	from := b.state
	to := from
	switch {
	case err == nil:
		b.failures = 0
		to = StateClosed
	case from == StateHalfOpen:
		to = StateOpen
	default:
		b.failures++
		if b.failures >= b.settings.Threshold {
			to = StateOpen
		}
	}
	if to == StateOpen && from != StateOpen {
		b.openedAt = b.now()
	}
	b.probing = false
	b.state = to
	b.mu.Unlock()

	if from != to {
		b.notify(from, to)
	}
}

func (b *Breaker) notify(from, to State) {
	if b.settings.OnStateChange != nil {
		b.settings.OnStateChange(b.settings.Name, from, to)
	}
}
