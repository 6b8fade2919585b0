package notify

import (
	"context"
	"log/slog"
	"time"

	"TubeDigest/internal/ports"
)

// Defaults applied when no option overrides them.
const (
	DefaultAttempts   = 5
	DefaultRetryDelay = 10 * time.Second
	DefaultPaceDelay  = 10 * time.Second
)

// Message is a composed notification ready for delivery.
type Message struct {
	Text   string
	Format string
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithAttempts sets the total number of send attempts.
func WithAttempts(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.attempts = n
		}
	}
}

// WithRetryDelay sets the pause between a failed attempt and the next one.
func WithRetryDelay(delay time.Duration) Option {
	return func(d *Dispatcher) {
		d.retryDelay = delay
	}
}

// WithPaceDelay sets the pause taken once after every dispatch.
func WithPaceDelay(delay time.Duration) Option {
	return func(d *Dispatcher) {
		d.paceDelay = delay
	}
}

// WithSleep replaces the wait function, mainly for tests.
func WithSleep(fn SleepFunc) Option {
	return func(d *Dispatcher) {
		if fn != nil {
			d.sleep = fn
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// Dispatcher delivers messages with bounded retries and a fixed pace between messages.
type Dispatcher struct {
	sender     ports.ChatSender
	attempts   int
	retryDelay time.Duration
	paceDelay  time.Duration
	sleep      SleepFunc
	logger     *slog.Logger
}

// NewDispatcher wraps a chat sender.
func NewDispatcher(sender ports.ChatSender, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		sender:     sender,
		attempts:   DefaultAttempts,
		retryDelay: DefaultRetryDelay,
		paceDelay:  DefaultPaceDelay,
		sleep:      sleepContext,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.With("component", "notify")
	return d
}

// Dispatch sends msg, retrying failed attempts, and reports whether one succeeded.
// A cancelled context stops further attempts and reports failure.
func (d *Dispatcher) Dispatch(ctx context.Context, msg Message) bool {
	delivered := false

	for attempt := 1; attempt <= d.attempts; attempt++ {
		if ctx.Err() != nil {
			d.logger.Warn("dispatch cancelled", "attempt", attempt)
			return false
		}

		err := d.sender.Send(ctx, msg.Text, msg.Format)
		if err == nil {
			d.logger.Info("message delivered", "attempt", attempt)
			delivered = true
			break
		}
		d.logger.Warn("send failed", "attempt", attempt, "max_attempts", d.attempts, "error", err)

		if attempt < d.attempts {
			if err := d.sleep(ctx, d.retryDelay); err != nil {
				return false
			}
		}
	}

	if !delivered {
		d.logger.Error("message not delivered", "attempts", d.attempts)
	}

	// Pacing only delays the next message; a cancelled pause does not undo delivery.
	_ = d.sleep(ctx, d.paceDelay)
	return delivered
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
