package notify

import (
	"context"
	"log/slog"
	"time"

	"eventplanner-collab/internal/domain"
	"eventplanner-collab/internal/lib/logger/sl"
	"eventplanner-collab/internal/store"
)

const maxBackoff = time.Hour

// Observer is told about every delivery outcome.
type Observer interface {
	NotificationSent(kind string)
	NotificationFailed(kind string, dead bool)
}

type nopObserver struct{}

func (nopObserver) NotificationSent(string) {}
func (nopObserver) NotificationFailed(string, bool) {}

type RelayConfig struct {
	Batch       int
	Interval    time.Duration
	MaxAttempts int
	SendTimeout time.Duration
	BaseBackoff time.Duration
}

// Relay moves notifications from the outbox to the dispatcher. Failed sends are
// retried with exponential backoff until MaxAttempts, then the message is dead.
type Relay struct {
	log        *slog.Logger
	outbox     store.Outbox
	dispatcher Dispatcher
	observer   Observer
	cfg        RelayConfig
	now        func() time.Time
}

type RelayOption func(*Relay)

func WithObserver(o Observer) RelayOption {
	return func(r *Relay) {
		r.observer = o
	}
}

func WithRelayClock(now func() time.Time) RelayOption {
	return func(r *Relay) {
		r.now = now
	}
}

func NewRelay(log *slog.Logger, outbox store.Outbox, dispatcher Dispatcher, cfg RelayConfig, opts ...RelayOption) *Relay {
	if cfg.Batch <= 0 {
		cfg.Batch = 50
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 2 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 8
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 10 * time.Second
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = 5 * time.Second
	}

	r := &Relay{
		log:        log,
		outbox:     outbox,
		dispatcher: dispatcher,
		observer:   nopObserver{},
		cfg:        cfg,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run flushes the outbox every interval until ctx is done.
func (r *Relay) Run(ctx context.Context) {
	const op = "notify.Relay.Run"
	log := r.log.With(slog.String("op", op))

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	log.Info("starting outbox relay",
		slog.Int("batch", r.cfg.Batch),
		slog.Duration("interval", r.cfg.Interval),
	)
	defer log.Info("stopping outbox relay")

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.Flush(ctx); err != nil && ctx.Err() == nil {
				log.Error("failed to flush outbox", sl.Err(err))
			}
		}
	}
}

// Flush makes one delivery pass over due notifications and returns how many were sent.
func (r *Relay) Flush(ctx context.Context) (int, error) {
	const op = "notify.Relay.Flush"
	log := r.log.With(slog.String("op", op))

	pending, err := r.outbox.PendingNotifications(ctx, r.now(), r.cfg.Batch)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, n := range pending {
		if ctx.Err() != nil {
			return sent, ctx.Err()
		}
		if r.deliver(ctx, log, n) {
			sent++
		}
	}

	return sent, nil
}

func (r *Relay) deliver(ctx context.Context, log *slog.Logger, n domain.Notification) bool {
	log = log.With(slog.String("notification_id", n.ID), slog.String("kind", string(n.Kind)))

	sendCtx, cancel := context.WithTimeout(ctx, r.cfg.SendTimeout)
	err := r.dispatcher.Send(sendCtx, n)
	cancel()

	if err == nil {
		if err := r.outbox.MarkNotificationSent(ctx, n.ID, r.now()); err != nil {
			log.Error("failed to mark notification as sent", sl.Err(err))
		}
		r.observer.NotificationSent(string(n.Kind))
		return true
	}

	attempts := n.Attempts + 1
	dead := attempts >= r.cfg.MaxAttempts
	next := r.now().Add(r.backoff(attempts))
	if dead {
		log.Error("notification dropped after max attempts", slog.Int("attempts", attempts), sl.Err(err))
	} else {
		log.Warn("notification delivery failed", slog.Int("attempts", attempts), slog.Time("next_attempt", next), sl.Err(err))
	}

	if markErr := r.outbox.MarkNotificationFailed(ctx, n.ID, attempts, next, dead, err.Error()); markErr != nil {
		log.Error("failed to record delivery failure", sl.Err(markErr))
	}
	r.observer.NotificationFailed(string(n.Kind), dead)

	return false
}

func (r *Relay) backoff(attempts int) time.Duration {
	d := r.cfg.BaseBackoff
	for i := 1; i < attempts; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}
