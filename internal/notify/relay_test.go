package notify_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventplanner-collab/internal/domain"
	"eventplanner-collab/internal/notify"
	"eventplanner-collab/internal/store/storetest"
)

type fakeDispatcher struct {
	err  error
	sent []domain.Notification
}

func (d *fakeDispatcher) Send(_ context.Context, n domain.Notification) error {
	if d.err != nil {
		return d.err
	}
	d.sent = append(d.sent, n)
	return nil
}

type countingObserver struct {
	sent, failed, dead int
}

func (o *countingObserver) NotificationSent(string) { o.sent++ }

func (o *countingObserver) NotificationFailed(_ string, dead bool) {
	o.failed++
	if dead {
		o.dead++
	}
}

func TestRelay_Flush_Delivers(t *testing.T) {
	s, _ := storetest.Open(t)
	ctx := context.Background()

	require.NoError(t, s.EnqueueNotification(ctx, domain.Notification{
		Kind:    domain.NotifyVendorExit,
		To:      []string{"owner@example.com"},
		Subject: "left",
		Body:    "body",
	}))

	d := &fakeDispatcher{}
	obs := &countingObserver{}
	r := notify.NewRelay(slog.New(slog.DiscardHandler), s, d, notify.RelayConfig{},
		notify.WithObserver(obs),
		notify.WithRelayClock(func() time.Time { return storetest.Now }),
	)

	n, err := r.Flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, d.sent, 1)
	assert.Equal(t, []string{"owner@example.com"}, d.sent[0].To)
	assert.Equal(t, 1, obs.sent)

	n, err = r.Flush(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRelay_Flush_BacksOffThenDies(t *testing.T) {
	s, _ := storetest.Open(t)
	ctx := context.Background()

	require.NoError(t, s.EnqueueNotification(ctx, domain.Notification{ID: "n1", Kind: domain.NotifyVendorRemoval}))

	now := storetest.Now
	d := &fakeDispatcher{err: errors.New("broker unavailable")}
	obs := &countingObserver{}
	r := notify.NewRelay(slog.New(slog.DiscardHandler), s, d,
		notify.RelayConfig{MaxAttempts: 3, BaseBackoff: time.Second},
		notify.WithObserver(obs),
		notify.WithRelayClock(func() time.Time { return now }),
	)

	n, err := r.Flush(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	due, err := s.PendingNotifications(ctx, now, 10)
	require.NoError(t, err)
	assert.Empty(t, due, "retry must wait for the backoff")

	now = now.Add(time.Second)
	due, err = s.PendingNotifications(ctx, now, 10)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, 1, due[0].Attempts)

	_, err = r.Flush(ctx)
	require.NoError(t, err)
	now = now.Add(2 * time.Second)
	_, err = r.Flush(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, obs.failed)
	assert.Equal(t, 1, obs.dead)

	due, err = s.PendingNotifications(ctx, now.Add(24*time.Hour), 10)
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestRelay_Run_StopsOnCancel(t *testing.T) {
	s, _ := storetest.Open(t)
	r := notify.NewRelay(slog.New(slog.DiscardHandler), s, &fakeDispatcher{}, notify.RelayConfig{Interval: time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("relay did not stop")
	}
}
