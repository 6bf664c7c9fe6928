package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"eventplanner-collab/internal/domain"
)

// EnqueueNotification stores n as due immediately. It joins the caller's
// transaction when the store is bound to one.
func (s *Store) EnqueueNotification(ctx context.Context, n domain.Notification) error {
	const op = "store.EnqueueNotification"

	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	now := s.now().UTC()
	rec := OutboxRecord{
		ID:            n.ID,
		Kind:          string(n.Kind),
		Recipients:    n.To,
		Subject:       n.Subject,
		Body:          n.Body,
		Status:        outboxPending,
		NextAttemptAt: now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("%s: %w", op, mapErr(err))
	}

	return nil
}

// PendingNotifications returns up to limit due notifications, oldest first.
func (s *Store) PendingNotifications(ctx context.Context, now time.Time, limit int) ([]domain.Notification, error) {
	const op = "store.PendingNotifications"

	var records []OutboxRecord
	err := s.db.WithContext(ctx).
		Where("status = ? AND next_attempt_at <= ?", outboxPending, now.UTC()).
		Order("created_at ASC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]domain.Notification, 0, len(records))
	for _, r := range records {
		out = append(out, domain.Notification{
			ID:       r.ID,
			Kind:     domain.NotificationKind(r.Kind),
			To:       r.Recipients,
			Subject:  r.Subject,
			Body:     r.Body,
			Attempts: r.Attempts,
		})
	}

	return out, nil
}

func (s *Store) MarkNotificationSent(ctx context.Context, id string, at time.Time) error {
	const op = "store.MarkNotificationSent"

	at = at.UTC()
	res := s.db.WithContext(ctx).
		Model(&OutboxRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     outboxSent,
			"sent_at":    at,
			"updated_at": at,
		})
	if res.Error != nil {
		return fmt.Errorf("%s: %w", op, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}

	return nil
}

// MarkNotificationFailed records a failed attempt. A dead message is never picked up again.
func (s *Store) MarkNotificationFailed(ctx context.Context, id string, attempts int, next time.Time, dead bool, cause string) error {
	const op = "store.MarkNotificationFailed"

	status := outboxPending
	if dead {
		status = outboxDead
	}
	res := s.db.WithContext(ctx).
		Model(&OutboxRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":          status,
			"attempts":        attempts,
			"last_error":      cause,
			"next_attempt_at": next.UTC(),
			"updated_at":      s.now().UTC(),
		})
	if res.Error != nil {
		return fmt.Errorf("%s: %w", op, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}

	return nil
}

var (
	_ Gateway = (*Store)(nil)
	_ Outbox  = (*Store)(nil)
)
