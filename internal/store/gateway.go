// Package store is the data access layer over events and users, backed by gorm.
package store

import (
	"context"
	"time"

	"eventplanner-collab/internal/domain"
)

// Gateway is the narrow data access surface the managers depend on.
type Gateway interface {
	// WithinTx runs fn against a gateway bound to one transaction.
	WithinTx(ctx context.Context, fn func(tx Gateway) error) error

	FindEventByID(ctx context.Context, id string, proj domain.Projection) (*domain.Event, error)
	FindEventSummaries(ctx context.Context, ids []string) ([]domain.EventSummary, error)
	SaveEvent(ctx context.Context, event *domain.Event) error
	// PullCollaborator removes the entry matching ref from the filtered event and
	// returns it with the number of rows removed. Zero means nothing matched.
	PullCollaborator(ctx context.Context, f domain.EventFilter, ref domain.CollaboratorRef) (domain.Collaborator, int64, error)
	PullVendor(ctx context.Context, f domain.EventFilter, ref domain.VendorRef) (domain.Vendor, int64, error)

	FindUserByID(ctx context.Context, id string) (*domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	SaveUser(ctx context.Context, user *domain.User) error
	AggregateVendors(ctx context.Context, q VendorQuery) ([]domain.VendorSummary, error)

	CreateInvite(ctx context.Context, invite *domain.Invite) error
	DeleteInvite(ctx context.Context, email, eventID string) (int64, error)

	EnqueueNotification(ctx context.Context, n domain.Notification) error
}

// Outbox is the relay side of the notification outbox.
type Outbox interface {
	PendingNotifications(ctx context.Context, now time.Time, limit int) ([]domain.Notification, error)
	MarkNotificationSent(ctx context.Context, id string, at time.Time) error
	MarkNotificationFailed(ctx context.Context, id string, attempts int, next time.Time, dead bool, cause string) error
}

// VendorQuery selects suggestion candidates.
type VendorQuery struct {
	Type       string
	Location   string
	ExcludeIDs []string
}
