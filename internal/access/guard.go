// Package access decides whether an actor may see or change an event.
package access

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"eventplanner-collab/internal/domain"
	"eventplanner-collab/internal/store"
)

var errNoEvent = fmt.Errorf("%w: couldn't find event", domain.ErrNotFound)

type Guard struct {
	store store.Gateway
}

// NewGuard returns a guard reading through gw, which may be bound to a transaction.
func NewGuard(gw store.Gateway) *Guard {
	return &Guard{store: gw}
}

// Resolve returns the event when actorID owns it. A missing event and an event
// owned by someone else produce the same not found error.
func (g *Guard) Resolve(ctx context.Context, actorID, eventID string, proj domain.Projection) (*domain.Event, error) {
	event, err := g.store.FindEventByID(ctx, eventID, proj)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errNoEvent
		}
		return nil, err
	}

	if event.OwnerID != actorID {
		return nil, errNoEvent
	}

	return event, nil
}

// ResolveVendor returns the event when vendorID holds a relationship with it,
// either a registered entry in the vendor list or a link in the vendor's upcoming events.
func (g *Guard) ResolveVendor(ctx context.Context, vendorID, eventID string, proj domain.Projection) (*domain.Event, error) {
	proj.Vendors = true
	event, err := g.store.FindEventByID(ctx, eventID, proj)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errNoEvent
		}
		return nil, err
	}

	if event.RegisteredVendorIndex(vendorID) >= 0 {
		return event, nil
	}

	vendor, err := g.store.FindUserByID(ctx, vendorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errNoEvent
		}
		return nil, err
	}
	if slices.Contains(vendor.UpcomingEvents, eventID) {
		return event, nil
	}

	return nil, errNoEvent
}
