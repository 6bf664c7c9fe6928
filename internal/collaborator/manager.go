// Package collaborator manages the collaborator invitation lifecycle of events.
package collaborator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"eventplanner-collab/internal/access"
	"eventplanner-collab/internal/domain"
	"eventplanner-collab/internal/lib/logger/sl"
	"eventplanner-collab/internal/notify"
	"eventplanner-collab/internal/store"
)

var errNoInvitation = fmt.Errorf("%w: there is no invitation for this user", domain.ErrNotFound)

type Manager struct {
	log      *slog.Logger
	store    store.Gateway
	composer notify.Composer
	now      func() time.Time
	newID    func() string
}

type Option func(*Manager)

func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(m *Manager) {
		m.newID = newID
	}
}

func New(log *slog.Logger, gw store.Gateway, composer notify.Composer, opts ...Option) *Manager {
	m := &Manager{
		log:      log,
		store:    gw,
		composer: composer,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) fail(log *slog.Logger, op, msg string, err error) error {
	if !domain.IsDomain(err) {
		log.Error("failed "+msg, sl.Err(err))
	}
	return domain.Wrap(op, msg, err)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Add invites email to the event. When a user already has that email the entry
// is linked to it, but it stays Pending until the invitation is accepted.
func (m *Manager) Add(ctx context.Context, ownerID, eventID, email string) (domain.Collaborator, error) {
	const op = "collaborator.Add"
	log := m.log.With(slog.String("op", op), slog.String("event_id", eventID))

	email = normalizeEmail(email)
	if email == "" {
		return domain.Collaborator{}, fmt.Errorf("%w: collaborator email is required", domain.ErrValidation)
	}

	var created domain.Collaborator
	err := m.store.WithinTx(ctx, func(tx store.Gateway) error {
		event, err := access.NewGuard(tx).Resolve(ctx, ownerID, eventID, domain.Projection{
			Owner:         true,
			Collaborators: true,
		})
		if err != nil {
			return err
		}

		if event.CollaboratorIndex(email) >= 0 {
			return fmt.Errorf("%w: there is already a collaborator with that email", domain.ErrDuplicate)
		}

		entry := domain.Collaborator{Email: email, Status: domain.CollaboratorPending}
		user, err := tx.FindUserByEmail(ctx, email)
		switch {
		case err == nil:
			userID := user.ID
			entry.CollaboratorID = &userID
		case !errors.Is(err, domain.ErrNotFound):
			return err
		}

		now := m.now()
		event.Collaborators = append(event.Collaborators, entry)
		event.Touch(now)
		if err := tx.SaveEvent(ctx, event); err != nil {
			return err
		}

		invite := &domain.Invite{
			ID:        m.newID(),
			Email:     email,
			EventID:   eventID,
			InvitedBy: ownerID,
			CreatedAt: now.UTC(),
		}
		if err := tx.CreateInvite(ctx, invite); err != nil {
			return err
		}

		mail := m.composer.CollaboratorInvitation(event.Owner.OwnerSnapshot(), email)
		if err := tx.EnqueueNotification(ctx, mail); err != nil {
			return err
		}

		created = entry
		return nil
	})
	if err != nil {
		return domain.Collaborator{}, m.fail(log, op, "adding collaborator", err)
	}

	log.Info("collaborator invited", slog.Bool("registered", created.CollaboratorID != nil))

	return created, nil
}

// Delete removes the collaborator selected by ref. The removal is scoped to the
// owner, so a non-owner gets the same not found error as a missing entry.
func (m *Manager) Delete(ctx context.Context, ownerID, eventID string, ref domain.CollaboratorRef) error {
	const op = "collaborator.Delete"
	log := m.log.With(slog.String("op", op), slog.String("event_id", eventID))

	ref.Email = normalizeEmail(ref.Email)

	err := m.store.WithinTx(ctx, func(tx store.Gateway) error {
		event, err := access.NewGuard(tx).Resolve(ctx, ownerID, eventID, domain.Projection{})
		if err != nil {
			return err
		}

		removed, n, err := tx.PullCollaborator(ctx, domain.EventFilter{EventID: eventID, OwnerID: ownerID}, ref)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: couldn't find the collaborator", domain.ErrNotFound)
		}

		event.Touch(m.now())
		if err := tx.SaveEvent(ctx, event); err != nil {
			return err
		}

		if removed.Status == domain.CollaboratorActive && removed.CollaboratorID != nil {
			if err := m.unlinkEvent(ctx, tx, *removed.CollaboratorID, eventID); err != nil {
				return err
			}
		}

		_, err = tx.DeleteInvite(ctx, removed.Email, eventID)
		return err
	})
	if err != nil {
		return m.fail(log, op, "deleting collaborator", err)
	}

	log.Info("collaborator removed")

	return nil
}

func (m *Manager) unlinkEvent(ctx context.Context, tx store.Gateway, userID, eventID string) error {
	user, err := tx.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	if !user.RemoveEvent(eventID) {
		return nil
	}
	user.Touch(m.now())
	return tx.SaveUser(ctx, user)
}

// Accept turns the caller's pending invitation into an active collaboration.
func (m *Manager) Accept(ctx context.Context, userID, eventID string) (domain.Collaborator, error) {
	const op = "collaborator.Accept"
	log := m.log.With(slog.String("op", op), slog.String("event_id", eventID))

	var accepted domain.Collaborator
	err := m.store.WithinTx(ctx, func(tx store.Gateway) error {
		event, err := tx.FindEventByID(ctx, eventID, domain.Projection{Collaborators: true})
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return errNoInvitation
			}
			return err
		}

		user, err := tx.FindUserByID(ctx, userID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return errNoInvitation
			}
			return err
		}

		i := event.CollaboratorIndex(user.Email)
		if i < 0 {
			return errNoInvitation
		}
		entry := &event.Collaborators[i]
		if entry.Status == domain.CollaboratorActive {
			return fmt.Errorf("%w: invitation already accepted", domain.ErrDuplicate)
		}

		now := m.now()
		id := user.ID
		entry.CollaboratorID = &id
		entry.Status = domain.CollaboratorActive
		event.Touch(now)
		if err := tx.SaveEvent(ctx, event); err != nil {
			return err
		}

		user.AddEvent(eventID)
		user.Touch(now)
		if err := tx.SaveUser(ctx, user); err != nil {
			return err
		}

		if _, err := tx.DeleteInvite(ctx, entry.Email, eventID); err != nil {
			return err
		}

		accepted = *entry
		return nil
	})
	if err != nil {
		return domain.Collaborator{}, m.fail(log, op, "accepting collaboration invitation", err)
	}

	log.Info("invitation accepted")

	return accepted, nil
}

func (m *Manager) List(ctx context.Context, ownerID, eventID string) ([]domain.Collaborator, error) {
	const op = "collaborator.List"
	log := m.log.With(slog.String("op", op), slog.String("event_id", eventID))

	event, err := access.NewGuard(m.store).Resolve(ctx, ownerID, eventID, domain.Projection{Collaborators: true})
	if err != nil {
		return nil, m.fail(log, op, "listing collaborators", err)
	}

	return event.Collaborators, nil
}
