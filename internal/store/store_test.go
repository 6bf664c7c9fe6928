package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"eventplanner-collab/internal/domain"
	"eventplanner-collab/internal/store"
	"eventplanner-collab/internal/store/storetest"
)

func ptr[T any](v T) *T { return &v }

func TestStore_FindEventByID_Projection(t *testing.T) {
	s, _ := storetest.Open(t)
	ctx := context.Background()

	owner := storetest.Planner("p1", "owner@example.com")
	vendor := storetest.Vendor("v1", "v1@example.com", "NY", 3, "Wedding")
	storetest.SeedUsers(t, s, owner, vendor)

	event := storetest.Event("e1", "p1", 1000)
	event.Collaborators = []domain.Collaborator{{Email: "c@example.com", Status: domain.CollaboratorPending}}
	event.Vendors = []domain.Vendor{
		{Identity: domain.Registered{UserID: "v1"}, Status: domain.VendorNegotiation},
		{Identity: domain.Custom{BusinessName: "Cakes", Email: "cakes@example.com"}, Status: domain.VendorNegotiation, PriceForService: ptr(150.0)},
	}
	storetest.SeedEvents(t, s, event)

	bare, err := s.FindEventByID(ctx, "e1", domain.Projection{})
	require.NoError(t, err)
	assert.Nil(t, bare.Owner)
	assert.Empty(t, bare.Collaborators)
	assert.Empty(t, bare.Vendors)

	full, err := s.FindEventByID(ctx, "e1", domain.Projection{Owner: true, Collaborators: true, VendorUsers: true})
	require.NoError(t, err)
	require.NotNil(t, full.Owner)
	assert.Equal(t, "owner@example.com", full.Owner.Email)
	require.Len(t, full.Collaborators, 1)
	assert.Nil(t, full.Collaborators[0].CollaboratorID)
	require.Len(t, full.Vendors, 2)
	assert.Equal(t, "v1@example.com", full.Vendors[0].EffectiveEmail())
	assert.Equal(t, "cakes@example.com", full.Vendors[1].EffectiveEmail())
	assert.Equal(t, 150.0, *full.Vendors[1].PriceForService)

	unpopulated, err := s.FindEventByID(ctx, "e1", domain.Projection{Vendors: true})
	require.NoError(t, err)
	require.Len(t, unpopulated.Vendors, 2)
	assert.Empty(t, unpopulated.Vendors[0].EffectiveEmail())
}

func TestStore_FindEventByID_NotFound(t *testing.T) {
	s, _ := storetest.Open(t)

	_, err := s.FindEventByID(context.Background(), "missing", domain.Projection{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_SaveEvent_KeepsListsNotLoaded(t *testing.T) {
	s, _ := storetest.Open(t)
	ctx := context.Background()

	storetest.SeedUsers(t, s, storetest.Planner("p1", "owner@example.com"))
	event := storetest.Event("e1", "p1", 1000)
	event.Collaborators = []domain.Collaborator{{Email: "c@example.com", Status: domain.CollaboratorPending}}
	storetest.SeedEvents(t, s, event)

	scalar, err := s.FindEventByID(ctx, "e1", domain.Projection{})
	require.NoError(t, err)
	scalar.Budget = 500
	require.NoError(t, s.SaveEvent(ctx, scalar))

	got, err := s.FindEventByID(ctx, "e1", domain.Projection{Collaborators: true})
	require.NoError(t, err)
	assert.Equal(t, 500.0, got.Budget)
	assert.Len(t, got.Collaborators, 1)
}

func TestStore_SaveEvent_DuplicateCollaborator(t *testing.T) {
	s, _ := storetest.Open(t)

	storetest.SeedUsers(t, s, storetest.Planner("p1", "owner@example.com"))
	event := storetest.Event("e1", "p1", 1000)
	event.Collaborators = []domain.Collaborator{
		{Email: "c@example.com", Status: domain.CollaboratorPending},
		{Email: "c@example.com", Status: domain.CollaboratorPending},
	}

	err := s.SaveEvent(context.Background(), event)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestStore_PullCollaborator_OwnerScoped(t *testing.T) {
	s, _ := storetest.Open(t)
	ctx := context.Background()

	storetest.SeedUsers(t, s, storetest.Planner("p1", "owner@example.com"))
	event := storetest.Event("e1", "p1", 1000)
	event.Collaborators = []domain.Collaborator{
		{CollaboratorID: ptr("u1"), Email: "u1@example.com", Status: domain.CollaboratorActive},
		{Email: "u2@example.com", Status: domain.CollaboratorPending},
	}
	storetest.SeedEvents(t, s, event)

	_, n, err := s.PullCollaborator(ctx, domain.EventFilter{EventID: "e1", OwnerID: "intruder"}, domain.CollaboratorRef{Email: "u2@example.com"})
	require.NoError(t, err)
	assert.Zero(t, n)

	removed, n, err := s.PullCollaborator(ctx, domain.EventFilter{EventID: "e1", OwnerID: "p1"}, domain.CollaboratorRef{CollaboratorID: "u1"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.Equal(t, domain.CollaboratorActive, removed.Status)
	assert.Equal(t, "u1@example.com", removed.Email)

	got, err := s.FindEventByID(ctx, "e1", domain.Projection{Collaborators: true})
	require.NoError(t, err)
	require.Len(t, got.Collaborators, 1)
	assert.Equal(t, "u2@example.com", got.Collaborators[0].Email)
}

func TestStore_PullVendor_CustomByEmail(t *testing.T) {
	s, _ := storetest.Open(t)
	ctx := context.Background()

	storetest.SeedUsers(t, s,
		storetest.Planner("p1", "owner@example.com"),
		storetest.Vendor("v1", "v1@example.com", "NY", 0, "Wedding"),
	)
	event := storetest.Event("e1", "p1", 1000)
	event.Vendors = []domain.Vendor{
		{Identity: domain.Registered{UserID: "v1"}, Status: domain.VendorNegotiation},
		{Identity: domain.Custom{BusinessName: "Cakes", Email: "cakes@example.com"}, Status: domain.VendorNegotiation},
	}
	storetest.SeedEvents(t, s, event)

	// a registered vendor is never matched by email
	_, n, err := s.PullVendor(ctx, domain.EventFilter{EventID: "e1", OwnerID: "p1"}, domain.VendorRef{Email: "v1@example.com"})
	require.NoError(t, err)
	assert.Zero(t, n)

	removed, n, err := s.PullVendor(ctx, domain.EventFilter{EventID: "e1", OwnerID: "p1"}, domain.VendorRef{Email: "cakes@example.com"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.Equal(t, "Cakes", removed.View().BusinessName)

	removed, n, err = s.PullVendor(ctx, domain.EventFilter{EventID: "e1", VendorID: "v1"}, domain.VendorRef{VendorID: "v1"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	id, ok := removed.RegisteredID()
	assert.True(t, ok)
	assert.Equal(t, "v1", id)
}

func TestStore_SaveUser_RoundTripsLists(t *testing.T) {
	s, _ := storetest.Open(t)
	ctx := context.Background()

	vendor := storetest.Vendor("v1", "v1@example.com", "NY", 1, "Wedding", "Birthday")
	vendor.UpcomingEvents = []string{"e2", "e1"}
	vendor.Events = []string{"e3"}
	storetest.SeedUsers(t, s, vendor)

	got, err := s.FindUserByEmail(ctx, "v1@example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"Birthday", "Wedding"}, got.EventTypes)
	assert.Equal(t, []string{"e2", "e1"}, got.UpcomingEvents)
	assert.Equal(t, []string{"e3"}, got.Events)

	got.RemoveUpcomingEvent("e2")
	require.NoError(t, s.SaveUser(ctx, got))

	again, err := s.FindUserByID(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, []string{"e1"}, again.UpcomingEvents)
	assert.Equal(t, 0, again.LeadCount)
}

func TestStore_AggregateVendors(t *testing.T) {
	s, _ := storetest.Open(t)
	ctx := context.Background()

	storetest.SeedUsers(t, s,
		storetest.Vendor("a", "a@example.com", "NY", 5, "Wedding"),
		storetest.Vendor("b", "b@example.com", "NY", 10, "Wedding", "Birthday"),
		storetest.Vendor("c", "c@example.com", "LA", 50, "Wedding"),
		storetest.Vendor("d", "d@example.com", "NY", 70, "Birthday"),
		storetest.Planner("p", "p@example.com"),
	)

	got, err := s.AggregateVendors(ctx, store.VendorQuery{Type: "Wedding", Location: "NY"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, "a", got[1].ID)
	assert.Equal(t, "b Studio", got[0].BusinessName)
	assert.Equal(t, 10, got[0].LeadCount)

	got, err = s.AggregateVendors(ctx, store.VendorQuery{Type: "Wedding", Location: "NY", ExcludeIDs: []string{"b"}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)

	got, err = s.AggregateVendors(ctx, store.VendorQuery{Type: "Gala", Location: "NY"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_FindEventSummaries_KeepsOrder(t *testing.T) {
	s, _ := storetest.Open(t)
	ctx := context.Background()

	storetest.SeedUsers(t, s, storetest.Planner("p1", "owner@example.com"))
	storetest.SeedEvents(t, s, storetest.Event("e1", "p1", 0), storetest.Event("e2", "p1", 0))

	got, err := s.FindEventSummaries(ctx, []string{"e2", "missing", "e1"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "e2", got[0].ID)
	assert.Equal(t, "e1", got[1].ID)
	assert.Equal(t, "owner@example.com", got[0].OwnerEmail)
	assert.Equal(t, "Wedding", got[0].Type)

	empty, err := s.FindEventSummaries(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestStore_WithinTx_RollsBack(t *testing.T) {
	s, _ := storetest.Open(t)
	ctx := context.Background()

	storetest.SeedUsers(t, s, storetest.Planner("p1", "owner@example.com"))
	storetest.SeedEvents(t, s, storetest.Event("e1", "p1", 1000))

	err := s.WithinTx(ctx, func(tx store.Gateway) error {
		event, err := tx.FindEventByID(ctx, "e1", domain.Projection{})
		require.NoError(t, err)
		event.Deduct(400)
		require.NoError(t, tx.SaveEvent(ctx, event))
		return domain.ErrDuplicate
	})
	require.ErrorIs(t, err, domain.ErrDuplicate)

	got, err := s.FindEventByID(ctx, "e1", domain.Projection{})
	require.NoError(t, err)
	assert.Equal(t, 1000.0, got.Budget)
}

func TestStore_WithinTx_LocksRows(t *testing.T) {
	s, db := storetest.Open(t)
	ctx := context.Background()
	storetest.SeedUsers(t, s,
		storetest.Planner("p1", "owner@example.com"),
		storetest.Vendor("v1", "v1@example.com", "NY", 3, "Wedding"),
	)
	storetest.SeedEvents(t, s, storetest.Event("e1", "p1", 1000))

	var locked []string
	err := db.Callback().Query().Before("gorm:query").Register("test:record_locks", func(tx *gorm.DB) {
		if _, ok := tx.Statement.Clauses["FOR"]; ok {
			locked = append(locked, tx.Statement.Table)
		}
	})
	require.NoError(t, err)

	_, err = s.FindEventByID(ctx, "e1", domain.Projection{Owner: true})
	require.NoError(t, err)
	_, err = s.FindUserByID(ctx, "v1")
	require.NoError(t, err)
	assert.Empty(t, locked)

	err = s.WithinTx(ctx, func(tx store.Gateway) error {
		if _, err := tx.FindEventByID(ctx, "e1", domain.Projection{Owner: true, Vendors: true}); err != nil {
			return err
		}
		if _, err := tx.FindUserByEmail(ctx, "v1@example.com"); err != nil {
			return err
		}
		_, err := tx.FindUserByID(ctx, "v1")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"events", "users"}, locked)
}

func TestStore_FindUserByEmail_IgnoresCase(t *testing.T) {
	s, _ := storetest.Open(t)
	storetest.SeedUsers(t, s, storetest.Planner("bob", "Bob@Example.com"))

	u, err := s.FindUserByEmail(context.Background(), "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, "bob", u.ID)
}

func TestStore_Invites(t *testing.T) {
	s, _ := storetest.Open(t)
	ctx := context.Background()

	require.NoError(t, s.CreateInvite(ctx, &domain.Invite{
		ID:        "i1",
		Email:     "c@example.com",
		EventID:   "e1",
		InvitedBy: "p1",
		CreatedAt: storetest.Now,
	}))

	n, err := s.DeleteInvite(ctx, "c@example.com", "e2")
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = s.DeleteInvite(ctx, "c@example.com", "e1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestStore_Outbox(t *testing.T) {
	s, _ := storetest.Open(t)
	ctx := context.Background()

	require.NoError(t, s.EnqueueNotification(ctx, domain.Notification{
		ID:      "n1",
		Kind:    domain.NotifyVendorInvitation,
		To:      []string{"v@example.com"},
		Subject: "hello",
		Body:    "body",
	}))

	due, err := s.PendingNotifications(ctx, storetest.Now, 10)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, []string{"v@example.com"}, due[0].To)
	assert.Equal(t, domain.NotifyVendorInvitation, due[0].Kind)

	next := storetest.Now.Add(time.Minute)
	require.NoError(t, s.MarkNotificationFailed(ctx, "n1", 1, next, false, "broker down"))

	due, err = s.PendingNotifications(ctx, storetest.Now, 10)
	require.NoError(t, err)
	assert.Empty(t, due)

	due, err = s.PendingNotifications(ctx, next, 10)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, 1, due[0].Attempts)

	require.NoError(t, s.MarkNotificationSent(ctx, "n1", next))
	due, err = s.PendingNotifications(ctx, next.Add(time.Hour), 10)
	require.NoError(t, err)
	assert.Empty(t, due)

	assert.ErrorIs(t, s.MarkNotificationSent(ctx, "missing", next), domain.ErrNotFound)
}
