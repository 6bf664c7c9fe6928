package access_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventplanner-collab/internal/access"
	"eventplanner-collab/internal/domain"
	"eventplanner-collab/internal/store/storetest"
)

func TestGuard_Resolve(t *testing.T) {
	s, _ := storetest.Open(t)
	storetest.SeedUsers(t, s,
		storetest.Planner("p1", "owner@example.com"),
		storetest.Planner("p2", "other@example.com"),
	)
	storetest.SeedEvents(t, s, storetest.Event("e1", "p1", 1000))

	guard := access.NewGuard(s)
	ctx := context.Background()

	event, err := guard.Resolve(ctx, "p1", "e1", domain.Projection{Owner: true})
	require.NoError(t, err)
	assert.Equal(t, "e1", event.ID)
	require.NotNil(t, event.Owner)
	assert.Equal(t, "owner@example.com", event.Owner.Email)

	_, missingErr := guard.Resolve(ctx, "p1", "missing", domain.Projection{})
	_, foreignErr := guard.Resolve(ctx, "p2", "e1", domain.Projection{})

	assert.ErrorIs(t, missingErr, domain.ErrNotFound)
	assert.ErrorIs(t, foreignErr, domain.ErrNotFound)
	assert.Equal(t, missingErr.Error(), foreignErr.Error())
}

func TestGuard_ResolveVendor(t *testing.T) {
	s, _ := storetest.Open(t)

	listed := storetest.Vendor("v1", "v1@example.com", "NY", 0, "Wedding")
	linked := storetest.Vendor("v2", "v2@example.com", "NY", 1, "Wedding")
	linked.UpcomingEvents = []string{"e1"}
	stranger := storetest.Vendor("v3", "v3@example.com", "NY", 0, "Wedding")
	storetest.SeedUsers(t, s, storetest.Planner("p1", "owner@example.com"), listed, linked, stranger)

	event := storetest.Event("e1", "p1", 1000)
	event.Vendors = []domain.Vendor{{Identity: domain.Registered{UserID: "v1"}, Status: domain.VendorNegotiation}}
	storetest.SeedEvents(t, s, event)

	guard := access.NewGuard(s)
	ctx := context.Background()

	got, err := guard.ResolveVendor(ctx, "v1", "e1", domain.Projection{})
	require.NoError(t, err)
	assert.Len(t, got.Vendors, 1)

	_, err = guard.ResolveVendor(ctx, "v2", "e1", domain.Projection{})
	require.NoError(t, err)

	_, err = guard.ResolveVendor(ctx, "v3", "e1", domain.Projection{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = guard.ResolveVendor(ctx, "v1", "missing", domain.Projection{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
