// Package storetest opens throwaway in-memory stores for tests.
package storetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"eventplanner-collab/internal/domain"
	"eventplanner-collab/internal/store"
)

// Now is the fixed clock every test store runs on.
var Now = time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)

// Open returns a migrated store on a private in-memory SQLite database.
func Open(t *testing.T) (*store.Store, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, store.Migrate(db))

	return store.New(db, store.WithClock(func() time.Time { return Now })), db
}

func Planner(id, email string) *domain.User {
	return &domain.User{
		ID:        id,
		Username:  id,
		Email:     email,
		Role:      domain.RolePlanner,
		CreatedAt: Now,
		UpdatedAt: Now,
	}
}

func Vendor(id, email, location string, leadCount int, eventTypes ...string) *domain.User {
	return &domain.User{
		ID:               id,
		Username:         id,
		Email:            email,
		Role:             domain.RoleVendor,
		BusinessName:     id + " Studio",
		BusinessType:     "Photography",
		BusinessLocation: location,
		EventTypes:       eventTypes,
		LeadCount:        leadCount,
		CreatedAt:        Now,
		UpdatedAt:        Now,
	}
}

func Event(id, ownerID string, budget float64) *domain.Event {
	return &domain.Event{
		ID:        id,
		Name:      "Event " + id,
		Date:      Now.Add(30 * 24 * time.Hour),
		Type:      "Wedding",
		Budget:    budget,
		Location:  "NY",
		OwnerID:   ownerID,
		CreatedAt: Now,
		UpdatedAt: Now,
		Loaded:    domain.Projection{Collaborators: true, Vendors: true},
	}
}

func SeedUsers(t *testing.T, s *store.Store, users ...*domain.User) {
	t.Helper()
	for _, u := range users {
		require.NoError(t, s.SaveUser(context.Background(), u))
	}
}

func SeedEvents(t *testing.T, s *store.Store, events ...*domain.Event) {
	t.Helper()
	for _, e := range events {
		require.NoError(t, s.SaveEvent(context.Background(), e))
	}
}
