package store

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"eventplanner-collab/internal/domain"
)

// FindUserByID loads the user with its lists. Inside WithinTx the user row stays
// locked until the transaction ends; callers lock the event first.
func (s *Store) FindUserByID(ctx context.Context, id string) (*domain.User, error) {
	const op = "store.FindUserByID"

	user, err := s.findUser(ctx, "id = ?", id, true)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// FindUserByEmail matches email case-insensitively. The row is not locked.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	const op = "store.FindUserByEmail"

	user, err := s.findUser(ctx, "LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email)), false)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

func (s *Store) findUser(ctx context.Context, cond string, arg any, lock bool) (*domain.User, error) {
	q := s.db.WithContext(ctx)
	if lock {
		q = s.forUpdate(q)
	}

	var rec UserRecord
	if err := q.First(&rec, cond, arg).Error; err != nil {
		return nil, mapErr(err)
	}

	user := rec.toDomain()
	if err := s.attachUserLists(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Store) attachUserLists(ctx context.Context, user *domain.User) error {
	var types []VendorEventTypeRecord
	err := s.db.WithContext(ctx).
		Where("user_id = ?", user.ID).
		Order("event_type ASC").
		Find(&types).Error
	if err != nil {
		return fmt.Errorf("event types: %w", err)
	}
	for _, t := range types {
		user.EventTypes = append(user.EventTypes, t.EventType)
	}

	var upcoming []UpcomingEventRecord
	err = s.db.WithContext(ctx).
		Where("vendor_id = ?", user.ID).
		Order("id ASC").
		Find(&upcoming).Error
	if err != nil {
		return fmt.Errorf("upcoming events: %w", err)
	}
	for _, u := range upcoming {
		user.UpcomingEvents = append(user.UpcomingEvents, u.EventID)
	}

	var events []UserEventRecord
	err = s.db.WithContext(ctx).
		Where("user_id = ?", user.ID).
		Order("id ASC").
		Find(&events).Error
	if err != nil {
		return fmt.Errorf("events: %w", err)
	}
	for _, e := range events {
		user.Events = append(user.Events, e.EventID)
	}

	return nil
}

// usersByID loads the scalar fields of the given users, keyed by id.
func (s *Store) usersByID(ctx context.Context, ids []string) (map[string]*domain.User, error) {
	users := make(map[string]*domain.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	var records []UserRecord
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&records).Error; err != nil {
		return nil, err
	}
	for _, r := range records {
		users[r.ID] = r.toDomain()
	}

	return users, nil
}

// SaveUser writes the user row and replaces its event type, upcoming event and event lists.
func (s *Store) SaveUser(ctx context.Context, user *domain.User) error {
	const op = "store.SaveUser"

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec := userRecordFrom(user)
		if err := tx.Save(&rec).Error; err != nil {
			return fmt.Errorf("user: %w", err)
		}

		if err := tx.Where("user_id = ?", user.ID).Delete(&VendorEventTypeRecord{}).Error; err != nil {
			return fmt.Errorf("clear event types: %w", err)
		}
		if len(user.EventTypes) > 0 {
			types := make([]VendorEventTypeRecord, 0, len(user.EventTypes))
			for _, t := range user.EventTypes {
				types = append(types, VendorEventTypeRecord{UserID: user.ID, EventType: t})
			}
			if err := tx.Create(&types).Error; err != nil {
				return fmt.Errorf("event types: %w", err)
			}
		}

		if err := tx.Where("vendor_id = ?", user.ID).Delete(&UpcomingEventRecord{}).Error; err != nil {
			return fmt.Errorf("clear upcoming events: %w", err)
		}
		if len(user.UpcomingEvents) > 0 {
			upcoming := make([]UpcomingEventRecord, 0, len(user.UpcomingEvents))
			for _, id := range user.UpcomingEvents {
				upcoming = append(upcoming, UpcomingEventRecord{VendorID: user.ID, EventID: id})
			}
			if err := tx.Create(&upcoming).Error; err != nil {
				return fmt.Errorf("upcoming events: %w", err)
			}
		}

		if err := tx.Where("user_id = ?", user.ID).Delete(&UserEventRecord{}).Error; err != nil {
			return fmt.Errorf("clear events: %w", err)
		}
		if len(user.Events) > 0 {
			events := make([]UserEventRecord, 0, len(user.Events))
			for _, id := range user.Events {
				events = append(events, UserEventRecord{UserID: user.ID, EventID: id})
			}
			if err := tx.Create(&events).Error; err != nil {
				return fmt.Errorf("events: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapErr(err))
	}

	return nil
}

// AggregateVendors returns vendors located at q.Location that service q.Type,
// minus q.ExcludeIDs, by lead count descending. Equal lead counts have no defined order.
func (s *Store) AggregateVendors(ctx context.Context, q VendorQuery) ([]domain.VendorSummary, error) {
	const op = "store.AggregateVendors"

	query := s.db.WithContext(ctx).
		Model(&UserRecord{}).
		Select("users.id, users.business_name, users.email, users.business_type, users.lead_count").
		Joins("JOIN vendor_event_types ON vendor_event_types.user_id = users.id AND vendor_event_types.event_type = ?", q.Type).
		Where("users.role = ? AND users.business_location = ?", string(domain.RoleVendor), q.Location)
	if len(q.ExcludeIDs) > 0 {
		query = query.Where("users.id NOT IN ?", q.ExcludeIDs)
	}

	summaries := []domain.VendorSummary{}
	if err := query.Order("users.lead_count DESC").Scan(&summaries).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return summaries, nil
}
