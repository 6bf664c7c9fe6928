package store

import (
	"context"
	"fmt"
	"slices"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"eventplanner-collab/internal/domain"
)

// Store implements Gateway and Outbox on a gorm connection.
type Store struct {
	db   *gorm.DB
	now  func() time.Time
	inTx bool
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func New(db *gorm.DB, opts ...Option) *Store {
	s := &Store{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) WithinTx(ctx context.Context, fn func(tx Gateway) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx, now: s.now, inTx: true})
	})
}

// forUpdate locks the selected rows until the surrounding transaction ends.
// Outside WithinTx it leaves the query as is.
func (s *Store) forUpdate(q *gorm.DB) *gorm.DB {
	if !s.inTx {
		return q
	}
	return q.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
}

// FindEventByID loads the event and attaches the parts proj asks for. Inside
// WithinTx the event row stays locked until the transaction ends, so lists and
// budget are read after any concurrent writer committed.
func (s *Store) FindEventByID(ctx context.Context, id string, proj domain.Projection) (*domain.Event, error) {
	const op = "store.FindEventByID"

	var rec EventRecord
	if err := s.forUpdate(s.db.WithContext(ctx)).First(&rec, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapErr(err))
	}

	event := rec.toDomain()
	event.Loaded = proj

	if proj.Owner {
		owner, err := s.findUser(ctx, "id = ?", rec.OwnerID, false)
		if err != nil {
			return nil, fmt.Errorf("%s: owner: %w", op, err)
		}
		event.Owner = owner
	}

	if proj.Collaborators {
		var collaborators []CollaboratorRecord
		err := s.db.WithContext(ctx).
			Where("event_id = ?", id).
			Order("id ASC").
			Find(&collaborators).Error
		if err != nil {
			return nil, fmt.Errorf("%s: collaborators: %w", op, err)
		}
		event.Collaborators = make([]domain.Collaborator, 0, len(collaborators))
		for _, c := range collaborators {
			event.Collaborators = append(event.Collaborators, c.toDomain())
		}
	}

	if proj.Vendors || proj.VendorUsers {
		vendors, err := s.loadVendors(ctx, id, proj.VendorUsers)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		event.Vendors = vendors
	}

	return event, nil
}

func (s *Store) loadVendors(ctx context.Context, eventID string, populate bool) ([]domain.Vendor, error) {
	var records []VendorRecord
	err := s.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("id ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("vendors: %w", err)
	}

	vendors := make([]domain.Vendor, 0, len(records))
	for _, r := range records {
		vendors = append(vendors, r.toDomain())
	}
	if !populate {
		return vendors, nil
	}

	var ids []string
	for _, v := range vendors {
		if id, ok := v.RegisteredID(); ok {
			ids = append(ids, id)
		}
	}
	users, err := s.usersByID(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("vendor users: %w", err)
	}
	for i, v := range vendors {
		if id, ok := v.RegisteredID(); ok {
			vendors[i].Identity = domain.Registered{UserID: id, User: users[id]}
		}
	}

	return vendors, nil
}

// FindEventSummaries returns the summaries of the given events in the order of ids.
// Unknown ids are skipped.
func (s *Store) FindEventSummaries(ctx context.Context, ids []string) ([]domain.EventSummary, error) {
	const op = "store.FindEventSummaries"

	if len(ids) == 0 {
		return []domain.EventSummary{}, nil
	}

	var rows []domain.EventSummary
	err := s.db.WithContext(ctx).
		Table("events").
		Select("events.id, events.name, events.type, events.location, events.date, COALESCE(users.email, '') AS owner_email").
		Joins("LEFT JOIN users ON users.id = events.owner_id").
		Where("events.id IN ?", ids).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	slices.SortStableFunc(rows, func(a, b domain.EventSummary) int {
		return slices.Index(ids, a.ID) - slices.Index(ids, b.ID)
	})

	return rows, nil
}

// SaveEvent writes the event row and replaces the lists it was loaded with.
func (s *Store) SaveEvent(ctx context.Context, event *domain.Event) error {
	const op = "store.SaveEvent"

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec := eventRecordFrom(event)
		if err := tx.Save(&rec).Error; err != nil {
			return fmt.Errorf("event: %w", err)
		}

		if event.Loaded.Collaborators {
			if err := tx.Where("event_id = ?", event.ID).Delete(&CollaboratorRecord{}).Error; err != nil {
				return fmt.Errorf("clear collaborators: %w", err)
			}
			if len(event.Collaborators) > 0 {
				records := make([]CollaboratorRecord, 0, len(event.Collaborators))
				for _, c := range event.Collaborators {
					records = append(records, CollaboratorRecord{
						EventID:        event.ID,
						CollaboratorID: c.CollaboratorID,
						Email:          c.Email,
						Status:         string(c.Status),
					})
				}
				if err := tx.Create(&records).Error; err != nil {
					return fmt.Errorf("collaborators: %w", err)
				}
			}
		}

		if event.Loaded.Vendors || event.Loaded.VendorUsers {
			if err := tx.Where("event_id = ?", event.ID).Delete(&VendorRecord{}).Error; err != nil {
				return fmt.Errorf("clear vendors: %w", err)
			}
			if len(event.Vendors) > 0 {
				records := make([]VendorRecord, 0, len(event.Vendors))
				for _, v := range event.Vendors {
					records = append(records, vendorRecordFrom(event.ID, v))
				}
				if err := tx.Create(&records).Error; err != nil {
					return fmt.Errorf("vendors: %w", err)
				}
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapErr(err))
	}

	return nil
}

func (s *Store) collaboratorScope(ctx context.Context, f domain.EventFilter, ref domain.CollaboratorRef) *gorm.DB {
	q := s.db.WithContext(ctx).
		Model(&CollaboratorRecord{}).
		Where("event_id = ?", f.EventID)
	if f.OwnerID != "" {
		q = q.Where("event_id IN (?)", s.ownedEvents(ctx, f))
	}
	if ref.CollaboratorID != "" {
		return q.Where("collaborator_id = ?", ref.CollaboratorID)
	}
	return q.Where("email = ?", ref.Email)
}

func (s *Store) ownedEvents(ctx context.Context, f domain.EventFilter) *gorm.DB {
	return s.db.WithContext(ctx).
		Model(&EventRecord{}).
		Select("id").
		Where("id = ? AND owner_id = ?", f.EventID, f.OwnerID)
}

func (s *Store) PullCollaborator(ctx context.Context, f domain.EventFilter, ref domain.CollaboratorRef) (domain.Collaborator, int64, error) {
	const op = "store.PullCollaborator"

	if ref.CollaboratorID == "" && ref.Email == "" {
		return domain.Collaborator{}, 0, nil
	}

	var rec CollaboratorRecord
	res := s.collaboratorScope(ctx, f, ref).Limit(1).Find(&rec)
	if res.Error != nil {
		return domain.Collaborator{}, 0, fmt.Errorf("%s: %w", op, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.Collaborator{}, 0, nil
	}

	res = s.collaboratorScope(ctx, f, ref).Where("id = ?", rec.ID).Delete(&CollaboratorRecord{})
	if res.Error != nil {
		return domain.Collaborator{}, 0, fmt.Errorf("%s: %w", op, res.Error)
	}

	return rec.toDomain(), res.RowsAffected, nil
}

func (s *Store) vendorScope(ctx context.Context, f domain.EventFilter, ref domain.VendorRef) *gorm.DB {
	q := s.db.WithContext(ctx).
		Model(&VendorRecord{}).
		Where("event_id = ?", f.EventID)
	if f.OwnerID != "" {
		q = q.Where("event_id IN (?)", s.ownedEvents(ctx, f))
	}
	if f.VendorID != "" {
		q = q.Where("user_id = ?", f.VendorID)
	}
	if ref.VendorID != "" {
		return q.Where("user_id = ?", ref.VendorID)
	}
	return q.Where("user_id IS NULL AND email = ?", ref.Email)
}

func (s *Store) PullVendor(ctx context.Context, f domain.EventFilter, ref domain.VendorRef) (domain.Vendor, int64, error) {
	const op = "store.PullVendor"

	if ref.VendorID == "" && ref.Email == "" {
		return domain.Vendor{}, 0, nil
	}

	var rec VendorRecord
	res := s.vendorScope(ctx, f, ref).Limit(1).Find(&rec)
	if res.Error != nil {
		return domain.Vendor{}, 0, fmt.Errorf("%s: %w", op, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.Vendor{}, 0, nil
	}

	res = s.vendorScope(ctx, f, ref).Where("id = ?", rec.ID).Delete(&VendorRecord{})
	if res.Error != nil {
		return domain.Vendor{}, 0, fmt.Errorf("%s: %w", op, res.Error)
	}

	return rec.toDomain(), res.RowsAffected, nil
}

func (s *Store) CreateInvite(ctx context.Context, invite *domain.Invite) error {
	const op = "store.CreateInvite"

	rec := InviteRecord{
		ID:        invite.ID,
		Email:     invite.Email,
		EventID:   invite.EventID,
		InvitedBy: invite.InvitedBy,
		CreatedAt: invite.CreatedAt,
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("%s: %w", op, mapErr(err))
	}

	return nil
}

func (s *Store) DeleteInvite(ctx context.Context, email, eventID string) (int64, error) {
	const op = "store.DeleteInvite"

	res := s.db.WithContext(ctx).
		Where("email = ? AND event_id = ?", email, eventID).
		Delete(&InviteRecord{})
	if res.Error != nil {
		return 0, fmt.Errorf("%s: %w", op, res.Error)
	}

	return res.RowsAffected, nil
}
