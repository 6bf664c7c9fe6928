package store

import (
	"time"

	"gorm.io/gorm"

	"eventplanner-collab/internal/domain"
)

// Timestamps are stamped by the managers, so gorm's auto stamping is off.

type UserRecord struct {
	ID               string    `gorm:"primaryKey;size:36"`
	Username         string    `gorm:"size:128"`
	Email            string    `gorm:"uniqueIndex;size:320;not null"`
	Role             string    `gorm:"size:16;index;not null"`
	BusinessName     string    `gorm:"size:256"`
	BusinessType     string    `gorm:"size:128"`
	BusinessLocation string    `gorm:"size:128;index"`
	LeadCount        int       `gorm:"not null;default:0"`
	CreatedAt        time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime:false"`
}

func (UserRecord) TableName() string { return "users" }

type VendorEventTypeRecord struct {
	UserID    string `gorm:"primaryKey;size:36"`
	EventType string `gorm:"primaryKey;size:64;index"`
}

func (VendorEventTypeRecord) TableName() string { return "vendor_event_types" }

type UpcomingEventRecord struct {
	ID       uint   `gorm:"primaryKey"`
	VendorID string `gorm:"size:36;not null;uniqueIndex:idx_upcoming_vendor_event"`
	EventID  string `gorm:"size:36;not null;uniqueIndex:idx_upcoming_vendor_event"`
}

func (UpcomingEventRecord) TableName() string { return "vendor_upcoming_events" }

type UserEventRecord struct {
	ID      uint   `gorm:"primaryKey"`
	UserID  string `gorm:"size:36;not null;uniqueIndex:idx_user_event"`
	EventID string `gorm:"size:36;not null;uniqueIndex:idx_user_event"`
}

func (UserEventRecord) TableName() string { return "user_events" }

type EventRecord struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Name      string    `gorm:"size:256;not null"`
	Date      time.Time `gorm:"not null"`
	Type      string    `gorm:"size:64;not null"`
	Budget    float64   `gorm:"not null"`
	Location  string    `gorm:"size:128;not null"`
	OwnerID   string    `gorm:"size:36;index;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false"`
}

func (EventRecord) TableName() string { return "events" }

type CollaboratorRecord struct {
	ID             uint    `gorm:"primaryKey"`
	EventID        string  `gorm:"size:36;not null;uniqueIndex:idx_event_collaborator_email"`
	CollaboratorID *string `gorm:"size:36;index"`
	Email          string  `gorm:"size:320;not null;uniqueIndex:idx_event_collaborator_email"`
	Status         string  `gorm:"size:16;not null"`
}

func (CollaboratorRecord) TableName() string { return "event_collaborators" }

// VendorRecord holds either a registered user id or the custom fields, never both.
type VendorRecord struct {
	ID              uint     `gorm:"primaryKey"`
	EventID         string   `gorm:"size:36;not null;index:idx_event_vendor_user,unique;index:idx_event_vendor_email,unique"`
	UserID          *string  `gorm:"size:36;index:idx_event_vendor_user,unique"`
	BusinessName    string   `gorm:"size:256"`
	Email           *string  `gorm:"size:320;index:idx_event_vendor_email,unique"`
	BusinessType    string   `gorm:"size:128"`
	Status          string   `gorm:"size:16;not null"`
	PriceForService *float64
}

func (VendorRecord) TableName() string { return "event_vendors" }

type InviteRecord struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Email     string    `gorm:"size:320;index;not null"`
	EventID   string    `gorm:"size:36;index;not null"`
	InvitedBy string    `gorm:"size:36"`
	CreatedAt time.Time `gorm:"autoCreateTime:false"`
}

func (InviteRecord) TableName() string { return "invites" }

const (
	outboxPending = "pending"
	outboxSent    = "sent"
	outboxDead    = "dead"
)

type OutboxRecord struct {
	ID            string     `gorm:"primaryKey;size:36"`
	Kind          string     `gorm:"size:64;not null"`
	Recipients    []string   `gorm:"serializer:json"`
	Subject       string     `gorm:"size:512"`
	Body          string     `gorm:"type:text"`
	Status        string     `gorm:"size:16;index:idx_outbox_due"`
	Attempts      int        `gorm:"not null;default:0"`
	LastError     string     `gorm:"type:text"`
	NextAttemptAt time.Time  `gorm:"index:idx_outbox_due"`
	SentAt        *time.Time `gorm:"default:null"`
	CreatedAt     time.Time  `gorm:"autoCreateTime:false"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime:false"`
}

func (OutboxRecord) TableName() string { return "outbox_messages" }

// Migrate creates or updates every table the store uses.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserRecord{},
		&VendorEventTypeRecord{},
		&UpcomingEventRecord{},
		&UserEventRecord{},
		&EventRecord{},
		&CollaboratorRecord{},
		&VendorRecord{},
		&InviteRecord{},
		&OutboxRecord{},
	)
}

func (r EventRecord) toDomain() *domain.Event {
	return &domain.Event{
		ID:        r.ID,
		Name:      r.Name,
		Date:      r.Date,
		Type:      r.Type,
		Budget:    r.Budget,
		Location:  r.Location,
		OwnerID:   r.OwnerID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func eventRecordFrom(e *domain.Event) EventRecord {
	return EventRecord{
		ID:        e.ID,
		Name:      e.Name,
		Date:      e.Date,
		Type:      e.Type,
		Budget:    e.Budget,
		Location:  e.Location,
		OwnerID:   e.OwnerID,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func (r CollaboratorRecord) toDomain() domain.Collaborator {
	return domain.Collaborator{
		CollaboratorID: r.CollaboratorID,
		Email:          r.Email,
		Status:         domain.CollaboratorStatus(r.Status),
	}
}

func (r VendorRecord) toDomain() domain.Vendor {
	v := domain.Vendor{
		Status:          domain.VendorStatus(r.Status),
		PriceForService: r.PriceForService,
	}
	if r.UserID != nil {
		v.Identity = domain.Registered{UserID: *r.UserID}
		return v
	}
	c := domain.Custom{BusinessName: r.BusinessName, BusinessType: r.BusinessType}
	if r.Email != nil {
		c.Email = *r.Email
	}
	v.Identity = c
	return v
}

func vendorRecordFrom(eventID string, v domain.Vendor) VendorRecord {
	rec := VendorRecord{
		EventID:         eventID,
		Status:          string(v.Status),
		PriceForService: v.PriceForService,
	}
	switch id := v.Identity.(type) {
	case domain.Registered:
		userID := id.UserID
		rec.UserID = &userID
	case domain.Custom:
		email := id.Email
		rec.Email = &email
		rec.BusinessName = id.BusinessName
		rec.BusinessType = id.BusinessType
	}
	return rec
}

func (r UserRecord) toDomain() *domain.User {
	return &domain.User{
		ID:               r.ID,
		Username:         r.Username,
		Email:            r.Email,
		Role:             domain.Role(r.Role),
		BusinessName:     r.BusinessName,
		BusinessType:     r.BusinessType,
		BusinessLocation: r.BusinessLocation,
		LeadCount:        r.LeadCount,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func userRecordFrom(u *domain.User) UserRecord {
	return UserRecord{
		ID:               u.ID,
		Username:         u.Username,
		Email:            u.Email,
		Role:             string(u.Role),
		BusinessName:     u.BusinessName,
		BusinessType:     u.BusinessType,
		BusinessLocation: u.BusinessLocation,
		LeadCount:        u.LeadCount,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}
