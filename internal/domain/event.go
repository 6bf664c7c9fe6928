// Package domain defines the event collaboration and vendor negotiation model.
package domain

import (
	"strings"
	"time"
)

type CollaboratorStatus string

const (
	CollaboratorPending CollaboratorStatus = "Pending"
	CollaboratorActive  CollaboratorStatus = "Active"
)

// Collaborator is one entry of an event's collaborator list. Email is its key.
type Collaborator struct {
	CollaboratorID *string            `json:"collaboratorId"`
	Email          string             `json:"email"`
	Status         CollaboratorStatus `json:"status"`
}

// CollaboratorRef selects a collaborator entry by user id when set, by email otherwise.
type CollaboratorRef struct {
	CollaboratorID string
	Email          string
}

// Projection names the parts of an event a lookup should load.
// VendorUsers attaches the registered vendor users and implies Vendors.
type Projection struct {
	Owner         bool
	Collaborators bool
	Vendors       bool
	VendorUsers   bool
}

type Event struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Date          time.Time      `json:"date"`
	Type          string         `json:"type"`
	Budget        float64        `json:"budget"`
	Location      string         `json:"location"`
	OwnerID       string         `json:"ownerId"`
	Owner         *User          `json:"owner,omitempty"`
	Collaborators []Collaborator `json:"collaborators,omitempty"`
	Vendors       []Vendor       `json:"vendors,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`

	// Loaded records the projection the event was read with; saves only
	// rewrite the lists that were loaded.
	Loaded Projection `json:"-"`
}

func (e *Event) Touch(now time.Time) {
	e.UpdatedAt = now.UTC()
}

// Deduct lowers the budget by amount. There is no floor.
func (e *Event) Deduct(amount float64) {
	e.Budget -= amount
}

func (e *Event) CollaboratorIndex(email string) int {
	for i, c := range e.Collaborators {
		if strings.EqualFold(c.Email, email) {
			return i
		}
	}
	return -1
}

// VendorEmailTaken reports whether another vendor entry already uses email.
// The entry at index skip is ignored; pass -1 to check all entries.
func (e *Event) VendorEmailTaken(email string, skip int) bool {
	if email == "" {
		return false
	}
	for i, v := range e.Vendors {
		if i == skip {
			continue
		}
		if strings.EqualFold(v.EffectiveEmail(), email) {
			return true
		}
	}
	return false
}

func (e *Event) RegisteredVendorIndex(userID string) int {
	for i, v := range e.Vendors {
		if id, ok := v.RegisteredID(); ok && id == userID {
			return i
		}
	}
	return -1
}

func (e *Event) CustomVendorIndex(email string) int {
	for i, v := range e.Vendors {
		if c, ok := v.Identity.(Custom); ok && strings.EqualFold(c.Email, email) {
			return i
		}
	}
	return -1
}

// RegisteredVendorIDs lists the platform ids of registered vendors on the event.
// Custom vendors have no id and cannot appear here.
func (e *Event) RegisteredVendorIDs() []string {
	ids := make([]string, 0, len(e.Vendors))
	for _, v := range e.Vendors {
		if id, ok := v.RegisteredID(); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// EventSummary is the event snapshot carried by notifications and vendor views.
type EventSummary struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	Location   string    `json:"location"`
	Date       time.Time `json:"date"`
	OwnerEmail string    `json:"ownerEmail,omitempty"`
}

func (e *Event) Summary() EventSummary {
	s := EventSummary{
		ID:       e.ID,
		Name:     e.Name,
		Type:     e.Type,
		Location: e.Location,
		Date:     e.Date,
	}
	if e.Owner != nil {
		s.OwnerEmail = e.Owner.Email
	}
	return s
}

// EventFilter scopes a conditional update. An empty OwnerID or VendorID is not applied.
type EventFilter struct {
	EventID  string
	OwnerID  string
	VendorID string
}

type Invite struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	EventID   string    `json:"eventId"`
	InvitedBy string    `json:"invitedBy"`
	CreatedAt time.Time `json:"createdAt"`
}
