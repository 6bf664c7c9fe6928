package domain

import (
	"slices"
	"time"
)

type Role string

const (
	RolePlanner Role = "Planner"
	RoleVendor  Role = "Vendor"
	RoleAdmin   Role = "Admin"
)

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`

	BusinessName     string   `json:"businessName,omitempty"`
	BusinessType     string   `json:"businessType,omitempty"`
	BusinessLocation string   `json:"businessLocation,omitempty"`
	EventTypes       []string `json:"eventTypes,omitempty"`
	LeadCount        int      `json:"leadCount"`
	UpcomingEvents   []string `json:"upcomingEvents,omitempty"`

	Events    []string  `json:"events,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) Touch(now time.Time) {
	u.UpdatedAt = now.UTC()
}

func (u *User) IsVendor() bool {
	return u.Role == RoleVendor
}

// AddUpcomingEvent links an event to the vendor and counts the lead.
// It is a no-op returning false when the event is already linked.
func (u *User) AddUpcomingEvent(eventID string) bool {
	if slices.Contains(u.UpcomingEvents, eventID) {
		return false
	}
	u.UpcomingEvents = append(u.UpcomingEvents, eventID)
	u.LeadCount++
	return true
}

// RemoveUpcomingEvent unlinks an event and uncounts the lead. It returns false
// when the event was not linked, leaving the lead count untouched.
func (u *User) RemoveUpcomingEvent(eventID string) bool {
	i := slices.Index(u.UpcomingEvents, eventID)
	if i < 0 {
		return false
	}
	u.UpcomingEvents = slices.Delete(u.UpcomingEvents, i, i+1)
	u.LeadCount--
	return true
}

func (u *User) AddEvent(eventID string) bool {
	if slices.Contains(u.Events, eventID) {
		return false
	}
	u.Events = append(u.Events, eventID)
	return true
}

func (u *User) RemoveEvent(eventID string) bool {
	i := slices.Index(u.Events, eventID)
	if i < 0 {
		return false
	}
	u.Events = slices.Delete(u.Events, i, i+1)
	return true
}

// OwnerSnapshot is the planner identity captured for a notification.
type OwnerSnapshot struct {
	Name  string
	Email string
}

func (u *User) OwnerSnapshot() OwnerSnapshot {
	return OwnerSnapshot{Name: u.Username, Email: u.Email}
}

// VendorSnapshot is the vendor identity captured for a notification.
type VendorSnapshot struct {
	BusinessName string
	Email        string
}

func (u *User) VendorSnapshot() VendorSnapshot {
	return VendorSnapshot{BusinessName: u.BusinessName, Email: u.Email}
}
