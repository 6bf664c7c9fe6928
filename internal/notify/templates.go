package notify

import (
	"fmt"
	"strings"

	"eventplanner-collab/internal/domain"
)

const dateLayout = "Monday, January 2, 2006"

// Composer renders notification descriptors. From is the product signature used in bodies.
type Composer struct {
	From string
}

func (c Composer) signature() string {
	if c.From == "" {
		return "The event planning team"
	}
	return c.From
}

func eventLines(b *strings.Builder, e domain.EventSummary) {
	fmt.Fprintf(b, "Event: %s\n", e.Name)
	fmt.Fprintf(b, "Type: %s\n", e.Type)
	fmt.Fprintf(b, "Location: %s\n", e.Location)
	if !e.Date.IsZero() {
		fmt.Fprintf(b, "Date: %s\n", e.Date.Format(dateLayout))
	}
}

// CollaboratorInvitation goes to both the owner and the invitee.
func (c Composer) CollaboratorInvitation(owner domain.OwnerSnapshot, inviteeEmail string) domain.Notification {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello,\n\n%s (%s) invited %s to help plan an event.\n", owner.Name, owner.Email, inviteeEmail)
	b.WriteString("Sign in with the invited email address to accept the invitation.\n\n")
	b.WriteString(c.signature())

	return domain.Notification{
		Kind:    domain.NotifyCollaboratorInvitation,
		To:      []string{owner.Email, inviteeEmail},
		Subject: "You have been invited to collaborate on an event",
		Body:    b.String(),
	}
}

func (c Composer) VendorInvitation(owner domain.OwnerSnapshot, vendor domain.VendorSnapshot, event domain.EventSummary) domain.Notification {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n%s (%s) would like to work with you on an upcoming event.\n\n", vendor.BusinessName, owner.Name, owner.Email)
	eventLines(&b, event)
	b.WriteString("\nReply to the planner to start the negotiation.\n\n")
	b.WriteString(c.signature())

	return domain.Notification{
		Kind:    domain.NotifyVendorInvitation,
		To:      []string{vendor.Email},
		Subject: fmt.Sprintf("New event request: %s", event.Name),
		Body:    b.String(),
	}
}

func (c Composer) VendorRemoval(owner domain.OwnerSnapshot, vendor domain.VendorSnapshot, event domain.EventSummary) domain.Notification {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n%s (%s) removed you from the following event.\n\n", vendor.BusinessName, owner.Name, owner.Email)
	eventLines(&b, event)
	b.WriteString("\nThe event no longer appears in your upcoming events.\n\n")
	b.WriteString(c.signature())

	return domain.Notification{
		Kind:    domain.NotifyVendorRemoval,
		To:      []string{vendor.Email},
		Subject: fmt.Sprintf("You were removed from %s", event.Name),
		Body:    b.String(),
	}
}

func (c Composer) VendorExit(owner domain.OwnerSnapshot, vendor domain.VendorSnapshot, event domain.EventSummary) domain.Notification {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n%s (%s) has withdrawn from your event.\n\n", owner.Name, vendor.BusinessName, vendor.Email)
	eventLines(&b, event)
	b.WriteString("\nYou can pick another vendor from your suggestions.\n\n")
	b.WriteString(c.signature())

	return domain.Notification{
		Kind:    domain.NotifyVendorExit,
		To:      []string{owner.Email},
		Subject: fmt.Sprintf("%s left %s", vendor.BusinessName, event.Name),
		Body:    b.String(),
	}
}
