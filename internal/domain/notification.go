package domain

type NotificationKind string

const (
	NotifyCollaboratorInvitation NotificationKind = "collaborator_invitation"
	NotifyVendorInvitation       NotificationKind = "vendor_invitation"
	NotifyVendorRemoval          NotificationKind = "vendor_removal"
	NotifyVendorExit             NotificationKind = "vendor_exit"
)

// Notification is a mail descriptor waiting in, or read from, the outbox.
type Notification struct {
	ID       string           `json:"id"`
	Kind     NotificationKind `json:"kind"`
	To       []string         `json:"to"`
	Subject  string           `json:"subject"`
	Body     string           `json:"body"`
	Attempts int              `json:"attempts"`
}
