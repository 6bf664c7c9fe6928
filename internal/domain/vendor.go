package domain

import "encoding/json"

type VendorStatus string

const (
	VendorNegotiation VendorStatus = "Negotiation"
	VendorAdded       VendorStatus = "Added"
)

// VendorIdentity is either Registered or Custom.
type VendorIdentity interface {
	EffectiveEmail() string
	isVendorIdentity()
}

// Registered points at a platform user with the Vendor role. User is only
// set when the lookup asked for vendor users.
type Registered struct {
	UserID string
	User   *User
}

func (r Registered) EffectiveEmail() string {
	if r.User == nil {
		return ""
	}
	return r.User.Email
}

func (Registered) isVendorIdentity() {}

// Custom is a vendor known only by the planner's free-text fields.
type Custom struct {
	BusinessName string `json:"businessName"`
	Email        string `json:"email"`
	BusinessType string `json:"businessType"`
}

func (c Custom) EffectiveEmail() string {
	return c.Email
}

func (Custom) isVendorIdentity() {}

type Vendor struct {
	Identity        VendorIdentity
	Status          VendorStatus
	PriceForService *float64
}

func (v Vendor) EffectiveEmail() string {
	if v.Identity == nil {
		return ""
	}
	return v.Identity.EffectiveEmail()
}

func (v Vendor) RegisteredID() (string, bool) {
	r, ok := v.Identity.(Registered)
	if !ok {
		return "", false
	}
	return r.UserID, true
}

func (v Vendor) IsAdded() bool {
	return v.Status == VendorAdded
}

// VendorView is the flat shape vendors are rendered in.
type VendorView struct {
	VendorID        string       `json:"vendorId,omitempty"`
	BusinessName    string       `json:"businessName"`
	Email           string       `json:"email"`
	BusinessType    string       `json:"businessType"`
	LeadCount       *int         `json:"leadCount,omitempty"`
	Custom          bool         `json:"custom"`
	Status          VendorStatus `json:"status"`
	PriceForService *float64     `json:"priceForService,omitempty"`
}

func (v Vendor) View() VendorView {
	view := VendorView{Status: v.Status, PriceForService: v.PriceForService}
	switch id := v.Identity.(type) {
	case Registered:
		view.VendorID = id.UserID
		if id.User != nil {
			lc := id.User.LeadCount
			view.BusinessName = id.User.BusinessName
			view.Email = id.User.Email
			view.BusinessType = id.User.BusinessType
			view.LeadCount = &lc
		}
	case Custom:
		view.Custom = true
		view.BusinessName = id.BusinessName
		view.Email = id.Email
		view.BusinessType = id.BusinessType
	}
	return view
}

func (v Vendor) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.View())
}

// VendorRef selects a vendor entry by platform id when set, by custom email otherwise.
type VendorRef struct {
	VendorID string
	Email    string
}

// CustomVendorPatch holds the custom vendor fields a planner may change.
type CustomVendorPatch struct {
	BusinessName    *string
	Email           *string
	BusinessType    *string
	PriceForService *float64
}

// VendorSummary is a ranked suggestion row.
type VendorSummary struct {
	ID           string `json:"id"`
	BusinessName string `json:"businessName"`
	Email        string `json:"email"`
	BusinessType string `json:"businessType"`
	LeadCount    int    `json:"leadCount"`
}

// VendorBoard groups an event's vendors the way the planner sees them.
type VendorBoard struct {
	Suggested  []VendorSummary `json:"suggestedVendors"`
	Negotiated []VendorView    `json:"negotiatedVendors"`
	Added      []VendorView    `json:"addedVendors"`
}
