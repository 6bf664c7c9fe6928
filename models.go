package main

import "eventplanner-collab/internal/domain"

// Request bodies. Identity fields come from the token, never from the body.

type AddCollaboratorRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// CollaboratorRefRequest selects by collaboratorId when present, by email otherwise.
type CollaboratorRefRequest struct {
	CollaboratorID string `json:"collaboratorId"`
	Email          string `json:"email" binding:"required_without=CollaboratorID"`
}

func (r CollaboratorRefRequest) Ref() domain.CollaboratorRef {
	return domain.CollaboratorRef{CollaboratorID: r.CollaboratorID, Email: r.Email}
}

type AddRegisteredVendorRequest struct {
	VendorID string `json:"vendorId" binding:"required"`
}

type AddCustomVendorRequest struct {
	BusinessName    string   `json:"businessName" binding:"required"`
	Email           string   `json:"email" binding:"required,email"`
	BusinessType    string   `json:"businessType"`
	PriceForService *float64 `json:"priceForService" binding:"required,gte=0"`
}

func (r AddCustomVendorRequest) Custom() domain.Custom {
	return domain.Custom{BusinessName: r.BusinessName, Email: r.Email, BusinessType: r.BusinessType}
}

type UpdateRegisteredVendorRequest struct {
	PriceForService *float64 `json:"priceForService" binding:"required,gte=0"`
}

type UpdateCustomVendorRequest struct {
	TargetEmail     string   `json:"targetEmail" binding:"required,email"`
	BusinessName    *string  `json:"businessName" binding:"omitempty,min=1"`
	Email           *string  `json:"email" binding:"omitempty,email"`
	BusinessType    *string  `json:"businessType"`
	PriceForService *float64 `json:"priceForService" binding:"omitempty,gte=0"`
}

func (r UpdateCustomVendorRequest) Patch() domain.CustomVendorPatch {
	return domain.CustomVendorPatch{
		BusinessName:    r.BusinessName,
		Email:           r.Email,
		BusinessType:    r.BusinessType,
		PriceForService: r.PriceForService,
	}
}

// VendorRefRequest selects a platform vendor by vendorId, a custom one by email.
type VendorRefRequest struct {
	VendorID string `json:"vendorId"`
	Email    string `json:"email" binding:"required_without=VendorID"`
}

func (r VendorRefRequest) Ref() domain.VendorRef {
	return domain.VendorRef{VendorID: r.VendorID, Email: r.Email}
}

type SuggestionQuery struct {
	Type     string `form:"type" binding:"required"`
	Location string `form:"location" binding:"required"`
}
