package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"eventplanner-collab/internal/collaborator"
	"eventplanner-collab/internal/domain"
	"eventplanner-collab/internal/suggestion"
	"eventplanner-collab/internal/vendor"
)

// -----------------------------
// Helper functions
// -----------------------------

func jsonError(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{"error": msg})
}

// respondError maps the domain error taxonomy onto status codes. Server
// errors only expose their operation message.
func respondError(c *gin.Context, err error) {
	var se *domain.ServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		jsonError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrDuplicate):
		jsonError(c, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrValidation):
		jsonError(c, http.StatusBadRequest, err.Error())
	case errors.As(err, &se):
		jsonError(c, http.StatusInternalServerError, se.Msg)
	default:
		jsonError(c, http.StatusInternalServerError, "internal server error")
	}
}

func bindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "fields": fields})
		return
	}
	jsonError(c, http.StatusBadRequest, "invalid request: "+err.Error())
}

func actor(c *gin.Context) (string, bool) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		jsonError(c, http.StatusUnauthorized, "unauthorized")
	}
	return userID, ok
}

type Handlers struct {
	collaborators *collaborator.Manager
	vendors       *vendor.Manager
	suggestions   *suggestion.Ranker
}

func NewHandlers(collaborators *collaborator.Manager, vendors *vendor.Manager, suggestions *suggestion.Ranker) *Handlers {
	return &Handlers{
		collaborators: collaborators,
		vendors:       vendors,
		suggestions:   suggestions,
	}
}

// -----------------------------
// Collaborators
// -----------------------------

func (h *Handlers) ListCollaborators(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}

	list, err := h.collaborators.List(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"collaborators": list})
}

func (h *Handlers) AddCollaborator(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}

	var body AddCollaboratorRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		bindError(c, err)
		return
	}

	entry, err := h.collaborators.Add(c.Request.Context(), userID, c.Param("id"), body.Email)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"collaborator": entry})
}

func (h *Handlers) DeleteCollaborator(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}

	var body CollaboratorRefRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		bindError(c, err)
		return
	}

	if err := h.collaborators.Delete(c.Request.Context(), userID, c.Param("id"), body.Ref()); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "collaborator removed"})
}

func (h *Handlers) AcceptInvitation(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}

	entry, err := h.collaborators.Accept(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"collaborator": entry})
}

// -----------------------------
// Vendors (planner side)
// -----------------------------

func (h *Handlers) ListVendors(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}

	board, err := h.vendors.List(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, board)
}

func (h *Handlers) AddRegisteredVendor(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}

	var body AddRegisteredVendorRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		bindError(c, err)
		return
	}

	v, err := h.vendors.AddRegistered(c.Request.Context(), userID, c.Param("id"), body.VendorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"vendor": v})
}

func (h *Handlers) AddCustomVendor(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}

	var body AddCustomVendorRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		bindError(c, err)
		return
	}

	v, err := h.vendors.AddCustom(c.Request.Context(), userID, c.Param("id"), body.Custom(), *body.PriceForService)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"vendor": v})
}

func (h *Handlers) UpdateRegisteredVendor(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}

	var body UpdateRegisteredVendorRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		bindError(c, err)
		return
	}

	v, err := h.vendors.UpdateRegistered(c.Request.Context(), userID, c.Param("id"), c.Param("vendorId"), *body.PriceForService)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"vendor": v})
}

func (h *Handlers) UpdateCustomVendor(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}

	var body UpdateCustomVendorRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		bindError(c, err)
		return
	}

	v, err := h.vendors.UpdateCustom(c.Request.Context(), userID, c.Param("id"), body.TargetEmail, body.Patch())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"vendor": v})
}

func (h *Handlers) DeleteVendor(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}

	var body VendorRefRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		bindError(c, err)
		return
	}

	if err := h.vendors.Delete(c.Request.Context(), userID, c.Param("id"), body.Ref()); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "vendor removed"})
}

// -----------------------------
// Vendors (vendor side)
// -----------------------------

func (h *Handlers) GetUpcomingEvents(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}

	events, err := h.vendors.UpcomingEvents(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"upcomingEvents": events})
}

func (h *Handlers) DeleteUpcomingEvent(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}

	if err := h.vendors.DeleteUpcomingEvent(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "left event"})
}

// -----------------------------
// Suggestions
// -----------------------------

func (h *Handlers) GetSuggestions(c *gin.Context) {
	var q SuggestionQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	vendors, err := h.suggestions.Suggest(c.Request.Context(), q.Type, q.Location, nil)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"vendors": vendors})
}
