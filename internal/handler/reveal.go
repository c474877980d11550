package handler

import (
	"errors"
	"net/http"

	"estate/internal/auth"
	"estate/internal/repository"
	"estate/internal/service"

	"github.com/gin-gonic/gin"
)

// RevealHandler handles contact disclosure requests
type RevealHandler struct {
	gate *service.DisclosureGate
}

// NewRevealHandler creates a new reveal handler
func NewRevealHandler(gate *service.DisclosureGate) *RevealHandler {
	return &RevealHandler{gate: gate}
}

// Reveal handles POST /api/v1/listings/:id/reveal
func (h *RevealHandler) Reveal(c *gin.Context) {
	caller, ok := auth.CallerFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	listingID, ok := parseListingID(c)
	if !ok {
		return
	}

	response, err := h.gate.Reveal(c.Request.Context(), caller, listingID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, response)
	case errors.Is(err, service.ErrRevealNotAllowed):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrMissingSession):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrListingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Reveal failed: " + err.Error()})
	}
}
