package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/apollineguerineau/OnTheFloor/internal/domain"
	"github.com/apollineguerineau/OnTheFloor/internal/service"
)

// LocationHandler holds the location service dependency.
type LocationHandler struct {
	locationService service.LocationService
}

// NewLocationHandler creates a new LocationHandler.
func NewLocationHandler(locationService service.LocationService) *LocationHandler {
	return &LocationHandler{locationService: locationService}
}

// --- Request/Response Structs ---

type CreateLocationRequest struct {
	Name    string              `json:"name" binding:"required"`
	Address string              `json:"address,omitempty"`
	Type    domain.LocationType `json:"locationType" binding:"required"`
}

type LocationResponse struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Address   string              `json:"address,omitempty"`
	Type      domain.LocationType `json:"locationType"`
	CreatedAt time.Time           `json:"createdAt"`
}

// MapLocationToResponse converts a domain Location to a LocationResponse DTO.
func MapLocationToResponse(l *domain.Location) LocationResponse {
	if l == nil {
		return LocationResponse{}
	}
	return LocationResponse{
		ID:        l.ID.Hex(),
		Name:      l.Name,
		Address:   l.Address,
		Type:      l.Type,
		CreatedAt: l.CreatedAt,
	}
}

// --- Handler Methods ---

// CreateLocation handles POST /locations.
func (h *LocationHandler) CreateLocation(c *gin.Context) {
	var req CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	location, err := h.locationService.CreateLocation(c.Request.Context(), req.Name, req.Address, req.Type)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapLocationToResponse(location))
}

// GetLocation handles GET /locations/:locationId.
func (h *LocationHandler) GetLocation(c *gin.Context) {
	locationID, err := primitive.ObjectIDFromHex(c.Param("locationId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid location ID format")
		return
	}

	location, err := h.locationService.GetLocation(c.Request.Context(), locationID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapLocationToResponse(location))
}

// ListLocations handles GET /locations.
func (h *LocationHandler) ListLocations(c *gin.Context) {
	locations, err := h.locationService.ListLocations(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := make([]LocationResponse, 0, len(locations))
	for i := range locations {
		resp = append(resp, MapLocationToResponse(&locations[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteLocation handles DELETE /locations/:locationId.
func (h *LocationHandler) DeleteLocation(c *gin.Context) {
	locationID, err := primitive.ObjectIDFromHex(c.Param("locationId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid location ID format")
		return
	}

	if err := h.locationService.DeleteLocation(c.Request.Context(), locationID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
