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

// SessionHandler holds the session service dependency.
type SessionHandler struct {
	sessionService service.SessionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessionService service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// --- Request/Response Structs ---

type CreateSessionRequest struct {
	Name       string             `json:"name" binding:"required"`
	Date       time.Time          `json:"date" binding:"required"`
	Type       domain.SessionType `json:"sessionType" binding:"required"`
	LocationID *string            `json:"locationId,omitempty"`
	Notes      string             `json:"notes,omitempty"`
}

type UpdateSessionRequest struct {
	Name       *string             `json:"name,omitempty"`
	Date       *time.Time          `json:"date,omitempty"`
	Type       *domain.SessionType `json:"sessionType,omitempty"`
	LocationID *string             `json:"locationId,omitempty"`
	Notes      *string             `json:"notes,omitempty"`
}

type SessionResponse struct {
	ID         string             `json:"id"`
	UserID     string             `json:"userId"`
	LocationID *string            `json:"locationId,omitempty"`
	Name       string             `json:"name"`
	Date       time.Time          `json:"date"`
	Type       domain.SessionType `json:"sessionType"`
	Notes      string             `json:"notes,omitempty"`
	CreatedAt  time.Time          `json:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}

// MapSessionToResponse converts a domain Session to a SessionResponse DTO.
func MapSessionToResponse(s *domain.Session) SessionResponse {
	if s == nil {
		return SessionResponse{}
	}
	resp := SessionResponse{
		ID:        s.ID.Hex(),
		UserID:    s.UserID.Hex(),
		Name:      s.Name,
		Date:      s.Date,
		Type:      s.Type,
		Notes:     s.Notes,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
	if s.LocationID != nil {
		hex := s.LocationID.Hex()
		resp.LocationID = &hex
	}
	return resp
}

// --- Handler Methods ---

// CreateSession handles POST /sessions.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}

	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	in := service.SessionCreate{
		Name:  req.Name,
		Date:  req.Date,
		Type:  req.Type,
		Notes: req.Notes,
	}
	if req.LocationID != nil {
		locID, err := primitive.ObjectIDFromHex(*req.LocationID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid location ID format")
			return
		}
		in.LocationID = &locID
	}

	session, err := h.sessionService.CreateSession(c.Request.Context(), userID, in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapSessionToResponse(session))
}

// GetSession handles GET /sessions/:sessionId.
func (h *SessionHandler) GetSession(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}
	sessionID, err := primitive.ObjectIDFromHex(c.Param("sessionId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid session ID format")
		return
	}

	session, err := h.sessionService.GetSession(c.Request.Context(), userID, sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapSessionToResponse(session))
}

// GetSessionByDate handles GET /sessions/by-date/:date (date formatted
// as 2006-01-02).
func (h *SessionHandler) GetSessionByDate(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}
	date, err := time.Parse("2006-01-02", c.Param("date"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid date format, expected YYYY-MM-DD")
		return
	}

	session, err := h.sessionService.GetSessionByDate(c.Request.Context(), userID, date)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapSessionToResponse(session))
}

// ListSessions handles GET /sessions.
func (h *SessionHandler) ListSessions(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}

	sessions, err := h.sessionService.ListSessionsByUser(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := make([]SessionResponse, 0, len(sessions))
	for i := range sessions {
		resp = append(resp, MapSessionToResponse(&sessions[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateSession handles PATCH /sessions/:sessionId.
func (h *SessionHandler) UpdateSession(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}
	sessionID, err := primitive.ObjectIDFromHex(c.Param("sessionId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid session ID format")
		return
	}

	var req UpdateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	in := service.SessionUpdate{
		Name:  req.Name,
		Date:  req.Date,
		Type:  req.Type,
		Notes: req.Notes,
	}
	if req.LocationID != nil {
		locID, err := primitive.ObjectIDFromHex(*req.LocationID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid location ID format")
			return
		}
		in.LocationID = &locID
	}

	session, err := h.sessionService.UpdateSession(c.Request.Context(), userID, sessionID, in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapSessionToResponse(session))
}

// DeleteSession handles DELETE /sessions/:sessionId. Removes the session
// with its blocks, exercises and photos.
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}
	sessionID, err := primitive.ObjectIDFromHex(c.Param("sessionId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid session ID format")
		return
	}

	if err := h.sessionService.DeleteSession(c.Request.Context(), userID, sessionID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
