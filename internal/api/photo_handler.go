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

// PhotoHandler holds the photo service dependency.
type PhotoHandler struct {
	photoService service.PhotoService
}

// NewPhotoHandler creates a new PhotoHandler.
func NewPhotoHandler(photoService service.PhotoService) *PhotoHandler {
	return &PhotoHandler{photoService: photoService}
}

// --- Request/Response Structs ---

type AttachPhotoRequest struct {
	ContentType string `json:"contentType" binding:"required"`
	Notes       string `json:"notes,omitempty"`
}

type PhotoResponse struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	ObjectKey string    `json:"objectKey"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// AttachPhotoResponse carries the created metadata plus the presigned URL
// the client uploads the image bytes to.
type AttachPhotoResponse struct {
	Photo     PhotoResponse `json:"photo"`
	UploadURL string        `json:"uploadUrl"`
}

type PhotoWithURLResponse struct {
	Photo       PhotoResponse `json:"photo"`
	DownloadURL string        `json:"downloadUrl"`
}

// MapPhotoToResponse converts a domain Photo to a PhotoResponse DTO.
func MapPhotoToResponse(p *domain.Photo) PhotoResponse {
	if p == nil {
		return PhotoResponse{}
	}
	return PhotoResponse{
		ID:        p.ID.Hex(),
		SessionID: p.SessionID.Hex(),
		ObjectKey: p.ObjectKey,
		Notes:     p.Notes,
		CreatedAt: p.CreatedAt,
	}
}

// --- Handler Methods ---

// AttachPhoto handles POST /photos/session/:sessionId.
func (h *PhotoHandler) AttachPhoto(c *gin.Context) {
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

	var req AttachPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	photo, uploadURL, err := h.photoService.AttachPhoto(c.Request.Context(), userID, sessionID, req.ContentType, req.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, AttachPhotoResponse{
		Photo:     MapPhotoToResponse(photo),
		UploadURL: uploadURL,
	})
}

// ListPhotosBySession handles GET /photos/session/:sessionId.
func (h *PhotoHandler) ListPhotosBySession(c *gin.Context) {
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

	photos, err := h.photoService.ListPhotosBySession(c.Request.Context(), userID, sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := make([]PhotoWithURLResponse, 0, len(photos))
	for i := range photos {
		resp = append(resp, PhotoWithURLResponse{
			Photo:       MapPhotoToResponse(&photos[i].Photo),
			DownloadURL: photos[i].DownloadURL,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// DeletePhoto handles DELETE /photos/:photoId.
func (h *PhotoHandler) DeletePhoto(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}
	photoID, err := primitive.ObjectIDFromHex(c.Param("photoId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid photo ID format")
		return
	}

	if err := h.photoService.DeletePhoto(c.Request.Context(), userID, photoID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
