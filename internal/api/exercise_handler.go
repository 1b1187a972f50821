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

// ExerciseHandler holds the exercise service dependency.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// --- Request/Response Structs ---

type CreateExerciseRequest struct {
	SessionID       string              `json:"sessionId" binding:"required"`
	BlockID         *string             `json:"blockId,omitempty"`
	Type            domain.ExerciseType `json:"exerciseType" binding:"required"`
	Position        *int                `json:"position,omitempty"`
	PositionInBlock *int                `json:"positionInBlock,omitempty"`
	WeightKg        *float64            `json:"weightKg,omitempty"`
	Repetitions     *int                `json:"repetitions,omitempty"`
	DurationSeconds *float64            `json:"durationSeconds,omitempty"`
	DistanceMeters  *float64            `json:"distanceMeters,omitempty"`
	Notes           string              `json:"notes,omitempty"`
}

type UpdateExerciseRequest struct {
	Type            *domain.ExerciseType `json:"exerciseType,omitempty"`
	Position        *int                 `json:"position,omitempty"`
	PositionInBlock *int                 `json:"positionInBlock,omitempty"`
	WeightKg        *float64             `json:"weightKg,omitempty"`
	Repetitions     *int                 `json:"repetitions,omitempty"`
	DurationSeconds *float64             `json:"durationSeconds,omitempty"`
	DistanceMeters  *float64             `json:"distanceMeters,omitempty"`
	Notes           *string              `json:"notes,omitempty"`
}

type ExerciseResponse struct {
	ID              string              `json:"id"`
	SessionID       string              `json:"sessionId"`
	BlockID         *string             `json:"blockId,omitempty"`
	Type            domain.ExerciseType `json:"exerciseType"`
	Position        *int                `json:"position,omitempty"`
	PositionInBlock *int                `json:"positionInBlock,omitempty"`
	WeightKg        *float64            `json:"weightKg,omitempty"`
	Repetitions     *int                `json:"repetitions,omitempty"`
	DurationSeconds *float64            `json:"durationSeconds,omitempty"`
	DistanceMeters  *float64            `json:"distanceMeters,omitempty"`
	Notes           string              `json:"notes,omitempty"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

// MapExerciseToResponse converts a domain Exercise to an ExerciseResponse DTO.
func MapExerciseToResponse(e *domain.Exercise) ExerciseResponse {
	if e == nil {
		return ExerciseResponse{}
	}
	resp := ExerciseResponse{
		ID:              e.ID.Hex(),
		SessionID:       e.SessionID.Hex(),
		Type:            e.Type,
		Position:        e.Position,
		PositionInBlock: e.PositionInBlock,
		WeightKg:        e.WeightKg,
		Repetitions:     e.Repetitions,
		DurationSeconds: e.DurationSeconds,
		DistanceMeters:  e.DistanceMeters,
		Notes:           e.Notes,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
	if e.BlockID != nil {
		hex := e.BlockID.Hex()
		resp.BlockID = &hex
	}
	return resp
}

// --- Handler Methods ---

// CreateExercise handles POST /exercises. A blockId places the exercise
// inside that block's ordering; omitting it makes a free exercise on the
// session-level axis. Position and positionInBlock follow the same split,
// and supplying the one that belongs to the other domain is rejected.
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}

	var req CreateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	sessionID, err := primitive.ObjectIDFromHex(req.SessionID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid session ID format")
		return
	}

	in := service.ExerciseCreate{
		SessionID:       sessionID,
		Type:            req.Type,
		Position:        req.Position,
		PositionInBlock: req.PositionInBlock,
		WeightKg:        req.WeightKg,
		Repetitions:     req.Repetitions,
		DurationSeconds: req.DurationSeconds,
		DistanceMeters:  req.DistanceMeters,
		Notes:           req.Notes,
	}
	if req.BlockID != nil {
		blockID, err := primitive.ObjectIDFromHex(*req.BlockID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid block ID format")
			return
		}
		in.BlockID = &blockID
	}

	exercise, err := h.exerciseService.CreateExercise(c.Request.Context(), userID, in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapExerciseToResponse(exercise))
}

// GetExercise handles GET /exercises/:exerciseId.
func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}
	exerciseID, err := primitive.ObjectIDFromHex(c.Param("exerciseId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format")
		return
	}

	exercise, err := h.exerciseService.GetExercise(c.Request.Context(), userID, exerciseID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

// ListExercisesBySession handles GET /exercises/session/:sessionId.
func (h *ExerciseHandler) ListExercisesBySession(c *gin.Context) {
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

	exercises, err := h.exerciseService.ListExercisesBySession(c.Request.Context(), userID, sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := make([]ExerciseResponse, 0, len(exercises))
	for i := range exercises {
		resp = append(resp, MapExerciseToResponse(&exercises[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// ListExercisesByBlock handles GET /exercises/block/:blockId.
func (h *ExerciseHandler) ListExercisesByBlock(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}
	blockID, err := primitive.ObjectIDFromHex(c.Param("blockId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid block ID format")
		return
	}

	exercises, err := h.exerciseService.ListExercisesByBlock(c.Request.Context(), userID, blockID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := make([]ExerciseResponse, 0, len(exercises))
	for i := range exercises {
		resp = append(resp, MapExerciseToResponse(&exercises[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateExercise handles PATCH /exercises/:exerciseId. Position fields move
// the exercise within its current ordering domain; moving it between
// domains is not supported.
func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}
	exerciseID, err := primitive.ObjectIDFromHex(c.Param("exerciseId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format")
		return
	}

	var req UpdateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	exercise, err := h.exerciseService.UpdateExercise(c.Request.Context(), userID, exerciseID, service.ExerciseUpdate{
		Type:            req.Type,
		Position:        req.Position,
		PositionInBlock: req.PositionInBlock,
		WeightKg:        req.WeightKg,
		Repetitions:     req.Repetitions,
		DurationSeconds: req.DurationSeconds,
		DistanceMeters:  req.DistanceMeters,
		Notes:           req.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

// DeleteExercise handles DELETE /exercises/:exerciseId.
func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}
	exerciseID, err := primitive.ObjectIDFromHex(c.Param("exerciseId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format")
		return
	}

	if err := h.exerciseService.DeleteExercise(c.Request.Context(), userID, exerciseID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
