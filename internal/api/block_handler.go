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

// BlockHandler holds the block service dependency.
type BlockHandler struct {
	blockService service.BlockService
}

// NewBlockHandler creates a new BlockHandler.
func NewBlockHandler(blockService service.BlockService) *BlockHandler {
	return &BlockHandler{blockService: blockService}
}

// --- Request/Response Structs ---

type CreateBlockRequest struct {
	SessionID string           `json:"sessionId" binding:"required"`
	Type      domain.BlockType `json:"blockType" binding:"required"`
	Position  *int             `json:"position,omitempty"`
	Duration  *float64         `json:"duration,omitempty"`
	Notes     string           `json:"notes,omitempty"`
}

type UpdateBlockRequest struct {
	Type     *domain.BlockType `json:"blockType,omitempty"`
	Position *int              `json:"position,omitempty"`
	Duration *float64          `json:"duration,omitempty"`
	Notes    *string           `json:"notes,omitempty"`
}

type BlockResponse struct {
	ID        string           `json:"id"`
	SessionID string           `json:"sessionId"`
	Type      domain.BlockType `json:"blockType"`
	Position  int              `json:"position"`
	Duration  *float64         `json:"duration,omitempty"`
	Notes     string           `json:"notes,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// MapBlockToResponse converts a domain Block to a BlockResponse DTO.
func MapBlockToResponse(b *domain.Block) BlockResponse {
	if b == nil {
		return BlockResponse{}
	}
	return BlockResponse{
		ID:        b.ID.Hex(),
		SessionID: b.SessionID.Hex(),
		Type:      b.Type,
		Position:  b.Position,
		Duration:  b.Duration,
		Notes:     b.Notes,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// --- Handler Methods ---

// CreateBlock handles POST /blocks. A nil position appends to the end of
// the session-level ordering; an explicit position inserts there and shifts
// later members up.
func (h *BlockHandler) CreateBlock(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}

	var req CreateBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	sessionID, err := primitive.ObjectIDFromHex(req.SessionID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid session ID format")
		return
	}

	block, err := h.blockService.CreateBlock(c.Request.Context(), userID, service.BlockCreate{
		SessionID: sessionID,
		Type:      req.Type,
		Position:  req.Position,
		Duration:  req.Duration,
		Notes:     req.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapBlockToResponse(block))
}

// GetBlock handles GET /blocks/:blockId.
func (h *BlockHandler) GetBlock(c *gin.Context) {
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

	block, err := h.blockService.GetBlock(c.Request.Context(), userID, blockID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapBlockToResponse(block))
}

// ListBlocksBySession handles GET /blocks/session/:sessionId.
func (h *BlockHandler) ListBlocksBySession(c *gin.Context) {
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

	blocks, err := h.blockService.ListBlocksBySession(c.Request.Context(), userID, sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := make([]BlockResponse, 0, len(blocks))
	for i := range blocks {
		resp = append(resp, MapBlockToResponse(&blocks[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateBlock handles PATCH /blocks/:blockId. A position in the payload
// moves the block within the session-level ordering.
func (h *BlockHandler) UpdateBlock(c *gin.Context) {
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

	var req UpdateBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	block, err := h.blockService.UpdateBlock(c.Request.Context(), userID, blockID, service.BlockUpdate{
		Type:     req.Type,
		Position: req.Position,
		Duration: req.Duration,
		Notes:    req.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapBlockToResponse(block))
}

// DeleteBlock handles DELETE /blocks/:blockId. The block's exercises go
// with it and the remaining session-level positions close ranks.
func (h *BlockHandler) DeleteBlock(c *gin.Context) {
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

	if err := h.blockService.DeleteBlock(c.Request.Context(), userID, blockID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
