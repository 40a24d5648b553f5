package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storyweaver-backend-go/internal/core"
	"storyweaver-backend-go/internal/models"
)

// ReaderHandler handles the in-reader assistance endpoints.
type ReaderHandler struct {
	readerService core.ReaderService
	logger        *zap.Logger
}

// NewReaderHandler creates a new ReaderHandler.
func NewReaderHandler(rs core.ReaderService, logger *zap.Logger) *ReaderHandler {
	return &ReaderHandler{readerService: rs, logger: logger}
}

func (h *ReaderHandler) mapReaderErrorToStatus(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrStoryNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: core.ErrStoryNotFound.Error()})
	default:
		h.logger.Error("unexpected error in ReaderHandler", zap.Error(err))
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Reader assistance is temporarily unavailable."})
	}
}

// DefineWord handles POST /reader/definitions.
func (h *ReaderHandler) DefineWord(c *gin.Context) {
	var req models.DefineWordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	definition, err := h.readerService.DefineWord(c.Request.Context(), req.Word, req.Context)
	if err != nil {
		h.mapReaderErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, DefinitionResponse{Word: req.Word, Definition: definition})
}

// SimilarStories handles POST /stories/:storyId/similar.
func (h *ReaderHandler) SimilarStories(c *gin.Context) {
	storyID := c.Param("storyId")
	if storyID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Story ID is required in path"})
		return
	}

	var req models.SimilarStoriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	stories, err := h.readerService.SimilarStories(c.Request.Context(), storyID, req.Count)
	if err != nil {
		h.mapReaderErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SimilarStoriesResponse{Stories: stories})
}
