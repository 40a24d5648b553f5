package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storyweaver-backend-go/internal/core"
	"storyweaver-backend-go/internal/models"
)

// StoryHandler handles story generation and persistence endpoints.
type StoryHandler struct {
	storyService core.StoryService
	logger       *zap.Logger
}

// NewStoryHandler creates a new StoryHandler.
func NewStoryHandler(ss core.StoryService, logger *zap.Logger) *StoryHandler {
	return &StoryHandler{storyService: ss, logger: logger}
}

// mapStoryErrorToStatus maps errors from core.StoryService to HTTP status
// codes and ErrorResponse payloads.
func (h *StoryHandler) mapStoryErrorToStatus(c *gin.Context, err error) {
	var statusCode int
	var errResponse ErrorResponse

	switch {
	case errors.Is(err, core.ErrNotSubscribed):
		statusCode = http.StatusPaymentRequired
		errResponse = ErrorResponse{Error: "An active subscription is required to generate stories."}
	case errors.Is(err, core.ErrStoryLimitReached):
		statusCode = http.StatusPaymentRequired
		errResponse = ErrorResponse{Error: "Monthly story limit reached. Upgrade your plan or wait for renewal."}
	case errors.Is(err, core.ErrStoryNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: core.ErrStoryNotFound.Error()}
	case errors.Is(err, core.ErrForbiddenAccess):
		statusCode = http.StatusForbidden
		errResponse = ErrorResponse{Error: core.ErrForbiddenAccess.Error()}
	case errors.Is(err, core.ErrIllustrationsNotReady):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: "Story cannot be saved until all designated illustrations are present.", Details: err.Error()}
	case errors.Is(err, core.ErrInvalidStoryData):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: "Invalid story data", Details: err.Error()}
	case errors.Is(err, core.ErrGenerationFailed):
		statusCode = http.StatusBadGateway
		errResponse = ErrorResponse{Error: "Story generation failed. Please try again."}
		h.logger.Error("upstream generation failure", zap.Error(err))
	default:
		h.logger.Error("unexpected error in StoryHandler", zap.Error(err))
		statusCode = http.StatusInternalServerError
		errResponse = ErrorResponse{Error: "An unexpected internal server error occurred."}
	}
	c.JSON(statusCode, errResponse)
}

// GenerateStory handles POST /stories/generate.
func (h *StoryHandler) GenerateStory(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	var req models.GenerateStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	draft, err := h.storyService.Generate(c.Request.Context(), userID.(string), req)
	if err != nil {
		h.mapStoryErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

// SaveStory handles POST /stories.
func (h *StoryHandler) SaveStory(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	authorEmail := c.GetString("userEmail")

	var req models.SaveStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	storyID, err := h.storyService.Save(c.Request.Context(), userID.(string), authorEmail, req)
	if err != nil {
		h.mapStoryErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, SaveStoryResponse{StoryID: storyID})
}

// ListStories handles GET /stories. It lists the authenticated user's stories.
func (h *StoryHandler) ListStories(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	filter := core.StoryFilter{
		Theme:  c.Query("theme"),
		Search: c.Query("search"),
	}
	stories, err := h.storyService.List(c.Request.Context(), userID.(string), filter)
	if err != nil {
		h.mapStoryErrorToStatus(c, err)
		return
	}
	if stories == nil {
		stories = []*models.Story{}
	}
	c.JSON(http.StatusOK, stories)
}

// GetStory handles GET /stories/:storyId. Reading a story is public so that
// saved stories can be shared by link.
func (h *StoryHandler) GetStory(c *gin.Context) {
	storyID := c.Param("storyId")
	if storyID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Story ID is required in path"})
		return
	}

	story, err := h.storyService.Get(c.Request.Context(), storyID)
	if err != nil {
		h.mapStoryErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, story)
}

// DeleteStory handles DELETE /stories/:storyId.
func (h *StoryHandler) DeleteStory(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	storyID := c.Param("storyId")
	if storyID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Story ID is required in path"})
		return
	}

	if err := h.storyService.Delete(c.Request.Context(), userID.(string), storyID); err != nil {
		h.mapStoryErrorToStatus(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
