package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storyweaver-backend-go/internal/core"
)

// UserHandler handles user-profile API endpoints.
type UserHandler struct {
	userService         core.UserService
	subscriptionService core.SubscriptionService
	logger              *zap.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(us core.UserService, ss core.SubscriptionService, logger *zap.Logger) *UserHandler {
	return &UserHandler{userService: us, subscriptionService: ss, logger: logger}
}

// mapUserErrorToStatus maps errors from user-facing services to HTTP responses.
func (h *UserHandler) mapUserErrorToStatus(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: core.ErrUserNotFound.Error()})
	default:
		h.logger.Error("unexpected error in UserHandler", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred."})
	}
}

// InitializeUserProfile handles POST /users/initialize. Called after
// client-side Firebase login to ensure a backend profile document exists.
func (h *UserHandler) InitializeUserProfile(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	email := c.GetString("userEmail")
	displayName := c.GetString("userDisplayName")

	user, created, err := h.userService.GetOrCreate(c.Request.Context(), userID.(string), email, displayName)
	if err != nil {
		h.mapUserErrorToStatus(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, user)
}

// GetSubscription handles GET /users/me/subscription.
func (h *UserHandler) GetSubscription(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	snapshot, err := h.subscriptionService.Snapshot(c.Request.Context(), userID.(string), time.Now())
	if err != nil {
		h.mapUserErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}
