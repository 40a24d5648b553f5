package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storyweaver-backend-go/internal/core"
	"storyweaver-backend-go/internal/models"
)

// ContactHandler handles the public contact-form endpoint.
type ContactHandler struct {
	contactService core.ContactService
	logger         *zap.Logger
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(cs core.ContactService, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{contactService: cs, logger: logger}
}

// SubmitContactForm handles POST /contact.
func (h *ContactHandler) SubmitContactForm(c *gin.Context) {
	var req models.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	err := h.contactService.SendContactMessage(c.Request.Context(), req.Name, req.Email, req.Message)
	if err != nil {
		if errors.Is(err, core.ErrMailerUnavailable) {
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Contact form is temporarily unavailable."})
			return
		}
		h.logger.Error("failed to submit contact form", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to send your message. Please try again later."})
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Your message has been sent."})
}
