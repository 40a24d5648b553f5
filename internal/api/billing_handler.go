package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storyweaver-backend-go/internal/core"
	"storyweaver-backend-go/internal/models"
)

// BillingHandler handles payment gateway order and verification endpoints.
type BillingHandler struct {
	billingService      core.BillingService
	subscriptionService core.SubscriptionService
	logger              *zap.Logger
}

// NewBillingHandler creates a new BillingHandler.
func NewBillingHandler(bs core.BillingService, ss core.SubscriptionService, logger *zap.Logger) *BillingHandler {
	return &BillingHandler{billingService: bs, subscriptionService: ss, logger: logger}
}

// VerifyPaymentResponse acknowledges a successful activation.
type VerifyPaymentResponse struct {
	Status string `json:"status"`
}

// mapBillingErrorToStatus maps errors from billing and subscription services
// to HTTP status codes and ErrorResponse payloads.
func (h *BillingHandler) mapBillingErrorToStatus(c *gin.Context, err error) {
	var statusCode int
	var errResponse ErrorResponse

	switch {
	case errors.Is(err, core.ErrPlanNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: "Plan not found", Details: err.Error()}
	case errors.Is(err, core.ErrInvalidSignature):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: "Payment signature verification failed"}
	case errors.Is(err, core.ErrUserNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: core.ErrUserNotFound.Error()}
	case errors.Is(err, core.ErrGatewayUnavailable):
		statusCode = http.StatusInternalServerError
		errResponse = ErrorResponse{Error: "Payment gateway is not configured. Please contact support."}
		h.logger.Error("payment gateway configuration error", zap.Error(err))
	case errors.Is(err, core.ErrGatewayClient):
		statusCode = http.StatusServiceUnavailable
		errResponse = ErrorResponse{Error: "Payment provider error", Details: "Could not complete the operation with the payment provider."}
		h.logger.Error("payment gateway client error", zap.Error(err))
	default:
		h.logger.Error("unexpected error in BillingHandler", zap.Error(err))
		statusCode = http.StatusInternalServerError
		errResponse = ErrorResponse{Error: "An unexpected internal server error occurred."}
	}
	c.JSON(statusCode, errResponse)
}

// CreateOrder handles POST /billing/order. The authenticated user may only
// create orders for themself.
func (h *BillingHandler) CreateOrder(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	if req.UserID != userID.(string) {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Cannot create an order on behalf of another user"})
		return
	}

	order, err := h.billingService.CreateOrder(c.Request.Context(), userID.(string), models.PlanID(req.PlanID))
	if err != nil {
		h.mapBillingErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// VerifyPayment handles POST /billing/verify. On success the user's
// subscription is activated and their monthly counter reset.
func (h *BillingHandler) VerifyPayment(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	var req models.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	if err := h.subscriptionService.VerifyAndActivate(c.Request.Context(), userID.(string), req); err != nil {
		h.mapBillingErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, VerifyPaymentResponse{Status: "success"})
}

// HandleGatewayWebhook handles POST /billing/webhooks/razorpay. The gateway
// authenticates webhooks out of band; this endpoint only acknowledges receipt
// and forwards the payload for analytics. Subscription state changes happen
// exclusively through VerifyPayment.
func (h *BillingHandler) HandleGatewayWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Failed to read webhook payload"})
		return
	}

	if err := h.billingService.PublishWebhookEvent(payload); err != nil {
		// The gateway retries on non-2xx; a publish failure is not worth a
		// retry storm, so log and acknowledge anyway.
		h.logger.Warn("failed to publish webhook event", zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{"status": "received"})
}
