package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	razorpay "github.com/razorpay/razorpay-go"
	"go.uber.org/zap"

	"storyweaver-backend-go/internal/models"
	"storyweaver-backend-go/pkg/messagequeue"
)

// Custom errors for the BillingService.
var (
	ErrGatewayClient      = errors.New("payment gateway operation failed")
	ErrGatewayUnavailable = errors.New("payment gateway is not configured")
)

// webhookEventsQueue is where raw gateway webhook payloads are published when
// a message queue is configured. Consumers use them for analytics only.
const webhookEventsQueue = "payment-webhook-events"

// OrderCreator abstracts the gateway's order-creation API.
type OrderCreator interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// billingService implements the BillingService interface.
type billingService struct {
	orders OrderCreator
	keyID  string
	queue  messagequeue.MessageQueue // optional; nil when RabbitMQ is not configured
	logger *zap.Logger
}

// NewBillingService creates a BillingService backed by the Razorpay client.
// queue may be nil; webhook events are then only logged.
func NewBillingService(keyID, keySecret string, queue messagequeue.MessageQueue, logger *zap.Logger) BillingService {
	var orders OrderCreator
	if keyID != "" && keySecret != "" {
		client := razorpay.NewClient(keyID, keySecret)
		orders = client.Order
	}
	return &billingService{
		orders: orders,
		keyID:  keyID,
		queue:  queue,
		logger: logger,
	}
}

// CreateOrder creates a gateway order for the plan's price. The amount is sent
// in the smallest currency unit (paise).
func (s *billingService) CreateOrder(ctx context.Context, userID string, planID models.PlanID) (*OrderDetails, error) {
	if s.orders == nil {
		return nil, ErrGatewayUnavailable
	}

	plan, ok := models.PlanByID(planID)
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrPlanNotFound, planID)
	}

	data := map[string]interface{}{
		"amount":   plan.Price * 100,
		"currency": "INR",
		"receipt":  "receipt_order_" + uuid.NewString(),
		"notes": map[string]interface{}{
			"userId": userID,
			"planId": string(planID),
		},
	}

	order, err := s.orders.Create(data, nil)
	if err != nil {
		s.logger.Error("gateway order creation failed",
			zap.String("userID", userID), zap.String("planId", string(planID)), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrGatewayClient, err)
	}

	orderID, _ := order["id"].(string)
	if orderID == "" {
		return nil, fmt.Errorf("%w: order response missing id", ErrGatewayClient)
	}

	return &OrderDetails{
		OrderID:  orderID,
		Amount:   plan.Price * 100,
		Currency: "INR",
		KeyID:    s.keyID,
	}, nil
}

// PublishWebhookEvent forwards the raw webhook payload to the analytics queue.
// Subscription state is never mutated here; activation happens only through
// the synchronous verify flow.
func (s *billingService) PublishWebhookEvent(payload []byte) error {
	if s.queue == nil {
		s.logger.Info("gateway webhook received; no queue configured, payload dropped",
			zap.Int("payloadBytes", len(payload)))
		return nil
	}
	if err := s.queue.Publish(webhookEventsQueue, payload); err != nil {
		return fmt.Errorf("failed to publish webhook event: %w", err)
	}
	return nil
}
