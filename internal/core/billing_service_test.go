package core

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"storyweaver-backend-go/internal/models"
)

type fakeOrderCreator struct {
	lastData map[string]interface{}
	response map[string]interface{}
	err      error
}

func (f *fakeOrderCreator) Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error) {
	f.lastData = data
	if f.err != nil {
		return nil, f.err
	}
	return f.response, nil
}

type fakeQueue struct {
	queueName string
	payloads  [][]byte
	err       error
}

func (q *fakeQueue) Publish(queueName string, body []byte) error {
	if q.err != nil {
		return q.err
	}
	q.queueName = queueName
	q.payloads = append(q.payloads, body)
	return nil
}

func (q *fakeQueue) Consume(queueName string, handler func(body []byte)) error { return nil }
func (q *fakeQueue) Close() error                                              { return nil }

func TestCreateOrder(t *testing.T) {
	orders := &fakeOrderCreator{response: map[string]interface{}{"id": "order_mocked_1"}}
	svc := &billingService{orders: orders, keyID: "rzp_test_key", logger: zap.NewNop()}

	details, err := svc.CreateOrder(context.Background(), "user-1", models.PlanCreator)
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}
	if details.OrderID != "order_mocked_1" {
		t.Errorf("OrderID = %q, want order_mocked_1", details.OrderID)
	}
	if details.Amount != 19900 {
		t.Errorf("Amount = %d paise, want 19900", details.Amount)
	}
	if details.Currency != "INR" || details.KeyID != "rzp_test_key" {
		t.Errorf("details = %+v, want INR and the configured key id", details)
	}

	if got := orders.lastData["amount"]; got != 19900 {
		t.Errorf("gateway amount = %v, want 19900", got)
	}
	notes, _ := orders.lastData["notes"].(map[string]interface{})
	if notes["userId"] != "user-1" || notes["planId"] != "plan_creator" {
		t.Errorf("gateway notes = %v, want userId/planId attached", notes)
	}
}

func TestCreateOrderUnknownPlan(t *testing.T) {
	svc := &billingService{orders: &fakeOrderCreator{}, keyID: "k", logger: zap.NewNop()}
	_, err := svc.CreateOrder(context.Background(), "user-1", models.PlanID("plan_enterprise"))
	if !errors.Is(err, ErrPlanNotFound) {
		t.Fatalf("CreateOrder() error = %v, want ErrPlanNotFound", err)
	}
}

func TestCreateOrderGatewayNotConfigured(t *testing.T) {
	svc := NewBillingService("", "", nil, zap.NewNop())
	_, err := svc.CreateOrder(context.Background(), "user-1", models.PlanCreator)
	if !errors.Is(err, ErrGatewayUnavailable) {
		t.Fatalf("CreateOrder() error = %v, want ErrGatewayUnavailable", err)
	}
}

func TestCreateOrderGatewayFailure(t *testing.T) {
	orders := &fakeOrderCreator{err: errors.New("503 from gateway")}
	svc := &billingService{orders: orders, keyID: "k", logger: zap.NewNop()}
	_, err := svc.CreateOrder(context.Background(), "user-1", models.PlanPro)
	if !errors.Is(err, ErrGatewayClient) {
		t.Fatalf("CreateOrder() error = %v, want ErrGatewayClient", err)
	}
}

func TestPublishWebhookEvent(t *testing.T) {
	queue := &fakeQueue{}
	svc := &billingService{queue: queue, logger: zap.NewNop()}

	if err := svc.PublishWebhookEvent([]byte(`{"event":"payment.captured"}`)); err != nil {
		t.Fatalf("PublishWebhookEvent() error = %v", err)
	}
	if queue.queueName != "payment-webhook-events" || len(queue.payloads) != 1 {
		t.Errorf("published to %q (%d payloads), want one payload on payment-webhook-events", queue.queueName, len(queue.payloads))
	}

	// Without a queue the payload is dropped silently.
	noQueue := &billingService{logger: zap.NewNop()}
	if err := noQueue.PublishWebhookEvent([]byte("x")); err != nil {
		t.Fatalf("PublishWebhookEvent() without queue error = %v", err)
	}
}
