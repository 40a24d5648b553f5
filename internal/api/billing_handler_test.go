package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storyweaver-backend-go/internal/core"
	"storyweaver-backend-go/internal/middleware"
	"storyweaver-backend-go/internal/models"
)

// fakeVerifier accepts the token "good-token" as user-1 and rejects everything
// else.
type fakeVerifier struct{}

func (fakeVerifier) VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error) {
	if idToken != "good-token" {
		return nil, errors.New("invalid token")
	}
	return &auth.Token{
		UID:    "user-1",
		Claims: map[string]interface{}{"email": "user1@example.com", "name": "User One"},
	}, nil
}

type fakeBillingService struct {
	order      *core.OrderDetails
	orderErr   error
	published  [][]byte
	publishErr error
}

func (f *fakeBillingService) CreateOrder(ctx context.Context, userID string, planID models.PlanID) (*core.OrderDetails, error) {
	if f.orderErr != nil {
		return nil, f.orderErr
	}
	return f.order, nil
}

func (f *fakeBillingService) PublishWebhookEvent(payload []byte) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, payload)
	return nil
}

type fakeSubscriptionService struct {
	verifyErr   error
	verified    []models.VerifyPaymentRequest
	snapshot    *core.SubscriptionSnapshot
	snapshotErr error
}

func (f *fakeSubscriptionService) CheckAuthorization(user *models.User, now time.Time) error {
	return nil
}

func (f *fakeSubscriptionService) RecordGenerationStart(ctx context.Context, userID string) error {
	return nil
}

func (f *fakeSubscriptionService) VerifyAndActivate(ctx context.Context, userID string, proof models.VerifyPaymentRequest) error {
	if f.verifyErr != nil {
		return f.verifyErr
	}
	f.verified = append(f.verified, proof)
	return nil
}

func (f *fakeSubscriptionService) Snapshot(ctx context.Context, userID string, now time.Time) (*core.SubscriptionSnapshot, error) {
	if f.snapshotErr != nil {
		return nil, f.snapshotErr
	}
	return f.snapshot, nil
}

func newBillingTestRouter(bs core.BillingService, ss core.SubscriptionService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	logger := zap.NewNop()
	authMW := middleware.NewAuthMiddleware(fakeVerifier{}, logger)
	handler := NewBillingHandler(bs, ss, logger)

	billing := router.Group("/api/v1/billing")
	billing.POST("/order", authMW.VerifyToken(), handler.CreateOrder)
	billing.POST("/verify", authMW.VerifyToken(), handler.VerifyPayment)
	billing.POST("/webhooks/razorpay", handler.HandleGatewayWebhook)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateOrderEndpoint(t *testing.T) {
	bs := &fakeBillingService{order: &core.OrderDetails{OrderID: "order_1", Amount: 19900, Currency: "INR", KeyID: "k"}}
	router := newBillingTestRouter(bs, &fakeSubscriptionService{})

	w := doJSON(t, router, http.MethodPost, "/api/v1/billing/order", "good-token",
		`{"planId":"plan_creator","userId":"user-1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"orderId":"order_1"`) {
		t.Errorf("body = %s, want order details", w.Body.String())
	}
}

func TestCreateOrderRejectsOtherUser(t *testing.T) {
	router := newBillingTestRouter(&fakeBillingService{}, &fakeSubscriptionService{})
	w := doJSON(t, router, http.MethodPost, "/api/v1/billing/order", "good-token",
		`{"planId":"plan_creator","userId":"someone-else"}`)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

func TestCreateOrderRequiresAuth(t *testing.T) {
	router := newBillingTestRouter(&fakeBillingService{}, &fakeSubscriptionService{})

	w := doJSON(t, router, http.MethodPost, "/api/v1/billing/order", "",
		`{"planId":"plan_creator","userId":"user-1"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status without token = %d, want 401", w.Code)
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/billing/order", "bad-token",
		`{"planId":"plan_creator","userId":"user-1"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status with bad token = %d, want 401", w.Code)
	}
}

func TestCreateOrderMapsPlanNotFound(t *testing.T) {
	bs := &fakeBillingService{orderErr: core.ErrPlanNotFound}
	router := newBillingTestRouter(bs, &fakeSubscriptionService{})
	w := doJSON(t, router, http.MethodPost, "/api/v1/billing/order", "good-token",
		`{"planId":"plan_enterprise","userId":"user-1"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestVerifyPaymentEndpoint(t *testing.T) {
	ss := &fakeSubscriptionService{}
	router := newBillingTestRouter(&fakeBillingService{}, ss)

	body := `{"orderId":"order_1","paymentId":"pay_1","signature":"sig","planId":"plan_creator"}`
	w := doJSON(t, router, http.MethodPost, "/api/v1/billing/verify", "good-token", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"status":"success"`) {
		t.Errorf("body = %s, want success status", w.Body.String())
	}
	if len(ss.verified) != 1 || ss.verified[0].OrderID != "order_1" {
		t.Errorf("verified proofs = %+v, want the posted proof", ss.verified)
	}
}

func TestVerifyPaymentErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{"invalid signature", core.ErrInvalidSignature, http.StatusBadRequest},
		{"unknown plan", core.ErrPlanNotFound, http.StatusNotFound},
		{"repo failure", errors.New("firestore down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newBillingTestRouter(&fakeBillingService{}, &fakeSubscriptionService{verifyErr: tt.serviceErr})
			body := `{"orderId":"order_1","paymentId":"pay_1","signature":"sig","planId":"plan_creator"}`
			w := doJSON(t, router, http.MethodPost, "/api/v1/billing/verify", "good-token", body)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestVerifyPaymentRejectsIncompletePayload(t *testing.T) {
	router := newBillingTestRouter(&fakeBillingService{}, &fakeSubscriptionService{})
	w := doJSON(t, router, http.MethodPost, "/api/v1/billing/verify", "good-token",
		`{"orderId":"order_1"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for missing fields", w.Code)
	}
}

func TestWebhookIsPublicAndAcknowledged(t *testing.T) {
	bs := &fakeBillingService{}
	router := newBillingTestRouter(bs, &fakeSubscriptionService{})

	w := doJSON(t, router, http.MethodPost, "/api/v1/billing/webhooks/razorpay", "",
		`{"event":"payment.captured"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 without auth", w.Code)
	}
	if len(bs.published) != 1 {
		t.Errorf("published %d events, want 1", len(bs.published))
	}

	// A publish failure must not turn into a retry storm.
	failing := &fakeBillingService{publishErr: errors.New("broker down")}
	router = newBillingTestRouter(failing, &fakeSubscriptionService{})
	w = doJSON(t, router, http.MethodPost, "/api/v1/billing/webhooks/razorpay", "", `{}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d on publish failure, want 200", w.Code)
	}
}
