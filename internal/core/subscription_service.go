package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"storyweaver-backend-go/internal/crypto"
	"storyweaver-backend-go/internal/db"
	"storyweaver-backend-go/internal/models"
)

// Custom errors for the SubscriptionService.
var (
	ErrNotSubscribed     = errors.New("user does not have an active subscription")
	ErrStoryLimitReached = errors.New("monthly story limit reached")
	ErrPlanNotFound      = errors.New("plan not found")
	ErrInvalidSignature  = errors.New("payment signature verification failed")
	ErrUserNotFound      = errors.New("user not found")
)

// subscriptionDuration is how long one verified payment keeps a plan active.
const subscriptionDuration = 30 * 24 * time.Hour

// subscriptionService implements the SubscriptionService interface.
type subscriptionService struct {
	userRepo     db.UserRepository
	auditService AuditService
	keySecret    string
	logger       *zap.Logger
}

// NewSubscriptionService creates a new SubscriptionService instance.
// keySecret is the payment gateway key secret used for signature verification.
func NewSubscriptionService(userRepo db.UserRepository, auditService AuditService, keySecret string, logger *zap.Logger) SubscriptionService {
	return &subscriptionService{
		userRepo:     userRepo,
		auditService: auditService,
		keySecret:    keySecret,
		logger:       logger,
	}
}

// CheckAuthorization allows iff status is subscribed, the plan has not expired,
// and the monthly counter is below the plan limit. The two denial reasons are
// distinguished for the UI; both block the action.
func (s *subscriptionService) CheckAuthorization(user *models.User, now time.Time) error {
	if user == nil {
		return ErrNotSubscribed
	}
	if !user.SubscriptionActive(now) {
		return ErrNotSubscribed
	}
	if user.StoriesGeneratedThisMonth >= user.MonthlyStoryLimit {
		return fmt.Errorf("%w: %d of %d used", ErrStoryLimitReached, user.StoriesGeneratedThisMonth, user.MonthlyStoryLimit)
	}
	return nil
}

// RecordGenerationStart debits one quota unit at the moment a generation is
// initiated, not completed. Failed generations still consume the unit; this is
// the intended product behavior, so the early debit bounds how far concurrent
// requests can overrun the limit.
func (s *subscriptionService) RecordGenerationStart(ctx context.Context, userID string) error {
	if err := s.userRepo.IncrementStoriesGenerated(ctx, userID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: '%s'", ErrUserNotFound, userID)
		}
		return fmt.Errorf("failed to record generation start for user '%s': %w", userID, err)
	}
	return nil
}

// VerifyAndActivate recomputes the gateway signature over orderId|paymentId and
// compares it against the supplied one. Only a byte-for-byte match mutates the
// subscription record; the overwrite resets the monthly counter and is the sole
// quota-reset path in the system.
func (s *subscriptionService) VerifyAndActivate(ctx context.Context, userID string, proof models.VerifyPaymentRequest) error {
	if err := crypto.VerifyOrderSignature(s.keySecret, proof.OrderID, proof.PaymentID, proof.Signature); err != nil {
		return fmt.Errorf("%w: order '%s'", ErrInvalidSignature, proof.OrderID)
	}

	plan, ok := models.PlanByID(models.PlanID(proof.PlanID))
	if !ok {
		return fmt.Errorf("%w: '%s'", ErrPlanNotFound, proof.PlanID)
	}

	now := time.Now().UTC()
	sub := models.SubscriptionUpdate{
		SubscriptionStatus:        models.SubscriptionStatusSubscribed,
		PlanID:                    plan.Name,
		SubscriptionEndDate:       now.Add(subscriptionDuration),
		MonthlyStoryLimit:         plan.MonthlyStoryLimit,
		StoriesGeneratedThisMonth: 0, // reset on new subscription/renewal
		LastPaymentDate:           now,
		PaymentID:                 proof.PaymentID,
		OrderID:                   proof.OrderID,
	}

	if err := s.userRepo.ApplySubscription(ctx, userID, sub); err != nil {
		return fmt.Errorf("failed to activate subscription for user '%s': %w", userID, err)
	}

	auditEntry := models.AuditLog{
		UserID:     userID,
		Action:     models.AuditSubscriptionActivated,
		TargetType: "SUBSCRIPTION",
		TargetID:   proof.OrderID,
		Timestamp:  now,
		Details: map[string]interface{}{
			"planId":    string(plan.ID),
			"paymentId": proof.PaymentID,
		},
	}
	if auditErr := s.auditService.CreateAuditLog(ctx, auditEntry); auditErr != nil {
		s.logger.Warn("failed to create audit log for subscription activation",
			zap.String("userID", userID), zap.Error(auditErr))
	}

	return nil
}

// Snapshot reads the user document and reports the current subscription state.
// An expired or missing record is reported as unsubscribed with zero limits,
// matching what the reactive client store derives from the raw document.
func (s *subscriptionService) Snapshot(ctx context.Context, userID string, now time.Time) (*SubscriptionSnapshot, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return &SubscriptionSnapshot{Status: models.SubscriptionStatusUnsubscribed}, nil
		}
		return nil, fmt.Errorf("failed to load subscription for user '%s': %w", userID, err)
	}

	if !user.SubscriptionActive(now) {
		return &SubscriptionSnapshot{Status: models.SubscriptionStatusUnsubscribed}, nil
	}

	endDate := user.SubscriptionEndDate
	return &SubscriptionSnapshot{
		Status:                    models.SubscriptionStatusSubscribed,
		PlanID:                    user.PlanID,
		SubscriptionEndDate:       &endDate,
		MonthlyStoryLimit:         user.MonthlyStoryLimit,
		StoriesGeneratedThisMonth: user.StoriesGeneratedThisMonth,
	}, nil
}
