package core

import (
	"context"
	"time"

	"storyweaver-backend-go/internal/models"
)

// UserService defines the interface for user-profile operations.
type UserService interface {
	// GetOrCreate retrieves a user by ID. If the user doesn't exist, it creates
	// a fresh unsubscribed profile.
	GetOrCreate(ctx context.Context, userID, email, displayName string) (*models.User, bool, error)
	GetByID(ctx context.Context, userID string) (*models.User, error)
}

// SubscriptionService is the quota manager: it authorizes generation attempts
// and maintains the subscription record's truth.
type SubscriptionService interface {
	// CheckAuthorization allows a generation attempt iff the user holds an
	// active plan with remaining quota. Denials return ErrNotSubscribed or
	// ErrStoryLimitReached.
	CheckAuthorization(user *models.User, now time.Time) error
	// RecordGenerationStart debits one quota unit. It does not gate by itself;
	// callers check authorization first. No compensating credit exists for
	// failed generations.
	RecordGenerationStart(ctx context.Context, userID string) error
	// VerifyAndActivate validates a payment proof and, on success, overwrites
	// the user's subscription record and resets the monthly counter.
	VerifyAndActivate(ctx context.Context, userID string, proof models.VerifyPaymentRequest) error
	// Snapshot reports the user's subscription as of now, treating an expired
	// "subscribed" record as unsubscribed.
	Snapshot(ctx context.Context, userID string, now time.Time) (*SubscriptionSnapshot, error)
}

// SubscriptionSnapshot is the subscription state reported to the client.
type SubscriptionSnapshot struct {
	Status                    string     `json:"status"`
	PlanID                    string     `json:"planId,omitempty"`
	SubscriptionEndDate       *time.Time `json:"subscriptionEndDate,omitempty"`
	MonthlyStoryLimit         int        `json:"monthlyStoryLimit"`
	StoriesGeneratedThisMonth int        `json:"storiesGeneratedThisMonth"`
}

// StoryFilter narrows a story listing. Zero value matches everything.
type StoryFilter struct {
	Theme  string
	Search string
}

// StoryService drives the generation workflow and story persistence.
type StoryService interface {
	Generate(ctx context.Context, userID string, req models.GenerateStoryRequest) (*models.StoryDraft, error)
	Save(ctx context.Context, userID, authorEmail string, req models.SaveStoryRequest) (string, error)
	Get(ctx context.Context, storyID string) (*models.Story, error)
	List(ctx context.Context, userID string, filter StoryFilter) ([]*models.Story, error)
	Delete(ctx context.Context, userID, storyID string) error
}

// BillingService creates payment-gateway orders.
type BillingService interface {
	CreateOrder(ctx context.Context, userID string, planID models.PlanID) (*OrderDetails, error)
	// PublishWebhookEvent forwards a raw gateway webhook payload for analytics.
	// It never mutates subscription state; verification is synchronous.
	PublishWebhookEvent(payload []byte) error
}

// OrderDetails is what the checkout UI needs to open the gateway widget.
type OrderDetails struct {
	OrderID  string `json:"orderId"`
	Amount   int    `json:"amount"` // smallest currency unit (paise)
	Currency string `json:"currency"`
	KeyID    string `json:"keyId"`
}

// ReaderService provides the in-reader assistance features.
type ReaderService interface {
	DefineWord(ctx context.Context, word, passage string) (string, error)
	SimilarStories(ctx context.Context, storyID string, count int) ([]string, error)
}

// ContactService delivers contact-form submissions to the support inbox.
type ContactService interface {
	SendContactMessage(ctx context.Context, name, email, message string) error
}

// AuditService defines the interface for audit logging operations.
type AuditService interface {
	CreateAuditLog(ctx context.Context, logEntry models.AuditLog) error
}

// TextGenerator is the generative-text collaborator contract.
type TextGenerator interface {
	GenerateStory(ctx context.Context, prompt, ageGroup, theme string, pageCount int) (*models.StoryDraft, error)
	DefineWord(ctx context.Context, word, passage string) (string, error)
	SimilarStories(ctx context.Context, storyText string, count int) ([]string, error)
}

// ImageGenerator is the generative-image collaborator contract. The result is
// a base64 image data URI.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, scene, theme, style string) (string, error)
}
