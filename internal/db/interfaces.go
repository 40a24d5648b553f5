package db

import (
	"context"

	"storyweaver-backend-go/internal/models"
)

// UserRepository defines the interface for user data storage operations.
type UserRepository interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	// ApplySubscription overwrites the subscription fields on the user document
	// as a single merged write. This is the only quota-reset path.
	ApplySubscription(ctx context.Context, userID string, sub models.SubscriptionUpdate) error
	// IncrementStoriesGenerated atomically bumps the monthly usage counter.
	IncrementStoriesGenerated(ctx context.Context, userID string) error
}

// StoryRepository defines the interface for story data storage operations.
// Pages are a subcollection of the story document; writes and deletes of the
// page set are batched.
type StoryRepository interface {
	Create(ctx context.Context, story *models.Story, pages []models.StoryPage) (string, error) // Returns new story ID
	GetByID(ctx context.Context, storyID string) (*models.Story, error)
	GetPages(ctx context.Context, storyID string) ([]models.StoryPage, error) // Sorted by pageNumber
	GetByOwnerID(ctx context.Context, ownerID string) ([]*models.Story, error)
	// Delete removes the page subcollection first, then the parent document.
	Delete(ctx context.Context, storyID string) error
}

// AuditRepository defines the interface for audit log storage operations.
type AuditRepository interface {
	Create(ctx context.Context, logEntry models.AuditLog) error
}
