package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"storyweaver-backend-go/internal/models"
)

const usersCollection = "users"

// ErrNotFound is a common error for when a document is not found in Firestore.
var ErrNotFound = errors.New("document not found")

// firestoreUserRepository implements the UserRepository interface using Firestore.
type firestoreUserRepository struct {
	client *firestore.Client
}

// NewFirestoreUserRepository creates a new instance of firestoreUserRepository.
func NewFirestoreUserRepository(client *firestore.Client) UserRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for UserRepository.")
	}
	return &firestoreUserRepository{client: client}
}

// Create adds a new user document to Firestore.
// The user.ID (Firebase Auth UID) is used as the Firestore document ID.
func (r *firestoreUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		return errors.New("user ID cannot be empty for Create operation")
	}
	_, err := r.client.Collection(usersCollection).Doc(user.ID).Create(ctx, user)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return fmt.Errorf("user with ID '%s' already exists: %w", user.ID, err)
		}
		return fmt.Errorf("failed to create user with ID '%s': %w", user.ID, err)
	}
	return nil
}

// GetByID retrieves a user document from Firestore by its ID (Firebase Auth UID).
func (r *firestoreUserRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty for GetByID operation")
	}
	docSnap, err := r.client.Collection(usersCollection).Doc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("user with ID '%s' not found: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user with ID '%s': %w", userID, err)
	}

	var user models.User
	if err := docSnap.DataTo(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user data for ID '%s': %w", userID, err)
	}
	user.ID = docSnap.Ref.ID

	return &user, nil
}

// ApplySubscription merge-sets the full subscription field block onto the user
// document. Set with MergeAll creates the document if it does not exist, so a
// first-time buyer without an initialized profile still ends up subscribed.
// MergeAll requires map data, hence the explicit field map.
func (r *firestoreUserRepository) ApplySubscription(ctx context.Context, userID string, sub models.SubscriptionUpdate) error {
	if userID == "" {
		return errors.New("userID cannot be empty for ApplySubscription operation")
	}
	fields := map[string]interface{}{
		"subscriptionStatus":        sub.SubscriptionStatus,
		"planId":                    sub.PlanID,
		"subscriptionEndDate":       sub.SubscriptionEndDate,
		"monthlyStoryLimit":         sub.MonthlyStoryLimit,
		"storiesGeneratedThisMonth": sub.StoriesGeneratedThisMonth,
		"lastPaymentDate":           sub.LastPaymentDate,
		"paymentId":                 sub.PaymentID,
		"orderId":                   sub.OrderID,
		"updatedAt":                 firestore.ServerTimestamp,
	}
	_, err := r.client.Collection(usersCollection).Doc(userID).Set(ctx, fields, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to apply subscription for user '%s': %w", userID, err)
	}
	return nil
}

// IncrementStoriesGenerated bumps storiesGeneratedThisMonth by one using a
// server-side transform, so concurrent requests never lose an increment.
func (r *firestoreUserRepository) IncrementStoriesGenerated(ctx context.Context, userID string) error {
	if userID == "" {
		return errors.New("userID cannot be empty for IncrementStoriesGenerated operation")
	}
	_, err := r.client.Collection(usersCollection).Doc(userID).Update(ctx, []firestore.Update{
		{Path: "storiesGeneratedThisMonth", Value: firestore.Increment(1)},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("user with ID '%s' not found: %w", userID, ErrNotFound)
		}
		return fmt.Errorf("failed to increment story counter for user '%s': %w", userID, err)
	}
	return nil
}
