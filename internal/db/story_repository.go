package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"storyweaver-backend-go/internal/models"
)

const (
	storiesCollection  = "stories"
	pagesSubcollection = "pages"
)

// firestoreStoryRepository implements the StoryRepository interface using Firestore.
type firestoreStoryRepository struct {
	client *firestore.Client
}

// NewFirestoreStoryRepository creates a new instance of firestoreStoryRepository.
func NewFirestoreStoryRepository(client *firestore.Client) StoryRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for StoryRepository.")
	}
	return &firestoreStoryRepository{client: client}
}

// Create adds the story document with an auto-generated ID, then batch-writes
// all pages into its 'pages' subcollection. The two steps are not a single
// cross-document transaction; a crash between them leaves an orphaned parent.
func (r *firestoreStoryRepository) Create(ctx context.Context, story *models.Story, pages []models.StoryPage) (string, error) {
	if len(pages) < models.MinStoryPages || len(pages) > models.MaxStoryPages {
		return "", fmt.Errorf("story must have between %d and %d pages, got %d",
			models.MinStoryPages, models.MaxStoryPages, len(pages))
	}

	docRef := r.client.Collection(storiesCollection).NewDoc()
	story.ID = docRef.ID

	if _, err := docRef.Create(ctx, story); err != nil {
		return "", fmt.Errorf("failed to create story: %w", err)
	}

	batch := r.client.Batch()
	pagesRef := docRef.Collection(pagesSubcollection)
	for _, page := range pages {
		batch.Create(pagesRef.NewDoc(), page)
	}
	if _, err := batch.Commit(ctx); err != nil {
		return "", fmt.Errorf("failed to write pages for story '%s': %w", docRef.ID, err)
	}

	return docRef.ID, nil
}

// GetByID retrieves a story document from Firestore by its ID, without pages.
func (r *firestoreStoryRepository) GetByID(ctx context.Context, storyID string) (*models.Story, error) {
	if storyID == "" {
		return nil, errors.New("storyID cannot be empty for GetByID operation")
	}
	docSnap, err := r.client.Collection(storiesCollection).Doc(storyID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("story with ID '%s' not found: %w", storyID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get story with ID '%s': %w", storyID, err)
	}

	var story models.Story
	if err := docSnap.DataTo(&story); err != nil {
		return nil, fmt.Errorf("failed to decode story data for ID '%s': %w", storyID, err)
	}
	story.ID = docSnap.Ref.ID

	return &story, nil
}

// GetPages retrieves all pages of a story, sorted ascending by pageNumber.
// Firestore does not guarantee subcollection enumeration order, so the sort is
// always applied here rather than trusted from the query.
func (r *firestoreStoryRepository) GetPages(ctx context.Context, storyID string) ([]models.StoryPage, error) {
	if storyID == "" {
		return nil, errors.New("storyID cannot be empty for GetPages operation")
	}

	iter := r.client.Collection(storiesCollection).Doc(storyID).Collection(pagesSubcollection).Documents(ctx)
	defer iter.Stop()

	var pages []models.StoryPage
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate pages for story '%s': %w", storyID, err)
		}

		var page models.StoryPage
		if err := doc.DataTo(&page); err != nil {
			log.Printf("Error decoding page data (ID: %s) for story '%s': %v. Skipping.", doc.Ref.ID, storyID, err)
			continue
		}
		pages = append(pages, page)
	}

	sort.Slice(pages, func(i, j int) bool { return pages[i].PageNumber < pages[j].PageNumber })
	return pages, nil
}

// GetByOwnerID retrieves all stories owned by a specific user, newest first.
func (r *firestoreStoryRepository) GetByOwnerID(ctx context.Context, ownerID string) ([]*models.Story, error) {
	if ownerID == "" {
		return nil, errors.New("ownerID cannot be empty for GetByOwnerID operation")
	}

	query := r.client.Collection(storiesCollection).Where("userId", "==", ownerID).OrderBy("createdAt", firestore.Desc)

	iter := query.Documents(ctx)
	defer iter.Stop()

	var stories []*models.Story
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate stories for owner '%s': %w", ownerID, err)
		}

		var story models.Story
		if err := doc.DataTo(&story); err != nil {
			log.Printf("Error decoding story data (ID: %s) for owner '%s': %v. Skipping.", doc.Ref.ID, ownerID, err)
			continue
		}
		story.ID = doc.Ref.ID
		stories = append(stories, &story)
	}

	return stories, nil
}

// Delete removes all page documents in a batch, then the story document.
// A missing story is not an error here; the service layer treats "already
// gone" as success.
func (r *firestoreStoryRepository) Delete(ctx context.Context, storyID string) error {
	if storyID == "" {
		return errors.New("storyID cannot be empty for Delete operation")
	}

	storyRef := r.client.Collection(storiesCollection).Doc(storyID)

	pagesIter := storyRef.Collection(pagesSubcollection).Documents(ctx)
	defer pagesIter.Stop()

	batch := r.client.Batch()
	batched := 0
	for {
		doc, err := pagesIter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to iterate pages of story '%s' for deletion: %w", storyID, err)
		}
		batch.Delete(doc.Ref)
		batched++
	}
	if batched > 0 {
		if _, err := batch.Commit(ctx); err != nil {
			return fmt.Errorf("failed to delete pages of story '%s': %w", storyID, err)
		}
	}

	if _, err := storyRef.Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete story '%s': %w", storyID, err)
	}
	return nil
}
