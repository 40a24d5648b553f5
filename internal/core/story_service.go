package core

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"storyweaver-backend-go/internal/db"
	"storyweaver-backend-go/internal/models"
	"storyweaver-backend-go/internal/storage"
)

// Custom errors for the StoryService.
var (
	ErrStoryNotFound         = errors.New("story not found")
	ErrForbiddenAccess       = errors.New("user does not have permission for this action on the story")
	ErrIllustrationsNotReady = errors.New("illustrations not ready")
	ErrGenerationFailed      = errors.New("story generation failed")
	ErrInvalidStoryData      = errors.New("invalid story data")
)

const (
	// storyPageCount is the fixed length of a generated storybook.
	storyPageCount = 12

	defaultReadingLevel = "Intermediate"
	defaultAuthor       = "AI Storyteller"
)

// designatedSlots returns the page indices that receive illustrations; the
// remaining pages are text-only. For the standard 12-page book this is
// {0, 3, 6, 9}.
func designatedSlots(pageCount int) []int {
	var slots []int
	for i := 0; i < pageCount; i += 3 {
		slots = append(slots, i)
	}
	if len(slots) > 4 {
		slots = slots[:4]
	}
	return slots
}

// storyService implements the StoryService interface.
type storyService struct {
	storyRepo    db.StoryRepository
	userRepo     db.UserRepository
	subscription SubscriptionService
	textGen      TextGenerator
	imageGen     ImageGenerator
	uploader     storage.ImageUploader
	auditService AuditService
	placeholder  string // cover fallback when no illustration uploaded
	logger       *zap.Logger
}

// NewStoryService creates a new StoryService instance.
func NewStoryService(
	storyRepo db.StoryRepository,
	userRepo db.UserRepository,
	subscription SubscriptionService,
	textGen TextGenerator,
	imageGen ImageGenerator,
	uploader storage.ImageUploader,
	auditService AuditService,
	placeholderCoverURL string,
	logger *zap.Logger,
) StoryService {
	return &storyService{
		storyRepo:    storyRepo,
		userRepo:     userRepo,
		subscription: subscription,
		textGen:      textGen,
		imageGen:     imageGen,
		uploader:     uploader,
		auditService: auditService,
		placeholder:  placeholderCoverURL,
		logger:       logger,
	}
}

// Generate runs the authorizing -> writing -> illustrating sequence and returns
// the finished draft. Quota is debited after authorization succeeds and before
// the text call is issued, so a denied attempt never consumes a unit and a
// failed generation still does.
func (s *storyService) Generate(ctx context.Context, userID string, req models.GenerateStoryRequest) (*models.StoryDraft, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNotSubscribed
		}
		return nil, fmt.Errorf("failed to load user '%s' for authorization: %w", userID, err)
	}

	if err := s.subscription.CheckAuthorization(user, time.Now().UTC()); err != nil {
		return nil, err
	}

	if err := s.subscription.RecordGenerationStart(ctx, userID); err != nil {
		return nil, err
	}

	draft, err := s.textGen.GenerateStory(ctx, req.Prompt, req.AgeGroup, req.Theme, storyPageCount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	s.illustrate(ctx, draft, req.Theme, req.Style)

	auditEntry := models.AuditLog{
		UserID:     userID,
		Action:     models.AuditStoryGenerated,
		TargetType: "STORY_DRAFT",
		Timestamp:  time.Now().UTC(),
		Details:    map[string]interface{}{"title": draft.Title, "theme": req.Theme},
	}
	if auditErr := s.auditService.CreateAuditLog(ctx, auditEntry); auditErr != nil {
		s.logger.Warn("failed to create audit log for story generation",
			zap.String("userID", userID), zap.Error(auditErr))
	}

	return draft, nil
}

// illustrate fans out one image-generation call per designated slot and joins
// them all. An individual failure is logged and leaves that slot empty; it
// never cancels the sibling calls or fails the draft, because one bad
// illustration must not waste the already-spent quota unit.
func (s *storyService) illustrate(ctx context.Context, draft *models.StoryDraft, theme, style string) {
	slots := designatedSlots(len(draft.Pages))
	results := make([]string, len(draft.Pages))

	var wg sync.WaitGroup
	for _, idx := range slots {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			imageURL, err := s.imageGen.GenerateImage(ctx, draft.Pages[idx].ImagePrompt, theme, style)
			if err != nil {
				s.logger.Warn("illustration generation failed for page",
					zap.Int("pageIndex", idx), zap.Error(err))
				return
			}
			results[idx] = imageURL
		}(idx)
	}
	wg.Wait()

	for i := range draft.Pages {
		draft.Pages[i].ImageURL = results[i]
	}
}

// Save persists a reviewed draft. It is a stricter gate than generation: every
// designated slot must hold an image, because a partially illustrated book is
// not considered saveable.
func (s *storyService) Save(ctx context.Context, userID, authorEmail string, req models.SaveStoryRequest) (string, error) {
	if len(req.Pages) < models.MinStoryPages || len(req.Pages) > models.MaxStoryPages {
		return "", fmt.Errorf("%w: a story must have between %d and %d pages",
			ErrInvalidStoryData, models.MinStoryPages, models.MaxStoryPages)
	}

	slots := designatedSlots(len(req.Pages))
	for _, idx := range slots {
		if req.Pages[idx].ImageURL == "" {
			return "", fmt.Errorf("%w: page %d has no illustration yet", ErrIllustrationsNotReady, idx)
		}
	}

	// Upload every embedded image payload; durable URLs replace the data URIs.
	uploaded := make([]string, len(req.Pages))
	var coverCandidates []string
	for i, page := range req.Pages {
		if page.ImageURL == "" {
			continue
		}
		if !strings.HasPrefix(page.ImageURL, "data:image") {
			// Already a durable URL (e.g. a retried save after a partial failure).
			uploaded[i] = page.ImageURL
			coverCandidates = append(coverCandidates, page.ImageURL)
			continue
		}
		url, err := s.uploader.UploadImage(ctx, page.ImageURL, userID)
		if err != nil {
			return "", fmt.Errorf("failed to upload illustration for page %d: %w", i, err)
		}
		uploaded[i] = url
		coverCandidates = append(coverCandidates, url)
	}

	coverImage := s.placeholder
	if len(coverCandidates) > 0 {
		coverImage = coverCandidates[rand.Intn(len(coverCandidates))]
	}

	author := authorEmail
	if author == "" {
		author = defaultAuthor
	}

	pages := make([]models.StoryPage, len(req.Pages))
	for i, page := range req.Pages {
		pages[i] = models.StoryPage{
			PageNumber:  i,
			Text:        page.Text,
			ImagePrompt: page.ImagePrompt,
			ImageURL:    uploaded[i],
		}
	}

	story := &models.Story{
		Title:        req.Title,
		Author:       author,
		Theme:        req.Theme,
		AgeGroup:     req.AgeGroup,
		ReadingLevel: req.ReadingLevel,
		CoverImage:   coverImage,
		UserID:       userID,
	}

	storyID, err := s.storyRepo.Create(ctx, story, pages)
	if err != nil {
		return "", fmt.Errorf("failed to save story: %w", err)
	}

	auditEntry := models.AuditLog{
		UserID:     userID,
		Action:     models.AuditStorySaved,
		TargetType: "STORY",
		TargetID:   storyID,
		Timestamp:  time.Now().UTC(),
		Details:    map[string]interface{}{"title": req.Title, "pageCount": len(pages)},
	}
	if auditErr := s.auditService.CreateAuditLog(ctx, auditEntry); auditErr != nil {
		s.logger.Warn("failed to create audit log for story save",
			zap.String("storyID", storyID), zap.Error(auditErr))
	}

	return storyID, nil
}

// Get returns a story with its pages sorted ascending by page number.
func (s *storyService) Get(ctx context.Context, storyID string) (*models.Story, error) {
	story, err := s.storyRepo.GetByID(ctx, storyID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: '%s'", ErrStoryNotFound, storyID)
		}
		return nil, fmt.Errorf("failed to get story '%s': %w", storyID, err)
	}

	pages, err := s.storyRepo.GetPages(ctx, storyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pages for story '%s': %w", storyID, err)
	}
	story.Pages = pages

	return story, nil
}

// List returns the stories owned by a user, newest first. Theme and search
// filters run in memory; the document store only indexes the owner query.
func (s *storyService) List(ctx context.Context, userID string, filter StoryFilter) ([]*models.Story, error) {
	stories, err := s.storyRepo.GetByOwnerID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stories for user '%s': %w", userID, err)
	}
	if filter.Theme == "" && filter.Search == "" {
		return stories, nil
	}

	search := strings.ToLower(filter.Search)
	filtered := make([]*models.Story, 0, len(stories))
	for _, story := range stories {
		if filter.Theme != "" && !strings.EqualFold(story.Theme, filter.Theme) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(story.Title), search) {
			continue
		}
		filtered = append(filtered, story)
	}
	return filtered, nil
}

// Delete removes a story owned by the user. A story that is already gone is
// treated as success so retried deletes stay idempotent.
func (s *storyService) Delete(ctx context.Context, userID, storyID string) error {
	story, err := s.storyRepo.GetByID(ctx, storyID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil // already gone
		}
		return fmt.Errorf("failed to get story '%s' for deletion: %w", storyID, err)
	}

	if story.UserID != userID {
		s.logger.Warn("unauthorized delete attempt",
			zap.String("userID", userID), zap.String("storyID", storyID))
		return fmt.Errorf("%w: user '%s' is not the owner of story '%s'", ErrForbiddenAccess, userID, storyID)
	}

	if err := s.storyRepo.Delete(ctx, storyID); err != nil {
		return fmt.Errorf("failed to delete story '%s': %w", storyID, err)
	}

	auditEntry := models.AuditLog{
		UserID:     userID,
		Action:     models.AuditStoryDeleted,
		TargetType: "STORY",
		TargetID:   storyID,
		Timestamp:  time.Now().UTC(),
		Details:    map[string]interface{}{"deleted_story_title": story.Title},
	}
	if auditErr := s.auditService.CreateAuditLog(ctx, auditEntry); auditErr != nil {
		s.logger.Warn("failed to create audit log for story deletion",
			zap.String("storyID", storyID), zap.Error(auditErr))
	}

	return nil
}
