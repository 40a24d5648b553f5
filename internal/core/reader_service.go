package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"storyweaver-backend-go/internal/db"
	"storyweaver-backend-go/pkg/cache"
)

// definitionCacheTTL bounds how long a cached contextual definition is reused.
// Definitions are deterministic enough for identical word+context pairs that a
// long TTL is safe.
const definitionCacheTTL = 24 * time.Hour

// maxSimilarStories caps one similar-stories request.
const maxSimilarStories = 5

// readerService implements the ReaderService interface.
type readerService struct {
	textGen   TextGenerator
	storyRepo db.StoryRepository
	cache     cache.Cache // optional; nil when Redis is not configured
	logger    *zap.Logger
}

// NewReaderService creates a new ReaderService instance. cache may be nil.
func NewReaderService(textGen TextGenerator, storyRepo db.StoryRepository, c cache.Cache, logger *zap.Logger) ReaderService {
	return &readerService{
		textGen:   textGen,
		storyRepo: storyRepo,
		cache:     c,
		logger:    logger,
	}
}

// DefineWord returns a young-reader definition of a word in its passage,
// consulting the cache first when one is configured. Cache failures degrade to
// a direct model call.
func (s *readerService) DefineWord(ctx context.Context, word, passage string) (string, error) {
	cacheKey := "definition:" + strings.ToLower(word) + "|" + passage

	if s.cache != nil {
		if cached, err := s.cache.Get(cacheKey); err == nil && cached != "" {
			return cached, nil
		}
	}

	definition, err := s.textGen.DefineWord(ctx, word, passage)
	if err != nil {
		return "", fmt.Errorf("failed to define word '%s': %w", word, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(cacheKey, definition, definitionCacheTTL); err != nil {
			s.logger.Warn("failed to cache definition", zap.String("word", word), zap.Error(err))
		}
	}

	return definition, nil
}

// SimilarStories loads the story's full text and asks the text model for count
// similar story ideas.
func (s *readerService) SimilarStories(ctx context.Context, storyID string, count int) ([]string, error) {
	if count <= 0 {
		count = 1
	}
	if count > maxSimilarStories {
		count = maxSimilarStories
	}

	if _, err := s.storyRepo.GetByID(ctx, storyID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: '%s'", ErrStoryNotFound, storyID)
		}
		return nil, fmt.Errorf("failed to get story '%s': %w", storyID, err)
	}

	pages, err := s.storyRepo.GetPages(ctx, storyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pages for story '%s': %w", storyID, err)
	}

	var sb strings.Builder
	for _, page := range pages {
		sb.WriteString(page.Text)
		sb.WriteString("\n")
	}

	stories, err := s.textGen.SimilarStories(ctx, sb.String(), count)
	if err != nil {
		return nil, fmt.Errorf("failed to generate similar stories for '%s': %w", storyID, err)
	}
	return stories, nil
}
