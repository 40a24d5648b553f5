package core

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"storyweaver-backend-go/internal/models"
)

func TestDefineWordUsesCache(t *testing.T) {
	textGen := &fakeTextGen{definition: "very big"}
	c := newFakeCache()
	svc := NewReaderService(textGen, newFakeStoryRepo(), c, zap.NewNop())

	got, err := svc.DefineWord(context.Background(), "enormous", "The enormous dragon slept.")
	if err != nil {
		t.Fatalf("DefineWord() error = %v", err)
	}
	if got != "very big" {
		t.Errorf("definition = %q, want %q", got, "very big")
	}
	if textGen.defineCalls != 1 {
		t.Fatalf("model called %d times, want 1", textGen.defineCalls)
	}

	// Same word and passage again: served from cache.
	if _, err := svc.DefineWord(context.Background(), "enormous", "The enormous dragon slept."); err != nil {
		t.Fatalf("cached DefineWord() error = %v", err)
	}
	if textGen.defineCalls != 1 {
		t.Errorf("model called %d times after cache hit, want still 1", textGen.defineCalls)
	}

	// A different passage is a different cache key.
	if _, err := svc.DefineWord(context.Background(), "enormous", "An enormous wave rose."); err != nil {
		t.Fatalf("DefineWord() with new passage error = %v", err)
	}
	if textGen.defineCalls != 2 {
		t.Errorf("model called %d times for a new passage, want 2", textGen.defineCalls)
	}
}

func TestDefineWordWithoutCache(t *testing.T) {
	textGen := &fakeTextGen{definition: "very big"}
	svc := NewReaderService(textGen, newFakeStoryRepo(), nil, zap.NewNop())

	if _, err := svc.DefineWord(context.Background(), "enormous", "passage"); err != nil {
		t.Fatalf("DefineWord() without cache error = %v", err)
	}
	if textGen.defineCalls != 1 {
		t.Errorf("model called %d times, want 1", textGen.defineCalls)
	}
}

func TestSimilarStories(t *testing.T) {
	storyRepo := newFakeStoryRepo()
	storyRepo.stories["story-1"] = &models.Story{ID: "story-1", Title: "Fox"}
	storyRepo.pages["story-1"] = []models.StoryPage{{PageNumber: 0, Text: "Once upon a time."}}
	textGen := &fakeTextGen{similar: []string{"The Clever Rabbit", "A Bear's Big Day"}}
	svc := NewReaderService(textGen, storyRepo, nil, zap.NewNop())

	stories, err := svc.SimilarStories(context.Background(), "story-1", 2)
	if err != nil {
		t.Fatalf("SimilarStories() error = %v", err)
	}
	if len(stories) != 2 {
		t.Errorf("got %d ideas, want 2", len(stories))
	}

	if _, err := svc.SimilarStories(context.Background(), "ghost", 2); !errors.Is(err, ErrStoryNotFound) {
		t.Errorf("SimilarStories(missing) error = %v, want ErrStoryNotFound", err)
	}
}
