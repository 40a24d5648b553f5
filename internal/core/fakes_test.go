package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"storyweaver-backend-go/internal/db"
	"storyweaver-backend-go/internal/models"
)

// fakeUserRepo is an in-memory db.UserRepository.
type fakeUserRepo struct {
	users map[string]*models.User

	incrementCalls int
	applied        []models.SubscriptionUpdate
	appliedUserIDs []string

	getErr       error
	incrementErr error
	applyErr     error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) GetByID(ctx context.Context, userID string) (*models.User, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	user, ok := r.users[userID]
	if !ok {
		return nil, db.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) ApplySubscription(ctx context.Context, userID string, sub models.SubscriptionUpdate) error {
	if r.applyErr != nil {
		return r.applyErr
	}
	r.applied = append(r.applied, sub)
	r.appliedUserIDs = append(r.appliedUserIDs, userID)
	return nil
}

func (r *fakeUserRepo) IncrementStoriesGenerated(ctx context.Context, userID string) error {
	if r.incrementErr != nil {
		return r.incrementErr
	}
	if _, ok := r.users[userID]; !ok {
		return db.ErrNotFound
	}
	r.incrementCalls++
	r.users[userID].StoriesGeneratedThisMonth++
	return nil
}

// fakeStoryRepo is an in-memory db.StoryRepository.
type fakeStoryRepo struct {
	stories map[string]*models.Story
	pages   map[string][]models.StoryPage
	nextID  int

	deleteCalls []string
	createErr   error
}

func newFakeStoryRepo() *fakeStoryRepo {
	return &fakeStoryRepo{
		stories: make(map[string]*models.Story),
		pages:   make(map[string][]models.StoryPage),
	}
}

func (r *fakeStoryRepo) Create(ctx context.Context, story *models.Story, pages []models.StoryPage) (string, error) {
	if r.createErr != nil {
		return "", r.createErr
	}
	r.nextID++
	id := fmt.Sprintf("story-%d", r.nextID)
	story.ID = id
	r.stories[id] = story
	r.pages[id] = pages
	return id, nil
}

func (r *fakeStoryRepo) GetByID(ctx context.Context, storyID string) (*models.Story, error) {
	story, ok := r.stories[storyID]
	if !ok {
		return nil, db.ErrNotFound
	}
	copied := *story
	return &copied, nil
}

func (r *fakeStoryRepo) GetPages(ctx context.Context, storyID string) ([]models.StoryPage, error) {
	return r.pages[storyID], nil
}

func (r *fakeStoryRepo) GetByOwnerID(ctx context.Context, ownerID string) ([]*models.Story, error) {
	var out []*models.Story
	for _, s := range r.stories {
		if s.UserID == ownerID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeStoryRepo) Delete(ctx context.Context, storyID string) error {
	r.deleteCalls = append(r.deleteCalls, storyID)
	delete(r.stories, storyID)
	delete(r.pages, storyID)
	return nil
}

// fakeAuditService records audit entries.
type fakeAuditService struct {
	entries []models.AuditLog
	err     error
}

func (a *fakeAuditService) CreateAuditLog(ctx context.Context, entry models.AuditLog) error {
	if a.err != nil {
		return a.err
	}
	a.entries = append(a.entries, entry)
	return nil
}

// fakeTextGen is a canned TextGenerator.
type fakeTextGen struct {
	draft *models.StoryDraft
	err   error

	generateCalls int
	defineCalls   int
	definition    string
	similar       []string
}

func (g *fakeTextGen) GenerateStory(ctx context.Context, prompt, ageGroup, theme string, pageCount int) (*models.StoryDraft, error) {
	g.generateCalls++
	if g.err != nil {
		return nil, g.err
	}
	if g.draft != nil {
		return g.draft, nil
	}
	draft := &models.StoryDraft{Title: "The Brave Little Fox"}
	for i := 0; i < pageCount; i++ {
		draft.Pages = append(draft.Pages, models.DraftPage{
			Text:        fmt.Sprintf("Page %d text", i),
			ImagePrompt: fmt.Sprintf("A fox on page %d", i),
		})
	}
	return draft, nil
}

func (g *fakeTextGen) DefineWord(ctx context.Context, word, passage string) (string, error) {
	g.defineCalls++
	if g.err != nil {
		return "", g.err
	}
	return g.definition, nil
}

func (g *fakeTextGen) SimilarStories(ctx context.Context, storyText string, count int) ([]string, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.similar, nil
}

// fakeImageGen generates data URIs, optionally failing for selected page
// prompts. It is called concurrently.
type fakeImageGen struct {
	mu         sync.Mutex
	calls      int
	failFor    map[string]bool // image prompts that should fail
	failAlways bool
}

func (g *fakeImageGen) GenerateImage(ctx context.Context, scene, theme, style string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.failAlways || g.failFor[scene] {
		return "", fmt.Errorf("image model rejected scene %q", scene)
	}
	return "data:image/png;base64,aGVsbG8=", nil
}

// fakeUploader returns deterministic durable URLs.
type fakeUploader struct {
	uploads int
	err     error
}

func (u *fakeUploader) UploadImage(ctx context.Context, dataURI, userID string) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	u.uploads++
	return fmt.Sprintf("https://storage.example.com/%s/img-%d", userID, u.uploads), nil
}

// fakeCache is an in-memory cache.Cache.
type fakeCache struct {
	data map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]string)}
}

func (c *fakeCache) Get(key string) (string, error) {
	return c.data[key], nil
}

func (c *fakeCache) Set(key string, value interface{}, _ time.Duration) error {
	c.data[key] = fmt.Sprint(value)
	return nil
}

func (c *fakeCache) Delete(key string) error {
	delete(c.data, key)
	return nil
}
