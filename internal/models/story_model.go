package models

import "time"

// Page-count bounds for a persisted story.
const (
	MinStoryPages = 1
	MaxStoryPages = 12
)

// Story represents a saved storybook. Pages live in a 'pages' subcollection so
// the story list can be fetched without pulling page text along.
type Story struct {
	ID           string    `json:"id" firestore:"-"` // Document ID, auto-generated
	Title        string    `json:"title" firestore:"title"`
	Author       string    `json:"author" firestore:"author"`
	Theme        string    `json:"theme" firestore:"theme"`
	AgeGroup     string    `json:"ageGroup" firestore:"ageGroup"`
	ReadingLevel string    `json:"readingLevel" firestore:"readingLevel"`
	CoverImage   string    `json:"coverImage" firestore:"coverImage"`
	UserID       string    `json:"userId" firestore:"userId"` // Firebase Auth UID of the owner
	CreatedAt    time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`

	// Populated only when the caller asked for pages; sorted by PageNumber.
	Pages []StoryPage `json:"pages,omitempty" firestore:"-"`
}

// StoryPage is one page of a storybook. Reading order is defined solely by
// PageNumber; subcollection enumeration order is not guaranteed by Firestore.
type StoryPage struct {
	PageNumber  int    `json:"pageNumber" firestore:"pageNumber"` // 0-based
	Text        string `json:"text" firestore:"text"`
	ImagePrompt string `json:"imagePrompt" firestore:"imagePrompt"`
	ImageURL    string `json:"imageUrl,omitempty" firestore:"imageUrl,omitempty"`
}

// StoryDraft is a generated-but-unsaved story. It only lives in the client
// session; the ImageURL fields hold base64 data URIs until the save operation
// uploads them and replaces them with durable URLs.
type StoryDraft struct {
	Title string      `json:"title"`
	Pages []DraftPage `json:"pages"`
}

// DraftPage is one page of a draft, in generation order.
type DraftPage struct {
	Text        string `json:"text"`
	ImagePrompt string `json:"imagePrompt"`
	ImageURL    string `json:"imageUrl,omitempty"`
}
