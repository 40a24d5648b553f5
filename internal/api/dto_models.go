package api

// ErrorResponse is a generic structure for returning errors via API.
type ErrorResponse struct {
	Error   string `json:"error"`             // A high-level error message or code
	Details string `json:"details,omitempty"` // More specific details about the error, if available
}

// SuccessResponse is a generic structure for simple success messages.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// DefinitionResponse carries a contextual word definition.
type DefinitionResponse struct {
	Word       string `json:"word"`
	Definition string `json:"definition"`
}

// SimilarStoriesResponse carries generated similar-story ideas.
type SimilarStoriesResponse struct {
	Stories []string `json:"stories"`
}

// SaveStoryResponse returns the ID the saved story was persisted under.
type SaveStoryResponse struct {
	StoryID string `json:"storyId"`
}
