package ai

import (
	"context"
	"fmt"

	"storyweaver-backend-go/internal/models"
)

// storySchema constrains the model to {title, pages:[{text, imagePrompt}]}.
func storySchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"title": map[string]interface{}{"type": "string"},
			"pages": map[string]interface{}{
				"type": "array",
				"items": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"text":        map[string]interface{}{"type": "string"},
						"imagePrompt": map[string]interface{}{"type": "string"},
					},
					"required": []string{"text", "imagePrompt"},
				},
			},
		},
		"required": []string{"title", "pages"},
	}
}

// GenerateStory asks the text model for a complete storybook draft. The result
// is validated against the structured-output contract: exactly pageCount
// pages, each with non-empty text and an illustration prompt.
func (c *GeminiClient) GenerateStory(ctx context.Context, userPrompt, ageGroup, theme string, pageCount int) (*models.StoryDraft, error) {
	prompt := fmt.Sprintf(`You are a creative children's story writer.
Generate a short story based on the following prompt.
The story should be appropriate for the age group: %s.
The theme of the story should be: %s.
The story must be exactly %d pages long.

Prompt: %s

Please provide a title for the whole story.
For each of the %d pages, please do the following:
1. Story Text: Write 2-4 short sentences of engaging story text. This will be the "text" field for the page.
2. Illustration Prompt: Write a concise, one-sentence description for a vivid and imaginative illustration that matches the story text. Focus on the main characters, action, and setting. This will be the "imagePrompt" field for the page.`,
		ageGroup, theme, pageCount, userPrompt, pageCount)

	var draft models.StoryDraft
	if err := c.generateJSON(ctx, prompt, storySchema(), &draft); err != nil {
		return nil, err
	}

	if draft.Title == "" {
		return nil, fmt.Errorf("story generation returned an empty title")
	}
	if len(draft.Pages) != pageCount {
		return nil, fmt.Errorf("story generation returned %d pages, expected %d", len(draft.Pages), pageCount)
	}
	for i, page := range draft.Pages {
		if page.Text == "" || page.ImagePrompt == "" {
			return nil, fmt.Errorf("story generation returned an incomplete page at index %d", i)
		}
	}

	return &draft, nil
}
