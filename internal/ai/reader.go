package ai

import (
	"context"
	"fmt"
)

// DefineWord returns a definition of word as used in the surrounding passage,
// phrased for young readers.
func (c *GeminiClient) DefineWord(ctx context.Context, word, passage string) (string, error) {
	prompt := fmt.Sprintf(`You are an expert lexicographer specializing in providing contextual definitions for young readers.

You will use the context provided to define the word in a way that is easy for a young reader to understand.

Word: %s
Context: %s`, word, passage)

	schema := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"definition": map[string]interface{}{"type": "string"},
		},
		"required": []string{"definition"},
	}

	var out struct {
		Definition string `json:"definition"`
	}
	if err := c.generateJSON(ctx, prompt, schema, &out); err != nil {
		return "", err
	}
	if out.Definition == "" {
		return "", fmt.Errorf("definition generation returned an empty result")
	}
	return out.Definition, nil
}

// SimilarStories generates count story ideas in the spirit of the given story text.
func (c *GeminiClient) SimilarStories(ctx context.Context, storyText string, count int) ([]string, error) {
	prompt := fmt.Sprintf(`You are a creative story writer. Please generate %d similar stories based on the following story. Each story should be engaging.

Original Story:
%s`, count, storyText)

	schema := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"stories": map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"type": "string"},
			},
		},
		"required": []string{"stories"},
	}

	var out struct {
		Stories []string `json:"stories"`
	}
	if err := c.generateJSON(ctx, prompt, schema, &out); err != nil {
		return nil, err
	}
	if len(out.Stories) == 0 {
		return nil, fmt.Errorf("similar-story generation returned no stories")
	}
	return out.Stories, nil
}
