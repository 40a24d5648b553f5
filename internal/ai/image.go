package ai

import (
	"context"
	"fmt"
)

// blockNoneSafetySettings disables the four harm-category filters for image
// generation. Without this, ordinary children's-story imagery (dragons, storms,
// a knight's sword) gets rejected often enough to break the illustration flow.
func blockNoneSafetySettings() []map[string]string {
	categories := []string{
		"HARM_CATEGORY_HATE_SPEECH",
		"HARM_CATEGORY_DANGEROUS_CONTENT",
		"HARM_CATEGORY_HARASSMENT",
		"HARM_CATEGORY_SEXUALLY_EXPLICIT",
	}
	settings := make([]map[string]string, 0, len(categories))
	for _, cat := range categories {
		settings = append(settings, map[string]string{
			"category":  cat,
			"threshold": "BLOCK_NONE",
		})
	}
	return settings
}

// GenerateImage produces one illustration as a base64 data URI
// ("data:<mimetype>;base64,<data>").
func (c *GeminiClient) GenerateImage(ctx context.Context, scene, theme, style string) (string, error) {
	fullPrompt := fmt.Sprintf("A %s of %s. Theme: %s.", style, scene, theme)

	requestBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": []map[string]string{{"text": fullPrompt}}},
		},
		"generationConfig": map[string]interface{}{
			"responseModalities": []string{"TEXT", "IMAGE"},
		},
		"safetySettings": blockNoneSafetySettings(),
	}

	response, err := c.generate(ctx, imageModel, requestBody)
	if err != nil {
		return "", err
	}

	for _, part := range response.Candidates[0].Content.Parts {
		if part.InlineData != nil && part.InlineData.Data != "" {
			return fmt.Sprintf("data:%s;base64,%s", part.InlineData.MimeType, part.InlineData.Data), nil
		}
	}
	return "", fmt.Errorf("image generation failed to produce an image")
}
