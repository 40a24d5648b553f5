// Package ai contains thin HTTP clients for the Gemini generative endpoints:
// structured story text, contextual definitions, and storybook illustrations.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	textModel  = "gemini-2.0-flash"
	imageModel = "gemini-2.0-flash-preview-image-generation"
)

// GeminiClient issues generateContent calls against the Gemini REST API.
type GeminiClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewGeminiClient creates a client for the given API key.
func NewGeminiClient(apiKey string) *GeminiClient {
	return &GeminiClient{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

// generateResponse is the subset of the generateContent response we consume.
type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text       string `json:"text"`
				InlineData *struct {
					MimeType string `json:"mimeType"`
					Data     string `json:"data"`
				} `json:"inlineData"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

func (c *GeminiClient) generate(ctx context.Context, model string, requestBody map[string]interface{}) (*generateResponse, error) {
	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var response generateResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse Gemini response: %w", err)
	}
	if response.Error != nil {
		return nil, fmt.Errorf("gemini API error %d: %s", response.Error.Code, response.Error.Message)
	}
	if len(response.Candidates) == 0 || len(response.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no response from Gemini")
	}
	return &response, nil
}

// generateJSON runs a structured-output call: the model is constrained to emit
// JSON conforming to responseSchema, which is then unmarshaled into out.
func (c *GeminiClient) generateJSON(ctx context.Context, prompt string, responseSchema map[string]interface{}, out interface{}) error {
	requestBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": []map[string]string{{"text": prompt}}},
		},
		"generationConfig": map[string]interface{}{
			"responseMimeType": "application/json",
			"responseSchema":   responseSchema,
			"temperature":      0.7,
		},
	}

	response, err := c.generate(ctx, textModel, requestBody)
	if err != nil {
		return err
	}

	text := response.Candidates[0].Content.Parts[0].Text
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("model output does not conform to the requested schema: %w", err)
	}
	return nil
}
