package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// newTestClient points a GeminiClient at a stub server that returns the given
// generateContent responses, keyed by model name.
func newTestClient(t *testing.T, respond func(model string, body map[string]interface{}) string) (*GeminiClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Path looks like /models/<model>:generateContent
		parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/models/"), ":")
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("request body is not JSON: %v", err)
		}
		fmt.Fprint(w, respond(parts[0], body))
	}))
	client := NewGeminiClient("test-api-key")
	client.baseURL = server.URL
	return client, server
}

func textResponse(text string) string {
	out := map[string]interface{}{
		"candidates": []map[string]interface{}{
			{"content": map[string]interface{}{
				"parts": []map[string]interface{}{{"text": text}},
			}},
		},
	}
	b, _ := json.Marshal(out)
	return string(b)
}

func TestGenerateStoryParsesStructuredOutput(t *testing.T) {
	storyJSON := `{"title":"The Brave Fox","pages":[` +
		`{"text":"p0","imagePrompt":"i0"},{"text":"p1","imagePrompt":"i1"},{"text":"p2","imagePrompt":"i2"}]}`

	var sawSchema bool
	client, server := newTestClient(t, func(model string, body map[string]interface{}) string {
		if model != textModel {
			t.Errorf("model = %q, want %q", model, textModel)
		}
		if cfg, ok := body["generationConfig"].(map[string]interface{}); ok {
			_, sawSchema = cfg["responseSchema"]
			if cfg["responseMimeType"] != "application/json" {
				t.Errorf("responseMimeType = %v, want application/json", cfg["responseMimeType"])
			}
		}
		return textResponse(storyJSON)
	})
	defer server.Close()

	draft, err := client.GenerateStory(context.Background(), "a brave fox", "4-6", "Adventure", 3)
	if err != nil {
		t.Fatalf("GenerateStory() error = %v", err)
	}
	if draft.Title != "The Brave Fox" || len(draft.Pages) != 3 {
		t.Errorf("draft = %+v, want 3 pages titled The Brave Fox", draft)
	}
	if !sawSchema {
		t.Error("request carried no responseSchema")
	}
}

func TestGenerateStoryRejectsWrongPageCount(t *testing.T) {
	client, server := newTestClient(t, func(model string, body map[string]interface{}) string {
		return textResponse(`{"title":"Short","pages":[{"text":"p0","imagePrompt":"i0"}]}`)
	})
	defer server.Close()

	if _, err := client.GenerateStory(context.Background(), "a brave fox", "4-6", "Adventure", 12); err == nil {
		t.Fatal("GenerateStory() = nil error for a 1-page response when 12 were requested")
	}
}

func TestGenerateImageReturnsDataURI(t *testing.T) {
	var safety []interface{}
	client, server := newTestClient(t, func(model string, body map[string]interface{}) string {
		if model != imageModel {
			t.Errorf("model = %q, want %q", model, imageModel)
		}
		safety, _ = body["safetySettings"].([]interface{})
		out := map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{
					"parts": []map[string]interface{}{
						{"text": "here is your image"},
						{"inlineData": map[string]interface{}{"mimeType": "image/png", "data": "aGVsbG8="}},
					},
				}},
			},
		}
		b, _ := json.Marshal(out)
		return string(b)
	})
	defer server.Close()

	uri, err := client.GenerateImage(context.Background(), "a fox in a forest", "Adventure", "Watercolor")
	if err != nil {
		t.Fatalf("GenerateImage() error = %v", err)
	}
	if uri != "data:image/png;base64,aGVsbG8=" {
		t.Errorf("uri = %q, want the inline data as a data URI", uri)
	}
	if len(safety) != 4 {
		t.Errorf("sent %d safety settings, want 4 harm categories", len(safety))
	}
}

func TestGenerateSurfacesAPIError(t *testing.T) {
	client, server := newTestClient(t, func(model string, body map[string]interface{}) string {
		return `{"error":{"code":429,"message":"quota exceeded"}}`
	})
	defer server.Close()

	_, err := client.GenerateImage(context.Background(), "scene", "theme", "style")
	if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("error = %v, want the API error message surfaced", err)
	}
}

func TestDefineWordReturnsDefinition(t *testing.T) {
	client, server := newTestClient(t, func(model string, body map[string]interface{}) string {
		return textResponse(`{"definition":"very big"}`)
	})
	defer server.Close()

	got, err := client.DefineWord(context.Background(), "enormous", "The enormous dragon slept.")
	if err != nil {
		t.Fatalf("DefineWord() error = %v", err)
	}
	if got != "very big" {
		t.Errorf("definition = %q, want %q", got, "very big")
	}
}
