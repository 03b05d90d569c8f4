package genai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func geminiServer(t *testing.T, answer string, seen *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/models/gemini-test:generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "key" {
			t.Errorf("api key header missing")
		}
		body, _ := io.ReadAll(r.Body)
		*seen = string(body)

		resp := map[string]any{
			"candidates": []any{map[string]any{
				"content": map[string]any{
					"role":  "model",
					"parts": []any{map[string]any{"text": answer}},
				},
			}},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClientGenerate(t *testing.T) {
	var body string
	srv := geminiServer(t, "  Bom dia!  ", &body)

	client, err := NewClient(context.Background(), srv.URL, "gemini-test", "key")
	if err != nil {
		t.Fatalf("client: %v", err)
	}

	text, err := client.Generate(context.Background(), "Seja breve.", "Oi")
	if err != nil || text != "Bom dia!" {
		t.Fatalf("generate: %q %v", text, err)
	}
	if !strings.Contains(body, "Seja breve.") || !strings.Contains(body, "Oi") {
		t.Fatalf("system instruction and prompt should be sent: %s", body)
	}
}

func TestClientGenerateJSON(t *testing.T) {
	var body string
	srv := geminiServer(t, "```json\n{\"headline\":\"ok\"}\n```", &body)

	client, err := NewClient(context.Background(), srv.URL, "gemini-test", "key")
	if err != nil {
		t.Fatalf("client: %v", err)
	}

	var out struct {
		Headline string `json:"headline"`
	}
	if err := client.GenerateJSON(context.Background(), "", "Resuma", &out); err != nil {
		t.Fatalf("generate json: %v", err)
	}
	if out.Headline != "ok" {
		t.Fatalf("unexpected decode: %+v", out)
	}
	if !strings.Contains(body, "application/json") {
		t.Fatalf("json mime type should be requested: %s", body)
	}
}

func TestClientEmptyAnswer(t *testing.T) {
	var body string
	srv := geminiServer(t, "   ", &body)

	client, _ := NewClient(context.Background(), srv.URL, "gemini-test", "key")
	if _, err := client.Generate(context.Background(), "", "Oi"); err != ErrEmptyAnswer {
		t.Fatalf("expected ErrEmptyAnswer, got %v", err)
	}
}
