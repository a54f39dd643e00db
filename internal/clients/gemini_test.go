package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestGeminiClient(t *testing.T, handler http.HandlerFunc) *GeminiClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := NewGeminiClient(GeminiConfig{APIKey: "test-key", Model: "gemini-test"})
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	c.baseURL = server.URL
	return c
}

func TestNewGeminiClient_RequiresKey(t *testing.T) {
	if _, err := NewGeminiClient(GeminiConfig{}); err == nil {
		t.Fatal("expected error without api key")
	}
}

func TestGenerateContent(t *testing.T) {
	c := newTestGeminiClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/models/gemini-test:generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Error("api key not passed as query parameter")
		}

		var req generateContentRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.SystemInstruction == nil || req.SystemInstruction.Parts[0].Text != "You are a financial advisor." {
			t.Errorf("unexpected system instruction %+v", req.SystemInstruction)
		}
		if len(req.Contents) != 1 || req.Contents[0].Parts[0].Text != "How do I budget?" {
			t.Errorf("unexpected contents %+v", req.Contents)
		}

		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Track your spending."}]}}]}`))
	})

	answer, err := c.GenerateContent(context.Background(), "You are a financial advisor.", "How do I budget?")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if answer != "Track your spending." {
		t.Errorf("unexpected answer %q", answer)
	}
}

func TestGenerateContent_NoCandidates(t *testing.T) {
	c := newTestGeminiClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	})

	if _, err := c.GenerateContent(context.Background(), "", "hi"); err == nil {
		t.Fatal("expected error for empty candidates")
	}
}

func TestGenerateContent_HTTPError(t *testing.T) {
	c := newTestGeminiClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
	})

	if _, err := c.GenerateContent(context.Background(), "", "hi"); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}
