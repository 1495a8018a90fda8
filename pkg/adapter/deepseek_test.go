package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDeepSeekGenerate(t *testing.T) {
	var gotReq deepseekRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Fatalf("unexpected auth header %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		payload := map[string]any{
			"id":    "cmpl-1",
			"model": "deepseek-chat",
			"choices": []any{
				map[string]any{
					"message": map[string]any{
						"role":    "assistant",
						"content": "OSPF forms adjacencies over multicast.",
					},
					"finish_reason": "stop",
				},
			},
			"usage": map[string]any{
				"prompt_tokens":     120,
				"completion_tokens": 40,
				"total_tokens":      160,
			},
		}
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			t.Fatalf("encode response: %v", err)
		}
	}))
	defer server.Close()

	a, err := NewDeepSeekAdapter("test-key", WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("NewDeepSeekAdapter: %v", err)
	}

	resp, err := a.Generate(context.Background(), Request{
		Model:       "deepseek-chat",
		System:      "You are a grounded tutor.",
		Prompt:      "Explain OSPF adjacency.",
		MaxTokens:   2048,
		Temperature: 0.3,
	})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	if resp.Text != "OSPF forms adjacencies over multicast." {
		t.Errorf("unexpected text %q", resp.Text)
	}
	if resp.Usage.PromptTokens != 120 || resp.Usage.CompletionTokens != 40 || resp.Usage.TotalTokens != 160 {
		t.Errorf("unexpected usage %+v", resp.Usage)
	}

	if gotReq.Model != "deepseek-chat" {
		t.Errorf("request model = %q, want deepseek-chat", gotReq.Model)
	}
	if len(gotReq.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(gotReq.Messages))
	}
	if gotReq.Messages[0].Role != "system" || gotReq.Messages[0].Content != "You are a grounded tutor." {
		t.Errorf("unexpected system message %+v", gotReq.Messages[0])
	}
	if gotReq.Messages[1].Role != "user" {
		t.Errorf("unexpected user message role %q", gotReq.Messages[1].Role)
	}
	if gotReq.MaxTokens != 2048 {
		t.Errorf("max_tokens = %d, want 2048", gotReq.MaxTokens)
	}
	if gotReq.Temperature != 0.3 {
		t.Errorf("temperature = %v, want 0.3", gotReq.Temperature)
	}
}

func TestDeepSeekGenerateOmitsSystemWhenEmpty(t *testing.T) {
	var gotReq deepseekRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		payload := map[string]any{
			"choices": []any{
				map[string]any{
					"message": map[string]any{"content": "ok"},
				},
			},
		}
		_ = json.NewEncoder(w).Encode(payload)
	}))
	defer server.Close()

	a, _ := NewDeepSeekAdapter("test-key", WithBaseURL(server.URL))
	if _, err := a.Generate(context.Background(), Request{Model: "deepseek-chat", Prompt: "hi"}); err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Role != "user" {
		t.Fatalf("expected single user message, got %+v", gotReq.Messages)
	}
}

func TestDeepSeekGenerateAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		payload := map[string]any{
			"error": map[string]any{
				"message": "invalid api key",
				"type":    "authentication_error",
				"code":    "invalid_api_key",
			},
		}
		_ = json.NewEncoder(w).Encode(payload)
	}))
	defer server.Close()

	a, _ := NewDeepSeekAdapter("bad-key", WithBaseURL(server.URL))
	_, err := a.Generate(context.Background(), Request{Model: "deepseek-chat", Prompt: "hi"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "invalid api key") {
		t.Errorf("error should carry API message, got %v", err)
	}

	var adapterErr *AdapterError
	if !errors.As(err, &adapterErr) {
		t.Fatalf("expected AdapterError, got %T", err)
	}
	if adapterErr.Status != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", adapterErr.Status)
	}
	if IsTransient(err) {
		t.Error("auth error should not be transient")
	}
}

func TestDeepSeekGenerateRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "rate limited", "type": "rate_limit_error"},
		})
	}))
	defer server.Close()

	a, _ := NewDeepSeekAdapter("test-key", WithBaseURL(server.URL))
	_, err := a.Generate(context.Background(), Request{Model: "deepseek-chat", Prompt: "hi"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsTransient(err) {
		t.Error("429 should be transient")
	}
}

func TestDeepSeekGenerateNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer server.Close()

	a, _ := NewDeepSeekAdapter("test-key", WithBaseURL(server.URL))
	_, err := a.Generate(context.Background(), Request{Model: "deepseek-chat", Prompt: "hi"})
	if err == nil || !strings.Contains(err.Error(), "no choices") {
		t.Fatalf("expected no-choices error, got %v", err)
	}
}

func TestDeepSeekRequiresAPIKey(t *testing.T) {
	if _, err := NewDeepSeekAdapter(""); err == nil {
		t.Fatal("expected error for empty API key")
	}
}
