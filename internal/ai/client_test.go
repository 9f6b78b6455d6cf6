package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
)

func newTestServer(t *testing.T, status int, reply string) (*httptest.Server, *chatRequest) {
	t.Helper()
	var captured chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("unexpected auth header %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(reply))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": reply}},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &captured
}

func TestSummarize(t *testing.T) {
	srv, captured := newTestServer(t, http.StatusOK, "  A short summary.\n")
	c := NewChatClient(Config{BaseURL: srv.URL + "/v1/", Model: "test-model", APIKey: "secret"})

	got, err := c.Summarize(context.Background(), "", "body text")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if got != "A short summary." {
		t.Fatalf("unexpected summary %q", got)
	}
	if captured.Model != "test-model" || len(captured.Messages) != 2 {
		t.Fatalf("unexpected request %+v", captured)
	}
	user := captured.Messages[1].Content
	if !strings.Contains(user, "Title: (no title)") || !strings.Contains(user, "body text") {
		t.Fatalf("unexpected prompt %q", user)
	}
}

func TestSuggestTags(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, "go, testing，  notes ,")
	c := NewChatClient(Config{BaseURL: srv.URL + "/v1", Model: "m", APIKey: "secret"})

	tags, err := c.SuggestTags(context.Background(), "t", "c")
	if err != nil {
		t.Fatalf("SuggestTags: %v", err)
	}
	if !reflect.DeepEqual(tags, []string{"go", "testing", "notes"}) {
		t.Fatalf("unexpected tags %v", tags)
	}
}

func TestAPIError(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusUnauthorized, `{"error":"bad key"}`)
	c := NewChatClient(Config{BaseURL: srv.URL + "/v1", APIKey: "secret"})

	_, err := c.Summarize(context.Background(), "t", "c")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized || !strings.Contains(apiErr.Body, "bad key") {
		t.Fatalf("unexpected api error %+v", apiErr)
	}
}

func TestMissingKeySkipsRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("no request expected without an API key")
	}))
	defer srv.Close()

	c := NewChatClient(Config{BaseURL: srv.URL})
	if _, err := c.SuggestTags(context.Background(), "t", "c"); !errors.Is(err, ErrNoAPIKey) {
		t.Fatalf("expected ErrNoAPIKey, got %v", err)
	}
}
