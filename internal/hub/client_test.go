package hub

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClient_GetModelCard(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bert-base-uncased/resolve/main/README.md" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/markdown")
		w.Write([]byte("---\nlicense: apache-2.0\ntags:\n- fill-mask\n---\n# BERT\n\nSee https://example.com/paper."))
	}))
	defer server.Close()

	c := New(Config{BaseURL: server.URL})

	card, err := c.GetModelCard(t.Context(), "bert-base-uncased")
	if err != nil {
		t.Fatalf("GetModelCard() error = %v", err)
	}

	if card.ModelID != "bert-base-uncased" {
		t.Errorf("ModelID = %q", card.ModelID)
	}
	if !strings.HasPrefix(card.Body, "# BERT") {
		t.Errorf("Body should start with the markdown body, got %q", card.Body)
	}
	if card.License() != "apache-2.0" {
		t.Errorf("License() = %q", card.License())
	}
	if !strings.Contains(card.Raw, "license: apache-2.0") {
		t.Error("Raw should keep the front matter block")
	}
}

func TestClient_GetModelCardFallsBackToMaster(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if strings.Contains(r.URL.Path, "/resolve/master/") {
			w.Write([]byte("# Old model"))
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	c := New(Config{BaseURL: server.URL})

	card, err := c.GetModelCard(t.Context(), "legacy/model")
	if err != nil {
		t.Fatalf("GetModelCard() error = %v", err)
	}
	if card.Body != "# Old model" {
		t.Errorf("Body = %q", card.Body)
	}

	if len(paths) != 2 || !strings.Contains(paths[0], "/resolve/main/") {
		t.Errorf("expected main then master, got %v", paths)
	}
}

func TestClient_GetModelCardNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	c := New(Config{BaseURL: server.URL})

	_, err := c.GetModelCard(t.Context(), "missing/model")
	if err == nil {
		t.Fatal("GetModelCard() should fail for a missing model")
	}
	if !IsNotFound(err) {
		t.Errorf("IsNotFound(%v) = false, want true", err)
	}
	if IsUnauthorized(err) {
		t.Errorf("IsUnauthorized(%v) = true, want false", err)
	}
}

func TestClient_GetModelCardSendsToken(t *testing.T) {
	var gotAuth, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte("# Gated model"))
	}))
	defer server.Close()

	c := New(Config{BaseURL: server.URL, Token: "hf_secret"})

	if _, err := c.GetModelCard(t.Context(), "gated/model"); err != nil {
		t.Fatalf("GetModelCard() error = %v", err)
	}

	if gotAuth != "Bearer hf_secret" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
	if !strings.Contains(gotAccept, "text/markdown") {
		t.Errorf("Accept = %q, should prefer markdown", gotAccept)
	}
}

func TestClient_GetModelCardEmptyID(t *testing.T) {
	c := New(Config{})
	if _, err := c.GetModelCard(t.Context(), "  /  "); err == nil {
		t.Error("GetModelCard() should reject an empty model id")
	}
}

func TestClient_CreateDiscussion(t *testing.T) {
	var gotPath, gotAuth string
	var gotPayload map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotPayload)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"num": 7, "title": gotPayload["title"]})
	}))
	defer server.Close()

	c := New(Config{BaseURL: server.URL, Token: "hf_write"})

	discussion, err := c.CreateDiscussion(t.Context(), "test/model", "Link summary", "The summary body.")
	if err != nil {
		t.Fatalf("CreateDiscussion() error = %v", err)
	}

	if gotPath != "/api/models/test/model/discussions" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer hf_write" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotPayload["title"] != "Link summary" || gotPayload["description"] != "The summary body." {
		t.Errorf("payload = %v", gotPayload)
	}

	if discussion.Num != 7 {
		t.Errorf("Num = %d, want 7", discussion.Num)
	}
	if want := server.URL + "/test/model/discussions/7"; discussion.URL != want {
		t.Errorf("URL = %q, want %q", discussion.URL, want)
	}
}

func TestClient_CreateDiscussionRequiresToken(t *testing.T) {
	c := New(Config{})
	if _, err := c.CreateDiscussion(t.Context(), "test/model", "Title", "Body"); err == nil {
		t.Error("CreateDiscussion() without token should fail")
	}
}

func TestClient_CreateDiscussionForbidden(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer server.Close()

	c := New(Config{BaseURL: server.URL, Token: "hf_readonly"})

	_, err := c.CreateDiscussion(t.Context(), "test/model", "Title", "Body")
	if err == nil {
		t.Fatal("CreateDiscussion() should fail on 403")
	}
	if !IsUnauthorized(err) {
		t.Errorf("IsUnauthorized(%v) = false, want true", err)
	}
}
