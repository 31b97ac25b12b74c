package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/repofit/repofit/internal/apperr"

	gogithub "github.com/google/go-github/v53/github"
	"go.uber.org/zap"
)

// newTestClient points a Client at a mock GitHub API server.
func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	api := gogithub.NewClient(nil)
	baseURL, _ := url.Parse(server.URL + "/")
	api.BaseURL = baseURL

	return &Client{api: api, logger: zap.NewNop()}
}

func TestFetchProfile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/alice", func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"login":        "alice",
			"name":         "Alice",
			"bio":          "builds things",
			"followers":    10,
			"following":    5,
			"public_repos": 12,
		})
	})

	client := newTestClient(t, mux)

	profile, err := client.FetchProfile(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.Username != "alice" {
		t.Fatalf("unexpected username: %q", profile.Username)
	}
	if profile.Name != "Alice" || profile.Bio != "builds things" {
		t.Fatalf("unexpected profile: %+v", profile)
	}
	if profile.Followers != 10 || profile.Following != 5 || profile.PublicRepos != 12 {
		t.Fatalf("unexpected counters: %+v", profile)
	}
}

func TestFetchProfileNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/ghost", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message": "Not Found"}`)
	})

	client := newTestClient(t, mux)

	_, err := client.FetchProfile(context.Background(), "ghost")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFetchProfileAuthError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/alice", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"message": "Bad credentials"}`)
	})

	client := newTestClient(t, mux)

	_, err := client.FetchProfile(context.Background(), "alice")
	if !errors.Is(err, apperr.ErrAuth) {
		t.Fatalf("expected ErrAuth, got %v", err)
	}
}

func TestFetchRepositoriesPaginates(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/alice/repos", func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		switch page {
		case "", "1":
			w.Header().Set("Link", fmt.Sprintf(`<http://%s/users/alice/repos?page=2>; rel="next", <http://%s/users/alice/repos?page=2>; rel="last"`, r.Host, r.Host))
			json.NewEncoder(w).Encode([]map[string]any{
				{"name": "one", "full_name": "alice/one", "language": "Go", "stargazers_count": 3},
				{"name": "two", "full_name": "alice/two", "fork": true},
			})
		case "2":
			json.NewEncoder(w).Encode([]map[string]any{
				{"name": "three", "full_name": "alice/three", "language": "Python"},
			})
		default:
			t.Errorf("unexpected page %q", page)
			w.WriteHeader(http.StatusBadRequest)
		}
	})

	client := newTestClient(t, mux)

	repos, err := client.FetchRepositories(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repos.Len() != 3 {
		t.Fatalf("expected 3 repositories across pages, got %d", repos.Len())
	}
	if repos.Items[0].Name != "one" || repos.Items[2].Name != "three" {
		t.Fatalf("unexpected ordering: %+v", repos.Items)
	}
	if !repos.Items[1].Fork {
		t.Fatal("fork flag lost in mapping")
	}
	if repos.Items[0].Stars != 3 {
		t.Fatalf("star count lost in mapping: %d", repos.Items[0].Stars)
	}
}

func TestFetchReadme(t *testing.T) {
	readme := "# rag-pipeline\n\nRetrieval-augmented generation demo."

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/alice/rag-pipeline/readme", func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"type":     "file",
			"name":     "README.md",
			"encoding": "base64",
			"content":  base64.StdEncoding.EncodeToString([]byte(readme)),
		})
	})

	client := newTestClient(t, mux)

	text, err := client.FetchReadme(context.Background(), "alice/rag-pipeline")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != readme {
		t.Fatalf("unexpected README content: %q", text)
	}
}

func TestFetchReadmeAbsent(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/alice/empty/readme", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message": "Not Found"}`)
	})

	client := newTestClient(t, mux)

	_, err := client.FetchReadme(context.Background(), "alice/empty")
	if !errors.Is(err, apperr.ErrNoReadme) {
		t.Fatalf("expected ErrNoReadme sentinel, got %v", err)
	}
}

func TestFetchReadmeInvalidFullName(t *testing.T) {
	client := newTestClient(t, http.NewServeMux())

	if _, err := client.FetchReadme(context.Background(), "no-slash"); err == nil {
		t.Fatal("expected an error for a name without owner")
	}
}
