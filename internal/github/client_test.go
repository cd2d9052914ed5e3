package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	gh "github.com/google/go-github/v57/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFakeGitHub starts an httptest server and returns a client pointed at it.
func newFakeGitHub(t *testing.T, mux *http.ServeMux) *APIClient {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	ghc := gh.NewClient(nil)
	base, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	ghc.BaseURL = base

	return NewFromGitHub(ghc)
}

// linkLast writes a Link header announcing the given last page, which is
// how GitHub exposes totals for per_page=1 listings.
func linkLast(w http.ResponseWriter, r *http.Request, last int) {
	w.Header().Set("Link", fmt.Sprintf(`<http://%s%s?page=%d>; rel="last"`, r.Host, r.URL.Path, last))
}

func TestSearch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /search/repositories", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "web framework", r.URL.Query().Get("q"))
		fmt.Fprint(w, `{
			"total_count": 1,
			"incomplete_results": false,
			"items": [{
				"id": 11730342,
				"full_name": "vuejs/vue",
				"name": "vue",
				"description": "progressive frontend framework",
				"html_url": "https://github.com/vuejs/vue",
				"owner": {"login": "vuejs", "avatar_url": "https://avatars.example/vuejs.png"},
				"stargazers_count": 207000,
				"forks_count": 33000,
				"watchers_count": 207000,
				"open_issues_count": 600,
				"updated_at": "2026-08-01T12:00:00Z",
				"license": {"name": "MIT License"},
				"size": 30000,
				"homepage": "https://vuejs.org"
			}]
		}`)
	})

	client := newFakeGitHub(t, mux)

	repos, err := client.Search(context.Background(), "web framework")
	require.NoError(t, err)
	require.Len(t, repos, 1)

	r := repos[0]
	assert.Equal(t, int64(11730342), r.ID)
	assert.Equal(t, "vuejs/vue", r.FullName)
	assert.Equal(t, "vuejs", r.Owner.Login)
	assert.Equal(t, 207000, r.StargazersCount)
	assert.Equal(t, "MIT License", r.License)
	assert.Equal(t, "2026-08-01T12:00:00Z", r.UpdatedAt)
}

func TestGetRepo(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/vuejs/vue", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"id": 11730342,
			"full_name": "vuejs/vue",
			"name": "vue",
			"html_url": "https://github.com/vuejs/vue",
			"owner": {"login": "vuejs"},
			"stargazers_count": 207000
		}`)
	})

	client := newFakeGitHub(t, mux)

	repo, err := client.GetRepo(context.Background(), "vuejs", "vue")
	require.NoError(t, err)
	assert.Equal(t, "vuejs/vue", repo.FullName)
	assert.Equal(t, 207000, repo.StargazersCount)
}

func TestGetRepo_NotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/vuejs/nope", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message": "Not Found"}`)
	})

	client := newFakeGitHub(t, mux)

	_, err := client.GetRepo(context.Background(), "vuejs", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vuejs/nope")
}

func TestRepoDetails(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/vuejs/vue/languages", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"TypeScript": 300, "JavaScript": 100}`)
	})
	mux.HandleFunc("GET /repos/vuejs/vue", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id": 11730342, "name": "vue", "topics": ["vue", "frontend"]}`)
	})
	mux.HandleFunc("GET /repos/vuejs/vue/contributors", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("per_page"))
		linkLast(w, r, 350)
		fmt.Fprint(w, `[{"login": "yyx990803"}]`)
	})
	mux.HandleFunc("GET /repos/vuejs/vue/branches", func(w http.ResponseWriter, r *http.Request) {
		linkLast(w, r, 40)
		fmt.Fprint(w, `[{"name": "main"}]`)
	})
	mux.HandleFunc("GET /repos/vuejs/vue/commits", func(w http.ResponseWriter, r *http.Request) {
		linkLast(w, r, 3500)
		fmt.Fprint(w, `[{"sha": "abc"}]`)
	})
	mux.HandleFunc("GET /repos/vuejs/vue/pulls", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "open", r.URL.Query().Get("state"))
		linkLast(w, r, 150)
		fmt.Fprint(w, `[{"number": 1}]`)
	})
	mux.HandleFunc("GET /repos/vuejs/vue/releases/latest", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"name": "v3.4.0",
			"tag_name": "v3.4.0",
			"published_at": "2026-07-01T00:00:00Z",
			"html_url": "https://github.com/vuejs/vue/releases/v3.4.0"
		}`)
	})

	client := newFakeGitHub(t, mux)

	details, err := client.RepoDetails(context.Background(), "vuejs", "vue")
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"TypeScript": 300, "JavaScript": 100}, details.Languages)
	assert.Equal(t, []string{"vue", "frontend"}, details.Topics)
	assert.Equal(t, 350, details.Contributors)
	assert.Equal(t, 40, details.Branches)
	assert.Equal(t, 3500, details.Commits)
	assert.Equal(t, 150, details.PullRequests)
	require.NotNil(t, details.LastRelease)
	assert.Equal(t, "v3.4.0", details.LastRelease.Name)
	assert.Equal(t, "2026-07-01T00:00:00Z", details.LastRelease.PublishedAt)
}

func TestRepoDetails_SinglePageCountsUsePageLength(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/o/r/languages", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"Go": 100}`)
	})
	mux.HandleFunc("GET /repos/o/r", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id": 1, "name": "r"}`)
	})
	// No Link headers: everything fits in one page.
	mux.HandleFunc("GET /repos/o/r/contributors", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"login": "a"}]`)
	})
	mux.HandleFunc("GET /repos/o/r/branches", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"name": "main"}]`)
	})
	mux.HandleFunc("GET /repos/o/r/commits", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"sha": "abc"}]`)
	})
	mux.HandleFunc("GET /repos/o/r/pulls", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	})
	mux.HandleFunc("GET /repos/o/r/releases/latest", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message": "Not Found"}`)
	})

	client := newFakeGitHub(t, mux)

	details, err := client.RepoDetails(context.Background(), "o", "r")
	require.NoError(t, err)

	assert.Equal(t, 1, details.Contributors)
	assert.Equal(t, 1, details.Branches)
	assert.Equal(t, 1, details.Commits)
	assert.Equal(t, 0, details.PullRequests)

	// 404 on releases/latest means no releases, not a failure.
	assert.Nil(t, details.LastRelease)
}

func TestRepoDetails_LanguagesFailureFailsFetch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/o/r/languages", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	client := newFakeGitHub(t, mux)

	_, err := client.RepoDetails(context.Background(), "o", "r")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list languages")
}

func TestRepoDetails_CountFailuresDegradeToZero(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/o/r/languages", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"Go": 100}`)
	})
	mux.HandleFunc("GET /repos/o/r", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id": 1, "name": "r"}`)
	})
	mux.HandleFunc("GET /repos/o/r/releases/latest", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message": "Not Found"}`)
	})
	// contributors/branches/commits/pulls all 500: the fetch still succeeds.
	for _, path := range []string{"contributors", "branches", "commits", "pulls"} {
		mux.HandleFunc("GET /repos/o/r/"+path, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
	}

	client := newFakeGitHub(t, mux)

	details, err := client.RepoDetails(context.Background(), "o", "r")
	require.NoError(t, err)
	assert.Zero(t, details.Contributors)
	assert.Zero(t, details.Branches)
	assert.Zero(t, details.Commits)
	assert.Zero(t, details.PullRequests)
}
