package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/postview/internal/catalog"
	"git.home.luguber.info/inful/postview/internal/fetch"
	"git.home.luguber.info/inful/postview/internal/markdown"
	"git.home.luguber.info/inful/postview/internal/post"
	"git.home.luguber.info/inful/postview/internal/resolve"
	"git.home.luguber.info/inful/postview/internal/server/responses"
)

type staticCatalog struct {
	coll   *post.Collection
	status catalog.Status
}

func (c staticCatalog) Current() *post.Collection { return c.coll }
func (c staticCatalog) Status() catalog.Status    { return c.status }

var postBodies = map[string]string{
	"posts/a.md": "# Heading A\n\nFirst paragraph of A.",
	"posts/b.md": "---\ntitle: Post B\nexcerpt: About B\n---\nBody of **B**.",
}

func testCollection() *post.Collection {
	return post.NewCollection(post.StrategyManifest, []post.Entry{
		{Summary: post.NewSummary("a.md", "posts/a.md", post.SummaryOptions{Date: "2024-01-01"})},
		{Summary: post.NewSummary("b.md", "posts/b.md", post.SummaryOptions{Title: "Post B", Date: "2024-02-01", Excerpt: "About B"})},
		{Summary: post.NewSummary("gone.md", "posts/gone.md", post.SummaryOptions{})},
	})
}

func testResolver() *resolve.Resolver {
	return resolve.NewResolver(fetch.FetcherFunc(func(_ context.Context, location string) ([]byte, error) {
		body, ok := postBodies[location]
		if !ok {
			return nil, errors.New("503 upstream")
		}
		return []byte(body), nil
	}))
}

func newMux(c Catalog) *http.ServeMux {
	renderer := markdown.NewRenderer(markdown.Options{})
	pages := NewPageHandlers(c, testResolver(), renderer, "Test Blog")
	api := NewAPIHandlers(c, testResolver(), renderer)
	mon := NewMonitoringHandlers(c, time.Now())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", pages.HandleIndex)
	mux.HandleFunc("GET /post/{id...}", pages.HandlePost)
	mux.HandleFunc("GET /api/posts", api.HandleListPosts)
	mux.HandleFunc("GET /api/posts/{id...}", api.HandleGetPost)
	mux.HandleFunc("GET /healthz", mon.HandleHealthCheck)
	return mux
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

func loaded() staticCatalog {
	return staticCatalog{coll: testCollection(), status: catalog.Status{Loaded: true, Posts: 3, Reloads: 1, LastReload: time.Now()}}
}

func TestIndexPage_ListsPostsInOrder(t *testing.T) {
	rr := get(t, newMux(loaded()), "/")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))
	body := rr.Body.String()
	assert.Contains(t, body, "<title>Test Blog</title>")
	assert.Contains(t, body, `href="/post/b"`)
	assert.Contains(t, body, "About B")
	assert.Less(t, strings.Index(body, "Post B"), strings.Index(body, `href="/post/a"`))
}

func TestIndexPage_RedirectsPostQuery(t *testing.T) {
	rr := get(t, newMux(loaded()), "/?post=notes/a%20b.md")

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/post/notes/a%20b.md", rr.Header().Get("Location"))
}

func TestPages_IndexUnavailable(t *testing.T) {
	mux := newMux(staticCatalog{status: catalog.Status{LastError: "down"}})

	for _, target := range []string{"/", "/post/a"} {
		rr := get(t, mux, target)
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code, target)
		assert.Contains(t, rr.Body.String(), MsgIndexUnavailable, target)
	}
}

func TestPostPage(t *testing.T) {
	mux := newMux(loaded())

	t.Run("by slug", func(t *testing.T) {
		rr := get(t, mux, "/post/a")
		require.Equal(t, http.StatusOK, rr.Code)
		body := rr.Body.String()
		assert.Contains(t, body, "<title>Heading A - Test Blog</title>")
		assert.Contains(t, body, `<meta name="description" content="First paragraph of A.">`)
		assert.NotEmpty(t, rr.Header().Get("ETag"))
	})

	t.Run("default is first post", func(t *testing.T) {
		rr := get(t, mux, "/post/")
		require.Equal(t, http.StatusOK, rr.Code)
		body := rr.Body.String()
		assert.Contains(t, body, "<strong>B</strong>")
		assert.Contains(t, body, `content="About B"`)
	})

	t.Run("not found", func(t *testing.T) {
		rr := get(t, mux, "/post/missing")
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Body.String(), MsgPostNotFound)
	})

	t.Run("fetch failure", func(t *testing.T) {
		rr := get(t, mux, "/post/gone")
		assert.Equal(t, http.StatusBadGateway, rr.Code)
		assert.Contains(t, rr.Body.String(), MsgPostLoadFailed)
	})
}

func TestPostPage_ConditionalGet(t *testing.T) {
	mux := newMux(loaded())
	etag := get(t, mux, "/post/a").Header().Get("ETag")
	require.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, "/post/a", nil)
	req.Header.Set("If-None-Match", etag)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotModified, rr.Code)
	assert.Empty(t, rr.Body.String())
}

func TestAPI_ListPosts(t *testing.T) {
	rr := get(t, newMux(loaded()), "/api/posts")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp responses.PostListResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "manifest", resp.Strategy)
	require.Equal(t, 3, resp.Count)
	assert.Equal(t, []string{"b", "a", "gone"}, []string{resp.Posts[0].Slug, resp.Posts[1].Slug, resp.Posts[2].Slug})
	assert.Equal(t, "/post/b", resp.Posts[0].URL)
}

func TestAPI_GetPost(t *testing.T) {
	mux := newMux(loaded())

	rr := get(t, mux, "/api/posts/b.md")
	require.Equal(t, http.StatusOK, rr.Code)
	var resp responses.PostResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Post B", resp.DisplayTitle)
	assert.Equal(t, "About B", resp.Metadata["excerpt"])
	assert.Contains(t, resp.HTML, "<strong>B</strong>")
	assert.NotEmpty(t, resp.Fingerprint)

	rr = get(t, mux, "/api/posts/missing")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), `"code":"not_found"`)

	rr = get(t, mux, "/api/posts/gone")
	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Contains(t, rr.Body.String(), `"code":"post_fetch"`)
}

func TestAPI_Unavailable(t *testing.T) {
	rr := get(t, newMux(staticCatalog{status: catalog.Status{LastError: "down"}}), "/api/posts")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), `"code":"source"`)
	assert.Contains(t, rr.Body.String(), `"last_error":"down"`)
}

func TestHealthCheck(t *testing.T) {
	rr := get(t, newMux(loaded()), "/healthz")
	require.Equal(t, http.StatusOK, rr.Code)
	var health responses.HealthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, 3, health.Posts)
	assert.NotNil(t, health.LastReload)

	rr = get(t, newMux(staticCatalog{}), "/healthz?pretty=1")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), "\n  \"status\": \"degraded\"")
}

func TestEtagMatches(t *testing.T) {
	assert.True(t, etagMatches(`"x"`, `"x"`))
	assert.True(t, etagMatches(`"y", W/"x"`, `"x"`))
	assert.True(t, etagMatches(`*`, `"x"`))
	assert.False(t, etagMatches(``, `"x"`))
	assert.False(t, etagMatches(`"y"`, `"x"`))
}

func TestFingerprint_ChangesWithContent(t *testing.T) {
	a := &resolve.Post{Body: "hello", Metadata: post.FrontMatter{"title": "T"}}
	b := &resolve.Post{Body: "hello", Metadata: post.FrontMatter{"title": "U"}}
	c := &resolve.Post{Body: "hello!", Metadata: post.FrontMatter{"title": "T"}}

	assert.Equal(t, fingerprint(a), fingerprint(&resolve.Post{Body: "hello", Metadata: post.FrontMatter{"title": "T"}}))
	assert.NotEqual(t, fingerprint(a), fingerprint(b))
	assert.NotEqual(t, fingerprint(a), fingerprint(c))
}

func TestFingerprint_ChangesWithIndexFields(t *testing.T) {
	page := func(title, date, excerpt string) *resolve.Post {
		return &resolve.Post{
			Summary:  post.NewSummary("a.md", "posts/a.md", post.SummaryOptions{Title: title, Date: date, Excerpt: excerpt}),
			Body:     "same body",
			Metadata: post.FrontMatter{},
			Title:    title,
		}
	}
	base := fingerprint(page("Old", "2024-01-01", "x"))

	assert.Equal(t, base, fingerprint(page("Old", "2024-01-01", "x")))
	assert.NotEqual(t, base, fingerprint(page("New", "2024-01-01", "x")))
	assert.NotEqual(t, base, fingerprint(page("Old", "2024-05-05", "x")))
	assert.NotEqual(t, base, fingerprint(page("Old", "2024-01-01", "y")))
}

func TestIndexPage_EscapesPostLinks(t *testing.T) {
	coll := post.NewCollection(post.StrategyManifest, []post.Entry{
		{Summary: post.NewSummary("c#-tips.md", "posts/c#-tips.md", post.SummaryOptions{Title: "C# tips"})},
		{Summary: post.NewSummary("why?.md", "posts/why?.md", post.SummaryOptions{})},
		{Summary: post.NewSummary("two words.md", "posts/two words.md", post.SummaryOptions{})},
	})
	c := staticCatalog{coll: coll, status: catalog.Status{Loaded: true, Posts: 3}}
	body := get(t, newMux(c), "/").Body.String()

	assert.Contains(t, body, `href="/post/c%23-tips"`)
	assert.Contains(t, body, `href="/post/why%3F"`)
	assert.Contains(t, body, `href="/post/two%20words"`)

	mux := http.NewServeMux()
	var got string
	mux.HandleFunc("GET /post/{id...}", func(_ http.ResponseWriter, r *http.Request) { got = r.PathValue("id") })
	for _, id := range []string{"c#-tips", "why?", "two words"} {
		mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, responses.PostURL(PostPath, id), nil))
		assert.Equal(t, id, got)
	}
}
