package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"git.home.luguber.info/inful/postview/internal/logfields"
	"git.home.luguber.info/inful/postview/internal/markdown"
	"git.home.luguber.info/inful/postview/internal/server/responses"
)

// Messages shown on the HTML error pages.
const (
	MsgIndexUnavailable = "Could not load posts."
	MsgPostNotFound     = "Sorry, post not found."
	MsgPostLoadFailed   = "Error loading post."
)

// descriptionLimit bounds the meta description taken from a post's HTML.
const descriptionLimit = 160

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// pageData is the data every page template receives.
type pageData struct {
	SiteTitle   string
	Heading     string
	Description string
	Date        string
	Message     string
	Posts       []responses.PostSummary
	Content     template.HTML
}

// PageHandlers serve the HTML viewer.
type PageHandlers struct {
	catalog  Catalog
	resolver PostResolver
	renderer Renderer
	title    string
	logger   *slog.Logger
}

// NewPageHandlers creates the HTML handlers. title names the site.
func NewPageHandlers(c Catalog, resolver PostResolver, renderer Renderer, title string) *PageHandlers {
	return &PageHandlers{
		catalog:  c,
		resolver: resolver,
		renderer: renderer,
		title:    title,
		logger:   slog.Default(),
	}
}

// HandleIndex lists the posts. A ?post=<id> query redirects to that post's
// page.
func (h *PageHandlers) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if id := r.URL.Query().Get("post"); id != "" {
		http.Redirect(w, r, postURL(id), http.StatusFound)
		return
	}

	coll := h.catalog.Current()
	if coll == nil {
		h.writeMessage(w, http.StatusServiceUnavailable, MsgIndexUnavailable)
		return
	}

	summaries := coll.Summaries()
	posts := make([]responses.PostSummary, 0, len(summaries))
	for _, s := range summaries {
		posts = append(posts, responses.NewPostSummary(s, PostPath))
	}
	h.writePage(w, http.StatusOK, "index", pageData{Posts: posts})
}

// HandlePost shows the post named by the {id...} path value, or the first
// post when it is empty.
func (h *PageHandlers) HandlePost(w http.ResponseWriter, r *http.Request) {
	coll := h.catalog.Current()
	if coll == nil {
		h.writeMessage(w, http.StatusServiceUnavailable, MsgIndexUnavailable)
		return
	}

	id := r.PathValue("id")
	p, found, err := h.resolver.Resolve(r.Context(), coll, id)
	if err != nil {
		h.writeMessage(w, http.StatusBadGateway, MsgPostLoadFailed)
		return
	}
	if !found {
		h.writeMessage(w, http.StatusNotFound, MsgPostNotFound)
		return
	}

	rp, err := render(h.renderer, p)
	if err != nil {
		h.logger.Error("Failed to render post", logfields.Post(p.Summary.SourceName), logfields.Error(err))
		h.writeMessage(w, http.StatusInternalServerError, MsgPostLoadFailed)
		return
	}

	etag := `"` + rp.Fingerprint + `"`
	w.Header().Set("ETag", etag)
	if etagMatches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	description := p.Summary.Excerpt
	if description == "" {
		description = markdown.Description(rp.HTML, descriptionLimit)
	}

	h.writePage(w, http.StatusOK, "post", pageData{
		Heading:     p.Title,
		Description: description,
		Date:        p.Summary.Date,
		// Rendered by the configured Markdown renderer; raw HTML only
		// passes through when the site enables it.
		Content: template.HTML(rp.HTML), //nolint:gosec // trusted renderer output
	})
}

func (h *PageHandlers) writeMessage(w http.ResponseWriter, status int, msg string) {
	h.writePage(w, status, "message", pageData{Message: msg})
}

func (h *PageHandlers) writePage(w http.ResponseWriter, status int, name string, data pageData) {
	data.SiteTitle = h.title

	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		h.logger.Error("Failed to execute page template", slog.String("template", name), logfields.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Error("Failed writing page", logfields.Error(err))
	}
}
