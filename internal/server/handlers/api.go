package handlers

import (
	"log/slog"
	"net/http"

	"git.home.luguber.info/inful/postview/internal/foundation/errors"
	"git.home.luguber.info/inful/postview/internal/server/responses"
)

// APIHandlers serve the JSON API.
type APIHandlers struct {
	catalog      Catalog
	resolver     PostResolver
	renderer     Renderer
	errorAdapter *errors.HTTPErrorAdapter
}

// NewAPIHandlers creates the JSON API handlers.
func NewAPIHandlers(c Catalog, resolver PostResolver, renderer Renderer) *APIHandlers {
	return &APIHandlers{
		catalog:      c,
		resolver:     resolver,
		renderer:     renderer,
		errorAdapter: errors.NewHTTPErrorAdapter(slog.Default()),
	}
}

// HandleListPosts returns every post summary in display order.
func (h *APIHandlers) HandleListPosts(w http.ResponseWriter, r *http.Request) {
	coll := h.catalog.Current()
	if coll == nil {
		h.errorAdapter.WriteErrorResponse(w, r, h.unavailable())
		return
	}

	summaries := coll.Summaries()
	resp := responses.PostListResponse{
		Strategy: string(coll.Strategy()),
		Count:    len(summaries),
		Posts:    make([]responses.PostSummary, 0, len(summaries)),
	}
	for _, s := range summaries {
		resp.Posts = append(resp.Posts, responses.NewPostSummary(s, PostPath))
	}

	if err := writeJSONPretty(w, r, http.StatusOK, resp); err != nil {
		internalErr := errors.WrapError(err, errors.CategoryInternal, "failed to write post list").Build()
		h.errorAdapter.WriteErrorResponse(w, r, internalErr)
	}
}

// HandleGetPost returns one post with its rendered HTML.
func (h *APIHandlers) HandleGetPost(w http.ResponseWriter, r *http.Request) {
	coll := h.catalog.Current()
	if coll == nil {
		h.errorAdapter.WriteErrorResponse(w, r, h.unavailable())
		return
	}

	id := r.PathValue("id")
	p, found, err := h.resolver.Resolve(r.Context(), coll, id)
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	if !found {
		h.errorAdapter.WriteErrorResponse(w, r, errors.NotFoundError("post not found").
			WithContext("id", id).
			Build())
		return
	}

	rp, err := render(h.renderer, p)
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}

	resp := responses.PostResponse{
		PostSummary:  responses.NewPostSummary(p.Summary, PostPath),
		DisplayTitle: p.Title,
		Metadata:     p.Metadata,
		HTML:         rp.HTML,
		Fingerprint:  rp.Fingerprint,
	}
	if err := writeJSONPretty(w, r, http.StatusOK, resp); err != nil {
		internalErr := errors.WrapError(err, errors.CategoryInternal, "failed to write post").Build()
		h.errorAdapter.WriteErrorResponse(w, r, internalErr)
	}
}

func (h *APIHandlers) unavailable() error {
	b := errors.SourceError("post index unavailable")
	if last := h.catalog.Status().LastError; last != "" {
		b = b.WithContext("last_error", last)
	}
	return b.Build()
}
