package http

import (
	"net/http"
	"strconv"

	"github.com/socialcore/socialcore/internal/social/service"
	"github.com/socialcore/socialcore/pkg/httpx"
	"github.com/socialcore/socialcore/pkg/slogx"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// SearchHandler serves paginated user directory search.
type SearchHandler struct {
	UserService *service.UserService
}

// ServeHTTP handles GET /users/search
//
//	@Summary		Search users
//	@Description	Case-insensitive substring search over email, first name and last name. A blank keyword matches nothing.
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Param			keyword		query		string	false	"Search keyword"
//	@Param			page		query		int		false	"Page number (1-based)"
//	@Param			page_size	query		int		false	"Page size (default 10, max 100)"
//	@Success		200			{object}	PageResponse	"count, next, previous, results"
//	@Failure		401			{object}	ErrorResponse	"Invalid or missing access token"
//	@Failure		404			{object}	DetailResponse	"Invalid page"
//	@Router			/users/search [get].
func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	q := r.URL.Query()

	page := 1
	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			httpx.WriteJSON(w, http.StatusNotFound, DetailResponse{Detail: "Invalid page."})
			return
		}
		page = n
	}

	pageSize := defaultPageSize
	if raw := q.Get("page_size"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			pageSize = min(n, maxPageSize)
		}
	}

	offset := (page - 1) * pageSize
	results, total, err := h.UserService.Search(ctx, q.Get("keyword"), pageSize, offset)
	if err != nil {
		log.Error("user search failed", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal server error."})
		return
	}

	// Pages past the last one are an error, not an empty success. The first
	// page is always valid, even with no matches.
	if page > 1 && int64(offset) >= total {
		httpx.WriteJSON(w, http.StatusNotFound, DetailResponse{Detail: "Invalid page."})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, PageResponse{
		Count:    total,
		Next:     pageLink(r, page+1, int64(page*pageSize) < total),
		Previous: pageLink(r, page-1, page > 1),
		Results:  toUserResponses(results),
	})
}

// pageLink builds an absolute link to the given page, or nil when ok is
// false. Page 1 links drop the page parameter entirely.
func pageLink(r *http.Request, page int, ok bool) *string {
	if !ok {
		return nil
	}

	u := *r.URL
	q := u.Query()
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	link := scheme + "://" + r.Host + u.Path
	if u.RawQuery != "" {
		link += "?" + u.RawQuery
	}
	return &link
}
