package httpx

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Killzin1000/quality-estetica2/internal/http/ui/viewmodel"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// TemplateDataBuilder provides a fluent API for building template data maps.
type TemplateDataBuilder struct {
	data map[string]any
	r    *http.Request
}

// NewTemplateData creates a new TemplateDataBuilder initialized with basePageData.
func NewTemplateData(r *http.Request, meta PageMeta) *TemplateDataBuilder {
	return &TemplateDataBuilder{
		data: basePageData(r, meta),
		r:    r,
	}
}

// WithPagination adds pagination data and builds PrevURL/NextURL from basePath,
// keeping the current filters.
func (b *TemplateDataBuilder) WithPagination(basePath string, p pageOpts, hasNext bool) *TemplateDataBuilder {
	pg := viewmodel.Pagination{
		Page:     p.Page,
		PageSize: p.PageSize,
		HasPrev:  p.Page > 1,
		HasNext:  hasNext,
	}
	if pg.HasPrev {
		pg.PrevURL = buildPageURL(basePath, b.r.URL.Query(), pageOpts{Page: p.Page - 1, PageSize: p.PageSize})
	}
	if pg.HasNext {
		pg.NextURL = buildPageURL(basePath, b.r.URL.Query(), pageOpts{Page: p.Page + 1, PageSize: p.PageSize})
	}
	b.data["Pagination"] = pg
	return b
}

// WithError sets a general error message.
func (b *TemplateDataBuilder) WithError(msg string) *TemplateDataBuilder {
	b.data["Error"] = true
	b.data["ErrorMessage"] = msg
	return b
}

// WithFieldErrors adds field-level validation errors.
func (b *TemplateDataBuilder) WithFieldErrors(errs map[string]string) *TemplateDataBuilder {
	if len(errs) > 0 {
		b.data["Errors"] = errs
	}
	return b
}

// With adds a custom field to the template data.
func (b *TemplateDataBuilder) With(key string, value any) *TemplateDataBuilder {
	b.data[key] = value
	return b
}

// Build returns the final template data map.
func (b *TemplateDataBuilder) Build() map[string]any {
	return b.data
}

// pageOpts represents pagination options for list views.
type pageOpts struct {
	Page     int
	PageSize int
}

// getPageParams parses pagination params from the query with sane defaults.
func getPageParams(q url.Values) pageOpts {
	p := pageOpts{Page: 1, PageSize: defaultPageSize}
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 0 {
		p.Page = n
	}
	if n, err := strconv.Atoi(q.Get("page_size")); err == nil && n > 0 && n <= maxPageSize {
		p.PageSize = n
	}
	return p
}

// LimitAndOffset returns limit/offset used for pagination fetches,
// always fetching one extra item to detect next-page availability.
func (p pageOpts) LimitAndOffset() (int, int) {
	page := max(p.Page, 1)
	size := p.PageSize
	if size <= 0 {
		size = defaultPageSize
	}
	return size + 1, (page - 1) * size
}

// paginate runs fetch with one extra row and reports whether a next page exists.
func paginate[T any](
	ctx context.Context,
	p pageOpts,
	fetch func(ctx context.Context, limit, offset int) ([]T, error),
) ([]T, bool, error) {
	limit, offset := p.LimitAndOffset()
	items, err := fetch(ctx, limit, offset)
	if err != nil {
		return nil, false, err
	}
	hasNext := len(items) > p.PageSize
	if hasNext {
		items = items[:p.PageSize]
	}
	return items, hasNext, nil
}

// buildPageURL returns a URL with page and page_size set, preserving other non-empty query params.
func buildPageURL(basePath string, q url.Values, p pageOpts) string {
	qq := make(url.Values, len(q))
	for k, v := range q {
		if strings.HasPrefix(k, "hx-") || strings.HasPrefix(k, "hx_") {
			continue
		}
		tmp := make([]string, 0, len(v))
		for _, s := range v {
			if strings.TrimSpace(s) != "" {
				tmp = append(tmp, s)
			}
		}
		if len(tmp) > 0 {
			qq[k] = tmp
		}
	}
	qq.Set("page", strconv.Itoa(p.Page))
	qq.Set("page_size", strconv.Itoa(p.PageSize))
	return basePath + "?" + qq.Encode()
}
