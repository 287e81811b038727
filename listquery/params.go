package listquery

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Params holds the effective, already-sanitized list parameters of a request.
type Params struct {
	Page      int
	Limit     int
	Search    string
	SortBy    string
	SortOrder string

	// Filters holds only the declared filter parameters present on the
	// request, keyed by parameter name.
	Filters map[string]string

	raw url.Values
}

// Get returns a raw query parameter, for conditional-field gates and
// entity-specific predicates.
func (p Params) Get(name string) string {
	return p.raw.Get(name)
}

// ParseParams sanitizes the raw query values against the entity config.
// Invalid page/limit/sort values silently fall back to the configured
// defaults; the limit is clamped to [1, MaxLimit].
func ParseParams(query url.Values, cfg *Config) Params {
	p := Params{raw: query, Filters: map[string]string{}}

	p.Page = positiveIntParam(query.Get("page"), 1)

	defaultLimit := cfg.DefaultLimit
	if defaultLimit <= 0 {
		defaultLimit = cfg.MaxLimit
	}
	p.Limit = positiveIntParam(query.Get("limit"), defaultLimit)
	if cfg.MaxLimit > 0 && p.Limit > cfg.MaxLimit {
		p.Limit = cfg.MaxLimit
	}
	if p.Limit < 1 {
		p.Limit = 1
	}

	p.Search = strings.TrimSpace(query.Get("search"))

	p.SortBy = cfg.DefaultSortBy
	if sortBy := query.Get("sortBy"); sortBy != "" && cfg.sortable(sortBy) {
		p.SortBy = sortBy
	}
	p.SortOrder = cfg.DefaultSortOrder
	if order := strings.ToLower(query.Get("sortOrder")); order == "asc" || order == "desc" {
		p.SortOrder = order
	}

	for param := range cfg.FilterFields {
		if value := query.Get(param); value != "" {
			p.Filters[param] = value
		}
	}

	return p
}

// CacheKey builds a deterministic key from the prefix and the canonicalized
// effective parameter set, so differently-filtered requests never collide.
func (p Params) CacheKey(cfg *Config) string {
	pairs := []string{
		"page=" + strconv.Itoa(p.Page),
		"limit=" + strconv.Itoa(p.Limit),
		"sortBy=" + p.SortBy,
		"sortOrder=" + p.SortOrder,
	}
	if p.Search != "" {
		pairs = append(pairs, "search="+p.Search)
	}
	for param, value := range p.Filters {
		pairs = append(pairs, param+"="+value)
	}
	for _, cond := range cfg.ConditionalFields {
		if value := p.Get(cond.Param); value != "" {
			pairs = append(pairs, cond.Param+"="+value)
		}
	}
	for _, param := range cfg.ExtraKeyParams {
		if value := p.Get(param); value != "" {
			pairs = append(pairs, param+"="+value)
		}
	}
	sort.Strings(pairs)
	return cfg.Cache.KeyPrefix + strings.Join(pairs, "&")
}

func positiveIntParam(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
