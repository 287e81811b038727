package listquery

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Meta is the pagination metadata attached to every list response.
type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// Page is a list response body: one page of rows plus pagination metadata.
type Page struct {
	Data interface{} `json:"data"`
	Meta Meta        `json:"meta"`
}

// Query is the fully-resolved find request handed to the store.
type Query struct {
	Predicate Predicate
	SortBy    string
	SortOrder string
	Offset    int
	Limit     int
	Select    []string
	Includes  []string
}

// Store is the persistence collaborator of the engine: a count and a find
// under the same predicate.
type Store interface {
	Count(p Predicate) (int64, error)
	Find(q Query) (interface{}, error)
}

var ExecuteFunc = Execute

// BuildPredicate composes the where clause: declared exact-match filters,
// the free-text search (OR across scalar search fields and relation
// searches), then the entity-specific extra predicate, all ANDed.
func BuildPredicate(cfg *Config, params Params) Predicate {
	parts := []Predicate{}

	for param, value := range params.Filters {
		parts = append(parts, Eq(cfg.FilterFields[param], value))
	}

	if params.Search != "" {
		searchParts := []Predicate{}
		for _, field := range cfg.SearchFields {
			searchParts = append(searchParts, Contains(field, params.Search))
		}
		for _, relation := range cfg.RelationSearch {
			searchParts = append(searchParts, RelationContains(relation, params.Search))
		}
		if len(searchParts) > 0 {
			parts = append(parts, Or(searchParts...))
		}
	}

	if cfg.ExtraPredicate != nil {
		parts = append(parts, cfg.ExtraPredicate(params))
	}

	return And(parts...)
}

func resolveSelect(cfg *Config, params Params) []string {
	selected := append([]string{}, cfg.BaseSelect...)
	for _, cond := range cfg.ConditionalFields {
		if params.Get(cond.Param) == cond.Value {
			selected = append(selected, cond.Field)
		}
	}
	return selected
}

// Execute runs one list query: cache lookup, count plus find on miss,
// pagination metadata, cache fill. A failed fetch never poisons the cache.
func Execute(store Store, cache Cache, cfg *Config, params Params) (*Page, error) {
	cacheKey := ""
	if cfg.Cache.Enabled && cache != nil {
		cacheKey = params.CacheKey(cfg)
		if page, found := cache.Get(cacheKey); found {
			return page, nil
		}
	}

	predicate := BuildPredicate(cfg, params)

	total, err := store.Count(predicate)
	if err != nil {
		return nil, err
	}

	data, err := store.Find(Query{
		Predicate: predicate,
		SortBy:    params.SortBy,
		SortOrder: params.SortOrder,
		Offset:    (params.Page - 1) * params.Limit,
		Limit:     params.Limit,
		Select:    resolveSelect(cfg, params),
		Includes:  cfg.Includes,
	})
	if err != nil {
		return nil, err
	}

	page := &Page{Data: data, Meta: Meta{
		Total:      total,
		Page:       params.Page,
		Limit:      params.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(params.Limit))),
	}}

	if cacheKey != "" {
		cache.Set(cacheKey, page)
	}
	return page, nil
}

// BuildListHandler wires a list endpoint: query parameters in, a JSON page
// out. Store failures propagate by panic into the error-handling middleware.
func BuildListHandler(store Store, cache Cache, cfg *Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		params := ParseParams(c.Request.URL.Query(), cfg)
		page, err := ExecuteFunc(store, cache, cfg, params)
		if err != nil {
			panic(err)
		}
		c.JSON(http.StatusOK, page)
	}
}
