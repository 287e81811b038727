package listquery

import "time"

// CacheConfig is supplied per entity at wiring time, not runtime-configurable.
type CacheConfig struct {
	Enabled   bool
	TTL       time.Duration
	MaxSize   int
	KeyPrefix string
}

// ConditionalField gates an extra selected column behind a query parameter:
// the column is included only when the request carries Param equal to Value.
type ConditionalField struct {
	Param string
	Value string
	Field string
}

// Config declares, once per entity, how its list endpoint behaves.
type Config struct {
	// free-text search
	SearchFields   []string        // scalar columns searched by substring
	RelationSearch []RelationField // related entities searched by substring

	// sorting
	SortFields       []string // allow-list; anything else falls back to default
	DefaultSortBy    string
	DefaultSortOrder string // "asc" or "desc"

	// pagination
	DefaultLimit int
	MaxLimit     int // hard ceiling regardless of the requested limit

	// exact-match filters: query parameter name -> column
	FilterFields map[string]string

	// ExtraPredicate lets the entity append entity-specific conditions,
	// composed from the typed predicate primitives. It runs after filters
	// and search and is ANDed with them.
	ExtraPredicate func(params Params) Predicate

	// ExtraKeyParams names the raw parameters ExtraPredicate reads, so
	// they take part in the cache key like declared filters do.
	ExtraKeyParams []string

	// projection
	BaseSelect        []string
	ConditionalFields []ConditionalField
	Includes          []string // relations eagerly attached to each row

	Cache CacheConfig
}

func (c *Config) sortable(field string) bool {
	for _, f := range c.SortFields {
		if f == field {
			return true
		}
	}
	return false
}
