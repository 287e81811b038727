package listquery

import "strings"

// Predicate is a closed set of composable query conditions. The tree is
// inspectable and compiles to a SQL fragment plus arguments, so entity
// packages can extend list queries without handing the engine an opaque
// callback that mutates the where clause.
type Predicate interface {
	SQL() (string, []interface{})
}

type eqPredicate struct {
	column string
	value  interface{}
}

// Eq matches rows whose column equals value exactly.
func Eq(column string, value interface{}) Predicate {
	return eqPredicate{column: column, value: value}
}

func (p eqPredicate) SQL() (string, []interface{}) {
	return p.column + " = ?", []interface{}{p.value}
}

type containsPredicate struct {
	column string
	term   string
}

// Contains matches rows whose column contains term, case-insensitive.
func Contains(column, term string) Predicate {
	return containsPredicate{column: column, term: term}
}

func (p containsPredicate) SQL() (string, []interface{}) {
	return "LOWER(" + p.column + ") LIKE ?", []interface{}{"%" + strings.ToLower(p.term) + "%"}
}

// RelationField declares a related table eligible for free-text search:
// a row matches when the relation has at least one member whose Field
// contains the term.
type RelationField struct {
	OwnerTable string // owning table, e.g. "articles"
	OwnerKey   string // owning table primary key column, usually "id"
	Table      string // related table, e.g. "tags"
	Key        string // related table primary key column, usually "id"

	// JoinTable, JoinOwnerKey and JoinRelatedKey describe a many-to-many
	// join table; leave JoinTable empty for a plain has-many relation
	// where LocalKey is the related table's column referencing the owner.
	JoinTable      string
	JoinOwnerKey   string
	JoinRelatedKey string
	LocalKey       string

	Field string // searched column on the related table
}

type relationContainsPredicate struct {
	relation RelationField
	term     string
}

// RelationContains matches rows having at least one related record whose
// declared field contains term, case-insensitive.
func RelationContains(relation RelationField, term string) Predicate {
	return relationContainsPredicate{relation: relation, term: term}
}

func (p relationContainsPredicate) SQL() (string, []interface{}) {
	r := p.relation
	arg := "%" + strings.ToLower(p.term) + "%"
	if r.JoinTable != "" {
		sql := "EXISTS (SELECT 1 FROM " + r.JoinTable + " JOIN " + r.Table +
			" ON " + r.Table + "." + r.Key + " = " + r.JoinTable + "." + r.JoinRelatedKey +
			" WHERE " + r.JoinTable + "." + r.JoinOwnerKey + " = " + r.OwnerTable + "." + r.OwnerKey +
			" AND LOWER(" + r.Table + "." + r.Field + ") LIKE ?)"
		return sql, []interface{}{arg}
	}
	sql := "EXISTS (SELECT 1 FROM " + r.Table +
		" WHERE " + r.Table + "." + r.LocalKey + " = " + r.OwnerTable + "." + r.OwnerKey +
		" AND LOWER(" + r.Table + "." + r.Field + ") LIKE ?)"
	return sql, []interface{}{arg}
}

type compositePredicate struct {
	operator string
	parts    []Predicate
}

// And combines predicates conjunctively. Nil parts are skipped; an empty
// conjunction compiles to no condition at all.
func And(parts ...Predicate) Predicate {
	return compositePredicate{operator: " AND ", parts: parts}
}

// Or combines predicates disjunctively. Nil parts are skipped.
func Or(parts ...Predicate) Predicate {
	return compositePredicate{operator: " OR ", parts: parts}
}

func (p compositePredicate) SQL() (string, []interface{}) {
	fragments := []string{}
	args := []interface{}{}
	for _, part := range p.parts {
		if part == nil {
			continue
		}
		sql, partArgs := part.SQL()
		if sql == "" {
			continue
		}
		fragments = append(fragments, sql)
		args = append(args, partArgs...)
	}
	if len(fragments) == 0 {
		return "", nil
	}
	if len(fragments) == 1 {
		return fragments[0], args
	}
	return "(" + strings.Join(fragments, p.operator) + ")", args
}
