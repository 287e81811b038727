package listquery

import (
	"github.com/jinzhu/gorm"
)

// GormStore adapts a gorm session to the engine's Store contract.
type GormStore struct {
	// DB supplies a fresh session per query.
	DB func() *gorm.DB
	// Model is the entity prototype used for counting, e.g. &Article{}.
	Model interface{}
	// NewRows returns a pointer to an empty result slice, e.g. &[]Article{}.
	NewRows func() interface{}
}

func (s *GormStore) Count(p Predicate) (int64, error) {
	db := s.DB().Model(s.Model)
	db = applyPredicate(db, p)
	var total int64
	if err := db.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (s *GormStore) Find(q Query) (interface{}, error) {
	db := s.DB().Model(s.Model)
	db = applyPredicate(db, q.Predicate)

	if len(q.Select) > 0 {
		db = db.Select(q.Select)
	}
	for _, include := range q.Includes {
		db = db.Preload(include)
	}

	order := q.SortBy + " " + q.SortOrder
	if q.SortBy != "id" {
		// tie-break for deterministic pages
		order += ", id asc"
	}
	db = db.Order(order).Offset(q.Offset).Limit(q.Limit)

	rows := s.NewRows()
	if err := db.Find(rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func applyPredicate(db *gorm.DB, p Predicate) *gorm.DB {
	if p == nil {
		return db
	}
	sql, args := p.SQL()
	if sql == "" {
		return db
	}
	return db.Where(sql, args...)
}
