package article

import (
	"github.com/fundwit/go-commons/types"

	"recruitbase/tag"
)

type Article struct {
	ID types.ID `json:"id" gorm:"primary_key"`

	Titre  string `json:"titre" binding:"required,lte=255"`
	Slug   string `json:"slug" gorm:"unique_index:uni_article_slug"`
	Resume string `json:"resume" sql:"type:TEXT"`
	// Contenu is heavy and only attached when a list request carries
	// includeContent=true, or on the detail endpoint.
	Contenu string `json:"contenu,omitempty" sql:"type:MEDIUMTEXT"`

	Published bool     `json:"published"`
	AuthorID  types.ID `json:"authorId"`

	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
	UpdateTime types.Timestamp `json:"updateTime" sql:"type:DATETIME(6) NOT NULL"`

	Tags []tag.Tag `json:"tags,omitempty" gorm:"many2many:article_tags;"`
}

type ArticleCreation struct {
	Titre   string `json:"titre" binding:"required,lte=255"`
	Slug    string `json:"slug" binding:"required,lte=255"`
	Resume  string `json:"resume"`
	Contenu string `json:"contenu"`

	TagIDs []types.ID `json:"tagIds"`
}

type ArticleUpdating struct {
	Titre   string `json:"titre" binding:"required,lte=255"`
	Resume  string `json:"resume"`
	Contenu string `json:"contenu"`

	TagIDs []types.ID `json:"tagIds"`
}
