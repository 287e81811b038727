package article

import (
	"context"
	"time"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"

	"recruitbase/authority"
	"recruitbase/bizerror"
	"recruitbase/listquery"
	"recruitbase/misc"
	"recruitbase/persistence"
	"recruitbase/session"
)

var (
	articleIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateArticleFunc = CreateArticle
	UpdateArticleFunc = UpdateArticle
	DeleteArticleFunc = DeleteArticle
	DetailArticleFunc = DetailArticle
	SetPublishedFunc  = SetPublished

	// ArticlePublishedHooks and ArticleRemovedHooks decouple the search
	// index from this package; main wires them at startup.
	ArticlePublishedHooks []func(Article)
	ArticleRemovedHooks   []func(types.ID)

	ListCache = listquery.NewMemoryCache(5*time.Minute, 500)

	tagsRelation = listquery.RelationField{
		OwnerTable: "articles", OwnerKey: "id",
		Table: "tags", Key: "id",
		JoinTable: "article_tags", JoinOwnerKey: "article_id", JoinRelatedKey: "tag_id",
		Field: "libelle",
	}

	ListConfig = listquery.Config{
		SearchFields:     []string{"titre", "resume"},
		RelationSearch:   []listquery.RelationField{tagsRelation},
		SortFields:       []string{"titre", "create_time", "update_time"},
		DefaultSortBy:    "create_time",
		DefaultSortOrder: "desc",
		DefaultLimit:     20,
		MaxLimit:         50,
		FilterFields:     map[string]string{"authorId": "author_id", "slug": "slug"},
		ExtraPredicate:   publishedPredicate,
		ExtraKeyParams:   []string{"published"},
		BaseSelect:       []string{"id", "titre", "slug", "resume", "published", "author_id", "create_time", "update_time"},
		ConditionalFields: []listquery.ConditionalField{
			{Param: "includeContent", Value: "true", Field: "contenu"},
		},
		Includes: []string{"Tags"},
		Cache:    listquery.CacheConfig{Enabled: true, TTL: 5 * time.Minute, MaxSize: 500, KeyPrefix: "articles:"},
	}
)

// publishedPredicate coerces the string parameter into a boolean condition;
// an absent parameter filters nothing.
func publishedPredicate(params listquery.Params) listquery.Predicate {
	switch params.Get("published") {
	case "true":
		return listquery.Eq("published", true)
	case "false":
		return listquery.Eq("published", false)
	}
	return nil
}

func db() *gorm.DB {
	return persistence.ActiveDataSourceManager.GormDB(context.Background())
}

func ListStore() *listquery.GormStore {
	return &listquery.GormStore{DB: db, Model: &Article{}, NewRows: func() interface{} { return &[]Article{} }}
}

func CreateArticle(c ArticleCreation, sec *session.Session) (*Article, error) {
	if !authority.HasPermission(sec.Identity(), authority.PermArticlesWrite) {
		return nil, bizerror.ErrForbidden
	}
	now := types.CurrentTimestamp()
	record := Article{ID: misc.NextId(articleIdWorker),
		Titre: c.Titre, Slug: c.Slug, Resume: c.Resume, Contenu: c.Contenu,
		AuthorID: sec.Principal.ID, CreateTime: now, UpdateTime: now}

	err := db().Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		return replaceTags(tx, record.ID, c.TagIDs)
	})
	if err != nil {
		return nil, err
	}
	InvalidateListCache()
	return &record, nil
}

func UpdateArticle(id types.ID, u ArticleUpdating, sec *session.Session) (*Article, error) {
	if !authority.HasPermission(sec.Identity(), authority.PermArticlesWrite) {
		return nil, bizerror.ErrForbidden
	}
	record := Article{}
	err := db().Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(&Article{ID: id}).First(&record).Error; err != nil {
			return err
		}
		updates := map[string]interface{}{"titre": u.Titre, "resume": u.Resume,
			"contenu": u.Contenu, "update_time": types.CurrentTimestamp()}
		if err := tx.Model(&Article{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		if u.TagIDs != nil {
			if err := replaceTags(tx, id, u.TagIDs); err != nil {
				return err
			}
		}
		return tx.Preload("Tags").Where(&Article{ID: id}).First(&record).Error
	})
	if err != nil {
		return nil, err
	}
	InvalidateListCache()
	if record.Published {
		for _, hook := range ArticlePublishedHooks {
			hook(record)
		}
	}
	return &record, nil
}

// SetPublished publishes or unpublishes an article and keeps the search
// index in step through the registered hooks.
func SetPublished(id types.ID, published bool, sec *session.Session) (*Article, error) {
	if !authority.HasPermission(sec.Identity(), authority.PermArticlesPublish) {
		return nil, bizerror.ErrForbidden
	}
	record := Article{}
	err := db().Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Tags").Where(&Article{ID: id}).First(&record).Error; err != nil {
			return err
		}
		updates := map[string]interface{}{"published": published, "update_time": types.CurrentTimestamp()}
		if err := tx.Model(&Article{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		record.Published = published
		return nil
	})
	if err != nil {
		return nil, err
	}
	InvalidateListCache()
	if published {
		for _, hook := range ArticlePublishedHooks {
			hook(record)
		}
	} else {
		for _, hook := range ArticleRemovedHooks {
			hook(record.ID)
		}
	}
	return &record, nil
}

func DetailArticle(slug string, sec *session.Session) (*Article, error) {
	record := Article{}
	if err := db().Preload("Tags").Where("slug = ?", slug).First(&record).Error; err != nil {
		return nil, err
	}
	if !record.Published && !authority.HasPermission(sec.Identity(), authority.PermArticlesWrite) {
		return nil, bizerror.ErrNotFound
	}
	return &record, nil
}

func DeleteArticle(id types.ID, sec *session.Session) error {
	if !authority.HasPermission(sec.Identity(), authority.PermArticlesWrite) {
		return bizerror.ErrForbidden
	}
	err := db().Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(Article{}, "id = ?", id).Error; err != nil {
			return err
		}
		return tx.Exec("DELETE FROM article_tags WHERE article_id = ?", id).Error
	})
	if err != nil {
		return err
	}
	InvalidateListCache()
	for _, hook := range ArticleRemovedHooks {
		hook(id)
	}
	return nil
}

// InvalidateListCache drops every cached article page. Tag mutations also
// trigger it since the relation search depends on tag labels.
func InvalidateListCache() {
	ListCache.DeleteByPrefix(ListConfig.Cache.KeyPrefix)
}

func replaceTags(tx *gorm.DB, articleID types.ID, tagIDs []types.ID) error {
	if err := tx.Exec("DELETE FROM article_tags WHERE article_id = ?", articleID).Error; err != nil {
		return err
	}
	for _, tagID := range tagIDs {
		if err := tx.Exec("INSERT INTO article_tags (article_id, tag_id) VALUES (?, ?)",
			articleID, tagID).Error; err != nil {
			return err
		}
	}
	return nil
}
