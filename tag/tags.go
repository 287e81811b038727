package tag

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

type Tag struct {
	ID types.ID `json:"id" gorm:"primary_key"`

	Libelle string `json:"libelle" binding:"required,lte=100" gorm:"unique_index:uni_tag_libelle"`

	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
}

type TagCreation struct {
	Libelle string `json:"libelle" binding:"required,lte=100"`
}

var (
	tagIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateTagFunc = CreateTag
	UpdateTagFunc = UpdateTag
	DeleteTagFunc = DeleteTag

	// TagsChangedHooks run after any tag mutation; article registers its
	// list-cache invalidation here since its relation search depends on
	// tag labels.
	TagsChangedHooks []func()

	ListCache = listquery.NewMemoryCache(5*time.Minute, 200)

	ListConfig = listquery.Config{
		SearchFields:     []string{"libelle"},
		SortFields:       []string{"libelle", "create_time"},
		DefaultSortBy:    "libelle",
		DefaultSortOrder: "asc",
		DefaultLimit:     50,
		MaxLimit:         100,
		Cache:            listquery.CacheConfig{Enabled: true, TTL: 5 * time.Minute, MaxSize: 200, KeyPrefix: "tags:"},
	}
)

func db() *gorm.DB {
	return persistence.ActiveDataSourceManager.GormDB(context.Background())
}

func ListStore() *listquery.GormStore {
	return &listquery.GormStore{DB: db, Model: &Tag{}, NewRows: func() interface{} { return &[]Tag{} }}
}

func CreateTag(c TagCreation, sec *session.Session) (*Tag, error) {
	if !authority.HasPermission(sec.Identity(), authority.PermTagsManage) {
		return nil, bizerror.ErrForbidden
	}
	record := Tag{ID: misc.NextId(tagIdWorker), Libelle: c.Libelle, CreateTime: types.CurrentTimestamp()}
	if err := db().Create(&record).Error; err != nil {
		return nil, err
	}
	invalidate()
	return &record, nil
}

func UpdateTag(id types.ID, c TagCreation, sec *session.Session) (*Tag, error) {
	if !authority.HasPermission(sec.Identity(), authority.PermTagsManage) {
		return nil, bizerror.ErrForbidden
	}
	record := Tag{}
	err := db().Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(&Tag{ID: id}).First(&record).Error; err != nil {
			return err
		}
		if err := tx.Model(&Tag{}).Where(&Tag{ID: id}).Update(&Tag{Libelle: c.Libelle}).Error; err != nil {
			return err
		}
		record.Libelle = c.Libelle
		return nil
	})
	if err != nil {
		return nil, err
	}
	invalidate()
	return &record, nil
}

func DeleteTag(id types.ID, sec *session.Session) error {
	if !authority.HasPermission(sec.Identity(), authority.PermTagsManage) {
		return bizerror.ErrForbidden
	}
	err := db().Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(Tag{}, "id = ?", id).Error; err != nil {
			return err
		}
		return tx.Exec("DELETE FROM article_tags WHERE tag_id = ?", id).Error
	})
	if err != nil {
		return err
	}
	invalidate()
	return nil
}

func invalidate() {
	ListCache.DeleteByPrefix(ListConfig.Cache.KeyPrefix)
	for _, hook := range TagsChangedHooks {
		hook()
	}
}
