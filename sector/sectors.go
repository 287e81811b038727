package sector

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

// Sector is a business sector the agency recruits for, shown as a public
// sector page and used to categorize candidatures and hires.
type Sector struct {
	ID types.ID `json:"id" gorm:"primary_key"`

	Libelle     string `json:"libelle" binding:"required,lte=255" gorm:"unique_index:uni_sector_libelle"`
	Slug        string `json:"slug" gorm:"unique_index:uni_sector_slug"`
	Description string `json:"description" sql:"type:TEXT"`

	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
}

type SectorCreation struct {
	Libelle     string `json:"libelle" binding:"required,lte=255"`
	Slug        string `json:"slug" binding:"required,lte=255"`
	Description string `json:"description"`
}

var (
	sectorIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateSectorFunc = CreateSector
	UpdateSectorFunc = UpdateSector
	DeleteSectorFunc = DeleteSector

	ListCache = listquery.NewMemoryCache(10*time.Minute, 200)

	ListConfig = listquery.Config{
		SearchFields:     []string{"libelle", "description"},
		SortFields:       []string{"libelle", "create_time"},
		DefaultSortBy:    "libelle",
		DefaultSortOrder: "asc",
		DefaultLimit:     50,
		MaxLimit:         100,
		FilterFields:     map[string]string{"slug": "slug"},
		Cache:            listquery.CacheConfig{Enabled: true, TTL: 10 * time.Minute, MaxSize: 200, KeyPrefix: "sectors:"},
	}
)

func db() *gorm.DB {
	return persistence.ActiveDataSourceManager.GormDB(context.Background())
}

func ListStore() *listquery.GormStore {
	return &listquery.GormStore{DB: db, Model: &Sector{}, NewRows: func() interface{} { return &[]Sector{} }}
}

func CreateSector(c SectorCreation, sec *session.Session) (*Sector, error) {
	if !authority.HasPermission(sec.Identity(), authority.PermSectorsManage) {
		return nil, bizerror.ErrForbidden
	}
	record := Sector{ID: misc.NextId(sectorIdWorker), Libelle: c.Libelle, Slug: c.Slug,
		Description: c.Description, CreateTime: types.CurrentTimestamp()}
	if err := db().Create(&record).Error; err != nil {
		return nil, err
	}
	ListCache.DeleteByPrefix(ListConfig.Cache.KeyPrefix)
	return &record, nil
}

func UpdateSector(id types.ID, c SectorCreation, sec *session.Session) (*Sector, error) {
	if !authority.HasPermission(sec.Identity(), authority.PermSectorsManage) {
		return nil, bizerror.ErrForbidden
	}
	record := Sector{}
	err := db().Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(&Sector{ID: id}).First(&record).Error; err != nil {
			return err
		}
		updates := Sector{Libelle: c.Libelle, Slug: c.Slug, Description: c.Description}
		if err := tx.Model(&Sector{}).Where(&Sector{ID: id}).Update(updates).Error; err != nil {
			return err
		}
		return tx.Where(&Sector{ID: id}).First(&record).Error
	})
	if err != nil {
		return nil, err
	}
	ListCache.DeleteByPrefix(ListConfig.Cache.KeyPrefix)
	return &record, nil
}

func DeleteSector(id types.ID, sec *session.Session) error {
	if !authority.HasPermission(sec.Identity(), authority.PermSectorsManage) {
		return bizerror.ErrForbidden
	}
	if err := db().Delete(Sector{}, "id = ?", id).Error; err != nil {
		return err
	}
	ListCache.DeleteByPrefix(ListConfig.Cache.KeyPrefix)
	return nil
}
