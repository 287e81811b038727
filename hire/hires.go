package hire

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

// Hire is a placement success shown on the public site when published.
type Hire struct {
	ID types.ID `json:"id" gorm:"primary_key"`

	CandidateName string   `json:"candidateName" binding:"required,lte=255"`
	Poste         string   `json:"poste" binding:"required,lte=255"`
	Company       string   `json:"company" binding:"lte=255"`
	SectorID      types.ID `json:"sectorId"`
	Published     bool     `json:"published"`

	HiredAt    types.Timestamp `json:"hiredAt" sql:"type:DATETIME(6) NOT NULL"`
	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
}

type HireCreation struct {
	CandidateName string   `json:"candidateName" binding:"required,lte=255"`
	Poste         string   `json:"poste" binding:"required,lte=255"`
	Company       string   `json:"company"`
	SectorID      types.ID `json:"sectorId"`
	Published     bool     `json:"published"`
}

var (
	hireIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateHireFunc = CreateHire
	UpdateHireFunc = UpdateHire
	DeleteHireFunc = DeleteHire

	ListCache = listquery.NewMemoryCache(5*time.Minute, 200)

	ListConfig = listquery.Config{
		SearchFields:     []string{"candidate_name", "poste", "company"},
		SortFields:       []string{"hired_at", "candidate_name", "create_time"},
		DefaultSortBy:    "hired_at",
		DefaultSortOrder: "desc",
		DefaultLimit:     20,
		MaxLimit:         100,
		FilterFields:     map[string]string{"sectorId": "sector_id"},
		ExtraPredicate:   publishedPredicate,
		ExtraKeyParams:   []string{"published"},
		Cache:            listquery.CacheConfig{Enabled: true, TTL: 5 * time.Minute, MaxSize: 200, KeyPrefix: "hires:"},
	}
)

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
	return &listquery.GormStore{DB: db, Model: &Hire{}, NewRows: func() interface{} { return &[]Hire{} }}
}

func CreateHire(c HireCreation, sec *session.Session) (*Hire, error) {
	if !authority.HasPermission(sec.Identity(), authority.PermHiresManage) {
		return nil, bizerror.ErrForbidden
	}
	now := types.CurrentTimestamp()
	record := Hire{ID: misc.NextId(hireIdWorker),
		CandidateName: c.CandidateName, Poste: c.Poste, Company: c.Company,
		SectorID: c.SectorID, Published: c.Published, HiredAt: now, CreateTime: now}
	if err := db().Create(&record).Error; err != nil {
		return nil, err
	}
	ListCache.DeleteByPrefix(ListConfig.Cache.KeyPrefix)
	return &record, nil
}

func UpdateHire(id types.ID, c HireCreation, sec *session.Session) (*Hire, error) {
	if !authority.HasPermission(sec.Identity(), authority.PermHiresManage) {
		return nil, bizerror.ErrForbidden
	}
	record := Hire{}
	err := db().Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(&Hire{ID: id}).First(&record).Error; err != nil {
			return err
		}
		updates := map[string]interface{}{"candidate_name": c.CandidateName, "poste": c.Poste,
			"company": c.Company, "sector_id": c.SectorID, "published": c.Published}
		if err := tx.Model(&Hire{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Where(&Hire{ID: id}).First(&record).Error
	})
	if err != nil {
		return nil, err
	}
	ListCache.DeleteByPrefix(ListConfig.Cache.KeyPrefix)
	return &record, nil
}

func DeleteHire(id types.ID, sec *session.Session) error {
	if !authority.HasPermission(sec.Identity(), authority.PermHiresManage) {
		return bizerror.ErrForbidden
	}
	if err := db().Delete(Hire{}, "id = ?", id).Error; err != nil {
		return err
	}
	ListCache.DeleteByPrefix(ListConfig.Cache.KeyPrefix)
	return nil
}
