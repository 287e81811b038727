package candidature

import (
	"context"
	"io"
	"io/ioutil"
	"time"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"

	alioss "github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/google/uuid"

	"recruitbase/authority"
	"recruitbase/bizerror"
	"recruitbase/client/oss"
	"recruitbase/listquery"
	"recruitbase/misc"
	"recruitbase/persistence"
	"recruitbase/session"
)

const (
	StatusNew       = "NEW"
	StatusReviewed  = "REVIEWED"
	StatusInterview = "INTERVIEW"
	StatusRejected  = "REJECTED"
	StatusHired     = "HIRED"
)

var candidatureStatuses = []string{StatusNew, StatusReviewed, StatusInterview, StatusRejected, StatusHired}

// Candidature is a job application submitted from the public site.
type Candidature struct {
	ID types.ID `json:"id" gorm:"primary_key"`

	Nom     string `json:"nom" binding:"required,lte=255"`
	Prenom  string `json:"prenom" binding:"required,lte=255"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone"`
	Message string `json:"message" sql:"type:TEXT"`

	SectorID types.ID `json:"sectorId"`
	Status   string   `json:"status"`
	CvKey    string   `json:"cvKey,omitempty"`

	// CvToken authorizes the one follow-up CV upload of this application.
	// It is handed out once in the creation response, never listed.
	CvToken string `json:"-"`

	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
}

type CandidatureCreation struct {
	Nom     string `json:"nom" binding:"required,lte=255"`
	Prenom  string `json:"prenom" binding:"required,lte=255"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`

	SectorID types.ID `json:"sectorId"`
}

var (
	candidatureIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateCandidatureFunc = CreateCandidature
	UpdateStatusFunc      = UpdateStatus
	DeleteCandidatureFunc = DeleteCandidature
	UploadCvFunc          = UploadCv
	DownloadCvFunc        = DownloadCv

	ListCache = listquery.NewMemoryCache(2*time.Minute, 300)

	ListConfig = listquery.Config{
		SearchFields:     []string{"nom", "prenom", "email"},
		SortFields:       []string{"nom", "create_time", "status"},
		DefaultSortBy:    "create_time",
		DefaultSortOrder: "desc",
		DefaultLimit:     20,
		MaxLimit:         100,
		FilterFields:     map[string]string{"status": "status", "sectorId": "sector_id"},
		Cache:            listquery.CacheConfig{Enabled: true, TTL: 2 * time.Minute, MaxSize: 300, KeyPrefix: "candidatures:"},
	}
)

func db() *gorm.DB {
	return persistence.ActiveDataSourceManager.GormDB(context.Background())
}

func ListStore() *listquery.GormStore {
	return &listquery.GormStore{DB: db, Model: &Candidature{}, NewRows: func() interface{} { return &[]Candidature{} }}
}

// CreateCandidature is the public application endpoint, no session required.
func CreateCandidature(c CandidatureCreation, _ *session.Session) (*Candidature, error) {
	record := Candidature{ID: misc.NextId(candidatureIdWorker),
		Nom: c.Nom, Prenom: c.Prenom, Email: c.Email, Phone: c.Phone, Message: c.Message,
		SectorID: c.SectorID, Status: StatusNew, CvToken: uuid.New().String(),
		CreateTime: types.CurrentTimestamp()}
	if err := db().Create(&record).Error; err != nil {
		return nil, err
	}
	ListCache.DeleteByPrefix(ListConfig.Cache.KeyPrefix)
	return &record, nil
}

func UpdateStatus(id types.ID, status string, sec *session.Session) (*Candidature, error) {
	if !authority.HasPermission(sec.Identity(), authority.PermApplicationsManage) {
		return nil, bizerror.ErrForbidden
	}
	if !validStatus(status) {
		return nil, bizerror.ErrInvalidStatus
	}
	record := Candidature{}
	err := db().Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(&Candidature{ID: id}).First(&record).Error; err != nil {
			return err
		}
		if err := tx.Model(&Candidature{}).Where("id = ?", id).Update("status", status).Error; err != nil {
			return err
		}
		record.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}
	ListCache.DeleteByPrefix(ListConfig.Cache.KeyPrefix)
	return &record, nil
}

func DeleteCandidature(id types.ID, sec *session.Session) error {
	if !authority.HasPermission(sec.Identity(), authority.PermApplicationsManage) {
		return bizerror.ErrForbidden
	}
	if err := db().Delete(Candidature{}, "id = ?", id).Error; err != nil {
		return err
	}
	ListCache.DeleteByPrefix(ListConfig.Cache.KeyPrefix)
	return nil
}

// UploadCv stores the CV document and records its object key. The caller
// must present the upload token issued with the application, so knowing an
// application id is not enough to replace its document.
func UploadCv(ctx context.Context, id types.ID, token string, r io.Reader) error {
	record := Candidature{}
	if err := db().Where(&Candidature{ID: id}).First(&record).Error; err != nil {
		return err
	}
	if token == "" || token != record.CvToken {
		return bizerror.ErrForbidden
	}
	key := "cv/" + id.String() + ".pdf"
	if err := oss.PutObjectFunc(ctx, key, r); err != nil {
		return err
	}
	return db().Model(&Candidature{}).Where("id = ?", id).Update("cv_key", key).Error
}

func DownloadCv(ctx context.Context, id types.ID, sec *session.Session) ([]byte, error) {
	if !authority.HasPermission(sec.Identity(), authority.PermApplicationsRead) {
		return nil, bizerror.ErrForbidden
	}
	record := Candidature{}
	if err := db().Where(&Candidature{ID: id}).First(&record).Error; err != nil {
		return nil, err
	}
	if record.CvKey == "" {
		return nil, bizerror.ErrNotFound
	}
	r, err := oss.GetObjectFunc(ctx, record.CvKey)
	if err != nil {
		if serErr, ok := err.(alioss.ServiceError); ok && serErr.Code == "NoSuchKey" {
			return nil, bizerror.ErrNotFound
		}
		return nil, err
	}
	defer r.Close()
	return ioutil.ReadAll(r)
}

func validStatus(status string) bool {
	for _, s := range candidatureStatuses {
		if s == status {
			return true
		}
	}
	return false
}
