package newsletter

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
	newsletterIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})
	subscriberIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	SubscribeFunc        = Subscribe
	CreateNewsletterFunc = CreateNewsletter

	ListCache = listquery.NewMemoryCache(2*time.Minute, 100)

	ListConfig = listquery.Config{
		SearchFields:     []string{"subject"},
		SortFields:       []string{"create_time", "sent_time", "subject"},
		DefaultSortBy:    "create_time",
		DefaultSortOrder: "desc",
		DefaultLimit:     20,
		MaxLimit:         100,
		FilterFields:     map[string]string{"status": "status"},
		Cache:            listquery.CacheConfig{Enabled: true, TTL: 2 * time.Minute, MaxSize: 100, KeyPrefix: "newsletters:"},
	}
)

func db() *gorm.DB {
	return persistence.ActiveDataSourceManager.GormDB(context.Background())
}

func ListStore() *listquery.GormStore {
	return &listquery.GormStore{DB: db, Model: &Newsletter{}, NewRows: func() interface{} { return &[]Newsletter{} }}
}

// Subscribe is the public opt-in endpoint; duplicated emails are accepted
// silently to avoid leaking who is subscribed.
func Subscribe(c SubscriberCreation, _ *session.Session) (*Subscriber, error) {
	existing := Subscriber{}
	err := db().Where(&Subscriber{Email: c.Email}).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	record := Subscriber{ID: misc.NextId(subscriberIdWorker), Email: c.Email,
		Confirmed: true, CreateTime: types.CurrentTimestamp()}
	if err := db().Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func CreateNewsletter(c NewsletterCreation, sec *session.Session) (*Newsletter, error) {
	if !authority.HasPermission(sec.Identity(), authority.PermNewslettersSend) {
		return nil, bizerror.ErrForbidden
	}
	record := Newsletter{ID: misc.NextId(newsletterIdWorker),
		Subject: c.Subject, Body: c.Body, Status: StatusDraft, CreateTime: types.CurrentTimestamp()}
	if err := db().Create(&record).Error; err != nil {
		return nil, err
	}
	ListCache.DeleteByPrefix(ListConfig.Cache.KeyPrefix)
	return &record, nil
}
