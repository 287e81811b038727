package newsletter

import (
	"github.com/fundwit/go-commons/types"
)

const (
	StatusDraft   = "DRAFT"
	StatusSending = "SENDING"
	StatusSent    = "SENT"
)

type Subscriber struct {
	ID types.ID `json:"id" gorm:"primary_key"`

	Email     string `json:"email" binding:"required,email" gorm:"unique_index:uni_subscriber_email"`
	Confirmed bool   `json:"confirmed"`

	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
}

type Newsletter struct {
	ID types.ID `json:"id" gorm:"primary_key"`

	Subject string `json:"subject" binding:"required,lte=255"`
	Body    string `json:"body" sql:"type:MEDIUMTEXT"`
	Status  string `json:"status"`

	SentCount   int `json:"sentCount"`
	FailedCount int `json:"failedCount"`

	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
	SentTime   types.Timestamp `json:"sentTime"`
}

type SubscriberCreation struct {
	Email string `json:"email" binding:"required,email"`
}

type NewsletterCreation struct {
	Subject string `json:"subject" binding:"required,lte=255"`
	Body    string `json:"body" binding:"required"`
}
