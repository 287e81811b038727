package newsletter

import (
	"context"
	"time"

	"github.com/fundwit/go-commons/types"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"recruitbase/authority"
	"recruitbase/bizerror"
	"recruitbase/session"
)

// Mailer is the external mail transport; delivery mechanics are not this
// package's concern.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Sender pushes a newsletter to all confirmed subscribers in batches,
// retrying each recipient with exponential backoff and throttling overall
// throughput.
type Sender struct {
	Mailer    Mailer
	BatchSize int
	// MaxAttempts per recipient, backoff doubles from RetryBackoff between
	// attempts.
	MaxAttempts  int
	RetryBackoff time.Duration
	// RatePerSec caps outgoing mails across batches.
	RatePerSec rate.Limit
}

func NewSender(mailer Mailer) *Sender {
	return &Sender{Mailer: mailer, BatchSize: 50, MaxAttempts: 3,
		RetryBackoff: 500 * time.Millisecond, RatePerSec: 10}
}

var SendNewsletterFunc func(ctx context.Context, id types.ID, sec *session.Session) (*Newsletter, error)

// SendNewsletter delivers a draft newsletter. The draft moves to SENDING for
// the duration of the run and to SENT afterwards, with per-recipient
// successes and failures counted on the record.
func (s *Sender) SendNewsletter(ctx context.Context, id types.ID, sec *session.Session) (*Newsletter, error) {
	if !authority.HasPermission(sec.Identity(), authority.PermNewslettersSend) {
		return nil, bizerror.ErrForbidden
	}

	record := Newsletter{}
	if err := db().Where(&Newsletter{ID: id}).First(&record).Error; err != nil {
		return nil, err
	}
	if record.Status != StatusDraft {
		return nil, bizerror.ErrInvalidStatus
	}

	subscribers := []Subscriber{}
	if err := db().Where(&Subscriber{Confirmed: true}).Order("id ASC").Find(&subscribers).Error; err != nil {
		return nil, err
	}

	if err := db().Model(&Newsletter{}).Where("id = ?", id).
		Update("status", StatusSending).Error; err != nil {
		return nil, err
	}

	sent, failed := s.deliverAll(ctx, &record, subscribers)

	record.Status = StatusSent
	record.SentCount = sent
	record.FailedCount = failed
	record.SentTime = types.CurrentTimestamp()
	if err := db().Model(&Newsletter{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status": StatusSent, "sent_count": sent, "failed_count": failed,
		"sent_time": record.SentTime,
	}).Error; err != nil {
		return nil, err
	}
	ListCache.DeleteByPrefix(ListConfig.Cache.KeyPrefix)
	return &record, nil
}

func (s *Sender) deliverAll(ctx context.Context, n *Newsletter, subscribers []Subscriber) (sent, failed int) {
	limiter := rate.NewLimiter(s.RatePerSec, s.BatchSize)
	for start := 0; start < len(subscribers); start += s.BatchSize {
		end := start + s.BatchSize
		if end > len(subscribers) {
			end = len(subscribers)
		}
		for _, subscriber := range subscribers[start:end] {
			if err := limiter.Wait(ctx); err != nil {
				failed += len(subscribers) - sent - failed
				return sent, failed
			}
			if err := s.deliverOne(ctx, n, subscriber); err != nil {
				logrus.Warnf("newsletter %v: delivery to %s failed: %v", n.ID, subscriber.Email, err)
				failed++
			} else {
				sent++
			}
		}
	}
	return sent, failed
}

func (s *Sender) deliverOne(ctx context.Context, n *Newsletter, subscriber Subscriber) error {
	backoff := s.RetryBackoff
	var err error
	for attempt := 1; attempt <= s.MaxAttempts; attempt++ {
		err = s.Mailer.Send(ctx, subscriber.Email, n.Subject, n.Body)
		if err == nil {
			return nil
		}
		if attempt < s.MaxAttempts {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
			backoff *= 2
		}
	}
	return err
}
