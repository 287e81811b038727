package newsletter_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"recruitbase/bizerror"
	"recruitbase/newsletter"
	"recruitbase/session"
	"recruitbase/testinfra"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
)

func TestSubscribeAPI(t *testing.T) {
	RegisterTestingT(t)

	router := gin.Default()
	router.Use(bizerror.ErrorHandling())
	newsletter.RegisterPublicNewsletterRestAPI(router)
	defer func() { newsletter.SubscribeFunc = newsletter.Subscribe }()

	t.Run("should be able to validate email", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, newsletter.PathSubscribers, strings.NewReader(`{"email":"not-an-email"}`))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(body).To(MatchJSON(`{"code":"common.bad_param",
			"message":"Key: 'SubscriberCreation.Email' Error:Field validation for 'Email' failed on the 'email' tag",
			"data":null}`))
	})

	t.Run("should be able to subscribe without a session", func(t *testing.T) {
		newsletter.SubscribeFunc = func(c newsletter.SubscriberCreation, sec *session.Session) (*newsletter.Subscriber, error) {
			Expect(sec).To(BeNil())
			return &newsletter.Subscriber{ID: 40, Email: c.Email, Confirmed: true}, nil
		}
		req := httptest.NewRequest(http.MethodPost, newsletter.PathSubscribers, strings.NewReader(`{"email":"ann@example.com"}`))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(ContainSubstring(`"email":"ann@example.com"`))
	})
}

func TestSendNewsletterAPI(t *testing.T) {
	RegisterTestingT(t)

	router := gin.Default()
	router.Use(bizerror.ErrorHandling())
	newsletter.RegisterNewslettersRestAPI(router)
	defer func() { newsletter.SendNewsletterFunc = nil }()

	t.Run("should be able to validate id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, newsletter.PathNewsletters+"/abc/send", nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(body).To(MatchJSON(`{"code":"common.bad_param", "message":"invalid id 'abc'", "data":null}`))
	})

	t.Run("should reject drafts already sent", func(t *testing.T) {
		newsletter.SendNewsletterFunc = func(ctx context.Context, id types.ID, sec *session.Session) (*newsletter.Newsletter, error) {
			return nil, bizerror.ErrInvalidStatus
		}
		req := httptest.NewRequest(http.MethodPost, newsletter.PathNewsletters+"/50/send", nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(body).To(MatchJSON(`{"code":"common.invalid_status", "message":"invalid status", "data":null}`))
	})

	t.Run("should be able to send newsletter successfully", func(t *testing.T) {
		newsletter.SendNewsletterFunc = func(ctx context.Context, id types.ID, sec *session.Session) (*newsletter.Newsletter, error) {
			return &newsletter.Newsletter{ID: id, Subject: "Offres de juin", Status: newsletter.StatusSent,
				SentCount: 98, FailedCount: 2}, nil
		}
		req := httptest.NewRequest(http.MethodPost, newsletter.PathNewsletters+"/50/send", nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(ContainSubstring(`"sentCount":98`))
		Expect(body).To(ContainSubstring(`"failedCount":2`))
	})
}
