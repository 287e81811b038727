package newsletter

import (
	"errors"
	"net/http"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"recruitbase/authority"
	"recruitbase/bizerror"
	"recruitbase/listquery"
	"recruitbase/session"
)

var (
	PathNewsletters = "/v1/newsletters"
	PathSubscribers = "/v1/newsletter-subscribers"
)

func RegisterPublicNewsletterRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathSubscribers, middleWares...)
	g.POST("", handleSubscribe)
}

func RegisterNewslettersRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathNewsletters, middleWares...)
	g.GET("", requirePerm(authority.PermNewslettersRead),
		listquery.BuildListHandler(ListStore(), ListCache, &ListConfig))
	g.POST("", handleCreateNewsletter)
	g.POST("/:id/send", handleSendNewsletter)
}

func requirePerm(perm authority.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		session.MustHavePerm(c, perm)
		c.Next()
	}
}

func handleSubscribe(c *gin.Context) {
	creation := SubscriberCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := SubscribeFunc(creation, session.FindSession(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleCreateNewsletter(c *gin.Context) {
	creation := NewsletterCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := CreateNewsletterFunc(creation, session.FindSession(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleSendNewsletter(c *gin.Context) {
	id, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: errors.New("invalid id '" + c.Param("id") + "'")})
	}
	if SendNewsletterFunc == nil {
		panic(errors.New("newsletter sender is not configured"))
	}
	record, err := SendNewsletterFunc(c.Request.Context(), id, session.FindSession(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}
