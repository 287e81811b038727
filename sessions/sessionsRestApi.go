package sessions

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
	"github.com/patrickmn/go-cache"

	"recruitbase/account"
	"recruitbase/authority"
	"recruitbase/bizerror"
	"recruitbase/misc"
	"recruitbase/persistence"
	"recruitbase/session"
)

func RegisterSessionsHandler(r *gin.Engine) {
	g := r.Group("/v1/sessions")
	g.POST("", SimpleLoginHandler)
	g.DELETE("", SimpleLogoutHandler)
}

func RegisterSessionHandler(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group("/v1/session", middleWares...)
	g.GET("", QuerySessionHandler)
}

func SimpleLogoutHandler(c *gin.Context) {
	token, _ := c.Cookie(session.KeySecToken) // ErrNoCookie
	if token != "" {
		session.TokenCache.Delete(token)
	}
	c.SetCookie(session.KeySecToken, "", -1, "/", "", false, false)
	c.AbortWithStatus(http.StatusNoContent)
}

func SimpleLoginHandler(c *gin.Context) {
	login := session.LoginRequest{}
	if err := c.ShouldBindBodyWith(&login, binding.JSON); err != nil {
		c.JSON(http.StatusBadRequest, &misc.ErrorBody{Code: "common.bad_param", Message: err.Error()})
		return
	}

	user := account.User{}
	db := persistence.ActiveDataSourceManager.GormDB(c.Request.Context())
	if err := db.Where(&account.User{Name: login.Name, Secret: account.HashSha256(login.Password)}).
		First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			panic(bizerror.ErrUnauthenticated)
		}
		panic(err)
	}

	principal, err := account.LoadPrincipal(db, user.ID)
	if err != nil {
		panic(err)
	}
	if !principal.Active {
		panic(bizerror.ErrForbidden)
	}

	token := uuid.New().String()
	s := session.Session{Token: token, Principal: principal, SigningTime: time.Now()}
	session.TokenCache.Set(token, &s, cache.DefaultExpiration)

	c.SetCookie(session.KeySecToken, token, int(session.TokenExpiration/time.Second), "/", "", false, false)
	c.JSON(http.StatusOK, &s)
}

// QuerySessionHandler returns the caller's identity, permissions and the
// coarse UI access level.
func QuerySessionHandler(c *gin.Context) {
	s := session.FindSession(c)
	if s == nil {
		panic(bizerror.ErrUnauthenticated)
	}
	c.JSON(http.StatusOK, gin.H{
		"principal":   s.Principal,
		"permissions": authority.AllUserPermissions(s.Principal),
		"accessLevel": authority.AccessLevelOf(s.Principal),
		"primaryRole": authority.PrimaryRole(s.Principal),
	})
}
