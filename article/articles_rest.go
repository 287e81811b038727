package article

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
	PathArticles      = "/v1/articles"
	PathArticlesAdmin = "/v1/admin/articles"
)

// RegisterPublicArticlesRestAPI serves the site: published-only list and
// slug detail. Optional auth lets writers open their drafts through detail.
func RegisterPublicArticlesRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathArticles, middleWares...)
	g.GET("", handleListPublishedArticles)
	g.GET("/:slug", handleDetailArticle)
}

func RegisterArticlesRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathArticlesAdmin, middleWares...)
	g.GET("", requirePerm(authority.PermArticlesWrite),
		listquery.BuildListHandler(ListStore(), ListCache, &ListConfig))
	g.POST("", handleCreateArticle)
	g.PUT("/:slug", handleUpdateArticle)
	g.PUT("/:slug/published", handleSetPublished)
	g.DELETE("/:slug", handleDeleteArticle)
}

func requirePerm(perm authority.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		session.MustHavePerm(c, perm)
		c.Next()
	}
}

// handleListPublishedArticles always constrains the list to published rows
// and never projects the body column, whatever the request asks for.
func handleListPublishedArticles(c *gin.Context) {
	values := c.Request.URL.Query()
	values.Set("published", "true")
	values.Del("includeContent")
	params := listquery.ParseParams(values, &ListConfig)
	page, err := listquery.ExecuteFunc(ListStore(), ListCache, &ListConfig, params)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, page)
}

// mutation routes address articles by numeric id in the :slug segment;
// the public detail route resolves real slugs.
func handleDetailArticle(c *gin.Context) {
	record, err := DetailArticleFunc(c.Param("slug"), session.FindSession(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleCreateArticle(c *gin.Context) {
	creation := ArticleCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := CreateArticleFunc(creation, session.FindSession(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleUpdateArticle(c *gin.Context) {
	id := parseArticleId(c)
	updating := ArticleUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := UpdateArticleFunc(id, updating, session.FindSession(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleSetPublished(c *gin.Context) {
	id := parseArticleId(c)
	body := struct {
		Published *bool `json:"published" binding:"required"`
	}{}
	if err := c.ShouldBindBodyWith(&body, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := SetPublishedFunc(id, *body.Published, session.FindSession(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleDeleteArticle(c *gin.Context) {
	id := parseArticleId(c)
	if err := DeleteArticleFunc(id, session.FindSession(c)); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}

func parseArticleId(c *gin.Context) types.ID {
	id, err := types.ParseID(c.Param("slug"))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: errors.New("invalid id '" + c.Param("slug") + "'")})
	}
	return id
}
