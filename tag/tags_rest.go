package tag

import (
	"errors"
	"net/http"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"recruitbase/bizerror"
	"recruitbase/listquery"
	"recruitbase/session"
)

var PathTags = "/v1/tags"

func RegisterTagsRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathTags, middleWares...)
	g.GET("", listquery.BuildListHandler(ListStore(), ListCache, &ListConfig))
	g.POST("", handleCreateTag)
	g.PUT("/:id", handleUpdateTag)
	g.DELETE("/:id", handleDeleteTag)
}

func handleCreateTag(c *gin.Context) {
	creation := TagCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := CreateTagFunc(creation, session.FindSession(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleUpdateTag(c *gin.Context) {
	id := parseTagId(c)
	creation := TagCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := UpdateTagFunc(id, creation, session.FindSession(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleDeleteTag(c *gin.Context) {
	id := parseTagId(c)
	if err := DeleteTagFunc(id, session.FindSession(c)); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}

func parseTagId(c *gin.Context) types.ID {
	id, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: errors.New("invalid id '" + c.Param("id") + "'")})
	}
	return id
}
