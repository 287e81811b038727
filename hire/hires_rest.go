package hire

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

var PathHires = "/v1/hires"

// RegisterPublicHiresRestAPI exposes the published placements to the site,
// no session required.
func RegisterPublicHiresRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathHires+"/published", middleWares...)
	g.GET("", handleListPublishedHires)
}

func RegisterHiresRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathHires, middleWares...)
	g.GET("", requirePerm(authority.PermHiresRead),
		listquery.BuildListHandler(ListStore(), ListCache, &ListConfig))
	g.POST("", handleCreateHire)
	g.PUT("/:id", handleUpdateHire)
	g.DELETE("/:id", handleDeleteHire)
}

func requirePerm(perm authority.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		session.MustHavePerm(c, perm)
		c.Next()
	}
}

func handleListPublishedHires(c *gin.Context) {
	values := c.Request.URL.Query()
	values.Set("published", "true")
	params := listquery.ParseParams(values, &ListConfig)
	page, err := listquery.ExecuteFunc(ListStore(), ListCache, &ListConfig, params)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, page)
}

func handleCreateHire(c *gin.Context) {
	creation := HireCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := CreateHireFunc(creation, session.FindSession(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleUpdateHire(c *gin.Context) {
	id := parseHireId(c)
	creation := HireCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := UpdateHireFunc(id, creation, session.FindSession(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleDeleteHire(c *gin.Context) {
	id := parseHireId(c)
	if err := DeleteHireFunc(id, session.FindSession(c)); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}

func parseHireId(c *gin.Context) types.ID {
	id, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: errors.New("invalid id '" + c.Param("id") + "'")})
	}
	return id
}
