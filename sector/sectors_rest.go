package sector

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

var PathSectors = "/v1/sectors"

func RegisterSectorsRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathSectors, middleWares...)
	g.GET("", listquery.BuildListHandler(ListStore(), ListCache, &ListConfig))
	g.POST("", handleCreateSector)
	g.PUT("/:id", handleUpdateSector)
	g.DELETE("/:id", handleDeleteSector)
}

func handleCreateSector(c *gin.Context) {
	creation := SectorCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := CreateSectorFunc(creation, session.FindSession(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleUpdateSector(c *gin.Context) {
	id := parseSectorId(c)
	creation := SectorCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := UpdateSectorFunc(id, creation, session.FindSession(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleDeleteSector(c *gin.Context) {
	id := parseSectorId(c)
	if err := DeleteSectorFunc(id, session.FindSession(c)); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}

func parseSectorId(c *gin.Context) types.ID {
	id, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: errors.New("invalid id '" + c.Param("id") + "'")})
	}
	return id
}
