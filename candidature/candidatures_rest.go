package candidature

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

var PathCandidatures = "/v1/candidatures"

// RegisterPublicCandidaturesRestAPI exposes the unauthenticated application
// form endpoints.
func RegisterPublicCandidaturesRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathCandidatures, middleWares...)
	g.POST("", handleCreateCandidature)
	g.PUT("/:id/cv", handleUploadCv)
}

// RegisterCandidaturesRestAPI exposes the admin back-office endpoints.
func RegisterCandidaturesRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathCandidatures+"/admin", middleWares...)
	g.GET("", requirePerm(authority.PermApplicationsRead),
		listquery.BuildListHandler(ListStore(), ListCache, &ListConfig))
	g.PUT("/:id/status", handleUpdateStatus)
	g.GET("/:id/cv", handleDownloadCv)
	g.DELETE("/:id", handleDeleteCandidature)
}

func requirePerm(perm authority.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		session.MustHavePerm(c, perm)
		c.Next()
	}
}

// CandidatureCreated is the creation response; it is the only place the
// CV upload token ever leaves the system.
type CandidatureCreated struct {
	Candidature
	CvToken string `json:"cvToken"`
}

func handleCreateCandidature(c *gin.Context) {
	creation := CandidatureCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := CreateCandidatureFunc(creation, session.FindSession(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, &CandidatureCreated{Candidature: *record, CvToken: record.CvToken})
}

func handleUpdateStatus(c *gin.Context) {
	id := parseCandidatureId(c)
	body := struct {
		Status string `json:"status" binding:"required"`
	}{}
	if err := c.ShouldBindBodyWith(&body, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := UpdateStatusFunc(id, body.Status, session.FindSession(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleDeleteCandidature(c *gin.Context) {
	id := parseCandidatureId(c)
	if err := DeleteCandidatureFunc(id, session.FindSession(c)); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}

func handleUploadCv(c *gin.Context) {
	id := parseCandidatureId(c)
	if err := UploadCvFunc(c.Request.Context(), id, c.Query("token"), c.Request.Body); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}

func handleDownloadCv(c *gin.Context) {
	id := parseCandidatureId(c)
	content, err := DownloadCvFunc(c.Request.Context(), id, session.FindSession(c))
	if err != nil {
		panic(err)
	}
	c.Data(http.StatusOK, "application/pdf", content)
}

func parseCandidatureId(c *gin.Context) types.ID {
	id, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: errors.New("invalid id '" + c.Param("id") + "'")})
	}
	return id
}
