package search

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"recruitbase/bizerror"
	"recruitbase/misc"
)

var PathSearch = "/v1/search/articles"

func RegisterSearchRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathSearch, middleWares...)
	g.GET("", handleSearchArticles)
}

func handleSearchArticles(c *gin.Context) {
	term := c.Query("q")
	if term == "" {
		panic(&bizerror.ErrBadParam{})
	}
	if !Enabled() {
		c.JSON(http.StatusServiceUnavailable, &misc.ErrorBody{
			Code: "search.unavailable", Message: "search is not configured"})
		return
	}
	size, _ := strconv.Atoi(c.Query("size"))
	docs, err := SearchArticlesFunc(c.Request.Context(), term, size)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, docs)
}
