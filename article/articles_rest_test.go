package article_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"recruitbase/article"
	"recruitbase/authority"
	"recruitbase/bizerror"
	"recruitbase/listquery"
	"recruitbase/session"
	"recruitbase/testinfra"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
)

func TestQueryArticlesAPI(t *testing.T) {
	RegisterTestingT(t)

	router := gin.Default()
	router.Use(bizerror.ErrorHandling())
	article.RegisterPublicArticlesRestAPI(router)
	article.RegisterArticlesRestAPI(router, session.SimpleAuthFilter())
	defer func() {
		listquery.ExecuteFunc = listquery.Execute
		session.TokenCache.Flush()
	}()

	t.Run("should never serve drafts or body text on the public list", func(t *testing.T) {
		var p1 listquery.Params
		listquery.ExecuteFunc = func(store listquery.Store, cache listquery.Cache,
			cfg *listquery.Config, params listquery.Params) (*listquery.Page, error) {
			p1 = params
			return &listquery.Page{Data: []article.Article{},
				Meta: listquery.Meta{Total: 0, Page: 1, Limit: 20, TotalPages: 0}}, nil
		}
		req := httptest.NewRequest(http.MethodGet, article.PathArticles+"?published=false&includeContent=true", nil)
		status, _, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))
		Expect(p1.Get("published")).To(Equal("true"))
		Expect(p1.Get("includeContent")).To(BeEmpty())
	})

	t.Run("should keep the admin list behind a session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, article.PathArticlesAdmin, nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusUnauthorized))
		Expect(body).To(MatchJSON(`{"code":"common.unauthenticated", "message":"unauthenticated", "data":null}`))
	})

	t.Run("should refuse the admin list without write permission", func(t *testing.T) {
		signIn := testinfra.SignIn(testinfra.BuildSession(9, "lecteur", authority.RoleViewer))
		req := httptest.NewRequest(http.MethodGet, article.PathArticlesAdmin, nil)
		signIn(req)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusForbidden))
		Expect(body).To(MatchJSON(`{"code":"security.forbidden", "message":"access forbidden", "data":null}`))
	})

	t.Run("should serve the admin list to writers", func(t *testing.T) {
		listquery.ExecuteFunc = func(store listquery.Store, cache listquery.Cache,
			cfg *listquery.Config, params listquery.Params) (*listquery.Page, error) {
			return &listquery.Page{Data: []article.Article{},
				Meta: listquery.Meta{Total: 0, Page: 1, Limit: 20, TotalPages: 0}}, nil
		}
		signIn := testinfra.SignIn(testinfra.BuildSession(8, "redacteur", authority.RoleContentEditor))
		req := httptest.NewRequest(http.MethodGet, article.PathArticlesAdmin+"?published=false", nil)
		signIn(req)
		status, _, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))
	})
}

func TestDetailArticleAPI(t *testing.T) {
	RegisterTestingT(t)

	router := gin.Default()
	router.Use(bizerror.ErrorHandling())
	article.RegisterPublicArticlesRestAPI(router)
	defer func() { article.DetailArticleFunc = article.DetailArticle }()

	t.Run("should be able to handle not found", func(t *testing.T) {
		article.DetailArticleFunc = func(slug string, sec *session.Session) (*article.Article, error) {
			return nil, bizerror.ErrNotFound
		}
		req := httptest.NewRequest(http.MethodGet, article.PathArticles+"/unknown-slug", nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusNotFound))
		Expect(body).To(MatchJSON(`{"code":"common.record_not_found", "message":"record not found", "data":null}`))
	})

	t.Run("should be able to serve detail request", func(t *testing.T) {
		demoTime := types.TimestampOfDate(2021, 3, 1, 1, 0, 0, 0, time.Now().Location())
		timeBytes, err := demoTime.Time().MarshalJSON()
		Expect(err).To(BeNil())
		timeString := strings.Trim(string(timeBytes), `"`)

		var requestedSlug string
		article.DetailArticleFunc = func(slug string, sec *session.Session) (*article.Article, error) {
			requestedSlug = slug
			return &article.Article{ID: 10, Titre: "Trouver un emploi", Slug: slug, Resume: "resume",
				Contenu: "<p>corps</p>", Published: true, AuthorID: 2,
				CreateTime: demoTime, UpdateTime: demoTime}, nil
		}
		req := httptest.NewRequest(http.MethodGet, article.PathArticles+"/trouver-un-emploi", nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))
		Expect(requestedSlug).To(Equal("trouver-un-emploi"))
		Expect(body).To(MatchJSON(`{"id":"10", "titre":"Trouver un emploi", "slug":"trouver-un-emploi",
			"resume":"resume", "contenu":"<p>corps</p>", "published":true, "authorId":"2",
			"createTime":"` + timeString + `", "updateTime":"` + timeString + `"}`))
	})
}

func TestCreateArticleAPI(t *testing.T) {
	RegisterTestingT(t)

	router := gin.Default()
	router.Use(bizerror.ErrorHandling())
	article.RegisterArticlesRestAPI(router)
	defer func() { article.CreateArticleFunc = article.CreateArticle }()

	t.Run("should be able to validate parameters", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, article.PathArticlesAdmin, strings.NewReader(`{"titre":"only title"}`))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(body).To(MatchJSON(`{"code":"common.bad_param",
			"message":"Key: 'ArticleCreation.Slug' Error:Field validation for 'Slug' failed on the 'required' tag",
			"data":null}`))

		req = httptest.NewRequest(http.MethodPost, article.PathArticlesAdmin, nil)
		status, body, _ = testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(body).To(MatchJSON(`{"code": "common.bad_param", "message": "EOF", "data": null}`))
	})

	t.Run("should be blocked for callers without write permission", func(t *testing.T) {
		article.CreateArticleFunc = func(c article.ArticleCreation, sec *session.Session) (*article.Article, error) {
			return nil, bizerror.ErrForbidden
		}
		reqBody := `{"titre":"Titre", "slug":"titre"}`
		req := httptest.NewRequest(http.MethodPost, article.PathArticlesAdmin, strings.NewReader(reqBody))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusForbidden))
		Expect(body).To(MatchJSON(`{"code":"security.forbidden", "message":"access forbidden", "data":null}`))
	})

	t.Run("should be able to create article successfully", func(t *testing.T) {
		var c1 article.ArticleCreation
		article.CreateArticleFunc = func(c article.ArticleCreation, sec *session.Session) (*article.Article, error) {
			c1 = c
			return &article.Article{ID: 11, Titre: c.Titre, Slug: c.Slug}, nil
		}
		reqBody := `{"titre":"Titre", "slug":"titre", "tagIds":["123"]}`
		req := httptest.NewRequest(http.MethodPost, article.PathArticlesAdmin, strings.NewReader(reqBody))
		status, _, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))
		Expect(c1.TagIDs).To(Equal([]types.ID{123}))
	})
}

func TestSetArticlePublishedAPI(t *testing.T) {
	RegisterTestingT(t)

	router := gin.Default()
	router.Use(bizerror.ErrorHandling())
	article.RegisterArticlesRestAPI(router)
	defer func() { article.SetPublishedFunc = article.SetPublished }()

	t.Run("should require explicit published value", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, article.PathArticlesAdmin+"/22/published", strings.NewReader(`{}`))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(body).To(ContainSubstring("common.bad_param"))
	})

	t.Run("should be able to switch both ways", func(t *testing.T) {
		var got bool
		article.SetPublishedFunc = func(id types.ID, published bool, sec *session.Session) (*article.Article, error) {
			got = published
			return &article.Article{ID: id, Published: published}, nil
		}
		req := httptest.NewRequest(http.MethodPut, article.PathArticlesAdmin+"/22/published", strings.NewReader(`{"published":true}`))
		status, _, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))
		Expect(got).To(BeTrue())

		req = httptest.NewRequest(http.MethodPut, article.PathArticlesAdmin+"/22/published", strings.NewReader(`{"published":false}`))
		status, _, _ = testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))
		Expect(got).To(BeFalse())
	})
}

func TestDeleteArticleAPI(t *testing.T) {
	RegisterTestingT(t)

	router := gin.Default()
	router.Use(bizerror.ErrorHandling())
	article.RegisterArticlesRestAPI(router)
	defer func() { article.DeleteArticleFunc = article.DeleteArticle }()

	t.Run("should be able to validate id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, article.PathArticlesAdmin+"/not-an-id", nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(body).To(MatchJSON(`{"code":"common.bad_param", "message":"invalid id 'not-an-id'", "data":null}`))
	})

	t.Run("should be able to handle error", func(t *testing.T) {
		article.DeleteArticleFunc = func(id types.ID, sec *session.Session) error {
			return errors.New("some error")
		}
		req := httptest.NewRequest(http.MethodDelete, article.PathArticlesAdmin+"/33", nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusInternalServerError))
		Expect(body).To(MatchJSON(`{"code":"common.internal_server_error", "message":"some error", "data":null}`))
	})

	t.Run("should be able to delete article successfully", func(t *testing.T) {
		article.DeleteArticleFunc = func(id types.ID, sec *session.Session) error {
			return nil
		}
		req := httptest.NewRequest(http.MethodDelete, article.PathArticlesAdmin+"/33", nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusNoContent))
		Expect(body).To(BeEmpty())
	})
}
