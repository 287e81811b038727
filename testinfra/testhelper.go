package testinfra

import (
	"io"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"time"

	"recruitbase/authority"
	"recruitbase/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
)

// ExecuteRequest runs the request against the router and captures the response.
func ExecuteRequest(req *http.Request, router *gin.Engine) (status int, body string, resp *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	respBody, _ := ioutil.ReadAll(w.Body)
	return w.Code, string(respBody), w
}

// BuildNoBodyRequest builds a request without a body, failing loudly on a bad URL.
func BuildNoBodyRequest(method, url string) *http.Request {
	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		panic(err)
	}
	return req
}

// BuildBodyRequest builds a request carrying a JSON body.
func BuildBodyRequest(method, url string, body io.Reader) *http.Request {
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		panic(err)
	}
	req.Header.Set("Content-Type", "application/json")
	return req
}

// BuildSession builds an authenticated session for a principal holding the
// given single role.
func BuildSession(uid types.ID, name string, role authority.Role) *session.Session {
	p := authority.SinglePrincipal(uid, name, role)
	return &session.Session{Token: "test-token-" + name, Principal: p, SigningTime: time.Now()}
}

// SignIn places the session into the token cache and returns a request
// mutator attaching the session cookie.
func SignIn(s *session.Session) func(req *http.Request) {
	session.TokenCache.Set(s.Token, s, -1)
	return func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: session.KeySecToken, Value: s.Token})
	}
}
