package session

import (
	"recruitbase/authority"
	"recruitbase/bizerror"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

const TokenExpiration = 24 * time.Hour

var TokenCache = cache.New(TokenExpiration, 1*time.Minute)

type LoginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

const KeySecCtx = "SecCtx"
const KeySecToken = "sec_token"

// Session is the resolved identity of an authenticated request.
type Session struct {
	Token     string               `json:"token"`
	Principal *authority.Principal `json:"principal"`

	SigningTime time.Time `json:"-"`
}

func FindSession(ctx *gin.Context) *Session {
	value, found := ctx.Get(KeySecCtx)
	if !found {
		return nil
	}
	s, ok := value.(*Session)
	if !ok || s.Token == "" {
		return nil
	}
	return s
}

// Identity is nil-receiver safe so anonymous callers fail permission
// checks instead of crashing handlers.
func (s *Session) Identity() *authority.Principal {
	if s == nil {
		return nil
	}
	return s.Principal
}

func SimpleAuthFilter() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, err := ctx.Cookie(KeySecToken)
		if err != nil {
			panic(bizerror.ErrUnauthenticated)
		}
		value, found := TokenCache.Get(token)
		if !found {
			panic(bizerror.ErrUnauthenticated)
		}
		s, ok := value.(*Session)
		if !ok {
			panic(bizerror.ErrUnauthenticated)
		}
		InjectSession(ctx, s)
		ctx.Next()
	}
}

// OptionalAuthFilter resolves the session when a valid token cookie is
// present but lets anonymous requests through. Used on mixed routes where
// reads are public and the service layer decides per operation.
func OptionalAuthFilter() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, err := ctx.Cookie(KeySecToken)
		if err == nil {
			if value, found := TokenCache.Get(token); found {
				if s, ok := value.(*Session); ok {
					InjectSession(ctx, s)
				}
			}
		}
		ctx.Next()
	}
}

func InjectSession(ctx *gin.Context, s *Session) {
	if s != nil && s.Token != "" {
		ctx.Set(KeySecCtx, s)
	}
}

// MustHavePerm resolves the session and asserts the permission, panicking
// into the error-handling middleware otherwise.
func MustHavePerm(ctx *gin.Context, perm authority.Permission) *Session {
	s := FindSession(ctx)
	if s == nil {
		panic(bizerror.ErrUnauthenticated)
	}
	if !authority.HasPermission(s.Principal, perm) {
		panic(bizerror.ErrForbidden)
	}
	return s
}
