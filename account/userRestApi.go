package account

import (
	"errors"
	"net/http"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"recruitbase/authority"
	"recruitbase/bizerror"
	"recruitbase/session"
)

var PathUsers = "/v1/users"

func RegisterUsersRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathUsers, middleWares...)
	g.GET("", handleQueryUsers)
	g.POST("", handleCreateUser)
	g.PUT("/self/secret", handleUpdateSecret)
	g.GET("/:id/roles", handleQueryUserRoles)
	g.POST("/:id/roles", handleAssignRole)
	g.DELETE("/:id/roles/:role", handleRemoveRole)
}

func handleQueryUsers(c *gin.Context) {
	users, err := QueryUsersFunc(session.FindSession(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, users)
}

func handleCreateUser(c *gin.Context) {
	creation := UserCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := CreateUserFunc(&creation, session.FindSession(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleUpdateSecret(c *gin.Context) {
	updating := BasicAuthUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := UpdateBasicAuthSecretFunc(&updating, session.FindSession(c)); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}

func handleQueryUserRoles(c *gin.Context) {
	id := parseUserId(c)
	assignments, validation, err := QueryUserRolesFunc(id, session.FindSession(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, gin.H{"assignments": assignments, "validation": validation})
}

func handleAssignRole(c *gin.Context) {
	id := parseUserId(c)
	assigning := RoleAssigning{}
	if err := c.ShouldBindBodyWith(&assigning, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := AssignRoleFunc(id, &assigning, session.FindSession(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleRemoveRole(c *gin.Context) {
	id := parseUserId(c)
	role := authority.Role(c.Param("role"))
	if !authority.IsValidRole(role) {
		panic(&bizerror.ErrBadParam{Cause: errors.New("invalid role '" + c.Param("role") + "'")})
	}
	if err := RemoveRoleFunc(id, role, session.FindSession(c)); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}

func parseUserId(c *gin.Context) types.ID {
	id, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: errors.New("invalid id '" + c.Param("id") + "'")})
	}
	return id
}
