package utils

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/parliament-dev/parliament/internal/middleware"
	"github.com/parliament-dev/parliament/internal/types"
)

func GetCurrentUser(ctx *gin.Context) (middleware.AuthenticatedUser, error) {
	user, exists := ctx.Get(types.ContextUserKey)

	if !exists {
		return middleware.AuthenticatedUser{}, fmt.Errorf("User not authenticated")
	}

	authenticatedUser, ok := user.(middleware.AuthenticatedUser)

	if !ok {
		return middleware.AuthenticatedUser{}, fmt.Errorf("Invalid user type in context")
	}

	return authenticatedUser, nil
}

// RequesterRole resolves the effective role for read scoping. Anonymous
// requesters count as guests.
func RequesterRole(ctx *gin.Context) (role string, authenticated bool) {
	user, err := GetCurrentUser(ctx)

	if err != nil {
		return types.RoleGuest, false
	}

	return user.Role, true
}
