package utils

import (
	"fmt"

	"github.com/blink-dev/blink/internal/middleware"
	"github.com/blink-dev/blink/internal/models"
	"github.com/blink-dev/blink/internal/types"
	"github.com/gin-gonic/gin"
)

func GetIdentity(ctx *gin.Context) (middleware.Identity, error) {
	value, exists := ctx.Get(types.ContextIdentityKey)

	if !exists {
		return middleware.Identity{}, fmt.Errorf("request is not authenticated")
	}

	identity, ok := value.(middleware.Identity)

	if !ok {
		return middleware.Identity{}, fmt.Errorf("invalid identity type in context")
	}

	return identity, nil
}

func GetMembership(ctx *gin.Context) (models.WorkspaceMember, error) {
	value, exists := ctx.Get(types.ContextMembershipKey)

	if !exists {
		return models.WorkspaceMember{}, fmt.Errorf("no membership in context")
	}

	member, ok := value.(models.WorkspaceMember)

	if !ok {
		return models.WorkspaceMember{}, fmt.Errorf("invalid membership type in context")
	}

	return member, nil
}

func GetBlink(ctx *gin.Context) (models.Blink, error) {
	value, exists := ctx.Get(types.ContextBlinkKey)

	if !exists {
		return models.Blink{}, fmt.Errorf("no blink in context")
	}

	blink, ok := value.(models.Blink)

	if !ok {
		return models.Blink{}, fmt.Errorf("invalid blink type in context")
	}

	return blink, nil
}
