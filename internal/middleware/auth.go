package middleware

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/blink-dev/blink/internal/apperr"
	"github.com/blink-dev/blink/internal/auth"
	"github.com/blink-dev/blink/internal/models"
	"github.com/blink-dev/blink/internal/types"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Identity is the request-scoped result of RequireAuth.
type Identity struct {
	UserID    uint
	SessionID string
}

func abortWithError(ctx *gin.Context, err error) {
	_ = ctx.Error(err)
	ctx.Abort()
}

func currentIdentity(ctx *gin.Context) (Identity, bool) {
	value, exists := ctx.Get(types.ContextIdentityKey)

	if !exists {
		return Identity{}, false
	}

	identity, ok := value.(Identity)

	return identity, ok
}

// ExtractToken pulls the bearer token from the Authorization header, falling
// back to the named cookie. Handlers that accept a token outside RequireAuth,
// like refresh, share it so the two extraction paths cannot drift.
func ExtractToken(ctx *gin.Context, cookieName string) string {
	authHeader := ctx.GetHeader("Authorization")

	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}

	if cookie, err := ctx.Cookie(cookieName); err == nil {
		return cookie
	}

	return ""
}

// RequireAuth decodes the access token and stores the caller's Identity in
// the request context. No credential at all is AUTHENTICATION_REQUIRED; a
// credential that fails to decode is INVALID_CREDENTIALS. The check is
// stateless: the session store is not consulted, so an unexpired access token
// keeps authenticating even after its session was logged out.
func RequireAuth(codec *auth.Codec) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := ExtractToken(ctx, types.AccessTokenCookie)

		if token == "" {
			abortWithError(ctx, apperr.AuthenticationRequired())
			return
		}

		claims, err := codec.Decode(token)

		if err != nil {
			abortWithError(ctx, apperr.InvalidCredentials())
			return
		}

		ctx.Set(types.ContextIdentityKey, Identity{
			UserID:    claims.UserID,
			SessionID: claims.SessionID,
		})
		ctx.Next()
	}
}

// RequireWorkspaceRole gates workspace-scoped routes on a membership of at
// least minRole. A workspace that does not exist, a workspace the caller is
// not a member of, and an insufficient role all produce the identical
// AccessDenied, so outsiders cannot tell absent from forbidden. The matched
// membership is stashed for handlers.
func RequireWorkspaceRole(db *gorm.DB, minRole models.Role) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		identity, ok := currentIdentity(ctx)

		if !ok {
			abortWithError(ctx, apperr.AuthenticationRequired())
			return
		}

		workspaceID, err := strconv.ParseUint(ctx.Param("workspace_id"), 10, 64)

		if err != nil {
			abortWithError(ctx, apperr.Validation("invalid workspace id"))
			return
		}

		denied := apperr.AccessDenied(fmt.Sprintf("/workspaces/%d", workspaceID))

		var member models.WorkspaceMember

		err = db.WithContext(ctx.Request.Context()).
			Where("workspace_id = ? AND user_id = ?", workspaceID, identity.UserID).
			First(&member).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			abortWithError(ctx, denied)
			return
		}

		if err != nil {
			abortWithError(ctx, err)
			return
		}

		if !member.Role.AtLeast(minRole) {
			abortWithError(ctx, denied)
			return
		}

		ctx.Set(types.ContextMembershipKey, member)
		ctx.Next()
	}
}

// RequireSelf restricts user-scoped routes to the authenticated user itself.
func RequireSelf() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		identity, ok := currentIdentity(ctx)

		if !ok {
			abortWithError(ctx, apperr.AuthenticationRequired())
			return
		}

		userID, err := strconv.ParseUint(ctx.Param("user_id"), 10, 64)

		if err != nil {
			abortWithError(ctx, apperr.Validation("invalid user id"))
			return
		}

		if uint(userID) != identity.UserID {
			abortWithError(ctx, apperr.AccessDenied(fmt.Sprintf("/users/%d", userID)))
			return
		}

		ctx.Next()
	}
}

// RequireBlinkWriter allows the blink's creator or a workspace administrator
// through. Runs after RequireWorkspaceRole, so membership is already proven;
// a blink id that does not exist inside the workspace is a plain NotFound,
// existence-hiding is not needed here. The loaded blink is stashed for the
// handler.
func RequireBlinkWriter(db *gorm.DB) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		identity, ok := currentIdentity(ctx)

		if !ok {
			abortWithError(ctx, apperr.AuthenticationRequired())
			return
		}

		value, exists := ctx.Get(types.ContextMembershipKey)
		member, ok := value.(models.WorkspaceMember)

		if !exists || !ok {
			abortWithError(ctx, apperr.AuthenticationRequired())
			return
		}

		blinkID, err := strconv.ParseUint(ctx.Param("blink_id"), 10, 64)

		if err != nil {
			abortWithError(ctx, apperr.Validation("invalid blink id"))
			return
		}

		var blink models.Blink

		err = db.WithContext(ctx.Request.Context()).
			Where("id = ? AND workspace_id = ?", blinkID, member.WorkspaceID).
			First(&blink).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			abortWithError(ctx, apperr.NotFound("blink"))
			return
		}

		if err != nil {
			abortWithError(ctx, err)
			return
		}

		isCreator := blink.CreatorID != nil && *blink.CreatorID == identity.UserID

		if !isCreator && !member.Role.AtLeast(models.RoleAdministrator) {
			abortWithError(ctx, apperr.AccessDenied(fmt.Sprintf("/workspaces/%d/blinks/%d", member.WorkspaceID, blink.ID)))
			return
		}

		ctx.Set(types.ContextBlinkKey, blink)
		ctx.Next()
	}
}
