package handlers

import (
	"net/http"
	"time"

	"github.com/blink-dev/blink/internal/apperr"
	"github.com/blink-dev/blink/internal/middleware"
	"github.com/blink-dev/blink/internal/services"
	"github.com/blink-dev/blink/internal/types"
	"github.com/blink-dev/blink/internal/utils"
	"github.com/gin-gonic/gin"
)

type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type DeleteUserRequest struct {
	Password string `json:"password" binding:"required"`
}

type AuthHandler struct {
	auth          *services.AuthService
	cookieDomain  string
	secureCookies bool
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthHandler(auth *services.AuthService, cookieDomain string, secureCookies bool, accessTTL, refreshTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		auth:          auth,
		cookieDomain:  cookieDomain,
		secureCookies: secureCookies,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// fail hands the error to the rendering middleware and stops the chain.
func fail(ctx *gin.Context, err error) {
	_ = ctx.Error(err)
	ctx.Abort()
}

func (h *AuthHandler) setTokenCookie(ctx *gin.Context, name, value string, ttl time.Duration) {
	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   h.cookieDomain,
		MaxAge:   int(ttl.Seconds()),
		Secure:   h.secureCookies,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) clearTokenCookie(ctx *gin.Context, name string) {
	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   h.cookieDomain,
		MaxAge:   -1,
		Secure:   h.secureCookies,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var body CreateUserRequest

	if err := ctx.BindJSON(&body); err != nil {
		fail(ctx, apperr.Validation("invalid request body"))
		return
	}

	user, err := h.auth.Register(ctx.Request.Context(), body.Name, body.Email, body.Password)

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"user": types.UserResponse{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
		},
	})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var body LoginUserRequest

	if err := ctx.BindJSON(&body); err != nil {
		fail(ctx, apperr.Validation("invalid request body"))
		return
	}

	pair, err := h.auth.Login(ctx.Request.Context(), body.Email, body.Password)

	if err != nil {
		fail(ctx, err)
		return
	}

	h.setTokenCookie(ctx, types.AccessTokenCookie, pair.AccessToken, h.accessTTL)
	h.setTokenCookie(ctx, types.RefreshTokenCookie, pair.RefreshToken, h.refreshTTL)

	ctx.JSON(http.StatusOK, types.TokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// Refresh accepts the refresh token by header or cookie and delivers the new
// access token both ways with a 204.
func (h *AuthHandler) Refresh(ctx *gin.Context) {
	token := middleware.ExtractToken(ctx, types.RefreshTokenCookie)

	if token == "" {
		fail(ctx, apperr.AuthenticationRequired())
		return
	}

	accessToken, err := h.auth.Refresh(ctx.Request.Context(), token)

	if err != nil {
		fail(ctx, err)
		return
	}

	h.setTokenCookie(ctx, types.AccessTokenCookie, accessToken, h.accessTTL)
	ctx.Header(types.AccessTokenHeader, accessToken)
	ctx.Status(http.StatusNoContent)
}

func (h *AuthHandler) Logout(ctx *gin.Context) {
	identity, err := utils.GetIdentity(ctx)

	if err != nil {
		fail(ctx, apperr.AuthenticationRequired())
		return
	}

	if err := h.auth.Logout(ctx.Request.Context(), identity.SessionID); err != nil {
		fail(ctx, err)
		return
	}

	h.clearTokenCookie(ctx, types.AccessTokenCookie)
	h.clearTokenCookie(ctx, types.RefreshTokenCookie)
	ctx.Status(http.StatusNoContent)
}

func (h *AuthHandler) Me(ctx *gin.Context) {
	identity, err := utils.GetIdentity(ctx)

	if err != nil {
		fail(ctx, apperr.AuthenticationRequired())
		return
	}

	user, err := h.auth.GetUser(ctx.Request.Context(), identity.UserID)

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user": types.UserResponse{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
		},
	})
}

func (h *AuthHandler) DeleteUser(ctx *gin.Context) {
	identity, err := utils.GetIdentity(ctx)

	if err != nil {
		fail(ctx, apperr.AuthenticationRequired())
		return
	}

	var body DeleteUserRequest

	if err := ctx.BindJSON(&body); err != nil {
		fail(ctx, apperr.Validation("password is required for account deletion"))
		return
	}

	if err := h.auth.DeleteUser(ctx.Request.Context(), identity.UserID, body.Password); err != nil {
		fail(ctx, err)
		return
	}

	h.clearTokenCookie(ctx, types.AccessTokenCookie)
	h.clearTokenCookie(ctx, types.RefreshTokenCookie)
	ctx.Status(http.StatusNoContent)
}
