package handlers

import (
	"net/http"
	"strings"

	"github.com/blink-dev/blink/internal/apperr"
	"github.com/blink-dev/blink/internal/services"
	"github.com/gin-gonic/gin"
)

type RedirectHandler struct {
	blinks     *services.BlinkService
	production bool
}

func NewRedirectHandler(blinks *services.BlinkService, production bool) *RedirectHandler {
	return &RedirectHandler{blinks: blinks, production: production}
}

// Redirect answers any method on /:code with a 308 to the blink's target URL.
// It is mounted as the NoRoute handler because gin's tree cannot hold a
// root-level param route next to the /api group; anything that is not a
// single path segment is an unknown code. The incoming query string is
// carried over; the fragment never reaches the server, browsers re-apply it
// to the redirect target themselves.
func (h *RedirectHandler) Redirect(ctx *gin.Context) {
	code := strings.Trim(ctx.Request.URL.Path, "/")

	if code == "" || strings.Contains(code, "/") {
		fail(ctx, apperr.NotFound("redirect code"))
		return
	}

	blink, err := h.blinks.Resolve(ctx.Request.Context(), code)

	if err != nil {
		fail(ctx, err)
		return
	}

	target := blink.TargetURL

	if raw := ctx.Request.URL.RawQuery; raw != "" {
		if strings.Contains(target, "?") {
			target += "&" + raw
		} else {
			target += "?" + raw
		}
	}

	if !h.production {
		ctx.Header("Cache-Control", "no-store")
	}

	ctx.Redirect(http.StatusPermanentRedirect, target)
}
