package middleware

import (
	"log/slog"

	"github.com/blink-dev/blink/internal/apperr"
	"github.com/gin-gonic/gin"
)

// Errors is the single top-level error renderer. Handlers and middleware
// attach failures with ctx.Error and abort; after the chain runs this maps
// the last error to its status and {code, message} body. Unrecognized errors
// are logged with their cause and masked as a generic 500.
func Errors(log *slog.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Next()

		if len(ctx.Errors) == 0 || ctx.Writer.Written() {
			return
		}

		err := apperr.From(ctx.Errors.Last().Err)

		if err.Code == apperr.CodeUnknown || err.Code == apperr.CodeRedirectIDExhausted {
			log.Error("request failed",
				slog.String("method", ctx.Request.Method),
				slog.String("path", ctx.Request.URL.Path),
				slog.String("error", err.Error()),
			)
		}

		ctx.JSON(err.Code.Status(), gin.H{
			"code":    string(err.Code),
			"message": err.Message,
		})
	}
}
