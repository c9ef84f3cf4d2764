package router

import (
	"log/slog"
	"time"

	"github.com/blink-dev/blink/internal/auth"
	"github.com/blink-dev/blink/internal/handlers"
	"github.com/blink-dev/blink/internal/middleware"
	"github.com/blink-dev/blink/internal/models"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps carries everything the route table needs. Services and handlers are
// composed once at startup and injected here; the router itself holds no
// state.
type Deps struct {
	Log            *slog.Logger
	DB             *gorm.DB
	Codec          *auth.Codec
	Auth           *handlers.AuthHandler
	Workspaces     *handlers.WorkspaceHandler
	Members        *handlers.MemberHandler
	Blinks         *handlers.BlinkHandler
	Redirect       *handlers.RedirectHandler
	AllowedOrigins []string
}

func NewRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Errors(deps.Log))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "X-Access-Token"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	authed := middleware.RequireAuth(deps.Codec)
	anyMember := middleware.RequireWorkspaceRole(deps.DB, models.RoleDefault)
	admin := middleware.RequireWorkspaceRole(deps.DB, models.RoleAdministrator)
	blinkWriter := middleware.RequireBlinkWriter(deps.DB)

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", deps.Auth.Register)
			authGroup.POST("/login", deps.Auth.Login)
			authGroup.POST("/refresh", deps.Auth.Refresh)
			authGroup.POST("/logout", authed, deps.Auth.Logout)
			authGroup.GET("/me", authed, deps.Auth.Me)
		}

		users := api.Group("/users", authed)
		{
			users.DELETE("/:user_id", middleware.RequireSelf(), deps.Auth.DeleteUser)
		}

		workspaces := api.Group("/workspaces", authed)
		{
			workspaces.POST("", deps.Workspaces.Create)
			workspaces.GET("", deps.Workspaces.List)

			scoped := workspaces.Group("/:workspace_id")
			{
				scoped.GET("", anyMember, deps.Workspaces.Get)
				scoped.PATCH("", admin, deps.Workspaces.Update)
				scoped.DELETE("", admin, deps.Workspaces.Delete)

				scoped.GET("/members", anyMember, deps.Members.List)
				scoped.POST("/members", admin, deps.Members.Add)
				scoped.PATCH("/members/:user_id", admin, deps.Members.UpdateRole)
				// Remove is member-gated, not admin-gated: a default member
				// may leave the workspace; the handler rejects removing others.
				scoped.DELETE("/members/:user_id", anyMember, deps.Members.Remove)

				scoped.GET("/blinks", anyMember, deps.Blinks.List)
				scoped.POST("/blinks", anyMember, deps.Blinks.Create)
				scoped.GET("/blinks/:blink_id", anyMember, deps.Blinks.Get)
				scoped.PATCH("/blinks/:blink_id", anyMember, blinkWriter, deps.Blinks.Update)
				scoped.DELETE("/blinks/:blink_id", anyMember, blinkWriter, deps.Blinks.Delete)
			}
		}
	}

	// Public short-link resolution; every unmatched single-segment path is
	// treated as a candidate redirect code, any HTTP method.
	r.NoRoute(deps.Redirect.Redirect)

	return r
}
