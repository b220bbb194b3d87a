package router

import (
	"github.com/fasthttp/router"

	apiHandler "github.com/fastygo/dashboard/api/handler"
)

type Handlers struct {
	Shell   *apiHandler.ShellHandler
	Session *apiHandler.SessionHandler
	Health  *apiHandler.HealthHandler
}

func New(handlers Handlers) *router.Router {
	r := router.New()
	r.RedirectTrailingSlash = true

	r.GET("/health", handlers.Health.Check)

	// Session API
	r.GET("/api/session", handlers.Session.Status)
	r.POST("/api/session", handlers.Session.Login)
	r.DELETE("/api/session", handlers.Session.Logout)

	// Views, each guarded by the navigator
	r.GET("/", handlers.Shell.Home())
	r.GET("/classes/{id}", handlers.Shell.ClassDetail())
	r.GET("/admin", handlers.Shell.Admin())
	r.GET("/login", handlers.Shell.LoginForm())

	r.POST("/login", handlers.Shell.LoginSubmit)
	r.POST("/logout", handlers.Shell.Logout)

	return r
}
