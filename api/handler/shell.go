package handler

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/dashboard/domain"
	"github.com/fastygo/dashboard/internal/infrastructure/monitor"
	"github.com/fastygo/dashboard/internal/navigation"
	"github.com/fastygo/dashboard/pkg/httpcontext"
)

//go:embed templates/*.html
var templateFS embed.FS

// DashboardAPI loads the data the views render.
type DashboardAPI interface {
	Classes(ctx context.Context) ([]domain.BiologyClass, error)
	ClassDetails(ctx context.Context, id string) (*domain.ClassDetails, error)
	DashboardStats(ctx context.Context) (domain.DashboardStats, error)
}

// ShellHandler serves the dashboard views. Every page request is a
// navigation: it goes through the navigator's guard and is either rendered or
// answered with a redirect.
type ShellHandler struct {
	baseHandler
	session   SessionController
	navigator *navigation.Navigator
	api       DashboardAPI
	health    StatusSource
	pages     map[string]*template.Template
}

func NewShellHandler(session SessionController, nav *navigation.Navigator, api DashboardAPI, health StatusSource, adapter *httpcontext.Adapter, logger *zap.Logger) *ShellHandler {
	pages := make(map[string]*template.Template)
	for _, name := range []string{domain.RouteHome, domain.RouteClassDetail, domain.RouteAdmin, domain.RouteLogin} {
		pages[name] = template.Must(template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html"))
	}
	return &ShellHandler{
		baseHandler: newBaseHandler(adapter, logger),
		session:     session,
		navigator:   nav,
		api:         api,
		health:      health,
		pages:       pages,
	}
}

type page struct {
	Title         string
	Authenticated bool
	Error         string
	Data          interface{}
}

type homeData struct {
	Classes []domain.BiologyClass
	Stats   domain.DashboardStats
}

type adminData struct {
	Routes  []domain.Route
	History []domain.Location
	Health  monitor.Status
}

type loginData struct {
	Username string
}

type viewFunc func(stdCtx context.Context, loc domain.Location) (page, int)

// guarded resolves the request path, runs the navigation and either renders
// the view or redirects to where the guard sent the navigation.
func (h *ShellHandler) guarded(view viewFunc) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		stdCtx, cancel := h.requestContext(ctx)
		defer cancel()
		log := h.requestLogger(stdCtx)

		requested, err := h.navigator.Resolve(string(ctx.Path()))
		if err != nil {
			ctx.Error("not found", http.StatusNotFound)
			return
		}
		final, err := h.navigator.Navigate(requested, false)
		if err != nil {
			log.Error("navigation failed", zap.String("path", requested.Path), zap.Error(err))
			ctx.Error("navigation failed", http.StatusInternalServerError)
			return
		}
		if final.Path != requested.Path {
			log.Debug("navigation redirected", zap.String("from", requested.Path), zap.String("to", final.Path))
			ctx.Redirect(final.Path, http.StatusFound)
			return
		}

		p, status := view(stdCtx, final)
		p.Authenticated = h.session.IsAuthenticated()
		h.renderHTML(ctx, status, h.pages[final.Route.Name], p)
	}
}

// Home renders the class list and the dashboard counters.
func (h *ShellHandler) Home() fasthttp.RequestHandler {
	return h.guarded(func(stdCtx context.Context, _ domain.Location) (page, int) {
		p := page{Title: "Dashboard"}
		classes, err := h.api.Classes(stdCtx)
		if err != nil {
			return h.failed(stdCtx, p, err)
		}
		stats, err := h.api.DashboardStats(stdCtx)
		if err != nil {
			return h.failed(stdCtx, p, err)
		}
		p.Data = homeData{Classes: classes, Stats: stats}
		return p, http.StatusOK
	})
}

// ClassDetail renders one class with its students and latest test summary.
func (h *ShellHandler) ClassDetail() fasthttp.RequestHandler {
	return h.guarded(func(stdCtx context.Context, loc domain.Location) (page, int) {
		p := page{Title: "Class"}
		details, err := h.api.ClassDetails(stdCtx, loc.Params["id"])
		if err != nil {
			return h.failed(stdCtx, p, err)
		}
		p.Title = details.ClassInfo.Name
		p.Data = details
		return p, http.StatusOK
	})
}

// Admin renders the local client status.
func (h *ShellHandler) Admin() fasthttp.RequestHandler {
	return h.guarded(func(context.Context, domain.Location) (page, int) {
		data := adminData{
			Routes:  h.navigator.Routes(),
			History: h.navigator.History(),
		}
		if h.health != nil {
			data.Health = h.health.GetStatus()
		}
		return page{Title: "Admin", Data: data}, http.StatusOK
	})
}

// LoginForm renders the credentials form.
func (h *ShellHandler) LoginForm() fasthttp.RequestHandler {
	return h.guarded(func(context.Context, domain.Location) (page, int) {
		return page{Title: "Log in", Data: loginData{}}, http.StatusOK
	})
}

// LoginSubmit posts the form credentials. On success the browser follows the
// navigator to home; on failure the form is shown again with the error.
func (h *ShellHandler) LoginSubmit(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	creds := domain.Credentials{
		Identifier: string(ctx.PostArgs().Peek("username")),
		Secret:     string(ctx.PostArgs().Peek("password")),
	}
	if err := h.session.Login(stdCtx, creds); err != nil {
		h.requestLogger(stdCtx).Info("login rejected", zap.Error(err))
		status, _ := mapError(err)
		p := page{
			Title: "Log in",
			Error: loginMessage(err),
			Data:  loginData{Username: creds.Identifier},
		}
		h.renderHTML(ctx, status, h.pages[domain.RouteLogin], p)
		return
	}
	ctx.Redirect(h.currentPath(), http.StatusSeeOther)
}

// Logout ends the session and sends the browser to the login view.
func (h *ShellHandler) Logout(ctx *fasthttp.RequestCtx) {
	h.session.Logout()
	ctx.Redirect(h.currentPath(), http.StatusSeeOther)
}

func (h *ShellHandler) currentPath() string {
	if current := h.navigator.Current(); !current.IsZero() {
		return current.Path
	}
	return "/"
}

func (h *ShellHandler) failed(stdCtx context.Context, p page, err error) (page, int) {
	h.requestLogger(stdCtx).Warn("backend request failed", zap.Error(err))
	status, _ := mapError(err)
	p.Error = err.Error()
	return p, status
}

func loginMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "Unable to log in with the provided credentials."
	case errors.Is(err, domain.ErrLoginInProgress):
		return "A login is already in progress."
	case domain.IsDomainError(err, domain.ErrCodeUnavailable):
		return "The server could not be reached. Try again later."
	default:
		return "Login failed."
	}
}
