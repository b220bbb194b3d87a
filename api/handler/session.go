package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/dashboard/api/transport"
	"github.com/fastygo/dashboard/domain"
	"github.com/fastygo/dashboard/internal/navigation"
	"github.com/fastygo/dashboard/pkg/httpcontext"
)

// SessionController is the part of the session controller the shell drives.
type SessionController interface {
	Login(ctx context.Context, creds domain.Credentials) error
	Logout()
	IsAuthenticated() bool
	Initialized() bool
}

// SessionHandler exposes the session as JSON for scripts and the CLI.
type SessionHandler struct {
	baseHandler
	session   SessionController
	navigator *navigation.Navigator
}

func NewSessionHandler(session SessionController, nav *navigation.Navigator, adapter *httpcontext.Adapter, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		baseHandler: newBaseHandler(adapter, logger),
		session:     session,
		navigator:   nav,
	}
}

// @Summary Current session
// @Tags session
// @Router /api/session [get]
func (h *SessionHandler) Status(ctx *fasthttp.RequestCtx) {
	h.respondSuccess(ctx, http.StatusOK, h.status())
}

// @Summary Log in with username and password
// @Tags session
// @Router /api/session [post]
func (h *SessionHandler) Login(ctx *fasthttp.RequestCtx) {
	var req transport.LoginRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.session.Login(stdCtx, req.Credentials()); err != nil {
		h.requestLogger(stdCtx).Info("session login rejected", zap.Error(err))
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, h.status())
}

// @Summary Log out
// @Tags session
// @Router /api/session [delete]
func (h *SessionHandler) Logout(ctx *fasthttp.RequestCtx) {
	h.session.Logout()
	h.respondSuccess(ctx, http.StatusOK, h.status())
}

func (h *SessionHandler) status() transport.SessionStatus {
	status := transport.SessionStatus{
		Authenticated: h.session.IsAuthenticated(),
		Initialized:   h.session.Initialized(),
	}
	if h.navigator != nil {
		status.Location = h.navigator.Current().Path
	}
	return status
}
