package handlers

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockdesk/internal/server/layout"
	"github.com/mamadbah2/stockdesk/internal/server/middleware"
	"github.com/mamadbah2/stockdesk/internal/service/pages"
	"github.com/mamadbah2/stockdesk/internal/session"
	"github.com/mamadbah2/stockdesk/pkg/clients/backend"
)

// Handler serves every dashboard page.
type Handler struct {
	pages  *pages.Controller
	logger *zap.Logger
}

// NewHandler constructs the HTTP handler adapter.
func NewHandler(ctrl *pages.Controller, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{pages: ctrl, logger: logger}
}

// Page is the data every template receives.
type Page struct {
	Title   string
	Shell   *layout.Shell
	Flashes []session.Flash
	CSRF    template.HTML
	Errors  map[string]string
	Data    any
}

func (h *Handler) render(c *gin.Context, status int, name, title string, data any, notices ...*pages.Notice) {
	h.renderForm(c, status, name, title, data, nil, notices...)
}

func (h *Handler) renderForm(c *gin.Context, status int, name, title string, data any, fieldErrors map[string]string, notices ...*pages.Notice) {
	store := session.FromContext(c)
	ctx := c.Request.Context()

	page := Page{
		Title:  title,
		CSRF:   csrf.TemplateField(c.Request),
		Errors: fieldErrors,
		Data:   data,
	}

	if store != nil {
		page.Flashes = store.Flashes()
		if store.IsAuthenticated(ctx) {
			identity, _ := store.Identity(ctx)
			shell := layout.Build(identity, store.IsAdmin(ctx), c.Request.URL, layout.IsCollapsed(c.Request.URL.Query()))
			page.Shell = &shell
		}
		if err := store.Close(); err != nil {
			h.logger.Warn("failed to persist session cookie", zap.Error(err))
		}
	}

	for _, notice := range notices {
		if notice != nil {
			page.Flashes = append(page.Flashes, session.Flash{Kind: notice.Kind, Message: notice.Message})
		}
	}

	c.HTML(status, name, page)
}

func (h *Handler) redirect(c *gin.Context, target string) {
	if store := session.FromContext(c); store != nil {
		if err := store.Close(); err != nil {
			h.logger.Warn("failed to persist session cookie", zap.Error(err))
		}
	}
	c.Redirect(http.StatusSeeOther, target)
}

func (h *Handler) flash(c *gin.Context, kind, message string) {
	if store := session.FromContext(c); store != nil {
		store.AddFlash(kind, message)
	}
}

func token(c *gin.Context) string {
	store := session.FromContext(c)
	if store == nil {
		return ""
	}
	t, _ := store.Token(c.Request.Context())
	return t
}

func profileID(c *gin.Context) string {
	if store := session.FromContext(c); store != nil {
		return store.ProfileID()
	}
	return ""
}

// abandoned reports whether the request went away before its data arrived.
func (h *Handler) abandoned(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	h.logger.Debug("discarding stale response", zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.Abort()
	return true
}

// mutationSkipped handles a missing token or a request that went away.
func (h *Handler) mutationSkipped(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, pages.ErrNoSession):
		h.redirect(c, middleware.LoginPath)
		return true
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return h.abandoned(c, err)
	default:
		return false
	}
}

func errorNotice(err error, fallback string) *pages.Notice {
	return &pages.Notice{Kind: pages.NoticeError, Message: backend.Message(err, fallback)}
}

func fieldErrors(err error) (map[string]string, bool) {
	var verr *pages.ValidationError
	if errors.As(err, &verr) {
		return verr.Fields, true
	}
	return nil, false
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Healthz reports liveness.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
