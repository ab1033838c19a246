package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/stockdesk/internal/server/middleware"
)

// Dashboard renders the overview stats.
func (h *Handler) Dashboard(c *gin.Context) {
	view, err := h.pages.Dashboard(c.Request.Context(), token(c))
	if h.abandoned(c, err) {
		return
	}
	h.render(c, http.StatusOK, "dashboard.html", "Dashboard", view, view.Notice)
}

// Root sends visitors to the landing page.
func (h *Handler) Root(c *gin.Context) {
	h.redirect(c, middleware.LandingPath)
}
