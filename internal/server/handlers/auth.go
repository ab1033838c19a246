package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockdesk/internal/server/middleware"
	"github.com/mamadbah2/stockdesk/internal/service/pages"
	"github.com/mamadbah2/stockdesk/internal/session"
	"github.com/mamadbah2/stockdesk/pkg/clients/backend"
)

type loginData struct {
	Username string
}

// LoginPage shows the sign-in form. Signed-in visitors go to the landing page.
func (h *Handler) LoginPage(c *gin.Context) {
	if store := session.FromContext(c); store != nil && store.IsAuthenticated(c.Request.Context()) {
		h.redirect(c, middleware.LandingPath)
		return
	}
	h.render(c, http.StatusOK, "login.html", "Sign in", loginData{})
}

// Login authenticates and stores the session for this browser profile.
func (h *Handler) Login(c *gin.Context) {
	draft := pages.LoginDraft{
		Username: c.PostForm("username"),
		Password: c.PostForm("password"),
	}
	data := loginData{Username: draft.Username}

	identity, err := h.pages.Login(c.Request.Context(), draft)
	if errs, ok := fieldErrors(err); ok {
		h.renderForm(c, http.StatusUnprocessableEntity, "login.html", "Sign in", data, errs)
		return
	}
	if err != nil {
		h.logger.Info("login rejected", zap.String("username", draft.Username), zap.Error(err))
		h.render(c, http.StatusUnauthorized, "login.html", "Sign in", data, errorNotice(err, backend.OpLogin))
		return
	}

	store := session.FromContext(c)
	if err := store.SetSession(c.Request.Context(), *identity); err != nil {
		h.logger.Error("failed to store session", zap.Error(err))
		h.render(c, http.StatusUnauthorized, "login.html", "Sign in", data, errorNotice(nil, backend.OpLogin))
		return
	}

	store.AddFlash(session.FlashSuccess, "Login successful")
	h.redirect(c, middleware.LandingPath)
}

// RegisterPage shows the public registration form.
func (h *Handler) RegisterPage(c *gin.Context) {
	h.render(c, http.StatusOK, "register.html", "Create account", pages.NewRegisterDraft())
}

// Register creates an account and sends the visitor to the login page.
func (h *Handler) Register(c *gin.Context) {
	draft := pages.RegisterDraft{
		Name:        c.PostForm("name"),
		Email:       c.PostForm("email"),
		Password:    c.PostForm("password"),
		PhoneNumber: c.PostForm("phoneNumber"),
		Designation: c.PostForm("designation"),
		Department:  c.PostForm("department"),
		Rights:      c.PostForm("rights"),
	}

	err := h.pages.Register(c.Request.Context(), draft)
	if errs, ok := fieldErrors(err); ok {
		h.renderForm(c, http.StatusUnprocessableEntity, "register.html", "Create account", draft, errs)
		return
	}
	if err != nil {
		h.logger.Info("registration rejected", zap.Error(err))
		h.render(c, http.StatusOK, "register.html", "Create account", draft, errorNotice(err, backend.OpRegister))
		return
	}

	h.flash(c, session.FlashSuccess, "Registration successful! Please login.")
	h.redirect(c, middleware.LoginPath)
}

// Logout clears the session and returns to the login page.
func (h *Handler) Logout(c *gin.Context) {
	store := session.FromContext(c)
	if err := store.Clear(c.Request.Context()); err != nil {
		h.logger.Error("failed to clear session", zap.Error(err))
	}
	store.AddFlash(session.FlashSuccess, "Logged out successfully")
	h.redirect(c, middleware.LoginPath)
}
