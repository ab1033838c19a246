package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockdesk/internal/session"
)

// Redirect targets of the guard.
const (
	LoginPath   = "/login"
	LandingPath = "/dashboard"
)

// Decision is the outcome of a guard check.
type Decision int

const (
	Allow Decision = iota
	RedirectLogin
	RedirectLanding
)

// Decide applies the guard rules. A missing token always wins over the admin check.
func Decide(authenticated, admin, adminOnly bool) Decision {
	switch {
	case !authenticated:
		return RedirectLogin
	case adminOnly && !admin:
		return RedirectLanding
	default:
		return Allow
	}
}

// RequireSession redirects visitors without a session token to the login page.
func RequireSession() gin.HandlerFunc {
	return guard(false)
}

// RequireAdmin additionally sends non-admin sessions to the landing page.
func RequireAdmin() gin.HandlerFunc {
	return guard(true)
}

func guard(adminOnly bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		store := session.FromContext(c)
		if store == nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		ctx := c.Request.Context()
		switch Decide(store.IsAuthenticated(ctx), store.IsAdmin(ctx), adminOnly) {
		case RedirectLogin:
			redirect(c, store, LoginPath)
		case RedirectLanding:
			redirect(c, store, LandingPath)
		default:
			c.Next()
		}
	}
}

// 303 keeps the guarded URL out of the browser history and turns POSTs into GETs.
func redirect(c *gin.Context, store *session.Store, target string) {
	if err := store.Close(); err != nil {
		zap.L().Warn("failed to persist session cookie", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
	c.Redirect(http.StatusSeeOther, target)
	c.Abort()
}
