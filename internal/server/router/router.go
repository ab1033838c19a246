package router

import (
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockdesk/internal/config"
	"github.com/mamadbah2/stockdesk/internal/server/handlers"
	"github.com/mamadbah2/stockdesk/internal/server/middleware"
	"github.com/mamadbah2/stockdesk/internal/session"
)

// New wires the Gin engine with required routes and middlewares.
func New(handler *handlers.Handler, provider *session.Provider, views *template.Template, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))
	r.SetHTMLTemplate(views)

	r.GET("/healthz", handler.Healthz)

	pagesGroup := r.Group("/")
	pagesGroup.Use(provider.Middleware())

	pagesGroup.GET("/", handler.Root)
	pagesGroup.GET(middleware.LoginPath, handler.LoginPage)
	pagesGroup.POST(middleware.LoginPath, handler.Login)
	pagesGroup.GET("/register", handler.RegisterPage)
	pagesGroup.POST("/register", handler.Register)

	authed := pagesGroup.Group("/")
	authed.Use(middleware.RequireSession())
	{
		authed.POST("/logout", handler.Logout)
		authed.GET("/dashboard", handler.Dashboard)

		authed.GET("/inventory", handler.InventoryList)
		authed.POST("/inventory", handler.InventoryCreate)
		authed.GET("/inventory/export", handler.InventoryExport)
		authed.GET("/inventory/:id/edit", handler.InventoryEdit)
		authed.POST("/inventory/:id/edit", handler.InventoryUpdate)
		authed.GET("/inventory/:id/delete", handler.InventoryConfirmDelete)
		authed.POST("/inventory/:id/delete", handler.InventoryDelete)

		authed.GET("/orders", handler.OrdersList)
		authed.POST("/orders", handler.OrderCreate)
	}

	admin := authed.Group("/")
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("/staff", handler.StaffList)
		admin.POST("/staff", handler.StaffCreate)
		admin.GET("/staff/:id/edit", handler.StaffEdit)
		admin.POST("/staff/:id/edit", handler.StaffUpdate)
		admin.GET("/staff/:id/delete", handler.StaffConfirmDelete)
		admin.POST("/staff/:id/delete", handler.StaffDelete)

		admin.GET("/admin-features", handler.AdminFeatures)
		admin.POST("/admin-features/email", handler.AdminSendEmail)
		admin.POST("/admin-features/alert", handler.AdminLoadAlert)
	}

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

// Protect puts CSRF verification in front of the engine. Plain HTTP
// deployments (COOKIE_SECURE=false) skip the strict Referer check.
func Protect(engine http.Handler, cfg config.SessionConfig, port string) http.Handler {
	protect := csrf.Protect(cfg.CSRFKey,
		csrf.Secure(cfg.CookieSecure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.TrustedOrigins([]string{fmt.Sprintf("localhost:%s", port), fmt.Sprintf("127.0.0.1:%s", port)}),
	)
	protected := protect(engine)

	if cfg.CookieSecure {
		return protected
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		protected.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
