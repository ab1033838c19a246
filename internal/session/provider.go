package session

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockdesk/internal/config"
	"github.com/mamadbah2/stockdesk/internal/repository/kv"
)

const (
	profileIDKey = "profile_id"
	contextKey   = "session.store"
)

// Provider resolves the browser profile of a request and hands out Stores bound to it.
type Provider struct {
	cookies    *sessions.CookieStore
	cookieName string
	kv         kv.Store
	logger     *zap.Logger
}

// NewProvider wires the profile cookie to the profile storage.
func NewProvider(cfg config.SessionConfig, store kv.Store, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}

	cookies := sessions.NewCookieStore(cfg.AuthKey)
	cookies.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
	// MaxAge also bounds the codec timestamp check, not only the cookie attribute.
	cookies.MaxAge(cfg.MaxAgeDays * 24 * 60 * 60)

	return &Provider{
		cookies:    cookies,
		cookieName: cfg.CookieName,
		kv:         store,
		logger:     logger,
	}
}

// Open returns the Store for the request's profile, minting a profile id on first visit.
func (p *Provider) Open(w http.ResponseWriter, r *http.Request) (*Store, error) {
	cookie, err := p.cookies.Get(r, p.cookieName)
	if err != nil {
		// An unreadable cookie (rotated keys, tampering) starts a fresh profile.
		p.logger.Debug("starting new profile", zap.Error(err))
		cookie = sessions.NewSession(p.cookies, p.cookieName)
		opts := *p.cookies.Options
		cookie.Options = &opts
		cookie.IsNew = true
	}

	store := &Store{
		kv:     p.kv,
		cookie: cookie,
		w:      w,
		r:      r,
		logger: p.logger,
	}

	profileID, _ := cookie.Values[profileIDKey].(string)
	if profileID == "" {
		profileID = uuid.NewString()
		cookie.Values[profileIDKey] = profileID
		store.dirty = true
	}
	store.profileID = profileID

	if store.dirty {
		if err := store.Close(); err != nil {
			return nil, fmt.Errorf("open profile: %w", err)
		}
	}
	return store, nil
}

// Middleware opens the profile Store for every request and makes it available
// through FromContext.
func (p *Provider) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		store, err := p.Open(c.Writer, c.Request)
		if err != nil {
			p.logger.Error("failed to open session", zap.Error(err))
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		c.Set(contextKey, store)
		c.Next()

		if !c.Writer.Written() {
			if err := store.Close(); err != nil {
				p.logger.Warn("failed to persist session cookie", zap.Error(err))
			}
		}
	}
}

// FromContext returns the Store opened by Middleware, or nil.
func FromContext(c *gin.Context) *Store {
	value, ok := c.Get(contextKey)
	if !ok {
		return nil
	}
	store, _ := value.(*Store)
	return store
}
