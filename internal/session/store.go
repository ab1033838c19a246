package session

import (
	"context"
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockdesk/internal/domain/models"
	"github.com/mamadbah2/stockdesk/internal/repository/kv"
)

// Keys under which the session lives in the profile storage.
const (
	KeyUser  = "user"
	KeyToken = "token"
)

// ErrEmptyToken is returned when a session without a bearer token is stored.
var ErrEmptyToken = errors.New("session: token must not be empty")

// Flash kinds.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

// Flash is a one-shot notice shown on the next rendered page.
type Flash struct {
	Kind    string
	Message string
}

func init() {
	gob.Register(Flash{})
}

// Store reads and writes the session of one browser profile.
type Store struct {
	profileID string
	kv        kv.Store
	cookie    *sessions.Session
	w         http.ResponseWriter
	r         *http.Request
	logger    *zap.Logger
	dirty     bool
}

// ProfileID identifies the browser profile this store is bound to.
func (s *Store) ProfileID() string {
	return s.profileID
}

// SetSession persists identity and token, replacing any prior session.
func (s *Store) SetSession(ctx context.Context, identity models.Identity) error {
	if strings.TrimSpace(identity.Token) == "" {
		return ErrEmptyToken
	}

	encoded, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}
	if err := s.kv.Set(ctx, s.profileID, KeyUser, string(encoded)); err != nil {
		return fmt.Errorf("store identity: %w", err)
	}
	if err := s.kv.Set(ctx, s.profileID, KeyToken, identity.Token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	return nil
}

// Identity returns the persisted identity, if any.
func (s *Store) Identity(ctx context.Context) (*models.Identity, bool) {
	raw, ok := s.get(ctx, KeyUser)
	if !ok {
		return nil, false
	}

	var identity models.Identity
	if err := json.Unmarshal([]byte(raw), &identity); err != nil {
		s.logger.Warn("discarding unreadable identity", zap.String("profile_id", s.profileID), zap.Error(err))
		return nil, false
	}
	return &identity, true
}

// Token returns the persisted bearer token, if any.
func (s *Store) Token(ctx context.Context) (string, bool) {
	token, ok := s.get(ctx, KeyToken)
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// Clear removes the identity and token. Other profile data is kept.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, s.profileID, KeyUser, KeyToken); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// IsAuthenticated is true iff a token is present.
func (s *Store) IsAuthenticated(ctx context.Context) bool {
	_, ok := s.Token(ctx)
	return ok
}

// IsAdmin is true iff an identity is persisted and carries the admin role.
func (s *Store) IsAdmin(ctx context.Context) bool {
	identity, ok := s.Identity(ctx)
	return ok && identity.IsAdmin()
}

// AddFlash queues a notice for the next rendered page.
func (s *Store) AddFlash(kind, message string) {
	s.cookie.AddFlash(Flash{Kind: kind, Message: message})
	s.dirty = true
}

// Flashes drains the queued notices.
func (s *Store) Flashes() []Flash {
	raw := s.cookie.Flashes()
	if len(raw) == 0 {
		return nil
	}
	s.dirty = true

	flashes := make([]Flash, 0, len(raw))
	for _, f := range raw {
		if flash, ok := f.(Flash); ok {
			flashes = append(flashes, flash)
		}
	}
	return flashes
}

// Close writes pending cookie changes. It must run before the response body
// is written and is a no-op when nothing changed.
func (s *Store) Close() error {
	if !s.dirty {
		return nil
	}
	if err := s.cookie.Save(s.r, s.w); err != nil {
		return fmt.Errorf("save profile cookie: %w", err)
	}
	s.dirty = false
	return nil
}

func (s *Store) get(ctx context.Context, key string) (string, bool) {
	value, err := s.kv.Get(ctx, s.profileID, key)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			s.logger.Error("profile storage read failed",
				zap.String("profile_id", s.profileID),
				zap.String("key", key),
				zap.Error(err),
			)
		}
		return "", false
	}
	return value, true
}
