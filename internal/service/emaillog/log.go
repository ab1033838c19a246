package emaillog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mamadbah2/stockdesk/internal/domain/models"
	"github.com/mamadbah2/stockdesk/internal/repository/kv"
)

// StorageKey is the profile storage key holding the log.
const StorageKey = "sentEmails"

// Log is the append-only record of every send attempt of a profile.
type Log interface {
	Append(ctx context.Context, profileID string, record models.SentEmailRecord) error
	// List returns records newest first.
	List(ctx context.Context, profileID string) ([]models.SentEmailRecord, error)
}

// NewRecord builds the log entry for one send attempt. The request fields are
// kept exactly as entered.
func NewRecord(req models.SendEmailRequest, sendErr error, now time.Time) models.SentEmailRecord {
	status := models.EmailSuccess
	if sendErr != nil {
		status = models.EmailFailed
	}
	return models.SentEmailRecord{
		ID:        uuid.NewString(),
		Recipient: req.To,
		Subject:   req.Subject,
		Message:   req.Message,
		SentAt:    now,
		Status:    status,
	}
}

// KVLog keeps the log as a JSON array in the profile storage.
type KVLog struct {
	store kv.Store
	mu    sync.Mutex
}

// NewKVLog creates a log over the given profile storage.
func NewKVLog(store kv.Store) *KVLog {
	return &KVLog{store: store}
}

func (l *KVLog) Append(ctx context.Context, profileID string, record models.SentEmailRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	records, err := l.load(ctx, profileID)
	if err != nil {
		return err
	}

	records = append([]models.SentEmailRecord{record}, records...)
	encoded, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode email log: %w", err)
	}
	if err := l.store.Set(ctx, profileID, StorageKey, string(encoded)); err != nil {
		return fmt.Errorf("store email log: %w", err)
	}
	return nil
}

func (l *KVLog) List(ctx context.Context, profileID string) ([]models.SentEmailRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load(ctx, profileID)
}

func (l *KVLog) load(ctx context.Context, profileID string) ([]models.SentEmailRecord, error) {
	raw, err := l.store.Get(ctx, profileID, StorageKey)
	if errors.Is(err, kv.ErrNotFound) {
		return []models.SentEmailRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read email log: %w", err)
	}

	var records []models.SentEmailRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("decode email log: %w", err)
	}
	return records, nil
}
