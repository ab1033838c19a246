package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockdesk/internal/config"
	"github.com/mamadbah2/stockdesk/internal/domain/models"
	"github.com/mamadbah2/stockdesk/internal/service/reporting"
	"github.com/mamadbah2/stockdesk/pkg/clients/backend"
)

const jobTimeout = 2 * time.Minute

// Scheduler runs the unattended low-stock alert.
type Scheduler struct {
	cron         *cron.Cron
	api          backend.Client
	reportingSvc *reporting.Service
	cfg          config.AlertConfig
	logger       *zap.Logger
	now          func() time.Time
}

// NewScheduler creates a new scheduler instance in the configured timezone.
func NewScheduler(cfg config.AlertConfig, api backend.Client, reportingSvc *reporting.Service, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}

	return &Scheduler{
		cron:         cron.New(cron.WithLocation(loc)),
		api:          api,
		reportingSvc: reportingSvc,
		cfg:          cfg,
		logger:       logger,
		now:          time.Now,
	}, nil
}

// Start registers the alert job and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.runLowStockAlert); err != nil {
		return fmt.Errorf("schedule low stock alert %q: %w", s.cfg.CronSchedule, err)
	}

	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule), zap.String("timezone", s.cfg.Timezone))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runLowStockAlert() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	sent, err := s.SendLowStockAlert(ctx)
	switch {
	case err != nil:
		s.logger.Error("low stock alert failed", zap.Error(err))
	case sent == 0:
		s.logger.Info("no low stock items, alert skipped")
	default:
		s.logger.Info("low stock alert sent", zap.Int("items", sent), zap.String("recipient", s.cfg.Recipient))
	}
}

// SendLowStockAlert signs in with the service account, emails the alert
// template when items are low and records a snapshot. It returns the number
// of low-stock items reported.
func (s *Scheduler) SendLowStockAlert(ctx context.Context) (int, error) {
	identity, err := s.api.Login(ctx, models.LoginRequest{Username: s.cfg.Username, Password: s.cfg.Password})
	if err != nil {
		return 0, fmt.Errorf("sign in: %w", err)
	}
	if identity.Token == "" {
		return 0, fmt.Errorf("sign in: empty token")
	}

	items, err := s.api.ListInventory(ctx, identity.Token)
	if err != nil {
		return 0, fmt.Errorf("list inventory: %w", err)
	}

	lowStock := s.reportingSvc.LowStock(items)
	if len(lowStock) == 0 {
		return 0, nil
	}

	subject, body := reporting.AlertTemplate(lowStock)
	req := models.SendEmailRequest{To: s.cfg.Recipient, Subject: subject, Message: body}
	if err := s.api.SendEmail(ctx, identity.Token, req); err != nil {
		return 0, fmt.Errorf("send alert: %w", err)
	}

	if err := s.reportingSvc.RecordSnapshot(ctx, lowStock, s.now()); err != nil {
		s.logger.Warn("failed to record low stock snapshot", zap.Error(err))
	}
	return len(lowStock), nil
}
