package reporting

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/stockdesk/internal/config"
	"github.com/mamadbah2/stockdesk/internal/domain/models"
	repo "github.com/mamadbah2/stockdesk/internal/repository/sheets"
)

const dateLayout = "2006-01-02"

// Service applies the configured thresholds and optionally records low-stock
// snapshots to a spreadsheet.
type Service struct {
	thresholds config.ThresholdConfig
	sheet      repo.Repository
	sheetRange string
	logger     *zap.Logger
}

// NewService wires a new reporting service instance. sheet may be nil.
func NewService(thresholds config.ThresholdConfig, sheet repo.Repository, sheetRange string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{thresholds: thresholds, sheet: sheet, sheetRange: sheetRange, logger: logger}
}

func (s *Service) Thresholds() config.ThresholdConfig {
	return s.thresholds
}

// LowStock returns the alerting subset.
func (s *Service) LowStock(items []models.InventoryItem) []models.InventoryItem {
	return LowStock(items, s.thresholds.LowStock)
}

func (s *Service) Dashboard(items []models.InventoryItem, orders []models.Order) DashboardStats {
	return Dashboard(items, orders, s.thresholds.Critical)
}

func (s *Service) Level(unit int) StockLevel {
	return Level(unit, s.thresholds.Critical, s.thresholds.Warning)
}

func (s *Service) AlertLabel(unit int) string {
	return AlertLabel(unit, s.thresholds.Critical)
}

// RecordSnapshot appends one row per low-stock item: date, product, model, units, value.
// It is a no-op when no sheet is configured or nothing is low.
func (s *Service) RecordSnapshot(ctx context.Context, lowStock []models.InventoryItem, at time.Time) error {
	if s.sheet == nil || len(lowStock) == 0 {
		return nil
	}

	date := at.Format(dateLayout)
	rows := make([][]interface{}, 0, len(lowStock))
	for _, item := range lowStock {
		rows = append(rows, []interface{}{date, item.ProductName, item.ModelName, item.Unit, item.TotalValue()})
	}

	if err := s.sheet.AppendRows(ctx, s.sheetRange, rows); err != nil {
		return fmt.Errorf("record low stock snapshot: %w", err)
	}
	s.logger.Info("low stock snapshot recorded", zap.Int("items", len(rows)), zap.String("date", date))
	return nil
}
