package reporting

import (
	"fmt"
	"math"
	"strings"

	"github.com/mamadbah2/stockdesk/internal/domain/models"
)

// StockLevel classifies a unit count for badges.
type StockLevel string

const (
	LevelCritical StockLevel = "critical"
	LevelWarning  StockLevel = "warning"
	LevelOK       StockLevel = "ok"
)

const (
	AlertSubject = "Low Stock Alert - Immediate Action Required"

	chartSize        = 5
	recentOrders     = 5
	chartNameLength  = 10
	unknownChartName = "Unknown"
)

// LowStock returns the items with unit strictly below threshold, in input order.
func LowStock(items []models.InventoryItem, threshold int) []models.InventoryItem {
	low := make([]models.InventoryItem, 0)
	for _, item := range items {
		if item.Unit < threshold {
			low = append(low, item)
		}
	}
	return low
}

// LowStockValue sums totalPrice over items, counting a missing total as 0.
func LowStockValue(items []models.InventoryItem) float64 {
	var sum float64
	for _, item := range items {
		sum += item.TotalValue()
	}
	return sum
}

// LowStockUnits sums the unit counts of items.
func LowStockUnits(items []models.InventoryItem) int {
	var units int
	for _, item := range items {
		units += item.Unit
	}
	return units
}

// Level maps a unit count onto a badge level.
func Level(unit, critical, warning int) StockLevel {
	switch {
	case unit < critical:
		return LevelCritical
	case unit < warning:
		return LevelWarning
	default:
		return LevelOK
	}
}

// AlertLabel is the admin table label for an item already known to be low.
func AlertLabel(unit, critical int) string {
	if unit < critical {
		return "Critical"
	}
	return "Low"
}

// AlertTemplate renders the low-stock email for the given subset.
func AlertTemplate(items []models.InventoryItem) (subject, body string) {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("- %s (%d units left)", item.ProductName, item.Unit))
	}

	body = "Dear Team,\n\nThe following items are running low on stock:\n\n" +
		strings.Join(lines, "\n") +
		"\n\nPlease arrange for restocking at your earliest convenience.\n\nBest regards,\nInventory Management System"
	return AlertSubject, body
}

// ChartRow is one bar of the dashboard stock chart.
type ChartRow struct {
	Name  string
	Stock int
	Value float64
}

// StatusCount is one slice of the order status breakdown.
type StatusCount struct {
	Label  string
	Status models.OrderStatus
	Count  int
}

// DashboardStats aggregates everything the overview page shows.
type DashboardStats struct {
	TotalItems    int
	TotalOrders   int
	TotalValue    float64
	LowStockCount int
	Chart         []ChartRow
	Breakdown     []StatusCount
	RecentOrders  []models.Order
}

var statusLabels = map[models.OrderStatus]string{
	models.OrderPlaced:            "Placed",
	models.OrderInsufficientStock: "Insufficient",
	models.OrderCancelled:         "Cancelled",
}

// Dashboard computes the overview stats. Chart rows and recent orders take the
// first entries in server order.
func Dashboard(items []models.InventoryItem, orders []models.Order, critical int) DashboardStats {
	stats := DashboardStats{
		TotalItems:    len(items),
		TotalOrders:   len(orders),
		TotalValue:    math.Round(LowStockValue(items)),
		LowStockCount: len(LowStock(items, critical)),
	}

	for _, item := range items[:min(chartSize, len(items))] {
		name := item.ProductName
		if name == "" {
			name = unknownChartName
		}
		if runes := []rune(name); len(runes) > chartNameLength {
			name = string(runes[:chartNameLength])
		}
		stats.Chart = append(stats.Chart, ChartRow{Name: name, Stock: item.Unit, Value: item.TotalValue()})
	}

	for _, status := range models.OrderStatuses {
		count := 0
		for _, order := range orders {
			if order.OrderStatus == status {
				count++
			}
		}
		stats.Breakdown = append(stats.Breakdown, StatusCount{Label: statusLabels[status], Status: status, Count: count})
	}

	stats.RecentOrders = orders[:min(recentOrders, len(orders))]
	return stats
}
