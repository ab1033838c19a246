package reporting

import (
	"strings"
	"testing"

	"github.com/mamadbah2/stockdesk/internal/domain/models"
)

func price(v float64) *float64 { return &v }

func TestLowStockSubsetAndValue(t *testing.T) {
	items := []models.InventoryItem{
		{ProductID: 1, Unit: 5, TotalPrice: price(50)},
		{ProductID: 2, Unit: 30, TotalPrice: price(300)},
	}

	low := LowStock(items, 20)
	if len(low) != 1 || low[0].ProductID != 1 {
		t.Fatalf("low stock = %+v, want product 1 only", low)
	}
	if got := LowStockValue(low); got != 50 {
		t.Fatalf("value = %v, want 50", got)
	}
}

func TestLowStockBoundaryAndMissingTotal(t *testing.T) {
	items := []models.InventoryItem{
		{ProductID: 1, Unit: 19},
		{ProductID: 2, Unit: 20, TotalPrice: price(10)},
		{ProductID: 3, Unit: 0, TotalPrice: price(7.5)},
	}

	low := LowStock(items, 20)
	if len(low) != 2 || low[0].ProductID != 1 || low[1].ProductID != 3 {
		t.Fatalf("low stock = %+v", low)
	}
	if got := LowStockValue(low); got != 7.5 {
		t.Fatalf("value = %v, want 7.5", got)
	}
	if got := LowStockUnits(low); got != 19 {
		t.Fatalf("units = %d, want 19", got)
	}
	if got := LowStock(nil, 20); got == nil || len(got) != 0 {
		t.Fatalf("nil input should give empty subset, got %#v", got)
	}
}

func TestLevel(t *testing.T) {
	cases := []struct {
		unit int
		want StockLevel
	}{
		{0, LevelCritical},
		{9, LevelCritical},
		{10, LevelWarning},
		{49, LevelWarning},
		{50, LevelOK},
	}
	for _, tc := range cases {
		if got := Level(tc.unit, 10, 50); got != tc.want {
			t.Errorf("Level(%d) = %s, want %s", tc.unit, got, tc.want)
		}
	}
	if AlertLabel(9, 10) != "Critical" || AlertLabel(15, 10) != "Low" {
		t.Error("unexpected alert labels")
	}
}

func TestAlertTemplate(t *testing.T) {
	subject, body := AlertTemplate([]models.InventoryItem{
		{ProductName: "Phone", Unit: 3},
		{ProductName: "Cable", Unit: 12},
	})

	if subject != AlertSubject {
		t.Errorf("subject = %q", subject)
	}
	want := "Dear Team,\n\nThe following items are running low on stock:\n\n- Phone (3 units left)\n- Cable (12 units left)\n\nPlease arrange"
	if !strings.HasPrefix(body, want) {
		t.Errorf("body = %q", body)
	}
	if !strings.HasSuffix(body, "Best regards,\nInventory Management System") {
		t.Errorf("body signature missing: %q", body)
	}
}

func TestDashboard(t *testing.T) {
	items := []models.InventoryItem{
		{ProductName: "A very long product name", Unit: 4, TotalPrice: price(10.4)},
		{ProductName: "", Unit: 12, TotalPrice: price(20.3)},
		{ProductName: "C", Unit: 9},
		{ProductName: "D", Unit: 100},
		{ProductName: "E", Unit: 100},
		{ProductName: "F", Unit: 1},
	}
	orders := []models.Order{
		{OrderID: 1, OrderStatus: models.OrderPlaced},
		{OrderID: 2, OrderStatus: models.OrderCancelled},
		{OrderID: 3, OrderStatus: models.OrderPlaced},
		{OrderID: 4, OrderStatus: models.OrderInsufficientStock},
		{OrderID: 5, OrderStatus: models.OrderPlaced},
		{OrderID: 6, OrderStatus: models.OrderPlaced},
	}

	stats := Dashboard(items, orders, 10)

	if stats.TotalItems != 6 || stats.TotalOrders != 6 {
		t.Errorf("totals = %d/%d", stats.TotalItems, stats.TotalOrders)
	}
	if stats.TotalValue != 31 {
		t.Errorf("total value = %v, want 31", stats.TotalValue)
	}
	if stats.LowStockCount != 3 {
		t.Errorf("low stock count = %d, want 3", stats.LowStockCount)
	}
	if len(stats.Chart) != 5 || stats.Chart[0].Name != "A very lon" || stats.Chart[1].Name != "Unknown" {
		t.Errorf("chart = %+v", stats.Chart)
	}
	if stats.Breakdown[0].Count != 4 || stats.Breakdown[1].Count != 1 || stats.Breakdown[2].Count != 1 {
		t.Errorf("breakdown = %+v", stats.Breakdown)
	}
	if len(stats.RecentOrders) != 5 || stats.RecentOrders[0].OrderID != 1 {
		t.Errorf("recent = %+v", stats.RecentOrders)
	}

	empty := Dashboard(nil, nil, 10)
	if empty.TotalValue != 0 || len(empty.Chart) != 0 || len(empty.RecentOrders) != 0 {
		t.Errorf("empty dashboard = %+v", empty)
	}
}
