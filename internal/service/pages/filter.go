package pages

import (
	"strings"

	"github.com/mamadbah2/stockdesk/internal/domain/models"
)

// OrderFilterAll disables the status filter.
const OrderFilterAll = "ALL"

// FilterInventory keeps items whose product or model name contains term, ignoring case.
func FilterInventory(items []models.InventoryItem, term string) []models.InventoryItem {
	needle := strings.ToLower(term)
	filtered := make([]models.InventoryItem, 0, len(items))
	for _, item := range items {
		if containsFold(item.ProductName, needle) || containsFold(item.ModelName, needle) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// FilterStaff keeps members whose name, email or department contains term, ignoring case.
func FilterStaff(members []models.StaffMember, term string) []models.StaffMember {
	needle := strings.ToLower(term)
	filtered := make([]models.StaffMember, 0, len(members))
	for _, member := range members {
		if containsFold(member.Name, needle) || containsFold(member.Email, needle) || containsFold(member.Department, needle) {
			filtered = append(filtered, member)
		}
	}
	return filtered
}

// FilterOrders keeps orders with exactly the given status. An empty status or
// OrderFilterAll keeps everything. Relative order is preserved.
func FilterOrders(orders []models.Order, status string) []models.Order {
	filtered := make([]models.Order, 0, len(orders))
	for _, order := range orders {
		if status == "" || status == OrderFilterAll || string(order.OrderStatus) == status {
			filtered = append(filtered, order)
		}
	}
	return filtered
}

// NormalizeOrderFilter maps unknown filter values onto OrderFilterAll.
func NormalizeOrderFilter(status string) string {
	for _, known := range models.OrderStatuses {
		if string(known) == status {
			return status
		}
	}
	return OrderFilterAll
}

func containsFold(value, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(value), lowerNeedle)
}
