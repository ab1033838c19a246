package models

// InventoryItem mirrors one row of GET /api/inventory/getAllItem.
type InventoryItem struct {
	ProductID        int64    `json:"productId"`
	ProductName      string   `json:"productName"`
	ModelName        string   `json:"modelname"`
	PricePerQuantity float64  `json:"pricePerQuantity"`
	Unit             int      `json:"unit"`
	TotalPrice       *float64 `json:"totalPrice,omitempty"`
	Status           string   `json:"status"`
}

// TotalValue returns the server supplied total, or 0 when it was omitted.
func (i InventoryItem) TotalValue() float64 {
	if i.TotalPrice == nil {
		return 0
	}
	return *i.TotalPrice
}

// DefaultInventoryStatus is shown and submitted when an item has no status.
const DefaultInventoryStatus = "Available"

// DisplayStatus falls back to DefaultInventoryStatus.
func (i InventoryItem) DisplayStatus() string {
	if i.Status == "" {
		return DefaultInventoryStatus
	}
	return i.Status
}

// InventoryPayload is the body of the add and update item endpoints.
type InventoryPayload struct {
	ProductName      string  `json:"productName"`
	ModelName        string  `json:"modelname"`
	PricePerQuantity float64 `json:"pricePerQuantity"`
	Unit             int     `json:"unit"`
	Status           string  `json:"status"`
}
