package models

import "time"

// OrderStatus is assigned by the server once a placement attempt validated stock.
type OrderStatus string

const (
	OrderPlaced            OrderStatus = "PLACED"
	OrderInsufficientStock OrderStatus = "INSUFFICIENT_STOCK"
	OrderCancelled         OrderStatus = "CANCELLED"
)

// OrderStatuses lists the statuses in display order.
var OrderStatuses = []OrderStatus{OrderPlaced, OrderInsufficientStock, OrderCancelled}

// Order mirrors one row of GET /api/orders/all.
type Order struct {
	OrderID         int64       `json:"orderId"`
	ProductName     string      `json:"productName"`
	ModelName       string      `json:"modelName"`
	QuantityOrdered int         `json:"quantityOrdered"`
	CustomerName    string      `json:"customerName"`
	CustomerEmail   string      `json:"customerEmail"`
	TotalAmount     *float64    `json:"totalAmount,omitempty"`
	OrderStatus     OrderStatus `json:"orderStatus"`
	OrderDate       *time.Time  `json:"orderDate,omitempty"`
}

// Amount returns the total amount or 0 when the server omitted it.
func (o Order) Amount() float64 {
	if o.TotalAmount == nil {
		return 0
	}
	return *o.TotalAmount
}

// PlaceOrderRequest is the body of POST /api/orders/place.
type PlaceOrderRequest struct {
	ProductName     string `json:"productName"`
	ModelName       string `json:"modelName"`
	QuantityOrdered int    `json:"quantityOrdered"`
	CustomerEmail   string `json:"customerEmail"`
	CustomerName    string `json:"customerName"`
}

// PlaceOrderResult is the envelope returned by POST /api/orders/place.
type PlaceOrderResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
