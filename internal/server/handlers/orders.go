package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/stockdesk/internal/domain/models"
	"github.com/mamadbah2/stockdesk/internal/service/pages"
	"github.com/mamadbah2/stockdesk/internal/session"
	"github.com/mamadbah2/stockdesk/pkg/clients/backend"
)

const ordersPath = "/orders"

type ordersData struct {
	View     pages.View[models.Order]
	Status   string
	Statuses []models.OrderStatus
	Draft    pages.OrderDraft
}

func (h *Handler) ordersPage(c *gin.Context, status int, filter string, draft pages.OrderDraft, errs map[string]string, notice *pages.Notice) {
	filter = pages.NormalizeOrderFilter(filter)
	view, err := h.pages.Orders(c.Request.Context(), token(c), filter)
	if h.abandoned(c, err) {
		return
	}

	data := ordersData{View: view, Status: filter, Statuses: models.OrderStatuses, Draft: draft}
	h.renderForm(c, status, "orders.html", "Orders", data, errs, view.Notice, notice)
}

// OrdersList renders the orders table with the status filter and place form.
func (h *Handler) OrdersList(c *gin.Context) {
	h.ordersPage(c, http.StatusOK, c.Query("status"), pages.OrderDraft{}, nil, nil)
}

// OrderCreate places an order. A rejected placement keeps the form filled.
func (h *Handler) OrderCreate(c *gin.Context) {
	draft := pages.OrderDraft{
		ProductName:     c.PostForm("productName"),
		ModelName:       c.PostForm("modelName"),
		QuantityOrdered: c.PostForm("quantityOrdered"),
		CustomerName:    c.PostForm("customerName"),
		CustomerEmail:   c.PostForm("customerEmail"),
	}

	err := h.pages.PlaceOrder(c.Request.Context(), token(c), draft)
	if h.mutationSkipped(c, err) {
		return
	}
	if errs, ok := fieldErrors(err); ok {
		h.ordersPage(c, http.StatusUnprocessableEntity, "", draft, errs, nil)
		return
	}
	if err != nil {
		h.ordersPage(c, http.StatusOK, "", draft, nil, errorNotice(err, backend.OpPlaceOrder))
		return
	}

	h.flash(c, session.FlashSuccess, "Order placed successfully")
	h.redirect(c, ordersPath)
}
