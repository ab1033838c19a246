package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/stockdesk/internal/domain/models"
	"github.com/mamadbah2/stockdesk/internal/service/pages"
	"github.com/mamadbah2/stockdesk/internal/service/reporting"
	"github.com/mamadbah2/stockdesk/internal/session"
	"github.com/mamadbah2/stockdesk/pkg/clients/backend"
)

const inventoryPath = "/inventory"

type inventoryRow struct {
	models.InventoryItem
	Level reporting.StockLevel
}

type inventoryData struct {
	View  pages.View[models.InventoryItem]
	Rows  []inventoryRow
	Query string
	// ID is always zero; the shared form posts to the create route.
	ID    int64
	Draft pages.InventoryDraft
}

type inventoryFormData struct {
	ID    int64
	Draft pages.InventoryDraft
}

type confirmData struct {
	Kind      string
	Name      string
	Action    string
	CancelURL string
}

func inventoryDraftFromForm(c *gin.Context) pages.InventoryDraft {
	return pages.InventoryDraft{
		ProductName:      c.PostForm("productName"),
		ModelName:        c.PostForm("modelname"),
		PricePerQuantity: c.PostForm("pricePerQuantity"),
		Unit:             c.PostForm("unit"),
		Status:           c.PostForm("status"),
	}
}

func (h *Handler) inventoryPage(c *gin.Context, status int, query string, draft pages.InventoryDraft, errs map[string]string, notice *pages.Notice) {
	view, err := h.pages.Inventory(c.Request.Context(), token(c), query)
	if h.abandoned(c, err) {
		return
	}

	levels := h.pages.Reporting()
	rows := make([]inventoryRow, 0, len(view.Filtered))
	for _, item := range view.Filtered {
		rows = append(rows, inventoryRow{InventoryItem: item, Level: levels.Level(item.Unit)})
	}

	data := inventoryData{View: view, Rows: rows, Query: query, Draft: draft}
	h.renderForm(c, status, "inventory.html", "Inventory", data, errs, view.Notice, notice)
}

// InventoryList renders the inventory table with the add form.
func (h *Handler) InventoryList(c *gin.Context) {
	h.inventoryPage(c, http.StatusOK, c.Query("q"), pages.NewInventoryDraft(), nil, nil)
}

// InventoryCreate adds an item.
func (h *Handler) InventoryCreate(c *gin.Context) {
	draft := inventoryDraftFromForm(c)

	err := h.pages.AddInventoryItem(c.Request.Context(), token(c), draft)
	if h.mutationSkipped(c, err) {
		return
	}
	if errs, ok := fieldErrors(err); ok {
		h.inventoryPage(c, http.StatusUnprocessableEntity, "", draft, errs, nil)
		return
	}
	if err != nil {
		h.inventoryPage(c, http.StatusOK, "", draft, nil, errorNotice(err, backend.OpAddItem))
		return
	}

	h.flash(c, session.FlashSuccess, "Item added successfully")
	h.redirect(c, inventoryPath)
}

// InventoryEdit renders the edit form for one item.
func (h *Handler) InventoryEdit(c *gin.Context) {
	item, ok := h.loadInventoryItem(c)
	if !ok {
		return
	}
	data := inventoryFormData{ID: item.ProductID, Draft: pages.InventoryDraftFrom(*item)}
	h.render(c, http.StatusOK, "inventory_form.html", "Edit item", data)
}

// InventoryUpdate saves the edit form.
func (h *Handler) InventoryUpdate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		h.flash(c, session.FlashError, "Invalid item id")
		h.redirect(c, inventoryPath)
		return
	}
	draft := inventoryDraftFromForm(c)
	data := inventoryFormData{ID: id, Draft: draft}

	err := h.pages.UpdateInventoryItem(c.Request.Context(), token(c), id, draft)
	if h.mutationSkipped(c, err) {
		return
	}
	if errs, ok := fieldErrors(err); ok {
		h.renderForm(c, http.StatusUnprocessableEntity, "inventory_form.html", "Edit item", data, errs)
		return
	}
	if err != nil {
		h.render(c, http.StatusOK, "inventory_form.html", "Edit item", data, errorNotice(err, backend.OpUpdateItem))
		return
	}

	h.flash(c, session.FlashSuccess, "Item updated successfully")
	h.redirect(c, inventoryPath)
}

// InventoryConfirmDelete asks for confirmation before deleting.
func (h *Handler) InventoryConfirmDelete(c *gin.Context) {
	item, ok := h.loadInventoryItem(c)
	if !ok {
		return
	}
	data := confirmData{
		Kind:      "item",
		Name:      item.ProductName,
		Action:    fmt.Sprintf("%s/%d/delete", inventoryPath, item.ProductID),
		CancelURL: inventoryPath,
	}
	h.render(c, http.StatusOK, "confirm_delete.html", "Delete item", data)
}

// InventoryDelete deletes an item once confirmed.
func (h *Handler) InventoryDelete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		h.flash(c, session.FlashError, "Invalid item id")
		h.redirect(c, inventoryPath)
		return
	}
	if c.PostForm("confirmed") != "yes" {
		h.redirect(c, fmt.Sprintf("%s/%d/delete", inventoryPath, id))
		return
	}

	err := h.pages.DeleteInventoryItem(c.Request.Context(), token(c), id)
	if h.mutationSkipped(c, err) {
		return
	}
	if err != nil {
		h.flash(c, session.FlashError, backend.Message(err, backend.OpDeleteItem))
	} else {
		h.flash(c, session.FlashSuccess, "Item deleted successfully")
	}
	h.redirect(c, inventoryPath)
}

// InventoryExport downloads the server generated CSV.
func (h *Handler) InventoryExport(c *gin.Context) {
	data, filename, err := h.pages.ExportInventory(c.Request.Context(), token(c))
	if h.mutationSkipped(c, err) {
		return
	}
	if err != nil {
		h.flash(c, session.FlashError, backend.Message(err, backend.OpExportInventory))
		h.redirect(c, inventoryPath)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, url.PathEscape(filename)))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

func (h *Handler) loadInventoryItem(c *gin.Context) (*models.InventoryItem, bool) {
	id, ok := pathID(c)
	if !ok {
		h.flash(c, session.FlashError, "Invalid item id")
		h.redirect(c, inventoryPath)
		return nil, false
	}

	item, err := h.pages.FindInventoryItem(c.Request.Context(), token(c), id)
	if h.mutationSkipped(c, err) {
		return nil, false
	}
	switch {
	case errors.Is(err, pages.ErrNotFound):
		h.flash(c, session.FlashError, "Item not found")
		h.redirect(c, inventoryPath)
		return nil, false
	case err != nil:
		h.flash(c, session.FlashError, backend.Message(err, backend.OpListInventory))
		h.redirect(c, inventoryPath)
		return nil, false
	}
	return item, true
}
