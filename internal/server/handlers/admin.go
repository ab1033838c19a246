package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/stockdesk/internal/domain/models"
	"github.com/mamadbah2/stockdesk/internal/service/pages"
	"github.com/mamadbah2/stockdesk/internal/session"
	"github.com/mamadbah2/stockdesk/pkg/clients/backend"
)

const adminPath = "/admin-features"

type lowStockRow struct {
	models.InventoryItem
	Label string
}

type adminData struct {
	View  pages.AdminView
	Rows  []lowStockRow
	Draft pages.EmailDraft
}

func emailDraftFromForm(c *gin.Context) pages.EmailDraft {
	return pages.EmailDraft{
		Recipient: c.PostForm("recipient"),
		Subject:   c.PostForm("subject"),
		Message:   c.PostForm("message"),
	}
}

func (h *Handler) adminPage(c *gin.Context, status int, draft pages.EmailDraft, errs map[string]string, notice *pages.Notice) {
	view, err := h.pages.AdminTools(c.Request.Context(), token(c), profileID(c))
	if h.abandoned(c, err) {
		return
	}

	levels := h.pages.Reporting()
	rows := make([]lowStockRow, 0, len(view.LowStock))
	for _, item := range view.LowStock {
		rows = append(rows, lowStockRow{InventoryItem: item, Label: levels.AlertLabel(item.Unit)})
	}

	data := adminData{View: view, Rows: rows, Draft: draft}
	h.renderForm(c, status, "admin.html", "Admin Tools", data, errs, view.Notice, notice)
}

// AdminFeatures renders low stock, the email composer and the send history.
func (h *Handler) AdminFeatures(c *gin.Context) {
	h.adminPage(c, http.StatusOK, pages.EmailDraft{}, nil, nil)
}

// AdminSendEmail sends the composed email. Failed attempts are logged and keep the form filled.
func (h *Handler) AdminSendEmail(c *gin.Context) {
	draft := emailDraftFromForm(c)

	err := h.pages.SendEmail(c.Request.Context(), token(c), profileID(c), draft)
	if errors.Is(err, pages.ErrNoSession) {
		h.flash(c, session.FlashError, "Authentication required")
		h.redirect(c, adminPath)
		return
	}
	if h.mutationSkipped(c, err) {
		return
	}
	if errs, ok := fieldErrors(err); ok {
		h.adminPage(c, http.StatusUnprocessableEntity, draft, errs, nil)
		return
	}
	if err != nil {
		h.adminPage(c, http.StatusOK, draft, nil, errorNotice(err, backend.OpSendEmail))
		return
	}

	h.flash(c, session.FlashSuccess, "Email sent successfully to "+draft.Recipient)
	h.redirect(c, adminPath)
}

// AdminLoadAlert pre-fills the composer with the low-stock alert template.
func (h *Handler) AdminLoadAlert(c *gin.Context) {
	draft, ok, err := h.pages.LowStockAlert(c.Request.Context(), token(c))
	if h.mutationSkipped(c, err) {
		return
	}
	switch {
	case err != nil:
		h.adminPage(c, http.StatusOK, emailDraftFromForm(c), nil, errorNotice(err, backend.OpListInventory))
	case !ok:
		h.adminPage(c, http.StatusOK, emailDraftFromForm(c), nil, &pages.Notice{Kind: pages.NoticeInfo, Message: "No low stock items to alert about"})
	default:
		h.adminPage(c, http.StatusOK, draft, nil, &pages.Notice{Kind: pages.NoticeSuccess, Message: "Low stock alert template loaded"})
	}
}
