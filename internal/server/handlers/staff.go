package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/stockdesk/internal/domain/models"
	"github.com/mamadbah2/stockdesk/internal/service/pages"
	"github.com/mamadbah2/stockdesk/internal/session"
	"github.com/mamadbah2/stockdesk/pkg/clients/backend"
)

const staffPath = "/staff"

type staffData struct {
	View  pages.View[models.StaffMember]
	Query string
	ID    int64
	Draft pages.StaffDraft
}

type staffFormData struct {
	ID    int64
	Draft pages.StaffDraft
}

func staffDraftFromForm(c *gin.Context) pages.StaffDraft {
	return pages.StaffDraft{
		Name:        c.PostForm("name"),
		Email:       c.PostForm("email"),
		Password:    c.PostForm("password"),
		PhoneNumber: c.PostForm("phoneNumber"),
		Designation: c.PostForm("designation"),
		Department:  c.PostForm("department"),
		Rights:      c.PostForm("rights"),
		Status:      c.PostForm("status"),
	}
}

func (h *Handler) staffPage(c *gin.Context, status int, query string, draft pages.StaffDraft, errs map[string]string, notice *pages.Notice) {
	view, err := h.pages.Staff(c.Request.Context(), token(c), query)
	if h.abandoned(c, err) {
		return
	}

	// never echo a password back into the form
	draft.Password = ""
	data := staffData{View: view, Query: query, Draft: draft}
	h.renderForm(c, status, "staff.html", "Staff", data, errs, view.Notice, notice)
}

func (h *Handler) StaffList(c *gin.Context) {
	h.staffPage(c, http.StatusOK, c.Query("q"), pages.NewStaffDraft(), nil, nil)
}

func (h *Handler) StaffCreate(c *gin.Context) {
	draft := staffDraftFromForm(c)

	err := h.pages.AddStaff(c.Request.Context(), token(c), draft)
	if h.mutationSkipped(c, err) {
		return
	}
	if errs, ok := fieldErrors(err); ok {
		h.staffPage(c, http.StatusUnprocessableEntity, "", draft, errs, nil)
		return
	}
	if err != nil {
		h.staffPage(c, http.StatusOK, "", draft, nil, errorNotice(err, backend.OpAddStaff))
		return
	}

	h.flash(c, session.FlashSuccess, "Staff added successfully")
	h.redirect(c, staffPath)
}

func (h *Handler) StaffEdit(c *gin.Context) {
	member, ok := h.loadStaffMember(c)
	if !ok {
		return
	}
	data := staffFormData{ID: member.ID, Draft: pages.StaffDraftFrom(*member)}
	h.render(c, http.StatusOK, "staff_form.html", "Edit staff", data)
}

// StaffUpdate saves the edit form. A blank password keeps the current one.
func (h *Handler) StaffUpdate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		h.flash(c, session.FlashError, "Invalid staff id")
		h.redirect(c, staffPath)
		return
	}
	draft := staffDraftFromForm(c)

	err := h.pages.UpdateStaff(c.Request.Context(), token(c), id, draft)
	if h.mutationSkipped(c, err) {
		return
	}

	draft.Password = ""
	data := staffFormData{ID: id, Draft: draft}
	if errs, ok := fieldErrors(err); ok {
		h.renderForm(c, http.StatusUnprocessableEntity, "staff_form.html", "Edit staff", data, errs)
		return
	}
	if err != nil {
		h.render(c, http.StatusOK, "staff_form.html", "Edit staff", data, errorNotice(err, backend.OpUpdateStaff))
		return
	}

	h.flash(c, session.FlashSuccess, "Staff updated successfully")
	h.redirect(c, staffPath)
}

func (h *Handler) StaffConfirmDelete(c *gin.Context) {
	member, ok := h.loadStaffMember(c)
	if !ok {
		return
	}
	data := confirmData{
		Kind:      "staff member",
		Name:      member.Name,
		Action:    fmt.Sprintf("%s/%d/delete", staffPath, member.ID),
		CancelURL: staffPath,
	}
	h.render(c, http.StatusOK, "confirm_delete.html", "Delete staff", data)
}

func (h *Handler) StaffDelete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		h.flash(c, session.FlashError, "Invalid staff id")
		h.redirect(c, staffPath)
		return
	}
	if c.PostForm("confirmed") != "yes" {
		h.redirect(c, fmt.Sprintf("%s/%d/delete", staffPath, id))
		return
	}

	err := h.pages.DeleteStaff(c.Request.Context(), token(c), id)
	if h.mutationSkipped(c, err) {
		return
	}
	if err != nil {
		h.flash(c, session.FlashError, backend.Message(err, backend.OpDeleteStaff))
	} else {
		h.flash(c, session.FlashSuccess, "Staff deleted successfully")
	}
	h.redirect(c, staffPath)
}

func (h *Handler) loadStaffMember(c *gin.Context) (*models.StaffMember, bool) {
	id, ok := pathID(c)
	if !ok {
		h.flash(c, session.FlashError, "Invalid staff id")
		h.redirect(c, staffPath)
		return nil, false
	}

	member, err := h.pages.FindStaffMember(c.Request.Context(), token(c), id)
	if h.mutationSkipped(c, err) {
		return nil, false
	}
	switch {
	case errors.Is(err, pages.ErrNotFound):
		h.flash(c, session.FlashError, "Staff member not found")
		h.redirect(c, staffPath)
		return nil, false
	case err != nil:
		h.flash(c, session.FlashError, backend.Message(err, backend.OpListStaff))
		h.redirect(c, staffPath)
		return nil, false
	}
	return member, true
}
