package pages

import (
	"fmt"
	"math"
	"net/mail"
	"sort"
	"strconv"
	"strings"

	"github.com/mamadbah2/stockdesk/internal/domain/models"
)

// ValidationError lists per-field problems found before a submission.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, e.Fields[field]))
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

type validator struct {
	fields map[string]string
}

func (v *validator) fail(field, message string) {
	if v.fields == nil {
		v.fields = make(map[string]string)
	}
	if _, exists := v.fields[field]; !exists {
		v.fields[field] = message
	}
}

func (v *validator) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.fail(field, "is required")
	}
}

func (v *validator) email(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.fail(field, "is required")
		return
	}
	// Display-name forms ("Bob <b@x.io>") parse too; only a bare address is accepted.
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != strings.TrimSpace(value) {
		v.fail(field, "must be a valid email address")
	}
}

func (v *validator) float(field, value string) float64 {
	n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		v.fail(field, "must be a number")
		return 0
	}
	if n < 0 {
		v.fail(field, "must not be negative")
	}
	return n
}

func (v *validator) integer(field, value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		v.fail(field, "must be a whole number")
		return 0
	}
	if n < 0 {
		v.fail(field, "must not be negative")
	}
	return n
}

func (v *validator) err() error {
	if len(v.fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: v.fields}
}

// LoginDraft mirrors the login form.
type LoginDraft struct {
	Username string
	Password string
}

func (d LoginDraft) Request() (models.LoginRequest, error) {
	var v validator
	v.required("username", d.Username)
	v.required("password", d.Password)
	return models.LoginRequest{Username: strings.TrimSpace(d.Username), Password: d.Password}, v.err()
}

// InventoryDraft mirrors the add/edit item form. Numbers stay text until submission.
type InventoryDraft struct {
	ProductName      string
	ModelName        string
	PricePerQuantity string
	Unit             string
	Status           string
}

// NewInventoryDraft returns an empty form with the default status.
func NewInventoryDraft() InventoryDraft {
	return InventoryDraft{Status: models.DefaultInventoryStatus}
}

// InventoryDraftFrom seeds the edit form from a record.
func InventoryDraftFrom(item models.InventoryItem) InventoryDraft {
	return InventoryDraft{
		ProductName:      item.ProductName,
		ModelName:        item.ModelName,
		PricePerQuantity: strconv.FormatFloat(item.PricePerQuantity, 'f', -1, 64),
		Unit:             strconv.Itoa(item.Unit),
		Status:           item.DisplayStatus(),
	}
}

func (d InventoryDraft) Payload() (models.InventoryPayload, error) {
	var v validator
	v.required("productName", d.ProductName)
	price := v.float("pricePerQuantity", d.PricePerQuantity)
	unit := v.integer("unit", d.Unit)

	status := strings.TrimSpace(d.Status)
	if status == "" {
		status = models.DefaultInventoryStatus
	}

	return models.InventoryPayload{
		ProductName:      d.ProductName,
		ModelName:        d.ModelName,
		PricePerQuantity: price,
		Unit:             unit,
		Status:           status,
	}, v.err()
}

// OrderDraft mirrors the place order form.
type OrderDraft struct {
	ProductName     string
	ModelName       string
	QuantityOrdered string
	CustomerName    string
	CustomerEmail   string
}

func (d OrderDraft) Request() (models.PlaceOrderRequest, error) {
	var v validator
	v.required("productName", d.ProductName)
	quantity := v.integer("quantityOrdered", d.QuantityOrdered)
	if quantity == 0 {
		v.fail("quantityOrdered", "must be at least 1")
	}
	v.required("customerName", d.CustomerName)
	v.email("customerEmail", d.CustomerEmail)

	return models.PlaceOrderRequest{
		ProductName:     d.ProductName,
		ModelName:       d.ModelName,
		QuantityOrdered: quantity,
		CustomerEmail:   d.CustomerEmail,
		CustomerName:    d.CustomerName,
	}, v.err()
}

// StaffDraft mirrors the add/edit staff form.
type StaffDraft struct {
	Name        string
	Email       string
	Password    string
	PhoneNumber string
	Designation string
	Department  string
	Rights      string
	Status      string
}

// NewStaffDraft returns an empty form with the default selects.
func NewStaffDraft() StaffDraft {
	return StaffDraft{Rights: string(models.RoleStaff), Status: string(models.StaffActive)}
}

// StaffDraftFrom seeds the edit form from a record. The password stays blank.
func StaffDraftFrom(member models.StaffMember) StaffDraft {
	rights := member.Rights
	if rights == "" {
		rights = models.RoleStaff
	}
	status := member.Status
	if status == "" {
		status = models.StaffActive
	}
	return StaffDraft{
		Name:        member.Name,
		Email:       member.Email,
		PhoneNumber: member.PhoneNumber,
		Designation: member.Designation,
		Department:  member.Department,
		Rights:      string(rights),
		Status:      string(status),
	}
}

// CreatePayload requires a password.
func (d StaffDraft) CreatePayload() (models.StaffPayload, error) {
	return d.payload(true)
}

// UpdatePayload drops a blank password so the stored credential is kept.
func (d StaffDraft) UpdatePayload() (models.StaffPayload, error) {
	return d.payload(false)
}

func (d StaffDraft) payload(passwordRequired bool) (models.StaffPayload, error) {
	var v validator
	v.required("name", d.Name)
	v.email("email", d.Email)
	if passwordRequired {
		v.required("password", d.Password)
	}
	rights := parseRole(&v, "rights", d.Rights)

	status := models.StaffStatus(d.Status)
	if status != models.StaffActive && status != models.StaffInactive {
		v.fail("status", "must be ACTIVE or INACTIVE")
	}

	return models.StaffPayload{
		Name:        d.Name,
		Email:       d.Email,
		Password:    d.Password,
		PhoneNumber: d.PhoneNumber,
		Designation: d.Designation,
		Department:  d.Department,
		Rights:      rights,
		Status:      status,
	}, v.err()
}

// RegisterDraft mirrors the public registration form.
type RegisterDraft struct {
	Name        string
	Email       string
	Password    string
	PhoneNumber string
	Designation string
	Department  string
	Rights      string
}

func NewRegisterDraft() RegisterDraft {
	return RegisterDraft{Rights: string(models.RoleStaff)}
}

func (d RegisterDraft) Request() (models.RegisterRequest, error) {
	var v validator
	v.required("name", d.Name)
	v.email("email", d.Email)
	v.required("phoneNumber", d.PhoneNumber)
	v.required("password", d.Password)
	v.required("designation", d.Designation)
	v.required("department", d.Department)
	rights := parseRole(&v, "rights", d.Rights)

	return models.RegisterRequest{
		Name:        d.Name,
		Email:       d.Email,
		Password:    d.Password,
		PhoneNumber: d.PhoneNumber,
		Designation: d.Designation,
		Department:  d.Department,
		Rights:      rights,
	}, v.err()
}

// EmailDraft mirrors the admin email composer.
type EmailDraft struct {
	Recipient string
	Subject   string
	Message   string
}

func (d EmailDraft) Request() (models.SendEmailRequest, error) {
	var v validator
	v.email("recipient", d.Recipient)
	v.required("subject", d.Subject)
	v.required("message", d.Message)
	return models.SendEmailRequest{To: d.Recipient, Subject: d.Subject, Message: d.Message}, v.err()
}

func parseRole(v *validator, field, value string) models.Role {
	role := models.Role(value)
	if role != models.RoleAdmin && role != models.RoleStaff {
		v.fail(field, "must be STAFF or ADMIN")
	}
	return role
}
