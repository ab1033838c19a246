package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/stockdesk/internal/config"
	"github.com/mamadbah2/stockdesk/internal/domain/models"
)

// ErrMalformedResponse is wrapped when a 2xx body does not match the declared result shape.
var ErrMalformedResponse = errors.New("malformed response body")

// Client exposes the inventory REST service operations used by the dashboard.
// Every call is a single attempt; the caller decides how to present failures.
type Client interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.Identity, error)
	Register(ctx context.Context, req models.RegisterRequest) error

	ListInventory(ctx context.Context, token string) ([]models.InventoryItem, error)
	AddInventoryItem(ctx context.Context, token string, item models.InventoryPayload) (*models.InventoryItem, error)
	UpdateInventoryItem(ctx context.Context, token string, id int64, item models.InventoryPayload) (*models.InventoryItem, error)
	DeleteInventoryItem(ctx context.Context, token string, id int64) (string, error)
	ExportInventoryCSV(ctx context.Context, token string) ([]byte, error)

	ListOrders(ctx context.Context, token string) ([]models.Order, error)
	PlaceOrder(ctx context.Context, token string, req models.PlaceOrderRequest) (*models.PlaceOrderResult, error)

	ListStaff(ctx context.Context, token string) ([]models.StaffMember, error)
	AddStaff(ctx context.Context, token string, staff models.StaffPayload) (*models.StaffMember, error)
	UpdateStaff(ctx context.Context, token string, id int64, staff models.StaffPayload) (*models.StaffMember, error)
	DeleteStaff(ctx context.Context, token string, id int64) (string, error)

	SendEmail(ctx context.Context, token string, req models.SendEmailRequest) error
}

// Operation names double as the user facing failure text.
const (
	OpLogin           = "Login failed"
	OpRegister        = "Registration failed"
	OpListInventory   = "Failed to fetch inventory"
	OpAddItem         = "Failed to add item"
	OpUpdateItem      = "Failed to update item"
	OpDeleteItem      = "Failed to delete item"
	OpExportInventory = "Failed to export CSV"
	OpListOrders      = "Failed to fetch orders"
	OpPlaceOrder      = "Failed to place order"
	OpListStaff       = "Failed to fetch staff"
	OpAddStaff        = "Failed to add staff"
	OpUpdateStaff     = "Failed to update staff"
	OpDeleteStaff     = "Failed to delete staff"
	OpSendEmail       = "Failed to send email"
)

// APIError is returned for transport failures and non-2xx responses.
type APIError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Op
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Message extracts the text a page should show for err.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	if err != nil && fallback == "" {
		return err.Error()
	}
	return fallback
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
}

// NewClient builds a REST client against the configured base URL.
func NewClient(cfg config.BackendConfig) *APIClient {
	restyClient := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Accept", "application/json")

	return &APIClient{httpClient: restyClient}
}

func (c *APIClient) request(ctx context.Context, token string) *resty.Request {
	req := c.httpClient.R().SetContext(ctx)
	if token != "" {
		req.SetAuthToken(token)
	}
	return req
}

func (c *APIClient) withBody(ctx context.Context, token string, body any) *resty.Request {
	return c.request(ctx, token).
		SetHeader("Content-Type", "application/json").
		SetBody(body)
}

func (c *APIClient) Login(ctx context.Context, req models.LoginRequest) (*models.Identity, error) {
	resp, err := c.withBody(ctx, "", req).Post("/api/auth/login")
	if err := check(OpLogin, resp, err); err != nil {
		return nil, err
	}

	identity := new(models.Identity)
	if err := decode(OpLogin, resp, identity); err != nil {
		return nil, err
	}
	return identity, nil
}

// Register surfaces the response body as the error text, unlike every other call.
func (c *APIClient) Register(ctx context.Context, req models.RegisterRequest) error {
	resp, err := c.withBody(ctx, "", req).Post("/api/auth/register")
	if err != nil {
		return &APIError{Op: OpRegister, Err: err}
	}
	if !resp.IsSuccess() {
		return &APIError{
			Op:         OpRegister,
			StatusCode: resp.StatusCode(),
			Message:    strings.TrimSpace(resp.String()),
		}
	}
	return decodeAck(OpRegister, resp)
}

func (c *APIClient) ListInventory(ctx context.Context, token string) ([]models.InventoryItem, error) {
	resp, err := c.request(ctx, token).Get("/api/inventory/getAllItem")
	if err := check(OpListInventory, resp, err); err != nil {
		return nil, err
	}

	var items []models.InventoryItem
	if err := decode(OpListInventory, resp, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *APIClient) AddInventoryItem(ctx context.Context, token string, item models.InventoryPayload) (*models.InventoryItem, error) {
	resp, err := c.withBody(ctx, token, item).Post("/api/inventory/addItem")
	if err := check(OpAddItem, resp, err); err != nil {
		return nil, err
	}

	created := new(models.InventoryItem)
	if err := decode(OpAddItem, resp, created); err != nil {
		return nil, err
	}
	return created, nil
}

func (c *APIClient) UpdateInventoryItem(ctx context.Context, token string, id int64, item models.InventoryPayload) (*models.InventoryItem, error) {
	resp, err := c.withBody(ctx, token, item).Put(fmt.Sprintf("/api/inventory/updateItem/%d", id))
	if err := check(OpUpdateItem, resp, err); err != nil {
		return nil, err
	}

	updated := new(models.InventoryItem)
	if err := decode(OpUpdateItem, resp, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (c *APIClient) DeleteInventoryItem(ctx context.Context, token string, id int64) (string, error) {
	resp, err := c.request(ctx, token).Delete(fmt.Sprintf("/api/inventory/deleteItem/%d", id))
	if err := check(OpDeleteItem, resp, err); err != nil {
		return "", err
	}
	return resp.String(), nil
}

func (c *APIClient) ExportInventoryCSV(ctx context.Context, token string) ([]byte, error) {
	resp, err := c.request(ctx, token).
		SetHeader("Accept", "text/csv, application/octet-stream").
		Get("/api/inventory/export/csv")
	if err := check(OpExportInventory, resp, err); err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

func (c *APIClient) ListOrders(ctx context.Context, token string) ([]models.Order, error) {
	resp, err := c.request(ctx, token).Get("/api/orders/all")
	if err := check(OpListOrders, resp, err); err != nil {
		return nil, err
	}

	var orders []models.Order
	if err := decode(OpListOrders, resp, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *APIClient) PlaceOrder(ctx context.Context, token string, req models.PlaceOrderRequest) (*models.PlaceOrderResult, error) {
	resp, err := c.withBody(ctx, token, req).Post("/api/orders/place")
	if err := check(OpPlaceOrder, resp, err); err != nil {
		return nil, err
	}

	result := new(models.PlaceOrderResult)
	if err := decode(OpPlaceOrder, resp, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *APIClient) ListStaff(ctx context.Context, token string) ([]models.StaffMember, error) {
	resp, err := c.request(ctx, token).Get("/api/staff/getAllStaff")
	if err := check(OpListStaff, resp, err); err != nil {
		return nil, err
	}

	var staff []models.StaffMember
	if err := decode(OpListStaff, resp, &staff); err != nil {
		return nil, err
	}
	return staff, nil
}

func (c *APIClient) AddStaff(ctx context.Context, token string, staff models.StaffPayload) (*models.StaffMember, error) {
	resp, err := c.withBody(ctx, token, staff).Post("/api/staff/addStaff")
	if err := check(OpAddStaff, resp, err); err != nil {
		return nil, err
	}

	created := new(models.StaffMember)
	if err := decode(OpAddStaff, resp, created); err != nil {
		return nil, err
	}
	return created, nil
}

func (c *APIClient) UpdateStaff(ctx context.Context, token string, id int64, staff models.StaffPayload) (*models.StaffMember, error) {
	resp, err := c.withBody(ctx, token, staff).Put(fmt.Sprintf("/api/staff/updateStaff/%d", id))
	if err := check(OpUpdateStaff, resp, err); err != nil {
		return nil, err
	}

	updated := new(models.StaffMember)
	if err := decode(OpUpdateStaff, resp, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (c *APIClient) DeleteStaff(ctx context.Context, token string, id int64) (string, error) {
	resp, err := c.request(ctx, token).Delete(fmt.Sprintf("/api/staff/deleteStaff/%d", id))
	if err := check(OpDeleteStaff, resp, err); err != nil {
		return "", err
	}
	return resp.String(), nil
}

func (c *APIClient) SendEmail(ctx context.Context, token string, req models.SendEmailRequest) error {
	resp, err := c.withBody(ctx, token, req).Post("/api/admin/send-email")
	if err := check(OpSendEmail, resp, err); err != nil {
		return err
	}
	return decodeAck(OpSendEmail, resp)
}

func check(op string, resp *resty.Response, err error) error {
	if err != nil {
		return &APIError{Op: op, Err: err}
	}
	if !resp.IsSuccess() {
		return &APIError{Op: op, StatusCode: resp.StatusCode()}
	}
	return nil
}

func decode(op string, resp *resty.Response, out any) error {
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return &APIError{
			Op:         op,
			StatusCode: resp.StatusCode(),
			Err:        fmt.Errorf("%w: %v", ErrMalformedResponse, err),
		}
	}
	return nil
}

// decodeAck accepts an empty body or any well-formed JSON document.
func decodeAck(op string, resp *resty.Response) error {
	body := bytes.TrimSpace(resp.Body())
	if len(body) == 0 || resp.StatusCode() == http.StatusNoContent {
		return nil
	}
	if !json.Valid(body) {
		return &APIError{Op: op, StatusCode: resp.StatusCode(), Err: ErrMalformedResponse}
	}
	return nil
}
