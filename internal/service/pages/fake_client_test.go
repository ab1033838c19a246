package pages

import (
	"context"
	"sync"

	"github.com/mamadbah2/stockdesk/internal/domain/models"
	"github.com/mamadbah2/stockdesk/pkg/clients/backend"
)

// fakeClient records calls and returns canned data.
type fakeClient struct {
	mu    sync.Mutex
	calls []string

	inventory    []models.InventoryItem
	inventoryErr error
	orders       []models.Order
	ordersErr    error
	staff        []models.StaffMember
	placeResult  *models.PlaceOrderResult
	sendErr      error

	lastStaffPayload *models.StaffPayload
	lastEmail        *models.SendEmailRequest
	beforeReturn     func()
}

func (f *fakeClient) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeClient) Login(_ context.Context, req models.LoginRequest) (*models.Identity, error) {
	f.record("Login")
	return &models.Identity{Name: req.Username, Role: models.RoleStaff, Token: "tok"}, nil
}

func (f *fakeClient) Register(context.Context, models.RegisterRequest) error {
	f.record("Register")
	return nil
}

func (f *fakeClient) ListInventory(context.Context, string) ([]models.InventoryItem, error) {
	f.record("ListInventory")
	if f.beforeReturn != nil {
		f.beforeReturn()
	}
	return f.inventory, f.inventoryErr
}

func (f *fakeClient) AddInventoryItem(context.Context, string, models.InventoryPayload) (*models.InventoryItem, error) {
	f.record("AddInventoryItem")
	return &models.InventoryItem{}, nil
}

func (f *fakeClient) UpdateInventoryItem(context.Context, string, int64, models.InventoryPayload) (*models.InventoryItem, error) {
	f.record("UpdateInventoryItem")
	return &models.InventoryItem{}, nil
}

func (f *fakeClient) DeleteInventoryItem(context.Context, string, int64) (string, error) {
	f.record("DeleteInventoryItem")
	return "deleted", nil
}

func (f *fakeClient) ExportInventoryCSV(context.Context, string) ([]byte, error) {
	f.record("ExportInventoryCSV")
	return []byte("a,b\n"), nil
}

func (f *fakeClient) ListOrders(context.Context, string) ([]models.Order, error) {
	f.record("ListOrders")
	return f.orders, f.ordersErr
}

func (f *fakeClient) PlaceOrder(context.Context, string, models.PlaceOrderRequest) (*models.PlaceOrderResult, error) {
	f.record("PlaceOrder")
	if f.placeResult == nil {
		return &models.PlaceOrderResult{Success: true}, nil
	}
	return f.placeResult, nil
}

func (f *fakeClient) ListStaff(context.Context, string) ([]models.StaffMember, error) {
	f.record("ListStaff")
	return f.staff, nil
}

func (f *fakeClient) AddStaff(_ context.Context, _ string, payload models.StaffPayload) (*models.StaffMember, error) {
	f.record("AddStaff")
	f.lastStaffPayload = &payload
	return &models.StaffMember{}, nil
}

func (f *fakeClient) UpdateStaff(_ context.Context, _ string, _ int64, payload models.StaffPayload) (*models.StaffMember, error) {
	f.record("UpdateStaff")
	f.lastStaffPayload = &payload
	return &models.StaffMember{}, nil
}

func (f *fakeClient) DeleteStaff(context.Context, string, int64) (string, error) {
	f.record("DeleteStaff")
	return "deleted", nil
}

func (f *fakeClient) SendEmail(_ context.Context, _ string, req models.SendEmailRequest) error {
	f.record("SendEmail")
	f.lastEmail = &req
	return f.sendErr
}

var _ backend.Client = (*fakeClient)(nil)
