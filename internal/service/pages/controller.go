package pages

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mamadbah2/stockdesk/internal/domain/models"
	"github.com/mamadbah2/stockdesk/internal/service/emaillog"
	"github.com/mamadbah2/stockdesk/internal/service/reporting"
	"github.com/mamadbah2/stockdesk/pkg/clients/backend"
)

// ErrNoSession is returned by mutations attempted without a token. Callers
// treat it as a silent no-op.
var ErrNoSession = errors.New("no session token")

// ErrNotFound is returned when a record id is not in the listing.
var ErrNotFound = errors.New("record not found")

// Controller implements the fetch and mutate logic behind every page.
type Controller struct {
	api       backend.Client
	reporting *reporting.Service
	emails    emaillog.Log
	logger    *zap.Logger
	now       func() time.Time
}

// NewController wires the page controller.
func NewController(api backend.Client, reportingSvc *reporting.Service, emails emaillog.Log, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		api:       api,
		reporting: reportingSvc,
		emails:    emails,
		logger:    logger,
		now:       time.Now,
	}
}

// Reporting exposes the threshold helpers to the presentation layer.
func (c *Controller) Reporting() *reporting.Service {
	return c.reporting
}

// fetch loads a collection with the shared page semantics. The returned error
// is only non-nil when ctx ended before the result could be used.
func fetch[T any](ctx context.Context, logger *zap.Logger, token, failure string, load func(context.Context, string) ([]T, error)) (View[T], error) {
	if token == "" {
		return View[T]{Phase: Ready, Items: []T{}}, nil
	}

	items, err := load(ctx, token)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return View[T]{Phase: Loading}, ctxErr
	}
	if err != nil {
		logger.Warn("fetch failed", zap.String("op", failure), zap.Error(err))
		return View[T]{
			Phase:  Ready,
			Items:  []T{},
			Notice: &Notice{Kind: NoticeError, Message: backend.Message(err, failure)},
		}, nil
	}
	if items == nil {
		items = []T{}
	}
	return View[T]{Phase: Ready, Items: items}, nil
}

// Inventory fetches the inventory and applies the search term.
func (c *Controller) Inventory(ctx context.Context, token, term string) (View[models.InventoryItem], error) {
	view, err := fetch(ctx, c.logger, token, backend.OpListInventory, c.api.ListInventory)
	view.Filtered = FilterInventory(view.Items, term)
	return view, err
}

// Orders fetches orders and applies the status filter.
func (c *Controller) Orders(ctx context.Context, token, status string) (View[models.Order], error) {
	view, err := fetch(ctx, c.logger, token, backend.OpListOrders, c.api.ListOrders)
	view.Filtered = FilterOrders(view.Items, status)
	return view, err
}

// Staff fetches staff members and applies the search term.
func (c *Controller) Staff(ctx context.Context, token, term string) (View[models.StaffMember], error) {
	view, err := fetch(ctx, c.logger, token, backend.OpListStaff, c.api.ListStaff)
	view.Filtered = FilterStaff(view.Items, term)
	return view, err
}

// DashboardView is the overview page state.
type DashboardView struct {
	Phase  Phase
	Stats  reporting.DashboardStats
	Notice *Notice
}

// Dashboard loads inventory and orders concurrently. If either call fails both
// results are discarded.
func (c *Controller) Dashboard(ctx context.Context, token string) (DashboardView, error) {
	if token == "" {
		return DashboardView{Phase: Ready, Stats: c.reporting.Dashboard(nil, nil)}, nil
	}

	var (
		items  []models.InventoryItem
		orders []models.Order
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = c.api.ListInventory(gctx, token)
		return err
	})
	g.Go(func() error {
		var err error
		orders, err = c.api.ListOrders(gctx, token)
		return err
	})
	err := g.Wait()

	if ctxErr := ctx.Err(); ctxErr != nil {
		return DashboardView{Phase: Loading}, ctxErr
	}
	if err != nil {
		c.logger.Warn("dashboard fetch failed", zap.Error(err))
		return DashboardView{
			Phase:  Ready,
			Stats:  c.reporting.Dashboard(nil, nil),
			Notice: &Notice{Kind: NoticeError, Message: backend.Message(err, "Failed to fetch data")},
		}, nil
	}

	return DashboardView{Phase: Ready, Stats: c.reporting.Dashboard(items, orders)}, nil
}

// AdminView is the admin tools page state.
type AdminView struct {
	Phase         Phase
	LowStock      []models.InventoryItem
	LowStockValue float64
	LowStockUnits int
	History       []models.SentEmailRecord
	Notice        *Notice
}

// AdminTools loads the low-stock subset and the profile's email history.
func (c *Controller) AdminTools(ctx context.Context, token, profileID string) (AdminView, error) {
	inventory, err := fetch(ctx, c.logger, token, backend.OpListInventory, c.api.ListInventory)
	if err != nil {
		return AdminView{Phase: Loading}, err
	}

	low := c.reporting.LowStock(inventory.Items)
	view := AdminView{
		Phase:         Ready,
		LowStock:      low,
		LowStockValue: reporting.LowStockValue(low),
		LowStockUnits: reporting.LowStockUnits(low),
		Notice:        inventory.Notice,
	}

	history, err := c.emails.List(ctx, profileID)
	if err != nil {
		c.logger.Error("failed to load email history", zap.String("profile_id", profileID), zap.Error(err))
		history = []models.SentEmailRecord{}
	}
	view.History = history
	return view, nil
}

// LowStockAlert builds the alert email pre-fill from the current low-stock
// subset. The recipient is left blank. ok is false when nothing is low.
func (c *Controller) LowStockAlert(ctx context.Context, token string) (draft EmailDraft, ok bool, err error) {
	if token == "" {
		return EmailDraft{}, false, ErrNoSession
	}
	items, err := c.api.ListInventory(ctx, token)
	if err != nil {
		return EmailDraft{}, false, err
	}

	low := c.reporting.LowStock(items)
	if len(low) == 0 {
		return EmailDraft{}, false, nil
	}

	subject, body := reporting.AlertTemplate(low)
	return EmailDraft{Subject: subject, Message: body}, true, nil
}

// submit runs one mutation and logs the phase transitions around it.
func (c *Controller) submit(ctx context.Context, token, action string, fn func(ctx context.Context) error) error {
	if token == "" {
		return ErrNoSession
	}
	c.logger.Debug("page phase", zap.String("action", action), zap.Stringer("phase", Submitting))
	err := fn(ctx)
	c.logger.Debug("page phase", zap.String("action", action), zap.Stringer("phase", Ready), zap.Bool("ok", err == nil))
	if err != nil {
		c.logger.Warn("mutation failed", zap.String("action", action), zap.Error(err))
	}
	return err
}

// Login authenticates against the remote service. The caller stores the session.
func (c *Controller) Login(ctx context.Context, draft LoginDraft) (*models.Identity, error) {
	req, err := draft.Request()
	if err != nil {
		return nil, err
	}
	identity, err := c.api.Login(ctx, req)
	if err != nil {
		return nil, err
	}
	return identity, nil
}

func (c *Controller) Register(ctx context.Context, draft RegisterDraft) error {
	req, err := draft.Request()
	if err != nil {
		return err
	}
	return c.api.Register(ctx, req)
}

func (c *Controller) AddInventoryItem(ctx context.Context, token string, draft InventoryDraft) error {
	payload, err := draft.Payload()
	if err != nil {
		return err
	}
	return c.submit(ctx, token, "add_item", func(ctx context.Context) error {
		_, err := c.api.AddInventoryItem(ctx, token, payload)
		return err
	})
}

func (c *Controller) UpdateInventoryItem(ctx context.Context, token string, id int64, draft InventoryDraft) error {
	payload, err := draft.Payload()
	if err != nil {
		return err
	}
	return c.submit(ctx, token, "update_item", func(ctx context.Context) error {
		_, err := c.api.UpdateInventoryItem(ctx, token, id, payload)
		return err
	})
}

func (c *Controller) DeleteInventoryItem(ctx context.Context, token string, id int64) error {
	return c.submit(ctx, token, "delete_item", func(ctx context.Context) error {
		_, err := c.api.DeleteInventoryItem(ctx, token, id)
		return err
	})
}

// ExportInventory returns the CSV document and its download name.
func (c *Controller) ExportInventory(ctx context.Context, token string) ([]byte, string, error) {
	var data []byte
	err := c.submit(ctx, token, "export_inventory", func(ctx context.Context) error {
		var err error
		data, err = c.api.ExportInventoryCSV(ctx, token)
		return err
	})
	if err != nil {
		return nil, "", err
	}
	return data, fmt.Sprintf("inventory_%s.csv", c.now().UTC().Format("2006-01-02")), nil
}

// PlaceOrder submits the order. A rejected placement returns its server
// message as an error.
func (c *Controller) PlaceOrder(ctx context.Context, token string, draft OrderDraft) error {
	req, err := draft.Request()
	if err != nil {
		return err
	}
	return c.submit(ctx, token, "place_order", func(ctx context.Context) error {
		result, err := c.api.PlaceOrder(ctx, token, req)
		if err != nil {
			return err
		}
		if !result.Success {
			message := result.Message
			if message == "" {
				message = backend.OpPlaceOrder
			}
			return &backend.APIError{Op: backend.OpPlaceOrder, Message: message}
		}
		return nil
	})
}

func (c *Controller) AddStaff(ctx context.Context, token string, draft StaffDraft) error {
	payload, err := draft.CreatePayload()
	if err != nil {
		return err
	}
	return c.submit(ctx, token, "add_staff", func(ctx context.Context) error {
		_, err := c.api.AddStaff(ctx, token, payload)
		return err
	})
}

func (c *Controller) UpdateStaff(ctx context.Context, token string, id int64, draft StaffDraft) error {
	payload, err := draft.UpdatePayload()
	if err != nil {
		return err
	}
	return c.submit(ctx, token, "update_staff", func(ctx context.Context) error {
		_, err := c.api.UpdateStaff(ctx, token, id, payload)
		return err
	})
}

func (c *Controller) DeleteStaff(ctx context.Context, token string, id int64) error {
	return c.submit(ctx, token, "delete_staff", func(ctx context.Context) error {
		_, err := c.api.DeleteStaff(ctx, token, id)
		return err
	})
}

// SendEmail sends the composed email and appends the attempt to the profile's
// log whether or not the send succeeded. The send error is returned.
func (c *Controller) SendEmail(ctx context.Context, token, profileID string, draft EmailDraft) error {
	req, err := draft.Request()
	if err != nil {
		return err
	}

	sendErr := c.submit(ctx, token, "send_email", func(ctx context.Context) error {
		return c.api.SendEmail(ctx, token, req)
	})
	if errors.Is(sendErr, ErrNoSession) {
		return sendErr
	}

	record := emaillog.NewRecord(req, sendErr, c.now().UTC())
	if err := c.emails.Append(context.WithoutCancel(ctx), profileID, record); err != nil {
		c.logger.Error("failed to append email log", zap.String("profile_id", profileID), zap.Error(err))
	}
	return sendErr
}

// FindInventoryItem looks an item up by id in a fresh listing.
func (c *Controller) FindInventoryItem(ctx context.Context, token string, id int64) (*models.InventoryItem, error) {
	if token == "" {
		return nil, ErrNoSession
	}
	items, err := c.api.ListInventory(ctx, token)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ProductID == id {
			return &items[i], nil
		}
	}
	return nil, ErrNotFound
}

// FindStaffMember looks a member up by id in a fresh listing.
func (c *Controller) FindStaffMember(ctx context.Context, token string, id int64) (*models.StaffMember, error) {
	if token == "" {
		return nil, ErrNoSession
	}
	members, err := c.api.ListStaff(ctx, token)
	if err != nil {
		return nil, err
	}
	for i := range members {
		if members[i].ID == id {
			return &members[i], nil
		}
	}
	return nil, ErrNotFound
}
