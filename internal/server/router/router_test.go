package router

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/mamadbah2/stockdesk/internal/config"
	"github.com/mamadbah2/stockdesk/internal/domain/models"
	"github.com/mamadbah2/stockdesk/internal/repository/kv"
	"github.com/mamadbah2/stockdesk/internal/server/handlers"
	"github.com/mamadbah2/stockdesk/internal/server/views"
	"github.com/mamadbah2/stockdesk/internal/service/emaillog"
	"github.com/mamadbah2/stockdesk/internal/service/pages"
	"github.com/mamadbah2/stockdesk/internal/service/reporting"
	"github.com/mamadbah2/stockdesk/internal/session"
	"github.com/mamadbah2/stockdesk/pkg/clients/backend"
)

type stubBackend struct {
	mu      sync.Mutex
	calls   map[string]int
	sendErr error
}

func (s *stubBackend) hit(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls == nil {
		s.calls = map[string]int{}
	}
	s.calls[name]++
}

func (s *stubBackend) count(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[name]
}

func (s *stubBackend) Login(_ context.Context, req models.LoginRequest) (*models.Identity, error) {
	s.hit("Login")
	role := models.RoleStaff
	if req.Username == "admin" {
		role = models.RoleAdmin
	}
	return &models.Identity{Name: req.Username, Email: req.Username + "@shop.test", Role: role, Token: "tok-" + req.Username}, nil
}

func (s *stubBackend) Register(context.Context, models.RegisterRequest) error {
	s.hit("Register")
	return nil
}

func (s *stubBackend) ListInventory(context.Context, string) ([]models.InventoryItem, error) {
	s.hit("ListInventory")
	total := 50.0
	return []models.InventoryItem{
		{ProductID: 1, ProductName: "Widget", ModelName: "W1", PricePerQuantity: 10, Unit: 5, TotalPrice: &total},
		{ProductID: 2, ProductName: "Gadget", ModelName: "G1", PricePerQuantity: 10, Unit: 30},
	}, nil
}

func (s *stubBackend) AddInventoryItem(context.Context, string, models.InventoryPayload) (*models.InventoryItem, error) {
	s.hit("AddInventoryItem")
	return &models.InventoryItem{}, nil
}

func (s *stubBackend) UpdateInventoryItem(context.Context, string, int64, models.InventoryPayload) (*models.InventoryItem, error) {
	s.hit("UpdateInventoryItem")
	return &models.InventoryItem{}, nil
}

func (s *stubBackend) DeleteInventoryItem(context.Context, string, int64) (string, error) {
	s.hit("DeleteInventoryItem")
	return "deleted", nil
}

func (s *stubBackend) ExportInventoryCSV(context.Context, string) ([]byte, error) {
	s.hit("ExportInventoryCSV")
	return []byte("productName,unit\nWidget,5\n"), nil
}

func (s *stubBackend) ListOrders(context.Context, string) ([]models.Order, error) {
	s.hit("ListOrders")
	return []models.Order{{OrderID: 7, ProductName: "Widget", QuantityOrdered: 1, OrderStatus: models.OrderPlaced}}, nil
}

func (s *stubBackend) PlaceOrder(context.Context, string, models.PlaceOrderRequest) (*models.PlaceOrderResult, error) {
	s.hit("PlaceOrder")
	return &models.PlaceOrderResult{Success: true}, nil
}

func (s *stubBackend) ListStaff(context.Context, string) ([]models.StaffMember, error) {
	s.hit("ListStaff")
	return []models.StaffMember{{ID: 3, Name: "Ada", Email: "ada@shop.test", Rights: models.RoleStaff, Status: models.StaffActive}}, nil
}

func (s *stubBackend) AddStaff(context.Context, string, models.StaffPayload) (*models.StaffMember, error) {
	s.hit("AddStaff")
	return &models.StaffMember{}, nil
}

func (s *stubBackend) UpdateStaff(context.Context, string, int64, models.StaffPayload) (*models.StaffMember, error) {
	s.hit("UpdateStaff")
	return &models.StaffMember{}, nil
}

func (s *stubBackend) DeleteStaff(context.Context, string, int64) (string, error) {
	s.hit("DeleteStaff")
	return "deleted", nil
}

func (s *stubBackend) SendEmail(context.Context, string, models.SendEmailRequest) error {
	s.hit("SendEmail")
	return s.sendErr
}

var _ backend.Client = (*stubBackend)(nil)

// browser replays cookies between requests like a single browser profile.
type browser struct {
	t       *testing.T
	handler http.Handler
	cookies map[string]*http.Cookie
}

func (b *browser) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	b.t.Helper()

	var body *bytes.Reader
	if form != nil {
		body = bytes.NewReader([]byte(form.Encode()))
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range b.cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	b.handler.ServeHTTP(rec, req)

	for _, c := range rec.Result().Cookies() {
		b.cookies[c.Name] = c
	}
	return rec
}

func (b *browser) login(username string) {
	b.t.Helper()
	rec := b.do(http.MethodPost, "/login", url.Values{"username": {username}, "password": {"secret"}})
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/dashboard" {
		b.t.Fatalf("login: status %d location %q", rec.Code, rec.Header().Get("Location"))
	}
}

type fixture struct {
	api        *stubBackend
	newBrowser func() *browser
}

func setup(t *testing.T) fixture {
	t.Helper()

	api := &stubBackend{}
	store := kv.NewMemoryStore()
	emails := emaillog.NewKVLog(store)

	provider := session.NewProvider(config.SessionConfig{
		CookieName: "profile",
		AuthKey:    bytes.Repeat([]byte("a"), 32),
		CSRFKey:    bytes.Repeat([]byte("b"), 32),
		MaxAgeDays: 1,
	}, store, nil)

	reportingSvc := reporting.NewService(config.ThresholdConfig{LowStock: 20, Critical: 10, Warning: 50}, nil, "", nil)
	ctrl := pages.NewController(api, reportingSvc, emails, nil)

	tmpl, err := views.Parse()
	if err != nil {
		t.Fatalf("parse views: %v", err)
	}
	engine := New(handlers.NewHandler(ctrl, nil), provider, tmpl, nil)

	return fixture{
		api: api,
		newBrowser: func() *browser {
			return &browser{t: t, handler: engine, cookies: map[string]*http.Cookie{}}
		},
	}
}

func TestHealthz(t *testing.T) {
	f := setup(t)
	rec := f.newBrowser().do(http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestGuardedPageRedirectsToLogin(t *testing.T) {
	f := setup(t)
	rec := f.newBrowser().do(http.MethodGet, "/inventory", nil)

	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Fatalf("status %d location %q", rec.Code, rec.Header().Get("Location"))
	}
	if f.api.count("ListInventory") != 0 {
		t.Fatal("guarded page must not fetch before redirecting")
	}
}

func TestLoginShowsDashboardWithFlash(t *testing.T) {
	f := setup(t)
	b := f.newBrowser()
	b.login("clerk")

	rec := b.do(http.MethodGet, "/dashboard", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Login successful", "clerk", "Widget", "#7"} {
		if !strings.Contains(body, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}
	if strings.Contains(body, `href="/staff"`) {
		t.Error("staff nav entry shown to non-admin")
	}

	again := b.do(http.MethodGet, "/dashboard", nil)
	if strings.Contains(again.Body.String(), "Login successful") {
		t.Error("flash shown twice")
	}
}

func TestLoginPageSendsSignedInVisitorToLanding(t *testing.T) {
	f := setup(t)
	b := f.newBrowser()
	b.login("clerk")

	rec := b.do(http.MethodGet, "/login", nil)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/dashboard" {
		t.Fatalf("status %d location %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestAdminPagesRejectStaff(t *testing.T) {
	f := setup(t)
	b := f.newBrowser()
	b.login("clerk")

	for _, path := range []string{"/staff", "/admin-features"} {
		rec := b.do(http.MethodGet, path, nil)
		if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/dashboard" {
			t.Errorf("%s: status %d location %q", path, rec.Code, rec.Header().Get("Location"))
		}
	}
	if f.api.count("ListStaff") != 0 {
		t.Error("staff must not be fetched for a non-admin")
	}
}

func TestLogoutClearsSession(t *testing.T) {
	f := setup(t)
	b := f.newBrowser()
	b.login("clerk")

	rec := b.do(http.MethodPost, "/logout", nil)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Fatalf("status %d location %q", rec.Code, rec.Header().Get("Location"))
	}

	page := b.do(http.MethodGet, "/login", nil)
	if !strings.Contains(page.Body.String(), "Logged out successfully") {
		t.Error("logout flash missing")
	}

	guarded := b.do(http.MethodGet, "/dashboard", nil)
	if guarded.Code != http.StatusSeeOther {
		t.Fatalf("dashboard after logout: status %d", guarded.Code)
	}
}

func TestInventoryDeleteRequiresConfirmation(t *testing.T) {
	f := setup(t)
	b := f.newBrowser()
	b.login("clerk")

	rec := b.do(http.MethodPost, "/inventory/1/delete", url.Values{})
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/inventory/1/delete" {
		t.Fatalf("unconfirmed: status %d location %q", rec.Code, rec.Header().Get("Location"))
	}
	if f.api.count("DeleteInventoryItem") != 0 {
		t.Fatal("delete sent without confirmation")
	}

	confirm := b.do(http.MethodGet, "/inventory/1/delete", nil)
	if !strings.Contains(confirm.Body.String(), "Widget") {
		t.Error("confirmation page should name the item")
	}

	rec = b.do(http.MethodPost, "/inventory/1/delete", url.Values{"confirmed": {"yes"}})
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/inventory" {
		t.Fatalf("confirmed: status %d location %q", rec.Code, rec.Header().Get("Location"))
	}
	if f.api.count("DeleteInventoryItem") != 1 {
		t.Fatalf("delete calls = %d, want 1", f.api.count("DeleteInventoryItem"))
	}
}

func TestInventoryExportDownloadsCSV(t *testing.T) {
	f := setup(t)
	b := f.newBrowser()
	b.login("clerk")

	rec := b.do(http.MethodGet, "/inventory/export", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "inventory_") || !strings.Contains(cd, ".csv") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if !strings.HasPrefix(rec.Body.String(), "productName,unit") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestInventoryCreateRejectsNonNumericUnit(t *testing.T) {
	f := setup(t)
	b := f.newBrowser()
	b.login("clerk")

	rec := b.do(http.MethodPost, "/inventory", url.Values{
		"productName":      {"Widget"},
		"pricePerQuantity": {"1.5"},
		"unit":             {"many"},
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", rec.Code)
	}
	if f.api.count("AddInventoryItem") != 0 {
		t.Error("invalid draft must not reach the backend")
	}
}

func TestAdminEmailFailureIsLogged(t *testing.T) {
	f := setup(t)
	f.api.sendErr = &backend.APIError{Op: backend.OpSendEmail, StatusCode: http.StatusBadGateway}
	b := f.newBrowser()
	b.login("admin")

	rec := b.do(http.MethodPost, "/admin-features/email", url.Values{
		"recipient": {"ops@shop.test"},
		"subject":   {"Restock"},
		"message":   {"Please restock"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Failed to send email") {
		t.Error("failure notice missing")
	}
	if !strings.Contains(body, "ops@shop.test") {
		t.Error("draft should be kept after a failed send")
	}

	history := b.do(http.MethodGet, "/admin-features", nil).Body.String()
	if !strings.Contains(history, "Restock") || !strings.Contains(history, "failed") {
		t.Error("failed attempt should appear in the history")
	}
}

func TestAdminEmailSuccessRedirects(t *testing.T) {
	f := setup(t)
	b := f.newBrowser()
	b.login("admin")

	rec := b.do(http.MethodPost, "/admin-features/email", url.Values{
		"recipient": {"ops@shop.test"},
		"subject":   {"Restock"},
		"message":   {"Please restock"},
	})
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/admin-features" {
		t.Fatalf("status %d location %q", rec.Code, rec.Header().Get("Location"))
	}

	page := b.do(http.MethodGet, "/admin-features", nil).Body.String()
	if !strings.Contains(page, "Email sent successfully to ops@shop.test") {
		t.Error("success flash missing")
	}
}

func TestProtectRejectsPostWithoutToken(t *testing.T) {
	f := setup(t)
	b := f.newBrowser()
	protected := Protect(b.handler, config.SessionConfig{CSRFKey: bytes.Repeat([]byte("c"), 32)}, "3000")

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("username=a&password=b"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if f.api.count("Login") != 0 {
		t.Error("login must not reach the backend without a CSRF token")
	}
}
