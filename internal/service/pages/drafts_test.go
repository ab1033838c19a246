package pages

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/mamadbah2/stockdesk/internal/domain/models"
)

func TestInventoryDraftRejectsNonNumeric(t *testing.T) {
	draft := InventoryDraft{ProductName: "Phone", PricePerQuantity: "abc", Unit: "1.5"}

	_, err := draft.Payload()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if _, ok := verr.Fields["pricePerQuantity"]; !ok {
		t.Error("price should be flagged")
	}
	if _, ok := verr.Fields["unit"]; !ok {
		t.Error("fractional unit should be flagged")
	}
}

func TestInventoryDraftRejectsNonFinitePrice(t *testing.T) {
	for _, price := range []string{"NaN", "nan", "Inf", "+Inf", "-Inf", "infinity", "1e400"} {
		t.Run(price, func(t *testing.T) {
			_, err := InventoryDraft{ProductName: "Phone", PricePerQuantity: price, Unit: "3"}.Payload()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error = %v, want ValidationError", err)
			}
			if got := verr.Fields["pricePerQuantity"]; got != "must be a number" {
				t.Fatalf("pricePerQuantity = %q", got)
			}
		})
	}
}

func TestEmailDraftRecipient(t *testing.T) {
	cases := []struct {
		recipient string
		valid     bool
	}{
		{"ops@shop.test", true},
		{"  ops@shop.test ", true},
		{"Bob <bob@shop.test>", false},
		{"<bob@shop.test>", false},
		{"not-an-address", false},
		{"", false},
	}

	for _, tc := range cases {
		t.Run(tc.recipient, func(t *testing.T) {
			_, err := EmailDraft{Recipient: tc.recipient, Subject: "s", Message: "m"}.Request()
			var verr *ValidationError
			flagged := errors.As(err, &verr) && verr.Fields["recipient"] != ""
			if flagged == tc.valid {
				t.Fatalf("recipient %q: err = %v, want valid=%v", tc.recipient, err, tc.valid)
			}
		})
	}
}

func TestInventoryDraftDefaultsStatus(t *testing.T) {
	payload, err := InventoryDraft{ProductName: "Phone", PricePerQuantity: " 9.99 ", Unit: "4"}.Payload()
	if err != nil {
		t.Fatalf("Payload: %v", err)
	}
	if payload.Status != models.DefaultInventoryStatus || payload.PricePerQuantity != 9.99 || payload.Unit != 4 {
		t.Fatalf("payload = %+v", payload)
	}
}

func TestInventoryDraftRoundTrip(t *testing.T) {
	item := models.InventoryItem{ProductName: "Phone", ModelName: "X", PricePerQuantity: 12.5, Unit: 3, Status: "Discontinued"}
	payload, err := InventoryDraftFrom(item).Payload()
	if err != nil {
		t.Fatalf("Payload: %v", err)
	}
	want := models.InventoryPayload{ProductName: "Phone", ModelName: "X", PricePerQuantity: 12.5, Unit: 3, Status: "Discontinued"}
	if payload != want {
		t.Fatalf("payload = %+v, want %+v", payload, want)
	}
}

func TestStaffUpdatePayloadPassword(t *testing.T) {
	draft := StaffDraft{Name: "Ann", Email: "ann@x.io", Rights: "STAFF", Status: "ACTIVE"}

	payload, err := draft.UpdatePayload()
	if err != nil {
		t.Fatalf("UpdatePayload: %v", err)
	}
	raw, _ := json.Marshal(payload)
	var decoded map[string]any
	_ = json.Unmarshal(raw, &decoded)
	if _, present := decoded["password"]; present {
		t.Fatalf("blank password must be omitted: %s", raw)
	}

	draft.Password = "s3cret"
	payload, _ = draft.UpdatePayload()
	raw, _ = json.Marshal(payload)
	decoded = nil
	_ = json.Unmarshal(raw, &decoded)
	if decoded["password"] != "s3cret" {
		t.Fatalf("password must be included: %s", raw)
	}
}

func TestStaffCreateRequiresPassword(t *testing.T) {
	_, err := StaffDraft{Name: "Ann", Email: "ann@x.io", Rights: "STAFF", Status: "ACTIVE"}.CreatePayload()
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Fields["password"] == "" {
		t.Fatalf("error = %v, want password required", err)
	}
}

func TestStaffEditRoundTrip(t *testing.T) {
	member := models.StaffMember{
		ID:          9,
		Name:        "Ann Lee",
		Email:       "ann@x.io",
		PhoneNumber: "+1 555",
		Designation: "Lead",
		Department:  "Ops",
		Rights:      models.RoleAdmin,
		Status:      models.StaffInactive,
	}

	payload, err := StaffDraftFrom(member).UpdatePayload()
	if err != nil {
		t.Fatalf("UpdatePayload: %v", err)
	}
	want := models.StaffPayload{
		Name:        member.Name,
		Email:       member.Email,
		PhoneNumber: member.PhoneNumber,
		Designation: member.Designation,
		Department:  member.Department,
		Rights:      member.Rights,
		Status:      member.Status,
	}
	if payload != want {
		t.Fatalf("payload = %+v, want %+v", payload, want)
	}
}

func TestOrderDraftValidation(t *testing.T) {
	_, err := OrderDraft{ProductName: "Phone", QuantityOrdered: "0", CustomerName: "C", CustomerEmail: "nope"}.Request()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v", err)
	}
	if verr.Fields["quantityOrdered"] == "" || verr.Fields["customerEmail"] == "" {
		t.Fatalf("fields = %v", verr.Fields)
	}

	req, err := OrderDraft{ProductName: "Phone", ModelName: "X", QuantityOrdered: "2", CustomerName: "C", CustomerEmail: "c@x.io"}.Request()
	if err != nil || req.QuantityOrdered != 2 {
		t.Fatalf("Request = %+v, %v", req, err)
	}
}

func TestRegisterDraftRejectsUnknownRole(t *testing.T) {
	draft := RegisterDraft{Name: "a", Email: "a@x.io", Password: "p", PhoneNumber: "1", Designation: "d", Department: "x", Rights: "ROOT"}
	_, err := draft.Request()
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Fields["rights"] == "" {
		t.Fatalf("error = %v", err)
	}
}
