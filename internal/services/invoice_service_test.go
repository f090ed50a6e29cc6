package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fibuBack/internal/fsm"
	"fibuBack/internal/models"
)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("decimal %q: %v", s, err)
	}
	return d
}

func TestTimeRollupItem(t *testing.T) {
	rate := mustDecimal(t, "100")
	project := models.Project{Type: models.ProjectTypeHourly, HourlyRate: &rate}

	start1 := time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC)
	end1 := start1.Add(2 * time.Hour)
	start2 := time.Date(2026, 2, 5, 14, 0, 0, 0, time.UTC)
	end2 := start2.Add(time.Hour)
	entries := []models.TimeEntry{
		{ID: 11, StartedAt: start1, EndedAt: &end1, DurationMinutes: 120},
		{ID: 12, StartedAt: start2, EndedAt: &end2, DurationMinutes: 60},
	}

	item, ids := timeRollupItem(project, entries, 1)
	if got, want := item.Quantity.StringFixed(2), "3.00"; got != want {
		t.Errorf("quantity = %s; want %s", got, want)
	}
	if !item.UnitPrice.Equal(rate) {
		t.Errorf("unit_price = %s; want 100", item.UnitPrice)
	}
	if item.Unit != "Stunden" {
		t.Errorf("unit = %q; want Stunden", item.Unit)
	}
	if want := "Arbeitszeit (02.02.2026 - 05.02.2026)"; item.Description != want {
		t.Errorf("description = %q; want %q", item.Description, want)
	}
	if len(ids) != 2 || ids[0] != 11 || ids[1] != 12 {
		t.Errorf("entry ids = %v; want [11 12]", ids)
	}
}

func TestTimeRollupItemSingleDay(t *testing.T) {
	rate := mustDecimal(t, "80")
	project := models.Project{Type: models.ProjectTypeHourly, HourlyRate: &rate}

	start := time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Minute)
	entries := []models.TimeEntry{
		{ID: 1, StartedAt: start, EndedAt: &end, DurationMinutes: 90},
	}

	item, _ := timeRollupItem(project, entries, 3)
	if want := "Arbeitszeit (02.02.2026)"; item.Description != want {
		t.Errorf("description = %q; want %q", item.Description, want)
	}
	if got, want := item.Quantity.StringFixed(2), "1.50"; got != want {
		t.Errorf("quantity = %s; want %s", got, want)
	}
	if item.Position != 3 {
		t.Errorf("position = %d; want 3", item.Position)
	}
}

func TestRecompute(t *testing.T) {
	inv := models.Invoice{
		VATRate: decimal.NullDecimal{Decimal: mustDecimal(t, "19"), Valid: true},
		Items: []models.InvoiceItem{
			{Quantity: mustDecimal(t, "10"), UnitPrice: mustDecimal(t, "100")},
		},
	}
	recompute(&inv)
	if got := inv.Subtotal.StringFixed(2); got != "1000.00" {
		t.Errorf("subtotal = %s; want 1000.00", got)
	}
	if got := inv.VATAmount.StringFixed(2); got != "190.00" {
		t.Errorf("vat_amount = %s; want 190.00", got)
	}
	if got := inv.Total.StringFixed(2); got != "1190.00" {
		t.Errorf("total = %s; want 1190.00", got)
	}
}

func TestRecomputeExplicitZeroRate(t *testing.T) {
	inv := models.Invoice{
		VATRate: decimal.NullDecimal{Decimal: decimal.Zero, Valid: true},
		Items: []models.InvoiceItem{
			{Quantity: mustDecimal(t, "10"), UnitPrice: mustDecimal(t, "100")},
		},
	}
	recompute(&inv)
	if got := inv.VATAmount.StringFixed(2); got != "0.00" {
		t.Errorf("vat_amount = %s; want 0.00", got)
	}
	if !inv.Total.Equal(inv.Subtotal) {
		t.Errorf("total = %s; want subtotal %s", inv.Total, inv.Subtotal)
	}
}

func TestVATRateZeroIsNotAbsent(t *testing.T) {
	var withZero models.Invoice
	if err := decodeInto(map[string]any{"client_id": 1, "vat_rate": 0}, &withZero); err != nil {
		t.Fatalf("decodeInto: %v", err)
	}
	if !withZero.VATRate.Valid {
		t.Fatal("explicit vat_rate 0 must decode as present")
	}
	if !withZero.VATRate.Decimal.IsZero() {
		t.Errorf("vat_rate = %s; want 0", withZero.VATRate.Decimal)
	}

	var absent models.Invoice
	if err := decodeInto(map[string]any{"client_id": 1}, &absent); err != nil {
		t.Fatalf("decodeInto: %v", err)
	}
	if absent.VATRate.Valid {
		t.Error("missing vat_rate must decode as absent so the default applies")
	}
}

func TestProjectInvoiceDraftPeriodEndFallback(t *testing.T) {
	price := mustDecimal(t, "2500")
	now := time.Date(2026, 5, 4, 11, 0, 0, 0, time.UTC)
	project := models.Project{
		ID:         4,
		UserID:     1,
		ClientID:   2,
		Title:      "Website Relaunch",
		Type:       models.ProjectTypeFixed,
		Status:     fsm.ProjectCompleted,
		FixedPrice: &price,
	}

	inv, ids, err := projectInvoiceDraft(project, nil, now)
	if err != nil {
		t.Fatalf("projectInvoiceDraft: %v", err)
	}
	if inv.ServicePeriodEnd == nil || !inv.ServicePeriodEnd.Equal(now) {
		t.Errorf("service_period_end = %v; want %s", inv.ServicePeriodEnd, now)
	}
	if len(inv.Items) != 1 || !inv.Items[0].UnitPrice.Equal(price) {
		t.Errorf("items = %+v; want one fixed-price line", inv.Items)
	}
	if len(ids) != 0 {
		t.Errorf("entry ids = %v; want none", ids)
	}
}

func TestProjectInvoiceDraftRejectsDraftProject(t *testing.T) {
	project := models.Project{Status: fsm.ProjectDraft}
	_, _, err := projectInvoiceDraft(project, nil, time.Now())
	apiErr, ok := models.AsAPIError(err)
	if !ok || apiErr.Code != models.CodeProjectCannotBeInvoiced {
		t.Fatalf("err = %v; want %s", err, models.CodeProjectCannotBeInvoiced)
	}
}

func TestMarkPaidGuard(t *testing.T) {
	tests := []struct {
		status   string
		wantCode string
	}{
		{fsm.InvoiceSent, ""},
		{fsm.InvoiceOverdue, ""},
		{fsm.InvoiceDraft, models.CodeInvoiceNotSent},
		{fsm.InvoicePaid, models.CodeAlreadyPaid},
		{fsm.InvoiceCancelled, models.CodeInvoiceCancelled},
	}
	for _, tt := range tests {
		err := markPaidGuard(models.Invoice{Number: "2026-001", Status: tt.status})
		if tt.wantCode == "" {
			if err != nil {
				t.Errorf("status %s: unexpected error %v", tt.status, err)
			}
			continue
		}
		apiErr, ok := models.AsAPIError(err)
		if !ok || apiErr.Code != tt.wantCode {
			t.Errorf("status %s: error = %v; want code %s", tt.status, err, tt.wantCode)
		}
	}
}
