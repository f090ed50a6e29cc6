package services

import (
	"testing"

	"fibuBack/internal/models"
)

func TestValidateAcceptsWellFormedBatch(t *testing.T) {
	var s BatchService
	result := s.Validate([]BatchOperation{
		{Action: "create", Resource: "clients", Data: map[string]any{"name": "Acme GmbH", "$ref": "c1"}},
		{Action: "create", Resource: "project", Data: map[string]any{
			"client_id": "$ref:c1", "title": "Relaunch", "type": "fixed",
		}},
		{Action: "transition", Resource: "project", ID: 7, Data: map[string]any{"status": "sent"}},
	})
	if !result.Valid {
		t.Fatalf("batch should be valid: %+v", result.Operations)
	}
	for _, op := range result.Operations {
		if !op.Valid {
			t.Errorf("operation %d invalid: %v", op.Index, op.Errors)
		}
	}
}

func TestValidateRejectsUnknownResourceAndAction(t *testing.T) {
	var s BatchService
	result := s.Validate([]BatchOperation{
		{Action: "create", Resource: "widget", Data: map[string]any{"name": "x"}},
		{Action: "mark_paid", Resource: "client", ID: 1},
	})
	if result.Valid {
		t.Fatal("batch with unknown resource and bad action pair should be invalid")
	}
	if result.Operations[0].Valid {
		t.Error("unknown resource should fail validation")
	}
	if result.Operations[1].Valid {
		t.Error("mark_paid on client should fail validation")
	}
}

func TestValidateRequiredFieldsAndID(t *testing.T) {
	var s BatchService
	result := s.Validate([]BatchOperation{
		{Action: "create", Resource: "project", Data: map[string]any{"title": "no client"}},
		{Action: "delete", Resource: "invoice"},
		{Action: "snooze", Resource: "reminder", ID: 3, Data: map[string]any{}},
	})
	if result.Valid {
		t.Fatal("batch should be invalid")
	}
	for i, op := range result.Operations {
		if op.Valid {
			t.Errorf("operation %d should be invalid", i)
		}
	}
}

func TestValidateForwardReference(t *testing.T) {
	var s BatchService
	result := s.Validate([]BatchOperation{
		{Action: "create", Resource: "project", Data: map[string]any{
			"client_id": "$ref:c1", "title": "early", "type": "fixed",
		}},
		{Action: "create", Resource: "client", Data: map[string]any{"name": "Acme", "$ref": "c1"}},
	})
	if result.Operations[0].Valid {
		t.Error("reference to a later operation should fail validation")
	}
	if !result.Operations[1].Valid {
		t.Errorf("producing operation should be valid: %v", result.Operations[1].Errors)
	}
}

func TestValidateBatchSizeLimits(t *testing.T) {
	var s BatchService
	if s.Validate(nil).Valid {
		t.Error("empty batch should be invalid")
	}
	ops := make([]BatchOperation, maxBatchOperations+1)
	for i := range ops {
		ops[i] = BatchOperation{Action: "create", Resource: "client", Data: map[string]any{"name": "x"}}
	}
	if s.Validate(ops).Valid {
		t.Error("oversized batch should be invalid")
	}
}

func TestResolveRefsSubstitutesNested(t *testing.T) {
	op := BatchOperation{
		Action:   "create",
		Resource: "project",
		Data: map[string]any{
			"client_id": "$ref:c1",
			"items": []any{
				map[string]any{"linked": "$ref:c1"},
			},
			"$ref": "p1",
		},
	}
	if err := resolveRefs(&op, map[string]int{"c1": 42}); err != nil {
		t.Fatalf("resolveRefs: %v", err)
	}
	if op.Data["client_id"] != 42 {
		t.Errorf("client_id = %v; want 42", op.Data["client_id"])
	}
	nested := op.Data["items"].([]any)[0].(map[string]any)
	if nested["linked"] != 42 {
		t.Errorf("nested ref = %v; want 42", nested["linked"])
	}
	if op.Data["$ref"] != "p1" {
		t.Errorf("$ref tag = %v; must stay untouched", op.Data["$ref"])
	}
}

func TestResolveRefsID(t *testing.T) {
	op := BatchOperation{Action: "delete", Resource: "client", ID: "$ref:c1"}
	if err := resolveRefs(&op, map[string]int{"c1": 9}); err != nil {
		t.Fatalf("resolveRefs: %v", err)
	}
	if op.ID != 9 {
		t.Errorf("id = %v; want 9", op.ID)
	}
}

func TestResolveRefsUnknownNameFatal(t *testing.T) {
	op := BatchOperation{
		Action:   "create",
		Resource: "project",
		Data:     map[string]any{"client_id": "$ref:missing"},
	}
	err := resolveRefs(&op, map[string]int{})
	if err == nil {
		t.Fatal("unresolved reference should be fatal")
	}
	apiErr, ok := models.AsAPIError(err)
	if !ok || apiErr.Code != models.CodeUnresolvedRef {
		t.Errorf("error = %v; want UNRESOLVED_REF", err)
	}
}

func TestNormalizeResource(t *testing.T) {
	tests := map[string]string{
		"clients":  "client",
		"Client":   "client",
		"invoices": "invoice",
		"project":  "project",
	}
	for in, want := range tests {
		if got := normalizeResource(in); got != want {
			t.Errorf("normalizeResource(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestOpDateParsesOptionalField(t *testing.T) {
	op := BatchOperation{Data: map[string]any{"paid_at": "2026-05-04"}}
	got, err := opDate(op, "paid_at")
	if err != nil {
		t.Fatalf("opDate: %v", err)
	}
	if got == nil || got.Format("2006-01-02") != "2026-05-04" {
		t.Errorf("paid_at = %v; want 2026-05-04", got)
	}

	if d, err := opDate(BatchOperation{Data: map[string]any{}}, "paid_at"); err != nil || d != nil {
		t.Errorf("absent field: got %v, %v; want nil, nil", d, err)
	}

	_, err = opDate(BatchOperation{Data: map[string]any{"paid_at": "05.04.2026"}}, "paid_at")
	apiErr, ok := models.AsAPIError(err)
	if !ok || apiErr.Code != models.CodeValidation {
		t.Errorf("malformed date: error = %v; want %s", err, models.CodeValidation)
	}
}
