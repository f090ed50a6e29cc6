package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"fibuBack/internal/models"
	"fibuBack/internal/repositories"
	"fibuBack/internal/timeutil"
)

const maxBatchOperations = 50

// BatchOperation is one step of a batch request. Data may carry a "$ref"
// key naming the created entity; later operations reference it as
// "$ref:<name>" in their id or data values.
type BatchOperation struct {
	Action   string         `json:"action"`
	Resource string         `json:"resource"`
	ID       any            `json:"id,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// BatchOpResult is the per-operation outcome of a successful batch.
type BatchOpResult struct {
	Index    int    `json:"index"`
	Action   string `json:"action"`
	Resource string `json:"resource"`
	Success  bool   `json:"success"`
	Ref      string `json:"ref,omitempty"`
	Result   any    `json:"result,omitempty"`
}

// BatchResult is the aggregate outcome of Execute.
type BatchResult struct {
	Results   []BatchOpResult `json:"results"`
	Succeeded int             `json:"succeeded"`
	Total     int             `json:"total"`
}

// BatchOpReport is the per-operation outcome of Validate.
type BatchOpReport struct {
	Index    int      `json:"index"`
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// BatchValidation is the aggregate outcome of Validate.
type BatchValidation struct {
	Valid      bool            `json:"valid"`
	Operations []BatchOpReport `json:"operations"`
}

// batchActions maps resource to its allowed actions.
var batchActions = map[string]map[string]struct{}{
	"client":   {"create": {}, "update": {}, "delete": {}},
	"project":  {"create": {}, "update": {}, "delete": {}, "transition": {}},
	"invoice":  {"create": {}, "from_project": {}, "delete": {}, "mark_paid": {}},
	"reminder": {"create": {}, "update": {}, "delete": {}, "complete": {}, "snooze": {}},
}

// batchRequiredFields maps "resource:action" to the data fields the
// operation cannot do without.
var batchRequiredFields = map[string][]string{
	"client:create":        {"name|company_name|first_name"},
	"project:create":       {"client_id", "title", "type"},
	"project:transition":   {"status"},
	"invoice:create":       {"client_id"},
	"invoice:from_project": {"project_id"},
	"reminder:create":      {"title", "due_at"},
	"reminder:snooze":      {"hours"},
}

// batchActionNeedsID marks the actions that operate on an existing record.
func batchActionNeedsID(action string) bool {
	switch action {
	case "update", "delete", "transition", "mark_paid", "complete", "snooze":
		return true
	}
	return false
}

// normalizeResource accepts singular and plural resource names.
func normalizeResource(resource string) string {
	r := strings.ToLower(strings.TrimSpace(resource))
	return strings.TrimSuffix(r, "s")
}

type BatchService struct {
	DB *sql.DB
}

// Validate dry-runs the shape checks of a batch without opening a
// transaction or touching the store.
func (s *BatchService) Validate(ops []BatchOperation) BatchValidation {
	result := BatchValidation{Valid: true}
	if len(ops) == 0 || len(ops) > maxBatchOperations {
		result.Valid = false
	}
	refs := map[string]struct{}{}
	for i, op := range ops {
		report := BatchOpReport{Index: i, Valid: true}
		resource := normalizeResource(op.Resource)
		actions, known := batchActions[resource]
		if !known {
			report.Errors = append(report.Errors, fmt.Sprintf("unknown resource %q", op.Resource))
		} else if _, ok := actions[op.Action]; !ok {
			report.Errors = append(report.Errors, fmt.Sprintf("action %q is not valid for resource %q", op.Action, resource))
		}
		if batchActionNeedsID(op.Action) && op.ID == nil {
			report.Errors = append(report.Errors, fmt.Sprintf("action %q requires an id", op.Action))
		}
		for _, field := range batchRequiredFields[resource+":"+op.Action] {
			present := false
			for _, alt := range strings.Split(field, "|") {
				if _, ok := op.Data[alt]; ok {
					present = true
					break
				}
			}
			if !present {
				report.Errors = append(report.Errors, "missing required field "+strings.ReplaceAll(field, "|", " or "))
			}
		}
		if name, ok := op.Data["$ref"].(string); ok {
			if op.Action != "create" && op.Action != "from_project" {
				report.Warnings = append(report.Warnings, "$ref tag on a non-create operation has no effect")
			}
			refs[name] = struct{}{}
		}
		for _, used := range collectRefUses(op.ID, op.Data) {
			if _, ok := refs[used]; !ok {
				report.Errors = append(report.Errors, fmt.Sprintf("reference %q is not produced by an earlier operation", used))
			}
		}
		if len(report.Errors) > 0 {
			report.Valid = false
			result.Valid = false
		}
		result.Operations = append(result.Operations, report)
	}
	return result
}

// collectRefUses walks id and data depth-first gathering every
// "$ref:<name>" usage. The "$ref" tag key itself is not a usage.
func collectRefUses(id any, data map[string]any) []string {
	var uses []string
	var walk func(v any)
	walk = func(v any) {
		switch val := v.(type) {
		case string:
			if name, ok := strings.CutPrefix(val, "$ref:"); ok {
				uses = append(uses, name)
			}
		case map[string]any:
			for k, inner := range val {
				if k == "$ref" {
					continue
				}
				walk(inner)
			}
		case []any:
			for _, inner := range val {
				walk(inner)
			}
		}
	}
	walk(id)
	walk(data)
	return uses
}

// resolveRefs substitutes every "$ref:<name>" in the operation with the
// numeric id produced earlier in the batch. Unknown names are fatal.
func resolveRefs(op *BatchOperation, refs map[string]int) error {
	var walk func(v any) (any, error)
	walk = func(v any) (any, error) {
		switch val := v.(type) {
		case string:
			if name, ok := strings.CutPrefix(val, "$ref:"); ok {
				id, ok := refs[name]
				if !ok {
					return nil, models.NewAPIError(models.CodeUnresolvedRef,
						fmt.Sprintf("reference %q was not produced by an earlier operation", name),
						"tag the producing operation's data with {\"$ref\": \""+name+"\"} and place it first")
				}
				return id, nil
			}
			return val, nil
		case map[string]any:
			for k, inner := range val {
				if k == "$ref" {
					continue
				}
				resolved, err := walk(inner)
				if err != nil {
					return nil, err
				}
				val[k] = resolved
			}
			return val, nil
		case []any:
			for i, inner := range val {
				resolved, err := walk(inner)
				if err != nil {
					return nil, err
				}
				val[i] = resolved
			}
			return val, nil
		default:
			return val, nil
		}
	}
	if op.ID != nil {
		resolved, err := walk(op.ID)
		if err != nil {
			return err
		}
		op.ID = resolved
	}
	if op.Data != nil {
		resolved, err := walk(op.Data)
		if err != nil {
			return err
		}
		op.Data = resolved.(map[string]any)
	}
	return nil
}

// decodeInto round-trips a data map through JSON into a typed value, so
// batch payloads reuse the models' own decoding rules.
func decodeInto(data map[string]any, dst any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return models.NewAPIError(models.CodeValidation, "malformed operation data: "+err.Error())
	}
	return nil
}

func opID(op BatchOperation) (int, error) {
	switch v := op.ID.(type) {
	case int:
		return v, nil
	case float64:
		return int(v), nil
	default:
		return 0, models.NewAPIError(models.CodeValidation, fmt.Sprintf("operation id %v is not numeric", op.ID))
	}
}

// opDate reads an optional YYYY-MM-DD field from the operation data.
func opDate(op BatchOperation, key string) (*time.Time, error) {
	raw, ok := op.Data[key].(string)
	if !ok {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, models.NewAPIError(models.CodeValidation, fmt.Sprintf("%s must be formatted YYYY-MM-DD", key))
	}
	return &parsed, nil
}

// txServices bundles the tx-bound services a batch dispatches into.
type txServices struct {
	clients   *ClientService
	projects  *ProjectService
	invoices  *InvoiceService
	reminders *ReminderService
}

// Execute runs 1..50 operations inside one transaction. Any failure rolls
// back every operation and surfaces a single batch-level error naming the
// triggering operation.
func (s *BatchService) Execute(ctx context.Context, userID int, ops []BatchOperation) (BatchResult, error) {
	if len(ops) == 0 {
		return BatchResult{}, models.NewAPIError(models.CodeValidation, "batch contains no operations")
	}
	if len(ops) > maxBatchOperations {
		return BatchResult{}, models.NewAPIError(models.CodeValidation,
			fmt.Sprintf("batch contains %d operations, the maximum is %d", len(ops), maxBatchOperations))
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return BatchResult{}, err
	}
	defer tx.Rollback()

	svcs := txServices{
		clients:   newClientServiceTx(tx),
		projects:  newProjectServiceTx(tx),
		invoices:  newInvoiceServiceTx(tx),
		reminders: newReminderServiceTx(tx),
	}

	refs := map[string]int{}
	result := BatchResult{Total: len(ops)}
	for i := range ops {
		op := ops[i]
		if err := resolveRefs(&op, refs); err != nil {
			return BatchResult{}, batchFailure(i, err)
		}
		createdID, summary, err := s.dispatch(ctx, svcs, userID, op)
		if err != nil {
			return BatchResult{}, batchFailure(i, err)
		}
		opResult := BatchOpResult{
			Index:    i,
			Action:   op.Action,
			Resource: normalizeResource(op.Resource),
			Success:  true,
			Result:   summary,
		}
		if name, ok := op.Data["$ref"].(string); ok && createdID != 0 {
			refs[name] = createdID
			opResult.Ref = name
		}
		result.Results = append(result.Results, opResult)
		result.Succeeded++
	}

	if err := tx.Commit(); err != nil {
		return BatchResult{}, err
	}
	return result, nil
}

func batchFailure(index int, cause error) error {
	msg := cause.Error()
	suggestions := []string{"all operations rolled back; fix and retry the whole batch"}
	if apiErr, ok := models.AsAPIError(cause); ok {
		msg = apiErr.Message
		suggestions = append(apiErr.Suggestions, suggestions...)
	}
	return models.NewAPIError(models.CodeBatchFailed,
		fmt.Sprintf("operation %d failed: %s", index, msg), suggestions...)
}

func (s *BatchService) dispatch(ctx context.Context, svcs txServices, userID int, op BatchOperation) (int, any, error) {
	scope := repositories.ScopeUser(userID)
	resource := normalizeResource(op.Resource)
	actions, known := batchActions[resource]
	if !known {
		return 0, nil, models.NewAPIError(models.CodeValidation, fmt.Sprintf("unknown resource %q", op.Resource))
	}
	if _, ok := actions[op.Action]; !ok {
		return 0, nil, models.NewAPIError(models.CodeValidation,
			fmt.Sprintf("action %q is not valid for resource %q", op.Action, resource))
	}

	switch resource {
	case "client":
		return s.dispatchClient(ctx, svcs.clients, scope, userID, op)
	case "project":
		return s.dispatchProject(ctx, svcs.projects, scope, userID, op)
	case "invoice":
		return s.dispatchInvoice(ctx, svcs.invoices, scope, userID, op)
	case "reminder":
		return s.dispatchReminder(ctx, svcs.reminders, scope, userID, op)
	}
	return 0, nil, models.NewAPIError(models.CodeValidation, fmt.Sprintf("unknown resource %q", op.Resource))
}

// aliasClientName lets batch payloads say just "name"; it lands on the
// company name and the client defaults to type company.
func aliasClientName(data map[string]any) {
	name, ok := data["name"].(string)
	if !ok {
		return
	}
	if _, exists := data["company_name"]; !exists {
		data["company_name"] = name
		if _, exists := data["type"]; !exists {
			data["type"] = models.ClientTypeCompany
		}
	}
}

func (s *BatchService) dispatchClient(ctx context.Context, svc *ClientService, scope repositories.Scope, userID int, op BatchOperation) (int, any, error) {
	switch op.Action {
	case "create":
		aliasClientName(op.Data)
		var client models.Client
		if err := decodeInto(op.Data, &client); err != nil {
			return 0, nil, err
		}
		client.UserID = userID
		created, err := svc.CreateClient(ctx, client)
		if err != nil {
			return 0, nil, err
		}
		return created.ID, created, nil
	case "update":
		id, err := opID(op)
		if err != nil {
			return 0, nil, err
		}
		aliasClientName(op.Data)
		// Patch semantics: absent fields keep their stored values.
		client, err := svc.GetClientByID(ctx, scope, id)
		if err != nil {
			return 0, nil, err
		}
		if err := decodeInto(op.Data, &client); err != nil {
			return 0, nil, err
		}
		client.ID = id
		updated, err := svc.UpdateClient(ctx, scope, client)
		if err != nil {
			return 0, nil, err
		}
		return 0, updated, nil
	case "delete":
		id, err := opID(op)
		if err != nil {
			return 0, nil, err
		}
		if err := svc.DeleteClient(ctx, scope, id); err != nil {
			return 0, nil, err
		}
		return 0, map[string]any{"deleted": id}, nil
	}
	return 0, nil, models.NewAPIError(models.CodeValidation, fmt.Sprintf("action %q is not valid for clients", op.Action))
}

func (s *BatchService) dispatchProject(ctx context.Context, svc *ProjectService, scope repositories.Scope, userID int, op BatchOperation) (int, any, error) {
	switch op.Action {
	case "create":
		var project models.Project
		if err := decodeInto(op.Data, &project); err != nil {
			return 0, nil, err
		}
		project.UserID = userID
		created, err := svc.CreateProject(ctx, project)
		if err != nil {
			return 0, nil, err
		}
		return created.ID, created, nil
	case "update":
		id, err := opID(op)
		if err != nil {
			return 0, nil, err
		}
		project, err := svc.GetProjectByID(ctx, scope, id)
		if err != nil {
			return 0, nil, err
		}
		if err := decodeInto(op.Data, &project); err != nil {
			return 0, nil, err
		}
		project.ID = id
		updated, err := svc.UpdateProject(ctx, scope, project)
		if err != nil {
			return 0, nil, err
		}
		return 0, updated, nil
	case "delete":
		id, err := opID(op)
		if err != nil {
			return 0, nil, err
		}
		if err := svc.DeleteProject(ctx, scope, id); err != nil {
			return 0, nil, err
		}
		return 0, map[string]any{"deleted": id}, nil
	case "transition":
		id, err := opID(op)
		if err != nil {
			return 0, nil, err
		}
		status, _ := op.Data["status"].(string)
		date, err := opDate(op, "date")
		if err != nil {
			return 0, nil, err
		}
		updated, err := svc.TransitionTo(ctx, scope, id, status, date)
		if err != nil {
			return 0, nil, err
		}
		return 0, updated, nil
	}
	return 0, nil, models.NewAPIError(models.CodeValidation, fmt.Sprintf("action %q is not valid for projects", op.Action))
}

func (s *BatchService) dispatchInvoice(ctx context.Context, svc *InvoiceService, scope repositories.Scope, userID int, op BatchOperation) (int, any, error) {
	switch op.Action {
	case "create":
		var inv models.Invoice
		if err := decodeInto(op.Data, &inv); err != nil {
			return 0, nil, err
		}
		inv.UserID = userID
		created, err := svc.createInTx(ctx, inv, timeutil.Now())
		if err != nil {
			return 0, nil, err
		}
		return created.ID, created, nil
	case "from_project":
		projectID := 0
		switch v := op.Data["project_id"].(type) {
		case int:
			projectID = v
		case float64:
			projectID = int(v)
		default:
			return 0, nil, models.NewAPIError(models.CodeValidation, "project_id must be numeric")
		}
		created, err := svc.createFromProjectInTx(ctx, scope, projectID, timeutil.Now())
		if err != nil {
			return 0, nil, err
		}
		return created.ID, created, nil
	case "mark_paid":
		id, err := opID(op)
		if err != nil {
			return 0, nil, err
		}
		method, _ := op.Data["payment_method"].(string)
		paidAt, err := opDate(op, "paid_at")
		if err != nil {
			return 0, nil, err
		}
		updated, err := svc.MarkPaid(ctx, scope, id, paidAt, method)
		if err != nil {
			return 0, nil, err
		}
		return 0, updated, nil
	case "delete":
		id, err := opID(op)
		if err != nil {
			return 0, nil, err
		}
		if err := svc.DeleteInvoice(ctx, scope, id); err != nil {
			return 0, nil, err
		}
		return 0, map[string]any{"deleted": id}, nil
	}
	return 0, nil, models.NewAPIError(models.CodeValidation, fmt.Sprintf("action %q is not valid for invoices", op.Action))
}

func (s *BatchService) dispatchReminder(ctx context.Context, svc *ReminderService, scope repositories.Scope, userID int, op BatchOperation) (int, any, error) {
	switch op.Action {
	case "create":
		var rem models.Reminder
		if err := decodeInto(op.Data, &rem); err != nil {
			return 0, nil, err
		}
		rem.UserID = userID
		created, err := svc.CreateReminder(ctx, rem)
		if err != nil {
			return 0, nil, err
		}
		return created.ID, created, nil
	case "update":
		id, err := opID(op)
		if err != nil {
			return 0, nil, err
		}
		rem, err := svc.GetReminderByID(ctx, scope, id)
		if err != nil {
			return 0, nil, err
		}
		if err := decodeInto(op.Data, &rem); err != nil {
			return 0, nil, err
		}
		rem.ID = id
		updated, err := svc.UpdateReminder(ctx, scope, rem)
		if err != nil {
			return 0, nil, err
		}
		return 0, updated, nil
	case "delete":
		id, err := opID(op)
		if err != nil {
			return 0, nil, err
		}
		if err := svc.DeleteReminder(ctx, scope, id); err != nil {
			return 0, nil, err
		}
		return 0, map[string]any{"deleted": id}, nil
	case "complete":
		id, err := opID(op)
		if err != nil {
			return 0, nil, err
		}
		updated, err := svc.Complete(ctx, scope, id)
		if err != nil {
			return 0, nil, err
		}
		return 0, updated, nil
	case "snooze":
		id, err := opID(op)
		if err != nil {
			return 0, nil, err
		}
		hours := 0
		switch v := op.Data["hours"].(type) {
		case int:
			hours = v
		case float64:
			hours = int(v)
		default:
			return 0, nil, models.NewAPIError(models.CodeValidation, "hours must be numeric")
		}
		updated, err := svc.Snooze(ctx, scope, id, hours)
		if err != nil {
			return 0, nil, err
		}
		return 0, updated, nil
	}
	return 0, nil, models.NewAPIError(models.CodeValidation, fmt.Sprintf("action %q is not valid for reminders", op.Action))
}
