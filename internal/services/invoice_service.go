package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"fibuBack/internal/fsm"
	"fibuBack/internal/models"
	"fibuBack/internal/money"
	"fibuBack/internal/repositories"
	"fibuBack/internal/timeutil"
)

const defaultPaymentTermsDays = 14

type InvoiceService struct {
	DB            *sql.DB
	InvoiceRepo   *repositories.InvoiceRepository
	ProjectRepo   *repositories.ProjectRepository
	ClientRepo    *repositories.ClientRepository
	TimeEntryRepo *repositories.TimeEntryRepository
	SettingsRepo  *repositories.SettingsRepository
	EmailLogRepo  *repositories.EmailLogRepository
	ErrorLog      *log.Logger
}

func newInvoiceServiceTx(db repositories.DBTX) *InvoiceService {
	return &InvoiceService{
		InvoiceRepo:   &repositories.InvoiceRepository{DB: db},
		ProjectRepo:   &repositories.ProjectRepository{DB: db},
		ClientRepo:    &repositories.ClientRepository{DB: db},
		TimeEntryRepo: &repositories.TimeEntryRepository{DB: db},
		SettingsRepo:  &repositories.SettingsRepository{DB: db},
		EmailLogRepo:  &repositories.EmailLogRepository{DB: db},
	}
}

// recompute derives subtotal, VAT amount and total from the items and the
// invoice-level rate. Caller-supplied money fields are never trusted.
func recompute(inv *models.Invoice) {
	lines := make([]money.Line, 0, len(inv.Items))
	for i := range inv.Items {
		lines = append(lines, money.Line{
			Quantity:  inv.Items[i].Quantity,
			UnitPrice: inv.Items[i].UnitPrice,
		})
	}
	totals := money.Calculate(lines, inv.VATRate.Decimal)
	inv.Subtotal = totals.Subtotal
	inv.VATAmount = totals.VATAmount
	inv.Total = totals.Total
}

func (s *InvoiceService) prepareCreate(ctx context.Context, inv *models.Invoice, now time.Time) error {
	if inv.ClientID == 0 {
		return models.NewAPIError(models.CodeValidation, "client_id is required")
	}
	if _, err := s.ClientRepo.GetClientByID(ctx, repositories.ScopeUser(inv.UserID), inv.ClientID); err != nil {
		return err
	}
	if !inv.VATRate.Valid {
		rate, err := s.SettingsRepo.GetDecimal(ctx, inv.UserID, models.SettingDefaultVATRate, decimal.NewFromInt(19))
		if err != nil {
			return err
		}
		inv.VATRate = decimal.NullDecimal{Decimal: rate, Valid: true}
	}
	number, err := s.InvoiceRepo.NextNumber(ctx, now.Year())
	if err != nil {
		return err
	}
	inv.Number = number
	inv.Status = fsm.InvoiceDraft
	if inv.IssuedAt == nil {
		issued := timeutil.StartOfDay(now)
		inv.IssuedAt = &issued
	}
	if inv.DueAt == nil {
		terms, err := s.SettingsRepo.GetInt(ctx, inv.UserID, models.SettingPaymentTermsDays, defaultPaymentTermsDays)
		if err != nil {
			return err
		}
		due := inv.IssuedAt.AddDate(0, 0, terms)
		inv.DueAt = &due
	}
	for i := range inv.Items {
		if inv.Items[i].Position == 0 {
			inv.Items[i].Position = i + 1
		}
		if inv.Items[i].VATRate.IsZero() {
			inv.Items[i].VATRate = inv.VATRate.Decimal
		}
	}
	recompute(inv)
	return nil
}

// CreateInvoice creates a standalone draft invoice. Numbering is assigned
// inside a transaction so concurrent creates never collide on a number.
func (s *InvoiceService) CreateInvoice(ctx context.Context, inv models.Invoice) (models.Invoice, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Invoice{}, err
	}
	defer tx.Rollback()

	txSvc := newInvoiceServiceTx(tx)
	created, err := txSvc.createInTx(ctx, inv, timeutil.Now())
	if err != nil {
		return models.Invoice{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Invoice{}, err
	}
	return created, nil
}

func (s *InvoiceService) createInTx(ctx context.Context, inv models.Invoice, now time.Time) (models.Invoice, error) {
	if err := s.prepareCreate(ctx, &inv, now); err != nil {
		return models.Invoice{}, err
	}
	return s.InvoiceRepo.CreateInvoice(ctx, inv)
}

// timeRollupItem collapses unbilled time entries into one invoice line.
// Quantity is the summed minutes expressed in hours at two fraction digits,
// priced at the project's hourly rate.
func timeRollupItem(project models.Project, entries []models.TimeEntry, position int) (models.InvoiceItem, []int) {
	totalMinutes := 0
	var first, last time.Time
	ids := make([]int, 0, len(entries))
	for _, e := range entries {
		totalMinutes += e.DurationMinutes
		ids = append(ids, e.ID)
		if first.IsZero() || e.StartedAt.Before(first) {
			first = e.StartedAt
		}
		if e.EndedAt != nil && e.EndedAt.After(last) {
			last = *e.EndedAt
		}
	}
	hours := money.Round2(decimal.NewFromInt(int64(totalMinutes)).Div(decimal.NewFromInt(60)))
	rate := decimal.Zero
	if project.HourlyRate != nil {
		rate = *project.HourlyRate
	}
	period := first.Format("02.01.2006")
	if !last.IsZero() && last.Format("02.01.2006") != period {
		period += " - " + last.Format("02.01.2006")
	}
	item := models.InvoiceItem{
		Description: fmt.Sprintf("Arbeitszeit (%s)", period),
		Quantity:    hours,
		Unit:        "Stunden",
		UnitPrice:   rate,
		Position:    position,
	}
	return item, ids
}

// CreateFromProject builds a draft invoice from a project inside one
// transaction. Fixed-price projects copy their offer items; hourly projects
// roll all unbilled finished time entries into a single line and mark those
// entries as invoiced. Everything rolls back together on any failure.
func (s *InvoiceService) CreateFromProject(ctx context.Context, scope repositories.Scope, projectID int) (models.Invoice, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Invoice{}, err
	}
	defer tx.Rollback()

	txSvc := newInvoiceServiceTx(tx)
	inv, err := txSvc.createFromProjectInTx(ctx, scope, projectID, timeutil.Now())
	if err != nil {
		return models.Invoice{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Invoice{}, err
	}
	return inv, nil
}

// projectInvoiceDraft assembles the draft invoice for a project. Offer
// items are copied as is; time entries roll up into one line whose ids are
// returned for invoice attribution. The service period end falls back to
// now when neither the project nor the entries provide one.
func projectInvoiceDraft(project models.Project, entries []models.TimeEntry, now time.Time) (models.Invoice, []int, error) {
	if !fsm.ProjectCanBeInvoiced(project.Status) {
		return models.Invoice{}, nil, models.NewAPIError(models.CodeProjectCannotBeInvoiced,
			fmt.Sprintf("project in status %q cannot be invoiced", project.Status),
			"accept the offer or start the project first")
	}

	inv := models.Invoice{
		UserID:    project.UserID,
		ClientID:  project.ClientID,
		ProjectID: &project.ID,
	}

	for _, it := range project.Items {
		inv.Items = append(inv.Items, models.InvoiceItem{
			Description: it.Description,
			Quantity:    it.Quantity,
			Unit:        it.Unit,
			UnitPrice:   it.UnitPrice,
			Position:    it.Position,
		})
	}
	inv.ServicePeriodStart = project.StartDate
	inv.ServicePeriodEnd = project.EndDate

	var entryIDs []int
	if len(entries) > 0 {
		item, ids := timeRollupItem(project, entries, len(inv.Items)+1)
		inv.Items = append(inv.Items, item)
		inv.ServicePeriodStart = &entries[0].StartedAt
		if end := entries[len(entries)-1].EndedAt; end != nil {
			inv.ServicePeriodEnd = end
		}
		entryIDs = ids
	}
	if len(inv.Items) == 0 {
		price := decimal.Zero
		if project.FixedPrice != nil {
			price = *project.FixedPrice
		}
		if price.IsZero() {
			return models.Invoice{}, nil, models.NewAPIError(models.CodeValidation,
				"project has no items and no unbilled time to invoice",
				"add offer items or track billable time first")
		}
		inv.Items = []models.InvoiceItem{{
			Description: project.Title,
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   price,
			Position:    1,
		}}
	}

	if inv.ServicePeriodEnd == nil {
		end := now
		inv.ServicePeriodEnd = &end
	}
	return inv, entryIDs, nil
}

func (s *InvoiceService) createFromProjectInTx(ctx context.Context, scope repositories.Scope, projectID int, now time.Time) (models.Invoice, error) {
	project, err := s.ProjectRepo.GetProjectByID(ctx, scope, projectID)
	if err != nil {
		return models.Invoice{}, err
	}
	var entries []models.TimeEntry
	if project.Type == models.ProjectTypeHourly && project.HourlyRate != nil {
		entries, err = s.TimeEntryRepo.GetUnbilledForProject(ctx, project.ID)
		if err != nil {
			return models.Invoice{}, err
		}
	}
	inv, entryIDs, err := projectInvoiceDraft(project, entries, now)
	if err != nil {
		return models.Invoice{}, err
	}

	created, err := s.createInTx(ctx, inv, now)
	if err != nil {
		return models.Invoice{}, err
	}
	if len(entryIDs) > 0 {
		if err := s.TimeEntryRepo.AttachInvoice(ctx, entryIDs, created.ID); err != nil {
			return models.Invoice{}, err
		}
	}
	return created, nil
}

func (s *InvoiceService) GetInvoiceByID(ctx context.Context, scope repositories.Scope, id int) (models.Invoice, error) {
	return s.InvoiceRepo.GetInvoiceByID(ctx, scope, id)
}

func (s *InvoiceService) GetInvoices(ctx context.Context, scope repositories.Scope) ([]models.Invoice, error) {
	return s.InvoiceRepo.GetInvoices(ctx, scope)
}

// UpdateInvoice replaces the mutable fields of a draft. Any other status
// rejects the edit.
func (s *InvoiceService) UpdateInvoice(ctx context.Context, scope repositories.Scope, inv models.Invoice) (models.Invoice, error) {
	current, err := s.InvoiceRepo.GetInvoiceByID(ctx, scope, inv.ID)
	if err != nil {
		return models.Invoice{}, err
	}
	if current.Status != fsm.InvoiceDraft {
		return models.Invoice{}, models.NewAPIError(models.CodeInvoiceNotDraft,
			fmt.Sprintf("invoice %s is %s and cannot be edited", current.Number, current.Status),
			"cancel the invoice and issue a new one instead")
	}
	inv.UserID = current.UserID
	inv.Number = current.Number
	inv.Status = current.Status
	if !inv.VATRate.Valid {
		inv.VATRate = current.VATRate
	}
	if inv.Items == nil {
		inv.Items = current.Items
	}
	for i := range inv.Items {
		if inv.Items[i].Position == 0 {
			inv.Items[i].Position = i + 1
		}
		if inv.Items[i].VATRate.IsZero() {
			inv.Items[i].VATRate = inv.VATRate.Decimal
		}
	}
	recompute(&inv)
	return s.InvoiceRepo.UpdateDraft(ctx, scope, inv)
}

// DeleteInvoice removes a draft. Sent and later invoices are part of the
// numbering sequence and must be cancelled, never deleted.
func (s *InvoiceService) DeleteInvoice(ctx context.Context, scope repositories.Scope, id int) error {
	current, err := s.InvoiceRepo.GetInvoiceByID(ctx, scope, id)
	if err != nil {
		return err
	}
	if current.Status != fsm.InvoiceDraft {
		return models.NewAPIError(models.CodeCannotDeleteInvoice,
			fmt.Sprintf("invoice %s is %s and cannot be deleted", current.Number, current.Status),
			"cancel the invoice instead to keep the numbering sequence intact")
	}
	return s.InvoiceRepo.DeleteInvoice(ctx, scope, id)
}

func (s *InvoiceService) transition(ctx context.Context, scope repositories.Scope, inv models.Invoice, target string) (models.Invoice, error) {
	from := inv.Status
	if !fsm.InvoiceCanTransition(from, target) {
		return models.Invoice{}, models.NewInvalidTransition("invoice", from, target)
	}
	inv.Status = target
	if err := s.InvoiceRepo.ApplyTransition(ctx, scope, inv, from); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Invoice{}, models.NewInvalidTransition("invoice", from, target)
		}
		return models.Invoice{}, err
	}
	return inv, nil
}

// Send issues a draft invoice and queues the invoice mail to the client.
func (s *InvoiceService) Send(ctx context.Context, scope repositories.Scope, id int) (models.Invoice, error) {
	inv, err := s.InvoiceRepo.GetInvoiceByID(ctx, scope, id)
	if err != nil {
		return models.Invoice{}, err
	}
	now := timeutil.Now()
	inv.SentAt = &now
	inv, err = s.transition(ctx, scope, inv, fsm.InvoiceSent)
	if err != nil {
		return models.Invoice{}, err
	}
	if client, err := s.ClientRepo.GetClientByID(ctx, scope, inv.ClientID); err == nil && client.Email != "" {
		s.queueInvoiceMail(ctx, client, inv)
	}
	return inv, nil
}

// queueInvoiceMail records the invoice mail for the dispatcher. A failed
// enqueue is logged; the invoice stays sent either way.
func (s *InvoiceService) queueInvoiceMail(ctx context.Context, client models.Client, inv models.Invoice) {
	_, err := s.EmailLogRepo.Enqueue(ctx, models.EmailLog{
		UserID:       inv.UserID,
		MailableType: models.MailableInvoice,
		MailableID:   inv.ID,
		Recipient:    client.Email,
		Subject:      "Rechnung " + inv.Number,
	})
	if err != nil && s.ErrorLog != nil {
		s.ErrorLog.Printf("queue invoice mail for invoice %s: %v", inv.Number, err)
	}
}

// markPaidGuard validates a paid transition before it is applied. Overdue
// invoices may still be paid; everything else that is not sent rejects.
func markPaidGuard(inv models.Invoice) error {
	switch inv.Status {
	case fsm.InvoiceSent, fsm.InvoiceOverdue:
		return nil
	case fsm.InvoicePaid:
		return models.NewAPIError(models.CodeAlreadyPaid,
			fmt.Sprintf("invoice %s is already paid", inv.Number))
	case fsm.InvoiceCancelled:
		return models.NewAPIError(models.CodeInvoiceCancelled,
			fmt.Sprintf("invoice %s is cancelled and cannot be paid", inv.Number))
	default:
		return models.NewAPIError(models.CodeInvoiceNotSent,
			fmt.Sprintf("invoice %s has not been sent", inv.Number),
			"send the invoice before marking it paid")
	}
}

// MarkPaid records a payment with its date and method. Works from sent and
// from overdue.
func (s *InvoiceService) MarkPaid(ctx context.Context, scope repositories.Scope, id int, paidAt *time.Time, method string) (models.Invoice, error) {
	inv, err := s.InvoiceRepo.GetInvoiceByID(ctx, scope, id)
	if err != nil {
		return models.Invoice{}, err
	}
	if err := markPaidGuard(inv); err != nil {
		return models.Invoice{}, err
	}
	when := timeutil.Now()
	if paidAt != nil {
		when = *paidAt
	}
	inv.PaidAt = &when
	if method != "" {
		inv.PaymentMethod = &method
	}
	return s.transition(ctx, scope, inv, fsm.InvoicePaid)
}

// Cancel voids an invoice. Paid invoices stay paid.
func (s *InvoiceService) Cancel(ctx context.Context, scope repositories.Scope, id int) (models.Invoice, error) {
	inv, err := s.InvoiceRepo.GetInvoiceByID(ctx, scope, id)
	if err != nil {
		return models.Invoice{}, err
	}
	return s.transition(ctx, scope, inv, fsm.InvoiceCancelled)
}

// TransitionTo is the generic transition entry point used by the batch
// engine.
func (s *InvoiceService) TransitionTo(ctx context.Context, scope repositories.Scope, id int, target string) (models.Invoice, error) {
	switch target {
	case fsm.InvoiceSent:
		return s.Send(ctx, scope, id)
	case fsm.InvoicePaid:
		return s.MarkPaid(ctx, scope, id, nil, "")
	case fsm.InvoiceCancelled:
		return s.Cancel(ctx, scope, id)
	default:
		if !fsm.IsInvoiceStatus(target) {
			return models.Invoice{}, models.NewAPIError(models.CodeInvalidStatus, fmt.Sprintf("unknown invoice status %q", target))
		}
		inv, err := s.InvoiceRepo.GetInvoiceByID(ctx, scope, id)
		if err != nil {
			return models.Invoice{}, err
		}
		return s.transition(ctx, scope, inv, target)
	}
}

// SweepOverdue flips every sent invoice whose due date lies before today to
// overdue. Runs from the nightly sweeper.
func (s *InvoiceService) SweepOverdue(ctx context.Context) (int64, error) {
	return s.InvoiceRepo.SweepOverdue(ctx, timeutil.StartOfDay(timeutil.Now()))
}
