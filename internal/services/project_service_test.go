package services

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"log"
	"strings"
	"testing"
	"time"

	"fibuBack/internal/fsm"
	"fibuBack/internal/models"
	"fibuBack/internal/repositories"
)

func TestApplyProjectTransitionSendOffer(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	p := models.Project{Status: fsm.ProjectDraft}

	if err := applyProjectTransition(&p, fsm.ProjectSent, now, nil); err != nil {
		t.Fatalf("applyProjectTransition: %v", err)
	}
	if p.Status != fsm.ProjectSent {
		t.Errorf("status = %q; want sent", p.Status)
	}
	if p.OfferSentAt == nil || !p.OfferSentAt.Equal(now) {
		t.Errorf("offer_sent_at = %v; want %v", p.OfferSentAt, now)
	}
}

func TestApplyProjectTransitionSecondSendRejected(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	p := models.Project{Status: fsm.ProjectSent}

	err := applyProjectTransition(&p, fsm.ProjectSent, now, nil)
	if err == nil {
		t.Fatal("sending an already sent offer should be rejected")
	}
	apiErr, ok := models.AsAPIError(err)
	if !ok || apiErr.Code != models.CodeInvalidTransition {
		t.Errorf("error = %v; want INVALID_TRANSITION", err)
	}
	if p.Status != fsm.ProjectSent || p.OfferSentAt != nil {
		t.Error("rejected transition must not mutate the project")
	}
}

func TestApplyProjectTransitionStartWithExplicitDate(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	p := models.Project{Status: fsm.ProjectAccepted}

	if err := applyProjectTransition(&p, fsm.ProjectInProgress, now, &start); err != nil {
		t.Fatalf("applyProjectTransition: %v", err)
	}
	if p.StartDate == nil || !p.StartDate.Equal(start) {
		t.Errorf("start_date = %v; want %v", p.StartDate, start)
	}
}

func TestApplyProjectTransitionComplete(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	p := models.Project{Status: fsm.ProjectInProgress}

	if err := applyProjectTransition(&p, fsm.ProjectCompleted, now, nil); err != nil {
		t.Fatalf("applyProjectTransition: %v", err)
	}
	if p.EndDate == nil || !p.EndDate.Equal(now) {
		t.Errorf("end_date = %v; want %v", p.EndDate, now)
	}
}

func TestApplyProjectTransitionReopenClearsEndDate(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	p := models.Project{Status: fsm.ProjectCompleted, EndDate: &end}

	if err := applyProjectTransition(&p, fsm.ProjectInProgress, now, nil); err != nil {
		t.Fatalf("applyProjectTransition: %v", err)
	}
	if p.Status != fsm.ProjectInProgress {
		t.Errorf("status = %q; want in_progress", p.Status)
	}
	if p.EndDate != nil {
		t.Errorf("end_date = %v; want cleared", p.EndDate)
	}
	if p.StartDate != nil {
		t.Error("reopen must not overwrite the start date")
	}
}

func TestApplyProjectTransitionUnknownStatus(t *testing.T) {
	p := models.Project{Status: fsm.ProjectDraft}
	err := applyProjectTransition(&p, "archived", time.Now(), nil)
	if err == nil {
		t.Fatal("unknown status should be rejected")
	}
	apiErr, ok := models.AsAPIError(err)
	if !ok || apiErr.Code != models.CodeInvalidStatus {
		t.Errorf("error = %v; want INVALID_STATUS", err)
	}
}

// brokenDB fails every statement, standing in for a lost connection.
type brokenDB struct{}

func (brokenDB) ExecContext(context.Context, string, ...any) (sql.Result, error) {
	return nil, errors.New("connection reset")
}

func (brokenDB) QueryContext(context.Context, string, ...any) (*sql.Rows, error) {
	return nil, errors.New("connection reset")
}

func (brokenDB) QueryRowContext(context.Context, string, ...any) *sql.Row {
	return nil
}

func TestQueueOfferMailLogsEnqueueFailure(t *testing.T) {
	var buf bytes.Buffer
	svc := &ProjectService{
		EmailLogRepo: &repositories.EmailLogRepository{DB: brokenDB{}},
		ErrorLog:     log.New(&buf, "", 0),
	}

	client := models.Client{ID: 2, Email: "info@acme.example"}
	project := models.Project{ID: 5, UserID: 1, Title: "Relaunch"}
	svc.queueOfferMail(context.Background(), client, project)

	if !strings.Contains(buf.String(), "queue offer mail for project 5") {
		t.Errorf("log output = %q; want the failed enqueue recorded", buf.String())
	}
}
