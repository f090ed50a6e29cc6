package services

import (
	"context"
	"errors"

	"fibuBack/internal/models"
	"fibuBack/internal/repositories"
	"fibuBack/internal/timeutil"
)

type TimeEntryService struct {
	TimeEntryRepo *repositories.TimeEntryRepository
	ProjectRepo   *repositories.ProjectRepository
}

func newTimeEntryServiceTx(db repositories.DBTX) *TimeEntryService {
	return &TimeEntryService{
		TimeEntryRepo: &repositories.TimeEntryRepository{DB: db},
		ProjectRepo:   &repositories.ProjectRepository{DB: db},
	}
}

func (s *TimeEntryService) CreateTimeEntry(ctx context.Context, entry models.TimeEntry) (models.TimeEntry, error) {
	if _, err := s.ProjectRepo.GetProjectByID(ctx, repositories.ScopeUser(entry.UserID), entry.ProjectID); err != nil {
		return models.TimeEntry{}, err
	}
	if entry.StartedAt.IsZero() {
		return models.TimeEntry{}, models.NewAPIError(models.CodeValidation, "started_at is required")
	}
	if entry.EndedAt != nil && entry.EndedAt.Before(entry.StartedAt) {
		return models.TimeEntry{}, models.NewAPIError(models.CodeValidation, "ended_at must not lie before started_at")
	}
	entry.DeriveDuration()
	return s.TimeEntryRepo.CreateTimeEntry(ctx, entry)
}

func (s *TimeEntryService) GetTimeEntryByID(ctx context.Context, scope repositories.Scope, id int) (models.TimeEntry, error) {
	return s.TimeEntryRepo.GetTimeEntryByID(ctx, scope, id)
}

func (s *TimeEntryService) GetTimeEntriesByProject(ctx context.Context, scope repositories.Scope, projectID int) ([]models.TimeEntry, error) {
	return s.TimeEntryRepo.GetTimeEntriesByProject(ctx, scope, projectID)
}

// UpdateTimeEntry edits an entry. Invoiced entries are frozen.
func (s *TimeEntryService) UpdateTimeEntry(ctx context.Context, scope repositories.Scope, entry models.TimeEntry) (models.TimeEntry, error) {
	current, err := s.TimeEntryRepo.GetTimeEntryByID(ctx, scope, entry.ID)
	if err != nil {
		return models.TimeEntry{}, err
	}
	if current.IsInvoiced() {
		return models.TimeEntry{}, models.NewAPIError(models.CodeTimeEntryInvoiced,
			"time entry is already invoiced and cannot be changed")
	}
	entry.UserID = current.UserID
	entry.ProjectID = current.ProjectID
	entry.InvoiceID = current.InvoiceID
	if entry.StartedAt.IsZero() {
		entry.StartedAt = current.StartedAt
	}
	if entry.EndedAt != nil && entry.EndedAt.Before(entry.StartedAt) {
		return models.TimeEntry{}, models.NewAPIError(models.CodeValidation, "ended_at must not lie before started_at")
	}
	entry.DeriveDuration()
	return s.TimeEntryRepo.UpdateTimeEntry(ctx, scope, entry)
}

func (s *TimeEntryService) DeleteTimeEntry(ctx context.Context, scope repositories.Scope, id int) error {
	current, err := s.TimeEntryRepo.GetTimeEntryByID(ctx, scope, id)
	if err != nil {
		return err
	}
	if current.IsInvoiced() {
		return models.NewAPIError(models.CodeTimeEntryInvoiced,
			"time entry is already invoiced and cannot be deleted")
	}
	return s.TimeEntryRepo.DeleteTimeEntry(ctx, scope, id)
}

// StartTimer opens a running entry for the project. At most one timer runs
// per user at any time.
func (s *TimeEntryService) StartTimer(ctx context.Context, userID, projectID int, description string) (models.TimeEntry, error) {
	if _, err := s.ProjectRepo.GetProjectByID(ctx, repositories.ScopeUser(userID), projectID); err != nil {
		return models.TimeEntry{}, err
	}
	_, err := s.TimeEntryRepo.GetRunningTimeEntry(ctx, userID)
	if err == nil {
		return models.TimeEntry{}, models.NewAPIError(models.CodeTimerAlreadyRunning,
			"a timer is already running",
			"stop the running timer before starting a new one")
	}
	if !errors.Is(err, models.ErrTimeEntryNotFound) {
		return models.TimeEntry{}, err
	}
	entry := models.TimeEntry{
		UserID:      userID,
		ProjectID:   projectID,
		Description: description,
		StartedAt:   timeutil.Now(),
		Billable:    true,
	}
	return s.TimeEntryRepo.CreateTimeEntry(ctx, entry)
}

// StopTimer closes the user's running entry and derives its duration.
func (s *TimeEntryService) StopTimer(ctx context.Context, userID int) (models.TimeEntry, error) {
	entry, err := s.TimeEntryRepo.GetRunningTimeEntry(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrTimeEntryNotFound) {
			return models.TimeEntry{}, models.NewAPIError(models.CodeTimerNotRunning, "no timer is running")
		}
		return models.TimeEntry{}, err
	}
	now := timeutil.Now()
	entry.EndedAt = &now
	entry.DeriveDuration()
	return s.TimeEntryRepo.UpdateTimeEntry(ctx, repositories.ScopeUser(userID), entry)
}

// GetRunningTimer returns the user's open entry, or ErrTimeEntryNotFound.
func (s *TimeEntryService) GetRunningTimer(ctx context.Context, userID int) (models.TimeEntry, error) {
	return s.TimeEntryRepo.GetRunningTimeEntry(ctx, userID)
}
