package services

import (
	"context"
	"fmt"
	"time"

	"fibuBack/internal/models"
	"fibuBack/internal/repositories"
	"fibuBack/internal/schedule"
	"fibuBack/internal/timeutil"
)

type ReminderService struct {
	ReminderRepo *repositories.ReminderRepository
}

func newReminderServiceTx(db repositories.DBTX) *ReminderService {
	return &ReminderService{
		ReminderRepo: &repositories.ReminderRepository{DB: db},
	}
}

func (s *ReminderService) CreateReminder(ctx context.Context, rem models.Reminder) (models.Reminder, error) {
	if rem.Title == "" {
		return models.Reminder{}, models.NewAPIError(models.CodeValidation, "reminder title is required")
	}
	if rem.DueAt.IsZero() {
		return models.Reminder{}, models.NewAPIError(models.CodeValidation, "due_at is required")
	}
	if rem.Recurrence != nil && !schedule.IsFrequency(*rem.Recurrence) {
		return models.Reminder{}, models.NewAPIError(models.CodeValidation,
			fmt.Sprintf("unknown recurrence %q", *rem.Recurrence))
	}
	if rem.RemindableType != nil {
		if !models.IsRemindableType(*rem.RemindableType) {
			return models.Reminder{}, models.NewAPIError(models.CodeValidation,
				fmt.Sprintf("unknown remindable type %q", *rem.RemindableType))
		}
		if rem.RemindableID == nil {
			return models.Reminder{}, models.NewAPIError(models.CodeValidation,
				"remindable_id is required when remindable_type is set")
		}
	}
	if rem.Priority == "" {
		rem.Priority = models.PriorityNormal
	}
	rem.IsSystem = false
	rem.SystemType = nil
	return s.ReminderRepo.CreateReminder(ctx, rem)
}

func (s *ReminderService) GetReminderByID(ctx context.Context, scope repositories.Scope, id int) (models.Reminder, error) {
	return s.ReminderRepo.GetReminderByID(ctx, scope, id)
}

func (s *ReminderService) GetReminders(ctx context.Context, scope repositories.Scope) ([]models.Reminder, error) {
	return s.ReminderRepo.GetReminders(ctx, scope)
}

// UpdateReminder edits a reminder. System reminders belong to the
// schedulers and cannot be edited by hand.
func (s *ReminderService) UpdateReminder(ctx context.Context, scope repositories.Scope, rem models.Reminder) (models.Reminder, error) {
	current, err := s.ReminderRepo.GetReminderByID(ctx, scope, rem.ID)
	if err != nil {
		return models.Reminder{}, err
	}
	if current.IsSystem {
		return models.Reminder{}, models.NewAPIError(models.CodeValidation,
			"system reminders cannot be edited",
			"complete or snooze the reminder instead")
	}
	if rem.Recurrence != nil && !schedule.IsFrequency(*rem.Recurrence) {
		return models.Reminder{}, models.NewAPIError(models.CodeValidation,
			fmt.Sprintf("unknown recurrence %q", *rem.Recurrence))
	}
	rem.UserID = current.UserID
	rem.IsSystem = current.IsSystem
	rem.SystemType = current.SystemType
	rem.CompletedAt = current.CompletedAt
	if rem.Title == "" {
		rem.Title = current.Title
	}
	if rem.DueAt.IsZero() {
		rem.DueAt = current.DueAt
	}
	if rem.Priority == "" {
		rem.Priority = current.Priority
	}
	return s.ReminderRepo.UpdateReminder(ctx, scope, rem)
}

func (s *ReminderService) DeleteReminder(ctx context.Context, scope repositories.Scope, id int) error {
	return s.ReminderRepo.DeleteReminder(ctx, scope, id)
}

// Complete marks a reminder done. Completing a recurring reminder spawns
// its successor with the due date advanced one period.
func (s *ReminderService) Complete(ctx context.Context, scope repositories.Scope, id int) (models.Reminder, error) {
	rem, err := s.ReminderRepo.GetReminderByID(ctx, scope, id)
	if err != nil {
		return models.Reminder{}, err
	}
	if rem.IsCompleted() {
		return models.Reminder{}, models.NewAPIError(models.CodeAlreadyCompleted, "reminder is already completed")
	}
	now := timeutil.Now()
	rem.CompletedAt = &now
	rem, err = s.ReminderRepo.UpdateReminder(ctx, scope, rem)
	if err != nil {
		return models.Reminder{}, err
	}
	if rem.Recurrence != nil {
		if _, err := s.ReminderRepo.CreateReminder(ctx, rem.NextOccurrence()); err != nil {
			return models.Reminder{}, err
		}
	}
	return rem, nil
}

// Snooze pushes the reminder's effective due time forward by the given
// number of hours from now.
func (s *ReminderService) Snooze(ctx context.Context, scope repositories.Scope, id, hours int) (models.Reminder, error) {
	if hours <= 0 {
		return models.Reminder{}, models.NewAPIError(models.CodeValidation, "snooze hours must be positive")
	}
	rem, err := s.ReminderRepo.GetReminderByID(ctx, scope, id)
	if err != nil {
		return models.Reminder{}, err
	}
	if rem.IsCompleted() {
		return models.Reminder{}, models.NewAPIError(models.CodeAlreadyCompleted, "completed reminders cannot be snoozed")
	}
	until := timeutil.Now().Add(time.Duration(hours) * time.Hour)
	rem.SnoozedUntil = &until
	return s.ReminderRepo.UpdateReminder(ctx, scope, rem)
}
