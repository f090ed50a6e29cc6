package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"fibuBack/internal/models"
	"fibuBack/internal/repositories"
	"fibuBack/internal/schedule"
	"fibuBack/internal/timeutil"
)

type RecurringTaskService struct {
	TaskRepo     *repositories.RecurringTaskRepository
	ReminderRepo *repositories.ReminderRepository
	ErrorLog     *log.Logger
	InfoLog      *log.Logger
}

func newRecurringTaskServiceTx(db repositories.DBTX) *RecurringTaskService {
	return &RecurringTaskService{
		TaskRepo:     &repositories.RecurringTaskRepository{DB: db},
		ReminderRepo: &repositories.ReminderRepository{DB: db},
	}
}

func (s *RecurringTaskService) CreateRecurringTask(ctx context.Context, task models.RecurringTask) (models.RecurringTask, error) {
	if task.Title == "" {
		return models.RecurringTask{}, models.NewAPIError(models.CodeValidation, "task title is required")
	}
	if !schedule.IsFrequency(task.Frequency) {
		return models.RecurringTask{}, models.NewAPIError(models.CodeValidation,
			fmt.Sprintf("unknown frequency %q", task.Frequency),
			"use weekly, monthly, quarterly or yearly")
	}
	now := timeutil.Now()
	if task.StartedAt.IsZero() {
		task.StartedAt = now
	}
	if task.NextDueAt.IsZero() {
		task.NextDueAt = schedule.NextDue(task.Frequency, task.StartedAt)
	}
	task.Active = true
	return s.TaskRepo.CreateRecurringTask(ctx, task)
}

func (s *RecurringTaskService) GetRecurringTaskByID(ctx context.Context, scope repositories.Scope, id int) (models.RecurringTask, error) {
	return s.TaskRepo.GetRecurringTaskByID(ctx, scope, id)
}

func (s *RecurringTaskService) GetRecurringTasks(ctx context.Context, scope repositories.Scope) ([]models.RecurringTask, error) {
	return s.TaskRepo.GetRecurringTasks(ctx, scope)
}

func (s *RecurringTaskService) UpdateRecurringTask(ctx context.Context, scope repositories.Scope, task models.RecurringTask) (models.RecurringTask, error) {
	current, err := s.TaskRepo.GetRecurringTaskByID(ctx, scope, task.ID)
	if err != nil {
		return models.RecurringTask{}, err
	}
	if task.Frequency != "" && !schedule.IsFrequency(task.Frequency) {
		return models.RecurringTask{}, models.NewAPIError(models.CodeValidation,
			fmt.Sprintf("unknown frequency %q", task.Frequency))
	}
	if task.Frequency == "" {
		task.Frequency = current.Frequency
	}
	task.UserID = current.UserID
	task.NextDueAt = current.NextDueAt
	task.LastRunAt = current.LastRunAt
	task.Active = current.Active
	if task.StartedAt.IsZero() {
		task.StartedAt = current.StartedAt
	}
	return s.TaskRepo.UpdateRecurringTask(ctx, scope, task)
}

func (s *RecurringTaskService) DeleteRecurringTask(ctx context.Context, scope repositories.Scope, id int) error {
	return s.TaskRepo.DeleteRecurringTask(ctx, scope, id)
}

// Pause deactivates a task. Pausing an already paused task rejects.
func (s *RecurringTaskService) Pause(ctx context.Context, scope repositories.Scope, id int) (models.RecurringTask, error) {
	task, err := s.TaskRepo.GetRecurringTaskByID(ctx, scope, id)
	if err != nil {
		return models.RecurringTask{}, err
	}
	if !task.Active {
		return models.RecurringTask{}, models.NewAPIError(models.CodeTaskAlreadyPaused, "task is already paused")
	}
	task.Pause()
	if err := s.TaskRepo.SaveSchedule(ctx, scope, task); err != nil {
		return models.RecurringTask{}, err
	}
	return task, nil
}

// Resume reactivates a task, rolling its due date forward past now so it
// never resumes into a missed occurrence.
func (s *RecurringTaskService) Resume(ctx context.Context, scope repositories.Scope, id int) (models.RecurringTask, error) {
	task, err := s.TaskRepo.GetRecurringTaskByID(ctx, scope, id)
	if err != nil {
		return models.RecurringTask{}, err
	}
	if task.Active {
		return models.RecurringTask{}, models.NewAPIError(models.CodeTaskAlreadyActive, "task is already active")
	}
	task.Resume(timeutil.Now())
	if err := s.TaskRepo.SaveSchedule(ctx, scope, task); err != nil {
		return models.RecurringTask{}, err
	}
	return task, nil
}

// SkipOccurrence advances the schedule one period without producing a
// reminder, with an audit log entry.
func (s *RecurringTaskService) SkipOccurrence(ctx context.Context, scope repositories.Scope, id int, reason string) (models.RecurringTask, error) {
	task, err := s.TaskRepo.GetRecurringTaskByID(ctx, scope, id)
	if err != nil {
		return models.RecurringTask{}, err
	}
	if !task.Active {
		return models.RecurringTask{}, models.NewAPIError(models.CodeTaskNotActive, "paused tasks cannot be skipped")
	}
	task.Advance(timeutil.Now())
	if err := s.TaskRepo.SaveSchedule(ctx, scope, task); err != nil {
		return models.RecurringTask{}, err
	}
	entry := models.RecurringTaskLog{TaskID: task.ID, Action: models.TaskLogSkipped}
	if reason != "" {
		entry.Reason = &reason
	}
	if err := s.TaskRepo.AppendLog(ctx, entry); err != nil {
		return models.RecurringTask{}, err
	}
	return task, nil
}

// CompleteOccurrence marks the current occurrence done by hand and
// advances the schedule, with an audit log entry.
func (s *RecurringTaskService) CompleteOccurrence(ctx context.Context, scope repositories.Scope, id int) (models.RecurringTask, error) {
	task, err := s.TaskRepo.GetRecurringTaskByID(ctx, scope, id)
	if err != nil {
		return models.RecurringTask{}, err
	}
	if !task.Active {
		return models.RecurringTask{}, models.NewAPIError(models.CodeTaskNotActive, "paused tasks cannot be completed")
	}
	now := timeutil.Now()
	task.Advance(now)
	if err := s.TaskRepo.SaveSchedule(ctx, scope, task); err != nil {
		return models.RecurringTask{}, err
	}
	if err := s.TaskRepo.AppendLog(ctx, models.RecurringTaskLog{TaskID: task.ID, Action: models.TaskLogManuallyCompleted}); err != nil {
		return models.RecurringTask{}, err
	}
	return task, nil
}

func (s *RecurringTaskService) GetLogs(ctx context.Context, scope repositories.Scope, taskID int) ([]models.RecurringTaskLog, error) {
	if _, err := s.TaskRepo.GetRecurringTaskByID(ctx, scope, taskID); err != nil {
		return nil, err
	}
	return s.TaskRepo.GetLogs(ctx, taskID)
}

// ProcessDueTasks is the scheduler pass: for every due task create a system
// reminder, advance the schedule and log the run. A failing task is logged
// and skipped; the pass keeps going.
func (s *RecurringTaskService) ProcessDueTasks(ctx context.Context, now time.Time) (int, error) {
	tasks, err := s.TaskRepo.GetDueTasks(ctx, repositories.ScopeAllUsers(), now)
	if err != nil {
		return 0, err
	}
	processed := 0
	for _, task := range tasks {
		if err := s.processTask(ctx, task, now); err != nil {
			if s.ErrorLog != nil {
				s.ErrorLog.Printf("recurring task %d: %v", task.ID, err)
			}
			continue
		}
		processed++
	}
	return processed, nil
}

// dueTaskReminder builds the system reminder for a due task, anchored at
// 09:00 local on the due date.
func dueTaskReminder(task models.RecurringTask) models.Reminder {
	systemType := models.SystemTypeRecurringTask
	remindable := models.RemindableRecurringTask
	taskID := task.ID
	return models.Reminder{
		UserID:         task.UserID,
		Title:          task.Title,
		Description:    task.Description,
		DueAt:          timeutil.AtNine(task.NextDueAt),
		Priority:       models.PriorityNormal,
		IsSystem:       true,
		SystemType:     &systemType,
		RemindableType: &remindable,
		RemindableID:   &taskID,
	}
}

// upcomingTaskReminder builds the advance notice for a task, due at 09:00
// local the frequency's threshold number of days before the task is due.
func upcomingTaskReminder(task models.RecurringTask) models.Reminder {
	systemType := models.SystemTypeRecurringTaskUpcoming
	remindable := models.RemindableRecurringTask
	taskID := task.ID
	notice := task.NextDueAt.AddDate(0, 0, -schedule.UpcomingThresholdDays(task.Frequency))
	return models.Reminder{
		UserID:         task.UserID,
		Title:          "Bald fällig: " + task.Title,
		DueAt:          timeutil.AtNine(notice),
		Priority:       models.PriorityLow,
		IsSystem:       true,
		SystemType:     &systemType,
		RemindableType: &remindable,
		RemindableID:   &taskID,
	}
}

func (s *RecurringTaskService) processTask(ctx context.Context, task models.RecurringTask, now time.Time) error {
	if _, err := s.ReminderRepo.CreateReminder(ctx, dueTaskReminder(task)); err != nil {
		return err
	}
	task.Advance(now)
	if err := s.TaskRepo.SaveSchedule(ctx, repositories.ScopeAllUsers(), task); err != nil {
		return err
	}
	return s.TaskRepo.AppendLog(ctx, models.RecurringTaskLog{TaskID: task.ID, Action: models.TaskLogReminderCreated})
}

// CreateUpcomingReminders creates advance-notice reminders for active tasks
// inside their frequency window that do not already carry a pending
// reminder.
func (s *RecurringTaskService) CreateUpcomingReminders(ctx context.Context, now time.Time) (int, error) {
	tasks, err := s.TaskRepo.GetActiveWithoutPendingReminder(ctx, repositories.ScopeAllUsers())
	if err != nil {
		return 0, err
	}
	created := 0
	for _, task := range tasks {
		if !task.IsDueSoon(now) {
			continue
		}
		if _, err := s.ReminderRepo.CreateReminder(ctx, upcomingTaskReminder(task)); err != nil {
			if s.ErrorLog != nil {
				s.ErrorLog.Printf("upcoming reminder for task %d: %v", task.ID, err)
			}
			continue
		}
		created++
	}
	return created, nil
}
