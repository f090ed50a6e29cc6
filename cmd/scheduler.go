package main

import (
	"context"
	"log"
	"time"

	"fibuBack/internal/services"
)

const (
	schedulerRunTimeout  = 1 * time.Minute
	dispatcherRunTimeout = 1 * time.Minute
)

// startRecurringTaskRunner is the daily scheduler pass: due tasks become
// system reminders and advance, upcoming tasks get their advance notice,
// sent invoices past their due date flip to overdue.
func startRecurringTaskRunner(ctx context.Context, tasks *services.RecurringTaskService, invoices *services.InvoiceService, infoLog, errorLog *log.Logger) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()

		runOnce := func() {
			runCtx, cancel := context.WithTimeout(ctx, schedulerRunTimeout)
			defer cancel()

			now := time.Now()
			processed, err := tasks.ProcessDueTasks(runCtx, now)
			if err != nil {
				errorLog.Printf("scheduler: process due tasks: %v", err)
			} else if processed > 0 {
				infoLog.Printf("scheduler: processed %d due recurring tasks", processed)
			}

			created, err := tasks.CreateUpcomingReminders(runCtx, now)
			if err != nil {
				errorLog.Printf("scheduler: create upcoming reminders: %v", err)
			} else if created > 0 {
				infoLog.Printf("scheduler: created %d upcoming reminders", created)
			}

			swept, err := invoices.SweepOverdue(runCtx)
			if err != nil {
				errorLog.Printf("scheduler: overdue sweep: %v", err)
			} else if swept > 0 {
				infoLog.Printf("scheduler: marked %d invoices overdue", swept)
			}
		}

		runOnce()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runOnce()
			}
		}
	}()
}

// startEmailDispatcher delivers queued mail and due retries every minute.
func startEmailDispatcher(ctx context.Context, emails *services.EmailService, infoLog, errorLog *log.Logger) {
	go func() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		runOnce := func() {
			runCtx, cancel := context.WithTimeout(ctx, dispatcherRunTimeout)
			defer cancel()

			sent, err := emails.ProcessQueue(runCtx)
			if err != nil {
				errorLog.Printf("email dispatcher: %v", err)
			} else if sent > 0 {
				infoLog.Printf("email dispatcher: sent %d mails", sent)
			}
		}

		runOnce()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runOnce()
			}
		}
	}()
}
