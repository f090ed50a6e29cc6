package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"
)

func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders, makeResponseJSON)
	authMiddleware := standardMiddleware.Append(app.JWTMiddleware)

	mux := pat.New()

	// Users
	mux.Post("/user/sign_up", standardMiddleware.ThenFunc(app.userHandler.SignUp))
	mux.Post("/user/sign_in", standardMiddleware.ThenFunc(app.userHandler.SignIn))
	mux.Get("/user/me", authMiddleware.ThenFunc(app.userHandler.GetMe))

	// Clients
	mux.Post("/client", authMiddleware.ThenFunc(app.clientHandler.CreateClient))
	mux.Get("/client", authMiddleware.ThenFunc(app.clientHandler.GetClients))
	mux.Get("/client/:id", authMiddleware.ThenFunc(app.clientHandler.GetClientByID))
	mux.Put("/client/:id", authMiddleware.ThenFunc(app.clientHandler.UpdateClient))
	mux.Del("/client/:id", authMiddleware.ThenFunc(app.clientHandler.DeleteClient))

	// Projects
	mux.Post("/project", authMiddleware.ThenFunc(app.projectHandler.CreateProject))
	mux.Get("/project", authMiddleware.ThenFunc(app.projectHandler.GetProjects))
	mux.Get("/project/:id", authMiddleware.ThenFunc(app.projectHandler.GetProjectByID))
	mux.Put("/project/:id", authMiddleware.ThenFunc(app.projectHandler.UpdateProject))
	mux.Del("/project/:id", authMiddleware.ThenFunc(app.projectHandler.DeleteProject))
	mux.Post("/project/:id/send_offer", authMiddleware.ThenFunc(app.projectHandler.SendOffer))
	mux.Post("/project/:id/accept_offer", authMiddleware.ThenFunc(app.projectHandler.AcceptOffer))
	mux.Post("/project/:id/decline_offer", authMiddleware.ThenFunc(app.projectHandler.DeclineOffer))
	mux.Post("/project/:id/start", authMiddleware.ThenFunc(app.projectHandler.StartProject))
	mux.Post("/project/:id/complete", authMiddleware.ThenFunc(app.projectHandler.CompleteProject))
	mux.Post("/project/:id/reopen", authMiddleware.ThenFunc(app.projectHandler.ReopenProject))
	mux.Post("/project/:id/cancel", authMiddleware.ThenFunc(app.projectHandler.CancelProject))
	mux.Post("/project/:id/transition", authMiddleware.ThenFunc(app.projectHandler.Transition))

	// Invoices
	mux.Post("/invoice", authMiddleware.ThenFunc(app.invoiceHandler.CreateInvoice))
	mux.Post("/invoice/from_project", authMiddleware.ThenFunc(app.invoiceHandler.CreateFromProject))
	mux.Get("/invoice", authMiddleware.ThenFunc(app.invoiceHandler.GetInvoices))
	mux.Get("/invoice/:id", authMiddleware.ThenFunc(app.invoiceHandler.GetInvoiceByID))
	mux.Put("/invoice/:id", authMiddleware.ThenFunc(app.invoiceHandler.UpdateInvoice))
	mux.Del("/invoice/:id", authMiddleware.ThenFunc(app.invoiceHandler.DeleteInvoice))
	mux.Post("/invoice/:id/send", authMiddleware.ThenFunc(app.invoiceHandler.SendInvoice))
	mux.Post("/invoice/:id/mark_paid", authMiddleware.ThenFunc(app.invoiceHandler.MarkPaid))
	mux.Post("/invoice/:id/cancel", authMiddleware.ThenFunc(app.invoiceHandler.CancelInvoice))

	// Time entries
	mux.Post("/time_entry", authMiddleware.ThenFunc(app.timeEntryHandler.CreateTimeEntry))
	mux.Get("/time_entry/project/:project_id", authMiddleware.ThenFunc(app.timeEntryHandler.GetTimeEntriesByProject))
	mux.Get("/time_entry/running", authMiddleware.ThenFunc(app.timeEntryHandler.GetRunningTimer))
	mux.Get("/time_entry/:id", authMiddleware.ThenFunc(app.timeEntryHandler.GetTimeEntryByID))
	mux.Put("/time_entry/:id", authMiddleware.ThenFunc(app.timeEntryHandler.UpdateTimeEntry))
	mux.Del("/time_entry/:id", authMiddleware.ThenFunc(app.timeEntryHandler.DeleteTimeEntry))
	mux.Post("/timer/start", authMiddleware.ThenFunc(app.timeEntryHandler.StartTimer))
	mux.Post("/timer/stop", authMiddleware.ThenFunc(app.timeEntryHandler.StopTimer))

	// Recurring tasks
	mux.Post("/recurring_task", authMiddleware.ThenFunc(app.recurringTaskHandler.CreateRecurringTask))
	mux.Get("/recurring_task", authMiddleware.ThenFunc(app.recurringTaskHandler.GetRecurringTasks))
	mux.Get("/recurring_task/:id", authMiddleware.ThenFunc(app.recurringTaskHandler.GetRecurringTaskByID))
	mux.Put("/recurring_task/:id", authMiddleware.ThenFunc(app.recurringTaskHandler.UpdateRecurringTask))
	mux.Del("/recurring_task/:id", authMiddleware.ThenFunc(app.recurringTaskHandler.DeleteRecurringTask))
	mux.Post("/recurring_task/:id/pause", authMiddleware.ThenFunc(app.recurringTaskHandler.PauseTask))
	mux.Post("/recurring_task/:id/resume", authMiddleware.ThenFunc(app.recurringTaskHandler.ResumeTask))
	mux.Post("/recurring_task/:id/skip", authMiddleware.ThenFunc(app.recurringTaskHandler.SkipOccurrence))
	mux.Post("/recurring_task/:id/complete", authMiddleware.ThenFunc(app.recurringTaskHandler.CompleteOccurrence))
	mux.Get("/recurring_task/:id/logs", authMiddleware.ThenFunc(app.recurringTaskHandler.GetLogs))

	// Reminders
	mux.Post("/reminder", authMiddleware.ThenFunc(app.reminderHandler.CreateReminder))
	mux.Get("/reminder", authMiddleware.ThenFunc(app.reminderHandler.GetReminders))
	mux.Get("/reminder/:id", authMiddleware.ThenFunc(app.reminderHandler.GetReminderByID))
	mux.Put("/reminder/:id", authMiddleware.ThenFunc(app.reminderHandler.UpdateReminder))
	mux.Del("/reminder/:id", authMiddleware.ThenFunc(app.reminderHandler.DeleteReminder))
	mux.Post("/reminder/:id/complete", authMiddleware.ThenFunc(app.reminderHandler.CompleteReminder))
	mux.Post("/reminder/:id/snooze", authMiddleware.ThenFunc(app.reminderHandler.SnoozeReminder))

	// Settings
	mux.Get("/settings/:key", authMiddleware.ThenFunc(app.settingsHandler.GetSetting))
	mux.Put("/settings/:key", authMiddleware.ThenFunc(app.settingsHandler.SetSetting))

	// Email log
	mux.Get("/email_log", authMiddleware.ThenFunc(app.emailLogHandler.GetEmailLogs))
	mux.Post("/email_log/:id/retry", authMiddleware.ThenFunc(app.emailLogHandler.RetryEmail))

	// Batch
	mux.Post("/ai/batch", authMiddleware.ThenFunc(app.batchHandler.Execute))
	mux.Post("/ai/batch/validate", authMiddleware.ThenFunc(app.batchHandler.Validate))

	return mux
}
