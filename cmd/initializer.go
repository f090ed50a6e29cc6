package main

import (
	"database/sql"
	"log"
	"net/http"

	_ "github.com/go-sql-driver/mysql"

	"fibuBack/internal/handlers"
	"fibuBack/internal/repositories"
	"fibuBack/internal/services"
	"fibuBack/utils"
)

type application struct {
	errorLog *log.Logger
	infoLog  *log.Logger
	db       *sql.DB

	tokenManager *utils.Manager

	userHandler          *handlers.UserHandler
	clientHandler        *handlers.ClientHandler
	projectHandler       *handlers.ProjectHandler
	invoiceHandler       *handlers.InvoiceHandler
	timeEntryHandler     *handlers.TimeEntryHandler
	recurringTaskHandler *handlers.RecurringTaskHandler
	reminderHandler      *handlers.ReminderHandler
	settingsHandler      *handlers.SettingsHandler
	emailLogHandler      *handlers.EmailLogHandler
	batchHandler         *handlers.BatchHandler

	invoiceService       *services.InvoiceService
	recurringTaskService *services.RecurringTaskService
	emailService         *services.EmailService
}

func initializeApp(db *sql.DB, tokenManager *utils.Manager, errorLog, infoLog *log.Logger) *application {
	// Repositories
	userRepo := repositories.UserRepository{DB: db}
	clientRepo := repositories.ClientRepository{DB: db}
	projectRepo := repositories.ProjectRepository{DB: db}
	invoiceRepo := repositories.InvoiceRepository{DB: db}
	timeEntryRepo := repositories.TimeEntryRepository{DB: db}
	recurringTaskRepo := repositories.RecurringTaskRepository{DB: db}
	reminderRepo := repositories.ReminderRepository{DB: db}
	settingsRepo := repositories.SettingsRepository{DB: db}
	emailLogRepo := repositories.EmailLogRepository{DB: db}

	// Services
	userService := &services.UserService{UserRepo: &userRepo, TokenManager: tokenManager}
	clientService := &services.ClientService{ClientRepo: &clientRepo}
	projectService := &services.ProjectService{
		ProjectRepo:  &projectRepo,
		ClientRepo:   &clientRepo,
		EmailLogRepo: &emailLogRepo,
		ErrorLog:     errorLog,
	}
	invoiceService := &services.InvoiceService{
		DB:            db,
		InvoiceRepo:   &invoiceRepo,
		ProjectRepo:   &projectRepo,
		ClientRepo:    &clientRepo,
		TimeEntryRepo: &timeEntryRepo,
		SettingsRepo:  &settingsRepo,
		EmailLogRepo:  &emailLogRepo,
		ErrorLog:      errorLog,
	}
	timeEntryService := &services.TimeEntryService{
		TimeEntryRepo: &timeEntryRepo,
		ProjectRepo:   &projectRepo,
	}
	recurringTaskService := &services.RecurringTaskService{
		TaskRepo:     &recurringTaskRepo,
		ReminderRepo: &reminderRepo,
		ErrorLog:     errorLog,
		InfoLog:      infoLog,
	}
	reminderService := &services.ReminderService{ReminderRepo: &reminderRepo}
	settingsService := &services.SettingsService{SettingsRepo: &settingsRepo}
	emailService := &services.EmailService{
		EmailLogRepo: &emailLogRepo,
		Sender:       services.LogSender{InfoLog: infoLog},
		ErrorLog:     errorLog,
	}
	batchService := &services.BatchService{DB: db}

	return &application{
		errorLog:     errorLog,
		infoLog:      infoLog,
		db:           db,
		tokenManager: tokenManager,

		userHandler:          &handlers.UserHandler{Service: userService},
		clientHandler:        &handlers.ClientHandler{Service: clientService},
		projectHandler:       &handlers.ProjectHandler{Service: projectService},
		invoiceHandler:       &handlers.InvoiceHandler{Service: invoiceService},
		timeEntryHandler:     &handlers.TimeEntryHandler{Service: timeEntryService},
		recurringTaskHandler: &handlers.RecurringTaskHandler{Service: recurringTaskService},
		reminderHandler:      &handlers.ReminderHandler{Service: reminderService},
		settingsHandler:      &handlers.SettingsHandler{Service: settingsService},
		emailLogHandler:      &handlers.EmailLogHandler{Service: emailService},
		batchHandler:         &handlers.BatchHandler{Service: batchService},

		invoiceService:       invoiceService,
		recurringTaskService: recurringTaskService,
		emailService:         emailService,
	}
}

func openDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		log.Printf("Failed to open DB: %v", err)
		return nil, err
	}
	if err = db.Ping(); err != nil {
		log.Printf("Failed to ping DB: %v", err)
		return nil, err
	}
	db.SetMaxIdleConns(35)
	log.Println("Successfully connected to database")
	return db, nil
}

func addSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
		w.Header().Set("Cross-Origin-Embedder-Policy", "require-corp")
		w.Header().Set("Cross-Origin-Resource-Policy", "same-origin")
		next.ServeHTTP(w, r)
	})
}
