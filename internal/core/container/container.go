package container

import (
	"context"
	"database/sql"
	"time"

	"securestock/internal/activity"
	"securestock/internal/assignments"
	"securestock/internal/chat"
	"securestock/internal/config"
	"securestock/internal/core/logger"
	"securestock/internal/dashboard"
	"securestock/internal/employees"
	"securestock/internal/integrations/googlesheets"
	"securestock/internal/inventory/category"
	"securestock/internal/inventory/stocks"
	"securestock/internal/maintenance"
	"securestock/internal/middleware"
	"securestock/internal/notifications"
	"securestock/internal/rate_limiter"
	"securestock/internal/repository"
	"securestock/internal/scheduler"
	"securestock/internal/users"
	"securestock/pkg/activitylog"
	"securestock/pkg/clients/llm"
	"securestock/pkg/security"

	"go.uber.org/zap"
)

const Version = "1.0.0"

type Container struct {
	Config     *config.Config
	Logger     *zap.Logger
	Repository *repository.Repository
	Tokens     *security.TokenManager
	Health     *middleware.HealthCheck
	Scheduler  *scheduler.Scheduler
	Users      *users.UserService

	LoginHandler        *security.LoginHandler
	UserHandler         *users.UsersHandler
	CategoryHandler     *category.CategoryHandler
	StockHandler        *stocks.StockHandler
	EmployeeHandler     *employees.EmployeeHandler
	AssignmentHandler   *assignments.AssignmentHandler
	MaintenanceHandler  *maintenance.MaintenanceHandler
	NotificationHandler *notifications.NotificationHandler
	ActivityHandler     *activity.ActivityHandler
	DashboardHandler    *dashboard.DashboardHandler
	ChatHandler         *chat.ChatHandler
	ReportHandler       *googlesheets.ReportHandler

	limiters []*rate_limiter.RateLimiter
}

func NewAppContainer(ctx context.Context, cfg *config.Config, db *sql.DB, log *zap.Logger) (*Container, error) {
	repo := repository.NewRepository(db)

	activityRepo := activity.NewRepository(repo)
	activityLog := activitylog.NewActivityLog(activityRepo, logger.Named(log, "activity"))

	userRepo := users.NewRepository(repo)
	userService := users.NewUserService(userRepo, logger.Named(log, "users"))

	tokens := security.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	loginLimiter := rate_limiter.NewRateLimiter(10, 5*time.Minute)
	chatLimiter := rate_limiter.NewRateLimiter(30, time.Minute)

	categoryService := category.NewCategoryService(category.NewRepository(repo))

	// Without SMTP the notifier stays a nil interface and maintenance skips mailing.
	var notifier maintenance.Notifier
	var mailer notifications.Notifier
	if cfg.Mail.Enabled() {
		m := notifications.NewMailer(cfg.Mail, logger.Named(log, "mailer"))
		notifier, mailer = m, m
	} else {
		log.Info("SMTP not configured, maintenance notifications disabled")
	}

	maintenanceRepo := maintenance.NewRepository(repo)
	maintenanceService := maintenance.NewMaintenanceService(maintenanceRepo, notifier, logger.Named(log, "maintenance"))

	stockRepo := stocks.NewRepository(repo)
	stockService := stocks.NewStockService(stockRepo, maintenanceRepo, logger.Named(log, "stocks"))
	exporter := stocks.NewExporter(stockService, categoryService)

	assignmentService := assignments.NewAssignmentService(assignments.NewRepository(repo), stockRepo, logger.Named(log, "assignments"))
	employeeService := employees.NewEmployeeService(employees.NewRepository(repo), assignmentService, logger.Named(log, "employees"))

	dashboardService := dashboard.NewDashboardService(dashboard.NewRepository(repo), categoryService, activityRepo, maintenanceRepo)

	if !cfg.LLM.Enabled() {
		log.Info("LLM key not configured, chat requires a caller supplied key")
	}
	chatService := chat.NewChatService(chat.NewRepository(repo), llm.NewClient(cfg.LLM), dashboardService, logger.Named(log, "chat"))

	jobs := scheduler.NewScheduler(logger.Named(log, "scheduler"))
	var syncer googlesheets.Syncer
	if cfg.Sheets.Enabled() {
		writer, err := googlesheets.NewSheetWriter(ctx, cfg.Sheets, logger.Named(log, "sheets"))
		if err != nil {
			return nil, err
		}
		report := googlesheets.NewStockReport(writer, categoryService, cfg.Reporting.SheetRange, logger.Named(log, "report"))
		if err := jobs.Add("stock-report", cfg.Reporting.CronSchedule, report.Sync); err != nil {
			return nil, err
		}
		syncer = report
	} else {
		log.Info("google sheets not configured, stock report export disabled")
	}

	return &Container{
		Config:     cfg,
		Logger:     log,
		Repository: repo,
		Tokens:     tokens,
		Health:     middleware.NewHealthCheck(db, Version),
		Scheduler:  jobs,
		Users:      userService,

		LoginHandler:        security.NewLoginHandler(userRepo, tokens, loginLimiter, logger.Named(log, "login")),
		UserHandler:         users.NewHandler(userService, activityLog, logger.Named(log, "users")),
		CategoryHandler:     category.NewCategoryHandler(categoryService, activityLog, logger.Named(log, "categories")),
		StockHandler:        stocks.NewStockHandler(stockService, exporter, activityLog, logger.Named(log, "stocks")),
		EmployeeHandler:     employees.NewEmployeeHandler(employeeService, activityLog, logger.Named(log, "employees")),
		AssignmentHandler:   assignments.NewAssignmentHandler(assignmentService, activityLog, logger.Named(log, "assignments")),
		MaintenanceHandler:  maintenance.NewMaintenanceHandler(maintenanceService, activityLog, logger.Named(log, "maintenance")),
		NotificationHandler: notifications.NewNotificationHandler(mailer, activityLog, logger.Named(log, "notifications")),
		ActivityHandler:     activity.NewActivityHandler(activityRepo, logger.Named(log, "activity")),
		DashboardHandler:    dashboard.NewDashboardHandler(dashboardService, logger.Named(log, "dashboard")),
		ChatHandler:         chat.NewChatHandler(chatService, chatLimiter, logger.Named(log, "chat")),
		ReportHandler:       googlesheets.NewReportHandler(syncer, activityLog, logger.Named(log, "reports")),

		limiters: []*rate_limiter.RateLimiter{loginLimiter, chatLimiter},
	}, nil
}

// Close stops background workers owned by the container.
func (c *Container) Close(ctx context.Context) {
	c.Scheduler.Stop(ctx)
	for _, l := range c.limiters {
		l.Stop()
	}
}
