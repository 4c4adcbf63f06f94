package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"focus-planner/internal/config"
	"focus-planner/internal/notify"
	"focus-planner/internal/repository"
	"focus-planner/internal/server"
	"focus-planner/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	statusRepo := repository.NewStatusRepository(db)
	plannerRepo := repository.NewPlannerRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	statsRepo := repository.NewStatisticsRepository(db)
	deviceRepo := repository.NewDeviceRepository(db)

	var provider notify.Provider = notify.LogProvider{}
	if cfg.TelegramToken != "" {
		telegramProvider, err := notify.NewTelegramProvider(cfg.TelegramToken)
		if err != nil {
			log.Fatalf("push provider: %v", err)
		}
		provider = telegramProvider
	}
	queue := notify.NewQueue(provider, 64)
	go queue.Run(ctx)

	categorySvc := service.NewCategoryService(categoryRepo)
	taskSvc := service.NewTaskService(taskRepo, subRepo, categorySvc)
	plannerSvc := service.NewPlannerService(plannerRepo, subRepo, taskRepo)
	statsSvc := service.NewStatisticsService(taskRepo, statusRepo, categoryRepo, statsRepo, userRepo, queue, service.DefaultClassifier())
	deviceSvc := service.NewDeviceService(deviceRepo, userRepo, queue)

	scheduler := service.NewSchedulerService(time.Local)
	summaryJob := func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := statsSvc.SendDailySummaries(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("daily summaries: %v", err)
		}
	}
	if cfg.SummaryInterval > 0 {
		if _, err := scheduler.ScheduleInterval(cfg.SummaryInterval, summaryJob); err != nil {
			log.Fatalf("schedule summaries: %v", err)
		}
	} else {
		if _, err := scheduler.ScheduleDaily(cfg.SummaryTime, summaryJob); err != nil {
			log.Fatalf("schedule summaries: %v", err)
		}
	}
	reminderSvc := service.NewReminderService(taskRepo, statusRepo, userRepo, queue, time.Hour)
	reminderJob := func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := reminderSvc.SendDueReminders(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("deadline reminders: %v", err)
		}
	}
	if _, err := scheduler.ScheduleInterval(15*time.Minute, reminderJob); err != nil {
		log.Fatalf("schedule reminders: %v", err)
	}

	scheduler.Start()
	defer scheduler.Stop()

	api := server.New(server.Deps{
		Users:      userRepo,
		Categories: categoryRepo,
		Statuses:   statusRepo,
		Devices:    deviceRepo,
		Snapshots:  statsRepo,
		Tasks:      taskSvc,
		Planners:   plannerSvc,
		Statistics: statsSvc,
		Gate:       deviceSvc,
	})

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: api.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("[info] planner server listening on %s", cfg.ListenAddr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server stopped with error: %v", err)
	}
	log.Println("Shutdown complete.")
}
