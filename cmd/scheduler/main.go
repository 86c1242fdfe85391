package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/hokedu/tuition-engine/internal/cache"
	"github.com/hokedu/tuition-engine/internal/config"
	"github.com/hokedu/tuition-engine/internal/repository"
	"github.com/hokedu/tuition-engine/internal/service"
	"github.com/hokedu/tuition-engine/pkg/utils"
)

func main() {
	log.Println("Starting tuition scheduler...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	scheduleCache := cache.NewScheduleCache(redisClient, cfg.Billing.ScheduleCacheTTL)
	tuitionService := service.NewTuitionService(
		repository.NewObligationRepository(db),
		repository.NewPaymentRepository(db),
		repository.NewStudentRepository(db),
		repository.NewCourseRepository(db),
		scheduleCache,
		cfg,
	)

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		log.Fatalf("Invalid scheduler timezone %q: %v", cfg.Scheduler.Timezone, err)
	}

	// Initialize cron scheduler
	c := cron.New(cron.WithSeconds(), cron.WithLocation(location))

	setupCronJobs(c, cfg, tuitionService)

	// Start the scheduler
	c.Start()
	log.Println("Scheduler started successfully")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down scheduler...")
	c.Stop()
	log.Println("Scheduler stopped")
}

func setupCronJobs(c *cron.Cron, cfg *config.Config, svc *service.TuitionService) {
	// Nightly sweep re-running payment allocation for active students
	_, err := c.AddFunc(cfg.Scheduler.ReconcileSpec, func() {
		log.Println("Running nightly allocation reconcile sweep...")
		reconcileActiveStudents(svc)
	})
	if err != nil {
		log.Printf("Error scheduling reconcile sweep: %v", err)
	}

	// Fiscal year-end sweep carrying unpaid balances into the new year
	_, err = c.AddFunc(cfg.Scheduler.YearEndSpec, func() {
		log.Println("Running fiscal year-end migration sweep...")
		migrateYearEnd(svc, cfg)
	})
	if err != nil {
		log.Printf("Error scheduling year-end sweep: %v", err)
	}

	log.Println("Cron jobs scheduled successfully")
}

func reconcileActiveStudents(svc *service.TuitionService) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	students, err := svc.Students.ListActive(ctx)
	if err != nil {
		log.Printf("Reconcile sweep: failed to list students: %v", err)
		return
	}

	for _, student := range students {
		result, err := svc.Reconcile(ctx, student.ID)
		if err != nil {
			log.Printf("Reconcile sweep: student %s: %v", student.ID, err)
			continue
		}
		if result.Updated > 0 {
			log.Printf("Reconcile sweep: student %s: %d obligations updated, surplus %d", student.ID, result.Updated, result.Surplus)
		}
	}
}

func migrateYearEnd(svc *service.TuitionService, cfg *config.Config) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	// The sweep runs just after the fiscal year rolls over, so the source
	// year is the one that just ended.
	fromYear := utils.FiscalYear(time.Now(), cfg.Billing.FiscalStartMonth) - 1

	students, err := svc.Students.ListActive(ctx)
	if err != nil {
		log.Printf("Year-end sweep: failed to list students: %v", err)
		return
	}

	for _, student := range students {
		plan, err := svc.MigrateYear(ctx, student.ID, fromYear, false)
		if err != nil {
			log.Printf("Year-end sweep: student %s: %v", student.ID, err)
			continue
		}
		if plan.Migrated {
			log.Printf("Year-end sweep: student %s: carried %d into %d (new total %d)", student.ID, plan.AddedAmount, fromYear+1, plan.NewYearTotal)
		} else if plan.Reason != "no remaining balance for fromYear" {
			log.Printf("Year-end sweep: student %s: not migrated: %s", student.ID, plan.Reason)
		}
	}
}
