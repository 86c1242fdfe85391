// Command migrate runs the year-end balance migration for one student or
// every active student. With -dry-run it prints each plan without writing.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/hokedu/tuition-engine/internal/cache"
	"github.com/hokedu/tuition-engine/internal/config"
	"github.com/hokedu/tuition-engine/internal/domain"
	"github.com/hokedu/tuition-engine/internal/repository"
	"github.com/hokedu/tuition-engine/internal/service"
)

func main() {
	var (
		studentID = flag.String("student", "", "student ID to migrate; empty migrates all active students")
		fromYear  = flag.Int("from-year", 0, "source billing year (required)")
		dryRun    = flag.Bool("dry-run", false, "plan only, write nothing")
	)
	flag.Parse()

	if *fromYear <= 2000 {
		log.Fatal("-from-year is required")
	}

	// Best effort; the config loader also reads the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// No redis here: the cache degrades to a no-op with a nil client and a
	// one-off script has nothing to warm.
	svc := service.NewTuitionService(
		repository.NewObligationRepository(db),
		repository.NewPaymentRepository(db),
		repository.NewStudentRepository(db),
		repository.NewCourseRepository(db),
		cache.NewScheduleCache(nil, cfg.Billing.ScheduleCacheTTL),
		cfg,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	var students []*domain.Student
	if *studentID != "" {
		student, err := svc.Students.GetByID(ctx, *studentID)
		if err != nil {
			log.Fatalf("Failed to load student %s: %v", *studentID, err)
		}
		students = append(students, student)
	} else {
		students, err = svc.Students.ListActive(ctx)
		if err != nil {
			log.Fatalf("Failed to list active students: %v", err)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	failed := 0
	for _, student := range students {
		plan, err := svc.MigrateYear(ctx, student.ID, *fromYear, *dryRun)
		if err != nil {
			log.Printf("student %s: %v", student.ID, err)
			failed++
			continue
		}

		_ = enc.Encode(struct {
			StudentID string                `json:"student_id"`
			DryRun    bool                  `json:"dry_run"`
			Plan      *domain.MigrationPlan `json:"plan"`
		}{StudentID: student.ID, DryRun: *dryRun, Plan: plan})
	}

	if failed > 0 {
		log.Fatalf("%d of %d migrations failed", failed, len(students))
	}
}
