package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/staffsync-hq/staffsync-backend-go/internal/config"
	"github.com/staffsync-hq/staffsync-backend-go/internal/pkg/database"
	"github.com/staffsync-hq/staffsync-backend-go/internal/repository/postgresql"
	"github.com/staffsync-hq/staffsync-backend-go/internal/service/reconcile"
)

func main() {
	dateFlag := flag.String("date", "", "date to reconcile as YYYY-MM-DD (defaults to today)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Error loading config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid config", "error", err)
		os.Exit(1)
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	svc := reconcile.NewService(
		postgresql.NewDailyStatusTransactor(db),
		postgresql.NewUserRepository(db),
		postgresql.NewAttendanceEventRepository(db),
		postgresql.NewLeaveRequestRepository(db),
		postgresql.NewHolidayRepository(db),
		postgresql.NewDailyStatusRepository(db),
		cfg.Reconcile.Timezone,
	)

	date := svc.Today()
	if *dateFlag != "" {
		parsed, err := time.Parse("2006-01-02", *dateFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid -date %q: expected YYYY-MM-DD\n", *dateFlag)
			os.Exit(2)
		}
		date = parsed
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	slog.Info("Reconciling daily statuses", "date", date.Format("2006-01-02"))
	if err := svc.Run(ctx, date); err != nil {
		slog.Error("Reconciliation failed", "date", date.Format("2006-01-02"), "error", err)
		os.Exit(1)
	}
	slog.Info("Reconciliation completed", "date", date.Format("2006-01-02"))
}
