package main

import (
	"fmt"
	"net/http"

	"github.com/staffsync-hq/staffsync-backend-go/internal/config"
	appHTTP "github.com/staffsync-hq/staffsync-backend-go/internal/handler/http"
	"github.com/staffsync-hq/staffsync-backend-go/internal/pkg/cron"
	"github.com/staffsync-hq/staffsync-backend-go/internal/pkg/database"
	"github.com/staffsync-hq/staffsync-backend-go/internal/pkg/jwt"
	"github.com/staffsync-hq/staffsync-backend-go/internal/repository/postgresql"
	attendanceService "github.com/staffsync-hq/staffsync-backend-go/internal/service/attendance"
	authService "github.com/staffsync-hq/staffsync-backend-go/internal/service/auth"
	dailystatusService "github.com/staffsync-hq/staffsync-backend-go/internal/service/dailystatus"
	holidayService "github.com/staffsync-hq/staffsync-backend-go/internal/service/holiday"
	leaveService "github.com/staffsync-hq/staffsync-backend-go/internal/service/leave"
	"github.com/staffsync-hq/staffsync-backend-go/internal/service/reconcile"
	userService "github.com/staffsync-hq/staffsync-backend-go/internal/service/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}
	if err := cfg.Validate(); err != nil {
		fmt.Println("Invalid config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	userRepo := postgresql.NewUserRepository(db)
	eventRepo := postgresql.NewAttendanceEventRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	leaveBalanceRepo := postgresql.NewLeaveBalanceRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	statusRepo := postgresql.NewDailyStatusRepository(db)
	statusTransactor := postgresql.NewDailyStatusTransactor(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)

	reconcileSvc := reconcile.NewService(
		statusTransactor,
		userRepo,
		eventRepo,
		leaveRequestRepo,
		holidayRepo,
		statusRepo,
		cfg.Reconcile.Timezone,
	)
	authSvc := authService.NewAuthService(userRepo, jwtService)
	userSvc := userService.NewUserService(userRepo)
	attendanceSvc := attendanceService.NewAttendanceService(eventRepo, cfg.Reconcile.Timezone)
	leaveSvc := leaveService.NewLeaveService(db, leaveRequestRepo, leaveBalanceRepo)
	holidaySvc := holidayService.NewHolidayService(holidayRepo)
	dailyStatusSvc := dailystatusService.NewDailyStatusService(statusRepo, reconcileSvc)

	scheduler := cron.NewScheduler()
	statusJobs := cron.NewStatusJobs(reconcileSvc, cfg.Reconcile.Timezone)
	statusJobs.RegisterJobs(scheduler, cfg.Reconcile.Interval)
	accrualJobs := cron.NewAccrualJobs(db, userRepo, leaveBalanceRepo, cfg.Reconcile.AccrualDays, cfg.Reconcile.Timezone)
	accrualJobs.RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	authHandler := appHTTP.NewAuthHandler(authSvc)
	userHandler := appHTTP.NewUserHandler(userSvc)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	leaveHandler := appHTTP.NewLeaveHandler(leaveSvc)
	holidayHandler := appHTTP.NewHolidayHandler(holidaySvc)
	dailyStatusHandler := appHTTP.NewDailyStatusHandler(dailyStatusSvc)

	router := appHTTP.NewRouter(
		cfg.App.Env,
		jwtService,
		authHandler,
		userHandler,
		attendanceHandler,
		leaveHandler,
		holidayHandler,
		dailyStatusHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
