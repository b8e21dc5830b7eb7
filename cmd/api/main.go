package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/hrcore-id/leave-backend-go/internal/config"
	appHTTP "github.com/hrcore-id/leave-backend-go/internal/handler/http"
	"github.com/hrcore-id/leave-backend-go/internal/pkg/database"
	"github.com/hrcore-id/leave-backend-go/internal/pkg/jwt"
	"github.com/hrcore-id/leave-backend-go/internal/repository/postgresql"
	calendarService "github.com/hrcore-id/leave-backend-go/internal/service/calendar"
	hierarchyService "github.com/hrcore-id/leave-backend-go/internal/service/hierarchy"
	leaveService "github.com/hrcore-id/leave-backend-go/internal/service/leave"
	reportService "github.com/hrcore-id/leave-backend-go/internal/service/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}
	defer db.Close()

	leaveTypeRepo := postgresql.NewLeaveTypeRepository(db)
	leaveBalanceRepo := postgresql.NewLeaveBalanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	workWeekRepo := postgresql.NewWorkWeekRepository(db)
	managerLinkRepo := postgresql.NewManagerLinkRepository(db)
	employeeDirectory := postgresql.NewEmployeeDirectory(db)
	txManager := postgresql.NewTxManager(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	hierarchyCfg := hierarchyService.Config{
		MaxChainDepth: cfg.Leave.ApprovalChainDepth,
		FullChain:     cfg.Leave.ApprovalChainFull,
	}
	resolver := calendarService.NewResolver(holidayRepo, workWeekRepo)
	authorizer := hierarchyService.NewAuthorizer(managerLinkRepo, hierarchyCfg)
	linkSvc := hierarchyService.NewLinkService(managerLinkRepo, employeeDirectory, hierarchyCfg)
	calendarSvc := calendarService.NewCalendarService(holidayRepo, workWeekRepo)
	leaveSvc := leaveService.NewLeaveService(
		txManager,
		leaveTypeRepo,
		leaveBalanceRepo,
		leaveRequestRepo,
		employeeDirectory,
		resolver,
		authorizer,
	)
	reportSvc := reportService.NewReportService(leaveRequestRepo, employeeDirectory, authorizer)

	router := appHTTP.NewRouter(
		jwtService,
		appHTTP.NewLeaveHandler(leaveSvc),
		appHTTP.NewCalendarHandler(calendarSvc),
		appHTTP.NewHierarchyHandler(linkSvc),
		appHTTP.NewReportHandler(reportSvc),
	)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	log.Println("Listening on", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatal("Server error: ", err)
	}
}
