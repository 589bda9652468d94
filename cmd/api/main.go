package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/HansOr04/testing-sub002/internal/config"
	appHTTP "github.com/HansOr04/testing-sub002/internal/handler/http"
	"github.com/HansOr04/testing-sub002/internal/pkg/cron"
	"github.com/HansOr04/testing-sub002/internal/pkg/database"
	"github.com/HansOr04/testing-sub002/internal/pkg/jwt"
	"github.com/HansOr04/testing-sub002/internal/repository/postgresql"
	reconciliationService "github.com/HansOr04/testing-sub002/internal/service/reconciliation"
	summaryService "github.com/HansOr04/testing-sub002/internal/service/summary"
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

	recordRepo := postgresql.NewAttendanceRepository(db)
	punchRepo := postgresql.NewPunchRepository(db)
	masterRepo := postgresql.NewMasterRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	reconciliationSvc, err := reconciliationService.NewService(recordRepo, punchRepo, masterRepo, cfg.Shift)
	if err != nil {
		log.Fatal("Error building reconciliation service: ", err)
	}
	summarySvc, err := summaryService.NewService(recordRepo, masterRepo, cfg.Shift)
	if err != nil {
		log.Fatal("Error building summary service: ", err)
	}

	scheduler := cron.NewScheduler()
	cron.NewReconciliationJobs(reconciliationSvc, cfg.App.ReconcileInterval).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	attendanceHandler := appHTTP.NewAttendanceHandler(reconciliationSvc)
	summaryHandler := appHTTP.NewSummaryHandler(summarySvc)

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		Env:            cfg.App.Env,
		AllowedOrigins: cfg.App.AllowedOrigins,
	}, JWTService, attendanceHandler, summaryHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
