package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"concursos_backend/internal/api"
	"concursos_backend/internal/app/rbac"
	"concursos_backend/internal/app/service"
	"concursos_backend/internal/app/worker"
	"concursos_backend/internal/common/security"
	"concursos_backend/internal/domain/repository"
	"concursos_backend/internal/platform/config"
	"concursos_backend/internal/platform/database"
	"concursos_backend/internal/platform/queue"
)

func main() {
	// 1. Load Configuration
	config.Load()
	fmt.Println("Configuration loaded.")

	// 2. Initialize JWT
	security.InitJWT()
	fmt.Println("JWT initialized.")

	// 3. Initialize Database
	database.Connect()
	defer database.Close()
	fmt.Println("Database connected.")

	// 4. Initialize Redis
	queue.ConnectRedis()
	defer queue.CloseRedis()
	fmt.Println("Redis connected.")

	// 5. Initialize Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	companyRepo := repository.NewPgCompanyRepository(database.DB)
	contestRepo := repository.NewPgContestRepository(database.DB)
	roleRepo := repository.NewPgRoleRepository(database.DB)
	participationRepo := repository.NewPgParticipationRepository(database.DB)
	judgingRepo := repository.NewPgJudgingRepository(database.DB)
	submissionRepo := repository.NewPgSubmissionRepository(database.DB)
	notificationRepo := repository.NewPgNotificationRepository(database.DB)

	// 6. Initialize Permission Resolver & Services
	resolver := rbac.NewResolver(roleRepo)
	events := service.NewNotificationService(queue.RDB)

	authService := service.NewAuthService(userRepo)
	companyService := service.NewCompanyService(companyRepo)
	contestService := service.NewContestService(contestRepo, companyRepo, roleRepo, database.DB)
	judgeService := service.NewJudgeService(judgingRepo, userRepo, contestRepo, events)
	registrationService := service.NewRegistrationService(participationRepo, contestRepo, events)
	submissionService := service.NewSubmissionService(submissionRepo, participationRepo, contestRepo, resolver, database.DB)
	scoringService := service.NewScoringService(judgingRepo, submissionRepo, participationRepo, contestRepo, events)

	// 7. Initialize Notification Worker (as a goroutine)
	notificationWorker := worker.NewNotificationWorker(queue.RDB, notificationRepo)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	go notificationWorker.Start(workerCtx)
	fmt.Println("Notification worker started.")

	// 8. Initialize Router & HTTP Server
	router := api.NewRouter(
		authService,
		companyService,
		contestService,
		judgeService,
		registrationService,
		submissionService,
		scoringService,
		notificationRepo,
		resolver,
	)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 9. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", config.AppConfig.APIPort, err)
		}
	}()
	log.Println("Server started successfully.")

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")
	workerCancel() // Signal worker to stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server and worker stopped gracefully.")
}
