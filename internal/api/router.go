package api

import (
	"net/http"
	"time"

	"concursos_backend/internal/api/handler"
	"concursos_backend/internal/app/rbac"
	"concursos_backend/internal/app/service"
	"concursos_backend/internal/common/security"
	"concursos_backend/internal/domain/repository"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authService *service.AuthService,
	companyService *service.CompanyService,
	contestService *service.ContestService,
	judgeService *service.JudgeService,
	registrationService *service.RegistrationService,
	submissionService *service.SubmissionService,
	scoringService *service.ScoringService,
	notificationRepo repository.NotificationRepository,
	resolver *rbac.Resolver,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Verifies the bearer token when present and puts claims in context.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// API v1 Routes
	r.Route("/api/v1", func(v1 chi.Router) {
		// Auth routes (public)
		authHandler := handler.NewAuthHandler(authService)
		v1.Route("/auth", authHandler.RegisterRoutes)

		// Company routes (list/get public, mutations admin only)
		companyHandler := handler.NewCompanyHandler(companyService)
		v1.Route("/companies", companyHandler.RegisterRoutes)

		// Contest routes and everything nested under a contest
		contestHandler := handler.NewContestHandler(contestService, resolver)
		judgeHandler := handler.NewJudgeHandler(judgeService, resolver)
		participantHandler := handler.NewParticipantHandler(registrationService, resolver)
		submissionHandler := handler.NewSubmissionHandler(submissionService, resolver)
		scoringHandler := handler.NewScoringHandler(scoringService, resolver)
		v1.Route("/contests", func(cr chi.Router) {
			contestHandler.RegisterRoutes(cr, judgeHandler, participantHandler, submissionHandler, scoringHandler)
		})

		// Current-user routes (authenticated)
		notificationHandler := handler.NewNotificationHandler(notificationRepo)
		v1.Route("/me/notifications", notificationHandler.RegisterRoutes)
	})

	return r
}
