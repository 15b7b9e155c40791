package routes

import (
	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/config"
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/domain"
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/handlers"
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/memstore"
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/middleware"
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/repository"
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/services"
	chatws "github.com/zhw16-dev/tutoring-platform-sub000/internal/websocket"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool) error {
	userRepo := repository.NewUserRepository(db)
	studentProfileRepo := repository.NewStudentProfileRepository(db)
	tutorProfileRepo := repository.NewTutorProfileRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	conversationRepo := repository.NewConversationRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	materialRepo := repository.NewMaterialRepository(db)

	var storageService services.StorageService
	if cfg.StorageConfigured() {
		storageService = services.NewSupabaseStorage(cfg.SupabaseURL, cfg.SupabaseBucket, cfg.SupabaseServiceKey)
	}

	authHandler := handlers.NewAuthHandler(
		db,
		userRepo,
		studentProfileRepo,
		tutorProfileRepo,
		cfg.JWTSecret,
	)
	profileService := services.NewProfileService(tutorProfileRepo, studentProfileRepo, storageService)
	onboardingHandler := handlers.NewOnboardingHandler(profileService)
	profileHandler := handlers.NewProfileHandler(profileService)
	matchingService := services.NewMatchingService(tutorProfileRepo)
	tutorDiscoveryHandler := handlers.NewTutorDiscoveryHandler(matchingService, studentProfileRepo, tutorProfileRepo)
	sessionService := services.NewSessionService(db, sessionRepo, paymentRepo, userRepo, tutorProfileRepo)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	paymentService := services.NewPaymentService(db, paymentRepo, sessionRepo)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	reportService := services.NewReportService(sessionRepo, paymentRepo, tutorProfileRepo)
	adminHandler := handlers.NewAdminHandler(reportService)
	materialService := services.NewMaterialService(materialRepo, sessionRepo, userRepo, storageService)
	materialHandler := handlers.NewMaterialHandler(materialService)
	chatHub := chatws.NewHub()
	go chatHub.Run()
	chatService := services.NewChatService(db, conversationRepo, messageRepo, userRepo)
	chatHandler := handlers.NewChatHandler(chatService, chatHub, cfg.JWTSecret)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", middleware.AuthRequired(cfg.JWTSecret), authHandler.Me)

	authProtected := api.Group("/v1", middleware.AuthRequired(cfg.JWTSecret))

	students := authProtected.Group("/students")
	students.Post("/onboarding", onboardingHandler.StudentOnboarding)
	students.Get("/profile", profileHandler.GetStudentProfile)
	students.Put("/profile", profileHandler.UpdateStudentProfile)
	students.Post("/profile/avatar", profileHandler.UploadAvatar)

	tutors := authProtected.Group("/tutors")
	tutors.Get("", tutorDiscoveryHandler.ListTutors)
	tutors.Post("/onboarding", onboardingHandler.TutorOnboarding)
	tutors.Get("/profile", profileHandler.GetTutorProfile)
	tutors.Put("/profile", profileHandler.UpdateTutorProfile)
	tutors.Post("/profile/avatar", profileHandler.UploadAvatar)
	tutors.Get("/recommended", tutorDiscoveryHandler.GetRecommendedTutors)
	tutors.Get("/:id", tutorDiscoveryHandler.GetTutorDetail)

	sessions := authProtected.Group("/sessions")
	sessions.Post("/book", sessionHandler.BookSession)
	sessions.Get("", sessionHandler.ListSessions)
	sessions.Get("/:id", sessionHandler.GetSession)
	sessions.Post("/:id/cancel", sessionHandler.CancelSession)
	sessions.Post("/:id/log", sessionHandler.LogSession)

	payments := authProtected.Group("/payments")
	payments.Get("", paymentHandler.ListPayments)
	paymentAdmin := payments.Group("", middleware.RequireRole(domain.RoleAdmin))
	paymentAdmin.Post("/:id/mark-student-paid", paymentHandler.MarkStudentPaid)
	paymentAdmin.Post("/:id/mark-tutor-paid", paymentHandler.MarkTutorPaid)

	admin := authProtected.Group("/admin", middleware.RequireRole(domain.RoleAdmin))
	admin.Get("/dashboard", adminHandler.Dashboard)
	admin.Get("/needs-attention", adminHandler.NeedsAttention)
	admin.Get("/tutors", adminHandler.ListTutors)
	admin.Post("/tutors/:id/approve", adminHandler.ApproveTutor)

	conversations := authProtected.Group("/conversations")
	conversations.Get("", chatHandler.ListConversations)
	conversations.Post("", chatHandler.CreateConversation)
	conversations.Get("/:id/messages", chatHandler.GetMessages)

	materials := authProtected.Group("/materials")
	materials.Post("", materialHandler.CreateMaterial)
	materials.Get("", materialHandler.ListMaterials)
	materials.Get("/:id", materialHandler.GetMaterial)
	materials.Get("/:id/download", materialHandler.DownloadMaterial)

	api.Use("/v1/ws", chatHandler.WebSocketAuth)
	api.Get("/v1/ws", websocket.New(chatHandler.HandleWebSocket))

	if cfg.DemoMode {
		registerDemoRoutes(api)
	}

	return registerDocsRoutes(app, cfg)
}

// registerDemoRoutes mounts the in-memory walkthrough under /api/demo. The
// demo store is seeded at startup and never touches Postgres, so the routes
// are unauthenticated on purpose.
func registerDemoRoutes(api fiber.Router) {
	demoHandler := handlers.NewDemoHandler(memstore.New(memstore.Seed()))

	demo := api.Group("/demo")
	demo.Get("/state", demoHandler.GetState)
	demo.Post("/actions", demoHandler.DispatchAction)
	demo.Get("/metrics", demoHandler.GetMetrics)
}
