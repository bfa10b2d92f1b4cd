package main

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/sejins/studyhub/internal/config"
	"github.com/sejins/studyhub/internal/constants"
	"github.com/sejins/studyhub/internal/database"
	"github.com/sejins/studyhub/internal/handlers"
	"github.com/sejins/studyhub/internal/mail"
	"github.com/sejins/studyhub/internal/middleware"
	"github.com/sejins/studyhub/internal/queue"
	"github.com/sejins/studyhub/internal/repository"
	"github.com/sejins/studyhub/internal/services"
	"github.com/sejins/studyhub/pkg/logger"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel)

	gin.SetMode(cfg.GinMode)

	if err := database.Connect(cfg); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.SeedZones(); err != nil {
		logger.Fatalf("Failed to seed zones: %v", err)
	}

	db := database.GetDB()
	accountRepo := repository.NewAccountRepository(db)
	studyRepo := repository.NewStudyRepository(db)
	eventRepo := repository.NewEventRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	tagRepo := repository.NewTagRepository(db)
	zoneRepo := repository.NewZoneRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	sender := mail.NewSenderFromConfig(cfg)
	notificationService := services.NewNotificationService(notificationRepo, accountRepo, studyRepo, sender)

	mux := queue.Mux{
		queue.TaskMailDeliver:    mail.DeliveryHandler(sender),
		queue.TaskStudyPublished: notificationService.HandleStudyPublished,
	}
	taskQueue := queue.New(cfg, mux)
	defer taskQueue.Close()

	if taskQueue.IsAsync() {
		worker := queue.NewWorker(cfg, mux)
		go func() {
			if err := worker.Run(); err != nil {
				logger.Fatalf("Worker stopped: %v", err)
			}
		}()
		defer worker.Shutdown()
	}

	accountService := services.NewAccountService(accountRepo, tagRepo, zoneRepo, taskQueue, cfg.AppHost)
	studyService := services.NewStudyService(studyRepo, tagRepo, zoneRepo, taskQueue)
	eventService := services.NewEventService(eventRepo, enrollmentRepo, notificationService)

	r := gin.New()
	r.Use(logger.GinLogger(), logger.GinRecovery())

	r.Use(sessions.Sessions(constants.SessionCookieName, sessionStore(cfg)))

	authHandler := handlers.NewAuthHandler(accountService)
	settingsHandler := handlers.NewSettingsHandler(accountService)
	studyHandler := handlers.NewStudyHandler(studyService, accountService)
	studySettingsHandler := handlers.NewStudySettingsHandler(studyService)
	eventHandler := handlers.NewEventHandler(eventService, studyService, accountService)
	enrollmentHandler := handlers.NewEnrollmentHandler(eventService, studyService, accountService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	referenceHandler := handlers.NewReferenceHandler(tagRepo, zoneRepo)

	loginLimiter := middleware.NewRateLimiter(5, 10)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", loginLimiter.Middleware(), authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentAccount)
			auth.GET("/check-email-token", authHandler.CheckEmailToken)
			auth.POST("/email-login", loginLimiter.Middleware(), authHandler.SendLoginLink)
			auth.GET("/login-by-email", authHandler.LoginByEmail)
			auth.POST("/resend-confirm-email", middleware.RequireAuth(), authHandler.ResendConfirmEmail)
		}

		settings := api.Group("/settings")
		settings.Use(middleware.RequireAuth())
		{
			settings.PUT("/profile", settingsHandler.UpdateProfile)
			settings.PUT("/password", settingsHandler.UpdatePassword)
			settings.PUT("/nickname", settingsHandler.UpdateNickname)
			settings.GET("/notifications", settingsHandler.GetNotificationPreferences)
			settings.PUT("/notifications", settingsHandler.UpdateNotificationPreferences)
			settings.POST("/tags", settingsHandler.AddTag)
			settings.DELETE("/tags", settingsHandler.RemoveTag)
			settings.POST("/zones/:zoneId", settingsHandler.AddZone)
			settings.DELETE("/zones/:zoneId", settingsHandler.RemoveZone)
		}

		studies := api.Group("/studies")
		{
			studies.GET("", studyHandler.SearchStudies)
			studies.POST("", middleware.RequireAuth(), studyHandler.CreateStudy)
			studies.GET("/:path", studyHandler.GetStudy)
			studies.POST("/:path/join", middleware.RequireAuth(), studyHandler.JoinStudy)
			studies.POST("/:path/leave", middleware.RequireAuth(), studyHandler.LeaveStudy)

			manage := studies.Group("/:path/settings")
			manage.Use(middleware.RequireAuth(), middleware.RequireStudyManager())
			{
				manage.PUT("/description", studySettingsHandler.UpdateDescription)
				manage.PUT("/image", studySettingsHandler.UpdateImage)
				manage.PUT("/banner", studySettingsHandler.SetBanner)
				manage.PUT("/title", studySettingsHandler.UpdateTitle)
				manage.PUT("/path", studySettingsHandler.UpdatePath)
				manage.POST("/publish", studySettingsHandler.Publish)
				manage.POST("/close", studySettingsHandler.Close)
				manage.POST("/recruit/start", studySettingsHandler.StartRecruit)
				manage.POST("/recruit/stop", studySettingsHandler.StopRecruit)
				manage.POST("/tags", studySettingsHandler.AddTag)
				manage.DELETE("/tags", studySettingsHandler.RemoveTag)
				manage.POST("/zones", studySettingsHandler.AddZone)
				manage.DELETE("/zones", studySettingsHandler.RemoveZone)
				manage.DELETE("", studySettingsHandler.RemoveStudy)
			}

			events := studies.Group("/:path/events")
			{
				events.GET("", eventHandler.ListEvents)
				events.GET("/:eventId", eventHandler.GetEvent)
				events.POST("", middleware.RequireAuth(), middleware.RequireStudyManager(), eventHandler.CreateEvent)
				events.PUT("/:eventId", middleware.RequireAuth(), middleware.RequireStudyManager(), eventHandler.UpdateEvent)
				events.DELETE("/:eventId", middleware.RequireAuth(), middleware.RequireStudyManager(), eventHandler.DeleteEvent)

				events.POST("/:eventId/enroll", middleware.RequireAuth(), enrollmentHandler.Enroll)
				events.POST("/:eventId/disenroll", middleware.RequireAuth(), enrollmentHandler.Disenroll)

				enrollments := events.Group("/:eventId/enrollments/:enrollmentId")
				enrollments.Use(middleware.RequireAuth(), middleware.RequireStudyManager())
				{
					enrollments.POST("/accept", enrollmentHandler.Accept)
					enrollments.POST("/reject", enrollmentHandler.Reject)
					enrollments.POST("/checkin", enrollmentHandler.CheckIn)
					enrollments.POST("/cancel-checkin", enrollmentHandler.CancelCheckIn)
				}
			}
		}

		api.GET("/tags", referenceHandler.ListTags)
		api.GET("/zones", referenceHandler.ListZones)

		notifications := api.Group("/notifications")
		notifications.Use(middleware.RequireAuth())
		{
			notifications.GET("", notificationHandler.ListNotifications)
			notifications.PUT("/checked", notificationHandler.MarkChecked)
			notifications.DELETE("/checked", notificationHandler.DeleteChecked)
		}
	}

	logger.Info().Msg("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}

// sessionStore builds the session backend: redis when enabled, an
// in-process cookie store otherwise.
func sessionStore(cfg *config.Config) sessions.Store {
	isProduction := cfg.GinMode == "release"
	opts := sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax
	}

	if cfg.RedisEnabled {
		store, err := redisStore.NewStore(10, "tcp", cfg.RedisAddr, "", "", []byte(cfg.SessionSecret))
		if err != nil {
			logger.Fatalf("Failed to create Redis store: %v", err)
		}
		store.Options(opts)
		return store
	}

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(opts)
	return store
}
