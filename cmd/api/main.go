package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/unitrack-app/unitrack-api/api/swagger"
	"github.com/unitrack-app/unitrack-api/internal/handler"
	"github.com/unitrack-app/unitrack-api/internal/middleware"
	"github.com/unitrack-app/unitrack-api/internal/models"
	"github.com/unitrack-app/unitrack-api/internal/repository"
	"github.com/unitrack-app/unitrack-api/internal/service"
	"github.com/unitrack-app/unitrack-api/pkg/cache"
	"github.com/unitrack-app/unitrack-api/pkg/config"
	"github.com/unitrack-app/unitrack-api/pkg/database"
	"github.com/unitrack-app/unitrack-api/pkg/logger"
	corsmiddleware "github.com/unitrack-app/unitrack-api/pkg/middleware/cors"
	reqidmiddleware "github.com/unitrack-app/unitrack-api/pkg/middleware/requestid"
)

// @title UniTrack API
// @version 1.0.0
// @description Course tracking backend: users, courses, enrollments, grades, attendance, transcripts
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	transcriptRepo := repository.NewTranscriptRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient)

	// Services
	var metricsSvc *service.MetricsService
	if cfg.Metrics.Enabled {
		metricsSvc = service.NewMetricsService()
	}
	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
		SingleSession:      cfg.JWT.SingleSession,
	})
	userSvc := service.NewUserService(userRepo, nil, logr)
	courseSvc := service.NewCourseService(courseRepo, userRepo, nil, logr)
	transcriptSvc := service.NewTranscriptService(transcriptRepo, userRepo, cacheRepo, metricsSvc, cfg.Transcript, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, courseRepo, userRepo, transcriptSvc, nil, logr)
	gradeSvc := service.NewGradeService(gradeRepo, enrollmentRepo, transcriptSvc, nil, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, enrollmentRepo, courseRepo, cfg.Attendance, nil, logr)
	exportSvc := service.NewExportService(transcriptSvc, logr)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc)
	courseHandler := handler.NewCourseHandler(courseSvc)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc)
	gradeHandler := handler.NewGradeHandler(gradeSvc)
	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc)
	transcriptHandler := handler.NewTranscriptHandler(transcriptSvc, exportSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	if metricsSvc != nil {
		r.Use(middleware.Metrics(metricsSvc))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		start := time.Now()
		err := db.Ping()
		metricsSvc.ObserveDBPing(time.Since(start))
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "postgres": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	if metricsSvc != nil {
		metricsHandler := handler.NewMetricsHandler(metricsSvc)
		r.GET("/metrics", metricsHandler.Prometheus)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/password/reset", authHandler.RequestPasswordReset)

		authed := auth.Group("")
		authed.Use(middleware.JWT(authSvc))
		authed.POST("/logout", authHandler.Logout)
		authed.PUT("/password", authHandler.ChangePassword)
		authed.GET("/me", authHandler.Me)
	}

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))

	users := protected.Group("/users")
	{
		users.GET("", middleware.RequireRoles(models.RoleAdmin), userHandler.List)
		users.POST("", middleware.RequireRoles(models.RoleAdmin), userHandler.Create)
		users.GET("/:id", middleware.RBAC(string(models.RoleAdmin), middleware.SelfRole), userHandler.Get)
		users.PUT("/:id/active", middleware.RequireRoles(models.RoleAdmin), userHandler.SetActive)
	}

	courses := protected.Group("/courses")
	{
		courses.GET("", courseHandler.List)
		courses.GET("/:id", courseHandler.Get)
		courses.POST("", middleware.RequireRoles(models.RoleAdmin), courseHandler.Create)
		courses.PUT("/:id", middleware.RequireRoles(models.RoleAdmin), courseHandler.Update)
		courses.PUT("/:id/active", middleware.RequireRoles(models.RoleAdmin), courseHandler.SetActive)
		courses.GET("/:id/grades", middleware.RequireRoles(models.RoleAdmin, models.RoleInstructor), gradeHandler.ListByCourse)
	}

	enrollments := protected.Group("/enrollments")
	{
		enrollments.GET("", middleware.RequireRoles(models.RoleAdmin, models.RoleInstructor), enrollmentHandler.List)
		enrollments.POST("", middleware.RequireRoles(models.RoleAdmin), enrollmentHandler.Create)
		enrollments.GET("/:id", enrollmentHandler.Get)
		enrollments.PUT("/:id/status", middleware.RequireRoles(models.RoleAdmin), enrollmentHandler.UpdateStatus)

		enrollments.GET("/:id/grade", gradeHandler.Get)
		enrollments.PUT("/:id/grade", middleware.RequireRoles(models.RoleAdmin, models.RoleInstructor), gradeHandler.Upsert)
		enrollments.DELETE("/:id/grade", middleware.RequireRoles(models.RoleAdmin, models.RoleInstructor), gradeHandler.Delete)

		enrollments.GET("/:id/attendance", attendanceHandler.Summary)
		enrollments.GET("/:id/absences", attendanceHandler.Records)
		enrollments.POST("/:id/absences", middleware.RequireRoles(models.RoleAdmin, models.RoleInstructor), attendanceHandler.RecordAbsence)
		enrollments.PUT("/:id/absences/hours", middleware.RequireRoles(models.RoleAdmin, models.RoleInstructor), attendanceHandler.SetAbsentHours)
	}

	protected.DELETE("/absences/:recordId", middleware.RequireRoles(models.RoleAdmin, models.RoleInstructor), attendanceHandler.RemoveAbsence)

	protected.POST("/grades/preview", middleware.RequireRoles(models.RoleAdmin, models.RoleInstructor), gradeHandler.Preview)

	students := protected.Group("/students")
	{
		students.GET("/:id/transcript", middleware.RBAC(string(models.RoleAdmin), string(models.RoleInstructor), middleware.SelfRole), transcriptHandler.Get)
		students.GET("/:id/transcript/export", middleware.RBAC(string(models.RoleAdmin), string(models.RoleInstructor), middleware.SelfRole), transcriptHandler.Export)
	}

	if metricsSvc != nil {
		metricsHandler := handler.NewMetricsHandler(metricsSvc)
		protected.GET("/metrics/snapshot", middleware.RequireRoles(models.RoleAdmin), metricsHandler.Snapshot)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
