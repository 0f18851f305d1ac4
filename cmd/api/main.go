package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"coachtrack/internal/attendance"
	"coachtrack/internal/auth"
	"coachtrack/internal/batch"
	"coachtrack/internal/config"
	"coachtrack/internal/events"
	"coachtrack/internal/handlers"
	"coachtrack/internal/httpmiddleware"
	"coachtrack/internal/report"
	"coachtrack/internal/store"
	"coachtrack/internal/student"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}

func runHTTP(cfg config.App) error {
	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Printf("warning: db not reachable: %v", err)
	}
	defer func() {
		if db != nil {
			_ = db.Close()
		}
	}()

	redisClient := store.NewRedis(cfg.RedisAddr)

	var broadcaster events.Broadcaster
	if cfg.EventBackend == "memory" {
		broadcaster = events.NewInMemory(64)
	} else {
		broadcaster = events.NewRedisBroadcaster(redisClient.Client, "coachtrack:sessions")
	}

	authRepo := auth.NewRepository(db.Client)
	sessions := auth.NewManager(authRepo, broadcaster, cfg.JWTIssuer, cfg.JWTSigningKey, cfg.AccessTTL, cfg.RefreshTTL, cfg.RememberTTL)

	batchRepo := batch.NewRepository(db.Client)
	studentRepo := student.NewRepository(db.Client)
	attendanceRepo := attendance.NewRepository(db.Client)

	h := handlers.New(
		sessions,
		batch.NewService(batchRepo),
		student.NewService(studentRepo),
		attendance.NewService(attendanceRepo, studentRepo),
		report.NewService(attendanceRepo, studentRepo),
	)

	if err := handlers.RegisterValidations(); err != nil {
		return err
	}

	// Log session changes from this and peer instances. Subscribers come
	// and go independently of the sign-in/out calls that produce events.
	eventCtx, stopEvents := context.WithCancel(context.Background())
	defer stopEvents()
	go logSessionEvents(eventCtx, sessions)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(httpmiddleware.CORS())
	r.Use(httpmiddleware.SecurityHeaders())
	r.Use(httpmiddleware.Metrics())
	r.Use(httpmiddleware.NewSimpleTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin).GinMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/healthz", func(c *gin.Context) {
		redisHealthy := redisClient.Healthy(c.Request.Context())
		dbHealthy := db.Client.PingContext(c.Request.Context()) == nil
		status := http.StatusOK
		if !redisHealthy || !dbHealthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"status": "ok", "redis": redisHealthy, "db": dbHealthy})
	})

	r.POST("/v1/auth/login", h.Login)
	r.POST("/v1/auth/refresh", h.Refresh)

	protected := r.Group("/v1", auth.RequireAuth(cfg.JWTSigningKey, cfg.JWTIssuer))

	protected.POST("/auth/logout", h.Logout)
	protected.GET("/auth/session", h.Session)

	protected.GET("/batches", h.ListBatches)
	protected.POST("/batches", h.CreateBatch)
	protected.GET("/batches/:batchID", h.GetBatch)
	protected.PUT("/batches/:batchID", h.UpdateBatch)
	protected.DELETE("/batches/:batchID", h.DeleteBatch)

	protected.GET("/batches/:batchID/students", h.ListStudents)
	protected.POST("/batches/:batchID/students", h.CreateStudent)
	protected.PUT("/batches/:batchID/students/:studentID", h.UpdateStudent)
	protected.DELETE("/batches/:batchID/students/:studentID", h.DeleteStudent)

	protected.GET("/batches/:batchID/attendance", h.GetDayAttendance)
	protected.POST("/batches/:batchID/attendance/mark", h.MarkAttendance)
	protected.POST("/batches/:batchID/attendance/bulk", h.BulkSaveAttendance)
	protected.GET("/batches/:batchID/attendance/summary", h.AttendanceSummary)

	protected.GET("/batches/:batchID/report", h.ReportOverview)
	protected.GET("/batches/:batchID/report/export.csv", h.ExportCSV)
	protected.GET("/batches/:batchID/report/export.pdf", h.ExportPDF)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting server on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give outstanding requests 10 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced shutdown: %v", err)
	}

	log.Println("Server exited")
	return nil
}

func logSessionEvents(ctx context.Context, sessions *auth.Manager) {
	ch, err := sessions.Events(ctx)
	if err != nil {
		log.Printf("session event subscription failed: %v", err)
		return
	}
	for evt := range ch {
		log.Printf("session %s: %s", evt.Type, evt.Email)
	}
}
