package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"

	"github.com/majanidev/insurance_backend/config"
	"github.com/majanidev/insurance_backend/middlewares"
	"github.com/majanidev/insurance_backend/models"
	"github.com/majanidev/insurance_backend/workflow"
)

const defaultPort = "8080"

var tracer = otel.Tracer("majani-insurance")

// RateLimiter is a fixed-window counter in redis, keyed per client IP.
// It guards the login endpoint against credential stuffing.
type RateLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
	prefix string
}

func NewRateLimiter(client *redis.Client, limit int64, window time.Duration, prefix string) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  limit,
		window: window,
		prefix: prefix,
	}
}

func (rl *RateLimiter) RateLimitMiddleware(c *gin.Context) {
	if rl.client == nil {
		c.Next()
		return
	}
	key := rl.prefix + c.ClientIP()

	exists, err := rl.client.Exists(c.Request.Context(), key).Result()
	if err != nil {
		// Redis trouble must not lock agents out of their own system.
		c.Next()
		return
	}

	if exists == 0 {
		if err := rl.client.Set(c.Request.Context(), key, 1, rl.window).Err(); err != nil {
			c.Next()
			return
		}
		c.Next()
		return
	}

	count, err := rl.client.Incr(c.Request.Context(), key).Result()
	if err != nil {
		c.Next()
		return
	}
	if count > rl.limit {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error": "too many attempts, try again in " + strconv.Itoa(int(rl.window.Seconds())) + " seconds",
		})
		return
	}
	c.Next()
}

func customNotFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
}

// customErrorLogger logs only requests that accumulated gin errors
func customErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) > 0 {
			logger.Error(c.Errors.String())
		}
	}
}

func intEnv(key string, fallback int64) int64 {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		// Cloud Run standard env var.
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = defaultPort
	}

	logger := config.GetLogger()

	// Cloud Run sends SIGTERM on revision shutdown; handle it for graceful drain.
	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	// Start the HTTP server ASAP so Cloud Run considers the revision healthy.
	// Until the DB is ready, app endpoints return 503.
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if c.Request.URL.Path == "/healthz" {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		if config.GetDB() == nil {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		c.Next()
	})

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	corsConfig := cors.DefaultConfig()
	// In production, require an explicit allowlist via CORS_ALLOWED_ORIGINS.
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production") {
		if allowedOrigins == "" {
			corsConfig.AllowOrigins = []string{}
		} else {
			corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("token", "Origin", "Content-Type", "Authorization")
	corsConfig.AddExposeHeaders("Content-Length", "Content-Disposition")
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	r.Use(middlewares.SessionMiddleware())
	r.Use(customErrorLogger(logger))
	r.Use(gin.Recovery())

	var loginLimiter *RateLimiter
	if !config.LoginRateLimitDisabled() {
		loginLimiter = NewRateLimiter(
			config.GetRedisDB(),
			intEnv("LOGIN_RATE_LIMIT_MAX_REQUESTS", 10),
			time.Duration(intEnv("LOGIN_RATE_LIMIT_WINDOW_SECONDS", 60))*time.Second,
			"LoginRate:",
		)
	}

	api := r.Group("/api")
	{
		if loginLimiter != nil {
			api.POST("/login", loginLimiter.RateLimitMiddleware, loginHandler())
		} else {
			api.POST("/login", loginHandler())
		}

		authed := api.Group("", middlewares.RequireAuth())
		{
			authed.POST("/logout", logoutHandler())
			authed.POST("/change-password", changePasswordHandler())
			authed.GET("/profile", getProfileHandler())
			authed.PUT("/profile", updateProfileHandler())
			authed.GET("/settings/business", getSettingsHandler())
			authed.PUT("/settings/business", updateBusinessSettingsHandler())
			authed.GET("/settings/preferences", getSettingsHandler())
			authed.PUT("/settings/preferences", updatePreferencesHandler())

			// Gated pages: a complete profile is required past this point.
			gated := authed.Group("", middlewares.ProfileGate())
			{
				gated.GET("/dashboard/stats", dashboardStatsHandler())
				gated.GET("/clients", listClientsHandler())
				gated.POST("/clients", createClientHandler())
				gated.GET("/clients/:id", getClientHandler())
				gated.PUT("/clients/:id", updateClientHandler())
				gated.DELETE("/clients/:id", deleteClientHandler())
				gated.POST("/clients/export-token", exportTokenHandler())
			}
		}

		// Download navigation can't carry the session header; it presents a
		// short-lived JWT minted by /clients/export-token instead.
		api.GET("/clients/export", exportClientsHandler())
	}

	r.NoRoute(customNotFoundHandler)

	// Start listening immediately (Cloud Run startup probe is TCP based).
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- srv.ListenAndServe()
	}()

	// Connect dependencies after the port is open.
	config.ConnectDatabaseWithRetry()

	db := config.GetDB()
	sqlDB, _ := db.DB()
	defer func() {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	}()
	// AutoMigrate can run DDL that blocks tables; allow running it as a
	// separate job instead.
	if !strings.EqualFold(strings.TrimSpace(os.Getenv("SKIP_MIGRATIONS")), "true") {
		if err := models.Migrate(); err != nil {
			logger.WithFields(logrus.Fields{"field": "migrations"}).Panic(err.Error())
		}
	} else {
		logger.WithFields(logrus.Fields{"field": "migrations"}).Warn("SKIP_MIGRATIONS=true; skipping AutoMigrate on startup")
	}

	dispatcherCtx, cancelDispatcher := context.WithCancel(context.Background())
	defer cancelDispatcher()
	if config.RenewalRemindersEnabled() {
		if client, err := config.GetPubSubClient(dispatcherCtx); err != nil {
			logger.WithFields(logrus.Fields{"field": "pubsub"}).Warn("pubsub client not ready; reminders will retry per scan: " + err.Error())
		} else if _, err := config.CreateTopicIfNotExists(client, os.Getenv("PUBSUB_REMINDER_TOPIC")); err != nil {
			logger.WithFields(logrus.Fields{"field": "pubsub"}).Warn("could not ensure reminder topic: " + err.Error())
		}
		go workflow.NewReminderDispatcher(db, logger).Run(dispatcherCtx)
	}

	logger.WithFields(logrus.Fields{
		"info": "Connection Established",
	}).Info("listening on http://localhost:", port)
	log.Println("Server started successfully")

	// Block until shutdown or server error.
	select {
	case <-sigCtx.Done():
		// graceful shutdown below
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	// Stop background workers first so they don't start new work while draining.
	cancelDispatcher()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}

	if rdb := config.GetRedisDB(); rdb != nil {
		_ = rdb.Close()
	}
}

func splitAndTrim(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
