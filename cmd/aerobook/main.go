package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"aerobook/cfg"
	"aerobook/internal/admin"
	"aerobook/internal/booking"
	"aerobook/internal/pricing"
	"aerobook/internal/search"
	"aerobook/pkg/backend"
	"aerobook/pkg/cache"
	"aerobook/pkg/idgen"
	"aerobook/pkg/logger"
	"aerobook/pkg/session"

	_ "aerobook/cmd/aerobook/docs" // swagger docs

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// @title           Aerobook Booking Frontend API
// @version         1.0
// @description     Session-backed frontend service for flight search, pricing and booking.
// @BasePath        /
// @schemes         http
func main() {
	// ============
	// config
	// ============
	config, errCfg := cfg.Load()
	if errCfg != nil {
		log.Fatal(errCfg)
	}

	// ============
	// logger
	// ============
	zlogger := logger.NewZeroLog(config.AppEnv)

	// ============
	// Otel
	// ============
	if config.OtelConfig.Endpoint != "" {
		shutdownOtel, err := initOtel(context.Background(), &config.OtelConfig)
		if err != nil {
			zlogger.Warn("otel init failed, continuing without tracing", logger.Err(err))
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdownOtel(ctx); err != nil {
					zlogger.Warn("otel shutdown failed", logger.Err(err))
				}
			}()
		}
	}

	// ============
	// Cache + Session
	// ============
	redisAddr := config.RedisConfig.Host + ":" + config.RedisConfig.Port
	redis := cache.NewRedisCache(redisAddr, config.RedisConfig.Password)
	sessions := session.NewManager(redis, zlogger, config.SessionTTLMinutes)

	// ============
	// External Service
	// ============
	httpClient := &http.Client{
		Timeout: 30 * time.Second,
	}
	backendClient := backend.NewClient(httpClient, config.BackendConfig.BaseURL, zlogger)

	generator, err := idgen.NewSnowflakeGenerator(config.SnowflakeNodeID)
	if err != nil {
		log.Fatal(err)
	}

	// ============
	// Internal Service
	// ============
	searchSvc := search.NewService(backendClient, zlogger)
	pricingSvc := pricing.NewService(backendClient, zlogger)
	bookingSvc := booking.NewService(backendClient, generator, zlogger, booking.Options{
		OTPEnabled:     config.OTPConfig.Enabled,
		ResendCooldown: time.Duration(config.OTPConfig.ResendCooldownSeconds) * time.Second,
	})
	adminSvc := admin.NewService(backendClient, zlogger)

	searchHandler := search.NewHandler(searchSvc)
	pricingHandler := pricing.NewHandler(pricingSvc)
	bookingHandler := booking.NewHandler(bookingSvc)
	adminHandler := admin.NewHandler(adminSvc)

	// ============
	// HTTP
	// ============
	r := gin.Default()
	r.Use(otelgin.Middleware(config.OtelConfig.ServiceName))
	r.Use(corsConfig())
	r.Use(sessions.Middleware())

	searchHandler.RegisterRoutes(r)
	pricingHandler.RegisterRoutes(r)
	bookingHandler.RegisterRoutes(r)
	adminHandler.RegisterRoutes(r)
	initSwagger(r)

	addr := fmt.Sprintf(":%s", config.AppPort)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// corsConfig allows the browser app to send the session cookie cross-origin
// during local development.
func corsConfig() gin.HandlerFunc {
	c := cors.DefaultConfig()
	c.AllowOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	c.AllowCredentials = true
	c.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	return cors.New(c)
}

func initSwagger(r *gin.Engine) {
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/docs", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		html := `<!DOCTYPE html>
<html>
<head>
    <title>API Documentation</title>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1">
</head>
<body>
    <script id="api-reference" data-url="/swagger/doc.json"></script>
    <script src="https://cdn.jsdelivr.net/npm/@scalar/api-reference"></script>
</body>
</html>`
		c.String(200, html)
	})
}
