package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Jaypurnwasi/RestaurantApp/auth"
	"github.com/Jaypurnwasi/RestaurantApp/config"
	"github.com/Jaypurnwasi/RestaurantApp/graph"
	"github.com/Jaypurnwasi/RestaurantApp/logger"
	"github.com/Jaypurnwasi/RestaurantApp/mailer"
	"github.com/Jaypurnwasi/RestaurantApp/middleware"
	"github.com/Jaypurnwasi/RestaurantApp/otp"
	"github.com/Jaypurnwasi/RestaurantApp/pubsub"
	"github.com/Jaypurnwasi/RestaurantApp/routes"
	"github.com/Jaypurnwasi/RestaurantApp/services"
)

func main() {
	cfg, err := config.Load()
	log := logger.New(cfg.Logger())
	defer log.Close()
	if err != nil {
		log.Fatal("invalid configuration", "error", err)
	}

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	} else if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	openCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	db, err := config.OpenStore(openCtx, cfg, log)
	cancel()
	if err != nil {
		log.Fatal("failed to open database", "driver", cfg.DBDriver, "error", err)
	}

	var mail mailer.Mailer = mailer.NewLog(log)
	if cfg.SMTP.Host != "" {
		mail = mailer.NewSMTP(mailer.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
		}, log)
	} else {
		log.Warn("SMTP_HOST not set, OTP codes will only be logged")
	}

	broker := pubsub.New(pubsub.DefaultBuffer, log)
	svc := services.New(services.Deps{
		Store:  db,
		Broker: broker,
		Tokens: auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL),
		OTP:    otp.New(cfg.OTPTTL, cfg.OTPVerifiedTTL),
		Mailer: mail,
		Log:    log,
	})

	schema, err := graph.NewSchema(graph.NewResolver(svc, broker, log))
	if err != nil {
		log.Fatal("invalid graphql schema", "error", err)
	}

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.RequestLogger(log), middleware.Recovery(log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.SetupRoutes(r, routes.Deps{
		Services: svc,
		GraphQL:  graph.NewServer(schema, cfg.CORSOrigins, log),
		Health:   db,
		Cookie:   middleware.CookieOptions{TTL: cfg.TokenTTL, Secure: cfg.Production()},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server running", "addr", "http://localhost:"+cfg.Port, "graphql", "/graphql", "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	if err := db.Close(shutdownCtx); err != nil {
		log.Error("closing database failed", "error", err)
	}
	log.Info("server stopped")
}
