package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storyweaver-backend-go/internal/ai"
	"storyweaver-backend-go/internal/api"
	"storyweaver-backend-go/internal/config"
	"storyweaver-backend-go/internal/core"
	"storyweaver-backend-go/internal/db"
	"storyweaver-backend-go/internal/middleware"
	"storyweaver-backend-go/internal/storage"
	"storyweaver-backend-go/pkg/cache"
	"storyweaver-backend-go/pkg/mailer"
	"storyweaver-backend-go/pkg/messagequeue"
)

func main() {
	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to initialize zap logger: %v", err)
	}
	defer zapLogger.Sync()

	appConfig, err := config.LoadConfig()
	if err != nil {
		zapLogger.Fatal("failed to load application configuration", zap.Error(err))
	}
	zapLogger.Info("configuration loaded")

	initCtx, cancelInitCtx := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInitCtx()
	if err := db.InitFirebase(initCtx, appConfig); err != nil {
		zapLogger.Fatal("failed to initialize Firebase Admin SDK", zap.Error(err))
	}

	firestoreClient := db.GetFirestoreClient()
	firebaseAuthClient := db.GetFirebaseAuthClient()
	storageBucket := db.GetStorageBucket()
	if firestoreClient == nil || firebaseAuthClient == nil || storageBucket == nil {
		zapLogger.Fatal("Firebase clients are nil after initialization, application cannot start")
	}
	zapLogger.Info("Firebase Admin SDK initialized",
		zap.String("projectID", appConfig.FirebaseProjectID),
		zap.String("bucket", appConfig.StorageBucket))

	// Optional collaborators. Missing config means the dependent feature
	// degrades, not that startup fails.
	var definitionsCache cache.Cache
	if appConfig.RedisAddr != "" {
		definitionsCache, err = cache.NewRedisCache(cache.RedisConfig{
			Address:  appConfig.RedisAddr,
			Password: appConfig.RedisPassword,
			DB:       appConfig.RedisDB,
		}, zapLogger)
		if err != nil {
			zapLogger.Warn("Redis unavailable, definitions will not be cached", zap.Error(err))
			definitionsCache = nil
		}
	}

	var webhookQueue messagequeue.MessageQueue
	if appConfig.RabbitMQURL != "" {
		webhookQueue, err = messagequeue.NewRabbitMQService(appConfig.RabbitMQURL, zapLogger)
		if err != nil {
			zapLogger.Warn("RabbitMQ unavailable, webhook events will be dropped", zap.Error(err))
			webhookQueue = nil
		} else {
			defer webhookQueue.Close()
		}
	}

	var contactMailer core.EmailSender
	if appConfig.SMTPHost != "" && appConfig.SMTPUser != "" {
		m, err := mailer.New(mailer.Config{
			Host:     appConfig.SMTPHost,
			Port:     appConfig.SMTPPort,
			Username: appConfig.SMTPUser,
			Password: appConfig.SMTPPass,
		})
		if err != nil {
			zapLogger.Warn("mailer misconfigured, contact form disabled", zap.Error(err))
		} else {
			contactMailer = m
		}
	}

	userRepo := db.NewFirestoreUserRepository(firestoreClient)
	storyRepo := db.NewFirestoreStoryRepository(firestoreClient)
	auditRepo := db.NewFirestoreAuditRepository(firestoreClient)

	geminiClient := ai.NewGeminiClient(appConfig.GeminiAPIKey)
	uploader := storage.NewGCSImageUploader(storageBucket, appConfig.StorageBucket)

	auditService := core.NewAuditService(auditRepo)
	userService := core.NewUserService(userRepo)
	subscriptionService := core.NewSubscriptionService(userRepo, auditService, appConfig.RazorpayKeySecret, zapLogger)
	storyService := core.NewStoryService(
		storyRepo,
		userRepo,
		subscriptionService,
		geminiClient,
		geminiClient,
		uploader,
		auditService,
		appConfig.PlaceholderCoverURL,
		zapLogger,
	)
	billingService := core.NewBillingService(appConfig.RazorpayKeyID, appConfig.RazorpayKeySecret, webhookQueue, zapLogger)
	readerService := core.NewReaderService(geminiClient, storyRepo, definitionsCache, zapLogger)
	contactService := core.NewContactService(contactMailer, appConfig.ContactRecipient, appConfig.ContactSender, zapLogger)
	zapLogger.Info("core services initialized")

	if strings.ToLower(appConfig.GinMode) == "release" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()

	router.Use(middleware.RequestLogger(zapLogger))
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	router.Use(middleware.CORSMiddleware(appConfig))

	api.SetupRoutes(
		router,
		zapLogger,
		firebaseAuthClient,
		userService,
		subscriptionService,
		storyService,
		billingService,
		readerService,
		contactService,
	)

	serverAddr := fmt.Sprintf(":%s", appConfig.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("address", serverAddr), zap.String("ginMode", gin.Mode()))
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
		}
	}()

	quitChannel := make(chan os.Signal, 1)
	signal.Notify(quitChannel, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quitChannel
	zapLogger.Info("received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Fatal("server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("server exiting gracefully")
}
