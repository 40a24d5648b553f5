package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storyweaver-backend-go/internal/core"
	"storyweaver-backend-go/internal/middleware"
)

// SetupRoutes configures all application routes with their handlers and
// middleware. Global middleware (logging, recovery, CORS) is applied to the
// router before this function is called, in main.go.
func SetupRoutes(
	router *gin.Engine,
	logger *zap.Logger,
	verifier middleware.TokenVerifier,
	userService core.UserService,
	subscriptionService core.SubscriptionService,
	storyService core.StoryService,
	billingService core.BillingService,
	readerService core.ReaderService,
	contactService core.ContactService,
) {
	authMW := middleware.NewAuthMiddleware(verifier, logger)

	userHandler := NewUserHandler(userService, subscriptionService, logger)
	storyHandler := NewStoryHandler(storyService, logger)
	billingHandler := NewBillingHandler(billingService, subscriptionService, logger)
	readerHandler := NewReaderHandler(readerService, logger)
	contactHandler := NewContactHandler(contactService, logger)

	apiV1 := router.Group("/api/v1")
	{
		usersGroup := apiV1.Group("/users", authMW.VerifyToken())
		{
			// Called after client-side Firebase login to ensure the backend
			// profile exists.
			usersGroup.POST("/initialize", userHandler.InitializeUserProfile)
			usersGroup.GET("/me/subscription", userHandler.GetSubscription)
		}

		storiesGroup := apiV1.Group("/stories")
		{
			storiesGroup.POST("/generate", authMW.VerifyToken(), storyHandler.GenerateStory)
			storiesGroup.POST("", authMW.VerifyToken(), storyHandler.SaveStory)
			storiesGroup.GET("", authMW.VerifyToken(), storyHandler.ListStories)
			storiesGroup.DELETE("/:storyId", authMW.VerifyToken(), storyHandler.DeleteStory)

			// Reading a story is public so saved stories can be shared by link.
			storiesGroup.GET("/:storyId", storyHandler.GetStory)
			storiesGroup.POST("/:storyId/similar", readerHandler.SimilarStories)
		}

		billingGroup := apiV1.Group("/billing")
		{
			billingGroup.POST("/order", authMW.VerifyToken(), billingHandler.CreateOrder)
			billingGroup.POST("/verify", authMW.VerifyToken(), billingHandler.VerifyPayment)

			// Public webhook endpoint (no VerifyToken middleware). The gateway
			// signs webhooks itself; this endpoint only acknowledges them.
			billingGroup.POST("/webhooks/razorpay", billingHandler.HandleGatewayWebhook)
		}

		readerGroup := apiV1.Group("/reader")
		{
			readerGroup.POST("/definitions", readerHandler.DefineWord)
		}

		apiV1.POST("/contact", contactHandler.SubmitContactForm)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "StoryWeaver backend is healthy."})
	})

	logger.Info("API routes configured under /api/v1 and /health")
}
