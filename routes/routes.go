package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/curbline/api-go/controllers"
	"github.com/curbline/api-go/middleware"
	"github.com/curbline/api-go/services/campaigns"
	"github.com/curbline/api-go/services/feed"
	"github.com/curbline/api-go/services/interactions"
	"github.com/curbline/api-go/services/moderation"
	"github.com/curbline/api-go/store"
)

// SetupRoutes wires services, controllers and route groups. It returns the
// view counter so main can run its flush loop.
func SetupRoutes(r *gin.Engine, s store.Store, rdb *redis.Client, log logrus.FieldLogger) *interactions.ViewCounter {
	// Initialize services
	interactionSvc := interactions.NewService(s, log)
	views := interactions.NewViewCounter(rdb, s, log)
	moderationSvc := moderation.NewService(s, log)
	campaignSvc := campaigns.NewService(s, log)
	feedSvc := feed.NewService(s)

	// Initialize controllers
	interactionController := controllers.NewInteractionController(interactionSvc)
	moderationController := controllers.NewModerationController(moderationSvc)
	campaignController := controllers.NewCampaignController(campaignSvc)
	feedController := controllers.NewFeedController(feedSvc, views)

	r.Use(middleware.RequestLogger(log))

	// Protected routes; identity comes from the external auth service's JWT
	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		SetupInteractionRoutes(protected, interactionController)
		SetupModerationRoutes(protected, moderationController)
		SetupCampaignRoutes(protected, campaignController)
		SetupFeedRoutes(protected, feedController)
	}

	return views
}
