package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/curbline/api-go/controllers"
)

func SetupFeedRoutes(protected *gin.RouterGroup, feedController *controllers.FeedController) {
	protected.GET("/feed/:type", feedController.GetFeed)
	protected.GET("/content/:type/:id", feedController.GetContent)
}
