package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/curbline/api-go/controllers"
)

func SetupInteractionRoutes(protected *gin.RouterGroup, interactionController *controllers.InteractionController) {
	content := protected.Group("/content/:type/:id")
	{
		content.POST("/like", interactionController.ToggleLike)
		content.POST("/interested", interactionController.ToggleInterested)
		content.POST("/rating", interactionController.Rate)
		content.GET("/interactions/:kind", interactionController.GetInteractionState)
		content.POST("/comments", interactionController.AddComment)
		content.GET("/comments", interactionController.ListComments)
	}

	protected.DELETE("/content/:type/:id", interactionController.DeleteContent)
	protected.DELETE("/comments/:id", interactionController.DeleteComment)
}
