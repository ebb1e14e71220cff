package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/curbline/api-go/controllers"
)

func SetupModerationRoutes(protected *gin.RouterGroup, moderationController *controllers.ModerationController) {
	protected.POST("/reports", moderationController.SubmitReport)
	protected.POST("/warnings/:id/acknowledge", moderationController.AcknowledgeWarning)

	// capability checks live in the service layer; these groups are just paths
	mod := protected.Group("/moderation")
	{
		mod.GET("/reports", moderationController.PendingReports)
		mod.POST("/reports/:id/resolve", moderationController.ResolveReport)
		mod.POST("/warnings", moderationController.IssueWarning)
		mod.GET("/warnings", moderationController.ListWarnings)
		mod.POST("/actions", moderationController.DirectAction)
		mod.GET("/actions", moderationController.ActionsForTarget)
	}
}
