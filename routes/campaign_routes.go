package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/curbline/api-go/controllers"
)

func SetupCampaignRoutes(protected *gin.RouterGroup, campaignController *controllers.CampaignController) {
	campaigns := protected.Group("/campaigns")
	{
		campaigns.POST("", campaignController.CreateCampaign)
		campaigns.GET("", campaignController.ListCampaigns)
		campaigns.GET("/:id", campaignController.GetCampaign)
		campaigns.POST("/:id/toggle-status", campaignController.ToggleCampaignStatus)
		campaigns.POST("/:id/spend", campaignController.RecordSpend)
	}

	promoted := protected.Group("/promoted-posts")
	{
		promoted.POST("", campaignController.CreatePromotedPost)
		promoted.POST("/:id/toggle-status", campaignController.TogglePromotedPostStatus)
		promoted.POST("/:id/spend", campaignController.RecordPromotedPostSpend)
	}
}
