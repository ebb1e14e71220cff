package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/curbline/api-go/services/campaigns"
	"github.com/curbline/api-go/utils"
)

type CampaignController struct {
	Campaigns *campaigns.Service
}

func NewCampaignController(svc *campaigns.Service) *CampaignController {
	return &CampaignController{Campaigns: svc}
}

// CreateCampaign godoc
// @Summary Create a promoted-content campaign
// @Tags campaigns
// @Accept json
// @Produce json
// @Router /campaigns [post]
func (cc *CampaignController) CreateCampaign(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	var in campaigns.CampaignInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	campaign, err := cc.Campaigns.CreateCampaign(c.Request.Context(), user.UserID, in)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, campaign)
}

// ListCampaigns godoc
// @Summary List the caller's campaigns
// @Tags campaigns
// @Produce json
// @Router /campaigns [get]
func (cc *CampaignController) ListCampaigns(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("pageSize", "50"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	list, err := cc.Campaigns.ListCampaigns(c.Request.Context(), user.UserID, limit, (page-1)*limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"campaigns": list})
}

// GetCampaign godoc
// @Summary Fetch one campaign (owner or admin)
// @Tags campaigns
// @Produce json
// @Router /campaigns/{id} [get]
func (cc *CampaignController) GetCampaign(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	campaign, err := cc.Campaigns.GetCampaign(c.Request.Context(), user, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, campaign)
}

// ToggleCampaignStatus godoc
// @Summary Flip a campaign between active and paused
// @Tags campaigns
// @Produce json
// @Router /campaigns/{id}/toggle-status [post]
func (cc *CampaignController) ToggleCampaignStatus(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	status, err := cc.Campaigns.ToggleStatus(c.Request.Context(), user, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}

// RecordSpend godoc
// @Summary Accrue spend against a campaign (admin integration endpoint)
// @Description The serving-side event stream posts spend here; the store enforces the budget caps atomically
// @Tags campaigns
// @Accept json
// @Produce json
// @Router /campaigns/{id}/spend [post]
func (cc *CampaignController) RecordSpend(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	if !user.HasRole(utils.RoleAdmin) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not authorized"})
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var body struct {
		AmountCents int64 `json:"amountCents" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := cc.Campaigns.RecordSpend(c.Request.Context(), id, body.AmountCents, time.Now()); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recorded": true})
}

// CreatePromotedPost godoc
// @Summary Promote a single content item
// @Tags campaigns
// @Accept json
// @Produce json
// @Router /promoted-posts [post]
func (cc *CampaignController) CreatePromotedPost(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	var in campaigns.PromotedPostInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	promo, err := cc.Campaigns.CreatePromotedPost(c.Request.Context(), user.UserID, in)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, promo)
}

// TogglePromotedPostStatus godoc
// @Summary Flip a promoted post between active and paused
// @Tags campaigns
// @Produce json
// @Router /promoted-posts/{id}/toggle-status [post]
func (cc *CampaignController) TogglePromotedPostStatus(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	status, err := cc.Campaigns.TogglePromotedPostStatus(c.Request.Context(), user, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}

// RecordPromotedPostSpend godoc
// @Summary Accrue spend against a promoted post (admin integration endpoint)
// @Tags campaigns
// @Accept json
// @Produce json
// @Router /promoted-posts/{id}/spend [post]
func (cc *CampaignController) RecordPromotedPostSpend(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	if !user.HasRole(utils.RoleAdmin) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not authorized"})
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var body struct {
		AmountCents int64 `json:"amountCents" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := cc.Campaigns.RecordPromotedPostSpend(c.Request.Context(), id, body.AmountCents, time.Now()); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recorded": true})
}
