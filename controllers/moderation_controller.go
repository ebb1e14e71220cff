package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/curbline/api-go/models"
	"github.com/curbline/api-go/services/moderation"
	"github.com/curbline/api-go/store"
)

type ModerationController struct {
	Moderation *moderation.Service
}

func NewModerationController(svc *moderation.Service) *ModerationController {
	return &ModerationController{Moderation: svc}
}

// SubmitReport godoc
// @Summary Report a user or content item
// @Tags moderation
// @Accept json
// @Produce json
// @Router /reports [post]
func (mc *ModerationController) SubmitReport(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	var in moderation.ReportInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := mc.Moderation.SubmitReport(c.Request.Context(), user.UserID, in)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

// PendingReports godoc
// @Summary List the pending moderation queue (moderators only)
// @Tags moderation
// @Produce json
// @Router /moderation/reports [get]
func (mc *ModerationController) PendingReports(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("pageSize", "50"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	reports, err := mc.Moderation.PendingQueue(c.Request.Context(), user, limit, (page-1)*limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

// ResolveReport godoc
// @Summary Resolve a pending report (moderators only)
// @Description Closes the report and records the audit action as one atomic operation
// @Tags moderation
// @Accept json
// @Produce json
// @Router /moderation/reports/{id}/resolve [post]
func (mc *ModerationController) ResolveReport(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	reportID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var in moderation.ResolutionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	action, err := mc.Moderation.Resolve(c.Request.Context(), user, reportID, in)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"resolved": true, "action": action})
}

// IssueWarning godoc
// @Summary Issue a standalone warning to a user (moderators only)
// @Tags moderation
// @Accept json
// @Produce json
// @Router /moderation/warnings [post]
func (mc *ModerationController) IssueWarning(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	var in moderation.WarningInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	warning, err := mc.Moderation.IssueWarning(c.Request.Context(), user, in)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, warning)
}

// ListWarnings godoc
// @Summary List warnings, filterable by target user and acknowledgement
// @Tags moderation
// @Produce json
// @Router /moderation/warnings [get]
func (mc *ModerationController) ListWarnings(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	var filter store.WarningFilter
	if v := c.Query("targetUserId"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid targetUserId"})
			return
		}
		target := uint(id)
		filter.TargetUserID = &target
	}
	if v := c.Query("acknowledged"); v != "" {
		ack := v == "true"
		filter.Acknowledged = &ack
	}
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("pageSize", "50"))

	warnings, err := mc.Moderation.ListWarnings(c.Request.Context(), user, filter)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"warnings": warnings})
}

// AcknowledgeWarning godoc
// @Summary Acknowledge a warning addressed to the caller
// @Tags moderation
// @Produce json
// @Router /warnings/{id}/acknowledge [post]
func (mc *ModerationController) AcknowledgeWarning(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	warningID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := mc.Moderation.AcknowledgeWarning(c.Request.Context(), user, warningID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"acknowledged": true})
}

// DirectAction godoc
// @Summary Record a moderator action outside any report (moderators only)
// @Tags moderation
// @Accept json
// @Produce json
// @Router /moderation/actions [post]
func (mc *ModerationController) DirectAction(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	var body struct {
		TargetType string                  `json:"targetType" binding:"required"`
		TargetID   uint                    `json:"targetId" binding:"required"`
		Action     models.ResolutionAction `json:"action" binding:"required"`
		Reason     string                  `json:"reason"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	action, err := mc.Moderation.DirectAction(c.Request.Context(), user, body.TargetType, body.TargetID, body.Action, body.Reason)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, action)
}

// ActionsForTarget godoc
// @Summary List the audit actions recorded against a target (moderators only)
// @Tags moderation
// @Produce json
// @Router /moderation/actions [get]
func (mc *ModerationController) ActionsForTarget(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	targetType := c.Query("targetType")
	targetID, err := strconv.ParseUint(c.Query("targetId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid targetId"})
		return
	}

	actions, svcErr := mc.Moderation.ActionsForTarget(c.Request.Context(), user, targetType, uint(targetID))
	if svcErr != nil {
		handleServiceError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"actions": actions})
}
