package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/curbline/api-go/models"
	"github.com/curbline/api-go/services/interactions"
)

type InteractionController struct {
	Interactions *interactions.Service
}

func NewInteractionController(svc *interactions.Service) *InteractionController {
	return &InteractionController{Interactions: svc}
}

// ToggleLike godoc
// @Summary Like or unlike a content item
// @Description Toggles like status; returns the landed state and the authoritative counter
// @Tags interactions
// @Accept json
// @Produce json
// @Param type path string true "Content type"
// @Param id path integer true "Content ID"
// @Success 200 {object} map[string]interface{}
// @Router /content/{type}/{id}/like [post]
func (ic *InteractionController) ToggleLike(c *gin.Context) {
	ic.toggle(c, models.KindLike)
}

// ToggleInterested godoc
// @Summary Mark or unmark interest in a content item
// @Tags interactions
// @Produce json
// @Router /content/{type}/{id}/interested [post]
func (ic *InteractionController) ToggleInterested(c *gin.Context) {
	ic.toggle(c, models.KindInterested)
}

func (ic *InteractionController) toggle(c *gin.Context, kind models.InteractionKind) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	contentType, ok := pathContentType(c)
	if !ok {
		return
	}
	contentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, err := ic.Interactions.Toggle(c.Request.Context(), user.UserID, contentType, contentID, kind)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"on": result.On, "count": result.Count})
}

// GetInteractionState godoc
// @Summary Check whether the caller holds an interaction
// @Tags interactions
// @Produce json
// @Router /content/{type}/{id}/interactions/{kind} [get]
func (ic *InteractionController) GetInteractionState(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	contentType, ok := pathContentType(c)
	if !ok {
		return
	}
	contentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	kind := models.InteractionKind(c.Param("kind"))
	on, err := ic.Interactions.HasInteraction(c.Request.Context(), user.UserID, contentType, contentID, kind)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"on": on})
}

// Rate godoc
// @Summary Rate a content item
// @Description Upserts the caller's rating (1-5) and refreshes the stored average
// @Tags interactions
// @Accept json
// @Produce json
// @Router /content/{type}/{id}/rating [post]
func (ic *InteractionController) Rate(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	contentType, ok := pathContentType(c)
	if !ok {
		return
	}
	contentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var body struct {
		Value int `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ic.Interactions.Rate(c.Request.Context(), user.UserID, contentType, contentID, body.Value); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rated": true, "value": body.Value})
}

// AddComment godoc
// @Summary Comment on a content item
// @Tags interactions
// @Accept json
// @Produce json
// @Router /content/{type}/{id}/comments [post]
func (ic *InteractionController) AddComment(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	contentType, ok := pathContentType(c)
	if !ok {
		return
	}
	contentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var body struct {
		Body string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := ic.Interactions.AddComment(c.Request.Context(), user.UserID, contentType, contentID, body.Body)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// ListComments godoc
// @Summary List active comments for a content item
// @Tags interactions
// @Produce json
// @Router /content/{type}/{id}/comments [get]
func (ic *InteractionController) ListComments(c *gin.Context) {
	contentType, ok := pathContentType(c)
	if !ok {
		return
	}
	contentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	comments, total, err := ic.Interactions.ListComments(c.Request.Context(), contentType, contentID, limit, (page-1)*limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"comments": comments,
		"pagination": gin.H{
			"currentPage": page,
			"pageSize":    limit,
			"totalItems":  total,
		},
	})
}

// DeleteComment godoc
// @Summary Deactivate a comment (author or moderator)
// @Tags interactions
// @Produce json
// @Router /comments/{id} [delete]
func (ic *InteractionController) DeleteComment(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	commentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := ic.Interactions.DeactivateComment(c.Request.Context(), user, commentID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// DeleteContent godoc
// @Summary Soft-delete a content item (owner or moderator), cascading its ledger rows
// @Tags interactions
// @Produce json
// @Router /content/{type}/{id} [delete]
func (ic *InteractionController) DeleteContent(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	contentType, ok := pathContentType(c)
	if !ok {
		return
	}
	contentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := ic.Interactions.DeactivateContent(c.Request.Context(), user, contentType, contentID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
