package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/curbline/api-go/services/feed"
	"github.com/curbline/api-go/services/interactions"
	"github.com/curbline/api-go/store"
)

type FeedController struct {
	Feed  *feed.Service
	Views *interactions.ViewCounter
}

type FeedQuery struct {
	Page     int    `form:"page,default=1" binding:"min=1"`
	PageSize int    `form:"pageSize,default=20" binding:"min=1,max=50"`
	SortBy   string `form:"sortBy" binding:"omitempty,oneof=newest popular"`
}

func NewFeedController(feedSvc *feed.Service, views *interactions.ViewCounter) *FeedController {
	return &FeedController{Feed: feedSvc, Views: views}
}

// GetFeed godoc
// @Summary List active content of one type with sort and pagination
// @Tags feed
// @Produce json
// @Param type path string true "Content type"
// @Param page query integer false "Page number (default: 1)"
// @Param pageSize query integer false "Items per page (default: 20, max: 50)"
// @Param sortBy query string false "Sort by: newest, popular"
// @Router /feed/{type} [get]
func (fc *FeedController) GetFeed(c *gin.Context) {
	contentType, ok := pathContentType(c)
	if !ok {
		return
	}

	var query FeedQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	q := feed.Query{
		Sort:     store.SortOrder(query.SortBy),
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	if v := c.Query("authorId"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid authorId"})
			return
		}
		author := uint(id)
		q.AuthorID = &author
	}

	page, err := fc.Feed.List(c.Request.Context(), contentType, q)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetContent godoc
// @Summary Fetch one content item's display data, counting a view
// @Tags feed
// @Produce json
// @Router /content/{type}/{id} [get]
func (fc *FeedController) GetContent(c *gin.Context) {
	contentType, ok := pathContentType(c)
	if !ok {
		return
	}
	contentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	meta, err := fc.Feed.Get(c.Request.Context(), contentType, contentID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	fc.Views.RecordView(c.Request.Context(), contentType, contentID)

	c.JSON(http.StatusOK, gin.H{
		"id":       meta.ID,
		"authorId": meta.AuthorID,
		"counters": meta.Counters,
	})
}
