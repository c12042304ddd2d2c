package handlers

import (
	"errors"
	"net/http"

	"github.com/ArunDev-07/apple-podcast-backend/internal/database"
	"github.com/ArunDev-07/apple-podcast-backend/internal/logger"
	"github.com/ArunDev-07/apple-podcast-backend/internal/metrics"
	"github.com/ArunDev-07/apple-podcast-backend/internal/middleware"
	"github.com/ArunDev-07/apple-podcast-backend/internal/models"
	"github.com/ArunDev-07/apple-podcast-backend/internal/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// BookmarkPodcast saves a podcast to the current user's bookmarks
// POST /api/v1/podcasts/:id/bookmark
func (h *Handlers) BookmarkPodcast(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	podcastID := c.Param("id")
	if podcastID == "" {
		util.RespondBadRequest(c, "podcast ID is required")
		return
	}

	var podcast models.Podcast
	if err := database.DB.First(&podcast, "id = ?", podcastID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.RespondNotFound(c, "podcast")
			return
		}
		util.RespondInternalError(c, "failed to find podcast")
		return
	}

	var existing models.Bookmark
	err := database.DB.Where("user_id = ? AND podcast_id = ?", userID, podcastID).First(&existing).Error
	if err == nil {
		util.RespondConflictState(c, "podcast already bookmarked", gin.H{"bookmarked": true})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		util.RespondInternalError(c, "failed to check bookmark status")
		return
	}

	bookmark := models.Bookmark{
		UserID:    userID,
		PodcastID: podcastID,
	}

	if err := database.DB.Create(&bookmark).Error; err != nil {
		util.RespondInternalError(c, "failed to bookmark podcast")
		return
	}

	metrics.Get().BookmarkEventsTotal.WithLabelValues("bookmark").Inc()
	middleware.InvalidateUserResponses(c, userID)

	c.JSON(http.StatusCreated, gin.H{
		"message":       "Podcast bookmarked successfully",
		"bookmarked":    true,
		"bookmarked_at": bookmark.CreatedAt,
	})
}

// UnbookmarkPodcast removes a bookmark. Removing one that does not
// exist still returns 200 with the resulting state.
// DELETE /api/v1/podcasts/:id/bookmark
func (h *Handlers) UnbookmarkPodcast(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	podcastID := c.Param("id")
	if podcastID == "" {
		util.RespondBadRequest(c, "podcast ID is required")
		return
	}

	result := database.DB.Where("user_id = ? AND podcast_id = ?", userID, podcastID).Delete(&models.Bookmark{})
	if result.Error != nil {
		util.RespondInternalError(c, "failed to remove bookmark")
		return
	}

	if result.RowsAffected > 0 {
		metrics.Get().BookmarkEventsTotal.WithLabelValues("unbookmark").Inc()
		middleware.InvalidateUserResponses(c, userID)
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Bookmark removed successfully",
		"bookmarked": false,
	})
}

// GetBookmarkedPodcasts returns the current user's bookmarks, newest first
// GET /api/v1/library/bookmarked
func (h *Handlers) GetBookmarkedPodcasts(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	limit, offset := util.ParsePagination(c.DefaultQuery("limit", "20"), c.DefaultQuery("offset", "0"), 20, 50)

	var bookmarks []models.Bookmark
	err := database.DB.
		Preload("Podcast").
		Preload("Podcast.CreatedBy").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&bookmarks).Error
	if err != nil {
		util.RespondInternalError(c, "failed to get bookmarked podcasts")
		return
	}

	var totalCount int64
	if err := database.DB.Model(&models.Bookmark{}).Where("user_id = ?", userID).Count(&totalCount).Error; err != nil {
		logger.WarnWithFields("Failed to count bookmarks for user "+userID, err)
		totalCount = int64(len(bookmarks))
	}

	podcasts := make([]gin.H, len(bookmarks))
	for i, bm := range bookmarks {
		entry := formatPodcastResponse(&bm.Podcast)
		entry["creator"] = formatUserResponse(&bm.Podcast.CreatedBy)
		entry["bookmarked_at"] = bm.CreatedAt
		entry["is_bookmarked"] = true
		podcasts[i] = entry
	}

	c.JSON(http.StatusOK, gin.H{
		"podcasts":    podcasts,
		"total_count": totalCount,
		"limit":       limit,
		"offset":      offset,
		"has_more":    offset+len(podcasts) < int(totalCount),
	})
}
