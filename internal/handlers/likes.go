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

// LikePodcast adds a podcast to the current user's favorites
// POST /api/v1/podcasts/:id/like
func (h *Handlers) LikePodcast(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	podcastID := c.Param("id")
	if podcastID == "" {
		util.RespondBadRequest(c, "podcast ID is required")
		return
	}

	// Existence is checked on create only; delete is a blind no-op
	var podcast models.Podcast
	if err := database.DB.First(&podcast, "id = ?", podcastID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.RespondNotFound(c, "podcast")
			return
		}
		util.RespondInternalError(c, "failed to find podcast")
		return
	}

	var existing models.Favorite
	err := database.DB.Where("user_id = ? AND podcast_id = ?", userID, podcastID).First(&existing).Error
	if err == nil {
		// Redundant create: surfaced as a client error with the current
		// state echoed so optimistic UI can reconcile
		util.RespondConflictState(c, "podcast already liked", gin.H{"liked": true})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		util.RespondInternalError(c, "failed to check like status")
		return
	}

	favorite := models.Favorite{
		UserID:    userID,
		PodcastID: podcastID,
	}

	if err := database.DB.Create(&favorite).Error; err != nil {
		util.RespondInternalError(c, "failed to like podcast")
		return
	}

	if err := database.DB.Model(&podcast).UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error; err != nil {
		logger.WarnWithFields("Failed to increment like count for podcast "+podcastID, err)
	}

	metrics.Get().LikeEventsTotal.WithLabelValues("like").Inc()
	middleware.InvalidateUserResponses(c, userID)

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Podcast liked successfully",
		"liked":    true,
		"liked_at": favorite.CreatedAt,
	})
}

// UnlikePodcast removes a podcast from the current user's favorites.
// Deleting a podcast that was never liked is not an error; the response
// reports the resulting state either way.
// DELETE /api/v1/podcasts/:id/like
func (h *Handlers) UnlikePodcast(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	podcastID := c.Param("id")
	if podcastID == "" {
		util.RespondBadRequest(c, "podcast ID is required")
		return
	}

	result := database.DB.Where("user_id = ? AND podcast_id = ?", userID, podcastID).Delete(&models.Favorite{})
	if result.Error != nil {
		util.RespondInternalError(c, "failed to unlike podcast")
		return
	}

	if result.RowsAffected > 0 {
		if err := database.DB.Model(&models.Podcast{}).Where("id = ?", podcastID).
			UpdateColumn("like_count", gorm.Expr("GREATEST(like_count - 1, 0)")).Error; err != nil {
			logger.WarnWithFields("Failed to decrement like count for podcast "+podcastID, err)
		}
		metrics.Get().LikeEventsTotal.WithLabelValues("unlike").Inc()
		middleware.InvalidateUserResponses(c, userID)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Podcast unliked successfully",
		"liked":   false,
	})
}

// GetLikedPodcasts returns the current user's liked podcasts, newest first
// GET /api/v1/library/liked
func (h *Handlers) GetLikedPodcasts(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	limit, offset := util.ParsePagination(c.DefaultQuery("limit", "20"), c.DefaultQuery("offset", "0"), 20, 50)

	var favorites []models.Favorite
	err := database.DB.
		Preload("Podcast").
		Preload("Podcast.CreatedBy").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&favorites).Error
	if err != nil {
		util.RespondInternalError(c, "failed to get liked podcasts")
		return
	}

	var totalCount int64
	if err := database.DB.Model(&models.Favorite{}).Where("user_id = ?", userID).Count(&totalCount).Error; err != nil {
		logger.WarnWithFields("Failed to count favorites for user "+userID, err)
		totalCount = int64(len(favorites))
	}

	podcasts := make([]gin.H, len(favorites))
	for i, fav := range favorites {
		entry := formatPodcastResponse(&fav.Podcast)
		entry["creator"] = formatUserResponse(&fav.Podcast.CreatedBy)
		entry["liked_at"] = fav.CreatedAt
		entry["is_liked"] = true
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
