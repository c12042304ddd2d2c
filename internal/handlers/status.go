package handlers

import (
	"errors"
	"net/http"

	"github.com/ArunDev-07/apple-podcast-backend/internal/database"
	"github.com/ArunDev-07/apple-podcast-backend/internal/models"
	"github.com/ArunDev-07/apple-podcast-backend/internal/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const maxBulkStatusIDs = 100

// BulkStatusRequest asks for engagement state across several podcasts at once
type BulkStatusRequest struct {
	PodcastIDs []string `json:"podcast_ids" binding:"required,min=1"`
}

// GetPodcastStatus returns the caller's engagement state for one podcast:
// whether it is liked, bookmarked, and the playback progress if any.
// Unknown podcast IDs are not an error; they report the same all-false,
// null-progress shape the bulk endpoint uses, so clients can probe IDs
// from stale caches without handling 404s.
// GET /api/v1/podcasts/:id/status
func (h *Handlers) GetPodcastStatus(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	podcastID := c.Param("id")
	if podcastID == "" {
		util.RespondBadRequest(c, "podcast ID is required")
		return
	}

	var likedCount int64
	if err := database.DB.Model(&models.Favorite{}).
		Where("user_id = ? AND podcast_id = ?", userID, podcastID).
		Count(&likedCount).Error; err != nil {
		util.RespondInternalError(c, "failed to get like status")
		return
	}

	var bookmarkedCount int64
	if err := database.DB.Model(&models.Bookmark{}).
		Where("user_id = ? AND podcast_id = ?", userID, podcastID).
		Count(&bookmarkedCount).Error; err != nil {
		util.RespondInternalError(c, "failed to get bookmark status")
		return
	}

	// progress is null until the user has played this podcast
	var progress interface{}
	var history models.ListeningHistory
	err := database.DB.Where("user_id = ? AND podcast_id = ?", userID, podcastID).First(&history).Error
	if err == nil {
		progress = formatProgressResponse(&history)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		util.RespondInternalError(c, "failed to get listening progress")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"podcast_id": podcastID,
		"liked":      likedCount > 0,
		"bookmarked": bookmarkedCount > 0,
		"progress":   progress,
	})
}

// GetBulkPodcastStatus returns engagement state for up to 100 podcasts in a
// single round trip. IDs the user has no state for come back with liked and
// bookmarked false and a null progress; unknown IDs are included the same
// way rather than rejected.
// POST /api/v1/podcasts/status
func (h *Handlers) GetBulkPodcastStatus(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req BulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if len(req.PodcastIDs) > maxBulkStatusIDs {
		util.RespondBadRequest(c, "too many podcast IDs (max 100)")
		return
	}

	var favorites []models.Favorite
	if err := database.DB.
		Where("user_id = ? AND podcast_id IN ?", userID, req.PodcastIDs).
		Find(&favorites).Error; err != nil {
		util.RespondInternalError(c, "failed to get like statuses")
		return
	}
	likedSet := make(map[string]bool, len(favorites))
	for _, fav := range favorites {
		likedSet[fav.PodcastID] = true
	}

	var bookmarks []models.Bookmark
	if err := database.DB.
		Where("user_id = ? AND podcast_id IN ?", userID, req.PodcastIDs).
		Find(&bookmarks).Error; err != nil {
		util.RespondInternalError(c, "failed to get bookmark statuses")
		return
	}
	bookmarkedSet := make(map[string]bool, len(bookmarks))
	for _, bm := range bookmarks {
		bookmarkedSet[bm.PodcastID] = true
	}

	var history []models.ListeningHistory
	if err := database.DB.
		Where("user_id = ? AND podcast_id IN ?", userID, req.PodcastIDs).
		Find(&history).Error; err != nil {
		util.RespondInternalError(c, "failed to get listening progress")
		return
	}
	progressByID := make(map[string]*models.ListeningHistory, len(history))
	for i := range history {
		progressByID[history[i].PodcastID] = &history[i]
	}

	statuses := make(map[string]gin.H, len(req.PodcastIDs))
	for _, id := range req.PodcastIDs {
		var progress interface{}
		if lh, found := progressByID[id]; found {
			progress = formatProgressResponse(lh)
		}
		statuses[id] = gin.H{
			"liked":      likedSet[id],
			"bookmarked": bookmarkedSet[id],
			"progress":   progress,
		}
	}

	c.JSON(http.StatusOK, gin.H{"statuses": statuses})
}
