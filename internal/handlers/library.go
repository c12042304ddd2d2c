package handlers

import (
	"net/http"
	"time"

	"github.com/ArunDev-07/apple-podcast-backend/internal/database"
	"github.com/ArunDev-07/apple-podcast-backend/internal/metrics"
	"github.com/ArunDev-07/apple-podcast-backend/internal/models"
	"github.com/ArunDev-07/apple-podcast-backend/internal/util"
	"github.com/gin-gonic/gin"
)

const librarySectionLimit = 50

// GetLibrary assembles the caller's full library view: liked podcasts,
// recently played, most played (by the caller's own play counts), bookmarks,
// and aggregate statistics. Sections are loaded one after another; the first
// query that fails aborts the request.
// GET /api/v1/library
func (h *Handlers) GetLibrary(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	likedSongs, err := h.loadLikedSection(userID)
	if err != nil {
		util.RespondInternalError(c, "failed to load liked podcasts")
		return
	}

	recentlyPlayed, err := h.loadRecentlyPlayedSection(userID)
	if err != nil {
		util.RespondInternalError(c, "failed to load recently played")
		return
	}

	mostPlayed, err := h.loadMostPlayedByUserSection(userID)
	if err != nil {
		util.RespondInternalError(c, "failed to load most played")
		return
	}

	bookmarked, err := h.loadBookmarkedSection(userID)
	if err != nil {
		util.RespondInternalError(c, "failed to load bookmarks")
		return
	}

	statistics, err := h.loadStatistics(userID)
	if err != nil {
		util.RespondInternalError(c, "failed to load statistics")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Library retrieved successfully",
		"data": gin.H{
			"liked_songs":     likedSongs,
			"recently_played": recentlyPlayed,
			"most_played":     mostPlayed,
			"bookmarked":      bookmarked,
			"statistics":      statistics,
		},
	})
}

func (h *Handlers) loadLikedSection(userID string) ([]gin.H, error) {
	start := time.Now()
	defer func() {
		metrics.Get().LibraryGenerationTime.WithLabelValues("liked").Observe(time.Since(start).Seconds())
	}()

	var favorites []models.Favorite
	err := database.DB.
		Preload("Podcast").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(librarySectionLimit).
		Find(&favorites).Error
	if err != nil {
		return nil, err
	}

	section := make([]gin.H, len(favorites))
	for i, fav := range favorites {
		entry := formatPodcastResponse(&fav.Podcast)
		entry["liked_at"] = fav.CreatedAt
		section[i] = entry
	}
	return section, nil
}

func (h *Handlers) loadRecentlyPlayedSection(userID string) ([]gin.H, error) {
	start := time.Now()
	defer func() {
		metrics.Get().LibraryGenerationTime.WithLabelValues("recently_played").Observe(time.Since(start).Seconds())
	}()

	var history []models.ListeningHistory
	err := database.DB.
		Preload("Podcast").
		Where("user_id = ?", userID).
		Order("last_listened_at DESC").
		Limit(librarySectionLimit).
		Find(&history).Error
	if err != nil {
		return nil, err
	}

	section := make([]gin.H, len(history))
	for i, lh := range history {
		entry := formatPodcastResponse(&lh.Podcast)
		entry["progress"] = formatProgressResponse(&history[i])
		section[i] = entry
	}
	return section, nil
}

// loadMostPlayedByUserSection ranks by how often the CALLER played each
// podcast. The global chart by total plays lives on /library/most-played.
func (h *Handlers) loadMostPlayedByUserSection(userID string) ([]gin.H, error) {
	start := time.Now()
	defer func() {
		metrics.Get().LibraryGenerationTime.WithLabelValues("most_played").Observe(time.Since(start).Seconds())
	}()

	var history []models.ListeningHistory
	err := database.DB.
		Preload("Podcast").
		Where("user_id = ?", userID).
		Order("play_count DESC, last_listened_at DESC").
		Limit(librarySectionLimit).
		Find(&history).Error
	if err != nil {
		return nil, err
	}

	section := make([]gin.H, len(history))
	for i, lh := range history {
		entry := formatPodcastResponse(&lh.Podcast)
		entry["user_play_count"] = lh.PlayCount
		entry["last_listened_at"] = lh.LastListenedAt
		section[i] = entry
	}
	return section, nil
}

func (h *Handlers) loadBookmarkedSection(userID string) ([]gin.H, error) {
	start := time.Now()
	defer func() {
		metrics.Get().LibraryGenerationTime.WithLabelValues("bookmarked").Observe(time.Since(start).Seconds())
	}()

	var bookmarks []models.Bookmark
	err := database.DB.
		Preload("Podcast").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(librarySectionLimit).
		Find(&bookmarks).Error
	if err != nil {
		return nil, err
	}

	section := make([]gin.H, len(bookmarks))
	for i, bm := range bookmarks {
		entry := formatPodcastResponse(&bm.Podcast)
		entry["bookmarked_at"] = bm.CreatedAt
		section[i] = entry
	}
	return section, nil
}

func (h *Handlers) loadStatistics(userID string) (gin.H, error) {
	start := time.Now()
	defer func() {
		metrics.Get().LibraryGenerationTime.WithLabelValues("statistics").Observe(time.Since(start).Seconds())
	}()

	var totalLiked int64
	if err := database.DB.Model(&models.Favorite{}).Where("user_id = ?", userID).Count(&totalLiked).Error; err != nil {
		return nil, err
	}

	var totalListened int64
	if err := database.DB.Model(&models.ListeningHistory{}).Where("user_id = ?", userID).Count(&totalListened).Error; err != nil {
		return nil, err
	}

	var totalBookmarked int64
	if err := database.DB.Model(&models.Bookmark{}).Where("user_id = ?", userID).Count(&totalBookmarked).Error; err != nil {
		return nil, err
	}

	var totalSeconds int64
	err := database.DB.Model(&models.ListeningHistory{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(progress), 0)").
		Scan(&totalSeconds).Error
	if err != nil {
		return nil, err
	}

	return gin.H{
		"total_liked":            totalLiked,
		"total_listened":         totalListened,
		"total_bookmarked":       totalBookmarked,
		"total_seconds_listened": totalSeconds,
	}, nil
}

// GetRecentlyPlayed returns the caller's listening history, newest first
// GET /api/v1/library/recently-played
func (h *Handlers) GetRecentlyPlayed(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	limit, offset := util.ParsePagination(c.DefaultQuery("limit", "20"), c.DefaultQuery("offset", "0"), 20, 50)

	var history []models.ListeningHistory
	err := database.DB.
		Preload("Podcast").
		Preload("Podcast.CreatedBy").
		Where("user_id = ?", userID).
		Order("last_listened_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&history).Error
	if err != nil {
		util.RespondInternalError(c, "failed to get listening history")
		return
	}

	var totalCount int64
	if err := database.DB.Model(&models.ListeningHistory{}).Where("user_id = ?", userID).Count(&totalCount).Error; err != nil {
		totalCount = int64(len(history))
	}

	podcasts := make([]gin.H, len(history))
	for i, lh := range history {
		entry := formatPodcastResponse(&lh.Podcast)
		entry["creator"] = formatUserResponse(&lh.Podcast.CreatedBy)
		entry["progress"] = formatProgressResponse(&history[i])
		entry["user_play_count"] = lh.PlayCount
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

// GetMostPlayedGlobal ranks podcasts by total plays across all users. This is
// the sitewide chart; the per-user ranking appears inside GET /library.
// GET /api/v1/library/most-played
func (h *Handlers) GetMostPlayedGlobal(c *gin.Context) {
	if _, ok := util.GetUserIDFromContext(c); !ok {
		return
	}

	limit, offset := util.ParsePagination(c.DefaultQuery("limit", "20"), c.DefaultQuery("offset", "0"), 20, 50)

	var podcasts []models.Podcast
	err := database.DB.
		Preload("CreatedBy").
		Where("play_count > 0").
		Order("play_count DESC, created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&podcasts).Error
	if err != nil {
		util.RespondInternalError(c, "failed to get most played podcasts")
		return
	}

	results := make([]gin.H, len(podcasts))
	for i := range podcasts {
		entry := formatPodcastResponse(&podcasts[i])
		entry["creator"] = formatUserResponse(&podcasts[i].CreatedBy)
		results[i] = entry
	}

	c.JSON(http.StatusOK, gin.H{
		"podcasts": results,
		"limit":    limit,
		"offset":   offset,
	})
}
