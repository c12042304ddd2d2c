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

// CreatePodcastRequest is the admin payload for adding a podcast to the
// catalog
type CreatePodcastRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=200"`
	Description string `json:"description" binding:"max=5000"`
	Category    string `json:"category" binding:"max=100"`
	ImageURL    string `json:"image_url" binding:"omitempty,url"`
	AudioURL    string `json:"audio_url" binding:"required,url"`
	Duration    int    `json:"duration" binding:"omitempty,min=0"`
}

// UpdatePodcastRequest carries partial catalog updates; nil fields are
// left untouched
type UpdatePodcastRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string `json:"description" binding:"omitempty,max=5000"`
	Category    *string `json:"category" binding:"omitempty,max=100"`
	ImageURL    *string `json:"image_url" binding:"omitempty,url"`
	AudioURL    *string `json:"audio_url" binding:"omitempty,url"`
	Duration    *int    `json:"duration" binding:"omitempty,min=0"`
}

// ListPodcasts returns the catalog with pagination, optional category
// filter, and optional title search.
// GET /api/v1/podcasts
func (h *Handlers) ListPodcasts(c *gin.Context) {
	limit, offset := util.ParsePagination(c.DefaultQuery("limit", "20"), c.DefaultQuery("offset", "0"), 20, 100)

	filter := func(db *gorm.DB) *gorm.DB {
		if category := c.Query("category"); category != "" {
			db = db.Where("category = ?", category)
		}
		if search := c.Query("search"); search != "" {
			db = db.Where("title ILIKE ?", "%"+search+"%")
		}
		return db
	}

	var totalCount int64
	if err := filter(database.DB.Model(&models.Podcast{})).Count(&totalCount).Error; err != nil {
		util.RespondInternalError(c, "failed to count podcasts")
		return
	}

	var podcasts []models.Podcast
	err := filter(database.DB.Preload("CreatedBy")).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&podcasts).Error
	if err != nil {
		util.RespondInternalError(c, "failed to list podcasts")
		return
	}

	results := make([]gin.H, len(podcasts))
	for i := range podcasts {
		entry := formatPodcastResponse(&podcasts[i])
		entry["creator"] = formatUserResponse(&podcasts[i].CreatedBy)
		results[i] = entry
	}

	c.JSON(http.StatusOK, gin.H{
		"podcasts":    results,
		"total_count": totalCount,
		"limit":       limit,
		"offset":      offset,
		"has_more":    offset+len(results) < int(totalCount),
	})
}

// GetPodcast returns a single podcast with its episodes
// GET /api/v1/podcasts/:id
func (h *Handlers) GetPodcast(c *gin.Context) {
	podcastID := c.Param("id")
	if podcastID == "" {
		util.RespondBadRequest(c, "podcast ID is required")
		return
	}

	var podcast models.Podcast
	err := database.DB.
		Preload("CreatedBy").
		Preload("Episodes", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&podcast, "id = ?", podcastID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.RespondNotFound(c, "podcast")
			return
		}
		util.RespondInternalError(c, "failed to get podcast")
		return
	}

	episodes := make([]gin.H, len(podcast.Episodes))
	for i, ep := range podcast.Episodes {
		episodes[i] = gin.H{
			"id":          ep.ID,
			"title":       ep.Title,
			"description": ep.Description,
			"audio_url":   ep.AudioURL,
			"duration":    ep.Duration,
			"position":    ep.Position,
			"created_at":  ep.CreatedAt,
		}
	}

	response := formatPodcastResponse(&podcast)
	response["creator"] = formatUserResponse(&podcast.CreatedBy)
	response["episodes"] = episodes

	c.JSON(http.StatusOK, gin.H{"podcast": response})
}

// CreatePodcast adds a podcast to the catalog (admin only)
// POST /api/v1/podcasts
func (h *Handlers) CreatePodcast(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req CreatePodcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	podcast := models.Podcast{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		AudioURL:    req.AudioURL,
		Duration:    req.Duration,
		CreatedByID: userID,
	}

	if err := database.DB.Create(&podcast).Error; err != nil {
		util.RespondInternalError(c, "failed to create podcast")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Podcast created successfully",
		"podcast": formatPodcastResponse(&podcast),
	})
}

// UpdatePodcast applies a partial update to a podcast (admin only)
// PUT /api/v1/podcasts/:id
func (h *Handlers) UpdatePodcast(c *gin.Context) {
	podcastID := c.Param("id")
	if podcastID == "" {
		util.RespondBadRequest(c, "podcast ID is required")
		return
	}

	var req UpdatePodcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, "invalid request body: "+err.Error())
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

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.AudioURL != nil {
		updates["audio_url"] = *req.AudioURL
	}
	if req.Duration != nil {
		updates["duration"] = *req.Duration
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&podcast).Updates(updates).Error; err != nil {
			util.RespondInternalError(c, "failed to update podcast")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Podcast updated successfully",
		"podcast": formatPodcastResponse(&podcast),
	})
}

// DeletePodcast removes a podcast and its engagement rows (admin only)
// DELETE /api/v1/podcasts/:id
func (h *Handlers) DeletePodcast(c *gin.Context) {
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

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("podcast_id = ?", podcastID).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("podcast_id = ?", podcastID).Delete(&models.Bookmark{}).Error; err != nil {
			return err
		}
		if err := tx.Where("podcast_id = ?", podcastID).Delete(&models.ListeningHistory{}).Error; err != nil {
			return err
		}
		if err := tx.Where("podcast_id = ?", podcastID).Delete(&models.PlaylistItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("podcast_id = ?", podcastID).Delete(&models.Episode{}).Error; err != nil {
			return err
		}
		return tx.Delete(&podcast).Error
	})
	if err != nil {
		util.RespondInternalError(c, "failed to delete podcast")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Podcast deleted successfully"})
}

// GetTrendingPodcasts returns the catalog ranked by total plays
// GET /api/v1/podcasts/trending
func (h *Handlers) GetTrendingPodcasts(c *gin.Context) {
	limit, offset := util.ParsePagination(c.DefaultQuery("limit", "20"), c.DefaultQuery("offset", "0"), 20, 50)

	var podcasts []models.Podcast
	err := database.DB.
		Preload("CreatedBy").
		Where("play_count > 0").
		Order("play_count DESC, like_count DESC, created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&podcasts).Error
	if err != nil {
		util.RespondInternalError(c, "failed to get trending podcasts")
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
