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

// CreateEpisodeRequest is the admin payload for adding an episode
type CreateEpisodeRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=200"`
	Description string `json:"description" binding:"max=5000"`
	AudioURL    string `json:"audio_url" binding:"required,url"`
	Duration    int    `json:"duration" binding:"omitempty,min=0"`
	Position    int    `json:"position" binding:"omitempty,min=0"`
}

func formatEpisodeResponse(ep *models.Episode) gin.H {
	return gin.H{
		"id":          ep.ID,
		"podcast_id":  ep.PodcastID,
		"title":       ep.Title,
		"description": ep.Description,
		"audio_url":   ep.AudioURL,
		"duration":    ep.Duration,
		"position":    ep.Position,
		"created_at":  ep.CreatedAt,
	}
}

// ListEpisodes returns a podcast's episodes in position order
// GET /api/v1/podcasts/:id/episodes
func (h *Handlers) ListEpisodes(c *gin.Context) {
	podcastID := c.Param("id")
	if podcastID == "" {
		util.RespondBadRequest(c, "podcast ID is required")
		return
	}

	var podcast models.Podcast
	if err := database.DB.Select("id").First(&podcast, "id = ?", podcastID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.RespondNotFound(c, "podcast")
			return
		}
		util.RespondInternalError(c, "failed to find podcast")
		return
	}

	var episodes []models.Episode
	if err := database.DB.Where("podcast_id = ?", podcastID).Order("position ASC").Find(&episodes).Error; err != nil {
		util.RespondInternalError(c, "failed to list episodes")
		return
	}

	results := make([]gin.H, len(episodes))
	for i := range episodes {
		results[i] = formatEpisodeResponse(&episodes[i])
	}

	c.JSON(http.StatusOK, gin.H{"episodes": results})
}

// CreateEpisode adds an episode to a podcast (admin only). A zero position
// appends after the current last episode.
// POST /api/v1/podcasts/:id/episodes
func (h *Handlers) CreateEpisode(c *gin.Context) {
	podcastID := c.Param("id")
	if podcastID == "" {
		util.RespondBadRequest(c, "podcast ID is required")
		return
	}

	var req CreateEpisodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	var podcast models.Podcast
	if err := database.DB.Select("id").First(&podcast, "id = ?", podcastID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.RespondNotFound(c, "podcast")
			return
		}
		util.RespondInternalError(c, "failed to find podcast")
		return
	}

	position := req.Position
	if position == 0 {
		var maxPosition int
		database.DB.Model(&models.Episode{}).
			Where("podcast_id = ?", podcastID).
			Select("COALESCE(MAX(position), 0)").
			Scan(&maxPosition)
		position = maxPosition + 1
	}

	episode := models.Episode{
		PodcastID:   podcastID,
		Title:       req.Title,
		Description: req.Description,
		AudioURL:    req.AudioURL,
		Duration:    req.Duration,
		Position:    position,
	}

	if err := database.DB.Create(&episode).Error; err != nil {
		util.RespondInternalError(c, "failed to create episode")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Episode created successfully",
		"episode": formatEpisodeResponse(&episode),
	})
}

// UpdateEpisodeRequest carries partial episode updates
type UpdateEpisodeRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string `json:"description" binding:"omitempty,max=5000"`
	AudioURL    *string `json:"audio_url" binding:"omitempty,url"`
	Duration    *int    `json:"duration" binding:"omitempty,min=0"`
	Position    *int    `json:"position" binding:"omitempty,min=1"`
}

// UpdateEpisode applies a partial update to an episode (admin only)
// PUT /api/v1/podcasts/:id/episodes/:episodeId
func (h *Handlers) UpdateEpisode(c *gin.Context) {
	podcastID := c.Param("id")
	episodeID := c.Param("episodeId")
	if podcastID == "" || episodeID == "" {
		util.RespondBadRequest(c, "podcast ID and episode ID are required")
		return
	}

	var req UpdateEpisodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	var episode models.Episode
	if err := database.DB.Where("id = ? AND podcast_id = ?", episodeID, podcastID).First(&episode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.RespondNotFound(c, "episode")
			return
		}
		util.RespondInternalError(c, "failed to find episode")
		return
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.AudioURL != nil {
		updates["audio_url"] = *req.AudioURL
	}
	if req.Duration != nil {
		updates["duration"] = *req.Duration
	}
	if req.Position != nil {
		updates["position"] = *req.Position
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&episode).Updates(updates).Error; err != nil {
			util.RespondInternalError(c, "failed to update episode")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Episode updated successfully",
		"episode": formatEpisodeResponse(&episode),
	})
}

// DeleteEpisode removes an episode (admin only)
// DELETE /api/v1/podcasts/:id/episodes/:episodeId
func (h *Handlers) DeleteEpisode(c *gin.Context) {
	podcastID := c.Param("id")
	episodeID := c.Param("episodeId")
	if podcastID == "" || episodeID == "" {
		util.RespondBadRequest(c, "podcast ID and episode ID are required")
		return
	}

	result := database.DB.Where("id = ? AND podcast_id = ?", episodeID, podcastID).Delete(&models.Episode{})
	if result.Error != nil {
		util.RespondInternalError(c, "failed to delete episode")
		return
	}
	if result.RowsAffected == 0 {
		util.RespondNotFound(c, "episode")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Episode deleted successfully"})
}
