package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/ArunDev-07/apple-podcast-backend/internal/database"
	"github.com/ArunDev-07/apple-podcast-backend/internal/logger"
	"github.com/ArunDev-07/apple-podcast-backend/internal/metrics"
	"github.com/ArunDev-07/apple-podcast-backend/internal/middleware"
	"github.com/ArunDev-07/apple-podcast-backend/internal/models"
	"github.com/ArunDev-07/apple-podcast-backend/internal/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecordPlayRequest carries the playback position in seconds. A missing
// body or zero progress records a play from the start.
type RecordPlayRequest struct {
	Progress int `json:"progress" binding:"omitempty,min=0"`
	Duration int `json:"duration" binding:"omitempty,min=0"`
}

// RecordPlay upserts the caller's listening state for a podcast and bumps the
// podcast's global play counter. One row per (user, podcast); repeat plays
// overwrite progress and increment both counters.
// POST /api/v1/podcasts/:id/play
func (h *Handlers) RecordPlay(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	podcastID := c.Param("id")
	if podcastID == "" {
		util.RespondBadRequest(c, "podcast ID is required")
		return
	}

	var req RecordPlayRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
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

	// The catalog duration is authoritative; the client-supplied value is
	// only a fallback for podcasts with no duration on record
	duration := podcast.Duration
	if duration <= 0 {
		duration = req.Duration
	}
	completed := models.IsCompleted(req.Progress, duration)
	now := time.Now()

	entry := models.ListeningHistory{
		UserID:         userID,
		PodcastID:      podcastID,
		Progress:       req.Progress,
		Completed:      completed,
		PlayCount:      1,
		LastListenedAt: now,
	}

	err := database.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "podcast_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"progress":         req.Progress,
			"completed":        completed,
			"play_count":       gorm.Expr("listening_history.play_count + 1"),
			"last_listened_at": now,
			"updated_at":       now,
		}),
	}).Create(&entry).Error
	if err != nil {
		util.RespondInternalError(c, "failed to record play")
		return
	}

	if err := database.DB.Model(&models.Podcast{}).Where("id = ?", podcastID).
		UpdateColumn("play_count", gorm.Expr("play_count + 1")).Error; err != nil {
		logger.WarnWithFields("Failed to increment play count for podcast "+podcastID, err)
	}

	// Re-read so the response reflects the post-increment counter rather
	// than a value computed in Go
	var updated models.Podcast
	if err := database.DB.Select("play_count").First(&updated, "id = ?", podcastID).Error; err != nil {
		updated.PlayCount = podcast.PlayCount + 1
	}

	metrics.Get().PlaysRecordedTotal.WithLabelValues(strconv.FormatBool(completed)).Inc()
	middleware.InvalidateUserResponses(c, userID)

	c.JSON(http.StatusOK, gin.H{
		"message":    "Play recorded successfully",
		"progress":   req.Progress,
		"completed":  completed,
		"play_count": updated.PlayCount,
		"timestamp":  now,
	})
}
