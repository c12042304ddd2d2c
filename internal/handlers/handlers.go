package handlers

import (
	"github.com/ArunDev-07/apple-podcast-backend/internal/models"
	"github.com/gin-gonic/gin"
)

// Handlers contains all HTTP handlers for the API
type Handlers struct{}

// NewHandlers creates a new handlers instance
func NewHandlers() *Handlers {
	return &Handlers{}
}

// formatPodcastResponse shapes a podcast row for list endpoints
func formatPodcastResponse(p *models.Podcast) gin.H {
	return gin.H{
		"id":          p.ID,
		"title":       p.Title,
		"description": p.Description,
		"category":    p.Category,
		"image_url":   p.ImageURL,
		"audio_url":   p.AudioURL,
		"duration":    p.Duration,
		"play_count":  p.PlayCount,
		"like_count":  p.LikeCount,
		"created_at":  p.CreatedAt,
	}
}

// formatUserResponse shapes the embedded user for responses
func formatUserResponse(u *models.User) gin.H {
	if u == nil {
		return nil
	}
	return gin.H{
		"id":           u.ID,
		"username":     u.Username,
		"display_name": u.DisplayName,
		"avatar_url":   u.AvatarURL,
	}
}

// formatProgressResponse shapes a listening-history row for status and
// library responses
func formatProgressResponse(lh *models.ListeningHistory) gin.H {
	return gin.H{
		"progress":         lh.Progress,
		"completed":        lh.Completed,
		"last_listened_at": lh.LastListenedAt,
	}
}
