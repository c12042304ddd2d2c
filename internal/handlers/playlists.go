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

// CreatePlaylistRequest names a new playlist
type CreatePlaylistRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=1000"`
}

// AddPlaylistItemRequest adds a podcast to a playlist
type AddPlaylistItemRequest struct {
	PodcastID string `json:"podcast_id" binding:"required"`
}

func formatPlaylistResponse(p *models.Playlist) gin.H {
	return gin.H{
		"id":          p.ID,
		"name":        p.Name,
		"description": p.Description,
		"item_count":  len(p.Items),
		"created_at":  p.CreatedAt,
		"updated_at":  p.UpdatedAt,
	}
}

// ListPlaylists returns the caller's playlists, newest first
// GET /api/v1/playlists
func (h *Handlers) ListPlaylists(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var playlists []models.Playlist
	err := database.DB.
		Preload("Items").
		Where("owner_id = ?", userID).
		Order("created_at DESC").
		Find(&playlists).Error
	if err != nil {
		util.RespondInternalError(c, "failed to list playlists")
		return
	}

	results := make([]gin.H, len(playlists))
	for i := range playlists {
		results[i] = formatPlaylistResponse(&playlists[i])
	}

	c.JSON(http.StatusOK, gin.H{"playlists": results})
}

// GetPlaylist returns one playlist with its podcasts in position order.
// Only the owner can read it.
// GET /api/v1/playlists/:id
func (h *Handlers) GetPlaylist(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	playlistID := c.Param("id")
	var playlist models.Playlist
	err := database.DB.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Items.Podcast").
		Where("id = ? AND owner_id = ?", playlistID, userID).
		First(&playlist).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.RespondNotFound(c, "playlist")
			return
		}
		util.RespondInternalError(c, "failed to get playlist")
		return
	}

	items := make([]gin.H, len(playlist.Items))
	for i, item := range playlist.Items {
		entry := formatPodcastResponse(&item.Podcast)
		entry["position"] = item.Position
		entry["added_at"] = item.CreatedAt
		items[i] = entry
	}

	response := formatPlaylistResponse(&playlist)
	response["items"] = items

	c.JSON(http.StatusOK, gin.H{"playlist": response})
}

// CreatePlaylist creates an empty playlist owned by the caller
// POST /api/v1/playlists
func (h *Handlers) CreatePlaylist(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req CreatePlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	playlist := models.Playlist{
		OwnerID:     userID,
		Name:        req.Name,
		Description: req.Description,
	}

	if err := database.DB.Create(&playlist).Error; err != nil {
		util.RespondInternalError(c, "failed to create playlist")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Playlist created successfully",
		"playlist": formatPlaylistResponse(&playlist),
	})
}

// DeletePlaylist removes a playlist and its items. Only the owner can
// delete it.
// DELETE /api/v1/playlists/:id
func (h *Handlers) DeletePlaylist(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	playlistID := c.Param("id")
	var playlist models.Playlist
	if err := database.DB.Where("id = ? AND owner_id = ?", playlistID, userID).First(&playlist).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.RespondNotFound(c, "playlist")
			return
		}
		util.RespondInternalError(c, "failed to find playlist")
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("playlist_id = ?", playlistID).Delete(&models.PlaylistItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&playlist).Error
	})
	if err != nil {
		util.RespondInternalError(c, "failed to delete playlist")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Playlist deleted successfully"})
}

// AddPlaylistItem appends a podcast to a playlist. Adding a podcast that is
// already present echoes the current state as a client error.
// POST /api/v1/playlists/:id/items
func (h *Handlers) AddPlaylistItem(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	playlistID := c.Param("id")
	var req AddPlaylistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	var playlist models.Playlist
	if err := database.DB.Where("id = ? AND owner_id = ?", playlistID, userID).First(&playlist).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.RespondNotFound(c, "playlist")
			return
		}
		util.RespondInternalError(c, "failed to find playlist")
		return
	}

	var podcast models.Podcast
	if err := database.DB.Select("id").First(&podcast, "id = ?", req.PodcastID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.RespondNotFound(c, "podcast")
			return
		}
		util.RespondInternalError(c, "failed to find podcast")
		return
	}

	var existing models.PlaylistItem
	err := database.DB.Where("playlist_id = ? AND podcast_id = ?", playlistID, req.PodcastID).First(&existing).Error
	if err == nil {
		util.RespondConflictState(c, "podcast already in playlist", gin.H{"in_playlist": true})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		util.RespondInternalError(c, "failed to check playlist contents")
		return
	}

	var maxPosition int
	database.DB.Model(&models.PlaylistItem{}).
		Where("playlist_id = ?", playlistID).
		Select("COALESCE(MAX(position), 0)").
		Scan(&maxPosition)

	item := models.PlaylistItem{
		PlaylistID: playlistID,
		PodcastID:  req.PodcastID,
		Position:   maxPosition + 1,
	}

	if err := database.DB.Create(&item).Error; err != nil {
		util.RespondInternalError(c, "failed to add podcast to playlist")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Podcast added to playlist",
		"position": item.Position,
	})
}

// RemovePlaylistItem drops a podcast from a playlist. Removing one that is
// not present still returns 200.
// DELETE /api/v1/playlists/:id/items/:podcastId
func (h *Handlers) RemovePlaylistItem(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	playlistID := c.Param("id")
	podcastID := c.Param("podcastId")

	var playlist models.Playlist
	if err := database.DB.Where("id = ? AND owner_id = ?", playlistID, userID).First(&playlist).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.RespondNotFound(c, "playlist")
			return
		}
		util.RespondInternalError(c, "failed to find playlist")
		return
	}

	result := database.DB.Where("playlist_id = ? AND podcast_id = ?", playlistID, podcastID).Delete(&models.PlaylistItem{})
	if result.Error != nil {
		util.RespondInternalError(c, "failed to remove podcast from playlist")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Podcast removed from playlist"})
}
