package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Playlist is a user-curated collection of podcasts
type Playlist struct {
	ID          string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Name        string `gorm:"not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	OwnerID     string `gorm:"not null;index" json:"owner_id"`
	Owner       User   `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`

	Items []PlaylistItem `gorm:"foreignKey:PlaylistID" json:"items,omitempty"`

	// GORM fields
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Playlist) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// PlaylistItem is a podcast entry in a playlist, unique per
// (playlist, podcast), ordered by Position.
type PlaylistItem struct {
	ID         string   `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	PlaylistID string   `gorm:"not null;uniqueIndex:idx_playlist_items_unique" json:"playlist_id"`
	Playlist   Playlist `gorm:"foreignKey:PlaylistID" json:"playlist,omitempty"`
	PodcastID  string   `gorm:"not null;uniqueIndex:idx_playlist_items_unique" json:"podcast_id"`
	Podcast    Podcast  `gorm:"foreignKey:PodcastID" json:"podcast,omitempty"`
	Position   int      `gorm:"not null;default:0" json:"position"`

	CreatedAt time.Time `json:"created_at"`
}

func (pi *PlaylistItem) BeforeCreate(tx *gorm.DB) error {
	if pi.ID == "" {
		pi.ID = uuid.New().String()
	}
	return nil
}

// TableName overrides the default table name
func (PlaylistItem) TableName() string {
	return "playlist_items"
}
