package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Podcast represents a published show with denormalized engagement counters.
// PlayCount is a raw play-event counter bumped once per play call from any
// user; it is not a unique-listener count.
type Podcast struct {
	ID          string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Category    string `gorm:"index" json:"category"`
	ImageURL    string `json:"image_url"`
	AudioURL    string `json:"audio_url"`

	// Total runtime in seconds. Completion is derived from this at play
	// time and is not recalculated if the duration is later corrected.
	Duration int `gorm:"default:0" json:"duration"`

	PlayCount int `gorm:"default:0" json:"play_count"`
	LikeCount int `gorm:"default:0" json:"like_count"`

	CreatedByID string `gorm:"index" json:"created_by"`
	CreatedBy   User   `gorm:"foreignKey:CreatedByID" json:"creator,omitempty"`

	Episodes []Episode `gorm:"foreignKey:PodcastID" json:"episodes,omitempty"`

	// GORM fields
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Podcast) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// Episode is a single installment of a podcast. Engagement tracking is
// keyed by podcast, not episode.
type Episode struct {
	ID          string  `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	PodcastID   string  `gorm:"not null;index" json:"podcast_id"`
	Podcast     Podcast `gorm:"foreignKey:PodcastID" json:"podcast,omitempty"`
	Title       string  `gorm:"not null" json:"title"`
	Description string  `gorm:"type:text" json:"description"`
	AudioURL    string  `json:"audio_url"`
	Duration    int     `gorm:"default:0" json:"duration"`
	Position    int     `gorm:"not null;default:0" json:"position"`

	// GORM fields
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (e *Episode) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}
