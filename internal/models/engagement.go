package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Favorite is a user's like relation to a podcast. At most one row per
// (user, podcast).
type Favorite struct {
	ID        string  `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID    string  `gorm:"not null;uniqueIndex:idx_favorites_user_podcast" json:"user_id"`
	User      User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	PodcastID string  `gorm:"not null;uniqueIndex:idx_favorites_user_podcast" json:"podcast_id"`
	Podcast   Podcast `gorm:"foreignKey:PodcastID" json:"podcast,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (f *Favorite) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	return nil
}

// Bookmark is a user's saved-for-later relation to a podcast. This table
// is the single canonical representation of bookmarks.
type Bookmark struct {
	ID        string  `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID    string  `gorm:"not null;uniqueIndex:idx_bookmarks_user_podcast" json:"user_id"`
	User      User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	PodcastID string  `gorm:"not null;uniqueIndex:idx_bookmarks_user_podcast" json:"podcast_id"`
	Podcast   Podcast `gorm:"foreignKey:PodcastID" json:"podcast,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (b *Bookmark) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}

// ListeningHistory is the per-user, per-podcast playback state: one row
// per pair with upsert-on-play semantics. PlayCount here is the user's own
// play tally for the podcast, distinct from Podcast.PlayCount.
type ListeningHistory struct {
	ID        string  `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID    string  `gorm:"not null;uniqueIndex:idx_history_user_podcast" json:"user_id"`
	User      User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	PodcastID string  `gorm:"not null;uniqueIndex:idx_history_user_podcast" json:"podcast_id"`
	Podcast   Podcast `gorm:"foreignKey:PodcastID" json:"podcast,omitempty"`

	// Playback position in seconds
	Progress int `gorm:"default:0" json:"progress"`

	// Derived at write time from the duration known at that moment
	Completed bool `gorm:"default:false" json:"completed"`

	PlayCount int `gorm:"default:0" json:"play_count"`

	LastListenedAt time.Time `gorm:"index" json:"last_listened_at"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (lh *ListeningHistory) BeforeCreate(tx *gorm.DB) error {
	if lh.ID == "" {
		lh.ID = uuid.New().String()
	}
	return nil
}

// TableName overrides the default pluralization
func (ListeningHistory) TableName() string {
	return "listening_history"
}

// CompletionThreshold is the fraction of a podcast's duration that counts
// as a completed listen.
const CompletionThreshold = 0.9

// IsCompleted reports whether progress seconds into duration seconds
// counts as a completed listen. A zero or unknown duration never does.
func IsCompleted(progress, duration int) bool {
	if duration <= 0 {
		return false
	}
	return float64(progress) >= CompletionThreshold*float64(duration)
}
