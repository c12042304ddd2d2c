package seed

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/ArunDev-07/apple-podcast-backend/internal/database"
	"github.com/ArunDev-07/apple-podcast-backend/internal/logger"
	"github.com/ArunDev-07/apple-podcast-backend/internal/models"
	"github.com/brianvoe/gofakeit/v6"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var categories = []string{
	"Technology", "Comedy", "True Crime", "News", "Business",
	"Health & Fitness", "Science", "History", "Sports", "Music",
}

// Config controls how much data the seeder generates
type Config struct {
	Users              int
	Podcasts           int
	EpisodesPerPodcast int
	Password           string
}

// DefaultConfig seeds enough data to exercise every endpoint locally
func DefaultConfig() Config {
	return Config{
		Users:              20,
		Podcasts:           60,
		EpisodesPerPodcast: 8,
		Password:           "password123",
	}
}

// Run populates the database with fake users, a podcast catalog, and
// realistic engagement state. It is idempotent only in the sense that
// running it twice doubles the data; use a fresh database.
func Run(cfg Config) error {
	gofakeit.Seed(time.Now().UnixNano())

	users, err := seedUsers(cfg)
	if err != nil {
		return fmt.Errorf("seeding users: %w", err)
	}

	podcasts, err := seedPodcasts(cfg, users)
	if err != nil {
		return fmt.Errorf("seeding podcasts: %w", err)
	}

	if err := seedEngagement(users, podcasts); err != nil {
		return fmt.Errorf("seeding engagement: %w", err)
	}

	logger.Log.Info("Seed complete",
		zap.Int("users", len(users)),
		zap.Int("podcasts", len(podcasts)),
	)
	return nil
}

func seedUsers(cfg Config) ([]models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, cfg.Users+1)

	admin := models.User{
		Email:        "admin@example.com",
		Username:     "admin",
		DisplayName:  "Admin",
		PasswordHash: string(hash),
		IsAdmin:      true,
	}
	if err := database.DB.Create(&admin).Error; err != nil {
		return nil, err
	}
	users = append(users, admin)

	for i := 0; i < cfg.Users; i++ {
		user := models.User{
			Email:        fmt.Sprintf("%d_%s", i, gofakeit.Email()),
			Username:     fmt.Sprintf("%s%d", gofakeit.Username(), i),
			DisplayName:  gofakeit.Name(),
			PasswordHash: string(hash),
			AvatarURL:    gofakeit.ImageURL(200, 200),
		}
		if err := database.DB.Create(&user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, nil
}

func seedPodcasts(cfg Config, users []models.User) ([]models.Podcast, error) {
	podcasts := make([]models.Podcast, 0, cfg.Podcasts)

	for i := 0; i < cfg.Podcasts; i++ {
		creator := users[rand.Intn(len(users))]
		podcast := models.Podcast{
			Title:       gofakeit.Sentence(4),
			Description: gofakeit.Paragraph(2, 4, 10, " "),
			Category:    categories[rand.Intn(len(categories))],
			ImageURL:    gofakeit.ImageURL(600, 600),
			AudioURL:    gofakeit.URL(),
			Duration:    600 + rand.Intn(5400),
			CreatedByID: creator.ID,
		}
		if err := database.DB.Create(&podcast).Error; err != nil {
			return nil, err
		}

		for pos := 1; pos <= cfg.EpisodesPerPodcast; pos++ {
			episode := models.Episode{
				PodcastID:   podcast.ID,
				Title:       gofakeit.Sentence(5),
				Description: gofakeit.Paragraph(1, 3, 12, " "),
				AudioURL:    gofakeit.URL(),
				Duration:    300 + rand.Intn(3600),
				Position:    pos,
			}
			if err := database.DB.Create(&episode).Error; err != nil {
				return nil, err
			}
		}

		podcasts = append(podcasts, podcast)
	}

	return podcasts, nil
}

func seedEngagement(users []models.User, podcasts []models.Podcast) error {
	for _, user := range users {
		// Each user likes, bookmarks, and has played a random slice of
		// the catalog
		for _, podcast := range pickRandom(podcasts, 3+rand.Intn(8)) {
			fav := models.Favorite{UserID: user.ID, PodcastID: podcast.ID}
			if err := database.DB.Create(&fav).Error; err != nil {
				return err
			}
			if err := database.DB.Model(&models.Podcast{}).Where("id = ?", podcast.ID).
				UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error; err != nil {
				return err
			}
		}

		for _, podcast := range pickRandom(podcasts, 1+rand.Intn(5)) {
			bm := models.Bookmark{UserID: user.ID, PodcastID: podcast.ID}
			if err := database.DB.Create(&bm).Error; err != nil {
				return err
			}
		}

		for _, podcast := range pickRandom(podcasts, 2+rand.Intn(10)) {
			plays := 1 + rand.Intn(6)
			progress := rand.Intn(podcast.Duration + 1)
			entry := models.ListeningHistory{
				UserID:         user.ID,
				PodcastID:      podcast.ID,
				Progress:       progress,
				Completed:      models.IsCompleted(progress, podcast.Duration),
				PlayCount:      plays,
				LastListenedAt: gofakeit.DateRange(time.Now().AddDate(0, -3, 0), time.Now()),
			}
			if err := database.DB.Create(&entry).Error; err != nil {
				return err
			}
			if err := database.DB.Model(&models.Podcast{}).Where("id = ?", podcast.ID).
				UpdateColumn("play_count", gorm.Expr(fmt.Sprintf("play_count + %d", plays))).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

// pickRandom returns up to n distinct podcasts
func pickRandom(podcasts []models.Podcast, n int) []models.Podcast {
	if n > len(podcasts) {
		n = len(podcasts)
	}
	indexes := rand.Perm(len(podcasts))[:n]
	picked := make([]models.Podcast, n)
	for i, idx := range indexes {
		picked[i] = podcasts[idx]
	}
	return picked
}
