package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ArunDev-07/apple-podcast-backend/internal/auth"
	"github.com/ArunDev-07/apple-podcast-backend/internal/database"
	"github.com/ArunDev-07/apple-podcast-backend/internal/logger"
	"github.com/ArunDev-07/apple-podcast-backend/internal/middleware"
	"github.com/ArunDev-07/apple-podcast-backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// testSchema mirrors the Postgres schema without the uuid defaults; IDs
// come from the BeforeCreate hooks.
const testSchema = `
CREATE TABLE users (
	id TEXT PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	username TEXT NOT NULL UNIQUE,
	display_name TEXT NOT NULL DEFAULT '',
	password_hash TEXT NOT NULL DEFAULT '',
	is_admin BOOLEAN NOT NULL DEFAULT 0,
	avatar_url TEXT NOT NULL DEFAULT '',
	last_active_at DATETIME,
	created_at DATETIME,
	updated_at DATETIME,
	deleted_at DATETIME
);

CREATE TABLE podcasts (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL DEFAULT '',
	image_url TEXT NOT NULL DEFAULT '',
	audio_url TEXT NOT NULL DEFAULT '',
	duration INTEGER NOT NULL DEFAULT 0,
	play_count INTEGER NOT NULL DEFAULT 0,
	like_count INTEGER NOT NULL DEFAULT 0,
	created_by_id TEXT,
	created_at DATETIME,
	updated_at DATETIME,
	deleted_at DATETIME
);

CREATE TABLE episodes (
	id TEXT PRIMARY KEY,
	podcast_id TEXT NOT NULL,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	audio_url TEXT NOT NULL DEFAULT '',
	duration INTEGER NOT NULL DEFAULT 0,
	position INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME,
	updated_at DATETIME,
	deleted_at DATETIME
);

CREATE TABLE favorites (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	podcast_id TEXT NOT NULL,
	created_at DATETIME,
	UNIQUE(user_id, podcast_id)
);

CREATE TABLE bookmarks (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	podcast_id TEXT NOT NULL,
	created_at DATETIME,
	UNIQUE(user_id, podcast_id)
);

CREATE TABLE listening_history (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	podcast_id TEXT NOT NULL,
	progress INTEGER NOT NULL DEFAULT 0,
	completed BOOLEAN NOT NULL DEFAULT 0,
	play_count INTEGER NOT NULL DEFAULT 0,
	last_listened_at DATETIME,
	created_at DATETIME,
	updated_at DATETIME,
	UNIQUE(user_id, podcast_id)
);

CREATE TABLE playlists (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	owner_id TEXT NOT NULL,
	created_at DATETIME,
	updated_at DATETIME,
	deleted_at DATETIME
);

CREATE TABLE playlist_items (
	id TEXT PRIMARY KEY,
	playlist_id TEXT NOT NULL,
	podcast_id TEXT NOT NULL,
	position INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME,
	UNIQUE(playlist_id, podcast_id)
);
`

// testAuthMiddleware authenticates from the X-User-ID header so tests can
// act as any user without minting tokens
func testAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		c.Set("user_id", userID)
		c.Next()
	}
}

type HandlersTestSuite struct {
	suite.Suite
	router *gin.Engine
	user   models.User
	other  models.User
	admin  models.User
}

func (s *HandlersTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	logger.Log = zap.NewNop()
	logger.SugaredLog = logger.Log.Sugar()
}

func (s *HandlersTestSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	s.Require().NoError(err)
	s.Require().NoError(db.Exec(testSchema).Error)
	database.DB = db

	s.user = models.User{Email: "alice@example.com", Username: "alice", DisplayName: "Alice"}
	s.Require().NoError(database.DB.Create(&s.user).Error)
	s.other = models.User{Email: "bob@example.com", Username: "bob", DisplayName: "Bob"}
	s.Require().NoError(database.DB.Create(&s.other).Error)
	s.admin = models.User{Email: "admin@example.com", Username: "admin", DisplayName: "Admin", IsAdmin: true}
	s.Require().NoError(database.DB.Create(&s.admin).Error)

	h := NewHandlers()
	authHandlers := NewAuthHandlers(auth.NewService([]byte("test-secret")))
	s.router = gin.New()
	v1 := s.router.Group("/api/v1")

	authGroup := v1.Group("/auth")
	authGroup.POST("/register", authHandlers.Register)
	authGroup.POST("/login", authHandlers.Login)
	authGroup.GET("/me", authHandlers.AuthMiddleware(), authHandlers.Me)

	podcasts := v1.Group("/podcasts")
	podcasts.GET("", h.ListPodcasts)
	podcasts.GET("/trending", h.GetTrendingPodcasts)
	podcasts.GET("/:id", h.GetPodcast)
	podcasts.GET("/:id/episodes", h.ListEpisodes)
	podcasts.POST("", testAuthMiddleware(), middleware.RequireAdmin(), h.CreatePodcast)
	podcasts.PUT("/:id", testAuthMiddleware(), middleware.RequireAdmin(), h.UpdatePodcast)
	podcasts.DELETE("/:id", testAuthMiddleware(), middleware.RequireAdmin(), h.DeletePodcast)
	podcasts.POST("/:id/episodes", testAuthMiddleware(), middleware.RequireAdmin(), h.CreateEpisode)
	podcasts.PUT("/:id/episodes/:episodeId", testAuthMiddleware(), middleware.RequireAdmin(), h.UpdateEpisode)
	podcasts.DELETE("/:id/episodes/:episodeId", testAuthMiddleware(), middleware.RequireAdmin(), h.DeleteEpisode)
	podcasts.POST("/:id/like", testAuthMiddleware(), h.LikePodcast)
	podcasts.DELETE("/:id/like", testAuthMiddleware(), h.UnlikePodcast)
	podcasts.POST("/:id/bookmark", testAuthMiddleware(), h.BookmarkPodcast)
	podcasts.DELETE("/:id/bookmark", testAuthMiddleware(), h.UnbookmarkPodcast)
	podcasts.POST("/:id/play", testAuthMiddleware(), h.RecordPlay)
	podcasts.GET("/:id/status", testAuthMiddleware(), h.GetPodcastStatus)
	podcasts.POST("/status", testAuthMiddleware(), h.GetBulkPodcastStatus)

	library := v1.Group("/library", testAuthMiddleware())
	library.GET("", h.GetLibrary)
	library.GET("/liked", h.GetLikedPodcasts)
	library.GET("/bookmarked", h.GetBookmarkedPodcasts)
	library.GET("/recently-played", h.GetRecentlyPlayed)
	library.GET("/most-played", h.GetMostPlayedGlobal)

	playlists := v1.Group("/playlists", testAuthMiddleware())
	playlists.GET("", h.ListPlaylists)
	playlists.POST("", h.CreatePlaylist)
	playlists.GET("/:id", h.GetPlaylist)
	playlists.DELETE("/:id", h.DeletePlaylist)
	playlists.POST("/:id/items", h.AddPlaylistItem)
	playlists.DELETE("/:id/items/:podcastId", h.RemovePlaylistItem)
}

func (s *HandlersTestSuite) createPodcast(title string, duration int) models.Podcast {
	podcast := models.Podcast{
		Title:       title,
		Category:    "Technology",
		AudioURL:    "https://cdn.example.com/audio.mp3",
		Duration:    duration,
		CreatedByID: s.admin.ID,
	}
	s.Require().NoError(database.DB.Create(&podcast).Error)
	return podcast
}

func (s *HandlersTestSuite) request(method, path, userID string, body interface{}) *httptest.ResponseRecorder {
	var reqBody bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&reqBody).Encode(body))
	}
	req := httptest.NewRequest(method, path, &reqBody)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlersTestSuite) decode(w *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHandlersSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}

func (s *HandlersTestSuite) TestLikeRoundTrip() {
	podcast := s.createPodcast("Go Time", 600)

	w := s.request("POST", "/api/v1/podcasts/"+podcast.ID+"/like", s.user.ID, nil)
	s.Equal(http.StatusCreated, w.Code)
	s.Equal(true, s.decode(w)["liked"])

	w = s.request("GET", "/api/v1/podcasts/"+podcast.ID+"/status", s.user.ID, nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal(true, s.decode(w)["liked"])

	var updated models.Podcast
	s.Require().NoError(database.DB.First(&updated, "id = ?", podcast.ID).Error)
	s.Equal(1, updated.LikeCount)

	w = s.request("DELETE", "/api/v1/podcasts/"+podcast.ID+"/like", s.user.ID, nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal(false, s.decode(w)["liked"])

	w = s.request("GET", "/api/v1/podcasts/"+podcast.ID+"/status", s.user.ID, nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal(false, s.decode(w)["liked"])
}

func (s *HandlersTestSuite) TestDuplicateLikeEchoesState() {
	podcast := s.createPodcast("Go Time", 600)

	w := s.request("POST", "/api/v1/podcasts/"+podcast.ID+"/like", s.user.ID, nil)
	s.Equal(http.StatusCreated, w.Code)

	w = s.request("POST", "/api/v1/podcasts/"+podcast.ID+"/like", s.user.ID, nil)
	s.Equal(http.StatusBadRequest, w.Code)
	body := s.decode(w)
	s.Equal("CONFLICT", body["code"])
	s.Equal(true, body["liked"])

	var count int64
	s.Require().NoError(database.DB.Model(&models.Favorite{}).
		Where("user_id = ? AND podcast_id = ?", s.user.ID, podcast.ID).
		Count(&count).Error)
	s.Equal(int64(1), count)

	var updated models.Podcast
	s.Require().NoError(database.DB.First(&updated, "id = ?", podcast.ID).Error)
	s.Equal(1, updated.LikeCount)
}

func (s *HandlersTestSuite) TestUnlikeIsIdempotent() {
	podcast := s.createPodcast("Go Time", 600)

	for i := 0; i < 2; i++ {
		w := s.request("DELETE", "/api/v1/podcasts/"+podcast.ID+"/like", s.user.ID, nil)
		s.Equal(http.StatusOK, w.Code)
		s.Equal(false, s.decode(w)["liked"])
	}
}

func (s *HandlersTestSuite) TestLikeUnknownPodcast() {
	w := s.request("POST", "/api/v1/podcasts/00000000-0000-0000-0000-000000000000/like", s.user.ID, nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlersTestSuite) TestLikeRequiresAuth() {
	podcast := s.createPodcast("Go Time", 600)
	w := s.request("POST", "/api/v1/podcasts/"+podcast.ID+"/like", "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *HandlersTestSuite) TestLikeStateReadFailureIsNotConflated() {
	podcast := s.createPodcast("Go Time", 600)

	// A failing existence read must surface as a server error, not be
	// treated as "no row" and attempted as a create
	s.Require().NoError(database.DB.Exec("DROP TABLE favorites").Error)

	w := s.request("POST", "/api/v1/podcasts/"+podcast.ID+"/like", s.user.ID, nil)
	s.Equal(http.StatusInternalServerError, w.Code)
	s.Equal("failed to check like status", s.decode(w)["message"])
}

func (s *HandlersTestSuite) TestBookmarkRoundTrip() {
	podcast := s.createPodcast("Hidden Brain", 1800)

	w := s.request("POST", "/api/v1/podcasts/"+podcast.ID+"/bookmark", s.user.ID, nil)
	s.Equal(http.StatusCreated, w.Code)
	s.Equal(true, s.decode(w)["bookmarked"])

	w = s.request("POST", "/api/v1/podcasts/"+podcast.ID+"/bookmark", s.user.ID, nil)
	s.Equal(http.StatusBadRequest, w.Code)
	body := s.decode(w)
	s.Equal("CONFLICT", body["code"])
	s.Equal(true, body["bookmarked"])

	w = s.request("DELETE", "/api/v1/podcasts/"+podcast.ID+"/bookmark", s.user.ID, nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal(false, s.decode(w)["bookmarked"])
}

func (s *HandlersTestSuite) TestUnbookmarkNeverBookmarked() {
	podcast := s.createPodcast("Hidden Brain", 1800)

	w := s.request("DELETE", "/api/v1/podcasts/"+podcast.ID+"/bookmark", s.user.ID, nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal(false, s.decode(w)["bookmarked"])
}

func (s *HandlersTestSuite) TestPlayCompletionThreshold() {
	podcast := s.createPodcast("Radiolab", 600)

	w := s.request("POST", "/api/v1/podcasts/"+podcast.ID+"/play", s.user.ID, gin.H{"progress": 550})
	s.Equal(http.StatusOK, w.Code)
	s.Equal(true, s.decode(w)["completed"])

	w = s.request("POST", "/api/v1/podcasts/"+podcast.ID+"/play", s.user.ID, gin.H{"progress": 500})
	s.Equal(http.StatusOK, w.Code)
	s.Equal(false, s.decode(w)["completed"])
}

func (s *HandlersTestSuite) TestPlayCatalogDurationIsAuthoritative() {
	podcast := s.createPodcast("Radiolab", 600)

	// A client-supplied duration must not shrink the completion denominator
	w := s.request("POST", "/api/v1/podcasts/"+podcast.ID+"/play", s.user.ID, gin.H{"progress": 90, "duration": 100})
	s.Equal(http.StatusOK, w.Code)
	s.Equal(false, s.decode(w)["completed"])

	// Nor inflate it
	w = s.request("POST", "/api/v1/podcasts/"+podcast.ID+"/play", s.user.ID, gin.H{"progress": 550, "duration": 10000})
	s.Equal(http.StatusOK, w.Code)
	s.Equal(true, s.decode(w)["completed"])
}

func (s *HandlersTestSuite) TestPlayClientDurationFallback() {
	podcast := s.createPodcast("Teaser Feed", 0)

	w := s.request("POST", "/api/v1/podcasts/"+podcast.ID+"/play", s.user.ID, gin.H{"progress": 95, "duration": 100})
	s.Equal(http.StatusOK, w.Code)
	s.Equal(true, s.decode(w)["completed"])
}

func (s *HandlersTestSuite) TestPlayZeroDurationNeverCompletes() {
	podcast := s.createPodcast("Teaser Feed", 0)

	w := s.request("POST", "/api/v1/podcasts/"+podcast.ID+"/play", s.user.ID, gin.H{"progress": 10000})
	s.Equal(http.StatusOK, w.Code)
	s.Equal(false, s.decode(w)["completed"])
}

func (s *HandlersTestSuite) TestPlayCountersAndUpsert() {
	podcast := s.createPodcast("Serial", 600)

	progresses := []int{100, 250, 40}
	for i, progress := range progresses {
		w := s.request("POST", "/api/v1/podcasts/"+podcast.ID+"/play", s.user.ID, gin.H{"progress": progress})
		s.Equal(http.StatusOK, w.Code)
		body := s.decode(w)
		s.Equal(float64(i+1), body["play_count"])
		s.Equal(float64(progress), body["progress"])
	}

	var rows int64
	s.Require().NoError(database.DB.Model(&models.ListeningHistory{}).
		Where("user_id = ? AND podcast_id = ?", s.user.ID, podcast.ID).
		Count(&rows).Error)
	s.Equal(int64(1), rows)

	var history models.ListeningHistory
	s.Require().NoError(database.DB.
		Where("user_id = ? AND podcast_id = ?", s.user.ID, podcast.ID).
		First(&history).Error)
	s.Equal(40, history.Progress)
	s.Equal(3, history.PlayCount)
	s.False(history.Completed)

	var updated models.Podcast
	s.Require().NoError(database.DB.First(&updated, "id = ?", podcast.ID).Error)
	s.Equal(3, updated.PlayCount)
}

func (s *HandlersTestSuite) TestPlayCountSharedAcrossUsers() {
	podcast := s.createPodcast("Serial", 600)

	s.request("POST", "/api/v1/podcasts/"+podcast.ID+"/play", s.user.ID, gin.H{"progress": 100})
	w := s.request("POST", "/api/v1/podcasts/"+podcast.ID+"/play", s.other.ID, gin.H{"progress": 200})
	s.Equal(http.StatusOK, w.Code)
	s.Equal(float64(2), s.decode(w)["play_count"])

	var rows int64
	s.Require().NoError(database.DB.Model(&models.ListeningHistory{}).
		Where("podcast_id = ?", podcast.ID).
		Count(&rows).Error)
	s.Equal(int64(2), rows)
}

func (s *HandlersTestSuite) TestStatusProgressNullBeforePlay() {
	podcast := s.createPodcast("Go Time", 600)

	w := s.request("GET", "/api/v1/podcasts/"+podcast.ID+"/status", s.user.ID, nil)
	s.Equal(http.StatusOK, w.Code)
	body := s.decode(w)
	s.Equal(podcast.ID, body["podcast_id"])
	s.Equal(false, body["liked"])
	s.Equal(false, body["bookmarked"])
	s.Nil(body["progress"])
}

func (s *HandlersTestSuite) TestStatusUnknownPodcastReportsNoEngagement() {
	unknownID := "00000000-0000-0000-0000-000000000000"
	w := s.request("GET", "/api/v1/podcasts/"+unknownID+"/status", s.user.ID, nil)
	s.Equal(http.StatusOK, w.Code)

	body := s.decode(w)
	s.Equal(unknownID, body["podcast_id"])
	s.Equal(false, body["liked"])
	s.Equal(false, body["bookmarked"])
	s.Nil(body["progress"])
}

func (s *HandlersTestSuite) TestBulkStatus() {
	liked := s.createPodcast("Liked Show", 600)
	bookmarked := s.createPodcast("Bookmarked Show", 600)
	played := s.createPodcast("Played Show", 600)

	s.request("POST", "/api/v1/podcasts/"+liked.ID+"/like", s.user.ID, nil)
	s.request("POST", "/api/v1/podcasts/"+bookmarked.ID+"/bookmark", s.user.ID, nil)
	s.request("POST", "/api/v1/podcasts/"+played.ID+"/play", s.user.ID, gin.H{"progress": 590})

	unknownID := "00000000-0000-0000-0000-000000000000"
	w := s.request("POST", "/api/v1/podcasts/status", s.user.ID, gin.H{
		"podcast_ids": []string{liked.ID, bookmarked.ID, played.ID, unknownID},
	})
	s.Equal(http.StatusOK, w.Code)

	statuses := s.decode(w)["statuses"].(map[string]interface{})
	s.Len(statuses, 4)

	likedStatus := statuses[liked.ID].(map[string]interface{})
	s.Equal(true, likedStatus["liked"])
	s.Equal(false, likedStatus["bookmarked"])
	s.Nil(likedStatus["progress"])

	bookmarkedStatus := statuses[bookmarked.ID].(map[string]interface{})
	s.Equal(false, bookmarkedStatus["liked"])
	s.Equal(true, bookmarkedStatus["bookmarked"])

	playedStatus := statuses[played.ID].(map[string]interface{})
	progress := playedStatus["progress"].(map[string]interface{})
	s.Equal(float64(590), progress["progress"])
	s.Equal(true, progress["completed"])

	unknownStatus := statuses[unknownID].(map[string]interface{})
	s.Equal(false, unknownStatus["liked"])
	s.Equal(false, unknownStatus["bookmarked"])
	s.Nil(unknownStatus["progress"])
}

func (s *HandlersTestSuite) TestBulkStatusRejectsOversizedRequest() {
	ids := make([]string, 101)
	for i := range ids {
		ids[i] = "00000000-0000-0000-0000-000000000000"
	}
	w := s.request("POST", "/api/v1/podcasts/status", s.user.ID, gin.H{"podcast_ids": ids})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlersTestSuite) TestLibraryStatisticsConsistency() {
	first := s.createPodcast("First", 600)
	second := s.createPodcast("Second", 600)
	third := s.createPodcast("Third", 600)

	s.request("POST", "/api/v1/podcasts/"+first.ID+"/like", s.user.ID, nil)
	s.request("POST", "/api/v1/podcasts/"+second.ID+"/like", s.user.ID, nil)
	s.request("POST", "/api/v1/podcasts/"+third.ID+"/bookmark", s.user.ID, nil)
	s.request("POST", "/api/v1/podcasts/"+first.ID+"/play", s.user.ID, gin.H{"progress": 100})
	s.request("POST", "/api/v1/podcasts/"+second.ID+"/play", s.user.ID, gin.H{"progress": 200})

	w := s.request("GET", "/api/v1/library", s.user.ID, nil)
	s.Equal(http.StatusOK, w.Code)

	data := s.decode(w)["data"].(map[string]interface{})
	stats := data["statistics"].(map[string]interface{})
	s.Equal(float64(2), stats["total_liked"])
	s.Equal(float64(2), stats["total_listened"])
	s.Equal(float64(1), stats["total_bookmarked"])
	s.Equal(float64(300), stats["total_seconds_listened"])

	s.Len(data["liked_songs"].([]interface{}), 2)
	s.Len(data["bookmarked"].([]interface{}), 1)
	s.Len(data["recently_played"].([]interface{}), 2)
	s.Len(data["most_played"].([]interface{}), 2)

	// total_liked must agree with the flat list endpoint
	w = s.request("GET", "/api/v1/library/liked", s.user.ID, nil)
	s.Equal(http.StatusOK, w.Code)
	flat := s.decode(w)
	s.Equal(stats["total_liked"], flat["total_count"])
	s.Len(flat["podcasts"].([]interface{}), 2)
}

func (s *HandlersTestSuite) TestLibraryIsPerUser() {
	podcast := s.createPodcast("First", 600)
	s.request("POST", "/api/v1/podcasts/"+podcast.ID+"/like", s.user.ID, nil)

	w := s.request("GET", "/api/v1/library", s.other.ID, nil)
	s.Equal(http.StatusOK, w.Code)
	data := s.decode(w)["data"].(map[string]interface{})
	stats := data["statistics"].(map[string]interface{})
	s.Equal(float64(0), stats["total_liked"])
	s.Len(data["liked_songs"].([]interface{}), 0)
}

func (s *HandlersTestSuite) TestMostPlayedGlobalRanking() {
	quiet := s.createPodcast("Quiet", 600)
	popular := s.createPodcast("Popular", 600)

	s.request("POST", "/api/v1/podcasts/"+quiet.ID+"/play", s.user.ID, gin.H{"progress": 10})
	for i := 0; i < 3; i++ {
		s.request("POST", "/api/v1/podcasts/"+popular.ID+"/play", s.other.ID, gin.H{"progress": 10})
	}

	w := s.request("GET", "/api/v1/library/most-played", s.user.ID, nil)
	s.Equal(http.StatusOK, w.Code)
	podcasts := s.decode(w)["podcasts"].([]interface{})
	s.Require().Len(podcasts, 2)

	top := podcasts[0].(map[string]interface{})
	s.Equal("Popular", top["title"])
	s.Equal(float64(3), top["play_count"])
}

func (s *HandlersTestSuite) TestRecentlyPlayedOrder() {
	older := s.createPodcast("Older", 600)
	newer := s.createPodcast("Newer", 600)

	s.request("POST", "/api/v1/podcasts/"+older.ID+"/play", s.user.ID, gin.H{"progress": 10})
	s.request("POST", "/api/v1/podcasts/"+newer.ID+"/play", s.user.ID, gin.H{"progress": 20})

	w := s.request("GET", "/api/v1/library/recently-played", s.user.ID, nil)
	s.Equal(http.StatusOK, w.Code)
	podcasts := s.decode(w)["podcasts"].([]interface{})
	s.Require().Len(podcasts, 2)
	s.Equal("Newer", podcasts[0].(map[string]interface{})["title"])
}

func (s *HandlersTestSuite) TestPlaylistLifecycle() {
	podcast := s.createPodcast("Go Time", 600)

	w := s.request("POST", "/api/v1/playlists", s.user.ID, gin.H{"name": "Commute"})
	s.Equal(http.StatusCreated, w.Code)
	playlist := s.decode(w)["playlist"].(map[string]interface{})
	playlistID := playlist["id"].(string)

	w = s.request("POST", "/api/v1/playlists/"+playlistID+"/items", s.user.ID, gin.H{"podcast_id": podcast.ID})
	s.Equal(http.StatusCreated, w.Code)

	w = s.request("POST", "/api/v1/playlists/"+playlistID+"/items", s.user.ID, gin.H{"podcast_id": podcast.ID})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal(true, s.decode(w)["in_playlist"])

	w = s.request("GET", "/api/v1/playlists/"+playlistID, s.user.ID, nil)
	s.Equal(http.StatusOK, w.Code)
	fetched := s.decode(w)["playlist"].(map[string]interface{})
	s.Len(fetched["items"].([]interface{}), 1)

	// Another user cannot see it
	w = s.request("GET", "/api/v1/playlists/"+playlistID, s.other.ID, nil)
	s.Equal(http.StatusNotFound, w.Code)

	w = s.request("DELETE", "/api/v1/playlists/"+playlistID+"/items/"+podcast.ID, s.user.ID, nil)
	s.Equal(http.StatusOK, w.Code)

	w = s.request("DELETE", "/api/v1/playlists/"+playlistID, s.user.ID, nil)
	s.Equal(http.StatusOK, w.Code)

	w = s.request("GET", "/api/v1/playlists/"+playlistID, s.user.ID, nil)
	s.Equal(http.StatusNotFound, w.Code)
}
