package handlers

import (
	"net/http"

	"github.com/ArunDev-07/apple-podcast-backend/internal/database"
	"github.com/ArunDev-07/apple-podcast-backend/internal/models"
	"github.com/gin-gonic/gin"
)

func (s *HandlersTestSuite) TestCreatePodcastRequiresAdmin() {
	payload := gin.H{
		"title":     "New Show",
		"audio_url": "https://cdn.example.com/new.mp3",
		"duration":  1200,
	}

	w := s.request("POST", "/api/v1/podcasts", s.user.ID, payload)
	s.Equal(http.StatusForbidden, w.Code)

	w = s.request("POST", "/api/v1/podcasts", s.admin.ID, payload)
	s.Equal(http.StatusCreated, w.Code)
	created := s.decode(w)["podcast"].(map[string]interface{})
	s.Equal("New Show", created["title"])
	s.Equal(float64(0), created["play_count"])
}

func (s *HandlersTestSuite) TestListPodcastsWithCategoryFilter() {
	s.createPodcast("Tech One", 600)
	s.createPodcast("Tech Two", 600)
	comedy := models.Podcast{
		Title:       "Laughs",
		Category:    "Comedy",
		AudioURL:    "https://cdn.example.com/laughs.mp3",
		Duration:    900,
		CreatedByID: s.admin.ID,
	}
	s.Require().NoError(database.DB.Create(&comedy).Error)

	w := s.request("GET", "/api/v1/podcasts?category=Comedy", "", nil)
	s.Equal(http.StatusOK, w.Code)
	body := s.decode(w)
	s.Equal(float64(1), body["total_count"])
	s.Len(body["podcasts"].([]interface{}), 1)

	w = s.request("GET", "/api/v1/podcasts", "", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal(float64(3), s.decode(w)["total_count"])
}

func (s *HandlersTestSuite) TestListPodcastsPagination() {
	for i := 0; i < 5; i++ {
		s.createPodcast("Show", 600)
	}

	w := s.request("GET", "/api/v1/podcasts?limit=2&offset=0", "", nil)
	s.Equal(http.StatusOK, w.Code)
	body := s.decode(w)
	s.Len(body["podcasts"].([]interface{}), 2)
	s.Equal(float64(5), body["total_count"])
	s.Equal(true, body["has_more"])

	w = s.request("GET", "/api/v1/podcasts?limit=2&offset=4", "", nil)
	body = s.decode(w)
	s.Len(body["podcasts"].([]interface{}), 1)
	s.Equal(false, body["has_more"])
}

func (s *HandlersTestSuite) TestGetPodcastWithEpisodes() {
	podcast := s.createPodcast("Serial", 600)
	for pos := 1; pos <= 3; pos++ {
		episode := models.Episode{
			PodcastID: podcast.ID,
			Title:     "Episode",
			AudioURL:  "https://cdn.example.com/ep.mp3",
			Duration:  1800,
			Position:  pos,
		}
		s.Require().NoError(database.DB.Create(&episode).Error)
	}

	w := s.request("GET", "/api/v1/podcasts/"+podcast.ID, "", nil)
	s.Equal(http.StatusOK, w.Code)
	fetched := s.decode(w)["podcast"].(map[string]interface{})
	episodes := fetched["episodes"].([]interface{})
	s.Require().Len(episodes, 3)
	s.Equal(float64(1), episodes[0].(map[string]interface{})["position"])
}

func (s *HandlersTestSuite) TestUpdatePodcastPartial() {
	podcast := s.createPodcast("Old Title", 600)

	w := s.request("PUT", "/api/v1/podcasts/"+podcast.ID, s.admin.ID, gin.H{"title": "New Title"})
	s.Equal(http.StatusOK, w.Code)

	var updated models.Podcast
	s.Require().NoError(database.DB.First(&updated, "id = ?", podcast.ID).Error)
	s.Equal("New Title", updated.Title)
	s.Equal(600, updated.Duration)
	s.Equal("Technology", updated.Category)
}

func (s *HandlersTestSuite) TestDeletePodcastCascadesEngagement() {
	podcast := s.createPodcast("Doomed", 600)
	s.request("POST", "/api/v1/podcasts/"+podcast.ID+"/like", s.user.ID, nil)
	s.request("POST", "/api/v1/podcasts/"+podcast.ID+"/bookmark", s.user.ID, nil)
	s.request("POST", "/api/v1/podcasts/"+podcast.ID+"/play", s.user.ID, gin.H{"progress": 10})

	w := s.request("DELETE", "/api/v1/podcasts/"+podcast.ID, s.admin.ID, nil)
	s.Equal(http.StatusOK, w.Code)

	var favorites, bookmarks, history int64
	database.DB.Model(&models.Favorite{}).Where("podcast_id = ?", podcast.ID).Count(&favorites)
	database.DB.Model(&models.Bookmark{}).Where("podcast_id = ?", podcast.ID).Count(&bookmarks)
	database.DB.Model(&models.ListeningHistory{}).Where("podcast_id = ?", podcast.ID).Count(&history)
	s.Equal(int64(0), favorites)
	s.Equal(int64(0), bookmarks)
	s.Equal(int64(0), history)

	w = s.request("GET", "/api/v1/podcasts/"+podcast.ID, "", nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlersTestSuite) TestTrendingExcludesUnplayed() {
	s.createPodcast("Unplayed", 600)
	played := s.createPodcast("Played", 600)
	s.request("POST", "/api/v1/podcasts/"+played.ID+"/play", s.user.ID, gin.H{"progress": 10})

	w := s.request("GET", "/api/v1/podcasts/trending", "", nil)
	s.Equal(http.StatusOK, w.Code)
	podcasts := s.decode(w)["podcasts"].([]interface{})
	s.Require().Len(podcasts, 1)
	s.Equal("Played", podcasts[0].(map[string]interface{})["title"])
}

func (s *HandlersTestSuite) TestEpisodeCreateAppendsPosition() {
	podcast := s.createPodcast("Serial", 600)

	for i := 0; i < 2; i++ {
		w := s.request("POST", "/api/v1/podcasts/"+podcast.ID+"/episodes", s.admin.ID, gin.H{
			"title":     "Episode",
			"audio_url": "https://cdn.example.com/ep.mp3",
		})
		s.Equal(http.StatusCreated, w.Code)
		episode := s.decode(w)["episode"].(map[string]interface{})
		s.Equal(float64(i+1), episode["position"])
	}
}

func (s *HandlersTestSuite) TestDeleteEpisodeNotFound() {
	podcast := s.createPodcast("Serial", 600)
	w := s.request("DELETE", "/api/v1/podcasts/"+podcast.ID+"/episodes/00000000-0000-0000-0000-000000000000", s.admin.ID, nil)
	s.Equal(http.StatusNotFound, w.Code)
}
