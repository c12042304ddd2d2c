package handlers

import (
	"net/http"
	"net/http/httptest"
)

func (s *HandlersTestSuite) registerUser(email, username string) map[string]interface{} {
	w := s.request("POST", "/api/v1/auth/register", "", map[string]string{
		"email":        email,
		"username":     username,
		"password":     "supersecret",
		"display_name": "Test User",
	})
	s.Require().Equal(http.StatusCreated, w.Code)
	return s.decode(w)
}

func (s *HandlersTestSuite) TestRegisterLoginMe() {
	created := s.registerUser("carol@example.com", "carol")
	s.NotEmpty(created["token"])

	w := s.request("POST", "/api/v1/auth/login", "", map[string]string{
		"email":    "carol@example.com",
		"password": "supersecret",
	})
	s.Equal(http.StatusOK, w.Code)
	token := s.decode(w)["token"].(string)

	req := httptest.NewRequest("GET", "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	s.Equal(http.StatusOK, rec.Code)

	user := s.decode(rec)["user"].(map[string]interface{})
	s.Equal("carol", user["username"])
	s.Nil(user["password_hash"], "hash must not be serialized")
}

func (s *HandlersTestSuite) TestRegisterDuplicateEmailReturnsConflict() {
	s.registerUser("carol@example.com", "carol")

	w := s.request("POST", "/api/v1/auth/register", "", map[string]string{
		"email":        "carol@example.com",
		"username":     "carol2",
		"password":     "supersecret",
		"display_name": "Carol Again",
	})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("CONFLICT", s.decode(w)["code"])
}

func (s *HandlersTestSuite) TestLoginBadPassword() {
	s.registerUser("carol@example.com", "carol")

	w := s.request("POST", "/api/v1/auth/login", "", map[string]string{
		"email":    "carol@example.com",
		"password": "wrongpassword",
	})
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *HandlersTestSuite) TestMeRequiresToken() {
	req := httptest.NewRequest("GET", "/api/v1/auth/me", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	s.Equal(http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest("GET", "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	s.Equal(http.StatusUnauthorized, rec.Code)
}
