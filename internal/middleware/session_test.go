package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"menushot/internal/auth"

	"github.com/gin-gonic/gin"
)

func newSessionRouter(tokens *auth.TokenManager) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/sessions/:session_id/dishes", SessionAuth(tokens), func(c *gin.Context) {
		sid, _ := c.Get("sessionID")
		c.JSON(http.StatusOK, gin.H{"session_id": sid})
	})
	return router
}

func doRequest(router *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSessionAuth_MissingAuthHeader(t *testing.T) {
	router := newSessionRouter(auth.NewTokenManager("test-secret", time.Hour))

	w := doRequest(router, "/sessions/s1/dishes", "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestSessionAuth_InvalidAuthFormat(t *testing.T) {
	router := newSessionRouter(auth.NewTokenManager("test-secret", time.Hour))

	w := doRequest(router, "/sessions/s1/dishes", "InvalidFormat")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestSessionAuth_InvalidToken(t *testing.T) {
	router := newSessionRouter(auth.NewTokenManager("test-secret", time.Hour))

	w := doRequest(router, "/sessions/s1/dishes", "Bearer invalid_token_xyz")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestSessionAuth_OtherSession(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	token, err := tokens.GenerateToken("s1")
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}

	w := doRequest(newSessionRouter(tokens), "/sessions/s2/dishes", "Bearer "+token)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected status %d, got %d", http.StatusForbidden, w.Code)
	}
}

func TestSessionAuth_ValidToken(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	token, err := tokens.GenerateToken("s1")
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}

	w := doRequest(newSessionRouter(tokens), "/sessions/s1/dishes", "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestSessionAuth_Disabled(t *testing.T) {
	router := newSessionRouter(auth.NewTokenManager("", time.Hour))

	w := doRequest(router, "/sessions/s1/dishes", "")
	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
}
