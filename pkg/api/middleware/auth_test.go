package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"readstash-go/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"
	"github.com/google/uuid"
)

type fakeUserStore struct {
	user *models.User
}

func (f *fakeUserStore) GetUserByAPIKey(ctx context.Context, apiKey string) (*models.User, error) {
	if f.user != nil && f.user.APIKey == apiKey {
		return f.user, nil
	}
	return nil, errors.New("not found")
}

func newAuthRouter(store UserStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", RequireAuth(store), func(c *gin.Context) {
		userID := c.MustGet("userID").(uuid.UUID)
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})
	return r
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	r := newAuthRouter(&fakeUserStore{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, w.Code, http.StatusUnauthorized)
}

func TestRequireAuth_InvalidKey(t *testing.T) {
	r := newAuthRouter(&fakeUserStore{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	r.ServeHTTP(w, req)

	assert.Equal(t, w.Code, http.StatusUnauthorized)
}

func TestRequireAuth_ValidKeySetsUser(t *testing.T) {
	user := &models.User{ID: uuid.New(), Email: "a@b.test", APIKey: "secret"}
	r := newAuthRouter(&fakeUserStore{user: user})

	for _, header := range []string{"Bearer secret", "secret"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", header)
		r.ServeHTTP(w, req)

		assert.Equal(t, w.Code, http.StatusOK)
	}
}
