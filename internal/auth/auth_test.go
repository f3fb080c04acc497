package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	InitJWT("test-secret")
}

func TestGenerateAndValidateToken(t *testing.T) {
	id := uuid.New()

	token, err := GenerateToken(id, "mia@checkmate.test", true)
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)

	got, err := claims.ReviewerID()
	require.NoError(t, err)
	assert.Equal(t, id, got)
	assert.Equal(t, "mia@checkmate.test", claims.Email)
	assert.True(t, claims.IsAdmin)
}

func TestValidateTokenRejectsForeignSignature(t *testing.T) {
	token, err := GenerateToken(uuid.New(), "nina@checkmate.test", false)
	require.NoError(t, err)

	InitJWT("another-secret")
	defer InitJWT("test-secret")

	_, err = ValidateToken(token)
	assert.Error(t, err)
}

func newRouter() *gin.Engine {
	r := gin.New()
	r.GET("/me", AuthMiddleware(zerolog.Nop()), func(c *gin.Context) {
		id, ok := GetReviewerID(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, id.String())
	})
	r.GET("/admin", AuthMiddleware(zerolog.Nop()), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter()
	id := uuid.New()
	reviewerToken, err := GenerateToken(id, "omar@checkmate.test", false)
	require.NoError(t, err)
	adminToken, err := GenerateToken(uuid.New(), "root@checkmate.test", true)
	require.NoError(t, err)

	tests := []struct {
		name   string
		path   string
		header string
		status int
	}{
		{"missing header", "/me", "", http.StatusUnauthorized},
		{"wrong scheme", "/me", "Basic " + reviewerToken, http.StatusUnauthorized},
		{"garbage token", "/me", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"valid token", "/me", "Bearer " + reviewerToken, http.StatusOK},
		{"reviewer on admin route", "/admin", "Bearer " + reviewerToken, http.StatusForbidden},
		{"admin on admin route", "/admin", "Bearer " + adminToken, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, id.String(), w.Body.String())
			}
		})
	}
}
