package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/muthuvel01/goldpledge/internal/auth"
	"github.com/muthuvel01/goldpledge/internal/config"
)

func protectedRouter(t *testing.T) (*gin.Engine, *auth.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	manager := auth.NewManager(config.AuthConfig{
		SigningSecret:    "unit-test-signing-secret",
		OperatorEmail:    "operator@example.com",
		OperatorPassHash: string(hash),
		SessionTTL:       time.Hour,
	})

	r := gin.New()
	r.GET("/protected", RequireSession(manager), func(c *gin.Context) {
		session := c.MustGet(SessionKey).(*auth.Session)
		c.JSON(http.StatusOK, gin.H{"email": session.Email})
	})
	return r, manager
}

func TestRequireSessionAcceptsValidToken(t *testing.T) {
	r, manager := protectedRouter(t)

	_, token, err := manager.Login("operator@example.com", "s3cret")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "operator@example.com")
}

func TestRequireSessionRejectsMissingHeader(t *testing.T) {
	r, _ := protectedRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireSessionRejectsMalformedHeader(t *testing.T) {
	r, manager := protectedRouter(t)

	_, token, err := manager.Login("operator@example.com", "s3cret")
	require.NoError(t, err)

	// Token without the Bearer prefix is treated as absent.
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireSessionRejectsGarbageToken(t *testing.T) {
	r, _ := protectedRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
