package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AgusMolinaCode/usuarios-api/internal/models"
	"github.com/AgusMolinaCode/usuarios-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", bearerToken("Bearer abc"))
	assert.Equal(t, "abc", bearerToken("bearer   abc"))
	assert.Equal(t, "", bearerToken("Bearer"))
	assert.Equal(t, "", bearerToken("Basic abc"))
	assert.Equal(t, "", bearerToken("abc"))
	assert.Equal(t, "", bearerToken(""))
}

func TestAuthMiddleware_SetsIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	creds := services.NewCredentials([]byte("k"), time.Hour, bcrypt.MinCost)

	tok, err := creds.IssueToken(&models.User{ID: 5, Email: "ana@x.com"})
	require.NoError(t, err)

	r := gin.New()
	r.GET("/me", AuthMiddleware(creds), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.GetUint(ctxUserID), "email": c.GetString(ctxUserEmail)})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":5,"email":"ana@x.com"}`, w.Body.String())
}

func TestAuthMiddleware_HeaderWithoutToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	creds := services.NewCredentials([]byte("k"), time.Hour, bcrypt.MinCost)

	r := gin.New()
	r.GET("/me", AuthMiddleware(creds), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
