package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gharseva/models"
	"gharseva/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protectedRouter(extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{JWTAuth()}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userId": CallerID(c),
			"role":   CallerRole(c),
		})
	})
	r.GET("/protected", handlers...)
	return r
}

func doRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	token, err := utils.GenerateToken("user-1", models.RoleResident, time.Minute)
	require.NoError(t, err)

	w := doRequest(protectedRouter(), "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-1")
	assert.Contains(t, w.Body.String(), models.RoleResident)
}

func TestJWTAuthRejectsMissingHeader(t *testing.T) {
	w := doRequest(protectedRouter(), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthRejectsMalformedHeader(t *testing.T) {
	w := doRequest(protectedRouter(), "Token abc")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthRejectsExpiredToken(t *testing.T) {
	token, err := utils.GenerateToken("user-1", models.RoleResident, -time.Minute)
	require.NoError(t, err)

	w := doRequest(protectedRouter(), "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	adminOnly := protectedRouter(RequireRole(models.RoleAdmin))

	adminToken, err := utils.GenerateToken("admin-1", models.RoleAdmin, time.Minute)
	require.NoError(t, err)
	w := doRequest(adminOnly, "Bearer "+adminToken)
	assert.Equal(t, http.StatusOK, w.Code)

	residentToken, err := utils.GenerateToken("user-1", models.RoleResident, time.Minute)
	require.NoError(t, err)
	w = doRequest(adminOnly, "Bearer "+residentToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRoleAllowsAnyListedRole(t *testing.T) {
	staff := protectedRouter(RequireRole(models.RoleSevak, models.RoleAdmin))

	sevakToken, err := utils.GenerateToken("sevak-1", models.RoleSevak, time.Minute)
	require.NoError(t, err)
	w := doRequest(staff, "Bearer "+sevakToken)
	assert.Equal(t, http.StatusOK, w.Code)
}
