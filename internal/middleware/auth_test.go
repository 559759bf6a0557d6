package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lesdavils/MedimexResolv/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-test-secret"

func signToken(t *testing.T, tokenType, role string, ttl time.Duration) string {
	t.Helper()
	claims := JWTClaims{
		UserID:    uuid.NewString(),
		Username:  "jmartin",
		Role:      role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func protectedEngine(roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	grp := r.Group("/", JWTAuth(testSecret))
	if len(roles) > 0 {
		grp.Use(RequireRole(roles...))
	}
	grp.GET("/ping", func(c *gin.Context) {
		claims := GetClaims(c)
		c.JSON(http.StatusOK, gin.H{"role": claims.Role})
	})
	return r
}

func get(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthValidToken(t *testing.T) {
	r := protectedEngine()
	w := get(r, signToken(t, "access", model.RoleTechnician, time.Hour))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), model.RoleTechnician)
}

func TestJWTAuthMissingHeader(t *testing.T) {
	r := protectedEngine()
	w := get(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthExpiredToken(t *testing.T) {
	r := protectedEngine()
	w := get(r, signToken(t, "access", model.RoleTechnician, -time.Minute))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthWrongSecret(t *testing.T) {
	claims := JWTClaims{TokenType: "access", RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
	require.NoError(t, err)

	r := protectedEngine()
	w := get(r, signed)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthRejectsRefreshToken(t *testing.T) {
	// A refresh token is valid JWT but must not open protected routes.
	r := protectedEngine()
	w := get(r, signToken(t, "refresh", model.RoleAdmin, time.Hour))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	r := protectedEngine(model.RoleAdmin, model.RoleSupervisor)

	w := get(r, signToken(t, "access", model.RoleSupervisor, time.Hour))
	assert.Equal(t, http.StatusOK, w.Code)

	w = get(r, signToken(t, "access", model.RoleTechnician, time.Hour))
	assert.Equal(t, http.StatusForbidden, w.Code)
}
