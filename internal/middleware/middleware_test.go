package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"engraced_transport/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testUser(role models.UserRole) *models.User {
	u := &models.User{Email: "ada@x.com", Role: role}
	u.ID = "6f1c2b8e-3a4d-4c5e-9f60-7a8b9c0d1e2f"
	return u
}

func TestIssueAndParse(t *testing.T) {
	j := NewJWT("secret", time.Hour)

	token, err := j.Issue(testUser(models.RoleManager))
	require.NoError(t, err)

	claims, err := j.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "6f1c2b8e-3a4d-4c5e-9f60-7a8b9c0d1e2f", claims.Subject)
	assert.Equal(t, "ada@x.com", claims.Email)
	assert.Equal(t, "manager", claims.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestParseRejectsBadTokens(t *testing.T) {
	j := NewJWT("secret", time.Hour)

	other, err := NewJWT("other", time.Hour).Issue(testUser(models.RoleAdmin))
	require.NoError(t, err)
	_, err = j.Parse(other)
	assert.Error(t, err, "wrong signature")

	expired := NewJWT("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := expired.Issue(testUser(models.RoleAdmin))
	require.NoError(t, err)
	_, err = j.Parse(old)
	assert.Error(t, err, "expired")

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Role: "admin", RegisteredClaims: jwt.RegisteredClaims{Subject: "x"}})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = j.Parse(unsigned)
	assert.Error(t, err, "alg none")
}

func newRouter(j *JWT, roles ...models.UserRole) *gin.Engine {
	r := gin.New()
	handlers := []gin.HandlerFunc{RequireAuth(j)}
	if len(roles) > 0 {
		handlers = append(handlers, RequireRoles(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		id, role := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "role": role})
	})
	r.GET("/private", handlers...)
	return r
}

func request(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	j := NewJWT("secret", time.Hour)
	r := newRouter(j)

	assert.Equal(t, http.StatusUnauthorized, request(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, request(r, "garbage").Code)

	token, err := j.Issue(testUser(models.RolePassenger))
	require.NoError(t, err)
	w := request(r, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"passenger"`)
}

func TestRequireRoles(t *testing.T) {
	j := NewJWT("secret", time.Hour)
	r := newRouter(j, models.RoleAdmin, models.RoleManager)

	passenger, err := j.Issue(testUser(models.RolePassenger))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, request(r, passenger).Code)

	manager, err := j.Issue(testUser(models.RoleManager))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, request(r, manager).Code)
}

func TestEnableCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	h := EnableCORS([]string{"https://engraced.com"}, next)

	req := httptest.NewRequest(http.MethodOptions, "/bookings", nil)
	req.Header.Set("Origin", "https://engraced.com")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://engraced.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	req = httptest.NewRequest(http.MethodGet, "/bookings", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
