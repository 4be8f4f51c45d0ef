package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	clientRepo "homefix/database/repository/client"
	"homefix/services/api"
	"homefix/services/user"
	"homefix/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cookieName = "hf_client"

func setupRouter(t *testing.T, authenticated bool) (*gin.Engine, *clientRepo.MemoryClientStorage) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !authenticated || r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]interface{}{"success": false})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"user":    map[string]string{"_id": "u1", "name": "Jane Doe", "email": "jane@x.com"},
		})
	}))
	t.Cleanup(backend.Close)

	client, err := api.NewClient(backend.URL, time.Second, nil)
	require.NoError(t, err)
	storage := clientRepo.NewMemoryClientStorage()
	sessions := &user.DefaultSessionService{Storage: storage, API: client}

	r := gin.New()
	r.Use(ClientSession(sessions, CookieOptions{Name: cookieName, MaxAge: time.Hour}))
	ok := func(c *gin.Context) {
		c.String(http.StatusOK, "degraded=%v", c.GetBool(utils.ContextDegraded))
	}
	r.GET("/home", RequireSession(PolicyPublic), ok)
	r.GET("/dashboard", RequireSession(PolicyDegrade), ok)
	r.GET("/chat", RequireSession(PolicyRedirectToLogin), ok)
	r.POST("/bookings", RequireSession(PolicyRedirectToLogin), ok)
	r.GET("/api/private", RequireSession(PolicyRedirectToLogin), ok)
	r.GET("/login", RequireSession(PolicyRedirectIfAuthenticated), ok)
	return r, storage
}

func withClient(req *http.Request, id string) *http.Request {
	req.AddCookie(&http.Cookie{Name: cookieName, Value: id})
	return req
}

func seed(t *testing.T, storage *clientRepo.MemoryClientStorage, id string) {
	require.NoError(t, storage.SetMany(context.Background(), id, map[string]string{"token": "opaque"}))
}

func TestClientSession_IssuesCookie(t *testing.T) {
	r, _ := setupRouter(t, false)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/home", nil))

	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, cookieName, cookies[0].Name)
	assert.NoError(t, uuid.Validate(cookies[0].Value))
	assert.True(t, cookies[0].HttpOnly)
}

func TestClientSession_KeepsValidCookie(t *testing.T) {
	r, _ := setupRouter(t, false)
	id := uuid.NewString()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, withClient(httptest.NewRequest(http.MethodGet, "/home", nil), id))
	assert.Empty(t, w.Result().Cookies())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, withClient(httptest.NewRequest(http.MethodGet, "/home", nil), "not-a-uuid"))
	assert.Len(t, w.Result().Cookies(), 1)
}

func TestRequireSession_Degrade(t *testing.T) {
	r, storage := setupRouter(t, true)
	id := uuid.NewString()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, withClient(httptest.NewRequest(http.MethodGet, "/dashboard", nil), id))
	assert.Equal(t, "degraded=true", w.Body.String())

	seed(t, storage, id)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, withClient(httptest.NewRequest(http.MethodGet, "/dashboard", nil), id))
	assert.Equal(t, "degraded=false", w.Body.String())
}

func TestRequireSession_RedirectToLogin(t *testing.T) {
	r, storage := setupRouter(t, true)
	id := uuid.NewString()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, withClient(httptest.NewRequest(http.MethodGet, "/chat?x=1", nil), id))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login?next=%2Fchat%3Fx%3D1", w.Header().Get("Location"))
	assert.Contains(t, storage.Snapshot(id)["flash"], "Please login to continue")

	seed(t, storage, id)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, withClient(httptest.NewRequest(http.MethodGet, "/chat", nil), id))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireSession_PostFallsBackToReferer(t *testing.T) {
	r, _ := setupRouter(t, true)

	req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader("name=x"))
	req.Header.Set("Referer", "http://example.com/services/booking")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, withClient(req, uuid.NewString()))
	assert.Equal(t, "/login?next=%2Fservices%2Fbooking", w.Header().Get("Location"))

	req = httptest.NewRequest(http.MethodPost, "/bookings", nil)
	req.Header.Set("Referer", "http://evil.test/phish")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, withClient(req, uuid.NewString()))
	assert.Equal(t, "/login?next=%2Fdashboard", w.Header().Get("Location"))
}

func TestRequireSession_JSONGets401(t *testing.T) {
	r, _ := setupRouter(t, true)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, withClient(httptest.NewRequest(http.MethodGet, "/api/private", nil), uuid.NewString()))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Please login to continue")
}

func TestRequireSession_RedirectIfAuthenticated(t *testing.T) {
	r, storage := setupRouter(t, true)
	id := uuid.NewString()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, withClient(httptest.NewRequest(http.MethodGet, "/login", nil), id))
	assert.Equal(t, http.StatusOK, w.Code)

	seed(t, storage, id)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, withClient(httptest.NewRequest(http.MethodGet, "/login", nil), id))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
}

func TestSafeNext(t *testing.T) {
	assert.True(t, SafeNext("/bookings?filter=all"))
	assert.False(t, SafeNext("//evil.test"))
	assert.False(t, SafeNext("https://evil.test"))
	assert.False(t, SafeNext(`/\evil.test`))
	assert.False(t, SafeNext("/\t/evil.test"))
	assert.False(t, SafeNext("/\n/evil.test"))
	assert.False(t, SafeNext("/\r/evil.test"))
	assert.False(t, SafeNext("/bookings\x00"))
	assert.False(t, SafeNext("/\x7f/evil.test"))
	assert.Equal(t, "/login", LoginURL("/\t/evil.test"))
	assert.Equal(t, "/login", LoginURL("https://evil.test"))
}
