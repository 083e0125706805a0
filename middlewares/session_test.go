package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/burger-storefront/utils"
)

func setupSessionRouter(signer *utils.SessionSigner) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Session(signer))
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, SessionID(c))
	})
	return r
}

func TestSession_IssuesAndReusesCookie(t *testing.T) {
	signer := utils.NewSessionSigner("test-secret", time.Hour)
	r := setupSessionRouter(signer)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	require.Equal(t, http.StatusOK, w.Code)
	first := w.Body.String()
	assert.NotEmpty(t, first)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookie, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, first, w.Body.String())
	assert.Empty(t, w.Result().Cookies())

	// bearer header works for API clients
	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+cookies[0].Value)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, first, w.Body.String())
}

func TestSession_ForeignTokenStartsNewSession(t *testing.T) {
	other := utils.NewSessionSigner("other-secret", time.Hour)
	token, err := other.Issue("stolen")
	require.NoError(t, err)

	r := setupSessionRouter(utils.NewSessionSigner("test-secret", time.Hour))
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.NotEqual(t, "stolen", w.Body.String())
	assert.NotEmpty(t, w.Header().Get(SessionHeader))
}
