package httpapi

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avpetrov/authcore/internal/logging"
	"github.com/avpetrov/authcore/internal/server/auth"
	"github.com/avpetrov/authcore/internal/server/config"
	"github.com/avpetrov/authcore/internal/server/repositories/users"
	"github.com/avpetrov/authcore/internal/server/services"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	cfg := &config.Config{
		Addr:               ":0",
		Environment:        "development",
		CORSAllowedOrigins: []string{"http://localhost"},
	}
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	repo := users.NewInMemoryRepository()
	hasher := auth.NewPasswordHasher(4)
	codec := auth.NewCodec([]byte("access-secret"), []byte("refresh-secret"), time.Hour, 24*time.Hour, logger)
	svc := services.NewAuthService(repo, hasher, codec, logger)

	return NewServer(cfg, logger, svc, codec, repo).Handler()
}

func doJSON(t *testing.T, h http.Handler, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func register(t *testing.T, h http.Handler, email, password string) {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/auth/register",
		`{"email":"`+email+`","password":"`+password+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)
}

func login(t *testing.T, h http.Handler, email, password string) []*http.Cookie {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/auth/login",
		`{"email":"`+email+`","password":"`+password+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)
	return cookies
}

func cookieByName(t *testing.T, cookies []*http.Cookie, name string) *http.Cookie {
	t.Helper()
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %q not found", name)
	return nil
}

func TestHealth(t *testing.T) {
	h := newTestServer(t)
	rec := doJSON(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogin_SetsHardenedCookies(t *testing.T) {
	h := newTestServer(t)
	register(t, h, "alice@example.com", "pw123456")

	cookies := login(t, h, "alice@example.com", "pw123456")

	for _, name := range []string{"token", "refreshToken"} {
		c := cookieByName(t, cookies, name)
		assert.NotEmpty(t, c.Value)
		assert.True(t, c.HttpOnly, "%s must be HttpOnly", name)
		assert.Equal(t, http.SameSiteStrictMode, c.SameSite, "%s must be SameSite=Strict", name)
		assert.False(t, c.Secure, "Secure is off in development")
	}
}

func TestLogin_WrongCredentialsAreIndistinguishable(t *testing.T) {
	h := newTestServer(t)
	register(t, h, "alice@example.com", "pw123456")

	unknown := doJSON(t, h, http.MethodPost, "/auth/login",
		`{"email":"ghost@example.com","password":"pw123456"}`)
	wrongPw := doJSON(t, h, http.MethodPost, "/auth/login",
		`{"email":"alice@example.com","password":"wrong-pw"}`)

	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, http.StatusUnauthorized, wrongPw.Code)
	assert.Equal(t, unknown.Body.String(), wrongPw.Body.String(),
		"the 401 body must not reveal which half of the credential failed")
	assert.Empty(t, unknown.Result().Cookies())
}

func TestRegister_Validation(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/auth/register",
		`{"email":"not-an-email","password":"short"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"email"`)
	assert.Contains(t, body, `"password"`)
}

func TestRegister_DuplicateSurfacesAsServerError(t *testing.T) {
	h := newTestServer(t)
	register(t, h, "alice@example.com", "pw123456")

	rec := doJSON(t, h, http.MethodPost, "/auth/register",
		`{"email":"alice@example.com","password":"pw123456"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "exists", "no internal detail in the response")
}

func TestRefresh_RequiresSession(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/auth/refresh", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefresh_RotatesBothCookies(t *testing.T) {
	h := newTestServer(t)
	register(t, h, "alice@example.com", "pw123456")
	cookies := login(t, h, "alice@example.com", "pw123456")

	rec := doJSON(t, h, http.MethodPost, "/auth/refresh", "",
		cookieByName(t, cookies, "token"), cookieByName(t, cookies, "refreshToken"))

	require.Equal(t, http.StatusOK, rec.Code)
	rotated := rec.Result().Cookies()
	require.Len(t, rotated, 2)
	assert.NotEmpty(t, cookieByName(t, rotated, "token").Value)
	assert.NotEmpty(t, cookieByName(t, rotated, "refreshToken").Value)
}

func TestRefresh_GarbageRefreshCookie(t *testing.T) {
	h := newTestServer(t)
	register(t, h, "alice@example.com", "pw123456")
	cookies := login(t, h, "alice@example.com", "pw123456")

	rec := doJSON(t, h, http.MethodPost, "/auth/refresh", "",
		cookieByName(t, cookies, "token"),
		&http.Cookie{Name: "refreshToken", Value: "garbage"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogout_ClearsCookies(t *testing.T) {
	h := newTestServer(t)
	register(t, h, "alice@example.com", "pw123456")
	cookies := login(t, h, "alice@example.com", "pw123456")

	rec := doJSON(t, h, http.MethodPost, "/auth/logout", "",
		cookieByName(t, cookies, "token"))

	require.Equal(t, http.StatusOK, rec.Code)
	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 2)
	for _, c := range cleared {
		assert.Empty(t, c.Value)
		assert.Less(t, c.MaxAge, 0, "cookie %s must be expired", c.Name)
	}
}

func TestLogout_WithoutSession(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/auth/logout", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAttachSession_IgnoresForgedToken(t *testing.T) {
	h := newTestServer(t)
	register(t, h, "alice@example.com", "pw123456")
	cookies := login(t, h, "alice@example.com", "pw123456")

	// A forged access token leaves the request anonymous, so the
	// session-guarded refresh endpoint rejects it.
	rec := doJSON(t, h, http.MethodPost, "/auth/refresh", "",
		&http.Cookie{Name: "token", Value: "forged"},
		cookieByName(t, cookies, "refreshToken"))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
