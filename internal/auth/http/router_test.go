package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	httpapi "github.com/ticketloft/auth/internal/auth/http"
	"github.com/ticketloft/auth/internal/auth/service"
	"github.com/ticketloft/auth/internal/auth/store/drivers/sqlite"
	"github.com/ticketloft/auth/pkg/clock"
	"github.com/ticketloft/auth/pkg/cryptox"
	"github.com/ticketloft/auth/pkg/jwtx"
)

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) {
	return "plain:" + password, nil
}

func (plainHasher) Verify(password, storedHash string) error {
	if storedHash != "plain:"+password {
		return cryptox.ErrMismatch
	}
	return nil
}

type apiFixture struct {
	router *httpapi.Router
	clk    *clock.Fixed
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	clk := clock.NewFixed(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	codec, err := jwtx.NewCodec(jwtx.Config{
		Secret: []byte("0123456789abcdef0123456789abcdef"),
		Issuer: "auth-service",
	}, clk)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := httpapi.NewRouter("auth-service", "test", st, logger)
	router.SessionService = &service.SessionService{
		Codec:      codec,
		Store:      st,
		Passwords:  plainHasher{},
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 30 * 24 * time.Hour,
	}
	router.ApplyRoutes()

	return &apiFixture{router: router, clk: clk}
}

// do runs a request through the full router, middleware included, and
// decodes the JSON response body into out when out is non-nil.
func (f *apiFixture) do(t *testing.T, method, path, bearer string, body, out any) *httptest.ResponseRecorder {
	t.Helper()

	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, buf)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	if out != nil && rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec
}

func (f *apiFixture) login(t *testing.T, email, password string) httpapi.TokenResponse {
	t.Helper()

	var tokens httpapi.TokenResponse
	rec := f.do(t, http.MethodPost, "/v1/auth/login", "",
		map[string]string{"email": email, "password": password}, &tokens)
	require.Equal(t, http.StatusOK, rec.Code)
	return tokens
}

func TestRegisterEndpoint(t *testing.T) {
	f := newAPIFixture(t)

	t.Run("creates an account", func(t *testing.T) {
		var user httpapi.UserResponse
		rec := f.do(t, http.MethodPost, "/v1/auth/register", "", map[string]string{
			"email":     "alice@example.com",
			"password":  "hunter2",
			"full_name": "Alice Example",
		}, &user)

		require.Equal(t, http.StatusCreated, rec.Code)
		require.NotZero(t, user.ID)
		require.Equal(t, "alice@example.com", user.Email)
		require.Equal(t, "Alice Example", user.FullName)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		var errResp httpapi.ErrorResponse
		rec := f.do(t, http.MethodPost, "/v1/auth/register", "", map[string]string{
			"email":    "alice@example.com",
			"password": "other",
		}, &errResp)

		require.Equal(t, http.StatusConflict, rec.Code)
		require.Equal(t, "duplicate_identity", errResp.Error)
	})

	t.Run("missing password rejected", func(t *testing.T) {
		var errResp httpapi.ErrorResponse
		rec := f.do(t, http.MethodPost, "/v1/auth/register", "", map[string]string{
			"email": "bob@example.com",
		}, &errResp)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "missing_credential", errResp.Error)
	})

	t.Run("malformed body rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/register", bytes.NewReader([]byte("{")))
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLoginEndpoint(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"email":    "alice@example.com",
		"password": "hunter2",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	t.Run("returns a token pair", func(t *testing.T) {
		var tokens httpapi.TokenResponse
		rec := f.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{
			"email":    "alice@example.com",
			"password": "hunter2",
		}, &tokens)

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotEmpty(t, tokens.AccessToken)
		require.NotEmpty(t, tokens.RefreshToken)
		require.Equal(t, "bearer", tokens.TokenType)
		require.Equal(t, 900, tokens.ExpiresIn)

		require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	})

	t.Run("wrong password and unknown email respond identically", func(t *testing.T) {
		var wrongPw, unknown httpapi.ErrorResponse

		recWrong := f.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{
			"email":    "alice@example.com",
			"password": "wrong",
		}, &wrongPw)
		recUnknown := f.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{
			"email":    "nobody@example.com",
			"password": "hunter2",
		}, &unknown)

		require.Equal(t, http.StatusUnauthorized, recWrong.Code)
		require.Equal(t, http.StatusUnauthorized, recUnknown.Code)
		require.Equal(t, wrongPw, unknown)
	})
}

func TestRefreshEndpoint(t *testing.T) {
	f := newAPIFixture(t)

	f.do(t, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"email":    "alice@example.com",
		"password": "hunter2",
	}, nil)
	tokens := f.login(t, "alice@example.com", "hunter2")

	t.Run("issues a fresh access token", func(t *testing.T) {
		var fresh httpapi.TokenResponse
		rec := f.do(t, http.MethodPost, "/v1/auth/refresh", "",
			map[string]string{"refresh_token": tokens.RefreshToken}, &fresh)

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotEmpty(t, fresh.AccessToken)
		require.Empty(t, fresh.RefreshToken)
		require.Equal(t, 900, fresh.ExpiresIn)
	})

	t.Run("access token is the wrong kind", func(t *testing.T) {
		var errResp httpapi.ErrorResponse
		rec := f.do(t, http.MethodPost, "/v1/auth/refresh", "",
			map[string]string{"refresh_token": tokens.AccessToken}, &errResp)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "wrong_token_kind", errResp.Error)
	})

	t.Run("expired refresh token", func(t *testing.T) {
		f.clk.Advance(31 * 24 * time.Hour)
		defer f.clk.Advance(-31 * 24 * time.Hour)

		var errResp httpapi.ErrorResponse
		rec := f.do(t, http.MethodPost, "/v1/auth/refresh", "",
			map[string]string{"refresh_token": tokens.RefreshToken}, &errResp)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "token_expired", errResp.Error)
	})
}

func TestMeEndpoint(t *testing.T) {
	f := newAPIFixture(t)

	f.do(t, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"email":     "alice@example.com",
		"password":  "hunter2",
		"full_name": "Alice Example",
	}, nil)
	tokens := f.login(t, "alice@example.com", "hunter2")

	t.Run("returns the profile", func(t *testing.T) {
		var user httpapi.UserResponse
		rec := f.do(t, http.MethodGet, "/v1/auth/me", tokens.AccessToken, nil, &user)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "alice@example.com", user.Email)
		require.Equal(t, "Alice Example", user.FullName)
	})

	t.Run("missing token", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/v1/auth/me", "", nil, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")
	})

	t.Run("refresh token rejected", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/v1/auth/me", tokens.RefreshToken, nil, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestLogoutEndpoint(t *testing.T) {
	f := newAPIFixture(t)

	f.do(t, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"email":    "alice@example.com",
		"password": "hunter2",
	}, nil)
	tokens := f.login(t, "alice@example.com", "hunter2")

	rec := f.do(t, http.MethodPost, "/v1/auth/logout", tokens.AccessToken, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	t.Run("revoked token no longer authenticates", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/v1/auth/me", tokens.AccessToken, nil, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("second logout reports the revocation", func(t *testing.T) {
		var errResp httpapi.ErrorResponse
		rec := f.do(t, http.MethodPost, "/v1/auth/logout", tokens.AccessToken, nil, &errResp)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "token_revoked", errResp.Error)
	})

	t.Run("missing token", func(t *testing.T) {
		var errResp httpapi.ErrorResponse
		rec := f.do(t, http.MethodPost, "/v1/auth/logout", "", nil, &errResp)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "invalid_token", errResp.Error)
	})
}

func TestChangePasswordEndpoint(t *testing.T) {
	f := newAPIFixture(t)

	f.do(t, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"email":    "alice@example.com",
		"password": "hunter2",
	}, nil)
	tokens := f.login(t, "alice@example.com", "hunter2")

	t.Run("wrong old password", func(t *testing.T) {
		var errResp httpapi.ErrorResponse
		rec := f.do(t, http.MethodPost, "/v1/auth/change-password", tokens.AccessToken,
			map[string]string{"old_password": "wrong", "new_password": "correct horse"}, &errResp)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "invalid_credentials", errResp.Error)
	})

	t.Run("success rotates the credential", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/v1/auth/change-password", tokens.AccessToken,
			map[string]string{"old_password": "hunter2", "new_password": "correct horse"}, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var errResp httpapi.ErrorResponse
		recOld := f.do(t, http.MethodPost, "/v1/auth/login", "",
			map[string]string{"email": "alice@example.com", "password": "hunter2"}, &errResp)
		require.Equal(t, http.StatusUnauthorized, recOld.Code)

		f.login(t, "alice@example.com", "correct horse")
	})
}

func TestHealthEndpoints(t *testing.T) {
	f := newAPIFixture(t)

	t.Run("livez", func(t *testing.T) {
		var health httpapi.HealthResponse
		rec := f.do(t, http.MethodGet, "/livez", "", nil, &health)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "ok", health.Status)
		require.Equal(t, "test", health.Version)
	})

	t.Run("readyz", func(t *testing.T) {
		var health httpapi.HealthResponse
		rec := f.do(t, http.MethodGet, "/readyz", "", nil, &health)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "ok", health.Status)
		require.NotNil(t, health.Checks)
		require.Equal(t, "ok", health.Checks.Database)
	})
}
