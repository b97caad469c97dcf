package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	authctrl "github.com/dropDatabas3/gatejohn/internal/http/controllers/auth"
	healthctrl "github.com/dropDatabas3/gatejohn/internal/http/controllers/health"
	"github.com/dropDatabas3/gatejohn/internal/http/helpers"
	authsvc "github.com/dropDatabas3/gatejohn/internal/http/services/auth"
	"github.com/dropDatabas3/gatejohn/internal/identity"
	"github.com/dropDatabas3/gatejohn/internal/rate"
	"github.com/dropDatabas3/gatejohn/internal/store/core"
)

// stubProvider emula el identity provider a nivel de interfaz.
type stubProvider struct {
	users            map[string]string // email -> password
	lastRefreshToken string
	signOutErr       error
}

var errInvalidCreds = errors.New("Invalid login credentials")

func (s *stubProvider) SignUp(_ context.Context, email, password string, _ map[string]any) (*identity.Session, error) {
	if _, ok := s.users[email]; ok {
		return nil, errors.New("User already registered")
	}
	s.users[email] = password
	return &identity.Session{
		AccessToken:  "access-" + email,
		RefreshToken: "refresh-" + email,
		User:         &identity.User{ID: "id-" + email, Email: email},
	}, nil
}

func (s *stubProvider) SignInWithPassword(_ context.Context, email, password string) (*identity.Session, error) {
	if pw, ok := s.users[email]; !ok || pw != password {
		return nil, errInvalidCreds
	}
	return &identity.Session{
		AccessToken:  "access-" + email,
		RefreshToken: "refresh-" + email,
		User:         &identity.User{ID: "id-" + email, Email: email},
	}, nil
}

func (s *stubProvider) RefreshSession(_ context.Context, refreshToken string) (*identity.Session, error) {
	s.lastRefreshToken = refreshToken
	if refreshToken == "" {
		return nil, errInvalidCreds
	}
	return &identity.Session{AccessToken: "access-rotado", RefreshToken: "refresh-rotado",
		User: &identity.User{ID: "id-rotado"}}, nil
}

func (s *stubProvider) GetUser(_ context.Context, accessToken string) (*identity.User, error) {
	for email := range s.users {
		if accessToken == "access-"+email {
			return &identity.User{ID: "id-" + email, Email: email}, nil
		}
	}
	return nil, errors.New("Invalid token")
}

func (s *stubProvider) SignOut(context.Context, string) error { return s.signOutErr }

func (s *stubProvider) ResetPasswordForEmail(_ context.Context, email, _ string) error {
	if _, ok := s.users[email]; !ok {
		// simular provider que chilla por cuentas inexistentes: el
		// handler igual tiene que responder el mensaje genérico
		return errors.New("User not found")
	}
	return nil
}

func (s *stubProvider) VerifyRecoveryToken(context.Context, string) (*identity.Session, error) {
	return &identity.Session{AccessToken: "recovery-session"}, nil
}

func (s *stubProvider) UpdateUserPassword(context.Context, string, string) (*identity.User, error) {
	return nil, nil
}

func (s *stubProvider) AdminDeleteUser(context.Context, string) error { return nil }

type memRepo struct {
	profiles map[string]*core.Profile
}

func (m *memRepo) Create(_ context.Context, p *core.Profile) error {
	cp := *p
	m.profiles[p.ID] = &cp
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*core.Profile, error) {
	if p, ok := m.profiles[id]; ok {
		return p, nil
	}
	return nil, core.ErrNotFound
}

func (m *memRepo) Update(_ context.Context, id string, upd core.ProfileUpdate) (*core.Profile, error) {
	p, ok := m.profiles[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Phone != nil {
		p.Phone = *upd.Phone
	}
	return p, nil
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	delete(m.profiles, id)
	return nil
}

func newTestServer(t *testing.T, loginLimiter rate.Limiter) (*httptest.Server, *stubProvider) {
	t.Helper()

	provider := &stubProvider{users: map[string]string{}}
	repo := &memRepo{profiles: map[string]*core.Profile{}}

	services := authsvc.NewServices(authsvc.Deps{
		Provider:         provider,
		Profiles:         repo,
		ResetRedirectURL: "http://localhost:3000/reset-password",
	})
	controllers := authctrl.NewControllers(authctrl.Deps{
		Services: services,
		Cookies: helpers.CookiePolicy{
			Name:     "refreshToken",
			SameSite: http.SameSiteStrictMode,
			TTL:      7 * 24 * time.Hour,
		},
		Prod: true,
	})

	h := New(Deps{
		Auth:              controllers,
		Health:            healthctrl.NewController(nil, nil),
		Verifier:          provider,
		LoginLimiter:      loginLimiter,
		CORSAllowedOrigin: "http://localhost:3000",
		Prod:              true,
	})

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv, provider
}

func postJSON(t *testing.T, url string, payload any) *http.Response {
	t.Helper()
	b, err := json.Marshal(payload)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	resp, err := http.Get(srv.URL + "/api/health")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	require.Equal(t, "OK", body["status"])
}

func TestRegisterFlow(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	resp := postJSON(t, srv.URL+"/api/auth/register", map[string]string{
		"email": "a@x.com", "password": "longenough1", "name": "A",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decode(t, resp)
	require.Equal(t, true, body["success"])

	data := body["data"].(map[string]any)
	user := data["user"].(map[string]any)
	profile := data["profile"].(map[string]any)
	require.NotEmpty(t, user["id"])
	require.Equal(t, "a@x.com", profile["email"])
}

func TestRegisterMissingFields(t *testing.T) {
	srv, provider := newTestServer(t, nil)

	resp := postJSON(t, srv.URL+"/api/auth/register", map[string]string{
		"email": "a@x.com", "password": "longenough1",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode(t, resp)
	require.Equal(t, false, body["success"])
	require.NotEmpty(t, body["error"])
	// ninguna identidad creada
	require.Empty(t, provider.users)
}

func TestLoginSetsRefreshCookie(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	postJSON(t, srv.URL+"/api/auth/register", map[string]string{
		"email": "a@x.com", "password": "longenough1", "name": "A",
	})

	resp := postJSON(t, srv.URL+"/api/auth/login", map[string]string{
		"email": "a@x.com", "password": "longenough1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var refresh *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "refreshToken" {
			refresh = c
		}
	}
	require.NotNil(t, refresh)
	require.True(t, refresh.HttpOnly)
	require.Equal(t, int((7 * 24 * time.Hour).Seconds()), refresh.MaxAge)

	body := decode(t, resp)
	data := body["data"].(map[string]any)
	require.NotEmpty(t, data["access_token"])
	require.NotEqual(t, refresh.Value, data["access_token"])

	// el perfil viaja anidado dentro de user, no como hermano
	user := data["user"].(map[string]any)
	profile := user["profile"].(map[string]any)
	require.Equal(t, "a@x.com", profile["email"])
	require.NotContains(t, data, "profile")
}

func TestLoginWrongPasswordIs401(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	postJSON(t, srv.URL+"/api/auth/register", map[string]string{
		"email": "a@x.com", "password": "longenough1", "name": "A",
	})

	resp := postJSON(t, srv.URL+"/api/auth/login", map[string]string{
		"email": "a@x.com", "password": "incorrecta",
	})
	// "Invalid login credentials" -> 401 por el clasificador
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decode(t, resp)
	require.Equal(t, "Invalid login credentials", body["error"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	for _, tc := range []struct{ method, path string }{
		{"GET", "/api/auth/me"},
		{"POST", "/api/auth/logout"},
		{"PUT", "/api/auth/update-profile"},
		{"PUT", "/api/auth/update-password"},
	} {
		req, err := http.NewRequest(tc.method, srv.URL+tc.path, bytes.NewReader([]byte(`{}`)))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode, "%s %s", tc.method, tc.path)
		resp.Body.Close()
	}
}

func TestMeWithToken(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	postJSON(t, srv.URL+"/api/auth/register", map[string]string{
		"email": "a@x.com", "password": "longenough1", "name": "A",
	})

	req, _ := http.NewRequest("GET", srv.URL+"/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer access-a@x.com")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	data := body["data"].(map[string]any)
	require.Equal(t, "a@x.com", data["email"])
}

func TestForgotPasswordNonEnumeration(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	postJSON(t, srv.URL+"/api/auth/register", map[string]string{
		"email": "existe@x.com", "password": "longenough1", "name": "A",
	})

	respKnown := postJSON(t, srv.URL+"/api/auth/request-password-reset",
		map[string]string{"email": "existe@x.com"})
	respUnknown := postJSON(t, srv.URL+"/api/auth/request-password-reset",
		map[string]string{"email": "no-existe@x.com"})

	require.Equal(t, http.StatusOK, respKnown.StatusCode)
	require.Equal(t, http.StatusOK, respUnknown.StatusCode)
	require.Equal(t, decode(t, respKnown)["message"], decode(t, respUnknown)["message"])
}

func TestResetPasswordShortIs400(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	resp := postJSON(t, srv.URL+"/api/auth/reset-password", map[string]string{
		"token": "cualquiera", "newPassword": "corta",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateProfile(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	postJSON(t, srv.URL+"/api/auth/register", map[string]string{
		"email": "a@x.com", "password": "longenough1", "name": "A",
	})

	b, _ := json.Marshal(map[string]string{"name": "Nuevo Nombre"})
	req, _ := http.NewRequest("PUT", srv.URL+"/api/auth/update-profile", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer access-a@x.com")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := decode(t, resp)["data"].(map[string]any)
	require.Equal(t, "Nuevo Nombre", data["name"])
}

func TestUpdateProfileNothingToUpdate(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	postJSON(t, srv.URL+"/api/auth/register", map[string]string{
		"email": "a@x.com", "password": "longenough1", "name": "A",
	})

	req, _ := http.NewRequest("PUT", srv.URL+"/api/auth/update-profile", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer access-a@x.com")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdatePasswordWrongCurrentIs401(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	postJSON(t, srv.URL+"/api/auth/register", map[string]string{
		"email": "a@x.com", "password": "longenough1", "name": "A",
	})

	b, _ := json.Marshal(map[string]string{
		"currentPassword": "incorrecta", "newPassword": "otralarga12",
	})
	req, _ := http.NewRequest("PUT", srv.URL+"/api/auth/update-password", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer access-a@x.com")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "Current password is incorrect", decode(t, resp)["error"])

	// login con la contraseña vieja sigue funcionando
	again := postJSON(t, srv.URL+"/api/auth/login", map[string]string{
		"email": "a@x.com", "password": "longenough1",
	})
	require.Equal(t, http.StatusOK, again.StatusCode)
	again.Body.Close()
}

func TestRefreshTokenFromCookie(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	req, _ := http.NewRequest("POST", srv.URL+"/api/auth/refresh-token", nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "refresh-viejo"})
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := decode(t, resp)["data"].(map[string]any)
	require.Equal(t, "access-rotado", data["access_token"])
}

func TestRefreshCookieWinsOverBody(t *testing.T) {
	srv, provider := newTestServer(t, nil)

	b, _ := json.Marshal(map[string]string{"refresh_token": "from-body"})
	req, _ := http.NewRequest("POST", srv.URL+"/api/auth/refresh-token", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "from-cookie"})
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	require.Equal(t, "from-cookie", provider.lastRefreshToken)
}

func TestLogoutClearsCookieWhenProviderFails(t *testing.T) {
	srv, provider := newTestServer(t, nil)
	postJSON(t, srv.URL+"/api/auth/register", map[string]string{
		"email": "a@x.com", "password": "longenough1", "name": "A",
	})
	provider.signOutErr = errors.New("provider down")

	req, _ := http.NewRequest("POST", srv.URL+"/api/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer access-a@x.com")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// la cookie se limpia aunque el sign-out remoto haya fallado
	var refresh *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "refreshToken" {
			refresh = c
		}
	}
	require.NotNil(t, refresh)
	require.Empty(t, refresh.Value)
	require.Less(t, refresh.MaxAge, 0)
}

func TestRefreshTokenMissingIs401(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	resp, err := http.Post(srv.URL+"/api/auth/refresh-token", "application/json", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestLoginRateLimit(t *testing.T) {
	limiter := rate.NewMemoryLimiter("", 2, time.Minute)
	srv, _ := newTestServer(t, limiter)
	postJSON(t, srv.URL+"/api/auth/register", map[string]string{
		"email": "a@x.com", "password": "longenough1", "name": "A",
	})

	for i := 0; i < 2; i++ {
		resp := postJSON(t, srv.URL+"/api/auth/login", map[string]string{
			"email": "a@x.com", "password": "longenough1",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}
	resp := postJSON(t, srv.URL+"/api/auth/login", map[string]string{
		"email": "a@x.com", "password": "longenough1",
	})
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	resp.Body.Close()
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	req, _ := http.NewRequest("OPTIONS", srv.URL+"/api/auth/login", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))

	// origin desconocido no recibe headers de CORS
	req2, _ := http.NewRequest("OPTIONS", srv.URL+"/api/auth/login", nil)
	req2.Header.Set("Origin", "http://evil.example")
	resp2, err := http.DefaultClient.Do(req2)
	require.NoError(t, err)
	require.Empty(t, resp2.Header.Get("Access-Control-Allow-Origin"))
}
