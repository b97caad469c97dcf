// Package identity habla con el identity provider externo (GoTrue REST).
// Acá no hay lógica de negocio: firmar, hashear y mandar emails es todo
// del provider. Este cliente solo arma requests y traduce respuestas.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Client struct {
	baseURL string
	// anon para flujos de usuario, service para operaciones admin
	anonKey    string
	serviceKey string

	http *http.Client
}

func New(baseURL, anonKey, serviceKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		anonKey:    anonKey,
		serviceKey: serviceKey,
		http:       &http.Client{Timeout: timeout},
	}
}

// SignUp registra email+password en el provider. Según la configuración
// del provider puede devolver sesión completa o solo el user (confirmación
// de email pendiente).
func (c *Client) SignUp(ctx context.Context, email, password string, metadata map[string]any) (*Session, error) {
	body := map[string]any{"email": email, "password": password}
	if len(metadata) > 0 {
		body["data"] = metadata
	}
	var raw json.RawMessage
	if err := c.do(ctx, "POST", "/auth/v1/signup", c.anonKey, "", body, &raw); err != nil {
		return nil, err
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	// sin auto-confirm el provider devuelve el user plano, sin tokens
	if s.AccessToken == "" && s.User == nil {
		var u User
		if err := json.Unmarshal(raw, &u); err == nil && u.ID != "" {
			s.User = &u
		}
	}
	return &s, nil
}

// SignInWithPassword autentica con el grant password.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]any{"email": email, "password": password}
	var s Session
	if err := c.do(ctx, "POST", "/auth/v1/token?grant_type=password", c.anonKey, "", body, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// RefreshSession rota el refresh token y devuelve una sesión nueva.
func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (*Session, error) {
	body := map[string]any{"refresh_token": refreshToken}
	var s Session
	if err := c.do(ctx, "POST", "/auth/v1/token?grant_type=refresh_token", c.anonKey, "", body, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetUser resuelve el user dueño del access token. Es la validación de
// sesión: token inválido o vencido devuelve *APIError 401.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*User, error) {
	var u User
	if err := c.do(ctx, "GET", "/auth/v1/user", c.anonKey, accessToken, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// SignOut revoca la sesión del token en el provider.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	return c.do(ctx, "POST", "/auth/v1/logout", c.anonKey, accessToken, nil, nil)
}

// ResetPasswordForEmail dispara el email de recuperación. El provider se
// encarga del envío y de no revelar si la cuenta existe.
func (c *Client) ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error {
	path := "/auth/v1/recover"
	if redirectTo != "" {
		path += "?redirect_to=" + url.QueryEscape(redirectTo)
	}
	return c.do(ctx, "POST", path, c.anonKey, "", map[string]any{"email": email}, nil)
}

// VerifyRecoveryToken canjea el token del email de recuperación por una
// sesión. Con esa sesión se aplica el cambio de contraseña.
func (c *Client) VerifyRecoveryToken(ctx context.Context, token string) (*Session, error) {
	body := map[string]any{"type": "recovery", "token": token}
	var s Session
	if err := c.do(ctx, "POST", "/auth/v1/verify", c.anonKey, "", body, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateUserPassword cambia la contraseña del user dueño del token.
func (c *Client) UpdateUserPassword(ctx context.Context, accessToken, newPassword string) (*User, error) {
	var u User
	if err := c.do(ctx, "PUT", "/auth/v1/user", c.anonKey, accessToken, map[string]any{"password": newPassword}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// AdminDeleteUser borra la identidad con la service key. Se usa como
// compensación cuando el registro falla a mitad de camino.
func (c *Client) AdminDeleteUser(ctx context.Context, userID string) error {
	return c.do(ctx, "DELETE", "/auth/v1/admin/users/"+url.PathEscape(userID), c.serviceKey, c.serviceKey, nil, nil)
}

// Ping verifica conectividad contra el endpoint de health del provider.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, "GET", "/auth/v1/health", c.anonKey, "", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path, apiKey, bearer string, body any, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", apiKey)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		var eb errBody
		_ = json.NewDecoder(resp.Body).Decode(&eb)
		return &APIError{Status: resp.StatusCode, Message: eb.text()}
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
			return err
		}
	}
	return nil
}
