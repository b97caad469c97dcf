package helpers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testPolicy(secure bool) CookiePolicy {
	return CookiePolicy{
		Name:     "refreshToken",
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
		TTL:      7 * 24 * time.Hour,
	}
}

func TestSetRefreshCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	testPolicy(true).SetRefreshCookie(rec, "tok-123")

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("cookies = %d, want 1", len(cookies))
	}
	c := cookies[0]
	if c.Name != "refreshToken" || c.Value != "tok-123" {
		t.Fatalf("cookie inesperada: %+v", c)
	}
	if !c.HttpOnly {
		t.Fatal("HttpOnly ausente")
	}
	if !c.Secure {
		t.Fatal("Secure ausente")
	}
	if c.SameSite != http.SameSiteStrictMode {
		t.Fatalf("SameSite = %v, want Strict", c.SameSite)
	}
	if c.MaxAge != int((7 * 24 * time.Hour).Seconds()) {
		t.Fatalf("MaxAge = %d, want 7 dias", c.MaxAge)
	}
}

func TestClearRefreshCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	testPolicy(false).ClearRefreshCookie(rec)

	c := rec.Result().Cookies()[0]
	if c.Value != "" || c.MaxAge >= 0 {
		t.Fatalf("cookie no expirada: value=%q maxage=%d", c.Value, c.MaxAge)
	}
}

func TestRefreshTokenFromPrefersCookie(t *testing.T) {
	p := testPolicy(false)
	r := httptest.NewRequest("POST", "/api/auth/refresh-token", nil)
	r.AddCookie(&http.Cookie{Name: "refreshToken", Value: "from-cookie"})

	// con cookie y body presentes gana la cookie
	if got := p.RefreshTokenFrom(r, "from-body"); got != "from-cookie" {
		t.Fatalf("got %q, want from-cookie", got)
	}
	if got := p.RefreshTokenFrom(r, ""); got != "from-cookie" {
		t.Fatalf("got %q, want from-cookie", got)
	}

	empty := httptest.NewRequest("POST", "/", nil)
	if got := p.RefreshTokenFrom(empty, "from-body"); got != "from-body" {
		t.Fatalf("got %q, want from-body", got)
	}
	if got := p.RefreshTokenFrom(empty, ""); got != "" {
		t.Fatalf("got %q, want vacio", got)
	}
}

func TestParseSameSite(t *testing.T) {
	if ParseSameSite("lax") != http.SameSiteLaxMode {
		t.Fatal("lax")
	}
	if ParseSameSite("none") != http.SameSiteNoneMode {
		t.Fatal("none")
	}
	if ParseSameSite("strict") != http.SameSiteStrictMode {
		t.Fatal("strict")
	}
	if ParseSameSite("") != http.SameSiteStrictMode {
		t.Fatal("default debe ser strict")
	}
}
