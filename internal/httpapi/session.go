package httpapi

import (
	"net/http"
	"time"

	"tradepost.org/internal/auth"
)

const (
	accessCookie  = "accessToken"
	refreshCookie = "refreshToken"
)

// attachSession sets both session cookies. Cookie lifetimes mirror the
// corresponding token expirations, so the browser drops a cookie at the
// same moment its token stops verifying.
func (a *API) attachSession(w http.ResponseWriter, pair auth.TokenPair) {
	now := time.Now()
	a.setSessionCookie(w, accessCookie, pair.AccessToken, pair.AccessExpiresAt.Sub(now))
	a.setSessionCookie(w, refreshCookie, pair.RefreshToken, pair.RefreshExpiresAt.Sub(now))
}

// clearSession expires both cookies (logout).
func (a *API) clearSession(w http.ResponseWriter) {
	a.expireCookie(w, accessCookie)
	a.expireCookie(w, refreshCookie)
}

func (a *API) setSessionCookie(w http.ResponseWriter, name, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   a.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

func (a *API) expireCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}
