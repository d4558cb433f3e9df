package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"tradepost.org/internal/auth"
	"tradepost.org/internal/obs"
)

const (
	authHeader   = "Authorization"
	bearerScheme = "Bearer "
)

// withAuth verifies the access token carried by the request and attaches
// the authenticated subject to the context. Token extraction prefers the
// Authorization header; the accessToken cookie is the fallback for browser
// clients. Expired and invalid tokens produce the same response body; the
// distinction survives only in the server log.
func (a *API) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := requestToken(r)
		if token == "" {
			writeError(w, r, http.StatusUnauthorized, "Authentication required")
			return
		}

		sub, err := a.auth.VerifyAccess(token)
		if err != nil {
			kind := "invalid"
			if errors.Is(err, auth.ErrTokenExpired) {
				kind = "expired"
			}
			obs.Logger().Warn("access token rejected", "kind", kind, "path", r.URL.Path)
			writeError(w, r, http.StatusUnauthorized, "Authentication required")
			return
		}

		ctx := auth.ContextWithSubject(r.Context(), sub)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestToken extracts the bearer token, header first, cookie second.
func requestToken(r *http.Request) string {
	if token := bearerToken(r.Header.Get(authHeader)); token != "" {
		return token
	}
	if c, err := r.Cookie(accessCookie); err == nil {
		return strings.TrimSpace(c.Value)
	}
	return ""
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	if !strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearerScheme)) {
		return ""
	}
	return strings.TrimSpace(header[len(bearerScheme):])
}
