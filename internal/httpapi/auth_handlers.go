package httpapi

import (
	"net/http"

	"tradepost.org/internal/auth"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateProfileRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// sessionResponse mirrors the cookies in the body so non-browser clients
// can authenticate with the bearer header instead.
type sessionResponse struct {
	User         auth.UserView `json:"user"`
	AccessToken  string        `json:"accessToken"`
	RefreshToken string        `json:"refreshToken"`
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	user, pair, err := a.auth.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		a.handleAuthError(w, r, err)
		return
	}

	a.attachSession(w, pair)
	writeJSON(w, http.StatusCreated, sessionResponse{
		User:         user.View(),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	user, pair, err := a.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		a.handleAuthError(w, r, err)
		return
	}

	a.attachSession(w, pair)
	writeJSON(w, http.StatusOK, sessionResponse{
		User:         user.View(),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	// Tokens stay cryptographically valid until expiry; logout only
	// removes them from the browser.
	a.clearSession(w)
	writeJSON(w, http.StatusOK, map[string]any{"message": "Logged out"})
}

// handleRefresh reads the refresh token from its cookie only. Failures
// respond 403 and leave the existing cookies untouched.
func (a *API) handleRefresh(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(refreshCookie)
	if err != nil || c.Value == "" {
		writeError(w, r, http.StatusForbidden, "Refresh token required")
		return
	}

	user, pair, err := a.auth.Refresh(r.Context(), c.Value)
	if err != nil {
		writeError(w, r, http.StatusForbidden, "Invalid refresh token")
		return
	}

	a.attachSession(w, pair)
	writeJSON(w, http.StatusOK, sessionResponse{
		User:         user.View(),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	sub, ok := auth.SubjectFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	user, err := a.auth.CurrentUser(r.Context(), sub)
	if err != nil {
		a.handleAuthError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user.View()})
}

func (a *API) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	sub, ok := auth.SubjectFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req updateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Username == nil && req.Email == nil {
		writeError(w, r, http.StatusBadRequest, "Nothing to update")
		return
	}

	user, err := a.auth.UpdateProfile(r.Context(), sub.UserID, auth.UserUpdate{
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		a.handleAuthError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user.View()})
}

func (a *API) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	sub, ok := auth.SubjectFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req changePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.auth.ChangePassword(r.Context(), sub.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		a.handleAuthError(w, r, err)
		return
	}

	// Every previously issued token is now stale; hand out a fresh pair so
	// the caller stays signed in.
	user, pair, err := a.auth.CurrentUserWithFreshTokens(r.Context(), sub.UserID)
	if err != nil {
		a.handleAuthError(w, r, err)
		return
	}
	a.attachSession(w, pair)
	writeJSON(w, http.StatusOK, sessionResponse{
		User:         user.View(),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (a *API) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	sub, ok := auth.SubjectFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	if err := a.auth.DeleteAccount(r.Context(), sub.UserID); err != nil {
		a.handleAuthError(w, r, err)
		return
	}
	a.clearSession(w)
	writeJSON(w, http.StatusOK, map[string]any{"message": "Account deleted"})
}
