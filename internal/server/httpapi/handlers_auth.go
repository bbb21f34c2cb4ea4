package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/petiteannonce/server/internal/common"
	"github.com/petiteannonce/server/internal/server/models"
)

type loginResponse struct {
	Message   string             `json:"message"`
	User      *models.User       `json:"user"`
	Announces []*models.Announce `json:"announces"`
}

// Register creates an account. The response never carries the password hash.
func (s *HTTPServer) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(r.Context(), w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.writeValidationError(r.Context(), w, validationMessages(err))
		return
	}

	user, err := s.users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			s.writeError(r.Context(), w, http.StatusConflict, "email already registered")
			return
		}
		s.serviceError(w, r, err)
		return
	}

	s.writeJSON(r.Context(), w, http.StatusCreated, user)
}

// Login verifies credentials and attaches the session cookie. The 401 body
// is identical for unknown emails and wrong passwords.
func (s *HTTPServer) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(r.Context(), w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.writeValidationError(r.Context(), w, validationMessages(err))
		return
	}

	user, err := s.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			s.writeError(r.Context(), w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		s.serviceError(w, r, err)
		return
	}

	token, err := s.users.IssueToken(user)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	announces, err := s.announces.ListByOwner(r.Context(), user.ID)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.users.SessionValidity().Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})

	s.writeJSON(r.Context(), w, http.StatusOK, loginResponse{
		Message:   "Login successful",
		User:      user,
		Announces: announces,
	})
}

// Logout clears the session cookie. The token itself stays valid until its
// natural expiry; there is no server-side revocation list.
func (s *HTTPServer) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})

	s.writeJSON(r.Context(), w, http.StatusOK, map[string]string{"message": "Logout successful"})
}
