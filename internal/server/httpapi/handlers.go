package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/avpetrov/authcore/internal/common"
	"github.com/avpetrov/authcore/internal/server/services"
)

const (
	accessCookieName  = "token"
	refreshCookieName = "refreshToken"

	minPasswordLength = 6
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func validateCredentials(req credentialsRequest) []fieldIssue {
	var issues []fieldIssue
	if !strings.Contains(req.Email, "@") {
		issues = append(issues, fieldIssue{Field: "email", Message: "must be a valid email address"})
	}
	if len(req.Password) < minPasswordLength {
		issues = append(issues, fieldIssue{Field: "password", Message: "must be at least 6 characters"})
	}
	return issues
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondGenericError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if issues := validateCredentials(req); issues != nil {
		respondValidationError(w, issues)
		return
	}

	pair, err := s.authUC.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			// Never reveal which half of the credential failed.
			respondGenericError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		s.logger.Error(r.Context(), "login failed", "error", err)
		respondGenericError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	s.setTokenCookies(w, pair)
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondGenericError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if issues := validateCredentials(req); issues != nil {
		respondValidationError(w, issues)
		return
	}

	err := s.authUC.Signup(r.Context(), services.SignupParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		// Duplicate signup is a business-logic error; it surfaces as a
		// server error with no distinguishing detail for the client.
		s.logger.Error(r.Context(), "registration failed", "error", err)
		respondGenericError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		respondGenericError(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	pair, err := s.authUC.RefreshSession(r.Context(), cookie.Value)
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			respondGenericError(w, http.StatusUnauthorized, "Invalid refresh token")
			return
		}
		s.logger.Error(r.Context(), "refresh failed", "error", err)
		respondGenericError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	s.setTokenCookies(w, pair)
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.clearTokenCookies(w)
	w.WriteHeader(http.StatusOK)
}

func (s *Server) setTokenCookies(w http.ResponseWriter, pair *services.TokenPair) {
	secure := !s.cfg.IsDevelopment()
	http.SetCookie(w, &http.Cookie{
		Name:     accessCookieName,
		Value:    pair.Token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    pair.RefreshToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (s *Server) clearTokenCookies(w http.ResponseWriter) {
	for _, name := range []string{accessCookieName, refreshCookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			MaxAge:   -1,
		})
	}
}
