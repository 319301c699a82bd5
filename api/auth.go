package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/MEERAN2314/socialtab/service"
)

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	PIN      string `json:"pin"`
	FullName string `json:"full_name"`
}

type loginRequest struct {
	Username string `json:"username"`
	PIN      string `json:"pin"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, fmt.Errorf("%w: invalid request body", service.ErrInvalidArgument))
		return
	}

	session, err := s.auth.Signup(r.Context(), service.SignupRequest{
		Username: req.Username,
		Email:    req.Email,
		PIN:      req.PIN,
		FullName: req.FullName,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":      "User created successfully",
		"access_token": session.AccessToken,
		"token_type":   session.TokenType,
		"username":     session.Username,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, fmt.Errorf("%w: invalid request body", service.ErrInvalidArgument))
		return
	}

	session, err := s.auth.Login(r.Context(), req.Username, req.PIN)
	if err != nil {
		s.writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    session.AccessToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.auth.TokenExpiry().Seconds()),
	})

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":      "Login successful",
		"access_token": session.AccessToken,
		"token_type":   session.TokenType,
		"username":     session.Username,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}
