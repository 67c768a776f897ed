package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/hydrolog-io/hydrolog/internal/auth"
	"github.com/hydrolog-io/hydrolog/internal/models"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (api *Api) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name == "" || req.Email == "" {
		writeError(w, http.StatusBadRequest, "Name and email are required")
		return
	}

	user, err := auth.Register(req.Name, req.Email, req.Password)
	switch {
	case errors.Is(err, auth.ErrWeakPassword):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, auth.ErrEmailAlreadyTaken):
		writeError(w, http.StatusConflict, "An account with this email already exists")
		return
	case err != nil:
		log.Printf("Registration failed for %s: %v", req.Email, err)
		writeError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	token, err := api.Tokens.GenerateToken(user)
	if err != nil {
		log.Printf("Token generation failed for %s: %v", user.ID, err)
		writeError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{Token: token, User: user})
}

func (api *Api) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := auth.Authenticate(req.Email, req.Password)
	if errors.Is(err, auth.ErrUserNotFound) || errors.Is(err, auth.ErrInvalidPassword) {
		// Unknown email and wrong password are indistinguishable to the caller
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err != nil {
		log.Printf("Login failed for %s: %v", req.Email, err)
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	token, err := api.Tokens.GenerateToken(user)
	if err != nil {
		log.Printf("Token generation failed for %s: %v", user.ID, err)
		writeError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}
