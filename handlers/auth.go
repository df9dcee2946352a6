package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/escolaranieri/galeriabackend/config"
	"github.com/escolaranieri/galeriabackend/models"
	"github.com/escolaranieri/galeriabackend/repository"
)

type AuthHandler struct {
	UserRepo repository.UserRepository
	Cfg      config.Config
}

func NewAuthHandler(userRepo repository.UserRepository, cfg config.Config) *AuthHandler {
	return &AuthHandler{UserRepo: userRepo, Cfg: cfg}
}

type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token     string      `json:"token"`
	User      models.User `json:"user"`
	ExpiresAt time.Time   `json:"expires_at"`
}

func (h *AuthHandler) generateToken(user *models.User) (string, time.Time, error) {
	expirationTime := time.Now().Add(time.Duration(h.Cfg.JWTExpirationHours) * time.Hour)
	claims := &jwt.RegisteredClaims{
		Subject:   fmt.Sprint(user.ID),
		ExpiresAt: jwt.NewNumericDate(expirationTime),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		Issuer:    "galeriabackend",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(h.Cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expirationTime, nil
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "invalid request payload")
		return
	}

	user, err := h.UserRepo.GetByEmail(strings.ToLower(strings.TrimSpace(payload.Email)))
	if err != nil || !user.CheckPassword(payload.Password) {
		// same response for unknown email and bad password
		WriteAPIError(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
		return
	}

	tokenString, expiresAt, err := h.generateToken(user)
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "token_error", "failed to generate token")
		return
	}

	WriteJSON(w, http.StatusOK, AuthResponse{
		Token:     tokenString,
		User:      *user,
		ExpiresAt: expiresAt,
	})
}

type RegisterPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new user. The repository attaches the profile and the
// public group in the same transaction, so a freshly registered user can
// already see public galleries.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "invalid request payload")
		return
	}

	payload.Name = strings.TrimSpace(payload.Name)
	payload.Email = strings.ToLower(strings.TrimSpace(payload.Email))
	if payload.Name == "" || payload.Email == "" || payload.Password == "" {
		WriteAPIError(w, http.StatusBadRequest, "missing_fields", "name, email and password are required")
		return
	}
	if len(payload.Password) < 8 {
		WriteAPIError(w, http.StatusBadRequest, "weak_password", "password must be at least 8 characters")
		return
	}

	if _, err := h.UserRepo.GetByEmail(payload.Email); err == nil {
		WriteAPIError(w, http.StatusConflict, "email_taken", "a user with this email already exists")
		return
	}

	user := &models.User{
		Name:  payload.Name,
		Email: payload.Email,
	}
	if err := user.SetPassword(payload.Password); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "password_error", "failed to hash password")
		return
	}

	if err := h.UserRepo.Create(user); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "create_failed", "failed to create user")
		return
	}

	// reload with roles, groups and profile for the response
	created, err := h.UserRepo.GetByID(user.ID)
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "create_failed", "failed to load created user")
		return
	}

	tokenString, expiresAt, err := h.generateToken(created)
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "token_error", "failed to generate token")
		return
	}

	WriteJSON(w, http.StatusCreated, AuthResponse{
		Token:     tokenString,
		User:      *created,
		ExpiresAt: expiresAt,
	})
}

// Me returns the authenticated user with roles, groups and profile.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		WriteAPIError(w, http.StatusUnauthorized, "unauthenticated", "authentication required")
		return
	}
	WriteJSON(w, http.StatusOK, user)
}
