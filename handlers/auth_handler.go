package handlers

import (
	"net/http"
	"time"

	"github.com/Davidshtp/chess-tournaments/models"
	"github.com/Davidshtp/chess-tournaments/services"
	"github.com/golang-jwt/jwt/v4"
)

const tokenTTL = 24 * time.Hour

type AuthHandler struct {
	authService services.AuthService
	jwtSecret   string
}

func NewAuthHandler(authService services.AuthService, jwtSecret string) *AuthHandler {
	return &AuthHandler{authService: authService, jwtSecret: jwtSecret}
}

func (h *AuthHandler) RegisterPlayer(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterPlayerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.authService.RegisterPlayer(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AuthHandler) RegisterOrganizer(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterOrganizerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	organizer, err := h.authService.RegisterOrganizer(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"organizer": organizer}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Login проверяет креды и выписывает HS256-токен. Кроме user_id и роли
// в claims уходит id профиля (player_id или organizer_id), чтобы
// обработчики не ходили за ним в БД на каждый запрос.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := readJSON(w, r, &creds); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	identity, err := h.authService.Login(r.Context(), creds)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": identity.User.ID,
		"role":    string(identity.User.Role),
		"iat":     now.Unix(),
		"exp":     now.Add(tokenTTL).Unix(),
	}
	if identity.PlayerID != nil {
		claims["player_id"] = *identity.PlayerID
	}
	if identity.OrganizerID != nil {
		claims["organizer_id"] = *identity.OrganizerID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.jwtSecret))
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	env := jsonResponse{
		"token": signed,
		"user":  identity.User,
	}
	if identity.PlayerID != nil {
		env["player_id"] = *identity.PlayerID
	}
	if identity.OrganizerID != nil {
		env["organizer_id"] = *identity.OrganizerID
	}

	if err := writeJSON(w, http.StatusOK, env, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
