package handlers

import (
	"net/http"

	"github.com/Davidshtp/chess-tournaments/middleware"
	"github.com/Davidshtp/chess-tournaments/models"
	"github.com/Davidshtp/chess-tournaments/services"
)

type EnrollmentHandler struct {
	enrollmentService services.EnrollmentService
}

func NewEnrollmentHandler(enrollmentService services.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollmentService: enrollmentService}
}

// Register: POST /players/{playerID}/enrollments
// Тело: instance_id + payment_method. Игрок записывает только себя,
// проверка принадлежности идет в сервисе по id из токена.
func (h *EnrollmentHandler) Register(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	actingPlayerID, err := middleware.GetPlayerIDFromContext(r.Context())
	if err != nil {
		forbiddenResponse(w, r, "player profile required")
		return
	}

	var input struct {
		InstanceID    int                  `json:"instance_id"`
		PaymentMethod models.PaymentMethod `json:"payment_method"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.enrollmentService.Register(r.Context(), playerID, input.InstanceID, input.PaymentMethod, actingPlayerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"registration": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EnrollmentHandler) List(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	actingPlayerID, err := middleware.GetPlayerIDFromContext(r.Context())
	if err != nil {
		forbiddenResponse(w, r, "player profile required")
		return
	}

	enrollments, err := h.enrollmentService.ListForPlayer(r.Context(), playerID, actingPlayerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"enrollments": enrollments}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EnrollmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	enrollmentID, err := getIDFromURL(r, "enrollmentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	actingPlayerID, err := middleware.GetPlayerIDFromContext(r.Context())
	if err != nil {
		forbiddenResponse(w, r, "player profile required")
		return
	}

	if err := h.enrollmentService.Cancel(r.Context(), enrollmentID, actingPlayerID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "enrollment cancelled"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
