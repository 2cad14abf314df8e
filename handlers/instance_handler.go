package handlers

import (
	"net/http"
	"strconv"

	"github.com/Davidshtp/chess-tournaments/middleware"
	"github.com/Davidshtp/chess-tournaments/models"
	"github.com/Davidshtp/chess-tournaments/repositories"
	"github.com/Davidshtp/chess-tournaments/services"
)

type InstanceHandler struct {
	instanceService services.InstanceService
	rosterService   services.RosterService
}

func NewInstanceHandler(instanceService services.InstanceService, rosterService services.RosterService) *InstanceHandler {
	return &InstanceHandler{instanceService: instanceService, rosterService: rosterService}
}

func (h *InstanceHandler) Create(w http.ResponseWriter, r *http.Request) {
	organizerID, err := middleware.GetOrganizerIDFromContext(r.Context())
	if err != nil {
		forbiddenResponse(w, r, "organizer profile required")
		return
	}

	var input services.CreateInstanceInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	instance, err := h.instanceService.Create(r.Context(), organizerID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"instance": instance}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *InstanceHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "instanceID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	instance, err := h.instanceService.Get(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"instance": instance}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// List поддерживает фильтры organizer_id и excluding_player_id,
// плюс limit/offset.
func (h *InstanceHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repositories.ListInstancesFilter{}
	query := r.URL.Query()

	if raw := query.Get("organizer_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			badRequestResponse(w, r, errInvalidQueryParam("organizer_id", raw))
			return
		}
		filter.OrganizerID = &id
	}
	if raw := query.Get("excluding_player_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			badRequestResponse(w, r, errInvalidQueryParam("excluding_player_id", raw))
			return
		}
		filter.ExcludingPlayerID = &id
	}
	filter.Limit, _ = strconv.Atoi(query.Get("limit"))
	filter.Offset, _ = strconv.Atoi(query.Get("offset"))

	instances, err := h.instanceService.List(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"instances": instances}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *InstanceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "instanceID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	organizerID, err := middleware.GetOrganizerIDFromContext(r.Context())
	if err != nil {
		forbiddenResponse(w, r, "organizer profile required")
		return
	}

	var patch models.TournamentInstancePatch
	if err := readJSON(w, r, &patch); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	instance, err := h.instanceService.Update(r.Context(), id, organizerID, patch)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"instance": instance}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *InstanceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "instanceID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	organizerID, err := middleware.GetOrganizerIDFromContext(r.Context())
	if err != nil {
		forbiddenResponse(w, r, "organizer profile required")
		return
	}

	if err := h.instanceService.Delete(r.Context(), id, organizerID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "tournament instance deleted"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *InstanceHandler) Roster(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "instanceID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	organizerID, err := middleware.GetOrganizerIDFromContext(r.Context())
	if err != nil {
		forbiddenResponse(w, r, "organizer profile required")
		return
	}

	roster, err := h.rosterService.Roster(r.Context(), id, organizerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"roster": roster}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
