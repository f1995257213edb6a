package handlers

import (
	"errors"
	"net/http"

	"tournaments/models"
	"tournaments/services"
)

type GroupHandler struct {
	groupService services.GroupService
}

func NewGroupHandler(gs services.GroupService) *GroupHandler {
	return &GroupHandler{groupService: gs}
}

// CreateGroup: любое нарушение бизнес-правил (в т.ч. ссылка на
// несуществующий турнир) — 422, как и для остальных операций создания.
func (h *GroupHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var group models.Group
	if err := readJSON(w, r, &group); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	id, err := h.groupService.CreateGroup(r.Context(), tournamentID, &group)
	if err != nil {
		if isGroupBusinessError(err) {
			failedValidationResponse(w, r, err)
			return
		}
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	headers := http.Header{}
	headers.Set("Location", id)

	if err := writeJSON(w, http.StatusCreated, group, headers); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *GroupHandler) GetGroups(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	groups, err := h.groupService.GetGroups(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, groups, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *GroupHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	groupID, err := getIDParam(r, "groupID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	group, err := h.groupService.GetGroup(r.Context(), tournamentID, groupID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, group, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *GroupHandler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	groupID, err := getIDParam(r, "groupID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var group models.Group
	if err := readJSON(w, r, &group); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	// ID берутся из пути, не из тела
	group.ID = groupID
	group.TournamentID = tournamentID

	if err := h.groupService.UpdateGroup(r.Context(), tournamentID, &group); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *GroupHandler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	groupID, err := getIDParam(r, "groupID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.groupService.RemoveGroup(r.Context(), tournamentID, groupID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdateTeams: пакетная замена состава. Любая доменная ошибка набора —
// 422 с агрегированным сообщением; набор применяется целиком или никак.
func (h *GroupHandler) UpdateTeams(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	groupID, err := getIDParam(r, "groupID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var teams []models.Team
	if err := readJSON(w, r, &teams); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.groupService.UpdateTeams(r.Context(), tournamentID, groupID, teams); err != nil {
		if isGroupBusinessError(err) || errors.Is(err, services.ErrGroupNotFound) {
			failedValidationResponse(w, r, err)
			return
		}
		serverErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func isGroupBusinessError(err error) bool {
	return errors.Is(err, services.ErrTournamentNotFound) ||
		errors.Is(err, services.ErrTeamNotFound) ||
		errors.Is(err, services.ErrGroupNameRequired) ||
		errors.Is(err, services.ErrGroupLimitReached) ||
		errors.Is(err, services.ErrGroupFull)
}
