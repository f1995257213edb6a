package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tournaments/models"
	"tournaments/services"
)

type stubGroupService struct {
	createGroupFn    func(ctx context.Context, tournamentID string, group *models.Group) (string, error)
	getGroupsFn      func(ctx context.Context, tournamentID string) ([]models.Group, error)
	getGroupFn       func(ctx context.Context, tournamentID, groupID string) (*models.Group, error)
	updateGroupFn    func(ctx context.Context, tournamentID string, group *models.Group) error
	removeGroupFn    func(ctx context.Context, tournamentID, groupID string) error
	addTeamFn        func(ctx context.Context, tournamentID, groupID, teamID string) error
	updateTeamsFn    func(ctx context.Context, tournamentID, groupID string, teams []models.Team) error
}

func (s *stubGroupService) CreateGroup(ctx context.Context, tournamentID string, group *models.Group) (string, error) {
	if s.createGroupFn != nil {
		return s.createGroupFn(ctx, tournamentID, group)
	}
	return "", nil
}

func (s *stubGroupService) GetGroups(ctx context.Context, tournamentID string) ([]models.Group, error) {
	if s.getGroupsFn != nil {
		return s.getGroupsFn(ctx, tournamentID)
	}
	return []models.Group{}, nil
}

func (s *stubGroupService) GetGroup(ctx context.Context, tournamentID, groupID string) (*models.Group, error) {
	if s.getGroupFn != nil {
		return s.getGroupFn(ctx, tournamentID, groupID)
	}
	return &models.Group{ID: groupID, TournamentID: tournamentID}, nil
}

func (s *stubGroupService) UpdateGroup(ctx context.Context, tournamentID string, group *models.Group) error {
	if s.updateGroupFn != nil {
		return s.updateGroupFn(ctx, tournamentID, group)
	}
	return nil
}

func (s *stubGroupService) RemoveGroup(ctx context.Context, tournamentID, groupID string) error {
	if s.removeGroupFn != nil {
		return s.removeGroupFn(ctx, tournamentID, groupID)
	}
	return nil
}

func (s *stubGroupService) AddTeamToGroup(ctx context.Context, tournamentID, groupID, teamID string) error {
	if s.addTeamFn != nil {
		return s.addTeamFn(ctx, tournamentID, groupID, teamID)
	}
	return nil
}

func (s *stubGroupService) UpdateTeams(ctx context.Context, tournamentID, groupID string, teams []models.Team) error {
	if s.updateTeamsFn != nil {
		return s.updateTeamsFn(ctx, tournamentID, groupID, teams)
	}
	return nil
}

func newGroupRouter(svc services.GroupService) *chi.Mux {
	h := NewGroupHandler(svc)
	r := chi.NewRouter()
	r.Route("/tournaments/{tournamentID}/groups", func(r chi.Router) {
		r.Get("/", h.GetGroups)
		r.Post("/", h.CreateGroup)
		r.Get("/{groupID}", h.GetGroup)
		r.Put("/{groupID}", h.UpdateGroup)
		r.Delete("/{groupID}", h.DeleteGroup)
		r.Patch("/{groupID}/teams", h.UpdateTeams)
	})
	return r
}

func TestCreateGroupReturnsLocation(t *testing.T) {
	svc := &stubGroupService{
		createGroupFn: func(_ context.Context, tournamentID string, group *models.Group) (string, error) {
			group.ID = "grp-1"
			group.TournamentID = tournamentID
			return "grp-1", nil
		},
	}
	router := newGroupRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/tournaments/trn-1/groups", strings.NewReader(`{"name": "Group C"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "grp-1", rec.Header().Get("Location"))

	var body models.Group
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "grp-1", body.ID)
	assert.Equal(t, "trn-1", body.TournamentID)
}

func TestCreateGroupTournamentMissingIsUnprocessable(t *testing.T) {
	svc := &stubGroupService{
		createGroupFn: func(_ context.Context, _ string, _ *models.Group) (string, error) {
			return "", services.ErrTournamentNotFound
		},
	}
	router := newGroupRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/tournaments/missing/groups", strings.NewReader(`{"name": "Group C"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	// Создание с битой ссылкой — отказ бизнес-правила, не 404
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCreateGroupLimitReached(t *testing.T) {
	svc := &stubGroupService{
		createGroupFn: func(_ context.Context, _ string, _ *models.Group) (string, error) {
			return "", services.ErrGroupLimitReached
		},
	}
	router := newGroupRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/tournaments/trn-1/groups", strings.NewReader(`{"name": "Group C"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestGetGroupAbsent(t *testing.T) {
	svc := &stubGroupService{
		getGroupFn: func(_ context.Context, _, _ string) (*models.Group, error) {
			return nil, services.ErrGroupNotFound
		},
	}
	router := newGroupRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/tournaments/trn-1/groups/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateGroupUsesPathIDs(t *testing.T) {
	var got *models.Group
	svc := &stubGroupService{
		updateGroupFn: func(_ context.Context, _ string, group *models.Group) error {
			got = group
			return nil
		},
	}
	router := newGroupRouter(svc)

	payload := `{"id": "body-id", "name": "Renamed"}`
	req := httptest.NewRequest(http.MethodPut, "/tournaments/trn-1/groups/grp-1", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, "grp-1", got.ID)
	assert.Equal(t, "trn-1", got.TournamentID)
}

func TestDeleteGroupNoContent(t *testing.T) {
	router := newGroupRouter(&stubGroupService{})

	req := httptest.NewRequest(http.MethodDelete, "/tournaments/trn-1/groups/grp-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestUpdateTeamsUnknownTeamIsUnprocessable(t *testing.T) {
	svc := &stubGroupService{
		updateTeamsFn: func(_ context.Context, _, _ string, _ []models.Team) error {
			return fmt.Errorf("%w: ghost-1", services.ErrTeamNotFound)
		},
	}
	router := newGroupRouter(svc)

	payload := `[{"id": "ghost-1"}]`
	req := httptest.NewRequest(http.MethodPatch, "/tournaments/trn-1/groups/grp-1/teams", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "ghost-1")
}

func TestUpdateTeamsNoContent(t *testing.T) {
	var got []models.Team
	svc := &stubGroupService{
		updateTeamsFn: func(_ context.Context, _, _ string, teams []models.Team) error {
			got = teams
			return nil
		},
	}
	router := newGroupRouter(svc)

	payload := `[{"id": "team-1"}, {"id": "team-2"}]`
	req := httptest.NewRequest(http.MethodPatch, "/tournaments/trn-1/groups/grp-1/teams", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Len(t, got, 2)
}

func TestUpdateTeamsMalformedBody(t *testing.T) {
	router := newGroupRouter(&stubGroupService{})

	req := httptest.NewRequest(http.MethodPatch, "/tournaments/trn-1/groups/grp-1/teams", strings.NewReader(`{"id": "x"`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
