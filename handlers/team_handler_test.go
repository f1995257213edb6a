package handlers

import (
	"context"
	"encoding/json"
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

// stubTeamService позволяет задавать поведение по-тестово; незаданные методы
// возвращают нулевые значения.
type stubTeamService struct {
	createFn   func(ctx context.Context, team *models.Team) (string, error)
	readAllFn  func(ctx context.Context) ([]*models.Team, error)
	readByIDFn func(ctx context.Context, id string) (*models.Team, error)
	updateFn   func(ctx context.Context, id string, team *models.Team) error
	deleteFn   func(ctx context.Context, id string) error
}

func (s *stubTeamService) Create(ctx context.Context, team *models.Team) (string, error) {
	if s.createFn != nil {
		return s.createFn(ctx, team)
	}
	return "", nil
}

func (s *stubTeamService) ReadAll(ctx context.Context) ([]*models.Team, error) {
	if s.readAllFn != nil {
		return s.readAllFn(ctx)
	}
	return []*models.Team{}, nil
}

func (s *stubTeamService) ReadByID(ctx context.Context, id string) (*models.Team, error) {
	if s.readByIDFn != nil {
		return s.readByIDFn(ctx, id)
	}
	return &models.Team{ID: id}, nil
}

func (s *stubTeamService) Update(ctx context.Context, id string, team *models.Team) error {
	if s.updateFn != nil {
		return s.updateFn(ctx, id, team)
	}
	return nil
}

func (s *stubTeamService) Delete(ctx context.Context, id string) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}

// Маршруты собираются вручную, без SetupRoutes: метрики регистрируются в
// глобальном реестре prometheus и при повторной регистрации паникуют.
func newTeamRouter(svc services.TeamService) *chi.Mux {
	h := NewTeamHandler(svc)
	r := chi.NewRouter()
	r.Route("/teams", func(r chi.Router) {
		r.Get("/", h.ListTeams)
		r.Post("/", h.CreateTeam)
		r.Get("/{teamID}", h.GetTeamByID)
		r.Put("/{teamID}", h.UpdateTeam)
		r.Delete("/{teamID}", h.DeleteTeam)
	})
	return r
}

func TestCreateTeamReturnsLocationAndBody(t *testing.T) {
	svc := &stubTeamService{
		createFn: func(_ context.Context, team *models.Team) (string, error) {
			team.ID = "abc123"
			return "abc123", nil
		},
	}
	router := newTeamRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/teams", strings.NewReader(`{"name": "Falcons"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "abc123", rec.Header().Get("Location"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body models.Team
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "abc123", body.ID)
	assert.Equal(t, "Falcons", body.Name)
}

func TestCreateTeamDuplicateName(t *testing.T) {
	svc := &stubTeamService{
		createFn: func(_ context.Context, _ *models.Team) (string, error) {
			return "", services.ErrTeamNameConflict
		},
	}
	router := newTeamRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/teams", strings.NewReader(`{"name": "Falcons"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateTeamMalformedJSON(t *testing.T) {
	router := newTeamRouter(&stubTeamService{})

	req := httptest.NewRequest(http.MethodPost, "/teams", strings.NewReader(`{"name": `))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateTeamEmptyName(t *testing.T) {
	svc := &stubTeamService{
		createFn: func(_ context.Context, _ *models.Team) (string, error) {
			return "", services.ErrTeamNameRequired
		},
	}
	router := newTeamRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/teams", strings.NewReader(`{"name": ""}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestGetTeamMalformedID(t *testing.T) {
	router := newTeamRouter(&stubTeamService{})

	req := httptest.NewRequest(http.MethodGet, "/teams/bad%20id", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetTeamAbsent(t *testing.T) {
	svc := &stubTeamService{
		readByIDFn: func(_ context.Context, _ string) (*models.Team, error) {
			return nil, services.ErrTeamNotFound
		},
	}
	router := newTeamRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/teams/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateTeamNoContent(t *testing.T) {
	var gotID string
	svc := &stubTeamService{
		updateFn: func(_ context.Context, id string, _ *models.Team) error {
			gotID = id
			return nil
		},
	}
	router := newTeamRouter(svc)

	req := httptest.NewRequest(http.MethodPut, "/teams/abc123", strings.NewReader(`{"name": "Hawks"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "abc123", gotID)
}

func TestDeleteTeamAbsent(t *testing.T) {
	svc := &stubTeamService{
		deleteFn: func(_ context.Context, _ string) error {
			return services.ErrTeamNotFound
		},
	}
	router := newTeamRouter(svc)

	req := httptest.NewRequest(http.MethodDelete, "/teams/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteTeamNoContent(t *testing.T) {
	router := newTeamRouter(&stubTeamService{})

	req := httptest.NewRequest(http.MethodDelete, "/teams/abc123", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}
