package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmonteiro89/lead-manager-api/internal/domain"
	"github.com/rmonteiro89/lead-manager-api/pkg/middleware"
)

func requestWithClaims(t *testing.T, target string, claims *domain.Claims) *http.Request {
	t.Helper()

	r := httptest.NewRequest(http.MethodGet, target, nil)
	ctx := context.WithValue(r.Context(), middleware.ContextKeyUser, claims)
	return r.WithContext(ctx)
}

func TestParseWindow(t *testing.T) {
	claims := &domain.Claims{UserID: 7, Timezone: "America/Fortaleza"}

	t.Run("Sem parâmetro usa o fuso cadastrado do usuário", func(t *testing.T) {
		r := requestWithClaims(t, "/v1/dashboard", claims)

		from, to, loc, err := parseWindow(r, claims, "America/Sao_Paulo")
		require.NoError(t, err)
		assert.Equal(t, "America/Fortaleza", loc.String())
		assert.Equal(t, loc, from.Location())
		assert.Equal(t, loc, to.Location())
	})

	t.Run("Parâmetro timezone tem precedência sobre o cadastro", func(t *testing.T) {
		r := requestWithClaims(t, "/v1/dashboard?timezone=UTC", claims)

		_, _, loc, err := parseWindow(r, claims, "America/Sao_Paulo")
		require.NoError(t, err)
		assert.Equal(t, "UTC", loc.String())
	})

	t.Run("Usuário sem fuso cadastrado cai no padrão da aplicação", func(t *testing.T) {
		semFuso := &domain.Claims{UserID: 7}
		r := requestWithClaims(t, "/v1/dashboard", semFuso)

		_, _, loc, err := parseWindow(r, semFuso, "America/Sao_Paulo")
		require.NoError(t, err)
		assert.Equal(t, "America/Sao_Paulo", loc.String())
	})

	t.Run("Datas explícitas são interpretadas no fuso resolvido", func(t *testing.T) {
		r := requestWithClaims(t, "/v1/dashboard?from=2026-08-01&to=2026-08-07", claims)

		from, to, loc, err := parseWindow(r, claims, "America/Sao_Paulo")
		require.NoError(t, err)
		assert.Equal(t, "America/Fortaleza", loc.String())
		assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, loc), from)
		assert.Equal(t, time.Date(2026, 8, 7, 0, 0, 0, 0, loc), to)
	})

	t.Run("Data inicial posterior à final é rejeitada", func(t *testing.T) {
		r := requestWithClaims(t, "/v1/dashboard?from=2026-08-07&to=2026-08-01", claims)

		_, _, _, err := parseWindow(r, claims, "America/Sao_Paulo")
		assert.ErrorIs(t, err, errInvalidRange)
	})
}

type dashboarderStub struct {
	filters *domain.DashboardFilters
}

func (s *dashboarderStub) GetDashboard(userID int, filters *domain.DashboardFilters) (*domain.DashboardResponse, error) {
	s.filters = filters
	return &domain.DashboardResponse{}, nil
}

func (s *dashboarderStub) GetCampaigns(userID int, filters *domain.CampaignFilters) ([]*domain.CampaignListItem, error) {
	return nil, nil
}

func TestGetDashboard_JanelaPadraoNoFusoDoUsuario(t *testing.T) {
	stub := &dashboarderStub{}
	handler := GetDashboard(stub, "America/Sao_Paulo")

	claims := &domain.Claims{UserID: 7, Timezone: "America/Fortaleza"}
	r := requestWithClaims(t, "/v1/dashboard", claims)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, stub.filters)
	assert.Equal(t, "America/Fortaleza", stub.filters.Timezone.String())
}
