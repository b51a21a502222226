package handler

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rmonteiro89/lead-manager-api/internal/domain"
	"github.com/rmonteiro89/lead-manager-api/internal/usecases/dashboarding"
	"github.com/rmonteiro89/lead-manager-api/pkg/apiErrors"
	"github.com/rmonteiro89/lead-manager-api/pkg/middleware"
	"github.com/rmonteiro89/lead-manager-api/pkg/utils"
)

const defaultPeriod = utils.Preset7Days

// parseWindow resolve a janela de datas da consulta: from/to explícitos ou um
// preset calculado no fuso do tenant, com presets de múltiplos dias ancorados
// no fim de ontem. O fuso vem do query param, senão do fuso cadastrado do
// usuário, senão do padrão da aplicação.
func parseWindow(r *http.Request, claims *domain.Claims, defaultTimezone string) (time.Time, time.Time, *time.Location, error) {
	query := r.URL.Query()

	tz := query.Get("timezone")
	if tz == "" {
		tz = claims.Timezone
	}
	if tz == "" {
		tz = defaultTimezone
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.Time{}, time.Time{}, nil, err
	}

	fromStr := query.Get("from")
	toStr := query.Get("to")

	if fromStr != "" || toStr != "" {
		from, err := time.ParseInLocation(time.DateOnly, fromStr, loc)
		if err != nil {
			return time.Time{}, time.Time{}, nil, err
		}

		to, err := time.ParseInLocation(time.DateOnly, toStr, loc)
		if err != nil {
			return time.Time{}, time.Time{}, nil, err
		}

		if from.After(to) {
			return time.Time{}, time.Time{}, nil, errInvalidRange
		}

		return from, to, loc, nil
	}

	period := query.Get("period")
	if period == "" {
		period = defaultPeriod
	}

	from, to, err := utils.PresetRange(period, loc, time.Now())
	if err != nil {
		return time.Time{}, time.Time{}, nil, err
	}

	return from, to, loc, nil
}

var errInvalidRange = &rangeError{}

type rangeError struct{}

func (*rangeError) Error() string { return "data inicial posterior à data final" }

func authenticatedUser(r *http.Request) (*domain.Claims, bool) {
	claims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
	return claims, ok
}

func GetDashboard(service dashboarding.Dashboarder, defaultTimezone string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := authenticatedUser(r)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		from, to, loc, err := parseWindow(r, claims, defaultTimezone)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidDateRange, "Intervalo de datas inválido", err.Error())
			return
		}

		filters := &domain.DashboardFilters{
			From:     from,
			To:       to,
			Timezone: loc,
		}

		if clientID := r.URL.Query().Get("client_id"); clientID != "" {
			filters.ClientID = &clientID
		}

		response, err := service.GetDashboard(claims.UserID, filters)
		if err != nil {
			logrus.WithField("user_id", claims.UserID).Error("erro ao montar o dashboard: ", err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao montar o dashboard", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}
}

func GetCampaigns(service dashboarding.Dashboarder, defaultTimezone string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := authenticatedUser(r)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		from, to, loc, err := parseWindow(r, claims, defaultTimezone)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidDateRange, "Intervalo de datas inválido", err.Error())
			return
		}

		query := r.URL.Query()

		filters := &domain.CampaignFilters{
			From:     from,
			To:       to,
			Timezone: loc,
			Search:   query.Get("search"),
		}

		if clientID := query.Get("client_id"); clientID != "" {
			filters.ClientID = &clientID
		}

		if status := query.Get("status"); status != "" {
			filters.Status = &status
		}

		items, err := service.GetCampaigns(claims.UserID, filters)
		if err != nil {
			logrus.WithField("user_id", claims.UserID).Error("erro ao listar campanhas: ", err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao listar campanhas", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(items)
	}
}
