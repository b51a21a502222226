package handler

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/rmonteiro89/lead-manager-api/internal/api/handler/router"
	"github.com/rmonteiro89/lead-manager-api/internal/usecases/alerting"
	"github.com/rmonteiro89/lead-manager-api/internal/usecases/authenticating"
	"github.com/rmonteiro89/lead-manager-api/internal/usecases/dashboarding"
	"github.com/rmonteiro89/lead-manager-api/pkg/middleware"
)

// json usa o jsoniter com compatibilidade total com a biblioteca padrão para
// a serialização das respostas dos handlers.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/login",
			Method:  http.MethodPost,
			Handler: Login(service),
		},
		{
			Path:    "/v1/register",
			Method:  http.MethodPost,
			Handler: Register(service),
		},
		{
			Path:    "/v1/me",
			Method:  http.MethodGet,
			Handler: GetMe(service),
		},
	}
}

func Dashboard(service dashboarding.Dashboarder, defaultTimezone string) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/dashboard",
			Method:  http.MethodGet,
			Handler: GetDashboard(service, defaultTimezone),
		},
		{
			Path:    "/v1/campaigns",
			Method:  http.MethodGet,
			Handler: GetCampaigns(service, defaultTimezone),
		},
	}
}

func Alerts(service alerting.Alerter) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/alerts",
			Method:  http.MethodGet,
			Handler: ListAlerts(service),
		},
		{
			Path:    "/v1/alerts/:id/status",
			Method:  http.MethodPut,
			Handler: UpdateAlertStatus(service),
		},
		{
			Path:    "/v1/alerts/sync",
			Method:  http.MethodPost,
			Handler: SyncAlerts(service),
		},
	}
}

// CronJobs agrupa os gatilhos agendados, todos protegidos pelo segredo
// compartilhado em vez de sessão de usuário.
func CronJobs(services CronJobServices, cronSecret string) []router.Route {
	secret := middleware.CronSecret(cronSecret)

	return []router.Route{
		{
			Path:        "/v1/cron/alerts/sync",
			Method:      http.MethodPost,
			Handler:     RunAlertSync(services),
			Middlewares: []func(http.Handler) http.Handler{secret},
		},
		{
			Path:        "/v1/cron/snapshots/sync",
			Method:      http.MethodPost,
			Handler:     RunSnapshotSync(services),
			Middlewares: []func(http.Handler) http.Handler{secret},
		},
		{
			Path:        "/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(services),
			Middlewares: []func(http.Handler) http.Handler{secret},
		},
	}
}
