package handler

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/rmonteiro89/lead-manager-api/internal/scheduler"
	"github.com/rmonteiro89/lead-manager-api/internal/usecases/alerting"
	"github.com/rmonteiro89/lead-manager-api/pkg/apiErrors"
)

// CronJobServices agrupa os serviços acionáveis pelos gatilhos agendados.
type CronJobServices struct {
	Alerter             alerting.Alerter
	AlertSyncService    *scheduler.AlertSyncService
	SnapshotSyncService *scheduler.SnapshotSyncService
}

// RunAlertSync roda o motor de alertas para todos os tenants conectados de
// forma síncrona e responde o total de alertas gravados.
func RunAlertSync(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count, err := services.Alerter.SyncAllUsers(r.Context())
		if err != nil {
			logrus.Error("erro na sincronização de alertas via cron: ", err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao sincronizar alertas", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]int{
			"alerts_created": count,
		})
	}
}

// RunSnapshotSync dispara a carga de snapshots em segundo plano.
func RunSnapshotSync(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.SnapshotSyncService.TriggerManualSync()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]string{
			"status": "carga de snapshots iniciada",
		})
	}
}

// GetCronStatus retorna o estado dos agendadores.
func GetCronStatus(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"alert_sync":    services.AlertSyncService.GetStatus(),
			"snapshot_sync": services.SnapshotSyncService.GetStatus(),
		})
	}
}
