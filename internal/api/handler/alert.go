package handler

import (
	"database/sql"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/rmonteiro89/lead-manager-api/internal/domain"
	"github.com/rmonteiro89/lead-manager-api/internal/usecases/alerting"
	"github.com/rmonteiro89/lead-manager-api/pkg/apiErrors"
)

func ListAlerts(service alerting.Alerter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := authenticatedUser(r)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		alerts, err := service.ListAlerts(claims.UserID)
		if err != nil {
			logrus.WithField("user_id", claims.UserID).Error("erro ao listar alertas: ", err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao listar alertas", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(alerts)
	}
}

// UpdateAlertStatus troca o status de leitura de um alerta do próprio tenant.
func UpdateAlertStatus(service alerting.Alerter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := authenticatedUser(r)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		alertID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if alertID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID do alerta não fornecido", nil)
			return
		}

		var req domain.UpdateAlertStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		if !req.Status.Valid() {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Status de alerta inválido", req.Status)
			return
		}

		err := service.UpdateAlertStatus(claims.UserID, alertID, req.Status)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				apiErrors.WriteError(w, apiErrors.ErrResourceNotFound, "Alerta não encontrado", nil)
				return
			}

			logrus.WithFields(logrus.Fields{
				"user_id":  claims.UserID,
				"alert_id": alertID,
			}).Error("erro ao atualizar status do alerta: ", err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao atualizar o alerta", nil)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// SyncAlerts dispara a execução do motor de alertas do tenant e responde a
// quantidade de alertas gravados, mesmo quando a execução degradou.
func SyncAlerts(service alerting.Alerter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := authenticatedUser(r)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		count, err := service.SyncAlerts(r.Context(), claims.UserID)
		if err != nil {
			logrus.WithField("user_id", claims.UserID).Error("erro na sincronização de alertas: ", err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao sincronizar alertas", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]int{
			"alerts_created": count,
		})
	}
}
