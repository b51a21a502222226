package domain

import "time"

type AlertSeverity string

const (
	AlertSeverityLow    AlertSeverity = "LOW"
	AlertSeverityMedium AlertSeverity = "MEDIUM"
	AlertSeverityHigh   AlertSeverity = "HIGH"
)

type AlertStatus string

const (
	AlertStatusNew      AlertStatus = "NEW"
	AlertStatusRead     AlertStatus = "READ"
	AlertStatusResolved AlertStatus = "RESOLVED"
)

type Alert struct {
	ID         string         `json:"id"`
	UserID     int            `json:"user_id"`
	Severity   AlertSeverity  `json:"severity"`
	Status     AlertStatus    `json:"status"`
	ClientID   *string        `json:"client_id,omitempty"`
	AccountID  *string        `json:"account_id,omitempty"`
	CampaignID *string        `json:"campaign_id,omitempty"`
	Title      string         `json:"title"`
	Message    string         `json:"message"`
	Payload    map[string]any `json:"payload,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// AlertKey é a identidade lógica de um alerta. É usada tanto para deduplicação
// dentro de uma execução quanto para carregar o status de execuções anteriores.
type AlertKey struct {
	CampaignID string
	AccountID  string
	Title      string
	Message    string
}

// Key deriva a chave de identidade do alerta. Campos de atribuição nulos
// entram como string vazia para que a chave seja comparável entre execuções.
func (a *Alert) Key() AlertKey {
	key := AlertKey{
		Title:   a.Title,
		Message: a.Message,
	}

	if a.CampaignID != nil {
		key.CampaignID = *a.CampaignID
	}

	if a.AccountID != nil {
		key.AccountID = *a.AccountID
	}

	return key
}

// UpdateAlertStatusRequest é o corpo da requisição de mudança de status feita
// pelo usuário (marcar como lido/resolvido).
type UpdateAlertStatusRequest struct {
	Status AlertStatus `json:"status"`
}

func (s AlertStatus) Valid() bool {
	switch s {
	case AlertStatusNew, AlertStatusRead, AlertStatusResolved:
		return true
	}
	return false
}
