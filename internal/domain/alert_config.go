package domain

import "time"

// AlertConfig guarda os parâmetros de alertas do tenant. Criado com defaults no
// registro do usuário; lido uma vez por execução do motor de alertas.
type AlertConfig struct {
	UserID                  int       `json:"user_id"`
	BudgetLowThresholdCents int64     `json:"budget_low_threshold_cents"`
	Enabled                 bool      `json:"enabled"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}

const defaultBudgetLowThresholdCents = 1000

// DefaultAlertConfig é a regra explícita de default quando o tenant não possui
// configuração persistida. A ausência da linha não é um erro.
func DefaultAlertConfig(userID int) *AlertConfig {
	return &AlertConfig{
		UserID:                  userID,
		BudgetLowThresholdCents: defaultBudgetLowThresholdCents,
		Enabled:                 true,
	}
}
