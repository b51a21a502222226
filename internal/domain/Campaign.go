package domain

import "time"

type Campaign struct {
	ID                  string    `json:"id"` // ID externo do provedor
	AccountID           string    `json:"account_id"`
	Name                string    `json:"name"`
	Objective           string    `json:"objective"`
	Status              string    `json:"status"`
	EffectiveStatus     string    `json:"effective_status"`
	DailyBudgetCents    *int64    `json:"daily_budget_cents,omitempty"`
	LifetimeBudgetCents *int64    `json:"lifetime_budget_cents,omitempty"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// CampaignWithAccount é o resultado do join de campanhas com a conta dona e o
// cliente primário dessa conta, carregado em lote antes de cada execução do
// motor de alertas.
type CampaignWithAccount struct {
	Campaign
	Account       AdAccount `json:"account"`
	PrimaryClient *Client   `json:"primary_client,omitempty"`
}

// CampaignStatusUpdate é o write-back de status feito pelo motor de alertas
// quando detalhes mais recentes são obtidos da API.
type CampaignStatusUpdate struct {
	ID              string
	Status          string
	EffectiveStatus string
}
