package domain

import "time"

// DashboardFilters são os filtros já validados na borda HTTP. From/To sempre
// preenchidos (explícitos ou derivados do preset no fuso do tenant).
type DashboardFilters struct {
	From     time.Time
	To       time.Time
	Timezone *time.Location
	ClientID *string
}

// SpendByDay é um ponto da linha do tempo de investimento.
type SpendByDay struct {
	Date       string `json:"date"`
	SpendCents int64  `json:"spend_cents"`
}

// AccountHighlight é o resumo por conta exibido no dashboard.
type AccountHighlight struct {
	AccountID       string     `json:"account_id"`
	AccountName     string     `json:"account_name"`
	ClientName      *string    `json:"client_name,omitempty"`
	Status          string     `json:"status"`
	MonthSpendCents int64      `json:"month_spend_cents"`
	BudgetCapCents  *int64     `json:"budget_cap_cents,omitempty"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
}

type DashboardResponse struct {
	TotalSpendCents  int64              `json:"total_spend_cents"`
	TotalLeads       int64              `json:"total_leads"`
	TotalClicks      int64              `json:"total_clicks"`
	CostPerLeadCents int64              `json:"cost_per_lead_cents"`
	ResponseRate     float64            `json:"response_rate"`
	Timeline         []SpendByDay       `json:"timeline"`
	Highlights       []AccountHighlight `json:"highlights"`
	LiveData         bool               `json:"live_data"`
}

// CampaignFilters filtra a listagem de campanhas.
type CampaignFilters struct {
	From     time.Time
	To       time.Time
	Timezone *time.Location
	ClientID *string
	Status   *string
	Search   string
}

// CampaignListItem é uma linha da listagem de campanhas, combinando o registro
// persistido com orçamentos de ad sets e métricas (ao vivo quando possível).
type CampaignListItem struct {
	CampaignID       string  `json:"campaign_id"`
	AccountID        string  `json:"account_id"`
	Name             string  `json:"name"`
	Objective        string  `json:"objective"`
	Status           string  `json:"status"`
	EffectiveStatus  string  `json:"effective_status"`
	DailyBudgetCents *int64  `json:"daily_budget_cents,omitempty"`
	SpendCents       int64   `json:"spend_cents"`
	Leads            int64   `json:"leads"`
	Clicks           int64   `json:"clicks"`
	Impressions      int64   `json:"impressions"`
	CostPerLeadCents *int64  `json:"cost_per_lead_cents,omitempty"`
	ClientName       *string `json:"client_name,omitempty"`
	LiveData         bool    `json:"live_data"`
}
