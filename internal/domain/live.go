package domain

import "time"

// LiveCampaignStatus é o retorno da chamada de detalhes de campanha na API de
// anúncios, já reduzido ao que o motor de alertas consome.
type LiveCampaignStatus struct {
	Status          string `json:"status"`
	EffectiveStatus string `json:"effective_status"`
	IssuesText      string `json:"issues_text"`
}

// LiveInsight é uma linha diária de métricas vinda direto da API, com valores
// monetários já normalizados para centavos e leads já atribuídos pela lista de
// precedência de tipos de ação.
type LiveInsight struct {
	Date        time.Time `json:"date"`
	SpendCents  int64     `json:"spend_cents"`
	Impressions int64     `json:"impressions"`
	Clicks      int64     `json:"clicks"`
	Leads       int64     `json:"leads"`
}

// AdSetBudget é o orçamento de um ad set, usado como fallback quando a campanha
// não define orçamento diário próprio.
type AdSetBudget struct {
	Status               string `json:"status"`
	DailyBudgetCents     *int64 `json:"daily_budget_cents,omitempty"`
	LifetimeBudgetCents  *int64 `json:"lifetime_budget_cents,omitempty"`
	BudgetRemainingCents *int64 `json:"budget_remaining_cents,omitempty"`
}
