package domain

import (
	"math"
	"time"
)

type ScopeType string

const (
	ScopeAdAccount ScopeType = "AD_ACCOUNT"
	ScopeCampaign  ScopeType = "CAMPAIGN"
)

// MetricSnapshot é uma entrada diária da série histórica de métricas por
// escopo (conta de anúncios ou campanha). No máximo um snapshot por
// (scopeType, scopeID, date).
type MetricSnapshot struct {
	ID               string    `json:"id"`
	ScopeType        ScopeType `json:"scope_type"`
	ScopeID          string    `json:"scope_id"`
	Date             time.Time `json:"date"`
	SpendCents       int64     `json:"spend_cents"`
	Impressions      int64     `json:"impressions"`
	Clicks           int64     `json:"clicks"`
	Leads            int64     `json:"leads"`
	CostPerLeadCents *int64    `json:"cost_per_lead_cents,omitempty"`
	Source           string    `json:"source"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ComputeCostPerLead calcula o custo por lead em centavos. Retorna nil quando
// não há leads, nunca zero, para distinguir "sem leads" de "CPL zero".
func ComputeCostPerLead(spendCents, leads int64) *int64 {
	if leads <= 0 {
		return nil
	}

	cpl := int64(math.Round(float64(spendCents) / float64(leads)))
	return &cpl
}
