package metadomain

import "strings"

type CampaignDetails struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Status          string      `json:"status"`
	EffectiveStatus string      `json:"effective_status"`
	IssuesInfo      []IssueInfo `json:"issues_info,omitempty"`
}

type IssueInfo struct {
	Level        string `json:"level"`
	ErrorCode    int    `json:"error_code"`
	ErrorSummary string `json:"error_summary"`
	ErrorMessage string `json:"error_message"`
}

// IssuesText concatena os textos de issue em uma única string, insumo da
// classificação de estado de entrega.
func (c *CampaignDetails) IssuesText() string {
	if len(c.IssuesInfo) == 0 {
		return ""
	}

	parts := make([]string, 0, len(c.IssuesInfo)*2)
	for _, issue := range c.IssuesInfo {
		if issue.ErrorSummary != "" {
			parts = append(parts, issue.ErrorSummary)
		}
		if issue.ErrorMessage != "" {
			parts = append(parts, issue.ErrorMessage)
		}
	}

	return strings.Join(parts, " ")
}

// AdSet carrega os campos de orçamento retornados pelo endpoint de ad sets.
// Valores monetários chegam como strings de centavos.
type AdSet struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Status          string `json:"status"`
	DailyBudget     string `json:"daily_budget,omitempty"`
	LifetimeBudget  string `json:"lifetime_budget,omitempty"`
	BudgetRemaining string `json:"budget_remaining,omitempty"`
}

type Cursors struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

type Paging struct {
	Cursors Cursors `json:"cursors"`
	Next    string  `json:"next,omitempty"`
}
