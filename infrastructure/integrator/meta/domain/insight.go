package metadomain

import (
	"strconv"

	"github.com/sirupsen/logrus"
)

type Action struct {
	ActionType string `json:"action_type"`
	Value      string `json:"value"`
}

// InsightRow é uma linha de insights do Graph API. Campos numéricos chegam
// como strings.
type InsightRow struct {
	AccountID   string   `json:"account_id"`
	CampaignID  string   `json:"campaign_id"`
	DateStart   string   `json:"date_start"`
	DateStop    string   `json:"date_stop"`
	Spend       string   `json:"spend"`
	Impressions string   `json:"impressions"`
	Clicks      string   `json:"clicks"`
	Actions     []Action `json:"actions"`
}

// LeadActionPrecedence é a ordem fixa de tipos de ação usada para atribuir
// "leads" a uma linha de insights: variantes de resposta de mensagem antes de
// cliques genéricos. A primeira ação presente vence. A ordem precisa ser
// preservada para manter paridade com as definições de KPI do produto.
var LeadActionPrecedence = []string{
	"onsite_conversion.messaging_first_reply",
	"onsite_conversion.messaging_conversation_started_7d",
	"onsite_conversion.lead_grouped",
	"lead",
	"leadgen_grouped",
	"offsite_conversion.fb_pixel_lead",
	"link_click",
}

// Leads aplica a lista de precedência sobre as ações da linha.
func (r *InsightRow) Leads() int64 {
	byType := make(map[string]string, len(r.Actions))
	for _, action := range r.Actions {
		byType[action.ActionType] = action.Value
	}

	for _, actionType := range LeadActionPrecedence {
		value, ok := byType[actionType]
		if !ok {
			continue
		}

		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"action_type": actionType,
				"value":       value,
			}).Warn("insights: valor de ação inválido")
			return 0
		}

		return parsed
	}

	return 0
}
