package domain

import "strings"

// DeliveryState é a classificação de entrega de uma campanha derivada do texto
// livre de status do provedor (status + effective_status + issues_info).
type DeliveryState struct {
	HasPaymentError bool `json:"has_payment_error"`
	HasIssues       bool `json:"has_issues"`
	IsPaused        bool `json:"is_paused"`
	IsDelivering    bool `json:"is_delivering"`
}

// Tabelas de substrings usadas na classificação. O vocabulário do provedor não
// é controlado por nós, então o casamento é uma heurística deliberada; manter
// as tabelas como constantes explícitas permite revisá-las sem tocar nas
// regras de alerta.
var (
	paymentErrorTerms = []string{
		"payment",
		"billing",
		"pagamento",
		"fatur",
		"hold",
		"risk",
		"erro",
		"error",
		"issue_payment",
		"issue_billing",
	}

	pausedTerms = []string{
		"paused",
		"inactive",
		"stopped",
	}

	deliveringTerms = []string{
		"active",
		"delivery",
		"delivering",
		"eligible",
		"running",
	}
)

const issuesTerm = "with issues"

// ClassifyDeliveryState mapeia o texto combinado de status do provedor para o
// estado de entrega. Função pura: dada a mesma entrada, mesma saída.
func ClassifyDeliveryState(rawStatusText string) DeliveryState {
	text := strings.ToLower(rawStatusText)

	state := DeliveryState{
		HasPaymentError: containsAny(text, paymentErrorTerms),
		HasIssues:       strings.Contains(text, issuesTerm),
	}

	state.IsPaused = containsAny(text, pausedTerms) || state.HasPaymentError || state.HasIssues
	state.IsDelivering = !state.IsPaused && containsAny(text, deliveringTerms)

	return state
}

// CombineStatusText monta o texto único de classificação a partir dos campos
// de status retornados pelo provedor (ou persistidos no registro de campanhas).
func CombineStatusText(status, effectiveStatus, issuesInfo string) string {
	return strings.TrimSpace(status + " " + effectiveStatus + " " + issuesInfo)
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}
