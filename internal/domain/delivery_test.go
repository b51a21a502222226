package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyDeliveryState(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected DeliveryState
	}{
		{
			name: "Campanha ativa entregando normalmente",
			raw:  "ACTIVE ACTIVE",
			expected: DeliveryState{
				IsDelivering: true,
			},
		},
		{
			name: "Campanha pausada não está entregando",
			raw:  "PAUSED PAUSED",
			expected: DeliveryState{
				IsPaused: true,
			},
		},
		{
			name: "Erro de pagamento implica pausa mesmo com status ativo",
			raw:  "ACTIVE ISSUE_PAYMENT",
			expected: DeliveryState{
				HasPaymentError: true,
				IsPaused:        true,
			},
		},
		{
			name: "Problemas de entrega reportados pelo provedor",
			raw:  "active with issues entrega limitada",
			expected: DeliveryState{
				HasIssues: true,
				IsPaused:  true,
			},
		},
		{
			name: "Vocabulário em português também classifica erro de pagamento",
			raw:  "problema de pagamento na conta",
			expected: DeliveryState{
				HasPaymentError: true,
				IsPaused:        true,
			},
		},
		{
			name:     "Texto vazio não classifica nada",
			raw:      "",
			expected: DeliveryState{},
		},
		{
			name:     "Status desconhecido não está pausado nem entregando",
			raw:      "IN_PROCESS PENDING_REVIEW",
			expected: DeliveryState{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyDeliveryState(tt.raw))
		})
	}
}

func TestCombineStatusText(t *testing.T) {
	assert.Equal(t, "ACTIVE ACTIVE with issues", CombineStatusText("ACTIVE", "ACTIVE", "with issues"))
	assert.Equal(t, "", CombineStatusText("", "", ""))
}
