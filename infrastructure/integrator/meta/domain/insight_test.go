package metadomain

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestInsightRowLeads(t *testing.T) {
	tests := []struct {
		name     string
		actions  []Action
		expected int64
	}{
		{
			name: "Resposta de mensagem tem precedência sobre link_click",
			actions: []Action{
				{ActionType: "link_click", Value: "42"},
				{ActionType: "onsite_conversion.messaging_first_reply", Value: "7"},
			},
			expected: 7,
		},
		{
			name: "Sem variantes de mensagem, lead genérico vence link_click",
			actions: []Action{
				{ActionType: "link_click", Value: "42"},
				{ActionType: "lead", Value: "3"},
			},
			expected: 3,
		},
		{
			name: "Apenas link_click usa o próprio link_click",
			actions: []Action{
				{ActionType: "link_click", Value: "42"},
			},
			expected: 42,
		},
		{
			name: "Ações fora da lista de precedência não atribuem leads",
			actions: []Action{
				{ActionType: "video_view", Value: "900"},
			},
			expected: 0,
		},
		{
			name:     "Sem ações retorna zero",
			actions:  nil,
			expected: 0,
		},
		{
			name: "Valor não numérico retorna zero",
			actions: []Action{
				{ActionType: "lead", Value: "abc"},
			},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := &InsightRow{Actions: tt.actions}
			assert.Equal(t, tt.expected, row.Leads())
		})
	}
}

func TestIsRateLimitError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "Código 80004 é rate limit",
			err:      &APIError{StatusCode: 400, Details: ErrorDetails{Code: 80004, Message: "Application request limit reached"}},
			expected: true,
		},
		{
			name:     "Mensagem com rate-limiting é rate limit",
			err:      &APIError{StatusCode: 400, Details: ErrorDetails{Code: 1, Message: "Please see rate-limiting docs"}},
			expected: true,
		},
		{
			name:     "Mensagem com too many calls é rate limit",
			err:      &APIError{StatusCode: 400, Details: ErrorDetails{Code: 1, Message: "User made Too Many Calls"}},
			expected: true,
		},
		{
			name:     "Erro embrulhado ainda é classificado",
			err:      errors.Wrap(&APIError{Details: ErrorDetails{Code: 80004}}, "buscando detalhes da campanha"),
			expected: true,
		},
		{
			name:     "Outro erro da API não é rate limit",
			err:      &APIError{StatusCode: 400, Details: ErrorDetails{Code: 100, Message: "Invalid parameter"}},
			expected: false,
		},
		{
			name:     "Erro genérico não é rate limit",
			err:      errors.New("connection refused"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsRateLimitError(tt.err))
		})
	}
}
