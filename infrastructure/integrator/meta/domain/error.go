package metadomain

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrorResponse representa a estrutura de erro da API do Meta
type ErrorResponse struct {
	Error ErrorDetails `json:"error"`
}

// ErrorDetails contém os detalhes de erro da API do Meta
type ErrorDetails struct {
	Message      string `json:"message"`
	Type         string `json:"type"`
	Code         int    `json:"code"`
	ErrorSubcode int    `json:"error_subcode,omitempty"`
	FBTraceID    string `json:"fbtrace_id"`
}

// APIError é o erro estruturado propagado pelas chamadas ao Graph API,
// carregando o código do provedor para classificação pelos chamadores.
type APIError struct {
	StatusCode int
	Details    ErrorDetails
}

func (e *APIError) Error() string {
	return fmt.Sprintf("meta api error (http %d, code %d): %s", e.StatusCode, e.Details.Code, e.Details.Message)
}

// Código do Graph API para limite de chamadas da aplicação.
const rateLimitErrorCode = 80004

var rateLimitMessageTerms = []string{
	"rate-limiting",
	"too many calls",
}

// IsRateLimitError verifica se o erro carrega a assinatura de rate limit do
// provedor: código 80004 ou mensagem contendo os termos conhecidos.
func IsRateLimitError(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}

	if apiErr.Details.Code == rateLimitErrorCode {
		return true
	}

	message := strings.ToLower(apiErr.Details.Message)
	for _, term := range rateLimitMessageTerms {
		if strings.Contains(message, term) {
			return true
		}
	}

	return false
}
