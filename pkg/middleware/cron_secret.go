package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/rmonteiro89/lead-manager-api/pkg/apiErrors"
)

const cronSecretHeader = "X-Cron-Secret"

// CronSecret protege os gatilhos agendados: rotas sem sessão de usuário, mas
// chaveadas pelo segredo compartilhado com o agendador externo.
func CronSecret(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get(cronSecretHeader)
			if secret == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
				apiErrors.WriteError(w, apiErrors.ErrInvalidCronSecret, "Segredo de cron inválido", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
