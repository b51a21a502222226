package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("Rota inexistente responde 404 em JSON", func(t *testing.T) {
		rt := New(WithRoutes(Route{Path: "/v1/health", Method: http.MethodGet, Handler: okHandler}))

		w := httptest.NewRecorder()
		rt.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

		require.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Body.String(), "VAL_005")
	})

	t.Run("Método não suportado responde 400 em JSON", func(t *testing.T) {
		rt := New(WithRoutes(Route{Path: "/v1/health", Method: http.MethodGet, Handler: okHandler}))

		w := httptest.NewRecorder()
		rt.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/v1/health", nil))

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VAL_001")
	})

	t.Run("Middlewares da rota executam na ordem declarada", func(t *testing.T) {
		var order []string
		tag := func(name string) func(http.Handler) http.Handler {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		rt := New(WithRoutes(Route{
			Path:        "/v1/health",
			Method:      http.MethodGet,
			Handler:     okHandler,
			Middlewares: []func(http.Handler) http.Handler{tag("primeiro"), tag("segundo")},
		}))

		w := httptest.NewRecorder()
		rt.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/health", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"primeiro", "segundo"}, order)
	})
}
