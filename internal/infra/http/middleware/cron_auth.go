package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// CronAuth libera o agendador externo com "Authorization: Bearer <secret>" ou ?secret=.
func CronAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				writeError(w, http.StatusInternalServerError, "NOT_CONFIGURED", "CRON_SECRET não configurado")
				return
			}

			given := r.URL.Query().Get("secret")
			if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
				given = strings.TrimPrefix(auth, "Bearer ")
			}

			if given == "" || subtle.ConstantTimeCompare([]byte(given), []byte(secret)) != 1 {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "segredo do cron inválido")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
