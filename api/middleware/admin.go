package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/cillii/catalog-backend/api/responses"
	"github.com/cillii/catalog-backend/pkg/config"
	pkgerrors "github.com/cillii/catalog-backend/pkg/errors"
	"github.com/cillii/catalog-backend/pkg/logger"
)

const adminPassphraseHeader = "X-Admin-Passphrase"

// AdminGate protects the mutating catalog endpoints with a shared passphrase.
func AdminGate(cfg config.AdminConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get(adminPassphraseHeader)
			if subtle.ConstantTimeCompare([]byte(provided), []byte(cfg.Passphrase)) != 1 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin passphrase required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
