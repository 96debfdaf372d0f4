package http

import (
	"net/http"

	"github.com/MKhiriev/go-secret-vault/internal/logger"
	"github.com/MKhiriev/go-secret-vault/internal/utils"
)

// auth is an HTTP middleware that enforces JWT-based authentication.
//
// It extracts the bearer token from the "Authorization" header, verifies its
// HS256 signature, issuer and expiry, and stores the token subject as the
// vault user id in the request context (see [utils.WithUserID]).
//
// The middleware rejects requests with HTTP 401 Unauthorized when:
//   - the header is absent ([ErrEmptyAuthorizationHeader]);
//   - the header is not "Bearer <token>" ([ErrInvalidAuthorizationHeader]);
//   - the token is invalid or expired ([ErrInvalidToken]).
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			h.writeError(w, r, "*Handler.auth", ErrEmptyAuthorizationHeader)
			return
		}

		tokenString, err := utils.ParseBearerToken(authHeader)
		if err != nil {
			h.writeError(w, r, "*Handler.auth", ErrInvalidAuthorizationHeader)
			return
		}

		token, err := utils.ValidateAndParseJWTToken(tokenString, h.tokenSignKey, h.tokenIssuer)
		if err != nil {
			log.Debug().Err(err).Msg("token rejected")
			h.writeError(w, r, "*Handler.auth", ErrInvalidToken)
			return
		}

		ctx := utils.WithUserID(r.Context(), token.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
