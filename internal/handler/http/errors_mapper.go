package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-secret-vault/internal/crypto"
	"github.com/MKhiriev/go-secret-vault/internal/logger"
	"github.com/MKhiriev/go-secret-vault/internal/service"
	"github.com/MKhiriev/go-secret-vault/internal/store"
	"github.com/MKhiriev/go-secret-vault/internal/totp"
	"github.com/MKhiriev/go-secret-vault/internal/utils"
	"github.com/MKhiriev/go-secret-vault/internal/validators"
)

var errorStatusMap = map[error]int{
	ErrUnauthenticated: http.StatusUnauthorized,
	ErrInvalidJSON:     http.StatusBadRequest,

	validators.ErrValidation: http.StatusBadRequest,
	totp.ErrInvalidSecret:    http.StatusBadRequest,
	totp.ErrInvalidDigits:    http.StatusBadRequest,
	totp.ErrInvalidInterval:  http.StatusBadRequest,

	service.ErrNotFound: http.StatusNotFound,

	crypto.ErrCrypto: http.StatusUnprocessableEntity,

	store.ErrStorage: http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// writeError logs err and answers with its mapped status. Messages of
// server-side failures are not exposed to the client.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, funcName string, err error) {
	status := statusFromError(err)

	event := logger.FromRequest(r).Warn()
	if status >= http.StatusInternalServerError {
		event = logger.FromRequest(r).Error()
	}
	event.Err(err).Str("func", funcName).Int("status", status).Send()

	message := err.Error()
	if status >= http.StatusInternalServerError {
		message = http.StatusText(status)
	}
	utils.WriteError(w, message, status)
}
