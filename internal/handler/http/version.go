package http

import (
	"net/http"
	"strings"

	"github.com/MKhiriev/go-secret-vault/internal/utils"
)

type versionResponse struct {
	Version string `json:"version"`
}

// getServerVersion answers in plain text unless the client asks for JSON.
func (h *Handler) getServerVersion(w http.ResponseWriter, r *http.Request) {
	version := h.services.AppInfoService.GetAppVersion(r.Context())

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		_, _ = utils.WriteJSON(w, versionResponse{Version: version}, http.StatusOK)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(version))
}
