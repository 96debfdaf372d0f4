package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/MKhiriev/go-secret-vault/internal/qrcode"
	"github.com/MKhiriev/go-secret-vault/internal/service"
	"github.com/MKhiriev/go-secret-vault/internal/utils"
)

type codeRequest struct {
	Secret   string `json:"secret"`
	Digits   int    `json:"digits"`
	Interval int    `json:"interval"`
}

type verifyRequest struct {
	Code string `json:"code"`
}

type verifyResponse struct {
	Valid bool `json:"valid"`
}

type secretResponse struct {
	Secret string `json:"secret"`
}

type uriResponse struct {
	URI string `json:"uri"`
}

type qrResponse struct {
	DataURI string `json:"data_uri"`
}

// vault returns the vault of the authenticated user.
func (h *Handler) vault(r *http.Request) (service.Vault, error) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		return nil, ErrUnauthenticated
	}
	return h.services.Vaults.ForUser(userID)
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	return nil
}

// writeQR renders uri as a PNG. The optional "size" query parameter sets the
// edge length in pixels; "format=datauri" wraps the PNG in a JSON data URI.
func (h *Handler) writeQR(w http.ResponseWriter, r *http.Request, funcName, uri string) {
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))

	if r.URL.Query().Get("format") == "datauri" {
		dataURI, err := qrcode.DataURI(uri, size)
		if err != nil {
			h.writeError(w, r, funcName, err)
			return
		}
		w.Header().Set("Cache-Control", "no-store")
		_, _ = utils.WriteJSON(w, qrResponse{DataURI: dataURI}, http.StatusOK)
		return
	}

	png, err := qrcode.PNG(uri, size)
	if err != nil {
		h.writeError(w, r, funcName, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
