package http

import (
	"net/http"

	"github.com/MKhiriev/go-secret-vault/internal/service"
	"github.com/MKhiriev/go-secret-vault/internal/totp"
	"github.com/MKhiriev/go-secret-vault/internal/utils"
	"github.com/MKhiriev/go-secret-vault/models"
	"github.com/go-chi/chi/v5"
)

// totpKeys returns the TOTP keys of the authenticated user.
func (h *Handler) totpKeys(r *http.Request) (service.TotpKeys, error) {
	vault, err := h.vault(r)
	if err != nil {
		return nil, err
	}
	return vault.TotpKeys(), nil
}

func (h *Handler) listTotpKeys(w http.ResponseWriter, r *http.Request) {
	keys, err := h.totpKeys(r)
	if err != nil {
		h.writeError(w, r, "*Handler.listTotpKeys", err)
		return
	}

	list, err := keys.List(r.Context())
	if err != nil {
		h.writeError(w, r, "*Handler.listTotpKeys", err)
		return
	}

	utils.WriteJSON(w, list, http.StatusOK)
}

func (h *Handler) createTotpKey(w http.ResponseWriter, r *http.Request) {
	var fields models.TotpKeyFields
	if err := decodeJSON(r, &fields); err != nil {
		h.writeError(w, r, "*Handler.createTotpKey", err)
		return
	}

	keys, err := h.totpKeys(r)
	if err != nil {
		h.writeError(w, r, "*Handler.createTotpKey", err)
		return
	}

	key, err := keys.Create(r.Context(), fields)
	if err != nil {
		h.writeError(w, r, "*Handler.createTotpKey", err)
		return
	}

	utils.WriteJSON(w, key, http.StatusCreated)
}

func (h *Handler) getTotpKey(w http.ResponseWriter, r *http.Request) {
	keys, err := h.totpKeys(r)
	if err != nil {
		h.writeError(w, r, "*Handler.getTotpKey", err)
		return
	}

	key, err := keys.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, "*Handler.getTotpKey", err)
		return
	}

	utils.WriteJSON(w, key, http.StatusOK)
}

func (h *Handler) updateTotpKey(w http.ResponseWriter, r *http.Request) {
	var update models.TotpKeyUpdate
	if err := decodeJSON(r, &update); err != nil {
		h.writeError(w, r, "*Handler.updateTotpKey", err)
		return
	}

	keys, err := h.totpKeys(r)
	if err != nil {
		h.writeError(w, r, "*Handler.updateTotpKey", err)
		return
	}

	key, err := keys.Update(r.Context(), chi.URLParam(r, "id"), update)
	if err != nil {
		h.writeError(w, r, "*Handler.updateTotpKey", err)
		return
	}

	utils.WriteJSON(w, key, http.StatusOK)
}

func (h *Handler) deleteTotpKey(w http.ResponseWriter, r *http.Request) {
	keys, err := h.totpKeys(r)
	if err != nil {
		h.writeError(w, r, "*Handler.deleteTotpKey", err)
		return
	}

	existed, err := keys.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, "*Handler.deleteTotpKey", err)
		return
	}
	if !existed {
		h.writeError(w, r, "*Handler.deleteTotpKey", service.ErrTotpKeyNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) totpKeyCode(w http.ResponseWriter, r *http.Request) {
	keys, err := h.totpKeys(r)
	if err != nil {
		h.writeError(w, r, "*Handler.totpKeyCode", err)
		return
	}

	code, err := keys.Code(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, "*Handler.totpKeyCode", err)
		return
	}

	utils.WriteJSON(w, code, http.StatusOK)
}

func (h *Handler) verifyTotpKey(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, "*Handler.verifyTotpKey", err)
		return
	}

	keys, err := h.totpKeys(r)
	if err != nil {
		h.writeError(w, r, "*Handler.verifyTotpKey", err)
		return
	}

	valid, err := keys.Verify(r.Context(), chi.URLParam(r, "id"), req.Code)
	if err != nil {
		h.writeError(w, r, "*Handler.verifyTotpKey", err)
		return
	}

	utils.WriteJSON(w, verifyResponse{Valid: valid}, http.StatusOK)
}

func (h *Handler) totpKeyURI(w http.ResponseWriter, r *http.Request) {
	keys, err := h.totpKeys(r)
	if err != nil {
		h.writeError(w, r, "*Handler.totpKeyURI", err)
		return
	}

	uri, err := keys.ProvisioningURI(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, "*Handler.totpKeyURI", err)
		return
	}

	utils.WriteJSON(w, uriResponse{URI: uri}, http.StatusOK)
}

func (h *Handler) totpKeyQR(w http.ResponseWriter, r *http.Request) {
	keys, err := h.totpKeys(r)
	if err != nil {
		h.writeError(w, r, "*Handler.totpKeyQR", err)
		return
	}

	uri, err := keys.ProvisioningURI(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, "*Handler.totpKeyQR", err)
		return
	}

	h.writeQR(w, r, "*Handler.totpKeyQR", uri)
}

func (h *Handler) generateSecret(w http.ResponseWriter, r *http.Request) {
	secret, err := h.services.TotpService.GenerateSecret(r.Context())
	if err != nil {
		h.writeError(w, r, "*Handler.generateSecret", err)
		return
	}

	utils.WriteJSON(w, secretResponse{Secret: secret}, http.StatusOK)
}

// adHocCode computes a code for a secret that is not stored in the vault.
func (h *Handler) adHocCode(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, "*Handler.adHocCode", err)
		return
	}

	code, err := h.services.TotpService.Code(r.Context(), req.Secret, totp.Params{Digits: req.Digits, Interval: req.Interval})
	if err != nil {
		h.writeError(w, r, "*Handler.adHocCode", err)
		return
	}

	utils.WriteJSON(w, code, http.StatusOK)
}
