package http

import (
	"net/http"

	"github.com/MKhiriev/go-secret-vault/internal/service"
	"github.com/MKhiriev/go-secret-vault/internal/utils"
	"github.com/MKhiriev/go-secret-vault/models"
	"github.com/go-chi/chi/v5"
)

// listEntries lists the vault, or searches it when a "q" parameter is given.
func (h *Handler) listEntries(w http.ResponseWriter, r *http.Request) {
	vault, err := h.vault(r)
	if err != nil {
		h.writeError(w, r, "*Handler.listEntries", err)
		return
	}

	var entries []models.VaultEntry
	if query := r.URL.Query(); query.Has("q") {
		entries, err = vault.Search(r.Context(), query.Get("q"))
	} else {
		entries, err = vault.List(r.Context())
	}
	if err != nil {
		h.writeError(w, r, "*Handler.listEntries", err)
		return
	}

	utils.WriteJSON(w, entries, http.StatusOK)
}

func (h *Handler) createEntry(w http.ResponseWriter, r *http.Request) {
	var fields models.EntryFields
	if err := decodeJSON(r, &fields); err != nil {
		h.writeError(w, r, "*Handler.createEntry", err)
		return
	}

	vault, err := h.vault(r)
	if err != nil {
		h.writeError(w, r, "*Handler.createEntry", err)
		return
	}

	entry, err := vault.Create(r.Context(), fields)
	if err != nil {
		h.writeError(w, r, "*Handler.createEntry", err)
		return
	}

	utils.WriteJSON(w, entry, http.StatusCreated)
}

func (h *Handler) getEntry(w http.ResponseWriter, r *http.Request) {
	vault, err := h.vault(r)
	if err != nil {
		h.writeError(w, r, "*Handler.getEntry", err)
		return
	}

	entry, err := vault.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, "*Handler.getEntry", err)
		return
	}

	utils.WriteJSON(w, entry, http.StatusOK)
}

func (h *Handler) updateEntry(w http.ResponseWriter, r *http.Request) {
	var update models.EntryUpdate
	if err := decodeJSON(r, &update); err != nil {
		h.writeError(w, r, "*Handler.updateEntry", err)
		return
	}

	vault, err := h.vault(r)
	if err != nil {
		h.writeError(w, r, "*Handler.updateEntry", err)
		return
	}

	entry, err := vault.Update(r.Context(), chi.URLParam(r, "id"), update)
	if err != nil {
		h.writeError(w, r, "*Handler.updateEntry", err)
		return
	}

	utils.WriteJSON(w, entry, http.StatusOK)
}

func (h *Handler) deleteEntry(w http.ResponseWriter, r *http.Request) {
	vault, err := h.vault(r)
	if err != nil {
		h.writeError(w, r, "*Handler.deleteEntry", err)
		return
	}

	existed, err := vault.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, "*Handler.deleteEntry", err)
		return
	}
	if !existed {
		h.writeError(w, r, "*Handler.deleteEntry", service.ErrEntryNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) entryCode(w http.ResponseWriter, r *http.Request) {
	vault, err := h.vault(r)
	if err != nil {
		h.writeError(w, r, "*Handler.entryCode", err)
		return
	}

	code, err := vault.EntryCode(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, "*Handler.entryCode", err)
		return
	}

	utils.WriteJSON(w, code, http.StatusOK)
}

func (h *Handler) entryQR(w http.ResponseWriter, r *http.Request) {
	vault, err := h.vault(r)
	if err != nil {
		h.writeError(w, r, "*Handler.entryQR", err)
		return
	}

	uri, err := vault.EntryProvisioningURI(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, "*Handler.entryQR", err)
		return
	}

	h.writeQR(w, r, "*Handler.entryQR", uri)
}

// listCategories returns the categories clients offer when creating entries.
func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, models.KnownCategories, http.StatusOK)
}
