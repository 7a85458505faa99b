package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"bazarBack/internal/models"
	"bazarBack/internal/services"
)

type ConfigHandler struct {
	Service *services.ConfigService
}

func (h *ConfigHandler) GetPublicConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.Service.PublicView(r.Context())
	if err != nil {
		if errors.Is(err, models.ErrConfigNotFound) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondData(w, http.StatusOK, cfg)
}

func (h *ConfigHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.Service.Current(r.Context())
	if err != nil {
		if errors.Is(err, models.ErrConfigNotFound) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondData(w, http.StatusOK, cfg)
}

func (h *ConfigHandler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	var cfg models.PricingConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.Service.ReplaceConfig(r.Context(), cfg); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondData(w, http.StatusOK, cfg)
}

func (h *ConfigHandler) PatchConfig(w http.ResponseWriter, r *http.Request) {
	var patch models.ConfigPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.Service.PatchConfig(r.Context(), patch)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondData(w, http.StatusOK, updated)
}
