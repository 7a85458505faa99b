package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"bazarBack/internal/models"
	"bazarBack/internal/services"
)

type ListingHandler struct {
	Service *services.ListingService
}

func (h *ListingHandler) CreateListing(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(int)
	if !ok || userID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var listing models.Listing
	if err := json.NewDecoder(r.Body).Decode(&listing); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	listing.UserID = userID

	created, err := h.Service.CreateListing(r.Context(), listing)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondData(w, http.StatusCreated, created)
}

func (h *ListingHandler) GetListingByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(getParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid listing ID")
		return
	}

	listing, err := h.Service.GetListingByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrListingNotFound) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondData(w, http.StatusOK, listing)
}

func (h *ListingHandler) GetMyListings(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(int)
	if !ok || userID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	listings, err := h.Service.GetListingsByUserID(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondData(w, http.StatusOK, listings)
}
