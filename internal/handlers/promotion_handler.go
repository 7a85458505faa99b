package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"bazarBack/internal/models"
	"bazarBack/internal/services"
)

type PromotionHandler struct {
	Service *services.PromotionService
	Clicks  *services.ClickService
}

func (h *PromotionHandler) CreatePromotion(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(int)
	if !ok || userID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req models.PromotionCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	promotion, err := h.Service.CreatePromotion(r.Context(), userID, req)
	if err != nil {
		respondError(w, promotionErrorStatus(err), err.Error())
		return
	}

	respondData(w, http.StatusCreated, map[string]any{
		"promotion": promotion,
		"payment": map[string]any{
			"wallet_address": promotion.Payment.WalletAddress,
			"qr_data_url":    promotion.Payment.QRDataURL,
		},
	})
}

func (h *PromotionHandler) SubmitPaymentProof(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(int)
	if !ok || userID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	promotionID, err := strconv.Atoi(getParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid promotion ID")
		return
	}

	var req models.PaymentProofRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	promotion, err := h.Service.SubmitPaymentProof(r.Context(), userID, promotionID, req)
	if err != nil {
		respondError(w, promotionErrorStatus(err), err.Error())
		return
	}

	respondData(w, http.StatusOK, map[string]any{
		"promotion": promotion,
		"status":    promotion.Status,
	})
}

// TrackClick always answers 204. A tracking failure must never interrupt the
// navigation the click belongs to, so the increment errors stay server-side.
func (h *PromotionHandler) TrackClick(w http.ResponseWriter, r *http.Request) {
	promotionID, err := strconv.Atoi(getParam(r, "id"))
	if err == nil && h.Clicks != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		h.Clicks.TrackClick(ctx, promotionID)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PromotionHandler) GetMyPromotions(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(int)
	if !ok || userID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	promotions, err := h.Service.MyPromotions(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondData(w, http.StatusOK, promotions)
}

func (h *PromotionHandler) GetActiveTopForCategory(w http.ResponseWriter, r *http.Request) {
	category := getParam(r, "category")
	if category == "" {
		respondError(w, http.StatusBadRequest, "Missing category")
		return
	}

	promotions, err := h.Service.ActiveTopForCategory(r.Context(), category)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondData(w, http.StatusOK, promotions)
}

func (h *PromotionHandler) GetActiveHomepage(w http.ResponseWriter, r *http.Request) {
	promotions, err := h.Service.ActiveHomepage(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondData(w, http.StatusOK, promotions)
}

func (h *PromotionHandler) ApprovePromotion(w http.ResponseWriter, r *http.Request) {
	promotionID, err := strconv.Atoi(getParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid promotion ID")
		return
	}

	promotion, err := h.Service.ApprovePromotion(r.Context(), promotionID)
	if err != nil {
		respondError(w, promotionErrorStatus(err), err.Error())
		return
	}
	respondData(w, http.StatusOK, promotion)
}

func (h *PromotionHandler) RejectPromotion(w http.ResponseWriter, r *http.Request) {
	promotionID, err := strconv.Atoi(getParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid promotion ID")
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	promotion, err := h.Service.RejectPromotion(r.Context(), promotionID, req.Reason)
	if err != nil {
		respondError(w, promotionErrorStatus(err), err.Error())
		return
	}
	respondData(w, http.StatusOK, promotion)
}

func (h *PromotionHandler) GetPromotionsByStatus(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "" {
		respondError(w, http.StatusBadRequest, "Missing status")
		return
	}

	promotions, err := h.Service.PromotionsByStatus(r.Context(), status)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondData(w, http.StatusOK, promotions)
}

func promotionErrorStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidPlacement),
		errors.Is(err, models.ErrInvalidDuration),
		errors.Is(err, models.ErrInvalidChain),
		errors.Is(err, models.ErrInvalidListingID),
		errors.Is(err, models.ErrMissingTxHash),
		errors.Is(err, models.ErrMissingScreenshot):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrListingNotFound),
		errors.Is(err, models.ErrPromotionNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrListingForbidden),
		errors.Is(err, services.ErrPromotionForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrPromotionConflict),
		errors.Is(err, models.ErrInvalidStatusTransition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
