package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	qrcode "github.com/skip2/go-qrcode"

	"bazarBack/internal/models"
)

var (
	ErrPromotionForbidden = errors.New("user is not allowed to manage this promotion")
)

type promotionStore interface {
	CreatePromotion(ctx context.Context, p models.Promotion) (models.Promotion, error)
	GetPromotionByID(ctx context.Context, id int) (models.Promotion, error)
	SetPaymentProof(ctx context.Context, id int, txHash, screenshotURL string) (models.Promotion, error)
	ApprovePromotion(ctx context.Context, id int, activatedAt, expiresAt time.Time) (models.Promotion, error)
	RejectPromotion(ctx context.Context, id int, reason string) (models.Promotion, error)
	GetPromotionsByUserID(ctx context.Context, userID int) ([]models.Promotion, error)
	GetActiveTopByCategory(ctx context.Context, category, rotation string) ([]models.Promotion, error)
	GetActiveHomepage(ctx context.Context, rotation string, limit int) ([]models.Promotion, error)
	GetPromotionsByStatus(ctx context.Context, status string) ([]models.Promotion, error)
	ExpireActive(ctx context.Context, now time.Time) (int, error)
}

type listingStore interface {
	GetOwnerID(ctx context.Context, listingID int) (int, error)
}

type configProvider interface {
	Current(ctx context.Context) (models.PricingConfig, error)
}

type clickCounter interface {
	PendingClicks(ctx context.Context, promotionID int) (int64, error)
}

type PromotionService struct {
	Repo        promotionStore
	ListingRepo listingStore
	Config      configProvider
	Clicks      clickCounter
}

// CreatePromotion is the single mutation that creates the durable order. It
// validates the request against the current pricing config, snapshots the
// price and wallet for the chosen chain, and renders the payment QR code.
func (s *PromotionService) CreatePromotion(ctx context.Context, userID int, req models.PromotionCreateRequest) (models.Promotion, error) {
	if err := req.Validate(); err != nil {
		return models.Promotion{}, err
	}

	ownerID, err := s.ListingRepo.GetOwnerID(ctx, req.ListingID)
	if err != nil {
		return models.Promotion{}, err
	}
	if ownerID != userID {
		return models.Promotion{}, models.ErrListingForbidden
	}

	cfg, err := s.Config.Current(ctx)
	if err != nil {
		return models.Promotion{}, err
	}

	option, ok := cfg.LookupPrice(req.Placement, req.DurationDays)
	if !ok {
		return models.Promotion{}, fmt.Errorf("%w: no %d-day tier for placement %s", models.ErrInvalidDuration, req.DurationDays, req.Placement)
	}
	wallet, ok := cfg.WalletFor(req.Chain)
	if !ok {
		return models.Promotion{}, fmt.Errorf("%w: no wallet configured for %s", models.ErrInvalidChain, req.Chain)
	}

	qrDataURL, err := paymentQRDataURL(wallet)
	if err != nil {
		// The wallet address is still in the response; a broken QR render
		// must not block the purchase.
		qrDataURL = ""
	}

	promotion := models.Promotion{
		ListingID: req.ListingID,
		UserID:    userID,
		Pricing: models.PricingSnapshot{
			Placement:    strings.TrimSpace(req.Placement),
			DurationDays: req.DurationDays,
			Amount:       option.Amount,
			Currency:     option.Currency,
			Chain:        strings.TrimSpace(req.Chain),
		},
		Payment: models.PaymentInfo{
			WalletAddress: wallet,
			QRDataURL:     qrDataURL,
		},
	}
	return s.Repo.CreatePromotion(ctx, promotion)
}

// SubmitPaymentProof attaches the transaction hash and screenshot to a
// pending order and moves it to review.
func (s *PromotionService) SubmitPaymentProof(ctx context.Context, userID, promotionID int, req models.PaymentProofRequest) (models.Promotion, error) {
	if err := req.Validate(); err != nil {
		return models.Promotion{}, err
	}

	promotion, err := s.Repo.GetPromotionByID(ctx, promotionID)
	if err != nil {
		return models.Promotion{}, err
	}
	if promotion.UserID != userID {
		return models.Promotion{}, ErrPromotionForbidden
	}

	return s.Repo.SetPaymentProof(ctx, promotionID, strings.TrimSpace(req.TxHash), strings.TrimSpace(req.ScreenshotURL))
}

func (s *PromotionService) ApprovePromotion(ctx context.Context, promotionID int) (models.Promotion, error) {
	promotion, err := s.Repo.GetPromotionByID(ctx, promotionID)
	if err != nil {
		return models.Promotion{}, err
	}
	activatedAt, expiresAt, err := models.ActivationWindow(time.Now(), promotion.Pricing.DurationDays)
	if err != nil {
		return models.Promotion{}, err
	}
	return s.Repo.ApprovePromotion(ctx, promotionID, activatedAt, expiresAt)
}

func (s *PromotionService) RejectPromotion(ctx context.Context, promotionID int, reason string) (models.Promotion, error) {
	return s.Repo.RejectPromotion(ctx, promotionID, strings.TrimSpace(reason))
}

// MyPromotions lists the caller's orders with buffered click counts merged in
// so the display does not lag a flush interval behind.
func (s *PromotionService) MyPromotions(ctx context.Context, userID int) ([]models.Promotion, error) {
	promotions, err := s.Repo.GetPromotionsByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if s.Clicks == nil {
		return promotions, nil
	}
	for i := range promotions {
		pending, err := s.Clicks.PendingClicks(ctx, promotions[i].ID)
		if err != nil {
			continue
		}
		promotions[i].Clicks += pending
	}
	return promotions, nil
}

func (s *PromotionService) ActiveTopForCategory(ctx context.Context, category string) ([]models.Promotion, error) {
	if !models.IsAllowedListingCategory(category) {
		return nil, fmt.Errorf("unsupported listing category: %s", category)
	}
	cfg, err := s.Config.Current(ctx)
	if err != nil {
		return nil, err
	}
	return s.Repo.GetActiveTopByCategory(ctx, category, cfg.Settings.Rotation)
}

func (s *PromotionService) ActiveHomepage(ctx context.Context) ([]models.Promotion, error) {
	cfg, err := s.Config.Current(ctx)
	if err != nil {
		return nil, err
	}
	return s.Repo.GetActiveHomepage(ctx, cfg.Settings.Rotation, cfg.Limits.HomepageMaxSlots)
}

func (s *PromotionService) PromotionsByStatus(ctx context.Context, status string) ([]models.Promotion, error) {
	return s.Repo.GetPromotionsByStatus(ctx, status)
}

func (s *PromotionService) ExpirePromotions(ctx context.Context, now time.Time) (int, error) {
	if s == nil || s.Repo == nil {
		return 0, nil
	}
	if now.IsZero() {
		now = time.Now()
	}
	return s.Repo.ExpireActive(ctx, now.UTC())
}

func paymentQRDataURL(walletAddress string) (string, error) {
	png, err := qrcode.Encode(walletAddress, qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
