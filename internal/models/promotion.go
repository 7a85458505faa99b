package models

import (
	"fmt"
	"strings"
	"time"
)

// Placements a promoted listing can occupy.
const (
	PlacementHomepage    = "homepage"
	PlacementCategoryTop = "category_top"
)

var allowedPlacements = map[string]struct{}{
	PlacementHomepage:    {},
	PlacementCategoryTop: {},
}

// PricingSnapshot is taken at creation time and never mutated afterwards:
// later price changes in the admin config must not affect an existing order.
type PricingSnapshot struct {
	Placement    string  `json:"placement"`
	DurationDays int     `json:"duration_days"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
	Chain        string  `json:"chain"`
}

type PaymentInfo struct {
	WalletAddress string `json:"wallet_address"`
	TxHash        string `json:"tx_hash,omitempty"`
	ScreenshotURL string `json:"screenshot_url,omitempty"`
	QRDataURL     string `json:"qr_data_url,omitempty"`
}

type Promotion struct {
	ID           int             `json:"id"`
	ListingID    int             `json:"listing_id"`
	UserID       int             `json:"user_id"`
	Pricing      PricingSnapshot `json:"pricing"`
	Payment      PaymentInfo     `json:"payment"`
	Status       string          `json:"status"`
	RejectReason string          `json:"reject_reason,omitempty"`
	Clicks       int64           `json:"clicks"`
	ActivatedAt  *time.Time      `json:"activated_at,omitempty"`
	ExpiresAt    *time.Time      `json:"expires_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at,omitempty"`

	// Denormalized for display surfaces.
	Listing *Listing `json:"listing,omitempty"`
}

type PromotionCreateRequest struct {
	ListingID    int    `json:"listing_id"`
	Placement    string `json:"placement"`
	DurationDays int    `json:"duration_days"`
	Chain        string `json:"chain"`
}

func (r PromotionCreateRequest) Validate() error {
	if r.ListingID <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidListingID, r.ListingID)
	}
	placement := strings.TrimSpace(r.Placement)
	if _, ok := allowedPlacements[placement]; !ok {
		return fmt.Errorf("%w: %s", ErrInvalidPlacement, placement)
	}
	if r.DurationDays <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidDuration, r.DurationDays)
	}
	if strings.TrimSpace(r.Chain) == "" {
		return ErrInvalidChain
	}
	return nil
}

type PaymentProofRequest struct {
	TxHash        string `json:"tx_hash"`
	ScreenshotURL string `json:"screenshot_url"`
}

func (r PaymentProofRequest) Validate() error {
	if strings.TrimSpace(r.TxHash) == "" {
		return ErrMissingTxHash
	}
	if strings.TrimSpace(r.ScreenshotURL) == "" {
		return ErrMissingScreenshot
	}
	return nil
}

func IsAllowedPlacement(placement string) bool {
	_, ok := allowedPlacements[strings.TrimSpace(placement)]
	return ok
}

// ActivationWindow computes the active period stamped when a review approves
// the order. Times are stored in UTC.
func ActivationWindow(now time.Time, durationDays int) (time.Time, time.Time, error) {
	if durationDays <= 0 {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %d", ErrInvalidDuration, durationDays)
	}
	now = now.UTC()
	return now, now.AddDate(0, 0, durationDays), nil
}
