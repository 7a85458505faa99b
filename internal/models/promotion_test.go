package models

import (
	"errors"
	"testing"
	"time"
)

func TestPromotionCreateRequestValidate(t *testing.T) {
	valid := PromotionCreateRequest{
		ListingID:    12,
		Placement:    PlacementHomepage,
		DurationDays: 7,
		Chain:        "TRC20",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	cases := []struct {
		name    string
		mutate  func(*PromotionCreateRequest)
		wantErr error
	}{
		{"zero listing", func(r *PromotionCreateRequest) { r.ListingID = 0 }, ErrInvalidListingID},
		{"unknown placement", func(r *PromotionCreateRequest) { r.Placement = "sidebar" }, ErrInvalidPlacement},
		{"empty placement", func(r *PromotionCreateRequest) { r.Placement = "" }, ErrInvalidPlacement},
		{"zero duration", func(r *PromotionCreateRequest) { r.DurationDays = 0 }, ErrInvalidDuration},
		{"empty chain", func(r *PromotionCreateRequest) { r.Chain = "  " }, ErrInvalidChain},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := valid
			tc.mutate(&req)
			err := req.Validate()
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestPaymentProofRequestValidate(t *testing.T) {
	if err := (PaymentProofRequest{TxHash: "0xabc", ScreenshotURL: "https://cdn/x.png"}).Validate(); err != nil {
		t.Fatalf("valid proof rejected: %v", err)
	}
	if err := (PaymentProofRequest{ScreenshotURL: "https://cdn/x.png"}).Validate(); !errors.Is(err, ErrMissingTxHash) {
		t.Fatalf("expected ErrMissingTxHash, got %v", err)
	}
	if err := (PaymentProofRequest{TxHash: "0xabc"}).Validate(); !errors.Is(err, ErrMissingScreenshot) {
		t.Fatalf("expected ErrMissingScreenshot, got %v", err)
	}
}

func TestActivationWindow(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	activatedAt, expiresAt, err := ActivationWindow(now, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !activatedAt.Equal(now) {
		t.Fatalf("unexpected activation time: %v", activatedAt)
	}
	if want := now.AddDate(0, 0, 7); !expiresAt.Equal(want) {
		t.Fatalf("expected expiry %v, got %v", want, expiresAt)
	}

	if _, _, err := ActivationWindow(now, 0); !errors.Is(err, ErrInvalidDuration) {
		t.Fatalf("expected ErrInvalidDuration, got %v", err)
	}
}
