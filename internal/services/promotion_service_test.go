package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"bazarBack/internal/models"
)

type fakePromotionStore struct {
	created     []models.Promotion
	proofCalls  int
	promotions  map[int]models.Promotion
	createErr   error
	lastTxHash  string
	lastScreens string
}

func (f *fakePromotionStore) CreatePromotion(_ context.Context, p models.Promotion) (models.Promotion, error) {
	if f.createErr != nil {
		return models.Promotion{}, f.createErr
	}
	p.ID = len(f.created) + 1
	p.Status = "pending_payment"
	f.created = append(f.created, p)
	return p, nil
}

func (f *fakePromotionStore) GetPromotionByID(_ context.Context, id int) (models.Promotion, error) {
	p, ok := f.promotions[id]
	if !ok {
		return models.Promotion{}, models.ErrPromotionNotFound
	}
	return p, nil
}

func (f *fakePromotionStore) SetPaymentProof(_ context.Context, id int, txHash, screenshotURL string) (models.Promotion, error) {
	f.proofCalls++
	f.lastTxHash = txHash
	f.lastScreens = screenshotURL
	p := f.promotions[id]
	p.Payment.TxHash = txHash
	p.Payment.ScreenshotURL = screenshotURL
	p.Status = "pending_review"
	f.promotions[id] = p
	return p, nil
}

func (f *fakePromotionStore) ApprovePromotion(_ context.Context, id int, activatedAt, expiresAt time.Time) (models.Promotion, error) {
	p := f.promotions[id]
	p.Status = "active"
	p.ActivatedAt = &activatedAt
	p.ExpiresAt = &expiresAt
	f.promotions[id] = p
	return p, nil
}

func (f *fakePromotionStore) RejectPromotion(_ context.Context, id int, reason string) (models.Promotion, error) {
	p := f.promotions[id]
	p.Status = "rejected"
	p.RejectReason = reason
	f.promotions[id] = p
	return p, nil
}

func (f *fakePromotionStore) GetPromotionsByUserID(_ context.Context, userID int) ([]models.Promotion, error) {
	var out []models.Promotion
	for _, p := range f.promotions {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePromotionStore) GetActiveTopByCategory(_ context.Context, _, _ string) ([]models.Promotion, error) {
	return nil, nil
}

func (f *fakePromotionStore) GetActiveHomepage(_ context.Context, _ string, _ int) ([]models.Promotion, error) {
	return nil, nil
}

func (f *fakePromotionStore) GetPromotionsByStatus(_ context.Context, _ string) ([]models.Promotion, error) {
	return nil, nil
}

func (f *fakePromotionStore) ExpireActive(_ context.Context, _ time.Time) (int, error) {
	return 0, nil
}

type fakeListingStore struct {
	owners map[int]int
}

func (f *fakeListingStore) GetOwnerID(_ context.Context, listingID int) (int, error) {
	owner, ok := f.owners[listingID]
	if !ok {
		return 0, models.ErrListingNotFound
	}
	return owner, nil
}

type fakeConfigProvider struct {
	cfg models.PricingConfig
	err error
}

func (f *fakeConfigProvider) Current(_ context.Context) (models.PricingConfig, error) {
	return f.cfg, f.err
}

type fakeClickCounter struct {
	pending map[int]int64
}

func (f *fakeClickCounter) PendingClicks(_ context.Context, id int) (int64, error) {
	return f.pending[id], nil
}

func testConfig() models.PricingConfig {
	return models.PricingConfig{
		Prices: models.PriceTable{
			Homepage:    []models.PriceOption{{Days: 7, Amount: 10, Currency: "USDT"}, {Days: 14, Amount: 18, Currency: "USDT"}},
			CategoryTop: []models.PriceOption{{Days: 7, Amount: 5, Currency: "USDT"}},
		},
		Wallets:  map[string]string{"TRC20": "TWallet123"},
		Limits:   models.ConfigLimits{HomepageMaxSlots: 3},
		Settings: models.ConfigSettings{Rotation: "recent"},
	}
}

func newTestService(store *fakePromotionStore) *PromotionService {
	return &PromotionService{
		Repo:        store,
		ListingRepo: &fakeListingStore{owners: map[int]int{10: 1}},
		Config:      &fakeConfigProvider{cfg: testConfig()},
	}
}

func TestCreatePromotionSnapshotsPriceAndWallet(t *testing.T) {
	store := &fakePromotionStore{promotions: map[int]models.Promotion{}}
	svc := newTestService(store)

	created, err := svc.CreatePromotion(context.Background(), 1, models.PromotionCreateRequest{
		ListingID:    10,
		Placement:    models.PlacementHomepage,
		DurationDays: 7,
		Chain:        "TRC20",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if created.Pricing.Amount != 10 || created.Pricing.Currency != "USDT" {
		t.Fatalf("price snapshot wrong: %+v", created.Pricing)
	}
	if created.Payment.WalletAddress != "TWallet123" {
		t.Fatalf("wallet snapshot wrong: %+v", created.Payment)
	}
	if !strings.HasPrefix(created.Payment.QRDataURL, "data:image/png;base64,") {
		t.Fatalf("expected QR data url, got %q", created.Payment.QRDataURL)
	}
	if len(store.created) != 1 {
		t.Fatalf("expected one created promotion, got %d", len(store.created))
	}
}

func TestCreatePromotionRejectsInvalidSelections(t *testing.T) {
	cases := []struct {
		name    string
		req     models.PromotionCreateRequest
		userID  int
		wantErr error
	}{
		{
			"duration without tier",
			models.PromotionCreateRequest{ListingID: 10, Placement: models.PlacementHomepage, DurationDays: 30, Chain: "TRC20"},
			1, models.ErrInvalidDuration,
		},
		{
			"chain without wallet",
			models.PromotionCreateRequest{ListingID: 10, Placement: models.PlacementHomepage, DurationDays: 7, Chain: "ERC20"},
			1, models.ErrInvalidChain,
		},
		{
			"unknown placement",
			models.PromotionCreateRequest{ListingID: 10, Placement: "sidebar", DurationDays: 7, Chain: "TRC20"},
			1, models.ErrInvalidPlacement,
		},
		{
			"foreign listing",
			models.PromotionCreateRequest{ListingID: 10, Placement: models.PlacementHomepage, DurationDays: 7, Chain: "TRC20"},
			2, models.ErrListingForbidden,
		},
		{
			"missing listing",
			models.PromotionCreateRequest{ListingID: 99, Placement: models.PlacementHomepage, DurationDays: 7, Chain: "TRC20"},
			1, models.ErrListingNotFound,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &fakePromotionStore{promotions: map[int]models.Promotion{}}
			svc := newTestService(store)

			_, err := svc.CreatePromotion(context.Background(), tc.userID, tc.req)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if len(store.created) != 0 {
				t.Fatal("no promotion must be created on validation failure")
			}
		})
	}
}

func TestCreatePromotionSurfacesConflict(t *testing.T) {
	store := &fakePromotionStore{promotions: map[int]models.Promotion{}, createErr: models.ErrPromotionConflict}
	svc := newTestService(store)

	_, err := svc.CreatePromotion(context.Background(), 1, models.PromotionCreateRequest{
		ListingID:    10,
		Placement:    models.PlacementHomepage,
		DurationDays: 7,
		Chain:        "TRC20",
	})
	if !errors.Is(err, models.ErrPromotionConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestSubmitPaymentProofGating(t *testing.T) {
	store := &fakePromotionStore{promotions: map[int]models.Promotion{
		5: {ID: 5, UserID: 1, Status: "pending_payment"},
	}}
	svc := newTestService(store)

	// Missing fields must never reach the repository.
	if _, err := svc.SubmitPaymentProof(context.Background(), 1, 5, models.PaymentProofRequest{ScreenshotURL: "https://cdn/x.png"}); !errors.Is(err, models.ErrMissingTxHash) {
		t.Fatalf("expected ErrMissingTxHash, got %v", err)
	}
	if _, err := svc.SubmitPaymentProof(context.Background(), 1, 5, models.PaymentProofRequest{TxHash: "0xabc"}); !errors.Is(err, models.ErrMissingScreenshot) {
		t.Fatalf("expected ErrMissingScreenshot, got %v", err)
	}
	if store.proofCalls != 0 {
		t.Fatalf("repository called %d times despite failed gating", store.proofCalls)
	}

	// A non-owner must not attach proof.
	if _, err := svc.SubmitPaymentProof(context.Background(), 2, 5, models.PaymentProofRequest{TxHash: "0xabc", ScreenshotURL: "https://cdn/x.png"}); !errors.Is(err, ErrPromotionForbidden) {
		t.Fatalf("expected ErrPromotionForbidden, got %v", err)
	}

	updated, err := svc.SubmitPaymentProof(context.Background(), 1, 5, models.PaymentProofRequest{TxHash: " 0xabc ", ScreenshotURL: "https://cdn/x.png"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != "pending_review" {
		t.Fatalf("expected pending_review, got %s", updated.Status)
	}
	if store.lastTxHash != "0xabc" {
		t.Fatalf("tx hash not trimmed: %q", store.lastTxHash)
	}
}

func TestMyPromotionsMergesPendingClicks(t *testing.T) {
	store := &fakePromotionStore{promotions: map[int]models.Promotion{
		7: {ID: 7, UserID: 1, Status: "active", Clicks: 40},
	}}
	svc := newTestService(store)
	svc.Clicks = &fakeClickCounter{pending: map[int]int64{7: 2}}

	promotions, err := svc.MyPromotions(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(promotions) != 1 {
		t.Fatalf("expected 1 promotion, got %d", len(promotions))
	}
	if promotions[0].Clicks != 42 {
		t.Fatalf("expected merged clicks 42, got %d", promotions[0].Clicks)
	}
}

func TestActiveTopForCategoryRejectsUnknownCategory(t *testing.T) {
	svc := newTestService(&fakePromotionStore{promotions: map[int]models.Promotion{}})
	if _, err := svc.ActiveTopForCategory(context.Background(), "vehicles"); err == nil {
		t.Fatal("expected error for unknown category")
	}
}
