package models

import "testing"

func validConfig() PricingConfig {
	return PricingConfig{
		Prices: PriceTable{
			Homepage: []PriceOption{
				{Days: 7, Amount: 10, Currency: "USDT"},
				{Days: 14, Amount: 18, Currency: "USDT"},
			},
			CategoryTop: []PriceOption{
				{Days: 7, Amount: 5, Currency: "USDT"},
			},
		},
		Wallets: map[string]string{
			"TRC20": "TWalletAddress",
			"ERC20": "0xWalletAddress",
		},
		Limits:   ConfigLimits{HomepageMaxSlots: 5},
		Settings: ConfigSettings{Rotation: "recent"},
	}
}

func TestPricingConfigValidate(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*PricingConfig)
	}{
		{"empty homepage tiers", func(c *PricingConfig) { c.Prices.Homepage = nil }},
		{"empty category tiers", func(c *PricingConfig) { c.Prices.CategoryTop = nil }},
		{"zero days", func(c *PricingConfig) { c.Prices.Homepage[0].Days = 0 }},
		{"zero amount", func(c *PricingConfig) { c.Prices.Homepage[0].Amount = 0 }},
		{"missing currency", func(c *PricingConfig) { c.Prices.Homepage[0].Currency = "" }},
		{"duplicate tier", func(c *PricingConfig) { c.Prices.Homepage[1].Days = 7 }},
		{"empty wallet address", func(c *PricingConfig) { c.Wallets["TRC20"] = "" }},
		{"negative slots", func(c *PricingConfig) { c.Limits.HomepageMaxSlots = -1 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error, got nil")
			}
		})
	}
}

func TestLookupPrice(t *testing.T) {
	cfg := validConfig()

	opt, ok := cfg.LookupPrice(PlacementHomepage, 7)
	if !ok {
		t.Fatal("expected a 7-day homepage tier")
	}
	if opt.Amount != 10 || opt.Currency != "USDT" {
		t.Fatalf("unexpected option: %+v", opt)
	}

	if _, ok := cfg.LookupPrice(PlacementHomepage, 30); ok {
		t.Fatal("30 days has no homepage tier")
	}
	if _, ok := cfg.LookupPrice("sidebar", 7); ok {
		t.Fatal("unknown placement must not resolve")
	}
}

func TestChainsAvailable(t *testing.T) {
	cfg := validConfig()
	cfg.Wallets["BEP20"] = "  "

	chains := cfg.ChainsAvailable()
	if len(chains) != 2 {
		t.Fatalf("expected 2 chains, got %v", chains)
	}
	if chains[0] != "ERC20" || chains[1] != "TRC20" {
		t.Fatalf("expected sorted chains, got %v", chains)
	}
}

func TestApplyPatch(t *testing.T) {
	cfg := validConfig()

	t.Run("replace homepage tiers", func(t *testing.T) {
		updated, err := cfg.ApplyPatch(ConfigPatch{
			Section: PatchSectionPrices,
			Field:   PlacementHomepage,
			Options: []PriceOption{{Days: 3, Amount: 4, Currency: "USDT"}},
		})
		if err != nil {
			t.Fatalf("patch failed: %v", err)
		}
		if len(updated.Prices.Homepage) != 1 || updated.Prices.Homepage[0].Days != 3 {
			t.Fatalf("unexpected tiers: %+v", updated.Prices.Homepage)
		}
		// The original must be untouched.
		if len(cfg.Prices.Homepage) != 2 {
			t.Fatal("patch mutated the source config")
		}
	})

	t.Run("set wallet", func(t *testing.T) {
		updated, err := cfg.ApplyPatch(ConfigPatch{
			Section: PatchSectionWallets,
			Field:   "BEP20",
			Address: "bnbWallet",
		})
		if err != nil {
			t.Fatalf("patch failed: %v", err)
		}
		if updated.Wallets["BEP20"] != "bnbWallet" {
			t.Fatalf("wallet not set: %v", updated.Wallets)
		}
		if _, exists := cfg.Wallets["BEP20"]; exists {
			t.Fatal("patch mutated the source wallets map")
		}
	})

	t.Run("remove wallet with empty address", func(t *testing.T) {
		updated, err := cfg.ApplyPatch(ConfigPatch{
			Section: PatchSectionWallets,
			Field:   "ERC20",
		})
		if err != nil {
			t.Fatalf("patch failed: %v", err)
		}
		if _, exists := updated.Wallets["ERC20"]; exists {
			t.Fatal("expected ERC20 wallet to be removed")
		}
	})

	t.Run("limits and settings", func(t *testing.T) {
		updated, err := cfg.ApplyPatch(ConfigPatch{Section: PatchSectionLimits, Field: "homepage_max_slots", Value: 10})
		if err != nil {
			t.Fatalf("limits patch failed: %v", err)
		}
		if updated.Limits.HomepageMaxSlots != 10 {
			t.Fatalf("unexpected limit: %d", updated.Limits.HomepageMaxSlots)
		}

		updated, err = cfg.ApplyPatch(ConfigPatch{Section: PatchSectionSettings, Field: "rotation", Text: "random"})
		if err != nil {
			t.Fatalf("settings patch failed: %v", err)
		}
		if updated.Settings.Rotation != "random" {
			t.Fatalf("unexpected rotation: %s", updated.Settings.Rotation)
		}
	})

	t.Run("rejected patches", func(t *testing.T) {
		bad := []ConfigPatch{
			{Section: "unknown", Field: "x"},
			{Section: PatchSectionPrices, Field: "sidebar"},
			{Section: PatchSectionLimits, Field: "nope", Value: 1},
			{Section: PatchSectionSettings, Field: "nope", Text: "x"},
			{Section: PatchSectionWallets, Field: ""},
			// Emptying a placement's tiers must fail validation.
			{Section: PatchSectionPrices, Field: PlacementHomepage, Options: nil},
		}
		for _, patch := range bad {
			if _, err := cfg.ApplyPatch(patch); err == nil {
				t.Fatalf("expected error for patch %+v", patch)
			}
		}
	})
}

func TestParsePricingConfig(t *testing.T) {
	raw, err := validConfig().Marshal()
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	parsed, err := ParsePricingConfig(raw)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(parsed.Prices.Homepage) != 2 || parsed.Wallets["TRC20"] != "TWalletAddress" {
		t.Fatalf("round trip lost data: %+v", parsed)
	}

	if _, err := ParsePricingConfig(""); err != ErrConfigNotFound {
		t.Fatalf("expected ErrConfigNotFound for empty payload, got %v", err)
	}
}
