package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

type PriceOption struct {
	Days     int     `json:"days"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type PriceTable struct {
	Homepage    []PriceOption `json:"homepage"`
	CategoryTop []PriceOption `json:"category_top"`
}

type ConfigLimits struct {
	HomepageMaxSlots int `json:"homepage_max_slots"`
}

type ConfigSettings struct {
	Rotation string `json:"rotation"`
}

// PricingConfig is the single admin-managed document behind the public
// config endpoint: price tiers per placement, payment wallets per chain,
// slot limits and rotation settings.
type PricingConfig struct {
	Prices   PriceTable        `json:"prices"`
	Wallets  map[string]string `json:"wallets"`
	Limits   ConfigLimits      `json:"limits"`
	Settings ConfigSettings    `json:"settings"`
}

// OptionsFor returns the price tiers for a placement. An unknown placement
// yields nil, which callers treat the same as an empty tier list.
func (c PricingConfig) OptionsFor(placement string) []PriceOption {
	switch strings.TrimSpace(placement) {
	case PlacementHomepage:
		return c.Prices.Homepage
	case PlacementCategoryTop:
		return c.Prices.CategoryTop
	}
	return nil
}

// LookupPrice finds the option whose days match exactly. The scan is linear
// and the first match wins, matching the display rule for the price label.
func (c PricingConfig) LookupPrice(placement string, durationDays int) (PriceOption, bool) {
	for _, opt := range c.OptionsFor(placement) {
		if opt.Days == durationDays {
			return opt, true
		}
	}
	return PriceOption{}, false
}

// ChainsAvailable lists the chains that have a wallet configured, sorted for
// stable output.
func (c PricingConfig) ChainsAvailable() []string {
	chains := make([]string, 0, len(c.Wallets))
	for chain, addr := range c.Wallets {
		if strings.TrimSpace(addr) == "" {
			continue
		}
		chains = append(chains, chain)
	}
	sort.Strings(chains)
	return chains
}

func (c PricingConfig) WalletFor(chain string) (string, bool) {
	addr, ok := c.Wallets[strings.TrimSpace(chain)]
	if !ok || strings.TrimSpace(addr) == "" {
		return "", false
	}
	return addr, true
}

func (c PricingConfig) Validate() error {
	if err := validateOptions(PlacementHomepage, c.Prices.Homepage); err != nil {
		return err
	}
	if err := validateOptions(PlacementCategoryTop, c.Prices.CategoryTop); err != nil {
		return err
	}
	for chain, addr := range c.Wallets {
		if strings.TrimSpace(chain) == "" {
			return fmt.Errorf("config: empty chain key in wallets")
		}
		if strings.TrimSpace(addr) == "" {
			return fmt.Errorf("config: wallet address for chain %s is empty", chain)
		}
	}
	if c.Limits.HomepageMaxSlots < 0 {
		return fmt.Errorf("config: homepage_max_slots must not be negative")
	}
	return nil
}

func validateOptions(placement string, options []PriceOption) error {
	if len(options) == 0 {
		return fmt.Errorf("config: no price options for placement %s", placement)
	}
	seen := make(map[int]struct{}, len(options))
	for _, opt := range options {
		if opt.Days <= 0 {
			return fmt.Errorf("config: %s: days must be positive, got %d", placement, opt.Days)
		}
		if opt.Amount <= 0 {
			return fmt.Errorf("config: %s: amount must be positive for %d days", placement, opt.Days)
		}
		if strings.TrimSpace(opt.Currency) == "" {
			return fmt.Errorf("config: %s: currency is required for %d days", placement, opt.Days)
		}
		if _, dup := seen[opt.Days]; dup {
			return fmt.Errorf("config: %s: duplicate tier for %d days", placement, opt.Days)
		}
		seen[opt.Days] = struct{}{}
	}
	return nil
}

func (c PricingConfig) Marshal() (string, error) {
	payload, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

func ParsePricingConfig(raw string) (PricingConfig, error) {
	var cfg PricingConfig
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return cfg, ErrConfigNotFound
	}
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Config patch sections and fields. Patches are typed per field instead of
// mutating arbitrary string paths so an admin client cannot write keys the
// schema does not know about.
const (
	PatchSectionPrices   = "prices"
	PatchSectionWallets  = "wallets"
	PatchSectionLimits   = "limits"
	PatchSectionSettings = "settings"
)

type ConfigPatch struct {
	Section string `json:"section"`
	Field   string `json:"field"`

	Options []PriceOption `json:"options,omitempty"`
	Address string        `json:"address,omitempty"`
	Value   int           `json:"value,omitempty"`
	Text    string        `json:"text,omitempty"`
}

// ApplyPatch returns a copy of the config with a single field replaced.
func (c PricingConfig) ApplyPatch(p ConfigPatch) (PricingConfig, error) {
	out := c
	out.Wallets = make(map[string]string, len(c.Wallets))
	for k, v := range c.Wallets {
		out.Wallets[k] = v
	}

	switch p.Section {
	case PatchSectionPrices:
		switch p.Field {
		case PlacementHomepage:
			out.Prices.Homepage = p.Options
		case PlacementCategoryTop:
			out.Prices.CategoryTop = p.Options
		default:
			return PricingConfig{}, fmt.Errorf("config patch: unknown placement %q", p.Field)
		}
	case PatchSectionWallets:
		chain := strings.TrimSpace(p.Field)
		if chain == "" {
			return PricingConfig{}, fmt.Errorf("config patch: wallet chain is required")
		}
		if strings.TrimSpace(p.Address) == "" {
			delete(out.Wallets, chain)
		} else {
			out.Wallets[chain] = p.Address
		}
	case PatchSectionLimits:
		if p.Field != "homepage_max_slots" {
			return PricingConfig{}, fmt.Errorf("config patch: unknown limit %q", p.Field)
		}
		out.Limits.HomepageMaxSlots = p.Value
	case PatchSectionSettings:
		if p.Field != "rotation" {
			return PricingConfig{}, fmt.Errorf("config patch: unknown setting %q", p.Field)
		}
		out.Settings.Rotation = p.Text
	default:
		return PricingConfig{}, fmt.Errorf("config patch: unknown section %q", p.Section)
	}

	if err := out.Validate(); err != nil {
		return PricingConfig{}, err
	}
	return out, nil
}
