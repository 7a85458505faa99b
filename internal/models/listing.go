package models

import (
	"fmt"
	"strings"
	"time"
)

// Listing categories mirror the marketplace verticals that can be promoted.
const (
	CategoryRental  = "rental"
	CategorySale    = "sale"
	CategoryService = "service"
)

var allowedListingCategories = map[string]struct{}{
	CategoryRental:  {},
	CategorySale:    {},
	CategoryService: {},
}

type Listing struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	City        string    `json:"city,omitempty"`
	ImagePath   string    `json:"image_path,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

func (l Listing) Validate() error {
	if strings.TrimSpace(l.Title) == "" {
		return fmt.Errorf("listing title is required")
	}
	if !IsAllowedListingCategory(l.Category) {
		return fmt.Errorf("unsupported listing category: %s", l.Category)
	}
	return nil
}

func IsAllowedListingCategory(category string) bool {
	_, ok := allowedListingCategories[strings.TrimSpace(category)]
	return ok
}

// NormalizeListingStatus defaults the stored status so empty values coming
// from older clients are still counted as non-archived listings.
func NormalizeListingStatus(status string) string {
	status = strings.TrimSpace(status)
	if status == "" {
		return "pending"
	}
	return status
}
