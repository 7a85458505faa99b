package services

import (
	"context"

	"bazarBack/internal/models"
	"bazarBack/internal/repositories"
)

type ListingService struct {
	ListingRepo *repositories.ListingRepository
}

func (s *ListingService) CreateListing(ctx context.Context, listing models.Listing) (models.Listing, error) {
	if err := listing.Validate(); err != nil {
		return models.Listing{}, err
	}
	return s.ListingRepo.CreateListing(ctx, listing)
}

func (s *ListingService) GetListingByID(ctx context.Context, id int) (models.Listing, error) {
	return s.ListingRepo.GetListingByID(ctx, id)
}

func (s *ListingService) GetListingsByUserID(ctx context.Context, userID int) ([]models.Listing, error) {
	return s.ListingRepo.GetListingsByUserID(ctx, userID)
}
