package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"bazarBack/internal/models"
)

var (
	ErrListingNotFound = models.ErrListingNotFound
)

type ListingRepository struct {
	DB *sql.DB
}

func (r *ListingRepository) CreateListing(ctx context.Context, listing models.Listing) (models.Listing, error) {
	now := time.Now()
	listing.CreatedAt = now
	listing.UpdatedAt = now
	listing.Status = models.NormalizeListingStatus(listing.Status)

	query := `
		INSERT INTO listings (user_id, title, description, category, price, city, image_path, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := r.DB.ExecContext(ctx, query,
		listing.UserID, listing.Title, listing.Description, listing.Category,
		listing.Price, listing.City, listing.ImagePath, listing.Status,
		listing.CreatedAt, listing.UpdatedAt,
	)
	if err != nil {
		return models.Listing{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.Listing{}, err
	}
	listing.ID = int(id)
	return listing, nil
}

func (r *ListingRepository) GetListingByID(ctx context.Context, id int) (models.Listing, error) {
	var listing models.Listing
	query := `
		SELECT id, user_id, title, description, category, price, city, image_path, status, created_at, updated_at
		FROM listings
		WHERE id = ?
	`
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&listing.ID,
		&listing.UserID,
		&listing.Title,
		&listing.Description,
		&listing.Category,
		&listing.Price,
		&listing.City,
		&listing.ImagePath,
		&listing.Status,
		&listing.CreatedAt,
		&listing.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Listing{}, ErrListingNotFound
	}
	if err != nil {
		return models.Listing{}, err
	}
	return listing, nil
}

func (r *ListingRepository) GetOwnerID(ctx context.Context, listingID int) (int, error) {
	var ownerID int
	err := r.DB.QueryRowContext(ctx, `SELECT user_id FROM listings WHERE id = ?`, listingID).Scan(&ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrListingNotFound
	}
	if err != nil {
		return 0, err
	}
	return ownerID, nil
}

func (r *ListingRepository) GetListingsByUserID(ctx context.Context, userID int) ([]models.Listing, error) {
	query := `
		SELECT id, user_id, title, description, category, price, city, image_path, status, created_at, updated_at
		FROM listings
		WHERE user_id = ?
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []models.Listing
	for rows.Next() {
		var listing models.Listing
		if err := rows.Scan(
			&listing.ID,
			&listing.UserID,
			&listing.Title,
			&listing.Description,
			&listing.Category,
			&listing.Price,
			&listing.City,
			&listing.ImagePath,
			&listing.Status,
			&listing.CreatedAt,
			&listing.UpdatedAt,
		); err != nil {
			return nil, err
		}
		listings = append(listings, listing)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return listings, nil
}
