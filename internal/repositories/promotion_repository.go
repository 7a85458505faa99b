package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"bazarBack/internal/models"
	"bazarBack/internal/promo"
)

var (
	ErrPromotionNotFound = models.ErrPromotionNotFound
)

type PromotionRepository struct {
	DB *sql.DB
}

const promotionColumns = `
	p.id, p.listing_id, p.user_id, p.placement, p.duration_days, p.amount, p.currency, p.chain,
	p.wallet_address, p.tx_hash, p.screenshot_url, p.qr_data_url,
	p.status, p.reject_reason, p.clicks, p.activated_at, p.expires_at, p.created_at, p.updated_at
`

func scanPromotion(scanner interface{ Scan(...any) error }) (models.Promotion, error) {
	var (
		p            models.Promotion
		txHash       sql.NullString
		screenshot   sql.NullString
		qrDataURL    sql.NullString
		rejectReason sql.NullString
		activatedAt  sql.NullTime
		expiresAt    sql.NullTime
	)
	err := scanner.Scan(
		&p.ID, &p.ListingID, &p.UserID,
		&p.Pricing.Placement, &p.Pricing.DurationDays, &p.Pricing.Amount, &p.Pricing.Currency, &p.Pricing.Chain,
		&p.Payment.WalletAddress, &txHash, &screenshot, &qrDataURL,
		&p.Status, &rejectReason, &p.Clicks, &activatedAt, &expiresAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return models.Promotion{}, err
	}
	p.Payment.TxHash = txHash.String
	p.Payment.ScreenshotURL = screenshot.String
	p.Payment.QRDataURL = qrDataURL.String
	p.RejectReason = rejectReason.String
	if activatedAt.Valid {
		t := activatedAt.Time
		p.ActivatedAt = &t
	}
	if expiresAt.Valid {
		t := expiresAt.Time
		p.ExpiresAt = &t
	}
	return p, nil
}

// CreatePromotion inserts a new pending order. The conflict check runs inside
// the same transaction so two rapid submissions for one listing cannot both
// pass it.
func (r *PromotionRepository) CreatePromotion(ctx context.Context, p models.Promotion) (models.Promotion, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Promotion{}, err
	}

	var conflicting int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM promotions
		WHERE listing_id = ? AND placement = ? AND status IN (?, ?, ?)
		FOR UPDATE
	`, p.ListingID, p.Pricing.Placement, promo.StatusPendingPayment, promo.StatusPendingReview, promo.StatusActive).Scan(&conflicting)
	if err != nil {
		tx.Rollback()
		return models.Promotion{}, err
	}
	if conflicting > 0 {
		tx.Rollback()
		return models.Promotion{}, models.ErrPromotionConflict
	}

	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.Status = promo.StatusPendingPayment

	result, err := tx.ExecContext(ctx, `
		INSERT INTO promotions
			(listing_id, user_id, placement, duration_days, amount, currency, chain,
			 wallet_address, qr_data_url, status, clicks, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?)
	`, p.ListingID, p.UserID, p.Pricing.Placement, p.Pricing.DurationDays, p.Pricing.Amount,
		p.Pricing.Currency, p.Pricing.Chain, p.Payment.WalletAddress, p.Payment.QRDataURL,
		p.Status, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		tx.Rollback()
		return models.Promotion{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		tx.Rollback()
		return models.Promotion{}, err
	}
	p.ID = int(id)

	if err := tx.Commit(); err != nil {
		return models.Promotion{}, err
	}
	return p, nil
}

func (r *PromotionRepository) GetPromotionByID(ctx context.Context, id int) (models.Promotion, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+promotionColumns+` FROM promotions p WHERE p.id = ?`, id)
	p, err := scanPromotion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Promotion{}, ErrPromotionNotFound
	}
	if err != nil {
		return models.Promotion{}, err
	}
	return p, nil
}

// SetPaymentProof attaches the proof and moves the order to pending_review.
// A repeated submission while already in pending_review only replaces the
// stored proof.
func (r *PromotionRepository) SetPaymentProof(ctx context.Context, id int, txHash, screenshotURL string) (models.Promotion, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Promotion{}, err
	}

	var status string
	err = tx.QueryRowContext(ctx, `SELECT status FROM promotions WHERE id = ? FOR UPDATE`, id).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		tx.Rollback()
		return models.Promotion{}, ErrPromotionNotFound
	}
	if err != nil {
		tx.Rollback()
		return models.Promotion{}, err
	}
	if !promo.CanTransition(status, promo.StatusPendingReview) {
		tx.Rollback()
		return models.Promotion{}, models.ErrInvalidStatusTransition
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE promotions SET tx_hash = ?, screenshot_url = ?, updated_at = NOW() WHERE id = ?
	`, txHash, screenshotURL, id); err != nil {
		tx.Rollback()
		return models.Promotion{}, err
	}
	if status != promo.StatusPendingReview {
		if err := promo.Apply(ctx, tx, id, status, promo.StatusPendingReview); err != nil {
			tx.Rollback()
			if errors.Is(err, sql.ErrNoRows) {
				return models.Promotion{}, models.ErrInvalidStatusTransition
			}
			return models.Promotion{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Promotion{}, err
	}
	return r.GetPromotionByID(ctx, id)
}

func (r *PromotionRepository) ApprovePromotion(ctx context.Context, id int, activatedAt, expiresAt time.Time) (models.Promotion, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Promotion{}, err
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE promotions SET activated_at = ?, expires_at = ?, updated_at = NOW() WHERE id = ?
	`, activatedAt, expiresAt, id); err != nil {
		tx.Rollback()
		return models.Promotion{}, err
	}
	if err := promo.Apply(ctx, tx, id, promo.StatusPendingReview, promo.StatusActive); err != nil {
		tx.Rollback()
		if errors.Is(err, sql.ErrNoRows) {
			return models.Promotion{}, models.ErrInvalidStatusTransition
		}
		return models.Promotion{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Promotion{}, err
	}
	return r.GetPromotionByID(ctx, id)
}

func (r *PromotionRepository) RejectPromotion(ctx context.Context, id int, reason string) (models.Promotion, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Promotion{}, err
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE promotions SET reject_reason = ?, updated_at = NOW() WHERE id = ?
	`, reason, id); err != nil {
		tx.Rollback()
		return models.Promotion{}, err
	}
	if err := promo.Apply(ctx, tx, id, promo.StatusPendingReview, promo.StatusRejected); err != nil {
		tx.Rollback()
		if errors.Is(err, sql.ErrNoRows) {
			return models.Promotion{}, models.ErrInvalidStatusTransition
		}
		return models.Promotion{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Promotion{}, err
	}
	return r.GetPromotionByID(ctx, id)
}

func (r *PromotionRepository) GetPromotionsByUserID(ctx context.Context, userID int) ([]models.Promotion, error) {
	query := `
		SELECT ` + promotionColumns + `,
			l.id, l.user_id, l.title, l.description, l.category, l.price, l.city, l.image_path, l.status, l.created_at, l.updated_at
		FROM promotions p
		JOIN listings l ON l.id = p.listing_id
		WHERE p.user_id = ?
		ORDER BY p.created_at DESC
	`
	return r.queryWithListing(ctx, query, userID)
}

// GetActiveTopByCategory returns active category_top promotions whose listing
// belongs to the given category, ordered per the rotation setting.
func (r *PromotionRepository) GetActiveTopByCategory(ctx context.Context, category, rotation string) ([]models.Promotion, error) {
	query := `
		SELECT ` + promotionColumns + `,
			l.id, l.user_id, l.title, l.description, l.category, l.price, l.city, l.image_path, l.status, l.created_at, l.updated_at
		FROM promotions p
		JOIN listings l ON l.id = p.listing_id
		WHERE p.status = ? AND p.placement = ? AND l.category = ?
		` + rotationOrderClause(rotation)
	return r.queryWithListing(ctx, query, promo.StatusActive, models.PlacementCategoryTop, category)
}

func (r *PromotionRepository) GetActiveHomepage(ctx context.Context, rotation string, limit int) ([]models.Promotion, error) {
	query := `
		SELECT ` + promotionColumns + `,
			l.id, l.user_id, l.title, l.description, l.category, l.price, l.city, l.image_path, l.status, l.created_at, l.updated_at
		FROM promotions p
		JOIN listings l ON l.id = p.listing_id
		WHERE p.status = ? AND p.placement = ?
		` + rotationOrderClause(rotation)
	if limit > 0 {
		query += ` LIMIT ?`
		return r.queryWithListing(ctx, query, promo.StatusActive, models.PlacementHomepage, limit)
	}
	return r.queryWithListing(ctx, query, promo.StatusActive, models.PlacementHomepage)
}

func (r *PromotionRepository) GetPromotionsByStatus(ctx context.Context, status string) ([]models.Promotion, error) {
	query := `
		SELECT ` + promotionColumns + `,
			l.id, l.user_id, l.title, l.description, l.category, l.price, l.city, l.image_path, l.status, l.created_at, l.updated_at
		FROM promotions p
		JOIN listings l ON l.id = p.listing_id
		WHERE p.status = ?
		ORDER BY p.created_at ASC
	`
	return r.queryWithListing(ctx, query, status)
}

// ExpireActive flips active promotions whose window has closed.
func (r *PromotionRepository) ExpireActive(ctx context.Context, now time.Time) (int, error) {
	if r == nil || r.DB == nil {
		return 0, nil
	}
	result, err := r.DB.ExecContext(ctx, `
		UPDATE promotions SET status = ?, updated_at = NOW()
		WHERE status = ? AND expires_at IS NOT NULL AND expires_at <= ?
	`, promo.StatusExpired, promo.StatusActive, now.UTC())
	if err != nil {
		return 0, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

func (r *PromotionRepository) AddClicks(ctx context.Context, id int, delta int64) error {
	if delta <= 0 {
		return nil
	}
	result, err := r.DB.ExecContext(ctx, `UPDATE promotions SET clicks = clicks + ? WHERE id = ?`, delta, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrPromotionNotFound
	}
	return nil
}

func rotationOrderClause(rotation string) string {
	switch rotation {
	case "random":
		return `ORDER BY RAND()`
	default:
		return `ORDER BY p.activated_at DESC`
	}
}

func (r *PromotionRepository) queryWithListing(ctx context.Context, query string, args ...any) ([]models.Promotion, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var promotions []models.Promotion
	for rows.Next() {
		var (
			p            models.Promotion
			listing      models.Listing
			txHash       sql.NullString
			screenshot   sql.NullString
			qrDataURL    sql.NullString
			rejectReason sql.NullString
			activatedAt  sql.NullTime
			expiresAt    sql.NullTime
		)
		if err := rows.Scan(
			&p.ID, &p.ListingID, &p.UserID,
			&p.Pricing.Placement, &p.Pricing.DurationDays, &p.Pricing.Amount, &p.Pricing.Currency, &p.Pricing.Chain,
			&p.Payment.WalletAddress, &txHash, &screenshot, &qrDataURL,
			&p.Status, &rejectReason, &p.Clicks, &activatedAt, &expiresAt, &p.CreatedAt, &p.UpdatedAt,
			&listing.ID, &listing.UserID, &listing.Title, &listing.Description, &listing.Category,
			&listing.Price, &listing.City, &listing.ImagePath, &listing.Status, &listing.CreatedAt, &listing.UpdatedAt,
		); err != nil {
			return nil, err
		}
		p.Payment.TxHash = txHash.String
		p.Payment.ScreenshotURL = screenshot.String
		p.Payment.QRDataURL = qrDataURL.String
		p.RejectReason = rejectReason.String
		if activatedAt.Valid {
			t := activatedAt.Time
			p.ActivatedAt = &t
		}
		if expiresAt.Valid {
			t := expiresAt.Time
			p.ExpiresAt = &t
		}
		p.Listing = &listing
		promotions = append(promotions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return promotions, nil
}
