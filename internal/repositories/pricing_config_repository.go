package repositories

import (
	"context"
	"database/sql"
	"errors"

	"bazarBack/internal/models"
)

var (
	ErrConfigNotFound = models.ErrConfigNotFound
)

// PricingConfigRepository stores the whole pricing document as one JSON
// payload in a single row, the same way listing promotion info is kept as a
// JSON column elsewhere in the schema.
type PricingConfigRepository struct {
	DB *sql.DB
}

func (r *PricingConfigRepository) GetConfig(ctx context.Context) (models.PricingConfig, error) {
	var raw string
	err := r.DB.QueryRowContext(ctx, `SELECT payload FROM pricing_config WHERE id = 1`).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return models.PricingConfig{}, ErrConfigNotFound
	}
	if err != nil {
		return models.PricingConfig{}, err
	}
	return models.ParsePricingConfig(raw)
}

func (r *PricingConfigRepository) SaveConfig(ctx context.Context, cfg models.PricingConfig) error {
	payload, err := cfg.Marshal()
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO pricing_config (id, payload, updated_at)
		VALUES (1, ?, NOW())
		ON DUPLICATE KEY UPDATE payload = VALUES(payload), updated_at = NOW()
	`, payload)
	return err
}
