package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/shopspring/decimal"

	"fibuBack/internal/models"
)

type SettingsRepository struct {
	DB DBTX
}

func (r *SettingsRepository) Get(ctx context.Context, userID int, key string) (string, error) {
	var value string
	err := r.DB.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE user_id = ? AND setting_key = ?`, userID, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", models.ErrNoRecord
	}
	return value, err
}

func (r *SettingsRepository) Set(ctx context.Context, userID int, key, value string) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO settings (user_id, setting_key, value, created_at) VALUES (?, ?, ?, NOW())
		 ON DUPLICATE KEY UPDATE value = VALUES(value), updated_at = NOW()`, userID, key, value)
	return err
}

// GetInt reads an integer setting, returning the fallback when the key is
// missing or malformed.
func (r *SettingsRepository) GetInt(ctx context.Context, userID int, key string, fallback int) (int, error) {
	raw, err := r.Get(ctx, userID, key)
	if errors.Is(err, models.ErrNoRecord) {
		return fallback, nil
	}
	if err != nil {
		return fallback, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback, nil
	}
	return n, nil
}

// GetDecimal reads a decimal setting, returning the fallback when the key
// is missing or malformed.
func (r *SettingsRepository) GetDecimal(ctx context.Context, userID int, key string, fallback decimal.Decimal) (decimal.Decimal, error) {
	raw, err := r.Get(ctx, userID, key)
	if errors.Is(err, models.ErrNoRecord) {
		return fallback, nil
	}
	if err != nil {
		return fallback, err
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return fallback, nil
	}
	return d, nil
}
