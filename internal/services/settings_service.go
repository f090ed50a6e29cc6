package services

import (
	"context"
	"strconv"

	"github.com/shopspring/decimal"

	"fibuBack/internal/models"
	"fibuBack/internal/repositories"
)

type SettingsService struct {
	SettingsRepo *repositories.SettingsRepository
}

var knownSettings = map[string]struct{}{
	models.SettingDefaultVATRate:   {},
	models.SettingPaymentTermsDays: {},
}

func (s *SettingsService) Get(ctx context.Context, userID int, key string) (string, error) {
	if _, ok := knownSettings[key]; !ok {
		return "", models.NewAPIError(models.CodeValidation, "unknown setting "+key)
	}
	return s.SettingsRepo.Get(ctx, userID, key)
}

// Set validates the value against the key's type before persisting.
func (s *SettingsService) Set(ctx context.Context, userID int, key, value string) error {
	switch key {
	case models.SettingDefaultVATRate:
		rate, err := decimal.NewFromString(value)
		if err != nil || rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
			return models.NewAPIError(models.CodeValidation, "default_vat_rate must be a percentage between 0 and 100")
		}
	case models.SettingPaymentTermsDays:
		days, err := strconv.Atoi(value)
		if err != nil || days < 1 {
			return models.NewAPIError(models.CodeValidation, "payment_terms_days must be a positive integer")
		}
	default:
		return models.NewAPIError(models.CodeValidation, "unknown setting "+key)
	}
	return s.SettingsRepo.Set(ctx, userID, key, value)
}
