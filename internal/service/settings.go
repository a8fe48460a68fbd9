package service

import (
	"context"
	"fmt"
	"time"

	"rifa/internal/apperr"
	"rifa/internal/models"

	"github.com/shopspring/decimal"
)

// SettingsService covers storefront settings: payment methods, the dollar
// exchange rate and bonus overrides.
type SettingsService struct {
	settings SettingsStore
}

func NewSettingsService(settings SettingsStore) *SettingsService {
	return &SettingsService{settings: settings}
}

func (s *SettingsService) CreatePaymentMethod(ctx context.Context, pm *models.PaymentMethod) (*models.PaymentMethod, error) {
	if pm.Name == "" {
		return nil, apperr.Capacity("El método de pago requiere un nombre")
	}
	pm.Active = true
	if err := s.settings.CreatePaymentMethod(ctx, pm); err != nil {
		return nil, fmt.Errorf("failed to create payment method: %w", err)
	}
	return pm, nil
}

func (s *SettingsService) ListPaymentMethods(ctx context.Context, activeOnly bool) ([]models.PaymentMethod, error) {
	methods, err := s.settings.ListPaymentMethods(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment methods: %w", err)
	}
	return methods, nil
}

func (s *SettingsService) UpdatePaymentMethod(ctx context.Context, pm *models.PaymentMethod) error {
	if err := s.settings.UpdatePaymentMethod(ctx, pm); err != nil {
		return fmt.Errorf("failed to update payment method: %w", err)
	}
	return nil
}

func (s *SettingsService) DeletePaymentMethod(ctx context.Context, id string) error {
	if err := s.settings.DeletePaymentMethod(ctx, id); err != nil {
		return fmt.Errorf("failed to delete payment method: %w", err)
	}
	return nil
}

// DollarPrice returns the configured exchange rate and its last update time.
func (s *SettingsService) DollarPrice(ctx context.Context) (decimal.Decimal, time.Time, error) {
	price, updatedAt, err := s.settings.GetDollarPrice(ctx)
	if err != nil {
		return decimal.Zero, time.Time{}, fmt.Errorf("failed to load dollar price: %w", err)
	}
	return price, updatedAt, nil
}

func (s *SettingsService) SetDollarPrice(ctx context.Context, price decimal.Decimal) error {
	if price.LessThanOrEqual(decimal.Zero) {
		return apperr.Capacity("El precio del dólar debe ser mayor a cero")
	}
	if err := s.settings.SetDollarPrice(ctx, price); err != nil {
		return fmt.Errorf("failed to update dollar price: %w", err)
	}
	return nil
}

func (s *SettingsService) ListBonusOverrides(ctx context.Context) ([]models.BonusOverride, error) {
	overrides, err := s.settings.ListBonusOverrides(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list bonus overrides: %w", err)
	}
	return overrides, nil
}

func (s *SettingsService) CreateBonusOverride(ctx context.Context, bo *models.BonusOverride) (*models.BonusOverride, error) {
	if bo.Email == "" {
		return nil, apperr.Capacity("El bono requiere un correo")
	}
	if bo.MinTickets <= 0 {
		bo.MinTickets = 1
	}
	if err := s.settings.CreateBonusOverride(ctx, bo); err != nil {
		return nil, fmt.Errorf("failed to create bonus override: %w", err)
	}
	return bo, nil
}

func (s *SettingsService) UpdateBonusOverride(ctx context.Context, bo *models.BonusOverride) error {
	if err := s.settings.UpdateBonusOverride(ctx, bo); err != nil {
		return fmt.Errorf("failed to update bonus override: %w", err)
	}
	return nil
}

func (s *SettingsService) DeleteBonusOverride(ctx context.Context, id string) error {
	if err := s.settings.DeleteBonusOverride(ctx, id); err != nil {
		return fmt.Errorf("failed to delete bonus override: %w", err)
	}
	return nil
}
