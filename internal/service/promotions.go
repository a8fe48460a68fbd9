package service

import (
	"context"
	"fmt"

	"rifa/internal/apperr"
	"rifa/internal/models"

	"github.com/shopspring/decimal"
)

// PromotionService manages pricing rules and quotes ticket totals.
type PromotionService struct {
	promotions PromotionStore
	raffles    RaffleStore
}

func NewPromotionService(promotions PromotionStore, raffles RaffleStore) *PromotionService {
	return &PromotionService{promotions: promotions, raffles: raffles}
}

func (s *PromotionService) Create(ctx context.Context, req *models.CreatePromotionRequest) (*models.Promotion, error) {
	raffle, err := s.raffles.GetByID(ctx, req.RaffleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load raffle: %w", err)
	}
	if raffle == nil {
		return nil, apperr.NotFound("Rifa no encontrada")
	}

	p := &models.Promotion{
		RaffleID:       req.RaffleID,
		Name:           req.Name,
		DiscountType:   req.DiscountType,
		DiscountValue:  req.DiscountValue,
		NewTicketPrice: req.NewTicketPrice,
		PackagePrice:   req.PackagePrice,
		MinTickets:     req.MinTickets,
		Active:         true,
	}

	switch p.DiscountType {
	case models.DiscountPercentage:
		if p.DiscountValue.LessThanOrEqual(decimal.Zero) || p.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
			return nil, apperr.Capacity("El porcentaje de descuento debe estar entre 0 y 100")
		}
	case models.DiscountLowerCost:
		if p.NewTicketPrice.LessThanOrEqual(decimal.Zero) {
			return nil, apperr.Capacity("El nuevo precio por ticket debe ser mayor a cero")
		}
	case models.DiscountPackage:
		if p.PackagePrice.LessThanOrEqual(decimal.Zero) || p.MinTickets <= 0 {
			return nil, apperr.Capacity("El paquete requiere precio y cantidad de tickets")
		}
	}

	if err := s.promotions.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create promotion: %w", err)
	}
	return p, nil
}

func (s *PromotionService) ListByRaffle(ctx context.Context, raffleID string, activeOnly bool) ([]models.Promotion, error) {
	if activeOnly {
		return s.promotions.ListActiveByRaffle(ctx, raffleID)
	}
	return s.promotions.ListByRaffle(ctx, raffleID)
}

func (s *PromotionService) Update(ctx context.Context, p *models.Promotion) (*models.Promotion, error) {
	existing, err := s.promotions.GetByID(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load promotion: %w", err)
	}
	if existing == nil {
		return nil, apperr.NotFound("Promoción no encontrada")
	}

	if err := s.promotions.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update promotion: %w", err)
	}
	return p, nil
}

func (s *PromotionService) SetActive(ctx context.Context, id string, active bool) error {
	existing, err := s.promotions.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load promotion: %w", err)
	}
	if existing == nil {
		return apperr.NotFound("Promoción no encontrada")
	}
	return s.promotions.SetActive(ctx, id, active)
}

func (s *PromotionService) Delete(ctx context.Context, id string) error {
	existing, err := s.promotions.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load promotion: %w", err)
	}
	if existing == nil {
		return apperr.NotFound("Promoción no encontrada")
	}
	return s.promotions.Delete(ctx, id)
}

// Quote prices a ticket count. With a promotion id it applies that promotion;
// otherwise it picks the applicable one that saves the buyer the most.
func (s *PromotionService) Quote(ctx context.Context, req *models.QuoteRequest) (*models.QuoteResponse, error) {
	raffle, err := s.raffles.GetByID(ctx, req.RaffleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load raffle: %w", err)
	}
	if raffle == nil {
		return nil, apperr.NotFound("Rifa no encontrada")
	}

	regular := raffle.Price.Mul(decimal.NewFromInt(int64(req.TicketCount)))

	if req.PromotionID != "" {
		p, err := s.promotions.GetByID(ctx, req.PromotionID)
		if err != nil {
			return nil, fmt.Errorf("failed to load promotion: %w", err)
		}
		if p == nil {
			return nil, apperr.NotFound("Promoción no encontrada")
		}
		if !IsApplicable(p, req.TicketCount) {
			return nil, apperr.Capacity("La promoción requiere al menos %d tickets", p.MinTickets)
		}
		total := PromotionTotal(p, raffle.Price, req.TicketCount)
		return &models.QuoteResponse{
			RegularTotal: regular,
			Total:        total,
			Savings:      regular.Sub(total),
			PromotionID:  p.ID,
		}, nil
	}

	promotions, err := s.promotions.ListActiveByRaffle(ctx, req.RaffleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list promotions: %w", err)
	}

	best, total := BestPromotion(promotions, raffle.Price, req.TicketCount)
	resp := &models.QuoteResponse{
		RegularTotal: regular,
		Total:        total,
		Savings:      regular.Sub(total),
	}
	if best != nil {
		resp.PromotionID = best.ID
	}
	return resp, nil
}

// IsApplicable reports whether a promotion covers the given ticket count.
func IsApplicable(p *models.Promotion, count int) bool {
	return p.Active && count >= p.MinTickets
}

// PromotionTotal prices count tickets under one promotion. Package deals
// price full packages at the package rate and the remainder at the regular
// per-ticket price.
func PromotionTotal(p *models.Promotion, basePrice decimal.Decimal, count int) decimal.Decimal {
	n := decimal.NewFromInt(int64(count))

	switch p.DiscountType {
	case models.DiscountPercentage:
		factor := decimal.NewFromInt(1).Sub(p.DiscountValue.Div(decimal.NewFromInt(100)))
		return basePrice.Mul(n).Mul(factor)
	case models.DiscountLowerCost:
		return p.NewTicketPrice.Mul(n)
	case models.DiscountPackage:
		packages := count / p.MinTickets
		remainder := count % p.MinTickets
		return p.PackagePrice.Mul(decimal.NewFromInt(int64(packages))).
			Add(basePrice.Mul(decimal.NewFromInt(int64(remainder))))
	default:
		return basePrice.Mul(n)
	}
}

// BestPromotion returns the applicable promotion with the lowest total, and
// that total. With no applicable promotion it returns nil and the regular
// total.
func BestPromotion(promotions []models.Promotion, basePrice decimal.Decimal, count int) (*models.Promotion, decimal.Decimal) {
	best := basePrice.Mul(decimal.NewFromInt(int64(count)))
	var winner *models.Promotion

	for i := range promotions {
		p := &promotions[i]
		if !IsApplicable(p, count) {
			continue
		}
		total := PromotionTotal(p, basePrice, count)
		if total.LessThan(best) {
			best = total
			winner = p
		}
	}

	return winner, best
}
