package service

import (
	"context"
	"fmt"
	"strings"

	"rifa/internal/apperr"
	"rifa/internal/models"

	"github.com/shopspring/decimal"
)

// VerificationService lets buyers look up their confirmed tickets by phone
// number.
type VerificationService struct {
	raffles RaffleStore
}

func NewVerificationService(raffles RaffleStore) *VerificationService {
	return &VerificationService{raffles: raffles}
}

// Verify returns every confirmed purchase in the raffle whose phone matches.
// Phones compare digits-only so formatting differences do not hide tickets.
func (s *VerificationService) Verify(ctx context.Context, req *models.VerifyTicketsRequest) ([]models.VerifiedTickets, error) {
	raffle, err := s.raffles.GetByID(ctx, req.RaffleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load raffle: %w", err)
	}
	if raffle == nil {
		return nil, apperr.NotFound("Rifa no encontrada")
	}

	wanted := normalizePhone(req.Phone)
	if wanted == "" {
		return nil, apperr.Capacity("El teléfono es inválido")
	}

	var results []models.VerifiedTickets
	for i := range raffle.Users {
		p := &raffle.Users[i]
		if normalizePhone(p.Phone) != wanted {
			continue
		}
		results = append(results, models.VerifiedTickets{
			RaffleID:    raffle.ID,
			RaffleName:  raffle.Title,
			Tickets:     p.SelectedTickets,
			TotalAmount: raffle.Price.Mul(decimal.NewFromInt(int64(len(p.SelectedTickets)))),
		})
	}

	return results, nil
}

// normalizePhone strips everything but digits.
func normalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
