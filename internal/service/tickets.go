package service

import (
	"context"
	"log/slog"
	"time"

	"rifa/internal/apperr"
	"rifa/internal/metrics"
	"rifa/internal/models"
	"rifa/internal/tickets"
)

// TicketService handles the short-lived holds buyers place on specific
// numbers while they fill in payment details.
type TicketService struct {
	raffles   RaffleStore
	publisher Publisher
	cache     ListCache
}

func NewTicketService(raffles RaffleStore, publisher Publisher, cache ListCache) *TicketService {
	return &TicketService{raffles: raffles, publisher: publisher, cache: cache}
}

// Reserve places the requested numbers on hold. When any of them is already
// sold or reserved, nothing is written and the conflict error lists every
// unavailable number so the storefront can highlight them all at once.
func (s *TicketService) Reserve(ctx context.Context, raffleID string, requested []string) (*models.Raffle, error) {
	raffle, err := s.raffles.Mutate(ctx, raffleID, func(r *models.Raffle) error {
		if r.Status != models.RaffleStatusActive {
			return apperr.Capacity("La rifa no está activa")
		}

		taken := append(append([]string{}, r.SoldTickets...), r.ReservedTickets...)
		if conflicts := tickets.Conflicts(requested, taken); len(conflicts) > 0 {
			return apperr.Conflict(conflicts)
		}

		r.ReservedTickets = append(r.ReservedTickets, requested...)
		r.AvailableNumbers = tickets.Available(r.TotalTickets, r.SoldTickets, r.ReservedTickets)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if raffle == nil {
		return nil, apperr.NotFound("Rifa no encontrada")
	}

	metrics.TicketsReserved.Add(float64(len(requested)))
	s.invalidateList(ctx)
	s.publish(models.EventTicketsReserved, raffleID, requested)
	return raffle, nil
}

// Release frees previously reserved numbers. Numbers not currently reserved
// are ignored so a double release is harmless.
func (s *TicketService) Release(ctx context.Context, raffleID string, requested []string) (*models.Raffle, error) {
	raffle, err := s.raffles.Mutate(ctx, raffleID, func(r *models.Raffle) error {
		r.ReservedTickets = tickets.Remove(r.ReservedTickets, requested)
		r.AvailableNumbers = tickets.Available(r.TotalTickets, r.SoldTickets, r.ReservedTickets)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if raffle == nil {
		return nil, apperr.NotFound("Rifa no encontrada")
	}

	s.invalidateList(ctx)
	s.publish(models.EventTicketsReleased, raffleID, requested)
	return raffle, nil
}

// invalidateList keeps the cached storefront list from serving stale
// availability for a full TTL.
func (s *TicketService) invalidateList(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateRaffleList(ctx); err != nil {
		slog.Warn("Raffle list cache invalidation failed", "error", err)
	}
}

func (s *TicketService) publish(subject, raffleID string, numbers []string) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.Publish(subject, models.TicketsEvent{
		RaffleID:  raffleID,
		Tickets:   numbers,
		Timestamp: time.Now(),
	})
	if err != nil {
		slog.Warn("Failed to publish ticket event", "subject", subject, "raffle_id", raffleID, "error", err)
	}
}
