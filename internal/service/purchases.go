package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"rifa/internal/apperr"
	"rifa/internal/external"
	"rifa/internal/metrics"
	"rifa/internal/models"
	"rifa/internal/tickets"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseService runs the purchase lifecycle: buyers submit pending
// purchases with payment proof, operators approve, reject or undo them.
type PurchaseService struct {
	raffles   RaffleStore
	settings  SettingsStore
	ranking   *RankingService
	publisher Publisher
	mailer    Mailer
	cache     ListCache
}

func NewPurchaseService(raffles RaffleStore, settings SettingsStore, ranking *RankingService, publisher Publisher, mailer Mailer, cache ListCache) *PurchaseService {
	return &PurchaseService{
		raffles:   raffles,
		settings:  settings,
		ranking:   ranking,
		publisher: publisher,
		mailer:    mailer,
		cache:     cache,
	}
}

// invalidateList drops the cached storefront list after a mutation that
// changes sold or reserved counts.
func (s *PurchaseService) invalidateList(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateRaffleList(ctx); err != nil {
		slog.Warn("Raffle list cache invalidation failed", "error", err)
	}
}

// Create registers a pending purchase and reserves its tickets in the same
// mutation, so no other buyer can take them while the payment proof waits for
// review. On number-picking raffles the buyer sends specific numbers; on
// random raffles only a count, which holds that many placeholder numbers
// until the real ones are drawn at approval time.
func (s *PurchaseService) Create(ctx context.Context, req *models.CreatePurchaseRequest) (*models.CreatePurchaseResponse, error) {
	purchase := models.Purchase{
		ID:               uuid.NewString(),
		Name:             strings.TrimSpace(req.Name),
		Email:            strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:            strings.TrimSpace(req.Phone),
		PaymentMethod:    req.PaymentMethod,
		PaymentReference: req.PaymentReference,
		Status:           models.PurchaseStatusPending,
		CreatedAt:        time.Now(),
	}

	bonus := s.bonusFor(ctx, purchase.Email)

	raffle, err := s.raffles.Mutate(ctx, req.RaffleID, func(r *models.Raffle) error {
		if r.Status != models.RaffleStatusActive {
			return apperr.Capacity("La rifa no está activa")
		}

		count := len(req.SelectedTickets)
		if r.RandomTickets {
			count = req.TicketCount
		}
		if count < r.MinTickets {
			return apperr.Capacity("La cantidad mínima de tickets es %d", r.MinTickets)
		}
		available := tickets.Available(r.TotalTickets, r.SoldTickets, r.ReservedTickets)
		if count > available {
			return apperr.Capacity("No hay suficientes tickets disponibles. Solo quedan %d tickets", available)
		}

		if r.RandomTickets {
			purchase.TicketCount = count
			if bonus != nil && count >= bonus.MinTickets {
				purchase.TicketCount += len(bonus.Tickets)
			}
			taken := append(append([]string{}, r.SoldTickets...), r.ReservedTickets...)
			held, ok := tickets.Draw(r.TotalTickets, taken, purchase.TicketCount)
			if !ok {
				return apperr.Capacity("No hay suficientes tickets disponibles. Solo quedan %d tickets", available)
			}
			r.ReservedTickets = append(r.ReservedTickets, held...)
			r.AvailableNumbers = tickets.Available(r.TotalTickets, r.SoldTickets, r.ReservedTickets)
			r.PendingPurchases = append(r.PendingPurchases, purchase)
			return nil
		}

		taken := append(append([]string{}, r.SoldTickets...), r.ReservedTickets...)
		if conflicts := tickets.Conflicts(req.SelectedTickets, taken); len(conflicts) > 0 {
			return apperr.Conflict(conflicts)
		}

		purchase.SelectedTickets = append([]string{}, req.SelectedTickets...)
		if bonus != nil && count >= bonus.MinTickets {
			taken = append(taken, purchase.SelectedTickets...)
			for _, t := range bonus.Tickets {
				if len(tickets.Conflicts([]string{t}, taken)) == 0 {
					purchase.SelectedTickets = append(purchase.SelectedTickets, t)
					taken = append(taken, t)
				}
			}
		}

		r.ReservedTickets = append(r.ReservedTickets, purchase.SelectedTickets...)
		r.AvailableNumbers = tickets.Available(r.TotalTickets, r.SoldTickets, r.ReservedTickets)
		r.PendingPurchases = append(r.PendingPurchases, purchase)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if raffle == nil {
		return nil, apperr.NotFound("Rifa no encontrada")
	}

	metrics.PurchasesCreated.Inc()
	s.invalidateList(ctx)
	s.publishPurchase(models.EventPurchaseCreated, &purchase, req.RaffleID)

	count := purchase.TicketCount
	if count == 0 {
		count = len(purchase.SelectedTickets)
	}
	return &models.CreatePurchaseResponse{ID: purchase.ID, Tickets: count}, nil
}

// ListPending returns the purchases awaiting operator review.
func (s *PurchaseService) ListPending(ctx context.Context, raffleID string) ([]models.Purchase, error) {
	raffle, err := s.raffles.GetByID(ctx, raffleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load raffle: %w", err)
	}
	if raffle == nil {
		return nil, apperr.NotFound("Rifa no encontrada")
	}
	return raffle.PendingPurchases, nil
}

// Approve confirms a pending purchase. Random raffles draw their numbers
// here. The sold list, the reservation list and the derived counter are
// re-verified before the transaction commits; a failed check aborts the whole
// approval.
func (s *PurchaseService) Approve(ctx context.Context, raffleID, purchaseID string) (*models.Purchase, error) {
	var approved models.Purchase

	raffle, err := s.raffles.Mutate(ctx, raffleID, func(r *models.Raffle) error {
		idx := findPurchase(r.PendingPurchases, purchaseID)
		if idx < 0 {
			return apperr.NotFound("Compra no encontrada")
		}
		purchase := r.PendingPurchases[idx]

		var final []string
		if purchase.TicketCount > 0 {
			// The placeholders held at creation are released by count;
			// the buyer's real numbers are drawn from what remains unsold.
			r.ReservedTickets = tickets.TrimCount(r.ReservedTickets, purchase.TicketCount)
			taken := append(append([]string{}, r.SoldTickets...), r.ReservedTickets...)
			drawn, ok := tickets.Draw(r.TotalTickets, taken, purchase.TicketCount)
			if !ok {
				return apperr.Capacity("No hay suficientes tickets disponibles. Solo quedan %d tickets", r.AvailableNumbers)
			}
			final = drawn
		} else {
			if conflicts := tickets.Conflicts(purchase.SelectedTickets, r.SoldTickets); len(conflicts) > 0 {
				return apperr.Conflict(conflicts)
			}
			final = purchase.SelectedTickets
			r.ReservedTickets = tickets.Remove(r.ReservedTickets, final)
		}

		r.SoldTickets = append(r.SoldTickets, final...)
		r.AvailableNumbers = tickets.Available(r.TotalTickets, r.SoldTickets, r.ReservedTickets)
		r.PendingPurchases = append(r.PendingPurchases[:idx], r.PendingPurchases[idx+1:]...)

		now := time.Now()
		purchase.SelectedTickets = final
		purchase.TicketCount = 0
		purchase.Status = models.PurchaseStatusConfirmed
		purchase.PurchaseDate = &now
		r.Users = append(r.Users, purchase)

		if err := checkConsistency(r, final); err != nil {
			return err
		}

		approved = purchase
		return nil
	})
	if err != nil {
		return nil, err
	}
	if raffle == nil {
		return nil, apperr.NotFound("Rifa no encontrada")
	}

	metrics.PurchasesApproved.Inc()
	metrics.TicketsSold.Add(float64(len(approved.SelectedTickets)))
	s.invalidateList(ctx)

	if err := s.ranking.ApplyPurchase(ctx, &approved); err != nil {
		// The purchase is committed; the consistency validator reports
		// entries the ranking is missing.
		slog.Error("Failed to update ranking after approval",
			"raffle_id", raffleID, "purchase_id", purchaseID, "error", err)
	}

	s.publishPurchase(models.EventPurchaseApproved, &approved, raffleID)
	s.sendConfirmation(raffle, &approved)

	return &approved, nil
}

// Reject discards a pending purchase and releases any reserved numbers it
// was holding.
func (s *PurchaseService) Reject(ctx context.Context, raffleID, purchaseID string) error {
	var rejected models.Purchase

	raffle, err := s.raffles.Mutate(ctx, raffleID, func(r *models.Raffle) error {
		idx := findPurchase(r.PendingPurchases, purchaseID)
		if idx < 0 {
			return apperr.NotFound("Compra no encontrada")
		}
		rejected = r.PendingPurchases[idx]

		if rejected.TicketCount > 0 {
			r.ReservedTickets = tickets.TrimCount(r.ReservedTickets, rejected.TicketCount)
		} else {
			r.ReservedTickets = tickets.Remove(r.ReservedTickets, rejected.SelectedTickets)
		}
		r.AvailableNumbers = tickets.Available(r.TotalTickets, r.SoldTickets, r.ReservedTickets)
		r.PendingPurchases = append(r.PendingPurchases[:idx], r.PendingPurchases[idx+1:]...)
		return nil
	})
	if err != nil {
		return err
	}
	if raffle == nil {
		return apperr.NotFound("Rifa no encontrada")
	}

	metrics.PurchasesRejected.Inc()
	s.invalidateList(ctx)
	s.publishPurchase(models.EventPurchaseRejected, &rejected, raffleID)
	return nil
}

// Undo deletes a confirmed purchase permanently: its numbers go back to the
// pool and its ranking credit is taken away.
func (s *PurchaseService) Undo(ctx context.Context, raffleID, purchaseID string) (*models.Purchase, error) {
	var undone models.Purchase

	raffle, err := s.raffles.Mutate(ctx, raffleID, func(r *models.Raffle) error {
		idx := findPurchase(r.Users, purchaseID)
		if idx < 0 {
			return apperr.NotFound("Compra no encontrada")
		}
		undone = r.Users[idx]

		r.SoldTickets = tickets.Remove(r.SoldTickets, undone.SelectedTickets)
		r.AvailableNumbers = tickets.Available(r.TotalTickets, r.SoldTickets, r.ReservedTickets)
		r.Users = append(r.Users[:idx], r.Users[idx+1:]...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if raffle == nil {
		return nil, apperr.NotFound("Rifa no encontrada")
	}

	s.invalidateList(ctx)
	if err := s.ranking.ReversePurchase(ctx, undone.Email, undone.Phone, len(undone.SelectedTickets)); err != nil {
		slog.Error("Failed to reverse ranking after undo",
			"raffle_id", raffleID, "purchase_id", purchaseID, "error", err)
	}

	s.publishPurchase(models.EventPurchaseUndone, &undone, raffleID)
	return &undone, nil
}

// Direct records an operator-entered sale, skipping the pending stage.
func (s *PurchaseService) Direct(ctx context.Context, req *models.DirectPurchaseRequest) (*models.Purchase, error) {
	var confirmed models.Purchase

	raffle, err := s.raffles.Mutate(ctx, req.RaffleID, func(r *models.Raffle) error {
		var final []string
		if r.RandomTickets {
			if req.TicketCount <= 0 {
				return apperr.Capacity("La cantidad mínima de tickets es %d", r.MinTickets)
			}
			taken := append(append([]string{}, r.SoldTickets...), r.ReservedTickets...)
			drawn, ok := tickets.Draw(r.TotalTickets, taken, req.TicketCount)
			if !ok {
				return apperr.Capacity("No hay suficientes tickets disponibles. Solo quedan %d tickets", r.AvailableNumbers)
			}
			final = drawn
		} else {
			if len(req.SelectedTickets) == 0 {
				return apperr.Capacity("Debe seleccionar al menos un ticket")
			}
			taken := append(append([]string{}, r.SoldTickets...), r.ReservedTickets...)
			if conflicts := tickets.Conflicts(req.SelectedTickets, taken); len(conflicts) > 0 {
				return apperr.Conflict(conflicts)
			}
			final = req.SelectedTickets
		}

		now := time.Now()
		confirmed = models.Purchase{
			ID:              uuid.NewString(),
			Name:            strings.TrimSpace(req.Name),
			Email:           strings.ToLower(strings.TrimSpace(req.Email)),
			Phone:           strings.TrimSpace(req.Phone),
			PaymentMethod:   "directa",
			SelectedTickets: final,
			Status:          models.PurchaseStatusConfirmed,
			CreatedAt:       now,
			PurchaseDate:    &now,
		}

		r.SoldTickets = append(r.SoldTickets, final...)
		r.AvailableNumbers = tickets.Available(r.TotalTickets, r.SoldTickets, r.ReservedTickets)
		r.Users = append(r.Users, confirmed)

		return checkConsistency(r, final)
	})
	if err != nil {
		return nil, err
	}
	if raffle == nil {
		return nil, apperr.NotFound("Rifa no encontrada")
	}

	metrics.TicketsSold.Add(float64(len(confirmed.SelectedTickets)))
	s.invalidateList(ctx)

	if err := s.ranking.ApplyPurchase(ctx, &confirmed); err != nil {
		slog.Error("Failed to update ranking after direct sale",
			"raffle_id", req.RaffleID, "purchase_id", confirmed.ID, "error", err)
	}

	s.publishPurchase(models.EventPurchaseApproved, &confirmed, req.RaffleID)
	s.sendConfirmation(raffle, &confirmed)

	return &confirmed, nil
}

func (s *PurchaseService) bonusFor(ctx context.Context, email string) *models.BonusOverride {
	if s.settings == nil {
		return nil
	}
	bonus, err := s.settings.FindBonusOverride(ctx, email)
	if err != nil {
		slog.Warn("Bonus override lookup failed", "email", email, "error", err)
		return nil
	}
	return bonus
}

func (s *PurchaseService) publishPurchase(subject string, purchase *models.Purchase, raffleID string) {
	if s.publisher == nil {
		return
	}
	count := purchase.TicketCount
	if count == 0 {
		count = len(purchase.SelectedTickets)
	}
	err := s.publisher.Publish(subject, models.PurchaseEvent{
		PurchaseID: purchase.ID,
		RaffleID:   raffleID,
		Email:      purchase.Email,
		Tickets:    count,
		Timestamp:  time.Now(),
	})
	if err != nil {
		slog.Warn("Failed to publish purchase event",
			"subject", subject, "purchase_id", purchase.ID, "error", err)
	}
}

func (s *PurchaseService) sendConfirmation(raffle *models.Raffle, purchase *models.Purchase) {
	if s.mailer == nil || purchase.Email == "" {
		return
	}

	amount := raffle.Price.Mul(decimal.NewFromInt(int64(len(purchase.SelectedTickets))))
	err := s.mailer.SendPurchaseConfirmation(external.ConfirmationEmail{
		Email:              purchase.Email,
		Name:               purchase.Name,
		Amount:             amount.StringFixed(2),
		Date:               time.Now().Format("02/01/2006"),
		PaymentMethod:      purchase.PaymentMethod,
		RaffleName:         raffle.Title,
		TicketsCount:       len(purchase.SelectedTickets),
		ConfirmationNumber: purchase.ID,
		Number:             strings.Join(purchase.SelectedTickets, ", "),
	})
	if err != nil {
		slog.Warn("Failed to send confirmation email",
			"purchase_id", purchase.ID, "email", purchase.Email, "error", err)
	}
}

func findPurchase(list []models.Purchase, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

// checkConsistency re-verifies the raffle record after a sale mutation:
// every newly sold number must appear exactly once in the sold list, sold and
// reserved must not overlap, and the derived counter must match.
func checkConsistency(r *models.Raffle, justSold []string) error {
	if !tickets.UniqueOnce(justSold, r.SoldTickets) {
		return apperr.Invariant("La venta produjo tickets duplicados")
	}
	if overlap := tickets.Conflicts(r.SoldTickets, r.ReservedTickets); len(overlap) > 0 {
		return apperr.Invariant("Hay tickets vendidos y reservados a la vez")
	}
	if r.AvailableNumbers != tickets.Available(r.TotalTickets, r.SoldTickets, r.ReservedTickets) {
		return apperr.Invariant("El contador de tickets disponibles es inconsistente")
	}
	return nil
}
