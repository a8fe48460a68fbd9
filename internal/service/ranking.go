package service

import (
	"context"
	"fmt"
	"strings"

	"rifa/internal/apperr"
	"rifa/internal/models"
)

// RankingService keeps the cross-raffle buyer leaderboard. The user_ranking
// table is the single source the storefront reads; approvals write it and
// undos take the credit back.
type RankingService struct {
	ranking RankingStore
	raffles RaffleStore
}

func NewRankingService(ranking RankingStore, raffles RaffleStore) *RankingService {
	return &RankingService{ranking: ranking, raffles: raffles}
}

// ApplyPurchase credits a confirmed purchase to the buyer, keyed by
// (email, phone).
func (s *RankingService) ApplyPurchase(ctx context.Context, purchase *models.Purchase) error {
	email := strings.ToLower(purchase.Email)
	count := len(purchase.SelectedTickets)
	date := purchase.CreatedAt
	if purchase.PurchaseDate != nil {
		date = *purchase.PurchaseDate
	}

	entry, err := s.ranking.Find(ctx, email, purchase.Phone)
	if err != nil {
		return fmt.Errorf("failed to load ranking entry: %w", err)
	}

	if entry == nil {
		entry = &models.RankingEntry{
			Name:          purchase.Name,
			Email:         email,
			Phone:         purchase.Phone,
			TotalTickets:  count,
			FirstPurchase: date,
			LastPurchase:  date,
			Purchases:     []models.RankingPurchase{{Tickets: count, Date: date}},
		}
		return s.ranking.Insert(ctx, entry)
	}

	entry.Name = purchase.Name
	entry.TotalTickets += count
	if date.After(entry.LastPurchase) {
		entry.LastPurchase = date
	}
	if date.Before(entry.FirstPurchase) {
		entry.FirstPurchase = date
	}
	entry.Purchases = append(entry.Purchases, models.RankingPurchase{Tickets: count, Date: date})

	return s.ranking.Update(ctx, entry)
}

// ReversePurchase removes the credit a purchase added. When the buyer has no
// tickets left, the whole entry goes away.
func (s *RankingService) ReversePurchase(ctx context.Context, email, phone string, count int) error {
	entry, err := s.ranking.Find(ctx, strings.ToLower(email), phone)
	if err != nil {
		return fmt.Errorf("failed to load ranking entry: %w", err)
	}
	if entry == nil {
		return nil
	}

	entry.TotalTickets -= count
	for i := len(entry.Purchases) - 1; i >= 0; i-- {
		if entry.Purchases[i].Tickets == count {
			entry.Purchases = append(entry.Purchases[:i], entry.Purchases[i+1:]...)
			break
		}
	}

	if entry.TotalTickets <= 0 {
		return s.ranking.Delete(ctx, entry.ID)
	}
	return s.ranking.Update(ctx, entry)
}

// GetByRaffle returns the leaderboard. The id "all" reads the cross-raffle
// table; a concrete raffle id aggregates that raffle's confirmed purchases.
func (s *RankingService) GetByRaffle(ctx context.Context, raffleID string) ([]models.RankingItem, error) {
	if raffleID == "" || raffleID == "all" {
		entries, err := s.ranking.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list ranking: %w", err)
		}

		items := make([]models.RankingItem, len(entries))
		for i, e := range entries {
			last := e.LastPurchase
			items[i] = models.RankingItem{
				Name:         e.Name,
				Email:        e.Email,
				Phone:        e.Phone,
				TotalTickets: e.TotalTickets,
				LastPurchase: &last,
				RaffleName:   "Todas las rifas",
			}
		}
		return items, nil
	}

	raffle, err := s.raffles.GetByID(ctx, raffleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load raffle: %w", err)
	}
	if raffle == nil {
		return nil, apperr.NotFound("Rifa no encontrada")
	}

	type key struct{ email, phone string }
	totals := make(map[key]*models.RankingItem)
	var order []key

	for i := range raffle.Users {
		p := &raffle.Users[i]
		k := key{strings.ToLower(p.Email), p.Phone}
		item, ok := totals[k]
		if !ok {
			item = &models.RankingItem{
				Name:       p.Name,
				Email:      strings.ToLower(p.Email),
				Phone:      p.Phone,
				RaffleName: raffle.Title,
			}
			totals[k] = item
			order = append(order, k)
		}
		item.TotalTickets += len(p.SelectedTickets)
		if p.PurchaseDate != nil && (item.LastPurchase == nil || p.PurchaseDate.After(*item.LastPurchase)) {
			d := *p.PurchaseDate
			item.LastPurchase = &d
		}
	}

	items := make([]models.RankingItem, 0, len(order))
	for _, k := range order {
		items = append(items, *totals[k])
	}

	// Highest buyer first; ties keep purchase order.
	for i := 1; i < len(items); i++ {
		for j := i; j > 0 && items[j].TotalTickets > items[j-1].TotalTickets; j-- {
			items[j], items[j-1] = items[j-1], items[j]
		}
	}

	return items, nil
}

// Reset wipes the cross-raffle leaderboard.
func (s *RankingService) Reset(ctx context.Context) error {
	if err := s.ranking.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to reset ranking: %w", err)
	}
	return nil
}
