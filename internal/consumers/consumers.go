// Package consumers keeps the search index in sync with the raffle records
// by replaying purchase and reservation events off NATS Streaming.
package consumers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"rifa/internal/messaging"
	"rifa/internal/models"
	"rifa/internal/search"
	"rifa/internal/service"

	"github.com/nats-io/stan.go"
)

const queueGroup = "rifa-consumers"

type Service struct {
	nats    *messaging.NATSClient
	raffles service.RaffleStore
	index   service.RaffleIndex

	subscriptions []stan.Subscription
}

func NewService(nats *messaging.NATSClient, raffles service.RaffleStore, index service.RaffleIndex) *Service {
	return &Service{
		nats:    nats,
		raffles: raffles,
		index:   index,
	}
}

// Start subscribes to every subject that changes a raffle's ticket counts.
func (s *Service) Start() error {
	subjects := []string{
		models.EventPurchaseCreated,
		models.EventPurchaseApproved,
		models.EventPurchaseRejected,
		models.EventPurchaseUndone,
	}
	for _, subject := range subjects {
		sub, err := s.nats.SubscribeQueue(subject, queueGroup, s.handlePurchaseEvent)
		if err != nil {
			return err
		}
		s.subscriptions = append(s.subscriptions, sub)
	}

	for _, subject := range []string{models.EventTicketsReserved, models.EventTicketsReleased} {
		sub, err := s.nats.SubscribeQueue(subject, queueGroup, s.handleTicketsEvent)
		if err != nil {
			return err
		}
		s.subscriptions = append(s.subscriptions, sub)
	}

	slog.Info("Consumers started", "subscriptions", len(s.subscriptions))
	return nil
}

func (s *Service) handlePurchaseEvent(msg *stan.Msg) {
	var event models.PurchaseEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		slog.Error("Failed to decode purchase event", "subject", msg.Subject, "error", err)
		return
	}
	s.reindex(event.RaffleID, msg.Subject)
}

func (s *Service) handleTicketsEvent(msg *stan.Msg) {
	var event models.TicketsEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		slog.Error("Failed to decode tickets event", "subject", msg.Subject, "error", err)
		return
	}
	s.reindex(event.RaffleID, msg.Subject)
}

// reindex reloads the raffle and upserts its search document. A raffle that
// no longer exists gets removed from the index instead.
func (s *Service) reindex(raffleID, subject string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	raffle, err := s.raffles.GetByID(ctx, raffleID)
	if err != nil {
		slog.Error("Failed to load raffle for reindex", "raffle_id", raffleID, "error", err)
		return
	}
	if raffle == nil {
		if err := s.index.DeleteRaffle(ctx, raffleID); err != nil {
			slog.Error("Failed to delete raffle from index", "raffle_id", raffleID, "error", err)
		}
		return
	}

	if err := s.index.IndexRaffle(ctx, search.DocumentFromRaffle(raffle)); err != nil {
		slog.Error("Failed to reindex raffle", "raffle_id", raffleID, "error", err)
		return
	}

	slog.Debug("Raffle reindexed", "raffle_id", raffleID, "subject", subject)
}

func (s *Service) Stop() {
	for _, sub := range s.subscriptions {
		if err := sub.Close(); err != nil {
			slog.Warn("Failed to close subscription", "error", err)
		}
	}
}
