package service_test

import (
	"context"
	"testing"

	"rifa/internal/apperr"
	"rifa/internal/models"
	"rifa/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRaffle(t *testing.T, store *fakeRaffleStore, total int, random bool) *models.Raffle {
	t.Helper()
	raffle := &models.Raffle{
		Title:            "Rifa de prueba",
		Price:            decimal.NewFromInt(5),
		TotalTickets:     total,
		MinTickets:       1,
		RandomTickets:    random,
		Status:           models.RaffleStatusActive,
		SoldTickets:      []string{},
		ReservedTickets:  []string{},
		AvailableNumbers: total,
		PendingPurchases: []models.Purchase{},
		Users:            []models.Purchase{},
	}
	require.NoError(t, store.Create(context.Background(), raffle))
	return raffle
}

func TestReserveTickets(t *testing.T) {
	store := newFakeRaffleStore()
	publisher := &fakePublisher{}
	svc := service.NewTicketService(store, publisher, nil)
	raffle := newTestRaffle(t, store, 100, false)

	updated, err := svc.Reserve(context.Background(), raffle.ID, []string{"01", "02"})
	require.NoError(t, err)
	assert.Equal(t, 98, updated.AvailableNumbers)
	assert.ElementsMatch(t, []string{"01", "02"}, updated.ReservedTickets)
	assert.Contains(t, publisher.published, models.EventTicketsReserved)
}

func TestReserveConflict(t *testing.T) {
	store := newFakeRaffleStore()
	svc := service.NewTicketService(store, nil, nil)
	raffle := newTestRaffle(t, store, 100, false)

	_, err := svc.Reserve(context.Background(), raffle.ID, []string{"01", "02"})
	require.NoError(t, err)

	_, err = svc.Reserve(context.Background(), raffle.ID, []string{"01", "03"})
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))

	var e *apperr.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, []string{"01"}, e.Tickets)

	// A failed reservation must not hold anything.
	stored, err := store.GetByID(context.Background(), raffle.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"01", "02"}, stored.ReservedTickets)
	assert.Equal(t, 98, stored.AvailableNumbers)
}

func TestReserveUnknownRaffle(t *testing.T) {
	svc := service.NewTicketService(newFakeRaffleStore(), nil, nil)

	_, err := svc.Reserve(context.Background(), "missing", []string{"01"})
	assert.True(t, apperr.IsNotFound(err))
}

func TestReserveInactiveRaffle(t *testing.T) {
	store := newFakeRaffleStore()
	svc := service.NewTicketService(store, nil, nil)
	raffle := newTestRaffle(t, store, 100, false)

	finished := models.RaffleStatusFinished
	raffle.Status = finished
	require.NoError(t, store.Update(context.Background(), raffle))

	_, err := svc.Reserve(context.Background(), raffle.ID, []string{"01"})
	assert.True(t, apperr.IsKind(err, apperr.KindCapacity))
}

func TestReleaseTickets(t *testing.T) {
	store := newFakeRaffleStore()
	svc := service.NewTicketService(store, nil, nil)
	raffle := newTestRaffle(t, store, 100, false)

	_, err := svc.Reserve(context.Background(), raffle.ID, []string{"01", "02", "03"})
	require.NoError(t, err)

	updated, err := svc.Release(context.Background(), raffle.ID, []string{"02"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"01", "03"}, updated.ReservedTickets)
	assert.Equal(t, 98, updated.AvailableNumbers)

	// Double release is harmless.
	updated, err = svc.Release(context.Background(), raffle.ID, []string{"02"})
	require.NoError(t, err)
	assert.Equal(t, 98, updated.AvailableNumbers)
}
