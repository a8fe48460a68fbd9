package service_test

import (
	"context"
	"encoding/json"
	"testing"

	"rifa/internal/apperr"
	"rifa/internal/models"
	"rifa/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRaffleDefaults(t *testing.T) {
	store := newFakeRaffleStore()
	svc := service.NewRaffleService(store, nil, nil, nil)

	raffle, err := svc.Create(context.Background(), &models.CreateRaffleRequest{
		Title:        "Rifa de un carro",
		Price:        decimal.NewFromInt(10),
		TotalTickets: 500,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, raffle.ID)
	assert.Equal(t, models.RaffleStatusActive, raffle.Status)
	assert.Equal(t, 1, raffle.MinTickets)
	assert.Equal(t, 500, raffle.AvailableNumbers)
	assert.Empty(t, raffle.SoldTickets)
}

func TestCreateRaffleRejectsZeroTickets(t *testing.T) {
	svc := service.NewRaffleService(newFakeRaffleStore(), nil, nil, nil)

	_, err := svc.Create(context.Background(), &models.CreateRaffleRequest{
		Title: "Vacía",
		Price: decimal.NewFromInt(10),
	})
	assert.True(t, apperr.IsKind(err, apperr.KindCapacity))
}

func TestUpdateRaffle(t *testing.T) {
	store := newFakeRaffleStore()
	svc := service.NewRaffleService(store, nil, nil, nil)
	raffle := newTestRaffle(t, store, 100, false)

	title := "Título nuevo"
	status := models.RaffleStatusFinished
	updated, err := svc.Update(context.Background(), raffle.ID, &models.UpdateRaffleRequest{
		Title:  &title,
		Status: &status,
	})
	require.NoError(t, err)
	assert.Equal(t, "Título nuevo", updated.Title)
	assert.Equal(t, models.RaffleStatusFinished, updated.Status)

	bad := "archivada"
	_, err = svc.Update(context.Background(), raffle.ID, &models.UpdateRaffleRequest{Status: &bad})
	assert.True(t, apperr.IsKind(err, apperr.KindCapacity))
}

func TestUpdateUnknownRaffle(t *testing.T) {
	svc := service.NewRaffleService(newFakeRaffleStore(), nil, nil, nil)

	title := "x"
	_, err := svc.Update(context.Background(), "missing", &models.UpdateRaffleRequest{Title: &title})
	assert.True(t, apperr.IsNotFound(err))
}

func TestListRafflesSerializesSummaries(t *testing.T) {
	store := newFakeRaffleStore()
	svc := service.NewRaffleService(store, nil, nil, nil)
	newTestRaffle(t, store, 100, false)
	newTestRaffle(t, store, 1000, true)

	payload, err := svc.List(context.Background())
	require.NoError(t, err)

	var summaries []models.RaffleSummary
	require.NoError(t, json.Unmarshal(payload, &summaries))
	require.Len(t, summaries, 2)
	assert.NotEmpty(t, summaries[0].ID)
	totals := []int{summaries[0].TotalTickets, summaries[1].TotalTickets}
	assert.ElementsMatch(t, []int{100, 1000}, totals)
}

func TestSearchFallsBackWithoutIndex(t *testing.T) {
	store := newFakeRaffleStore()
	svc := service.NewRaffleService(store, nil, nil, nil)

	raffle := newTestRaffle(t, store, 100, false)
	raffle.Title = "Rifa de una moto"
	require.NoError(t, store.Update(context.Background(), raffle))
	newTestRaffle(t, store, 100, false)

	docs, err := svc.Search(context.Background(), "moto", 10)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, raffle.ID, docs[0].ID)
}
