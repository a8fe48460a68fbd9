package service_test

import (
	"context"
	"testing"
	"time"

	"rifa/internal/apperr"
	"rifa/internal/models"
	"rifa/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyTicketsByPhone(t *testing.T) {
	raffles := newFakeRaffleStore()
	svc := service.NewVerificationService(raffles)
	ctx := context.Background()

	raffle := newTestRaffle(t, raffles, 100, false)
	date := time.Now()
	raffle.Users = []models.Purchase{
		*confirmedPurchase("ana@example.com", "0412-555-1234", []string{"01", "02"}, date),
		*confirmedPurchase("luis@example.com", "04245550000", []string{"03"}, date),
	}
	require.NoError(t, raffles.Update(ctx, raffle))

	// Formatting differences must not hide the tickets.
	results, err := svc.Verify(ctx, &models.VerifyTicketsRequest{
		RaffleID: raffle.ID,
		Phone:    "(0412) 555-1234",
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.ElementsMatch(t, []string{"01", "02"}, results[0].Tickets)
	assert.True(t, results[0].TotalAmount.Equal(decimal.NewFromInt(10)), "got %s", results[0].TotalAmount)
	assert.Equal(t, raffle.Title, results[0].RaffleName)
}

func TestVerifyNoMatches(t *testing.T) {
	raffles := newFakeRaffleStore()
	svc := service.NewVerificationService(raffles)
	raffle := newTestRaffle(t, raffles, 100, false)

	results, err := svc.Verify(context.Background(), &models.VerifyTicketsRequest{
		RaffleID: raffle.ID,
		Phone:    "0412000000",
	})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestVerifyUnknownRaffle(t *testing.T) {
	svc := service.NewVerificationService(newFakeRaffleStore())

	_, err := svc.Verify(context.Background(), &models.VerifyTicketsRequest{
		RaffleID: "missing",
		Phone:    "0412000000",
	})
	assert.True(t, apperr.IsNotFound(err))
}
