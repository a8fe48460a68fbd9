package validation

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"rifa/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRaffleStore struct {
	raffles []models.Raffle
}

func (s *stubRaffleStore) Create(context.Context, *models.Raffle) error { return nil }
func (s *stubRaffleStore) GetByID(_ context.Context, id string) (*models.Raffle, error) {
	for i := range s.raffles {
		if s.raffles[i].ID == id {
			return &s.raffles[i], nil
		}
	}
	return nil, nil
}
func (s *stubRaffleStore) List(context.Context) ([]models.Raffle, error) { return s.raffles, nil }
func (s *stubRaffleStore) Update(context.Context, *models.Raffle) error  { return nil }
func (s *stubRaffleStore) Delete(context.Context, string) error          { return nil }
func (s *stubRaffleStore) Mutate(context.Context, string, func(*models.Raffle) error) (*models.Raffle, error) {
	return nil, nil
}

type stubRankingStore struct {
	entries []models.RankingEntry
}

func (s *stubRankingStore) Find(context.Context, string, string) (*models.RankingEntry, error) {
	return nil, nil
}
func (s *stubRankingStore) Insert(context.Context, *models.RankingEntry) error { return nil }
func (s *stubRankingStore) Update(context.Context, *models.RankingEntry) error { return nil }
func (s *stubRankingStore) Delete(context.Context, string) error               { return nil }
func (s *stubRankingStore) List(context.Context) ([]models.RankingEntry, error) {
	return s.entries, nil
}
func (s *stubRankingStore) DeleteAll(context.Context) error { return nil }

func consistentRaffle() models.Raffle {
	now := time.Now()
	return models.Raffle{
		ID:               "r1",
		Title:            "Rifa consistente",
		TotalTickets:     100,
		SoldTickets:      []string{"01", "02"},
		ReservedTickets:  []string{"03"},
		AvailableNumbers: 97,
		PendingPurchases: []models.Purchase{
			{
				ID:              "p2",
				Name:            "Luis",
				Email:           "luis@example.com",
				Phone:           "0414",
				SelectedTickets: []string{"03"},
				Status:          models.PurchaseStatusPending,
			},
		},
		Users: []models.Purchase{
			{
				ID:              "p1",
				Name:            "Ana",
				Email:           "ana@example.com",
				Phone:           "0412",
				SelectedTickets: []string{"01", "02"},
				Status:          models.PurchaseStatusConfirmed,
				PurchaseDate:    &now,
			},
		},
	}
}

func TestValidatorCleanRun(t *testing.T) {
	raffles := &stubRaffleStore{raffles: []models.Raffle{consistentRaffle()}}
	ranking := &stubRankingStore{entries: []models.RankingEntry{
		{Name: "Ana", Email: "ana@example.com", Phone: "0412", TotalTickets: 2},
	}}

	v := NewValidator(raffles, ranking, t.TempDir())
	report, err := v.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, report.OK)
	assert.Empty(t, report.Discrepancies)
	assert.Equal(t, 1, report.RafflesChecked)
	assert.Equal(t, 1, report.UsersChecked)
}

func TestValidatorDetectsCounterDrift(t *testing.T) {
	raffle := consistentRaffle()
	raffle.AvailableNumbers = 90

	v := NewValidator(
		&stubRaffleStore{raffles: []models.Raffle{raffle}},
		&stubRankingStore{entries: []models.RankingEntry{
			{Email: "ana@example.com", Phone: "0412", TotalTickets: 2},
		}},
		t.TempDir(),
	)
	report, err := v.Run(context.Background())
	require.NoError(t, err)

	require.False(t, report.OK)
	assert.Equal(t, TotalMismatch, report.Discrepancies[0].Type)
	assert.Equal(t, "r1", report.Discrepancies[0].RaffleID)
}

func TestValidatorDetectsDuplicatesAndOverlap(t *testing.T) {
	raffle := consistentRaffle()
	raffle.SoldTickets = []string{"01", "02", "02", "03"}
	raffle.AvailableNumbers = 95

	v := NewValidator(
		&stubRaffleStore{raffles: []models.Raffle{raffle}},
		&stubRankingStore{},
		t.TempDir(),
	)
	report, err := v.Run(context.Background())
	require.NoError(t, err)
	require.False(t, report.OK)

	types := make(map[string]bool)
	for _, d := range report.Discrepancies {
		types[d.Type] = true
	}
	assert.True(t, types[SoldTicketsMismatch], "duplicate sold tickets not reported")
	assert.True(t, types[ReservedNumbersMismatch], "sold/reserved overlap not reported")
	assert.True(t, types[UserMismatch], "user/sold mismatch not reported")
}

func TestValidatorDetectsUnbackedPendingHold(t *testing.T) {
	raffle := consistentRaffle()
	raffle.ReservedTickets = []string{}
	raffle.AvailableNumbers = 98

	v := NewValidator(
		&stubRaffleStore{raffles: []models.Raffle{raffle}},
		&stubRankingStore{entries: []models.RankingEntry{
			{Email: "ana@example.com", Phone: "0412", TotalTickets: 2},
		}},
		t.TempDir(),
	)
	report, err := v.Run(context.Background())
	require.NoError(t, err)

	require.False(t, report.OK)
	require.Len(t, report.Discrepancies, 1)
	assert.Equal(t, ReservedNumbersMismatch, report.Discrepancies[0].Type)
}

func TestValidatorCountsRandomHolds(t *testing.T) {
	raffle := consistentRaffle()
	raffle.PendingPurchases = []models.Purchase{
		{ID: "p2", Email: "luis@example.com", Phone: "0414", TicketCount: 1, Status: models.PurchaseStatusPending},
	}

	v := NewValidator(
		&stubRaffleStore{raffles: []models.Raffle{raffle}},
		&stubRankingStore{entries: []models.RankingEntry{
			{Email: "ana@example.com", Phone: "0412", TotalTickets: 2},
		}},
		t.TempDir(),
	)
	report, err := v.Run(context.Background())
	require.NoError(t, err)

	// One placeholder is reserved and one pending count holds it.
	assert.True(t, report.OK)
}

func TestValidatorDetectsMissingRankingEntry(t *testing.T) {
	v := NewValidator(
		&stubRaffleStore{raffles: []models.Raffle{consistentRaffle()}},
		&stubRankingStore{},
		t.TempDir(),
	)
	report, err := v.Run(context.Background())
	require.NoError(t, err)

	require.False(t, report.OK)
	require.Len(t, report.Discrepancies, 1)
	assert.Equal(t, MissingInRanking, report.Discrepancies[0].Type)
}

func TestValidatorDetectsRankingTotalMismatch(t *testing.T) {
	v := NewValidator(
		&stubRaffleStore{raffles: []models.Raffle{consistentRaffle()}},
		&stubRankingStore{entries: []models.RankingEntry{
			{Email: "ana@example.com", Phone: "0412", TotalTickets: 7},
		}},
		t.TempDir(),
	)
	report, err := v.Run(context.Background())
	require.NoError(t, err)

	require.False(t, report.OK)
	require.Len(t, report.Discrepancies, 1)
	assert.Equal(t, GlobalUserMismatch, report.Discrepancies[0].Type)
}

func TestValidatorWritesReports(t *testing.T) {
	dir := t.TempDir()
	v := NewValidator(
		&stubRaffleStore{raffles: []models.Raffle{consistentRaffle()}},
		&stubRankingStore{entries: []models.RankingEntry{
			{Email: "ana@example.com", Phone: "0412", TotalTickets: 2},
		}},
		dir,
	)

	_, err := v.Run(context.Background())
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	_, err = os.Stat(filepath.Join(dir, "latest_validation_summary.json"))
	require.NoError(t, err)

	latest, err := v.LatestSummary()
	require.NoError(t, err)
	assert.True(t, latest.OK)
}
