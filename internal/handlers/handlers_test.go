package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"rifa/internal/api"
	"rifa/internal/config"
	"rifa/internal/handlers"
	"rifa/internal/models"
	"rifa/internal/service"
	"rifa/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memRaffleStore struct {
	raffles map[string]*models.Raffle
}

func (m *memRaffleStore) clone(r *models.Raffle) *models.Raffle {
	payload, _ := json.Marshal(r)
	var c models.Raffle
	_ = json.Unmarshal(payload, &c)
	return &c
}

func (m *memRaffleStore) Create(_ context.Context, r *models.Raffle) error {
	m.raffles[r.ID] = m.clone(r)
	return nil
}

func (m *memRaffleStore) GetByID(_ context.Context, id string) (*models.Raffle, error) {
	r, ok := m.raffles[id]
	if !ok {
		return nil, nil
	}
	return m.clone(r), nil
}

func (m *memRaffleStore) List(_ context.Context) ([]models.Raffle, error) {
	var out []models.Raffle
	for _, r := range m.raffles {
		out = append(out, *m.clone(r))
	}
	return out, nil
}

func (m *memRaffleStore) Update(_ context.Context, r *models.Raffle) error {
	m.raffles[r.ID] = m.clone(r)
	return nil
}

func (m *memRaffleStore) Delete(_ context.Context, id string) error {
	delete(m.raffles, id)
	return nil
}

func (m *memRaffleStore) Mutate(_ context.Context, id string, fn func(*models.Raffle) error) (*models.Raffle, error) {
	stored, ok := m.raffles[id]
	if !ok {
		return nil, nil
	}
	working := m.clone(stored)
	if err := fn(working); err != nil {
		return nil, err
	}
	m.raffles[id] = m.clone(working)
	return working, nil
}

type memRankingStore struct {
	entries []models.RankingEntry
}

func (m *memRankingStore) Find(context.Context, string, string) (*models.RankingEntry, error) {
	return nil, nil
}
func (m *memRankingStore) Insert(_ context.Context, e *models.RankingEntry) error {
	m.entries = append(m.entries, *e)
	return nil
}
func (m *memRankingStore) Update(context.Context, *models.RankingEntry) error { return nil }
func (m *memRankingStore) Delete(context.Context, string) error               { return nil }
func (m *memRankingStore) List(context.Context) ([]models.RankingEntry, error) {
	return m.entries, nil
}
func (m *memRankingStore) DeleteAll(context.Context) error { return nil }

func newTestServer(t *testing.T) (*gin.Engine, *memRaffleStore) {
	t.Helper()

	raffles := &memRaffleStore{raffles: make(map[string]*models.Raffle)}
	ranking := &memRankingStore{}

	services := service.NewServices(service.Deps{
		Raffles: raffles,
		Ranking: ranking,
	})
	validator := validation.NewValidator(raffles, ranking, t.TempDir())

	cfg := &config.Config{
		Port:          "8080",
		GinMode:       gin.TestMode,
		AdminUser:     "admin",
		AdminPassword: "secret",
	}

	server := api.NewServer(cfg, handlers.New(services, validator))
	return server.Router(), raffles
}

func seedRaffle(t *testing.T, store *memRaffleStore, id string) {
	t.Helper()
	require.NoError(t, store.Create(context.Background(), &models.Raffle{
		ID:               id,
		Title:            "Rifa de prueba",
		Price:            decimal.NewFromInt(5),
		TotalTickets:     100,
		MinTickets:       1,
		Status:           models.RaffleStatusActive,
		SoldTickets:      []string{},
		ReservedTickets:  []string{},
		AvailableNumbers: 100,
		PendingPurchases: []models.Purchase{},
		Users:            []models.Purchase{},
	}))
}

func doJSON(router *gin.Engine, method, path string, body interface{}, auth bool) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth {
		req.SetBasicAuth("admin", "secret")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestServer(t)

	w := doJSON(router, http.MethodGet, "/health", nil, false)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListRaffles(t *testing.T) {
	router, store := newTestServer(t)
	seedRaffle(t, store, "r1")

	w := doJSON(router, http.MethodGet, "/api/raffles", nil, false)
	require.Equal(t, http.StatusOK, w.Code)

	var summaries []models.RaffleSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, "r1", summaries[0].ID)
}

func TestReserveFlow(t *testing.T) {
	router, store := newTestServer(t)
	seedRaffle(t, store, "r1")

	body := models.ReserveTicketsRequest{Tickets: []string{"01", "02"}}
	w := doJSON(router, http.MethodPost, "/api/raffles/r1/reserve", body, false)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		AvailableNumbers int `json:"available_numbers"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 98, resp.AvailableNumbers)

	// Re-reserving a held number conflicts and reports it.
	w = doJSON(router, http.MethodPost, "/api/raffles/r1/reserve",
		models.ReserveTicketsRequest{Tickets: []string{"01"}}, false)
	require.Equal(t, http.StatusConflict, w.Code)

	var conflict struct {
		Tickets []string `json:"tickets"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &conflict))
	assert.Equal(t, []string{"01"}, conflict.Tickets)
}

func TestReserveUnknownRaffle(t *testing.T) {
	router, _ := newTestServer(t)

	w := doJSON(router, http.MethodPost, "/api/raffles/missing/reserve",
		models.ReserveTicketsRequest{Tickets: []string{"01"}}, false)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreatePurchase(t *testing.T) {
	router, store := newTestServer(t)
	seedRaffle(t, store, "r1")

	w := doJSON(router, http.MethodPost, "/api/purchases", models.CreatePurchaseRequest{
		RaffleID:         "r1",
		Name:             "María Pérez",
		Email:            "maria@example.com",
		Phone:            "04125551234",
		PaymentMethod:    "pago móvil",
		PaymentReference: "REF-001",
		SelectedTickets:  []string{"01", "02"},
	}, false)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp models.CreatePurchaseResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, 2, resp.Tickets)
}

func TestCreatePurchaseBadBody(t *testing.T) {
	router, _ := newTestServer(t)

	w := doJSON(router, http.MethodPost, "/api/purchases", gin.H{"raffle_id": "r1"}, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminRequiresAuth(t *testing.T) {
	router, store := newTestServer(t)
	seedRaffle(t, store, "r1")

	w := doJSON(router, http.MethodGet, "/api/admin/raffles/r1/pending", nil, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/raffles/r1/pending", nil)
	req.SetBasicAuth("admin", "wrong")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	w = doJSON(router, http.MethodGet, "/api/admin/raffles/r1/pending", nil, true)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRunValidation(t *testing.T) {
	router, store := newTestServer(t)
	seedRaffle(t, store, "r1")

	w := doJSON(router, http.MethodPost, "/api/admin/validation/run", nil, true)
	require.Equal(t, http.StatusOK, w.Code)

	var report validation.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.True(t, report.OK)
	assert.Equal(t, 1, report.RafflesChecked)
}
