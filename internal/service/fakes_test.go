package service_test

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"rifa/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// In-memory stores backing the service tests. Mutate mimics the row-lock
// semantics: fn runs on a copy and a failed fn leaves the store untouched.

type fakeRaffleStore struct {
	raffles map[string]*models.Raffle
}

func newFakeRaffleStore() *fakeRaffleStore {
	return &fakeRaffleStore{raffles: make(map[string]*models.Raffle)}
}

func cloneRaffle(r *models.Raffle) *models.Raffle {
	payload, _ := json.Marshal(r)
	var clone models.Raffle
	_ = json.Unmarshal(payload, &clone)
	return &clone
}

func (f *fakeRaffleStore) Create(_ context.Context, r *models.Raffle) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	f.raffles[r.ID] = cloneRaffle(r)
	return nil
}

func (f *fakeRaffleStore) GetByID(_ context.Context, id string) (*models.Raffle, error) {
	r, ok := f.raffles[id]
	if !ok {
		return nil, nil
	}
	return cloneRaffle(r), nil
}

func (f *fakeRaffleStore) List(_ context.Context) ([]models.Raffle, error) {
	ids := make([]string, 0, len(f.raffles))
	for id := range f.raffles {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	raffles := make([]models.Raffle, 0, len(ids))
	for _, id := range ids {
		raffles = append(raffles, *cloneRaffle(f.raffles[id]))
	}
	return raffles, nil
}

func (f *fakeRaffleStore) Update(_ context.Context, r *models.Raffle) error {
	f.raffles[r.ID] = cloneRaffle(r)
	return nil
}

func (f *fakeRaffleStore) Delete(_ context.Context, id string) error {
	delete(f.raffles, id)
	return nil
}

func (f *fakeRaffleStore) Mutate(_ context.Context, id string, fn func(*models.Raffle) error) (*models.Raffle, error) {
	stored, ok := f.raffles[id]
	if !ok {
		return nil, nil
	}
	working := cloneRaffle(stored)
	if err := fn(working); err != nil {
		return nil, err
	}
	f.raffles[id] = cloneRaffle(working)
	return working, nil
}

type fakeRankingStore struct {
	entries []*models.RankingEntry
}

func (f *fakeRankingStore) Find(_ context.Context, email, phone string) (*models.RankingEntry, error) {
	for _, e := range f.entries {
		if e.Email == email && e.Phone == phone {
			clone := *e
			clone.Purchases = append([]models.RankingPurchase{}, e.Purchases...)
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeRankingStore) Insert(_ context.Context, entry *models.RankingEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	clone := *entry
	f.entries = append(f.entries, &clone)
	return nil
}

func (f *fakeRankingStore) Update(_ context.Context, entry *models.RankingEntry) error {
	for i, e := range f.entries {
		if e.ID == entry.ID {
			clone := *entry
			f.entries[i] = &clone
			return nil
		}
	}
	return nil
}

func (f *fakeRankingStore) Delete(_ context.Context, id string) error {
	for i, e := range f.entries {
		if e.ID == id {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeRankingStore) List(_ context.Context) ([]models.RankingEntry, error) {
	out := make([]models.RankingEntry, len(f.entries))
	for i, e := range f.entries {
		out[i] = *e
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalTickets > out[j].TotalTickets
	})
	return out, nil
}

func (f *fakeRankingStore) DeleteAll(_ context.Context) error {
	f.entries = nil
	return nil
}

type fakeSettingsStore struct {
	methods     []models.PaymentMethod
	overrides   []models.BonusOverride
	dollarPrice decimal.Decimal
	dollarTime  time.Time
}

func (f *fakeSettingsStore) CreatePaymentMethod(_ context.Context, pm *models.PaymentMethod) error {
	if pm.ID == "" {
		pm.ID = uuid.NewString()
	}
	pm.CreatedAt = time.Now()
	f.methods = append(f.methods, *pm)
	return nil
}

func (f *fakeSettingsStore) ListPaymentMethods(_ context.Context, activeOnly bool) ([]models.PaymentMethod, error) {
	var out []models.PaymentMethod
	for _, m := range f.methods {
		if activeOnly && !m.Active {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeSettingsStore) UpdatePaymentMethod(_ context.Context, pm *models.PaymentMethod) error {
	for i := range f.methods {
		if f.methods[i].ID == pm.ID {
			f.methods[i] = *pm
		}
	}
	return nil
}

func (f *fakeSettingsStore) DeletePaymentMethod(_ context.Context, id string) error {
	for i := range f.methods {
		if f.methods[i].ID == id {
			f.methods = append(f.methods[:i], f.methods[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeSettingsStore) GetDollarPrice(_ context.Context) (decimal.Decimal, time.Time, error) {
	return f.dollarPrice, f.dollarTime, nil
}

func (f *fakeSettingsStore) SetDollarPrice(_ context.Context, price decimal.Decimal) error {
	f.dollarPrice = price
	f.dollarTime = time.Now()
	return nil
}

func (f *fakeSettingsStore) FindBonusOverride(_ context.Context, email string) (*models.BonusOverride, error) {
	for i := range f.overrides {
		bo := &f.overrides[i]
		if bo.Active && strings.EqualFold(bo.Email, email) {
			clone := *bo
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeSettingsStore) ListBonusOverrides(_ context.Context) ([]models.BonusOverride, error) {
	return append([]models.BonusOverride{}, f.overrides...), nil
}

func (f *fakeSettingsStore) CreateBonusOverride(_ context.Context, bo *models.BonusOverride) error {
	if bo.ID == "" {
		bo.ID = uuid.NewString()
	}
	f.overrides = append(f.overrides, *bo)
	return nil
}

func (f *fakeSettingsStore) UpdateBonusOverride(_ context.Context, bo *models.BonusOverride) error {
	for i := range f.overrides {
		if f.overrides[i].ID == bo.ID {
			f.overrides[i] = *bo
		}
	}
	return nil
}

func (f *fakeSettingsStore) DeleteBonusOverride(_ context.Context, id string) error {
	for i := range f.overrides {
		if f.overrides[i].ID == id {
			f.overrides = append(f.overrides[:i], f.overrides[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakePromotionStore struct {
	promotions []models.Promotion
}

func (f *fakePromotionStore) Create(_ context.Context, p *models.Promotion) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	f.promotions = append(f.promotions, *p)
	return nil
}

func (f *fakePromotionStore) GetByID(_ context.Context, id string) (*models.Promotion, error) {
	for i := range f.promotions {
		if f.promotions[i].ID == id {
			clone := f.promotions[i]
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakePromotionStore) ListByRaffle(_ context.Context, raffleID string) ([]models.Promotion, error) {
	var out []models.Promotion
	for _, p := range f.promotions {
		if p.RaffleID == raffleID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePromotionStore) ListActiveByRaffle(_ context.Context, raffleID string) ([]models.Promotion, error) {
	var out []models.Promotion
	for _, p := range f.promotions {
		if p.RaffleID == raffleID && p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePromotionStore) Update(_ context.Context, p *models.Promotion) error {
	for i := range f.promotions {
		if f.promotions[i].ID == p.ID {
			f.promotions[i] = *p
		}
	}
	return nil
}

func (f *fakePromotionStore) SetActive(_ context.Context, id string, active bool) error {
	for i := range f.promotions {
		if f.promotions[i].ID == id {
			f.promotions[i].Active = active
		}
	}
	return nil
}

func (f *fakePromotionStore) Delete(_ context.Context, id string) error {
	for i := range f.promotions {
		if f.promotions[i].ID == id {
			f.promotions = append(f.promotions[:i], f.promotions[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakePublisher struct {
	published []string
}

func (f *fakePublisher) Publish(subject string, _ interface{}) error {
	f.published = append(f.published, subject)
	return nil
}
