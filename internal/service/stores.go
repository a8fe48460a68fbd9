package service

import (
	"context"
	"time"

	"rifa/internal/external"
	"rifa/internal/models"
	"rifa/internal/search"

	"github.com/shopspring/decimal"
)

// The services talk to storage through these interfaces so tests can swap in
// in-memory fakes. The repository package provides the Postgres
// implementations.

type RaffleStore interface {
	Create(ctx context.Context, raffle *models.Raffle) error
	GetByID(ctx context.Context, id string) (*models.Raffle, error)
	List(ctx context.Context) ([]models.Raffle, error)
	Update(ctx context.Context, raffle *models.Raffle) error
	Delete(ctx context.Context, id string) error
	// Mutate applies fn to the raffle under a per-raffle write lock and
	// persists the result. It returns (nil, nil) when the raffle does not
	// exist.
	Mutate(ctx context.Context, id string, fn func(*models.Raffle) error) (*models.Raffle, error)
}

type RankingStore interface {
	Find(ctx context.Context, email, phone string) (*models.RankingEntry, error)
	Insert(ctx context.Context, entry *models.RankingEntry) error
	Update(ctx context.Context, entry *models.RankingEntry) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.RankingEntry, error)
	DeleteAll(ctx context.Context) error
}

type PromotionStore interface {
	Create(ctx context.Context, p *models.Promotion) error
	GetByID(ctx context.Context, id string) (*models.Promotion, error)
	ListByRaffle(ctx context.Context, raffleID string) ([]models.Promotion, error)
	ListActiveByRaffle(ctx context.Context, raffleID string) ([]models.Promotion, error)
	Update(ctx context.Context, p *models.Promotion) error
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}

type SettingsStore interface {
	CreatePaymentMethod(ctx context.Context, pm *models.PaymentMethod) error
	ListPaymentMethods(ctx context.Context, activeOnly bool) ([]models.PaymentMethod, error)
	UpdatePaymentMethod(ctx context.Context, pm *models.PaymentMethod) error
	DeletePaymentMethod(ctx context.Context, id string) error

	GetDollarPrice(ctx context.Context) (decimal.Decimal, time.Time, error)
	SetDollarPrice(ctx context.Context, price decimal.Decimal) error

	FindBonusOverride(ctx context.Context, email string) (*models.BonusOverride, error)
	ListBonusOverrides(ctx context.Context) ([]models.BonusOverride, error)
	CreateBonusOverride(ctx context.Context, bo *models.BonusOverride) error
	UpdateBonusOverride(ctx context.Context, bo *models.BonusOverride) error
	DeleteBonusOverride(ctx context.Context, id string) error
}

// Publisher is the event bus surface the services need. Publishing is
// best-effort everywhere: failures are logged, never returned to buyers.
type Publisher interface {
	Publish(subject string, data interface{}) error
}

type Mailer interface {
	SendPurchaseConfirmation(email external.ConfirmationEmail) error
}

type ImageUploader interface {
	Enabled() bool
	Upload(image string) (string, error)
}

type RaffleIndex interface {
	IndexRaffle(ctx context.Context, doc *search.RaffleDocument) error
	DeleteRaffle(ctx context.Context, id string) error
	Search(ctx context.Context, query string, size int) ([]search.RaffleDocument, error)
}

type ListCache interface {
	GetRaffleList(ctx context.Context) ([]byte, error)
	SetRaffleList(ctx context.Context, payload []byte) error
	InvalidateRaffleList(ctx context.Context) error
}
