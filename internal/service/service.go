package service

// Deps carries everything the services depend on. Publisher, Mailer, Images,
// Index and Cache may be nil; the services degrade to skipping the concern.
type Deps struct {
	Raffles    RaffleStore
	Ranking    RankingStore
	Promotions PromotionStore
	Settings   SettingsStore

	Publisher Publisher
	Mailer    Mailer
	Images    ImageUploader
	Index     RaffleIndex
	Cache     ListCache
}

type Services struct {
	Raffles      *RaffleService
	Tickets      *TicketService
	Purchases    *PurchaseService
	Ranking      *RankingService
	Promotions   *PromotionService
	Settings     *SettingsService
	Verification *VerificationService
}

func NewServices(d Deps) *Services {
	ranking := NewRankingService(d.Ranking, d.Raffles)

	return &Services{
		Raffles:      NewRaffleService(d.Raffles, d.Images, d.Index, d.Cache),
		Tickets:      NewTicketService(d.Raffles, d.Publisher, d.Cache),
		Purchases:    NewPurchaseService(d.Raffles, d.Settings, ranking, d.Publisher, d.Mailer, d.Cache),
		Ranking:      ranking,
		Promotions:   NewPromotionService(d.Promotions, d.Raffles),
		Settings:     NewSettingsService(d.Settings),
		Verification: NewVerificationService(d.Raffles),
	}
}
