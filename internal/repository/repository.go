package repository

import (
	"rifa/internal/database"
)

type Repositories struct {
	Raffles    *RaffleRepository
	Ranking    *RankingRepository
	Promotions *PromotionRepository
	Settings   *SettingsRepository
}

func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Raffles:    NewRaffleRepository(db),
		Ranking:    NewRankingRepository(db),
		Promotions: NewPromotionRepository(db),
		Settings:   NewSettingsRepository(db),
	}
}
