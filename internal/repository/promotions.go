package repository

import (
	"context"
	"database/sql"

	"rifa/internal/database"
	"rifa/internal/models"
)

type PromotionRepository struct {
	db *database.DB
}

func NewPromotionRepository(db *database.DB) *PromotionRepository {
	return &PromotionRepository{db: db}
}

func scanPromotion(row interface {
	Scan(dest ...interface{}) error
}) (*models.Promotion, error) {
	p := &models.Promotion{}
	err := row.Scan(
		&p.ID,
		&p.RaffleID,
		&p.Name,
		&p.DiscountType,
		&p.DiscountValue,
		&p.NewTicketPrice,
		&p.PackagePrice,
		&p.MinTickets,
		&p.Active,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

const promotionColumns = `id, raffle_id, name, discount_type, discount_value,
		new_ticket_price, package_price, min_tickets, active, created_at, updated_at`

func (r *PromotionRepository) Create(ctx context.Context, p *models.Promotion) error {
	query := `
		INSERT INTO promotions (raffle_id, name, discount_type, discount_value,
			new_ticket_price, package_price, min_tickets, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		p.RaffleID,
		p.Name,
		p.DiscountType,
		p.DiscountValue,
		p.NewTicketPrice,
		p.PackagePrice,
		p.MinTickets,
		p.Active,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *PromotionRepository) GetByID(ctx context.Context, id string) (*models.Promotion, error) {
	query := `SELECT ` + promotionColumns + ` FROM promotions WHERE id = $1`

	p, err := scanPromotion(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PromotionRepository) ListByRaffle(ctx context.Context, raffleID string) ([]models.Promotion, error) {
	query := `SELECT ` + promotionColumns + ` FROM promotions
		WHERE raffle_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, raffleID)
}

func (r *PromotionRepository) ListActiveByRaffle(ctx context.Context, raffleID string) ([]models.Promotion, error) {
	query := `SELECT ` + promotionColumns + ` FROM promotions
		WHERE raffle_id = $1 AND active = TRUE ORDER BY created_at DESC`
	return r.list(ctx, query, raffleID)
}

func (r *PromotionRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Promotion, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var promotions []models.Promotion
	for rows.Next() {
		p, err := scanPromotion(rows)
		if err != nil {
			return nil, err
		}
		promotions = append(promotions, *p)
	}

	return promotions, rows.Err()
}

func (r *PromotionRepository) Update(ctx context.Context, p *models.Promotion) error {
	query := `
		UPDATE promotions SET
			name = $1, discount_type = $2, discount_value = $3, new_ticket_price = $4,
			package_price = $5, min_tickets = $6, active = $7, updated_at = NOW()
		WHERE id = $8`

	_, err := r.db.ExecContext(ctx, query,
		p.Name,
		p.DiscountType,
		p.DiscountValue,
		p.NewTicketPrice,
		p.PackagePrice,
		p.MinTickets,
		p.Active,
		p.ID,
	)
	return err
}

func (r *PromotionRepository) SetActive(ctx context.Context, id string, active bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE promotions SET active = $1, updated_at = NOW() WHERE id = $2`, active, id)
	return err
}

func (r *PromotionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM promotions WHERE id = $1`, id)
	return err
}
