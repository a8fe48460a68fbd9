package repository

import (
	"context"
	"database/sql"
	"time"

	"rifa/internal/database"
	"rifa/internal/models"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// SettingsRepository covers the small configuration tables: payment methods,
// the dollar price and bonus overrides.
type SettingsRepository struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) CreatePaymentMethod(ctx context.Context, pm *models.PaymentMethod) error {
	query := `
		INSERT INTO payment_methods (name, owner, bank, account_number, phone, email, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		pm.Name, pm.Owner, pm.Bank, pm.AccountNumber, pm.Phone, pm.Email, pm.Active,
	).Scan(&pm.ID, &pm.CreatedAt)
}

func (r *SettingsRepository) ListPaymentMethods(ctx context.Context, activeOnly bool) ([]models.PaymentMethod, error) {
	query := `
		SELECT id, name, owner, bank, account_number, phone, email, active, created_at
		FROM payment_methods`
	if activeOnly {
		query += ` WHERE active = TRUE`
	}
	query += ` ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var methods []models.PaymentMethod
	for rows.Next() {
		var pm models.PaymentMethod
		if err := rows.Scan(&pm.ID, &pm.Name, &pm.Owner, &pm.Bank,
			&pm.AccountNumber, &pm.Phone, &pm.Email, &pm.Active, &pm.CreatedAt); err != nil {
			return nil, err
		}
		methods = append(methods, pm)
	}

	return methods, rows.Err()
}

func (r *SettingsRepository) UpdatePaymentMethod(ctx context.Context, pm *models.PaymentMethod) error {
	query := `
		UPDATE payment_methods SET
			name = $1, owner = $2, bank = $3, account_number = $4, phone = $5, email = $6, active = $7
		WHERE id = $8`

	_, err := r.db.ExecContext(ctx, query,
		pm.Name, pm.Owner, pm.Bank, pm.AccountNumber, pm.Phone, pm.Email, pm.Active, pm.ID)
	return err
}

func (r *SettingsRepository) DeletePaymentMethod(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM payment_methods WHERE id = $1`, id)
	return err
}

// GetDollarPrice returns the current exchange rate and when it was last set.
func (r *SettingsRepository) GetDollarPrice(ctx context.Context) (decimal.Decimal, time.Time, error) {
	var price decimal.Decimal
	var updatedAt time.Time
	err := r.db.QueryRowContext(ctx,
		`SELECT price, updated_at FROM dollar_price WHERE id = 1`).Scan(&price, &updatedAt)
	return price, updatedAt, err
}

func (r *SettingsRepository) SetDollarPrice(ctx context.Context, price decimal.Decimal) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE dollar_price SET price = $1, updated_at = NOW() WHERE id = 1`, price)
	return err
}

// FindBonusOverride returns the active override for an email, or nil.
func (r *SettingsRepository) FindBonusOverride(ctx context.Context, email string) (*models.BonusOverride, error) {
	query := `
		SELECT id, email, name, min_tickets, tickets, active
		FROM bonus_overrides WHERE LOWER(email) = LOWER($1) AND active = TRUE`

	bo := &models.BonusOverride{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&bo.ID, &bo.Email, &bo.Name, &bo.MinTickets, pq.Array(&bo.Tickets), &bo.Active)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return bo, nil
}

func (r *SettingsRepository) ListBonusOverrides(ctx context.Context) ([]models.BonusOverride, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, email, name, min_tickets, tickets, active FROM bonus_overrides ORDER BY email ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var overrides []models.BonusOverride
	for rows.Next() {
		var bo models.BonusOverride
		if err := rows.Scan(&bo.ID, &bo.Email, &bo.Name, &bo.MinTickets,
			pq.Array(&bo.Tickets), &bo.Active); err != nil {
			return nil, err
		}
		overrides = append(overrides, bo)
	}

	return overrides, rows.Err()
}

func (r *SettingsRepository) CreateBonusOverride(ctx context.Context, bo *models.BonusOverride) error {
	query := `
		INSERT INTO bonus_overrides (email, name, min_tickets, tickets, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	return r.db.QueryRowContext(ctx, query,
		bo.Email, bo.Name, bo.MinTickets, pq.Array(bo.Tickets), bo.Active).Scan(&bo.ID)
}

func (r *SettingsRepository) UpdateBonusOverride(ctx context.Context, bo *models.BonusOverride) error {
	query := `
		UPDATE bonus_overrides SET
			email = $1, name = $2, min_tickets = $3, tickets = $4, active = $5
		WHERE id = $6`

	_, err := r.db.ExecContext(ctx, query,
		bo.Email, bo.Name, bo.MinTickets, pq.Array(bo.Tickets), bo.Active, bo.ID)
	return err
}

func (r *SettingsRepository) DeleteBonusOverride(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM bonus_overrides WHERE id = $1`, id)
	return err
}
