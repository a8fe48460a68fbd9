package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"rifa/internal/database"
	"rifa/internal/models"

	"github.com/lib/pq"
)

type RaffleRepository struct {
	db *database.DB
}

func NewRaffleRepository(db *database.DB) *RaffleRepository {
	return &RaffleRepository{db: db}
}

const raffleColumns = `id, title, description, price, total_tickets, min_tickets, random_tickets,
		start_date, end_date, images, status, sold_tickets, reserved_tickets,
		available_numbers, pending_purchases, users, created_at, updated_at`

func scanRaffle(row interface {
	Scan(dest ...interface{}) error
}) (*models.Raffle, error) {
	r := &models.Raffle{}
	var pending, users []byte

	err := row.Scan(
		&r.ID,
		&r.Title,
		&r.Description,
		&r.Price,
		&r.TotalTickets,
		&r.MinTickets,
		&r.RandomTickets,
		&r.StartDate,
		&r.EndDate,
		pq.Array(&r.Images),
		&r.Status,
		pq.Array(&r.SoldTickets),
		pq.Array(&r.ReservedTickets),
		&r.AvailableNumbers,
		&pending,
		&users,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(pending, &r.PendingPurchases); err != nil {
		return nil, fmt.Errorf("failed to decode pending purchases: %w", err)
	}
	if err := json.Unmarshal(users, &r.Users); err != nil {
		return nil, fmt.Errorf("failed to decode confirmed users: %w", err)
	}

	return r, nil
}

func (r *RaffleRepository) Create(ctx context.Context, raffle *models.Raffle) error {
	pending, err := json.Marshal(raffle.PendingPurchases)
	if err != nil {
		return err
	}
	users, err := json.Marshal(raffle.Users)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO raffles (title, description, price, total_tickets, min_tickets, random_tickets,
			start_date, end_date, images, status, sold_tickets, reserved_tickets,
			available_numbers, pending_purchases, users)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		raffle.Title,
		raffle.Description,
		raffle.Price,
		raffle.TotalTickets,
		raffle.MinTickets,
		raffle.RandomTickets,
		raffle.StartDate,
		raffle.EndDate,
		pq.Array(raffle.Images),
		raffle.Status,
		pq.Array(raffle.SoldTickets),
		pq.Array(raffle.ReservedTickets),
		raffle.AvailableNumbers,
		pending,
		users,
	).Scan(&raffle.ID, &raffle.CreatedAt, &raffle.UpdatedAt)
}

func (r *RaffleRepository) GetByID(ctx context.Context, id string) (*models.Raffle, error) {
	query := `SELECT ` + raffleColumns + ` FROM raffles WHERE id = $1`

	raffle, err := scanRaffle(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return raffle, nil
}

func (r *RaffleRepository) List(ctx context.Context) ([]models.Raffle, error) {
	query := `SELECT ` + raffleColumns + ` FROM raffles ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var raffles []models.Raffle
	for rows.Next() {
		raffle, err := scanRaffle(rows)
		if err != nil {
			return nil, err
		}
		raffles = append(raffles, *raffle)
	}

	return raffles, rows.Err()
}

func (r *RaffleRepository) Update(ctx context.Context, raffle *models.Raffle) error {
	pending, err := json.Marshal(raffle.PendingPurchases)
	if err != nil {
		return err
	}
	users, err := json.Marshal(raffle.Users)
	if err != nil {
		return err
	}

	query := `
		UPDATE raffles SET
			title = $1, description = $2, price = $3, min_tickets = $4, random_tickets = $5,
			start_date = $6, end_date = $7, images = $8, status = $9,
			sold_tickets = $10, reserved_tickets = $11, available_numbers = $12,
			pending_purchases = $13, users = $14, updated_at = NOW()
		WHERE id = $15`

	_, err = r.db.ExecContext(ctx, query,
		raffle.Title,
		raffle.Description,
		raffle.Price,
		raffle.MinTickets,
		raffle.RandomTickets,
		raffle.StartDate,
		raffle.EndDate,
		pq.Array(raffle.Images),
		raffle.Status,
		pq.Array(raffle.SoldTickets),
		pq.Array(raffle.ReservedTickets),
		raffle.AvailableNumbers,
		pending,
		users,
		raffle.ID,
	)
	return err
}

func (r *RaffleRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM raffles WHERE id = $1`, id)
	return err
}

// Mutate loads the raffle row under FOR UPDATE, applies fn to the in-memory
// record and writes it back in the same transaction. Concurrent mutations of
// one raffle serialize on the row lock, so the read-modify-write cannot lose
// updates. fn returning an error aborts the transaction untouched.
func (r *RaffleRepository) Mutate(ctx context.Context, id string, fn func(*models.Raffle) error) (*models.Raffle, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := `SELECT ` + raffleColumns + ` FROM raffles WHERE id = $1 FOR UPDATE`
	raffle, err := scanRaffle(tx.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := fn(raffle); err != nil {
		return nil, err
	}

	pending, err := json.Marshal(raffle.PendingPurchases)
	if err != nil {
		return nil, err
	}
	users, err := json.Marshal(raffle.Users)
	if err != nil {
		return nil, err
	}

	updateQuery := `
		UPDATE raffles SET
			sold_tickets = $1, reserved_tickets = $2, available_numbers = $3,
			pending_purchases = $4, users = $5, updated_at = NOW()
		WHERE id = $6`

	_, err = tx.ExecContext(ctx, updateQuery,
		pq.Array(raffle.SoldTickets),
		pq.Array(raffle.ReservedTickets),
		raffle.AvailableNumbers,
		pending,
		users,
		raffle.ID,
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return raffle, nil
}
