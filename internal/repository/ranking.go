package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"rifa/internal/database"
	"rifa/internal/models"
)

type RankingRepository struct {
	db *database.DB
}

func NewRankingRepository(db *database.DB) *RankingRepository {
	return &RankingRepository{db: db}
}

func scanRankingEntry(row interface {
	Scan(dest ...interface{}) error
}) (*models.RankingEntry, error) {
	e := &models.RankingEntry{}
	var purchases []byte

	err := row.Scan(
		&e.ID,
		&e.Name,
		&e.Email,
		&e.Phone,
		&e.TotalTickets,
		&e.FirstPurchase,
		&e.LastPurchase,
		&purchases,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(purchases, &e.Purchases); err != nil {
		return nil, fmt.Errorf("failed to decode ranking purchases: %w", err)
	}
	return e, nil
}

// Find returns the entry for a buyer identity, or nil when none exists.
func (r *RankingRepository) Find(ctx context.Context, email, phone string) (*models.RankingEntry, error) {
	query := `
		SELECT id, name, email, phone, total_tickets, first_purchase, last_purchase, purchases
		FROM user_ranking WHERE email = $1 AND phone = $2`

	entry, err := scanRankingEntry(r.db.QueryRowContext(ctx, query, email, phone))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *RankingRepository) Insert(ctx context.Context, entry *models.RankingEntry) error {
	purchases, err := json.Marshal(entry.Purchases)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO user_ranking (name, email, phone, total_tickets, first_purchase, last_purchase, purchases)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	return r.db.QueryRowContext(ctx, query,
		entry.Name,
		entry.Email,
		entry.Phone,
		entry.TotalTickets,
		entry.FirstPurchase,
		entry.LastPurchase,
		purchases,
	).Scan(&entry.ID)
}

func (r *RankingRepository) Update(ctx context.Context, entry *models.RankingEntry) error {
	purchases, err := json.Marshal(entry.Purchases)
	if err != nil {
		return err
	}

	query := `
		UPDATE user_ranking SET
			name = $1, total_tickets = $2, first_purchase = $3, last_purchase = $4, purchases = $5
		WHERE id = $6`

	_, err = r.db.ExecContext(ctx, query,
		entry.Name,
		entry.TotalTickets,
		entry.FirstPurchase,
		entry.LastPurchase,
		purchases,
		entry.ID,
	)
	return err
}

func (r *RankingRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM user_ranking WHERE id = $1`, id)
	return err
}

// List returns every entry ordered by total tickets descending.
func (r *RankingRepository) List(ctx context.Context) ([]models.RankingEntry, error) {
	query := `
		SELECT id, name, email, phone, total_tickets, first_purchase, last_purchase, purchases
		FROM user_ranking ORDER BY total_tickets DESC, last_purchase ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.RankingEntry
	for rows.Next() {
		entry, err := scanRankingEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}

	return entries, rows.Err()
}

func (r *RankingRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM user_ranking`)
	return err
}
