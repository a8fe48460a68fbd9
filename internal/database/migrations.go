package database

import (
	"fmt"
	"log/slog"
)

func (db *DB) RunMigrations() error {
	slog.Info("Running database migrations...")

	migrations := []string{
		createRafflesTable,
		createUserRankingTable,
		createPromotionsTable,
		createPaymentMethodsTable,
		createDollarPriceTable,
		createBonusOverridesTable,
		createRankingUserIndex,
	}

	for i, migration := range migrations {
		slog.Info("Running migration", "step", i+1)
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("All migrations completed successfully")
	return nil
}

const createRafflesTable = `
CREATE EXTENSION IF NOT EXISTS "uuid-ossp";
CREATE TABLE IF NOT EXISTS raffles (
    id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
    title VARCHAR(500) NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    price NUMERIC(12,2) NOT NULL,
    total_tickets INTEGER NOT NULL,
    min_tickets INTEGER NOT NULL DEFAULT 1,
    random_tickets BOOLEAN NOT NULL DEFAULT FALSE,
    start_date TIMESTAMP,
    end_date TIMESTAMP,
    images TEXT[] NOT NULL DEFAULT '{}',
    status VARCHAR(20) NOT NULL DEFAULT 'active',
    sold_tickets TEXT[] NOT NULL DEFAULT '{}',
    reserved_tickets TEXT[] NOT NULL DEFAULT '{}',
    available_numbers INTEGER NOT NULL,
    pending_purchases JSONB NOT NULL DEFAULT '[]',
    users JSONB NOT NULL DEFAULT '[]',
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (status IN ('active', 'finished')),
    CHECK (total_tickets > 0)
);`

const createUserRankingTable = `
CREATE TABLE IF NOT EXISTS user_ranking (
    id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
    name VARCHAR(255) NOT NULL,
    email VARCHAR(255) NOT NULL,
    phone VARCHAR(50) NOT NULL,
    total_tickets INTEGER NOT NULL DEFAULT 0,
    first_purchase TIMESTAMP NOT NULL DEFAULT NOW(),
    last_purchase TIMESTAMP NOT NULL DEFAULT NOW(),
    purchases JSONB NOT NULL DEFAULT '[]',

    UNIQUE(email, phone)
);`

const createPromotionsTable = `
CREATE TABLE IF NOT EXISTS promotions (
    id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
    raffle_id UUID NOT NULL,
    name VARCHAR(255) NOT NULL,
    discount_type VARCHAR(20) NOT NULL,
    discount_value NUMERIC(12,2) NOT NULL DEFAULT 0,
    new_ticket_price NUMERIC(12,2) NOT NULL DEFAULT 0,
    package_price NUMERIC(12,2) NOT NULL DEFAULT 0,
    min_tickets INTEGER NOT NULL DEFAULT 0,
    active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (discount_type IN ('percentage', 'lower_cost', 'package'))
);`

const createPaymentMethodsTable = `
CREATE TABLE IF NOT EXISTS payment_methods (
    id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
    name VARCHAR(255) NOT NULL,
    owner VARCHAR(255) NOT NULL DEFAULT '',
    bank VARCHAR(255) NOT NULL DEFAULT '',
    account_number VARCHAR(255) NOT NULL DEFAULT '',
    phone VARCHAR(50) NOT NULL DEFAULT '',
    email VARCHAR(255) NOT NULL DEFAULT '',
    active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);`

const createDollarPriceTable = `
CREATE TABLE IF NOT EXISTS dollar_price (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    price NUMERIC(12,2) NOT NULL DEFAULT 0,
    updated_at TIMESTAMP NOT NULL DEFAULT NOW()
);
INSERT INTO dollar_price (id, price) VALUES (1, 0) ON CONFLICT (id) DO NOTHING;`

const createBonusOverridesTable = `
CREATE TABLE IF NOT EXISTS bonus_overrides (
    id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
    email VARCHAR(255) NOT NULL,
    name VARCHAR(255) NOT NULL,
    min_tickets INTEGER NOT NULL DEFAULT 1,
    tickets TEXT[] NOT NULL DEFAULT '{}',
    active BOOLEAN NOT NULL DEFAULT TRUE
);`

const createRankingUserIndex = `
CREATE INDEX IF NOT EXISTS user_ranking_email_phone_idx
ON user_ranking (email, phone);`
