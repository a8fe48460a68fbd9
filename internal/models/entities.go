package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Raffle statuses
const (
	RaffleStatusActive   = "active"
	RaffleStatusFinished = "finished"
)

// Purchase statuses
const (
	PurchaseStatusPending   = "pending"
	PurchaseStatusConfirmed = "confirmed"
)

// Promotion discount types
const (
	DiscountPercentage = "percentage"
	DiscountLowerCost  = "lower_cost"
	DiscountPackage    = "package"
)

// Raffle is the single record every ticket operation reads and mutates.
// Pending and confirmed purchases are embedded so each mutation is one
// all-or-nothing row write.
type Raffle struct {
	ID               string          `json:"id" db:"id"`
	Title            string          `json:"title" db:"title"`
	Description      string          `json:"description" db:"description"`
	Price            decimal.Decimal `json:"price" db:"price"`
	TotalTickets     int             `json:"total_tickets" db:"total_tickets"`
	MinTickets       int             `json:"min_tickets" db:"min_tickets"`
	RandomTickets    bool            `json:"random_tickets" db:"random_tickets"`
	StartDate        *time.Time      `json:"start_date" db:"start_date"`
	EndDate          *time.Time      `json:"end_date" db:"end_date"`
	Images           []string        `json:"images" db:"images"`
	Status           string          `json:"status" db:"status"`
	SoldTickets      []string        `json:"sold_tickets" db:"sold_tickets"`
	ReservedTickets  []string        `json:"reserved_tickets" db:"reserved_tickets"`
	AvailableNumbers int             `json:"available_numbers" db:"available_numbers"`
	PendingPurchases []Purchase      `json:"pending_purchases" db:"pending_purchases"`
	Users            []Purchase      `json:"users" db:"users"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at" db:"updated_at"`
}

// Purchase is a buyer's ticket request. It lives in Raffle.PendingPurchases
// while waiting for an operator and moves to Raffle.Users once confirmed.
// On random raffles TicketCount is set instead of SelectedTickets; the
// numbers are drawn when an operator approves.
type Purchase struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	Phone            string     `json:"phone"`
	PaymentMethod    string     `json:"payment_method"`
	PaymentReference string     `json:"payment_reference"`
	SelectedTickets  []string   `json:"selected_tickets"`
	TicketCount      int        `json:"ticket_count,omitempty"`
	Status           string     `json:"status"`
	CreatedAt        time.Time  `json:"created_at"`
	PurchaseDate     *time.Time `json:"purchase_date,omitempty"`
}

// RankingEntry accumulates confirmed ticket purchases per buyer across all
// raffles, keyed by (email, phone).
type RankingEntry struct {
	ID            string            `json:"id" db:"id"`
	Name          string            `json:"name" db:"name"`
	Email         string            `json:"email" db:"email"`
	Phone         string            `json:"phone" db:"phone"`
	TotalTickets  int               `json:"total_tickets" db:"total_tickets"`
	FirstPurchase time.Time         `json:"first_purchase" db:"first_purchase"`
	LastPurchase  time.Time         `json:"last_purchase" db:"last_purchase"`
	Purchases     []RankingPurchase `json:"purchases" db:"purchases"`
}

// RankingPurchase is one confirmed purchase inside a ranking entry.
type RankingPurchase struct {
	Tickets int       `json:"tickets"`
	Date    time.Time `json:"date"`
}

// Promotion is a pricing rule for a raffle.
type Promotion struct {
	ID             string          `json:"id" db:"id"`
	RaffleID       string          `json:"raffle_id" db:"raffle_id"`
	Name           string          `json:"name" db:"name"`
	DiscountType   string          `json:"discount_type" db:"discount_type"`
	DiscountValue  decimal.Decimal `json:"discount_value" db:"discount_value"`
	NewTicketPrice decimal.Decimal `json:"new_ticket_price" db:"new_ticket_price"`
	PackagePrice   decimal.Decimal `json:"package_price" db:"package_price"`
	MinTickets     int             `json:"min_tickets" db:"min_tickets"`
	Active         bool            `json:"active" db:"active"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}

// PaymentMethod is a settings record shown to buyers on the storefront.
type PaymentMethod struct {
	ID            string    `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Owner         string    `json:"owner" db:"owner"`
	Bank          string    `json:"bank" db:"bank"`
	AccountNumber string    `json:"account_number" db:"account_number"`
	Phone         string    `json:"phone" db:"phone"`
	Email         string    `json:"email" db:"email"`
	Active        bool      `json:"active" db:"active"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// BonusOverride grants extra tickets to a specific buyer declaratively,
// replacing ad hoc special cases in the purchase flow.
type BonusOverride struct {
	ID         string   `json:"id" db:"id"`
	Email      string   `json:"email" db:"email"`
	Name       string   `json:"name" db:"name"`
	MinTickets int      `json:"min_tickets" db:"min_tickets"`
	Tickets    []string `json:"tickets" db:"tickets"`
	Active     bool     `json:"active" db:"active"`
}
