package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateRaffleRequest - payload for creating a raffle
type CreateRaffleRequest struct {
	Title         string          `json:"title" binding:"required"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price" binding:"required"`
	TotalTickets  int             `json:"total_tickets" binding:"required,gt=0"`
	MinTickets    int             `json:"min_tickets"`
	RandomTickets bool            `json:"random_tickets"`
	StartDate     *time.Time      `json:"start_date"`
	EndDate       *time.Time      `json:"end_date"`
	// Images are either already-hosted URLs or base64 payloads that get
	// uploaded before the raffle is stored.
	Images []string `json:"images"`
}

// UpdateRaffleRequest - payload for editing a raffle
type UpdateRaffleRequest struct {
	Title         *string          `json:"title"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	MinTickets    *int             `json:"min_tickets"`
	StartDate     *time.Time       `json:"start_date"`
	EndDate       *time.Time       `json:"end_date"`
	Images        []string         `json:"images"`
	Status        *string          `json:"status"`
	RandomTickets *bool            `json:"random_tickets"`
}

// RaffleSummary - storefront list item
type RaffleSummary struct {
	ID               string          `json:"id"`
	Title            string          `json:"title"`
	Price            decimal.Decimal `json:"price"`
	TotalTickets     int             `json:"total_tickets"`
	AvailableNumbers int             `json:"available_numbers"`
	RandomTickets    bool            `json:"random_tickets"`
	Images           []string        `json:"images"`
	Status           string          `json:"status"`
}

// ReserveTicketsRequest - payload for reserving/releasing ticket numbers
type ReserveTicketsRequest struct {
	Tickets []string `json:"tickets" binding:"required,min=1"`
}

// CreatePurchaseRequest - storefront payload for a pending purchase
type CreatePurchaseRequest struct {
	RaffleID         string   `json:"raffle_id" binding:"required"`
	Name             string   `json:"name" binding:"required"`
	Email            string   `json:"email" binding:"required,email"`
	Phone            string   `json:"phone" binding:"required"`
	PaymentMethod    string   `json:"payment_method" binding:"required"`
	PaymentReference string   `json:"payment_reference" binding:"required"`
	SelectedTickets  []string `json:"selected_tickets"`
	// TicketCount is used for random raffles where the buyer picks an
	// amount instead of specific numbers.
	TicketCount int `json:"ticket_count"`
}

// CreatePurchaseResponse - returned id of the new pending purchase
type CreatePurchaseResponse struct {
	ID      string `json:"id"`
	Tickets int    `json:"tickets"`
}

// PurchaseActionRequest - approve/reject/undo a purchase
type PurchaseActionRequest struct {
	RaffleID string `json:"raffle_id" binding:"required"`
}

// DirectPurchaseRequest - admin shortcut that confirms immediately
type DirectPurchaseRequest struct {
	RaffleID        string   `json:"raffle_id" binding:"required"`
	Name            string   `json:"name" binding:"required"`
	Email           string   `json:"email" binding:"required,email"`
	Phone           string   `json:"phone" binding:"required"`
	SelectedTickets []string `json:"selected_tickets"`
	TicketCount     int      `json:"ticket_count"`
}

// VerifyTicketsRequest - storefront ticket lookup by buyer phone
type VerifyTicketsRequest struct {
	RaffleID string `json:"raffle_id" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
}

// VerifiedTickets - one confirmed purchase matched by the lookup
type VerifiedTickets struct {
	RaffleID    string          `json:"raffle_id"`
	RaffleName  string          `json:"raffle_name"`
	Tickets     []string        `json:"tickets"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// RankingItem - one row of the ranking view
type RankingItem struct {
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	TotalTickets int        `json:"total_tickets"`
	LastPurchase *time.Time `json:"last_purchase,omitempty"`
	RaffleName   string     `json:"raffle_name"`
}

// QuoteRequest - promotion pricing request
type QuoteRequest struct {
	RaffleID    string `json:"raffle_id" binding:"required"`
	TicketCount int    `json:"ticket_count" binding:"required,gt=0"`
	// PromotionID selects a specific promotion; empty means pick the best.
	PromotionID string `json:"promotion_id"`
}

// QuoteResponse - promotion pricing result
type QuoteResponse struct {
	RegularTotal decimal.Decimal `json:"regular_total"`
	Total        decimal.Decimal `json:"total"`
	Savings      decimal.Decimal `json:"savings"`
	PromotionID  string          `json:"promotion_id,omitempty"`
}

// CreatePromotionRequest - payload for creating a promotion
type CreatePromotionRequest struct {
	RaffleID       string          `json:"raffle_id" binding:"required"`
	Name           string          `json:"name" binding:"required"`
	DiscountType   string          `json:"discount_type" binding:"required,oneof=percentage lower_cost package"`
	DiscountValue  decimal.Decimal `json:"discount_value"`
	NewTicketPrice decimal.Decimal `json:"new_ticket_price"`
	PackagePrice   decimal.Decimal `json:"package_price"`
	MinTickets     int             `json:"min_tickets"`
}

// UpdateDollarPriceRequest - settings payload
type UpdateDollarPriceRequest struct {
	Price decimal.Decimal `json:"price" binding:"required"`
}
