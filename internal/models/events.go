package models

import "time"

// NATS Event Types
const (
	EventPurchaseCreated  = "purchase.created"
	EventPurchaseApproved = "purchase.approved"
	EventPurchaseRejected = "purchase.rejected"
	EventPurchaseUndone   = "purchase.undone"
	EventTicketsReserved  = "tickets.reserved"
	EventTicketsReleased  = "tickets.released"
)

// PurchaseEvent covers the purchase lifecycle subjects
type PurchaseEvent struct {
	PurchaseID string    `json:"purchase_id"`
	RaffleID   string    `json:"raffle_id"`
	Email      string    `json:"email"`
	Tickets    int       `json:"tickets"`
	Timestamp  time.Time `json:"timestamp"`
}

// TicketsEvent covers reservation subjects
type TicketsEvent struct {
	RaffleID  string    `json:"raffle_id"`
	Tickets   []string  `json:"tickets"`
	Timestamp time.Time `json:"timestamp"`
}
