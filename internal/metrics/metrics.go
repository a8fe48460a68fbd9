package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rifa_http_requests_total",
		Help: "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rifa_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	TicketsReserved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rifa_tickets_reserved_total",
		Help: "Tickets placed on hold by buyers.",
	})

	TicketsSold = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rifa_tickets_sold_total",
		Help: "Tickets confirmed by operators.",
	})

	PurchasesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rifa_purchases_created_total",
		Help: "Pending purchases submitted by buyers.",
	})

	PurchasesApproved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rifa_purchases_approved_total",
		Help: "Pending purchases approved by operators.",
	})

	PurchasesRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rifa_purchases_rejected_total",
		Help: "Pending purchases rejected by operators.",
	})

	ValidationDiscrepancies = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rifa_validation_discrepancies",
		Help: "Discrepancies found by the last consistency validation run.",
	})
)
