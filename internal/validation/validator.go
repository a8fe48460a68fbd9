// Package validation cross-checks the raffle records and the buyer ranking
// for drift. It runs on demand from the admin API and on a timer in the
// consumer binary; each run leaves a JSON report on disk.
package validation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"rifa/internal/metrics"
	"rifa/internal/models"
	"rifa/internal/service"
	"rifa/internal/tickets"
)

// Discrepancy types reported by a validation run.
const (
	TotalMismatch           = "TOTAL_MISMATCH"
	SoldTicketsMismatch     = "SOLD_TICKETS_MISMATCH"
	ReservedNumbersMismatch = "RESERVED_NUMBERS_MISMATCH"
	UserMismatch            = "USER_MISMATCH"
	MissingInRanking        = "MISSING_IN_RANKING"
	GlobalUserMismatch      = "GLOBAL_USER_MISMATCH"
)

const latestSummaryFile = "latest_validation_summary.json"

type Discrepancy struct {
	Type       string `json:"type"`
	RaffleID   string `json:"raffle_id,omitempty"`
	RaffleName string `json:"raffle_name,omitempty"`
	Detail     string `json:"detail"`
}

type Report struct {
	Timestamp      time.Time     `json:"timestamp"`
	RafflesChecked int           `json:"raffles_checked"`
	UsersChecked   int           `json:"users_checked"`
	OK             bool          `json:"ok"`
	Discrepancies  []Discrepancy `json:"discrepancies"`
}

type Validator struct {
	raffles service.RaffleStore
	ranking service.RankingStore
	logsDir string
}

func NewValidator(raffles service.RaffleStore, ranking service.RankingStore, logsDir string) *Validator {
	return &Validator{raffles: raffles, ranking: ranking, logsDir: logsDir}
}

// Run checks every raffle and the ranking, writes the report to disk and
// returns it.
func (v *Validator) Run(ctx context.Context) (*Report, error) {
	report := &Report{
		Timestamp:     time.Now(),
		Discrepancies: []Discrepancy{},
	}

	raffles, err := v.raffles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list raffles: %w", err)
	}
	report.RafflesChecked = len(raffles)

	type buyer struct{ email, phone string }
	confirmedTotals := make(map[buyer]int)
	buyerNames := make(map[buyer]string)

	for i := range raffles {
		r := &raffles[i]
		v.checkRaffle(r, report)

		for j := range r.Users {
			p := &r.Users[j]
			k := buyer{strings.ToLower(p.Email), p.Phone}
			confirmedTotals[k] += len(p.SelectedTickets)
			buyerNames[k] = p.Name
		}
	}

	entries, err := v.ranking.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list ranking: %w", err)
	}
	report.UsersChecked = len(confirmedTotals)

	rankingTotals := make(map[buyer]int, len(entries))
	for _, e := range entries {
		rankingTotals[buyer{strings.ToLower(e.Email), e.Phone}] = e.TotalTickets
	}

	for k, confirmed := range confirmedTotals {
		ranked, ok := rankingTotals[k]
		if !ok {
			report.Discrepancies = append(report.Discrepancies, Discrepancy{
				Type: MissingInRanking,
				Detail: fmt.Sprintf("%s (%s, %s) tiene %d tickets confirmados pero no aparece en el ranking",
					buyerNames[k], k.email, k.phone, confirmed),
			})
			continue
		}
		if ranked != confirmed {
			report.Discrepancies = append(report.Discrepancies, Discrepancy{
				Type: GlobalUserMismatch,
				Detail: fmt.Sprintf("%s (%s, %s): ranking registra %d tickets, las rifas suman %d",
					buyerNames[k], k.email, k.phone, ranked, confirmed),
			})
		}
	}

	report.OK = len(report.Discrepancies) == 0
	metrics.ValidationDiscrepancies.Set(float64(len(report.Discrepancies)))

	if err := v.writeReport(report); err != nil {
		slog.Error("Failed to write validation report", "error", err)
	}

	return report, nil
}

func (v *Validator) checkRaffle(r *models.Raffle, report *Report) {
	add := func(typ, detail string) {
		report.Discrepancies = append(report.Discrepancies, Discrepancy{
			Type:       typ,
			RaffleID:   r.ID,
			RaffleName: r.Title,
			Detail:     detail,
		})
	}

	if want := tickets.Available(r.TotalTickets, r.SoldTickets, r.ReservedTickets); r.AvailableNumbers != want {
		add(TotalMismatch, fmt.Sprintf("disponibles registra %d, el cálculo da %d", r.AvailableNumbers, want))
	}

	if dups := duplicates(r.SoldTickets); len(dups) > 0 {
		add(SoldTicketsMismatch, fmt.Sprintf("tickets vendidos duplicados: %s", strings.Join(dups, ", ")))
	}
	if dups := duplicates(r.ReservedTickets); len(dups) > 0 {
		add(ReservedNumbersMismatch, fmt.Sprintf("tickets reservados duplicados: %s", strings.Join(dups, ", ")))
	}
	held := 0
	for i := range r.PendingPurchases {
		if p := &r.PendingPurchases[i]; p.TicketCount > 0 {
			held += p.TicketCount
		} else {
			held += len(p.SelectedTickets)
		}
	}
	if held != len(r.ReservedTickets) {
		add(ReservedNumbersMismatch, fmt.Sprintf("las compras pendientes retienen %d tickets, la lista de reservados tiene %d",
			held, len(r.ReservedTickets)))
	}
	if overlap := tickets.Conflicts(r.SoldTickets, r.ReservedTickets); len(overlap) > 0 {
		add(ReservedNumbersMismatch, fmt.Sprintf("tickets vendidos y reservados a la vez: %s", strings.Join(overlap, ", ")))
	}

	var userTickets []string
	for i := range r.Users {
		userTickets = append(userTickets, r.Users[i].SelectedTickets...)
	}
	if !tickets.SameSet(userTickets, r.SoldTickets) {
		add(UserMismatch, fmt.Sprintf("las compras confirmadas suman %d tickets, la lista de vendidos tiene %d",
			len(userTickets), len(r.SoldTickets)))
	}
}

// writeReport stores a timestamped copy plus the fixed-name latest summary
// the dashboard polls.
func (v *Validator) writeReport(report *Report) error {
	if err := os.MkdirAll(v.logsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create logs dir: %w", err)
	}

	payload, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	name := fmt.Sprintf("validation_%s.json", report.Timestamp.Format("20060102_150405"))
	if err := os.WriteFile(filepath.Join(v.logsDir, name), payload, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := os.WriteFile(filepath.Join(v.logsDir, latestSummaryFile), payload, 0o644); err != nil {
		return fmt.Errorf("failed to write latest summary: %w", err)
	}

	slog.Info("Validation report written",
		"file", name, "ok", report.OK, "discrepancies", len(report.Discrepancies))
	return nil
}

// LatestSummary reads the fixed-name summary written by the last run.
func (v *Validator) LatestSummary() (*Report, error) {
	payload, err := os.ReadFile(filepath.Join(v.logsDir, latestSummaryFile))
	if err != nil {
		return nil, err
	}
	var report Report
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, fmt.Errorf("failed to decode latest summary: %w", err)
	}
	return &report, nil
}

func duplicates(list []string) []string {
	counts := make(map[string]int, len(list))
	for _, t := range list {
		counts[t]++
	}
	var dups []string
	for _, t := range list {
		if counts[t] > 1 {
			dups = append(dups, t)
			counts[t] = 0
		}
	}
	return dups
}
