// Package tickets holds the pure ticket-number arithmetic shared by the
// reservation and purchase services.
package tickets

import (
	"fmt"
	"math/rand"
)

// Width returns the zero-padding width used for a raffle's ticket numbers.
func Width(totalTickets int) int {
	switch {
	case totalTickets <= 100:
		return 2
	case totalTickets <= 1000:
		return 3
	default:
		return 4
	}
}

// Format renders a ticket number as the zero-padded string stored in the
// raffle record.
func Format(number, totalTickets int) string {
	return fmt.Sprintf("%0*d", Width(totalTickets), number)
}

// AllNumbers returns every ticket number of a raffle, formatted.
func AllNumbers(totalTickets int) []string {
	numbers := make([]string, totalTickets)
	for i := 0; i < totalTickets; i++ {
		numbers[i] = Format(i+1, totalTickets)
	}
	return numbers
}

// Conflicts returns the requested numbers already present in taken.
func Conflicts(requested, taken []string) []string {
	set := make(map[string]struct{}, len(taken))
	for _, t := range taken {
		set[t] = struct{}{}
	}
	var conflicts []string
	for _, t := range requested {
		if _, ok := set[t]; ok {
			conflicts = append(conflicts, t)
		}
	}
	return conflicts
}

// Remove filters the given numbers out of list, preserving order.
func Remove(list, numbers []string) []string {
	drop := make(map[string]struct{}, len(numbers))
	for _, n := range numbers {
		drop[n] = struct{}{}
	}
	kept := make([]string, 0, len(list))
	for _, t := range list {
		if _, ok := drop[t]; !ok {
			kept = append(kept, t)
		}
	}
	return kept
}

// TrimCount drops the last n entries from list. Reservation placeholders on
// random raffles are released by count rather than by identity.
func TrimCount(list []string, n int) []string {
	if n >= len(list) {
		return list[:0]
	}
	return list[:len(list)-n]
}

// Available recomputes the derived available count.
func Available(totalTickets int, sold, reserved []string) int {
	return totalTickets - len(sold) - len(reserved)
}

// Unsold returns every number not present in sold.
func Unsold(totalTickets int, sold []string) []string {
	return Remove(AllNumbers(totalTickets), sold)
}

// Draw shuffles the numbers not present in taken and returns count of them.
// The second return is false when not enough numbers remain.
func Draw(totalTickets int, taken []string, count int) ([]string, bool) {
	pool := Remove(AllNumbers(totalTickets), taken)
	if len(pool) < count {
		return nil, false
	}
	rand.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	return pool[:count], true
}

// UniqueOnce reports whether every number in subset occurs exactly once in
// list. Used by the post-approval self-check.
func UniqueOnce(subset, list []string) bool {
	counts := make(map[string]int, len(list))
	for _, t := range list {
		counts[t]++
	}
	for _, t := range subset {
		if counts[t] != 1 {
			return false
		}
	}
	return true
}

// SameSet reports whether a and b contain the same numbers with the same
// multiplicities, in any order.
func SameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[string]int, len(a))
	for _, t := range a {
		counts[t]++
	}
	for _, t := range b {
		counts[t]--
		if counts[t] < 0 {
			return false
		}
	}
	return true
}
