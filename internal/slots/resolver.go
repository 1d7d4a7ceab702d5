package slots

import (
	"strings"
	"time"

	"github.com/Djatila/studionailart-sub001/internal/models"
)

// Every designer shares the same candidate grid; only blocks and
// bookings narrow it.
var NormalGrid = []string{"08:00", "10:00", "13:00", "15:00", "17:00"}

// Extra capacity for the December 2025 rush. Reverts on its own in January.
var December2025Grid = []string{"08:00", "09:00", "10:00", "13:00", "14:00", "15:00", "16:00", "17:00"}

const (
	FullDayStart = "00:00"
	FullDayEnd   = "23:59"
)

// GridFor returns the candidate grid in effect at the given moment.
func GridFor(now time.Time) []string {
	if now.Year() == 2025 && now.Month() == time.December {
		return December2025Grid
	}

	return NormalGrid
}

// NormalizeDate strips any time component from a date string, so that
// "2023-10-15T00:00:00" and "2023-10-15" compare equal.
func NormalizeDate(s string) string {
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		return s[:i]
	}

	return s
}

// IsFullDay reports whether a block carries the whole-day sentinel interval.
func IsFullDay(b models.AvailabilityBlock) bool {
	return b.StartTime == FullDayStart && b.EndTime == FullDayEnd
}

// relevant filters blocks down to the active ones matching the date,
// dropping records that fail the shape check.
func relevant(blocks []models.AvailabilityBlock, date string) []models.AvailabilityBlock {
	target := NormalizeDate(date)

	var out []models.AvailabilityBlock
	for _, b := range blocks {
		if !b.IsActive || b.SpecificDate == "" || b.StartTime == "" {
			continue
		}
		if NormalizeDate(b.SpecificDate) != target {
			continue
		}
		out = append(out, b)
	}

	return out
}

// IsFullDayBlocked reports whether the date carries an active whole-day
// block, independent of appointments.
func IsFullDayBlocked(blocks []models.AvailabilityBlock, date string) bool {
	for _, b := range relevant(blocks, date) {
		if IsFullDay(b) {
			return true
		}
	}

	return false
}

// Resolve returns the ordered subsequence of grid that is still bookable for
// the date, given the designer's blocks and the times already occupied by
// non-cancelled appointments. Pure function: identical inputs always yield
// identical output.
//
// A slot is shadowed only when its start time exactly equals a block's start
// time. A block like 08:00-09:30 therefore does not shadow a hypothetical
// 08:30 slot. Known quirk, kept for compatibility with existing data.
func Resolve(grid []string, blocks []models.AvailabilityBlock, date string, occupied map[string]struct{}) []string {
	rel := relevant(blocks, date)

	for _, b := range rel {
		if IsFullDay(b) {
			return []string{}
		}
	}

	unavailable := make(map[string]struct{}, len(rel)+len(occupied))
	for _, b := range rel {
		if IsFullDay(b) {
			continue
		}
		unavailable[b.StartTime] = struct{}{}
	}
	for t := range occupied {
		unavailable[t] = struct{}{}
	}

	out := make([]string, 0, len(grid))
	for _, t := range grid {
		if _, ok := unavailable[t]; ok {
			continue
		}
		out = append(out, t)
	}

	return out
}
