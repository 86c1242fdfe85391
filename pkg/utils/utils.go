package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// PeriodID builds the canonical "{year}-{month:02d}" key for a billing month.
func PeriodID(year, month int) string {
	return fmt.Sprintf("%d-%02d", year, month)
}

// ParsePeriodID splits a "{year}-{month:02d}" key back into its parts.
func ParsePeriodID(periodID string) (int, int, error) {
	parts := strings.SplitN(periodID, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid period id %q", periodID)
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid period id %q: %w", periodID, err)
	}

	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("invalid period id %q: bad month", periodID)
	}

	return year, month, nil
}

// PeriodDueDate returns the due date for a billing month: the last day of
// that month. Day 0 of the following month normalizes to it.
func PeriodDueDate(year, month int) time.Time {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)
}

// BillingMonths lists the billing window months, first through last inclusive.
func BillingMonths(first, last int) []int {
	if last < first {
		return nil
	}
	months := make([]int, 0, last-first+1)
	for m := first; m <= last; m++ {
		months = append(months, m)
	}
	return months
}

// FiscalYear returns the academic year a date falls in, given the month the
// year starts on (April for this domain). January through March of 2026
// belong to fiscal year 2025.
func FiscalYear(t time.Time, startMonth int) int {
	if int(t.Month()) < startMonth {
		return t.Year() - 1
	}
	return t.Year()
}
