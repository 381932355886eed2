package storage

import (
	"errors"
	"strings"
	"time"
)

// displayDateLayout matches the history screen's long date format.
const displayDateLayout = "2 January 2006"

// ValidateAmount checks that the claimed amount is strictly positive.
func ValidateAmount(amount float64) error {
	if amount <= 0 {
		return errors.New("amount must be greater than zero")
	}
	return nil
}

// ValidateDate checks that the claim date is not in the future.
func ValidateDate(date time.Time) error {
	if date.After(time.Now()) {
		return errors.New("date cannot be in the future")
	}
	return nil
}

// ValidateClaimant checks that a claimant was supplied.
func ValidateClaimant(claimant string) error {
	if strings.TrimSpace(claimant) == "" {
		return errors.New("claimant required")
	}
	return nil
}

// FormatDate renders a date the way the claim history displays it.
func FormatDate(date time.Time) string {
	return date.Format(displayDateLayout)
}
