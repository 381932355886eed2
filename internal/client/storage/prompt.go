package storage

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/atinyakov/ClaimKeeper/internal/models"
)

// inputDateLayout is the format claim dates are typed in.
const inputDateLayout = "2006-01-02"

// ClaimInput holds the prompted fields of a claim before validation.
type ClaimInput struct {
	Type     models.ClaimType
	Date     time.Time
	Claimant string
	Amount   float64
}

// PromptCredentials reads a username and password from the scanner.
func PromptCredentials(scanner *bufio.Scanner) (username, password string) {
	fmt.Print("Username: ")
	scanner.Scan()
	username = strings.TrimSpace(scanner.Text())

	fmt.Print("Password: ")
	scanner.Scan()
	password = scanner.Text()

	return username, password
}

// PromptForClaim reads the claim fields from the scanner. The date defaults to
// today when left empty; the type defaults to Reimbursement.
func PromptForClaim(scanner *bufio.Scanner) (ClaimInput, error) {
	var in ClaimInput

	fmt.Print("Type (Reimbursement/Clinic) [Reimbursement]: ")
	scanner.Scan()
	switch strings.TrimSpace(scanner.Text()) {
	case "", string(models.Reimbursement):
		in.Type = models.Reimbursement
	case string(models.Clinic):
		in.Type = models.Clinic
	default:
		return in, fmt.Errorf("unknown claim type %q", scanner.Text())
	}

	fmt.Printf("Date (YYYY-MM-DD) [%s]: ", time.Now().Format(inputDateLayout))
	scanner.Scan()
	dateStr := strings.TrimSpace(scanner.Text())
	if dateStr == "" {
		in.Date = time.Now()
	} else {
		date, err := time.Parse(inputDateLayout, dateStr)
		if err != nil {
			return in, fmt.Errorf("invalid date %q: %w", dateStr, err)
		}
		in.Date = date
	}

	fmt.Print("Claimant: ")
	scanner.Scan()
	in.Claimant = strings.TrimSpace(scanner.Text())

	fmt.Print("Amount: ")
	scanner.Scan()
	amountStr := strings.TrimSpace(scanner.Text())
	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil {
		return in, fmt.Errorf("invalid amount %q", amountStr)
	}
	in.Amount = amount

	return in, nil
}
