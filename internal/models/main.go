// Package models defines the core data structures for users, tokens and claims.
package models

// AuthTokens is the bearer/refresh credential pair issued at login or refresh.
// It is overwritten wholesale on refresh and deleted on logout.
type AuthTokens struct {
	// AccessToken is the short-lived bearer credential.
	AccessToken string `json:"accessToken"`
	// RefreshToken is the longer-lived credential exchanged for a new pair.
	RefreshToken string `json:"refreshToken"`
}

// User is the profile snapshot captured at login time.
type User struct {
	// ID is the unique identifier for the user.
	ID int64 `json:"id"`
	// Username is the login name of the user.
	Username string `json:"username"`
	// Email is the user's email address.
	Email string `json:"email"`
	// FirstName is the user's given name.
	FirstName string `json:"firstName"`
	// LastName is the user's family name.
	LastName string `json:"lastName"`
	// Role is an optional role label, e.g. "Employee".
	Role string `json:"role,omitempty"`
}

// ClaimType defines the set of valid claim type identifiers.
type ClaimType string

const (
	// Reimbursement represents an out-of-pocket reimbursement claim.
	Reimbursement ClaimType = "Reimbursement"
	// Clinic represents a panel clinic visit claim.
	Clinic ClaimType = "Clinic"
)

// ClaimStatus represents the processing status of a claim.
type ClaimStatus string

const (
	// StatusPending marks a freshly submitted claim.
	StatusPending ClaimStatus = "pending"
	// StatusApproved marks an approved claim.
	StatusApproved ClaimStatus = "approved"
	// StatusRejected marks a rejected claim.
	StatusRejected ClaimStatus = "rejected"
)

// Claim is a single reimbursement record stored on the device.
type Claim struct {
	// ID is the unique identifier for the claim.
	ID string `json:"id"`
	// Type is the kind of claim.
	Type ClaimType `json:"type"`
	// Date is the display-formatted claim date, e.g. "2 January 2025".
	Date string `json:"date"`
	// Claimant is the family member the claim is filed for.
	Claimant string `json:"claimant"`
	// Amount is the claimed amount; strictly positive.
	Amount float64 `json:"amount"`
	// Status is the current processing status.
	Status ClaimStatus `json:"status"`
}

// LoginResponse is the payload returned by the remote login endpoint.
type LoginResponse struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
