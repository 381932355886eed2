package models

// Account is a server-side user record with credentials. Only the demo auth
// service touches it; clients only ever see the User projection.
type Account struct {
	// ID is the unique identifier for the account.
	ID int64
	// Username is the login name.
	Username string
	// Email is the account email address.
	Email string
	// FirstName is the account holder's given name.
	FirstName string
	// LastName is the account holder's family name.
	LastName string
	// PasswordHash is the bcrypt hash of the password.
	PasswordHash []byte
	// Role is the account role label.
	Role string
}

// User returns the client-facing projection of the account.
func (a *Account) User() User {
	return User{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Role:      a.Role,
	}
}
