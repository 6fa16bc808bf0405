package domain

import "time"

// AccountType distinguishes the two sides of the marketplace.
type AccountType string

const (
	AccountTypeContratante AccountType = "CONTRATANTE"
	AccountTypePrestador   AccountType = "PRESTADOR"
)

// User represents an account in the system, either a contratante
// (requests services) or a prestador (fulfills them).
type User struct {
	ID            string
	Name          string
	Email         string
	Phone         string
	CPF           string
	AccountType   AccountType
	PasswordHash  string
	PhotoURL      string
	RecoveryToken string
	CreatedAt     time.Time
}
