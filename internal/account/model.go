package account

import "time"

// Account represents a registered ledger owner.
type Account struct {
	ID           string
	Name         string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}
