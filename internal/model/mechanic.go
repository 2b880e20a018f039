// Package model defines the persisted record types. The json tags shape the
// wire format; the password hash is never serialized.
package model

// Mechanic mirrors the `mechanics` table. Name and email are unique across
// all mechanics.
type Mechanic struct {
	ID           uint64 `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Specialty    string `json:"specialty"`
	PasswordHash string `json:"-"`
}

// MechanicTicketCount is one row of the ticket-count ranking: a mechanic
// joined against the number of tickets assigned to them.
type MechanicTicketCount struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	TicketCount int    `json:"ticket_count"`
}
