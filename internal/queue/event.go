// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records them.
package queue

// Event types published to the ticket.events queue.
const (
	TypeTicketCreated    = "ticket.created"
	TypeMechanicAssigned = "ticket.mechanic_assigned"
)

// TicketEvent is published when a service ticket is created or a mechanic is
// assigned to one. It carries enough information for downstream consumers to
// log or notify without querying the primary database.
type TicketEvent struct {
	Type        string `json:"type"`
	TicketID    uint64 `json:"ticket_id"`
	CustomerID  uint64 `json:"customer_id,omitempty"`
	MechanicID  uint64 `json:"mechanic_id,omitempty"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date,omitempty"`
	OccurredAt  string `json:"occurred_at"`
}
