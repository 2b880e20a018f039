package model

// ServiceTicket mirrors the `service_tickets` table. A ticket belongs to one
// customer and is linked to mechanics through the ticket_mechanics pair table
// and to parts through ticket_inventory.
type ServiceTicket struct {
	ID          uint64 `json:"id"`
	Description string `json:"description"`
	Date        string `json:"date"` // YYYY-MM-DD
	CustomerID  uint64 `json:"customer_id"`
}

// TicketPart is one inventory line on a ticket: the part plus how many units
// the ticket consumed.
type TicketPart struct {
	InventoryID uint64  `json:"inventory_id"`
	Name        string  `json:"name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}
