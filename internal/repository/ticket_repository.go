package repository

import (
	"context"
	"database/sql"
	"errors"

	"mechanic-shop-api/internal/model"
)

// TicketRepo encapsulates queries for service tickets and their mechanic and
// inventory associations.
type TicketRepo struct {
	db *sql.DB
}

func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

// Create inserts a ticket and fills in the generated id.
func (r *TicketRepo) Create(ctx context.Context, t *model.ServiceTicket) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO service_tickets (description, date, customer_id) VALUES (?,?,?)",
		t.Description, t.Date, t.CustomerID)
	if err != nil {
		if isReferenced(err) {
			return ErrNotFound // unknown customer
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// List returns all tickets ordered by id.
func (r *TicketRepo) List(ctx context.Context) ([]model.ServiceTicket, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, description, date, customer_id FROM service_tickets ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.ServiceTicket{}
	for rows.Next() {
		var t model.ServiceTicket
		if err := rows.Scan(&t.ID, &t.Description, &t.Date, &t.CustomerID); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// GetByID fetches a ticket, ErrNotFound when missing.
func (r *TicketRepo) GetByID(ctx context.Context, id uint64) (model.ServiceTicket, error) {
	var t model.ServiceTicket
	err := r.db.QueryRowContext(ctx,
		"SELECT id, description, date, customer_id FROM service_tickets WHERE id=? LIMIT 1",
		id).Scan(&t.ID, &t.Description, &t.Date, &t.CustomerID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ServiceTicket{}, ErrNotFound
	}
	return t, err
}

// Update overwrites description and date of an existing ticket.
func (r *TicketRepo) Update(ctx context.Context, t *model.ServiceTicket) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE service_tickets SET description=?, date=? WHERE id=?",
		t.Description, t.Date, t.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, t.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a ticket and its mechanic/part associations in one
// transaction.
func (r *TicketRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM ticket_mechanics WHERE ticket_id=?", id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM ticket_inventory WHERE ticket_id=?", id); err != nil {
		return err
	}
	var res sql.Result
	if res, err = tx.ExecContext(ctx, "DELETE FROM service_tickets WHERE id=?", id); err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = ErrNotFound
		return err
	}
	return tx.Commit()
}

// AssignMechanic links a mechanic to a ticket. The pair is unique, so
// assigning twice yields ErrConflict.
func (r *TicketRepo) AssignMechanic(ctx context.Context, ticketID, mechanicID uint64) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO ticket_mechanics (ticket_id, mechanic_id) VALUES (?,?)",
		ticketID, mechanicID)
	if err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		if isReferenced(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// RemoveMechanic unlinks a mechanic from a ticket, ErrNotFound when the pair
// does not exist.
func (r *TicketRepo) RemoveMechanic(ctx context.Context, ticketID, mechanicID uint64) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM ticket_mechanics WHERE ticket_id=? AND mechanic_id=?",
		ticketID, mechanicID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Mechanics returns the mechanics assigned to a ticket.
func (r *TicketRepo) Mechanics(ctx context.Context, ticketID uint64) ([]model.Mechanic, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT m.id, m.name, m.email, m.specialty, m.password_hash
		FROM mechanics m
		JOIN ticket_mechanics tm ON tm.mechanic_id = m.id
		WHERE tm.ticket_id = ?
		ORDER BY m.id`, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Mechanic{}
	for rows.Next() {
		var m model.Mechanic
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Specialty, &m.PasswordHash); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// AddPart records that a ticket consumed a quantity of an inventory part.
// Each part appears on a ticket at most once.
func (r *TicketRepo) AddPart(ctx context.Context, ticketID, inventoryID uint64, quantity int) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO ticket_inventory (ticket_id, inventory_id, quantity) VALUES (?,?,?)",
		ticketID, inventoryID, quantity)
	if err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		if isReferenced(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// Parts lists the inventory lines on a ticket.
func (r *TicketRepo) Parts(ctx context.Context, ticketID uint64) ([]model.TicketPart, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT i.id, i.name, ti.quantity, i.price
		FROM inventory i
		JOIN ticket_inventory ti ON ti.inventory_id = i.id
		WHERE ti.ticket_id = ?
		ORDER BY i.id`, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.TicketPart{}
	for rows.Next() {
		var p model.TicketPart
		if err := rows.Scan(&p.InventoryID, &p.Name, &p.Quantity, &p.Price); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
