package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"mechanic-shop-api/internal/model"
)

// MechanicRepo encapsulates all queries touching the mechanics table and the
// ticket_mechanics pair table.
type MechanicRepo struct {
	db *sql.DB
}

func NewMechanicRepo(db *sql.DB) *MechanicRepo { return &MechanicRepo{db: db} }

// Create inserts a mechanic and fills in the generated id. Duplicate name or
// email yields ErrConflict; nothing is persisted in that case.
func (r *MechanicRepo) Create(ctx context.Context, m *model.Mechanic) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO mechanics (name, email, specialty, password_hash) VALUES (?,?,?,?)",
		m.Name, m.Email, m.Specialty, m.PasswordHash)
	if err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

// List returns all mechanics ordered by id.
func (r *MechanicRepo) List(ctx context.Context) ([]model.Mechanic, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, email, specialty, password_hash FROM mechanics ORDER BY id")
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

// GetByID fetches a mechanic by id, ErrNotFound when missing.
func (r *MechanicRepo) GetByID(ctx context.Context, id uint64) (model.Mechanic, error) {
	var m model.Mechanic
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, email, specialty, password_hash FROM mechanics WHERE id=? LIMIT 1",
		id).Scan(&m.ID, &m.Name, &m.Email, &m.Specialty, &m.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Mechanic{}, ErrNotFound
	}
	return m, err
}

// GetByName fetches a mechanic by their unique name; login looks accounts up
// this way.
func (r *MechanicRepo) GetByName(ctx context.Context, name string) (model.Mechanic, error) {
	var m model.Mechanic
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, email, specialty, password_hash FROM mechanics WHERE name=? LIMIT 1",
		strings.TrimSpace(name)).Scan(&m.ID, &m.Name, &m.Email, &m.Specialty, &m.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Mechanic{}, ErrNotFound
	}
	return m, err
}

// Update persists name, specialty and password hash for an existing
// mechanic. Email is immutable. ErrNotFound when no row matches,
// ErrConflict when the new name is already taken.
func (r *MechanicRepo) Update(ctx context.Context, m *model.Mechanic) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE mechanics SET name=?, specialty=?, password_hash=? WHERE id=?",
		m.Name, m.Specialty, m.PasswordHash, m.ID)
	if err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return err
	}
	// RowsAffected is 0 both for a missing row and a no-op update, so
	// callers should load the record first.
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, m.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a mechanic together with their ticket assignments. The two
// statements run in one transaction so a failed delete leaves nothing half
// done.
func (r *MechanicRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM ticket_mechanics WHERE mechanic_id=?", id); err != nil {
		return err
	}
	var res sql.Result
	if res, err = tx.ExecContext(ctx, "DELETE FROM mechanics WHERE id=?", id); err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = ErrNotFound
		return err
	}
	return tx.Commit()
}

// TicketsFor returns the service tickets assigned to a mechanic through the
// ticket_mechanics pair table.
func (r *MechanicRepo) TicketsFor(ctx context.Context, mechanicID uint64) ([]model.ServiceTicket, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.id, t.description, t.date, t.customer_id
		FROM service_tickets t
		JOIN ticket_mechanics tm ON tm.ticket_id = t.id
		WHERE tm.mechanic_id = ?
		ORDER BY t.id`, mechanicID)
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

// rankQuery counts tickets per mechanic via an inner join, so mechanics with
// zero assignments never appear. Ties break on the lower mechanic id.
const rankQuery = `
	SELECT m.id, m.name, m.email, COUNT(tm.ticket_id) AS ticket_count
	FROM mechanics m
	JOIN ticket_mechanics tm ON tm.mechanic_id = m.id
	GROUP BY m.id, m.name, m.email
	ORDER BY ticket_count DESC, m.id ASC`

// TopByTicketCount returns the single mechanic with the most assigned
// tickets, or ErrNotFound when no mechanic has any.
func (r *MechanicRepo) TopByTicketCount(ctx context.Context) (model.MechanicTicketCount, error) {
	var row model.MechanicTicketCount
	err := r.db.QueryRowContext(ctx, rankQuery+" LIMIT 1").
		Scan(&row.ID, &row.Name, &row.Email, &row.TicketCount)
	if errors.Is(err, sql.ErrNoRows) {
		return model.MechanicTicketCount{}, ErrNotFound
	}
	return row, err
}

// RankByTicketCount returns every mechanic with at least one ticket,
// descending by ticket count.
func (r *MechanicRepo) RankByTicketCount(ctx context.Context) ([]model.MechanicTicketCount, error) {
	rows, err := r.db.QueryContext(ctx, rankQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.MechanicTicketCount{}
	for rows.Next() {
		var m model.MechanicTicketCount
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.TicketCount); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
