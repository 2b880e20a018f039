package repository

import (
	"context"
	"database/sql"
	"errors"

	"mechanic-shop-api/internal/model"
)

// InventoryRepo encapsulates queries for the inventory table.
type InventoryRepo struct {
	db *sql.DB
}

func NewInventoryRepo(db *sql.DB) *InventoryRepo { return &InventoryRepo{db: db} }

// Create inserts an inventory part and fills in the generated id.
func (r *InventoryRepo) Create(ctx context.Context, p *model.Inventory) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO inventory (name, description, quantity, price) VALUES (?,?,?,?)",
		p.Name, p.Description, p.Quantity, p.Price)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// List returns all parts ordered by id.
func (r *InventoryRepo) List(ctx context.Context) ([]model.Inventory, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, description, quantity, price FROM inventory ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Inventory{}
	for rows.Next() {
		var p model.Inventory
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Quantity, &p.Price); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetByID fetches a part, ErrNotFound when missing.
func (r *InventoryRepo) GetByID(ctx context.Context, id uint64) (model.Inventory, error) {
	var p model.Inventory
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, description, quantity, price FROM inventory WHERE id=? LIMIT 1",
		id).Scan(&p.ID, &p.Name, &p.Description, &p.Quantity, &p.Price)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Inventory{}, ErrNotFound
	}
	return p, err
}

// Update overwrites all mutable part fields.
func (r *InventoryRepo) Update(ctx context.Context, p *model.Inventory) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE inventory SET name=?, description=?, quantity=?, price=? WHERE id=?",
		p.Name, p.Description, p.Quantity, p.Price, p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, p.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a part. Parts still referenced by tickets are protected by
// the foreign key and reported as ErrConflict.
func (r *InventoryRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM inventory WHERE id=?", id)
	if err != nil {
		if isReferenced(err) {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
