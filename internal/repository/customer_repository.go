package repository

import (
	"context"
	"database/sql"
	"errors"

	"mechanic-shop-api/internal/model"
)

// CustomerRepo encapsulates queries for the customers table.
type CustomerRepo struct {
	db *sql.DB
}

func NewCustomerRepo(db *sql.DB) *CustomerRepo { return &CustomerRepo{db: db} }

// Create inserts a customer and fills in the generated id.
func (r *CustomerRepo) Create(ctx context.Context, c *model.Customer) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO customers (name, email, phone, car) VALUES (?,?,?,?)",
		c.Name, c.Email, c.Phone, c.Car)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// List returns all customers ordered by id.
func (r *CustomerRepo) List(ctx context.Context) ([]model.Customer, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, email, phone, car FROM customers ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Customer{}
	for rows.Next() {
		var c model.Customer
		var phone, car sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &phone, &car); err != nil {
			return nil, err
		}
		c.Phone, c.Car = phone.String, car.String
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetByID fetches a customer, ErrNotFound when missing.
func (r *CustomerRepo) GetByID(ctx context.Context, id uint64) (model.Customer, error) {
	var c model.Customer
	var phone, car sql.NullString
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, email, phone, car FROM customers WHERE id=? LIMIT 1",
		id).Scan(&c.ID, &c.Name, &c.Email, &phone, &car)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Customer{}, ErrNotFound
	}
	c.Phone, c.Car = phone.String, car.String
	return c, err
}

// Update overwrites all mutable customer fields.
func (r *CustomerRepo) Update(ctx context.Context, c *model.Customer) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE customers SET name=?, email=?, phone=?, car=? WHERE id=?",
		c.Name, c.Email, c.Phone, c.Car, c.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, c.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a customer. A customer that still owns service tickets is
// protected by the foreign key and reported as ErrConflict.
func (r *CustomerRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM customers WHERE id=?", id)
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
