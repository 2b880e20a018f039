package repository

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/glebarez/go-sqlite"
	"github.com/stretchr/testify/require"

	"mechanic-shop-api/internal/model"
)

// sqlite mirror of the production schema. Tests run against an in-memory
// database so they need no running MySQL server.
var testSchema = []string{
	`CREATE TABLE mechanics (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		name          TEXT NOT NULL UNIQUE,
		email         TEXT NOT NULL UNIQUE,
		specialty     TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL
	)`,
	`CREATE TABLE customers (
		id    INTEGER PRIMARY KEY AUTOINCREMENT,
		name  TEXT NOT NULL,
		email TEXT NOT NULL,
		phone TEXT,
		car   TEXT
	)`,
	`CREATE TABLE service_tickets (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		description TEXT NOT NULL,
		date        TEXT NOT NULL,
		customer_id INTEGER NOT NULL REFERENCES customers (id)
	)`,
	`CREATE TABLE ticket_mechanics (
		ticket_id   INTEGER NOT NULL REFERENCES service_tickets (id),
		mechanic_id INTEGER NOT NULL REFERENCES mechanics (id),
		PRIMARY KEY (ticket_id, mechanic_id)
	)`,
	`CREATE TABLE inventory (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		quantity    INTEGER NOT NULL DEFAULT 0,
		price       REAL NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE ticket_inventory (
		ticket_id    INTEGER NOT NULL REFERENCES service_tickets (id),
		inventory_id INTEGER NOT NULL REFERENCES inventory (id),
		quantity     INTEGER NOT NULL DEFAULT 1,
		PRIMARY KEY (ticket_id, inventory_id)
	)`,
}

// openTestDB returns a fresh in-memory database with the schema applied.
// The pool is capped at one connection: every in-memory sqlite connection
// is its own database, so a second connection would see empty tables.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)
	for _, stmt := range testSchema {
		_, err = db.Exec(stmt)
		require.NoError(t, err)
	}
	return db
}

func seedMechanic(t *testing.T, db *sql.DB, name, email string) model.Mechanic {
	t.Helper()

	m := model.Mechanic{Name: name, Email: email, Specialty: "engines", PasswordHash: "x"}
	require.NoError(t, NewMechanicRepo(db).Create(context.Background(), &m))
	return m
}

func seedCustomer(t *testing.T, db *sql.DB, name, email string) model.Customer {
	t.Helper()

	c := model.Customer{Name: name, Email: email}
	require.NoError(t, NewCustomerRepo(db).Create(context.Background(), &c))
	return c
}

func seedTicket(t *testing.T, db *sql.DB, customerID uint64, description string) model.ServiceTicket {
	t.Helper()

	tk := model.ServiceTicket{Description: description, Date: "2025-06-01", CustomerID: customerID}
	require.NoError(t, NewTicketRepo(db).Create(context.Background(), &tk))
	return tk
}
