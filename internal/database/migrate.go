package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is applied statement by statement inside one transaction so a
// partially created schema never persists. Every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS mechanics (
		id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name          VARCHAR(100) NOT NULL,
		email         VARCHAR(255) NOT NULL,
		specialty     VARCHAR(100) NOT NULL DEFAULT '',
		password_hash VARCHAR(255) NOT NULL,
		UNIQUE KEY uq_mechanics_name (name),
		UNIQUE KEY uq_mechanics_email (email)
	)`,
	`CREATE TABLE IF NOT EXISTS customers (
		id    BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name  VARCHAR(100) NOT NULL,
		email VARCHAR(255) NOT NULL,
		phone VARCHAR(40)  NULL,
		car   VARCHAR(120) NULL
	)`,
	`CREATE TABLE IF NOT EXISTS service_tickets (
		id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		description VARCHAR(500) NOT NULL,
		date        VARCHAR(10)  NOT NULL,
		customer_id BIGINT UNSIGNED NOT NULL,
		CONSTRAINT fk_tickets_customer FOREIGN KEY (customer_id) REFERENCES customers (id)
	)`,
	`CREATE TABLE IF NOT EXISTS ticket_mechanics (
		ticket_id   BIGINT UNSIGNED NOT NULL,
		mechanic_id BIGINT UNSIGNED NOT NULL,
		PRIMARY KEY (ticket_id, mechanic_id),
		CONSTRAINT fk_tm_ticket FOREIGN KEY (ticket_id) REFERENCES service_tickets (id),
		CONSTRAINT fk_tm_mechanic FOREIGN KEY (mechanic_id) REFERENCES mechanics (id)
	)`,
	`CREATE TABLE IF NOT EXISTS inventory (
		id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name        VARCHAR(100) NOT NULL,
		description VARCHAR(500) NOT NULL DEFAULT '',
		quantity    INT NOT NULL DEFAULT 0,
		price       DECIMAL(10,2) NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS ticket_inventory (
		ticket_id    BIGINT UNSIGNED NOT NULL,
		inventory_id BIGINT UNSIGNED NOT NULL,
		quantity     INT NOT NULL DEFAULT 1,
		PRIMARY KEY (ticket_id, inventory_id),
		CONSTRAINT fk_ti_ticket FOREIGN KEY (ticket_id) REFERENCES service_tickets (id),
		CONSTRAINT fk_ti_inventory FOREIGN KEY (inventory_id) REFERENCES inventory (id)
	)`,
}

// Migrate creates the tables the service needs if they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	for _, stmt := range schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}
	return nil
}
