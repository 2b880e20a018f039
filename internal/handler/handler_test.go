package handler_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	_ "github.com/glebarez/go-sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"mechanic-shop-api/internal/config"
	"mechanic-shop-api/internal/handler"
	"mechanic-shop-api/internal/repository"
	"mechanic-shop-api/internal/router"
	"mechanic-shop-api/internal/utils"
)

const testJWTSecret = "handler-test-secret"

// sqlite mirror of the production schema, applied to an in-memory database
// so handler tests exercise the real repositories end to end.
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

// newTestServer wires the full route table against an in-memory database.
// No redis, so caching and rate limiting are pass-through.
func newTestServer(t *testing.T) *echo.Echo {
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

	cfg := config.Config{Env: "test", JWTSecret: testJWTSecret, BcryptCost: 4}
	mechanics := repository.NewMechanicRepo(db)
	customers := repository.NewCustomerRepo(db)
	tickets := repository.NewTicketRepo(db)
	inventory := repository.NewInventoryRepo(db)

	e := echo.New()
	router.Register(e, &router.Deps{
		JWTSecret: testJWTSecret,
		Mechanic:  handler.NewMechanicHandler(cfg, mechanics),
		Customer:  handler.NewCustomerHandler(customers),
		Ticket:    handler.NewTicketHandler(tickets, customers, mechanics, inventory),
		Inventory: handler.NewInventoryHandler(inventory),
	})
	return e
}

// doJSON performs a request against the test server and decodes the JSON
// response into a generic map. An empty token leaves the request anonymous.
func doJSON(t *testing.T, e *echo.Echo, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	out := map[string]any{}
	if rec.Body.Len() > 0 && rec.Body.Bytes()[0] == '{' {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec.Code, out
}

// doJSONList is doJSON for endpoints that return a JSON array.
func doJSONList(t *testing.T, e *echo.Echo, method, path, token string) (int, []map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	out := []map[string]any{}
	if rec.Body.Len() > 0 && rec.Body.Bytes()[0] == '[' {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec.Code, out
}

// signupAndLogin registers a mechanic through the API and returns its id and
// a valid bearer token.
func signupAndLogin(t *testing.T, e *echo.Echo, name, email string) (uint64, string) {
	t.Helper()

	code, body := doJSON(t, e, http.MethodPost, "/mechanics", "", map[string]any{
		"name": name, "email": email, "specialty": "engines", "password": "pw123",
	})
	require.Equal(t, http.StatusCreated, code, "signup response: %v", body)
	id := uint64(body["id"].(float64))

	code, body = doJSON(t, e, http.MethodPost, "/mechanics/login", "", map[string]any{
		"name": name, "password": "pw123",
	})
	require.Equal(t, http.StatusOK, code, "login response: %v", body)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return id, token
}

// tokenFor mints a token directly, for cases where no account should exist.
func tokenFor(t *testing.T, id uint64) string {
	t.Helper()

	token, err := utils.NewToken(testJWTSecret, id)
	require.NoError(t, err)
	return token
}
