package handler_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketLifecycle(t *testing.T) {
	t.Parallel()
	e := newTestServer(t)

	mechID, token := signupAndLogin(t, e, "Alice", "alice@shop.test")

	code, body := doJSON(t, e, http.MethodPost, "/customers", token, map[string]any{
		"name": "Cust", "email": "cust@shop.test", "phone": "555-0100", "car": "Civic",
	})
	require.Equal(t, http.StatusCreated, code)
	custID := uint64(body["id"].(float64))

	// Unknown customer is rejected before anything is written.
	code, body = doJSON(t, e, http.MethodPost, "/tickets", token, map[string]any{
		"description": "brakes", "date": "2025-06-01", "customer_id": custID + 1,
	})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "customer not found", body["error"])

	code, body = doJSON(t, e, http.MethodPost, "/tickets", token, map[string]any{
		"description": "brakes", "date": "2025-06-01", "customer_id": custID,
	})
	require.Equal(t, http.StatusCreated, code)
	ticketID := uint64(body["id"].(float64))

	// Customer with an open ticket cannot be removed.
	code, body = doJSON(t, e, http.MethodDelete, fmt.Sprintf("/customers/%d", custID), token, nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "customer still has service tickets", body["error"])

	// Assign the mechanic and add a part.
	code, _ = doJSON(t, e, http.MethodPut,
		fmt.Sprintf("/tickets/%d/assign-mechanic/%d", ticketID, mechID), token, nil)
	require.Equal(t, http.StatusOK, code)
	code, body = doJSON(t, e, http.MethodPut,
		fmt.Sprintf("/tickets/%d/assign-mechanic/%d", ticketID, mechID), token, nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "mechanic already assigned to ticket", body["error"])

	code, body = doJSON(t, e, http.MethodPost, "/parts", token, map[string]any{
		"name": "brake pad", "description": "front", "quantity": 10, "price": 19.99,
	})
	require.Equal(t, http.StatusCreated, code)
	partID := uint64(body["id"].(float64))

	code, _ = doJSON(t, e, http.MethodPost, fmt.Sprintf("/tickets/%d/parts", ticketID), token, map[string]any{
		"inventory_id": partID, "quantity": 2,
	})
	require.Equal(t, http.StatusCreated, code)

	// The detail view carries mechanics and parts.
	code, body = doJSON(t, e, http.MethodGet, fmt.Sprintf("/tickets/%d", ticketID), "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "brakes", body["description"])
	mechs := body["mechanics"].([]any)
	require.Len(t, mechs, 1)
	parts := body["parts"].([]any)
	require.Len(t, parts, 1)
	line := parts[0].(map[string]any)
	assert.Equal(t, float64(2), line["quantity"])

	// Update touches description and date only.
	code, body = doJSON(t, e, http.MethodPut, fmt.Sprintf("/tickets/%d", ticketID), token, map[string]any{
		"description": "brakes and rotors", "date": "2025-06-02",
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "brakes and rotors", body["description"])
	assert.Equal(t, float64(custID), body["customer_id"])

	// Unassign, then delete the ticket; the customer is free to go afterward.
	code, _ = doJSON(t, e, http.MethodPut,
		fmt.Sprintf("/tickets/%d/remove-mechanic/%d", ticketID, mechID), token, nil)
	require.Equal(t, http.StatusOK, code)
	code, body = doJSON(t, e, http.MethodPut,
		fmt.Sprintf("/tickets/%d/remove-mechanic/%d", ticketID, mechID), token, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "mechanic is not assigned to ticket", body["error"])

	code, _ = doJSON(t, e, http.MethodDelete, fmt.Sprintf("/tickets/%d", ticketID), token, nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = doJSON(t, e, http.MethodDelete, fmt.Sprintf("/customers/%d", custID), token, nil)
	require.Equal(t, http.StatusOK, code)
}

func TestTicketValidation(t *testing.T) {
	t.Parallel()
	e := newTestServer(t)

	_, token := signupAndLogin(t, e, "Alice", "alice@shop.test")

	code, body := doJSON(t, e, http.MethodPost, "/tickets", token, map[string]any{
		"description": "", "date": "June 1st", "customer_id": 0,
	})
	require.Equal(t, http.StatusBadRequest, code)
	errs := body["errors"].(map[string]any)
	assert.Contains(t, errs, "description")
	assert.Contains(t, errs, "date")
	assert.Contains(t, errs, "customer_id")
}

func TestTicketWritesRequireAuth(t *testing.T) {
	t.Parallel()
	e := newTestServer(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/tickets"},
		{http.MethodPut, "/tickets/1"},
		{http.MethodDelete, "/tickets/1"},
		{http.MethodPut, "/tickets/1/assign-mechanic/1"},
		{http.MethodPut, "/tickets/1/remove-mechanic/1"},
		{http.MethodPost, "/tickets/1/parts"},
		{http.MethodPost, "/customers"},
		{http.MethodPost, "/parts"},
	} {
		code, _ := doJSON(t, e, tc.method, tc.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, code, "%s %s", tc.method, tc.path)
	}

	// Reads stay public.
	for _, path := range []string{"/tickets", "/customers", "/parts", "/mechanics"} {
		code, _ := doJSONList(t, e, http.MethodGet, path, "")
		assert.Equal(t, http.StatusOK, code, "GET %s", path)
	}
}

func TestInventoryCRUD(t *testing.T) {
	t.Parallel()
	e := newTestServer(t)

	_, token := signupAndLogin(t, e, "Alice", "alice@shop.test")

	code, body := doJSON(t, e, http.MethodPost, "/parts", token, map[string]any{
		"name": "oil filter", "quantity": 25, "price": 7.5,
	})
	require.Equal(t, http.StatusCreated, code)
	id := uint64(body["id"].(float64))

	code, body = doJSON(t, e, http.MethodPut, fmt.Sprintf("/parts/%d", id), token, map[string]any{
		"name": "oil filter", "quantity": 24, "price": 7.5,
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(24), body["quantity"])

	code, body = doJSON(t, e, http.MethodGet, fmt.Sprintf("/parts/%d", id), "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "oil filter", body["name"])

	code, _ = doJSON(t, e, http.MethodDelete, fmt.Sprintf("/parts/%d", id), token, nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = doJSON(t, e, http.MethodGet, fmt.Sprintf("/parts/%d", id), "", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestHealthz(t *testing.T) {
	t.Parallel()
	e := newTestServer(t)

	code, body := doJSON(t, e, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["ok"])
}
