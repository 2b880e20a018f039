package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"mechanic-shop-api/internal/model"
	"mechanic-shop-api/internal/queue"
	"mechanic-shop-api/internal/repository"
	queue_publisher "mechanic-shop-api/internal/service"
	"mechanic-shop-api/internal/validate"
)

// TicketHandler bundles dependencies for service ticket endpoints, including
// the mechanic and inventory associations.
type TicketHandler struct {
	Tickets   *repository.TicketRepo
	Customers *repository.CustomerRepo
	Mechanics *repository.MechanicRepo
	Inventory *repository.InventoryRepo
}

func NewTicketHandler(t *repository.TicketRepo, c *repository.CustomerRepo, m *repository.MechanicRepo, i *repository.InventoryRepo) *TicketHandler {
	return &TicketHandler{Tickets: t, Customers: c, Mechanics: m, Inventory: i}
}

type ticketReq struct {
	Description string `json:"description"`
	Date        string `json:"date"`
	CustomerID  uint64 `json:"customer_id"`
}

type addPartReq struct {
	InventoryID uint64 `json:"inventory_id"`
	Quantity    int    `json:"quantity"`
}

// ticketResp decorates a ticket with its assigned mechanics and parts for
// the detail endpoint.
type ticketResp struct {
	model.ServiceTicket
	Mechanics []model.Mechanic   `json:"mechanics"`
	Parts     []model.TicketPart `json:"parts"`
}

// Create handles POST /tickets. The owning customer must exist.
func (h *TicketHandler) Create(c echo.Context) error {
	var req ticketReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if errs := validate.Ticket(req.Description, req.Date, req.CustomerID); !errs.Ok() {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
	}

	ctx := c.Request().Context()
	if _, err := h.Customers.GetByID(ctx, req.CustomerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	t := model.ServiceTicket{
		Description: strings.TrimSpace(req.Description),
		Date:        req.Date,
		CustomerID:  req.CustomerID,
	}
	if err := h.Tickets.Create(ctx, &t); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create ticket failed"})
	}

	// Best effort event; a broker outage must not fail the request.
	_ = queue_publisher.PublishTicketEvent(ctx, queue.TicketEvent{
		Type:        queue.TypeTicketCreated,
		TicketID:    t.ID,
		CustomerID:  t.CustomerID,
		Description: t.Description,
		Date:        t.Date,
		OccurredAt:  time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, t)
}

// List handles GET /tickets.
func (h *TicketHandler) List(c echo.Context) error {
	out, err := h.Tickets.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /tickets/:id and returns the ticket together with its
// assigned mechanics and consumed parts.
func (h *TicketHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()

	t, err := h.Tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	mechs, err := h.Tickets.Mechanics(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	parts, err := h.Tickets.Parts(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, ticketResp{ServiceTicket: t, Mechanics: mechs, Parts: parts})
}

// Update handles PUT /tickets/:id. Description and date are updatable; the
// owning customer is not.
func (h *TicketHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req ticketReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx := c.Request().Context()
	t, err := h.Tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if errs := validate.Ticket(req.Description, req.Date, t.CustomerID); !errs.Ok() {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
	}
	t.Description = strings.TrimSpace(req.Description)
	t.Date = req.Date

	if err := h.Tickets.Update(ctx, &t); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, t)
}

// Delete handles DELETE /tickets/:id.
func (h *TicketHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Tickets.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "ticket deleted"})
}

// AssignMechanic handles PUT /tickets/:id/assign-mechanic/:mechanic_id.
// The (ticket, mechanic) pair is unique; assigning twice yields 409.
func (h *TicketHandler) AssignMechanic(c echo.Context) error {
	ticketID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	mechID, err := pathID(c, "mechanic_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid mechanic_id"})
	}
	ctx := c.Request().Context()

	if _, err := h.Tickets.GetByID(ctx, ticketID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if _, err := h.Mechanics.GetByID(ctx, mechID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "mechanic not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if err := h.Tickets.AssignMechanic(ctx, ticketID, mechID); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "mechanic already assigned to ticket"})
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket or mechanic not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "assign failed"})
	}

	_ = queue_publisher.PublishTicketEvent(ctx, queue.TicketEvent{
		Type:       queue.TypeMechanicAssigned,
		TicketID:   ticketID,
		MechanicID: mechID,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, echo.Map{"message": "mechanic assigned"})
}

// RemoveMechanic handles PUT /tickets/:id/remove-mechanic/:mechanic_id.
func (h *TicketHandler) RemoveMechanic(c echo.Context) error {
	ticketID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	mechID, err := pathID(c, "mechanic_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid mechanic_id"})
	}

	if err := h.Tickets.RemoveMechanic(c.Request().Context(), ticketID, mechID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "mechanic is not assigned to ticket"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "remove failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "mechanic removed"})
}

// AddPart handles POST /tickets/:id/parts and records that the ticket
// consumed a quantity of an inventory part.
func (h *TicketHandler) AddPart(c echo.Context) error {
	ticketID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req addPartReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.InventoryID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": validate.FieldErrors{"inventory_id": {"inventory_id is required"}}})
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}
	ctx := c.Request().Context()

	if _, err := h.Tickets.GetByID(ctx, ticketID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if _, err := h.Inventory.GetByID(ctx, req.InventoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "part not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if err := h.Tickets.AddPart(ctx, ticketID, req.InventoryID, req.Quantity); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "part already on ticket"})
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket or part not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "add part failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "part added"})
}
