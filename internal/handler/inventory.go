package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"mechanic-shop-api/internal/model"
	"mechanic-shop-api/internal/repository"
	"mechanic-shop-api/internal/validate"
)

// InventoryHandler bundles dependencies for the parts endpoints.
type InventoryHandler struct {
	Inventory *repository.InventoryRepo
}

func NewInventoryHandler(r *repository.InventoryRepo) *InventoryHandler {
	return &InventoryHandler{Inventory: r}
}

type partReq struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

// Create handles POST /parts.
func (h *InventoryHandler) Create(c echo.Context) error {
	var req partReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if errs := validate.Part(req.Name, req.Quantity, req.Price); !errs.Ok() {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
	}

	part := model.Inventory{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Quantity:    req.Quantity,
		Price:       req.Price,
	}
	if err := h.Inventory.Create(c.Request().Context(), &part); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create part failed"})
	}
	return c.JSON(http.StatusCreated, part)
}

// List handles GET /parts.
func (h *InventoryHandler) List(c echo.Context) error {
	out, err := h.Inventory.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /parts/:id.
func (h *InventoryHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	part, err := h.Inventory.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "part not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, part)
}

// Update handles PUT /parts/:id.
func (h *InventoryHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req partReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if errs := validate.Part(req.Name, req.Quantity, req.Price); !errs.Ok() {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
	}

	part := model.Inventory{
		ID:          id,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Quantity:    req.Quantity,
		Price:       req.Price,
	}
	if err := h.Inventory.Update(c.Request().Context(), &part); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "part not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, part)
}

// Delete handles DELETE /parts/:id. Parts still referenced by tickets cannot
// be removed.
func (h *InventoryHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Inventory.Delete(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "part not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "part is used by service tickets"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "part deleted"})
}
