// Package router wires HTTP routes to their handlers. Reads are public (and
// cached when redis is available); every mutation except mechanic signup and
// login requires a valid bearer token.
package router

import (
	"github.com/labstack/echo/v4"

	"mechanic-shop-api/internal/handler"
	"mechanic-shop-api/internal/middleware"
)

// Deps carries everything route registration needs.
type Deps struct {
	JWTSecret string
	Mechanic  *handler.MechanicHandler
	Customer  *handler.CustomerHandler
	Ticket    *handler.TicketHandler
	Inventory *handler.InventoryHandler
	Cache     echo.MiddlewareFunc
}

// Register attaches all application routes to the Echo instance.
func Register(e *echo.Echo, d *Deps) {
	e.GET("/healthz", handler.Health)

	auth := middleware.JWTAuth(d.JWTSecret)
	cached := func(h echo.HandlerFunc) echo.HandlerFunc {
		if d.Cache == nil {
			return h
		}
		return d.Cache(h)
	}

	// ---- Mechanics ----
	m := e.Group("/mechanics")
	m.POST("", d.Mechanic.Create)
	m.GET("", cached(d.Mechanic.List))
	m.POST("/login", d.Mechanic.Login)
	m.GET("/my-tickets", d.Mechanic.MyTickets, auth)
	m.GET("/top", d.Mechanic.Top, auth)
	m.GET("/ticket-count", d.Mechanic.TicketCount, auth)
	m.PUT("/:id", d.Mechanic.Update, auth)
	m.DELETE("/:id", d.Mechanic.Delete, auth)

	// ---- Customers ----
	cu := e.Group("/customers")
	cu.GET("", cached(d.Customer.List))
	cu.GET("/:id", d.Customer.Get)
	cu.POST("", d.Customer.Create, auth)
	cu.PUT("/:id", d.Customer.Update, auth)
	cu.DELETE("/:id", d.Customer.Delete, auth)

	// ---- Service tickets ----
	t := e.Group("/tickets")
	t.GET("", cached(d.Ticket.List))
	t.GET("/:id", d.Ticket.Get)
	t.POST("", d.Ticket.Create, auth)
	t.PUT("/:id", d.Ticket.Update, auth)
	t.DELETE("/:id", d.Ticket.Delete, auth)
	t.PUT("/:id/assign-mechanic/:mechanic_id", d.Ticket.AssignMechanic, auth)
	t.PUT("/:id/remove-mechanic/:mechanic_id", d.Ticket.RemoveMechanic, auth)
	t.POST("/:id/parts", d.Ticket.AddPart, auth)

	// ---- Inventory ----
	p := e.Group("/parts")
	p.GET("", cached(d.Inventory.List))
	p.GET("/:id", d.Inventory.Get)
	p.POST("", d.Inventory.Create, auth)
	p.PUT("/:id", d.Inventory.Update, auth)
	p.DELETE("/:id", d.Inventory.Delete, auth)
}
