package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/application/shipment"
	"github.com/jhoicas/Almacen-api/internal/application/space"
	"github.com/jhoicas/Almacen-api/pkg/jwt"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// Roles con permiso de escritura cuando la autenticación está activa.
var writeRoles = []string{jwt.RoleAdmin, jwt.RoleBodeguero}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	SpaceUC     *space.SpaceUseCase
	ShipmentUC  *shipment.ShipmentUseCase
	InventoryUC *inventory.InventoryUseCase
	// JWTSecret vacío deja /api sin autenticación (desarrollo).
	JWTSecret string
	JWTIssuer string
	// Log opcional para el registro de accesos.
	Log *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	write := func(c *fiber.Ctx) error { return c.Next() }
	if deps.JWTSecret != "" {
		api.Use(AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))
		write = RequireRole(writeRoles...)
	}
	if deps.Log != nil {
		api.Use(AccessLog(deps.Log.Component("http")))
	}

	spaceHandler := NewSpaceHandler(deps.SpaceUC)
	spaceGroup := api.Group("/space")
	spaceGroup.Get("/view", spaceHandler.View)
	spaceGroup.Post("/allocate", write, spaceHandler.Allocate)
	spaceGroup.Delete("/free/:id", write, spaceHandler.Free)
	spaceGroup.Post("/allocate-product", write, spaceHandler.AllocateProduct)
	spaceGroup.Post("/allocate-inventory", write, spaceHandler.AllocateInventory)
	spaceGroup.Post("/refresh", write, spaceHandler.Refresh)
	spaceGroup.Get("/summary", spaceHandler.Summary)
	spaceGroup.Get("/:id", spaceHandler.GetByID)

	shipmentHandler := NewShipmentHandler(deps.ShipmentUC)
	shipments := api.Group("/shipment")
	shipments.Post("/receive", write, shipmentHandler.Receive)
	shipments.Put("/dispatch/:id", write, shipmentHandler.Dispatch)
	shipments.Delete("/delete/:id", write, shipmentHandler.Delete)
	shipments.Get("/track/:id", shipmentHandler.Track)
	shipments.Get("/all", shipmentHandler.List)
	shipments.Get("/:id", shipmentHandler.GetByID)

	inventoryHandler := NewInventoryHandler(deps.InventoryUC)
	inv := api.Group("/inventory")
	inv.Post("/add", write, inventoryHandler.Add)
	inv.Put("/update", write, inventoryHandler.Update)
	inv.Delete("/remove/:id", write, inventoryHandler.Remove)
	inv.Get("/view", inventoryHandler.List)
	inv.Get("/:id", inventoryHandler.GetByID)
}
