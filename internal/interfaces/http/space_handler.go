package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/space"
)

// SpaceHandler expone la ocupación de zonas y las operaciones de asignación.
type SpaceHandler struct {
	uc *space.SpaceUseCase
}

// NewSpaceHandler construye el handler.
func NewSpaceHandler(uc *space.SpaceUseCase) *SpaceHandler {
	return &SpaceHandler{uc: uc}
}

// View godoc
// @Summary      Ocupación de zonas
// @Description  Crea las zonas A-D si no hay ninguna y reconcilia contra el inventario antes de responder.
// @Tags         space
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.SpaceResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/space/view [get]
func (h *SpaceHandler) View(c *fiber.Ctx) error {
	out, err := h.uc.ViewSpaceUsage(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener zona por ID
// @Tags         space
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la zona"
// @Success      200  {object}  dto.SpaceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/space/{id} [get]
func (h *SpaceHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetSpace(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "zona no encontrada"})
	}
	return c.JSON(out)
}

// Allocate godoc
// @Summary      Alta o edición manual de zona
// @Description  Si la zona existe (sin distinguir mayúsculas) sobrescribe sus capacidades; si no, la crea.
// @Tags         space
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AllocateSpaceRequest  true  "Zona y capacidades"
// @Success      200   {object}  dto.SpaceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/space/allocate [post]
func (h *SpaceHandler) Allocate(c *fiber.Ctx) error {
	var in dto.AllocateSpaceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.AllocateSpace(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Free godoc
// @Summary      Eliminar zona
// @Tags         space
// @Security     Bearer
// @Param        id   path  string  true  "ID de la zona"
// @Success      204
// @Router       /api/space/free/{id} [delete]
func (h *SpaceHandler) Free(c *fiber.Ctx) error {
	if err := h.uc.FreeSpace(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AllocateProduct godoc
// @Summary      Colocar cantidad en una zona
// @Description  allocated=false si la zona no existe o no tiene capacidad disponible suficiente.
// @Tags         space
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PlaceProductRequest  true  "Zona y cantidad"
// @Success      200   {object}  dto.PlacementResponse
// @Router       /api/space/allocate-product [post]
func (h *SpaceHandler) AllocateProduct(c *fiber.Ctx) error {
	var in dto.PlaceProductRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	ok, err := h.uc.AllocateProductToSpace(c.UserContext(), in.Zone, in.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.PlacementResponse{Allocated: ok})
}

// AllocateInventory godoc
// @Summary      Colocar cantidad usando la ubicación del inventario
// @Tags         space
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PlaceInventoryRequest  true  "Ubicación y cantidad"
// @Success      200   {object}  dto.PlacementResponse
// @Router       /api/space/allocate-inventory [post]
func (h *SpaceHandler) AllocateInventory(c *fiber.Ctx) error {
	var in dto.PlaceInventoryRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	ok, err := h.uc.AllocateInventoryToSpace(c.UserContext(), in.Location, in.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.PlacementResponse{Allocated: ok})
}

// Refresh godoc
// @Summary      Reconciliar zonas existentes
// @Tags         space
// @Security     Bearer
// @Success      204
// @Router       /api/space/refresh [post]
func (h *SpaceHandler) Refresh(c *fiber.Ctx) error {
	if err := h.uc.UpdateSpaceUtilization(c.UserContext()); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Summary godoc
// @Summary      Resumen de ocupación
// @Description  Totales por zona, unidades sin zona y envíos por estado. No reconcilia ni crea zonas.
// @Tags         space
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.OccupancySummary
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/space/summary [get]
func (h *SpaceHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.Summary(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
