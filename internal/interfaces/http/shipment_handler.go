package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/shipment"
)

// ShipmentHandler maneja recepción, despacho y seguimiento de envíos.
type ShipmentHandler struct {
	uc *shipment.ShipmentUseCase
}

// NewShipmentHandler construye el handler.
func NewShipmentHandler(uc *shipment.ShipmentUseCase) *ShipmentHandler {
	return &ShipmentHandler{uc: uc}
}

// Receive godoc
// @Summary      Recibir envío
// @Description  409 DUPLICATE_SHIPMENT si el ítem ya tiene un envío en estado Received.
// @Tags         shipment
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ShipmentRequest  true  "Datos del envío (fecha 2006-01-02T15:04:05)"
// @Success      201   {object}  dto.ShipmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/shipment/receive [post]
func (h *ShipmentHandler) Receive(c *fiber.Ctx) error {
	var in dto.ShipmentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Receive(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Dispatch godoc
// @Summary      Despachar envío
// @Tags         shipment
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID del envío"
// @Param        body  body  dto.ShipmentRequest  true  "Origen, destino, estado y fecha opcional"
// @Success      200   {object}  dto.ShipmentResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/shipment/dispatch/{id} [put]
func (h *ShipmentHandler) Dispatch(c *fiber.Ctx) error {
	var in dto.ShipmentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Dispatch(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar envío
// @Tags         shipment
// @Security     Bearer
// @Param        id   path  string  true  "ID del envío"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/shipment/delete/{id} [delete]
func (h *ShipmentHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Track godoc
// @Summary      Seguimiento de envío
// @Description  item_id es null si el ítem de inventario ya no existe.
// @Tags         shipment
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del envío"
// @Success      200  {object}  dto.ShipmentTrackingResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/shipment/track/{id} [get]
func (h *ShipmentHandler) Track(c *fiber.Ctx) error {
	out, err := h.uc.Track(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "envío no encontrado"})
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar envíos
// @Tags         shipment
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ShipmentListItem
// @Router       /api/shipment/all [get]
func (h *ShipmentHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener envío por ID
// @Tags         shipment
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del envío"
// @Success      200  {object}  dto.ShipmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/shipment/{id} [get]
func (h *ShipmentHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "envío no encontrado"})
	}
	return c.JSON(out)
}
