package handler

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sweetify/sweets-api/internal/api/metrics"
	"github.com/sweetify/sweets-api/internal/core/domain"
	"github.com/sweetify/sweets-api/internal/core/ports"
)

// IdempotencyHeader lets clients make a purchase safe to retry.
const IdempotencyHeader = "Idempotency-Key"

const defaultPurchaseQuantity = 1

type SweetHandler struct {
	sweets ports.SweetService
	logger zerolog.Logger
}

func NewSweetHandler(sweets ports.SweetService, logger zerolog.Logger) *SweetHandler {
	return &SweetHandler{sweets: sweets, logger: logger}
}

type createSweetRequest struct {
	Name        string   `json:"name" validate:"required"`
	Category    string   `json:"category" validate:"required"`
	Price       *float64 `json:"price" validate:"required,gt=0"`
	Quantity    *int     `json:"quantity" validate:"omitempty,min=0,max=2147483647"`
	Description *string  `json:"description"`
	ImageURL    *string  `json:"imageUrl" validate:"omitempty,urlorempty"`
}

// updateSweetRequest mirrors createSweetRequest with every field optional.
type updateSweetRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=1"`
	Category    *string  `json:"category" validate:"omitempty,min=1"`
	Price       *float64 `json:"price" validate:"omitempty,gt=0"`
	Quantity    *int     `json:"quantity" validate:"omitempty,min=0,max=2147483647"`
	Description *string  `json:"description"`
	ImageURL    *string  `json:"imageUrl" validate:"omitempty,urlorempty"`
}

type purchaseRequest struct {
	Quantity *int `json:"quantity" validate:"omitempty,gt=0,max=2147483647"`
}

type restockRequest struct {
	Quantity *int `json:"quantity" validate:"required,gt=0,max=2147483647"`
}

// List returns the whole catalog, newest first.
//
// @Summary      List sweets
// @Tags         sweets
// @Produce      json
// @Success      200  {object}  Envelope{data=[]domain.Sweet}
// @Failure      500  {object}  Envelope
// @Router       /api/sweets [get]
func (h *SweetHandler) List(c echo.Context) error {
	sweets, err := h.sweets.List(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, sweets, "")
}

// Search filters the catalog. All parameters are optional and combined with AND.
//
// @Summary      Search sweets
// @Tags         sweets
// @Produce      json
// @Security     BearerAuth
// @Param        name      query  string  false  "Case-insensitive substring of the name"
// @Param        category  query  string  false  "Exact category"
// @Param        minPrice  query  number  false  "Inclusive lower price bound"
// @Param        maxPrice  query  number  false  "Inclusive upper price bound"
// @Success      200  {object}  Envelope{data=[]domain.Sweet}
// @Failure      400  {object}  Envelope
// @Failure      401  {object}  Envelope
// @Router       /api/sweets/search [get]
func (h *SweetHandler) Search(c echo.Context) error {
	filter := ports.SearchFilter{
		Name:     c.QueryParam("name"),
		Category: c.QueryParam("category"),
	}
	var err error
	if filter.MinPrice, err = optionalFloat(c, "minPrice"); err != nil {
		return err
	}
	if filter.MaxPrice, err = optionalFloat(c, "maxPrice"); err != nil {
		return err
	}

	sweets, err := h.sweets.Search(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, sweets, "")
}

// Get returns one sweet.
//
// @Summary      Get sweet
// @Tags         sweets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Sweet ID"
// @Success      200  {object}  Envelope{data=domain.Sweet}
// @Failure      401  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /api/sweets/{id} [get]
func (h *SweetHandler) Get(c echo.Context) error {
	sweet, err := h.sweets.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, sweet, "")
}

// Create adds a sweet to the catalog. Any authenticated user may create.
//
// @Summary      Create sweet
// @Tags         sweets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createSweetRequest  true  "Sweet"
// @Success      201   {object}  Envelope{data=domain.Sweet}
// @Failure      400   {object}  Envelope
// @Failure      401   {object}  Envelope
// @Router       /api/sweets [post]
func (h *SweetHandler) Create(c echo.Context, id domain.Identity) error {
	var req createSweetRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	in := ports.CreateSweetInput{
		Name:        req.Name,
		Category:    req.Category,
		Price:       *req.Price,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}
	if req.Quantity != nil {
		in.Quantity = *req.Quantity
	}

	sweet, err := h.sweets.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	metrics.CatalogChangesTotal.WithLabelValues("create").Inc()
	h.logger.Info().Str("actor", id.ID).Str("sweet_id", sweet.ID).Msg("catalog create")
	return respond(c, http.StatusCreated, sweet, "Sweet created successfully")
}

// Update applies a partial update; omitted fields keep their values.
//
// @Summary      Update sweet
// @Tags         sweets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Sweet ID"
// @Param        body  body      updateSweetRequest  true  "Fields to change"
// @Success      200   {object}  Envelope{data=domain.Sweet}
// @Failure      400   {object}  Envelope
// @Failure      404   {object}  Envelope
// @Router       /api/sweets/{id} [put]
func (h *SweetHandler) Update(c echo.Context) error {
	var req updateSweetRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	sweet, err := h.sweets.Update(c.Request().Context(), c.Param("id"), ports.UpdateSweetInput{
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return err
	}
	metrics.CatalogChangesTotal.WithLabelValues("update").Inc()
	return respond(c, http.StatusOK, sweet, "Sweet updated successfully")
}

// Delete removes a sweet. Admin only.
//
// @Summary      Delete sweet
// @Tags         sweets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Sweet ID"
// @Success      200  {object}  Envelope
// @Failure      403  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /api/sweets/{id} [delete]
func (h *SweetHandler) Delete(c echo.Context, id domain.Identity) error {
	sweetID := c.Param("id")
	if err := h.sweets.Delete(c.Request().Context(), sweetID); err != nil {
		return err
	}
	metrics.CatalogChangesTotal.WithLabelValues("delete").Inc()
	h.logger.Info().Str("actor", id.ID).Str("sweet_id", sweetID).Msg("catalog delete")
	return respond(c, http.StatusOK, nil, "Sweet deleted successfully")
}

// Purchase removes stock. Quantity defaults to 1.
//
// @Summary      Purchase sweet
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id               path      string           true   "Sweet ID"
// @Param        Idempotency-Key  header    string           false  "Rejects replays of the same purchase"
// @Param        body             body      purchaseRequest  false  "Quantity"
// @Success      200  {object}  Envelope{data=domain.Sweet}
// @Failure      400  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Failure      409  {object}  Envelope
// @Router       /api/sweets/{id}/purchase [post]
func (h *SweetHandler) Purchase(c echo.Context) error {
	var req purchaseRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.PurchaseFailuresTotal.WithLabelValues("validation").Inc()
		return err
	}
	qty := defaultPurchaseQuantity
	if req.Quantity != nil {
		qty = *req.Quantity
	}

	sweet, err := h.sweets.Purchase(c.Request().Context(), c.Param("id"), ports.StockChangeInput{
		Quantity:       qty,
		IdempotencyKey: c.Request().Header.Get(IdempotencyHeader),
	})
	if err != nil {
		metrics.PurchaseFailuresTotal.WithLabelValues(purchaseFailureReason(err)).Inc()
		return err
	}
	metrics.UnitsPurchasedTotal.Add(float64(qty))
	return respond(c, http.StatusOK, sweet, "Purchase successful")
}

// Restock adds stock. Admin only.
//
// @Summary      Restock sweet
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Sweet ID"
// @Param        body  body      restockRequest  true  "Quantity"
// @Success      200   {object}  Envelope{data=domain.Sweet}
// @Failure      400   {object}  Envelope
// @Failure      403   {object}  Envelope
// @Failure      404   {object}  Envelope
// @Router       /api/sweets/{id}/restock [post]
func (h *SweetHandler) Restock(c echo.Context, id domain.Identity) error {
	var req restockRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	sweet, err := h.sweets.Restock(c.Request().Context(), c.Param("id"), ports.StockChangeInput{Quantity: *req.Quantity})
	if err != nil {
		return err
	}
	metrics.UnitsRestockedTotal.Add(float64(*req.Quantity))
	h.logger.Info().Str("actor", id.ID).Str("sweet_id", sweet.ID).Int("quantity", *req.Quantity).Msg("restock")
	return respond(c, http.StatusOK, sweet, "Restock successful")
}

func optionalFloat(c echo.Context, name string) (*float64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) {
		return nil, domain.NewValidationError(name, name+" must be a number")
	}
	return &v, nil
}

func purchaseFailureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrDuplicateRequest):
		return "duplicate"
	case domain.IsValidation(err):
		return "validation"
	default:
		return "error"
	}
}
