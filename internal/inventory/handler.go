package inventory

import (
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"igp-sales-backend/internal/audit"
	"igp-sales-backend/internal/auth"
	"igp-sales-backend/internal/httpx"
	"igp-sales-backend/internal/models"
	"igp-sales-backend/internal/store"
)

var validate = validator.New()

type Handler struct {
	store *store.Store
	audit *audit.Recorder
}

func NewHandler(st *store.Store, rec *audit.Recorder) *Handler {
	return &Handler{store: st, audit: rec}
}

type LotRequest struct {
	ProductName string  `json:"product_name" validate:"required,max=100"`
	Size        string  `json:"size" validate:"required,max=20"`
	Batch       string  `json:"batch" validate:"max=50"`
	Stock       int     `json:"stock" validate:"gte=0"`
	Price       float64 `json:"price" validate:"gte=0"`
}

type AdjustStockRequest struct {
	ProductName string `json:"product_name"`
	Size        string `json:"size"`
	Delta       int    `json:"delta"`
}

// POST /api/lots
func (h *Handler) CreateLot(c *fiber.Ctx) error {
	var body LotRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	lot, err := h.store.CreateLot(body.ProductName, body.Size, body.Batch, body.Stock, body.Price)
	if err != nil {
		return httpx.FromStoreError(err)
	}

	h.writeAudit(c, audit.LogOptions{
		EntityType:  "lot",
		EntityID:    lot.ID,
		Action:      models.AuditActionCreate,
		Description: "lot created: " + lot.ProductName + " (" + lot.Size + ")",
		After:       lot,
	})
	return c.Status(fiber.StatusCreated).JSON(lot)
}

// GET /api/lots?q=shirt
func (h *Handler) ListLots(c *fiber.Ctx) error {
	lots, err := h.store.ListLots(c.Query("q"))
	if err != nil {
		return httpx.FromStoreError(err)
	}
	return c.JSON(lots)
}

// PUT /api/lots/:id
func (h *Handler) UpdateLot(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid lot id")
	}

	var body LotRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	before, err := h.store.GetLot(uint(id))
	if err != nil {
		return httpx.FromStoreError(err)
	}
	lot, err := h.store.UpdateLot(uint(id), body.ProductName, body.Size, body.Batch, body.Stock, body.Price)
	if err != nil {
		return httpx.FromStoreError(err)
	}

	h.writeAudit(c, audit.LogOptions{
		EntityType:  "lot",
		EntityID:    lot.ID,
		Action:      models.AuditActionUpdate,
		Description: "lot updated: " + lot.ProductName + " (" + lot.Size + ")",
		Before:      before,
		After:       lot,
	})
	return c.JSON(lot)
}

// DELETE /api/lots/:id
func (h *Handler) DeleteLot(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid lot id")
	}

	before, err := h.store.GetLot(uint(id))
	if err != nil {
		return httpx.FromStoreError(err)
	}
	if err := h.store.DeleteLot(uint(id)); err != nil {
		return httpx.FromStoreError(err)
	}

	h.writeAudit(c, audit.LogOptions{
		EntityType:  "lot",
		EntityID:    uint(id),
		Action:      models.AuditActionDelete,
		Description: "lot deleted: " + before.ProductName + " (" + before.Size + ")",
		Before:      before,
	})
	return c.JSON(fiber.Map{"deleted": id})
}

// POST /api/lots/:id/stock — adjust one lot's stock by a signed delta.
func (h *Handler) AdjustLotStock(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid lot id")
	}

	var body AdjustStockRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if body.Delta == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "delta must be non-zero")
	}

	if err := h.store.AdjustStock(store.StockRef{LotID: uint(id)}, body.Delta); err != nil {
		return httpx.FromStoreError(err)
	}

	lot, err := h.store.GetLot(uint(id))
	if err != nil {
		return httpx.FromStoreError(err)
	}
	h.writeAudit(c, audit.LogOptions{
		EntityType:  "lot",
		EntityID:    lot.ID,
		Action:      models.AuditActionUpdate,
		Description: "stock adjusted",
		After:       lot,
	})
	return c.JSON(lot)
}

// POST /api/stock-adjustments — adjust by product+size; the allocation policy
// picks the lot.
func (h *Handler) AdjustStockByProduct(c *fiber.Ctx) error {
	var body AdjustStockRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if body.ProductName == "" || body.Size == "" {
		return fiber.NewError(fiber.StatusBadRequest, "product_name and size are required")
	}
	if body.Delta == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "delta must be non-zero")
	}

	ref := store.StockRef{ProductName: body.ProductName, Size: body.Size}
	if err := h.store.AdjustStock(ref, body.Delta); err != nil {
		return httpx.FromStoreError(err)
	}

	lots, err := h.store.FindLots(body.ProductName, body.Size)
	if err != nil {
		return httpx.FromStoreError(err)
	}
	return c.JSON(lots)
}

// GET /api/products
func (h *Handler) ListProducts(c *fiber.Ctx) error {
	names, err := h.store.DistinctProducts()
	if err != nil {
		return httpx.FromStoreError(err)
	}
	return c.JSON(names)
}

// GET /api/products/sizes?product=Shirt
func (h *Handler) ListSizes(c *fiber.Ctx) error {
	product := c.Query("product")
	if product == "" {
		return fiber.NewError(fiber.StatusBadRequest, "product query parameter is required")
	}
	sizes, err := h.store.SizesForProduct(product)
	if err != nil {
		return httpx.FromStoreError(err)
	}
	return c.JSON(sizes)
}

// GET /api/lots/available?product=Shirt&size=M
func (h *Handler) AvailableLot(c *fiber.Ctx) error {
	product, size := c.Query("product"), c.Query("size")
	if product == "" || size == "" {
		return fiber.NewError(fiber.StatusBadRequest, "product and size query parameters are required")
	}
	lot, err := h.store.AvailableLot(product, size)
	if err != nil {
		return httpx.FromStoreError(err)
	}
	total, err := h.store.AvailableStock(product, size)
	if err != nil {
		return httpx.FromStoreError(err)
	}
	return c.JSON(fiber.Map{"lot": lot, "total_stock": total})
}

func (h *Handler) writeAudit(c *fiber.Ctx, opts audit.LogOptions) {
	opts.UserID, opts.UserName = auth.UserInfo(c)
	if err := h.audit.Write(opts); err != nil {
		slog.Warn("audit write failed", "entity", opts.EntityType, "id", opts.EntityID, "err", err)
	}
}
