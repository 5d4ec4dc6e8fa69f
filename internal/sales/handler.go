package sales

import (
	"log/slog"
	"strconv"

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

type TransactionRequest struct {
	BuyerName     string  `json:"buyer_name" validate:"required,max=100"`
	ProgramCourse string  `json:"program_course" validate:"max=100"`
	ProductName   string  `json:"product_name" validate:"required,max=100"`
	Size          string  `json:"size" validate:"required,max=20"`
	Quantity      int     `json:"quantity" validate:"required,gt=0"`
	Amount        float64 `json:"amount" validate:"gte=0"`
	ORNumber      string  `json:"or_number" validate:"required,max=50"`
	Date          string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	LotID         uint    `json:"lot_id"`
}

func (r *TransactionRequest) toInput() store.TransactionInput {
	return store.TransactionInput{
		BuyerName:     r.BuyerName,
		ProgramCourse: r.ProgramCourse,
		ProductName:   r.ProductName,
		Size:          r.Size,
		Quantity:      r.Quantity,
		Amount:        r.Amount,
		ORNumber:      r.ORNumber,
		Date:          r.Date,
		LotID:         r.LotID,
	}
}

// POST /api/transactions — records a sale and deducts the lot's stock in one
// atomic unit; a failed deduction leaves no transaction row behind.
func (h *Handler) Record(c *fiber.Ctx) error {
	var body TransactionRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	rec, err := h.store.RecordTransaction(body.toInput())
	if err != nil {
		return httpx.FromStoreError(err)
	}

	h.writeAudit(c, audit.LogOptions{
		EntityType:  "transaction",
		EntityID:    rec.ID,
		Action:      models.AuditActionCreate,
		Description: "sale recorded: " + rec.ProductName + " (" + rec.Size + ") x" + strconv.Itoa(rec.Quantity),
		After:       rec,
	})
	return c.Status(fiber.StatusCreated).JSON(rec)
}

// PUT /api/transactions/:id — edits a sale; stock of the originally debited
// lot is restored before the new quantity is deducted.
func (h *Handler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid transaction id")
	}

	var body TransactionRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	before, err := h.store.GetTransaction(uint(id))
	if err != nil {
		return httpx.FromStoreError(err)
	}
	rec, err := h.store.UpdateTransaction(uint(id), body.toInput())
	if err != nil {
		return httpx.FromStoreError(err)
	}

	h.writeAudit(c, audit.LogOptions{
		EntityType:  "transaction",
		EntityID:    rec.ID,
		Action:      models.AuditActionUpdate,
		Description: "sale edited: " + rec.ProductName + " (" + rec.Size + ")",
		Before:      before,
		After:       rec,
	})
	return c.JSON(rec)
}

// GET /api/transactions
func (h *Handler) List(c *fiber.Ctx) error {
	recs, err := h.store.ListTransactions()
	if err != nil {
		return httpx.FromStoreError(err)
	}
	return c.JSON(recs)
}

// GET /api/transactions/search?buyer=&product=&or_number=&start=&end=
func (h *Handler) Search(c *fiber.Ctx) error {
	recs, err := h.store.SearchTransactions(store.TransactionFilter{
		Buyer:     c.Query("buyer"),
		Product:   c.Query("product"),
		ORNumber:  c.Query("or_number"),
		StartDate: c.Query("start"),
		EndDate:   c.Query("end"),
	})
	if err != nil {
		return httpx.FromStoreError(err)
	}
	return c.JSON(recs)
}

func (h *Handler) writeAudit(c *fiber.Ctx, opts audit.LogOptions) {
	opts.UserID, opts.UserName = auth.UserInfo(c)
	if err := h.audit.Write(opts); err != nil {
		slog.Warn("audit write failed", "entity", opts.EntityType, "id", opts.EntityID, "err", err)
	}
}

