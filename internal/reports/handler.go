package reports

import (
	"bytes"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"igp-sales-backend/internal/httpx"
	"igp-sales-backend/internal/store"
)

type Handler struct {
	store *store.Store
}

func NewHandler(st *store.Store) *Handler {
	return &Handler{store: st}
}

// GET /api/reports/monthly?year=2024&month=5
func (h *Handler) Monthly(c *fiber.Ctx) error {
	rep, err := h.monthlyReport(c)
	if err != nil {
		return err
	}
	return c.JSON(rep)
}

// GET /api/reports/range?start=2024-05-01&end=2024-05-31
func (h *Handler) Range(c *fiber.Ctx) error {
	rep, err := h.rangeReport(c)
	if err != nil {
		return err
	}
	return c.JSON(rep)
}

// GET /api/reports/monthly/export?year=2024&month=5&format=csv|xlsx
func (h *Handler) ExportMonthly(c *fiber.Ctx) error {
	year := c.QueryInt("year")
	month := c.QueryInt("month")
	rep, err := h.monthlyReport(c)
	if err != nil {
		return err
	}
	name := fmt.Sprintf("monthly_report_%04d_%02d", year, month)
	return h.export(c, rep, name)
}

// GET /api/reports/range/export?start=...&end=...&format=csv|xlsx
func (h *Handler) ExportRange(c *fiber.Ctx) error {
	rep, err := h.rangeReport(c)
	if err != nil {
		return err
	}
	name := fmt.Sprintf("sales_report_%s_%s", rep.StartDate, rep.EndDate)
	return h.export(c, rep, name)
}

func (h *Handler) monthlyReport(c *fiber.Ctx) (*store.Report, error) {
	year := c.QueryInt("year")
	month := c.QueryInt("month")
	if year == 0 || month == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "year and month query parameters are required")
	}
	rep, err := h.store.MonthlyReport(year, month)
	if err != nil {
		return nil, httpx.FromStoreError(err)
	}
	return rep, nil
}

func (h *Handler) rangeReport(c *fiber.Ctx) (*store.Report, error) {
	start, end := c.Query("start"), c.Query("end")
	if start == "" || end == "" {
		return nil, fiber.NewError(fiber.StatusBadRequest, "start and end query parameters are required")
	}
	rep, err := h.store.DateRangeReport(start, end)
	if err != nil {
		return nil, httpx.FromStoreError(err)
	}
	return rep, nil
}

func (h *Handler) export(c *fiber.Ctx, rep *store.Report, name string) error {
	switch c.Query("format", "csv") {
	case "csv":
		var buf bytes.Buffer
		if err := WriteCSV(&buf, rep, h.store.FirstBatchForProduct); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not build CSV export")
		}
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`.csv"`)
		return c.Send(buf.Bytes())
	case "xlsx":
		f, err := BuildWorkbook(rep, h.store.FirstBatchForProduct)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not build workbook")
		}
		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not write workbook")
		}
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`.xlsx"`)
		return c.Send(buf.Bytes())
	default:
		return fiber.NewError(fiber.StatusBadRequest, "format must be 'csv' or 'xlsx'")
	}
}
