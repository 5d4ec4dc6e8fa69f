package reports

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"

	"igp-sales-backend/internal/models"
	"igp-sales-backend/internal/store"
)

// Garment sizes come first in their natural order; anything else sorts
// lexicographically after them.
var preferredSizes = []string{"XS", "S", "M", "L", "XL", "XXL"}

func sizeRank(size string) int {
	for i, s := range preferredSizes {
		if s == size {
			return i
		}
	}
	return len(preferredSizes)
}

func sortSizes(sizes []string) {
	sort.Slice(sizes, func(i, j int) bool {
		ri, rj := sizeRank(sizes[i]), sizeRank(sizes[j])
		if ri != rj {
			return ri < rj
		}
		return sizes[i] < sizes[j]
	})
}

// groupByProduct splits transactions into per-product blocks, keeping the
// products in first-seen order.
func groupByProduct(recs []models.Transaction) ([]string, map[string][]models.Transaction) {
	var order []string
	groups := make(map[string][]models.Transaction)
	for _, tr := range recs {
		if _, seen := groups[tr.ProductName]; !seen {
			order = append(order, tr.ProductName)
		}
		groups[tr.ProductName] = append(groups[tr.ProductName], tr)
	}
	return order, groups
}

func blockSizes(recs []models.Transaction) []string {
	var sizes []string
	seen := make(map[string]bool)
	for _, tr := range recs {
		if tr.Size != "" && !seen[tr.Size] {
			seen[tr.Size] = true
			sizes = append(sizes, tr.Size)
		}
	}
	sortSizes(sizes)
	return sizes
}

func blockRows(recs []models.Transaction, sizes []string) [][]string {
	rows := make([][]string, 0, len(recs))
	for _, tr := range recs {
		row := make([]string, 0, 5+len(sizes))
		row = append(row, tr.BuyerName, tr.ProgramCourse, tr.ORNumber)
		for _, s := range sizes {
			if s == tr.Size {
				row = append(row, fmt.Sprintf("%d", tr.Quantity))
			} else {
				row = append(row, "")
			}
		}
		row = append(row, tr.Date, fmt.Sprintf("%.2f", tr.Amount))
		rows = append(rows, row)
	}
	return rows
}

func blockHeader(product, batch string) string {
	if batch != "" {
		return product + " (" + batch + ")"
	}
	return product
}

// WriteCSV renders the report in the spreadsheet-friendly per-product layout:
// a heading row naming the product (with batch suffix when resolvable), a
// column header with one column per size, one row per transaction, and a
// blank line between product blocks.
func WriteCSV(w io.Writer, rep *store.Report, batchFor func(string) string) error {
	cw := csv.NewWriter(w)
	order, groups := groupByProduct(rep.Transactions)
	for _, product := range order {
		recs := groups[product]
		sizes := blockSizes(recs)

		if err := cw.Write([]string{blockHeader(product, batchFor(product))}); err != nil {
			return err
		}
		header := append([]string{"NAME", "COURSE", "OR #"}, sizes...)
		header = append(header, "DATE", "AMOUNT")
		if err := cw.Write(header); err != nil {
			return err
		}
		for _, row := range blockRows(recs, sizes) {
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		// csv.Writer renders a single empty field as "", so the separator
		// line between product blocks is written directly.
		cw.Flush()
		if err := cw.Error(); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// BuildWorkbook renders the same layout as WriteCSV into an xlsx workbook,
// with the report totals on top.
func BuildWorkbook(rep *store.Report, batchFor func(string) string) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	row := 1
	writeRow := func(values []string) error {
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
		row++
		return nil
	}

	totals := [][]string{
		{"Total Transactions", fmt.Sprintf("%d", rep.TotalTransactions)},
		{"Total Items Sold", fmt.Sprintf("%d", rep.TotalItemsSold)},
		{"Total Revenue", fmt.Sprintf("%.2f", rep.TotalRevenue)},
		{""},
	}
	for _, r := range totals {
		if err := writeRow(r); err != nil {
			return nil, err
		}
	}

	order, groups := groupByProduct(rep.Transactions)
	for _, product := range order {
		recs := groups[product]
		sizes := blockSizes(recs)

		if err := writeRow([]string{blockHeader(product, batchFor(product))}); err != nil {
			return nil, err
		}
		header := append([]string{"NAME", "COURSE", "OR #"}, sizes...)
		header = append(header, "DATE", "AMOUNT")
		if err := writeRow(header); err != nil {
			return nil, err
		}
		for _, r := range blockRows(recs, sizes) {
			if err := writeRow(r); err != nil {
				return nil, err
			}
		}
		if err := writeRow([]string{""}); err != nil {
			return nil, err
		}
	}

	return f, nil
}
