package store

import (
	"fmt"

	"igp-sales-backend/internal/models"
)

// ProductSummary is the per-(product, size) slice of a report.
type ProductSummary struct {
	ProductName   string  `json:"product_name"`
	Size          string  `json:"size"`
	TotalQuantity int     `json:"total_quantity"`
	TotalAmount   float64 `json:"total_amount"`
}

// Report aggregates the sales of a date window. Totals are zero, never null,
// when no transaction matches.
type Report struct {
	StartDate         string                `json:"start_date"`
	EndDate           string                `json:"end_date"`
	TotalTransactions int                   `json:"total_transactions"`
	TotalItemsSold    int                   `json:"total_items_sold"`
	TotalRevenue      float64               `json:"total_revenue"`
	Transactions      []models.Transaction  `json:"transactions"`
	ProductSummary    []ProductSummary      `json:"product_summary"`
}

// MonthlyWindow computes the [start, end) window of a calendar month,
// rolling December into January of the next year.
func MonthlyWindow(year, month int) (start, end string, err error) {
	if year < 1 {
		return "", "", validationf("year must be positive, got %d", year)
	}
	if month < 1 || month > 12 {
		return "", "", validationf("month must be between 1 and 12, got %d", month)
	}
	start = fmt.Sprintf("%04d-%02d-01", year, month)
	if month == 12 {
		end = fmt.Sprintf("%04d-01-01", year+1)
	} else {
		end = fmt.Sprintf("%04d-%02d-01", year, month+1)
	}
	return start, end, nil
}

// MonthlyReport aggregates one calendar month; the upper bound is exclusive
// so the report includes the month's last day and nothing of the next.
func (s *Store) MonthlyReport(year, month int) (*Report, error) {
	start, end, err := MonthlyWindow(year, month)
	if err != nil {
		return nil, err
	}
	return s.buildReport(start, end, false)
}

// DateRangeReport aggregates a custom window with an inclusive upper bound.
func (s *Store) DateRangeReport(start, end string) (*Report, error) {
	if err := parseDate(start); err != nil {
		return nil, err
	}
	if err := parseDate(end); err != nil {
		return nil, err
	}
	if start > end {
		return nil, validationf("start date %s is after end date %s", start, end)
	}
	return s.buildReport(start, end, true)
}

func (s *Store) buildReport(start, end string, inclusiveEnd bool) (*Report, error) {
	dateCond := "date >= ? AND date < ?"
	if inclusiveEnd {
		dateCond = "date >= ? AND date <= ?"
	}

	var totals struct {
		Count    int
		Quantity int
		Revenue  float64
	}
	err := s.db.Model(&models.Transaction{}).
		Select("COUNT(*) AS count, COALESCE(SUM(quantity), 0) AS quantity, COALESCE(SUM(amount), 0) AS revenue").
		Where(dateCond, start, end).
		Scan(&totals).Error
	if err != nil {
		return nil, fmt.Errorf("report totals: %w", err)
	}

	var recs []models.Transaction
	err = s.db.
		Where(dateCond, start, end).
		Order("date ASC, id ASC").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("report transactions: %w", err)
	}

	var summary []ProductSummary
	err = s.db.Model(&models.Transaction{}).
		Select("product_name, size, SUM(quantity) AS total_quantity, SUM(amount) AS total_amount").
		Where(dateCond, start, end).
		Group("product_name, size").
		Order("product_name ASC, size ASC").
		Scan(&summary).Error
	if err != nil {
		return nil, fmt.Errorf("report product summary: %w", err)
	}

	return &Report{
		StartDate:         start,
		EndDate:           end,
		TotalTransactions: totals.Count,
		TotalItemsSold:    totals.Quantity,
		TotalRevenue:      totals.Revenue,
		Transactions:      recs,
		ProductSummary:    summary,
	}, nil
}
