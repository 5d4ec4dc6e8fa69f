package store

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"igp-sales-backend/internal/models"
)

// TransactionInput carries the fields of a sale entry or edit. Amount is taken
// as submitted: the caller may override the quantity×price arithmetic.
type TransactionInput struct {
	BuyerName     string
	ProgramCourse string
	ProductName   string
	Size          string
	Quantity      int
	Amount        float64
	ORNumber      string
	Date          string // YYYY-MM-DD; empty means today on record
	LotID         uint   // optional explicit lot; 0 resolves by product+size
}

func validateTransactionInput(in *TransactionInput) error {
	if strings.TrimSpace(in.BuyerName) == "" {
		return validationf("buyer name is required")
	}
	if strings.TrimSpace(in.ProductName) == "" {
		return validationf("product name is required")
	}
	if strings.TrimSpace(in.Size) == "" {
		return validationf("size is required")
	}
	if strings.TrimSpace(in.ORNumber) == "" {
		return validationf("OR number is required")
	}
	if in.Quantity <= 0 {
		return validationf("quantity must be positive, got %d", in.Quantity)
	}
	if in.Amount < 0 {
		return validationf("amount cannot be negative, got %.2f", in.Amount)
	}
	if in.Date == "" {
		in.Date = today()
	}
	return parseDate(in.Date)
}

// RecordTransaction deducts stock and inserts the sale row in one atomic
// unit. When the stock deduction fails nothing is written.
func (s *Store) RecordTransaction(in TransactionInput) (*models.Transaction, error) {
	if err := validateTransactionInput(&in); err != nil {
		return nil, err
	}
	var rec models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		lot, err := lookupLot(tx, StockRef{LotID: in.LotID, ProductName: in.ProductName, Size: in.Size})
		if err != nil {
			return err
		}
		if err := adjustLotStock(tx, lot, -in.Quantity); err != nil {
			return err
		}
		lotID := lot.ID
		rec = models.Transaction{
			BuyerName:     in.BuyerName,
			ProgramCourse: in.ProgramCourse,
			ProductName:   in.ProductName,
			Size:          in.Size,
			LotID:         &lotID,
			Quantity:      in.Quantity,
			Amount:        in.Amount,
			ORNumber:      in.ORNumber,
			Date:          in.Date,
		}
		if err := tx.Create(&rec).Error; err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// UpdateTransaction overwrites a sale and reconciles inventory: the old
// quantity is restored to the lot originally debited, then the new quantity
// is deducted from the lot the new product+size resolves to. When old and new
// resolve to the same lot the restore and deduct act on one row, so an
// unchanged sale nets to zero stock movement. Any failure rolls back the
// whole edit, restore included.
func (s *Store) UpdateTransaction(id uint, in TransactionInput) (*models.Transaction, error) {
	if err := validateTransactionInput(&in); err != nil {
		return nil, err
	}
	var rec models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&rec, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundf("transaction %d not found", id)
			}
			return fmt.Errorf("load transaction %d: %w", id, err)
		}

		oldLot, err := originalLot(tx, &rec)
		if err != nil {
			return err
		}
		if err := adjustLotStock(tx, oldLot, rec.Quantity); err != nil {
			return err
		}

		newLot := oldLot
		if in.ProductName != rec.ProductName || in.Size != rec.Size {
			newLot, err = resolveLot(tx, in.ProductName, in.Size)
			if err != nil {
				return err
			}
		}
		if err := adjustLotStock(tx, newLot, -in.Quantity); err != nil {
			return err
		}

		lotID := newLot.ID
		rec.BuyerName = in.BuyerName
		rec.ProgramCourse = in.ProgramCourse
		rec.ProductName = in.ProductName
		rec.Size = in.Size
		rec.LotID = &lotID
		rec.Quantity = in.Quantity
		rec.Amount = in.Amount
		rec.ORNumber = in.ORNumber
		rec.Date = in.Date
		if err := tx.Save(&rec).Error; err != nil {
			return fmt.Errorf("update transaction %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// originalLot finds the lot a stored sale was debited from. The persisted
// lot_id wins; when that lot was deleted it falls back to re-resolving the
// old product+size through the allocation policy.
func originalLot(tx *gorm.DB, rec *models.Transaction) (*models.Lot, error) {
	if rec.LotID != nil {
		var lot models.Lot
		err := tx.First(&lot, "id = ?", *rec.LotID).Error
		if err == nil {
			return &lot, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("load lot %d: %w", *rec.LotID, err)
		}
	}
	lot, err := resolveLot(tx, rec.ProductName, rec.Size)
	if err != nil {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			return nil, notFoundf("no lot matches the original sale of %s (%s)", rec.ProductName, rec.Size)
		}
		return nil, err
	}
	return lot, nil
}

func (s *Store) GetTransaction(id uint) (*models.Transaction, error) {
	var rec models.Transaction
	if err := s.db.First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("transaction %d not found", id)
		}
		return nil, fmt.Errorf("load transaction %d: %w", id, err)
	}
	return &rec, nil
}

// TransactionFilter narrows a history search. String fields match partially;
// both date bounds are inclusive and optional.
type TransactionFilter struct {
	Buyer     string
	Product   string
	ORNumber  string
	StartDate string
	EndDate   string
}

// SearchTransactions returns matches ordered by date descending, id
// descending as tie-break.
func (s *Store) SearchTransactions(f TransactionFilter) ([]models.Transaction, error) {
	if f.StartDate != "" {
		if err := parseDate(f.StartDate); err != nil {
			return nil, err
		}
	}
	if f.EndDate != "" {
		if err := parseDate(f.EndDate); err != nil {
			return nil, err
		}
	}
	q := s.db.Model(&models.Transaction{})
	if f.Buyer != "" {
		q = q.Where("buyer_name LIKE ?", "%"+f.Buyer+"%")
	}
	if f.Product != "" {
		q = q.Where("product_name LIKE ?", "%"+f.Product+"%")
	}
	if f.ORNumber != "" {
		q = q.Where("or_number LIKE ?", "%"+f.ORNumber+"%")
	}
	if f.StartDate != "" {
		q = q.Where("date >= ?", f.StartDate)
	}
	if f.EndDate != "" {
		q = q.Where("date <= ?", f.EndDate)
	}
	var recs []models.Transaction
	if err := q.Order("date DESC, id DESC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("search transactions: %w", err)
	}
	return recs, nil
}

// ListTransactions returns the full history, newest first.
func (s *Store) ListTransactions() ([]models.Transaction, error) {
	return s.SearchTransactions(TransactionFilter{})
}
