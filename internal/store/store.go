// Package store is the persistence core of the sales record system: lot CRUD,
// atomic stock adjustment, sale recording/editing and report aggregation.
// HTTP handlers call into it and hold no business invariants of their own.
package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"igp-sales-backend/internal/models"
)

const dateLayout = "2006-01-02"

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// StockRef names the lot a stock change applies to. A non-zero LotID wins;
// otherwise the (ProductName, Size) pair is resolved through the allocation
// policy (smallest batch label, then smallest id).
type StockRef struct {
	LotID       uint
	ProductName string
	Size        string
}

// AdjustStock applies delta (negative to deduct) to the referenced lot inside
// one transaction, so the stock check and the stock write cannot interleave
// with another adjustment of the same lot.
func (s *Store) AdjustStock(ref StockRef, delta int) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		lot, err := lookupLot(tx, ref)
		if err != nil {
			return err
		}
		return adjustLotStock(tx, lot, delta)
	})
}

// lookupLot fetches the lot by explicit id, or resolves one via the
// allocation policy when only product+size is given.
func lookupLot(tx *gorm.DB, ref StockRef) (*models.Lot, error) {
	if ref.LotID != 0 {
		var lot models.Lot
		if err := tx.First(&lot, "id = ?", ref.LotID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, notFoundf("lot %d not found", ref.LotID)
			}
			return nil, fmt.Errorf("lookup lot %d: %w", ref.LotID, err)
		}
		return &lot, nil
	}
	return resolveLot(tx, ref.ProductName, ref.Size)
}

// resolveLot implements the allocation policy: among all lots matching
// (product, size), pick the lexicographically smallest batch label, tie-broken
// by smallest id. Deterministic for a given inventory state.
func resolveLot(tx *gorm.DB, product, size string) (*models.Lot, error) {
	var lot models.Lot
	err := tx.
		Where("product_name = ? AND size = ?", product, size).
		Order("batch ASC, id ASC").
		First(&lot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFoundf("no lot found for %s (%s)", product, size)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve lot for %s (%s): %w", product, size, err)
	}
	return &lot, nil
}

// adjustLotStock performs the read-modify-write on a lot already fetched in
// the same transaction. Rejects any change that would make stock negative.
func adjustLotStock(tx *gorm.DB, lot *models.Lot, delta int) error {
	next := lot.Stock + delta
	if next < 0 {
		return &InsufficientStockError{
			ProductName: lot.ProductName,
			Size:        lot.Size,
			Available:   lot.Stock,
			Requested:   -delta,
		}
	}
	if err := tx.Model(lot).Update("stock", next).Error; err != nil {
		return fmt.Errorf("update stock of lot %d: %w", lot.ID, err)
	}
	lot.Stock = next
	return nil
}

func parseDate(s string) error {
	if _, err := time.Parse(dateLayout, s); err != nil {
		return validationf("date must be in YYYY-MM-DD format, got %q", s)
	}
	return nil
}

func today() string {
	return time.Now().Format(dateLayout)
}
