package store

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"igp-sales-backend/internal/models"
)

func validateLotFields(product, size string, stock int, price float64) error {
	if strings.TrimSpace(product) == "" {
		return validationf("product name is required")
	}
	if strings.TrimSpace(size) == "" {
		return validationf("size is required")
	}
	if stock < 0 {
		return validationf("stock cannot be negative, got %d", stock)
	}
	if price < 0 {
		return validationf("price cannot be negative, got %.2f", price)
	}
	return nil
}

// CreateLot inserts a new inventory lot. Duplicate (product, size, batch)
// combinations are allowed; the store enforces no uniqueness.
func (s *Store) CreateLot(product, size, batch string, stock int, price float64) (*models.Lot, error) {
	if err := validateLotFields(product, size, stock, price); err != nil {
		return nil, err
	}
	lot := models.Lot{
		ProductName: product,
		Size:        size,
		Batch:       batch,
		Stock:       stock,
		Price:       price,
	}
	if err := s.db.Create(&lot).Error; err != nil {
		return nil, fmt.Errorf("create lot: %w", err)
	}
	return &lot, nil
}

// UpdateLot overwrites every editable field of the lot.
func (s *Store) UpdateLot(id uint, product, size, batch string, stock int, price float64) (*models.Lot, error) {
	if err := validateLotFields(product, size, stock, price); err != nil {
		return nil, err
	}
	var lot models.Lot
	if err := s.db.First(&lot, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("lot %d not found", id)
		}
		return nil, fmt.Errorf("load lot %d: %w", id, err)
	}
	lot.ProductName = product
	lot.Size = size
	lot.Batch = batch
	lot.Stock = stock
	lot.Price = price
	if err := s.db.Save(&lot).Error; err != nil {
		return nil, fmt.Errorf("update lot %d: %w", id, err)
	}
	return &lot, nil
}

// DeleteLot hard-deletes the lot. Transactions that reference it keep their
// lot_id; edits against them fall back to product+size resolution.
func (s *Store) DeleteLot(id uint) error {
	res := s.db.Delete(&models.Lot{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete lot %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return notFoundf("lot %d not found", id)
	}
	return nil
}

func (s *Store) GetLot(id uint) (*models.Lot, error) {
	var lot models.Lot
	if err := s.db.First(&lot, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("lot %d not found", id)
		}
		return nil, fmt.Errorf("load lot %d: %w", id, err)
	}
	return &lot, nil
}

// ListLots returns every lot ordered by product then size. A non-empty filter
// narrows by product name substring.
func (s *Store) ListLots(filter string) ([]models.Lot, error) {
	q := s.db.Model(&models.Lot{})
	if filter = strings.TrimSpace(filter); filter != "" {
		q = q.Where("product_name LIKE ?", "%"+filter+"%")
	}
	var lots []models.Lot
	if err := q.Order("product_name ASC, size ASC").Find(&lots).Error; err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	return lots, nil
}

// FindLots returns all lots for a product+size in allocation order.
func (s *Store) FindLots(product, size string) ([]models.Lot, error) {
	var lots []models.Lot
	err := s.db.
		Where("product_name = ? AND size = ?", product, size).
		Order("batch ASC, id ASC").
		Find(&lots).Error
	if err != nil {
		return nil, fmt.Errorf("find lots for %s (%s): %w", product, size, err)
	}
	return lots, nil
}

// AvailableLot returns the first lot with stock remaining for product+size,
// in allocation order, or a NotFoundError when everything is sold out.
func (s *Store) AvailableLot(product, size string) (*models.Lot, error) {
	var lot models.Lot
	err := s.db.
		Where("product_name = ? AND size = ? AND stock > 0", product, size).
		Order("batch ASC, id ASC").
		First(&lot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFoundf("no lot with available stock for %s (%s)", product, size)
	}
	if err != nil {
		return nil, fmt.Errorf("find available lot for %s (%s): %w", product, size, err)
	}
	return &lot, nil
}

// AvailableStock sums the stock of every lot matching product+size.
// Returns 0 when nothing matches.
func (s *Store) AvailableStock(product, size string) (int, error) {
	var total int
	err := s.db.Model(&models.Lot{}).
		Where("product_name = ? AND size = ?", product, size).
		Select("COALESCE(SUM(stock), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("sum stock for %s (%s): %w", product, size, err)
	}
	return total, nil
}

// DistinctProducts lists product names sorted alphabetically.
func (s *Store) DistinctProducts() ([]string, error) {
	var names []string
	err := s.db.Model(&models.Lot{}).
		Distinct("product_name").
		Order("product_name ASC").
		Pluck("product_name", &names).Error
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return names, nil
}

// SizesForProduct lists the sizes stocked for a product, sorted.
func (s *Store) SizesForProduct(product string) ([]string, error) {
	var sizes []string
	err := s.db.Model(&models.Lot{}).
		Where("product_name = ?", product).
		Distinct("size").
		Order("size ASC").
		Pluck("size", &sizes).Error
	if err != nil {
		return nil, fmt.Errorf("list sizes for %s: %w", product, err)
	}
	return sizes, nil
}

// FirstBatchForProduct returns the batch label of the product's oldest lot,
// or "" when the product has no lots or no batch label. Used by the report
// export to suffix product headings.
func (s *Store) FirstBatchForProduct(product string) string {
	var lot models.Lot
	err := s.db.
		Where("product_name = ?", product).
		Order("id ASC").
		First(&lot).Error
	if err != nil {
		return ""
	}
	return lot.Batch
}
