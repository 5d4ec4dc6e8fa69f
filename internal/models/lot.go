package models

import "time"

// Lot is one purchasable batch of a product at a given size. Several lots may
// share the same (product, size); the batch label tells them apart.
type Lot struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	ProductName string  `gorm:"size:100;not null;index:idx_lots_product_size,priority:1" json:"product_name"`
	Size        string  `gorm:"size:20;not null;index:idx_lots_product_size,priority:2" json:"size"`
	Batch       string  `gorm:"size:50;not null;default:''" json:"batch"`
	Stock       int     `gorm:"not null;default:0" json:"stock"`
	Price       float64 `gorm:"not null" json:"price"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
