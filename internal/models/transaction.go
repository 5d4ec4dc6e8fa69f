package models

import "time"

// Transaction is one recorded sale. LotID points at the lot that was debited
// when the sale was entered, so edits can restore stock to the exact batch.
// It is nullable because the referenced lot may be hard-deleted afterwards.
type Transaction struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	BuyerName     string  `gorm:"size:100;not null;index" json:"buyer_name"`
	ProgramCourse string  `gorm:"size:100;not null;default:''" json:"program_course"`
	ProductName   string  `gorm:"size:100;not null" json:"product_name"`
	Size          string  `gorm:"size:20;not null" json:"size"`
	LotID         *uint   `gorm:"index" json:"lot_id"`
	Quantity      int     `gorm:"not null" json:"quantity"`
	Amount        float64 `gorm:"not null" json:"amount"`
	ORNumber      string  `gorm:"column:or_number;size:50;not null" json:"or_number"`
	// Calendar date in YYYY-MM-DD form; lexicographic order equals date order.
	Date      string    `gorm:"size:10;not null;index" json:"date"`
	CreatedAt time.Time `json:"created_at"`
}
