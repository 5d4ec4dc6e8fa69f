package store

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"igp-sales-backend/internal/models"
)

// setupStore opens a unique in-memory database per test to avoid cross-test
// collisions.
func setupStore(t *testing.T) *Store {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Lot{}, &models.Transaction{}, &models.User{}, &models.AuditLog{}))
	return New(db)
}

func mustCreateLot(t *testing.T, s *Store, product, size, batch string, stock int, price float64) *models.Lot {
	t.Helper()
	lot, err := s.CreateLot(product, size, batch, stock, price)
	require.NoError(t, err)
	return lot
}

func mustRecord(t *testing.T, s *Store, in TransactionInput) *models.Transaction {
	t.Helper()
	rec, err := s.RecordTransaction(in)
	require.NoError(t, err)
	return rec
}
