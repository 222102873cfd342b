package persistence

import (
	"github.com/pos/backend/internal/domain/inventory"
	"github.com/pos/backend/internal/domain/tax"
	"github.com/pos/backend/internal/domain/trade"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates the schema for every persisted model
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// Trade context
		&trade.Sale{},
		&trade.SaleItem{},
		&trade.Transaction{},
		&trade.PurchaseOrder{},
		&trade.PurchaseOrderItem{},
		&trade.Return{},
		&trade.ReturnItem{},
		// Inventory context
		&inventory.Lot{},
		&inventory.Adjustment{},
		// Tax context
		&tax.Profile{},
		&tax.Category{},
		&tax.Rule{},
		// Supporting tables
		&invoiceCounter{},
		&VariantRecord{},
		&CustomerRecord{},
		&PaymentMethodRecord{},
	)
}
