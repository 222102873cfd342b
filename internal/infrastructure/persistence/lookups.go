package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	apptrade "github.com/pos/backend/internal/application/trade"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/tax"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// VariantRecord is the catalog row a sale resolves pricing from. The
// catalog itself is owned by another system; this table mirrors the data
// the ledger needs.
type VariantRecord struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key"`
	SKU           string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	Name          string          `gorm:"type:varchar(200);not null"`
	Price         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Cost          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TaxCategoryID *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (VariantRecord) TableName() string {
	return "product_variants"
}

// CustomerRecord carries the customer data tax treatment depends on
type CustomerRecord struct {
	ID   uuid.UUID `gorm:"type:uuid;primary_key"`
	Name string    `gorm:"type:varchar(200);not null"`
	Type string    `gorm:"type:varchar(20);not null;default:'regular'"`
}

// TableName returns the table name for GORM
func (CustomerRecord) TableName() string {
	return "customers"
}

// PaymentMethodRecord is a configured payment method
type PaymentMethodRecord struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	Name     string    `gorm:"type:varchar(100);not null"`
	IsActive bool      `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (PaymentMethodRecord) TableName() string {
	return "payment_methods"
}

// GormCatalogLookup implements CatalogLookup against the variant table
type GormCatalogLookup struct {
	db *gorm.DB
}

// NewGormCatalogLookup creates a new GormCatalogLookup
func NewGormCatalogLookup(db *gorm.DB) *GormCatalogLookup {
	return &GormCatalogLookup{db: db}
}

// FindVariant resolves a variant's frozen-at-sale pricing data
func (l *GormCatalogLookup) FindVariant(ctx context.Context, variantID uuid.UUID) (*apptrade.VariantInfo, error) {
	var record VariantRecord
	if err := l.db.WithContext(ctx).First(&record, "id = ?", variantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrReferenceNotFound
		}
		return nil, err
	}
	return &apptrade.VariantInfo{
		VariantID:     record.ID,
		Price:         record.Price,
		Cost:          record.Cost,
		TaxCategoryID: record.TaxCategoryID,
	}, nil
}

// Ensure GormCatalogLookup implements CatalogLookup
var _ apptrade.CatalogLookup = (*GormCatalogLookup)(nil)

// GormCustomerLookup implements CustomerLookup against the customer table
type GormCustomerLookup struct {
	db *gorm.DB
}

// NewGormCustomerLookup creates a new GormCustomerLookup
func NewGormCustomerLookup(db *gorm.DB) *GormCustomerLookup {
	return &GormCustomerLookup{db: db}
}

// FindCustomer resolves a customer for tax exemption checks
func (l *GormCustomerLookup) FindCustomer(ctx context.Context, customerID uuid.UUID) (*tax.Customer, error) {
	var record CustomerRecord
	if err := l.db.WithContext(ctx).First(&record, "id = ?", customerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrReferenceNotFound
		}
		return nil, err
	}
	return &tax.Customer{
		ID:   record.ID,
		Type: tax.CustomerType(record.Type),
	}, nil
}

// Ensure GormCustomerLookup implements CustomerLookup
var _ apptrade.CustomerLookup = (*GormCustomerLookup)(nil)

// GormPaymentMethodValidator implements PaymentMethodValidator against the
// payment method table
type GormPaymentMethodValidator struct {
	db *gorm.DB
}

// NewGormPaymentMethodValidator creates a new GormPaymentMethodValidator
func NewGormPaymentMethodValidator(db *gorm.DB) *GormPaymentMethodValidator {
	return &GormPaymentMethodValidator{db: db}
}

// Validate checks that a payment method exists and is active
func (v *GormPaymentMethodValidator) Validate(ctx context.Context, paymentMethodID uuid.UUID) error {
	var record PaymentMethodRecord
	if err := v.db.WithContext(ctx).First(&record, "id = ?", paymentMethodID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shared.ErrReferenceNotFound
		}
		return err
	}
	if !record.IsActive {
		return shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method is not active")
	}
	return nil
}

// Ensure GormPaymentMethodValidator implements PaymentMethodValidator
var _ apptrade.PaymentMethodValidator = (*GormPaymentMethodValidator)(nil)
