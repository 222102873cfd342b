package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDB creates a GORM DB backed by a mocked SQL connection
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func TestGormLotRepository_FindByID(t *testing.T) {
	t.Run("finds existing lot", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormLotRepository(db)

		lotID := uuid.New()
		variantID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "variant_id", "quantity", "unit_cost", "created_at", "updated_at"}).
			AddRow(lotID, variantID, decimal.NewFromInt(10), decimal.NewFromInt(5), time.Now(), time.Now())

		mock.ExpectQuery(`SELECT \* FROM "inventory_lots" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(lotID, 1).
			WillReturnRows(rows)

		lot, err := repo.FindByID(context.Background(), lotID)

		require.NoError(t, err)
		assert.Equal(t, lotID, lot.ID)
		assert.Equal(t, variantID, lot.VariantID)
		assert.True(t, lot.Quantity.Equal(decimal.NewFromInt(10)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing lot", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormLotRepository(db)

		lotID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "inventory_lots" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(lotID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		lot, err := repo.FindByID(context.Background(), lotID)

		assert.Nil(t, lot)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormLotRepository_FindByVariant(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormLotRepository(db)

	variantID := uuid.New()
	older := uuid.New()
	newer := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "variant_id", "quantity", "unit_cost", "created_at", "updated_at"}).
		AddRow(older, variantID, decimal.NewFromInt(4), decimal.NewFromInt(2), time.Now().Add(-2*time.Hour), time.Now()).
		AddRow(newer, variantID, decimal.NewFromInt(6), decimal.NewFromInt(3), time.Now().Add(-time.Hour), time.Now())

	mock.ExpectQuery(`SELECT \* FROM "inventory_lots" WHERE variant_id = \$1 ORDER BY created_at asc`).
		WithArgs(variantID).
		WillReturnRows(rows)

	lots, err := repo.FindByVariant(context.Background(), variantID)

	require.NoError(t, err)
	require.Len(t, lots, 2)
	// FIFO order, oldest first
	assert.Equal(t, older, lots[0].ID)
	assert.Equal(t, newer, lots[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTaxProfileRepository_FindActive_NoneActive(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormTaxProfileRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "tax_profiles" WHERE is_active = \$1 ORDER BY .* LIMIT .*`).
		WithArgs(true, 1).
		WillReturnError(gorm.ErrRecordNotFound)

	profile, err := repo.FindActive(context.Background())

	// No active profile is not an error
	assert.NoError(t, err)
	assert.Nil(t, profile)
	assert.NoError(t, mock.ExpectationsWereMet())
}
