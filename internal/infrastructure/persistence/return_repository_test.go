package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	appreturns "github.com/oms/backend/internal/application/returns"
	"github.com/oms/backend/internal/domain/returns"
	"github.com/oms/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupReturnsTestDB creates an in-memory SQLite database with the return tables
func setupReturnsTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.Exec(`
		CREATE TABLE return_headers (
			return_id TEXT PRIMARY KEY,
			return_header_type_id TEXT NOT NULL,
			status_id TEXT NOT NULL,
			from_party_id TEXT,
			to_party_id TEXT,
			payment_method_id TEXT,
			currency_uom_id TEXT,
			entry_date DATETIME,
			created_at DATETIME,
			updated_at DATETIME
		)
	`).Error
	require.NoError(t, err)

	err = db.Exec(`
		CREATE TABLE return_items (
			return_id TEXT NOT NULL,
			return_item_seq_id TEXT NOT NULL,
			order_id TEXT,
			order_item_seq_id TEXT,
			product_id TEXT,
			return_item_type_id TEXT,
			return_type_id TEXT,
			return_reason_id TEXT,
			status_id TEXT NOT NULL,
			description TEXT,
			return_quantity DECIMAL(18,6) NOT NULL DEFAULT 0,
			return_price DECIMAL(18,6) NOT NULL DEFAULT 0,
			created_at DATETIME,
			updated_at DATETIME,
			PRIMARY KEY (return_id, return_item_seq_id)
		)
	`).Error
	require.NoError(t, err)

	err = db.Exec(`
		CREATE TABLE return_adjustments (
			return_adjustment_id TEXT PRIMARY KEY,
			return_id TEXT NOT NULL,
			return_item_seq_id TEXT NOT NULL DEFAULT '_NA_',
			return_adjustment_type_id TEXT NOT NULL,
			order_adjustment_id TEXT,
			tax_authority_rate_seq_id TEXT,
			description TEXT,
			comments TEXT,
			amount DECIMAL(18,6) NOT NULL DEFAULT 0,
			created_at DATETIME,
			updated_at DATETIME
		)
	`).Error
	require.NoError(t, err)

	err = db.Exec(`
		CREATE TABLE return_item_type_maps (
			return_header_type_id TEXT NOT NULL,
			return_item_map_key TEXT NOT NULL,
			return_item_type_id TEXT NOT NULL,
			PRIMARY KEY (return_header_type_id, return_item_map_key)
		)
	`).Error
	require.NoError(t, err)

	err = db.Exec(`
		CREATE TABLE status_valid_changes (
			status_id TEXT NOT NULL,
			status_id_to TEXT NOT NULL,
			transition_name TEXT,
			PRIMARY KEY (status_id, status_id_to)
		)
	`).Error
	require.NoError(t, err)

	return db
}

func newReturnHeader(returnID, statusID string) *returns.Header {
	now := time.Now()
	return &returns.Header{
		ReturnID:           returnID,
		ReturnHeaderTypeID: returns.HeaderTypeCustomer,
		StatusID:           statusID,
		FromPartyID:        "CUST-1",
		ToPartyID:          "COMPANY",
		CurrencyUomID:      "USD",
		EntryDate:          now,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

func TestGormReturnRepository_Headers(t *testing.T) {
	ctx := context.Background()

	t.Run("saves and reloads a header", func(t *testing.T) {
		db := setupReturnsTestDB(t)
		repo := NewGormReturnRepository(db)

		require.NoError(t, repo.SaveHeader(ctx, newReturnHeader("RTN-2026-00001", returns.StatusRequested)))

		header, err := repo.FindHeaderByID(ctx, "RTN-2026-00001")
		require.NoError(t, err)
		assert.Equal(t, returns.StatusRequested, header.StatusID)

		header.StatusID = returns.StatusAccepted
		require.NoError(t, repo.SaveHeader(ctx, header))

		reloaded, err := repo.FindHeaderByID(ctx, "RTN-2026-00001")
		require.NoError(t, err)
		assert.Equal(t, returns.StatusAccepted, reloaded.StatusID)
	})

	t.Run("missing header maps to not found", func(t *testing.T) {
		db := setupReturnsTestDB(t)
		repo := NewGormReturnRepository(db)

		_, err := repo.FindHeaderByID(ctx, "RTN-2026-09999")

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("batch fetch skips missing ids", func(t *testing.T) {
		db := setupReturnsTestDB(t)
		repo := NewGormReturnRepository(db)

		require.NoError(t, repo.SaveHeader(ctx, newReturnHeader("RTN-2026-00001", returns.StatusRequested)))
		require.NoError(t, repo.SaveHeader(ctx, newReturnHeader("RTN-2026-00002", returns.StatusCancelled)))

		headers, err := repo.FindHeadersByIDs(ctx, []string{"RTN-2026-00001", "RTN-2026-00002", "RTN-2026-00003"})

		require.NoError(t, err)
		assert.Len(t, headers, 2)

		empty, err := repo.FindHeadersByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})
}

func TestGormReturnRepository_Items(t *testing.T) {
	ctx := context.Background()

	newItem := func(returnID, seqID, orderID, orderItemSeqID string, qty int64) *returns.Item {
		now := time.Now()
		return &returns.Item{
			ReturnID:        returnID,
			ReturnItemSeqID: seqID,
			OrderID:         orderID,
			OrderItemSeqID:  orderItemSeqID,
			ReturnItemTypeID: "RET_FPROD_ITEM",
			ReturnTypeID:    returns.TypeRefund,
			StatusID:        returns.StatusRequested,
			ReturnQuantity:  decimal.NewFromInt(qty),
			ReturnPrice:     decimal.NewFromInt(25),
			CreatedAt:       now,
			UpdatedAt:       now,
		}
	}

	t.Run("finds items by return, order and order line", func(t *testing.T) {
		db := setupReturnsTestDB(t)
		repo := NewGormReturnRepository(db)

		require.NoError(t, repo.SaveHeader(ctx, newReturnHeader("RTN-2026-00001", returns.StatusRequested)))
		require.NoError(t, repo.SaveHeader(ctx, newReturnHeader("RTN-2026-00002", returns.StatusRequested)))
		require.NoError(t, repo.CreateItem(ctx, newItem("RTN-2026-00001", "00001", "ORD-1001", "00001", 2)))
		require.NoError(t, repo.CreateItem(ctx, newItem("RTN-2026-00001", "00002", "ORD-1001", "00002", 1)))
		require.NoError(t, repo.CreateItem(ctx, newItem("RTN-2026-00002", "00001", "ORD-1001", "00001", 3)))

		byReturn, err := repo.FindItemsByReturn(ctx, "RTN-2026-00001")
		require.NoError(t, err)
		assert.Len(t, byReturn, 2)

		byOrder, err := repo.FindItemsByOrder(ctx, "ORD-1001")
		require.NoError(t, err)
		assert.Len(t, byOrder, 3)

		byLine, err := repo.FindItemsByOrderItem(ctx, "ORD-1001", "00001")
		require.NoError(t, err)
		require.Len(t, byLine, 2)
		assert.True(t, byLine[0].ReturnQuantity.Add(byLine[1].ReturnQuantity).Equal(decimal.NewFromInt(5)))
	})

	t.Run("stores and reloads adjustments", func(t *testing.T) {
		db := setupReturnsTestDB(t)
		repo := NewGormReturnRepository(db)

		require.NoError(t, repo.SaveHeader(ctx, newReturnHeader("RTN-2026-00001", returns.StatusRequested)))
		now := time.Now()
		require.NoError(t, repo.CreateAdjustment(ctx, &returns.Adjustment{
			ReturnAdjustmentID:     "RADJ-2026-00001",
			ReturnID:               "RTN-2026-00001",
			ReturnItemSeqID:        returns.HeaderLevel,
			ReturnAdjustmentTypeID: returns.AdjustmentTypeShipping,
			Amount:                 decimal.RequireFromString("9.99"),
			CreatedAt:              now,
			UpdatedAt:              now,
		}))

		adjustments, err := repo.FindAdjustmentsByReturn(ctx, "RTN-2026-00001")
		require.NoError(t, err)
		require.Len(t, adjustments, 1)
		assert.True(t, adjustments[0].IsHeaderLevel())
		assert.True(t, adjustments[0].Amount.Equal(decimal.RequireFromString("9.99")))
	})
}

func TestGormReturnRepository_IDGeneration(t *testing.T) {
	ctx := context.Background()
	year := time.Now().Year()

	t.Run("return ids increment within the year", func(t *testing.T) {
		db := setupReturnsTestDB(t)
		repo := NewGormReturnRepository(db)

		first, err := repo.NextReturnID(ctx)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("RTN-%d-00001", year), first)

		require.NoError(t, repo.SaveHeader(ctx, newReturnHeader(first, returns.StatusRequested)))

		second, err := repo.NextReturnID(ctx)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("RTN-%d-00002", year), second)
	})

	t.Run("item sequence ids increment within a return", func(t *testing.T) {
		db := setupReturnsTestDB(t)
		repo := NewGormReturnRepository(db)

		require.NoError(t, repo.SaveHeader(ctx, newReturnHeader("RTN-2026-00001", returns.StatusRequested)))

		seq, err := repo.NextItemSeqID(ctx, "RTN-2026-00001")
		require.NoError(t, err)
		assert.Equal(t, "00001", seq)

		now := time.Now()
		require.NoError(t, repo.CreateItem(ctx, &returns.Item{
			ReturnID:        "RTN-2026-00001",
			ReturnItemSeqID: seq,
			StatusID:        returns.StatusRequested,
			ReturnQuantity:  decimal.NewFromInt(1),
			ReturnPrice:     decimal.NewFromInt(10),
			CreatedAt:       now,
			UpdatedAt:       now,
		}))

		next, err := repo.NextItemSeqID(ctx, "RTN-2026-00001")
		require.NoError(t, err)
		assert.Equal(t, "00002", next)

		// A different return starts its own sequence.
		other, err := repo.NextItemSeqID(ctx, "RTN-2026-00002")
		require.NoError(t, err)
		assert.Equal(t, "00001", other)
	})

	t.Run("adjustment ids increment within the year", func(t *testing.T) {
		db := setupReturnsTestDB(t)
		repo := NewGormReturnRepository(db)

		first, err := repo.NextAdjustmentID(ctx)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("RADJ-%d-00001", year), first)
	})
}

func TestGormLookupRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves an item type mapping", func(t *testing.T) {
		db := setupReturnsTestDB(t)
		repo := NewGormLookupRepository(db)

		require.NoError(t, db.Create(&returns.ItemTypeMap{
			ReturnHeaderTypeID: returns.HeaderTypeCustomer,
			ReturnItemMapKey:   "FINISHED_GOOD",
			ReturnItemTypeID:   "RET_FPROD_ITEM",
		}).Error)

		m, err := repo.FindItemTypeMap(ctx, returns.HeaderTypeCustomer, "FINISHED_GOOD")
		require.NoError(t, err)
		assert.Equal(t, "RET_FPROD_ITEM", m.ReturnItemTypeID)

		_, err = repo.FindItemTypeMap(ctx, returns.HeaderTypeCustomer, "UNMAPPED")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("checks status graph edges", func(t *testing.T) {
		db := setupReturnsTestDB(t)
		repo := NewGormLookupRepository(db)

		require.NoError(t, db.Create(&returns.StatusValidChange{
			StatusID:       returns.StatusRequested,
			StatusIDTo:     returns.StatusAccepted,
			TransitionName: "Accept",
		}).Error)

		valid, err := repo.StatusChangeValid(ctx, returns.StatusRequested, returns.StatusAccepted)
		require.NoError(t, err)
		assert.True(t, valid)

		invalid, err := repo.StatusChangeValid(ctx, returns.StatusRequested, returns.StatusCompleted)
		require.NoError(t, err)
		assert.False(t, invalid)
	})
}

func TestGormReturnTransactionScope(t *testing.T) {
	ctx := context.Background()

	t.Run("commits when the function succeeds", func(t *testing.T) {
		db := setupReturnsTestDB(t)
		scope := NewGormReturnTransactionScope(db)

		err := scope.Execute(ctx, func(repos appreturns.Repos) error {
			return repos.Returns.SaveHeader(ctx, newReturnHeader("RTN-2026-00001", returns.StatusRequested))
		})
		require.NoError(t, err)

		header, err := NewGormReturnRepository(db).FindHeaderByID(ctx, "RTN-2026-00001")
		require.NoError(t, err)
		assert.Equal(t, returns.StatusRequested, header.StatusID)
	})

	t.Run("rolls back when the function fails", func(t *testing.T) {
		db := setupReturnsTestDB(t)
		scope := NewGormReturnTransactionScope(db)

		err := scope.Execute(ctx, func(repos appreturns.Repos) error {
			if err := repos.Returns.SaveHeader(ctx, newReturnHeader("RTN-2026-00001", returns.StatusRequested)); err != nil {
				return err
			}
			return assert.AnError
		})
		require.Error(t, err)

		_, err = NewGormReturnRepository(db).FindHeaderByID(ctx, "RTN-2026-00001")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
