package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gainschef/backend/pkg/db/models"
	"github.com/gainschef/backend/pkg/enums"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  session_id TEXT NOT NULL UNIQUE,
  principal_id TEXT NOT NULL,
  principal_kind TEXT NOT NULL,
  customer_ref TEXT NOT NULL,
  amount_total_pence INTEGER NOT NULL,
  currency TEXT NOT NULL DEFAULT 'GBP',
  payment_status TEXT NOT NULL DEFAULT 'pending',
  paid_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	lineItems := `
CREATE TABLE IF NOT EXISTS order_line_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_slug TEXT NOT NULL,
  name TEXT NOT NULL,
  unit_amount_pence INTEGER NOT NULL,
  quantity INTEGER NOT NULL,
  total_pence INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(orders).Error)
	require.NoError(t, db.Exec(lineItems).Error)
	return db
}

func buildOrder(sessionID string) *models.Order {
	return &models.Order{
		ID:               uuid.New(),
		SessionID:        sessionID,
		PrincipalID:      "guest:3e8b",
		PrincipalKind:    enums.PrincipalGuest,
		CustomerRef:      "cus_test_1",
		AmountTotalPence: 850,
		Currency:         enums.CurrencyGBP,
		PaymentStatus:    enums.PaymentStatusPending,
		Items: []models.OrderLineItem{
			{
				ID:              uuid.New(),
				ProductSlug:     "creatine-mono",
				Name:            "Creatine Monohydrate",
				UnitAmountPence: 425,
				Quantity:        2,
				TotalPence:      850,
			},
		},
	}
}

func TestCreateOrderPersistsLineItems(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created, err := repo.CreateOrder(ctx, buildOrder("cs_test_1"))
	require.NoError(t, err)
	require.NotNil(t, created)

	found, err := repo.FindBySessionID(ctx, "cs_test_1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, enums.PaymentStatusPending, found.PaymentStatus)
	assert.Equal(t, int64(850), found.AmountTotalPence)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "creatine-mono", found.Items[0].ProductSlug)
	assert.Equal(t, int64(2), found.Items[0].Quantity)
}

func TestCreateOrderDuplicateSessionIDFails(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	_, err := repo.CreateOrder(ctx, buildOrder("cs_test_dup"))
	require.NoError(t, err)

	_, err = repo.CreateOrder(ctx, buildOrder("cs_test_dup"))
	require.Error(t, err)
}

func TestFindBySessionIDMissingReturnsNil(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	order, err := repo.FindBySessionID(context.Background(), "cs_absent")
	require.NoError(t, err)
	assert.Nil(t, order)
}

func TestUpdatePaymentStatus(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	_, err := repo.CreateOrder(ctx, buildOrder("cs_test_2"))
	require.NoError(t, err)

	paidAt := time.Now().UTC()
	require.NoError(t, repo.UpdatePaymentStatus(ctx, "cs_test_2", enums.PaymentStatusPaid, &paidAt))

	found, err := repo.FindBySessionID(ctx, "cs_test_2")
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusPaid, found.PaymentStatus)
	require.NotNil(t, found.PaidAt)
}

func TestUpdatePaymentStatusMissingOrder(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	err := repo.UpdatePaymentStatus(context.Background(), "cs_absent", enums.PaymentStatusPaid, nil)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
