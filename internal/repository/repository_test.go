package repository

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	dbOnce sync.Once
	testDB *gorm.DB
	dbErr  error
)

// openTestDB connects to TEST_DATABASE_URL or skips the test.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}
	dbOnce.Do(func() {
		testDB, dbErr = gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
		if dbErr == nil {
			dbErr = testDB.AutoMigrate(&models.User{}, &models.Product{}, &models.Order{}, &models.Contact{}, &models.Slider{})
		}
	})
	require.NoError(t, dbErr)
	t.Cleanup(func() {
		for _, table := range []string{"orders", "products", "contacts", "sliders", "users"} {
			testDB.Exec("DELETE FROM " + table)
		}
	})
	return testDB
}

func TestLikePatternEscapes(t *testing.T) {
	assert.Equal(t, `%50\% off\_now%`, likePattern("50% off_now"))
}

func TestSortClause(t *testing.T) {
	assert.Equal(t, "created_at ASC", Sort{}.clause("created_at"))
	assert.Equal(t, "price DESC", Sort{Column: "price", Desc: true}.clause("created_at"))
}

func TestSortedAdjustments(t *testing.T) {
	a := uuid.MustParse("00000000-0000-0000-0000-000000000002")
	b := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	in := []models.StockAdjustment{{ProductID: a, Units: 1}, {ProductID: b, Units: 2}}

	out := sortedAdjustments(in)
	assert.Equal(t, b, out[0].ProductID)
	assert.Equal(t, a, in[0].ProductID, "input must not be reordered")
}

func seedProduct(t *testing.T, db *gorm.DB, stock int) *models.Product {
	t.Helper()
	p := &models.Product{Name: "Paracetamol", Price: decimal.NewFromInt(10), Stock: stock, UnitType: models.DefaultUnitType}
	p.SyncStockStatus()
	require.NoError(t, db.Create(p).Error)
	return p
}

func newOrder(p *models.Product, units int) *models.Order {
	return &models.Order{
		Items: datatypes.NewJSONSlice([]models.OrderItem{{
			Product: p.ID, Name: p.Name, Price: p.Price, Quantity: units, TotalItems: units,
			FinalPrice: p.Price, Subtotal: p.Price.Mul(decimal.NewFromInt(int64(units))),
		}}),
		Subtotal: p.Price.Mul(decimal.NewFromInt(int64(units))),
		Total:    p.Price.Mul(decimal.NewFromInt(int64(units))),
		Status:   models.OrderPending,
		Payment:  datatypes.NewJSONType(models.Payment{Method: models.DefaultPaymentMethod, Status: models.PaymentPending}),
	}
}

func TestOrderRepository_PlaceCancelRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	products := NewProductRepository(db)
	orders := NewOrderRepository(db)

	p := seedProduct(t, db, 5)
	o := newOrder(p, 5)
	require.NoError(t, orders.Place(ctx, o, o.Adjustments()))

	got, err := products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)
	assert.Equal(t, 5, got.Sales)
	assert.Equal(t, models.ProductOutOfStock, got.Status)

	o.Status = models.OrderCancelled
	require.NoError(t, orders.Transition(ctx, o, models.OrderPending, o.Adjustments()))

	got, err = products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Stock)
	assert.Equal(t, 0, got.Sales)
	assert.Equal(t, models.ProductActive, got.Status)
	assert.Equal(t, models.AvailabilityInStock, got.Availability)

	// The stored status is now cancelled, so a second cancel from pending is stale.
	assert.ErrorIs(t, orders.Transition(ctx, o, models.OrderPending, o.Adjustments()), ErrStale)
}

func TestOrderRepository_PlaceShortageRollsBack(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	orders := NewOrderRepository(db)

	plenty := seedProduct(t, db, 10)
	scarce := seedProduct(t, db, 4)
	o := newOrder(plenty, 2)
	o.Items = append(o.Items, models.OrderItem{Product: scarce.ID, Name: scarce.Name, Quantity: 3, TotalItems: 6})

	err := orders.Place(ctx, o, o.Adjustments())
	var shortage *StockShortageError
	require.ErrorAs(t, err, &shortage)
	assert.Equal(t, 4, shortage.Available)
	assert.Equal(t, 6, shortage.Requested)
	assert.ErrorIs(t, err, models.ErrStockExhausted)

	got, err := NewProductRepository(db).GetByID(ctx, plenty.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Stock, "first reservation must roll back")

	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Zero(t, count)
}

func TestOrderRepository_DeleteRestoresStock(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	orders := NewOrderRepository(db)

	p := seedProduct(t, db, 3)
	o := newOrder(p, 2)
	require.NoError(t, orders.Place(ctx, o, o.Adjustments()))
	require.NoError(t, orders.Delete(ctx, o.ID, models.OrderPending, o.Adjustments()))

	got, err := NewProductRepository(db).GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Stock)

	_, err = orders.GetByID(ctx, o.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductRepository_ListSearch(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewProductRepository(db)

	seedProduct(t, db, 1)
	other := &models.Product{Name: "Vitamin C", Category: "supplements", Price: decimal.NewFromInt(3), Stock: 2}
	other.SyncStockStatus()
	require.NoError(t, repo.Create(ctx, other))

	items, total, err := repo.List(ctx, ProductFilter{Search: "vitamin", Page: Page{Limit: 10}})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "Vitamin C", items[0].Name)
}
