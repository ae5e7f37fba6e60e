package postgres_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	postgres_adapter "orderflow/internal/adapters/out/postgres"
	"orderflow/internal/adapters/out/postgres/customerrepo"
	"orderflow/internal/adapters/out/postgres/orderrepo"
	"orderflow/internal/adapters/out/postgres/productrepo"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite provides comprehensive integration testing
// for the GORM-based Unit of Work implementation with real PostgreSQL database.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

// SetupSuite initializes PostgreSQL container and database connection for all tests.
// Runs database migrations to prepare schema for unit of work operations.
func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	// Start PostgreSQL container
	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	// Connect to database
	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	// Run migrations
	err = db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.OrderLineDTO{},
		&productrepo.ProductDTO{},
		&customerrepo.CustomerDTO{},
	)
	suite.Require().NoError(err)

	// Create factory
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

// SetupTest ensures clean database state before each test.
// Truncates all tables to prevent test interference.
func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE orders, order_lines, products, customers").Error
	suite.Require().NoError(err)
}

// TearDownSuite cleans up PostgreSQL container after all tests complete.
func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

// TestUnitOfWorkFactory_Create verifies factory creates unit of work instances
// with proper initialization and isolation between instances.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWorkFactory_Create() {
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	suite.NotSame(uow1, uow2, "Factory should create separate instances")

	suite.NotNil(uow1.OrderRepository(), "First instance should provide order repository")
	suite.NotNil(uow1.ProductRepository(), "First instance should provide product repository")
	suite.NotNil(uow1.CustomerRepository(), "First instance should provide customer repository")
	suite.NotNil(uow2.OrderRepository(), "Second instance should provide order repository")
}

// TestUnitOfWork_TransactionLifecycle verifies proper transaction management
// including begin, commit, and rollback operations.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	err := uow.Begin(ctx)
	suite.Require().NoError(err, "Should begin transaction successfully")

	err = uow.Begin(ctx)
	suite.Require().NoError(err, "Multiple begin calls should be safe")

	err = uow.Commit(ctx)
	suite.Require().NoError(err, "Should commit transaction successfully")

	err = uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.Rollback(ctx)
	suite.Require().NoError(err, "Should rollback transaction successfully")
}

// TestUnitOfWork_TransactionErrors verifies error handling for invalid transaction operations.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionErrors() {
	ctx := context.Background()
	uow := suite.factory.Create()

	err := uow.Commit(ctx)
	suite.Require().Error(err, "Should error when committing without active transaction")

	err = uow.Rollback(ctx)
	suite.Require().Error(err, "Should error when rolling back without active transaction")
}

// TestUnitOfWork_SingleRepositoryTransaction verifies repository operations
// within a single transaction boundary work correctly.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_SingleRepositoryTransaction() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testOrder := createTestOrder(suite.T())

	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.OrderRepository().Add(ctx, testOrder)
	suite.Require().NoError(err)

	// Visible within the transaction
	retrievedOrder, err := uow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(testOrder.ID(), retrievedOrder.ID())

	err = uow.Commit(ctx)
	suite.Require().NoError(err)

	// Persists after commit using new unit of work
	newUow := suite.factory.Create()
	retrievedOrder, err = newUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(testOrder.ID(), retrievedOrder.ID())
	suite.Equal(testOrder.OrderNumber(), retrievedOrder.OrderNumber())
	suite.True(testOrder.TotalAmount().Equal(retrievedOrder.TotalAmount()))
	suite.Len(retrievedOrder.Lines(), len(testOrder.Lines()))
}

// TestUnitOfWork_RoundTripPreservesState verifies the full aggregate state
// survives persistence, including lifecycle transitions.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RoundTripPreservesState() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testOrder := createTestOrder(suite.T())
	err := uow.OrderRepository().Add(ctx, testOrder)
	suite.Require().NoError(err)

	err = testOrder.Confirm(nil, nil, "verified by phone")
	suite.Require().NoError(err)
	err = testOrder.Pay(order.PaymentResult{Success: true, TransactionID: "TXN-IT-001"})
	suite.Require().NoError(err)

	err = uow.OrderRepository().Update(ctx, testOrder)
	suite.Require().NoError(err)

	newUow := suite.factory.Create()
	retrieved, err := newUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	suite.Equal(order.Paid, retrieved.Status())
	suite.Equal("TXN-IT-001", retrieved.TransactionID())
	suite.Equal("verified by phone", retrieved.AdminNotes())
	suite.NotNil(retrieved.ConfirmedAt())
	suite.NotNil(retrieved.PaidAt())

	lines := retrieved.Lines()
	suite.Require().Len(lines, 2)
	suite.Equal("Hydrating Serum", lines[0].ProductName())
	suite.Equal("Night Cream", lines[1].ProductName())
}

// TestUnitOfWork_MultiRepositoryTransaction verifies stock reservation and
// order confirmation commit atomically within one transaction.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_MultiRepositoryTransaction() {
	ctx := context.Background()

	productID := kernel.NewUUID()
	suite.seedProduct(productID, "Hydrating Serum", 10)

	testOrder := createTestOrder(suite.T())

	uow := suite.factory.Create()
	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.OrderRepository().Add(ctx, testOrder)
	suite.Require().NoError(err)

	err = uow.ProductRepository().ReserveStock(ctx, productID, 3)
	suite.Require().NoError(err)

	err = testOrder.Confirm(nil, nil, "")
	suite.Require().NoError(err)
	err = uow.OrderRepository().Update(ctx, testOrder)
	suite.Require().NoError(err)

	err = uow.Commit(ctx)
	suite.Require().NoError(err)

	newUow := suite.factory.Create()

	retrievedOrder, err := newUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Confirmed, retrievedOrder.Status())

	retrievedProduct, err := newUow.ProductRepository().Get(ctx, productID)
	suite.Require().NoError(err)
	suite.Equal(7, retrievedProduct.StockQuantity())
}

// TestUnitOfWork_TransactionRollback verifies rollback discards all changes
// made within the transaction across multiple repositories.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionRollback() {
	ctx := context.Background()

	productID := kernel.NewUUID()
	suite.seedProduct(productID, "Night Cream", 5)

	testOrder := createTestOrder(suite.T())

	uow := suite.factory.Create()
	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.OrderRepository().Add(ctx, testOrder)
	suite.Require().NoError(err)

	err = uow.ProductRepository().ReserveStock(ctx, productID, 5)
	suite.Require().NoError(err)

	err = uow.Rollback(ctx)
	suite.Require().NoError(err)

	newUow := suite.factory.Create()

	_, err = newUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().Error(err, "Order should not exist after rollback")

	retrievedProduct, err := newUow.ProductRepository().Get(ctx, productID)
	suite.Require().NoError(err)
	suite.Equal(5, retrievedProduct.StockQuantity(), "Stock should be restored after rollback")
}

// TestUnitOfWork_ReserveStockInsufficient verifies the conditional update
// refuses to oversell and reports the shortage.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_ReserveStockInsufficient() {
	ctx := context.Background()

	productID := kernel.NewUUID()
	suite.seedProduct(productID, "Sunscreen SPF50", 2)

	uow := suite.factory.Create()

	err := uow.ProductRepository().ReserveStock(ctx, productID, 3)
	suite.Require().Error(err)
	suite.Require().ErrorIs(err, productrepo.ErrNotEnoughStock)

	retrievedProduct, err := uow.ProductRepository().Get(ctx, productID)
	suite.Require().NoError(err)
	suite.Equal(2, retrievedProduct.StockQuantity(), "Failed reservation must not touch stock")
}

// TestUnitOfWork_RepositoryIsolation verifies that repositories obtained
// from different unit of work instances operate independently.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RepositoryIsolation() {
	ctx := context.Background()

	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	order1 := createTestOrder(suite.T())
	order2 := createTestOrder(suite.T())

	err := uow1.Begin(ctx)
	suite.Require().NoError(err)

	err = uow2.Begin(ctx)
	suite.Require().NoError(err)

	err = uow1.OrderRepository().Add(ctx, order1)
	suite.Require().NoError(err)

	err = uow2.OrderRepository().Add(ctx, order2)
	suite.Require().NoError(err)

	// Each transaction should only see its own changes
	_, err = uow1.OrderRepository().Get(ctx, order1.ID())
	suite.Require().NoError(err, "UOW1 should see order1")

	_, err = uow1.OrderRepository().Get(ctx, order2.ID())
	suite.Require().Error(err, "UOW1 should not see order2")

	_, err = uow2.OrderRepository().Get(ctx, order2.ID())
	suite.Require().NoError(err, "UOW2 should see order2")

	_, err = uow2.OrderRepository().Get(ctx, order1.ID())
	suite.Require().Error(err, "UOW2 should not see order1")

	err = uow1.Commit(ctx)
	suite.Require().NoError(err)

	err = uow2.Rollback(ctx)
	suite.Require().NoError(err)

	newUow := suite.factory.Create()
	_, err = newUow.OrderRepository().Get(ctx, order1.ID())
	suite.Require().NoError(err, "Order1 should persist after commit")

	_, err = newUow.OrderRepository().Get(ctx, order2.ID())
	suite.Require().Error(err, "Order2 should not persist after rollback")
}

// TestUnitOfWork_WithoutTransaction verifies that repositories work correctly
// without explicit transaction boundaries for immediate operations.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_WithoutTransaction() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testOrder := createTestOrder(suite.T())

	err := uow.OrderRepository().Add(ctx, testOrder)
	suite.Require().NoError(err)

	retrievedOrder, err := uow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(testOrder.ID(), retrievedOrder.ID())

	newUow := suite.factory.Create()
	retrievedOrder, err = newUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(testOrder.ID(), retrievedOrder.ID())
}

// TestUnitOfWork_GetPendingCreatedBefore verifies the stale-order lookup
// returns only Pending orders older than the cutoff.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_GetPendingCreatedBefore() {
	ctx := context.Background()
	uow := suite.factory.Create()

	pendingOrder := createTestOrder(suite.T())
	confirmedOrder := createTestOrder(suite.T())

	err := uow.OrderRepository().Add(ctx, pendingOrder)
	suite.Require().NoError(err)
	err = uow.OrderRepository().Add(ctx, confirmedOrder)
	suite.Require().NoError(err)

	err = confirmedOrder.Confirm(nil, nil, "")
	suite.Require().NoError(err)
	err = uow.OrderRepository().Update(ctx, confirmedOrder)
	suite.Require().NoError(err)

	cutoff := time.Now().UTC().Add(time.Minute)
	stale, err := uow.OrderRepository().GetPendingCreatedBefore(ctx, cutoff)
	suite.Require().NoError(err)
	suite.Require().Len(stale, 1)
	suite.Equal(pendingOrder.ID(), stale[0].ID())

	// Nothing predates a cutoff in the past
	stale, err = uow.OrderRepository().GetPendingCreatedBefore(ctx, time.Now().UTC().Add(-time.Hour))
	suite.Require().NoError(err)
	suite.Empty(stale)
}

// TestUnitOfWork_CustomerRepository verifies customer lookup round trips the
// tier and skin profile.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_CustomerRepository() {
	ctx := context.Background()

	customerID := kernel.NewUUID()
	err := suite.db.Create(&customerrepo.CustomerDTO{
		ID:                customerID.Bytes(),
		Name:              "Linh Tran",
		Email:             "linh@example.com",
		Phone:             "0901234567",
		Tier:              2,
		SkinProfile:       "dry",
		CompletedSkinQuiz: true,
	}).Error
	suite.Require().NoError(err)

	uow := suite.factory.Create()
	retrieved, err := uow.CustomerRepository().Get(ctx, customerID)
	suite.Require().NoError(err)

	suite.Equal("Linh Tran", retrieved.Name())
	suite.Equal("dry", string(retrieved.SkinProfile()))
	suite.True(retrieved.HasCompletedSkinQuiz())

	_, err = uow.CustomerRepository().Get(ctx, kernel.NewUUID())
	suite.Require().Error(err, "Unknown customer should not be found")
}

// TestUnitOfWork_UpdateMissingOrder verifies updating an order that was never
// persisted reports not found.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_UpdateMissingOrder() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testOrder := createTestOrder(suite.T())

	err := uow.OrderRepository().Update(ctx, testOrder)
	suite.Require().Error(err)
	suite.Require().True(errors.Is(err, gorm.ErrRecordNotFound))
}

// seedProduct inserts a product row directly, bypassing the domain layer.
func (suite *UnitOfWorkIntegrationTestSuite) seedProduct(id kernel.UUID, name string, stock int) {
	err := suite.db.Create(&productrepo.ProductDTO{
		ID:            id.Bytes(),
		Name:          name,
		UnitPrice:     decimal.NewFromInt(100000),
		WeightGrams:   150,
		StockQuantity: stock,
	}).Error
	suite.Require().NoError(err)
}

// createTestOrder creates a valid two-line order for testing purposes.
func createTestOrder(t *testing.T) *order.Order {
	t.Helper()

	id := kernel.NewUUID()
	compact := strings.ReplaceAll(id.String(), "-", "")
	orderNumber := "ORD-TEST-" + strings.ToUpper(compact[:8])

	serumLine, err := order.NewOrderLine(
		kernel.NewUUID(), "Hydrating Serum", 2,
		decimal.NewFromInt(100000), decimal.NewFromInt(90000), "loyalty tier discount 10%")
	if err != nil {
		t.Fatal(err)
	}

	creamLine, err := order.NewOrderLine(
		kernel.NewUUID(), "Night Cream", 1,
		decimal.NewFromInt(150000), decimal.NewFromInt(150000), "")
	if err != nil {
		t.Fatal(err)
	}

	testOrder, err := order.NewOrder(order.NewOrderParams{
		ID:          id,
		OrderNumber: orderNumber,
		CustomerID:  kernel.NewUUID(),

		Lines: []order.OrderLine{serumLine, creamLine},

		ShippingAddress: "12 Nguyen Hue, District 1, Ho Chi Minh City",
		ShippingPhone:   "0901234567",
		ReceiverName:    "Linh Tran",

		PaymentMethod: order.CashOnDelivery,

		SubTotal:      decimal.NewFromInt(330000),
		ShippingFee:   decimal.NewFromInt(15000),
		TotalDiscount: decimal.Zero,
		TotalAmount:   decimal.NewFromInt(345000),
	})
	if err != nil {
		t.Fatal(err)
	}

	// Creation events are the command handler's concern, not persistence's.
	testOrder.PopEvents()

	return testOrder
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
