package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"orderflow/internal/core/domain/model/customer"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/product"
	"orderflow/internal/core/domain/model/voucher"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/core/domain/services/pricing"
	"orderflow/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBuilderProductRepository struct{ mock.Mock }

func (m *MockBuilderProductRepository) Get(ctx context.Context, id kernel.UUID) (*product.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockBuilderProductRepository) ReserveStock(ctx context.Context, id kernel.UUID, quantity int) error {
	args := m.Called(ctx, id, quantity)
	return args.Error(0)
}

type MockBuilderCustomerRepository struct{ mock.Mock }

func (m *MockBuilderCustomerRepository) Get(ctx context.Context, id kernel.UUID) (*customer.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

type MockBuilderVoucherService struct{ mock.Mock }

func (m *MockBuilderVoucherService) Lookup(ctx context.Context, code string, customerID kernel.UUID) (voucher.Voucher, error) {
	args := m.Called(ctx, code, customerID)
	return args.Get(0).(voucher.Voucher), args.Error(1)
}

func (m *MockBuilderVoucherService) Redeem(ctx context.Context, code string, customerID kernel.UUID) error {
	args := m.Called(ctx, code, customerID)
	return args.Error(0)
}

type MockBuilderShippingCalculator struct{ mock.Mock }

func (m *MockBuilderShippingCalculator) Calculate(ctx context.Context, req ports.ShippingQuoteRequest) (decimal.Decimal, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func silverCustomer(t *testing.T) *customer.Customer {
	t.Helper()
	c, err := customer.RestoreCustomer(
		kernel.NewUUID(), "Linh Tran", "linh@example.com", "+84901234567",
		customer.Silver, customer.SkinProfileDry, true,
	)
	require.NoError(t, err)
	return c
}

func serumProduct(t *testing.T, stock int) *product.Product {
	t.Helper()
	p, err := product.RestoreProduct(
		kernel.NewUUID(), "Hydrating Serum", decimal.NewFromInt(100000), 150,
		customer.SkinProfileUnknown, stock,
	)
	require.NoError(t, err)
	return p
}

func defaultResolver(t *testing.T) *pricing.Resolver {
	t.Helper()
	loyalty, err := pricing.NewLoyaltyStrategy(pricing.DefaultLoyaltyPercents())
	require.NoError(t, err)
	profile, err := pricing.NewProfileMatchStrategy(pricing.DefaultProfileMatchPercent())
	require.NoError(t, err)
	return pricing.NewResolver(loyalty, profile)
}

func newBuilder(
	t *testing.T,
	products *MockBuilderProductRepository,
	customers *MockBuilderCustomerRepository,
	vouchers *MockBuilderVoucherService,
	shipping *MockBuilderShippingCalculator,
) *services.OrderBuilder {
	t.Helper()
	builder, err := services.NewOrderBuilder(products, customers, vouchers, shipping, defaultResolver(t))
	require.NoError(t, err)
	return builder
}

func TestOrderBuilder_Validation(t *testing.T) {
	products := new(MockBuilderProductRepository)
	customers := new(MockBuilderCustomerRepository)
	vouchers := new(MockBuilderVoucherService)
	shipping := new(MockBuilderShippingCalculator)

	t.Run("empty builder reports every missing step", func(t *testing.T) {
		builder := newBuilder(t, products, customers, vouchers, shipping)

		assert.False(t, builder.CanBuild())
		assert.Equal(t, []string{
			"missing purchaser",
			"no items",
			"incomplete shipping info",
			"unrecognized payment method",
		}, builder.ValidationErrors())
	})

	t.Run("zero quantity item reports no items", func(t *testing.T) {
		builder := newBuilder(t, products, customers, vouchers, shipping)
		builder.
			ForCustomer(silverCustomer(t)).
			AddItem(kernel.NewUUID(), 0).
			WithShippingInfo("12 Nguyen Hue, HCMC", "+84901234567", "Linh Tran").
			WithPaymentMethod(order.CashOnDelivery)

		assert.False(t, builder.CanBuild())
		assert.Equal(t, []string{"no items"}, builder.ValidationErrors())
	})

	t.Run("complete state passes", func(t *testing.T) {
		builder := newBuilder(t, products, customers, vouchers, shipping)
		builder.
			ForCustomer(silverCustomer(t)).
			AddItem(kernel.NewUUID(), 1).
			WithShippingInfo("12 Nguyen Hue, HCMC", "+84901234567", "Linh Tran").
			WithPaymentMethod(order.CashOnDelivery)

		assert.True(t, builder.CanBuild())
		assert.Empty(t, builder.ValidationErrors())
	})

	t.Run("validation is non-destructive", func(t *testing.T) {
		builder := newBuilder(t, products, customers, vouchers, shipping)
		builder.
			ForCustomer(silverCustomer(t)).
			AddItem(kernel.NewUUID(), 1).
			WithShippingInfo("12 Nguyen Hue, HCMC", "+84901234567", "Linh Tran").
			WithPaymentMethod(order.CashOnDelivery)

		for range 3 {
			assert.True(t, builder.CanBuild())
		}
	})

	t.Run("reset clears accumulated state", func(t *testing.T) {
		builder := newBuilder(t, products, customers, vouchers, shipping)
		builder.
			ForCustomer(silverCustomer(t)).
			AddItem(kernel.NewUUID(), 1).
			WithShippingInfo("12 Nguyen Hue, HCMC", "+84901234567", "Linh Tran").
			WithPaymentMethod(order.CashOnDelivery)
		require.True(t, builder.CanBuild())

		builder.Reset()

		assert.False(t, builder.CanBuild())
	})
}

func TestOrderBuilder_Build_CannotBuild(t *testing.T) {
	builder := newBuilder(t,
		new(MockBuilderProductRepository),
		new(MockBuilderCustomerRepository),
		new(MockBuilderVoucherService),
		new(MockBuilderShippingCalculator),
	)

	_, _, err := builder.Build(context.Background())

	require.ErrorIs(t, err, services.ErrCannotBuild)
	assert.Contains(t, err.Error(), "missing purchaser")
}

func TestOrderBuilder_Build_Success(t *testing.T) {
	ctx := context.Background()
	buyer := silverCustomer(t)
	serum := serumProduct(t, 10)

	products := new(MockBuilderProductRepository)
	products.On("Get", ctx, serum.ID()).Return(serum, nil).Once()

	vouchers := new(MockBuilderVoucherService)
	v, err := voucher.NewVoucher("WELCOME20", decimal.NewFromInt(20000), time.Now().Add(24*time.Hour))
	require.NoError(t, err)
	vouchers.On("Lookup", ctx, "WELCOME20", buyer.ID()).Return(v, nil).Once()

	shipping := new(MockBuilderShippingCalculator)
	shipping.On("Calculate", ctx, ports.ShippingQuoteRequest{
		Address:          "12 Nguyen Hue, HCMC",
		TotalWeightGrams: 300,
		ExpressDelivery:  false,
	}).Return(decimal.NewFromInt(15000), nil).Once()

	builder := newBuilder(t, products, new(MockBuilderCustomerRepository), vouchers, shipping)
	builder.
		ForCustomer(buyer).
		AddItem(serum.ID(), 2).
		WithShippingInfo("12 Nguyen Hue, HCMC", "+84901234567", "Linh Tran").
		WithPaymentMethod(order.CashOnDelivery).
		WithVoucher("WELCOME20")

	built, report, err := builder.Build(ctx)

	require.NoError(t, err)
	require.NotNil(t, built)

	// Silver loyalty 10% beats the 5% profile match: 100000 -> 90000 per unit.
	assert.Equal(t, order.Pending, built.Status())
	assert.True(t, built.SubTotal().Equal(decimal.NewFromInt(180000)), "subtotal %s", built.SubTotal())
	assert.True(t, built.ShippingFee().Equal(decimal.NewFromInt(15000)))
	assert.True(t, built.TotalDiscount().Equal(decimal.NewFromInt(20000)))
	assert.True(t, built.TotalAmount().Equal(decimal.NewFromInt(175000)), "total %s", built.TotalAmount())
	require.NotNil(t, built.VoucherCode())
	assert.Equal(t, "WELCOME20", *built.VoucherCode())

	require.Len(t, built.Lines(), 1)
	line := built.Lines()[0]
	assert.Equal(t, 2, line.Quantity())
	assert.True(t, line.UnitPrice().Equal(decimal.NewFromInt(100000)))
	assert.True(t, line.DiscountedUnitPrice().Equal(decimal.NewFromInt(90000)))

	assert.True(t, report.OriginalTotal.Equal(decimal.NewFromInt(200000)))
	assert.True(t, report.TotalDiscount.Equal(decimal.NewFromInt(40000)), "report discount %s", report.TotalDiscount)
	require.Len(t, report.LineDiscounts, 1)
	assert.Equal(t, "loyalty", report.LineDiscounts[0].Type)
	assert.Empty(t, report.Warnings)
	require.NotNil(t, report.AppliedVoucherCode)

	events := built.PopEvents()
	require.Len(t, events, 1)
	assert.Equal(t, order.OrderCreatedKind, events[0].Kind())

	products.AssertExpectations(t)
	vouchers.AssertExpectations(t)
	shipping.AssertExpectations(t)
}

func TestOrderBuilder_Build_InvalidVoucherIsWarning(t *testing.T) {
	ctx := context.Background()
	buyer := silverCustomer(t)
	serum := serumProduct(t, 5)

	products := new(MockBuilderProductRepository)
	products.On("Get", ctx, serum.ID()).Return(serum, nil).Once()

	vouchers := new(MockBuilderVoucherService)
	vouchers.On("Lookup", ctx, "EXPIRED", buyer.ID()).
		Return(voucher.Voucher{}, errors.New("voucher expired")).Once()

	shipping := new(MockBuilderShippingCalculator)
	shipping.On("Calculate", ctx, mock.Anything).Return(decimal.NewFromInt(15000), nil).Once()

	builder := newBuilder(t, products, new(MockBuilderCustomerRepository), vouchers, shipping)
	builder.
		ForCustomer(buyer).
		AddItem(serum.ID(), 1).
		WithShippingInfo("12 Nguyen Hue, HCMC", "+84901234567", "Linh Tran").
		WithPaymentMethod(order.CreditCard).
		WithVoucher("EXPIRED")

	built, report, err := builder.Build(ctx)

	require.NoError(t, err)
	assert.Nil(t, built.VoucherCode())
	assert.True(t, built.TotalDiscount().IsZero())
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0], "EXPIRED")
	assert.Nil(t, report.AppliedVoucherCode)
}

func TestOrderBuilder_Build_ResolvesPurchaserByID(t *testing.T) {
	ctx := context.Background()
	buyer := silverCustomer(t)
	serum := serumProduct(t, 5)

	customers := new(MockBuilderCustomerRepository)
	customers.On("Get", ctx, buyer.ID()).Return(buyer, nil).Once()

	products := new(MockBuilderProductRepository)
	products.On("Get", ctx, serum.ID()).Return(serum, nil).Once()

	shipping := new(MockBuilderShippingCalculator)
	shipping.On("Calculate", ctx, mock.Anything).Return(decimal.NewFromInt(15000), nil).Once()

	builder := newBuilder(t, products, customers, new(MockBuilderVoucherService), shipping)
	builder.
		ForCustomerID(buyer.ID()).
		AddItem(serum.ID(), 1).
		WithShippingInfo("12 Nguyen Hue, HCMC", "+84901234567", "Linh Tran").
		WithPaymentMethod(order.CashOnDelivery)

	built, _, err := builder.Build(ctx)

	require.NoError(t, err)
	assert.True(t, built.CustomerID().IsEqual(buyer.ID()))
	customers.AssertExpectations(t)
}

func TestOrderBuilder_Build_InsufficientStock(t *testing.T) {
	ctx := context.Background()
	buyer := silverCustomer(t)
	serum := serumProduct(t, 1)

	products := new(MockBuilderProductRepository)
	products.On("Get", ctx, serum.ID()).Return(serum, nil).Once()

	builder := newBuilder(t, products, new(MockBuilderCustomerRepository),
		new(MockBuilderVoucherService), new(MockBuilderShippingCalculator))
	builder.
		ForCustomer(buyer).
		AddItem(serum.ID(), 3).
		WithShippingInfo("12 Nguyen Hue, HCMC", "+84901234567", "Linh Tran").
		WithPaymentMethod(order.CashOnDelivery)

	_, _, err := builder.Build(ctx)

	require.ErrorIs(t, err, services.ErrInsufficientStock)
}

func TestOrderBuilder_Build_ShippingFeeOverrideAndGiftWrap(t *testing.T) {
	ctx := context.Background()
	buyer := silverCustomer(t)
	serum := serumProduct(t, 5)

	products := new(MockBuilderProductRepository)
	products.On("Get", ctx, serum.ID()).Return(serum, nil).Once()

	// No Calculate expectation: the override must bypass the rate collaborator.
	shipping := new(MockBuilderShippingCalculator)

	builder := newBuilder(t, products, new(MockBuilderCustomerRepository),
		new(MockBuilderVoucherService), shipping)
	builder.
		ForCustomer(buyer).
		AddItem(serum.ID(), 1).
		WithShippingInfo("12 Nguyen Hue, HCMC", "+84901234567", "Linh Tran").
		WithPaymentMethod(order.CashOnDelivery).
		WithShippingFee(decimal.NewFromInt(30000)).
		WithGiftWrap("Happy birthday!", decimal.NewFromInt(10000))

	built, report, err := builder.Build(ctx)

	require.NoError(t, err)
	assert.True(t, built.ShippingFee().Equal(decimal.NewFromInt(40000)), "fee %s", built.ShippingFee())
	assert.True(t, built.IsGiftWrapped())
	assert.Equal(t, "Happy birthday!", built.GiftWrapMessage())
	assert.True(t, report.GiftWrap)
	shipping.AssertExpectations(t)
}
