package notification_test

import (
	"context"
	"testing"
	"time"

	"orderflow/internal/adapters/out/notification"
	"orderflow/internal/core/domain/model/customer"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockNotifyOrderRepository struct {
	mock.Mock
}

func (m *MockNotifyOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockNotifyOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockNotifyOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockNotifyOrderRepository) GetPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]*order.Order, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockNotifyCustomerRepository struct {
	mock.Mock
}

func (m *MockNotifyCustomerRepository) Get(ctx context.Context, id kernel.UUID) (*customer.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

type recordingSender struct {
	recipients []notification.Recipient
	messages   []notification.Message
}

func (s *recordingSender) Send(_ context.Context, recipient notification.Recipient, message notification.Message) error {
	s.recipients = append(s.recipients, recipient)
	s.messages = append(s.messages, message)
	return nil
}

func testCustomer(t *testing.T, tier customer.Tier) *customer.Customer {
	t.Helper()

	c, err := customer.RestoreCustomer(
		kernel.NewUUID(), "Linh Tran", "linh@example.com", "0901234567",
		tier, customer.SkinProfileDry, true)
	require.NoError(t, err)
	return c
}

func testOrderFor(t *testing.T, customerID kernel.UUID) *order.Order {
	t.Helper()

	line, err := order.NewOrderLine(
		kernel.NewUUID(), "Hydrating Serum", 1,
		decimal.NewFromInt(100000), decimal.NewFromInt(100000), "")
	require.NoError(t, err)

	aggregate, err := order.NewOrder(order.NewOrderParams{
		ID:              kernel.NewUUID(),
		OrderNumber:     "ORD-20260901-AB12CD34",
		CustomerID:      customerID,
		Lines:           []order.OrderLine{line},
		ShippingAddress: "12 Nguyen Hue, District 1",
		ShippingPhone:   "0901234567",
		ReceiverName:    "Linh Tran",
		PaymentMethod:   order.CashOnDelivery,
		SubTotal:        decimal.NewFromInt(100000),
		ShippingFee:     decimal.NewFromInt(15000),
		TotalDiscount:   decimal.Zero,
		TotalAmount:     decimal.NewFromInt(115000),
	})
	require.NoError(t, err)
	return aggregate
}

func Test_NewObserver_RequiresCollaborators(t *testing.T) {
	orders := new(MockNotifyOrderRepository)
	customers := new(MockNotifyCustomerRepository)
	factory := notification.NewTierSenderFactory(&recordingSender{}, &recordingSender{})

	_, err := notification.NewObserver(nil, customers, factory)
	assert.ErrorIs(t, err, notification.ErrOrderRepositoryIsRequired)

	_, err = notification.NewObserver(orders, nil, factory)
	assert.ErrorIs(t, err, notification.ErrCustomerRepositoryIsRequired)

	_, err = notification.NewObserver(orders, customers, nil)
	assert.ErrorIs(t, err, notification.ErrSenderFactoryIsRequired)
}

func Test_Observer_SendsCreatedNotificationToEmailForLowTier(t *testing.T) {
	buyer := testCustomer(t, customer.Bronze)
	aggregate := testOrderFor(t, buyer.ID())
	events := aggregate.PopEvents()
	require.Len(t, events, 1)

	orders := new(MockNotifyOrderRepository)
	orders.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil)

	customers := new(MockNotifyCustomerRepository)
	customers.On("Get", mock.Anything, buyer.ID()).Return(buyer, nil)

	email := &recordingSender{}
	sms := &recordingSender{}
	observer, err := notification.NewObserver(orders, customers,
		notification.NewTierSenderFactory(email, sms))
	require.NoError(t, err)

	err = observer.Handle(t.Context(), events[0])
	require.NoError(t, err)

	require.Len(t, email.messages, 1)
	assert.Empty(t, sms.messages)
	assert.Equal(t, "Linh Tran", email.recipients[0].Name)
	assert.Contains(t, email.messages[0].Subject, "ORD-20260901-AB12CD34")
	assert.Contains(t, email.messages[0].Body, "115000")

	orders.AssertExpectations(t)
	customers.AssertExpectations(t)
}

func Test_Observer_RoutesHighTierToSMS(t *testing.T) {
	buyer := testCustomer(t, customer.Platinum)
	aggregate := testOrderFor(t, buyer.ID())
	events := aggregate.PopEvents()
	require.Len(t, events, 1)

	orders := new(MockNotifyOrderRepository)
	orders.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil)

	customers := new(MockNotifyCustomerRepository)
	customers.On("Get", mock.Anything, buyer.ID()).Return(buyer, nil)

	email := &recordingSender{}
	sms := &recordingSender{}
	observer, err := notification.NewObserver(orders, customers,
		notification.NewTierSenderFactory(email, sms))
	require.NoError(t, err)

	err = observer.Handle(t.Context(), events[0])
	require.NoError(t, err)

	assert.Empty(t, email.messages)
	require.Len(t, sms.messages, 1)
}

func Test_Observer_CancelledWithRefundMentionsRefund(t *testing.T) {
	buyer := testCustomer(t, customer.Silver)
	aggregate := testOrderFor(t, buyer.ID())
	aggregate.PopEvents()

	require.NoError(t, aggregate.Confirm(nil, nil, ""))
	require.NoError(t, aggregate.Pay(order.PaymentResult{Success: true, TransactionID: "TXN-001"}))
	require.NoError(t, aggregate.Cancel("changed my mind"))

	events := aggregate.PopEvents()
	var cancelled order.DomainEvent
	for _, event := range events {
		if event.Kind() == order.OrderCancelledKind {
			cancelled = event
		}
	}
	require.NotNil(t, cancelled)

	orders := new(MockNotifyOrderRepository)
	orders.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil)

	customers := new(MockNotifyCustomerRepository)
	customers.On("Get", mock.Anything, buyer.ID()).Return(buyer, nil)

	email := &recordingSender{}
	observer, err := notification.NewObserver(orders, customers,
		notification.NewTierSenderFactory(email, &recordingSender{}))
	require.NoError(t, err)

	err = observer.Handle(t.Context(), cancelled)
	require.NoError(t, err)

	require.Len(t, email.messages, 1)
	assert.Contains(t, email.messages[0].Body, "changed my mind")
	assert.Contains(t, email.messages[0].Body, "refund")
}

func Test_Observer_OrderLookupFailurePropagates(t *testing.T) {
	buyer := testCustomer(t, customer.Silver)
	aggregate := testOrderFor(t, buyer.ID())
	events := aggregate.PopEvents()

	orders := new(MockNotifyOrderRepository)
	orders.On("Get", mock.Anything, aggregate.ID()).Return(nil, assert.AnError)

	customers := new(MockNotifyCustomerRepository)

	observer, err := notification.NewObserver(orders, customers,
		notification.NewTierSenderFactory(&recordingSender{}, &recordingSender{}))
	require.NoError(t, err)

	err = observer.Handle(t.Context(), events[0])

	require.Error(t, err)
	customers.AssertNotCalled(t, "Get")
}
