package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCancelOrderRepository struct{ mock.Mock }

func (m *MockCancelOrderRepository) Add(_ context.Context, _ *order.Order) error {
	return errors.New("not implemented in mock")
}
func (m *MockCancelOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}
func (m *MockCancelOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}
func (m *MockCancelOrderRepository) GetPendingCreatedBefore(_ context.Context, _ time.Time) ([]*order.Order, error) {
	return nil, errors.New("not implemented in mock")
}

type MockCancelOrderUoW struct{ mock.Mock }

func (m *MockCancelOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockCancelOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockCancelOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockCancelOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockCancelOrderUoWFactory struct{ mock.Mock }

func (m *MockCancelOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockCancelPublisher struct{ mock.Mock }

func (m *MockCancelPublisher) Publish(ctx context.Context, event order.DomainEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
func (m *MockCancelPublisher) PublishAll(ctx context.Context, events []order.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func TestCancelOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	aggregate := pendingOrder(t)

	cmd, err := commands.NewCancelOrderCommand(aggregate.ID(), "changed my mind", aggregate.CustomerID(), false)
	require.NoError(t, err)

	repo := new(MockCancelOrderRepository)
	uow := new(MockCancelOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Update", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockCancelOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	publisher := new(MockCancelPublisher)
	publisher.On("PublishAll", ctx, mock.AnythingOfType("[]order.DomainEvent")).Return(nil).Once()

	h := commands.NewCancelOrderCommandHandler(factory, publisher)
	result, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	require.Equal(t, order.Cancelled, aggregate.Status())
	require.False(t, result.RequiresRefund)
	require.True(t, result.RefundAmount.IsZero())
	require.False(t, result.CancelledAt.IsZero())
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestCancelOrderCommandHandler_Handle_PaidOrderFlagsRefund(t *testing.T) {
	ctx := t.Context()
	aggregate := confirmedOrder(t, order.CreditCard)
	require.NoError(t, aggregate.Pay(order.PaymentResult{Success: true, TransactionID: "TXN-003"}))
	aggregate.PopEvents()

	cmd, err := commands.NewCancelOrderCommand(aggregate.ID(), "damaged in warehouse", kernel.NewUUID(), true)
	require.NoError(t, err)

	repo := new(MockCancelOrderRepository)
	repo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once()
	repo.On("Update", mock.Anything, mock.Anything).Return(nil).Once()

	uow := new(MockCancelOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Twice()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockCancelOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	publisher := new(MockCancelPublisher)
	publisher.On("PublishAll", ctx, mock.Anything).Return(nil).Once()

	h := commands.NewCancelOrderCommandHandler(factory, publisher)
	result, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	require.True(t, result.RequiresRefund)
	require.True(t, result.RefundAmount.Equal(aggregate.TotalAmount()))
}

func TestCancelOrderCommandHandler_Handle_NotOwner(t *testing.T) {
	ctx := t.Context()
	aggregate := pendingOrder(t)

	cmd, err := commands.NewCancelOrderCommand(aggregate.ID(), "fraud attempt", kernel.NewUUID(), false)
	require.NoError(t, err)

	repo := new(MockCancelOrderRepository)
	repo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once()

	uow := new(MockCancelOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockCancelOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCancelOrderCommandHandler(factory, new(MockCancelPublisher))
	_, err = h.Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrNotOrderOwner)
	require.Equal(t, order.Pending, aggregate.Status())
	uow.AssertNotCalled(t, "Commit")
}

func TestCancelOrderCommandHandler_Handle_TerminalOrder(t *testing.T) {
	ctx := t.Context()
	aggregate := pendingOrder(t)
	require.NoError(t, aggregate.Cancel("first cancellation"))
	aggregate.PopEvents()

	cmd, err := commands.NewCancelOrderCommand(aggregate.ID(), "second attempt", aggregate.CustomerID(), false)
	require.NoError(t, err)

	repo := new(MockCancelOrderRepository)
	repo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once()

	uow := new(MockCancelOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockCancelOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCancelOrderCommandHandler(factory, new(MockCancelPublisher))
	_, err = h.Handle(ctx, cmd)

	require.Error(t, err)
	uow.AssertNotCalled(t, "Commit")
}
