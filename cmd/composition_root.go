package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	httpin "orderflow/internal/adapters/in/http"
	"orderflow/internal/adapters/out/kafka"
	"orderflow/internal/adapters/out/notification"
	"orderflow/internal/adapters/out/payment"
	"orderflow/internal/adapters/out/postgres"
	"orderflow/internal/adapters/out/postgres/customerrepo"
	"orderflow/internal/adapters/out/postgres/productrepo"
	"orderflow/internal/adapters/out/postgres/voucherrepo"
	"orderflow/internal/adapters/out/shipping"
	"orderflow/internal/core/application/eventbus"
	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/core/domain/services/pricing"
	"orderflow/internal/jobs"

	"gorm.io/gorm"
)

const paymentSessionTTL = 15 * time.Minute

type CompositionRoot struct {
	gormDB           *gorm.DB
	uowFactory       postgres.GormUnitOfWorkFactory
	vouchers         *voucherrepo.GormVoucherService
	shippingCalc     *shipping.Calculator
	gateways         *payment.Registry
	resolver         *pricing.Resolver
	dispatcher       *eventbus.Dispatcher
	logger           *slog.Logger
	staleOrderMaxAge time.Duration
}

func NewCompositionRoot(config Config, gormDB *gorm.DB) (CompositionRoot, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	vouchers, err := voucherrepo.NewGormVoucherService(gormDB)
	if err != nil {
		return CompositionRoot{}, err
	}

	gateways, err := buildPaymentGateways(config)
	if err != nil {
		return CompositionRoot{}, err
	}

	resolver, err := buildPricingResolver()
	if err != nil {
		return CompositionRoot{}, err
	}

	dispatcher, err := buildEventDispatcher(config, gormDB, logger)
	if err != nil {
		return CompositionRoot{}, err
	}

	staleOrderMaxAge, err := time.ParseDuration(config.StaleOrderMaxAge)
	if err != nil {
		return CompositionRoot{}, fmt.Errorf("invalid stale order max age %q: %w", config.StaleOrderMaxAge, err)
	}

	return CompositionRoot{
		gormDB:           gormDB,
		uowFactory:       *postgres.NewGormUnitOfWorkFactory(gormDB),
		vouchers:         vouchers,
		shippingCalc:     shipping.NewDefaultCalculator(),
		gateways:         gateways,
		resolver:         resolver,
		dispatcher:       dispatcher,
		logger:           logger,
		staleOrderMaxAge: staleOrderMaxAge,
	}, nil
}

func buildPaymentGateways(config Config) (*payment.Registry, error) {
	sandbox, err := payment.NewSandboxGateway(config.PaymentCheckoutURL, paymentSessionTTL)
	if err != nil {
		return nil, err
	}

	registry := payment.NewRegistry()
	if err := registry.Register(order.CreditCard, sandbox); err != nil {
		return nil, err
	}
	if err := registry.Register(order.EWallet, sandbox); err != nil {
		return nil, err
	}
	return registry, nil
}

func buildPricingResolver() (*pricing.Resolver, error) {
	loyalty, err := pricing.NewLoyaltyStrategy(pricing.DefaultLoyaltyPercents())
	if err != nil {
		return nil, err
	}
	profileMatch, err := pricing.NewProfileMatchStrategy(pricing.DefaultProfileMatchPercent())
	if err != nil {
		return nil, err
	}
	return pricing.NewResolver(loyalty, profileMatch), nil
}

func buildEventDispatcher(config Config, gormDB *gorm.DB, logger *slog.Logger) (*eventbus.Dispatcher, error) {
	registry := eventbus.NewRegistry()

	exporter, err := kafka.NewExporter(kafka.NewWriter(
		strings.Split(config.KafkaHost, ","),
		config.KafkaOrderEventsTopic,
	))
	if err != nil {
		return nil, err
	}

	notifier, err := buildNotificationObserver(gormDB, logger)
	if err != nil {
		return nil, err
	}

	kinds := []order.EventKind{
		order.OrderCreatedKind,
		order.OrderConfirmedKind,
		order.OrderPaidKind,
		order.OrderPaymentFailedKind,
		order.OrderCancelledKind,
	}
	for _, kind := range kinds {
		registry.Subscribe(kind, 10, exporter)
		registry.Subscribe(kind, 20, notifier)
	}

	return eventbus.NewDispatcher(registry, logger)
}

func buildNotificationObserver(gormDB *gorm.DB, logger *slog.Logger) (*notification.Observer, error) {
	senders := notification.NewTierSenderFactory(
		notification.NewLogSender(logger, "email"),
		notification.NewLogSender(logger, "sms"),
	)
	// Repository reads outside a unit of work run directly on the pool.
	orders := postgres.NewGormUnitOfWorkFactory(gormDB).Create().OrderRepository()
	customers := customerrepo.NewGormCustomerRepository(gormDB)
	return notification.NewObserver(orders, customers, senders)
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	products := productrepo.NewGormProductRepository(c.gormDB)
	customers := customerrepo.NewGormCustomerRepository(c.gormDB)

	var builderFactory commands.OrderBuilderFactory = FuncOrderBuilderFactory(func() *services.OrderBuilder {
		// Collaborators are validated at composition time and never nil here.
		builder, _ := services.NewOrderBuilder(products, customers, c.vouchers, c.shippingCalc, c.resolver)
		return builder
	})
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(builderFactory, f, c.vouchers, c.dispatcher)
}

func (c *CompositionRoot) CreateConfirmOrderCommandHandler() commands.ConfirmOrderCommandHandler {
	var f commands.StoreUoWFactory = FuncStoreUoWFactory(func() commands.StoreUoW {
		return c.uowFactory.Create()
	})
	return commands.NewConfirmOrderCommandHandler(f, c.dispatcher)
}

func (c *CompositionRoot) CreatePayOrderCommandHandler() commands.PayOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewPayOrderCommandHandler(f, c.gateways, c.dispatcher)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCancelOrderCommandHandler(f, c.dispatcher)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetCustomerOrdersQueryHandler() queries.GetCustomerOrdersQueryHandler {
	return queries.NewGetCustomerOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateConfirmOrderCommandHandler(),
		c.CreatePayOrderCommandHandler(),
		c.CreateCancelOrderCommandHandler(),
		c.CreateGetOrderQueryHandler(),
		c.CreateGetCustomerOrdersQueryHandler(),
	)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return jobs.NewJobManager(c.CreateCancelOrderCommandHandler(), f, c.staleOrderMaxAge, c.logger)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncStoreUoWFactory func() commands.StoreUoW

func (f FuncStoreUoWFactory) Create() commands.StoreUoW {
	return f()
}

type FuncOrderBuilderFactory func() *services.OrderBuilder

func (f FuncOrderBuilderFactory) Create() *services.OrderBuilder {
	return f()
}
