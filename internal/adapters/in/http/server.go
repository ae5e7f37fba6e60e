// Package http exposes the order use cases over an echo JSON API. Handlers
// deserialize into command constructors and translate application errors to
// status codes; no business rules live here.
package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler  commands.CreateOrderCommandHandler
	confirmOrderHandler commands.ConfirmOrderCommandHandler
	payOrderHandler     commands.PayOrderCommandHandler
	cancelOrderHandler  commands.CancelOrderCommandHandler

	// Query handlers
	getOrderHandler          queries.GetOrderQueryHandler
	getCustomerOrdersHandler queries.GetCustomerOrdersQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	confirmOrderHandler commands.ConfirmOrderCommandHandler,
	payOrderHandler commands.PayOrderCommandHandler,
	cancelOrderHandler commands.CancelOrderCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	getCustomerOrdersHandler queries.GetCustomerOrdersQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:       createOrderHandler,
		confirmOrderHandler:      confirmOrderHandler,
		payOrderHandler:          payOrderHandler,
		cancelOrderHandler:       cancelOrderHandler,
		getOrderHandler:          getOrderHandler,
		getCustomerOrdersHandler: getCustomerOrdersHandler,
	}
}

// RegisterRoutes binds the API routes on the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders", s.CreateOrder)
	api.POST("/orders/:orderId/confirm", s.ConfirmOrder)
	api.POST("/orders/:orderId/pay", s.PayOrder)
	api.POST("/orders/:orderId/cancel", s.CancelOrder)
	api.GET("/orders/:orderId", s.GetOrder)
	api.GET("/customers/:customerId/orders", s.GetCustomerOrders)
}

// ErrorResponse is the JSON error body returned by every handler.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// OrderItemRequest is one cart line in a create request.
type OrderItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// CreateOrderRequest is the body of POST /orders.
type CreateOrderRequest struct {
	CustomerID      string             `json:"customerId"`
	Items           []OrderItemRequest `json:"items"`
	ShippingAddress string             `json:"shippingAddress"`
	ShippingPhone   string             `json:"shippingPhone"`
	ReceiverName    string             `json:"receiverName"`
	PaymentMethod   string             `json:"paymentMethod"`

	VoucherCode     string          `json:"voucherCode,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	GiftWrap        bool            `json:"giftWrap,omitempty"`
	GiftWrapMessage string          `json:"giftWrapMessage,omitempty"`
	GiftWrapFee     decimal.Decimal `json:"giftWrapFee,omitempty"`
	ExpressDelivery bool            `json:"expressDelivery,omitempty"`
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var request CreateOrderRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	customerID, err := kernel.UUIDFromString(request.CustomerID)
	if err != nil {
		return badRequest(ctx, "Invalid customer id: "+err.Error())
	}

	items := make([]commands.CreateOrderItem, 0, len(request.Items))
	for _, item := range request.Items {
		productID, itemErr := kernel.UUIDFromString(item.ProductID)
		if itemErr != nil {
			return badRequest(ctx, "Invalid product id: "+itemErr.Error())
		}
		items = append(items, commands.CreateOrderItem{
			ProductID: productID,
			Quantity:  item.Quantity,
		})
	}

	paymentMethod, err := order.PaymentMethodFromString(request.PaymentMethod)
	if err != nil {
		return badRequest(ctx, "Invalid payment method: "+err.Error())
	}

	cmd, err := commands.NewCreateOrderCommand(
		customerID,
		items,
		request.ShippingAddress,
		request.ShippingPhone,
		request.ReceiverName,
		paymentMethod,
		commands.CreateOrderParams{
			VoucherCode:     request.VoucherCode,
			Notes:           request.Notes,
			GiftWrap:        request.GiftWrap,
			GiftWrapMessage: request.GiftWrapMessage,
			GiftWrapFee:     request.GiftWrapFee,
			ExpressDelivery: request.ExpressDelivery,
		},
	)
	if err != nil {
		return badRequest(ctx, "Invalid order data: "+err.Error())
	}

	result, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return applicationError(ctx, err, "Failed to create order")
	}

	return ctx.JSON(http.StatusCreated, result)
}

// ConfirmOrderRequest is the body of POST /orders/:orderId/confirm.
type ConfirmOrderRequest struct {
	ConfirmerID           string           `json:"confirmerId"`
	ShippingFee           *decimal.Decimal `json:"shippingFee,omitempty"`
	AdminNotes            string           `json:"adminNotes,omitempty"`
	EstimatedDeliveryDate *time.Time       `json:"estimatedDeliveryDate,omitempty"`
}

// ConfirmOrder handles POST /api/v1/orders/:orderId/confirm.
func (s *Server) ConfirmOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	var request ConfirmOrderRequest
	if err = ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	confirmerID, err := kernel.UUIDFromString(request.ConfirmerID)
	if err != nil {
		return badRequest(ctx, "Invalid confirmer id: "+err.Error())
	}

	cmd, err := commands.NewConfirmOrderCommand(
		orderID,
		confirmerID,
		request.ShippingFee,
		request.AdminNotes,
		request.EstimatedDeliveryDate,
	)
	if err != nil {
		return badRequest(ctx, "Invalid confirmation data: "+err.Error())
	}

	result, err := s.confirmOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return applicationError(ctx, err, "Failed to confirm order")
	}

	return ctx.JSON(http.StatusOK, result)
}

// PayOrderRequest is the body of POST /orders/:orderId/pay.
type PayOrderRequest struct {
	PaymentMethod string            `json:"paymentMethod"`
	ReturnURL     string            `json:"returnUrl,omitempty"`
	CancelURL     string            `json:"cancelUrl,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// PayOrder handles POST /api/v1/orders/:orderId/pay.
func (s *Server) PayOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	var request PayOrderRequest
	if err = ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	paymentMethod, err := order.PaymentMethodFromString(request.PaymentMethod)
	if err != nil {
		return badRequest(ctx, "Invalid payment method: "+err.Error())
	}

	cmd, err := commands.NewPayOrderCommand(
		orderID,
		paymentMethod,
		request.ReturnURL,
		request.CancelURL,
		request.Metadata,
	)
	if err != nil {
		return badRequest(ctx, "Invalid payment data: "+err.Error())
	}

	result, err := s.payOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return applicationError(ctx, err, "Failed to pay order")
	}

	return ctx.JSON(http.StatusOK, result)
}

// CancelOrderRequest is the body of POST /orders/:orderId/cancel.
type CancelOrderRequest struct {
	Reason      string `json:"reason"`
	CancellerID string `json:"cancellerId"`
	IsAdmin     bool   `json:"isAdmin,omitempty"`
}

// CancelOrder handles POST /api/v1/orders/:orderId/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	var request CancelOrderRequest
	if err = ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cancellerID, err := kernel.UUIDFromString(request.CancellerID)
	if err != nil {
		return badRequest(ctx, "Invalid canceller id: "+err.Error())
	}

	cmd, err := commands.NewCancelOrderCommand(orderID, request.Reason, cancellerID, request.IsAdmin)
	if err != nil {
		return badRequest(ctx, "Invalid cancellation data: "+err.Error())
	}

	result, err := s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		if errors.Is(err, commands.ErrNotOrderOwner) {
			return ctx.JSON(http.StatusForbidden, ErrorResponse{
				Code:    http.StatusForbidden,
				Message: "Only the order owner or an admin can cancel this order",
			})
		}
		return applicationError(ctx, err, "Failed to cancel order")
	}

	return ctx.JSON(http.StatusOK, result)
}

// GetOrder handles GET /api/v1/orders/:orderId.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return badRequest(ctx, "Invalid query: "+err.Error())
	}

	response, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return applicationError(ctx, err, "Failed to retrieve order")
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetCustomerOrders handles GET /api/v1/customers/:customerId/orders.
func (s *Server) GetCustomerOrders(ctx echo.Context) error {
	customerID, err := kernel.UUIDFromString(ctx.Param("customerId"))
	if err != nil {
		return badRequest(ctx, "Invalid customer id: "+err.Error())
	}

	limit := intQueryParam(ctx, "limit", 0)
	offset := intQueryParam(ctx, "offset", 0)

	query, err := queries.NewGetCustomerOrdersQuery(customerID, limit, offset)
	if err != nil {
		return badRequest(ctx, "Invalid query: "+err.Error())
	}

	response, err := s.getCustomerOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return applicationError(ctx, err, "Failed to retrieve orders")
	}

	return ctx.JSON(http.StatusOK, response)
}

func intQueryParam(ctx echo.Context, name string, fallback int) int {
	raw := ctx.QueryParam(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// applicationError maps handler failures to status codes. Unknown aggregates
// become 404, invalid transitions and values 422, everything else 500.
func applicationError(ctx echo.Context, err error, fallback string) error {
	var notFound *errs.ObjectNotFoundError
	if errors.As(err, &notFound) {
		return ctx.JSON(http.StatusNotFound, ErrorResponse{
			Code:    http.StatusNotFound,
			Message: err.Error(),
		})
	}

	var invalid *errs.ValueIsInvalidError
	if errors.As(err, &invalid) || errors.Is(err, order.ErrNoOrderLines) {
		return ctx.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Code:    http.StatusUnprocessableEntity,
			Message: err.Error(),
		})
	}

	return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
		Code:    http.StatusInternalServerError,
		Message: fallback,
	})
}
