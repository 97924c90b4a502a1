package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/baabuu/storefront/internal/adapter/gateway"
	domainErrors "github.com/baabuu/storefront/internal/domain/errors"
	"github.com/baabuu/storefront/internal/domain/model"
	"github.com/baabuu/storefront/internal/server/http/dto"
	"github.com/baabuu/storefront/internal/server/http/middleware"
	testhelpers "github.com/baabuu/storefront/internal/test"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(t *testing.T, method, route, path string, handler gin.HandlerFunc, setup func(*gin.Context), body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.Handle(method, route, func(c *gin.Context) {
		if setup != nil {
			setup(c)
		}
		handler(c)
	})

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func asUser(id int64) func(*gin.Context) {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDContextKey, id)
	}
}

func TestCurrentUserID(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := CurrentUserID(c); got != 0 {
		t.Fatalf("expected 0 when not set, got %d", got)
	}

	c.Set(middleware.UserIDContextKey, int64(42))
	if got := CurrentUserID(c); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
}

func TestCartHandlerAdd(t *testing.T) {
	body, _ := json.Marshal(dto.AddCartItemRequest{ProductID: 7, Size: "M", Color: "black", Quantity: 2})
	handler := NewCartHandler(testhelpers.StorefrontFacadeStub{CartFacadeStub: testhelpers.CartFacadeStub{
		AddFn: func(ctx context.Context, userID int64, variant model.VariantKey, qty int64) (*model.CartItem, error) {
			if userID != 42 {
				t.Fatalf("unexpected user %d", userID)
			}
			if variant.ProductID != 7 || variant.Size != "M" || variant.Color != "black" || qty != 2 {
				t.Fatalf("unexpected line passed to facade: %+v x%d", variant, qty)
			}
			return &model.CartItem{ID: 3, UserID: userID, Variant: variant, Quantity: qty, UnitPrice: model.NewMoney(45000, model.CurrencyINR)}, nil
		},
	}})
	resp := performRequest(t, http.MethodPost, "/cart", "/cart", handler.Add, asUser(42), body, map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}

	var item dto.CartItemResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &item); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if item.ID != 3 || item.UnitPrice != "450.00" || item.LineTotal != "900.00" {
		t.Fatalf("unexpected response %+v", item)
	}
}

func TestCartHandlerAddFailures(t *testing.T) {
	tests := []struct {
		name   string
		body   []byte
		facade testhelpers.CartFacadeStub
		status int
	}{
		{name: "bad json", body: []byte("not json"), status: http.StatusBadRequest},
		{name: "missing quantity", body: []byte(`{"product_id":7,"size":"M","color":"black"}`), status: http.StatusBadRequest},
		{name: "invalid quantity", body: []byte(`{"product_id":7,"size":"M","color":"black","quantity":-1}`), facade: testhelpers.CartFacadeStub{AddFn: func(context.Context, int64, model.VariantKey, int64) (*model.CartItem, error) {
			return nil, domainErrors.ErrInvalidQuantity
		}}, status: http.StatusBadRequest},
		{name: "unknown variant", body: []byte(`{"product_id":99,"size":"M","color":"black","quantity":1}`), facade: testhelpers.CartFacadeStub{AddFn: func(context.Context, int64, model.VariantKey, int64) (*model.CartItem, error) {
			return nil, domainErrors.ErrUnknownVariant
		}}, status: http.StatusNotFound},
		{name: "internal", body: []byte(`{"product_id":7,"size":"M","color":"black","quantity":1}`), facade: testhelpers.CartFacadeStub{AddFn: func(context.Context, int64, model.VariantKey, int64) (*model.CartItem, error) {
			return nil, errors.New("boom")
		}}, status: http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewCartHandler(tc.facade)
			resp := performRequest(t, http.MethodPost, "/cart", "/cart", handler.Add, asUser(1), tc.body, map[string]string{"Content-Type": "application/json"})
			if resp.Code != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, resp.Code)
			}
		})
	}
}

func TestCartHandlerUpdate(t *testing.T) {
	body := []byte(`{"quantity":3,"size":"L","color":"white"}`)
	handler := NewCartHandler(testhelpers.CartFacadeStub{UpdateFn: func(ctx context.Context, userID, itemID, qty int64, size, color string) error {
		if userID != 1 || itemID != 5 || qty != 3 || size != "L" || color != "white" {
			t.Fatalf("unexpected update call: user=%d item=%d qty=%d %s/%s", userID, itemID, qty, size, color)
		}
		return nil
	}})
	resp := performRequest(t, http.MethodPatch, "/cart/:id", "/cart/5", handler.Update, asUser(1), body, map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
}

func TestCartHandlerUpdateFailures(t *testing.T) {
	body := []byte(`{"quantity":3,"size":"L","color":"white"}`)
	tests := []struct {
		name   string
		path   string
		err    error
		status int
	}{
		{name: "bad id", path: "/cart/abc", status: http.StatusBadRequest},
		{name: "not owned", path: "/cart/5", err: domainErrors.ErrNotFound, status: http.StatusNotFound},
		{name: "internal", path: "/cart/5", err: errors.New("boom"), status: http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewCartHandler(testhelpers.CartFacadeStub{UpdateFn: func(context.Context, int64, int64, int64, string, string) error {
				return tc.err
			}})
			resp := performRequest(t, http.MethodPatch, "/cart/:id", tc.path, handler.Update, asUser(1), body, map[string]string{"Content-Type": "application/json"})
			if resp.Code != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, resp.Code)
			}
		})
	}
}

func TestCartHandlerRemove(t *testing.T) {
	handler := NewCartHandler(testhelpers.CartFacadeStub{})
	resp := performRequest(t, http.MethodDelete, "/cart/:id", "/cart/5", handler.Remove, asUser(1), nil, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", resp.Code)
	}

	handler = NewCartHandler(testhelpers.CartFacadeStub{RemoveFn: func(context.Context, int64, int64) error {
		return domainErrors.ErrNotFound
	}})
	resp = performRequest(t, http.MethodDelete, "/cart/:id", "/cart/5", handler.Remove, asUser(1), nil, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

func TestCartHandlerList(t *testing.T) {
	handler := NewCartHandler(testhelpers.CartFacadeStub{CartFn: func(ctx context.Context, userID int64, currency string) (*model.CartSummary, error) {
		if currency != "USD" {
			t.Fatalf("expected currency query to reach facade, got %q", currency)
		}
		return testhelpers.CartFacadeStub{}.Cart(ctx, userID, currency)
	}})
	resp := performRequest(t, http.MethodGet, "/cart", "/cart?currency=USD", handler.List, asUser(1), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	var cart dto.CartResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &cart); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if cart.ItemCount != 2 || cart.Total != "950.00" || cart.Currency != model.CurrencyINR {
		t.Fatalf("unexpected cart %+v", cart)
	}
}

func TestCheckoutHandlerPlace(t *testing.T) {
	body, _ := json.Marshal(dto.PlaceOrderRequest{PaymentMethod: "qr"})
	handler := NewCheckoutHandler(testhelpers.CheckoutFacadeStub{PlaceFn: func(ctx context.Context, userID int64, method model.PaymentMethod) (*model.Order, error) {
		if method != model.PaymentMethodQR {
			t.Fatalf("unexpected method %q", method)
		}
		return testhelpers.CheckoutFacadeStub{}.PlaceOrder(ctx, userID, method)
	}})
	resp := performRequest(t, http.MethodPost, "/checkout/place", "/checkout/place", handler.Place, asUser(1), body, map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}

	var order dto.OrderResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &order); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if order.OrderID != "ORD-1" || order.Status != "PENDING" || order.Total != "950.00" {
		t.Fatalf("unexpected order %+v", order)
	}
}

func TestCheckoutHandlerInsufficientStock(t *testing.T) {
	body, _ := json.Marshal(dto.PlaceOrderRequest{PaymentMethod: "cod"})
	handler := NewCheckoutHandler(testhelpers.CheckoutFacadeStub{PlaceFn: func(context.Context, int64, model.PaymentMethod) (*model.Order, error) {
		return nil, domainErrors.InsufficientStockError{
			Variant:   model.VariantKey{ProductID: 7, Size: "M", Color: "black"},
			Requested: 5,
			Available: 2,
		}
	}})
	resp := performRequest(t, http.MethodPost, "/checkout/place", "/checkout/place", handler.Place, asUser(1), body, map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", resp.Code)
	}

	var detail dto.InsufficientStockResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &detail); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if detail.ProductID != 7 || detail.Size != "M" || detail.Requested != 5 || detail.Available != 2 {
		t.Fatalf("expected short variant in body, got %+v", detail)
	}
}

func TestCheckoutHandlerFailures(t *testing.T) {
	tests := []struct {
		name   string
		body   []byte
		err    error
		status int
	}{
		{name: "bad json", body: []byte("not json"), status: http.StatusBadRequest},
		{name: "unknown method", body: []byte(`{"payment_method":"cheque"}`), status: http.StatusBadRequest},
		{name: "empty cart", body: []byte(`{"payment_method":"qr"}`), err: domainErrors.ErrEmptyCart, status: http.StatusBadRequest},
		{name: "missing address", body: []byte(`{"payment_method":"qr"}`), err: domainErrors.ErrMissingAddress, status: http.StatusUnprocessableEntity},
		{name: "internal", body: []byte(`{"payment_method":"qr"}`), err: errors.New("boom"), status: http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewCheckoutHandler(testhelpers.CheckoutFacadeStub{PlaceFn: func(context.Context, int64, model.PaymentMethod) (*model.Order, error) {
				return nil, tc.err
			}})
			resp := performRequest(t, http.MethodPost, "/checkout/place", "/checkout/place", handler.Place, asUser(1), tc.body, map[string]string{"Content-Type": "application/json"})
			if resp.Code != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, resp.Code)
			}
		})
	}
}

func TestOrderHandlerList(t *testing.T) {
	handler := NewOrderHandler(testhelpers.OrderFacadeStub{})
	resp := performRequest(t, http.MethodGet, "/orders", "/orders", handler.List, asUser(1), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	var orders []dto.OrderResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &orders); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(orders) != 1 || orders[0].OrderID != "ORD-1" {
		t.Fatalf("unexpected orders %+v", orders)
	}
}

func TestOrderHandlerListEmpty(t *testing.T) {
	handler := NewOrderHandler(testhelpers.OrderFacadeStub{OrdersFn: func(context.Context, int64) ([]model.Order, error) {
		return nil, nil
	}})
	resp := performRequest(t, http.MethodGet, "/orders", "/orders", handler.List, asUser(1), nil, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", resp.Code)
	}
}

func TestOrderHandlerGet(t *testing.T) {
	handler := NewOrderHandler(testhelpers.OrderFacadeStub{})
	resp := performRequest(t, http.MethodGet, "/order/:order_id", "/order/ORD-1", handler.Get, asUser(1), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	var detail dto.OrderDetailResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &detail); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if detail.OrderID != "ORD-1" || len(detail.Lines) != 1 || detail.Lines[0].LineTotal != "900.00" {
		t.Fatalf("unexpected detail %+v", detail)
	}
}

func TestOrderHandlerGetNotFound(t *testing.T) {
	handler := NewOrderHandler(testhelpers.OrderFacadeStub{OrderFn: func(context.Context, int64, string) (*model.Order, []model.OrderLine, error) {
		return nil, nil, domainErrors.ErrOrderNotFound
	}})
	resp := performRequest(t, http.MethodGet, "/order/:order_id", "/order/ORD-404", handler.Get, asUser(1), nil, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

func TestOrderHandlerTransitions(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "ok", status: http.StatusOK},
		{name: "not found", err: domainErrors.ErrOrderNotFound, status: http.StatusNotFound},
		{name: "not eligible", err: domainErrors.ErrNotEligible, status: http.StatusConflict},
		{name: "internal", err: errors.New("boom"), status: http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run("cancel "+tc.name, func(t *testing.T) {
			handler := NewOrderHandler(testhelpers.OrderFacadeStub{CancelFn: func(context.Context, int64, string) error {
				return tc.err
			}})
			resp := performRequest(t, http.MethodPost, "/order/:order_id/cancel", "/order/ORD-1/cancel", handler.Cancel, asUser(1), nil, nil)
			if resp.Code != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, resp.Code)
			}
		})
		t.Run("return "+tc.name, func(t *testing.T) {
			handler := NewOrderHandler(testhelpers.OrderFacadeStub{ReturnFn: func(context.Context, int64, string) error {
				return tc.err
			}})
			resp := performRequest(t, http.MethodPost, "/order/:order_id/return", "/order/ORD-1/return", handler.Return, asUser(1), nil, nil)
			if resp.Code != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, resp.Code)
			}
		})
	}
}

func TestPaymentHandlerInitiate(t *testing.T) {
	body := []byte(`{"order_id":"ORD-1"}`)
	handler := NewPaymentHandler(testhelpers.PaymentFacadeStub{InitiateFn: func(ctx context.Context, userID int64, orderID string, method model.PaymentMethod) (*gateway.Session, error) {
		if orderID != "ORD-1" || method != model.PaymentMethodWallet {
			t.Fatalf("unexpected initiation: %q via %q", orderID, method)
		}
		return &gateway.Session{TransactionID: "txn-9", RedirectURL: "https://wallet.example/txn-9", Fields: map[string]string{"pidx": "w-1"}}, nil
	}})
	resp := performRequest(t, http.MethodPost, "/payment/:method/initiate", "/payment/wallet/initiate", handler.Initiate, asUser(1), body, map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}

	var session dto.PaymentSessionResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &session); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if session.TransactionID != "txn-9" || session.Fields["pidx"] != "w-1" {
		t.Fatalf("unexpected session %+v", session)
	}
}

func TestPaymentHandlerInitiateFailures(t *testing.T) {
	body := []byte(`{"order_id":"ORD-1"}`)
	tests := []struct {
		name   string
		path   string
		body   []byte
		err    error
		status int
	}{
		{name: "unknown method", path: "/payment/cheque/initiate", body: body, status: http.StatusNotFound},
		{name: "bad json", path: "/payment/qr/initiate", body: []byte("not json"), status: http.StatusBadRequest},
		{name: "order not found", path: "/payment/qr/initiate", body: body, err: domainErrors.ErrOrderNotFound, status: http.StatusNotFound},
		{name: "not pending", path: "/payment/qr/initiate", body: body, err: domainErrors.ErrNotEligible, status: http.StatusConflict},
		{name: "unconfigured method", path: "/payment/card/initiate", body: body, err: domainErrors.ErrUnsupportedMethod, status: http.StatusNotFound},
		{name: "gateway down", path: "/payment/qr/initiate", body: body, err: domainErrors.ErrGatewayUnavailable, status: http.StatusBadGateway},
		{name: "internal", path: "/payment/qr/initiate", body: body, err: errors.New("boom"), status: http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewPaymentHandler(testhelpers.PaymentFacadeStub{InitiateFn: func(context.Context, int64, string, model.PaymentMethod) (*gateway.Session, error) {
				return nil, tc.err
			}})
			resp := performRequest(t, http.MethodPost, "/payment/:method/initiate", tc.path, handler.Initiate, asUser(1), tc.body, map[string]string{"Content-Type": "application/json"})
			if resp.Code != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, resp.Code)
			}
		})
	}
}

func TestPaymentHandlerCallbackMergesQueryAndForm(t *testing.T) {
	form := "transaction_id=txn-9&signature=abc"
	handler := NewPaymentHandler(testhelpers.PaymentFacadeStub{CallbackFn: func(ctx context.Context, method model.PaymentMethod, cb gateway.Callback) (*model.Order, error) {
		if method != model.PaymentMethodQR {
			t.Fatalf("unexpected method %q", method)
		}
		if cb.Params["transaction_id"] != "txn-9" || cb.Params["signature"] != "abc" || cb.Params["source"] != "redirect" {
			t.Fatalf("expected merged params, got %+v", cb.Params)
		}
		if !strings.Contains(string(cb.Body), "transaction_id") {
			t.Fatalf("expected raw body to be preserved, got %q", cb.Body)
		}
		return &model.Order{ExternalID: "ORD-1", Status: model.OrderStatusPaid}, nil
	}})
	resp := performRequest(t, http.MethodPost, "/payment/:method/callback", "/payment/qr/callback?source=redirect", handler.Callback, nil, []byte(form), map[string]string{"Content-Type": "application/x-www-form-urlencoded"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	var result dto.PaymentResultResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.OrderID != "ORD-1" || result.Status != "PAID" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestPaymentHandlerDuplicateCallbackStaysOK(t *testing.T) {
	calls := 0
	handler := NewPaymentHandler(testhelpers.PaymentFacadeStub{CallbackFn: func(context.Context, model.PaymentMethod, gateway.Callback) (*model.Order, error) {
		calls++
		return &model.Order{ExternalID: "ORD-1", Status: model.OrderStatusPaid}, nil
	}})
	for i := 0; i < 2; i++ {
		resp := performRequest(t, http.MethodGet, "/payment/:method/callback", "/payment/qr/callback?transaction_id=txn-9", handler.Callback, nil, nil, nil)
		if resp.Code != http.StatusOK {
			t.Fatalf("replay %d: expected status 200, got %d", i, resp.Code)
		}
	}
	if calls != 2 {
		t.Fatalf("expected facade to see both deliveries, got %d", calls)
	}
}

func TestPaymentHandlerCallbackFailures(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		err    error
		status int
	}{
		{name: "unknown method", path: "/payment/cheque/callback", status: http.StatusNotFound},
		{name: "bad signature", path: "/payment/qr/callback", err: domainErrors.ErrSignatureInvalid, status: http.StatusUnprocessableEntity},
		{name: "declined", path: "/payment/wallet/callback", err: domainErrors.ErrPaymentDeclined, status: http.StatusUnprocessableEntity},
		{name: "amount mismatch", path: "/payment/qr/callback", err: domainErrors.AmountMismatchError{Expected: 140000, Got: 100}, status: http.StatusUnprocessableEntity},
		{name: "gateway down", path: "/payment/card/callback", err: domainErrors.ErrGatewayUnavailable, status: http.StatusBadGateway},
		{name: "internal", path: "/payment/qr/callback", err: errors.New("boom"), status: http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewPaymentHandler(testhelpers.PaymentFacadeStub{CallbackFn: func(context.Context, model.PaymentMethod, gateway.Callback) (*model.Order, error) {
				return nil, tc.err
			}})
			resp := performRequest(t, http.MethodPost, "/payment/:method/callback", tc.path, handler.Callback, nil, nil, nil)
			if resp.Code != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, resp.Code)
			}
		})
	}
}
