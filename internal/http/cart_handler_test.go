package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/saksham2694/drone-meds-express/internal/catalog"
	"github.com/saksham2694/drone-meds-express/internal/domain"
)

// --- Mocks ---

type cartServiceMock struct {
	cart *domain.Cart
	err  error

	addedProduct    *domain.Product
	updatedQuantity int
	removedProduct  int64
	cleared         bool
}

func (m *cartServiceMock) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.cart, nil
}

func (m *cartServiceMock) AddItem(ctx context.Context, userID string, product *domain.Product) error {
	if m.err != nil {
		return m.err
	}
	m.addedProduct = product
	return nil
}

func (m *cartServiceMock) UpdateQuantity(ctx context.Context, userID string, productID int64, quantity int) error {
	if m.err != nil {
		return m.err
	}
	m.updatedQuantity = quantity
	return nil
}

func (m *cartServiceMock) RemoveItem(ctx context.Context, userID string, productID int64) error {
	if m.err != nil {
		return m.err
	}
	m.removedProduct = productID
	return nil
}

func (m *cartServiceMock) ClearCart(ctx context.Context, userID string) error {
	if m.err != nil {
		return m.err
	}
	m.cleared = true
	return nil
}

type catalogServiceMock struct {
	products   []*domain.Product
	categories []string
	err        error
}

func (m *catalogServiceMock) GetAllProducts(ctx context.Context) ([]*domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.products, nil
}

func (m *catalogServiceMock) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, p := range m.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, catalog.ErrProductNotFound
}

func (m *catalogServiceMock) GetProductsByCategory(ctx context.Context, category string) ([]*domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*domain.Product
	for _, p := range m.products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *catalogServiceMock) GetCategories(ctx context.Context) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.categories, nil
}

// --- helpers ---

func withUser(r *http.Request) *http.Request {
	ctx := context.WithValue(r.Context(), "user_id", "session-abc")
	return r.WithContext(ctx)
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func testCart() *domain.Cart {
	return &domain.Cart{
		UserID: "session-abc",
		Items: []domain.CartItem{
			{ProductID: 1, ProductName: "Paracetamol 500mg", Price: 5.99, Quantity: 2},
			{ProductID: 3, ProductName: "Ibuprofen 200mg", Price: 7.49, Quantity: 1},
		},
	}
}

// --- GetCart tests ---

func TestGetCart_Success(t *testing.T) {
	cartMock := &cartServiceMock{cart: testCart()}
	handler := NewCartHandler(cartMock, &catalogServiceMock{}, 5*time.Second)

	recorder := httptest.NewRecorder()
	request := withUser(httptest.NewRequest("GET", "/api/v1/cart", nil))

	handler.GetCart(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d", http.StatusOK, recorder.Code)
	}

	var response CartResponseDTO
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(response.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(response.Items))
	}
	if response.TotalItems != 3 {
		t.Errorf("expected total_items 3, got %d", response.TotalItems)
	}
	want := 5.99*2 + 7.49
	if response.TotalPrice != want {
		t.Errorf("expected total_price %f, got %f", want, response.TotalPrice)
	}
}

func TestGetCart_Unauthenticated(t *testing.T) {
	handler := NewCartHandler(&cartServiceMock{}, &catalogServiceMock{}, 5*time.Second)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/api/v1/cart", nil)

	handler.GetCart(recorder, request)

	if recorder.Code != http.StatusUnauthorized {
		t.Errorf("expected %d, got %d", http.StatusUnauthorized, recorder.Code)
	}
}

// --- AddItem tests ---

func TestAddItem_Success(t *testing.T) {
	product := &domain.Product{ID: 1, Name: "Paracetamol 500mg", Price: 5.99, Category: "Pain Relief"}
	cartMock := &cartServiceMock{cart: testCart()}
	handler := NewCartHandler(cartMock, &catalogServiceMock{products: []*domain.Product{product}}, 5*time.Second)

	body, _ := json.Marshal(AddItemRequestDTO{ProductID: 1})
	recorder := httptest.NewRecorder()
	request := withUser(httptest.NewRequest("POST", "/api/v1/cart/items", bytes.NewReader(body)))

	handler.AddItem(recorder, request)

	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected %d, got %d: %s", http.StatusCreated, recorder.Code, recorder.Body.String())
	}
	if cartMock.addedProduct == nil || cartMock.addedProduct.ID != 1 {
		t.Errorf("expected product 1 added to cart, got %+v", cartMock.addedProduct)
	}
}

func TestAddItem_UnknownProduct(t *testing.T) {
	handler := NewCartHandler(&cartServiceMock{cart: testCart()}, &catalogServiceMock{}, 5*time.Second)

	body, _ := json.Marshal(AddItemRequestDTO{ProductID: 99})
	recorder := httptest.NewRecorder()
	request := withUser(httptest.NewRequest("POST", "/api/v1/cart/items", bytes.NewReader(body)))

	handler.AddItem(recorder, request)

	if recorder.Code != http.StatusNotFound {
		t.Errorf("expected %d, got %d", http.StatusNotFound, recorder.Code)
	}
}

func TestAddItem_InvalidBody(t *testing.T) {
	handler := NewCartHandler(&cartServiceMock{}, &catalogServiceMock{}, 5*time.Second)

	recorder := httptest.NewRecorder()
	request := withUser(httptest.NewRequest("POST", "/api/v1/cart/items", bytes.NewReader([]byte("{not json"))))

	handler.AddItem(recorder, request)

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("expected %d, got %d", http.StatusBadRequest, recorder.Code)
	}
}

// --- UpdateQuantity tests ---

func TestUpdateQuantity_Success(t *testing.T) {
	cartMock := &cartServiceMock{cart: testCart()}
	handler := NewCartHandler(cartMock, &catalogServiceMock{}, 5*time.Second)

	body, _ := json.Marshal(UpdateQuantityRequestDTO{Quantity: 5})
	recorder := httptest.NewRecorder()
	request := withUser(withURLParam(
		httptest.NewRequest("PUT", "/api/v1/cart/items/1", bytes.NewReader(body)), "product_id", "1"))

	handler.UpdateQuantity(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d", http.StatusOK, recorder.Code)
	}
	if cartMock.updatedQuantity != 5 {
		t.Errorf("expected quantity 5 forwarded, got %d", cartMock.updatedQuantity)
	}
}

func TestUpdateQuantity_InvalidProductID(t *testing.T) {
	handler := NewCartHandler(&cartServiceMock{}, &catalogServiceMock{}, 5*time.Second)

	body, _ := json.Marshal(UpdateQuantityRequestDTO{Quantity: 5})
	recorder := httptest.NewRecorder()
	request := withUser(withURLParam(
		httptest.NewRequest("PUT", "/api/v1/cart/items/abc", bytes.NewReader(body)), "product_id", "abc"))

	handler.UpdateQuantity(recorder, request)

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("expected %d, got %d", http.StatusBadRequest, recorder.Code)
	}
}

// --- RemoveItem / ClearCart tests ---

func TestRemoveItem_Success(t *testing.T) {
	cartMock := &cartServiceMock{cart: testCart()}
	handler := NewCartHandler(cartMock, &catalogServiceMock{}, 5*time.Second)

	recorder := httptest.NewRecorder()
	request := withUser(withURLParam(
		httptest.NewRequest("DELETE", "/api/v1/cart/items/3", nil), "product_id", "3"))

	handler.RemoveItem(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d", http.StatusOK, recorder.Code)
	}
	if cartMock.removedProduct != 3 {
		t.Errorf("expected product 3 removed, got %d", cartMock.removedProduct)
	}
}

func TestClearCart_Success(t *testing.T) {
	cartMock := &cartServiceMock{cart: &domain.Cart{UserID: "session-abc"}}
	handler := NewCartHandler(cartMock, &catalogServiceMock{}, 5*time.Second)

	recorder := httptest.NewRecorder()
	request := withUser(httptest.NewRequest("DELETE", "/api/v1/cart", nil))

	handler.ClearCart(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d", http.StatusOK, recorder.Code)
	}
	if !cartMock.cleared {
		t.Error("expected cart to be cleared")
	}

	var response CartResponseDTO
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response.Items) != 0 {
		t.Errorf("expected empty cart, got %d items", len(response.Items))
	}
}
