package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shoppyglobe/internal/catalog"
	"shoppyglobe/internal/domain"
	"shoppyglobe/internal/service"
	"shoppyglobe/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	router  chi.Router
	cart    *store.CartStore
	search  *store.SearchStore
	catalog *httptest.Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	products := []domain.Product{
		{ID: 1, Title: "iPhone 14", Category: "smartphones", Price: 899, Thumbnail: "i.jpg", Images: []string{"i1.jpg", "i2.jpg"}},
		{ID: 2, Title: "Kettle", Category: "kitchen", Price: 35, Thumbnail: "k.jpg", Images: []string{"k1.jpg"}},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(domain.ProductPage{Products: products})
	})
	for i := range products {
		p := products[i]
		mux.HandleFunc(fmt.Sprintf("/products/%d", p.ID), func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(p)
		})
	}
	mux.HandleFunc("/products/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cart := store.NewCartStore()
	search := store.NewSearchStore()
	client := catalog.NewClient(srv.URL, 100, 5*time.Second)
	checkout := service.NewCheckoutService(cart)

	handler := NewStorefrontHandler(client, cart, search, checkout, zap.NewNop())
	router := chi.NewRouter()
	handler.RegisterRoutes(router)

	return &fixture{router: router, cart: cart, search: search, catalog: srv}
}

func (f *fixture) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestListProducts(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp ProductListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Products, 2)
	assert.Equal(t, "", resp.Query)
}

func TestListProductsAppliesSearchQuery(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPut, "/api/search", SearchRequest{Query: "phone"})
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp ProductListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Products, 1)
	assert.Equal(t, "iPhone 14", resp.Products[0].Title)
	assert.Equal(t, "phone", resp.Query)
}

func TestListProductsCatalogDown(t *testing.T) {
	f := newFixture(t)
	f.catalog.Close()

	w := f.do(t, http.MethodGet, "/api/products", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestGetProductDetail(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/api/products/1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp ProductDetailResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Product)
	assert.Equal(t, 1, resp.Product.ID)
	assert.Equal(t, "i1.jpg", resp.ActiveImage)
}

func TestGetProductDetailNotFound(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/api/products/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetProductDetailBadID(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/api/products/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddItemToCart(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/api/cart/items", AddItemRequest{ID: 1})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp CartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, 1, resp.Lines[0].Quantity)
	assert.Equal(t, 899.0, resp.Subtotal)
	assert.Equal(t, 15.0, resp.Shipping)
	assert.Equal(t, 914.0, resp.Total)
}

func TestAddItemTwiceIncrementsQuantity(t *testing.T) {
	f := newFixture(t)

	f.do(t, http.MethodPost, "/api/cart/items", AddItemRequest{ID: 1})
	w := f.do(t, http.MethodPost, "/api/cart/items", AddItemRequest{ID: 1})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp CartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, 2, resp.Lines[0].Quantity)
	assert.Equal(t, 2, resp.ItemCount)
}

func TestAddItemUnknownProduct(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/api/cart/items", AddItemRequest{ID: 999})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, f.cart.Lines())
}

func TestUpdateItemQuantity(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodPost, "/api/cart/items", AddItemRequest{ID: 1})

	w := f.do(t, http.MethodPatch, "/api/cart/items/1", UpdateItemRequest{Quantity: 5})
	require.Equal(t, http.StatusOK, w.Code)

	var resp CartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 5, resp.Lines[0].Quantity)
}

func TestUpdateItemRejectsNonPositiveQuantity(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodPost, "/api/cart/items", AddItemRequest{ID: 1})

	for _, qty := range []int{0, -1} {
		w := f.do(t, http.MethodPatch, "/api/cart/items/1", map[string]int{"quantity": qty})
		assert.Equal(t, http.StatusBadRequest, w.Code, "quantity %d", qty)
	}

	// The line keeps its prior quantity.
	assert.Equal(t, 1, f.cart.Lines()[0].Quantity)
}

func TestRemoveItemIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodPost, "/api/cart/items", AddItemRequest{ID: 1})

	w := f.do(t, http.MethodDelete, "/api/cart/items/1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(t, http.MethodDelete, "/api/cart/items/1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, f.cart.Lines())
}

func TestClearCartEndpoint(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodPost, "/api/cart/items", AddItemRequest{ID: 1})
	f.do(t, http.MethodPost, "/api/cart/items", AddItemRequest{ID: 2})

	w := f.do(t, http.MethodDelete, "/api/cart", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(t, http.MethodGet, "/api/cart", nil)
	var resp CartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Lines)
	assert.Zero(t, resp.Subtotal)
	assert.Zero(t, resp.Shipping)
	assert.Zero(t, resp.Total)
}

func TestCheckoutSuccessClearsCart(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodPost, "/api/cart/items", AddItemRequest{ID: 1})

	form := service.ShippingForm{
		FullName: "Jordan Doe",
		Email:    "jordan@example.com",
		Address:  "123 Main St",
	}
	w := f.do(t, http.MethodPost, "/api/checkout", form)
	require.Equal(t, http.StatusCreated, w.Code)

	var conf service.OrderConfirmation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &conf))
	assert.NotEmpty(t, conf.OrderID)
	assert.Equal(t, 914.0, conf.Total)

	assert.Empty(t, f.cart.Lines())
}

func TestCheckoutValidationFailureKeepsCart(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodPost, "/api/cart/items", AddItemRequest{ID: 1})

	form := service.ShippingForm{Email: "jordan@example.com"}
	w := f.do(t, http.MethodPost, "/api/checkout", form)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Len(t, f.cart.Lines(), 1)
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newFixture(t)

	form := service.ShippingForm{
		FullName: "Jordan Doe",
		Email:    "jordan@example.com",
		Address:  "123 Main St",
	}
	w := f.do(t, http.MethodPost, "/api/checkout", form)
	assert.Equal(t, http.StatusConflict, w.Code)
}
