package transport

import (
	"errors"
	"net/http"
	"strconv"

	"shoppyglobe/internal/catalog"
	"shoppyglobe/internal/domain"
	"shoppyglobe/internal/middleware"
	"shoppyglobe/internal/service"
	"shoppyglobe/internal/store"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SearchRequest sets the catalog search query.
type SearchRequest struct {
	Query string `json:"query"`
}

// AddItemRequest adds a product to the cart by catalog id.
type AddItemRequest struct {
	ID int `json:"id" validate:"required,gt=0"`
}

// UpdateItemRequest sets a cart line's quantity.
type UpdateItemRequest struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}

// ProductListResponse is the filtered catalog view.
type ProductListResponse struct {
	Products []domain.Product `json:"products"`
	Query    string           `json:"query"`
	Total    int              `json:"total"`
}

// ProductDetailResponse is a single product with its active display image.
type ProductDetailResponse struct {
	Product     *domain.Product `json:"product"`
	ActiveImage string          `json:"active_image"`
}

// CartResponse is the cart with its derived totals, recomputed on every read.
type CartResponse struct {
	Lines     []domain.CartLine `json:"lines"`
	ItemCount int               `json:"item_count"`
	Subtotal  float64           `json:"subtotal"`
	Shipping  float64           `json:"shipping"`
	Total     float64           `json:"total"`
}

// StorefrontHandler exposes the storefront state core over HTTP: the catalog
// views, the cart and search stores, and the checkout flow.
type StorefrontHandler struct {
	catalogClient *catalog.Client
	cart          *store.CartStore
	search        *store.SearchStore
	checkout      service.CheckoutService
	logger        *zap.Logger
}

// NewStorefrontHandler creates a new StorefrontHandler.
func NewStorefrontHandler(
	catalogClient *catalog.Client,
	cart *store.CartStore,
	search *store.SearchStore,
	checkout service.CheckoutService,
	logger *zap.Logger,
) *StorefrontHandler {
	return &StorefrontHandler{
		catalogClient: catalogClient,
		cart:          cart,
		search:        search,
		checkout:      checkout,
		logger:        logger,
	}
}

// RegisterRoutes registers all storefront routes.
func (h *StorefrontHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.ListProducts)
		r.Get("/products/{id}", h.GetProduct)
		r.Put("/search", h.SetSearchQuery)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.GetCart)
			r.Delete("/", h.ClearCart)
			r.Post("/items", h.AddItem)
			r.Patch("/items/{id}", h.UpdateItem)
			r.Delete("/items/{id}", h.RemoveItem)
		})

		r.Post("/checkout", h.Checkout)
	})
}

// ListProducts fetches the catalog and applies the current search query.
// Every request re-fetches; there is no caching layer.
func (h *StorefrontHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	query := catalog.NewListQuery(h.catalogClient)
	query.Start(r.Context())

	state, err := query.Wait(r.Context())
	if err != nil {
		query.Cancel()
		middleware.RespondWithError(w, http.StatusGatewayTimeout, "catalog fetch cancelled")
		return
	}
	if state.Status != catalog.StatusSuccess {
		h.logger.Error("Catalog list fetch failed", zap.String("error", state.Err))
		middleware.RespondWithError(w, http.StatusBadGateway, state.Err)
		return
	}

	q := h.search.Query()
	filtered := domain.FilterProducts(state.Products, q)

	middleware.RespondWithJSON(w, http.StatusOK, ProductListResponse{
		Products: filtered,
		Query:    q,
		Total:    len(filtered),
	})
}

// GetProduct fetches one product's detail view.
func (h *StorefrontHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	query := catalog.NewDetailQuery(h.catalogClient)
	query.Load(r.Context(), id)

	state, err := query.Wait(r.Context())
	if err != nil {
		query.Cancel()
		middleware.RespondWithError(w, http.StatusGatewayTimeout, "catalog fetch cancelled")
		return
	}
	if state.Status != catalog.StatusSuccess {
		status := http.StatusBadGateway
		if state.Err == catalog.ErrNotFound.Error() {
			status = http.StatusNotFound
		}
		h.logger.Debug("Product detail fetch failed",
			zap.Int("id", id),
			zap.String("error", state.Err),
		)
		middleware.RespondWithError(w, status, state.Err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, ProductDetailResponse{
		Product:     state.Product,
		ActiveImage: state.ActiveImage,
	})
}

// SetSearchQuery replaces the process-wide search query verbatim.
func (h *StorefrontHandler) SetSearchQuery(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.search.SetQuery(req.Query)
	middleware.RespondWithJSON(w, http.StatusOK, SearchRequest{Query: h.search.Query()})
}

// GetCart returns the cart lines and derived totals.
func (h *StorefrontHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, h.cartResponse())
}

// AddItem fetches the product from the catalog and adds it to the cart.
// Adding the same product again increments its line quantity.
func (h *StorefrontHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.catalogClient.Get(r.Context(), req.ID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to fetch product for cart add",
			zap.Int("id", req.ID),
			zap.Error(err),
		)
		middleware.RespondWithError(w, http.StatusBadGateway, "failed to fetch product")
		return
	}

	h.cart.AddToCart(*product)
	middleware.RespondWithJSON(w, http.StatusCreated, h.cartResponse())
}

// UpdateItem sets a line's quantity. Quantities below 1 are rejected at the
// boundary; the store itself also refuses them.
func (h *StorefrontHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req UpdateItemRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.cart.UpdateQuantity(id, req.Quantity)
	middleware.RespondWithJSON(w, http.StatusOK, h.cartResponse())
}

// RemoveItem deletes a cart line. Removing an absent line is a no-op, so the
// operation is idempotent.
func (h *StorefrontHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	h.cart.RemoveFromCart(id)
	w.WriteHeader(http.StatusNoContent)
}

// ClearCart empties the cart.
func (h *StorefrontHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.cart.ClearCart()
	w.WriteHeader(http.StatusNoContent)
}

// Checkout validates the shipping form and places the order locally.
func (h *StorefrontHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var form service.ShippingForm
	if err := middleware.DecodeAndValidate(r, &form); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	confirmation, err := h.checkout.PlaceOrder(r.Context(), form)
	if err != nil {
		if errors.Is(err, service.ErrEmptyCart) {
			middleware.RespondWithError(w, http.StatusConflict, "cart is empty")
			return
		}
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		h.logger.Error("Checkout failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to place order")
		return
	}

	h.logger.Info("Order placed",
		zap.String("order_id", confirmation.OrderID),
		zap.Float64("total", confirmation.Total),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, confirmation)
}

func (h *StorefrontHandler) cartResponse() CartResponse {
	lines := h.cart.Lines()
	return CartResponse{
		Lines:     lines,
		ItemCount: domain.ItemCount(lines),
		Subtotal:  domain.Subtotal(lines),
		Shipping:  domain.ShippingFee(lines),
		Total:     domain.GrandTotal(lines),
	}
}
