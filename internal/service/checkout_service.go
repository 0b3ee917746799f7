package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shoppyglobe/internal/domain"
	"shoppyglobe/internal/store"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var (
	ErrEmptyCart = errors.New("cart is empty")
)

// ShippingForm is the minimal checkout form. Only full name, email and
// address are required; the remaining fields are optional.
type ShippingForm struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Address  string `json:"address" validate:"required"`
	City     string `json:"city"`
	ZipCode  string `json:"zip_code"`
}

// OrderConfirmation is the local "order placed" signal. No payment processing
// happens; the only side effect of a successful order is the cart clearing.
type OrderConfirmation struct {
	OrderID  string            `json:"order_id"`
	Lines    []domain.CartLine `json:"lines"`
	Subtotal float64           `json:"subtotal"`
	Shipping float64           `json:"shipping"`
	Total    float64           `json:"total"`
	PlacedAt time.Time         `json:"placed_at"`
}

// CheckoutService defines the checkout business logic.
type CheckoutService interface {
	PlaceOrder(ctx context.Context, form ShippingForm) (*OrderConfirmation, error)
}

type checkoutService struct {
	cart     *store.CartStore
	validate *validator.Validate
}

// NewCheckoutService creates a new instance of CheckoutService.
func NewCheckoutService(cart *store.CartStore) CheckoutService {
	return &checkoutService{
		cart:     cart,
		validate: validator.New(),
	}
}

// PlaceOrder validates the shipping form, snapshots the cart totals and
// clears the cart. On any failure the cart is left untouched.
func (s *checkoutService) PlaceOrder(ctx context.Context, form ShippingForm) (*OrderConfirmation, error) {
	lines := s.cart.Lines()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	if err := s.validate.Struct(form); err != nil {
		return nil, fmt.Errorf("invalid shipping form: %w", err)
	}

	confirmation := &OrderConfirmation{
		OrderID:  uuid.New().String(),
		Lines:    lines,
		Subtotal: domain.Subtotal(lines),
		Shipping: domain.ShippingFee(lines),
		Total:    domain.GrandTotal(lines),
		PlacedAt: time.Now().UTC(),
	}

	s.cart.ClearCart()

	return confirmation, nil
}
