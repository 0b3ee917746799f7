package domain

// ShippingFlatFee is charged once per order whenever the cart is non-empty.
const ShippingFlatFee = 15.0

// CartLine is one row in the cart, keyed by product id. The price is captured
// at add time and is not affected by later catalog changes.
type CartLine struct {
	ID        int     `json:"id"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Thumbnail string  `json:"thumbnail"`
	Quantity  int     `json:"quantity"`
}

// NewCartLine builds a cart line for a product with quantity 1. Category and
// description are intentionally not retained.
func NewCartLine(p Product) CartLine {
	return CartLine{
		ID:        p.ID,
		Title:     p.Title,
		Price:     p.Price,
		Thumbnail: p.Thumbnail,
		Quantity:  1,
	}
}

// LineTotal returns price multiplied by quantity for a single line.
func LineTotal(line CartLine) float64 {
	return line.Price * float64(line.Quantity)
}

// Subtotal sums the line totals of all lines.
func Subtotal(lines []CartLine) float64 {
	var total float64
	for _, line := range lines {
		total += LineTotal(line)
	}
	return total
}

// ItemCount sums the quantities of all lines.
func ItemCount(lines []CartLine) int {
	var count int
	for _, line := range lines {
		count += line.Quantity
	}
	return count
}

// ShippingFee returns the flat shipping fee, or zero for an empty order.
func ShippingFee(lines []CartLine) float64 {
	if Subtotal(lines) > 0 {
		return ShippingFlatFee
	}
	return 0
}

// GrandTotal returns subtotal plus shipping.
func GrandTotal(lines []CartLine) float64 {
	return Subtotal(lines) + ShippingFee(lines)
}
