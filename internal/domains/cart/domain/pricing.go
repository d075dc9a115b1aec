package domain

// TaxRate is the flat rate applied to the discounted subtotal.
const TaxRate = 0.10

// Totals carries the derived pricing fields of a cart. Callers never set
// these directly; they are recomputed from the full item list after every
// mutation so repeated partial updates cannot accumulate drift.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// ComputeTotals derives subtotal, tax, and total from the item list and the
// active discount percentage. Pure function, no error cases: inputs are
// well-formed by construction.
func ComputeTotals(items []LineItem, discountPercent float64) Totals {
	var subtotal float64
	for _, item := range items {
		subtotal += item.Tier.Price * float64(item.Quantity)
	}
	discounted := subtotal - subtotal*(discountPercent/100)
	tax := discounted * TaxRate
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    discounted + tax,
	}
}
