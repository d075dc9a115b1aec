package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrEmptyBeatID     = errors.New("beat id must not be empty")
	ErrEmptyTierLabel  = errors.New("pricing tier label must not be empty")
	ErrNegativePrice   = errors.New("pricing tier price must not be negative")
	ErrInvalidDiscount = errors.New("discount percent must be between 0 and 100")
	ErrEmptyPromoCode  = errors.New("promo code must not be empty")
)

// BeatRef is the catalog summary attached to a line item for display.
type BeatRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PricingTier is a named license option for a beat. Once attached to a line
// item it is a frozen snapshot: later catalog price changes do not affect
// items already in the cart.
type PricingTier struct {
	Tier        string   `json:"tier"`
	LicenseType string   `json:"licenseType,omitempty"`
	Price       float64  `json:"price"`
	Description string   `json:"description,omitempty"`
	Features    []string `json:"features,omitempty"`
}

// Validate enforces the tier value-type invariants.
func (t PricingTier) Validate() error {
	if strings.TrimSpace(t.Tier) == "" {
		return ErrEmptyTierLabel
	}
	if t.Price < 0 {
		return ErrNegativePrice
	}
	return nil
}

// LineItem is one (beat, pricing tier, quantity) entry. Its identity is the
// composite of beat id and tier label; at most one line item exists per pair.
type LineItem struct {
	ID       string      `json:"id"`
	Beat     BeatRef     `json:"beat"`
	Tier     PricingTier `json:"selectedTier"`
	Quantity int         `json:"quantity"`
	AddedAt  time.Time   `json:"addedAt"`
}

// LineItemID builds the composite identity for a (beat, tier) pair.
func LineItemID(beatID, tierLabel string) string {
	return fmt.Sprintf("%s-%s", beatID, tierLabel)
}

// Snapshot is the persisted cart layout. Totals are deliberately absent:
// they are re-derived on load so the derived-field invariant survives
// serialization round trips.
type Snapshot struct {
	Items           []LineItem `json:"items"`
	PromoCode       string     `json:"promoCode,omitempty"`
	DiscountPercent float64    `json:"discountPercent"`
}

// Cart is the shopping cart aggregate: ordered line items (insertion order
// is display order), at most one active promo code, and derived totals that
// always equal ComputeTotals over the current items and discount.
type Cart struct {
	Items           []LineItem
	PromoCode       string
	DiscountPercent float64
	Totals          Totals
}

// NewCart returns an empty cart with zeroed totals.
func NewCart() *Cart {
	return &Cart{}
}

// FromSnapshot rebuilds a cart from its persisted layout, recomputing the
// derived totals instead of trusting anything stored.
func FromSnapshot(snap Snapshot) *Cart {
	c := &Cart{
		Items:           append([]LineItem(nil), snap.Items...),
		PromoCode:       snap.PromoCode,
		DiscountPercent: snap.DiscountPercent,
	}
	c.recalculate()
	return c
}

// Snapshot extracts the persistable state of the cart.
func (c *Cart) Snapshot() Snapshot {
	return Snapshot{
		Items:           append([]LineItem(nil), c.Items...),
		PromoCode:       c.PromoCode,
		DiscountPercent: c.DiscountPercent,
	}
}

// AddItem appends a new line item with quantity 1, or increments the
// quantity when a line item for the same (beat, tier) pair already exists.
// The returned flag reports whether a new line item was created.
func (c *Cart) AddItem(beat BeatRef, tier PricingTier, now time.Time) (LineItem, bool, error) {
	if strings.TrimSpace(beat.ID) == "" {
		return LineItem{}, false, ErrEmptyBeatID
	}
	if err := tier.Validate(); err != nil {
		return LineItem{}, false, err
	}
	id := LineItemID(beat.ID, tier.Tier)
	for i := range c.Items {
		if c.Items[i].ID == id {
			c.Items[i].Quantity++
			c.recalculate()
			return c.Items[i], false, nil
		}
	}
	item := LineItem{
		ID:       id,
		Beat:     beat,
		Tier:     tier,
		Quantity: 1,
		AddedAt:  now,
	}
	c.Items = append(c.Items, item)
	c.recalculate()
	return item, true, nil
}

// RemoveItem deletes the matching line item. Removing an absent item is a
// no-op, not an error; the flag reports whether anything was removed.
func (c *Cart) RemoveItem(itemID string) (LineItem, bool) {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			removed := c.Items[i]
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.recalculate()
			return removed, true
		}
	}
	return LineItem{}, false
}

// UpdateQuantity sets the quantity of a line item. Quantities below 1
// delegate to removal so no line item can survive with quantity < 1.
func (c *Cart) UpdateQuantity(itemID string, quantity int) bool {
	if quantity < 1 {
		_, removed := c.RemoveItem(itemID)
		return removed
	}
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items[i].Quantity = quantity
			c.recalculate()
			return true
		}
	}
	return false
}

// Clear empties the cart, drops the promo code, and zeroes totals.
func (c *Cart) Clear() {
	c.Items = nil
	c.PromoCode = ""
	c.DiscountPercent = 0
	c.recalculate()
}

// IsEmpty reports whether the cart has no line items.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// ItemCount sums line item quantities, not distinct line items.
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// ApplyPromo activates a validated promo code. A new code atomically
// replaces any previous one; the old discount is fully superseded.
func (c *Cart) ApplyPromo(code string, discountPercent float64) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return ErrEmptyPromoCode
	}
	if discountPercent < 0 || discountPercent > 100 {
		return ErrInvalidDiscount
	}
	c.PromoCode = code
	c.DiscountPercent = discountPercent
	c.recalculate()
	return nil
}

// RemovePromo clears the active promo code and its discount.
func (c *Cart) RemovePromo() {
	c.PromoCode = ""
	c.DiscountPercent = 0
	c.recalculate()
}

func (c *Cart) recalculate() {
	c.Totals = ComputeTotals(c.Items, c.DiscountPercent)
}
