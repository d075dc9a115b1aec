package storeserver

import (
	"time"

	cartdomain "github.com/beatforge/beatstore-api/internal/domains/cart/domain"
)

// CartResponse is the wire view of the cart aggregate with derived totals.
type CartResponse struct {
	Items           []LineItemResponse `json:"items"`
	PromoCode       string             `json:"promoCode,omitempty"`
	DiscountPercent float64            `json:"discountPercent"`
	Subtotal        float64            `json:"subtotal"`
	Tax             float64            `json:"tax"`
	Total           float64            `json:"total"`
	ItemCount       int                `json:"itemCount"`
}

// LineItemResponse is one cart line on the wire.
type LineItemResponse struct {
	ID       string      `json:"id"`
	BeatID   string      `json:"beatId"`
	BeatName string      `json:"beatName"`
	Tier     TierPayload `json:"tier"`
	Quantity int         `json:"quantity"`
	AddedAt  time.Time   `json:"addedAt"`
}

// TierPayload is the frozen pricing tier snapshot on the wire.
type TierPayload struct {
	Tier        string   `json:"tier"`
	LicenseType string   `json:"licenseType,omitempty"`
	Price       float64  `json:"price"`
	Description string   `json:"description,omitempty"`
	Features    []string `json:"features,omitempty"`
}

func fromCart(cart *cartdomain.Cart) CartResponse {
	resp := CartResponse{
		Items:           []LineItemResponse{},
		PromoCode:       cart.PromoCode,
		DiscountPercent: cart.DiscountPercent,
		Subtotal:        cart.Totals.Subtotal,
		Tax:             cart.Totals.Tax,
		Total:           cart.Totals.Total,
		ItemCount:       cart.ItemCount(),
	}
	for _, item := range cart.Items {
		resp.Items = append(resp.Items, LineItemResponse{
			ID:       item.ID,
			BeatID:   item.Beat.ID,
			BeatName: item.Beat.Name,
			Tier: TierPayload{
				Tier:        item.Tier.Tier,
				LicenseType: item.Tier.LicenseType,
				Price:       item.Tier.Price,
				Description: item.Tier.Description,
				Features:    item.Tier.Features,
			},
			Quantity: item.Quantity,
			AddedAt:  item.AddedAt,
		})
	}
	return resp
}
