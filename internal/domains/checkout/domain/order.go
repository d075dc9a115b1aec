package domain

// OrderSummary is the finalized order returned by the verification
// collaborator after payment completion. Read-only to this service.
type OrderSummary struct {
	ID        string  `json:"id"`
	Total     float64 `json:"total"`
	ItemCount int     `json:"itemCount"`
	Email     string  `json:"email"`
}
