package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/beatforge/beatstore-api/internal/domains/cart/ports"
)

var _ ports.PromoValidator = (*PromoValidator)(nil)

// PromoValidator resolves promo codes against a fixed table. It backs local
// development and tests when no promo API base URL is configured.
type PromoValidator struct {
	mu    sync.RWMutex
	codes map[string]float64
}

func NewPromoValidator() *PromoValidator {
	return &PromoValidator{codes: map[string]float64{
		"SAVE10":    10,
		"SAVE20":    20,
		"WELCOME15": 15,
		"CYBER30":   30,
	}}
}

func (v *PromoValidator) Validate(_ context.Context, code string) (float64, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	discount, ok := v.codes[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return 0, ports.ErrPromoRejected
	}
	return discount, nil
}

// SetCode registers or overrides a promo code, mainly for tests.
func (v *PromoValidator) SetCode(code string, discount float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.codes[strings.ToUpper(code)] = discount
}
