package memory

import (
	"context"
	"sync"

	"github.com/beatforge/beatstore-api/internal/domains/checkout/ports"
)

var _ ports.ProcessedSessions = (*ProcessedSessions)(nil)

// ProcessedSessions is an in-memory record of verified payment sessions.
type ProcessedSessions struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewProcessedSessions() *ProcessedSessions {
	return &ProcessedSessions{seen: map[string]struct{}{}}
}

// MarkProcessed returns true only for the first caller of a session id.
func (p *ProcessedSessions) MarkProcessed(_ context.Context, sessionID string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.seen[sessionID]; ok {
		return false, nil
	}
	p.seen[sessionID] = struct{}{}
	return true, nil
}
