// Package webhook receives relayed Discord messages and bot stat pushes,
// gated by the shared secret header.
package webhook

import (
	"sync"
	"time"
)

const SecretHeader = "X-Webhook-Secret" //nolint:gosec

// defaultMemberCount is shown until the bot pushes a real figure.
const defaultMemberCount = 2200

// Stats holds process-lifetime community stats pushed by the bot.
type Stats struct {
	mu          sync.RWMutex
	memberCount int
	updatedOn   time.Time
}

func NewStats() *Stats {
	return &Stats{memberCount: defaultMemberCount}
}

func (s *Stats) SetMemberCount(count int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.memberCount = count
	s.updatedOn = time.Now()
}

func (s *Stats) MemberCount() (int, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.memberCount, s.updatedOn
}
