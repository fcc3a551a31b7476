// Package oauth tracks short-lived login state values used to protect
// OAuth redirect flows against CSRF.
package oauth

import (
	"sync"
	"time"

	"github.com/uksimracing/website/pkg/stringutil"
)

const stateMaxAge = time.Second * 120

type LoginStateTracker struct {
	stateMap   map[string]time.Time
	stateMapMu *sync.Mutex
}

func NewLoginStateTracker() *LoginStateTracker {
	return &LoginStateTracker{
		stateMap:   map[string]time.Time{},
		stateMapMu: &sync.Mutex{},
	}
}

// Create registers and returns a new random state value.
func (t *LoginStateTracker) Create() string {
	state := stringutil.SecureRandomString(24)

	t.stateMapMu.Lock()
	t.stateMap[state] = time.Now()
	t.stateMapMu.Unlock()

	return state
}

// Valid consumes a state value, returning true if it was issued recently.
// Only one lookup is allowed per state.
func (t *LoginStateTracker) Valid(state string) bool {
	t.removeExpired()

	t.stateMapMu.Lock()
	defer t.stateMapMu.Unlock()

	_, found := t.stateMap[state]

	delete(t.stateMap, state)

	return found
}

func (t *LoginStateTracker) removeExpired() {
	t.stateMapMu.Lock()
	defer t.stateMapMu.Unlock()

	for state, created := range t.stateMap {
		if time.Since(created) > stateMaxAge {
			delete(t.stateMap, state)
		}
	}
}
