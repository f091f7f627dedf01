package marketdata

import (
	"context"
	"fmt"
	"sync"

	"memescout/internal/domain"
)

// FixtureProvider replays canned observations keyed by token ID. Tokens
// can also be scripted to fail, which exercises the sync job's per-token
// failure isolation.
type FixtureProvider struct {
	mu           sync.Mutex
	observations map[string]Observation
	failures     map[string]error
}

// NewFixtureProvider creates an empty fixture provider.
func NewFixtureProvider() *FixtureProvider {
	return &FixtureProvider{
		observations: make(map[string]Observation),
		failures:     make(map[string]error),
	}
}

// Verify interface compliance at compile time.
var _ Provider = (*FixtureProvider)(nil)

// Set registers the observation returned for a token ID.
func (p *FixtureProvider) Set(tokenID string, obs Observation) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observations[tokenID] = obs
}

// FailWith makes Observe return err for a token ID.
func (p *FixtureProvider) FailWith(tokenID string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failures[tokenID] = err
}

// Observe returns the canned observation or scripted error for the token.
func (p *FixtureProvider) Observe(_ context.Context, t *domain.Token) (Observation, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err, ok := p.failures[t.ID]; ok {
		return Observation{}, err
	}
	if obs, ok := p.observations[t.ID]; ok {
		return obs, nil
	}
	return Observation{}, fmt.Errorf("no fixture observation for token %s", t.ID)
}
