package credentials

import "sync"

// SessionCache holds at most one resolved token for the lifetime of the
// process. The mutex guards only the slot itself, never a store query or a
// network call, so concurrent requests may resolve redundantly; the last
// write wins and correctness is unaffected.
type SessionCache struct {
	mu       sync.Mutex
	resolver Resolver
	token    *Token
}

func NewSessionCache(resolver Resolver) *SessionCache {
	return &SessionCache{resolver: resolver}
}

// GetOrResolve returns the cached token, querying the resolver only when the
// slot is empty.
func (c *SessionCache) GetOrResolve() (Token, error) {
	c.mu.Lock()
	if c.token != nil {
		tok := *c.token
		c.mu.Unlock()
		return tok, nil
	}
	c.mu.Unlock()

	tok, err := c.resolver.Resolve()
	if err != nil {
		return Token{}, err
	}

	c.mu.Lock()
	c.token = &tok
	c.mu.Unlock()
	return tok, nil
}

// Invalidate clears the slot so the next GetOrResolve re-queries the store.
// Safe to call whether or not a token is cached.
func (c *SessionCache) Invalidate() {
	c.mu.Lock()
	c.token = nil
	c.mu.Unlock()
}
