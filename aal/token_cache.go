package aal

import "github.com/segmentio/fasthash/fnv1a"

type cachedTokens struct {
	text   string
	tokens []Token
	diags  []Diagnostic
}

// tokenCache memoizes Tokenize per exact statement text. Entries live until
// the engine is closed.
type tokenCache struct {
	buckets map[uint64][]*cachedTokens
	size    int
	hits    int
	misses  int
}

// CacheStats reports token cache usage.
type CacheStats struct {
	Entries int
	Hits    int
	Misses  int
}

func newTokenCache() *tokenCache {
	return &tokenCache{buckets: make(map[uint64][]*cachedTokens)}
}

func (c *tokenCache) get(stmt string) ([]Token, []Diagnostic) {
	key := fnv1a.HashString64(stmt)
	for _, entry := range c.buckets[key] {
		if entry.text == stmt {
			c.hits++
			return entry.tokens, entry.diags
		}
	}
	c.misses++
	tokens, diags := Tokenize(stmt)
	c.buckets[key] = append(c.buckets[key], &cachedTokens{text: stmt, tokens: tokens, diags: diags})
	c.size++
	return tokens, diags
}

func (c *tokenCache) stats() CacheStats {
	return CacheStats{Entries: c.size, Hits: c.hits, Misses: c.misses}
}

func (c *tokenCache) clear() {
	clear(c.buckets)
	c.size = 0
	c.hits = 0
	c.misses = 0
}
