// Package regex compiles and caches the patterns used by the sub named operator.
package regex

import (
	"strconv"
	"strings"
	"sync"

	"github.com/coregx/coregex"
)

// DefaultCacheSize bounds the package-level cache.
const DefaultCacheSize = 128

var defaultCache = NewCache(DefaultCacheSize)

// Compile returns the compiled form of pattern from the package-level cache.
func Compile(pattern string) (*coregex.Regexp, error) {
	return defaultCache.Get(pattern)
}

// Cache holds compiled patterns. Reads are lock-free; once full, the oldest
// entry is evicted on insert.
type Cache struct {
	entries sync.Map

	mu      sync.Mutex
	order   []string
	maxSize int
}

func NewCache(maxSize int) *Cache {
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}
	return &Cache{maxSize: maxSize, order: make([]string, 0, maxSize)}
}

// Get compiles pattern on first use and returns the cached value afterwards.
func (c *Cache) Get(pattern string) (*coregex.Regexp, error) {
	if re, ok := c.entries.Load(pattern); ok {
		return re.(*coregex.Regexp), nil
	}

	re, err := coregex.Compile(pattern)
	if err != nil {
		return nil, err
	}

	if existing, loaded := c.entries.LoadOrStore(pattern, re); loaded {
		return existing.(*coregex.Regexp), nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.order = append(c.order, pattern)
	for len(c.order) > c.maxSize {
		oldest := c.order[0]
		c.order = c.order[1:]
		c.entries.Delete(oldest)
	}
	return re, nil
}

// Len returns the number of cached patterns.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.order)
}

// Substitute replaces every match of re in s with repl, where \N stands for
// the text of group N and \\ for a backslash. Everything else in repl,
// including $, is literal. The second result is false when re does not
// match or the replacement leaves s unchanged.
func Substitute(re *coregex.Regexp, s, repl string) (string, bool) {
	if !re.MatchString(s) {
		return s, false
	}
	matches := re.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s, false
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(s[last:m[0]])
		expand(&b, repl, s, m)
		last = m[1]
	}
	b.WriteString(s[last:])

	out := b.String()
	return out, out != s
}

// expand writes repl for one match; m holds the submatch index pairs.
// References to groups that did not take part in the match are empty.
func expand(b *strings.Builder, repl, s string, m []int) {
	for i := 0; i < len(repl); i++ {
		c := repl[i]
		if c != '\\' || i+1 == len(repl) {
			b.WriteByte(c)
			continue
		}

		switch next := repl[i+1]; {
		case next == '\\':
			b.WriteByte('\\')
			i++
		case isDigit(next):
			j := i + 1
			for j < len(repl) && isDigit(repl[j]) {
				j++
			}
			if group, err := strconv.Atoi(repl[i+1 : j]); err == nil && 2*group+1 < len(m) && m[2*group] >= 0 {
				b.WriteString(s[m[2*group]:m[2*group+1]])
			}
			i = j - 1
		default:
			b.WriteByte(c)
		}
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
