package synth

import (
	"errors"
	"fmt"
	"path/filepath"
)

// ErrCycle reports a true cycle in the link graph. The recorded databases of
// a project that linked successfully should never contain one; failing fast
// beats reusing a partially-built entry.
var ErrCycle = errors.New("cycle in link graph")

// cache memoizes per-unit build results. Entries are written once; an
// in-progress marker catches recursion re-entering a node before its result
// exists.
type cache struct {
	results    map[string]Result
	inProgress map[string]bool
}

func newCache() *cache {
	return &cache{
		results:    make(map[string]Result),
		inProgress: make(map[string]bool),
	}
}

// key canonicalizes unit paths so lookups are spelling-independent.
func (c *cache) key(path string) string {
	return filepath.Clean(path)
}

func (c *cache) get(path string) (Result, bool) {
	r, ok := c.results[c.key(path)]
	return r, ok
}

// begin marks path as being synthesized; re-entry is a cycle.
func (c *cache) begin(path string) error {
	k := c.key(path)
	if c.inProgress[k] {
		return fmt.Errorf("%w: %s", ErrCycle, path)
	}
	c.inProgress[k] = true
	return nil
}

// finish records the result and clears the in-progress marker.
func (c *cache) finish(path string, r Result) Result {
	k := c.key(path)
	delete(c.inProgress, k)
	c.results[k] = r
	return r
}
