package files

import (
	"sync"
)

// Reference is a cached reference-image payload: the base64-encoded bytes
// plus the MIME type the API needs alongside them.
type Reference struct {
	Data     string
	MimeType string
}

// RefCache caches reference-image payloads by resolved path so repeated
// tool calls against the same reference files skip redundant disk reads.
//
// Payloads are stored base64-encoded rather than decoded, since they are
// forwarded to the API verbatim. RefCache is safe for concurrent use.
type RefCache struct {
	mu   sync.RWMutex
	refs map[string]Reference
}

// NewRefCache creates an empty reference cache.
func NewRefCache() *RefCache {
	return &RefCache{refs: make(map[string]Reference)}
}

// Load returns the cached payload for a resolved path, reading and encoding
// the file on first use.
func (c *RefCache) Load(path string) (Reference, error) {
	c.mu.RLock()
	if ref, ok := c.refs[path]; ok {
		c.mu.RUnlock()
		return ref, nil
	}
	c.mu.RUnlock()

	data, err := ReadBase64(path)
	if err != nil {
		return Reference{}, err
	}
	ref := Reference{Data: data, MimeType: MimeType(path)}

	c.mu.Lock()
	c.refs[path] = ref
	c.mu.Unlock()

	return ref, nil
}
