// ABOUTME: Key-value client wrapper over a pluggable storage backend
// ABOUTME: Adds locking, prefix enumeration, size accounting and an optional byte quota

package kv

import (
	"bytes"
	"errors"
	"sort"
	"sync"
	"unicode/utf8"
)

var (
	// ErrNotFound is returned by Get when the key does not exist.
	ErrNotFound = errors.New("kv: key not found")

	// ErrQuotaExceeded is returned when the backend or the client quota refuses a write.
	ErrQuotaExceeded = errors.New("kv: storage quota exceeded")
)

// Backend is the raw storage a Client delegates to.
type Backend interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
	Delete(key []byte) error
	Keys(prefix []byte) ([][]byte, error)
	Reset() error
	Close() error
}

// Client wraps a Backend with a lock and quota enforcement.
type Client struct {
	backend  Backend
	maxBytes int64
	mu       sync.RWMutex
}

// Option configures a Client.
type Option func(*Client)

// WithMaxBytes refuses writes that would grow the store past n bytes (UTF-16 accounting).
// Zero disables the check.
func WithMaxBytes(n int64) Option {
	return func(c *Client) {
		c.maxBytes = n
	}
}

// NewClient creates a client over the given backend.
func NewClient(backend Backend, opts ...Option) *Client {
	c := &Client{backend: backend}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close closes the underlying backend.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.backend.Close()
}

// Get retrieves a value by key.
func (c *Client) Get(key []byte) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.backend.Get(key)
}

// Set stores a value, enforcing the quota when one is configured.
func (c *Client) Set(key, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxBytes > 0 {
		used, err := c.sizeLocked()
		if err != nil {
			return err
		}
		var previous int64
		if old, err := c.backend.Get(key); err == nil {
			previous = EncodedSize(key) + EncodedSize(old)
		}
		if used-previous+EncodedSize(key)+EncodedSize(value) > c.maxBytes {
			return ErrQuotaExceeded
		}
	}

	return c.backend.Set(key, value)
}

// Delete removes a key. Deleting a missing key is not an error.
func (c *Client) Delete(key []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.backend.Delete(key)
}

// Keys returns all keys, sorted.
func (c *Client) Keys() ([][]byte, error) {
	return c.KeysWithPrefix(nil)
}

// KeysWithPrefix returns all keys starting with the given prefix, sorted bytewise.
func (c *Client) KeysWithPrefix(prefix []byte) ([][]byte, error) {
	c.mu.RLock()
	keys, err := c.backend.Keys(prefix)
	c.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i], keys[j]) < 0
	})
	return keys, nil
}

// Size sums the encoded size of every key and value in the store.
func (c *Client) Size() (int64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sizeLocked()
}

func (c *Client) sizeLocked() (int64, error) {
	keys, err := c.backend.Keys(nil)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, k := range keys {
		v, err := c.backend.Get(k)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return 0, err
		}
		total += EncodedSize(k) + EncodedSize(v)
	}
	return total, nil
}

// Reset wipes all data from the store. On redis only keys under the namespace go.
func (c *Client) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.backend.Reset()
}

// EncodedSize returns the byte size of b when held as UTF-16 text: two bytes per
// code unit, four for characters outside the basic multilingual plane.
func EncodedSize(b []byte) int64 {
	var units int64
	for len(b) > 0 {
		r, n := utf8.DecodeRune(b)
		if r >= 0x10000 {
			units += 2
		} else {
			units++
		}
		b = b[n:]
	}
	return units * 2
}
