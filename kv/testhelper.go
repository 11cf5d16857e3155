// ABOUTME: Test utilities for creating isolated key-value clients
// ABOUTME: Uses in-memory BadgerDB so tests never touch disk or a server

package kv

import (
	"testing"
)

// NewTestClient creates a client over an in-memory badger database.
// The database is closed when the test finishes.
func NewTestClient(t *testing.T, opts ...Option) *Client {
	t.Helper()

	backend, err := OpenBadgerInMemory()
	if err != nil {
		t.Fatalf("Failed to open badger: %v", err)
	}

	c := NewClient(backend, opts...)
	t.Cleanup(func() {
		if err := c.Close(); err != nil {
			t.Logf("Warning: failed to close test database: %v", err)
		}
	})
	return c
}
