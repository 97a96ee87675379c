package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/lvonguyen/intelgraph/internal/config"
)

// TestNew_DisabledWithoutAddr verifies an empty address yields a working
// no-op cache.
func TestNew_DisabledWithoutAddr(t *testing.T) {
	c := New(config.RedisConfig{Addr: ""}, nil)

	if _, err := c.Get(context.Background(), Key([]byte("body"))); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("disabled cache should always miss, got %v", err)
	}

	// Set and Close must be safe no-ops.
	c.Set(context.Background(), Key([]byte("body")), []byte("payload"))
	if err := c.Close(); err != nil {
		t.Errorf("Close on disabled cache should be nil, got %v", err)
	}
}

// TestKey_DeterministicAndPrefixed verifies equal bodies share a key and the
// key carries the namespace prefix.
func TestKey_DeterministicAndPrefixed(t *testing.T) {
	a := Key([]byte(`{"events":[]}`))
	b := Key([]byte(`{"events":[]}`))
	if a != b {
		t.Errorf("equal bodies should share a key: %q vs %q", a, b)
	}
	if !strings.HasPrefix(a, keyPrefix) {
		t.Errorf("key %q should carry prefix %q", a, keyPrefix)
	}
	if a == Key([]byte(`{"events":[{}]}`)) {
		t.Error("different bodies should not share a key")
	}
}
