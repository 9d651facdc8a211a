package store

import (
	"testing"

	"github.com/shopperos/tastekit/config"
	"github.com/shopperos/tastekit/core"
)

func TestNewFromConfig(t *testing.T) {
	t.Run("disabled backends return nil", func(t *testing.T) {
		for _, backend := range []string{"", "none"} {
			s, err := NewFromConfig(config.Cache{Backend: backend})
			if err != nil {
				t.Fatalf("backend %q: %v", backend, err)
			}
			if s != nil {
				t.Errorf("backend %q: got %v, want nil store", backend, s)
			}
		}
	})

	t.Run("memory", func(t *testing.T) {
		s, err := NewFromConfig(config.Cache{Backend: "memory"})
		if err != nil {
			t.Fatalf("NewFromConfig: %v", err)
		}
		defer s.Close()
		if _, ok := s.(*MemoryStore); !ok {
			t.Errorf("got %T, want *MemoryStore", s)
		}
	})

	t.Run("unknown backend", func(t *testing.T) {
		if _, err := NewFromConfig(config.Cache{Backend: "memcached"}); !core.IsInvalidInput(err) {
			t.Errorf("got %v, want INVALID_INPUT", err)
		}
	})
}
