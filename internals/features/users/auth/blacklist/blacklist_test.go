package blacklist

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRevoke(t *testing.T) {
	s := NewInMemoryStore()

	assert.False(t, s.IsRevoked("tok"))
	s.Revoke("tok")
	assert.True(t, s.IsRevoked("tok"))
	assert.Equal(t, 1, s.Size())

	// revoking twice is a no-op
	s.Revoke("tok")
	assert.Equal(t, 1, s.Size())
}

func TestRevokeEmptyTokenIgnored(t *testing.T) {
	s := NewInMemoryStore()
	s.Revoke("")
	s.Track(1, "")
	assert.Equal(t, 0, s.Size())
}

func TestRevokeAllForUser(t *testing.T) {
	s := NewInMemoryStore()
	s.Track(1, "a")
	s.Track(1, "b")
	s.Track(2, "c")

	s.RevokeAllForUser(1)

	assert.True(t, s.IsRevoked("a"))
	assert.True(t, s.IsRevoked("b"))
	assert.False(t, s.IsRevoked("c"))

	// tokens tracked after the sweep are live again
	s.Track(1, "d")
	s.RevokeAllForUser(1)
	assert.True(t, s.IsRevoked("d"))
}

func TestConcurrentAccess(t *testing.T) {
	s := NewInMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			tok := fmt.Sprintf("tok-%d", n)
			s.Track(uint(n%5), tok)
			s.Revoke(tok)
			_ = s.IsRevoked(tok)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 50, s.Size())
}
