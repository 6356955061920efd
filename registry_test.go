package analyticord

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryRegisterIsIdempotent(t *testing.T) {
	r := NewEventRegistry()
	a, err := r.Register("guildJoin")
	require.NoError(t, err)
	a.Increment()

	b, err := r.Register("guildJoin")
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.EqualValues(t, 1, b.Count(), "re-registering must not reset the count")
	assert.Equal(t, 1, r.Len())
}

func TestRegistryRejectsEmptyName(t *testing.T) {
	r := NewEventRegistry()
	for _, name := range []string{"", "   "} {
		_, err := r.Register(name)
		assert.ErrorIs(t, err, ErrInvalidEventName)
	}
	assert.Zero(t, r.Len())
}

func TestRegistryLookupAndOrder(t *testing.T) {
	r := NewEventRegistry()
	for _, name := range []string{"messages", "guildJoin", "commands"} {
		_, err := r.Register(name)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"commands", "guildJoin", "messages"}, r.Names())

	counters := r.Counters()
	require.Len(t, counters, 3)
	assert.Equal(t, "commands", counters[0].Name())

	_, ok := r.Get("guildLeave")
	assert.False(t, ok)
	c, ok := r.Get("guildJoin")
	assert.True(t, ok)
	assert.Equal(t, "guildJoin", c.Name())
}

func TestRegistryConcurrentRegister(t *testing.T) {
	r := NewEventRegistry()

	const n = 32
	got := make([]*EventCounter, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := r.Register("messages")
			assert.NoError(t, err)
			got[i] = c
		}(i)
	}
	wg.Wait()

	for _, c := range got[1:] {
		assert.Same(t, got[0], c)
	}
}
