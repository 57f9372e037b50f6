package registry

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	r := New()

	require.NoError(t, r.Register("network"))
	require.NoError(t, r.Register("ui"))

	assert.True(t, r.Contains("network"))
	assert.False(t, r.Contains("storage"))
	assert.Equal(t, []string{"network", "ui"}, r.Names())
}

func TestRegister_Duplicate(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("network"))

	err := r.Register("network")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicate))
	assert.Len(t, r.Names(), 1, "the set is unchanged on duplicate registration")
}

func TestRegister_Concurrent(t *testing.T) {
	r := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = r.Register(fmt.Sprintf("category-%d", n%10))
		}(i)
	}
	wg.Wait()

	assert.Len(t, r.Names(), 10, "each distinct name registers exactly once")
}
